package sink

import (
	"context"
	"fmt"

	"github.com/scribe-bot/scribe/internal/db"
	"github.com/scribe-bot/scribe/internal/models"
)

// SQLiteSink archives submissions in the local database. Used for
// standalone deployments without an Airtable base.
type SQLiteSink struct {
	repo *db.SubmissionRepository
}

// NewSQLiteSink creates a sink over the submission repository.
func NewSQLiteSink(repo *db.SubmissionRepository) *SQLiteSink {
	return &SQLiteSink{repo: repo}
}

// Create stores the submission locally.
func (s *SQLiteSink) Create(ctx context.Context, submission *models.Submission) error {
	if err := s.repo.Create(ctx, submission); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}
