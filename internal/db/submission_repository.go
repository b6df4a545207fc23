package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/scribe-bot/scribe/internal/models"
)

// Submission repository errors.
var ErrSubmissionNotFound = errors.New("submission not found")

// SubmissionRepository handles submission persistence.
type SubmissionRepository struct {
	db *DB
}

// NewSubmissionRepository creates a new SubmissionRepository.
func NewSubmissionRepository(db *DB) *SubmissionRepository {
	return &SubmissionRepository{db: db}
}

// Create inserts a submission, assigning an ID and timestamp when
// they are missing.
func (r *SubmissionRepository) Create(ctx context.Context, submission *models.Submission) error {
	if err := submission.Validate(); err != nil {
		return err
	}

	if submission.ID == "" {
		submission.ID = uuid.New().String()
	}
	if submission.CreatedAt.IsZero() {
		submission.CreatedAt = time.Now().UTC()
	} else {
		submission.CreatedAt = submission.CreatedAt.UTC()
	}

	fieldsJSON, err := json.Marshal(submission.Fields)
	if err != nil {
		return fmt.Errorf("failed to marshal fields: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO submissions (
			id, template_id, user_id, created_at, fields_json, rendered_text
		) VALUES (?, ?, ?, ?, ?, ?)
	`,
		submission.ID,
		submission.TemplateID,
		submission.UserID,
		submission.CreatedAt.Format(time.RFC3339),
		string(fieldsJSON),
		submission.RenderedText,
	)
	if err != nil {
		return fmt.Errorf("failed to insert submission: %w", err)
	}
	return nil
}

// Get retrieves a submission by ID.
func (r *SubmissionRepository) Get(ctx context.Context, id string) (*models.Submission, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, template_id, user_id, created_at, fields_json, rendered_text
		FROM submissions WHERE id = ?
	`, id)

	submission, err := scanSubmission(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSubmissionNotFound
		}
		return nil, err
	}
	return submission, nil
}

// ListByUser retrieves a user's submissions, newest first.
func (r *SubmissionRepository) ListByUser(ctx context.Context, userID string, limit int) ([]*models.Submission, error) {
	if limit <= 0 {
		limit = 100
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, template_id, user_id, created_at, fields_json, rendered_text
		FROM submissions
		WHERE user_id = ?
		ORDER BY created_at DESC
		LIMIT ?
	`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query submissions: %w", err)
	}
	defer rows.Close()

	var submissions []*models.Submission
	for rows.Next() {
		submission, err := scanSubmission(rows.Scan)
		if err != nil {
			return nil, err
		}
		submissions = append(submissions, submission)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating submissions: %w", err)
	}
	return submissions, nil
}

func scanSubmission(scan func(...any) error) (*models.Submission, error) {
	var submission models.Submission
	var createdAt, fieldsJSON string

	if err := scan(
		&submission.ID,
		&submission.TemplateID,
		&submission.UserID,
		&createdAt,
		&fieldsJSON,
		&submission.RenderedText,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan submission: %w", err)
	}

	if t, err := time.Parse(time.RFC3339, createdAt); err == nil {
		submission.CreatedAt = t
	}
	if err := json.Unmarshal([]byte(fieldsJSON), &submission.Fields); err != nil {
		return nil, fmt.Errorf("failed to parse submission fields: %w", err)
	}
	return &submission, nil
}
