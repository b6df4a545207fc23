// Package sink persists completed submissions.
package sink

import (
	"context"
	"errors"

	"github.com/scribe-bot/scribe/internal/models"
)

// ErrUnavailable signals a transient persistence failure. Sink
// failures are best-effort relative to user-visible delivery: the
// dialogue still shows the rendered text and reports the failure
// through the event log.
var ErrUnavailable = errors.New("submission sink unavailable")

// Sink is the write-only collaborator that owns submissions after a
// completed dialogue cycle.
type Sink interface {
	Create(ctx context.Context, submission *models.Submission) error
}
