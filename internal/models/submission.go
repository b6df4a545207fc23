package models

import (
	"strings"
	"time"
)

// SubmissionTimeFormat is the fixed timestamp layout written to the sink.
const SubmissionTimeFormat = "2006-01-02 15:04:05"

// Submission is the immutable record of a completed dialogue cycle.
// It is created once, when the last field value is accepted, and never
// mutated afterwards.
type Submission struct {
	// ID is the unique identifier for the submission.
	ID string `json:"id"`

	// TemplateID is the template the submission was rendered from.
	TemplateID string `json:"template_id"`

	// UserID is the identity of the user who completed the dialogue.
	UserID string `json:"user_id"`

	// CreatedAt is when the submission was built.
	CreatedAt time.Time `json:"created_at"`

	// Fields is the snapshot of collected field values.
	Fields map[string]string `json:"fields"`

	// RenderedText is the final substituted document text.
	RenderedText string `json:"rendered_text"`
}

// Validate checks if the submission is valid.
func (s *Submission) Validate() error {
	validation := &ValidationErrors{}
	if strings.TrimSpace(s.TemplateID) == "" {
		validation.AddMessage("template_id", "template id is required")
	}
	if strings.TrimSpace(s.UserID) == "" {
		validation.AddMessage("user_id", "user id is required")
	}
	return validation.Err()
}

// CreatedAtString formats the creation time in the sink's fixed layout.
func (s *Submission) CreatedAtString() string {
	return s.CreatedAt.UTC().Format(SubmissionTimeFormat)
}
