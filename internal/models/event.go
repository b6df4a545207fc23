package models

import (
	"encoding/json"
	"strings"
	"time"
)

// EventType categorizes events in the system.
type EventType string

const (
	// Session events
	EventTypeSessionStarted   EventType = "session.started"
	EventTypeSessionReset     EventType = "session.reset"
	EventTypeSessionCompleted EventType = "session.completed"
	EventTypeSessionExpired   EventType = "session.expired"

	// Submission events
	EventTypeSubmissionCreated EventType = "submission.created"

	// Collaborator events
	EventTypeCatalogFailure EventType = "catalog.failure"
	EventTypeSinkFailure    EventType = "sink.failure"

	// System events
	EventTypeError   EventType = "error"
	EventTypeWarning EventType = "warning"
)

// EntityType identifies the type of entity an event relates to.
type EntityType string

const (
	EntityTypeSession    EntityType = "session"
	EntityTypeSubmission EntityType = "submission"
	EntityTypeTemplate   EntityType = "template"
	EntityTypeSystem     EntityType = "system"
)

// Event represents an append-only log entry.
type Event struct {
	// ID is the unique identifier for the event.
	ID string `json:"id"`

	// Timestamp is when the event occurred.
	Timestamp time.Time `json:"timestamp"`

	// Type categorizes the event.
	Type EventType `json:"type"`

	// EntityType identifies what kind of entity this event relates to.
	EntityType EntityType `json:"entity_type"`

	// EntityID is the ID of the related entity.
	EntityID string `json:"entity_id"`

	// Payload contains event-specific data.
	Payload json.RawMessage `json:"payload,omitempty"`

	// Metadata contains additional context.
	Metadata map[string]string `json:"metadata,omitempty"`
}

// Validate checks if the event is valid.
func (e *Event) Validate() error {
	validation := &ValidationErrors{}
	if strings.TrimSpace(string(e.Type)) == "" {
		validation.AddMessage("type", "event type is required")
	}
	if strings.TrimSpace(string(e.EntityType)) == "" {
		validation.AddMessage("entity_type", "entity_type is required")
	}
	if strings.TrimSpace(e.EntityID) == "" {
		validation.AddMessage("entity_id", "entity_id is required")
	}
	return validation.Err()
}

// SessionCompletedPayload is the payload for session.completed events.
type SessionCompletedPayload struct {
	TemplateID   string `json:"template_id"`
	SubmissionID string `json:"submission_id"`
	FieldCount   int    `json:"field_count"`
}

// SubmissionCreatedPayload is the payload for submission.created events.
type SubmissionCreatedPayload struct {
	SubmissionID string `json:"submission_id"`
	TemplateID   string `json:"template_id"`
	UserID       string `json:"user_id"`
}

// CatalogFailurePayload is the payload for catalog.failure events.
type CatalogFailurePayload struct {
	Operation string `json:"operation"`
	Error     string `json:"error"`
}

// SinkFailurePayload is the payload for sink.failure events.
type SinkFailurePayload struct {
	SubmissionID string `json:"submission_id"`
	Error        string `json:"error"`
}

// ErrorPayload is the payload for error events.
type ErrorPayload struct {
	Error   string `json:"error"`
	Context string `json:"context,omitempty"`
}
