package models

import "time"

// SessionState identifies where a dialogue session is in its cycle.
type SessionState string

const (
	// SessionStateIdle means no dialogue is in progress.
	SessionStateIdle SessionState = "idle"

	// SessionStateAwaitingCategory means the category menu was shown.
	SessionStateAwaitingCategory SessionState = "awaiting_category"

	// SessionStateAwaitingTemplate means the template menu was shown.
	SessionStateAwaitingTemplate SessionState = "awaiting_template"

	// SessionStateAwaitingFieldValue means a field prompt is outstanding.
	SessionStateAwaitingFieldValue SessionState = "awaiting_field_value"

	// SessionStateRendering is the transient state while a submission
	// is rendered and persisted.
	SessionStateRendering SessionState = "rendering"
)

// Session is the per-user dialogue state. The field currently being
// prompted for is always the head of PendingFields; a field leaves the
// queue exactly once, when its value is accepted into Values.
type Session struct {
	// UserID is the opaque transport-layer user identity.
	UserID string `json:"user_id"`

	// State is the current dialogue state.
	State SessionState `json:"state"`

	// Category is the selected category, if any.
	Category string `json:"category,omitempty"`

	// TemplateID is the selected template, set before PendingFields
	// is populated.
	TemplateID string `json:"template_id,omitempty"`

	// Template is the definition snapshot taken when the template was
	// selected. Definitions are immutable within a session cycle, so
	// rendering uses this snapshot rather than refetching.
	Template *TemplateDefinition `json:"-"`

	// PendingFields is the queue of field names still to collect,
	// in the template's declared order.
	PendingFields []string `json:"pending_fields,omitempty"`

	// Values maps collected field names to user-supplied text.
	Values map[string]string `json:"values,omitempty"`

	// CreatedAt is when the session was first created.
	CreatedAt time.Time `json:"created_at"`

	// UpdatedAt is when the session last processed an event.
	UpdatedAt time.Time `json:"updated_at"`
}

// NewSession returns a fresh idle session for the user.
func NewSession(userID string) *Session {
	now := time.Now().UTC()
	return &Session{
		UserID:    userID,
		State:     SessionStateIdle,
		Values:    make(map[string]string),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// CurrentField returns the field currently being prompted for.
func (s *Session) CurrentField() (string, bool) {
	if len(s.PendingFields) == 0 {
		return "", false
	}
	return s.PendingFields[0], true
}

// AcceptValue stores text for the head pending field and pops it from
// the queue. It reports false when no field is pending.
func (s *Session) AcceptValue(text string) bool {
	field, ok := s.CurrentField()
	if !ok {
		return false
	}
	if s.Values == nil {
		s.Values = make(map[string]string)
	}
	s.Values[field] = text
	s.PendingFields = s.PendingFields[1:]
	return true
}

// Reset returns the session to idle, discarding all in-progress data.
func (s *Session) Reset() {
	s.State = SessionStateIdle
	s.Category = ""
	s.TemplateID = ""
	s.Template = nil
	s.PendingFields = nil
	s.Values = make(map[string]string)
	s.UpdatedAt = time.Now().UTC()
}
