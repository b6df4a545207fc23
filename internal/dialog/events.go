// Package dialog implements the template-filling dialogue state machine.
package dialog

import "github.com/scribe-bot/scribe/internal/models"

// EventKind identifies an inbound dialogue event.
type EventKind string

const (
	// EventStart begins (or restarts) a dialogue cycle.
	EventStart EventKind = "start"

	// EventCancel resets the session, discarding progress.
	EventCancel EventKind = "cancel"

	// EventCategoryChosen carries the selected category name in Text.
	EventCategoryChosen EventKind = "category_chosen"

	// EventTemplateChosen carries the selected template ID in Text.
	EventTemplateChosen EventKind = "template_chosen"

	// EventFieldValue carries a field value in Text.
	EventFieldValue EventKind = "field_value"
)

// Event is one inbound dialogue event from the transport layer.
// UserID and Text are opaque strings; the transport owns their shape.
type Event struct {
	UserID string
	Kind   EventKind
	Text   string
}

// Reply is an outbound presentation event. The transport renders
// replies into platform-specific messages.
type Reply interface {
	isReply()
}

// CategoryList asks the user to pick a document category.
type CategoryList struct {
	Categories []string
}

// TemplateList asks the user to pick a template within a category.
type TemplateList struct {
	Category  string
	Templates []models.TemplateRef
}

// Notice is an informational or error message.
type Notice struct {
	Message string
}

// FieldPrompt asks the user for the value of one field.
type FieldPrompt struct {
	Field string
}

// RenderedText delivers the final substituted document.
type RenderedText struct {
	Text         string
	SubmissionID string
}

func (CategoryList) isReply() {}
func (TemplateList) isReply() {}
func (Notice) isReply()       {}
func (FieldPrompt) isReply()  {}
func (RenderedText) isReply() {}
