// Package models defines the core data model for Scribe.
package models

import "strings"

// TemplateDefinition describes a document template served by the catalog.
// Definitions are read-only from the dialogue's perspective: once fetched
// within a session cycle they are never mutated.
type TemplateDefinition struct {
	// ID is the catalog identifier for the template.
	ID string `json:"id" yaml:"id"`

	// Category is the grouping label shown in the category menu.
	Category string `json:"category" yaml:"category"`

	// DisplayName is the human-readable template name.
	DisplayName string `json:"display_name" yaml:"name"`

	// RequiredFields lists the field names to collect, in prompt order.
	RequiredFields []string `json:"required_fields" yaml:"fields"`

	// Body is the raw template text with {{name}} placeholders.
	Body string `json:"body" yaml:"body"`
}

// Validate checks if the template definition is valid.
func (t *TemplateDefinition) Validate() error {
	validation := &ValidationErrors{}
	if strings.TrimSpace(t.ID) == "" {
		validation.AddMessage("id", "template id is required")
	}
	if strings.TrimSpace(t.Category) == "" {
		validation.AddMessage("category", "category is required")
	}
	seen := make(map[string]struct{}, len(t.RequiredFields))
	for _, field := range t.RequiredFields {
		if strings.TrimSpace(field) == "" {
			validation.AddMessage("fields", "field names must not be blank")
			continue
		}
		if _, dup := seen[field]; dup {
			validation.AddMessage("fields", "duplicate field name "+field)
		}
		seen[field] = struct{}{}
	}
	return validation.Err()
}

// TemplateRef is the minimal template identity shown in selection menus.
type TemplateRef struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
}

// Ref returns the menu entry for the template.
func (t *TemplateDefinition) Ref() TemplateRef {
	name := t.DisplayName
	if name == "" {
		name = t.ID
	}
	return TemplateRef{ID: t.ID, DisplayName: name}
}
