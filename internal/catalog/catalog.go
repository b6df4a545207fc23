// Package catalog provides read-only access to template definitions.
package catalog

import (
	"context"
	"errors"

	"github.com/scribe-bot/scribe/internal/models"
)

// Catalog errors.
var (
	ErrTemplateNotFound = errors.New("template not found")
	ErrUnavailable      = errors.New("catalog unavailable")
)

// Catalog is the read-only source of template definitions. Both calls
// hit the backing store every time; the dialogue deliberately does not
// cache menus across turns.
type Catalog interface {
	// ListAll returns every template definition.
	ListAll(ctx context.Context) ([]*models.TemplateDefinition, error)

	// Get resolves a single template by identifier.
	// Returns ErrTemplateNotFound when the ID does not resolve.
	Get(ctx context.Context, id string) (*models.TemplateDefinition, error)
}

// Categories returns the distinct category labels in first-seen order.
func Categories(defs []*models.TemplateDefinition) []string {
	seen := make(map[string]struct{}, len(defs))
	categories := make([]string, 0, len(defs))
	for _, def := range defs {
		if def.Category == "" {
			continue
		}
		if _, dup := seen[def.Category]; dup {
			continue
		}
		seen[def.Category] = struct{}{}
		categories = append(categories, def.Category)
	}
	return categories
}

// InCategory filters definitions to one category, preserving order.
func InCategory(defs []*models.TemplateDefinition, category string) []*models.TemplateDefinition {
	matched := make([]*models.TemplateDefinition, 0, len(defs))
	for _, def := range defs {
		if def.Category == category {
			matched = append(matched, def)
		}
	}
	return matched
}
