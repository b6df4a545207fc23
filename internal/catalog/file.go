package catalog

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/scribe-bot/scribe/internal/models"
)

// FileCatalog serves template definitions from a directory of YAML
// files, one definition per file. The directory is re-read on every
// call, so edits show up on the next dialogue turn.
type FileCatalog struct {
	dir string
}

// NewFileCatalog creates a catalog over the given directory.
func NewFileCatalog(dir string) *FileCatalog {
	return &FileCatalog{dir: dir}
}

// ListAll loads every definition in the directory, sorted by file name
// so menu order is stable.
func (c *FileCatalog) ListAll(ctx context.Context) ([]*models.TemplateDefinition, error) {
	defs, err := LoadDefinitionsFromDir(c.dir)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return defs, nil
}

// Get resolves one definition by ID.
func (c *FileCatalog) Get(ctx context.Context, id string) (*models.TemplateDefinition, error) {
	defs, err := LoadDefinitionsFromDir(c.dir)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	for _, def := range defs {
		if def.ID == id {
			return def, nil
		}
	}
	return nil, ErrTemplateNotFound
}

// LoadDefinition reads a single template definition from disk.
func LoadDefinition(path string) (*models.TemplateDefinition, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("definition path is required")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read definition %s: %w", path, err)
	}

	var def models.TemplateDefinition
	if err := yaml.Unmarshal(data, &def); err != nil {
		return nil, fmt.Errorf("parse definition %s: %w", path, err)
	}

	if def.ID == "" {
		base := filepath.Base(path)
		def.ID = strings.TrimSuffix(base, filepath.Ext(base))
	}
	if err := def.Validate(); err != nil {
		return nil, fmt.Errorf("invalid definition %s: %w", path, err)
	}
	return &def, nil
}

// LoadDefinitionsFromDir loads all definitions from a directory.
// A missing directory yields an empty catalog, not an error.
func LoadDefinitionsFromDir(dir string) ([]*models.TemplateDefinition, error) {
	if strings.TrimSpace(dir) == "" {
		return []*models.TemplateDefinition{}, nil
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return []*models.TemplateDefinition{}, nil
		}
		return nil, fmt.Errorf("read catalog dir %s: %w", dir, err)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if ext != ".yaml" && ext != ".yml" {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)

	defs := make([]*models.TemplateDefinition, 0, len(names))
	for _, name := range names {
		def, err := LoadDefinition(filepath.Join(dir, name))
		if err != nil {
			return nil, err
		}
		defs = append(defs, def)
	}
	return defs, nil
}
