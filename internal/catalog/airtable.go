package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/scribe-bot/scribe/internal/airtable"
	"github.com/scribe-bot/scribe/internal/models"
)

// Airtable column names for the samples table.
const (
	airtableFieldCategory = "Категория"
	airtableFieldName     = "Название"
	airtableFieldVars     = "Список переменных"
	airtableFieldBody     = "Образец текста"
)

// AirtableCatalog reads template definitions from an Airtable table.
type AirtableCatalog struct {
	client *airtable.Client
	table  string
}

// NewAirtableCatalog creates a catalog backed by the given table.
func NewAirtableCatalog(client *airtable.Client, table string) *AirtableCatalog {
	return &AirtableCatalog{client: client, table: table}
}

// ListAll returns every template definition in the samples table.
func (c *AirtableCatalog) ListAll(ctx context.Context) ([]*models.TemplateDefinition, error) {
	records, err := c.client.ListRecords(ctx, c.table)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	defs := make([]*models.TemplateDefinition, 0, len(records))
	for i := range records {
		defs = append(defs, definitionFromRecord(&records[i]))
	}
	return defs, nil
}

// Get resolves one template definition by record ID.
func (c *AirtableCatalog) Get(ctx context.Context, id string) (*models.TemplateDefinition, error) {
	record, err := c.client.GetRecord(ctx, c.table, id)
	if err != nil {
		if errors.Is(err, airtable.ErrRecordNotFound) {
			return nil, ErrTemplateNotFound
		}
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return definitionFromRecord(record), nil
}

func definitionFromRecord(record *airtable.Record) *models.TemplateDefinition {
	name := record.StringField(airtableFieldName)
	if name == "" {
		name = record.StringField(airtableFieldCategory)
	}
	return &models.TemplateDefinition{
		ID:             record.ID,
		Category:       record.StringField(airtableFieldCategory),
		DisplayName:    name,
		RequiredFields: SplitFieldList(record.StringField(airtableFieldVars)),
		Body:           record.StringField(airtableFieldBody),
	}
}

// SplitFieldList parses the comma-and-space-separated field list used
// in the source table ("ФИО, Дата" → ["ФИО", "Дата"]). Blank entries
// are dropped.
func SplitFieldList(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	fields := make([]string, 0, len(parts))
	for _, part := range parts {
		field := strings.TrimSpace(part)
		if field == "" {
			continue
		}
		fields = append(fields, field)
	}
	return fields
}
