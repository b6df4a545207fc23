package sink

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/scribe-bot/scribe/internal/airtable"
	"github.com/scribe-bot/scribe/internal/models"
)

// Airtable column names for the submissions table.
const (
	airtableFieldTemplateID = "ID Шаблона"
	airtableFieldUser       = "Пользователь"
	airtableFieldDate       = "Дата запроса"
	airtableFieldData       = "Данные пользователя"
	airtableFieldText       = "Готовый текст"
)

// AirtableSink writes submissions to an Airtable table.
type AirtableSink struct {
	client *airtable.Client
	table  string
}

// NewAirtableSink creates a sink backed by the given table.
func NewAirtableSink(client *airtable.Client, table string) *AirtableSink {
	return &AirtableSink{client: client, table: table}
}

// Create inserts the submission as a new row. The collected field map
// is stored as a JSON object in a single text column.
func (s *AirtableSink) Create(ctx context.Context, submission *models.Submission) error {
	if err := submission.Validate(); err != nil {
		return err
	}

	data, err := json.Marshal(submission.Fields)
	if err != nil {
		return fmt.Errorf("encode submission fields: %w", err)
	}

	fields := map[string]any{
		airtableFieldTemplateID: submission.TemplateID,
		airtableFieldUser:       submission.UserID,
		airtableFieldDate:       submission.CreatedAtString(),
		airtableFieldData:       string(data),
		airtableFieldText:       submission.RenderedText,
	}

	if err := s.client.CreateRecord(ctx, s.table, fields); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}
