package sink

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/scribe-bot/scribe/internal/airtable"
	"github.com/scribe-bot/scribe/internal/models"
)

func testSubmission() *models.Submission {
	return &models.Submission{
		ID:         "sub-1",
		TemplateID: "t1",
		UserID:     "42",
		CreatedAt:  time.Date(2025, 1, 1, 12, 30, 0, 0, time.UTC),
		Fields: map[string]string{
			"ФИО":  "Иванов",
			"Дата": "01.01.2025",
		},
		RenderedText: "Я, Иванов, прошу рассмотреть заявление от 01.01.2025.",
	}
}

func TestAirtableSinkCreate(t *testing.T) {
	var payload map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Errorf("decode body: %v", err)
		}
		w.Write([]byte(`{"id":"rec1"}`))
	}))
	defer server.Close()

	client := airtable.NewClient("key", "base")
	client.BaseURL = server.URL
	s := NewAirtableSink(client, "data")

	if err := s.Create(context.Background(), testSubmission()); err != nil {
		t.Fatalf("Create: %v", err)
	}

	fields, ok := payload["fields"].(map[string]any)
	if !ok {
		t.Fatalf("missing fields in payload: %+v", payload)
	}
	if fields["ID Шаблона"] != "t1" || fields["Пользователь"] != "42" {
		t.Fatalf("unexpected identity columns: %+v", fields)
	}
	if fields["Дата запроса"] != "2025-01-01 12:30:00" {
		t.Fatalf("unexpected timestamp: %v", fields["Дата запроса"])
	}

	var data map[string]string
	if err := json.Unmarshal([]byte(fields["Данные пользователя"].(string)), &data); err != nil {
		t.Fatalf("field data is not JSON: %v", err)
	}
	if data["ФИО"] != "Иванов" {
		t.Fatalf("unexpected field data: %v", data)
	}
}

func TestAirtableSinkUnavailable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"INTERNAL"}`, http.StatusInternalServerError)
	}))
	defer server.Close()

	client := airtable.NewClient("key", "base")
	client.BaseURL = server.URL
	s := NewAirtableSink(client, "data")

	err := s.Create(context.Background(), testSubmission())
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
}
