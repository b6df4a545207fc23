package db

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/scribe-bot/scribe/internal/models"
)

func TestEventRepositoryCreate(t *testing.T) {
	ctx := context.Background()
	repo := NewEventRepository(openTestDB(t))

	payload, _ := json.Marshal(models.SubmissionCreatedPayload{
		SubmissionID: "sub-1",
		TemplateID:   "t1",
		UserID:       "user-1",
	})
	event := &models.Event{
		Type:       models.EventTypeSubmissionCreated,
		EntityType: models.EntityTypeSubmission,
		EntityID:   "sub-1",
		Payload:    payload,
		Metadata:   map[string]string{"source": "test"},
	}

	if err := repo.Create(ctx, event); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if event.ID == "" {
		t.Error("expected ID to be set")
	}

	got, err := repo.Get(ctx, event.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Type != models.EventTypeSubmissionCreated {
		t.Fatalf("unexpected type: %q", got.Type)
	}
	if got.Metadata["source"] != "test" {
		t.Fatalf("unexpected metadata: %v", got.Metadata)
	}
}

func TestEventRepositoryCreateInvalid(t *testing.T) {
	repo := NewEventRepository(openTestDB(t))

	err := repo.Create(context.Background(), &models.Event{Type: models.EventTypeError})
	if !errors.Is(err, ErrInvalidEvent) {
		t.Fatalf("expected ErrInvalidEvent, got %v", err)
	}
}

func TestEventRepositoryListByEntity(t *testing.T) {
	ctx := context.Background()
	repo := NewEventRepository(openTestDB(t))

	for _, eventType := range []models.EventType{
		models.EventTypeSessionStarted,
		models.EventTypeSessionCompleted,
	} {
		if err := repo.Create(ctx, &models.Event{
			Type:       eventType,
			EntityType: models.EntityTypeSession,
			EntityID:   "user-1",
		}); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}
	if err := repo.Create(ctx, &models.Event{
		Type:       models.EventTypeSessionStarted,
		EntityType: models.EntityTypeSession,
		EntityID:   "user-2",
	}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	got, err := repo.ListByEntity(ctx, models.EntityTypeSession, "user-1", 0)
	if err != nil {
		t.Fatalf("ListByEntity: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 events, got %d", len(got))
	}
}
