// Package events provides helper functions for logging Scribe events.
package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/scribe-bot/scribe/internal/models"
)

// Repository is the minimal interface needed to write events.
type Repository interface {
	Create(ctx context.Context, event *models.Event) error
}

// LogSessionStarted records the beginning of a dialogue cycle.
func LogSessionStarted(ctx context.Context, repo Repository, userID string) error {
	if repo == nil {
		return fmt.Errorf("event repository is required")
	}
	if userID == "" {
		return fmt.Errorf("user id is required")
	}

	return repo.Create(ctx, &models.Event{
		Type:       models.EventTypeSessionStarted,
		EntityType: models.EntityTypeSession,
		EntityID:   userID,
	})
}

// LogSessionCompleted records a finished dialogue cycle.
func LogSessionCompleted(ctx context.Context, repo Repository, userID string, payload models.SessionCompletedPayload) error {
	if repo == nil {
		return fmt.Errorf("event repository is required")
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal completion payload: %w", err)
	}

	return repo.Create(ctx, &models.Event{
		Type:       models.EventTypeSessionCompleted,
		EntityType: models.EntityTypeSession,
		EntityID:   userID,
		Payload:    data,
	})
}

// LogSubmissionCreated records a persisted submission.
func LogSubmissionCreated(ctx context.Context, repo Repository, submission *models.Submission) error {
	if repo == nil {
		return fmt.Errorf("event repository is required")
	}
	if submission == nil || submission.ID == "" {
		return fmt.Errorf("submission with id is required")
	}

	data, err := json.Marshal(models.SubmissionCreatedPayload{
		SubmissionID: submission.ID,
		TemplateID:   submission.TemplateID,
		UserID:       submission.UserID,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal submission payload: %w", err)
	}

	return repo.Create(ctx, &models.Event{
		Type:       models.EventTypeSubmissionCreated,
		EntityType: models.EntityTypeSubmission,
		EntityID:   submission.ID,
		Payload:    data,
	})
}

// LogSinkFailure records a best-effort persistence failure.
func LogSinkFailure(ctx context.Context, repo Repository, submissionID string, cause error) error {
	if repo == nil {
		return fmt.Errorf("event repository is required")
	}

	data, err := json.Marshal(models.SinkFailurePayload{
		SubmissionID: submissionID,
		Error:        cause.Error(),
	})
	if err != nil {
		return fmt.Errorf("failed to marshal sink failure payload: %w", err)
	}

	return repo.Create(ctx, &models.Event{
		Type:       models.EventTypeSinkFailure,
		EntityType: models.EntityTypeSubmission,
		EntityID:   submissionID,
		Payload:    data,
	})
}

// LogCatalogFailure records a catalog backend failure.
func LogCatalogFailure(ctx context.Context, repo Repository, operation string, cause error) error {
	if repo == nil {
		return fmt.Errorf("event repository is required")
	}

	data, err := json.Marshal(models.CatalogFailurePayload{
		Operation: operation,
		Error:     cause.Error(),
	})
	if err != nil {
		return fmt.Errorf("failed to marshal catalog failure payload: %w", err)
	}

	return repo.Create(ctx, &models.Event{
		Type:       models.EventTypeCatalogFailure,
		EntityType: models.EntityTypeSystem,
		EntityID:   "catalog",
		Payload:    data,
	})
}
