package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/riskibarqy/fixture-sync/internal/domain/ingestionlog"
	"github.com/riskibarqy/fixture-sync/internal/platform/logging"
)

// RunTracker records the lifecycle of a run. Callers log its errors and carry on.
type RunTracker interface {
	Start(ctx context.Context, startedAt time.Time) (int64, error)
	UpdateProgress(ctx context.Context, logID int64, processed int) error
	Complete(ctx context.Context, logID int64, status ingestionlog.Status, processed int, errorMessage string) error
}

// IngestionLogTracker writes runs to data_ingestion_log.
type IngestionLogTracker struct {
	repo       ingestionlog.Repository
	source     string
	entityType string
	now        func() time.Time
	logger     *logging.Logger
}

func NewIngestionLogTracker(repo ingestionlog.Repository, source, entityType string, now func() time.Time, logger *logging.Logger) *IngestionLogTracker {
	if now == nil {
		now = time.Now
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &IngestionLogTracker{
		repo:       repo,
		source:     strings.TrimSpace(source),
		entityType: strings.TrimSpace(entityType),
		now:        now,
		logger:     logger,
	}
}

func (t *IngestionLogTracker) Start(ctx context.Context, startedAt time.Time) (int64, error) {
	logID, err := t.repo.Create(ctx, ingestionlog.Run{
		Source:     t.source,
		EntityType: t.entityType,
		Status:     ingestionlog.StatusRunning,
		StartedAt:  startedAt,
		CreatedAt:  t.now().UTC(),
	})
	if err != nil {
		return 0, fmt.Errorf("create ingestion log: %w", err)
	}

	t.logger.InfoContext(ctx, "started ingestion", "source", t.source, "entity_type", t.entityType, "log_id", logID)
	return logID, nil
}

func (t *IngestionLogTracker) UpdateProgress(ctx context.Context, logID int64, processed int) error {
	if logID <= 0 {
		return nil
	}
	if err := t.repo.UpdateProgress(ctx, logID, processed); err != nil {
		return fmt.Errorf("update ingestion progress log_id=%d: %w", logID, err)
	}
	return nil
}

func (t *IngestionLogTracker) Complete(ctx context.Context, logID int64, status ingestionlog.Status, processed int, errorMessage string) error {
	if logID <= 0 {
		t.logger.WarnContext(ctx, "cannot complete ingestion: log id not set", "status", status)
		return nil
	}
	if !status.Terminal() {
		return fmt.Errorf("%w: status %q is not terminal", ErrInvalidInput, status)
	}

	var msg *string
	if trimmed := strings.TrimSpace(errorMessage); trimmed != "" {
		msg = &trimmed
	}
	if err := t.repo.Complete(ctx, logID, status, processed, msg, t.now().UTC()); err != nil {
		return fmt.Errorf("complete ingestion log_id=%d: %w", logID, err)
	}

	t.logger.InfoContext(ctx, "completed ingestion",
		"source", t.source,
		"entity_type", t.entityType,
		"log_id", logID,
		"status", status,
		"records", processed,
	)
	return nil
}
