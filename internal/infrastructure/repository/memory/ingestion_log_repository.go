package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/riskibarqy/fixture-sync/internal/domain/ingestionlog"
)

type IngestionLogRepository struct {
	mu     sync.RWMutex
	runs   map[int64]ingestionlog.Run
	nextID int64
}

func NewIngestionLogRepository() *IngestionLogRepository {
	return &IngestionLogRepository{runs: make(map[int64]ingestionlog.Run)}
}

func (r *IngestionLogRepository) Create(_ context.Context, run ingestionlog.Run) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	run.ID = r.nextID
	r.runs[run.ID] = run
	return run.ID, nil
}

func (r *IngestionLogRepository) UpdateProgress(_ context.Context, id int64, processed int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	run, ok := r.runs[id]
	if !ok {
		return fmt.Errorf("ingestion log id=%d not found", id)
	}
	run.RecordsProcessed = processed
	r.runs[id] = run
	return nil
}

func (r *IngestionLogRepository) Complete(_ context.Context, id int64, status ingestionlog.Status, processed int, errorMessage *string, completedAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	run, ok := r.runs[id]
	if !ok {
		return fmt.Errorf("ingestion log id=%d not found", id)
	}
	run.Status = status
	run.RecordsProcessed = processed
	run.ErrorMessage = errorMessage
	run.CompletedAt = &completedAt
	r.runs[id] = run
	return nil
}

func (r *IngestionLogRepository) GetByID(_ context.Context, id int64) (ingestionlog.Run, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	run, ok := r.runs[id]
	return run, ok, nil
}
