package ingestionlog

import (
	"context"
	"time"
)

type Repository interface {
	Create(ctx context.Context, run Run) (int64, error)
	UpdateProgress(ctx context.Context, id int64, processed int) error
	Complete(ctx context.Context, id int64, status Status, processed int, errorMessage *string, completedAt time.Time) error
	GetByID(ctx context.Context, id int64) (Run, bool, error)
}
