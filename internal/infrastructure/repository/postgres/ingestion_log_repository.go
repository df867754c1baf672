package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/fixture-sync/internal/domain/ingestionlog"
	qb "github.com/riskibarqy/fixture-sync/internal/platform/querybuilder"
)

type IngestionLogRepository struct {
	db *sqlx.DB
}

func NewIngestionLogRepository(db *sqlx.DB) *IngestionLogRepository {
	return &IngestionLogRepository{db: db}
}

func (r *IngestionLogRepository) Create(ctx context.Context, run ingestionlog.Run) (int64, error) {
	query, args, err := qb.InsertModel("data_ingestion_log", ingestionLogInsertModel{
		Source:           run.Source,
		EntityType:       run.EntityType,
		Status:           string(run.Status),
		RecordsProcessed: run.RecordsProcessed,
		StartedAt:        run.StartedAt.UTC(),
	}, "RETURNING id")
	if err != nil {
		return 0, fmt.Errorf("build insert ingestion log query: %w", err)
	}

	var id int64
	if err := r.db.GetContext(ctx, &id, query, args...); err != nil {
		return 0, storeError(err, "insert ingestion log source=%s entity=%s", run.Source, run.EntityType)
	}
	return id, nil
}

func (r *IngestionLogRepository) UpdateProgress(ctx context.Context, id int64, processed int) error {
	query, args, err := qb.Update("data_ingestion_log").
		Set("records_processed", processed).
		Where(qb.Eq("id", id)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build update ingestion log progress query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return storeError(err, "update ingestion log progress id=%d", id)
	}
	return nil
}

func (r *IngestionLogRepository) Complete(ctx context.Context, id int64, status ingestionlog.Status, processed int, errorMessage *string, completedAt time.Time) error {
	query, args, err := qb.Update("data_ingestion_log").
		Set("status", string(status)).
		Set("records_processed", processed).
		Set("error_message", nullableString(errorMessage)).
		Set("completed_at", completedAt.UTC()).
		Where(qb.Eq("id", id)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build complete ingestion log query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return storeError(err, "complete ingestion log id=%d", id)
	}
	return nil
}

func (r *IngestionLogRepository) GetByID(ctx context.Context, id int64) (ingestionlog.Run, bool, error) {
	query, args, err := qb.Select(ingestionLogColumns...).From("data_ingestion_log").
		Where(qb.Eq("id", id)).
		Limit(1).
		ToSQL()
	if err != nil {
		return ingestionlog.Run{}, false, fmt.Errorf("build get ingestion log query: %w", err)
	}

	var row ingestionLogTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return ingestionlog.Run{}, false, nil
		}
		return ingestionlog.Run{}, false, storeError(err, "get ingestion log id=%d", id)
	}
	return row.toDomain(), true, nil
}
