package postgres

import (
	"database/sql"
	"time"

	"github.com/riskibarqy/fixture-sync/internal/domain/ingestionlog"
)

var ingestionLogColumns = []string{
	"id",
	"source",
	"entity_type",
	"status",
	"records_processed",
	"error_message",
	"started_at",
	"completed_at",
	"created_at",
}

type ingestionLogTableModel struct {
	ID               int64          `db:"id"`
	Source           string         `db:"source"`
	EntityType       string         `db:"entity_type"`
	Status           string         `db:"status"`
	RecordsProcessed int            `db:"records_processed"`
	ErrorMessage     sql.NullString `db:"error_message"`
	StartedAt        time.Time      `db:"started_at"`
	CompletedAt      sql.NullTime   `db:"completed_at"`
	CreatedAt        time.Time      `db:"created_at"`
}

type ingestionLogInsertModel struct {
	Source           string    `db:"source"`
	EntityType       string    `db:"entity_type"`
	Status           string    `db:"status"`
	RecordsProcessed int       `db:"records_processed"`
	StartedAt        time.Time `db:"started_at"`
}

func (m ingestionLogTableModel) toDomain() ingestionlog.Run {
	out := ingestionlog.Run{
		ID:               m.ID,
		Source:           m.Source,
		EntityType:       m.EntityType,
		Status:           ingestionlog.Status(m.Status),
		RecordsProcessed: m.RecordsProcessed,
		ErrorMessage:     nullStringPtr(m.ErrorMessage),
		StartedAt:        m.StartedAt,
		CreatedAt:        m.CreatedAt,
	}
	if m.CompletedAt.Valid {
		completedAt := m.CompletedAt.Time
		out.CompletedAt = &completedAt
	}
	return out
}
