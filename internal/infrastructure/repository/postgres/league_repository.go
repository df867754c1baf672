package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/fixture-sync/internal/domain/league"
	qb "github.com/riskibarqy/fixture-sync/internal/platform/querybuilder"
)

type LeagueRepository struct {
	db *sqlx.DB
}

func NewLeagueRepository(db *sqlx.DB) *LeagueRepository {
	return &LeagueRepository{db: db}
}

func (r *LeagueRepository) GetByName(ctx context.Context, name string) (league.League, bool, error) {
	query, args, err := qb.Select(leagueColumns...).From("leagues").
		Where(qb.Eq("name", name)).
		OrderBy("id").
		Limit(1).
		ToSQL()
	if err != nil {
		return league.League{}, false, fmt.Errorf("build get league by name query: %w", err)
	}

	var row leagueTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return league.League{}, false, nil
		}
		return league.League{}, false, storeError(err, "get league by name")
	}
	return row.toDomain(), true, nil
}

func (r *LeagueRepository) CreateIfAbsent(ctx context.Context, item league.League) (league.League, bool, error) {
	if err := item.Validate(); err != nil {
		return league.League{}, false, err
	}

	query, args, err := qb.InsertModel("leagues", leagueInsertModel{
		Name: item.Name,
		Type: item.Type,
	}, "ON CONFLICT (name) DO NOTHING RETURNING "+strings.Join(leagueColumns, ", "))
	if err != nil {
		return league.League{}, false, fmt.Errorf("build insert league query: %w", err)
	}

	var row leagueTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if !isNotFound(err) {
			return league.League{}, false, storeError(err, "insert league")
		}
		existing, ok, err := r.GetByName(ctx, item.Name)
		if err != nil {
			return league.League{}, false, err
		}
		if !ok {
			return league.League{}, false, fmt.Errorf("league %q missing after insert conflict", item.Name)
		}
		return existing, false, nil
	}
	return row.toDomain(), true, nil
}

func (m leagueTableModel) toDomain() league.League {
	return league.League{
		ID:        m.ID,
		Name:      m.Name,
		Type:      m.Type,
		CreatedAt: m.CreatedAt,
	}
}
