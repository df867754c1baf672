package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/fixture-sync/internal/domain/team"
	qb "github.com/riskibarqy/fixture-sync/internal/platform/querybuilder"
)

type TeamRepository struct {
	db *sqlx.DB
}

func NewTeamRepository(db *sqlx.DB) *TeamRepository {
	return &TeamRepository{db: db}
}

func (r *TeamRepository) GetByName(ctx context.Context, name string) (team.Team, bool, error) {
	query, args, err := qb.Select(teamColumns...).From("teams").
		Where(qb.Eq("name", name)).
		OrderBy("id").
		Limit(1).
		ToSQL()
	if err != nil {
		return team.Team{}, false, fmt.Errorf("build get team by name query: %w", err)
	}

	var row teamTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return team.Team{}, false, nil
		}
		return team.Team{}, false, storeError(err, "get team by name")
	}
	return row.toDomain(), true, nil
}

func (r *TeamRepository) CreateIfAbsent(ctx context.Context, item team.Team) (team.Team, bool, error) {
	if err := item.Validate(); err != nil {
		return team.Team{}, false, err
	}

	query, args, err := qb.InsertModel("teams", teamInsertModel{
		Name:     item.Name,
		National: item.National,
	}, "ON CONFLICT (name) DO NOTHING RETURNING "+strings.Join(teamColumns, ", "))
	if err != nil {
		return team.Team{}, false, fmt.Errorf("build insert team query: %w", err)
	}

	var row teamTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if !isNotFound(err) {
			return team.Team{}, false, storeError(err, "insert team")
		}
		existing, ok, err := r.GetByName(ctx, item.Name)
		if err != nil {
			return team.Team{}, false, err
		}
		if !ok {
			return team.Team{}, false, fmt.Errorf("team %q missing after insert conflict", item.Name)
		}
		return existing, false, nil
	}
	return row.toDomain(), true, nil
}

func (m teamTableModel) toDomain() team.Team {
	return team.Team{
		ID:        m.ID,
		Name:      m.Name,
		National:  m.National,
		CreatedAt: m.CreatedAt,
	}
}
