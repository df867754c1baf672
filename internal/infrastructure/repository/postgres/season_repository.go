package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/fixture-sync/internal/domain/season"
	qb "github.com/riskibarqy/fixture-sync/internal/platform/querybuilder"
)

type SeasonRepository struct {
	db *sqlx.DB
}

func NewSeasonRepository(db *sqlx.DB) *SeasonRepository {
	return &SeasonRepository{db: db}
}

func (r *SeasonRepository) GetByLeagueYear(ctx context.Context, leagueID int64, year int) (season.Season, bool, error) {
	query, args, err := qb.Select(seasonColumns...).From("seasons").
		Where(qb.Eq("league_id", leagueID), qb.Eq("year", year)).
		OrderBy("id").
		Limit(1).
		ToSQL()
	if err != nil {
		return season.Season{}, false, fmt.Errorf("build get season query: %w", err)
	}

	var row seasonTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return season.Season{}, false, nil
		}
		return season.Season{}, false, storeError(err, "get season league_id=%d year=%d", leagueID, year)
	}
	return row.toDomain(), true, nil
}

func (r *SeasonRepository) CreateIfAbsent(ctx context.Context, item season.Season) (season.Season, bool, error) {
	if err := item.Validate(); err != nil {
		return season.Season{}, false, err
	}

	query, args, err := qb.InsertModel("seasons", seasonInsertModel{
		LeagueID:  item.LeagueID,
		Year:      item.Year,
		StartDate: item.StartDate,
		EndDate:   item.EndDate,
		Current:   item.Current,
	}, "ON CONFLICT (league_id, year) DO NOTHING RETURNING "+strings.Join(seasonColumns, ", "))
	if err != nil {
		return season.Season{}, false, fmt.Errorf("build insert season query: %w", err)
	}

	var row seasonTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if !isNotFound(err) {
			return season.Season{}, false, storeError(err, "insert season league_id=%d year=%d", item.LeagueID, item.Year)
		}
		existing, ok, err := r.GetByLeagueYear(ctx, item.LeagueID, item.Year)
		if err != nil {
			return season.Season{}, false, err
		}
		if !ok {
			return season.Season{}, false, fmt.Errorf("season league_id=%d year=%d missing after insert conflict", item.LeagueID, item.Year)
		}
		return existing, false, nil
	}
	return row.toDomain(), true, nil
}

func (m seasonTableModel) toDomain() season.Season {
	return season.Season{
		ID:        m.ID,
		LeagueID:  m.LeagueID,
		Year:      m.Year,
		StartDate: m.StartDate,
		EndDate:   m.EndDate,
		Current:   m.Current,
		CreatedAt: m.CreatedAt,
	}
}
