package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/fixture-sync/internal/domain/fixture"
	qb "github.com/riskibarqy/fixture-sync/internal/platform/querybuilder"
)

type FixtureRepository struct {
	db *sqlx.DB
}

func NewFixtureRepository(db *sqlx.DB) *FixtureRepository {
	return &FixtureRepository{db: db}
}

func (r *FixtureRepository) GetByExternalID(ctx context.Context, externalID int64) (fixture.Fixture, bool, error) {
	query, args, err := qb.Select(fixtureColumns...).From("fixtures").
		Where(qb.Eq("external_id", externalID)).
		Limit(1).
		ToSQL()
	if err != nil {
		return fixture.Fixture{}, false, fmt.Errorf("build get fixture by external id query: %w", err)
	}

	var row fixtureTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return fixture.Fixture{}, false, nil
		}
		return fixture.Fixture{}, false, storeError(err, "get fixture external_id=%d", externalID)
	}
	return row.toDomain(), true, nil
}

// Insert writes a new fixture row. A concurrent insert of the same external
// id degrades to an update of the mutable columns and reports inserted=false.
func (r *FixtureRepository) Insert(ctx context.Context, item fixture.Fixture) (int64, bool, error) {
	if err := item.Validate(); err != nil {
		return 0, false, err
	}

	query, args, err := qb.InsertModel("fixtures", newFixtureInsertModel(item), `ON CONFLICT (external_id) DO UPDATE SET
    `+qb.ExcludedSet(fixtureMutableColumns...)+`
RETURNING id, (xmax = 0) AS inserted`)
	if err != nil {
		return 0, false, fmt.Errorf("build insert fixture query: %w", err)
	}

	var out fixtureInsertResult
	if err := r.db.GetContext(ctx, &out, query, args...); err != nil {
		return 0, false, storeError(err, "insert fixture external_id=%d", item.ExternalID)
	}
	return out.ID, out.Inserted, nil
}

func (r *FixtureRepository) UpdateMutable(ctx context.Context, item fixture.Fixture) (bool, error) {
	row := newFixtureInsertModel(item)
	query, args, err := qb.Update("fixtures").
		Set("date", row.Date).
		Set("timestamp", row.Timestamp).
		Set("status_long", row.StatusLong).
		Set("status_short", row.StatusShort).
		Set("status_elapsed", row.StatusElapsed).
		Set("goals_home", row.GoalsHome).
		Set("goals_away", row.GoalsAway).
		Set("score_halftime_home", row.ScoreHalftimeHome).
		Set("score_halftime_away", row.ScoreHalftimeAway).
		Set("score_fulltime_home", row.ScoreFulltimeHome).
		Set("score_fulltime_away", row.ScoreFulltimeAway).
		Set("referee", row.Referee).
		Set("updated_at", row.UpdatedAt).
		Where(qb.Eq("external_id", item.ExternalID)).
		ToSQL()
	if err != nil {
		return false, fmt.Errorf("build update fixture query: %w", err)
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return false, storeError(err, "update fixture external_id=%d", item.ExternalID)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, storeError(err, "read affected rows fixture external_id=%d", item.ExternalID)
	}
	return affected > 0, nil
}
