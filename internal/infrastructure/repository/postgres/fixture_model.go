package postgres

import (
	"database/sql"
	"time"

	"github.com/riskibarqy/fixture-sync/internal/domain/fixture"
)

var fixtureColumns = []string{
	"id",
	"external_id",
	"date",
	"timestamp",
	"timezone",
	"status_long",
	"status_short",
	"status_elapsed",
	"goals_home",
	"goals_away",
	"score_halftime_home",
	"score_halftime_away",
	"score_fulltime_home",
	"score_fulltime_away",
	"league_id",
	"season_id",
	"home_team_id",
	"away_team_id",
	"round",
	"referee",
	"created_at",
	"updated_at",
}

// fixtureMutableColumns mirrors fixture.Fixture.ApplyMutable.
var fixtureMutableColumns = []string{
	"date",
	"timestamp",
	"status_long",
	"status_short",
	"status_elapsed",
	"goals_home",
	"goals_away",
	"score_halftime_home",
	"score_halftime_away",
	"score_fulltime_home",
	"score_fulltime_away",
	"referee",
	"updated_at",
}

type fixtureTableModel struct {
	ID                int64          `db:"id"`
	ExternalID        int64          `db:"external_id"`
	Date              time.Time      `db:"date"`
	Timestamp         int64          `db:"timestamp"`
	Timezone          string         `db:"timezone"`
	StatusLong        string         `db:"status_long"`
	StatusShort       string         `db:"status_short"`
	StatusElapsed     sql.NullInt64  `db:"status_elapsed"`
	GoalsHome         sql.NullInt64  `db:"goals_home"`
	GoalsAway         sql.NullInt64  `db:"goals_away"`
	ScoreHalftimeHome sql.NullInt64  `db:"score_halftime_home"`
	ScoreHalftimeAway sql.NullInt64  `db:"score_halftime_away"`
	ScoreFulltimeHome sql.NullInt64  `db:"score_fulltime_home"`
	ScoreFulltimeAway sql.NullInt64  `db:"score_fulltime_away"`
	LeagueID          int64          `db:"league_id"`
	SeasonID          int64          `db:"season_id"`
	HomeTeamID        int64          `db:"home_team_id"`
	AwayTeamID        int64          `db:"away_team_id"`
	Round             sql.NullString `db:"round"`
	Referee           sql.NullString `db:"referee"`
	CreatedAt         time.Time      `db:"created_at"`
	UpdatedAt         time.Time      `db:"updated_at"`
}

type fixtureInsertModel struct {
	ExternalID        int64          `db:"external_id"`
	Date              time.Time      `db:"date"`
	Timestamp         int64          `db:"timestamp"`
	Timezone          string         `db:"timezone"`
	StatusLong        string         `db:"status_long"`
	StatusShort       string         `db:"status_short"`
	StatusElapsed     sql.NullInt64  `db:"status_elapsed"`
	GoalsHome         sql.NullInt64  `db:"goals_home"`
	GoalsAway         sql.NullInt64  `db:"goals_away"`
	ScoreHalftimeHome sql.NullInt64  `db:"score_halftime_home"`
	ScoreHalftimeAway sql.NullInt64  `db:"score_halftime_away"`
	ScoreFulltimeHome sql.NullInt64  `db:"score_fulltime_home"`
	ScoreFulltimeAway sql.NullInt64  `db:"score_fulltime_away"`
	LeagueID          int64          `db:"league_id"`
	SeasonID          int64          `db:"season_id"`
	HomeTeamID        int64          `db:"home_team_id"`
	AwayTeamID        int64          `db:"away_team_id"`
	Round             sql.NullString `db:"round"`
	Referee           sql.NullString `db:"referee"`
	UpdatedAt         time.Time      `db:"updated_at"`
}

type fixtureInsertResult struct {
	ID       int64 `db:"id"`
	Inserted bool  `db:"inserted"`
}

func newFixtureInsertModel(item fixture.Fixture) fixtureInsertModel {
	return fixtureInsertModel{
		ExternalID:        item.ExternalID,
		Date:              item.Date.UTC(),
		Timestamp:         item.Timestamp,
		Timezone:          item.Timezone,
		StatusLong:        item.StatusLong,
		StatusShort:       item.StatusShort,
		StatusElapsed:     nullableInt(item.StatusElapsed),
		GoalsHome:         nullableInt(item.GoalsHome),
		GoalsAway:         nullableInt(item.GoalsAway),
		ScoreHalftimeHome: nullableInt(item.ScoreHalftimeHome),
		ScoreHalftimeAway: nullableInt(item.ScoreHalftimeAway),
		ScoreFulltimeHome: nullableInt(item.ScoreFulltimeHome),
		ScoreFulltimeAway: nullableInt(item.ScoreFulltimeAway),
		LeagueID:          item.LeagueID,
		SeasonID:          item.SeasonID,
		HomeTeamID:        item.HomeTeamID,
		AwayTeamID:        item.AwayTeamID,
		Round:             nullableString(item.Round),
		Referee:           nullableString(item.Referee),
		UpdatedAt:         item.UpdatedAt.UTC(),
	}
}

func (m fixtureTableModel) toDomain() fixture.Fixture {
	return fixture.Fixture{
		ID:                m.ID,
		ExternalID:        m.ExternalID,
		Date:              m.Date,
		Timestamp:         m.Timestamp,
		Timezone:          m.Timezone,
		StatusLong:        m.StatusLong,
		StatusShort:       m.StatusShort,
		StatusElapsed:     nullIntPtr(m.StatusElapsed),
		GoalsHome:         nullIntPtr(m.GoalsHome),
		GoalsAway:         nullIntPtr(m.GoalsAway),
		ScoreHalftimeHome: nullIntPtr(m.ScoreHalftimeHome),
		ScoreHalftimeAway: nullIntPtr(m.ScoreHalftimeAway),
		ScoreFulltimeHome: nullIntPtr(m.ScoreFulltimeHome),
		ScoreFulltimeAway: nullIntPtr(m.ScoreFulltimeAway),
		LeagueID:          m.LeagueID,
		SeasonID:          m.SeasonID,
		HomeTeamID:        m.HomeTeamID,
		AwayTeamID:        m.AwayTeamID,
		Round:             nullStringPtr(m.Round),
		Referee:           nullStringPtr(m.Referee),
		CreatedAt:         m.CreatedAt,
		UpdatedAt:         m.UpdatedAt,
	}
}
