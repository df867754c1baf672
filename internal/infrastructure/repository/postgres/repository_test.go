package postgres

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/riskibarqy/fixture-sync/internal/domain/fixture"
	"github.com/riskibarqy/fixture-sync/internal/domain/ingestionlog"
	"github.com/riskibarqy/fixture-sync/internal/domain/league"
	"github.com/riskibarqy/fixture-sync/internal/domain/rawdata"
	"github.com/riskibarqy/fixture-sync/internal/domain/season"
	"github.com/riskibarqy/fixture-sync/internal/domain/team"
	"github.com/riskibarqy/fixture-sync/internal/usecase"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2024, 8, 10, 14, 0, 0, 0, time.UTC)

func newMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		_ = db.Close()
	})
	return sqlx.NewDb(db, "sqlmock"), mock
}

func TestLeagueRepository_CreateIfAbsent_Inserted(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewLeagueRepository(db)

	mock.ExpectQuery(`INSERT INTO leagues \(name, type\) VALUES \(\$1, \$2\) ON CONFLICT \(name\) DO NOTHING RETURNING id, name, type, created_at`).
		WithArgs("Premier League", league.DefaultType).
		WillReturnRows(sqlmock.NewRows(leagueColumns).AddRow(int64(9), "Premier League", league.DefaultType, testNow))

	got, created, err := repo.CreateIfAbsent(context.Background(), league.League{Name: "Premier League", Type: league.DefaultType})
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, int64(9), got.ID)
	assert.Equal(t, "Premier League", got.Name)
}

func TestLeagueRepository_CreateIfAbsent_ConflictReselects(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewLeagueRepository(db)

	mock.ExpectQuery(`INSERT INTO leagues`).
		WillReturnRows(sqlmock.NewRows(leagueColumns))
	mock.ExpectQuery(`SELECT id, name, type, created_at FROM leagues WHERE name = \$1 ORDER BY id LIMIT 1`).
		WithArgs("Premier League").
		WillReturnRows(sqlmock.NewRows(leagueColumns).AddRow(int64(4), "Premier League", league.DefaultType, testNow))

	got, created, err := repo.CreateIfAbsent(context.Background(), league.League{Name: "Premier League", Type: league.DefaultType})
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, int64(4), got.ID)
}

func TestLeagueRepository_GetByName_NotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewLeagueRepository(db)

	mock.ExpectQuery(`FROM leagues WHERE name = \$1`).
		WithArgs("Serie A").
		WillReturnError(sql.ErrNoRows)

	_, ok, err := repo.GetByName(context.Background(), "Serie A")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestTeamRepository_GetByName_ConnectionLost(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewTeamRepository(db)

	mock.ExpectQuery(`FROM teams WHERE name = \$1`).
		WithArgs("Arsenal FC").
		WillReturnError(&pq.Error{Code: "08006", Message: "connection failure"})

	_, _, err := repo.GetByName(context.Background(), "Arsenal FC")
	require.Error(t, err)
	assert.True(t, errors.Is(err, usecase.ErrStoreUnavailable))
}

func TestFixtureRepository_UpdateMutable_ConnectionDone(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewFixtureRepository(db)

	mock.ExpectExec(`UPDATE fixtures SET`).WillReturnError(sql.ErrConnDone)

	_, err := repo.UpdateMutable(context.Background(), sampleFixture())
	require.Error(t, err)
	assert.True(t, errors.Is(err, usecase.ErrStoreUnavailable))
}

func TestFixtureRepository_Insert_ConstraintViolationIsRecordLevel(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewFixtureRepository(db)

	mock.ExpectQuery(`INSERT INTO fixtures`).
		WillReturnError(&pq.Error{Code: "23502", Message: "null value violates not-null constraint"})

	_, _, err := repo.Insert(context.Background(), sampleFixture())
	require.Error(t, err)
	assert.False(t, errors.Is(err, usecase.ErrStoreUnavailable))
}

func TestTeamRepository_CreateIfAbsent(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewTeamRepository(db)

	mock.ExpectQuery(`INSERT INTO teams \(name, national\) VALUES \(\$1, \$2\) ON CONFLICT \(name\) DO NOTHING`).
		WithArgs("Arsenal FC", false).
		WillReturnRows(sqlmock.NewRows(teamColumns).AddRow(int64(11), "Arsenal FC", false, testNow))

	got, created, err := repo.CreateIfAbsent(context.Background(), team.Team{Name: "Arsenal FC"})
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, int64(11), got.ID)
}

func TestSeasonRepository_CreateIfAbsent(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewSeasonRepository(db)

	item := season.New(3, 2024, testNow)
	mock.ExpectQuery(`INSERT INTO seasons \(league_id, year, start_date, end_date, current\) VALUES \(\$1, \$2, \$3, \$4, \$5\) ON CONFLICT \(league_id, year\) DO NOTHING`).
		WithArgs(int64(3), 2024, item.StartDate, item.EndDate, item.Current).
		WillReturnRows(sqlmock.NewRows(seasonColumns).
			AddRow(int64(21), int64(3), 2024, item.StartDate, item.EndDate, item.Current, testNow))

	got, created, err := repo.CreateIfAbsent(context.Background(), item)
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, int64(21), got.ID)
	assert.Equal(t, 2024, got.Year)
}

func sampleFixture() fixture.Fixture {
	goals := 2
	referee := "Michael Oliver"
	round := "1"
	return fixture.Fixture{
		ExternalID:        555,
		Date:              testNow,
		Timestamp:         testNow.Unix(),
		Timezone:          fixture.DefaultTimezone,
		StatusLong:        "FINISHED",
		StatusShort:       fixture.StatusFullTime,
		GoalsHome:         &goals,
		GoalsAway:         &goals,
		ScoreFulltimeHome: &goals,
		ScoreFulltimeAway: &goals,
		LeagueID:          1,
		SeasonID:          2,
		HomeTeamID:        3,
		AwayTeamID:        4,
		Round:             &round,
		Referee:           &referee,
		UpdatedAt:         testNow,
	}
}

func TestFixtureRepository_Insert(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewFixtureRepository(db)

	mock.ExpectQuery(`INSERT INTO fixtures \(external_id, .*\) ON CONFLICT \(external_id\) DO UPDATE SET\s+date = EXCLUDED.date,.*RETURNING id, \(xmax = 0\) AS inserted`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "inserted"}).AddRow(int64(77), true))

	id, inserted, err := repo.Insert(context.Background(), sampleFixture())
	require.NoError(t, err)
	assert.Equal(t, int64(77), id)
	assert.True(t, inserted)
}

func TestFixtureRepository_Insert_WithoutRound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewFixtureRepository(db)

	item := sampleFixture()
	item.Round = nil

	args := make([]driver.Value, 0, 20)
	for range 17 {
		args = append(args, sqlmock.AnyArg())
	}
	args = append(args, nil, "Michael Oliver", sqlmock.AnyArg())

	mock.ExpectQuery(`INSERT INTO fixtures \(external_id, .*round, referee, updated_at\) VALUES`).
		WithArgs(args...).
		WillReturnRows(sqlmock.NewRows([]string{"id", "inserted"}).AddRow(int64(78), true))

	id, inserted, err := repo.Insert(context.Background(), item)
	require.NoError(t, err)
	assert.Equal(t, int64(78), id)
	assert.True(t, inserted)
}

func TestFixtureRepository_Insert_RejectsInvalid(t *testing.T) {
	db, _ := newMockDB(t)
	repo := NewFixtureRepository(db)

	item := sampleFixture()
	item.HomeTeamID = 0
	_, _, err := repo.Insert(context.Background(), item)
	require.Error(t, err)
}

func TestFixtureRepository_UpdateMutable(t *testing.T) {
	t.Run("row updated", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewFixtureRepository(db)

		mock.ExpectExec(`UPDATE fixtures SET date = \$1, timestamp = \$2, .* updated_at = \$13 WHERE external_id = \$14`).
			WillReturnResult(sqlmock.NewResult(0, 1))

		found, err := repo.UpdateMutable(context.Background(), sampleFixture())
		require.NoError(t, err)
		assert.True(t, found)
	})

	t.Run("row vanished", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewFixtureRepository(db)

		mock.ExpectExec(`UPDATE fixtures SET`).
			WillReturnResult(sqlmock.NewResult(0, 0))

		found, err := repo.UpdateMutable(context.Background(), sampleFixture())
		require.NoError(t, err)
		assert.False(t, found)
	})
}

func TestFixtureRepository_GetByExternalID(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewFixtureRepository(db)

	rows := sqlmock.NewRows(fixtureColumns).AddRow(
		int64(77), int64(555), testNow, testNow.Unix(), "UTC", "FINISHED", "FT",
		nil, int64(2), int64(1), int64(1), int64(0), int64(2), int64(1),
		int64(1), int64(2), int64(3), int64(4), "1", nil, testNow, testNow,
	)
	mock.ExpectQuery(`FROM fixtures WHERE external_id = \$1 LIMIT 1`).
		WithArgs(int64(555)).
		WillReturnRows(rows)

	got, ok, err := repo.GetByExternalID(context.Background(), 555)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, int64(77), got.ID)
	assert.Nil(t, got.StatusElapsed)
	assert.Nil(t, got.Referee)
	require.NotNil(t, got.GoalsHome)
	assert.Equal(t, 2, *got.GoalsHome)
	require.NotNil(t, got.Round)
	assert.Equal(t, "1", *got.Round)
}

func TestIngestionLogRepository_Lifecycle(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewIngestionLogRepository(db)

	mock.ExpectQuery(`INSERT INTO data_ingestion_log \(source, entity_type, status, records_processed, started_at\) VALUES \(\$1, \$2, \$3, \$4, \$5\) RETURNING id`).
		WithArgs("football-data.org", "fixtures", "running", 0, testNow).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(5)))
	mock.ExpectExec(`UPDATE data_ingestion_log SET records_processed = \$1 WHERE id = \$2`).
		WithArgs(10, int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE data_ingestion_log SET status = \$1, records_processed = \$2, error_message = \$3, completed_at = \$4 WHERE id = \$5`).
		WithArgs("success", 12, sqlmock.AnyArg(), testNow, int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	ctx := context.Background()
	id, err := repo.Create(ctx, ingestionlog.Run{
		Source:     "football-data.org",
		EntityType: "fixtures",
		Status:     ingestionlog.StatusRunning,
		StartedAt:  testNow,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(5), id)

	require.NoError(t, repo.UpdateProgress(ctx, id, 10))
	require.NoError(t, repo.Complete(ctx, id, ingestionlog.StatusSuccess, 12, nil, testNow))
}

func TestIngestionLogRepository_GetByID(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewIngestionLogRepository(db)

	mock.ExpectQuery(`FROM data_ingestion_log WHERE id = \$1`).
		WithArgs(int64(5)).
		WillReturnRows(sqlmock.NewRows(ingestionLogColumns).
			AddRow(int64(5), "football-data.org", "fixtures", "failure", 3, "boom", testNow, testNow, testNow))

	got, ok, err := repo.GetByID(context.Background(), 5)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, ingestionlog.StatusFailure, got.Status)
	require.NotNil(t, got.ErrorMessage)
	assert.Equal(t, "boom", *got.ErrorMessage)
	require.NotNil(t, got.CompletedAt)
}

func TestRawDataRepository_UpsertMany(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewRawDataRepository(db)

	payload := []byte(`{"id":555}`)
	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO raw_data_payloads .* ON CONFLICT \(source, entity_type, entity_key\)\s+DO UPDATE SET.*WHERE raw_data_payloads.payload_hash IS DISTINCT FROM EXCLUDED.payload_hash`).
		WithArgs("football-data.org", "fixtures", "555", string(payload), rawdata.HashPayload(payload), testNow).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repo.UpsertMany(context.Background(), []rawdata.Payload{{
		Source:      "football-data.org",
		EntityType:  "fixtures",
		EntityKey:   "555",
		PayloadJSON: string(payload),
		PayloadHash: rawdata.HashPayload(payload),
		IngestedAt:  testNow,
	}})
	require.NoError(t, err)
}

func TestRawDataRepository_UpsertMany_Empty(t *testing.T) {
	db, _ := newMockDB(t)
	require.NoError(t, NewRawDataRepository(db).UpsertMany(context.Background(), nil))
}
