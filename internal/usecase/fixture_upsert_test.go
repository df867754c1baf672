package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/riskibarqy/fixture-sync/internal/domain/fixture"
	"github.com/riskibarqy/fixture-sync/internal/infrastructure/repository/memory"
	fixturemock "github.com/riskibarqy/fixture-sync/internal/mocks/domain/fixture"
	"github.com/stretchr/testify/mock"
)

func intPtr(v int) *int { return &v }

func timePtr(v time.Time) *time.Time { return &v }

func sampleRecord() NormalizedFixture {
	return NormalizedFixture{
		ExternalID:      555,
		Date:            timePtr(time.Date(2024, 8, 10, 14, 0, 0, 0, time.UTC)),
		StatusLong:      "FINISHED",
		StatusShort:     fixture.StatusFullTime,
		HomeTeamName:    "Alpha FC",
		AwayTeamName:    "Beta United",
		GoalsHome:       intPtr(2),
		GoalsAway:       intPtr(1),
		HalftimeHome:    intPtr(1),
		HalftimeAway:    intPtr(0),
		LeagueName:      "Test League",
		SeasonStartDate: "2024-07-01",
		Round:           intPtr(1),
	}
}

var sampleRefs = FixtureRefs{LeagueID: 1, SeasonID: 2, HomeTeamID: 3, AwayTeamID: 4}

func TestFixtureUpsertEngine_InsertThenUpdate(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := memory.NewFixtureRepository(nil)
	now := fixedNow
	engine := NewFixtureUpsertEngine(repo, func() time.Time { return now }, nil)

	outcome, err := engine.Upsert(ctx, sampleRecord(), sampleRefs)
	if err != nil {
		t.Fatalf("first upsert: %v", err)
	}
	if outcome != OutcomeInserted {
		t.Fatalf("expected inserted, got %s", outcome)
	}

	stored, ok, _ := repo.GetByExternalID(ctx, 555)
	if !ok {
		t.Fatalf("fixture not stored")
	}
	if stored.Timezone != "UTC" || stored.Round == nil || *stored.Round != "1" {
		t.Fatalf("unexpected insert-only fields: tz=%s round=%v", stored.Timezone, stored.Round)
	}
	if *stored.ScoreFulltimeHome != 2 || *stored.ScoreFulltimeAway != 1 || *stored.ScoreHalftimeHome != 1 {
		t.Fatalf("unexpected scores: %+v", stored)
	}
	if stored.Timestamp != time.Date(2024, 8, 10, 14, 0, 0, 0, time.UTC).Unix() {
		t.Fatalf("unexpected timestamp %d", stored.Timestamp)
	}

	now = now.Add(time.Hour)
	again := sampleRecord()
	again.GoalsHome = intPtr(3)
	otherRefs := FixtureRefs{LeagueID: 9, SeasonID: 9, HomeTeamID: 9, AwayTeamID: 8}

	outcome, err = engine.Upsert(ctx, again, otherRefs)
	if err != nil {
		t.Fatalf("second upsert: %v", err)
	}
	if outcome != OutcomeUpdated {
		t.Fatalf("expected updated, got %s", outcome)
	}
	if repo.Count() != 1 {
		t.Fatalf("expected one fixture row, got %d", repo.Count())
	}

	updated, _, _ := repo.GetByExternalID(ctx, 555)
	if *updated.GoalsHome != 3 || *updated.ScoreFulltimeHome != 3 {
		t.Fatalf("expected goals and full-time score to follow update, got %+v", updated)
	}
	if updated.LeagueID != 1 || updated.HomeTeamID != 3 || updated.ID != stored.ID {
		t.Fatalf("immutable fields changed on update: %+v", updated)
	}
	if !updated.UpdatedAt.Equal(now) || !updated.CreatedAt.Equal(fixedNow) {
		t.Fatalf("unexpected timestamps created=%s updated=%s", updated.CreatedAt, updated.UpdatedAt)
	}
}

func TestFixtureUpsertEngine_MissingReferenceWritesNothing(t *testing.T) {
	t.Parallel()

	repo := fixturemock.NewRepository(t)
	engine := NewFixtureUpsertEngine(repo, nil, nil)

	refs := sampleRefs
	refs.SeasonID = 0
	outcome, err := engine.Upsert(context.Background(), sampleRecord(), refs)
	if !errors.Is(err, ErrMissingReference) {
		t.Fatalf("expected ErrMissingReference, got %v", err)
	}
	if outcome != OutcomeSkipped {
		t.Fatalf("expected skipped outcome, got %s", outcome)
	}
}

func TestFixtureUpsertEngine_StatusShortFallsBackToMapping(t *testing.T) {
	t.Parallel()

	repo := memory.NewFixtureRepository(nil)
	engine := NewFixtureUpsertEngine(repo, nil, nil)

	record := sampleRecord()
	record.StatusShort = ""
	record.StatusLong = "IN_PLAY"
	record.Round = nil

	if _, err := engine.Upsert(context.Background(), record, sampleRefs); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	stored, _, _ := repo.GetByExternalID(context.Background(), 555)
	if stored.StatusShort != fixture.StatusLive {
		t.Fatalf("expected LIVE, got %s", stored.StatusShort)
	}
	if stored.Round != nil {
		t.Fatalf("expected NULL round, got %v", *stored.Round)
	}
}

func TestFixtureUpsertEngine_MatchdayZeroStoredAsNull(t *testing.T) {
	t.Parallel()

	repo := memory.NewFixtureRepository(nil)
	engine := NewFixtureUpsertEngine(repo, nil, nil)

	record := sampleRecord()
	record.Round = intPtr(0)

	if _, err := engine.Upsert(context.Background(), record, sampleRefs); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	stored, _, _ := repo.GetByExternalID(context.Background(), 555)
	if stored.Round != nil {
		t.Fatalf("expected NULL round for matchday 0, got %q", *stored.Round)
	}
}

func TestFixtureUpsertEngine_ConcurrentInsertBecomesUpdate(t *testing.T) {
	t.Parallel()

	repo := fixturemock.NewRepository(t)
	engine := NewFixtureUpsertEngine(repo, nil, nil)

	repo.
		On("GetByExternalID", mock.Anything, int64(555)).
		Return(fixture.Fixture{}, false, nil).
		Once()
	repo.
		On("Insert", mock.Anything, mock.MatchedBy(func(f fixture.Fixture) bool { return f.ExternalID == 555 })).
		Return(int64(10), false, nil).
		Once()

	outcome, err := engine.Upsert(context.Background(), sampleRecord(), sampleRefs)
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if outcome != OutcomeUpdated {
		t.Fatalf("expected updated after conflict, got %s", outcome)
	}
}

func TestFixtureUpsertEngine_WriteErrorIsWrapped(t *testing.T) {
	t.Parallel()

	repo := fixturemock.NewRepository(t)
	engine := NewFixtureUpsertEngine(repo, nil, nil)
	writeErr := errors.New("duplicate key value violates unique constraint")

	repo.
		On("GetByExternalID", mock.Anything, int64(555)).
		Return(fixture.Fixture{ID: 10, ExternalID: 555}, true, nil).
		Once()
	repo.
		On("UpdateMutable", mock.Anything, mock.Anything).
		Return(false, writeErr).
		Once()

	outcome, err := engine.Upsert(context.Background(), sampleRecord(), sampleRefs)
	if !errors.Is(err, writeErr) {
		t.Fatalf("expected wrapped write error, got %v", err)
	}
	if outcome != OutcomeSkipped {
		t.Fatalf("expected skipped, got %s", outcome)
	}
}
