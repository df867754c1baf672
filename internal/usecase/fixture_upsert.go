package usecase

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/riskibarqy/fixture-sync/internal/domain/fixture"
	"github.com/riskibarqy/fixture-sync/internal/platform/logging"
	"go.opentelemetry.io/otel/attribute"
)

type UpsertOutcome string

const (
	OutcomeInserted UpsertOutcome = "inserted"
	OutcomeUpdated  UpsertOutcome = "updated"
	OutcomeSkipped  UpsertOutcome = "skipped"
)

// FixtureRefs carries the resolved dimension ids of one fixture.
type FixtureRefs struct {
	LeagueID   int64
	SeasonID   int64
	HomeTeamID int64
	AwayTeamID int64
}

func (r FixtureRefs) missing() []string {
	var out []string
	if r.LeagueID <= 0 {
		out = append(out, "league_id")
	}
	if r.SeasonID <= 0 {
		out = append(out, "season_id")
	}
	if r.HomeTeamID <= 0 {
		out = append(out, "home_team_id")
	}
	if r.AwayTeamID <= 0 {
		out = append(out, "away_team_id")
	}
	return out
}

// FixtureUpsertEngine writes one fixture row per external id.
type FixtureUpsertEngine struct {
	repo   fixture.Repository
	now    func() time.Time
	logger *logging.Logger
}

func NewFixtureUpsertEngine(repo fixture.Repository, now func() time.Time, logger *logging.Logger) *FixtureUpsertEngine {
	if now == nil {
		now = time.Now
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &FixtureUpsertEngine{repo: repo, now: now, logger: logger}
}

func (e *FixtureUpsertEngine) Upsert(ctx context.Context, item NormalizedFixture, refs FixtureRefs) (UpsertOutcome, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.FixtureUpsertEngine.Upsert", attribute.Int64("fixture.external_id", item.ExternalID))
	defer span.End()

	if missing := refs.missing(); len(missing) > 0 {
		err := fmt.Errorf("%w: external_id=%d lacks %s", ErrMissingReference, item.ExternalID, strings.Join(missing, ", "))
		e.logger.ErrorContext(ctx, "fixture not written", "external_id", item.ExternalID, "error", err)
		recordSpanError(span, err)
		return OutcomeSkipped, err
	}
	if item.Date == nil {
		return OutcomeSkipped, fmt.Errorf("%w: external_id=%d has no date", ErrInvalidInput, item.ExternalID)
	}

	row := buildFixtureRow(item, refs, e.now().UTC())

	_, found, err := e.repo.GetByExternalID(ctx, item.ExternalID)
	if err != nil {
		recordSpanError(span, err)
		return OutcomeSkipped, fmt.Errorf("get fixture external_id=%d: %w", item.ExternalID, err)
	}

	if found {
		updated, err := e.repo.UpdateMutable(ctx, row)
		if err != nil {
			recordSpanError(span, err)
			return OutcomeSkipped, fmt.Errorf("update fixture external_id=%d: %w", item.ExternalID, err)
		}
		if updated {
			return OutcomeUpdated, nil
		}
	}

	_, inserted, err := e.repo.Insert(ctx, row)
	if err != nil {
		recordSpanError(span, err)
		return OutcomeSkipped, fmt.Errorf("insert fixture external_id=%d: %w", item.ExternalID, err)
	}
	if !inserted {
		return OutcomeUpdated, nil
	}
	return OutcomeInserted, nil
}

// buildFixtureRow maps a normalized record onto a fixture row. The full-time
// score columns take the same values as the goal columns.
func buildFixtureRow(item NormalizedFixture, refs FixtureRefs, now time.Time) fixture.Fixture {
	date := item.Date.UTC()
	timestamp := date.Unix()
	if item.Timestamp != nil {
		timestamp = *item.Timestamp
	}

	statusShort := strings.TrimSpace(item.StatusShort)
	if statusShort == "" {
		statusShort = fixture.MapStatusShort(item.StatusLong)
	}

	// Matchday 0 is stored as NULL, like an absent matchday.
	var round *string
	if item.Round != nil && *item.Round != 0 {
		value := strconv.Itoa(*item.Round)
		round = &value
	}

	return fixture.Fixture{
		ExternalID:        item.ExternalID,
		Date:              date,
		Timestamp:         timestamp,
		Timezone:          fixture.DefaultTimezone,
		StatusLong:        item.StatusLong,
		StatusShort:       statusShort,
		StatusElapsed:     item.StatusElapsed,
		GoalsHome:         item.GoalsHome,
		GoalsAway:         item.GoalsAway,
		ScoreHalftimeHome: item.HalftimeHome,
		ScoreHalftimeAway: item.HalftimeAway,
		ScoreFulltimeHome: item.GoalsHome,
		ScoreFulltimeAway: item.GoalsAway,
		LeagueID:          refs.LeagueID,
		SeasonID:          refs.SeasonID,
		HomeTeamID:        refs.HomeTeamID,
		AwayTeamID:        refs.AwayTeamID,
		Round:             round,
		Referee:           item.Referee,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
}
