package usecase

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/riskibarqy/fixture-sync/internal/domain/ingestionlog"
	"github.com/riskibarqy/fixture-sync/internal/domain/rawdata"
	"github.com/riskibarqy/fixture-sync/internal/platform/id"
	"github.com/riskibarqy/fixture-sync/internal/platform/logging"
	"github.com/sourcegraph/conc/panics"
	"go.opentelemetry.io/otel/attribute"
)

const (
	DefaultSource        = "football-data.org"
	DefaultEntityType    = "fixtures"
	DefaultProgressEvery = 10
	DefaultDaysBack      = 7
	DefaultDaysForward   = 14

	noDataMessage = "No matches data received from API"
)

// RunConfig carries everything a run would otherwise read from globals.
type RunConfig struct {
	Now           func() time.Time
	DaysBack      int
	DaysForward   int
	ProgressEvery int
	Source        string
	EntityType    string
	ArchiveRaw    bool
}

func (c RunConfig) normalize() RunConfig {
	if c.Now == nil {
		c.Now = time.Now
	}
	if c.DaysBack <= 0 {
		c.DaysBack = DefaultDaysBack
	}
	if c.DaysForward <= 0 {
		c.DaysForward = DefaultDaysForward
	}
	if c.ProgressEvery <= 0 {
		c.ProgressEvery = DefaultProgressEvery
	}
	if strings.TrimSpace(c.Source) == "" {
		c.Source = DefaultSource
	}
	if strings.TrimSpace(c.EntityType) == "" {
		c.EntityType = DefaultEntityType
	}
	return c
}

// Window returns today-DaysBack .. today+DaysForward in UTC dates. Unset
// (zero) bounds fall back to 7 days back and 14 forward.
func (c RunConfig) Window() FetchWindow {
	c = c.normalize()
	now := c.Now().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	return FetchWindow{
		From: today.AddDate(0, 0, -c.DaysBack),
		To:   today.AddDate(0, 0, c.DaysForward),
	}
}

// RecordResult is the typed outcome of one record.
type RecordResult struct {
	ExternalID int64
	Outcome    UpsertOutcome
	Err        error
}

type RecordError struct {
	ExternalID int64  `json:"external_id"`
	Message    string `json:"message"`
}

type RunSummary struct {
	RunID      string              `json:"run_id"`
	LogID      int64               `json:"log_id,omitempty"`
	Status     ingestionlog.Status `json:"status"`
	Window     string              `json:"window,omitempty"`
	Received   int                 `json:"received"`
	Processed  int                 `json:"processed"`
	Inserted   int                 `json:"inserted"`
	Updated    int                 `json:"updated"`
	Skipped    int                 `json:"skipped"`
	Errors     []RecordError       `json:"errors,omitempty"`
	Message    string              `json:"message,omitempty"`
	StartedAt  time.Time           `json:"started_at"`
	FinishedAt time.Time           `json:"finished_at"`
}

type fixtureUpserter interface {
	Upsert(ctx context.Context, item NormalizedFixture, refs FixtureRefs) (UpsertOutcome, error)
}

type entityResolver interface {
	ResolveLeague(ctx context.Context, name string) (int64, error)
	ResolveTeam(ctx context.Context, name string) (int64, error)
	ResolveSeason(ctx context.Context, leagueID int64, year int) (int64, error)
}

type FixtureIngestionDeps struct {
	Source     FixtureSource
	Normalizer FixtureNormalizer
	Resolver   entityResolver
	Upserter   fixtureUpserter
	Tracker    RunTracker
	RawData    rawdata.Repository
	IDs        id.Generator
	Logger     *logging.Logger
}

// FixtureIngestionService drives fetch, normalize, resolve and upsert for one
// run at a time per process.
type FixtureIngestionService struct {
	source     FixtureSource
	normalizer FixtureNormalizer
	resolver   entityResolver
	upserter   fixtureUpserter
	tracker    RunTracker
	rawData    rawdata.Repository
	ids        id.Generator
	validate   *validator.Validate
	cfg        RunConfig
	logger     *logging.Logger
	running    atomic.Bool
}

func NewFixtureIngestionService(deps FixtureIngestionDeps, cfg RunConfig) *FixtureIngestionService {
	cfg = cfg.normalize()
	logger := deps.Logger
	if logger == nil {
		logger = logging.Default()
	}
	ids := deps.IDs
	if ids == nil {
		ids = id.NewRunIDGenerator(cfg.Now)
	}
	return &FixtureIngestionService{
		source:     deps.Source,
		normalizer: deps.Normalizer,
		resolver:   deps.Resolver,
		upserter:   deps.Upserter,
		tracker:    deps.Tracker,
		rawData:    deps.RawData,
		ids:        ids,
		validate:   validator.New(validator.WithRequiredStructEnabled()),
		cfg:        cfg,
		logger:     logger,
	}
}

func (s *FixtureIngestionService) Config() RunConfig {
	return s.cfg
}

// Ingest runs the full pipeline over window. A zero window uses the configured default.
func (s *FixtureIngestionService) Ingest(ctx context.Context, window FetchWindow) (RunSummary, error) {
	if !s.running.CompareAndSwap(false, true) {
		return RunSummary{}, ErrRunInProgress
	}
	defer s.running.Store(false)

	if window.From.IsZero() || window.To.IsZero() {
		window = s.cfg.Window()
	}
	if window.To.Before(window.From) {
		return RunSummary{}, fmt.Errorf("%w: window ends before it starts (%s)", ErrInvalidInput, window)
	}
	if s.source == nil || s.normalizer == nil {
		return RunSummary{}, fmt.Errorf("%w: fixture source is not configured", ErrDependencyUnavailable)
	}

	ctx, span := startUsecaseSpan(ctx, "usecase.FixtureIngestionService.Ingest", attribute.String("ingest.window", window.String()))
	defer span.End()

	run := s.begin(ctx)
	run.summary.Window = window.String()
	logger := s.logger.With("run_id", run.summary.RunID)
	logger.InfoContext(ctx, "fetching fixtures", "date_from", window.From.Format(time.DateOnly), "date_to", window.To.Format(time.DateOnly))

	raws, err := s.source.FetchMatches(ctx, window)
	if err != nil {
		msg := err.Error()
		if errors.Is(err, ErrNoData) {
			msg = noDataMessage
		}
		runErr := fmt.Errorf("fetch matches: %w", err)
		recordSpanError(span, runErr)
		return s.finish(ctx, run, ingestionlog.StatusFailure, msg), runErr
	}
	run.summary.Received = len(raws)
	logger.InfoContext(ctx, "fetched fixtures", "count", len(raws))

	s.archive(ctx, logger, raws)

	records := make([]NormalizedFixture, 0, len(raws))
	for _, raw := range raws {
		item, err := s.normalizer.Normalize(raw)
		if err != nil {
			s.skip(ctx, logger, run, RecordResult{
				ExternalID: raw.ExternalID,
				Outcome:    OutcomeSkipped,
				Err:        fmt.Errorf("%w: normalize: %v", ErrInvalidInput, err),
			})
			continue
		}
		records = append(records, item)
	}

	if err := s.process(ctx, logger, run, records); err != nil {
		recordSpanError(span, err)
		return s.finish(ctx, run, ingestionlog.StatusFailure, err.Error()), err
	}
	return s.finish(ctx, run, ingestionlog.StatusSuccess, ""), nil
}

// Run processes already normalized records in order.
func (s *FixtureIngestionService) Run(ctx context.Context, records []NormalizedFixture) (RunSummary, error) {
	if !s.running.CompareAndSwap(false, true) {
		return RunSummary{}, ErrRunInProgress
	}
	defer s.running.Store(false)

	ctx, span := startUsecaseSpan(ctx, "usecase.FixtureIngestionService.Run", attribute.Int("ingest.records", len(records)))
	defer span.End()

	run := s.begin(ctx)
	run.summary.Received = len(records)
	logger := s.logger.With("run_id", run.summary.RunID)

	if err := s.process(ctx, logger, run, records); err != nil {
		recordSpanError(span, err)
		return s.finish(ctx, run, ingestionlog.StatusFailure, err.Error()), err
	}
	return s.finish(ctx, run, ingestionlog.StatusSuccess, ""), nil
}

type runState struct {
	summary RunSummary
}

func (s *FixtureIngestionService) begin(ctx context.Context) *runState {
	startedAt := s.cfg.Now().UTC()
	runID, err := s.ids.NewID()
	if err != nil {
		runID = "run_" + strconv.FormatInt(startedAt.UnixNano(), 10)
	}

	run := &runState{summary: RunSummary{RunID: runID, StartedAt: startedAt}}
	if s.tracker != nil {
		logID, err := s.tracker.Start(ctx, startedAt)
		if err != nil {
			s.logger.WarnContext(ctx, "run tracker start failed", "run_id", runID, "error", err)
		}
		run.summary.LogID = logID
	}
	return run
}

// process returns an error only when the batch must stop early.
func (s *FixtureIngestionService) process(ctx context.Context, logger *logging.Logger, run *runState, records []NormalizedFixture) error {
	for idx, item := range records {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("run cancelled after %d of %d records: %w", idx, len(records), err)
		}

		result := s.guard(ctx, item)
		switch result.Outcome {
		case OutcomeInserted:
			run.summary.Inserted++
		case OutcomeUpdated:
			run.summary.Updated++
		default:
			s.skip(ctx, logger, run, result)
			if errors.Is(result.Err, ErrStoreUnavailable) {
				return fmt.Errorf("abort batch at external_id=%d: %w", result.ExternalID, result.Err)
			}
			continue
		}

		run.summary.Processed++
		if run.summary.Processed%s.cfg.ProgressEvery == 0 {
			s.progress(ctx, logger, run)
		}
	}
	return nil
}

// guard turns a panic inside one record into a skipped result.
func (s *FixtureIngestionService) guard(ctx context.Context, item NormalizedFixture) RecordResult {
	var (
		result RecordResult
		pc     panics.Catcher
	)
	pc.Try(func() { result = s.processRecord(ctx, item) })
	if recovered := pc.Recovered(); recovered != nil {
		return RecordResult{
			ExternalID: item.ExternalID,
			Outcome:    OutcomeSkipped,
			Err:        fmt.Errorf("record panicked: %w", recovered.AsError()),
		}
	}
	return result
}

func (s *FixtureIngestionService) processRecord(ctx context.Context, item NormalizedFixture) RecordResult {
	result := RecordResult{ExternalID: item.ExternalID, Outcome: OutcomeSkipped}

	item.LeagueName = strings.TrimSpace(item.LeagueName)
	item.HomeTeamName = strings.TrimSpace(item.HomeTeamName)
	item.AwayTeamName = strings.TrimSpace(item.AwayTeamName)
	if err := s.validate.Struct(item); err != nil {
		result.Err = fmt.Errorf("%w: %v", ErrInvalidInput, err)
		return result
	}

	leagueID, err := s.resolver.ResolveLeague(ctx, item.LeagueName)
	if err != nil {
		result.Err = fmt.Errorf("resolve league: %w", err)
		return result
	}
	homeID, err := s.resolver.ResolveTeam(ctx, item.HomeTeamName)
	if err != nil {
		result.Err = fmt.Errorf("resolve home team: %w", err)
		return result
	}
	awayID, err := s.resolver.ResolveTeam(ctx, item.AwayTeamName)
	if err != nil {
		result.Err = fmt.Errorf("resolve away team: %w", err)
		return result
	}
	seasonID, err := s.resolver.ResolveSeason(ctx, leagueID, item.SeasonYear(s.cfg.Now()))
	if err != nil {
		result.Err = fmt.Errorf("resolve season: %w", err)
		return result
	}

	outcome, err := s.upserter.Upsert(ctx, item, FixtureRefs{
		LeagueID:   leagueID,
		SeasonID:   seasonID,
		HomeTeamID: homeID,
		AwayTeamID: awayID,
	})
	if err != nil {
		result.Err = err
		return result
	}
	result.Outcome = outcome
	return result
}

func (s *FixtureIngestionService) skip(ctx context.Context, logger *logging.Logger, run *runState, result RecordResult) {
	run.summary.Skipped++
	msg := "unknown error"
	if result.Err != nil {
		msg = result.Err.Error()
	}
	run.summary.Errors = append(run.summary.Errors, RecordError{ExternalID: result.ExternalID, Message: msg})
	logger.ErrorContext(ctx, "record skipped", "external_id", result.ExternalID, "error", result.Err)
}

func (s *FixtureIngestionService) progress(ctx context.Context, logger *logging.Logger, run *runState) {
	logger.InfoContext(ctx, "ingestion progress", "processed", run.summary.Processed, "received", run.summary.Received)
	if s.tracker == nil {
		return
	}
	if err := s.tracker.UpdateProgress(ctx, run.summary.LogID, run.summary.Processed); err != nil {
		logger.WarnContext(ctx, "run tracker progress failed", "error", err)
	}
}

func (s *FixtureIngestionService) finish(ctx context.Context, run *runState, status ingestionlog.Status, message string) RunSummary {
	run.summary.Status = status
	run.summary.Message = message
	run.summary.FinishedAt = s.cfg.Now().UTC()

	if s.tracker != nil {
		// Completion is recorded even when ctx is already cancelled.
		trackCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
		defer cancel()
		if err := s.tracker.Complete(trackCtx, run.summary.LogID, status, run.summary.Processed, message); err != nil {
			s.logger.WarnContext(ctx, "run tracker complete failed", "run_id", run.summary.RunID, "error", err)
		}
	}

	s.logger.InfoContext(ctx, "ingestion finished",
		"run_id", run.summary.RunID,
		"status", status,
		"received", run.summary.Received,
		"processed", run.summary.Processed,
		"inserted", run.summary.Inserted,
		"updated", run.summary.Updated,
		"skipped", run.summary.Skipped,
		"duration", run.summary.FinishedAt.Sub(run.summary.StartedAt),
	)
	return run.summary
}

// archive stores raw documents best-effort.
func (s *FixtureIngestionService) archive(ctx context.Context, logger *logging.Logger, raws []RawRecord) {
	if !s.cfg.ArchiveRaw || s.rawData == nil || len(raws) == 0 {
		return
	}

	ingestedAt := s.cfg.Now().UTC()
	items := make([]rawdata.Payload, 0, len(raws))
	for _, raw := range raws {
		if raw.ExternalID <= 0 || len(raw.Payload) == 0 {
			continue
		}
		items = append(items, rawdata.Payload{
			Source:      s.cfg.Source,
			EntityType:  s.cfg.EntityType,
			EntityKey:   strconv.FormatInt(raw.ExternalID, 10),
			PayloadJSON: string(raw.Payload),
			PayloadHash: rawdata.HashPayload(raw.Payload),
			IngestedAt:  ingestedAt,
		})
	}
	if len(items) == 0 {
		return
	}
	if err := s.rawData.UpsertMany(ctx, items); err != nil {
		logger.WarnContext(ctx, "archive raw payloads failed", "count", len(items), "error", err)
	}
}
