package app

import (
	"fmt"
	"net/http"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/fixture-sync/external/footballdata"
	"github.com/riskibarqy/fixture-sync/internal/config"
	"github.com/riskibarqy/fixture-sync/internal/domain/fixture"
	"github.com/riskibarqy/fixture-sync/internal/domain/ingestionlog"
	"github.com/riskibarqy/fixture-sync/internal/domain/league"
	"github.com/riskibarqy/fixture-sync/internal/domain/rawdata"
	"github.com/riskibarqy/fixture-sync/internal/domain/season"
	"github.com/riskibarqy/fixture-sync/internal/domain/team"
	"github.com/riskibarqy/fixture-sync/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/fixture-sync/internal/infrastructure/repository/postgres"
	"github.com/riskibarqy/fixture-sync/internal/interfaces/httpapi"
	"github.com/riskibarqy/fixture-sync/internal/platform/cache"
	"github.com/riskibarqy/fixture-sync/internal/platform/logging"
	"github.com/riskibarqy/fixture-sync/internal/platform/resilience"
	"github.com/riskibarqy/fixture-sync/internal/usecase"
)

// Repositories is the persistence set one ingestion service writes through.
type Repositories struct {
	Leagues      league.Repository
	Teams        team.Repository
	Seasons      season.Repository
	Fixtures     fixture.Repository
	IngestionLog ingestionlog.Repository
	RawData      rawdata.Repository
}

func PostgresRepositories(db *sqlx.DB) Repositories {
	return Repositories{
		Leagues:      postgres.NewLeagueRepository(db),
		Teams:        postgres.NewTeamRepository(db),
		Seasons:      postgres.NewSeasonRepository(db),
		Fixtures:     postgres.NewFixtureRepository(db),
		IngestionLog: postgres.NewIngestionLogRepository(db),
		RawData:      postgres.NewRawDataRepository(db),
	}
}

// MemoryRepositories backs dry runs.
func MemoryRepositories() Repositories {
	return Repositories{
		Leagues:      memory.NewLeagueRepository(nil),
		Teams:        memory.NewTeamRepository(nil),
		Seasons:      memory.NewSeasonRepository(),
		Fixtures:     memory.NewFixtureRepository(nil),
		IngestionLog: memory.NewIngestionLogRepository(),
		RawData:      memory.NewRawDataRepository(),
	}
}

func NewFootballDataClient(cfg config.Config, logger *logging.Logger) *footballdata.Client {
	return footballdata.NewClient(footballdata.ClientConfig{
		BaseURL:      cfg.FootballDataBaseURL,
		Token:        cfg.FootballDataToken,
		Timeout:      cfg.FootballDataTimeout,
		MaxRetries:   cfg.FootballDataMaxRetries,
		RetryBackoff: cfg.FootballDataRetryBackoff,
		Logger:       logger,
		CircuitBreaker: resilience.BreakerConfig{
			Enabled:          cfg.FootballDataCircuitEnabled,
			FailureThreshold: cfg.FootballDataCircuitFailureCount,
			OpenTimeout:      cfg.FootballDataCircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.FootballDataCircuitHalfOpenMaxReq,
		},
	})
}

// NewFixtureIngestion wires source, resolver, upsert engine and run log into one service.
func NewFixtureIngestion(cfg config.Config, source usecase.FixtureSource, repos Repositories, logger *logging.Logger) *usecase.FixtureIngestionService {
	if logger == nil {
		logger = logging.Default()
	}
	now := func() time.Time { return time.Now().UTC() }

	runCfg := usecase.RunConfig{
		Now:           now,
		DaysBack:      cfg.IngestDaysBack,
		DaysForward:   cfg.IngestDaysForward,
		ProgressEvery: cfg.IngestProgressEvery,
		Source:        usecase.DefaultSource,
		EntityType:    usecase.DefaultEntityType,
		ArchiveRaw:    cfg.IngestRawArchiveEnabled,
	}

	resolver := usecase.NewEntityResolver(repos.Leagues, repos.Teams, repos.Seasons, usecase.EntityResolverConfig{
		Now:    now,
		Cache:  cache.NewStore[int64](cfg.ResolverCacheTTL),
		Logger: logger.Named("resolver"),
	})

	return usecase.NewFixtureIngestionService(usecase.FixtureIngestionDeps{
		Source:     source,
		Normalizer: footballdata.NewNormalizer(),
		Resolver:   resolver,
		Upserter:   usecase.NewFixtureUpsertEngine(repos.Fixtures, now, logger.Named("upsert")),
		Tracker:    usecase.NewIngestionLogTracker(repos.IngestionLog, runCfg.Source, runCfg.EntityType, now, logger.Named("run_log")),
		RawData:    repos.RawData,
		Logger:     logger.Named("ingestion"),
	}, runCfg)
}

func NewHTTPServer(cfg config.Config, ingestion httpapi.FixtureIngestor, logger *logging.Logger) (*http.Server, error) {
	if cfg.HTTPAddr == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	handler := httpapi.NewHandler(ingestion, logger)
	router := httpapi.NewRouter(handler, logger, cfg.InternalJobToken)

	return &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}, nil
}
