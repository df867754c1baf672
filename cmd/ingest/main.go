package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	sonic "github.com/bytedance/sonic"
	"github.com/riskibarqy/fixture-sync/internal/app"
	"github.com/riskibarqy/fixture-sync/internal/config"
	"github.com/riskibarqy/fixture-sync/internal/observability"
	"github.com/riskibarqy/fixture-sync/internal/platform/logging"
	"github.com/riskibarqy/fixture-sync/internal/usecase"
)

func main() {
	os.Exit(run())
}

func run() int {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		return 2
	}

	flags := flag.NewFlagSet("ingest", flag.ContinueOnError)
	daysBack := flags.Int("days-back", cfg.IngestDaysBack, "days before today to fetch")
	daysForward := flags.Int("days-forward", cfg.IngestDaysForward, "days after today to fetch")
	dryRun := flags.Bool("dry-run", false, "write to an in-memory store instead of postgres")
	if err := flags.Parse(os.Args[1:]); err != nil {
		return 2
	}
	if *daysBack <= 0 || *daysForward <= 0 {
		fmt.Fprintln(os.Stderr, "-days-back and -days-forward must be > 0")
		return 2
	}
	cfg.IngestDaysBack = *daysBack
	cfg.IngestDaysForward = *daysForward

	logger := logging.NewJSON(cfg.LogLevel).With("service", cfg.ServiceName, "command", "ingest")
	logging.SetDefault(logger)
	defer func() { _ = logger.Sync() }()

	// One-shot runs are not profiled.
	cfg.PyroscopeEnabled = false
	telemetry, err := observability.Start(cfg, logger)
	if err != nil {
		logger.Error("start telemetry", "error", err)
		return 1
	}
	defer func() {
		if err := telemetry.Shutdown(context.Background()); err != nil {
			logger.Warn("shutdown telemetry", "error", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	repos := app.MemoryRepositories()
	if !*dryRun {
		db, err := app.OpenDB(ctx, cfg, logger)
		if err != nil {
			logger.Error("open database", "error", err)
			return 1
		}
		defer func() {
			if err := db.Close(); err != nil {
				logger.Warn("close database", "error", err)
			}
		}()
		repos = app.PostgresRepositories(db)
	} else {
		logger.Info("dry run: using in-memory store")
	}

	ingestion := app.NewFixtureIngestion(cfg, app.NewFootballDataClient(cfg, logger), repos, logger)
	summary, runErr := ingestion.Ingest(ctx, usecase.FetchWindow{})

	if out, err := sonic.ConfigStd.MarshalIndent(summary, "", "  "); err == nil {
		fmt.Println(string(out))
	}
	if runErr != nil {
		logger.Error("fixture ingestion failed", "error", runErr)
		return 1
	}
	return 0
}
