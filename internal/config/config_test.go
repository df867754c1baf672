package config

import (
	"testing"
	"time"

	"github.com/riskibarqy/fixture-sync/internal/platform/logging"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "false")
	t.Setenv("FOOTBALL_DATA_TOKEN", "token-123")
}

func TestLoad_AppEnvValidation(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("APP_ENV", "invalid")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for invalid APP_ENV")
	}
}

func TestLoad_FootballDataTokenRequired(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("FOOTBALL_DATA_TOKEN", "  ")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error without FOOTBALL_DATA_TOKEN")
	}
}

func TestLoad_Defaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.FootballDataBaseURL != "https://api.football-data.org/v4" {
		t.Fatalf("unexpected base url: %q", cfg.FootballDataBaseURL)
	}
	if cfg.FootballDataTimeout != 30*time.Second {
		t.Fatalf("unexpected upstream timeout: %s", cfg.FootballDataTimeout)
	}
	if cfg.IngestDaysBack != 7 || cfg.IngestDaysForward != 14 {
		t.Fatalf("unexpected window defaults: back=%d forward=%d", cfg.IngestDaysBack, cfg.IngestDaysForward)
	}
	if cfg.IngestProgressEvery != 10 {
		t.Fatalf("unexpected progress cadence: %d", cfg.IngestProgressEvery)
	}
	if !cfg.IngestRawArchiveEnabled {
		t.Fatalf("expected raw archive enabled by default")
	}
	if !cfg.FootballDataCircuitEnabled || cfg.FootballDataCircuitFailureCount != 5 {
		t.Fatalf("unexpected circuit defaults: %+v", cfg)
	}
	if cfg.LogLevel != logging.LevelInfo {
		t.Fatalf("unexpected log level: %s", cfg.LogLevel)
	}
}

func TestLoad_IngestValidation(t *testing.T) {
	cases := []struct {
		name  string
		key   string
		value string
	}{
		{name: "progress zero", key: "INGEST_PROGRESS_EVERY", value: "0"},
		{name: "progress not int", key: "INGEST_PROGRESS_EVERY", value: "ten"},
		{name: "negative days back", key: "INGEST_DAYS_BACK", value: "-1"},
		{name: "negative days forward", key: "INGEST_DAYS_FORWARD", value: "-3"},
		{name: "zero days back", key: "INGEST_DAYS_BACK", value: "0"},
		{name: "zero days forward", key: "INGEST_DAYS_FORWARD", value: "0"},
		{name: "bad archive flag", key: "INGEST_RAW_ARCHIVE_ENABLED", value: "maybe"},
		{name: "zero timeout", key: "FOOTBALL_DATA_TIMEOUT", value: "0s"},
		{name: "negative retries", key: "FOOTBALL_DATA_MAX_RETRIES", value: "-1"},
		{name: "zero breaker threshold", key: "FOOTBALL_DATA_CIRCUIT_FAILURE_COUNT", value: "0"},
		{name: "bad resolver ttl", key: "RESOLVER_CACHE_TTL", value: "soon"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			setRequiredEnv(t)
			t.Setenv(tc.key, tc.value)
			if _, err := Load(); err == nil {
				t.Fatalf("expected error for %s=%q", tc.key, tc.value)
			}
		})
	}
}

func TestLoad_IngestOverrides(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("INGEST_DAYS_BACK", "3")
	t.Setenv("INGEST_DAYS_FORWARD", "1")
	t.Setenv("INGEST_PROGRESS_EVERY", "25")
	t.Setenv("INGEST_RAW_ARCHIVE_ENABLED", "false")
	t.Setenv("APP_LOG_LEVEL", "debug")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.IngestDaysBack != 3 || cfg.IngestDaysForward != 1 || cfg.IngestProgressEvery != 25 {
		t.Fatalf("unexpected ingest config: %+v", cfg)
	}
	if cfg.IngestRawArchiveEnabled {
		t.Fatalf("expected raw archive disabled")
	}
	if cfg.LogLevel != logging.LevelDebug {
		t.Fatalf("unexpected log level: %s", cfg.LogLevel)
	}
}

func TestLoad_UptraceRequiresDSNWhenEnabled(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("UPTRACE_ENABLED", "true")
	t.Setenv("UPTRACE_DSN", "")
	t.Setenv("OTEL_EXPORTER_OTLP_HEADERS", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when UPTRACE_ENABLED=true without UPTRACE_DSN")
	}
}

func TestLoad_UptraceDSNFromOTLPHeaders(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("UPTRACE_ENABLED", "true")
	t.Setenv("UPTRACE_DSN", "")
	t.Setenv("OTEL_EXPORTER_OTLP_HEADERS", `foo=bar, uptrace-dsn="https://token@api.uptrace.dev?grpc=4317"`)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.UptraceDSN != "https://token@api.uptrace.dev?grpc=4317" {
		t.Fatalf("unexpected uptrace dsn: %q", cfg.UptraceDSN)
	}
}

func TestLoad_PyroscopeRequiresServerAddressWhenEnabled(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("PYROSCOPE_ENABLED", "true")
	t.Setenv("PYROSCOPE_SERVER_ADDRESS", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when PYROSCOPE_ENABLED=true without PYROSCOPE_SERVER_ADDRESS")
	}
}

func TestLoad_PyroscopeAppNameDefaultsToServiceName(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("APP_SERVICE_NAME", "fixture-sync-test")
	t.Setenv("PYROSCOPE_ENABLED", "true")
	t.Setenv("PYROSCOPE_SERVER_ADDRESS", "http://localhost:4040")
	t.Setenv("PYROSCOPE_APP_NAME", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.PyroscopeAppName != "fixture-sync-test" {
		t.Fatalf("unexpected pyroscope app name: %q", cfg.PyroscopeAppName)
	}
}

func TestLoad_DBDisablePreparedBinaryResultParsing(t *testing.T) {
	setRequiredEnv(t)

	t.Run("default true", func(t *testing.T) {
		t.Setenv("DB_DISABLE_PREPARED_BINARY_RESULT", "")
		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if !cfg.DBDisablePreparedBinary {
			t.Fatalf("expected DBDisablePreparedBinary=true by default")
		}
	})

	t.Run("invalid value", func(t *testing.T) {
		t.Setenv("DB_DISABLE_PREPARED_BINARY_RESULT", "not-bool")
		if _, err := Load(); err == nil {
			t.Fatalf("expected error for invalid DB_DISABLE_PREPARED_BINARY_RESULT")
		}
	})
}
