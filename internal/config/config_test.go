package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_AppEnvValidation(t *testing.T) {
	t.Setenv("APP_ENV", "invalid")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for invalid APP_ENV")
	}
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "false")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}

	assert.Equal(t, "usopen-scoreboard", cfg.ServiceName)
	assert.Equal(t, 4*time.Second, cfg.ScoreboardTimeout)
	assert.Equal(t, 5*time.Second, cfg.ScoreboardCacheTTL)
	assert.Equal(t, 100, cfg.ScoreboardCacheSize)
	assert.Equal(t, 5*time.Second, cfg.ScoreboardBucketWindow)
	assert.Equal(t, 3*time.Second, cfg.EnrichmentTimeout)
	assert.Equal(t, 15*time.Second, cfg.EnrichmentCacheTTL)
	assert.Equal(t, 200, cfg.EnrichmentCacheSize)
	assert.Equal(t, 16, cfg.EnrichmentWorkers)
	assert.Equal(t, "public, max-age=15, stale-while-revalidate=30", cfg.CacheControl)
	assert.Equal(t, []string{"*"}, cfg.CORSAllowedOrigins)
	assert.True(t, cfg.MetricsEnabled)
	assert.Empty(t, cfg.RedisURL)
	assert.Equal(t, DefaultTournament(), cfg.Tournament)
	assert.Equal(t, "info", cfg.LogLevel.String())
}

func TestLoad_UptraceRequiresDSNWhenEnabled(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "true")
	t.Setenv("UPTRACE_DSN", "")
	t.Setenv("OTEL_EXPORTER_OTLP_HEADERS", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when UPTRACE_ENABLED=true without UPTRACE_DSN")
	}
}

func TestLoad_UptraceDSNFromOTLPHeaders(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "true")
	t.Setenv("UPTRACE_DSN", "")
	t.Setenv("OTEL_EXPORTER_OTLP_HEADERS", `foo=bar, uptrace-dsn="https://token@api.uptrace.dev/1"`)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.UptraceDSN != "https://token@api.uptrace.dev/1" {
		t.Fatalf("unexpected UptraceDSN: %q", cfg.UptraceDSN)
	}
}

func TestLoad_PprofDefaultsAddrWhenEnabled(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "false")
	t.Setenv("PPROF_ENABLED", "true")
	t.Setenv("PPROF_ADDR", "  ")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.PprofAddr != ":6060" {
		t.Fatalf("expected default pprof addr :6060, got %q", cfg.PprofAddr)
	}
}

func TestLoad_PyroscopeRequiresServerAddressWhenEnabled(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "false")
	t.Setenv("PYROSCOPE_ENABLED", "true")
	t.Setenv("PYROSCOPE_SERVER_ADDRESS", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when PYROSCOPE_ENABLED=true without PYROSCOPE_SERVER_ADDRESS")
	}
}

func TestLoad_PyroscopeAppNameDefaultsToServiceName(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "false")
	t.Setenv("APP_SERVICE_NAME", "scoreboard-edge")
	t.Setenv("PYROSCOPE_APP_NAME", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.PyroscopeAppName != "scoreboard-edge" {
		t.Fatalf("unexpected PyroscopeAppName: %q", cfg.PyroscopeAppName)
	}
}

func TestLoad_RejectsNonPositiveValues(t *testing.T) {
	cases := map[string]string{
		"SCOREBOARD_TIMEOUT":               "0s",
		"SCOREBOARD_CACHE_SIZE":            "0",
		"ENRICHMENT_WORKERS":               "-1",
		"ENRICHMENT_CACHE_TTL":             "-5s",
		"SCOREBOARD_CIRCUIT_FAILURE_COUNT": "0",
		"APP_READ_TIMEOUT":                 "soon",
	}

	for key, value := range cases {
		t.Run(key, func(t *testing.T) {
			t.Setenv("APP_ENV", EnvDev)
			t.Setenv("UPTRACE_ENABLED", "false")
			t.Setenv(key, value)

			if _, err := Load(); err == nil {
				t.Fatalf("expected error for %s=%q", key, value)
			}
		})
	}
}

func TestLoad_OverridesFromEnv(t *testing.T) {
	t.Setenv("APP_ENV", EnvProd)
	t.Setenv("UPTRACE_ENABLED", "false")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, ,https://b.example")
	t.Setenv("ENRICHMENT_WORKERS", "4")
	t.Setenv("REDIS_URL", "redis://localhost:6379/0")
	t.Setenv("APP_LOG_LEVEL", "debug")
	t.Setenv("METRICS_ENABLED", "false")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, EnvProd, cfg.AppEnv)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSAllowedOrigins)
	assert.Equal(t, 4, cfg.EnrichmentWorkers)
	assert.Equal(t, "redis://localhost:6379/0", cfg.RedisURL)
	assert.Equal(t, "debug", cfg.LogLevel.String())
	assert.False(t, cfg.MetricsEnabled)
}

func TestLoadTournament_FileThenEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tournament.yaml")
	content := []byte("name: Wimbledon\nslug: wimbledon\ntimezone: Europe/London\nstart_date: \"2025-06-30\"\nend_date: \"2025-07-13\"\n")
	require.NoError(t, os.WriteFile(path, content, 0o600))

	t.Setenv("TOURNAMENT_SLUG", "wimbledon-2025")

	got, err := LoadTournament(path)
	require.NoError(t, err)

	assert.Equal(t, Tournament{
		Name:      "Wimbledon",
		Slug:      "wimbledon-2025",
		Timezone:  "Europe/London",
		StartDate: "2025-06-30",
		EndDate:   "2025-07-13",
	}, got)
}

func TestLoadTournament_KeepsDefaultsForMissingKeys(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tournament.yaml")
	require.NoError(t, os.WriteFile(path, []byte("end_date: \"2025-09-08\"\n"), 0o600))

	got, err := LoadTournament(path)
	require.NoError(t, err)

	want := DefaultTournament()
	want.EndDate = "2025-09-08"
	assert.Equal(t, want, got)
}

func TestLoadTournament_Validation(t *testing.T) {
	cases := map[string]string{
		"bad timezone":   "timezone: Mars/Olympus\n",
		"bad start date": "start_date: \"2025-02-30\"\n",
		"reversed range": "start_date: \"2025-09-08\"\nend_date: \"2025-09-01\"\n",
		"blank name":     "name: \"  \"\n",
	}

	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "tournament.yaml")
			require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

			if _, err := LoadTournament(path); err == nil {
				t.Fatalf("expected validation error for %q", body)
			}
		})
	}
}

func TestLoadTournament_MissingFile(t *testing.T) {
	if _, err := LoadTournament(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatalf("expected error for missing tournament file")
	}
}
