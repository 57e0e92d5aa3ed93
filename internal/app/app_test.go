package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	_ "time/tzdata"

	"github.com/riskibarqy/usopen-scoreboard/internal/config"
	"github.com/riskibarqy/usopen-scoreboard/internal/platform/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T) config.Config {
	t.Helper()
	t.Setenv("APP_ENV", config.EnvDev)
	t.Setenv("UPTRACE_ENABLED", "false")
	t.Setenv("REDIS_URL", "")
	cfg, err := config.Load()
	require.NoError(t, err)
	return cfg
}

func TestNewHTTPServer_ServesSystemRoutes(t *testing.T) {
	cfg := testConfig(t)

	srv, cleanup, err := NewHTTPServer(context.Background(), cfg, logging.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = cleanup() })

	assert.Equal(t, cfg.HTTPAddr, srv.Addr)

	for _, path := range []string{"/healthz", "/metrics", "/v1/tournament"} {
		rec := httptest.NewRecorder()
		srv.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusOK, rec.Code, path)
	}
}

func TestNewHTTPServer_MetricsDisabled(t *testing.T) {
	cfg := testConfig(t)
	cfg.MetricsEnabled = false

	srv, cleanup, err := NewHTTPServer(context.Background(), cfg, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = cleanup() })

	rec := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.NotEqual(t, http.StatusOK, rec.Code)
}

func TestNewHTTPServer_RejectsEmptyAddr(t *testing.T) {
	cfg := testConfig(t)
	cfg.HTTPAddr = ""

	if _, _, err := NewHTTPServer(context.Background(), cfg, logging.NewNop()); err == nil {
		t.Fatalf("expected error for empty addr")
	}
}

func TestNewHTTPServer_UnreachableRedis(t *testing.T) {
	cfg := testConfig(t)
	cfg.RedisURL = "redis://127.0.0.1:1/0"

	if _, _, err := NewHTTPServer(context.Background(), cfg, logging.NewNop()); err == nil {
		t.Fatalf("expected error when redis is unreachable")
	}
}

func TestBuildTournament(t *testing.T) {
	got, err := buildTournament(config.DefaultTournament())
	require.NoError(t, err)
	assert.Equal(t, "US Open", got.Name)
	assert.Equal(t, "America/New_York", got.Location.String())

	bad := config.DefaultTournament()
	bad.Timezone = "Nowhere/Special"
	if _, err := buildTournament(bad); err == nil {
		t.Fatalf("expected error for unknown timezone")
	}
}
