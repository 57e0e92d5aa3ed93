package espn

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/riskibarqy/usopen-scoreboard/internal/domain/scoreboard"
	"github.com/riskibarqy/usopen-scoreboard/internal/platform/cache"
	"github.com/riskibarqy/usopen-scoreboard/internal/platform/logging"
	"github.com/riskibarqy/usopen-scoreboard/internal/platform/resilience"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestScoreboardClient(baseURL string, breaker resilience.CircuitBreakerConfig) *ScoreboardClient {
	return NewScoreboardClient(ScoreboardClientConfig{
		BaseURL:        baseURL,
		Timeout:        time.Second,
		Cache:          cache.NewStore[[]byte]("scoreboard", 100, 5*time.Second),
		Logger:         logging.NewNop(),
		CircuitBreaker: breaker,
	})
}

func TestScoreboardClient_FetchScoreboard_BuildsRequestAndCaches(t *testing.T) {
	t.Parallel()

	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		if r.URL.Path != "/wta/scoreboard" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("dates"); got != "20250826" {
			t.Errorf("unexpected dates param: %s", got)
		}
		if r.URL.Query().Get("cb") == "" {
			t.Errorf("missing cache buster")
		}
		if got := r.Header.Get("Accept"); got != "application/json" {
			t.Errorf("unexpected accept header: %s", got)
		}
		_, _ = w.Write([]byte(`{"events": [{"id": "1", "name": "US Open"}]}`))
	}))
	defer server.Close()

	client := newTestScoreboardClient(server.URL, resilience.CircuitBreakerConfig{})

	first := client.FetchScoreboard(context.Background(), scoreboard.TourWTA, "2025-08-26")
	second := client.FetchScoreboard(context.Background(), scoreboard.TourWTA, "2025-08-26")

	require.Len(t, first.Events, 1)
	require.Len(t, second.Events, 1)
	assert.Equal(t, scoreboard.TourWTA, first.Tour)
	assert.Equal(t, int32(1), hits.Load(), "second call within the TTL is served from cache")
}

func TestScoreboardClient_FetchScoreboard_FailuresYieldEmpty(t *testing.T) {
	t.Parallel()

	cases := map[string]http.HandlerFunc{
		"server error": func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		},
		"not json": func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`<html>oops</html>`))
		},
		"no events": func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`{"leagues": []}`))
		},
	}

	for name, handler := range cases {
		t.Run(name, func(t *testing.T) {
			server := httptest.NewServer(handler)
			defer server.Close()

			client := newTestScoreboardClient(server.URL, resilience.CircuitBreakerConfig{})
			board := client.FetchScoreboard(context.Background(), scoreboard.TourATP, "2025-08-26")
			assert.Empty(t, board.Events)
			assert.Equal(t, scoreboard.TourATP, board.Tour)
		})
	}
}

func TestScoreboardClient_FetchScoreboard_FailureIsNotCached(t *testing.T) {
	t.Parallel()

	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if hits.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(`{"events": [{"id": "1"}]}`))
	}))
	defer server.Close()

	client := newTestScoreboardClient(server.URL, resilience.CircuitBreakerConfig{})
	assert.Empty(t, client.FetchScoreboard(context.Background(), scoreboard.TourATP, "2025-08-26").Events)
	assert.Len(t, client.FetchScoreboard(context.Background(), scoreboard.TourATP, "2025-08-26").Events, 1)
}

func TestScoreboardClient_FetchScoreboard_CoalescesConcurrentMisses(t *testing.T) {
	t.Parallel()

	var hits atomic.Int32
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		<-release
		_, _ = w.Write([]byte(`{"events": [{"id": "1"}]}`))
	}))
	defer server.Close()

	// each caller looks the key up once before joining the flight, the leader once more inside it
	var lookups atomic.Int32
	client := NewScoreboardClient(ScoreboardClientConfig{
		BaseURL: server.URL,
		Timeout: time.Second,
		Cache: cache.NewStore[[]byte]("scoreboard", 100, 5*time.Second, cache.WithObserver[[]byte](func(string, bool) {
			lookups.Add(1)
		})),
		Logger: logging.NewNop(),
	})

	var wg sync.WaitGroup
	results := make([]scoreboard.Scoreboard, 8)
	for i := range results {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i] = client.FetchScoreboard(context.Background(), scoreboard.TourATP, "2025-08-26")
		}()
	}

	require.Eventually(t, func() bool { return hits.Load() == 1 && lookups.Load() >= int32(len(results)+1) }, time.Second, 5*time.Millisecond)
	close(release)
	wg.Wait()

	for _, board := range results {
		assert.Len(t, board.Events, 1)
	}
	assert.Equal(t, int32(1), hits.Load())
}

func TestScoreboardClient_FetchScoreboard_FollowerSurvivesLeaderCancellation(t *testing.T) {
	t.Parallel()

	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		time.Sleep(200 * time.Millisecond)
		_, _ = w.Write([]byte(`{"events": [{"id": "1"}]}`))
	}))
	defer server.Close()

	client := newTestScoreboardClient(server.URL, resilience.CircuitBreakerConfig{Enabled: true, FailureThreshold: 1, OpenTimeout: time.Minute, HalfOpenMaxReq: 1})

	leaderCtx, cancelLeader := context.WithCancel(context.Background())
	leaderDone := make(chan struct{})
	go func() {
		defer close(leaderDone)
		client.FetchScoreboard(leaderCtx, scoreboard.TourATP, "2025-08-26")
	}()
	require.Eventually(t, func() bool { return hits.Load() == 1 }, time.Second, time.Millisecond)

	followerOut := make(chan scoreboard.Scoreboard, 1)
	go func() {
		followerOut <- client.FetchScoreboard(context.Background(), scoreboard.TourATP, "2025-08-26")
	}()
	time.Sleep(30 * time.Millisecond)
	cancelLeader()

	follower := <-followerOut
	<-leaderDone

	assert.Len(t, follower.Events, 1)
	assert.Equal(t, int32(1), hits.Load())
	assert.Equal(t, resilience.CircuitStateClosed, client.breaker.State())
}

func TestScoreboardClient_FetchScoreboard_CircuitOpensAfterFailures(t *testing.T) {
	t.Parallel()

	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := newTestScoreboardClient(server.URL, resilience.CircuitBreakerConfig{
		Enabled:          true,
		FailureThreshold: 2,
		OpenTimeout:      time.Minute,
		HalfOpenMaxReq:   1,
	})

	for i := 0; i < 4; i++ {
		board := client.FetchScoreboard(context.Background(), scoreboard.TourATP, "2025-08-26")
		assert.Empty(t, board.Events)
	}
	assert.Equal(t, int32(2), hits.Load())
	assert.Equal(t, resilience.CircuitStateOpen, client.breaker.State())
}

func TestScoreboardClient_ScoreboardURL(t *testing.T) {
	t.Parallel()

	client := NewScoreboardClient(ScoreboardClientConfig{BaseURL: "https://example.test/tennis/", Logger: logging.NewNop()})
	client.now = func() time.Time { return time.Unix(1_756_220_000, 0) }

	assert.Equal(t,
		"https://example.test/tennis/atp/scoreboard?dates=20250826&cb=351244000",
		client.scoreboardURL(scoreboard.TourATP, "20250826"),
	)
	assert.Equal(t, "espn:wta:20250826", ScoreboardCacheKey(scoreboard.TourWTA, "20250826"))
}
