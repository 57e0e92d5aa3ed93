package espn

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/riskibarqy/usopen-scoreboard/internal/domain/scoreboard"
	"github.com/riskibarqy/usopen-scoreboard/internal/platform/logging"
	"github.com/riskibarqy/usopen-scoreboard/internal/platform/resilience"
	"github.com/riskibarqy/usopen-scoreboard/internal/platform/timeutil"
	"github.com/riskibarqy/usopen-scoreboard/internal/usecase"
	"go.opentelemetry.io/otel/attribute"
)

const (
	DefaultSiteBaseURL = "https://site.api.espn.com/apis/site/v2/sports/tennis"
	DefaultWebBaseURL  = "https://site.web.api.espn.com/apis/v2/sports/tennis"
	DefaultCoreBaseURL = "https://sports.core.api.espn.com/v2/sports/tennis"

	defaultScoreboardTimeout = 4 * time.Second
	defaultBucketWindow      = 5 * time.Second
	maxScoreboardBody        = 8 << 20

	sourceScoreboard = "scoreboard"
	breakerName      = "espn_scoreboard"
)

var errScoreboardTransient = crerr.New("scoreboard transient failure")

// ScoreboardCache holds raw scoreboard bodies keyed by tour and day.
type ScoreboardCache interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, value []byte)
}

// Metrics is the subset of the metrics manager the clients report to.
type Metrics interface {
	ObserveUpstream(source, tour, outcome string, elapsed time.Duration)
	SetBreakerOpen(name string, open bool)
}

type noopMetrics struct{}

func (noopMetrics) ObserveUpstream(string, string, string, time.Duration) {}
func (noopMetrics) SetBreakerOpen(string, bool)                           {}

type ScoreboardClientConfig struct {
	HTTPClient     *http.Client
	BaseURL        string
	Timeout        time.Duration
	BucketWindow   time.Duration
	Cache          ScoreboardCache
	Metrics        Metrics
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
}

type ScoreboardClient struct {
	httpClient     *http.Client
	baseURL        string
	timeout        time.Duration
	bucketWindow   time.Duration
	cache          ScoreboardCache
	metrics        Metrics
	logger         *logging.Logger
	breaker        *resilience.CircuitBreaker
	circuitEnabled bool
	flight         resilience.SingleFlight
	now            func() time.Time
}

func NewScoreboardClient(cfg ScoreboardClientConfig) *ScoreboardClient {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}
	metrics := cfg.Metrics
	if metrics == nil {
		metrics = noopMetrics{}
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultScoreboardTimeout
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: timeout}
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = DefaultSiteBaseURL
	}
	window := cfg.BucketWindow
	if window <= 0 {
		window = defaultBucketWindow
	}

	breakerCfg := resilience.NormalizeCircuitBreakerConfig(cfg.CircuitBreaker)
	breaker := resilience.NewCircuitBreaker(breakerCfg)
	breaker.OnStateChange(func(from, to resilience.CircuitState) {
		metrics.SetBreakerOpen(breakerName, to == resilience.CircuitStateOpen)
		logger.Warn("scoreboard circuit breaker state changed", "from", from, "to", to)
	})

	return &ScoreboardClient{
		httpClient:     httpClient,
		baseURL:        baseURL,
		timeout:        timeout,
		bucketWindow:   window,
		cache:          cfg.Cache,
		metrics:        metrics,
		logger:         logger,
		breaker:        breaker,
		circuitEnabled: breakerCfg.Enabled,
		now:            time.Now,
	}
}

// FetchScoreboard returns the tour's scoreboard for a YYYY-MM-DD day.
// Any failure is logged and yields an empty scoreboard.
func (c *ScoreboardClient) FetchScoreboard(ctx context.Context, tour scoreboard.Tour, date string) scoreboard.Scoreboard {
	ctx, span := startSpan(ctx, "espn.ScoreboardClient.FetchScoreboard")
	defer span.End()
	span.SetAttributes(attribute.String("espn.tour", string(tour)), attribute.String("espn.date", date))

	empty := scoreboard.Scoreboard{Tour: tour}
	compact := timeutil.CompactDate(date)
	key := ScoreboardCacheKey(tour, compact)

	if c.cache != nil {
		if raw, ok := c.cache.Get(ctx, key); ok {
			payload, err := decodeScoreboard(raw)
			if err == nil {
				return scoreboard.FromPayload(tour, payload)
			}
			c.logger.WarnContext(ctx, "discard undecodable cached scoreboard", "tour", tour, "date", date, "error", err)
		}
	}

	// The flight ignores the leader's cancellation; callers arriving after it
	// stored a body read that instead.
	out, err, _ := c.flight.Do(key, func() (any, error) {
		if c.cache != nil {
			if raw, ok := c.cache.Get(ctx, key); ok {
				if payload, decodeErr := decodeScoreboard(raw); decodeErr == nil {
					return payload, nil
				}
			}
		}

		fetchCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.timeout)
		defer cancel()

		raw, payload, fetchErr := c.fetch(fetchCtx, tour, compact)
		if fetchErr != nil {
			return nil, fetchErr
		}
		if c.cache != nil {
			c.cache.Set(ctx, key, raw)
		}
		return payload, nil
	})
	if err != nil {
		span.RecordError(err)
		c.logger.WarnContext(ctx, "scoreboard fetch failed, serving empty scoreboard",
			"tour", tour,
			"date", date,
			"error", err,
		)
		return empty
	}

	payload, ok := out.(map[string]any)
	if !ok {
		return empty
	}
	return scoreboard.FromPayload(tour, payload)
}

func ScoreboardCacheKey(tour scoreboard.Tour, compactDate string) string {
	return "espn:" + string(tour) + ":" + compactDate
}

func (c *ScoreboardClient) scoreboardURL(tour scoreboard.Tour, compactDate string) string {
	return fmt.Sprintf("%s/%s/scoreboard?dates=%s&cb=%d",
		c.baseURL,
		tour,
		compactDate,
		timeutil.Bucket(c.now(), c.bucketWindow),
	)
}

func (c *ScoreboardClient) fetch(ctx context.Context, tour scoreboard.Tour, compactDate string) ([]byte, map[string]any, error) {
	var (
		raw     []byte
		payload map[string]any
	)

	start := time.Now()
	outcome := "ok"
	run := func() error {
		var err error
		raw, err = c.executeRequest(ctx, c.scoreboardURL(tour, compactDate))
		if err != nil {
			outcome = "http_error"
			return err
		}
		payload, err = decodeScoreboard(raw)
		if err != nil {
			outcome = "decode_error"
			return crerr.Wrap(err, "decode scoreboard payload")
		}
		return nil
	}

	var err error
	if c.circuitEnabled {
		err = c.breaker.Execute(run, isScoreboardCircuitFailure)
		if crerr.Is(err, resilience.ErrCircuitOpen) {
			outcome = "circuit_open"
			err = crerr.Wrap(usecase.ErrDependencyUnavailable, "scoreboard provider is temporarily unavailable")
		}
	} else {
		err = run()
	}
	c.metrics.ObserveUpstream(sourceScoreboard, string(tour), outcome, time.Since(start))
	if err != nil {
		return nil, nil, err
	}
	return raw, payload, nil
}

func (c *ScoreboardClient) executeRequest(ctx context.Context, fullURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, crerr.Wrap(err, "build request")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, crerr.Wrap(ctxErr, "send request")
		}
		return nil, crerr.Wrapf(errScoreboardTransient, "send request: %v", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxScoreboardBody))
	if err != nil {
		return nil, crerr.Wrapf(errScoreboardTransient, "read response body: %v", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, crerr.Wrapf(usecase.ErrUpstream, "provider status=%d body=%s", resp.StatusCode, abbreviateBody(raw))
	}
	return raw, nil
}

func decodeScoreboard(raw []byte) (map[string]any, error) {
	var payload map[string]any
	if err := sonic.Unmarshal(raw, &payload); err != nil {
		return nil, err
	}
	if payload == nil {
		return nil, crerr.New("scoreboard payload is not an object")
	}
	return payload, nil
}

// isScoreboardCircuitFailure ignores caller cancellation so a client hanging up
// does not count against the provider.
func isScoreboardCircuitFailure(err error) bool {
	if err == nil {
		return false
	}
	return !crerr.Is(err, context.Canceled)
}

func abbreviateBody(raw []byte) string {
	const limit = 256
	text := strings.TrimSpace(string(raw))
	if len(text) <= limit {
		return text
	}
	return text[:limit] + "..."
}
