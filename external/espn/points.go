package espn

import (
	"context"
	"net/url"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/riskibarqy/usopen-scoreboard/internal/domain/match"
	"github.com/riskibarqy/usopen-scoreboard/internal/platform/cache"
	"github.com/riskibarqy/usopen-scoreboard/internal/platform/logging"
	"github.com/riskibarqy/usopen-scoreboard/internal/usecase"
	"github.com/valyala/fasthttp"
)

const (
	defaultPointsTimeout   = 3 * time.Second
	defaultPointsCacheTTL  = 15 * time.Second
	defaultPointsCacheSize = 200
	sourceEnrichment       = "enrichment"
)

type PointsClientConfig struct {
	HTTPClient  *fasthttp.Client
	WebBaseURL  string
	SiteBaseURL string
	CoreBaseURL string
	Timeout     time.Duration
	Cache       *cache.Store[match.CurrentGame]
	Metrics     Metrics
	Logger      *logging.Logger
}

// PointsClient looks up in-game points for live matches from the secondary
// summary and competition documents.
type PointsClient struct {
	httpClient  *fasthttp.Client
	webBaseURL  string
	siteBaseURL string
	coreBaseURL string
	timeout     time.Duration
	cache       *cache.Store[match.CurrentGame]
	metrics     Metrics
	logger      *logging.Logger
}

func NewPointsClient(cfg PointsClientConfig) *PointsClient {
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
		timeout = defaultPointsTimeout
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &fasthttp.Client{
			Name:                "usopen-scoreboard",
			ReadTimeout:         timeout,
			WriteTimeout:        timeout,
			MaxConnsPerHost:     64,
			MaxIdleConnDuration: 30 * time.Second,
		}
	}

	store := cfg.Cache
	if store == nil {
		store = cache.NewStore[match.CurrentGame]("live_points", defaultPointsCacheSize, defaultPointsCacheTTL)
	}

	return &PointsClient{
		httpClient:  httpClient,
		webBaseURL:  baseOrDefault(cfg.WebBaseURL, DefaultWebBaseURL),
		siteBaseURL: baseOrDefault(cfg.SiteBaseURL, DefaultSiteBaseURL),
		coreBaseURL: baseOrDefault(cfg.CoreBaseURL, DefaultCoreBaseURL),
		timeout:     timeout,
		cache:       store,
		metrics:     metrics,
		logger:      logger,
	}
}

func baseOrDefault(value, fallback string) string {
	value = strings.TrimRight(strings.TrimSpace(value), "/")
	if value == "" {
		return fallback
	}
	return value
}

var errNoLivePoints = crerr.New("no candidate document carried live points")

// FetchCurrentGamePoints tries each candidate document in order and returns
// the first one carrying points for both players. Concurrent lookups for the
// same competition share one attempt, and only successes are cached.
func (c *PointsClient) FetchCurrentGamePoints(ctx context.Context, ref match.Ref) (match.CurrentGame, bool) {
	ctx, span := startSpan(ctx, "espn.PointsClient.FetchCurrentGamePoints")
	defer span.End()

	candidates := c.candidates(ref)
	if len(candidates) == 0 {
		return match.CurrentGame{}, false
	}

	game, err := c.cache.GetOrLoad(ctx, ref.CacheKey(), func(ctx context.Context) (match.CurrentGame, error) {
		return c.loadCurrentGame(ctx, ref, candidates)
	})
	if err != nil {
		return match.CurrentGame{}, false
	}
	return game, true
}

func (c *PointsClient) loadCurrentGame(ctx context.Context, ref match.Ref, candidates []string) (match.CurrentGame, error) {
	for _, candidate := range candidates {
		if err := ctx.Err(); err != nil {
			return match.CurrentGame{}, err
		}

		start := time.Now()
		payload, err := c.getJSON(ctx, candidate)
		if err != nil {
			c.metrics.ObserveUpstream(sourceEnrichment, "", "error", time.Since(start))
			c.logger.DebugContext(ctx, "live points candidate failed", "url", candidate, "error", err)
			continue
		}
		c.metrics.ObserveUpstream(sourceEnrichment, "", "ok", time.Since(start))

		if game, ok := ExtractCurrentGameFor(payload, ref.CompetitionID); ok {
			return game, nil
		}
	}
	return match.CurrentGame{}, errNoLivePoints
}

// candidates lists the summary and core documents for one competition. The
// summary is queried by competition id: an event id names the whole
// tournament there.
func (c *PointsClient) candidates(ref match.Ref) []string {
	compID := strings.TrimSpace(ref.CompetitionID)
	if compID == "" {
		return nil
	}
	query := url.QueryEscape(compID)
	path := url.PathEscape(compID)
	return []string{
		c.webBaseURL + "/summary?event=" + query,
		c.siteBaseURL + "/summary?event=" + query,
		c.coreBaseURL + "/competitions/" + path,
		c.coreBaseURL + "/competitions/" + path + "/details",
	}
}

func (c *PointsClient) getJSON(ctx context.Context, fullURL string) (map[string]any, error) {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(fullURL)
	req.Header.SetMethod(fasthttp.MethodGet)
	req.Header.Set("Accept", "application/json")

	timeout := c.timeout
	if deadline, ok := ctx.Deadline(); ok {
		if remaining := time.Until(deadline); remaining < timeout {
			timeout = remaining
		}
	}
	if timeout <= 0 {
		return nil, crerr.Wrap(context.DeadlineExceeded, "live points request")
	}

	if err := c.httpClient.DoTimeout(req, resp, timeout); err != nil {
		return nil, crerr.Wrap(err, "send request")
	}
	if code := resp.StatusCode(); code < 200 || code >= 300 {
		return nil, crerr.Wrapf(usecase.ErrUpstream, "provider status=%d", code)
	}

	// the response buffer returns to the pool on release
	body := append([]byte(nil), resp.Body()...)
	var payload map[string]any
	if err := sonic.Unmarshal(body, &payload); err != nil {
		return nil, crerr.Wrap(err, "decode live points payload")
	}
	return payload, nil
}
