package app

import (
	"context"
	"fmt"
	"net/http"

	"github.com/riskibarqy/usopen-scoreboard/external/espn"
	"github.com/riskibarqy/usopen-scoreboard/internal/config"
	"github.com/riskibarqy/usopen-scoreboard/internal/domain/match"
	rediscache "github.com/riskibarqy/usopen-scoreboard/internal/infrastructure/cache"
	"github.com/riskibarqy/usopen-scoreboard/internal/interfaces/httpapi"
	"github.com/riskibarqy/usopen-scoreboard/internal/platform/cache"
	idgen "github.com/riskibarqy/usopen-scoreboard/internal/platform/id"
	"github.com/riskibarqy/usopen-scoreboard/internal/platform/logging"
	"github.com/riskibarqy/usopen-scoreboard/internal/platform/metrics"
	"github.com/riskibarqy/usopen-scoreboard/internal/platform/resilience"
	"github.com/riskibarqy/usopen-scoreboard/internal/platform/timeutil"
	"github.com/riskibarqy/usopen-scoreboard/internal/usecase"
)

// NewHTTPServer wires the feed clients, use cases and router. The returned
// cleanup releases shared resources and must run after the server stops.
func NewHTTPServer(ctx context.Context, cfg config.Config, logger *logging.Logger) (*http.Server, func() error, error) {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.HTTPAddr == "" {
		return nil, nil, fmt.Errorf("http server addr cannot be empty")
	}

	tournament, err := buildTournament(cfg.Tournament)
	if err != nil {
		return nil, nil, err
	}

	var metricsManager *metrics.Manager
	if cfg.MetricsEnabled {
		metricsManager = metrics.NewManager(metrics.WithGoCollectors())
	}

	scoreboardCache, closeCache, err := buildScoreboardCache(ctx, cfg, metricsManager, logger)
	if err != nil {
		return nil, nil, err
	}

	scoreboardClient := espn.NewScoreboardClient(espn.ScoreboardClientConfig{
		BaseURL:      cfg.ESPNSiteBaseURL,
		Timeout:      cfg.ScoreboardTimeout,
		BucketWindow: cfg.ScoreboardBucketWindow,
		Cache:        scoreboardCache,
		Metrics:      metricsManager,
		Logger:       logger.Named("espn.scoreboard"),
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          cfg.ScoreboardCircuitEnabled,
			FailureThreshold: cfg.ScoreboardCircuitFailures,
			OpenTimeout:      cfg.ScoreboardCircuitOpenFor,
			HalfOpenMaxReq:   cfg.ScoreboardCircuitHalfOpen,
		},
	})

	pointsClient := espn.NewPointsClient(espn.PointsClientConfig{
		WebBaseURL:  cfg.ESPNWebBaseURL,
		SiteBaseURL: cfg.ESPNSiteBaseURL,
		CoreBaseURL: cfg.ESPNCoreBaseURL,
		Timeout:     cfg.EnrichmentTimeout,
		Cache: cache.NewStore[match.CurrentGame]("live_points", cfg.EnrichmentCacheSize, cfg.EnrichmentCacheTTL,
			cache.WithObserver[match.CurrentGame](metricsManager.ObserveCache)),
		Metrics: metricsManager,
		Logger:  logger.Named("espn.points"),
	})

	matchSvc := usecase.NewMatchService(
		scoreboardClient,
		pointsClient,
		usecase.MatchServiceConfig{
			Tournament:        tournament,
			EnrichmentWorkers: cfg.EnrichmentWorkers,
		},
		idgen.NewUUIDGenerator(),
		metricsManager,
		logger.Named("usecase.matches"),
	)
	tournamentSvc := usecase.NewTournamentService(tournament)

	dependencies := map[string]httpapi.HealthChecker{}
	if checker, ok := scoreboardCache.(httpapi.HealthChecker); ok {
		dependencies["redis"] = checker
	}

	handler := httpapi.NewHandler(matchSvc, tournamentSvc, logger, httpapi.HandlerConfig{
		CacheControl: cfg.CacheControl,
		Dependencies: dependencies,
	})

	routerCfg := httpapi.RouterConfig{
		Logger:             logger,
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		RequestIDs:         idgen.NewUUIDGenerator(),
	}
	if metricsManager != nil {
		routerCfg.Metrics = metricsManager
		routerCfg.MetricsHandler = metricsManager.Handler()
	}

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      httpapi.NewRouter(handler, routerCfg),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	logger.Info("app wired",
		"tournament", tournament.Name,
		"timezone", tournament.Location.String(),
		"metrics_enabled", cfg.MetricsEnabled,
		"shared_cache", cfg.RedisURL != "",
	)

	return server, closeCache, nil
}

func buildTournament(cfg config.Tournament) (usecase.Tournament, error) {
	loc, err := timeutil.LoadZone(cfg.Timezone)
	if err != nil {
		return usecase.Tournament{}, err
	}
	return usecase.Tournament{
		Name:      cfg.Name,
		Slug:      cfg.Slug,
		Location:  loc,
		StartDate: cfg.StartDate,
		EndDate:   cfg.EndDate,
	}, nil
}

// buildScoreboardCache picks Redis when REDIS_URL is set so replicas share
// one cache-buster window, and the in-process LRU otherwise.
func buildScoreboardCache(
	ctx context.Context,
	cfg config.Config,
	metricsManager *metrics.Manager,
	logger *logging.Logger,
) (espn.ScoreboardCache, func() error, error) {
	if cfg.RedisURL == "" {
		store := cache.NewStore[[]byte]("scoreboard", cfg.ScoreboardCacheSize, cfg.ScoreboardCacheTTL,
			cache.WithObserver[[]byte](metricsManager.ObserveCache))
		return store, func() error { return nil }, nil
	}

	redisCache, err := rediscache.NewRedisBytes(ctx, rediscache.RedisConfig{
		URL:       cfg.RedisURL,
		KeyPrefix: cfg.RedisKeyPrefix,
		TTL:       cfg.ScoreboardCacheTTL,
		Logger:    logger.Named("cache.redis"),
		Observe:   metricsManager.ObserveCache,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("connect scoreboard cache: %w", err)
	}
	return redisCache, redisCache.Close, nil
}
