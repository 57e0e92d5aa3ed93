package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/riskibarqy/usopen-scoreboard/internal/platform/logging"
)

// Config stores runtime configuration for the service.
type Config struct {
	AppEnv                     string
	ServiceName                string
	ServiceVersion             string
	HTTPAddr                   string
	CORSAllowedOrigins         []string
	ReadTimeout                time.Duration
	WriteTimeout               time.Duration
	ShutdownTimeout            time.Duration
	CacheControl               string
	PprofEnabled               bool
	PprofAddr                  string
	MetricsEnabled             bool
	UptraceEnabled             bool
	UptraceDSN                 string
	PyroscopeEnabled           bool
	PyroscopeServerAddress     string
	PyroscopeAppName           string
	PyroscopeAuthToken         string
	PyroscopeBasicAuthUser     string
	PyroscopeBasicAuthPassword string
	PyroscopeUploadRate        time.Duration
	ESPNSiteBaseURL            string
	ESPNWebBaseURL             string
	ESPNCoreBaseURL            string
	ScoreboardTimeout          time.Duration
	ScoreboardCacheTTL         time.Duration
	ScoreboardCacheSize        int
	ScoreboardBucketWindow     time.Duration
	ScoreboardCircuitEnabled   bool
	ScoreboardCircuitFailures  int
	ScoreboardCircuitOpenFor   time.Duration
	ScoreboardCircuitHalfOpen  int
	EnrichmentTimeout          time.Duration
	EnrichmentCacheTTL         time.Duration
	EnrichmentCacheSize        int
	EnrichmentWorkers          int
	RedisURL                   string
	RedisKeyPrefix             string
	Tournament                 Tournament
	LogLevel                   logging.Level
}

func Load() (Config, error) {
	appEnv, err := parseAppEnv(getEnv("APP_ENV", EnvDev))
	if err != nil {
		return Config{}, err
	}

	uptraceEnabled, err := strconv.ParseBool(getEnv("UPTRACE_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse UPTRACE_ENABLED: %w", err)
	}
	uptraceDSN := strings.TrimSpace(getEnv("UPTRACE_DSN", ""))
	if uptraceDSN == "" {
		uptraceDSN = parseUptraceDSNFromOTLPHeaders(getEnv("OTEL_EXPORTER_OTLP_HEADERS", ""))
	}
	if uptraceEnabled && uptraceDSN == "" {
		return Config{}, fmt.Errorf("UPTRACE_DSN is required when UPTRACE_ENABLED=true")
	}

	pprofEnabled, err := strconv.ParseBool(getEnv("PPROF_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PPROF_ENABLED: %w", err)
	}
	pprofAddr := strings.TrimSpace(getEnv("PPROF_ADDR", ":6060"))

	metricsEnabled, err := strconv.ParseBool(getEnv("METRICS_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse METRICS_ENABLED: %w", err)
	}

	pyroscopeEnabled, err := strconv.ParseBool(getEnv("PYROSCOPE_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PYROSCOPE_ENABLED: %w", err)
	}
	pyroscopeServerAddress := strings.TrimSpace(getEnv("PYROSCOPE_SERVER_ADDRESS", ""))
	if pyroscopeEnabled && pyroscopeServerAddress == "" {
		return Config{}, fmt.Errorf("PYROSCOPE_SERVER_ADDRESS is required when PYROSCOPE_ENABLED=true")
	}
	pyroscopeUploadRate, err := getPositiveDuration("PYROSCOPE_UPLOAD_RATE", "15s")
	if err != nil {
		return Config{}, err
	}

	readTimeout, err := getPositiveDuration("APP_READ_TIMEOUT", "10s")
	if err != nil {
		return Config{}, err
	}
	writeTimeout, err := getPositiveDuration("APP_WRITE_TIMEOUT", "15s")
	if err != nil {
		return Config{}, err
	}
	shutdownTimeout, err := getPositiveDuration("APP_SHUTDOWN_TIMEOUT", "10s")
	if err != nil {
		return Config{}, err
	}

	scoreboardTimeout, err := getPositiveDuration("SCOREBOARD_TIMEOUT", "4s")
	if err != nil {
		return Config{}, err
	}
	scoreboardCacheTTL, err := getPositiveDuration("SCOREBOARD_CACHE_TTL", "5s")
	if err != nil {
		return Config{}, err
	}
	scoreboardCacheSize, err := getPositiveInt("SCOREBOARD_CACHE_SIZE", 100)
	if err != nil {
		return Config{}, err
	}
	scoreboardBucketWindow, err := getPositiveDuration("SCOREBOARD_BUCKET_WINDOW", "5s")
	if err != nil {
		return Config{}, err
	}

	scoreboardCircuitEnabled, err := strconv.ParseBool(getEnv("SCOREBOARD_CIRCUIT_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse SCOREBOARD_CIRCUIT_ENABLED: %w", err)
	}
	scoreboardCircuitFailures, err := getPositiveInt("SCOREBOARD_CIRCUIT_FAILURE_COUNT", 5)
	if err != nil {
		return Config{}, err
	}
	scoreboardCircuitOpenFor, err := getPositiveDuration("SCOREBOARD_CIRCUIT_OPEN_TIMEOUT", "15s")
	if err != nil {
		return Config{}, err
	}
	scoreboardCircuitHalfOpen, err := getPositiveInt("SCOREBOARD_CIRCUIT_HALF_OPEN_MAX_REQ", 1)
	if err != nil {
		return Config{}, err
	}

	enrichmentTimeout, err := getPositiveDuration("ENRICHMENT_TIMEOUT", "3s")
	if err != nil {
		return Config{}, err
	}
	enrichmentCacheTTL, err := getPositiveDuration("ENRICHMENT_CACHE_TTL", "15s")
	if err != nil {
		return Config{}, err
	}
	enrichmentCacheSize, err := getPositiveInt("ENRICHMENT_CACHE_SIZE", 200)
	if err != nil {
		return Config{}, err
	}
	enrichmentWorkers, err := getPositiveInt("ENRICHMENT_WORKERS", 16)
	if err != nil {
		return Config{}, err
	}

	tournament, err := LoadTournament(strings.TrimSpace(getEnv("TOURNAMENT_CONFIG", "")))
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		AppEnv:                     appEnv,
		ServiceName:                getEnv("APP_SERVICE_NAME", "usopen-scoreboard"),
		ServiceVersion:             getEnv("APP_SERVICE_VERSION", "dev"),
		HTTPAddr:                   getEnv("APP_HTTP_ADDR", ":3000"),
		CORSAllowedOrigins:         splitCSV(getEnv("CORS_ALLOWED_ORIGINS", "*")),
		ReadTimeout:                readTimeout,
		WriteTimeout:               writeTimeout,
		ShutdownTimeout:            shutdownTimeout,
		CacheControl:               strings.TrimSpace(getEnv("CACHE_CONTROL", "public, max-age=15, stale-while-revalidate=30")),
		PprofEnabled:               pprofEnabled,
		PprofAddr:                  pprofAddr,
		MetricsEnabled:             metricsEnabled,
		UptraceEnabled:             uptraceEnabled,
		UptraceDSN:                 uptraceDSN,
		PyroscopeEnabled:           pyroscopeEnabled,
		PyroscopeServerAddress:     pyroscopeServerAddress,
		PyroscopeAuthToken:         strings.TrimSpace(getEnv("PYROSCOPE_AUTH_TOKEN", "")),
		PyroscopeBasicAuthUser:     strings.TrimSpace(getEnv("PYROSCOPE_BASIC_AUTH_USER", "")),
		PyroscopeBasicAuthPassword: strings.TrimSpace(getEnv("PYROSCOPE_BASIC_AUTH_PASSWORD", "")),
		PyroscopeUploadRate:        pyroscopeUploadRate,
		ESPNSiteBaseURL:            strings.TrimSpace(getEnv("ESPN_SITE_BASE_URL", "https://site.api.espn.com/apis/site/v2/sports/tennis")),
		ESPNWebBaseURL:             strings.TrimSpace(getEnv("ESPN_WEB_BASE_URL", "https://site.web.api.espn.com/apis/v2/sports/tennis")),
		ESPNCoreBaseURL:            strings.TrimSpace(getEnv("ESPN_CORE_BASE_URL", "https://sports.core.api.espn.com/v2/sports/tennis")),
		ScoreboardTimeout:          scoreboardTimeout,
		ScoreboardCacheTTL:         scoreboardCacheTTL,
		ScoreboardCacheSize:        scoreboardCacheSize,
		ScoreboardBucketWindow:     scoreboardBucketWindow,
		ScoreboardCircuitEnabled:   scoreboardCircuitEnabled,
		ScoreboardCircuitFailures:  scoreboardCircuitFailures,
		ScoreboardCircuitOpenFor:   scoreboardCircuitOpenFor,
		ScoreboardCircuitHalfOpen:  scoreboardCircuitHalfOpen,
		EnrichmentTimeout:          enrichmentTimeout,
		EnrichmentCacheTTL:         enrichmentCacheTTL,
		EnrichmentCacheSize:        enrichmentCacheSize,
		EnrichmentWorkers:          enrichmentWorkers,
		RedisURL:                   strings.TrimSpace(getEnv("REDIS_URL", "")),
		RedisKeyPrefix:             strings.TrimSpace(getEnv("REDIS_KEY_PREFIX", "usopen:")),
		Tournament:                 tournament,
		LogLevel:                   logging.ParseLevel(getEnv("APP_LOG_LEVEL", "info")),
	}
	cfg.PyroscopeAppName = strings.TrimSpace(getEnv("PYROSCOPE_APP_NAME", cfg.ServiceName))
	if cfg.PyroscopeEnabled && cfg.PyroscopeAppName == "" {
		return Config{}, fmt.Errorf("PYROSCOPE_APP_NAME cannot be empty when PYROSCOPE_ENABLED=true")
	}
	if len(cfg.CORSAllowedOrigins) == 0 {
		return Config{}, fmt.Errorf("CORS_ALLOWED_ORIGINS cannot be empty")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	value := os.Getenv(key)
	if strings.TrimSpace(value) == "" {
		return fallback
	}

	return value
}

func getEnvAsInt(key string, fallback int) (int, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback, nil
	}

	out, err := strconv.Atoi(value)
	if err != nil {
		return 0, err
	}

	return out, nil
}

func getPositiveInt(key string, fallback int) (int, error) {
	value, err := getEnvAsInt(key, fallback)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	if value < 1 {
		return 0, fmt.Errorf("%s must be >= 1", key)
	}
	return value, nil
}

func getPositiveDuration(key, fallback string) (time.Duration, error) {
	value, err := time.ParseDuration(getEnv(key, fallback))
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	if value <= 0 {
		return 0, fmt.Errorf("%s must be > 0", key)
	}
	return value, nil
}

func splitCSV(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		item := strings.TrimSpace(part)
		if item == "" {
			continue
		}
		out = append(out, item)
	}

	return out
}

func parseUptraceDSNFromOTLPHeaders(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return ""
	}

	items := strings.Split(raw, ",")
	for _, item := range items {
		parts := strings.SplitN(strings.TrimSpace(item), "=", 2)
		if len(parts) != 2 {
			continue
		}
		if strings.EqualFold(strings.TrimSpace(parts[0]), "uptrace-dsn") {
			value := strings.TrimSpace(parts[1])
			return strings.Trim(value, "\"'")
		}
	}

	return ""
}

const (
	EnvDev   = "dev"
	EnvStage = "stage"
	EnvProd  = "prod"
)

func parseAppEnv(v string) (string, error) {
	value := strings.ToLower(strings.TrimSpace(v))
	switch value {
	case EnvDev, EnvStage, EnvProd:
		return value, nil
	default:
		return "", fmt.Errorf("invalid APP_ENV %q: valid values are %s, %s, %s", v, EnvDev, EnvStage, EnvProd)
	}
}
