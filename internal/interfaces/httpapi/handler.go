package httpapi

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/riskibarqy/usopen-scoreboard/internal/domain/match"
	"github.com/riskibarqy/usopen-scoreboard/internal/platform/logging"
	"github.com/riskibarqy/usopen-scoreboard/internal/platform/timeutil"
	"github.com/riskibarqy/usopen-scoreboard/internal/usecase"
)

const defaultCacheControl = "public, max-age=15, stale-while-revalidate=30"

type MatchReader interface {
	GetMatchesByDate(ctx context.Context, gender match.Gender, date string) (match.Grouped, usecase.Report, error)
}

type TournamentReader interface {
	Info(ctx context.Context) (usecase.TournamentInfo, error)
}

// HealthChecker is a dependency whose reachability /healthz reports.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

type HandlerConfig struct {
	CacheControl string
	// Dependencies are pinged by /healthz, keyed by the name reported on failure.
	Dependencies map[string]HealthChecker
}

type Handler struct {
	matchService      MatchReader
	tournamentService TournamentReader
	logger            *logging.Logger
	validator         *validator.Validate
	cacheControl      string
	dependencies      map[string]HealthChecker
	now               func() time.Time
}

func NewHandler(
	matchService MatchReader,
	tournamentService TournamentReader,
	logger *logging.Logger,
	cfg HandlerConfig,
) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	cacheControl := cfg.CacheControl
	if cacheControl == "" {
		cacheControl = defaultCacheControl
	}

	return &Handler{
		matchService:      matchService,
		tournamentService: tournamentService,
		logger:            logger,
		validator:         newValidator(),
		cacheControl:      cacheControl,
		dependencies:      cfg.Dependencies,
		now:               time.Now,
	}
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("isodate", func(fl validator.FieldLevel) bool {
		return timeutil.IsDateString(fl.Field().String())
	})
	return v
}

func (h *Handler) lastUpdated() string {
	return timeutil.FormatISO(h.now().UTC())
}
