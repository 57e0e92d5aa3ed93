package httpapi

import (
	"context"
	"net/http"
	"sort"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/riskibarqy/usopen-scoreboard/internal/usecase"
)

const healthCheckTimeout = 2 * time.Second

// Healthz reports ok once every configured dependency answers.
func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	if err := h.checkDependencies(ctx); err != nil {
		h.logger.WarnContext(ctx, "health check failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) checkDependencies(ctx context.Context) error {
	if len(h.dependencies) == 0 {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, healthCheckTimeout)
	defer cancel()

	names := make([]string, 0, len(h.dependencies))
	for name := range h.dependencies {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if err := h.dependencies[name].HealthCheck(ctx); err != nil {
			return errors.Wrapf(usecase.ErrDependencyUnavailable, "%s: %v", name, err)
		}
	}
	return nil
}

// GetTournament describes the tournament window for date pickers.
func (h *Handler) GetTournament(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetTournament")
	defer span.End()

	info, err := h.tournamentService.Info(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "get tournament failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, info)
}
