package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler, cfg RouterConfig) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
	handle(mux, cfg.Metrics, "GET /v1/tournament", handler.GetTournament)

	if cfg.MetricsHandler != nil {
		mux.Handle("GET /metrics", cfg.MetricsHandler)
	}
}

func registerMatchRoutes(mux *http.ServeMux, handler *Handler, metrics RouteMetrics) {
	handle(mux, metrics, "GET /{gender}/{date}", handler.GetMatchesByDate)
	handle(mux, metrics, "GET /api/usopen/{gender}/{date}", handler.GetMatchesByDate)
}

func handle(mux *http.ServeMux, metrics RouteMetrics, pattern string, fn http.HandlerFunc) {
	mux.Handle(pattern, InstrumentRoute(metrics, pattern, fn))
}
