package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/baechuer/real-time-ressys/services/location-service/internal/config"
	"github.com/baechuer/real-time-ressys/services/location-service/internal/transport/http/handlers"
	mw "github.com/baechuer/real-time-ressys/services/location-service/internal/transport/http/middleware"
	"github.com/baechuer/real-time-ressys/services/location-service/internal/transport/http/response"
)

func New(
	h *handlers.CitiesHandler,
	z *handlers.HealthHandler,
	cfg *config.Config,
) http.Handler {
	r := chi.NewRouter()

	r.Use(mw.RequestID)
	r.Use(mw.SecurityHeaders)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.StripSlashes)
	r.Use(mw.AccessLog)
	r.Use(mw.Metrics)

	if cfg.RLEnabled {
		r.Use(httprate.LimitByIP(cfg.RLLimit, cfg.RLWindow))
	}

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		response.Fail(w, http.StatusNotFound, "not_found", "route not found", nil, response.RequestIDFromRequest(r))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		response.Fail(w, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed", nil, response.RequestIDFromRequest(r))
	})

	r.Get("/healthz", z.Healthz)
	r.Get("/readyz", z.Readyz)
	r.Handle("/metrics", promhttp.Handler())

	mountStates(r, h)
	r.Route("/api", func(r chi.Router) {
		mountStates(r, h)
	})

	return r
}

func mountStates(r chi.Router, h *handlers.CitiesHandler) {
	r.Route("/states/{state}/cities", func(r chi.Router) {
		r.Get("/", h.List)
		r.Post("/", h.Create)
		r.Get("/{city}", h.Get)
	})
}
