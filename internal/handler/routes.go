package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/kx0101/devoverlay/internal/middleware"
)

type RouterOptions struct {
	// DebugEnabled gates the overlay. When false no page renders it,
	// whatever the visitor's preference.
	DebugEnabled bool
	DebugToken   string

	// AccessLogger receives one line per application request. Debug API
	// polls are not logged so they never crowd the captured logs.
	AccessLogger *slog.Logger
}

func (h *Handler) Routes(opts RouterOptions) http.Handler {
	accessLogger := opts.AccessLogger
	if accessLogger == nil {
		accessLogger = h.logger
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.DebugPreference(opts.DebugEnabled))

	r.Group(func(r chi.Router) {
		r.Use(middleware.Logging(accessLogger))

		r.Get("/health", h.Health)
		r.Get("/", h.Home)
		r.Get("/about", h.About)
		r.Get("/api/test-db", h.TestDB)

		r.Route("/api/demo", func(r chi.Router) {
			r.Post("/logs", h.DemoLogs)
			r.Post("/requests/success", h.DemoSuccess)
			r.Post("/requests/failure", h.DemoFailure)
		})

		r.NotFound(func(w http.ResponseWriter, r *http.Request) {
			respondError(w, http.StatusNotFound, "not found")
		})
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.DebugToken(opts.DebugToken))

		r.Route("/api/debug", func(r chi.Router) {
			r.Get("/logs", h.DebugLogs)
			r.Get("/logs/errors", h.DebugErrorLogs)
			r.Get("/requests/successful", h.DebugSuccessfulRequests)
			r.Get("/requests/failed", h.DebugFailedRequests)
			r.Get("/summary", h.DebugSummary)
			r.Delete("/", h.DebugClear)
		})
		r.Get("/htmx/debug", h.DebugPanel)
	})

	return r
}
