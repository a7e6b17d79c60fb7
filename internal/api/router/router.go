// Package router wires the HTTP surface onto a chi mux.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/saywise/saywise-ai-platform/internal/http/handlers"
	httpmiddleware "github.com/saywise/saywise-ai-platform/internal/http/middleware"
	"github.com/saywise/saywise-ai-platform/pkg/logging"
)

// Config holds router configuration.
type Config struct {
	Logger         *logging.Logger
	Analysis       *handlers.AnalysisHandler
	Sessions       *handlers.SessionHandler
	MetricsHandler http.Handler
}

// New creates a chi router with all routes configured.
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	if cfg.Logger != nil {
		r.Use(httpmiddleware.RequestLogger(cfg.Logger))
	}

	r.Get("/health", cfg.Analysis.Health)
	if cfg.MetricsHandler != nil {
		r.Handle("/metrics", cfg.MetricsHandler)
	}

	r.Post("/analyze", cfg.Analysis.AnalyzeBatch)
	r.Post("/analyze/{kind}", cfg.Analysis.AnalyzeKind)

	r.Route("/sessions", func(r chi.Router) {
		r.Post("/", cfg.Sessions.Create)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", cfg.Sessions.Get)
			r.Delete("/", cfg.Sessions.Delete)
			r.Get("/context", cfg.Sessions.Context)
		})
	})

	return r
}
