// Package api exposes the matching pipeline as a JSON HTTP API.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"movilidad/app"
	"movilidad/internal"
	"movilidad/ports"
)

// Invalidator drops cached assets
type Invalidator interface {
	Invalidate()
}

// UsageReporter summarizes LLM token usage
type UsageReporter interface {
	Summary(ctx context.Context, since time.Time) ([]ports.UsageSummary, error)
}

// Handler serves the /api routes
type Handler struct {
	match  *app.MatchService
	class  *app.ClassService
	assets Invalidator
	usage  UsageReporter
	log    *internal.Logger
}

// NewHandler creates the API handler. class and assets may be nil; their
// routes then answer 503 and 204 respectively.
func NewHandler(match *app.MatchService, class *app.ClassService, assets Invalidator, logger *internal.Logger) *Handler {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &Handler{match: match, class: class, assets: assets, log: logger.With("API")}
}

// WithUsage enables /api/usage
func (h *Handler) WithUsage(usage UsageReporter) *Handler {
	h.usage = usage
	return h
}

// Router builds the chi router with every API route mounted under /api
func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)

	r.Route("/api", func(r chi.Router) {
		r.Get("/healthz", h.handleHealth)
		r.Get("/targets", h.handleTargets)
		r.Get("/questions", h.handleQuestions)
		r.Post("/match", h.handleMatch)
		r.Post("/explain", h.handleExplain)
		r.Post("/predict", h.handlePredict)
		r.Post("/assets/invalidate", h.handleInvalidate)
		r.Get("/usage", h.handleUsage)
	})
	return r
}
