package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/harmonia-tech/mt-backend/internal/usecase"
	"github.com/harmonia-tech/mt-backend/pkg/logger"
)

type Router struct {
	router *chi.Mux
	logger logger.Logger
}

func NewRouter(router *chi.Mux, logger logger.Logger) *Router {
	return &Router{router: router, logger: logger}
}

func (r *Router) Init(therapyUC usecase.TherapyUC) {
	r.router.Get("/health", healthCheck)

	r.router.Route("/api/v1", func(v1 chi.Router) {
		therapyHandler := NewTherapyHandler(therapyUC, r.logger)
		registerTherapyRoutes(v1, therapyHandler)

		searchHandler := NewSearchHandler(therapyUC, r.logger)
		registerSearchRoutes(v1, searchHandler)
	})
}

func registerTherapyRoutes(router chi.Router, handler *TherapyHandler) {
	router.Route("/therapy", func(th chi.Router) {
		th.Post("/recommend", handler.recommendMusic)
		th.Post("/parameters", handler.getTherapyParameters)
	})
}

func registerSearchRoutes(router chi.Router, handler *SearchHandler) {
	router.Post("/search", handler.searchSegments)
	router.Route("/index", func(idx chi.Router) {
		idx.Get("/stats", handler.indexStats)
		idx.Post("/reload", handler.reloadIndex)
	})
}

func healthCheck(w http.ResponseWriter, _ *http.Request) {
	WriteSuccess(w, http.StatusOK, map[string]interface{}{
		"status": "ok",
	})
}
