package http

import (
	"net/http"

	"github.com/harmonia-tech/mt-backend/internal/usecase"
	"github.com/harmonia-tech/mt-backend/pkg/logger"
)

type SearchHandler struct {
	therapyUsecase usecase.TherapyUC
	logger         logger.Logger
}

func NewSearchHandler(therapyUsecase usecase.TherapyUC, logger logger.Logger) *SearchHandler {
	return &SearchHandler{therapyUsecase: therapyUsecase, logger: logger}
}

type searchSegmentsRequest struct {
	QueryText   string    `json:"query_text"`
	QueryVector []float32 `json:"query_vector"`
	Duration    string    `json:"duration"`
	TopK        int       `json:"top_k"`
}

// searchSegments обрабатывает POST /api/v1/search: прямой поиск по
// библиотеке готовым вектором или текстом.
func (s *SearchHandler) searchSegments(w http.ResponseWriter, r *http.Request) {
	var req searchSegmentsRequest
	if err := decodeJSON(r, &req); err != nil {
		s.logger.Warnf("%d bad search request: %s", http.StatusBadRequest, err.Error())
		WriteError(w, err)
		return
	}

	res, err := s.therapyUsecase.SearchSegments(r.Context(),
		usecase.NewSearchSegmentsReq(req.QueryText, req.QueryVector, req.Duration, req.TopK))
	if err != nil {
		s.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, res)
}

// indexStats обрабатывает GET /api/v1/index/stats.
func (s *SearchHandler) indexStats(w http.ResponseWriter, r *http.Request) {
	res, err := s.therapyUsecase.IndexStats(r.Context())
	if err != nil {
		s.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, res)
}

// reloadIndex обрабатывает POST /api/v1/index/reload.
func (s *SearchHandler) reloadIndex(w http.ResponseWriter, r *http.Request) {
	if err := s.therapyUsecase.ReloadIndex(r.Context()); err != nil {
		s.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, map[string]interface{}{
		"reloaded": true,
	})
}
