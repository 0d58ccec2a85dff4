package http

import (
	"net/http"

	"github.com/harmonia-tech/mt-backend/internal/usecase"
	"github.com/harmonia-tech/mt-backend/pkg/logger"
)

type TherapyHandler struct {
	therapyUsecase usecase.TherapyUC
	logger         logger.Logger
}

func NewTherapyHandler(therapyUsecase usecase.TherapyUC, logger logger.Logger) *TherapyHandler {
	return &TherapyHandler{therapyUsecase: therapyUsecase, logger: logger}
}

type recommendMusicRequest struct {
	EmotionVector []float64 `json:"emotion_vector"`
	Duration      string    `json:"duration"`
	TopK          int       `json:"top_k"`
	SessionID     string    `json:"session_id"`
}

type therapyParametersRequest struct {
	EmotionVector []float64 `json:"emotion_vector"`
}

// recommendMusic обрабатывает POST /api/v1/therapy/recommend:
// полный цикл от эмоционального вектора до списка сегментов.
func (t *TherapyHandler) recommendMusic(w http.ResponseWriter, r *http.Request) {
	var req recommendMusicRequest
	if err := decodeJSON(r, &req); err != nil {
		t.logger.Warnf("%d bad recommend request: %s", http.StatusBadRequest, err.Error())
		WriteError(w, err)
		return
	}

	res, err := t.therapyUsecase.RecommendMusic(r.Context(),
		usecase.NewRecommendMusicReq(req.EmotionVector, req.Duration, req.TopK, req.SessionID))
	if err != nil {
		t.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, res)
}

// getTherapyParameters обрабатывает POST /api/v1/therapy/parameters:
// только символьная часть, без обращения к поисковому индексу.
func (t *TherapyHandler) getTherapyParameters(w http.ResponseWriter, r *http.Request) {
	var req therapyParametersRequest
	if err := decodeJSON(r, &req); err != nil {
		t.logger.Warnf("%d bad parameters request: %s", http.StatusBadRequest, err.Error())
		WriteError(w, err)
		return
	}

	res, err := t.therapyUsecase.GetTherapyParameters(r.Context(), usecase.NewTherapyParametersReq(req.EmotionVector))
	if err != nil {
		t.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, res)
}
