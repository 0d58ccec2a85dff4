package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harmonia-tech/mt-backend/internal/domain"
	"github.com/harmonia-tech/mt-backend/internal/usecase"
	"github.com/harmonia-tech/mt-backend/pkg/e"
)

type noopLogger struct{}

func (noopLogger) Infof(string, ...any)         {}
func (noopLogger) Warnf(string, ...any)         {}
func (noopLogger) Errorf(error, string, ...any) {}

type fakeTherapyUC struct {
	recommendErr error
	searchErr    error
	statsErr     error
}

func (f *fakeTherapyUC) RecommendMusic(_ context.Context, req *usecase.RecommendMusicReq) (*usecase.RecommendMusicRes, error) {
	if f.recommendErr != nil {
		return nil, f.recommendErr
	}
	if len(req.EmotionVector) != domain.NumEmotions {
		return nil, e.Wrap("fake", e.ErrInvalidEmotionCount)
	}
	return &usecase.RecommendMusicRes{
		SessionID: "test-session",
		Source:    usecase.SourceRule,
		RuleKey:   "anxiety_relief_critical",
		Duration:  req.Duration,
		Segments: []domain.SearchResult{
			{ID: "seg-001", Score: 0.9, Bucket: domain.DurationBucket(req.Duration)},
		},
	}, nil
}

func (f *fakeTherapyUC) GetTherapyParameters(_ context.Context, req *usecase.TherapyParametersReq) (*usecase.TherapyParametersRes, error) {
	if len(req.EmotionVector) != domain.NumEmotions {
		return nil, e.Wrap("fake", e.ErrInvalidEmotionCount)
	}
	return &usecase.TherapyParametersRes{Source: usecase.SourceInterpolation, Parameters: domain.DefaultParameters()}, nil
}

func (f *fakeTherapyUC) SearchSegments(context.Context, *usecase.SearchSegmentsReq) (*usecase.SearchSegmentsRes, error) {
	if f.searchErr != nil {
		return nil, f.searchErr
	}
	return &usecase.SearchSegmentsRes{QueryOrigin: domain.QueryOriginVector}, nil
}

func (f *fakeTherapyUC) IndexStats(context.Context) (*usecase.IndexStatsRes, error) {
	if f.statsErr != nil {
		return nil, f.statsErr
	}
	return &usecase.IndexStatsRes{TotalRecords: 42}, nil
}

func (f *fakeTherapyUC) ReloadIndex(context.Context) error { return nil }

func newTestRouter(uc usecase.TherapyUC) *chi.Mux {
	mux := chi.NewRouter()
	NewRouter(mux, noopLogger{}).Init(uc)
	return mux
}

func postJSON(t *testing.T, router http.Handler, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	data, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestRecommendMusicEndpoint(t *testing.T) {
	router := newTestRouter(&fakeTherapyUC{})

	t.Run("success", func(t *testing.T) {
		rec := postJSON(t, router, "/api/v1/therapy/recommend", map[string]any{
			"emotion_vector": make([]float64, domain.NumEmotions),
			"duration":       "3min",
			"top_k":          5,
		})

		require.Equal(t, http.StatusOK, rec.Code)

		var res usecase.RecommendMusicRes
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
		assert.Equal(t, "test-session", res.SessionID)
		assert.Equal(t, "anxiety_relief_critical", res.RuleKey)
		require.Len(t, res.Segments, 1)
	})

	t.Run("wrong vector length", func(t *testing.T) {
		rec := postJSON(t, router, "/api/v1/therapy/recommend", map[string]any{
			"emotion_vector": []float64{0.1, 0.2},
			"duration":       "3min",
		})

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("malformed json", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/therapy/recommend", bytes.NewReader([]byte("{broken")))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("unknown duration maps to 400", func(t *testing.T) {
		errRouter := newTestRouter(&fakeTherapyUC{recommendErr: e.Wrap("fake", e.ErrUnknownDuration)})

		rec := postJSON(t, errRouter, "/api/v1/therapy/recommend", map[string]any{
			"emotion_vector": make([]float64, domain.NumEmotions),
			"duration":       "7min",
		})

		assert.Equal(t, http.StatusBadRequest, rec.Code)

		var res ErrorResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
		assert.Equal(t, e.ErrUnknownDuration.Error(), res.Message)
	})
}

func TestTherapyParametersEndpoint(t *testing.T) {
	router := newTestRouter(&fakeTherapyUC{})

	rec := postJSON(t, router, "/api/v1/therapy/parameters", map[string]any{
		"emotion_vector": make([]float64, domain.NumEmotions),
	})

	require.Equal(t, http.StatusOK, rec.Code)

	var res usecase.TherapyParametersRes
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Equal(t, usecase.SourceInterpolation, res.Source)
}

func TestSearchEndpoint(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		router := newTestRouter(&fakeTherapyUC{})

		rec := postJSON(t, router, "/api/v1/search", map[string]any{
			"query_text": "calm ambient",
			"duration":   "3min",
		})

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("empty query maps to 400", func(t *testing.T) {
		router := newTestRouter(&fakeTherapyUC{searchErr: e.Wrap("fake", e.ErrEmptyQuery)})

		rec := postJSON(t, router, "/api/v1/search", map[string]any{"duration": "3min"})

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("index unavailable maps to 503", func(t *testing.T) {
		router := newTestRouter(&fakeTherapyUC{searchErr: e.Wrap("fake", e.ErrIndexUnavailable)})

		rec := postJSON(t, router, "/api/v1/search", map[string]any{
			"query_text": "calm",
			"duration":   "3min",
		})

		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	})
}

func TestIndexEndpoints(t *testing.T) {
	router := newTestRouter(&fakeTherapyUC{})

	t.Run("stats", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/index/stats", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)

		var res usecase.IndexStatsRes
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
		assert.Equal(t, 42, res.TotalRecords)
	})

	t.Run("reload", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/index/reload", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestHealthEndpoint(t *testing.T) {
	router := newTestRouter(&fakeTherapyUC{})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}
