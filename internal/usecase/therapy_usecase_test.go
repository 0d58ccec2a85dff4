package usecase

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harmonia-tech/mt-backend/internal/domain"
	"github.com/harmonia-tech/mt-backend/internal/knowledge"
	"github.com/harmonia-tech/mt-backend/pkg/e"
	"github.com/harmonia-tech/mt-backend/pkg/tr"
)

// FAKES

type noopLogger struct{}

func (noopLogger) Infof(string, ...any)        {}
func (noopLogger) Warnf(string, ...any)        {}
func (noopLogger) Errorf(error, string, ...any) {}

type fakeIndexRepo struct {
	searchFn func(vector []float32, bucket domain.DurationBucket, topK int) ([]domain.SearchResult, error)
	reloaded bool
}

func (f *fakeIndexRepo) Search(_ context.Context, vector []float32, bucket domain.DurationBucket, topK int) ([]domain.SearchResult, error) {
	return f.searchFn(vector, bucket, topK)
}

func (f *fakeIndexRepo) Reload(context.Context) error {
	f.reloaded = true
	return nil
}

func (f *fakeIndexRepo) Stats(context.Context) (*IndexStatsRes, error) {
	return &IndexStatsRes{TotalRecords: 2, Buckets: map[domain.DurationBucket]int{domain.Duration3Min: 2}}, nil
}

type fakeCacheRepo struct {
	mu    sync.Mutex
	store map[string]*RecommendMusicRes
}

func newFakeCacheRepo() *fakeCacheRepo {
	return &fakeCacheRepo{store: make(map[string]*RecommendMusicRes)}
}

func (f *fakeCacheRepo) GetRecommendation(_ context.Context, key string) (*RecommendMusicRes, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if res, ok := f.store[key]; ok {
		cp := *res
		return &cp, nil
	}
	return nil, e.ErrCacheMiss
}

func (f *fakeCacheRepo) SetRecommendation(_ context.Context, key string, res *RecommendMusicRes) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *res
	f.store[key] = &cp
	return nil
}

type fakeSessionRepo struct {
	mu       sync.Mutex
	sessions []*TherapySession
	txSeen   bool
}

func (f *fakeSessionRepo) SaveSession(ctx context.Context, session *TherapySession) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, err := tr.TxFromCtx(ctx); err == nil {
		f.txSeen = true
	}
	f.sessions = append(f.sessions, session)
	return nil
}

type fakeSegmentRepo struct{}

func (fakeSegmentRepo) ResolveURL(_ context.Context, segmentID string, bucket domain.DurationBucket) (string, error) {
	return fmt.Sprintf("https://cdn.test/segments_%s/%s.mp4", bucket, segmentID), nil
}

type fakeEncoder struct {
	degraded bool
	err      error
}

func (f *fakeEncoder) Encode(context.Context, string) (*EncodedQuery, error) {
	if f.err != nil {
		return nil, f.err
	}
	vector := make([]float32, domain.EmbeddingDim)
	vector[0] = 1
	return NewEncodedQuery(vector, f.degraded), nil
}

type fakeTx struct{ pgx.Tx }

func (fakeTx) Commit(context.Context) error   { return nil }
func (fakeTx) Rollback(context.Context) error { return nil }

type fakePool struct{}

func (fakePool) BeginTx(context.Context, pgx.TxOptions) (pgx.Tx, error) {
	return fakeTx{}, nil
}

// HELPERS

type ucFixture struct {
	uc          *TherapyUseCase
	indexRepo   *fakeIndexRepo
	cacheRepo   *fakeCacheRepo
	sessionRepo *fakeSessionRepo
	encoder     *fakeEncoder
}

func newFixture(t *testing.T) *ucFixture {
	t.Helper()

	engine, err := knowledge.NewRuleEngine(knowledge.GemsRules())
	require.NoError(t, err)

	indexRepo := &fakeIndexRepo{
		searchFn: func(_ []float32, bucket domain.DurationBucket, topK int) ([]domain.SearchResult, error) {
			return []domain.SearchResult{
				{ID: "seg-001", Score: 0.93, Bucket: bucket},
				{ID: "seg-002", Score: 0.87, Bucket: bucket},
			}, nil
		},
	}
	cacheRepo := newFakeCacheRepo()
	sessionRepo := &fakeSessionRepo{}
	encoder := &fakeEncoder{}

	uc := NewTherapyUC(
		engine,
		knowledge.NewParameterSynthesizer(),
		knowledge.NewDescriber(),
		indexRepo,
		cacheRepo,
		sessionRepo,
		fakeSegmentRepo{},
		encoder,
		nil,
		fakePool{},
		noopLogger{},
	)

	return &ucFixture{
		uc:          uc,
		indexRepo:   indexRepo,
		cacheRepo:   cacheRepo,
		sessionRepo: sessionRepo,
		encoder:     encoder,
	}
}

func emotionInput(values map[domain.Emotion]float64) []float64 {
	input := make([]float64, domain.NumEmotions)
	for em, v := range values {
		input[em] = v
	}
	return input
}

// TESTS

func TestRecommendMusic_RuleMatched(t *testing.T) {
	fx := newFixture(t)

	req := NewRecommendMusicReq(
		emotionInput(map[domain.Emotion]float64{domain.Anxiety: 0.85}),
		"3min", 2, "",
	)

	res, err := fx.uc.RecommendMusic(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, SourceRule, res.Source)
	assert.Equal(t, "anxiety_relief_critical", res.RuleKey)
	assert.InDelta(t, 60.0, res.Parameters.Tempo, 1e-9)
	assert.InDelta(t, 0.8, res.Parameters.HarmonyConsonance, 1e-9)
	assert.Equal(t, domain.TimbreWarmPad, res.Parameters.Timbre)
	assert.NotEmpty(t, res.SessionID)
	assert.NotEmpty(t, res.QueryText)
	assert.Equal(t, "anxiety_relief", res.Therapy.Focus)
	assert.Equal(t, domain.QueryOriginSemantic, res.QueryOrigin)

	require.Len(t, res.Segments, 2)
	assert.Equal(t, "https://cdn.test/segments_3min/seg-001.mp4", res.Segments[0].URL)

	require.Len(t, fx.sessionRepo.sessions, 1)
	assert.True(t, fx.sessionRepo.txSeen)
	assert.Equal(t, res.SessionID, fx.sessionRepo.sessions[0].ID)
}

func TestRecommendMusic_InterpolationFallback(t *testing.T) {
	fx := newFixture(t)

	req := NewRecommendMusicReq(
		emotionInput(map[domain.Emotion]float64{domain.Joy: 0.3, domain.Calmness: 0.25}),
		"5min", 0, "",
	)

	res, err := fx.uc.RecommendMusic(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, SourceInterpolation, res.Source)
	assert.Empty(t, res.RuleKey)
}

func TestRecommendMusic_Validation(t *testing.T) {
	fx := newFixture(t)

	tests := []struct {
		name string
		req  *RecommendMusicReq
		want error
	}{
		{
			name: "wrong vector length",
			req:  NewRecommendMusicReq(make([]float64, 10), "3min", 5, ""),
			want: e.ErrInvalidEmotionCount,
		},
		{
			name: "unknown duration",
			req:  NewRecommendMusicReq(make([]float64, domain.NumEmotions), "7min", 5, ""),
			want: e.ErrUnknownDuration,
		},
		{
			name: "negative top k",
			req:  NewRecommendMusicReq(make([]float64, domain.NumEmotions), "3min", -1, ""),
			want: e.ErrInvalidTopK,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := fx.uc.RecommendMusic(context.Background(), tc.req)
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestRecommendMusic_CacheHit(t *testing.T) {
	fx := newFixture(t)

	vector, err := domain.NewEmotionVector(emotionInput(map[domain.Emotion]float64{domain.Sadness: 0.75}))
	require.NoError(t, err)
	clipped, _ := vector.Clip()

	key := recommendationKey(clipped, domain.Duration3Min, 2)
	cached := &RecommendMusicRes{SessionID: "cached-session", Source: SourceRule, RuleKey: "sadness_support"}
	require.NoError(t, fx.cacheRepo.SetRecommendation(context.Background(), key, cached))

	req := NewRecommendMusicReq(
		emotionInput(map[domain.Emotion]float64{domain.Sadness: 0.75}),
		"3min", 2, "",
	)

	res, err := fx.uc.RecommendMusic(context.Background(), req)
	require.NoError(t, err)

	assert.True(t, res.CacheHit)
	assert.Equal(t, "cached-session", res.SessionID)
	assert.Empty(t, fx.sessionRepo.sessions)
}

func TestRecommendMusic_SearchFailureIsNotFatal(t *testing.T) {
	fx := newFixture(t)
	fx.indexRepo.searchFn = func([]float32, domain.DurationBucket, int) ([]domain.SearchResult, error) {
		return nil, e.ErrIndexUnavailable
	}

	req := NewRecommendMusicReq(
		emotionInput(map[domain.Emotion]float64{domain.Anger: 0.9}),
		"1min", 3, "",
	)

	res, err := fx.uc.RecommendMusic(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, "anger_release", res.RuleKey)
	assert.Empty(t, res.Segments)
	assert.Contains(t, res.SearchError, "unavailable")
}

func TestRecommendMusic_EncoderFailureIsNotFatal(t *testing.T) {
	fx := newFixture(t)
	fx.encoder.err = e.ErrEncoderUnavailable

	req := NewRecommendMusicReq(
		emotionInput(map[domain.Emotion]float64{domain.Fear: 0.9}),
		"10min", 3, "",
	)

	res, err := fx.uc.RecommendMusic(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, "fear_soothing", res.RuleKey)
	assert.Empty(t, res.Segments)
	assert.Equal(t, e.ErrEncoderUnavailable.Error(), res.SearchError)
}

func TestGetTherapyParameters(t *testing.T) {
	fx := newFixture(t)

	t.Run("clips out of range values", func(t *testing.T) {
		input := emotionInput(map[domain.Emotion]float64{domain.Anxiety: 1.5})
		input[domain.Joy] = -0.2

		res, err := fx.uc.GetTherapyParameters(context.Background(), NewTherapyParametersReq(input))
		require.NoError(t, err)

		assert.Equal(t, 2, res.ClippedValues)
		assert.Equal(t, "anxiety_relief_critical", res.RuleKey)
	})

	t.Run("interpolation for mild state", func(t *testing.T) {
		res, err := fx.uc.GetTherapyParameters(context.Background(), NewTherapyParametersReq(
			emotionInput(map[domain.Emotion]float64{domain.Calmness: 0.4}),
		))
		require.NoError(t, err)

		assert.Equal(t, SourceInterpolation, res.Source)
		assert.Less(t, res.Parameters.Tempo, 80.0)
	})

	t.Run("rejects wrong length", func(t *testing.T) {
		_, err := fx.uc.GetTherapyParameters(context.Background(), NewTherapyParametersReq(nil))
		assert.ErrorIs(t, err, e.ErrInvalidEmotionCount)
	})
}

func TestSearchSegments(t *testing.T) {
	fx := newFixture(t)

	t.Run("by vector", func(t *testing.T) {
		vector := make([]float32, domain.EmbeddingDim)
		res, err := fx.uc.SearchSegments(context.Background(), NewSearchSegmentsReq("", vector, "3min", 2))
		require.NoError(t, err)

		assert.Equal(t, domain.QueryOriginVector, res.QueryOrigin)
		assert.Len(t, res.Segments, 2)
	})

	t.Run("by text", func(t *testing.T) {
		res, err := fx.uc.SearchSegments(context.Background(), NewSearchSegmentsReq("calm ambient music", nil, "3min", 2))
		require.NoError(t, err)

		assert.Equal(t, domain.QueryOriginSemantic, res.QueryOrigin)
		assert.False(t, res.Degraded)
	})

	t.Run("degraded encoder marks keyword origin", func(t *testing.T) {
		fx.encoder.degraded = true
		defer func() { fx.encoder.degraded = false }()

		res, err := fx.uc.SearchSegments(context.Background(), NewSearchSegmentsReq("calm music", nil, "3min", 2))
		require.NoError(t, err)

		assert.Equal(t, domain.QueryOriginKeyword, res.QueryOrigin)
		assert.True(t, res.Degraded)
	})

	t.Run("wrong vector dimension", func(t *testing.T) {
		_, err := fx.uc.SearchSegments(context.Background(), NewSearchSegmentsReq("", make([]float32, 10), "3min", 2))
		assert.ErrorIs(t, err, e.ErrVectorDimension)
	})

	t.Run("empty query", func(t *testing.T) {
		_, err := fx.uc.SearchSegments(context.Background(), NewSearchSegmentsReq("", nil, "3min", 2))
		assert.ErrorIs(t, err, e.ErrEmptyQuery)
	})
}

func TestIndexStatsAndReload(t *testing.T) {
	fx := newFixture(t)

	stats, err := fx.uc.IndexStats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, stats.TotalRecords)

	require.NoError(t, fx.uc.ReloadIndex(context.Background()))
	assert.True(t, fx.indexRepo.reloaded)
}
