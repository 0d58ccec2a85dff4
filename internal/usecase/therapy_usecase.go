package usecase

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"hash/fnv"
	"math"
	"strings"
	"time"

	transaction "github.com/avito-tech/go-transaction-manager/drivers/pgxv5/v2"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/harmonia-tech/mt-backend/internal/domain"
	"github.com/harmonia-tech/mt-backend/internal/knowledge"
	"github.com/harmonia-tech/mt-backend/pkg/e"
	"github.com/harmonia-tech/mt-backend/pkg/logger"
	"github.com/harmonia-tech/mt-backend/pkg/tr"
)

const (
	defaultTopK = 5

	backgroundTimeout = 500 * time.Millisecond
)

// TherapyUseCase реализует полный цикл подбора музыкальной терапии:
// эмоциональный вектор -> параметры -> описание -> поиск по библиотеке.
type TherapyUseCase struct {
	ruleEngine  *knowledge.RuleEngine
	synthesizer *knowledge.ParameterSynthesizer
	describer   *knowledge.Describer
	indexRepo   IndexRepository
	cacheRepo   CacheRepository
	sessionRepo SessionRepository
	segmentRepo SegmentRepository
	encoder     EncoderInfra
	analytics   AnalyticsInfra
	dbPool      transaction.Transactional
	logger      logger.Logger
}

func NewTherapyUC(
	ruleEngine *knowledge.RuleEngine,
	synthesizer *knowledge.ParameterSynthesizer,
	describer *knowledge.Describer,
	indexRepo IndexRepository,
	cacheRepo CacheRepository,
	sessionRepo SessionRepository,
	segmentRepo SegmentRepository,
	encoder EncoderInfra,
	analytics AnalyticsInfra,
	dbPool transaction.Transactional,
	logger logger.Logger,
) *TherapyUseCase {
	return &TherapyUseCase{
		ruleEngine:  ruleEngine,
		synthesizer: synthesizer,
		describer:   describer,
		indexRepo:   indexRepo,
		cacheRepo:   cacheRepo,
		sessionRepo: sessionRepo,
		segmentRepo: segmentRepo,
		encoder:     encoder,
		analytics:   analytics,
		dbPool:      dbPool,
		logger:      logger,
	}
}

// RecommendMusic выполняет полный цикл рекомендации. Отказ поиска или
// хранилищ не отменяет ответ: параметры терапии возвращаются всегда,
// фатальны только ошибки валидации входа.
func (t *TherapyUseCase) RecommendMusic(ctx context.Context, req *RecommendMusicReq) (*RecommendMusicRes, error) {
	const op = "TherapyUseCase.RecommendMusic"

	vector, err := domain.NewEmotionVector(req.EmotionVector)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	bucket, err := domain.ParseDurationBucket(req.Duration)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	topK := req.TopK
	if topK == 0 {
		topK = defaultTopK
	}
	if topK < 0 {
		return nil, e.Wrap(op, e.ErrInvalidTopK)
	}

	clipped, clippedCount := vector.Clip()
	if clippedCount > 0 {
		t.logger.Warnf("clipped %d emotion values to [0, 1]", clippedCount)
	}

	// Поиск готовой рекомендации в кэше
	key := recommendationKey(clipped, bucket, topK)
	if cached, cacheErr := t.cacheRepo.GetRecommendation(ctx, key); cacheErr == nil {
		cached.CacheHit = true
		return cached, nil
	} else if !errors.Is(cacheErr, e.ErrCacheMiss) {
		t.logger.Warnf("Failed to read recommendation cache: %v", e.Wrap(op, cacheErr))
	}

	res := t.buildParameters(clipped)
	res.SessionID = req.SessionID
	if res.SessionID == "" {
		res.SessionID = uuid.NewString()
	}
	res.Duration = string(bucket)
	res.ClippedValues = clippedCount

	// Кодирование описания и поиск сегментов. Любая ошибка здесь не
	// фатальна: клиент получает параметры и причину отсутствия сегментов.
	t.attachSegments(ctx, res, bucket, topK)

	// Фоновое заполнение кэша
	go func() {
		bgCtx, cancel := context.WithTimeout(context.Background(), backgroundTimeout)
		defer cancel()

		cacheable := *res
		cacheable.CacheHit = false
		if err := t.cacheRepo.SetRecommendation(bgCtx, key, &cacheable); err != nil {
			t.logger.Warnf("Failed to cache recommendation in background: %v", e.Wrap(op, err))
		}
	}()

	if err := t.saveSession(ctx, res, clipped); err != nil {
		t.logger.Warnf("Failed to persist therapy session: %v", e.Wrap(op, err))
	}

	t.publishEvent(res)

	return res, nil
}

// GetTherapyParameters возвращает символьную часть цикла без поиска.
func (t *TherapyUseCase) GetTherapyParameters(ctx context.Context, req *TherapyParametersReq) (*TherapyParametersRes, error) {
	const op = "TherapyUseCase.GetTherapyParameters"

	vector, err := domain.NewEmotionVector(req.EmotionVector)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	clipped, clippedCount := vector.Clip()
	if clippedCount > 0 {
		t.logger.Warnf("clipped %d emotion values to [0, 1]", clippedCount)
	}

	full := t.buildParameters(clipped)

	return &TherapyParametersRes{
		Source:        full.Source,
		RuleKey:       full.RuleKey,
		RuleName:      full.RuleName,
		MatchStrength: full.MatchStrength,
		Parameters:    full.Parameters,
		Tags:          full.Tags,
		QueryText:     full.QueryText,
		Analysis:      full.Analysis,
		Therapy:       full.Therapy,
		ClippedValues: clippedCount,
	}, nil
}

// SearchSegments выполняет прямой поиск по библиотеке: готовым вектором
// либо текстом через энкодер.
func (t *TherapyUseCase) SearchSegments(ctx context.Context, req *SearchSegmentsReq) (*SearchSegmentsRes, error) {
	const op = "TherapyUseCase.SearchSegments"

	bucket, err := domain.ParseDurationBucket(req.Duration)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	topK := req.TopK
	if topK == 0 {
		topK = defaultTopK
	}
	if topK < 0 {
		return nil, e.Wrap(op, e.ErrInvalidTopK)
	}

	var (
		queryVector []float32
		origin      domain.QueryOrigin
		degraded    bool
	)

	switch {
	case len(req.QueryVector) > 0:
		if len(req.QueryVector) != domain.EmbeddingDim {
			return nil, e.Wrap(op, e.ErrVectorDimension)
		}
		queryVector = req.QueryVector
		origin = domain.QueryOriginVector

	case strings.TrimSpace(req.QueryText) != "":
		enc, err := t.encoder.Encode(ctx, req.QueryText)
		if err != nil {
			return nil, e.Wrap(op, err)
		}
		queryVector = enc.Vector
		degraded = enc.Degraded
		origin = domain.QueryOriginSemantic
		if enc.Degraded {
			origin = domain.QueryOriginKeyword
		}

	default:
		return nil, e.Wrap(op, e.ErrEmptyQuery)
	}

	segments, err := t.indexRepo.Search(ctx, queryVector, bucket, topK)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return &SearchSegmentsRes{
		Segments:    t.resolveURLs(ctx, segments),
		QueryOrigin: origin,
		Degraded:    degraded,
	}, nil
}

// IndexStats возвращает сводку по загруженному индексу.
func (t *TherapyUseCase) IndexStats(ctx context.Context) (*IndexStatsRes, error) {
	const op = "TherapyUseCase.IndexStats"

	stats, err := t.indexRepo.Stats(ctx)
	if err != nil {
		return nil, e.Wrap(op, err)
	}
	return stats, nil
}

// ReloadIndex перечитывает библиотеку с диска и атомарно подменяет индекс.
func (t *TherapyUseCase) ReloadIndex(ctx context.Context) error {
	const op = "TherapyUseCase.ReloadIndex"

	if err := t.indexRepo.Reload(ctx); err != nil {
		return e.Wrap(op, err)
	}

	t.logger.Infof("embedding index reloaded")
	return nil
}

// buildParameters выбирает источник параметров: сработавшее правило либо
// непрерывная интерполяция, и дополняет результат описанием и анализом.
func (t *TherapyUseCase) buildParameters(v domain.EmotionVector) *RecommendMusicRes {
	res := &RecommendMusicRes{
		Analysis: knowledge.AnalyzeEmotions(v),
		Therapy:  knowledge.RecommendTherapy(v),
	}

	if match, ok := t.ruleEngine.Evaluate(v); ok {
		res.Source = SourceRule
		res.RuleKey = match.Rule.Key
		res.RuleName = match.Rule.Name
		res.MatchStrength = match.Strength
		res.Parameters = match.Rule.Overrides.Apply(domain.DefaultParameters()).Clamp()
	} else {
		res.Source = SourceInterpolation
		res.Parameters = t.synthesizer.Synthesize(v)
	}

	res.Tags = t.describer.Tags(res.Parameters)
	res.QueryText = t.describer.QueryText(res.Parameters)

	return res
}

// attachSegments кодирует текст запроса и ищет сегменты. Ошибки пишутся
// в SearchError, а не возвращаются наружу.
func (t *TherapyUseCase) attachSegments(ctx context.Context, res *RecommendMusicRes, bucket domain.DurationBucket, topK int) {
	enc, err := t.encoder.Encode(ctx, res.QueryText)
	if err != nil {
		t.logger.Warnf("Failed to encode query text: %v", err)
		res.SearchError = e.ErrEncoderUnavailable.Error()
		return
	}

	res.Degraded = enc.Degraded
	res.QueryOrigin = domain.QueryOriginSemantic
	if enc.Degraded {
		res.QueryOrigin = domain.QueryOriginKeyword
	}

	segments, err := t.indexRepo.Search(ctx, enc.Vector, bucket, topK)
	if err != nil {
		t.logger.Warnf("Failed to search embedding index: %v", err)
		res.SearchError = err.Error()
		return
	}

	res.Segments = t.resolveURLs(ctx, segments)
}

// resolveURLs прикрепляет к результатам ссылки на аудио-сегменты.
// Без сконфигурированного хранилища результаты возвращаются без ссылок.
func (t *TherapyUseCase) resolveURLs(ctx context.Context, segments []domain.SearchResult) []domain.SearchResult {
	if t.segmentRepo == nil {
		return segments
	}

	for i := range segments {
		url, err := t.segmentRepo.ResolveURL(ctx, segments[i].ID, segments[i].Bucket)
		if err != nil {
			t.logger.Warnf("Failed to resolve segment url. segment_id: %s, error: %v", segments[i].ID, err)
			continue
		}
		segments[i].URL = url
	}

	return segments
}

// saveSession сохраняет сеанс и его результаты в одной транзакции.
func (t *TherapyUseCase) saveSession(ctx context.Context, res *RecommendMusicRes, v domain.EmotionVector) error {
	var err error

	ctx, tx, err := transaction.NewTransaction(ctx, pgx.TxOptions{}, t.dbPool)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil && tx.IsActive() {
			tx.Rollback(ctx)
		}
	}()
	ctx = tr.CtxWithTx(ctx, tx.Transaction().(pgx.Tx))

	session := &TherapySession{
		ID:            res.SessionID,
		EmotionVector: v[:],
		Source:        res.Source,
		RuleKey:       res.RuleKey,
		Parameters:    res.Parameters,
		QueryText:     res.QueryText,
		Duration:      res.Duration,
		Segments:      res.Segments,
		CreatedAt:     time.Now().UTC(),
	}

	err = t.sessionRepo.SaveSession(ctx, session)
	if err != nil {
		return err
	}

	err = tx.Commit(ctx)
	return err
}

// publishEvent асинхронно отправляет событие аналитики о сеансе.
func (t *TherapyUseCase) publishEvent(res *RecommendMusicRes) {
	if t.analytics == nil {
		return
	}

	event := &SessionEvent{
		SessionID:       res.SessionID,
		Source:          res.Source,
		RuleKey:         res.RuleKey,
		DominantEmotion: res.Analysis.Dominant.Emotion.String(),
		Duration:        res.Duration,
		SegmentsFound:   len(res.Segments),
		Degraded:        res.Degraded,
		CreatedAt:       time.Now().UTC(),
	}

	go func() {
		bgCtx, cancel := context.WithTimeout(context.Background(), backgroundTimeout)
		defer cancel()

		if err := t.analytics.PublishSessionEvent(bgCtx, event); err != nil {
			t.logger.Warnf("Failed to publish session event. session_id: %s, error: %v", event.SessionID, err)
		}
	}()
}

// recommendationKey строит стабильный ключ кэша по входу рекомендации.
func recommendationKey(v domain.EmotionVector, bucket domain.DurationBucket, topK int) string {
	h := fnv.New64a()

	var buf [8]byte
	for _, val := range v {
		binary.LittleEndian.PutUint64(buf[:], math.Float64bits(val))
		h.Write(buf[:])
	}
	h.Write([]byte(bucket))
	binary.LittleEndian.PutUint64(buf[:], uint64(topK))
	h.Write(buf[:])

	return fmt.Sprintf("therapy:rec:%016x", h.Sum64())
}
