package usecase

import (
	"time"

	"github.com/harmonia-tech/mt-backend/internal/domain"
	"github.com/harmonia-tech/mt-backend/internal/knowledge"
)

// Источники параметров терапии.
const (
	SourceRule          = "rule"
	SourceInterpolation = "interpolation"
)

// THERAPY USECASE

// RecommendMusicReq — запрос полного цикла: эмоции -> параметры -> сегменты.
type RecommendMusicReq struct {
	EmotionVector []float64
	Duration      string
	TopK          int
	SessionID     string
}

// RecommendMusicRes — результат полного цикла рекомендации.
type RecommendMusicRes struct {
	SessionID     string                          `json:"session_id"`
	Source        string                          `json:"source"`
	RuleKey       string                          `json:"rule_key,omitempty"`
	RuleName      string                          `json:"rule_name,omitempty"`
	MatchStrength float64                         `json:"match_strength,omitempty"`
	Parameters    domain.ParameterSet             `json:"parameters"`
	Tags          domain.StructuredTags           `json:"tags"`
	QueryText     string                          `json:"query_text"`
	Analysis      knowledge.EmotionAnalysis       `json:"analysis"`
	Therapy       knowledge.TherapyRecommendation `json:"therapy"`
	Duration      string                          `json:"duration"`
	Segments      []domain.SearchResult           `json:"segments"`
	QueryOrigin   domain.QueryOrigin              `json:"query_origin"`
	Degraded      bool                            `json:"degraded,omitempty"`
	SearchError   string                          `json:"search_error,omitempty"`
	ClippedValues int                             `json:"clipped_values,omitempty"`
	CacheHit      bool                            `json:"cache_hit,omitempty"`
}

// TherapyParametersReq — запрос только символьной части без поиска.
type TherapyParametersReq struct {
	EmotionVector []float64
}

// TherapyParametersRes — параметры терапии без обращения к библиотеке.
type TherapyParametersRes struct {
	Source        string                          `json:"source"`
	RuleKey       string                          `json:"rule_key,omitempty"`
	RuleName      string                          `json:"rule_name,omitempty"`
	MatchStrength float64                         `json:"match_strength,omitempty"`
	Parameters    domain.ParameterSet             `json:"parameters"`
	Tags          domain.StructuredTags           `json:"tags"`
	QueryText     string                          `json:"query_text"`
	Analysis      knowledge.EmotionAnalysis       `json:"analysis"`
	Therapy       knowledge.TherapyRecommendation `json:"therapy"`
	ClippedValues int                             `json:"clipped_values,omitempty"`
}

// SEARCH USECASE

// SearchSegmentsReq — прямой поиск по библиотеке: текстом или вектором.
type SearchSegmentsReq struct {
	QueryText   string
	QueryVector []float32
	Duration    string
	TopK        int
}

// SearchSegmentsRes — результаты прямого поиска.
type SearchSegmentsRes struct {
	Segments    []domain.SearchResult `json:"segments"`
	QueryOrigin domain.QueryOrigin    `json:"query_origin"`
	Degraded    bool                  `json:"degraded,omitempty"`
}

// IndexStatsRes — сводка по загруженному индексу.
type IndexStatsRes struct {
	TotalRecords int                           `json:"total_records"`
	Buckets      map[domain.DurationBucket]int `json:"buckets"`
	LoadedAt     time.Time                     `json:"loaded_at"`
}

// INFRASTRUCTURE

// EncodedQuery — результат кодирования текста запроса в вектор.
type EncodedQuery struct {
	Vector   []float32
	Degraded bool
}

// SessionEvent — событие аналитики о завершённой рекомендации.
type SessionEvent struct {
	SessionID       string    `json:"session_id"`
	Source          string    `json:"source"`
	RuleKey         string    `json:"rule_key,omitempty"`
	DominantEmotion string    `json:"dominant_emotion"`
	Duration        string    `json:"duration"`
	SegmentsFound   int       `json:"segments_found"`
	Degraded        bool      `json:"degraded"`
	CreatedAt       time.Time `json:"created_at"`
}

// REPOSITORIES

// TherapySession — запись сеанса для долговременного хранения.
type TherapySession struct {
	ID            string
	EmotionVector []float64
	Source        string
	RuleKey       string
	Parameters    domain.ParameterSet
	QueryText     string
	Duration      string
	Segments      []domain.SearchResult
	CreatedAt     time.Time
}

// MAPPERS

func NewRecommendMusicReq(vector []float64, duration string, topK int, sessionID string) *RecommendMusicReq {
	return &RecommendMusicReq{
		EmotionVector: vector,
		Duration:      duration,
		TopK:          topK,
		SessionID:     sessionID,
	}
}

func NewTherapyParametersReq(vector []float64) *TherapyParametersReq {
	return &TherapyParametersReq{EmotionVector: vector}
}

func NewSearchSegmentsReq(text string, vector []float32, duration string, topK int) *SearchSegmentsReq {
	return &SearchSegmentsReq{
		QueryText:   text,
		QueryVector: vector,
		Duration:    duration,
		TopK:        topK,
	}
}

func NewEncodedQuery(vector []float32, degraded bool) *EncodedQuery {
	return &EncodedQuery{Vector: vector, Degraded: degraded}
}
