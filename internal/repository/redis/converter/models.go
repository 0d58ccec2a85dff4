package converter

import (
	"github.com/harmonia-tech/mt-backend/internal/domain"
	"github.com/harmonia-tech/mt-backend/internal/knowledge"
)

// RecommendationRedisModel — представление готовой рекомендации в кэше.
// Признак попадания в кэш не сохраняется: он выставляется при чтении.
type RecommendationRedisModel struct {
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
	QueryOrigin   string                          `json:"query_origin"`
	Degraded      bool                            `json:"degraded,omitempty"`
	SearchError   string                          `json:"search_error,omitempty"`
	ClippedValues int                             `json:"clipped_values,omitempty"`
}
