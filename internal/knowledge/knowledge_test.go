package knowledge

import (
	"testing"

	"github.com/harmonia-tech/mt-backend/internal/domain"
)

func vec(values map[domain.Emotion]float64) domain.EmotionVector {
	var v domain.EmotionVector
	for em, val := range values {
		v[em] = val
	}
	return v
}

func f(v float64) *float64 { return &v }

func newEngine(t *testing.T) *RuleEngine {
	t.Helper()
	re, err := NewRuleEngine(GemsRules())
	if err != nil {
		t.Fatalf("build rule engine: %v", err)
	}
	return re
}
