package encoder

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harmonia-tech/mt-backend/internal/cfg"
	"github.com/harmonia-tech/mt-backend/internal/domain"
	"github.com/harmonia-tech/mt-backend/pkg/e"
)

type noopLogger struct{}

func (noopLogger) Infof(string, ...any)         {}
func (noopLogger) Warnf(string, ...any)         {}
func (noopLogger) Errorf(error, string, ...any) {}

func cosine(a, b []float32) float64 {
	var dot, na, nb float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}

func TestKeywordEncoder_Encode(t *testing.T) {
	k := NewKeywordEncoder(domain.EmbeddingDim)

	t.Run("deterministic", func(t *testing.T) {
		text := "slow relaxed tempo, bright major tonality, soft gentle dynamics"
		assert.Equal(t, k.Encode(text), k.Encode(text))
	})

	t.Run("normalized", func(t *testing.T) {
		vector := k.Encode("slow meditative tempo with warm pad sounds")
		var sum float64
		for _, v := range vector {
			sum += float64(v) * float64(v)
		}
		assert.InDelta(t, 1.0, sum, 1e-6)
	})

	t.Run("similar descriptions are closer than opposite ones", func(t *testing.T) {
		calm := k.Encode("very slow meditative tempo, consonant soothing harmony, soft gentle dynamics")
		alsoCalm := k.Encode("slow relaxed tempo, consonant harmony, soft dynamics")
		agitated := k.Encode("very fast energetic tempo, tense dissonant harmony, powerful loud dynamics")

		assert.Greater(t, cosine(calm, alsoCalm), cosine(calm, agitated))
	})

	t.Run("unknown words still produce a vector", func(t *testing.T) {
		vector := k.Encode("completely unrelated words here")
		var sum float64
		for _, v := range vector {
			sum += float64(v)
		}
		assert.NotZero(t, sum)
	})

	t.Run("correct dimension", func(t *testing.T) {
		assert.Len(t, k.Encode("slow"), domain.EmbeddingDim)
	})
}

func TestEncoder_DegradedWithoutAPIKey(t *testing.T) {
	en := NewEncoder(&cfg.EncoderCfg{Dimensions: domain.EmbeddingDim, MaxRetries: 1}, noopLogger{})

	res, err := en.Encode(context.Background(), "slow relaxed tempo")
	require.NoError(t, err)

	assert.True(t, res.Degraded)
	assert.Len(t, res.Vector, domain.EmbeddingDim)
}

func TestEncoder_EmptyText(t *testing.T) {
	en := NewEncoder(&cfg.EncoderCfg{Dimensions: domain.EmbeddingDim, MaxRetries: 1}, noopLogger{})

	_, err := en.Encode(context.Background(), "   ")
	assert.ErrorIs(t, err, e.ErrEmptyQuery)
}
