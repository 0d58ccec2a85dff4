package domain

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harmonia-tech/mt-backend/pkg/e"
)

func TestNewEmotionVector(t *testing.T) {
	t.Run("accepts exactly 27 values", func(t *testing.T) {
		values := make([]float64, NumEmotions)
		values[int(Joy)] = 0.8

		v, err := NewEmotionVector(values)
		require.NoError(t, err)
		assert.InDelta(t, 0.8, v[Joy], 1e-12)
	})

	t.Run("rejects any other length", func(t *testing.T) {
		for _, n := range []int{0, 1, 26, 28} {
			_, err := NewEmotionVector(make([]float64, n))
			assert.ErrorIs(t, err, e.ErrInvalidEmotionCount)
		}
	})
}

func TestEmotionVector_Clip(t *testing.T) {
	t.Run("values in range are untouched", func(t *testing.T) {
		var v EmotionVector
		v[Joy] = 0.5
		v[Anger] = 1.0

		clipped, n := v.Clip()
		assert.Zero(t, n)
		assert.Equal(t, v, clipped)
	})

	t.Run("out of range values are clamped and counted", func(t *testing.T) {
		var v EmotionVector
		v[Joy] = 1.7
		v[Anger] = -0.2

		clipped, n := v.Clip()
		assert.Equal(t, 2, n)
		assert.Equal(t, 1.0, clipped[Joy])
		assert.Equal(t, 0.0, clipped[Anger])
	})

	t.Run("NaN is replaced with zero and counted", func(t *testing.T) {
		var v EmotionVector
		v[Fear] = math.NaN()
		v[Joy] = 0.4

		clipped, n := v.Clip()
		assert.Equal(t, 1, n)
		assert.Equal(t, 0.0, clipped[Fear])
		assert.InDelta(t, 0.4, clipped[Joy], 1e-12)
	})
}
