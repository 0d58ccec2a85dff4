package knowledge

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/harmonia-tech/mt-backend/internal/domain"
)

func TestDescriber_Tags(t *testing.T) {
	d := NewDescriber()

	tests := []struct {
		name   string
		params domain.ParameterSet
		want   domain.StructuredTags
	}{
		{
			name: "calming profile",
			params: domain.ParameterSet{
				Tempo: 58, Mode: 0.75, Dynamics: 0.25,
				HarmonyConsonance: 0.85, Timbre: domain.TimbreWarmPad,
				PitchRegister: 0.5, Density: 0.5,
			},
			want: domain.StructuredTags{
				Tempo: "very_slow", TempoBPM: 58, Mode: "major",
				Dynamics: "soft", Harmony: "consonant",
				Register: "middle", Density: "medium",
				Timbre: "warm_pad",
			},
		},
		{
			name: "energetic profile",
			params: domain.ParameterSet{
				Tempo: 125, Mode: 0.2, Dynamics: 0.8,
				HarmonyConsonance: 0.2, Timbre: domain.TimbreEnergeticMix,
				PitchRegister: 0.8, Density: 0.8,
			},
			want: domain.StructuredTags{
				Tempo: "very_fast", TempoBPM: 125, Mode: "minor",
				Dynamics: "loud", Harmony: "dissonant",
				Register: "high", Density: "dense",
				Timbre: "energetic_mix",
			},
		},
		{
			name:   "base parameters",
			params: domain.DefaultParameters(),
			want: domain.StructuredTags{
				Tempo: "medium", TempoBPM: 80, Mode: "ambiguous",
				Dynamics: "moderate", Harmony: "balanced",
				Register: "middle", Density: "medium",
				Timbre: "neutral_pad",
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, d.Tags(tc.params))
		})
	}
}

func TestDescriber_TempoBucketBoundaries(t *testing.T) {
	tests := []struct {
		bpm  float64
		want string
	}{
		{59.9, "very_slow"},
		{60, "slow"},
		{79.9, "slow"},
		{80, "medium"},
		{100, "fast"},
		{120, "very_fast"},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, tempoBucket(tc.bpm), "bpm %.1f", tc.bpm)
	}
}

func TestDescriber_QueryText(t *testing.T) {
	d := NewDescriber()

	t.Run("deterministic for equal parameters", func(t *testing.T) {
		p := domain.ParameterSet{
			Tempo: 60, Mode: 0.7, Dynamics: 0.3,
			HarmonyConsonance: 0.8, Timbre: domain.TimbreWarmPad,
			PitchRegister: 0.4, Density: 0.4,
		}
		assert.Equal(t, d.QueryText(p), d.QueryText(p))
	})

	t.Run("mentions density only at extremes", func(t *testing.T) {
		mid := domain.DefaultParameters()
		assert.NotContains(t, d.QueryText(mid), "texture")

		mid.Density = 0.9
		assert.Contains(t, d.QueryText(mid), "rich dense texture")

		mid.Density = 0.1
		assert.Contains(t, d.QueryText(mid), "sparse minimal texture")
	})

	t.Run("reflects every parameter", func(t *testing.T) {
		p := domain.ParameterSet{
			Tempo: 55, Mode: 0.8, Dynamics: 0.2,
			HarmonyConsonance: 0.9, Timbre: domain.TimbreSoftChoir,
			PitchRegister: 0.5, Density: 0.5,
		}
		text := d.QueryText(p)
		assert.Contains(t, text, "very slow meditative tempo")
		assert.Contains(t, text, "bright major tonality")
		assert.Contains(t, text, "consonant soothing harmony")
		assert.Contains(t, text, "soft angelic choir voices")
		assert.Contains(t, text, "soft gentle dynamics")
		assert.Contains(t, text, "comfortable middle register")
	})

	t.Run("clauses joined by commas", func(t *testing.T) {
		text := d.QueryText(domain.DefaultParameters())
		assert.Equal(t, 6, len(strings.Split(text, ", ")))
	})
}
