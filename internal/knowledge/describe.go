package knowledge

import (
	"strings"

	"github.com/harmonia-tech/mt-backend/internal/domain"
)

// Describer переводит численные параметры в структурированные теги и
// детерминированный текстовый запрос для семантического поиска.
type Describer struct{}

func NewDescriber() *Describer {
	return &Describer{}
}

// Tags раскладывает параметры по дискретным корзинам.
func (d *Describer) Tags(p domain.ParameterSet) domain.StructuredTags {
	return domain.StructuredTags{
		Tempo:    tempoBucket(p.Tempo),
		TempoBPM: p.Tempo,
		Mode:     modeBucket(p.Mode),
		Dynamics: levelBucket(p.Dynamics, "soft", "loud", "moderate"),
		Harmony:  levelBucket(p.HarmonyConsonance, "dissonant", "consonant", "balanced"),
		Register: levelBucket(p.PitchRegister, "low", "high", "middle"),
		Density:  levelBucket(p.Density, "sparse", "dense", "medium"),
		Timbre:   p.Timbre,
	}
}

// QueryText собирает описание музыки на английском. Одни и те же
// параметры всегда дают один и тот же текст. Плотность фактуры
// упоминается только в крайних значениях.
func (d *Describer) QueryText(p domain.ParameterSet) string {
	tags := d.Tags(p)

	clauses := []string{
		tempoClause(tags.Tempo),
		modeClause(tags.Mode),
		harmonyClause(tags.Harmony),
		timbreClause(p.Timbre),
		dynamicsClause(tags.Dynamics),
		registerClause(tags.Register),
	}
	if c := densityClause(tags.Density); c != "" {
		clauses = append(clauses, c)
	}

	return strings.Join(clauses, ", ")
}

func tempoBucket(bpm float64) string {
	switch {
	case bpm < 60:
		return "very_slow"
	case bpm < 80:
		return "slow"
	case bpm < 100:
		return "medium"
	case bpm < 120:
		return "fast"
	default:
		return "very_fast"
	}
}

func modeBucket(mode float64) string {
	if mode > 0.7 {
		return "major"
	}
	if mode < 0.3 {
		return "minor"
	}
	return "ambiguous"
}

func levelBucket(v float64, low, high, mid string) string {
	if v > 0.7 {
		return high
	}
	if v < 0.3 {
		return low
	}
	return mid
}

func tempoClause(bucket string) string {
	switch bucket {
	case "very_slow":
		return "very slow meditative tempo"
	case "slow":
		return "slow relaxed tempo"
	case "medium":
		return "moderate walking tempo"
	case "fast":
		return "upbeat lively tempo"
	default:
		return "very fast energetic tempo"
	}
}

func modeClause(bucket string) string {
	switch bucket {
	case "major":
		return "bright major tonality"
	case "minor":
		return "melancholic minor tonality"
	default:
		return "ambiguous tonality"
	}
}

func harmonyClause(bucket string) string {
	switch bucket {
	case "consonant":
		return "consonant soothing harmony"
	case "dissonant":
		return "tense dissonant harmony"
	default:
		return "balanced harmony"
	}
}

func dynamicsClause(bucket string) string {
	switch bucket {
	case "soft":
		return "soft gentle dynamics"
	case "loud":
		return "powerful loud dynamics"
	default:
		return "moderate dynamics"
	}
}

func registerClause(bucket string) string {
	switch bucket {
	case "low":
		return "deep low register"
	case "high":
		return "shimmering high register"
	default:
		return "comfortable middle register"
	}
}

func densityClause(bucket string) string {
	switch bucket {
	case "sparse":
		return "sparse minimal texture"
	case "dense":
		return "rich dense texture"
	default:
		return ""
	}
}

func timbreClause(t domain.Timbre) string {
	switch t {
	case domain.TimbreWarmPad:
		return "warm enveloping pad sounds"
	case domain.TimbreSoftChoir:
		return "soft angelic choir voices"
	case domain.TimbreGentlePiano:
		return "gentle intimate piano"
	case domain.TimbreNatureSounds:
		return "natural ambient soundscape"
	case domain.TimbreAmbientPad:
		return "calm ambient pad layers"
	case domain.TimbreBrightEnsemble:
		return "bright uplifting ensemble"
	case domain.TimbreEnergeticMix:
		return "energetic vibrant instrumentation"
	case domain.TimbreExpressiveStrings:
		return "expressive emotional strings"
	case domain.TimbreVintageWarmth:
		return "vintage warm analog tones"
	case domain.TimbreInterestingTextures:
		return "intriguing evolving textures"
	default:
		return "neutral pad textures"
	}
}
