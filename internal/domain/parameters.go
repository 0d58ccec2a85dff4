package domain

// Timbre — предпочтение тембра из закрытого набора тегов библиотеки.
type Timbre string

const (
	TimbreNeutralPad          Timbre = "neutral_pad"
	TimbreWarmPad             Timbre = "warm_pad"
	TimbreSoftChoir           Timbre = "soft_choir"
	TimbreGentlePiano         Timbre = "gentle_piano"
	TimbreNatureSounds        Timbre = "nature_sounds"
	TimbreAmbientPad          Timbre = "ambient_pad"
	TimbreBrightEnsemble      Timbre = "bright_ensemble"
	TimbreEnergeticMix        Timbre = "energetic_mix"
	TimbreExpressiveStrings   Timbre = "expressive_strings"
	TimbreVintageWarmth       Timbre = "vintage_warmth"
	TimbreInterestingTextures Timbre = "interesting_textures"
)

// Границы допустимых значений параметров.
const (
	TempoMin = 40.0
	TempoMax = 160.0
)

// ParameterSet — набор музыкальных управляющих параметров терапии.
// Все поля, кроме Tempo, лежат в [0,1]; Tempo — в [40,160] BPM.
type ParameterSet struct {
	Tempo             float64 `json:"tempo"`
	Mode              float64 `json:"mode"` // 0 = минор, 1 = мажор
	Dynamics          float64 `json:"dynamics"`
	HarmonyConsonance float64 `json:"harmony_consonance"`
	Timbre            Timbre  `json:"timbre"`
	PitchRegister     float64 `json:"pitch_register"`
	Density           float64 `json:"density"`
}

// DefaultParameters возвращает нейтральную середину всех параметров.
func DefaultParameters() ParameterSet {
	return ParameterSet{
		Tempo:             80.0,
		Mode:              0.5,
		Dynamics:          0.5,
		HarmonyConsonance: 0.5,
		Timbre:            TimbreNeutralPad,
		PitchRegister:     0.5,
		Density:           0.5,
	}
}

// Clamp приводит все числовые поля к их допустимым диапазонам.
func (p ParameterSet) Clamp() ParameterSet {
	p.Tempo = clamp(p.Tempo, TempoMin, TempoMax)
	p.Mode = clamp01(p.Mode)
	p.Dynamics = clamp01(p.Dynamics)
	p.HarmonyConsonance = clamp01(p.HarmonyConsonance)
	p.PitchRegister = clamp01(p.PitchRegister)
	p.Density = clamp01(p.Density)
	return p
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clamp01(v float64) float64 {
	return clamp(v, 0, 1)
}

// StructuredTags — дискретизированное представление ParameterSet,
// пригодное для фильтров и формирования поискового запроса.
type StructuredTags struct {
	Tempo    string  `json:"tempo"`
	TempoBPM float64 `json:"tempo_bpm"`
	Mode     string  `json:"mode"`
	Dynamics string  `json:"dynamics"`
	Harmony  string  `json:"harmony"`
	Register string  `json:"register"`
	Density  string  `json:"density"`
	Timbre   Timbre  `json:"timbre"`
}
