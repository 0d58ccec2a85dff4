package domain

// Priority — приоритет терапевтического правила.
// Числовое значение одновременно служит весом при подсчёте силы совпадения.
type Priority int

const (
	PriorityLow      Priority = 1
	PriorityMedium   Priority = 2
	PriorityHigh     Priority = 3
	PriorityCritical Priority = 4
)

// Weight возвращает множитель силы совпадения для приоритета.
func (p Priority) Weight() float64 {
	return float64(p)
}

// ParameterOverrides — частичное переопределение ParameterSet правилом.
// Нулевой указатель означает «поле не трогать».
type ParameterOverrides struct {
	Tempo             *float64
	Mode              *float64
	Dynamics          *float64
	HarmonyConsonance *float64
	Timbre            *Timbre
	PitchRegister     *float64
	Density           *float64
}

// Empty сообщает, переопределяет ли набор хотя бы одно поле.
func (o ParameterOverrides) Empty() bool {
	return o.Tempo == nil && o.Mode == nil && o.Dynamics == nil &&
		o.HarmonyConsonance == nil && o.Timbre == nil &&
		o.PitchRegister == nil && o.Density == nil
}

// Apply накладывает переопределения на базовый набор параметров.
func (o ParameterOverrides) Apply(base ParameterSet) ParameterSet {
	if o.Tempo != nil {
		base.Tempo = *o.Tempo
	}
	if o.Mode != nil {
		base.Mode = *o.Mode
	}
	if o.Dynamics != nil {
		base.Dynamics = *o.Dynamics
	}
	if o.HarmonyConsonance != nil {
		base.HarmonyConsonance = *o.HarmonyConsonance
	}
	if o.Timbre != nil {
		base.Timbre = *o.Timbre
	}
	if o.PitchRegister != nil {
		base.PitchRegister = *o.PitchRegister
	}
	if o.Density != nil {
		base.Density = *o.Density
	}
	return base
}

// MusicRule — символьное правило подбора параметров: конъюнктивный набор
// порогов по эмоциям и частичное переопределение параметров.
// Правила неизменяемы и строятся один раз при старте приложения.
type MusicRule struct {
	Key        string
	Name       string
	Conditions map[Emotion]float64
	Overrides  ParameterOverrides
	Priority   Priority
}

// Evaluate проверяет правило против вектора эмоций.
// Возвращает силу совпадения (средний запас над порогами, умноженный на вес
// приоритета) и признак совпадения. Правило с пустым набором условий никогда
// не совпадает.
func (r MusicRule) Evaluate(v EmotionVector) (float64, bool) {
	if len(r.Conditions) == 0 {
		return 0, false
	}

	total := 0.0
	for em, threshold := range r.Conditions {
		if !em.Valid() || v[em] < threshold {
			return 0, false
		}
		total += v[em] - threshold
	}

	avg := total / float64(len(r.Conditions))
	return avg * r.Priority.Weight(), true
}
