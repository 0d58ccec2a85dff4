package knowledge

import (
	"github.com/harmonia-tech/mt-backend/internal/domain"
)

// baseAxis — укрупнённая эмоциональная ось непрерывной интерполяции.
type baseAxis int

const (
	axisJoy baseAxis = iota
	axisExcitement
	axisCalm
	axisSadness
	axisAnger
	axisAnxiety
	axisFear
	numAxes
)

// axisFactors задаёт вклад каждой оси в корректировки параметров.
// Порядок коэффициентов: tempo, mode, dynamics, harmony, register, density.
var axisFactors = [numAxes][6]float64{
	axisJoy:        {0.3, 0.4, 0.3, 0.3, 0.2, 0.2},
	axisExcitement: {0.4, 0.3, 0.4, 0.2, 0.3, 0.3},
	axisCalm:       {-0.3, 0.2, -0.4, 0.4, -0.2, -0.4},
	axisSadness:    {-0.2, -0.3, -0.2, 0.1, -0.3, -0.2},
	axisAnger:      {0.2, -0.2, 0.4, -0.4, 0.1, 0.3},
	axisAnxiety:    {0.1, -0.1, 0.1, -0.3, 0.2, 0.2},
	axisFear:       {-0.1, 0.1, -0.3, 0.2, 0.1, -0.3},
}

// emotionAxis сводит 27 эмоций к семи базовым осям. Эмоции без оси
// (Awe, Confusion, Boredom) не влияют на интерполяцию.
var emotionAxis = map[domain.Emotion]baseAxis{
	domain.Joy:        axisJoy,
	domain.Admiration: axisJoy,
	domain.Adoration:  axisJoy,
	domain.Amusement:  axisJoy,
	domain.Romance:    axisJoy,

	domain.Excitement:            axisExcitement,
	domain.Interest:              axisExcitement,
	domain.Entrancement:          axisExcitement,
	domain.AestheticAppreciation: axisExcitement,

	domain.Calmness: axisCalm,

	domain.Sadness:        axisSadness,
	domain.Disappointment: axisSadness,
	domain.Guilt:          axisSadness,
	domain.EmpathicPain:   axisSadness,
	domain.Nostalgia:      axisSadness,

	domain.Anger:    axisAnger,
	domain.Disgust:  axisAnger,
	domain.Contempt: axisAnger,
	domain.Envy:     axisAnger,

	domain.Anxiety: axisAnxiety,
	domain.Craving: axisAnxiety,

	domain.Fear:        axisFear,
	domain.Horror:      axisFear,
	domain.Awkwardness: axisFear,
}

// activationThreshold — минимальное значение эмоции, при котором она
// участвует в интерполяции.
const activationThreshold = 0.1

// topEmotions — сколько наиболее выраженных эмоций учитывает синтезатор.
const topEmotions = 3

// ParameterSynthesizer вычисляет непрерывные параметры, когда ни одно
// символьное правило не сработало.
type ParameterSynthesizer struct{}

func NewParameterSynthesizer() *ParameterSynthesizer {
	return &ParameterSynthesizer{}
}

// Synthesize интерполирует параметры от базовых значений по трём самым
// выраженным эмоциям вектора. Вектор без выраженных эмоций даёт
// базовые параметры без изменений.
func (s *ParameterSynthesizer) Synthesize(v domain.EmotionVector) domain.ParameterSet {
	params := domain.DefaultParameters()

	type activation struct {
		axis  baseAxis
		value float64
	}

	// Эмоции без оси не попадают ни в корректировки, ни в общий вес:
	// иначе они разбавляли бы вклад сопоставленных эмоций.
	var (
		active []activation
		total  float64
	)
	for _, es := range v.Top(topEmotions) {
		if es.Value <= activationThreshold {
			continue
		}
		axis, ok := emotionAxis[es.Emotion]
		if !ok {
			continue
		}
		active = append(active, activation{axis: axis, value: es.Value})
		total += es.Value
	}
	if len(active) == 0 {
		return params
	}

	var adj [6]float64
	for _, a := range active {
		w := a.value / total
		for i, f := range axisFactors[a.axis] {
			adj[i] += w * f
		}
	}

	params.Tempo = 80 + adj[0]*50
	params.Mode = 0.5 + adj[1]
	params.Dynamics = 0.5 + adj[2]
	params.HarmonyConsonance = 0.5 + adj[3]
	params.PitchRegister = 0.5 + adj[4]
	params.Density = 0.5 + adj[5]

	return params.Clamp()
}
