package domain

import (
	"math"
	"sort"

	"github.com/harmonia-tech/mt-backend/pkg/e"
)

// Emotion — индекс одной из 27 эмоций канонической таксономии Cowen & Keltner (2017).
// Порядок значений фиксирован и совпадает с порядком выдачи внешнего классификатора.
type Emotion int

const (
	Admiration Emotion = iota
	Adoration
	AestheticAppreciation
	Amusement
	Anger
	Anxiety
	Awe
	Awkwardness
	Boredom
	Calmness
	Confusion
	Contempt
	Craving
	Disappointment
	Disgust
	EmpathicPain
	Entrancement
	Envy
	Excitement
	Fear
	Guilt
	Horror
	Interest
	Joy
	Nostalgia
	Romance
	Sadness

	// NumEmotions — размерность эмоционального вектора.
	NumEmotions = 27
)

var emotionNames = [NumEmotions]string{
	"admiration",
	"adoration",
	"aesthetic_appreciation",
	"amusement",
	"anger",
	"anxiety",
	"awe",
	"awkwardness",
	"boredom",
	"calmness",
	"confusion",
	"contempt",
	"craving",
	"disappointment",
	"disgust",
	"empathic_pain",
	"entrancement",
	"envy",
	"excitement",
	"fear",
	"guilt",
	"horror",
	"interest",
	"joy",
	"nostalgia",
	"romance",
	"sadness",
}

func (em Emotion) String() string {
	if em < 0 || em >= NumEmotions {
		return "unknown"
	}
	return emotionNames[em]
}

// Valid сообщает, попадает ли индекс в диапазон таксономии.
func (em Emotion) Valid() bool {
	return em >= 0 && em < NumEmotions
}

// EmotionVector — 27-мерный вектор интенсивностей эмоций.
// Значения концептуально лежат в [0,1], но внешний классификатор этого не гарантирует.
type EmotionVector [NumEmotions]float64

// NewEmotionVector строит вектор из среза. Любая длина, кроме 27, — фатальная
// ошибка входа: вычисление не начинается.
func NewEmotionVector(values []float64) (EmotionVector, error) {
	var v EmotionVector
	if len(values) != NumEmotions {
		return v, e.ErrInvalidEmotionCount
	}
	copy(v[:], values)
	return v, nil
}

// Clip возвращает копию вектора, в которой все значения приведены к [0,1],
// и количество компонентов, потребовавших отсечения. NaN трактуется как
// отсутствие сигнала и заменяется нулём.
func (v EmotionVector) Clip() (EmotionVector, int) {
	clipped := 0
	for i, val := range v {
		switch {
		case math.IsNaN(val):
			v[i] = 0
			clipped++
		case val < 0:
			v[i] = 0
			clipped++
		case val > 1:
			v[i] = 1
			clipped++
		}
	}
	return v, clipped
}

// EmotionScore — эмоция с её интенсивностью.
type EmotionScore struct {
	Emotion Emotion
	Value   float64
}

// Top возвращает k эмоций с наибольшей интенсивностью по убыванию.
// При равенстве значений порядок определяется индексом эмоции (стабильно).
func (v EmotionVector) Top(k int) []EmotionScore {
	if k <= 0 {
		return nil
	}
	if k > NumEmotions {
		k = NumEmotions
	}

	scores := make([]EmotionScore, NumEmotions)
	for i := range v {
		scores[i] = EmotionScore{Emotion: Emotion(i), Value: v[i]}
	}

	sort.SliceStable(scores, func(i, j int) bool {
		return scores[i].Value > scores[j].Value
	})

	return scores[:k]
}

// Dominant возвращает эмоцию с максимальной интенсивностью.
func (v EmotionVector) Dominant() EmotionScore {
	return v.Top(1)[0]
}
