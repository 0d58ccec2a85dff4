package encoder

import (
	"hash/fnv"
	"math"
	"strings"
)

// keywordDims закрепляет за ключевыми словами описаний фиксированные
// измерения псевдо-вектора. Слова одной характеристики делят измерение,
// противоположные значения получают противоположные знаки.
var keywordDims = map[string]struct {
	dim   int
	value float64
}{
	// темп
	"meditative": {0, 1.0},
	"slow":       {0, 0.9},
	"relaxed":    {0, 0.8},
	"walking":    {0, 0.2},
	"upbeat":     {0, -0.5},
	"lively":     {0, -0.6},
	"fast":       {0, -0.8},
	"energetic":  {0, -0.9},

	// лад
	"major":       {1, 0.9},
	"bright":      {1, 0.8},
	"ambiguous":   {1, 0.1},
	"melancholic": {1, -0.8},
	"minor":       {1, -0.9},

	// гармония
	"consonant": {2, 0.9},
	"soothing":  {2, 0.8},
	"balanced":  {2, 0.2},
	"tense":     {2, -0.8},
	"dissonant": {2, -0.9},

	// динамика
	"soft":     {3, 0.9},
	"gentle":   {3, 0.8},
	"moderate": {3, 0.1},
	"powerful": {3, -0.8},
	"loud":     {3, -0.9},

	// регистр
	"deep":       {4, -0.8},
	"low":        {4, -0.9},
	"middle":     {4, 0.1},
	"shimmering": {4, 0.8},
	"high":       {4, 0.9},

	// фактура
	"sparse":  {5, 0.8},
	"minimal": {5, 0.7},
	"rich":    {5, -0.7},
	"dense":   {5, -0.8},

	// тембры
	"pad":     {6, 0.8},
	"choir":   {7, 0.8},
	"piano":   {8, 0.8},
	"natural": {9, 0.8},
	"ambient": {9, 0.6},
	"strings": {10, 0.8},
	"vintage": {11, 0.8},
	"analog":  {11, 0.6},
}

// KeywordEncoder строит детерминированный псевдо-вектор по ключевым
// словам текста. Режим деградации: без внешнего энкодера близкие
// описания всё ещё дают близкие векторы.
type KeywordEncoder struct {
	dimensions int
}

func NewKeywordEncoder(dimensions int) *KeywordEncoder {
	return &KeywordEncoder{dimensions: dimensions}
}

// Encode возвращает нормированный вектор. Известные ключевые слова
// пишутся в закреплённые измерения, остальные токены размазываются
// по хэшированным измерениям с малым весом.
func (k *KeywordEncoder) Encode(text string) []float32 {
	vector := make([]float64, k.dimensions)

	for _, token := range tokenize(text) {
		if entry, ok := keywordDims[token]; ok {
			vector[entry.dim] += entry.value
			continue
		}

		h := fnv.New32a()
		h.Write([]byte(token))
		vector[int(h.Sum32())%k.dimensions] += 0.1
	}

	normalize(vector)

	result := make([]float32, len(vector))
	for i, v := range vector {
		result[i] = float32(v)
	}

	return result
}

func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return (r < 'a' || r > 'z') && (r < '0' || r > '9')
	})
}

func normalize(vector []float64) {
	var sum float64
	for _, v := range vector {
		sum += v * v
	}
	if sum == 0 {
		return
	}

	norm := math.Sqrt(sum)
	for i := range vector {
		vector[i] /= norm
	}
}
