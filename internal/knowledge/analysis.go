package knowledge

import (
	"github.com/harmonia-tech/mt-backend/internal/domain"
)

// EmotionAnalysis — агрегированная картина эмоционального состояния.
type EmotionAnalysis struct {
	Dominant      domain.EmotionScore   `json:"dominant"`
	Top           []domain.EmotionScore `json:"top"`
	PositiveScore float64               `json:"positive_score"`
	NegativeScore float64               `json:"negative_score"`
	ComplexScore  float64               `json:"complex_score"`
}

// TherapyRecommendation — терапевтический фокус и подход,
// подобранные по доминирующей эмоции.
type TherapyRecommendation struct {
	Focus    string `json:"focus"`
	Approach string `json:"approach"`
}

var positiveEmotions = []domain.Emotion{
	domain.Admiration, domain.Adoration, domain.AestheticAppreciation,
	domain.Amusement, domain.Awe, domain.Calmness, domain.Excitement,
	domain.Interest, domain.Joy, domain.Romance,
}

var negativeEmotions = []domain.Emotion{
	domain.Anger, domain.Anxiety, domain.Contempt, domain.Disappointment,
	domain.Disgust, domain.EmpathicPain, domain.Envy, domain.Fear,
	domain.Guilt, domain.Horror, domain.Sadness,
}

var complexEmotions = []domain.Emotion{
	domain.Awkwardness, domain.Boredom, domain.Confusion, domain.Craving,
	domain.Entrancement, domain.Nostalgia,
}

// AnalyzeEmotions строит сводку по вектору: доминирующая эмоция,
// три самых выраженных и суммарные баллы по валентным группам.
func AnalyzeEmotions(v domain.EmotionVector) EmotionAnalysis {
	sum := func(group []domain.Emotion) float64 {
		var s float64
		for _, em := range group {
			s += v[em]
		}
		return s
	}

	return EmotionAnalysis{
		Dominant:      v.Dominant(),
		Top:           v.Top(topEmotions),
		PositiveScore: sum(positiveEmotions),
		NegativeScore: sum(negativeEmotions),
		ComplexScore:  sum(complexEmotions),
	}
}

// RecommendTherapy выбирает терапевтический фокус по доминирующей эмоции.
func RecommendTherapy(v domain.EmotionVector) TherapyRecommendation {
	switch v.Dominant().Emotion {
	case domain.Anxiety, domain.Fear, domain.Horror:
		return TherapyRecommendation{Focus: "anxiety_relief", Approach: "calming_stabilization"}
	case domain.Anger, domain.Disgust, domain.Contempt:
		return TherapyRecommendation{Focus: "anger_release", Approach: "controlled_expression"}
	case domain.Sadness, domain.Disappointment, domain.Guilt:
		return TherapyRecommendation{Focus: "sadness_support", Approach: "empathic_accompaniment"}
	case domain.Joy, domain.Excitement, domain.Amusement:
		return TherapyRecommendation{Focus: "positive_maintenance", Approach: "energy_sustaining"}
	default:
		return TherapyRecommendation{Focus: "emotional_balance", Approach: "gentle_integration"}
	}
}
