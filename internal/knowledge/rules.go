// Package knowledge содержит символьное ядро подбора терапевтических
// параметров: таблицу GEMS-правил, правило-ориентированный движок,
// непрерывный интерполяционный фолбэк и генератор описаний.
package knowledge

import (
	"github.com/harmonia-tech/mt-backend/internal/domain"
	"github.com/harmonia-tech/mt-backend/pkg/e"
)

func f64(v float64) *float64 { return &v }

func timbre(t domain.Timbre) *domain.Timbre { return &t }

// GemsRules возвращает таблицу терапевтических правил, основанную на
// Женевской шкале музыкальных эмоций (GEMS). Порядок записей фиксирован:
// при равной силе совпадения выигрывает более раннее правило.
func GemsRules() []domain.MusicRule {
	return []domain.MusicRule{
		{
			Key:        "anxiety_relief_critical",
			Name:       "Critical anxiety relief",
			Conditions: map[domain.Emotion]float64{domain.Anxiety: 0.8},
			Overrides: domain.ParameterOverrides{
				Tempo: f64(60), Mode: f64(0.7), Dynamics: f64(0.3),
				HarmonyConsonance: f64(0.8), Timbre: timbre(domain.TimbreWarmPad),
			},
			Priority: domain.PriorityCritical,
		},
		{
			Key:        "anger_release",
			Name:       "Anger release",
			Conditions: map[domain.Emotion]float64{domain.Anger: 0.8},
			Overrides: domain.ParameterOverrides{
				Tempo: f64(90), Mode: f64(0.4), Dynamics: f64(0.6),
				HarmonyConsonance: f64(0.3), Timbre: timbre(domain.TimbreExpressiveStrings),
			},
			Priority: domain.PriorityCritical,
		},
		{
			Key:        "fear_soothing",
			Name:       "Fear soothing",
			Conditions: map[domain.Emotion]float64{domain.Fear: 0.8},
			Overrides: domain.ParameterOverrides{
				Tempo: f64(55), Mode: f64(0.8), Dynamics: f64(0.2),
				HarmonyConsonance: f64(0.9), Timbre: timbre(domain.TimbreSoftChoir),
			},
			Priority: domain.PriorityCritical,
		},
		{
			Key:        "calm_maintenance",
			Name:       "Calm state maintenance",
			Conditions: map[domain.Emotion]float64{domain.Calmness: 0.7},
			Overrides: domain.ParameterOverrides{
				Tempo: f64(65), Mode: f64(0.6), Dynamics: f64(0.4),
				HarmonyConsonance: f64(0.7), Timbre: timbre(domain.TimbreNatureSounds),
			},
			Priority: domain.PriorityHigh,
		},
		{
			Key:        "sadness_support",
			Name:       "Sadness support",
			Conditions: map[domain.Emotion]float64{domain.Sadness: 0.7},
			Overrides: domain.ParameterOverrides{
				Tempo: f64(70), Mode: f64(0.3), Dynamics: f64(0.4),
				HarmonyConsonance: f64(0.6), Timbre: timbre(domain.TimbreGentlePiano),
			},
			Priority: domain.PriorityHigh,
		},
		{
			Key:        "joy_energy",
			Name:       "Joy energy maintenance",
			Conditions: map[domain.Emotion]float64{domain.Joy: 0.7},
			Overrides: domain.ParameterOverrides{
				Tempo: f64(100), Mode: f64(0.8), Dynamics: f64(0.7),
				HarmonyConsonance: f64(0.8), Timbre: timbre(domain.TimbreBrightEnsemble),
			},
			Priority: domain.PriorityHigh,
		},
		{
			Key:        "anxiety_relief_moderate",
			Name:       "Moderate anxiety relief",
			Conditions: map[domain.Emotion]float64{domain.Anxiety: 0.5},
			Overrides: domain.ParameterOverrides{
				Tempo: f64(75), Mode: f64(0.6), Dynamics: f64(0.4),
				HarmonyConsonance: f64(0.7), Timbre: timbre(domain.TimbreAmbientPad),
			},
			Priority: domain.PriorityMedium,
		},
		{
			Key:        "positive_excitement",
			Name:       "Positive excitement",
			Conditions: map[domain.Emotion]float64{domain.Excitement: 0.6, domain.Joy: 0.5},
			Overrides: domain.ParameterOverrides{
				Tempo: f64(110), Mode: f64(0.8), Dynamics: f64(0.7),
				HarmonyConsonance: f64(0.7), Timbre: timbre(domain.TimbreEnergeticMix),
			},
			Priority: domain.PriorityMedium,
		},
		{
			Key:        "nostalgia_comfort",
			Name:       "Nostalgia comfort",
			Conditions: map[domain.Emotion]float64{domain.Nostalgia: 0.6},
			Overrides: domain.ParameterOverrides{
				Tempo: f64(85), Mode: f64(0.5), Dynamics: f64(0.5),
				HarmonyConsonance: f64(0.6), Timbre: timbre(domain.TimbreVintageWarmth),
			},
			Priority: domain.PriorityMedium,
		},
		{
			Key:        "interest_sparking",
			Name:       "Interest sparking",
			Conditions: map[domain.Emotion]float64{domain.Boredom: 0.4},
			Overrides: domain.ParameterOverrides{
				Tempo: f64(95), Mode: f64(0.6), Dynamics: f64(0.6),
				HarmonyConsonance: f64(0.6), Timbre: timbre(domain.TimbreInterestingTextures),
			},
			Priority: domain.PriorityLow,
		},
	}
}

// validateRules проверяет таблицу правил при построении движка.
// Любое нарушение — фатальная ошибка конфигурации, приложение не стартует.
func validateRules(rules []domain.MusicRule) error {
	seen := make(map[string]struct{}, len(rules))
	for _, r := range rules {
		if len(r.Conditions) == 0 {
			return e.Wrap(r.Key, e.ErrEmptyRuleConditions)
		}
		if r.Overrides.Empty() {
			return e.Wrap(r.Key, e.ErrEmptyRuleOverrides)
		}
		for em := range r.Conditions {
			if !em.Valid() {
				return e.Wrap(r.Key, e.ErrUnknownEmotionIndex)
			}
		}
		if _, ok := seen[r.Key]; ok {
			return e.Wrap(r.Key, e.ErrDuplicateRuleKey)
		}
		seen[r.Key] = struct{}{}
	}
	return nil
}
