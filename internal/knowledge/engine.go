package knowledge

import (
	"github.com/harmonia-tech/mt-backend/internal/domain"
)

// RuleEngine подбирает наиболее подходящее правило для эмоционального
// вектора. Движок неизменяем после создания и безопасен для
// конкурентного использования.
type RuleEngine struct {
	rules []domain.MusicRule
}

// NewRuleEngine строит движок поверх таблицы правил,
// валидируя её перед использованием.
func NewRuleEngine(rules []domain.MusicRule) (*RuleEngine, error) {
	if err := validateRules(rules); err != nil {
		return nil, err
	}

	rs := make([]domain.MusicRule, len(rules))
	copy(rs, rules)

	return &RuleEngine{rules: rs}, nil
}

// RuleMatch — результат срабатывания правила.
type RuleMatch struct {
	Rule     domain.MusicRule
	Strength float64
}

// Evaluate возвращает правило с максимальной силой совпадения.
// Побеждает строго большая сила; при равенстве — более раннее правило
// в таблице. Совпадение с нулевым запасом (значение ровно на пороге)
// тоже считается совпадением.
func (re *RuleEngine) Evaluate(v domain.EmotionVector) (RuleMatch, bool) {
	var best RuleMatch
	bestStrength := -1.0
	found := false

	for _, r := range re.rules {
		strength, ok := r.Evaluate(v)
		if !ok {
			continue
		}
		if strength > bestStrength {
			bestStrength = strength
			best = RuleMatch{Rule: r, Strength: strength}
			found = true
		}
	}

	return best, found
}

// Rules возвращает копию таблицы правил движка.
func (re *RuleEngine) Rules() []domain.MusicRule {
	rs := make([]domain.MusicRule, len(re.rules))
	copy(rs, re.rules)
	return rs
}
