package e

import "fmt"

var (
	// Внутренние ошибки с транзакциями
	ErrTransactionNotFound = fmt.Errorf("transaction not found")

	// Фатальные ошибки конфигурации таблицы правил (проверяются при старте)
	ErrEmptyRuleConditions  = fmt.Errorf("rule has empty condition set")
	ErrEmptyRuleOverrides   = fmt.Errorf("rule has empty parameter overrides")
	ErrUnknownEmotionIndex  = fmt.Errorf("rule references unknown emotion index")
	ErrDuplicateRuleKey     = fmt.Errorf("duplicate rule key")
	ErrIncorrectEnvVariable = fmt.Errorf("incorrect environment variable")

	// Внутренние ошибки с векторами
	ErrEmptyVector         = fmt.Errorf("empty vector")
	ErrVectorDimension     = fmt.Errorf("vector dimension mismatch")
	ErrInvalidEmotionCount = fmt.Errorf("emotion vector must contain exactly 27 values")

	// Ошибки поискового индекса
	ErrIndexUnavailable = fmt.Errorf("embedding index unavailable for requested duration")
	ErrNoValidRecords   = fmt.Errorf("no valid embedding records found")

	// Ошибки инфраструктуры
	ErrEncoderUnavailable = fmt.Errorf("text encoder unavailable")
	ErrCacheMiss          = fmt.Errorf("cache miss")
	ErrSegmentNotResolved = fmt.Errorf("segment url not resolved")

	// 400 Bad Request
	ErrStatusBadRequest = fmt.Errorf("bad request")
	ErrUnknownDuration  = fmt.Errorf("unknown duration bucket")
	ErrInvalidTopK      = fmt.Errorf("top_k must be positive")
	ErrEmptyQuery       = fmt.Errorf("query text or query vector is required")
	ErrMissingFields    = fmt.Errorf("missing required fields")

	// 500 Internal Server Error
	ErrInternalServerError = fmt.Errorf("internal server error")
)

// Wrap оборачивает ошибку
func Wrap(msg string, err error) error {
	return fmt.Errorf("%s: %w", msg, err)
}
