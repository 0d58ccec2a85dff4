// Package encoder переводит текстовые описания музыки в поисковые векторы.
// Основной путь — внешний embeddings API; без ключа или при его отказе
// включается детерминированный режим по ключевым словам.
package encoder

import (
	"context"
	"strings"

	"github.com/harmonia-tech/mt-backend/internal/cfg"
	"github.com/harmonia-tech/mt-backend/internal/usecase"
	"github.com/harmonia-tech/mt-backend/pkg/e"
	"github.com/harmonia-tech/mt-backend/pkg/logger"
)

type Encoder struct {
	semantic *SemanticEncoder
	keyword  *KeywordEncoder
	logger   logger.Logger
}

// NewEncoder собирает энкодер по конфигурации. Пустой API-ключ сразу
// переводит кодирование в деградированный режим.
func NewEncoder(cfg *cfg.EncoderCfg, logger logger.Logger) *Encoder {
	var semantic *SemanticEncoder
	if cfg.APIKey != "" {
		semantic = NewSemanticEncoder(cfg, logger)
	} else {
		logger.Warnf("encoder API key is not set, falling back to keyword encoding")
	}

	return &Encoder{
		semantic: semantic,
		keyword:  NewKeywordEncoder(cfg.Dimensions),
		logger:   logger,
	}
}

// Encode возвращает вектор текста и признак деградированного режима.
func (en *Encoder) Encode(ctx context.Context, text string) (*usecase.EncodedQuery, error) {
	if strings.TrimSpace(text) == "" {
		return nil, e.ErrEmptyQuery
	}

	if en.semantic != nil {
		vector, err := en.semantic.Encode(ctx, text)
		if err == nil {
			return usecase.NewEncodedQuery(vector, false), nil
		}
		en.logger.Warnf("Semantic encoding failed, falling back to keywords: %v", err)
	}

	return usecase.NewEncodedQuery(en.keyword.Encode(text), true), nil
}
