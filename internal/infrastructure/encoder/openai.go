package encoder

import (
	"context"
	"fmt"
	"time"

	openaisdk "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/packages/param"

	"github.com/harmonia-tech/mt-backend/internal/cfg"
	"github.com/harmonia-tech/mt-backend/pkg/e"
	"github.com/harmonia-tech/mt-backend/pkg/jitter"
	"github.com/harmonia-tech/mt-backend/pkg/logger"
)

// SemanticEncoder получает векторы описаний от OpenAI embeddings API
// с retry-логикой и экспоненциальной задержкой.
type SemanticEncoder struct {
	sdk        openaisdk.Client
	model      string
	dimensions int
	maxRetries int
	logger     logger.Logger
}

func NewSemanticEncoder(cfg *cfg.EncoderCfg, logger logger.Logger) *SemanticEncoder {
	return &SemanticEncoder{
		sdk:        openaisdk.NewClient(option.WithAPIKey(cfg.APIKey)),
		model:      cfg.Model,
		dimensions: cfg.Dimensions,
		maxRetries: cfg.MaxRetries,
		logger:     logger,
	}
}

// Encode возвращает вектор текста запроса размерности из конфигурации.
func (s *SemanticEncoder) Encode(ctx context.Context, text string) ([]float32, error) {
	const (
		op         = "SemanticEncoder.Encode"
		baseJitter = 1 * time.Second
		maxJitter  = 15 * time.Second
	)

	for attempt := 0; attempt < s.maxRetries; attempt++ {
		vector, err := s.embed(ctx, text)
		if err == nil {
			return vector, nil
		}

		if attempt == s.maxRetries-1 {
			return nil, e.Wrap(op, fmt.Errorf("all %d attempts failed: %w", s.maxRetries, err))
		}

		sleepTime := jitter.ExponentialBackoff(
			baseJitter,
			maxJitter,
			attempt,
			jitter.DefaultJitter,
		)

		s.logger.Warnf("embedding request failed, retrying in %v (attempt %d)", sleepTime, attempt+1)
		select {
		case <-time.After(sleepTime):
		case <-ctx.Done():
			return nil, e.Wrap(op, ctx.Err())
		}
	}

	return nil, e.Wrap(op, fmt.Errorf("unreachable"))
}

func (s *SemanticEncoder) embed(ctx context.Context, text string) ([]float32, error) {
	resp, err := s.sdk.Embeddings.New(ctx, openaisdk.EmbeddingNewParams{
		Input: openaisdk.EmbeddingNewParamsInputUnion{
			OfString: param.NewOpt(text),
		},
		Model:      openaisdk.EmbeddingModel(s.model),
		Dimensions: param.NewOpt(int64(s.dimensions)),
	})
	if err != nil {
		return nil, err
	}

	if len(resp.Data) == 0 {
		return nil, e.ErrEncoderUnavailable
	}

	data := resp.Data[0].Embedding
	if len(data) != s.dimensions {
		return nil, e.ErrVectorDimension
	}

	vector := make([]float32, len(data))
	for i, v := range data {
		vector[i] = float32(v)
	}

	return vector, nil
}
