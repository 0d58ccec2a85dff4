package redis

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/jimlawless/whereami"
	r "github.com/redis/go-redis/v9"

	"github.com/harmonia-tech/mt-backend/internal/cfg"
	"github.com/harmonia-tech/mt-backend/internal/repository/redis/converter"
	"github.com/harmonia-tech/mt-backend/internal/usecase"
	"github.com/harmonia-tech/mt-backend/pkg/clients"
	"github.com/harmonia-tech/mt-backend/pkg/e"
	"github.com/harmonia-tech/mt-backend/pkg/logger"
)

// CacheRepo кэширует готовые рекомендации в Redis: вход детерминирован,
// поэтому одинаковые векторы дают одинаковые ответы до истечения TTL.
type CacheRepo struct {
	client *clients.RedisClient
	conv   converter.RecommendationConverter
	cfg    *cfg.RedisCfg
	logger logger.Logger
}

func NewCacheRepo(client *clients.RedisClient, conv converter.RecommendationConverter,
	cfg *cfg.RedisCfg, logger logger.Logger) *CacheRepo {
	return &CacheRepo{
		client: client,
		conv:   conv,
		cfg:    cfg,
		logger: logger,
	}
}

// GetRecommendation возвращает закэшированную рекомендацию по ключу.
// Отсутствие ключа отличимо от отказа Redis: первое — e.ErrCacheMiss.
func (c *CacheRepo) GetRecommendation(ctx context.Context, key string) (*usecase.RecommendMusicRes, error) {
	data, err := c.client.Client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, r.Nil) {
			return nil, e.ErrCacheMiss
		}
		c.logger.Warnf("Redis GET failed: %v", e.Wrap(whereami.WhereAmI(), err))
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	var model converter.RecommendationRedisModel
	if err := json.Unmarshal(data, &model); err != nil {
		c.logger.Warnf("Redis unmarshal failed: %v", e.Wrap(whereami.WhereAmI(), err))

		// Повреждённая запись удаляется, чтобы не мешать следующим запросам
		if delErr := c.client.Client.Del(context.Background(), key).Err(); delErr != nil {
			c.logger.Warnf("Redis DEL failed: %v", e.Wrap(whereami.WhereAmI(), delErr))
		}
		return nil, e.ErrCacheMiss
	}

	return c.conv.ToUseCase(&model), nil
}

// SetRecommendation кэширует рекомендацию с TTL из конфигурации.
func (c *CacheRepo) SetRecommendation(ctx context.Context, key string, res *usecase.RecommendMusicRes) error {
	data, err := json.Marshal(c.conv.ToRedisModel(res))
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	if err := c.client.Client.Set(ctx, key, data, c.cfg.RecommendationTTL).Err(); err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}
