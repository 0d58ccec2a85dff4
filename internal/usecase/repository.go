package usecase

import (
	"context"

	"github.com/harmonia-tech/mt-backend/internal/domain"
)

type IndexRepository interface {
	Search(ctx context.Context, vector []float32, bucket domain.DurationBucket, topK int) ([]domain.SearchResult, error)
	Reload(ctx context.Context) error
	Stats(ctx context.Context) (*IndexStatsRes, error)
}

type CacheRepository interface {
	GetRecommendation(ctx context.Context, key string) (*RecommendMusicRes, error)
	SetRecommendation(ctx context.Context, key string, res *RecommendMusicRes) error
}

type SessionRepository interface {
	SaveSession(ctx context.Context, session *TherapySession) error
}

type SegmentRepository interface {
	ResolveURL(ctx context.Context, segmentID string, bucket domain.DurationBucket) (string, error)
}
