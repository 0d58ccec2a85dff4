package usecase

import "context"

type TherapyUC interface {
	RecommendMusic(ctx context.Context, req *RecommendMusicReq) (*RecommendMusicRes, error)
	GetTherapyParameters(ctx context.Context, req *TherapyParametersReq) (*TherapyParametersRes, error)
	SearchSegments(ctx context.Context, req *SearchSegmentsReq) (*SearchSegmentsRes, error)
	IndexStats(ctx context.Context) (*IndexStatsRes, error)
	ReloadIndex(ctx context.Context) error
}
