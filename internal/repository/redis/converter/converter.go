package converter

import (
	"github.com/harmonia-tech/mt-backend/internal/domain"
	"github.com/harmonia-tech/mt-backend/internal/usecase"
)

type RecommendationConverter interface {
	ToRedisModel(res *usecase.RecommendMusicRes) *RecommendationRedisModel
	ToUseCase(model *RecommendationRedisModel) *usecase.RecommendMusicRes
}

type recommendationConverter struct{}

func NewRecommendationConverter() RecommendationConverter {
	return recommendationConverter{}
}

func (recommendationConverter) ToRedisModel(res *usecase.RecommendMusicRes) *RecommendationRedisModel {
	return &RecommendationRedisModel{
		SessionID:     res.SessionID,
		Source:        res.Source,
		RuleKey:       res.RuleKey,
		RuleName:      res.RuleName,
		MatchStrength: res.MatchStrength,
		Parameters:    res.Parameters,
		Tags:          res.Tags,
		QueryText:     res.QueryText,
		Analysis:      res.Analysis,
		Therapy:       res.Therapy,
		Duration:      res.Duration,
		Segments:      res.Segments,
		QueryOrigin:   string(res.QueryOrigin),
		Degraded:      res.Degraded,
		SearchError:   res.SearchError,
		ClippedValues: res.ClippedValues,
	}
}

func (recommendationConverter) ToUseCase(model *RecommendationRedisModel) *usecase.RecommendMusicRes {
	return &usecase.RecommendMusicRes{
		SessionID:     model.SessionID,
		Source:        model.Source,
		RuleKey:       model.RuleKey,
		RuleName:      model.RuleName,
		MatchStrength: model.MatchStrength,
		Parameters:    model.Parameters,
		Tags:          model.Tags,
		QueryText:     model.QueryText,
		Analysis:      model.Analysis,
		Therapy:       model.Therapy,
		Duration:      model.Duration,
		Segments:      model.Segments,
		QueryOrigin:   domain.QueryOrigin(model.QueryOrigin),
		Degraded:      model.Degraded,
		SearchError:   model.SearchError,
		ClippedValues: model.ClippedValues,
	}
}
