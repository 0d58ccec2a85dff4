package converter

import (
	"encoding/json"

	"github.com/harmonia-tech/mt-backend/internal/usecase"
)

// SessionConverter преобразует сеанс терапии между usecase и моделями PostgreSQL.
type SessionConverter interface {
	ToModel(session *usecase.TherapySession) (*SessionModel, []SessionResultModel, error)
}

type sessionConverter struct{}

func NewSessionConverter() SessionConverter {
	return sessionConverter{}
}

func (sessionConverter) ToModel(session *usecase.TherapySession) (*SessionModel, []SessionResultModel, error) {
	params, err := json.Marshal(session.Parameters)
	if err != nil {
		return nil, nil, err
	}

	var ruleKey *string
	if session.RuleKey != "" {
		ruleKey = &session.RuleKey
	}

	model := &SessionModel{
		ID:            session.ID,
		EmotionVector: session.EmotionVector,
		Source:        session.Source,
		RuleKey:       ruleKey,
		Parameters:    params,
		QueryText:     session.QueryText,
		Duration:      session.Duration,
		CreatedAt:     session.CreatedAt,
	}

	results := make([]SessionResultModel, 0, len(session.Segments))
	for i, seg := range session.Segments {
		var url *string
		if seg.URL != "" {
			u := seg.URL
			url = &u
		}

		results = append(results, SessionResultModel{
			SessionID: session.ID,
			Rank:      i + 1,
			SegmentID: seg.ID,
			Score:     seg.Score,
			URL:       url,
		})
	}

	return model, results, nil
}
