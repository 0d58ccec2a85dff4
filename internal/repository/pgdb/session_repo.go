package pgdb

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jimlawless/whereami"

	"github.com/harmonia-tech/mt-backend/internal/repository/pgdb/converter"
	"github.com/harmonia-tech/mt-backend/internal/usecase"
	"github.com/harmonia-tech/mt-backend/pkg/e"
	"github.com/harmonia-tech/mt-backend/pkg/tr"
)

// SessionRepo сохраняет сеансы терапии и их результаты в PostgreSQL.
type SessionRepo struct {
	pool *pgxpool.Pool
	conv converter.SessionConverter
}

func NewSessionRepo(pool *pgxpool.Pool, conv converter.SessionConverter) *SessionRepo {
	return &SessionRepo{
		pool: pool,
		conv: conv,
	}
}

// SaveSession пишет сеанс и его результаты в рамках транзакции из контекста.
// Повторный вызов с тем же ID перезаписывает сеанс и его результаты.
func (s *SessionRepo) SaveSession(ctx context.Context, session *usecase.TherapySession) error {
	tx, err := tr.TxFromCtx(ctx)
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	model, results, err := s.conv.ToModel(session)
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	sessionQuery := `
		INSERT INTO sessions (id, emotion_vector, source, rule_key, parameters, query_text, duration, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id)
		DO UPDATE SET
			emotion_vector = EXCLUDED.emotion_vector,
			source = EXCLUDED.source,
			rule_key = EXCLUDED.rule_key,
			parameters = EXCLUDED.parameters,
			query_text = EXCLUDED.query_text,
			duration = EXCLUDED.duration,
			created_at = EXCLUDED.created_at
	`

	_, err = tx.Exec(ctx, sessionQuery,
		model.ID, model.EmotionVector, model.Source, model.RuleKey,
		model.Parameters, model.QueryText, model.Duration, model.CreatedAt,
	)
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	if _, err = tx.Exec(ctx, `DELETE FROM session_results WHERE session_id = $1`, model.ID); err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	if len(results) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, res := range results {
		batch.Queue(
			`INSERT INTO session_results (session_id, rank, segment_id, score, url) VALUES ($1, $2, $3, $4, $5)`,
			res.SessionID, res.Rank, res.SegmentID, res.Score, res.URL,
		)
	}

	br := tx.SendBatch(ctx, batch)
	defer br.Close()

	for range results {
		if _, err := br.Exec(); err != nil {
			return e.Wrap(whereami.WhereAmI(), err)
		}
	}

	return nil
}
