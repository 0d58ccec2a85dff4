package converter

import "time"

// SessionModel представляет запись таблицы sessions в PostgreSQL.
type SessionModel struct {
	ID            string    `db:"id"`
	EmotionVector []float64 `db:"emotion_vector"`
	Source        string    `db:"source"`
	RuleKey       *string   `db:"rule_key"`
	Parameters    []byte    `db:"parameters"`
	QueryText     string    `db:"query_text"`
	Duration      string    `db:"duration"`
	CreatedAt     time.Time `db:"created_at"`
}

// SessionResultModel представляет запись таблицы session_results в PostgreSQL.
type SessionResultModel struct {
	SessionID string  `db:"session_id"`
	Rank      int     `db:"rank"`
	SegmentID string  `db:"segment_id"`
	Score     float64 `db:"score"`
	URL       *string `db:"url"`
}
