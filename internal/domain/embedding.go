package domain

import "github.com/harmonia-tech/mt-backend/pkg/e"

// EmbeddingDim — фиксированная размерность векторов библиотеки.
const EmbeddingDim = 768

// DurationBucket — категория длительности сегмента, разбивающая библиотеку
// на отдельно индексируемые части.
type DurationBucket string

const (
	Duration1Min  DurationBucket = "1min"
	Duration3Min  DurationBucket = "3min"
	Duration5Min  DurationBucket = "5min"
	Duration10Min DurationBucket = "10min"
	Duration20Min DurationBucket = "20min"
	Duration30Min DurationBucket = "30min"
)

// DurationBuckets возвращает все поддерживаемые категории длительности
// в порядке возрастания.
func DurationBuckets() []DurationBucket {
	return []DurationBucket{
		Duration1Min, Duration3Min, Duration5Min,
		Duration10Min, Duration20Min, Duration30Min,
	}
}

// ParseDurationBucket проверяет и приводит строку к категории длительности.
func ParseDurationBucket(s string) (DurationBucket, error) {
	for _, b := range DurationBuckets() {
		if string(b) == s {
			return b, nil
		}
	}
	return "", e.ErrUnknownDuration
}

// EmbeddingRecord — запись библиотеки: идентификатор сегмента и его вектор.
// Записи загружаются один раз и далее не изменяются.
type EmbeddingRecord struct {
	ID     string
	Vector []float32
	Bucket DurationBucket
}

// QueryOrigin описывает, каким способом получен поисковый вектор.
type QueryOrigin string

const (
	// QueryOriginVector — вектор передан вызывающей стороной напрямую.
	QueryOriginVector QueryOrigin = "vector"
	// QueryOriginSemantic — вектор получен от внешнего текстового энкодера.
	QueryOriginSemantic QueryOrigin = "semantic"
	// QueryOriginKeyword — деградированный режим: псевдо-вектор по ключевым словам.
	QueryOriginKeyword QueryOrigin = "keyword"
)

// SearchResult — один результат поиска по библиотеке.
type SearchResult struct {
	ID     string         `json:"id"`
	Score  float64        `json:"score"`
	Bucket DurationBucket `json:"duration"`
	URL    string         `json:"url,omitempty"`
}
