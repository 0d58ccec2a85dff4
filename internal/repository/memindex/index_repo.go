// Package memindex реализует поисковый индекс по векторной библиотеке
// музыкальных сегментов, полностью размещённый в памяти. Снимок индекса
// неизменяем; перезагрузка строит новый снимок и атомарно подменяет его.
package memindex

import (
	"context"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync/atomic"
	"time"

	"github.com/sbinet/npyio"

	"github.com/harmonia-tech/mt-backend/internal/domain"
	"github.com/harmonia-tech/mt-backend/internal/usecase"
	"github.com/harmonia-tech/mt-backend/pkg/e"
	"github.com/harmonia-tech/mt-backend/pkg/logger"
)

// indexedRecord — запись библиотеки с предвычисленной нормой вектора.
type indexedRecord struct {
	domain.EmbeddingRecord
	norm float64
}

type snapshot struct {
	buckets  map[domain.DurationBucket][]indexedRecord
	total    int
	loadedAt time.Time
}

// IndexRepo хранит снимок библиотеки и обслуживает поиск по нему.
type IndexRepo struct {
	baseDir string
	logger  logger.Logger
	snap    atomic.Pointer[snapshot]
}

func NewIndexRepo(baseDir string, logger logger.Logger) *IndexRepo {
	return &IndexRepo{baseDir: baseDir, logger: logger}
}

// Reload читает все .npy файлы библиотеки и атомарно подменяет снимок.
// Запросы, идущие во время перезагрузки, обслуживаются старым снимком.
func (r *IndexRepo) Reload(ctx context.Context) error {
	const op = "IndexRepo.Reload"

	snap := &snapshot{
		buckets:  make(map[domain.DurationBucket][]indexedRecord),
		loadedAt: time.Now().UTC(),
	}

	for _, bucket := range domain.DurationBuckets() {
		if err := ctx.Err(); err != nil {
			return e.Wrap(op, err)
		}

		records, err := r.loadBucket(bucket)
		if err != nil {
			r.logger.Warnf("Failed to load bucket directory. bucket: %s, error: %v", bucket, err)
			continue
		}
		if len(records) == 0 {
			continue
		}

		snap.buckets[bucket] = records
		snap.total += len(records)
	}

	if snap.total == 0 {
		return e.Wrap(op, e.ErrNoValidRecords)
	}

	r.snap.Store(snap)
	r.logger.Infof("embedding index loaded. records: %d, buckets: %d", snap.total, len(snap.buckets))

	return nil
}

// Search возвращает topK ближайших записей корзины по косинусной близости,
// приведённой к [0, 1]. Сортировка устойчива: при равных оценках порядок
// записей соответствует порядку загрузки.
func (r *IndexRepo) Search(_ context.Context, vector []float32, bucket domain.DurationBucket, topK int) ([]domain.SearchResult, error) {
	const op = "IndexRepo.Search"

	if len(vector) != domain.EmbeddingDim {
		return nil, e.Wrap(op, e.ErrVectorDimension)
	}
	if topK <= 0 {
		return nil, e.Wrap(op, e.ErrInvalidTopK)
	}

	snap := r.snap.Load()
	if snap == nil {
		return nil, e.Wrap(op, e.ErrIndexUnavailable)
	}

	records, ok := snap.buckets[bucket]
	if !ok {
		return nil, e.Wrap(op, e.ErrIndexUnavailable)
	}

	queryNorm := norm(vector)

	results := make([]domain.SearchResult, 0, len(records))
	for _, rec := range records {
		results = append(results, domain.SearchResult{
			ID:     rec.ID,
			Score:  score(vector, queryNorm, rec),
			Bucket: bucket,
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	if topK < len(results) {
		results = results[:topK]
	}

	return results, nil
}

// Stats возвращает сводку по текущему снимку.
func (r *IndexRepo) Stats(_ context.Context) (*usecase.IndexStatsRes, error) {
	const op = "IndexRepo.Stats"

	snap := r.snap.Load()
	if snap == nil {
		return nil, e.Wrap(op, e.ErrIndexUnavailable)
	}

	buckets := make(map[domain.DurationBucket]int, len(snap.buckets))
	for bucket, records := range snap.buckets {
		buckets[bucket] = len(records)
	}

	return &usecase.IndexStatsRes{
		TotalRecords: snap.total,
		Buckets:      buckets,
		LoadedAt:     snap.loadedAt,
	}, nil
}

// loadBucket читает каталог features_<bucket>. Файлы с неподдерживаемым
// типом или неверной размерностью пропускаются с предупреждением.
func (r *IndexRepo) loadBucket(bucket domain.DurationBucket) ([]indexedRecord, error) {
	dir := filepath.Join(r.baseDir, "features_"+string(bucket))

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".npy") {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)

	records := make([]indexedRecord, 0, len(names))
	for _, name := range names {
		vector, err := readVector(filepath.Join(dir, name))
		if err != nil {
			r.logger.Warnf("Skipping embedding file. bucket: %s, file: %s, error: %v", bucket, name, err)
			continue
		}

		records = append(records, indexedRecord{
			EmbeddingRecord: domain.EmbeddingRecord{
				ID:     strings.TrimSuffix(name, ".npy"),
				Vector: vector,
				Bucket: bucket,
			},
			norm: norm(vector),
		})
	}

	return records, nil
}

// readVector читает один .npy файл и проверяет его размерность.
// Допустимы формы (768,) и (1, 768), типы float32 и float64.
func readVector(path string) ([]float32, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	rd, err := npyio.NewReader(f)
	if err != nil {
		return nil, err
	}

	size := 1
	for _, dim := range rd.Header.Descr.Shape {
		size *= dim
	}
	if size != domain.EmbeddingDim {
		return nil, e.ErrVectorDimension
	}

	switch {
	case strings.Contains(rd.Header.Descr.Type, "f4"):
		var data []float32
		if err := rd.Read(&data); err != nil {
			return nil, err
		}
		return data, nil

	case strings.Contains(rd.Header.Descr.Type, "f8"):
		var data []float64
		if err := rd.Read(&data); err != nil {
			return nil, err
		}
		vector := make([]float32, len(data))
		for i, v := range data {
			vector[i] = float32(v)
		}
		return vector, nil

	default:
		return nil, e.ErrNoValidRecords
	}
}

// score — косинусная близость, приведённая к [0, 1].
// Нулевой вектор с любой стороны даёт оценку 0.
func score(query []float32, queryNorm float64, rec indexedRecord) float64 {
	if queryNorm == 0 || rec.norm == 0 {
		return 0
	}

	var dot float64
	for i, q := range query {
		dot += float64(q) * float64(rec.Vector[i])
	}

	cos := dot / (queryNorm * rec.norm)
	return (cos + 1) / 2
}

func norm(vector []float32) float64 {
	var sum float64
	for _, v := range vector {
		sum += float64(v) * float64(v)
	}
	return math.Sqrt(sum)
}
