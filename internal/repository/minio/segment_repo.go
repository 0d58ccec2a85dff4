package minio

import (
	"context"
	"fmt"
	"net/url"

	"github.com/jimlawless/whereami"
	"github.com/minio/minio-go/v7"

	"github.com/harmonia-tech/mt-backend/internal/cfg"
	"github.com/harmonia-tech/mt-backend/internal/domain"
	"github.com/harmonia-tech/mt-backend/pkg/e"
)

// SegmentRepo выдаёт ссылки на аудио-сегменты библиотеки в MinIO.
// Объекты лежат по ключам segments_<bucket>/<id>.mp4 и наполняются
// внешним пайплайном подготовки библиотеки.
type SegmentRepo struct {
	mc  *minio.Client
	cfg *cfg.MinIOCfg
}

func NewSegmentRepo(mc *minio.Client, cfg *cfg.MinIOCfg) *SegmentRepo {
	return &SegmentRepo{
		mc:  mc,
		cfg: cfg,
	}
}

// ResolveURL возвращает ссылку на сегмент: публичный CDN-адрес, если он
// сконфигурирован, иначе presigned-ссылку с ограниченным временем жизни.
func (s *SegmentRepo) ResolveURL(ctx context.Context, segmentID string, bucket domain.DurationBucket) (string, error) {
	key := objectKey(segmentID, bucket)

	if s.cfg.PublicBaseURL != "" {
		return fmt.Sprintf("%s/%s", s.cfg.PublicBaseURL, key), nil
	}

	presigned, err := s.mc.PresignedGetObject(ctx, s.cfg.BucketName, key, s.cfg.URLTTL, url.Values{})
	if err != nil {
		return "", e.Wrap(whereami.WhereAmI(), e.ErrSegmentNotResolved)
	}

	return presigned.String(), nil
}

func objectKey(segmentID string, bucket domain.DurationBucket) string {
	return fmt.Sprintf("segments_%s/%s.mp4", bucket, segmentID)
}
