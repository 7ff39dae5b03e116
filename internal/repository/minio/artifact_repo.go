package minio

import (
	"bytes"
	"context"
	"net/url"
	"time"

	"github.com/jimlawless/whereami"
	"github.com/minio/minio-go/v7"
	"github.com/prodseal/go-backend/internal/cfg"
	"github.com/prodseal/go-backend/pkg/e"
)

// ArtifactRepo реализует низкоуровневое хранилище артефактов поверх MinIO.
type ArtifactRepo struct {
	mc  *minio.Client
	cfg *cfg.MinIOCfg
}

func NewArtifactRepo(mc *minio.Client, cfg *cfg.MinIOCfg) *ArtifactRepo {
	return &ArtifactRepo{
		mc:  mc,
		cfg: cfg,
	}
}

// Upload загружает артефакт и возвращает ключ объекта.
func (a *ArtifactRepo) Upload(ctx context.Context, objectKey, contentType string, data []byte) (string, error) {
	reader := bytes.NewReader(data)

	info, err := a.mc.PutObject(ctx, a.cfg.BucketName, objectKey, reader, int64(len(data)), minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", e.Wrap(whereami.WhereAmI(), err)
	}

	return info.Key, nil
}

// Delete удаляет объект по указанному ключу.
func (a *ArtifactRepo) Delete(ctx context.Context, key string) error {
	if err := a.mc.RemoveObject(ctx, a.cfg.BucketName, key, minio.RemoveObjectOptions{}); err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}

// PresignedGet возвращает временную подписанную ссылку на объект.
func (a *ArtifactRepo) PresignedGet(ctx context.Context, key string, expiry time.Duration) (string, error) {
	u, err := a.mc.PresignedGetObject(ctx, a.cfg.BucketName, key, expiry, url.Values{})
	if err != nil {
		return "", e.Wrap(whereami.WhereAmI(), err)
	}

	return u.String(), nil
}
