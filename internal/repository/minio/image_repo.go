package minio

import (
	"bytes"
	"context"

	"github.com/DRSN-tech/pix-shop-bot/internal/cfg"
	"github.com/DRSN-tech/pix-shop-bot/internal/domain"
	"github.com/DRSN-tech/pix-shop-bot/pkg/e"
	"github.com/minio/minio-go/v7"
)

const (
	cacheControl  = "public, max-age=31536000, immutable"
	imageIDHeader = "image-id"
	noSuchKey     = "NoSuchKey"
)

// ImageRepo хранит зеркала изображений каталога и панелей в бакете MinIO.
type ImageRepo struct {
	mc     *minio.Client
	bucket string
}

func NewImageRepo(mc *minio.Client, cfg *cfg.MinIOCfg) *ImageRepo {
	return &ImageRepo{
		mc:     mc,
		bucket: cfg.BucketName,
	}
}

// Upload кладёт изображение под image.ObjectKey. Ключ зависит от содержимого,
// поэтому уже существующий объект повторно не загружается.
func (i *ImageRepo) Upload(ctx context.Context, image *domain.Image) (string, error) {
	const op = "ImageRepo.Upload"

	exists, err := i.exists(ctx, image.ObjectKey)
	if err != nil {
		return "", e.Wrap(op, err)
	}
	if exists {
		return image.ObjectKey, nil
	}

	info, err := i.mc.PutObject(ctx, i.bucket, image.ObjectKey, bytes.NewReader(image.Bytes), image.Size, minio.PutObjectOptions{
		ContentType:  image.MimeType,
		CacheControl: cacheControl,
		UserMetadata: map[string]string{imageIDHeader: image.ID},
	})
	if err != nil {
		return "", e.Wrap(op, err)
	}

	return info.Key, nil
}

func (i *ImageRepo) exists(ctx context.Context, key string) (bool, error) {
	_, err := i.mc.StatObject(ctx, i.bucket, key, minio.StatObjectOptions{})
	if err == nil {
		return true, nil
	}
	if minio.ToErrorResponse(err).Code == noSuchKey {
		return false, nil
	}

	return false, err
}
