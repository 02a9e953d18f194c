package minio

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/DRSN-tech/pix-shop-bot/internal/cfg"
	"github.com/DRSN-tech/pix-shop-bot/internal/domain"
	"github.com/DRSN-tech/pix-shop-bot/internal/infrastructure"
	"github.com/DRSN-tech/pix-shop-bot/internal/usecase"
	"github.com/DRSN-tech/pix-shop-bot/pkg/e"
	"github.com/DRSN-tech/pix-shop-bot/pkg/jitter"
	"github.com/DRSN-tech/pix-shop-bot/pkg/logger"
)

const (
	uploadAttempts   = 3
	uploadBackoff    = 200 * time.Millisecond
	uploadMaxBackoff = 2 * time.Second
	downloadTimeout  = 15 * time.Second
)

// MinioInfrastructure копирует изображения из вложений Discord в MinIO.
type MinioInfrastructure struct {
	imageRepo  usecase.ImageRepository
	cfg        *cfg.MinIOCfg
	httpClient *http.Client
	logger     logger.Logger
}

func NewMinioInfrastructure(imageRepo usecase.ImageRepository, cfg *cfg.MinIOCfg, httpClient *http.Client, logger logger.Logger) *MinioInfrastructure {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: downloadTimeout}
	}

	return &MinioInfrastructure{
		imageRepo:  imageRepo,
		cfg:        cfg,
		httpClient: httpClient,
		logger:     logger,
	}
}

// Mirror скачивает изображение по req.URL, загружает его в бакет с повторами
// и возвращает публичный URL копии.
func (m *MinioInfrastructure) Mirror(ctx context.Context, req *usecase.MirrorImageReq) (string, error) {
	const op = "MinioInfrastructure.Mirror"

	data, mimeType, err := m.download(ctx, req.URL)
	if err != nil {
		return "", e.Wrap(op, err)
	}

	ext, err := infrastructure.GetExtensionFromMIME(mimeType)
	if err != nil {
		return "", e.Wrap(op, fmt.Errorf("invalid mime type %s for %s: %w", mimeType, req.URL, err))
	}

	// одинаковые картинки получают один и тот же ключ
	sum := sha256.Sum256(data)
	imageID := hex.EncodeToString(sum[:16])
	objKey := fmt.Sprintf("%s/%s.%s", req.Folder, imageID, ext)
	image := domain.NewImage(imageID, objKey, data, mimeType)

	var key string
	err = jitter.Retry(uploadAttempts, uploadBackoff, uploadMaxBackoff, ctx.Done(), func() error {
		var uploadErr error
		key, uploadErr = m.imageRepo.Upload(ctx, image)
		if uploadErr != nil {
			m.logger.Warnf("%s: upload %s failed: %v", op, objKey, uploadErr)
		}
		return uploadErr
	})
	if err != nil {
		return "", e.Wrap(op, err)
	}

	return m.publicURL(key), nil
}

// download читает не больше cfg.MaxImageSize байт. MIME-тип берётся из заголовка,
// а при его отсутствии определяется по содержимому.
func (m *MinioInfrastructure) download(ctx context.Context, url string) ([]byte, string, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, "", err
	}

	resp, err := m.httpClient.Do(httpReq)
	if err != nil {
		return nil, "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("unexpected status %d downloading %s", resp.StatusCode, url)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, m.cfg.MaxImageSize+1))
	if err != nil {
		return nil, "", err
	}
	if int64(len(data)) > m.cfg.MaxImageSize {
		return nil, "", e.ErrImageTooLarge
	}

	mimeType := resp.Header.Get("Content-Type")
	if mimeType == "" || mimeType == "application/octet-stream" {
		mimeType = http.DetectContentType(data)
	}

	return data, mimeType, nil
}

func (m *MinioInfrastructure) publicURL(key string) string {
	return strings.TrimRight(m.cfg.PublicBaseURL, "/") + "/" + m.cfg.BucketName + "/" + key
}
