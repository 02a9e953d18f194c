package usecase

import (
	"context"
	"strings"

	"github.com/DRSN-tech/pix-shop-bot/pkg/logger"
)

// MediaUseCase сохраняет копии изображений, чтобы ссылки на вложения Discord не протухали.
type MediaUseCase struct {
	mirror ImageMirror // nil, если хранилище не настроено
	logger logger.Logger
}

func NewMediaUC(mirror ImageMirror, logger logger.Logger) *MediaUseCase {
	return &MediaUseCase{mirror: mirror, logger: logger}
}

// Persist возвращает постоянный URL изображения. При любой ошибке возвращается исходный URL.
func (m *MediaUseCase) Persist(ctx context.Context, url, folder string) string {
	const op = "MediaUseCase.Persist"

	url = strings.TrimSpace(url)
	if url == "" || m.mirror == nil {
		return url
	}

	mirrored, err := m.mirror.Mirror(ctx, NewMirrorImageReq(url, folder))
	if err != nil {
		m.logger.Warnf("%s: keeping original image url %s: %v", op, url, err)
		return url
	}

	return mirrored
}
