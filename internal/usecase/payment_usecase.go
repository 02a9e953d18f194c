package usecase

import (
	"context"
	"strings"

	"github.com/DRSN-tech/pix-shop-bot/internal/domain"
	"github.com/DRSN-tech/pix-shop-bot/pkg/e"
	"github.com/DRSN-tech/pix-shop-bot/pkg/logger"
)

const pixImagesFolder = "pix"

type PaymentUseCase struct {
	paymentRepo PaymentRepository
	media       MediaUC
	logger      logger.Logger
}

func NewPaymentUC(paymentRepo PaymentRepository, media MediaUC, logger logger.Logger) *PaymentUseCase {
	return &PaymentUseCase{paymentRepo: paymentRepo, media: media, logger: logger}
}

// SetPix полностью заменяет настройки PIX. Ключ, имя и город обязательны.
func (p *PaymentUseCase) SetPix(ctx context.Context, req *SetPixReq) (domain.PixConfig, error) {
	const op = "PaymentUseCase.SetPix"

	pix := domain.PixConfig{
		Key:  strings.TrimSpace(req.Key),
		Name: strings.TrimSpace(req.Name),
		City: strings.TrimSpace(req.City),
	}
	if !pix.IsComplete() {
		return domain.PixConfig{}, e.Wrap(op, e.ErrMissingFields)
	}
	pix.QRURL = p.media.Persist(ctx, req.QRURL, pixImagesFolder)

	if err := p.paymentRepo.Set(ctx, pix); err != nil {
		return domain.PixConfig{}, e.Wrap(op, err)
	}

	p.logger.Infof("pix settings updated")
	return pix, nil
}

func (p *PaymentUseCase) GetPix(ctx context.Context) (domain.PixConfig, error) {
	const op = "PaymentUseCase.GetPix"

	pix, err := p.paymentRepo.Get(ctx)
	if err != nil {
		return domain.PixConfig{}, e.Wrap(op, err)
	}

	return pix, nil
}
