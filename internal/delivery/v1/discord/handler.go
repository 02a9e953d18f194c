package discord

import (
	"context"
	"fmt"
	"time"

	"github.com/DRSN-tech/pix-shop-bot/internal/usecase"
	"github.com/DRSN-tech/pix-shop-bot/pkg/logger"
	"github.com/bwmarrin/discordgo"
)

const defaultTimeout = 15 * time.Second

// Settings — параметры обработки взаимодействий.
type Settings struct {
	AdminRoleID string
	Timeout     time.Duration // таймаут обработки одного взаимодействия
}

// Handler переводит слэш-команды и нажатия компонентов в вызовы сценариев.
type Handler struct {
	catalog  usecase.CatalogUC
	payment  usecase.PaymentUC
	cart     usecase.CartUC
	tickets  usecase.TicketUC
	orders   usecase.OrderUC
	media    usecase.MediaUC
	settings Settings
	log      logger.Logger
}

func NewHandler(
	catalog usecase.CatalogUC,
	payment usecase.PaymentUC,
	cart usecase.CartUC,
	tickets usecase.TicketUC,
	orders usecase.OrderUC,
	media usecase.MediaUC,
	settings Settings,
	log logger.Logger,
) *Handler {
	if settings.Timeout <= 0 {
		settings.Timeout = defaultTimeout
	}

	return &Handler{
		catalog:  catalog,
		payment:  payment,
		cart:     cart,
		tickets:  tickets,
		orders:   orders,
		media:    media,
		settings: settings,
		log:      log,
	}
}

// Handle обрабатывает одно взаимодействие. Ошибки и паники не покидают обработчик:
// пользователь получает сообщение об ошибке, видимое только ему.
func (h *Handler) Handle(r Responder, i *discordgo.Interaction) {
	ctx, cancel := context.WithTimeout(context.Background(), h.settings.Timeout)
	defer cancel()

	rp := newReply(ctx, r, i)
	log := h.log.With("interaction", interactionName(i), "user", actor(i).ID, "channel", i.ChannelID)

	defer func() {
		if rec := recover(); rec != nil {
			log.Errorf(fmt.Errorf("panic: %v", rec), "interaction panicked")
			if err := rp.fail(genericFailure); err != nil {
				log.Errorf(err, "failed to report panic to user")
			}
		}
	}()

	var err error
	switch i.Type {
	case discordgo.InteractionApplicationCommand:
		err = h.handleCommand(ctx, rp, i)
	case discordgo.InteractionMessageComponent:
		err = h.handleComponent(ctx, rp, i)
	default:
		return
	}

	if err == nil {
		return
	}

	text, known := userMessage(err)
	if known {
		log.Debugf("interaction rejected: %v", err)
	} else {
		log.Errorf(err, "interaction failed")
	}

	if err := rp.fail(text); err != nil {
		log.Errorf(err, "failed to report error to user")
	}
}

func interactionName(i *discordgo.Interaction) string {
	switch i.Type {
	case discordgo.InteractionApplicationCommand:
		return "/" + i.ApplicationCommandData().Name
	case discordgo.InteractionMessageComponent:
		return i.MessageComponentData().CustomID
	default:
		return i.Type.String()
	}
}

func (h *Handler) isAdmin(i *discordgo.Interaction) bool {
	return isAdmin(i.Member, h.settings.AdminRoleID)
}
