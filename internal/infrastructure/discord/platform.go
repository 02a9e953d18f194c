package discord

import (
	"context"
	"errors"
	"net/http"

	"github.com/DRSN-tech/pix-shop-bot/internal/usecase"
	"github.com/DRSN-tech/pix-shop-bot/pkg/e"
	"github.com/DRSN-tech/pix-shop-bot/pkg/logger"
	"github.com/bwmarrin/discordgo"
	"github.com/jimlawless/whereami"
)

// ticketMemberPermissions — права покупателя и администраторов в канале тикета.
const ticketMemberPermissions = discordgo.PermissionViewChannel |
	discordgo.PermissionSendMessages |
	discordgo.PermissionReadMessageHistory |
	discordgo.PermissionAttachFiles

// Platform реализует операции с каналами тикетов через Discord REST API.
type Platform struct {
	session Session
	guildID string
	logger  logger.Logger
}

func NewPlatform(session Session, guildID string, logger logger.Logger) *Platform {
	return &Platform{session: session, guildID: guildID, logger: logger}
}

// CategoryExists проверяет, что categoryID — категория каналов этого сервера.
func (p *Platform) CategoryExists(ctx context.Context, categoryID string) (bool, error) {
	ch, err := p.session.Channel(categoryID, discordgo.WithContext(ctx))
	if err != nil {
		if isNotFound(err) {
			return false, nil
		}
		return false, e.Wrap(whereami.WhereAmI(), err)
	}

	return ch.Type == discordgo.ChannelTypeGuildCategory && ch.GuildID == p.guildID, nil
}

// CreateTicketChannel создаёт текстовый канал, видимый только покупателю и роли администраторов.
func (p *Platform) CreateTicketChannel(ctx context.Context, req *usecase.CreateTicketChannelReq) (string, error) {
	data := discordgo.GuildChannelCreateData{
		Name:     req.Name,
		Type:     discordgo.ChannelTypeGuildText,
		ParentID: req.ParentID,
		Topic:    "Purchase ticket of <@" + req.OwnerID + ">",
		PermissionOverwrites: []*discordgo.PermissionOverwrite{
			{
				// ID роли @everyone совпадает с ID сервера
				ID:   p.guildID,
				Type: discordgo.PermissionOverwriteTypeRole,
				Deny: discordgo.PermissionViewChannel,
			},
			{
				ID:    req.OwnerID,
				Type:  discordgo.PermissionOverwriteTypeMember,
				Allow: ticketMemberPermissions,
			},
			{
				ID:    req.AdminRoleID,
				Type:  discordgo.PermissionOverwriteTypeRole,
				Allow: ticketMemberPermissions,
			},
		},
	}

	ch, err := p.session.GuildChannelCreateComplex(p.guildID, data, discordgo.WithContext(ctx))
	if err != nil {
		return "", e.Wrap(whereami.WhereAmI(), err)
	}

	return ch.ID, nil
}

func (p *Platform) SendPaymentInstructions(ctx context.Context, channelID string, msg *usecase.PaymentInstructions) error {
	if _, err := p.session.ChannelMessageSendComplex(channelID, PaymentMessage(msg), discordgo.WithContext(ctx)); err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}

func (p *Platform) SendDelivery(ctx context.Context, channelID string, msg *usecase.DeliveryMessage) error {
	if _, err := p.session.ChannelMessageSendComplex(channelID, DeliveryMessage(msg), discordgo.WithContext(ctx)); err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}

// DeleteChannel удаляет канал. Уже удалённый канал ошибкой не считается.
func (p *Platform) DeleteChannel(ctx context.Context, channelID string) error {
	if _, err := p.session.ChannelDelete(channelID, discordgo.WithContext(ctx)); err != nil {
		if isNotFound(err) {
			p.logger.Debugf("channel %s already deleted", channelID)
			return nil
		}
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}

func isNotFound(err error) bool {
	var restErr *discordgo.RESTError
	return errors.As(err, &restErr) && restErr.Response != nil && restErr.Response.StatusCode == http.StatusNotFound
}
