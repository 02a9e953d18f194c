package discord

import (
	"context"

	"github.com/DRSN-tech/pix-shop-bot/pkg/e"
	"github.com/bwmarrin/discordgo"
)

// Responder — часть discordgo.Session, которой отвечают на взаимодействия.
type Responder interface {
	InteractionRespond(interaction *discordgo.Interaction, resp *discordgo.InteractionResponse, options ...discordgo.RequestOption) error
	InteractionResponseEdit(interaction *discordgo.Interaction, newresp *discordgo.WebhookEdit, options ...discordgo.RequestOption) (*discordgo.Message, error)
	FollowupMessageCreate(interaction *discordgo.Interaction, wait bool, data *discordgo.WebhookParams, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

var _ Responder = (*discordgo.Session)(nil)

type replyState int

const (
	replyNone replyState = iota
	replyDeferredMessage
	replyDeferredUpdate
	replySent
)

// reply отслеживает, отвечали ли уже на взаимодействие, и выбирает нужный вызов API.
type reply struct {
	ctx   context.Context
	r     Responder
	i     *discordgo.Interaction
	state replyState
}

func newReply(ctx context.Context, r Responder, i *discordgo.Interaction) *reply {
	return &reply{ctx: ctx, r: r, i: i}
}

func (rp *reply) respond(typ discordgo.InteractionResponseType, data *discordgo.InteractionResponseData) error {
	const op = "reply.respond"

	err := rp.r.InteractionRespond(rp.i, &discordgo.InteractionResponse{Type: typ, Data: data}, discordgo.WithContext(rp.ctx))
	if err != nil {
		return e.Wrap(op, err)
	}

	return nil
}

// deferMessage подтверждает взаимодействие, ответ придёт позже через edit.
func (rp *reply) deferMessage(ephemeral bool) error {
	data := &discordgo.InteractionResponseData{}
	if ephemeral {
		data.Flags = discordgo.MessageFlagsEphemeral
	}
	if err := rp.respond(discordgo.InteractionResponseDeferredChannelMessageWithSource, data); err != nil {
		return err
	}

	rp.state = replyDeferredMessage
	return nil
}

// deferUpdate подтверждает нажатие, исходное сообщение будет изменено позже через edit.
func (rp *reply) deferUpdate() error {
	if err := rp.respond(discordgo.InteractionResponseDeferredMessageUpdate, nil); err != nil {
		return err
	}

	rp.state = replyDeferredUpdate
	return nil
}

// message отправляет новое сообщение в ответ на взаимодействие.
func (rp *reply) message(data *discordgo.InteractionResponseData) error {
	if rp.state == replyDeferredMessage {
		return rp.edit(data)
	}
	if err := rp.respond(discordgo.InteractionResponseChannelMessageWithSource, data); err != nil {
		return err
	}

	rp.state = replySent
	return nil
}

// update заменяет сообщение, на компоненте которого произошло взаимодействие.
func (rp *reply) update(data *discordgo.InteractionResponseData) error {
	if rp.state == replyDeferredUpdate || rp.state == replyDeferredMessage {
		return rp.edit(data)
	}
	if err := rp.respond(discordgo.InteractionResponseUpdateMessage, data); err != nil {
		return err
	}

	rp.state = replySent
	return nil
}

func (rp *reply) edit(data *discordgo.InteractionResponseData) error {
	const op = "reply.edit"

	content := data.Content
	embeds := data.Embeds
	if embeds == nil {
		embeds = []*discordgo.MessageEmbed{}
	}
	components := data.Components
	if components == nil {
		components = []discordgo.MessageComponent{}
	}

	_, err := rp.r.InteractionResponseEdit(rp.i, &discordgo.WebhookEdit{
		Content:         &content,
		Embeds:          &embeds,
		Components:      &components,
		AllowedMentions: data.AllowedMentions,
	}, discordgo.WithContext(rp.ctx))
	if err != nil {
		return e.Wrap(op, err)
	}

	rp.state = replySent
	return nil
}

// fail сообщает пользователю об ошибке, видимой только ему.
func (rp *reply) fail(text string) error {
	const op = "reply.fail"

	switch rp.state {
	case replyDeferredMessage:
		return rp.edit(&discordgo.InteractionResponseData{Content: "❌ " + text})
	case replyDeferredUpdate, replySent:
		_, err := rp.r.FollowupMessageCreate(rp.i, false, &discordgo.WebhookParams{
			Content: "❌ " + text,
			Flags:   discordgo.MessageFlagsEphemeral,
		}, discordgo.WithContext(rp.ctx))
		if err != nil {
			return e.Wrap(op, err)
		}
		return nil
	default:
		return rp.message(ephemeral("❌ " + text))
	}
}

func ephemeral(content string) *discordgo.InteractionResponseData {
	return &discordgo.InteractionResponseData{Content: content, Flags: discordgo.MessageFlagsEphemeral}
}

// cleared заменяет сообщение текстом без встраиваний и компонентов.
func cleared(content string) *discordgo.InteractionResponseData {
	return &discordgo.InteractionResponseData{
		Content:    content,
		Embeds:     []*discordgo.MessageEmbed{},
		Components: []discordgo.MessageComponent{},
	}
}
