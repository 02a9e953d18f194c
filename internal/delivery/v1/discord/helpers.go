package discord

import (
	"errors"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/DRSN-tech/pix-shop-bot/pkg/e"
	"github.com/bwmarrin/discordgo"
)

const genericFailure = "Something went wrong. Check the bot logs."

// userMessages сопоставляет ошибки сценариев с текстом для пользователя.
// Порядок важен: ошибки внешних зависимостей оборачивают исходную ошибку.
var userMessages = []struct {
	err  error
	text string
}{
	{e.ErrTicketChannelCreate, "Could not create the ticket channel. Please try again later."},
	{e.ErrTicketMessageSend, "Could not post the payment instructions. Please try again later."},
	{e.ErrAdminOnly, "Only admins can use this."},
	{e.ErrNotForYou, "This is not for you."},
	{e.ErrWrongChannel, "This belongs to another channel."},
	{e.ErrNotTicketOwner, "Only the ticket owner can do this."},
	{e.ErrCannotCloseTicket, "You cannot close this ticket."},
	{e.ErrCannotReopenTicket, "You cannot keep this ticket open."},
	{e.ErrPixNotConfigured, "PIX not configured. An admin must use `/pix`."},
	{e.ErrEmptyCart, "Your cart is empty."},
	{e.ErrTicketCategoryMissing, "Ticket category is not configured."},
	{e.ErrProductNotFound, "Product not found in this channel."},
	{e.ErrOrderNotFound, "Order not found."},
	{e.ErrOrderAlreadyPaid, "Order already paid."},
	{e.ErrTicketClosing, "This ticket is already closing."},
	{e.ErrTicketNotClosing, "This ticket is not closing."},
	{e.ErrProductNameRequired, "Product name is required."},
	{e.ErrInvalidPrice, "Invalid price. Use a value like 19.90."},
	{e.ErrPricePrecision, "Price must have at most 2 decimal places."},
	{e.ErrMissingFields, "Key, name and city are required."},
	{e.ErrInvalidActionToken, "This action is no longer valid."},
}

// userMessage возвращает текст ошибки для пользователя. known = false для внутренних ошибок.
func userMessage(err error) (text string, known bool) {
	for _, m := range userMessages {
		if errors.Is(err, m.err) {
			return m.text, true
		}
	}

	return genericFailure, false
}

// isAdmin — право Administrator или роль администраторов магазина.
func isAdmin(member *discordgo.Member, adminRoleID string) bool {
	if member == nil {
		return false
	}

	return member.Permissions&discordgo.PermissionAdministrator != 0 || slices.Contains(member.Roles, adminRoleID)
}

// actor возвращает пользователя, вызвавшего взаимодействие.
func actor(i *discordgo.Interaction) *discordgo.User {
	if i.Member != nil && i.Member.User != nil {
		return i.Member.User
	}
	if i.User != nil {
		return i.User
	}

	return &discordgo.User{}
}

type commandOptions map[string]*discordgo.ApplicationCommandInteractionDataOption

func newCommandOptions(opts []*discordgo.ApplicationCommandInteractionDataOption) commandOptions {
	m := make(commandOptions, len(opts))
	for _, opt := range opts {
		m[opt.Name] = opt
	}

	return m
}

func (o commandOptions) String(name string) string {
	opt, ok := o[name]
	if !ok {
		return ""
	}

	return strings.TrimSpace(opt.StringValue())
}

// AttachmentURL возвращает URL вложения из опции name.
func (o commandOptions) AttachmentURL(name string, data discordgo.ApplicationCommandInteractionData) string {
	opt, ok := o[name]
	if !ok || data.Resolved == nil {
		return ""
	}

	id, _ := opt.Value.(string)
	if att, ok := data.Resolved.Attachments[id]; ok && att != nil {
		return att.URL
	}

	return ""
}

func truncate(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}

	runes := []rune(s)
	return string(runes[:max-1]) + "…"
}
