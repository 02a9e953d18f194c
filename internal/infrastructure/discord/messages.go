package discord

import (
	"fmt"
	"strings"

	"github.com/DRSN-tech/pix-shop-bot/internal/domain"
	"github.com/DRSN-tech/pix-shop-bot/internal/usecase"
	"github.com/bwmarrin/discordgo"
)

const (
	ColorPayment  = 0x2ECC71
	ColorDelivery = 0x3498DB
)

// PaymentMessage — первое сообщение тикета: упоминание администраторов,
// состав заказа, реквизиты PIX и кнопки "I have paid" / "Close ticket".
func PaymentMessage(msg *usecase.PaymentInstructions) *discordgo.MessageSend {
	var b strings.Builder
	fmt.Fprintf(&b, "Hello <@%s>!\n\n", msg.OwnerID)
	fmt.Fprintf(&b, "**Items:**\n%s\n\n", msg.Summary.Text())
	b.WriteString("**PIX (copy and paste):**\n")
	fmt.Fprintf(&b, "• **Key:** `%s`\n", msg.Pix.Key)
	fmt.Fprintf(&b, "• **Name:** %s\n", msg.Pix.Name)
	fmt.Fprintf(&b, "• **City:** %s\n\n", msg.Pix.City)
	b.WriteString("📌 After paying, click **I have paid**.")

	embed := &discordgo.MessageEmbed{
		Title:       "💳 PIX payment",
		Description: b.String(),
		Color:       ColorPayment,
	}
	if msg.OrderID != "" {
		embed.Footer = &discordgo.MessageEmbedFooter{Text: "Order " + msg.OrderID}
	}
	if msg.Pix.QRURL != "" {
		embed.Image = &discordgo.MessageEmbedImage{URL: msg.Pix.QRURL}
	}

	return &discordgo.MessageSend{
		Content:    fmt.Sprintf("<@&%s> new order from <@%s>", msg.AdminRoleID, msg.OwnerID),
		Embeds:     []*discordgo.MessageEmbed{embed},
		Components: TicketButtons(msg.OwnerID),
		AllowedMentions: &discordgo.MessageAllowedMentions{
			Roles: []string{msg.AdminRoleID},
			Users: []string{msg.OwnerID},
		},
	}
}

// DeliveryMessage сообщает покупателю о подтверждении оплаты и передаёт содержимое товара.
func DeliveryMessage(msg *usecase.DeliveryMessage) *discordgo.MessageSend {
	content := "An admin will deliver your order here shortly."
	if msg.Content != "" {
		content = msg.Content
	}

	embed := &discordgo.MessageEmbed{
		Title:       "📦 Payment confirmed",
		Description: fmt.Sprintf("**%s**\n\n%s", msg.ProductName, content),
		Color:       ColorDelivery,
		Footer:      &discordgo.MessageEmbedFooter{Text: "Order " + msg.OrderID},
	}

	return &discordgo.MessageSend{
		Content: fmt.Sprintf("<@%s> your payment was confirmed!", msg.BuyerID),
		Embeds:  []*discordgo.MessageEmbed{embed},
		AllowedMentions: &discordgo.MessageAllowedMentions{
			Users: []string{msg.BuyerID},
		},
	}
}

// TicketButtons — кнопки тикета, привязанные к владельцу.
func TicketButtons(ownerID string) []discordgo.MessageComponent {
	return []discordgo.MessageComponent{
		discordgo.ActionsRow{Components: []discordgo.MessageComponent{
			discordgo.Button{
				CustomID: domain.NewActionToken(domain.ActionPaid, ownerID, "").Encode(),
				Label:    "I have paid",
				Style:    discordgo.SuccessButton,
				Emoji:    &discordgo.ComponentEmoji{Name: "💸"},
			},
			discordgo.Button{
				CustomID: domain.NewActionToken(domain.ActionClose, ownerID, "").Encode(),
				Label:    "Close ticket",
				Style:    discordgo.SecondaryButton,
				Emoji:    &discordgo.ComponentEmoji{Name: "🔒"},
			},
		}},
	}
}
