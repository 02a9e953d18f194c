package discord

import (
	"fmt"
	"strings"
	"time"

	"github.com/DRSN-tech/pix-shop-bot/internal/domain"
	"github.com/bwmarrin/discordgo"
)

const (
	maxSelectOptions = 25
	maxOptionText    = 100
	colorStore       = 0x2ecc71
	noProductsValue  = "none"
)

const helpText = "**How to buy**\n" +
	"1. Press **🛒 Buy** on the store panel and pick a product.\n" +
	"2. Add more products or press **✅ Checkout**.\n" +
	"3. Confirm the order: a private ticket with the PIX details is created.\n" +
	"4. Pay, then press **I have paid** in the ticket. An admin will verify and deliver.\n\n" +
	"**Commands**\n" +
	"`/product list` lists the products of this channel.\n" +
	"`/buy name` opens a ticket for a single product.\n" +
	"Admins: `/panel`, `/pix`, `/product add`, `/product remove`, `/confirm`."

func button(label, emoji string, style discordgo.ButtonStyle, token domain.ActionToken) discordgo.Button {
	b := discordgo.Button{Label: label, Style: style, CustomID: token.Encode()}
	if emoji != "" {
		b.Emoji = &discordgo.ComponentEmoji{Name: emoji}
	}

	return b
}

// panelMessage — витрина канала с кнопками выбора товара и просмотра корзины.
func panelMessage(title, description, footer, imageURL string) *discordgo.InteractionResponseData {
	embed := &discordgo.MessageEmbed{
		Title:       title,
		Description: description,
		Color:       colorStore,
	}
	if footer != "" {
		embed.Footer = &discordgo.MessageEmbedFooter{Text: footer}
	}
	if imageURL != "" {
		embed.Image = &discordgo.MessageEmbedImage{URL: imageURL}
	}

	return &discordgo.InteractionResponseData{
		Embeds: []*discordgo.MessageEmbed{embed},
		Components: []discordgo.MessageComponent{
			discordgo.ActionsRow{Components: []discordgo.MessageComponent{
				button("Buy", "🛒", discordgo.SuccessButton, domain.NewActionToken(domain.ActionOpenMenu, "", "")),
				button("View cart", "🧾", discordgo.SecondaryButton, domain.NewActionToken(domain.ActionViewCart, "", "")),
			}},
		},
	}
}

// productMenu — выпадающий список активных товаров канала. Без товаров меню выключено.
func productMenu(products []domain.Product, ownerID, scopeID string) *discordgo.InteractionResponseData {
	menu := discordgo.SelectMenu{
		MenuType: discordgo.StringSelectMenu,
		CustomID: domain.NewActionToken(domain.ActionAddToCart, ownerID, scopeID).Encode(),
	}

	content := "Select a product (this channel only):"
	if len(products) == 0 {
		content = "No products in this channel."
		menu.Placeholder = "No products available"
		menu.Disabled = true
		menu.Options = []discordgo.SelectMenuOption{{Label: "No products", Value: noProductsValue}}
	} else {
		menu.Placeholder = "Choose a product"
		for _, p := range products {
			if len(menu.Options) == maxSelectOptions {
				break
			}
			menu.Options = append(menu.Options, discordgo.SelectMenuOption{
				Label:       truncate(p.Name, maxOptionText),
				Value:       p.ID,
				Description: truncate(optionDescription(p), maxOptionText),
			})
		}
	}

	return &discordgo.InteractionResponseData{
		Content:    content,
		Flags:      discordgo.MessageFlagsEphemeral,
		Components: []discordgo.MessageComponent{discordgo.ActionsRow{Components: []discordgo.MessageComponent{menu}}},
	}
}

func optionDescription(p domain.Product) string {
	price := domain.FormatBRL(p.Price)
	if p.Description == "" {
		return price
	}

	return price + " · " + p.Description
}

// cartMessage — содержимое корзины с кнопками "ещё", "очистить" и "оформить".
func cartMessage(content string, summary *domain.CartSummary, imageURL, ownerID, scopeID string) *discordgo.InteractionResponseData {
	embed := &discordgo.MessageEmbed{
		Title:       "Cart",
		Description: summary.Text(),
		Color:       colorStore,
	}
	if imageURL != "" {
		embed.Thumbnail = &discordgo.MessageEmbedThumbnail{URL: imageURL}
	}

	checkout := button("Checkout", "✅", discordgo.SuccessButton, domain.NewActionToken(domain.ActionCheckout, ownerID, scopeID))
	checkout.Disabled = summary.IsEmpty()

	return &discordgo.InteractionResponseData{
		Content: content,
		Flags:   discordgo.MessageFlagsEphemeral,
		Embeds:  []*discordgo.MessageEmbed{embed},
		Components: []discordgo.MessageComponent{
			discordgo.ActionsRow{Components: []discordgo.MessageComponent{
				button("Add more", "➕", discordgo.PrimaryButton, domain.NewActionToken(domain.ActionAddMore, ownerID, scopeID)),
				button("Clear cart", "🗑️", discordgo.DangerButton, domain.NewActionToken(domain.ActionClearCart, ownerID, scopeID)),
				checkout,
			}},
		},
	}
}

// reviewMessage — итог заказа перед созданием тикета.
func reviewMessage(summary *domain.CartSummary, ownerID, scopeID string) *discordgo.InteractionResponseData {
	return &discordgo.InteractionResponseData{
		Content: "✅ Review order",
		Flags:   discordgo.MessageFlagsEphemeral,
		Embeds: []*discordgo.MessageEmbed{{
			Title:       "Order summary",
			Description: summary.Text(),
			Color:       colorStore,
		}},
		Components: []discordgo.MessageComponent{
			discordgo.ActionsRow{Components: []discordgo.MessageComponent{
				button("Confirm", "✅", discordgo.SuccessButton, domain.NewActionToken(domain.ActionConfirmOrder, ownerID, scopeID)),
				button("Cancel", "✖️", discordgo.SecondaryButton, domain.NewActionToken(domain.ActionCancelOrder, ownerID, scopeID)),
			}},
		},
	}
}

// closingMessage объявляет удаление тикета и предлагает его отменить.
func closingMessage(ownerID string, delay time.Duration) *discordgo.InteractionResponseData {
	return &discordgo.InteractionResponseData{
		Content: fmt.Sprintf("🔒 Closing ticket in %d seconds...", int(delay.Round(time.Second).Seconds())),
		Components: []discordgo.MessageComponent{
			discordgo.ActionsRow{Components: []discordgo.MessageComponent{
				button("Keep open", "🔓", discordgo.SecondaryButton, domain.NewActionToken(domain.ActionKeepOpen, ownerID, "")),
			}},
		},
	}
}

func paidMessage(adminRoleID string) *discordgo.InteractionResponseData {
	return &discordgo.InteractionResponseData{
		Content:         fmt.Sprintf("✅ Payment signaled! <@&%s> please verify and deliver.", adminRoleID),
		AllowedMentions: &discordgo.MessageAllowedMentions{Roles: []string{adminRoleID}},
	}
}

// productList — список активных товаров канала для /product list.
func productList(products []domain.Product) *discordgo.InteractionResponseData {
	if len(products) == 0 {
		return ephemeral("No products in this channel.")
	}

	var b strings.Builder
	for _, p := range products {
		fmt.Fprintf(&b, "• **%s** — %s\n`%s`\n", p.Name, domain.FormatBRL(p.Price), p.ID)
	}

	return &discordgo.InteractionResponseData{
		Flags: discordgo.MessageFlagsEphemeral,
		Embeds: []*discordgo.MessageEmbed{{
			Title:       "📦 Products in this channel",
			Description: b.String(),
			Color:       colorStore,
		}},
	}
}

func productAdded(p *domain.Product) *discordgo.InteractionResponseData {
	return ephemeral(fmt.Sprintf("✅ Product added: **%s** — %s (`%s`)", p.Name, domain.FormatBRL(p.Price), p.ID))
}

func orderCreated(order *domain.Order, channelID string) *discordgo.InteractionResponseData {
	return ephemeral(fmt.Sprintf("✅ Order `%s` created: <#%s>", order.ID, channelID))
}
