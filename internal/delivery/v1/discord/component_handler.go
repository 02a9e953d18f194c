package discord

import (
	"context"
	"fmt"

	"github.com/DRSN-tech/pix-shop-bot/internal/domain"
	"github.com/DRSN-tech/pix-shop-bot/internal/usecase"
	"github.com/DRSN-tech/pix-shop-bot/pkg/e"
	"github.com/bwmarrin/discordgo"
)

// handleComponent разбирает токен действия, проверяет владельца и канал и вызывает сценарий.
func (h *Handler) handleComponent(ctx context.Context, rp *reply, i *discordgo.Interaction) error {
	data := i.MessageComponentData()

	token, err := domain.ParseActionToken(data.CustomID)
	if err != nil {
		return err
	}

	user := actor(i)
	if token.RequiresScope() {
		if err := token.Authorize(user.ID, i.ChannelID); err != nil {
			return err
		}
	}

	key := domain.NewCartKey(user.ID, i.ChannelID)

	switch token.Action {
	case domain.ActionOpenMenu, domain.ActionAddMore:
		products, err := h.catalog.ListActive(ctx, i.ChannelID)
		if err != nil {
			return err
		}
		menu := productMenu(products, user.ID, i.ChannelID)
		if token.Action == domain.ActionAddMore {
			return rp.update(menu)
		}
		return rp.message(menu)

	case domain.ActionViewCart:
		summary, err := h.cart.Summarize(ctx, key)
		if err != nil {
			return err
		}
		return rp.message(cartMessage("🧾 **Your cart (this channel):**", summary, "", user.ID, i.ChannelID))

	case domain.ActionAddToCart:
		return h.addToCart(ctx, rp, key, data.Values)

	case domain.ActionClearCart:
		if err := h.cart.Clear(ctx, key); err != nil {
			return err
		}
		return rp.update(cleared("🗑️ Cart emptied."))

	case domain.ActionCheckout:
		summary, err := h.tickets.Review(ctx, key)
		if err != nil {
			return err
		}
		return rp.update(reviewMessage(summary, user.ID, i.ChannelID))

	case domain.ActionConfirmOrder:
		if err := rp.deferUpdate(); err != nil {
			return err
		}
		res, err := h.tickets.Checkout(ctx, &usecase.CheckoutReq{
			CustomerID: user.ID,
			Username:   user.Username,
			ScopeID:    i.ChannelID,
		})
		if err != nil {
			return err
		}
		return rp.update(cleared(fmt.Sprintf("✅ Ticket created: <#%s>", res.ChannelID)))

	case domain.ActionCancelOrder:
		return rp.update(cleared("Purchase cancelled."))

	case domain.ActionPaid:
		if err := h.tickets.MarkPaid(ctx, h.ticketAction(i, token)); err != nil {
			return err
		}
		return rp.message(paidMessage(h.settings.AdminRoleID))

	case domain.ActionClose:
		delay, err := h.tickets.Close(ctx, h.ticketAction(i, token))
		if err != nil {
			return err
		}
		return rp.message(closingMessage(token.OwnerID, delay))

	case domain.ActionKeepOpen:
		if err := h.tickets.KeepOpen(ctx, h.ticketAction(i, token)); err != nil {
			return err
		}
		return rp.update(cleared("🔓 Ticket kept open."))

	default:
		return e.Wrap(data.CustomID, e.ErrInvalidActionToken)
	}
}

func (h *Handler) addToCart(ctx context.Context, rp *reply, key domain.CartKey, values []string) error {
	if len(values) == 0 || values[0] == noProductsValue {
		return rp.message(ephemeral("Invalid product."))
	}

	res, err := h.cart.Add(ctx, key, values[0])
	if err != nil {
		return err
	}

	return rp.update(cartMessage("🧾 Cart updated", res.Summary, res.Product.ImageURL, key.CustomerID, key.ScopeID))
}

func (h *Handler) ticketAction(i *discordgo.Interaction, token domain.ActionToken) *usecase.TicketActionReq {
	return &usecase.TicketActionReq{
		ChannelID:    i.ChannelID,
		OwnerID:      token.OwnerID,
		ActorID:      actor(i).ID,
		ActorIsAdmin: h.isAdmin(i),
	}
}
