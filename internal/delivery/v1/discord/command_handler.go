package discord

import (
	"context"
	"fmt"

	"github.com/DRSN-tech/pix-shop-bot/internal/usecase"
	"github.com/DRSN-tech/pix-shop-bot/pkg/e"
	"github.com/bwmarrin/discordgo"
)

const panelImageFolder = "panels"

func (h *Handler) handleCommand(ctx context.Context, rp *reply, i *discordgo.Interaction) error {
	data := i.ApplicationCommandData()

	switch data.Name {
	case cmdPanel:
		return h.panel(ctx, rp, i, data)
	case cmdPix:
		return h.setPix(ctx, rp, i, data)
	case cmdProduct:
		return h.product(ctx, rp, i, data)
	case cmdBuy:
		return h.buy(ctx, rp, i, data)
	case cmdConfirm:
		return h.confirm(ctx, rp, i, data)
	case cmdHelp:
		return rp.message(ephemeral(helpText))
	default:
		return e.Wrap(data.Name, e.ErrInvalidActionToken)
	}
}

func (h *Handler) panel(ctx context.Context, rp *reply, i *discordgo.Interaction, data discordgo.ApplicationCommandInteractionData) error {
	if !h.isAdmin(i) {
		return e.ErrAdminOnly
	}

	opts := newCommandOptions(data.Options)
	imageURL := opts.AttachmentURL("image", data)
	if imageURL != "" {
		if err := rp.deferMessage(false); err != nil {
			return err
		}
		imageURL = h.media.Persist(ctx, imageURL, panelImageFolder)
	}

	return rp.message(panelMessage(opts.String("title"), opts.String("description"), opts.String("footer"), imageURL))
}

func (h *Handler) setPix(ctx context.Context, rp *reply, i *discordgo.Interaction, data discordgo.ApplicationCommandInteractionData) error {
	if !h.isAdmin(i) {
		return e.ErrAdminOnly
	}
	if err := rp.deferMessage(true); err != nil {
		return err
	}

	opts := newCommandOptions(data.Options)
	pix, err := h.payment.SetPix(ctx, &usecase.SetPixReq{
		Key:   opts.String("key"),
		Name:  opts.String("name"),
		City:  opts.String("city"),
		QRURL: opts.AttachmentURL("qr", data),
	})
	if err != nil {
		return err
	}

	text := fmt.Sprintf("✅ PIX configured: `%s` (%s, %s)", pix.Key, pix.Name, pix.City)
	if pix.QRURL != "" {
		text += "\nQR code saved."
	}

	return rp.message(ephemeral(text))
}

func (h *Handler) product(ctx context.Context, rp *reply, i *discordgo.Interaction, data discordgo.ApplicationCommandInteractionData) error {
	if len(data.Options) == 0 {
		return e.Wrap(cmdProduct, e.ErrMissingFields)
	}

	sub := data.Options[0]
	opts := newCommandOptions(sub.Options)

	switch sub.Name {
	case subList:
		products, err := h.catalog.ListActive(ctx, i.ChannelID)
		if err != nil {
			return err
		}
		return rp.message(productList(products))

	case subAdd:
		if !h.isAdmin(i) {
			return e.ErrAdminOnly
		}
		if err := rp.deferMessage(true); err != nil {
			return err
		}

		p, err := h.catalog.AddProduct(ctx, &usecase.AddProductReq{
			ChannelID:   i.ChannelID,
			Name:        opts.String("name"),
			Price:       opts.String("price"),
			Description: opts.String("description"),
			ImageURL:    opts.AttachmentURL("image", data),
			Delivery:    opts.String("delivery"),
		})
		if err != nil {
			return err
		}
		return rp.message(productAdded(p))

	case subRemove:
		if !h.isAdmin(i) {
			return e.ErrAdminOnly
		}

		p, err := h.catalog.RemoveProduct(ctx, opts.String("id"), i.ChannelID)
		if err != nil {
			return err
		}
		return rp.message(ephemeral(fmt.Sprintf("🗑️ Product removed: **%s**", p.Name)))

	default:
		return e.Wrap(sub.Name, e.ErrInvalidActionToken)
	}
}

func (h *Handler) buy(ctx context.Context, rp *reply, i *discordgo.Interaction, data discordgo.ApplicationCommandInteractionData) error {
	if err := rp.deferMessage(true); err != nil {
		return err
	}

	user := actor(i)
	opts := newCommandOptions(data.Options)

	res, err := h.orders.Buy(ctx, &usecase.BuyReq{
		BuyerID:     user.ID,
		Username:    user.Username,
		ScopeID:     i.ChannelID,
		ProductName: opts.String("name"),
	})
	if err != nil {
		return err
	}

	return rp.message(orderCreated(res.Order, res.ChannelID))
}

func (h *Handler) confirm(ctx context.Context, rp *reply, i *discordgo.Interaction, data discordgo.ApplicationCommandInteractionData) error {
	if !h.isAdmin(i) {
		return e.ErrAdminOnly
	}
	if err := rp.deferMessage(true); err != nil {
		return err
	}

	opts := newCommandOptions(data.Options)
	order, err := h.orders.Confirm(ctx, opts.String("order_id"))
	if err != nil {
		return err
	}

	return rp.message(ephemeral(fmt.Sprintf("✅ Order `%s` confirmed: **%s** for <@%s>.", order.ID, order.ProductName, order.BuyerID)))
}
