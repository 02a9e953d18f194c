package discord

import "github.com/bwmarrin/discordgo"

const (
	cmdPanel   = "panel"
	cmdPix     = "pix"
	cmdProduct = "product"
	cmdBuy     = "buy"
	cmdConfirm = "confirm"
	cmdHelp    = "help"

	subAdd    = "add"
	subList   = "list"
	subRemove = "remove"
)

var adminPermission int64 = discordgo.PermissionAdministrator

// Commands возвращает описание слэш-команд бота для регистрации на сервере.
func Commands() []*discordgo.ApplicationCommand {
	return []*discordgo.ApplicationCommand{
		{
			Name:                     cmdPanel,
			Description:              "Post the store panel in this channel",
			DefaultMemberPermissions: &adminPermission,
			Options: []*discordgo.ApplicationCommandOption{
				stringOption("title", "Panel title", true),
				stringOption("description", "Panel description", true),
				stringOption("footer", "Panel footer", false),
				attachmentOption("image", "Panel image"),
			},
		},
		{
			Name:                     cmdPix,
			Description:              "Set the PIX payment details",
			DefaultMemberPermissions: &adminPermission,
			Options: []*discordgo.ApplicationCommandOption{
				stringOption("key", "PIX key", true),
				stringOption("name", "Recipient name", true),
				stringOption("city", "Recipient city", true),
				attachmentOption("qr", "QR code image"),
			},
		},
		{
			Name:        cmdProduct,
			Description: "Manage the products of this channel",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        subAdd,
					Description: "Add a product to this channel (admin)",
					Options: []*discordgo.ApplicationCommandOption{
						stringOption("name", "Product name", true),
						stringOption("price", "Price, e.g. 19.90", true),
						stringOption("description", "Product description", false),
						attachmentOption("image", "Product image"),
						stringOption("delivery", "Content sent to the buyer after payment", false),
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        subList,
					Description: "List the products of this channel",
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        subRemove,
					Description: "Remove a product from this channel (admin)",
					Options: []*discordgo.ApplicationCommandOption{
						stringOption("id", "Product id", true),
					},
				},
			},
		},
		{
			Name:        cmdBuy,
			Description: "Buy a product of this channel",
			Options: []*discordgo.ApplicationCommandOption{
				stringOption("name", "Product name", true),
			},
		},
		{
			Name:                     cmdConfirm,
			Description:              "Confirm payment of an order",
			DefaultMemberPermissions: &adminPermission,
			Options: []*discordgo.ApplicationCommandOption{
				stringOption("order_id", "Order id", true),
			},
		},
		{
			Name:        cmdHelp,
			Description: "How to use the store",
		},
	}
}

func stringOption(name, description string, required bool) *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionString,
		Name:        name,
		Description: description,
		Required:    required,
	}
}

func attachmentOption(name, description string) *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionAttachment,
		Name:        name,
		Description: description,
	}
}
