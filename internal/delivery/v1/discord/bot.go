package discord

import (
	"context"

	"github.com/DRSN-tech/pix-shop-bot/internal/cfg"
	"github.com/DRSN-tech/pix-shop-bot/pkg/e"
	"github.com/DRSN-tech/pix-shop-bot/pkg/logger"
	"github.com/bwmarrin/discordgo"
	"github.com/jimlawless/whereami"
)

// NewSession создаёт сессию бота. Соединение открывается в Bot.Start.
func NewSession(cfg *cfg.DiscordCfg) (*discordgo.Session, error) {
	s, err := discordgo.New("Bot " + cfg.Token)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	s.Identify.Intents = discordgo.IntentsGuilds

	return s, nil
}

// Bot связывает шлюз Discord с обработчиком взаимодействий.
type Bot struct {
	session *discordgo.Session
	handler *Handler
	cfg     *cfg.DiscordCfg
	log     logger.Logger
	remove  []func()
}

func NewBot(session *discordgo.Session, handler *Handler, cfg *cfg.DiscordCfg, log logger.Logger) *Bot {
	return &Bot{session: session, handler: handler, cfg: cfg, log: log}
}

// Start подписывается на события, открывает шлюз и при необходимости регистрирует команды.
func (b *Bot) Start(ctx context.Context) error {
	const op = "Bot.Start"

	b.remove = append(b.remove,
		b.session.AddHandler(func(s *discordgo.Session, r *discordgo.Ready) {
			b.log.Infof("discord session ready as %s", r.User.Username)
		}),
		b.session.AddHandler(func(s *discordgo.Session, ic *discordgo.InteractionCreate) {
			b.handler.Handle(s, ic.Interaction)
		}),
	)

	if err := b.session.Open(); err != nil {
		return e.Wrap(op, err)
	}

	if !b.cfg.RegisterCommands {
		return nil
	}

	cmds, err := b.session.ApplicationCommandBulkOverwrite(b.cfg.ApplicationID, b.cfg.GuildID, Commands(), discordgo.WithContext(ctx))
	if err != nil {
		return e.Wrap(op, err)
	}
	b.log.Infof("registered %d slash commands in guild %s", len(cmds), b.cfg.GuildID)

	return nil
}

// Close отписывает обработчики и закрывает шлюз.
func (b *Bot) Close(context.Context) error {
	const op = "Bot.Close"

	for _, remove := range b.remove {
		remove()
	}
	b.remove = nil

	if err := b.session.Close(); err != nil {
		return e.Wrap(op, err)
	}

	return nil
}
