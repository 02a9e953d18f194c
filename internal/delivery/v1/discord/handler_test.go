package discord

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/DRSN-tech/pix-shop-bot/internal/domain"
	"github.com/DRSN-tech/pix-shop-bot/internal/infrastructure/scheduler"
	"github.com/DRSN-tech/pix-shop-bot/internal/repository/document"
	"github.com/DRSN-tech/pix-shop-bot/internal/repository/document/converter"
	"github.com/DRSN-tech/pix-shop-bot/internal/repository/memory"
	"github.com/DRSN-tech/pix-shop-bot/internal/usecase"
	"github.com/DRSN-tech/pix-shop-bot/pkg/e"
	"github.com/DRSN-tech/pix-shop-bot/pkg/logger"
	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeResponder struct {
	mu        sync.Mutex
	responses []*discordgo.InteractionResponse
	edits     []*discordgo.WebhookEdit
	followups []*discordgo.WebhookParams
}

func (f *fakeResponder) InteractionRespond(_ *discordgo.Interaction, resp *discordgo.InteractionResponse, _ ...discordgo.RequestOption) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.responses = append(f.responses, resp)
	return nil
}

func (f *fakeResponder) InteractionResponseEdit(_ *discordgo.Interaction, edit *discordgo.WebhookEdit, _ ...discordgo.RequestOption) (*discordgo.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.edits = append(f.edits, edit)
	return &discordgo.Message{}, nil
}

func (f *fakeResponder) FollowupMessageCreate(_ *discordgo.Interaction, _ bool, data *discordgo.WebhookParams, _ ...discordgo.RequestOption) (*discordgo.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.followups = append(f.followups, data)
	return &discordgo.Message{}, nil
}

func (f *fakeResponder) last(t *testing.T) *discordgo.InteractionResponse {
	t.Helper()
	require.NotEmpty(t, f.responses)
	return f.responses[len(f.responses)-1]
}

type stubPlatform struct {
	mu      sync.Mutex
	seq     int
	created []string
}

func (p *stubPlatform) CategoryExists(context.Context, string) (bool, error) { return true, nil }

func (p *stubPlatform) CreateTicketChannel(context.Context, *usecase.CreateTicketChannelReq) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.seq++
	id := fmt.Sprintf("T%d", p.seq)
	p.created = append(p.created, id)
	return id, nil
}

func (p *stubPlatform) SendPaymentInstructions(context.Context, string, *usecase.PaymentInstructions) error {
	return nil
}

func (p *stubPlatform) SendDelivery(context.Context, string, *usecase.DeliveryMessage) error {
	return nil
}

func (p *stubPlatform) DeleteChannel(context.Context, string) error { return nil }

type nopPublisher struct{}

func (nopPublisher) Publish(context.Context, *domain.Event) error { return nil }

type handlerEnv struct {
	handler  *Handler
	catalog  usecase.CatalogUC
	payment  usecase.PaymentUC
	cart     usecase.CartUC
	platform *stubPlatform
}

func newHandlerEnv(t *testing.T) *handlerEnv {
	t.Helper()

	log := logger.NewNop()
	store := document.NewFileStore(filepath.Join(t.TempDir(), "db.json"), log)
	conv := converter.NewDocumentConverter()
	products := document.NewProductRepo(store, conv)
	payments := document.NewPaymentRepo(store, conv)
	orders := document.NewOrderRepo(store, conv)
	tickets := memory.NewTicketRepo()
	sched := scheduler.New()
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = sched.Stop(ctx)
	})

	settings := usecase.TicketSettings{SalesCategoryID: "sales", AdminRoleID: "admins", NamePrefix: "ticket-", CloseDelay: time.Minute}
	platform := &stubPlatform{}
	media := usecase.NewMediaUC(nil, log)

	env := &handlerEnv{platform: platform}
	env.catalog = usecase.NewCatalogUC(products, media, log)
	env.payment = usecase.NewPaymentUC(payments, media, log)
	env.cart = usecase.NewCartUC(memory.NewCartStore(), products, log)
	ticketUC := usecase.NewTicketUC(env.cart, payments, tickets, platform, sched, nopPublisher{}, settings, log)
	orderUC := usecase.NewOrderUC(products, orders, payments, tickets, platform, nopPublisher{}, settings, log)

	env.handler = NewHandler(env.catalog, env.payment, env.cart, ticketUC, orderUC, media, Settings{AdminRoleID: "admins"}, log)
	return env
}

func (env *handlerEnv) addProduct(t *testing.T, channelID, name, price string) *domain.Product {
	t.Helper()
	p, err := env.catalog.AddProduct(context.Background(), &usecase.AddProductReq{ChannelID: channelID, Name: name, Price: price})
	require.NoError(t, err)
	return p
}

func member(userID string, roles ...string) *discordgo.Member {
	return &discordgo.Member{User: &discordgo.User{ID: userID, Username: "user-" + userID}, Roles: roles}
}

func component(userID, channelID, customID string, values ...string) *discordgo.Interaction {
	return &discordgo.Interaction{
		Type:      discordgo.InteractionMessageComponent,
		ChannelID: channelID,
		Member:    member(userID),
		Data:      discordgo.MessageComponentInteractionData{CustomID: customID, Values: values},
	}
}

func command(m *discordgo.Member, channelID, name string, opts ...*discordgo.ApplicationCommandInteractionDataOption) *discordgo.Interaction {
	return &discordgo.Interaction{
		Type:      discordgo.InteractionApplicationCommand,
		ChannelID: channelID,
		Member:    m,
		Data:      discordgo.ApplicationCommandInteractionData{Name: name, Options: opts},
	}
}

func strOpt(name, value string) *discordgo.ApplicationCommandInteractionDataOption {
	return &discordgo.ApplicationCommandInteractionDataOption{Name: name, Type: discordgo.ApplicationCommandOptionString, Value: value}
}

func TestHandle_ClearCartByAnotherUserIsRejected(t *testing.T) {
	env := newHandlerEnv(t)
	gift := env.addProduct(t, "C1", "Gift Card", "19.90")
	key := domain.NewCartKey("U1", "C1")
	_, err := env.cart.Add(context.Background(), key, gift.ID)
	require.NoError(t, err)

	r := &fakeResponder{}
	env.handler.Handle(r, component("U2", "C1", "clear_cart:U1:C1"))

	resp := r.last(t)
	assert.Equal(t, discordgo.InteractionResponseChannelMessageWithSource, resp.Type)
	assert.Equal(t, "❌ This is not for you.", resp.Data.Content)
	assert.Equal(t, discordgo.MessageFlagsEphemeral, resp.Data.Flags)

	summary, err := env.cart.Summarize(context.Background(), key)
	require.NoError(t, err)
	require.Len(t, summary.Lines, 1)
	assert.Equal(t, "19.90", summary.Total.StringFixed(2))
}

func TestHandle_ActionFromAnotherChannelIsRejected(t *testing.T) {
	env := newHandlerEnv(t)

	r := &fakeResponder{}
	env.handler.Handle(r, component("U1", "C2", "checkout:U1:C1"))

	assert.Equal(t, "❌ This belongs to another channel.", r.last(t).Data.Content)
}

func TestHandle_OpenMenuWithoutProducts(t *testing.T) {
	env := newHandlerEnv(t)

	r := &fakeResponder{}
	env.handler.Handle(r, component("U1", "C1", "open_menu"))

	resp := r.last(t)
	assert.Equal(t, "No products in this channel.", resp.Data.Content)
	require.Len(t, resp.Data.Components, 1)
	menu := resp.Data.Components[0].(discordgo.ActionsRow).Components[0].(discordgo.SelectMenu)
	assert.True(t, menu.Disabled)
	assert.Equal(t, "add_to_cart:U1:C1", menu.CustomID)
}

func TestHandle_AddToCartTwice(t *testing.T) {
	env := newHandlerEnv(t)
	gift := env.addProduct(t, "C1", "Gift Card", "19.90")
	env.addProduct(t, "C2", "Elsewhere", "5")

	r := &fakeResponder{}
	env.handler.Handle(r, component("U1", "C1", "open_menu"))
	menu := r.last(t).Data.Components[0].(discordgo.ActionsRow).Components[0].(discordgo.SelectMenu)
	require.Len(t, menu.Options, 1)
	assert.Equal(t, gift.ID, menu.Options[0].Value)

	env.handler.Handle(r, component("U1", "C1", menu.CustomID, gift.ID))
	env.handler.Handle(r, component("U1", "C1", menu.CustomID, gift.ID))

	resp := r.last(t)
	assert.Equal(t, discordgo.InteractionResponseUpdateMessage, resp.Type)
	assert.Equal(t, "🧾 Cart updated", resp.Data.Content)
	require.Len(t, resp.Data.Embeds, 1)
	assert.Contains(t, resp.Data.Embeds[0].Description, "Gift Card x2 — R$ 39.80")

	buttons := resp.Data.Components[0].(discordgo.ActionsRow).Components
	require.Len(t, buttons, 3)
	assert.False(t, buttons[2].(discordgo.Button).Disabled)
}

func TestHandle_CheckoutEmptyCart(t *testing.T) {
	env := newHandlerEnv(t)

	r := &fakeResponder{}
	env.handler.Handle(r, component("U1", "C1", "checkout:U1:C1"))

	assert.Equal(t, "❌ Your cart is empty.", r.last(t).Data.Content)
}

func TestHandle_ConfirmOrderWithoutPix(t *testing.T) {
	env := newHandlerEnv(t)
	gift := env.addProduct(t, "C1", "Gift Card", "19.90")
	_, err := env.cart.Add(context.Background(), domain.NewCartKey("U1", "C1"), gift.ID)
	require.NoError(t, err)

	r := &fakeResponder{}
	env.handler.Handle(r, component("U1", "C1", "confirm_order:U1:C1"))

	require.Len(t, r.responses, 1)
	assert.Equal(t, discordgo.InteractionResponseDeferredMessageUpdate, r.responses[0].Type)
	require.Len(t, r.followups, 1)
	assert.Contains(t, r.followups[0].Content, "PIX not configured")
	assert.Empty(t, env.platform.created)
}

func TestHandle_ConfirmOrderCreatesTicket(t *testing.T) {
	env := newHandlerEnv(t)
	gift := env.addProduct(t, "C1", "Gift Card", "19.90")
	_, err := env.payment.SetPix(context.Background(), &usecase.SetPixReq{Key: "key@pix", Name: "Loja", City: "SP"})
	require.NoError(t, err)
	_, err = env.cart.Add(context.Background(), domain.NewCartKey("U1", "C1"), gift.ID)
	require.NoError(t, err)

	r := &fakeResponder{}
	env.handler.Handle(r, component("U1", "C1", "confirm_order:U1:C1"))

	require.Len(t, r.edits, 1)
	assert.Equal(t, "✅ Ticket created: <#T1>", *r.edits[0].Content)
	assert.Empty(t, *r.edits[0].Components)

	summary, err := env.cart.Summarize(context.Background(), domain.NewCartKey("U1", "C1"))
	require.NoError(t, err)
	assert.True(t, summary.IsEmpty())
}

func TestHandle_AdminCommandsRequireAdmin(t *testing.T) {
	env := newHandlerEnv(t)

	r := &fakeResponder{}
	env.handler.Handle(r, command(member("U1"), "C1", cmdProduct, &discordgo.ApplicationCommandInteractionDataOption{
		Name:    subAdd,
		Type:    discordgo.ApplicationCommandOptionSubCommand,
		Options: []*discordgo.ApplicationCommandInteractionDataOption{strOpt("name", "Gift Card"), strOpt("price", "19.90")},
	}))
	assert.Equal(t, "❌ Only admins can use this.", r.last(t).Data.Content)

	products, err := env.catalog.ListActive(context.Background(), "C1")
	require.NoError(t, err)
	assert.Empty(t, products)
}

func TestHandle_ProductAddByAdminRole(t *testing.T) {
	env := newHandlerEnv(t)

	r := &fakeResponder{}
	env.handler.Handle(r, command(member("U1", "admins"), "C1", cmdProduct, &discordgo.ApplicationCommandInteractionDataOption{
		Name:    subAdd,
		Type:    discordgo.ApplicationCommandOptionSubCommand,
		Options: []*discordgo.ApplicationCommandInteractionDataOption{strOpt("name", "Gift Card"), strOpt("price", "19,90")},
	}))

	require.Len(t, r.edits, 1)
	assert.Contains(t, *r.edits[0].Content, "Gift Card")
	assert.Contains(t, *r.edits[0].Content, "R$ 19.90")

	products, err := env.catalog.ListActive(context.Background(), "C1")
	require.NoError(t, err)
	require.Len(t, products, 1)
}

func TestHandle_InvalidToken(t *testing.T) {
	env := newHandlerEnv(t)

	r := &fakeResponder{}
	env.handler.Handle(r, component("U1", "C1", "clear_cart:U1"))

	assert.Equal(t, "❌ This action is no longer valid.", r.last(t).Data.Content)
}

func TestUserMessage(t *testing.T) {
	tests := []struct {
		name  string
		err   error
		text  string
		known bool
	}{
		{"wrapped precondition", e.Wrap("op", e.ErrPixNotConfigured), "PIX not configured. An admin must use `/pix`.", true},
		{"external wraps cause", fmt.Errorf("%w: %w", e.ErrTicketChannelCreate, e.ErrProductNotFound), "Could not create the ticket channel. Please try again later.", true},
		{"unexpected", errors.New("boom"), genericFailure, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text, known := userMessage(tt.err)
			assert.Equal(t, tt.text, text)
			assert.Equal(t, tt.known, known)
		})
	}
}

func TestIsAdmin(t *testing.T) {
	assert.False(t, isAdmin(nil, "admins"))
	assert.False(t, isAdmin(member("U1"), "admins"))
	assert.True(t, isAdmin(member("U1", "admins"), "admins"))
	assert.True(t, isAdmin(&discordgo.Member{Permissions: discordgo.PermissionAdministrator}, "admins"))
}
