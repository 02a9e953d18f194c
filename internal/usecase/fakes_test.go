package usecase_test

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
	"github.com/DRSN-tech/pix-shop-bot/pkg/logger"
	"github.com/stretchr/testify/require"
)

var errPlatform = errors.New("discord unavailable")

type fakePlatform struct {
	mu             sync.Mutex
	categoryExists bool
	createErr      error
	sendErr        error
	deliveryErr    error
	seq            int
	created        []*usecase.CreateTicketChannelReq
	instructions   map[string]*usecase.PaymentInstructions
	deliveries     map[string][]*usecase.DeliveryMessage
	deleted        []string
}

func newFakePlatform() *fakePlatform {
	return &fakePlatform{
		categoryExists: true,
		instructions:   make(map[string]*usecase.PaymentInstructions),
		deliveries:     make(map[string][]*usecase.DeliveryMessage),
	}
}

func (f *fakePlatform) CategoryExists(context.Context, string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.categoryExists, nil
}

func (f *fakePlatform) CreateTicketChannel(_ context.Context, req *usecase.CreateTicketChannelReq) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return "", f.createErr
	}
	f.seq++
	f.created = append(f.created, req)
	return fmt.Sprintf("T%d", f.seq), nil
}

func (f *fakePlatform) SendPaymentInstructions(_ context.Context, channelID string, msg *usecase.PaymentInstructions) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.sendErr != nil {
		return f.sendErr
	}
	f.instructions[channelID] = msg
	return nil
}

func (f *fakePlatform) SendDelivery(_ context.Context, channelID string, msg *usecase.DeliveryMessage) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.deliveryErr != nil {
		return f.deliveryErr
	}
	f.deliveries[channelID] = append(f.deliveries[channelID], msg)
	return nil
}

func (f *fakePlatform) DeleteChannel(_ context.Context, channelID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, channelID)
	return nil
}

func (f *fakePlatform) deletedChannels() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.deleted...)
}

type fakePublisher struct {
	mu     sync.Mutex
	events []*domain.Event
}

func (f *fakePublisher) Publish(_ context.Context, event *domain.Event) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, event)
	return nil
}

func (f *fakePublisher) types() []domain.EventType {
	f.mu.Lock()
	defer f.mu.Unlock()
	types := make([]domain.EventType, 0, len(f.events))
	for _, ev := range f.events {
		types = append(types, ev.Type)
	}
	return types
}

// failingOrderRepo отказывает в сохранении новых заказов.
type failingOrderRepo struct {
	usecase.OrderRepository
}

func (failingOrderRepo) Create(context.Context, *domain.Order) error {
	return errors.New("disk full")
}

type testEnv struct {
	products  *document.ProductRepo
	orders    usecase.OrderRepository
	payments  *document.PaymentRepo
	carts     *memory.CartStore
	tickets   *memory.TicketRepo
	platform  *fakePlatform
	publisher *fakePublisher
	scheduler *scheduler.Scheduler

	catalog *usecase.CatalogUseCase
	payment *usecase.PaymentUseCase
	cart    *usecase.CartUseCase
	ticket  *usecase.TicketUseCase
	order   *usecase.OrderUseCase
}

func newTestEnv(t *testing.T, closeDelay time.Duration, opts ...func(env *testEnv)) *testEnv {
	t.Helper()

	log := logger.NewNop()
	store := document.NewFileStore(filepath.Join(t.TempDir(), "db.json"), log)
	conv := converter.NewDocumentConverter()

	env := &testEnv{
		products:  document.NewProductRepo(store, conv),
		orders:    document.NewOrderRepo(store, conv),
		payments:  document.NewPaymentRepo(store, conv),
		carts:     memory.NewCartStore(),
		tickets:   memory.NewTicketRepo(),
		platform:  newFakePlatform(),
		publisher: &fakePublisher{},
		scheduler: scheduler.New(),
	}
	for _, opt := range opts {
		opt(env)
	}
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = env.scheduler.Stop(ctx)
	})

	settings := usecase.TicketSettings{
		SalesCategoryID: "sales",
		AdminRoleID:     "admins",
		NamePrefix:      "ticket-",
		CloseDelay:      closeDelay,
	}
	media := usecase.NewMediaUC(nil, log)

	env.catalog = usecase.NewCatalogUC(env.products, media, log)
	env.payment = usecase.NewPaymentUC(env.payments, media, log)
	env.cart = usecase.NewCartUC(env.carts, env.products, log)
	env.ticket = usecase.NewTicketUC(env.cart, env.payments, env.tickets, env.platform, env.scheduler, env.publisher, settings, log)
	env.order = usecase.NewOrderUC(env.products, env.orders, env.payments, env.tickets, env.platform, env.publisher, settings, log)

	return env
}

func (env *testEnv) configurePix(t *testing.T) {
	t.Helper()
	_, err := env.payment.SetPix(context.Background(), &usecase.SetPixReq{Key: "key@pix", Name: "Loja", City: "Sao Paulo"})
	require.NoError(t, err)
}

func (env *testEnv) addProduct(t *testing.T, channelID, name, price string) *domain.Product {
	t.Helper()
	p, err := env.catalog.AddProduct(context.Background(), &usecase.AddProductReq{ChannelID: channelID, Name: name, Price: price})
	require.NoError(t, err)
	return p
}
