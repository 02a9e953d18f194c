package app

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	config "github.com/DRSN-tech/pix-shop-bot/internal/cfg"
	v1Discord "github.com/DRSN-tech/pix-shop-bot/internal/delivery/v1/discord"
	v1Grpc "github.com/DRSN-tech/pix-shop-bot/internal/delivery/v1/grpc"
	v1Http "github.com/DRSN-tech/pix-shop-bot/internal/delivery/v1/http"
	"github.com/DRSN-tech/pix-shop-bot/internal/infrastructure"
	discordInfra "github.com/DRSN-tech/pix-shop-bot/internal/infrastructure/discord"
	"github.com/DRSN-tech/pix-shop-bot/internal/infrastructure/kafka"
	minioInfra "github.com/DRSN-tech/pix-shop-bot/internal/infrastructure/minio"
	"github.com/DRSN-tech/pix-shop-bot/internal/infrastructure/scheduler"
	"github.com/DRSN-tech/pix-shop-bot/internal/repository/document"
	"github.com/DRSN-tech/pix-shop-bot/internal/repository/document/converter"
	"github.com/DRSN-tech/pix-shop-bot/internal/repository/memory"
	s3Repo "github.com/DRSN-tech/pix-shop-bot/internal/repository/minio"
	"github.com/DRSN-tech/pix-shop-bot/internal/repository/redis"
	"github.com/DRSN-tech/pix-shop-bot/internal/usecase"
	"github.com/DRSN-tech/pix-shop-bot/pkg/clients"
	"github.com/DRSN-tech/pix-shop-bot/pkg/closer"
	"github.com/DRSN-tech/pix-shop-bot/pkg/e"
	"github.com/DRSN-tech/pix-shop-bot/pkg/logger"
	"github.com/DRSN-tech/pix-shop-bot/pkg/postgres"
	"github.com/go-chi/chi/v5"
	"github.com/jimlawless/whereami"
)

const (
	startupTimeout  = 30 * time.Second
	shutdownTimeout = 15 * time.Second
	mirrorTimeout   = 30 * time.Second
)

// App собирает зависимости бота и управляет их жизненным циклом.
type App struct {
	cfg    *config.Config
	logger logger.Logger
	closer *closer.Closer

	scheduler *scheduler.Scheduler
	bot       *v1Discord.Bot
	grpcSrv   *v1Grpc.GRPCServer
	httpSrv   *v1Http.Server
}

func NewApp(cfg *config.Config, logger logger.Logger) (*App, error) {
	a := &App{
		cfg:       cfg,
		logger:    logger,
		closer:    closer.NewCloser(0),
		scheduler: scheduler.New(),
	}

	ctx, cancel := context.WithTimeout(context.Background(), startupTimeout)
	defer cancel()

	if err := a.init(ctx); err != nil {
		// уже открытые подключения закрываются в обратном порядке
		if closeErr := a.closer.Close(context.Background()); closeErr != nil {
			logger.Warnf("cleanup after failed start: %v", closeErr)
		}
		return nil, err
	}

	return a, nil
}

func (a *App) init(ctx context.Context) error {
	store, err := a.initStore(ctx)
	if err != nil {
		return err
	}

	carts, err := a.initCartStore(ctx)
	if err != nil {
		return err
	}

	mirror, err := a.initImageMirror(ctx)
	if err != nil {
		return err
	}

	publisher := a.initPublisher()

	session, err := v1Discord.NewSession(a.cfg.Discord)
	if err != nil {
		return err
	}
	platform := discordInfra.NewPlatform(session, a.cfg.Discord.GuildID, a.logger)

	conv := converter.NewDocumentConverter()
	productRepo := document.NewProductRepo(store, conv)
	paymentRepo := document.NewPaymentRepo(store, conv)
	orderRepo := document.NewOrderRepo(store, conv)
	ticketRepo := memory.NewTicketRepo()

	settings := usecase.TicketSettings{
		SalesCategoryID: a.cfg.Discord.SalesCategoryID,
		AdminRoleID:     a.cfg.Discord.AdminRoleID,
		NamePrefix:      a.cfg.Ticket.NamePrefix,
		CloseDelay:      a.cfg.Ticket.CloseDelay,
	}

	mediaUC := usecase.NewMediaUC(mirror, a.logger)
	catalogUC := usecase.NewCatalogUC(productRepo, mediaUC, a.logger)
	paymentUC := usecase.NewPaymentUC(paymentRepo, mediaUC, a.logger)
	cartUC := usecase.NewCartUC(carts, productRepo, a.logger)
	ticketUC := usecase.NewTicketUC(cartUC, paymentRepo, ticketRepo, platform, a.scheduler, publisher, settings, a.logger)
	orderUC := usecase.NewOrderUC(productRepo, orderRepo, paymentRepo, ticketRepo, platform, publisher, settings, a.logger)

	handler := v1Discord.NewHandler(catalogUC, paymentUC, cartUC, ticketUC, orderUC, mediaUC, v1Discord.Settings{
		AdminRoleID: a.cfg.Discord.AdminRoleID,
		Timeout:     a.cfg.Ticket.CommandTimeout,
	}, a.logger)
	a.bot = v1Discord.NewBot(session, handler, a.cfg.Discord, a.logger)

	a.grpcSrv = v1Grpc.NewGRPCServer(a.cfg.Grpc, a.logger)
	a.grpcSrv.RegisterServices()

	r := chi.NewRouter()
	router := v1Http.NewRouter(r, a.logger)
	router.Init(catalogUC, orderUC)
	a.httpSrv = v1Http.NewServer(r, a.cfg.Http)

	return nil
}

// initStore выбирает хранилище документа: JSON-файл или строку таблицы documents.
func (a *App) initStore(ctx context.Context) (document.Store, error) {
	if a.cfg.Store.Driver != config.StoreDriverPostgres {
		a.logger.Infof("document store: file %s", a.cfg.Store.Path)
		return document.NewFileStore(a.cfg.Store.Path, a.logger), nil
	}

	db, err := postgres.Connect(ctx, a.cfg.Db)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	a.closer.AddFunc("postgres", db.Pool.Close)

	if err := db.RunMigrations(a.logger); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	a.logger.Infof("document store: postgres, document %q", a.cfg.Store.DocumentName)
	return document.NewPgStore(db.Pool, a.cfg.Store.DocumentName), nil
}

// initCartStore хранит корзины в Redis, если он настроен, иначе в памяти процесса.
func (a *App) initCartStore(ctx context.Context) (usecase.CartStore, error) {
	if a.cfg.Redis == nil {
		a.logger.Infof("cart store: memory")
		return memory.NewCartStore(), nil
	}

	client := clients.NewRedisClient(a.cfg.Redis)
	a.closer.Add("redis", client.Close)

	if err := client.Ping(ctx); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	a.logger.Infof("cart store: redis %s, ttl %s", a.cfg.Redis.Addr, a.cfg.Redis.CartTTL)
	return redis.NewCartStore(client, a.cfg.Redis, a.logger), nil
}

// initImageMirror возвращает nil, если MinIO не настроен: тогда хранятся исходные ссылки Discord.
func (a *App) initImageMirror(ctx context.Context) (usecase.ImageMirror, error) {
	if a.cfg.Minio == nil {
		return nil, nil
	}

	minioClient, err := clients.NewMinIOClient(a.cfg.Minio)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	if err := clients.EnsureBucket(ctx, minioClient, a.cfg.Minio.BucketName); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	imageRepo := s3Repo.NewImageRepo(minioClient, a.cfg.Minio)
	a.logger.Infof("image mirror: minio %s/%s", a.cfg.Minio.MinioEndpoint, a.cfg.Minio.BucketName)

	return minioInfra.NewMinioInfrastructure(imageRepo, a.cfg.Minio, &http.Client{Timeout: mirrorTimeout}, a.logger), nil
}

// initPublisher публикует события в Kafka, если она настроена, иначе только в лог.
func (a *App) initPublisher() usecase.EventPublisher {
	if a.cfg.Kafka == nil {
		return infrastructure.NewLogPublisher(a.logger)
	}

	producer := kafka.NewProducer(a.logger, a.cfg.Kafka)
	a.closer.Add("kafka producer", producer.Close)
	a.logger.Infof("event publisher: kafka topic %s", a.cfg.Kafka.Topic)

	return producer
}

// Run открывает сессию Discord, запускает серверы и ждёт сигнала остановки.
func (a *App) Run() error {
	startCtx, startCancel := context.WithTimeout(context.Background(), startupTimeout)
	err := a.bot.Start(startCtx)
	startCancel()
	if err != nil {
		a.logger.Errorf(err, "failed to start discord bot")
		a.shutdown()
		return err
	}
	a.closer.Add("discord", a.bot.Close)
	// отложенные удаления тикетов выполняются до закрытия сессии
	a.closer.Add("ticket scheduler", a.scheduler.Stop)

	grpcErrCh := make(chan error, 1)
	go func() {
		a.logger.Infof("gRPC server starting on %s:%s", a.cfg.Grpc.NetworkMode, a.cfg.Grpc.Port)
		if err := a.grpcSrv.Start(); err != nil {
			grpcErrCh <- err
		}
	}()
	a.closer.Add("grpc", a.grpcSrv.Stop)

	errCh := make(chan error, 1)
	go func() {
		a.logger.Infof("HTTP server started on port %s", a.cfg.Http.Port)
		if err := a.httpSrv.Run(); err != nil {
			errCh <- err
		}
	}()
	a.closer.Add("http", a.httpSrv.Stop)

	a.grpcSrv.SetServing(true)

	// === Ожидание сигнала или ошибки ===
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(shutdown)

	var appErr error
	select {
	case appErr = <-errCh:
		a.logger.Errorf(appErr, "HTTP server fatal error")
	case appErr = <-grpcErrCh:
		a.logger.Errorf(appErr, "gRPC server fatal error")
	case <-shutdown:
		a.logger.Infof("Received shutdown signal, stopping gracefully...")
	}

	a.grpcSrv.SetServing(false)
	a.shutdown()

	return appErr
}

func (a *App) shutdown() {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := a.closer.Close(ctx); err != nil {
		a.logger.Errorf(err, "shutdown finished with errors")
		return
	}

	a.logger.Infof("Application shutdown complete")
}
