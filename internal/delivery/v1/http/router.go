package http

import (
	"github.com/DRSN-tech/pix-shop-bot/internal/usecase"
	"github.com/DRSN-tech/pix-shop-bot/pkg/logger"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

type Router struct {
	router *chi.Mux
	logger logger.Logger
}

func NewRouter(router *chi.Mux, logger logger.Logger) *Router {
	return &Router{router: router, logger: logger}
}

// Init регистрирует маршруты API для операторов магазина. Все маршруты только на чтение.
func (r *Router) Init(catalogUC usecase.CatalogUC, orderUC usecase.OrderUC) {
	r.router.Use(middleware.RequestID, middleware.Recoverer)

	r.router.Get("/healthz", healthz)

	r.router.Route("/api/v1", func(v1 chi.Router) {
		storeHandler := NewStoreHandler(catalogUC, orderUC, r.logger)
		registerStoreRoutes(v1, storeHandler)
	})
}

func registerStoreRoutes(router chi.Router, h *StoreHandler) {
	router.Get("/channels/{channelID}/products", h.listProducts)
	router.Get("/orders/{orderID}", h.getOrder)
}
