package http

import (
	"net/http"
	"strings"
	"time"

	"github.com/DRSN-tech/pix-shop-bot/internal/domain"
	"github.com/DRSN-tech/pix-shop-bot/internal/usecase"
	"github.com/DRSN-tech/pix-shop-bot/pkg/e"
	"github.com/DRSN-tech/pix-shop-bot/pkg/logger"
	"github.com/go-chi/chi/v5"
)

type ProductResponse struct {
	ID          string `json:"id"`
	ChannelID   string `json:"channelId"`
	Name        string `json:"name"`
	Price       string `json:"price"`
	Description string `json:"description"`
	ImageURL    string `json:"imageUrl"`
}

type OrderResponse struct {
	ID          string     `json:"id"`
	ProductID   string     `json:"productId"`
	ProductName string     `json:"productName"`
	Price       string     `json:"price"`
	BuyerID     string     `json:"buyerId"`
	ChannelID   string     `json:"channelId"`
	Status      string     `json:"status"`
	CreatedAt   time.Time  `json:"createdAt"`
	PaidAt      *time.Time `json:"paidAt,omitempty"`
}

func NewProductResponse(p *domain.Product) ProductResponse {
	return ProductResponse{
		ID:          p.ID,
		ChannelID:   p.ChannelID,
		Name:        p.Name,
		Price:       p.Price.StringFixed(2),
		Description: p.Description,
		ImageURL:    p.ImageURL,
	}
}

func NewOrderResponse(o *domain.Order) OrderResponse {
	return OrderResponse{
		ID:          o.ID,
		ProductID:   o.ProductID,
		ProductName: o.ProductName,
		Price:       o.Price.StringFixed(2),
		BuyerID:     o.BuyerID,
		ChannelID:   o.ChannelID,
		Status:      string(o.Status),
		CreatedAt:   o.CreatedAt,
		PaidAt:      o.PaidAt,
	}
}

type StoreHandler struct {
	catalogUC usecase.CatalogUC
	orderUC   usecase.OrderUC
	logger    logger.Logger
}

func NewStoreHandler(catalogUC usecase.CatalogUC, orderUC usecase.OrderUC, logger logger.Logger) *StoreHandler {
	return &StoreHandler{catalogUC: catalogUC, orderUC: orderUC, logger: logger}
}

// listProducts отдаёт активный каталог канала в порядке хранения.
func (h *StoreHandler) listProducts(w http.ResponseWriter, r *http.Request) {
	channelID := strings.TrimSpace(chi.URLParam(r, "channelID"))
	if channelID == "" {
		WriteError(w, e.ErrMissingFields)
		return
	}

	products, err := h.catalogUC.ListActive(r.Context(), channelID)
	if err != nil {
		h.logger.Errorf(err, "failed to list products of channel %s", channelID)
		WriteError(w, err)
		return
	}

	res := make([]ProductResponse, 0, len(products))
	for i := range products {
		res = append(res, NewProductResponse(&products[i]))
	}

	WriteSuccess(w, http.StatusOK, map[string]interface{}{
		"products": res,
	})
}

func (h *StoreHandler) getOrder(w http.ResponseWriter, r *http.Request) {
	orderID := strings.TrimSpace(chi.URLParam(r, "orderID"))

	order, err := h.orderUC.Get(r.Context(), orderID)
	if err != nil {
		h.logger.Warnf("order %s: %s", orderID, err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, NewOrderResponse(order))
}
