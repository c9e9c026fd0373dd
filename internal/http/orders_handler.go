package http

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/fjod/go_cart/storefront/internal/domain"
	"github.com/fjod/go_cart/storefront/internal/repository"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

const maxOrdersLimit = 100

type OrderReader interface {
	Orders(ctx context.Context, q repository.OrderQuery) ([]*domain.Order, error)
	GetOrder(ctx context.Context, id int64) (*domain.Order, error)
	MarkShipped(ctx context.Context, id int64) error
}

type OrdersHandler struct {
	orders  OrderReader
	timeout time.Duration
	logger  *zap.Logger
}

func NewOrdersHandler(orders OrderReader, timeout time.Duration, logger *zap.Logger) *OrdersHandler {
	return &OrdersHandler{
		orders:  orders,
		timeout: timeout,
		logger:  logger,
	}
}

type OrderResponseDTO struct {
	*domain.Order
	Total string `json:"total"`
}

// GET /api/v1/orders?shipped=&sort=&limit=&offset=
func (h *OrdersHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	q, ok := parseOrderQuery(w, r)
	if !ok {
		return
	}

	orders, err := h.orders.Orders(ctx, q)
	if err != nil {
		respondInternal(w, r, h.logger, "list orders", err)
		return
	}

	dtos := make([]OrderResponseDTO, 0, len(orders))
	for _, o := range orders {
		dtos = append(dtos, convertOrder(o))
	}
	respondJSON(w, http.StatusOK, dtos)
}

// GET /api/v1/orders/{order_id}
func (h *OrdersHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	id, ok := parseOrderID(w, r)
	if !ok {
		return
	}

	order, err := h.orders.GetOrder(ctx, id)
	if errors.Is(err, repository.ErrOrderNotFound) {
		respondError(w, http.StatusNotFound, "order_not_found", "order not found")
		return
	}
	if err != nil {
		respondInternal(w, r, h.logger, "get order", err)
		return
	}
	respondJSON(w, http.StatusOK, convertOrder(order))
}

// POST /api/v1/orders/{order_id}/ship
func (h *OrdersHandler) MarkShipped(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	id, ok := parseOrderID(w, r)
	if !ok {
		return
	}

	err := h.orders.MarkShipped(ctx, id)
	if errors.Is(err, repository.ErrOrderNotFound) {
		respondError(w, http.StatusNotFound, "order_not_found", "order not found")
		return
	}
	if err != nil {
		respondInternal(w, r, h.logger, "mark order shipped", err)
		return
	}
	h.logger.Info("order marked shipped", zap.Int64("order_id", id))
	w.WriteHeader(http.StatusNoContent)
}

func parseOrderID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "order_id"), 10, 64)
	if err != nil || id <= 0 {
		respondError(w, http.StatusBadRequest, "invalid_order_id", "order_id must be a positive integer")
		return 0, false
	}
	return id, true
}

func convertOrder(o *domain.Order) OrderResponseDTO {
	cart := domain.NewCart()
	for _, l := range o.Lines {
		cart.AddItem(l.Product, l.Quantity)
	}
	if o.Lines == nil {
		o.Lines = []domain.CartLine{}
	}
	return OrderResponseDTO{
		Order: o,
		Total: cart.ComputeTotalValue().StringFixed(2),
	}
}

func parseOrderQuery(w http.ResponseWriter, r *http.Request) (repository.OrderQuery, bool) {
	values := r.URL.Query()
	q := repository.OrderQuery{Limit: maxOrdersLimit}

	if raw := values.Get("shipped"); raw != "" {
		shipped, err := strconv.ParseBool(raw)
		if err != nil {
			respondError(w, http.StatusBadRequest, "invalid_shipped", "shipped must be true or false")
			return q, false
		}
		q.Shipped = &shipped
	}

	switch values.Get("sort") {
	case "", "asc":
		q.Sort = repository.SortAscending
	case "desc":
		q.Sort = repository.SortDescending
	default:
		respondError(w, http.StatusBadRequest, "invalid_sort", "sort must be asc or desc")
		return q, false
	}

	if raw := values.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > maxOrdersLimit {
			respondError(w, http.StatusBadRequest, "invalid_limit", "limit must be between 1 and 100")
			return q, false
		}
		q.Limit = n
	}
	if raw := values.Get("offset"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			respondError(w, http.StatusBadRequest, "invalid_offset", "offset must not be negative")
			return q, false
		}
		q.Offset = n
	}
	return q, true
}
