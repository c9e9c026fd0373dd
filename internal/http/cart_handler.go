package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/fjod/go_cart/storefront/internal/cartstore"
	"github.com/fjod/go_cart/storefront/internal/domain"
	"github.com/fjod/go_cart/storefront/internal/repository"
	"go.uber.org/zap"
)

type CartStore interface {
	Resolve(ctx context.Context, sessionID string) (*domain.Cart, error)
	Persist(ctx context.Context, sessionID string, cart *domain.Cart) error
}

type CartHandler struct {
	carts   CartStore
	catalog ProductCatalog
	timeout time.Duration
	logger  *zap.Logger
}

func NewCartHandler(carts CartStore, catalog ProductCatalog, timeout time.Duration, logger *zap.Logger) *CartHandler {
	return &CartHandler{
		carts:   carts,
		catalog: catalog,
		timeout: timeout,
		logger:  logger,
	}
}

type AddItemRequestDTO struct {
	ProductID int64 `json:"product_id"`
	Quantity  *int  `json:"quantity"`
}

type CartResponse struct {
	Lines     []domain.CartLine `json:"lines"`
	Total     string            `json:"total"`
	ItemCount int               `json:"item_count"`
}

type CartCountResponse struct {
	ItemCount int `json:"item_count"`
}

func newCartResponse(cart *domain.Cart) CartResponse {
	return CartResponse{
		Lines:     cart.Lines(),
		Total:     cart.ComputeTotalValue().StringFixed(2),
		ItemCount: cart.ItemCount(),
	}
}

// GET /api/v1/cart
func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	cart, ok := h.resolve(ctx, w, r)
	if !ok {
		return
	}
	respondJSON(w, http.StatusOK, newCartResponse(cart))
}

// GET /api/v1/cart/count
func (h *CartHandler) Count(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	cart, ok := h.resolve(ctx, w, r)
	if !ok {
		return
	}
	respondJSON(w, http.StatusOK, CartCountResponse{ItemCount: cart.ItemCount()})
}

// POST /api/v1/cart/items
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req AddItemRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.ProductID <= 0 {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product_id must be positive")
		return
	}
	quantity := 1
	if req.Quantity != nil {
		quantity = *req.Quantity
	}
	if quantity <= 0 {
		respondError(w, http.StatusBadRequest, "invalid_quantity", "quantity must be positive")
		return
	}

	product, err := h.catalog.GetProduct(ctx, req.ProductID)
	if errors.Is(err, repository.ErrProductNotFound) {
		respondError(w, http.StatusNotFound, "product_not_found", "product not found")
		return
	}
	if err != nil {
		respondInternal(w, r, h.logger, "get product", err)
		return
	}

	cart, ok := h.resolve(ctx, w, r)
	if !ok {
		return
	}
	cart.AddItem(*product, quantity)
	if !h.persist(ctx, w, r, cart) {
		return
	}

	respondJSON(w, http.StatusCreated, newCartResponse(cart))
}

// DELETE /api/v1/cart/items/{product_id}
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	productID, ok := parseProductID(w, r)
	if !ok {
		return
	}

	cart, ok := h.resolve(ctx, w, r)
	if !ok {
		return
	}
	cart.RemoveLine(domain.Product{ID: productID})
	if !h.persist(ctx, w, r, cart) {
		return
	}

	respondJSON(w, http.StatusOK, newCartResponse(cart))
}

// DELETE /api/v1/cart
func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	cart, ok := h.resolve(ctx, w, r)
	if !ok {
		return
	}
	cart.Clear()
	if !h.persist(ctx, w, r, cart) {
		return
	}

	respondJSON(w, http.StatusOK, newCartResponse(cart))
}

func (h *CartHandler) resolve(ctx context.Context, w http.ResponseWriter, r *http.Request) (*domain.Cart, bool) {
	cart, err := h.carts.Resolve(ctx, getSessionID(r.Context()))
	if errors.Is(err, cartstore.ErrCorruptCart) {
		respondError(w, http.StatusInternalServerError, "corrupt_cart", "stored cart cannot be read")
		return nil, false
	}
	if err != nil {
		respondInternal(w, r, h.logger, "resolve cart", err)
		return nil, false
	}
	return cart, true
}

func (h *CartHandler) persist(ctx context.Context, w http.ResponseWriter, r *http.Request, cart *domain.Cart) bool {
	if err := h.carts.Persist(ctx, getSessionID(r.Context()), cart); err != nil {
		respondInternal(w, r, h.logger, "persist cart", err)
		return false
	}
	return true
}
