package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/fjod/go_cart/storefront/internal/domain"
	"github.com/fjod/go_cart/storefront/internal/repository"
	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type ProductAdmin interface {
	AllProducts(ctx context.Context) ([]*domain.Product, error)
	GetProduct(ctx context.Context, id int64) (*domain.Product, error)
	CreateProduct(ctx context.Context, p *domain.Product) error
	UpdateProduct(ctx context.Context, p *domain.Product) error
	DeleteProduct(ctx context.Context, id int64) error
}

type AdminHandler struct {
	products ProductAdmin
	timeout  time.Duration
	logger   *zap.Logger
}

func NewAdminHandler(products ProductAdmin, timeout time.Duration, logger *zap.Logger) *AdminHandler {
	return &AdminHandler{
		products: products,
		timeout:  timeout,
		logger:   logger,
	}
}

type ProductRequestDTO struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Category    string          `json:"category"`
}

type ValidationErrorDTO struct {
	Error       string             `json:"error"`
	FieldErrors domain.FieldErrors `json:"field_errors"`
}

// GET /api/v1/admin/products
func (h *AdminHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	products, err := h.products.AllProducts(ctx)
	if err != nil {
		respondInternal(w, r, h.logger, "list products", err)
		return
	}
	if products == nil {
		products = []*domain.Product{}
	}
	respondJSON(w, http.StatusOK, products)
}

// GET /api/v1/admin/products/{product_id}
func (h *AdminHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	id, ok := parseProductID(w, r)
	if !ok {
		return
	}
	product, err := h.products.GetProduct(ctx, id)
	if errors.Is(err, repository.ErrProductNotFound) {
		respondError(w, http.StatusNotFound, "product_not_found", "product not found")
		return
	}
	if err != nil {
		respondInternal(w, r, h.logger, "get product", err)
		return
	}
	respondJSON(w, http.StatusOK, product)
}

// POST /api/v1/admin/products
func (h *AdminHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	product, ok := decodeProduct(w, r)
	if !ok {
		return
	}
	if err := h.products.CreateProduct(ctx, product); err != nil {
		respondInternal(w, r, h.logger, "create product", err)
		return
	}

	h.logger.Info("product created", zap.Int64("product_id", product.ID), zap.String("name", product.Name))
	respondJSON(w, http.StatusCreated, product)
}

// PUT /api/v1/admin/products/{product_id}
func (h *AdminHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	id, ok := parseProductID(w, r)
	if !ok {
		return
	}
	product, ok := decodeProduct(w, r)
	if !ok {
		return
	}
	product.ID = id

	err := h.products.UpdateProduct(ctx, product)
	if errors.Is(err, repository.ErrProductNotFound) {
		respondError(w, http.StatusNotFound, "product_not_found", "product not found")
		return
	}
	if err != nil {
		respondInternal(w, r, h.logger, "update product", err)
		return
	}

	h.logger.Info("product saved", zap.Int64("product_id", product.ID), zap.String("name", product.Name))
	respondJSON(w, http.StatusOK, product)
}

// DELETE /api/v1/admin/products/{product_id}
func (h *AdminHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	id, ok := parseProductID(w, r)
	if !ok {
		return
	}

	err := h.products.DeleteProduct(ctx, id)
	switch {
	case errors.Is(err, repository.ErrProductNotFound):
		respondError(w, http.StatusNotFound, "product_not_found", "product not found")
		return
	case errors.Is(err, repository.ErrProductInUse):
		respondError(w, http.StatusConflict, "product_in_use", "product is referenced by existing orders")
		return
	case err != nil:
		respondInternal(w, r, h.logger, "delete product", err)
		return
	}

	h.logger.Info("product deleted", zap.Int64("product_id", id))
	w.WriteHeader(http.StatusNoContent)
}

func decodeProduct(w http.ResponseWriter, r *http.Request) (*domain.Product, bool) {
	var req ProductRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return nil, false
	}
	product := &domain.Product{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Category:    req.Category,
	}
	if errs := product.Validate(); len(errs) > 0 {
		respondJSON(w, http.StatusUnprocessableEntity, ValidationErrorDTO{
			Error:       "invalid product",
			FieldErrors: errs,
		})
		return nil, false
	}
	return product, true
}

func parseProductID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "product_id"), 10, 64)
	if err != nil || id <= 0 {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product_id must be a positive integer")
		return 0, false
	}
	return id, true
}
