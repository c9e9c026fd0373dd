package http

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/fjod/go_cart/storefront/internal/domain"
	"go.uber.org/zap"
)

type ProductCatalog interface {
	GetProduct(ctx context.Context, id int64) (*domain.Product, error)
	ListProducts(ctx context.Context, category string, page, pageSize int) ([]*domain.Product, error)
	CountProducts(ctx context.Context, category string) (int, error)
	Categories(ctx context.Context) ([]string, error)
}

type ProductHandler struct {
	catalog  ProductCatalog
	pageSize int
	timeout  time.Duration
	logger   *zap.Logger
}

func NewProductHandler(catalog ProductCatalog, pageSize int, timeout time.Duration, logger *zap.Logger) *ProductHandler {
	return &ProductHandler{
		catalog:  catalog,
		pageSize: pageSize,
		timeout:  timeout,
		logger:   logger,
	}
}

type PagingInfo struct {
	CurrentPage  int `json:"current_page"`
	ItemsPerPage int `json:"items_per_page"`
	TotalItems   int `json:"total_items"`
	TotalPages   int `json:"total_pages"`
}

type ProductsResponse struct {
	Products        []*domain.Product `json:"products"`
	PagingInfo      PagingInfo        `json:"paging_info"`
	CurrentCategory string            `json:"current_category,omitempty"`
}

type CategoriesResponse struct {
	Categories []string `json:"categories"`
}

// GET /api/v1/products?category=&page=
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	category := r.URL.Query().Get("category")
	page := 1
	if raw := r.URL.Query().Get("page"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			respondError(w, http.StatusBadRequest, "invalid_page", "page must be a positive integer")
			return
		}
		page = n
	}

	products, err := h.catalog.ListProducts(ctx, category, page, h.pageSize)
	if err != nil {
		respondInternal(w, r, h.logger, "list products", err)
		return
	}
	total, err := h.catalog.CountProducts(ctx, category)
	if err != nil {
		respondInternal(w, r, h.logger, "count products", err)
		return
	}
	if products == nil {
		products = []*domain.Product{}
	}

	respondJSON(w, http.StatusOK, ProductsResponse{
		Products: products,
		PagingInfo: PagingInfo{
			CurrentPage:  page,
			ItemsPerPage: h.pageSize,
			TotalItems:   total,
			TotalPages:   (total + h.pageSize - 1) / h.pageSize,
		},
		CurrentCategory: category,
	})
}

// GET /api/v1/categories
func (h *ProductHandler) Categories(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	categories, err := h.catalog.Categories(ctx)
	if err != nil {
		respondInternal(w, r, h.logger, "list categories", err)
		return
	}
	if categories == nil {
		categories = []string{}
	}
	respondJSON(w, http.StatusOK, CategoriesResponse{Categories: categories})
}
