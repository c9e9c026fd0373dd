package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

type RouterConfig struct {
	Products   *ProductHandler
	Cart       *CartHandler
	Checkout   *CheckoutHandler
	Orders     *OrdersHandler
	Admin      *AdminHandler
	Metrics    *ServerMetrics
	Gatherer   prometheus.Gatherer
	SessionTTL time.Duration
	Logger     *zap.Logger
}

func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Recoverer)
	r.Use(RequestIDMiddleware)
	r.Use(RequestLogger(cfg.Logger))
	if cfg.Metrics != nil {
		r.Use(cfg.Metrics.Middleware)
	}
	r.Use(middleware.Compress(5))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	if cfg.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(cfg.Gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/products", cfg.Products.List)
		r.Get("/categories", cfg.Products.Categories)

		r.Group(func(r chi.Router) {
			r.Use(SessionMiddleware(cfg.SessionTTL))

			r.Route("/cart", func(r chi.Router) {
				r.Get("/", cfg.Cart.GetCart)
				r.Delete("/", cfg.Cart.ClearCart)
				r.Get("/count", cfg.Cart.Count)
				r.Post("/items", cfg.Cart.AddItem)
				r.Delete("/items/{product_id}", cfg.Cart.RemoveItem)
			})
			r.Post("/checkout", cfg.Checkout.Checkout)
		})

		r.Route("/admin/products", func(r chi.Router) {
			r.Get("/", cfg.Admin.ListProducts)
			r.Post("/", cfg.Admin.CreateProduct)
			r.Get("/{product_id}", cfg.Admin.GetProduct)
			r.Put("/{product_id}", cfg.Admin.UpdateProduct)
			r.Delete("/{product_id}", cfg.Admin.DeleteProduct)
		})

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", cfg.Orders.ListOrders)
			r.Get("/{order_id}", cfg.Orders.GetOrder)
			r.Post("/{order_id}/ship", cfg.Orders.MarkShipped)
		})
	})

	return r
}
