package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/fjod/go_cart/storefront/internal/checkout"
	"github.com/fjod/go_cart/storefront/internal/domain"
	"go.uber.org/zap"
)

type CheckoutService interface {
	Checkout(ctx context.Context, sessionID string, form domain.Order) (*checkout.Result, error)
}

type CheckoutHandler struct {
	service CheckoutService
	metrics *ServerMetrics
	timeout time.Duration
	logger  *zap.Logger
}

func NewCheckoutHandler(service CheckoutService, metrics *ServerMetrics, timeout time.Duration, logger *zap.Logger) *CheckoutHandler {
	return &CheckoutHandler{
		service: service,
		metrics: metrics,
		timeout: timeout,
		logger:  logger,
	}
}

type CheckoutRequestDTO struct {
	Name     string `json:"name"`
	Address  string `json:"address"`
	City     string `json:"city"`
	State    string `json:"state"`
	Zip      string `json:"zip"`
	Country  string `json:"country"`
	GiftWrap bool   `json:"gift_wrap"`
}

// CheckoutResponseDTO reports CartCleared false when the order was placed but the
// session still holds its lines; resubmitting would place a second order.
type CheckoutResponseDTO struct {
	OrderID     int64  `json:"order_id"`
	Status      string `json:"status"`
	CartCleared bool   `json:"cart_cleared"`
}

type CheckoutRejectedDTO struct {
	Status      string             `json:"status"`
	CartError   string             `json:"cart_error,omitempty"`
	FieldErrors domain.FieldErrors `json:"field_errors,omitempty"`
}

// POST /api/v1/checkout
func (h *CheckoutHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req CheckoutRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	result, err := h.service.Checkout(ctx, getSessionID(r.Context()), domain.Order{
		Name:     req.Name,
		Address:  req.Address,
		City:     req.City,
		State:    req.State,
		Zip:      req.Zip,
		Country:  req.Country,
		GiftWrap: req.GiftWrap,
	})
	if err != nil && !errors.Is(err, checkout.ErrCartNotCleared) {
		h.metrics.observeCheckout("error")
		respondInternal(w, r, h.logger, "checkout", err)
		return
	}
	if err != nil {
		// order is saved, so the checkout still succeeded
		h.logger.Warn("order placed but cart not cleared",
			zap.Int64("order_id", result.OrderID),
			zap.Error(err),
			zap.String("request_id", getRequestID(r.Context())),
		)
	}

	if result.Status == checkout.StatusRejected {
		h.metrics.observeCheckout("rejected")
		respondJSON(w, http.StatusUnprocessableEntity, CheckoutRejectedDTO{
			Status:      result.Status.String(),
			CartError:   result.CartError,
			FieldErrors: result.FieldErrors,
		})
		return
	}

	h.metrics.observeCheckout("accepted")
	respondJSON(w, http.StatusCreated, CheckoutResponseDTO{
		OrderID:     result.OrderID,
		Status:      result.Status.String(),
		CartCleared: err == nil,
	})
}
