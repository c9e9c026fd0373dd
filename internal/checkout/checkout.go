package checkout

import (
	"context"
	"fmt"
	"time"

	"github.com/fjod/go_cart/storefront/internal/domain"
	"github.com/fjod/go_cart/storefront/internal/events"
	"go.uber.org/zap"
)

type CartStore interface {
	Resolve(ctx context.Context, sessionID string) (*domain.Cart, error)
	Persist(ctx context.Context, sessionID string, cart *domain.Cart) error
}

type OrderSaver interface {
	SaveOrder(ctx context.Context, order *domain.Order) error
}

// Result is the outcome of one checkout attempt. Validation problems are
// reported here, never as errors.
type Result struct {
	Status      Status
	OrderID     int64
	CartError   string
	FieldErrors domain.FieldErrors
}

type Service struct {
	carts     CartStore
	orders    OrderSaver
	publisher events.Publisher
	logger    *zap.Logger
	now       func() time.Time

	publishTimeout time.Duration
}

// DefaultPublishTimeout bounds how long an accepted checkout waits on the event publisher.
const DefaultPublishTimeout = 2 * time.Second

func NewService(carts CartStore, orders OrderSaver, publisher events.Publisher, logger *zap.Logger) *Service {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		carts:     carts,
		orders:    orders,
		publisher: publisher,
		logger:    logger,
		now:       time.Now,

		publishTimeout: DefaultPublishTimeout,
	}
}

// Checkout turns the session cart into a saved order built from form's header fields.
//
// A failed save leaves the cart untouched. If the order is saved but the
// emptied cart cannot be persisted, the accepted Result is returned together
// with an error wrapping ErrCartNotCleared.
func (s *Service) Checkout(ctx context.Context, sessionID string, form domain.Order) (*Result, error) {
	cart, err := s.carts.Resolve(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve cart: %w", err)
	}

	result := &Result{FieldErrors: form.Validate()}
	if cart.IsEmpty() {
		result.CartError = ErrEmptyCart.Error()
	}
	if result.CartError != "" || len(result.FieldErrors) > 0 {
		result.Status = StatusRejected
		s.logger.Info("checkout rejected",
			zap.String("session_id", sessionID),
			zap.Bool("empty_cart", result.CartError != ""),
			zap.Int("field_errors", len(result.FieldErrors)))
		return result, nil
	}

	order := form
	order.ID = 0
	order.Lines = cart.Lines()

	if err := s.orders.SaveOrder(ctx, &order); err != nil {
		return nil, fmt.Errorf("failed to save order: %w", err)
	}

	result.Status = StatusAccepted
	result.OrderID = order.ID

	cart.Clear()
	persistErr := s.carts.Persist(ctx, sessionID, cart)

	// detached from the request: the order is committed even if the caller is gone
	publishCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.publishTimeout)
	defer cancel()
	if err := s.publisher.PublishOrderPlaced(publishCtx, events.NewOrderPlaced(&order, s.now())); err != nil {
		s.logger.Warn("failed to publish order placed event",
			zap.Int64("order_id", order.ID),
			zap.Error(err))
	}

	if persistErr != nil {
		s.logger.Error("order saved but cart not cleared",
			zap.Int64("order_id", order.ID),
			zap.String("session_id", sessionID),
			zap.Error(persistErr))
		return result, fmt.Errorf("%w: order %d: %v", ErrCartNotCleared, order.ID, persistErr)
	}

	s.logger.Info("checkout accepted",
		zap.Int64("order_id", order.ID),
		zap.Int("lines", len(order.Lines)))
	return result, nil
}
