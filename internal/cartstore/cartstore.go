package cartstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/fjod/go_cart/storefront/internal/domain"
	"github.com/fjod/go_cart/storefront/internal/session"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// SessionKey is the session entry holding the serialized cart.
const SessionKey = "cart"

var ErrCorruptCart = errors.New("stored cart cannot be decoded")

// Store binds a Cart to a visitor session. A nil backend or an empty session ID
// gives an in-memory-only cart: Resolve returns an empty cart and Persist does nothing.
type Store struct {
	sessions session.Store
	logger   *zap.Logger
	sfg      singleflight.Group
}

func New(sessions session.Store, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{
		sessions: sessions,
		logger:   logger,
	}
}

func (s *Store) Resolve(ctx context.Context, sessionID string) (*domain.Cart, error) {
	if s.sessions == nil || sessionID == "" {
		return domain.NewCart(), nil
	}

	// Concurrent loads for one session share the read; each caller decodes its own Cart.
	// The shared read outlives any single caller, and each caller waits on its own ctx.
	ch := s.sfg.DoChan(sessionID, func() (interface{}, error) {
		return s.sessions.Get(context.WithoutCancel(ctx), sessionID, SessionKey)
	})
	var res singleflight.Result
	select {
	case res = <-ch:
	case <-ctx.Done():
		return nil, fmt.Errorf("load cart: %w", ctx.Err())
	}

	v, err := res.Val, res.Err
	if errors.Is(err, session.ErrNotFound) {
		return domain.NewCart(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("load cart: %w", err)
	}

	cart, err := Decode(v.([]byte))
	if err != nil {
		s.logger.Error("stored cart is corrupt",
			zap.String("session_id", sessionID),
			zap.Error(err))
		return nil, err
	}
	return cart, nil
}

func (s *Store) Persist(ctx context.Context, sessionID string, cart *domain.Cart) error {
	if s.sessions == nil || sessionID == "" {
		return nil
	}

	data, err := Encode(cart)
	if err != nil {
		return err
	}
	if err := s.sessions.Set(ctx, sessionID, SessionKey, data); err != nil {
		return fmt.Errorf("persist cart: %w", err)
	}
	return nil
}

func Encode(cart *domain.Cart) ([]byte, error) {
	if cart == nil {
		cart = domain.NewCart()
	}
	data, err := json.Marshal(cart)
	if err != nil {
		return nil, fmt.Errorf("marshal cart failed: %w", err)
	}
	return data, nil
}

// Decode treats an empty payload and JSON null as an empty cart.
func Decode(data []byte) (*domain.Cart, error) {
	cart := domain.NewCart()
	if len(data) == 0 {
		return cart, nil
	}
	if err := json.Unmarshal(data, cart); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptCart, err)
	}
	return cart, nil
}
