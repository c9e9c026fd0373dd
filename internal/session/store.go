package session

import (
	"context"
	"errors"
)

// Store is a per-visitor key-value store addressed by an opaque session ID.
type Store interface {
	Get(ctx context.Context, sessionID, key string) ([]byte, error)
	Set(ctx context.Context, sessionID, key string, value []byte) error
}

var ErrNotFound = errors.New("session value not found")
