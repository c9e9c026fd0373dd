package checkout

import "errors"

var (
	ErrEmptyCart = errors.New("cart is empty, nothing to checkout")
	// ErrCartNotCleared means the order was saved but the emptied cart could not be stored.
	ErrCartNotCleared = errors.New("order saved but cart was not cleared")
)
