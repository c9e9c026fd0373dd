package domain

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// CartLine pairs a product with a quantity. Quantity is not checked for sign.
type CartLine struct {
	Product  Product `json:"product"`
	Quantity int     `json:"quantity"`
}

// Cart holds at most one line per product ID, in the order products were first added.
// A Cart is owned by a single request and is not safe for concurrent use.
type Cart struct {
	lines []CartLine
}

func NewCart() *Cart {
	return &Cart{lines: []CartLine{}}
}

func (c *Cart) AddItem(product Product, quantity int) {
	for i := range c.lines {
		if c.lines[i].Product.ID == product.ID {
			c.lines[i].Quantity += quantity
			return
		}
	}
	c.lines = append(c.lines, CartLine{Product: product, Quantity: quantity})
}

func (c *Cart) RemoveLine(product Product) {
	for i := range c.lines {
		if c.lines[i].Product.ID == product.ID {
			c.lines = append(c.lines[:i], c.lines[i+1:]...)
			return
		}
	}
}

func (c *Cart) Clear() {
	c.lines = []CartLine{}
}

func (c *Cart) ComputeTotalValue() decimal.Decimal {
	total := decimal.Zero
	for _, line := range c.lines {
		total = total.Add(line.Product.Price.Mul(decimal.NewFromInt(int64(line.Quantity))))
	}
	return total
}

// Lines returns a copy of the cart lines; changing it does not affect the cart.
func (c *Cart) Lines() []CartLine {
	lines := make([]CartLine, len(c.lines))
	copy(lines, c.lines)
	return lines
}

// ItemCount is the sum of all line quantities.
func (c *Cart) ItemCount() int {
	count := 0
	for _, line := range c.lines {
		count += line.Quantity
	}
	return count
}

func (c *Cart) IsEmpty() bool {
	return len(c.lines) == 0
}

type cartJSON struct {
	Lines []CartLine `json:"lines"`
}

func (c *Cart) MarshalJSON() ([]byte, error) {
	lines := c.lines
	if lines == nil {
		lines = []CartLine{}
	}
	return json.Marshal(cartJSON{Lines: lines})
}

// UnmarshalJSON accepts null and a missing lines key as an empty cart.
func (c *Cart) UnmarshalJSON(data []byte) error {
	var payload cartJSON
	if err := json.Unmarshal(data, &payload); err != nil {
		return err
	}
	c.lines = payload.Lines
	if c.lines == nil {
		c.lines = []CartLine{}
	}
	return nil
}
