package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

type Product struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Category    string          `json:"category"`
}

// Validate checks the fields an admin edit must fill in. Price must be at least one cent.
func (p *Product) Validate() FieldErrors {
	errs := FieldErrors{}
	if strings.TrimSpace(p.Name) == "" {
		errs["name"] = "Please enter a product name"
	}
	if strings.TrimSpace(p.Description) == "" {
		errs["description"] = "Please enter a description"
	}
	if p.Price.LessThan(decimal.New(1, -2)) {
		errs["price"] = "Please enter a positive price"
	}
	if strings.TrimSpace(p.Category) == "" {
		errs["category"] = "Please enter a category"
	}
	return errs
}
