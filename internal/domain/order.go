package domain

import (
	"strings"
)

// FieldErrors maps a form field name to a user-facing message.
type FieldErrors map[string]string

type Order struct {
	ID       int64      `json:"order_id"`
	Lines    []CartLine `json:"lines"`
	Name     string     `json:"name"`
	Address  string     `json:"address"`
	City     string     `json:"city"`
	State    string     `json:"state"`
	Zip      string     `json:"zip,omitempty"`
	Country  string     `json:"country"`
	GiftWrap bool       `json:"gift_wrap"`
	Shipped  bool       `json:"shipped"`
}

var requiredOrderFields = []struct {
	field   string
	message string
	value   func(o *Order) string
}{
	{"name", "Please enter a name", func(o *Order) string { return o.Name }},
	{"address", "Please enter an address", func(o *Order) string { return o.Address }},
	{"city", "Please enter a city", func(o *Order) string { return o.City }},
	{"state", "Please enter a state", func(o *Order) string { return o.State }},
	{"country", "Please enter a country", func(o *Order) string { return o.Country }},
}

// Validate checks the header fields only. Lines are owned by checkout.
func (o *Order) Validate() FieldErrors {
	errs := FieldErrors{}
	for _, f := range requiredOrderFields {
		if strings.TrimSpace(f.value(o)) == "" {
			errs[f.field] = f.message
		}
	}
	return errs
}

// IsNew reports whether the order has not been saved yet.
func (o *Order) IsNew() bool {
	return o.ID == 0
}
