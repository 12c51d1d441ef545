// Package domain contains core domain types for the concierge client.
package domain

// PriceVariant is one purchasable variant of a product. The catalog
// service lists variants in display order; the first one carries the
// headline price.
type PriceVariant struct {
	Price float64 `json:"price"`
	Size  string  `json:"size,omitempty"`
	Color string  `json:"color,omitempty"`
}

// Product is a full catalog record resolved from a product identifier.
type Product struct {
	ID          int            `json:"id"`
	Name        string         `json:"name"`
	Category    string         `json:"category"`
	Description string         `json:"description"`
	Features    string         `json:"features,omitempty"`
	Variants    []PriceVariant `json:"items"`
}

// FirstPrice returns the headline price taken from the first variant.
// ok is false when the product has no variants.
func (p *Product) FirstPrice() (price float64, ok bool) {
	if len(p.Variants) == 0 {
		return 0, false
	}
	return p.Variants[0].Price, true
}

// Profile is the user profile shown in the header, read from the
// credential store at startup.
type Profile struct {
	Email    string `json:"email"`
	FullName string `json:"full_name"`
}
