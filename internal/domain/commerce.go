package domain

// CartLine is one product in the cart with its quantity.
// Quantity is always >= 1; a line at quantity 1 is removed only by an
// explicit remove action, never by a decrement.
type CartLine struct {
	Product  Product
	Quantity int
}

// LineTotal returns price * quantity using the headline price.
// Products without a price contribute zero.
func (l *CartLine) LineTotal() float64 {
	price, ok := l.Product.FirstPrice()
	if !ok {
		return 0
	}
	return price * float64(l.Quantity)
}

// WishlistEntry is one saved product. Entries carry no quantity.
type WishlistEntry struct {
	Product Product
}
