package shop

import (
	"github.com/verato-labs/concierge/internal/domain"
)

// AddToCart inserts the product at quantity 1 or increments an existing
// line. Returns the resulting quantity.
func (s *State) AddToCart(p domain.Product) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.cart {
		if s.cart[i].Product.ID == p.ID {
			s.cart[i].Quantity++
			return s.cart[i].Quantity
		}
	}
	s.cart = append(s.cart, domain.CartLine{Product: p, Quantity: 1})
	return 1
}

// RemoveFromCart drops the line for id. Removing an absent id is a no-op.
func (s *State) RemoveFromCart(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.cart {
		if s.cart[i].Product.ID == id {
			s.cart = append(s.cart[:i], s.cart[i+1:]...)
			return
		}
	}
}

// AdjustQuantity changes a line's quantity by delta, clamped at a floor of
// one: a decrement from quantity 1 is refused, never destructive. Returns
// false when the line is absent or the adjustment was refused.
func (s *State) AdjustQuantity(id, delta int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.cart {
		if s.cart[i].Product.ID != id {
			continue
		}
		next := s.cart[i].Quantity + delta
		if next < 1 {
			return false
		}
		s.cart[i].Quantity = next
		return true
	}
	return false
}

// AddToWishlist inserts the product once. Re-adding reports alreadyPresent
// instead of erroring or duplicating.
func (s *State) AddToWishlist(p domain.Product) (alreadyPresent bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.wishlist {
		if s.wishlist[i].Product.ID == p.ID {
			return true
		}
	}
	s.wishlist = append(s.wishlist, domain.WishlistEntry{Product: p})
	return false
}

// RemoveFromWishlist drops the entry for id. Absent ids are a no-op.
func (s *State) RemoveFromWishlist(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.wishlist {
		if s.wishlist[i].Product.ID == id {
			s.wishlist = append(s.wishlist[:i], s.wishlist[i+1:]...)
			return
		}
	}
}

// MoveToCart removes the product from the wishlist and adds it to the cart
// as one operation under the state lock.
func (s *State) MoveToCart(p domain.Product) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.wishlist {
		if s.wishlist[i].Product.ID == p.ID {
			s.wishlist = append(s.wishlist[:i], s.wishlist[i+1:]...)
			break
		}
	}
	for i := range s.cart {
		if s.cart[i].Product.ID == p.ID {
			s.cart[i].Quantity++
			return s.cart[i].Quantity
		}
	}
	s.cart = append(s.cart, domain.CartLine{Product: p, Quantity: 1})
	return 1
}

// CartCount returns the badge count: the sum of all line quantities.
func (s *State) CartCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	count := 0
	for i := range s.cart {
		count += s.cart[i].Quantity
	}
	return count
}

// CartTotal returns the cart total over headline prices.
func (s *State) CartTotal() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	total := 0.0
	for i := range s.cart {
		total += s.cart[i].LineTotal()
	}
	return total
}

// CartLines returns a copy of the cart in insertion order.
func (s *State) CartLines() []domain.CartLine {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.CartLine(nil), s.cart...)
}

// WishlistCount returns the wishlist badge count.
func (s *State) WishlistCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.wishlist)
}

// WishlistEntries returns a copy of the wishlist in insertion order.
func (s *State) WishlistEntries() []domain.WishlistEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.WishlistEntry(nil), s.wishlist...)
}
