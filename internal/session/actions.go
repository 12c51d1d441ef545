package session

import (
	"github.com/verato-labs/concierge/internal/domain"
	"github.com/verato-labs/concierge/internal/render"
)

// User-driven commerce actions. These are the sole write path to the cart
// and wishlist; inbound messages never mutate them.

// AddToCart inserts or increments the cart line and refreshes the badge.
func (s *Session) AddToCart(p domain.Product) {
	quantity := s.shop.AddToCart(p)
	s.renderer.UpdateCartBadge(s.shop.CartCount())
	if quantity == 1 {
		s.renderer.DisplaySystemNotice("Added to cart: " + p.Name)
	} else {
		s.renderer.DisplaySystemNotice("Quantity updated: " + p.Name)
	}
}

// RemoveFromCart drops the line unconditionally; absent ids are a no-op.
func (s *Session) RemoveFromCart(id int) {
	s.shop.RemoveFromCart(id)
	s.renderer.UpdateCartBadge(s.shop.CartCount())
}

// AdjustQuantity changes a line quantity by delta. A decrement below one is
// refused; removal stays a separate explicit action.
func (s *Session) AdjustQuantity(id, delta int) {
	if s.shop.AdjustQuantity(id, delta) {
		s.renderer.UpdateCartBadge(s.shop.CartCount())
	}
}

// AddToWishlist inserts the product once; re-adding reports a notice.
func (s *Session) AddToWishlist(p domain.Product) {
	if s.shop.AddToWishlist(p) {
		s.renderer.DisplaySystemNotice("Already in wishlist: " + p.Name)
		return
	}
	s.renderer.UpdateWishlistBadge(s.shop.WishlistCount())
	s.renderer.DisplaySystemNotice("Added to wishlist: " + p.Name)
}

// RemoveFromWishlist drops the entry; absent ids are a no-op.
func (s *Session) RemoveFromWishlist(id int) {
	s.shop.RemoveFromWishlist(id)
	s.renderer.UpdateWishlistBadge(s.shop.WishlistCount())
}

// MoveToCart transfers a wishlist entry into the cart.
func (s *Session) MoveToCart(p domain.Product) {
	s.shop.MoveToCart(p)
	s.renderer.UpdateCartBadge(s.shop.CartCount())
	s.renderer.UpdateWishlistBadge(s.shop.WishlistCount())
	s.renderer.DisplaySystemNotice("Moved to cart: " + p.Name)
}

// Id-addressed variants for UI surfaces that reference displayed cards by
// product id. Only products already shown in the conversation resolve.

// AddToCartByID adds a displayed product to the cart.
func (s *Session) AddToCartByID(id int) {
	if p, ok := s.shop.ProductByID(id); ok {
		s.AddToCart(p)
		return
	}
	s.renderer.DisplaySystemNotice("No such product in this conversation.")
}

// AddToWishlistByID adds a displayed product to the wishlist.
func (s *Session) AddToWishlistByID(id int) {
	if p, ok := s.shop.ProductByID(id); ok {
		s.AddToWishlist(p)
		return
	}
	s.renderer.DisplaySystemNotice("No such product in this conversation.")
}

// MoveToCartByID moves a displayed product from the wishlist to the cart.
func (s *Session) MoveToCartByID(id int) {
	if p, ok := s.shop.ProductByID(id); ok {
		s.MoveToCart(p)
		return
	}
	s.renderer.DisplaySystemNotice("No such product in this conversation.")
}

// DismissDetail closes the expanded product view and hands its compact
// cards back to the message that owns them. Pure state transfer; nothing is
// re-fetched.
func (s *Session) DismissDetail() {
	owner, products, ok := s.shop.ReleaseDetail()
	if !ok {
		return
	}
	s.renderer.AttachProducts(render.MessageID(owner), products)
}
