// Package shop maintains session-scoped commerce state: the rolling set of
// products shown so far, the cart, and the wishlist. All state lives on an
// explicit State value owned by the session; there are no package globals.
package shop

import (
	"sync"

	"github.com/verato-labs/concierge/internal/domain"
)

// State aggregates product-reference state for one session. Safe for use
// from the channel read loop, lookup completions, and user actions at once;
// every mutation is a read-modify-write on maps keyed by product id, so a
// single lock serializes them.
type State struct {
	mu        sync.Mutex
	stackSize int

	// Deduplicated displayed set. order holds ids oldest to newest; a
	// re-shown id moves to the newest position rather than duplicating.
	order      []int
	byID       map[int]domain.Product
	totalShown int

	// Products last shown in the expanded detail view, with the message
	// element that owns them. Used only to hand the compact cards back to
	// the originating message when the view is dismissed.
	detail      []domain.Product
	detailOwner string

	cart     []domain.CartLine
	wishlist []domain.WishlistEntry
}

// NewState creates empty shop state. stackSize bounds the recent-stack view.
func NewState(stackSize int) *State {
	if stackSize <= 0 {
		stackSize = 5
	}
	return &State{
		stackSize: stackSize,
		byID:      make(map[int]domain.Product),
	}
}

// ShowProducts records a resolved product sequence as displayed and marks it
// as the currently detailed set owned by the given message element. Re-shown
// ids bump to the most-recent position; content is refreshed, never
// duplicated.
func (s *State) ShowProducts(owner string, products []domain.Product) {
	if len(products) == 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, p := range products {
		s.totalShown++
		if _, seen := s.byID[p.ID]; seen {
			s.removeFromOrder(p.ID)
		}
		s.order = append(s.order, p.ID)
		s.byID[p.ID] = p
	}

	s.detail = append([]domain.Product(nil), products...)
	s.detailOwner = owner
}

// ReleaseDetail clears the currently detailed set and returns it with its
// owning message element. ok is false when no detail view is open. This is
// a pure state transfer; nothing is re-fetched.
func (s *State) ReleaseDetail() (owner string, products []domain.Product, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.detail == nil {
		return "", nil, false
	}
	owner, products = s.detailOwner, s.detail
	s.detail, s.detailOwner = nil, ""
	return owner, products, true
}

// RecentStack returns the most recently shown unique products, newest first,
// capped at the configured stack size.
func (s *State) RecentStack() []domain.Product {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := len(s.order)
	size := s.stackSize
	if n < size {
		size = n
	}
	recent := make([]domain.Product, 0, size)
	for i := n - 1; i >= 0 && len(recent) < size; i-- {
		recent = append(recent, s.byID[s.order[i]])
	}
	return recent
}

// AllShown returns every unique product shown so far, newest first.
func (s *State) AllShown() []domain.Product {
	s.mu.Lock()
	defer s.mu.Unlock()

	all := make([]domain.Product, 0, len(s.order))
	for i := len(s.order) - 1; i >= 0; i-- {
		all = append(all, s.byID[s.order[i]])
	}
	return all
}

// ProductByID returns a displayed product by id. Only products that have
// been shown in the conversation are addressable by user actions.
func (s *State) ProductByID(id int) (domain.Product, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.byID[id]
	return p, ok
}

// TotalShown returns the number of product occurrences displayed so far,
// counting repeats.
func (s *State) TotalShown() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.totalShown
}

// UniqueShown returns the size of the deduplicated displayed set.
func (s *State) UniqueShown() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.order)
}

// removeFromOrder drops id from the recency order. Caller holds the lock.
func (s *State) removeFromOrder(id int) {
	for i, existing := range s.order {
		if existing == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			return
		}
	}
}
