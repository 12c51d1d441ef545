package catalog

import (
	"context"
	"log/slog"
	"sync"

	"github.com/verato-labs/concierge/internal/domain"
)

// Lookup is the single-product lookup operation the resolver fans out over.
type Lookup interface {
	Fetch(ctx context.Context, id int) (*domain.Product, error)
}

// Resolver turns an ordered id sequence into an ordered record sequence.
type Resolver struct {
	lookup Lookup
}

// NewResolver creates a resolver over the given lookup.
func NewResolver(lookup Lookup) *Resolver {
	return &Resolver{lookup: lookup}
}

// Resolve fetches every id concurrently and returns the successful records
// in the order their ids were given, regardless of completion order. Failed
// lookups are dropped; partial success is the normal case, not an error.
// An empty input or all-failed input yields an empty slice.
func (r *Resolver) Resolve(ctx context.Context, ids []int) []domain.Product {
	if len(ids) == 0 {
		return nil
	}

	results := make([]*domain.Product, len(ids))
	var wg sync.WaitGroup
	for i, id := range ids {
		wg.Add(1)
		go func(slot, productID int) {
			defer wg.Done()
			product, err := r.lookup.Fetch(ctx, productID)
			if err != nil {
				slog.Debug("Product lookup failed", "product_id", productID, "error", err)
				return
			}
			results[slot] = product
		}(i, id)
	}
	wg.Wait()

	resolved := make([]domain.Product, 0, len(ids))
	for _, p := range results {
		if p != nil {
			resolved = append(resolved, *p)
		}
	}
	return resolved
}
