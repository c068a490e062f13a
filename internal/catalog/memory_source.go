package catalog

import (
	"context"
	"fmt"
	"sync"
)

// MemorySource is an in-process product catalog for tests and demo wiring.
type MemorySource struct {
	mu       sync.RWMutex
	products map[int64]Product
}

func NewMemorySource(products ...Product) *MemorySource {
	s := &MemorySource{products: make(map[int64]Product, len(products))}
	for _, p := range products {
		s.products[p.ID] = p
	}
	return s
}

func (s *MemorySource) Put(p Product) {
	s.mu.Lock()
	s.products[p.ID] = p
	s.mu.Unlock()
}

func (s *MemorySource) Product(_ context.Context, id int64) (Product, error) {
	s.mu.RLock()
	p, ok := s.products[id]
	s.mu.RUnlock()
	if !ok {
		return Product{}, fmt.Errorf("%w: %d", ErrProductNotFound, id)
	}
	return p, nil
}
