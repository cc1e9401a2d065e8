package store

import (
	"context"
	"fmt"
	"sync"

	"product-registry/models"
)

// MemoryRegistry is an in-memory Registry. Insertion order is tracked
// separately from the map so ListAll is stable.
type MemoryRegistry struct {
	mu       sync.RWMutex
	products map[int]models.Product
	order    []int
}

var _ Registry = (*MemoryRegistry)(nil)

// NewMemoryRegistry creates an empty registry.
func NewMemoryRegistry() *MemoryRegistry {
	return &MemoryRegistry{products: make(map[int]models.Product)}
}

func (r *MemoryRegistry) ListAll(_ context.Context) ([]models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]models.Product, 0, len(r.order))
	for _, id := range r.order {
		result = append(result, r.products[id])
	}
	return result, nil
}

func (r *MemoryRegistry) GetByID(_ context.Context, id int) (models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.products[id]
	if !ok {
		return models.Product{}, fmt.Errorf("product %d: %w", id, ErrNotFound)
	}
	return p, nil
}

func (r *MemoryRegistry) Create(_ context.Context, p models.Product) (models.Product, error) {
	if err := p.Validate(); err != nil {
		return models.Product{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.products[p.ID]; exists {
		return models.Product{}, fmt.Errorf("product %d: %w", p.ID, ErrConflict)
	}
	r.products[p.ID] = p
	r.order = append(r.order, p.ID)
	return p, nil
}

func (r *MemoryRegistry) Update(_ context.Context, id int, name string, price float64) error {
	if err := models.ValidateFields(name, price); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.products[id]
	if !ok {
		return fmt.Errorf("product %d: %w", id, ErrNotFound)
	}
	p.Name = name
	p.Price = price
	r.products[id] = p
	return nil
}

func (r *MemoryRegistry) Delete(_ context.Context, id int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.products[id]; !ok {
		return fmt.Errorf("product %d: %w", id, ErrNotFound)
	}
	delete(r.products, id)
	for i, existing := range r.order {
		if existing == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

func (r *MemoryRegistry) Count(_ context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.products), nil
}
