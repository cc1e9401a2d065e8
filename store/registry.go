// Package store holds the product registry and its backends.
package store

import (
	"context"
	"errors"

	"product-registry/models"
)

// Registry errors.
var (
	ErrNotFound     = errors.New("product not found")
	ErrConflict     = errors.New("product already exists")
	ErrInvalidInput = errors.New("invalid product")
)

// Registry is the authoritative mapping from product id to Product.
// Implementations are safe for concurrent use and return copies.
type Registry interface {
	// ListAll returns every product in insertion order.
	ListAll(ctx context.Context) ([]models.Product, error)

	// GetByID returns the product with the given id or ErrNotFound.
	GetByID(ctx context.Context, id int) (models.Product, error)

	// Create stores a new product. A taken id yields ErrConflict.
	Create(ctx context.Context, p models.Product) (models.Product, error)

	// Update overwrites name and price of an existing product.
	Update(ctx context.Context, id int, name string, price float64) error

	// Delete removes the product with the given id.
	Delete(ctx context.Context, id int) error

	// Count returns the number of stored products.
	Count(ctx context.Context) (int, error)
}

// DefaultProducts is inserted at process start unless seeding is disabled.
var DefaultProducts = []models.Product{
	{ID: 1, Name: "Laptop", Price: 1000},
	{ID: 2, Name: "Mouse", Price: 20},
}

// Seed inserts products, skipping ids that already exist.
func Seed(ctx context.Context, reg Registry, products []models.Product) (int, error) {
	inserted := 0
	for _, p := range products {
		_, err := reg.Create(ctx, p)
		if errors.Is(err, ErrConflict) {
			continue
		}
		if err != nil {
			return inserted, err
		}
		inserted++
	}
	return inserted, nil
}
