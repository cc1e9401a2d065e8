// models/product.go
package models

import (
	"errors"
	"math"
	"strings"
)

// Product is the single resource managed by the registry.
type Product struct {
	ID    int     `json:"id"`
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

// CreateProductRequest is the body accepted by POST /products.
// Pointers distinguish a missing field from a zero value.
type CreateProductRequest struct {
	ID    *int     `json:"id" binding:"required,min=0"`
	Name  string   `json:"name" binding:"required,notblank"`
	Price *float64 `json:"price" binding:"required,min=0"`
}

// Product converts a bound request into a Product.
func (r CreateProductRequest) Product() Product {
	p := Product{Name: r.Name}
	if r.ID != nil {
		p.ID = *r.ID
	}
	if r.Price != nil {
		p.Price = *r.Price
	}
	return p
}

// UpdateProductRequest is the body accepted by PUT /products/:id.
// ID is optional; when present it has to match the path.
type UpdateProductRequest struct {
	ID    *int     `json:"id"`
	Name  string   `json:"name" binding:"required,notblank"`
	Price *float64 `json:"price" binding:"required,min=0"`
}

var (
	errNegativeID    = errors.New("id must be >= 0")
	errBlankName     = errors.New("name must not be empty")
	errNegativePrice = errors.New("price must be a finite number >= 0")
)

// Validate checks the product invariants.
func (p Product) Validate() error {
	if p.ID < 0 {
		return errNegativeID
	}
	return ValidateFields(p.Name, p.Price)
}

// ValidateFields checks the mutable fields of a product.
func ValidateFields(name string, price float64) error {
	if strings.TrimSpace(name) == "" {
		return errBlankName
	}
	if math.IsNaN(price) || math.IsInf(price, 0) || price < 0 {
		return errNegativePrice
	}
	return nil
}
