package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"product-registry/models"
)

// SQLiteRegistry is a Registry backed by the products table created by
// config.OpenDB.
type SQLiteRegistry struct {
	db *sql.DB
}

var _ Registry = (*SQLiteRegistry)(nil)

// NewSQLiteRegistry wraps an opened database.
func NewSQLiteRegistry(db *sql.DB) *SQLiteRegistry {
	return &SQLiteRegistry{db: db}
}

func (r *SQLiteRegistry) ListAll(ctx context.Context) ([]models.Product, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT id, name, price FROM products ORDER BY seq")
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	products := []models.Product{}
	for rows.Next() {
		var p models.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Price); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return products, nil
}

func (r *SQLiteRegistry) GetByID(ctx context.Context, id int) (models.Product, error) {
	var p models.Product
	err := r.db.QueryRowContext(ctx, "SELECT id, name, price FROM products WHERE id = ?", id).
		Scan(&p.ID, &p.Name, &p.Price)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Product{}, fmt.Errorf("product %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return models.Product{}, fmt.Errorf("get product %d: %w", id, err)
	}
	return p, nil
}

func (r *SQLiteRegistry) Create(ctx context.Context, p models.Product) (models.Product, error) {
	if err := p.Validate(); err != nil {
		return models.Product{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return models.Product{}, fmt.Errorf("begin create: %w", err)
	}
	defer tx.Rollback()

	var exists bool
	if err := tx.QueryRowContext(ctx, "SELECT EXISTS(SELECT 1 FROM products WHERE id = ?)", p.ID).Scan(&exists); err != nil {
		return models.Product{}, fmt.Errorf("check product %d: %w", p.ID, err)
	}
	if exists {
		return models.Product{}, fmt.Errorf("product %d: %w", p.ID, ErrConflict)
	}

	if _, err := tx.ExecContext(ctx, "INSERT INTO products (id, name, price) VALUES (?, ?, ?)", p.ID, p.Name, p.Price); err != nil {
		return models.Product{}, fmt.Errorf("insert product %d: %w", p.ID, err)
	}
	if err := tx.Commit(); err != nil {
		return models.Product{}, fmt.Errorf("commit product %d: %w", p.ID, err)
	}
	return p, nil
}

func (r *SQLiteRegistry) Update(ctx context.Context, id int, name string, price float64) error {
	if err := models.ValidateFields(name, price); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	result, err := r.db.ExecContext(ctx, "UPDATE products SET name = ?, price = ? WHERE id = ?", name, price, id)
	if err != nil {
		return fmt.Errorf("update product %d: %w", id, err)
	}
	return requireAffected(result, id)
}

func (r *SQLiteRegistry) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM products WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete product %d: %w", id, err)
	}
	return requireAffected(result, id)
}

func (r *SQLiteRegistry) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM products").Scan(&n); err != nil {
		return 0, fmt.Errorf("count products: %w", err)
	}
	return n, nil
}

func requireAffected(result sql.Result, id int) error {
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("product %d: %w", id, err)
	}
	if n == 0 {
		return fmt.Errorf("product %d: %w", id, ErrNotFound)
	}
	return nil
}
