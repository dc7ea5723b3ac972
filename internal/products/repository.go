package products

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sentinel-iam/sentinel/internal/shared"
)

// Repository provides PostgreSQL backed persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const productColumns = `id, name, sku, price_cents, created_at, updated_at`

// ListProducts returns all products ordered by id.
func (r *Repository) ListProducts(ctx context.Context) ([]Product, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+productColumns+` FROM products ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Product
	for rows.Next() {
		var p Product
		if err := rows.Scan(&p.ID, &p.Name, &p.SKU, &p.Price, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// CreateProduct inserts a product.
func (r *Repository) CreateProduct(ctx context.Context, name, sku string, price int64) (*Product, error) {
	var p Product
	err := r.pool.QueryRow(ctx,
		`INSERT INTO products (name, sku, price_cents, created_at, updated_at)
		 VALUES ($1, $2, $3, now(), now())
		 RETURNING `+productColumns, name, sku, price).
		Scan(&p.ID, &p.Name, &p.SKU, &p.Price, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// UpdateProduct updates name and price of an existing product.
func (r *Repository) UpdateProduct(ctx context.Context, id int64, name string, price int64) (*Product, error) {
	var p Product
	err := r.pool.QueryRow(ctx,
		`UPDATE products SET name = $2, price_cents = $3, updated_at = now()
		 WHERE id = $1
		 RETURNING `+productColumns, id, name, price).
		Scan(&p.ID, &p.Name, &p.SKU, &p.Price, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

// DeleteProduct removes a product by id.
func (r *Repository) DeleteProduct(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}
