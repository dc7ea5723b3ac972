package products

import (
	"context"
	"errors"
	"strings"
)

// RepositoryPort defines data access methods for products.
type RepositoryPort interface {
	ListProducts(ctx context.Context) ([]Product, error)
	CreateProduct(ctx context.Context, name, sku string, price int64) (*Product, error)
	UpdateProduct(ctx context.Context, id int64, name string, price int64) (*Product, error)
	DeleteProduct(ctx context.Context, id int64) error
}

// Service handles product business logic.
type Service struct {
	repo RepositoryPort
}

// NewService builds Service instance.
func NewService(repo RepositoryPort) *Service {
	return &Service{repo: repo}
}

// ListProducts returns all products.
func (s *Service) ListProducts(ctx context.Context) ([]Product, error) {
	return s.repo.ListProducts(ctx)
}

// CreateProduct validates and inserts a product.
func (s *Service) CreateProduct(ctx context.Context, name, sku string, price int64) (*Product, error) {
	name = strings.TrimSpace(name)
	sku = strings.TrimSpace(sku)
	if name == "" || sku == "" {
		return nil, errors.New("products: name and sku required")
	}
	if price < 0 {
		return nil, errors.New("products: price must not be negative")
	}
	return s.repo.CreateProduct(ctx, name, sku, price)
}

// UpdateProduct updates an existing product.
func (s *Service) UpdateProduct(ctx context.Context, id int64, name string, price int64) (*Product, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errors.New("products: name required")
	}
	if price < 0 {
		return nil, errors.New("products: price must not be negative")
	}
	return s.repo.UpdateProduct(ctx, id, name, price)
}

// DeleteProduct removes a product.
func (s *Service) DeleteProduct(ctx context.Context, id int64) error {
	return s.repo.DeleteProduct(ctx, id)
}
