package products

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/trigardening/trigardening/internal/platform/httpx"
	"github.com/trigardening/trigardening/internal/shared"
)

// ErrProductReferenced rejects deleting a product whose variants appear on orders.
var ErrProductReferenced = fmt.Errorf("%w: product is referenced by existing orders", httpx.ErrDuplicate)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context, filters shared.ListFilters) ([]Product, int, error) {
	return s.repo.List(ctx, filters)
}

// ListPublished restricts listings to published products for the storefront.
func (s *Service) ListPublished(ctx context.Context, filters shared.ListFilters) ([]Product, int, error) {
	status := string(ProductStatusPublished)
	filters.Status = &status
	return s.repo.List(ctx, filters)
}

func (s *Service) Get(ctx context.Context, id int64) (Product, error) {
	if id <= 0 {
		return Product{}, httpx.ErrNotFound
	}
	return s.repo.Get(ctx, id)
}

func (s *Service) GetVariant(ctx context.Context, id uuid.UUID) (Variant, error) {
	return s.repo.GetVariant(ctx, id)
}

func (s *Service) Create(ctx context.Context, form ProductForm) (Product, error) {
	product, err := fromForm(form)
	if err != nil {
		return Product{}, err
	}
	id, err := s.repo.Create(ctx, product)
	if err != nil {
		return Product{}, err
	}
	return s.repo.Get(ctx, id)
}

func (s *Service) Update(ctx context.Context, id int64, form ProductForm) (Product, error) {
	if id <= 0 {
		return Product{}, httpx.ErrNotFound
	}
	product, err := fromForm(form)
	if err != nil {
		return Product{}, err
	}
	if err := s.repo.Update(ctx, id, product); err != nil {
		return Product{}, err
	}
	return s.repo.Get(ctx, id)
}

// Delete removes a product unless any order references one of its variants.
func (s *Service) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return httpx.ErrNotFound
	}
	count, err := s.repo.CountOrderReferences(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrProductReferenced
	}
	return s.repo.Delete(ctx, id)
}

func (s *Service) ListLowStock(ctx context.Context) ([]LowStockVariant, error) {
	return s.repo.ListLowStock(ctx)
}
