package categories

import (
	"context"
	"fmt"
	"strings"

	"github.com/trigardening/trigardening/internal/platform/httpx"
)

// ErrCategoryReferenced rejects deleting a category that products still point at.
var ErrCategoryReferenced = fmt.Errorf("%w: category is referenced by existing products", httpx.ErrDuplicate)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context) ([]Category, error) {
	return s.repo.List(ctx)
}

func (s *Service) Get(ctx context.Context, id int64) (Category, error) {
	if id <= 0 {
		return Category{}, httpx.ErrNotFound
	}
	return s.repo.Get(ctx, id)
}

func (s *Service) Create(ctx context.Context, category Category) (Category, error) {
	if err := validate(category); err != nil {
		return Category{}, err
	}
	if category.Slug == "" {
		category.Slug = slugify(category.Name)
	}
	return s.repo.Create(ctx, category)
}

func (s *Service) Update(ctx context.Context, id int64, category Category) error {
	if id <= 0 {
		return httpx.ErrNotFound
	}
	if err := validate(category); err != nil {
		return err
	}
	if category.Slug == "" {
		category.Slug = slugify(category.Name)
	}
	return s.repo.Update(ctx, id, category)
}

// Delete removes a category unless any product still references it.
func (s *Service) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return httpx.ErrNotFound
	}
	count, err := s.repo.CountProducts(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrCategoryReferenced
	}
	return s.repo.Delete(ctx, id)
}

func validate(c Category) error {
	if strings.TrimSpace(c.Name) == "" {
		return fmt.Errorf("%w: category name is required", httpx.ErrValidation)
	}
	return nil
}

func slugify(name string) string {
	slug := strings.ToLower(strings.TrimSpace(name))
	return strings.ReplaceAll(slug, " ", "-")
}
