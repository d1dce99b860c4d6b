package products

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/trigardening/trigardening/internal/platform/httpx"
	"github.com/trigardening/trigardening/internal/shared"
)

type mockRepository struct {
	products   map[int64]Product
	nextID     int64
	references map[int64]int
	lowStock   []LowStockVariant
}

func newMockRepository() *mockRepository {
	return &mockRepository{products: make(map[int64]Product), references: make(map[int64]int)}
}

func (m *mockRepository) List(_ context.Context, filters shared.ListFilters) ([]Product, int, error) {
	out := make([]Product, 0)
	for _, p := range m.products {
		if filters.Status != nil && string(p.Status) != *filters.Status {
			continue
		}
		out = append(out, p)
	}
	return out, len(out), nil
}

func (m *mockRepository) Get(_ context.Context, id int64) (Product, error) {
	p, ok := m.products[id]
	if !ok {
		return Product{}, httpx.ErrNotFound
	}
	return p, nil
}

func (m *mockRepository) GetVariant(_ context.Context, id uuid.UUID) (Variant, error) {
	for _, p := range m.products {
		for _, v := range p.Variants {
			if v.ID == id {
				return v, nil
			}
		}
	}
	return Variant{}, httpx.ErrNotFound
}

func (m *mockRepository) Create(_ context.Context, product Product) (int64, error) {
	m.nextID++
	product.ID = m.nextID
	for i := range product.Variants {
		if product.Variants[i].ID == uuid.Nil {
			product.Variants[i].ID = uuid.New()
		}
	}
	m.products[product.ID] = product
	return product.ID, nil
}

func (m *mockRepository) Update(_ context.Context, id int64, product Product) error {
	if _, ok := m.products[id]; !ok {
		return httpx.ErrNotFound
	}
	product.ID = id
	m.products[id] = product
	return nil
}

func (m *mockRepository) Delete(_ context.Context, id int64) error {
	if _, ok := m.products[id]; !ok {
		return httpx.ErrNotFound
	}
	delete(m.products, id)
	return nil
}

func (m *mockRepository) CountOrderReferences(_ context.Context, id int64) (int, error) {
	return m.references[id], nil
}

func (m *mockRepository) ListLowStock(_ context.Context) ([]LowStockVariant, error) {
	return m.lowStock, nil
}

func validForm() ProductForm {
	return ProductForm{
		Name: "Tomato seeds",
		Variants: []VariantForm{
			{Title: "50g", Price: 500, Stock: 10},
		},
	}
}

func TestCreateDefaultsToDraft(t *testing.T) {
	repo := newMockRepository()
	svc := NewService(repo)

	product, err := svc.Create(context.Background(), validForm())
	require.NoError(t, err)
	require.Equal(t, ProductStatusDraft, product.Status)
	require.Len(t, product.Variants, 1)
	require.NotEqual(t, uuid.Nil, product.Variants[0].ID)
}

func TestCreateRejectsBadVariants(t *testing.T) {
	svc := NewService(newMockRepository())

	form := validForm()
	form.Variants = nil
	_, err := svc.Create(context.Background(), form)
	require.ErrorIs(t, err, httpx.ErrValidation)

	form = validForm()
	form.Variants[0].Price = 0
	_, err = svc.Create(context.Background(), form)
	require.ErrorIs(t, err, httpx.ErrValidation)

	form = validForm()
	form.Variants[0].Stock = -1
	_, err = svc.Create(context.Background(), form)
	require.ErrorIs(t, err, httpx.ErrValidation)

	form = validForm()
	form.Status = ProductStatus("archived")
	_, err = svc.Create(context.Background(), form)
	require.ErrorIs(t, err, httpx.ErrValidation)
}

func TestListPublishedHidesDrafts(t *testing.T) {
	repo := newMockRepository()
	svc := NewService(repo)

	_, err := svc.Create(context.Background(), validForm())
	require.NoError(t, err)

	published := validForm()
	published.Name = "Clay pot"
	published.Status = ProductStatusPublished
	_, err = svc.Create(context.Background(), published)
	require.NoError(t, err)

	out, total, err := svc.ListPublished(context.Background(), shared.ListFilters{})
	require.NoError(t, err)
	require.Equal(t, 1, total)
	require.Equal(t, "Clay pot", out[0].Name)
}

func TestDeleteGuardsReferencedProducts(t *testing.T) {
	repo := newMockRepository()
	svc := NewService(repo)

	product, err := svc.Create(context.Background(), validForm())
	require.NoError(t, err)

	repo.references[product.ID] = 2
	err = svc.Delete(context.Background(), product.ID)
	require.ErrorIs(t, err, ErrProductReferenced)
	require.Contains(t, repo.products, product.ID)

	repo.references[product.ID] = 0
	require.NoError(t, svc.Delete(context.Background(), product.ID))
	require.NotContains(t, repo.products, product.ID)
}
