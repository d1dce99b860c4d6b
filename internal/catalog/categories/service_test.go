package categories

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/trigardening/trigardening/internal/platform/httpx"
)

type mockRepository struct {
	categories map[int64]Category
	nextID     int64
	products   map[int64]int
}

func newMockRepository() *mockRepository {
	return &mockRepository{categories: make(map[int64]Category), products: make(map[int64]int)}
}

func (m *mockRepository) List(_ context.Context) ([]Category, error) {
	out := make([]Category, 0, len(m.categories))
	for _, c := range m.categories {
		out = append(out, c)
	}
	return out, nil
}

func (m *mockRepository) Get(_ context.Context, id int64) (Category, error) {
	c, ok := m.categories[id]
	if !ok {
		return Category{}, httpx.ErrNotFound
	}
	return c, nil
}

func (m *mockRepository) Create(_ context.Context, category Category) (Category, error) {
	m.nextID++
	category.ID = m.nextID
	m.categories[category.ID] = category
	return category, nil
}

func (m *mockRepository) Update(_ context.Context, id int64, category Category) error {
	if _, ok := m.categories[id]; !ok {
		return httpx.ErrNotFound
	}
	category.ID = id
	m.categories[id] = category
	return nil
}

func (m *mockRepository) Delete(_ context.Context, id int64) error {
	if _, ok := m.categories[id]; !ok {
		return httpx.ErrNotFound
	}
	delete(m.categories, id)
	return nil
}

func (m *mockRepository) CountProducts(_ context.Context, id int64) (int, error) {
	return m.products[id], nil
}

func TestCreateSlugifiesName(t *testing.T) {
	repo := newMockRepository()
	svc := NewService(repo)

	created, err := svc.Create(context.Background(), Category{Name: "Indoor Plants"})
	require.NoError(t, err)
	require.Equal(t, "indoor-plants", created.Slug)
}

func TestDeleteGuardsReferencedCategories(t *testing.T) {
	repo := newMockRepository()
	svc := NewService(repo)

	created, err := svc.Create(context.Background(), Category{Name: "Seeds"})
	require.NoError(t, err)

	repo.products[created.ID] = 3
	err = svc.Delete(context.Background(), created.ID)
	require.ErrorIs(t, err, ErrCategoryReferenced)
	require.ErrorIs(t, err, httpx.ErrDuplicate)
	_, err = svc.Get(context.Background(), created.ID)
	require.NoError(t, err)

	repo.products[created.ID] = 0
	require.NoError(t, svc.Delete(context.Background(), created.ID))
	_, err = svc.Get(context.Background(), created.ID)
	require.ErrorIs(t, err, httpx.ErrNotFound)
}
