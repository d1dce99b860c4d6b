package categories

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/trigardening/trigardening/internal/platform/httpx"
)

type Repository interface {
	List(ctx context.Context) ([]Category, error)
	Get(ctx context.Context, id int64) (Category, error)
	Create(ctx context.Context, category Category) (Category, error)
	Update(ctx context.Context, id int64, category Category) error
	Delete(ctx context.Context, id int64) error
	CountProducts(ctx context.Context, id int64) (int, error)
}

type repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Repository {
	return &repository{db: db}
}

func (r *repository) List(ctx context.Context) ([]Category, error) {
	rows, err := r.db.Query(ctx, `SELECT id, name, slug, created_at, updated_at FROM categories ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []Category
	for rows.Next() {
		var c Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Slug, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

func (r *repository) Get(ctx context.Context, id int64) (Category, error) {
	var c Category
	err := r.db.QueryRow(ctx, `SELECT id, name, slug, created_at, updated_at FROM categories WHERE id = $1`, id).
		Scan(&c.ID, &c.Name, &c.Slug, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Category{}, httpx.ErrNotFound
	}
	return c, err
}

func (r *repository) Create(ctx context.Context, category Category) (Category, error) {
	now := time.Now()
	err := r.db.QueryRow(ctx,
		`INSERT INTO categories (name, slug, created_at, updated_at) VALUES ($1, $2, $3, $4) RETURNING id`,
		category.Name, category.Slug, now, now).Scan(&category.ID)
	if err != nil {
		return Category{}, mapConstraint(err)
	}
	category.CreatedAt = now
	category.UpdatedAt = now
	return category, nil
}

func (r *repository) Update(ctx context.Context, id int64, category Category) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE categories SET name = $1, slug = $2, updated_at = $3 WHERE id = $4`,
		category.Name, category.Slug, time.Now(), id)
	if err != nil {
		return mapConstraint(err)
	}
	if tag.RowsAffected() == 0 {
		return httpx.ErrNotFound
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return ErrCategoryReferenced
		}
		return err
	}
	if tag.RowsAffected() == 0 {
		return httpx.ErrNotFound
	}
	return nil
}

func (r *repository) CountProducts(ctx context.Context, id int64) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM products WHERE category_id = $1`, id).Scan(&count)
	return count, err
}

func mapConstraint(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return httpx.ErrDuplicate
	}
	return err
}
