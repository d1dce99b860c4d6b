package blogs

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/trigardening/trigardening/internal/platform/httpx"
)

type Repository interface {
	List(ctx context.Context, publishedOnly bool) ([]Blog, error)
	GetBySlug(ctx context.Context, slug string) (Blog, error)
	Get(ctx context.Context, id int64) (Blog, error)
	Create(ctx context.Context, blog *Blog) error
	Update(ctx context.Context, blog *Blog) error
	Delete(ctx context.Context, id int64) error
}

type pgRepository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) Repository {
	return &pgRepository{pool: pool}
}

const blogColumns = `id, title, slug, cover_image, body, published, created_at, updated_at`

func scanBlog(row pgx.Row) (Blog, error) {
	var b Blog
	err := row.Scan(&b.ID, &b.Title, &b.Slug, &b.CoverImage, &b.Body, &b.Published, &b.CreatedAt, &b.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Blog{}, httpx.ErrNotFound
	}
	return b, err
}

func (r *pgRepository) List(ctx context.Context, publishedOnly bool) ([]Blog, error) {
	query := `SELECT ` + blogColumns + ` FROM blogs`
	if publishedOnly {
		query += ` WHERE published`
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Blog, 0)
	for rows.Next() {
		b, err := scanBlog(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (r *pgRepository) GetBySlug(ctx context.Context, slug string) (Blog, error) {
	return scanBlog(r.pool.QueryRow(ctx, `SELECT `+blogColumns+` FROM blogs WHERE slug = $1`, slug))
}

func (r *pgRepository) Get(ctx context.Context, id int64) (Blog, error) {
	return scanBlog(r.pool.QueryRow(ctx, `SELECT `+blogColumns+` FROM blogs WHERE id = $1`, id))
}

func (r *pgRepository) Create(ctx context.Context, blog *Blog) error {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO blogs (title, slug, cover_image, body, published)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, created_at, updated_at`,
		blog.Title, blog.Slug, blog.CoverImage, blog.Body, blog.Published,
	).Scan(&blog.ID, &blog.CreatedAt, &blog.UpdatedAt)
	return mapConstraint(err)
}

func (r *pgRepository) Update(ctx context.Context, blog *Blog) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE blogs SET title = $2, slug = $3, cover_image = $4, body = $5, published = $6, updated_at = NOW() WHERE id = $1`,
		blog.ID, blog.Title, blog.Slug, blog.CoverImage, blog.Body, blog.Published)
	if err != nil {
		return mapConstraint(err)
	}
	if tag.RowsAffected() == 0 {
		return httpx.ErrNotFound
	}
	return nil
}

func (r *pgRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM blogs WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return httpx.ErrNotFound
	}
	return nil
}

func mapConstraint(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return httpx.ErrDuplicate
	}
	return err
}
