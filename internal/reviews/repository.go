package reviews

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/trigardening/trigardening/internal/platform/httpx"
)

type Repository interface {
	ListByProduct(ctx context.Context, productID int64) ([]Review, error)
	Create(ctx context.Context, review *Review) error
	Delete(ctx context.Context, id int64) error
}

type pgRepository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) Repository {
	return &pgRepository{pool: pool}
}

func (r *pgRepository) ListByProduct(ctx context.Context, productID int64) ([]Review, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT rv.id, rv.product_id, rv.user_id, u.name, rv.rating, rv.comment, rv.created_at
		 FROM reviews rv
		 JOIN users u ON u.id = rv.user_id
		 WHERE rv.product_id = $1
		 ORDER BY rv.created_at DESC`, productID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Review, 0)
	for rows.Next() {
		var rv Review
		if err := rows.Scan(&rv.ID, &rv.ProductID, &rv.UserID, &rv.UserName, &rv.Rating, &rv.Comment, &rv.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, rv)
	}
	return out, rows.Err()
}

func (r *pgRepository) Create(ctx context.Context, review *Review) error {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO reviews (product_id, user_id, rating, comment)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, created_at`,
		review.ProductID, review.UserID, review.Rating, review.Comment,
	).Scan(&review.ID, &review.CreatedAt)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505":
			return httpx.ErrDuplicate
		case "23503":
			return httpx.ErrNotFound
		}
	}
	return err
}

func (r *pgRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM reviews WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return httpx.ErrNotFound
	}
	return nil
}
