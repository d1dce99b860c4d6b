package addresses

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/trigardening/trigardening/internal/platform/httpx"
)

type Repository interface {
	ListByUser(ctx context.Context, userID int64) ([]Address, error)
	Get(ctx context.Context, userID, id int64) (Address, error)
	Create(ctx context.Context, addr *Address) error
	Update(ctx context.Context, addr *Address) error
	Delete(ctx context.Context, userID, id int64) error
}

type pgRepository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) Repository {
	return &pgRepository{pool: pool}
}

const addressColumns = `id, user_id, full_name, phone, thana, district, full_address, created_at, updated_at`

func scanAddress(row pgx.Row) (Address, error) {
	var a Address
	err := row.Scan(&a.ID, &a.UserID, &a.FullName, &a.Phone, &a.Thana, &a.District, &a.FullAddress, &a.CreatedAt, &a.UpdatedAt)
	return a, err
}

func (r *pgRepository) ListByUser(ctx context.Context, userID int64) ([]Address, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+addressColumns+` FROM addresses WHERE user_id = $1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Address, 0)
	for rows.Next() {
		a, err := scanAddress(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *pgRepository) Get(ctx context.Context, userID, id int64) (Address, error) {
	a, err := scanAddress(r.pool.QueryRow(ctx, `SELECT `+addressColumns+` FROM addresses WHERE id = $1 AND user_id = $2`, id, userID))
	if errors.Is(err, pgx.ErrNoRows) {
		return Address{}, httpx.ErrNotFound
	}
	return a, err
}

func (r *pgRepository) Create(ctx context.Context, addr *Address) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO addresses (user_id, full_name, phone, thana, district, full_address)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id, created_at, updated_at`,
		addr.UserID, addr.FullName, addr.Phone, addr.Thana, addr.District, addr.FullAddress,
	).Scan(&addr.ID, &addr.CreatedAt, &addr.UpdatedAt)
}

func (r *pgRepository) Update(ctx context.Context, addr *Address) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE addresses
		 SET full_name = $3, phone = $4, thana = $5, district = $6, full_address = $7, updated_at = NOW()
		 WHERE id = $1 AND user_id = $2`,
		addr.ID, addr.UserID, addr.FullName, addr.Phone, addr.Thana, addr.District, addr.FullAddress)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return httpx.ErrNotFound
	}
	return nil
}

func (r *pgRepository) Delete(ctx context.Context, userID, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM addresses WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return httpx.ErrNotFound
	}
	return nil
}
