package users

import (
	"context"
	"errors"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/trigardening/trigardening/internal/platform/httpx"
)

type Repository interface {
	List(ctx context.Context, search string, limit, offset int) ([]Account, int, error)
	Get(ctx context.Context, id int64) (Account, error)
	CreditWallet(ctx context.Context, id int64, amount int64) (Account, error)
}

type pgRepository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) Repository {
	return &pgRepository{pool: pool}
}

const accountColumns = `id, phone, name, role, wallet_balance, is_active, created_at`

func scanAccount(row pgx.Row) (Account, error) {
	var a Account
	err := row.Scan(&a.ID, &a.Phone, &a.Name, &a.Role, &a.WalletBalance, &a.IsActive, &a.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Account{}, httpx.ErrNotFound
	}
	return a, err
}

func (r *pgRepository) List(ctx context.Context, search string, limit, offset int) ([]Account, int, error) {
	where := ``
	args := []any{}
	if search != "" {
		args = append(args, "%"+search+"%")
		where = ` WHERE phone ILIKE $1 OR name ILIKE $1`
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM users`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + accountColumns + ` FROM users` + where + ` ORDER BY created_at DESC`
	args = append(args, limit)
	query += ` LIMIT $` + strconv.Itoa(len(args))
	args = append(args, offset)
	query += ` OFFSET $` + strconv.Itoa(len(args))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := make([]Account, 0)
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, a)
	}
	return out, total, rows.Err()
}

func (r *pgRepository) Get(ctx context.Context, id int64) (Account, error) {
	return scanAccount(r.pool.QueryRow(ctx, `SELECT `+accountColumns+` FROM users WHERE id = $1`, id))
}

func (r *pgRepository) CreditWallet(ctx context.Context, id int64, amount int64) (Account, error) {
	a, err := scanAccount(r.pool.QueryRow(ctx,
		`UPDATE users SET wallet_balance = wallet_balance + $2, updated_at = NOW()
		 WHERE id = $1
		 RETURNING `+accountColumns, id, amount))
	return a, err
}
