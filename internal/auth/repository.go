package auth

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/trigardening/trigardening/internal/shared"
)

// ErrPhoneTaken indicates the phone number is already registered.
var ErrPhoneTaken = errors.New("phone number already registered")

// Repository defines persistence operations for the auth module.
type Repository interface {
	FindByPhone(ctx context.Context, phone string) (*User, error)
	FindByID(ctx context.Context, id int64) (*User, error)
	Create(ctx context.Context, user User) (int64, error)
}

// PGRepository implements Repository using PostgreSQL.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

const userColumns = `id, phone, name, password_hash, role, wallet_balance, is_active, created_at, updated_at`

func scanUser(row pgx.Row) (*User, error) {
	var u User
	err := row.Scan(&u.ID, &u.Phone, &u.Name, &u.PasswordHash, &u.Role, &u.WalletBalance, &u.IsActive, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

// FindByPhone fetches a user by phone number.
func (r *PGRepository) FindByPhone(ctx context.Context, phone string) (*User, error) {
	return scanUser(r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE phone = $1`, phone))
}

// FindByID fetches a user by internal id.
func (r *PGRepository) FindByID(ctx context.Context, id int64) (*User, error) {
	return scanUser(r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
}

// Create inserts a new user account.
func (r *PGRepository) Create(ctx context.Context, user User) (int64, error) {
	var id int64
	err := r.pool.QueryRow(ctx,
		`INSERT INTO users (phone, name, password_hash, role, wallet_balance, is_active, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, 0, TRUE, NOW(), NOW()) RETURNING id`,
		user.Phone, user.Name, user.PasswordHash, user.Role).Scan(&id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return 0, ErrPhoneTaken
		}
		return 0, err
	}
	return id, nil
}

var _ Repository = (*PGRepository)(nil)
