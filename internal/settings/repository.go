package settings

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/trigardening/trigardening/internal/platform/httpx"
)

type Repository interface {
	Get(ctx context.Context, key string) (Setting, error)
	Upsert(ctx context.Context, setting *Setting) error
}

type pgRepository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) Repository {
	return &pgRepository{pool: pool}
}

func (r *pgRepository) Get(ctx context.Context, key string) (Setting, error) {
	var s Setting
	err := r.pool.QueryRow(ctx,
		`SELECT key, value, version, updated_by, updated_at FROM settings WHERE key = $1`, key,
	).Scan(&s.Key, &s.Value, &s.Version, &s.UpdatedBy, &s.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Setting{}, httpx.ErrNotFound
	}
	return s, err
}

func (r *pgRepository) Upsert(ctx context.Context, setting *Setting) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO settings (key, value, version, updated_by)
		 VALUES ($1, $2, 1, $3)
		 ON CONFLICT (key) DO UPDATE
		 SET value = EXCLUDED.value, version = settings.version + 1, updated_by = EXCLUDED.updated_by, updated_at = NOW()
		 RETURNING version, updated_at`,
		setting.Key, setting.Value, setting.UpdatedBy,
	).Scan(&setting.Version, &setting.UpdatedAt)
}
