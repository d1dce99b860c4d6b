package settings

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"github.com/trigardening/trigardening/internal/platform/httpx"
)

// Service reads settings through a redis cache. Concurrent cache misses
// for the same key collapse into one database read via singleflight.
type Service struct {
	repo   Repository
	redis  *redis.Client
	ttl    time.Duration
	group  singleflight.Group
	logger *slog.Logger
}

func NewService(logger *slog.Logger, repo Repository, rdb *redis.Client, ttl time.Duration) *Service {
	return &Service{logger: logger, repo: repo, redis: rdb, ttl: ttl}
}

func cacheKey(key string) string {
	return "settings:" + key
}

func (s *Service) Get(ctx context.Context, key string) (Setting, error) {
	if key == "" {
		return Setting{}, fmt.Errorf("%w: setting key is required", httpx.ErrValidation)
	}
	if s.redis != nil {
		raw, err := s.redis.Get(ctx, cacheKey(key)).Bytes()
		if err == nil {
			var cached Setting
			if err := json.Unmarshal(raw, &cached); err == nil {
				return cached, nil
			}
		} else if err != redis.Nil {
			s.logger.Warn("settings cache read failed", slog.String("key", key), slog.Any("error", err))
		}
	}

	v, err, _ := s.group.Do(key, func() (any, error) {
		setting, err := s.repo.Get(ctx, key)
		if err != nil {
			return Setting{}, err
		}
		s.fill(ctx, setting)
		return setting, nil
	})
	if err != nil {
		return Setting{}, err
	}
	return v.(Setting), nil
}

// Put writes through to the store and refreshes the cache so readers
// never serve the previous version past the write.
func (s *Service) Put(ctx context.Context, key string, value json.RawMessage, updatedBy int64) (Setting, error) {
	if key == "" {
		return Setting{}, fmt.Errorf("%w: setting key is required", httpx.ErrValidation)
	}
	if !json.Valid(value) {
		return Setting{}, fmt.Errorf("%w: value must be valid JSON", httpx.ErrValidation)
	}
	setting := Setting{Key: key, Value: value, UpdatedBy: updatedBy}
	if err := s.repo.Upsert(ctx, &setting); err != nil {
		return Setting{}, err
	}
	s.fill(ctx, setting)
	return setting, nil
}

func (s *Service) fill(ctx context.Context, setting Setting) {
	if s.redis == nil {
		return
	}
	raw, err := json.Marshal(setting)
	if err != nil {
		return
	}
	if err := s.redis.Set(ctx, cacheKey(setting.Key), raw, s.ttl).Err(); err != nil {
		s.logger.Warn("settings cache write failed", slog.String("key", setting.Key), slog.Any("error", err))
	}
}
