package settings

import (
	"context"
	"encoding/json"
	"log/slog"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/trigardening/trigardening/internal/platform/httpx"
)

type mockRepository struct {
	docs  map[string]Setting
	reads int
}

func newMockRepository() *mockRepository {
	return &mockRepository{docs: make(map[string]Setting)}
}

func (m *mockRepository) Get(_ context.Context, key string) (Setting, error) {
	m.reads++
	s, ok := m.docs[key]
	if !ok {
		return Setting{}, httpx.ErrNotFound
	}
	return s, nil
}

func (m *mockRepository) Upsert(_ context.Context, setting *Setting) error {
	prev, ok := m.docs[setting.Key]
	if ok {
		setting.Version = prev.Version + 1
	} else {
		setting.Version = 1
	}
	setting.UpdatedAt = time.Now()
	m.docs[setting.Key] = *setting
	return nil
}

func testService(t *testing.T) (*Service, *mockRepository) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	repo := newMockRepository()
	return NewService(slog.Default(), repo, rdb, time.Minute), repo
}

func TestGetCachesDocument(t *testing.T) {
	svc, repo := testService(t)
	repo.docs["homepage"] = Setting{Key: "homepage", Value: json.RawMessage(`{"hero":"spring"}`), Version: 1}

	first, err := svc.Get(context.Background(), "homepage")
	require.NoError(t, err)
	require.Equal(t, int64(1), first.Version)

	second, err := svc.Get(context.Background(), "homepage")
	require.NoError(t, err)
	require.JSONEq(t, `{"hero":"spring"}`, string(second.Value))
	require.Equal(t, 1, repo.reads)
}

func TestGetUnknownKey(t *testing.T) {
	svc, _ := testService(t)
	_, err := svc.Get(context.Background(), "missing")
	require.ErrorIs(t, err, httpx.ErrNotFound)

	_, err = svc.Get(context.Background(), "")
	require.ErrorIs(t, err, httpx.ErrValidation)
}

func TestPutBumpsVersionAndRefreshesCache(t *testing.T) {
	svc, _ := testService(t)

	created, err := svc.Put(context.Background(), "footer", json.RawMessage(`{"links":[]}`), 1)
	require.NoError(t, err)
	require.Equal(t, int64(1), created.Version)

	updated, err := svc.Put(context.Background(), "footer", json.RawMessage(`{"links":["about"]}`), 1)
	require.NoError(t, err)
	require.Equal(t, int64(2), updated.Version)

	// Readers must see the new version immediately, not the cached one.
	got, err := svc.Get(context.Background(), "footer")
	require.NoError(t, err)
	require.Equal(t, int64(2), got.Version)
	require.JSONEq(t, `{"links":["about"]}`, string(got.Value))
}

func TestPutRejectsInvalidJSON(t *testing.T) {
	svc, _ := testService(t)
	_, err := svc.Put(context.Background(), "footer", json.RawMessage(`{broken`), 1)
	require.ErrorIs(t, err, httpx.ErrValidation)
}
