package products

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/trigardening/trigardening/internal/auth"
	"github.com/trigardening/trigardening/internal/shared"
)

func testRouter(t *testing.T, repo *mockRepository) (*chi.Mux, *auth.TokenIssuer) {
	t.Helper()
	logger := slog.Default()
	tokens := auth.NewTokenIssuer("test-secret", time.Hour)
	guard := auth.Middleware{Tokens: tokens, Logger: logger}
	handler := NewHandler(logger, NewService(repo), guard)

	r := chi.NewRouter()
	r.Route("/products", func(pr chi.Router) {
		pr.Use(guard.Identify)
		handler.MountRoutes(pr)
	})
	return r, tokens
}

func TestShowHidesDraftsFromAnonymous(t *testing.T) {
	repo := newMockRepository()
	_, err := repo.Create(context.Background(), Product{Name: "Compost bin", Status: ProductStatusDraft})
	require.NoError(t, err)
	router, _ := testRouter(t, repo)

	req := httptest.NewRequest(http.MethodGet, "/products/1", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestShowRevealsDraftsToAdmins(t *testing.T) {
	repo := newMockRepository()
	_, err := repo.Create(context.Background(), Product{Name: "Compost bin", Status: ProductStatusDraft})
	require.NoError(t, err)
	router, tokens := testRouter(t, repo)

	token, err := tokens.Issue(&auth.User{ID: 1, Phone: "017", Role: shared.RoleAdmin}, time.Now())
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/products/1", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
}

func TestShowIgnoresCustomerTokensForDrafts(t *testing.T) {
	repo := newMockRepository()
	_, err := repo.Create(context.Background(), Product{Name: "Compost bin", Status: ProductStatusDraft})
	require.NoError(t, err)
	router, tokens := testRouter(t, repo)

	token, err := tokens.Issue(&auth.User{ID: 2, Phone: "018", Role: shared.RoleCustomer}, time.Now())
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/products/1", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)
}
