package orders

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/trigardening/trigardening/internal/auth"
	"github.com/trigardening/trigardening/internal/shared"
)

func testRouter(t *testing.T, repo *memoryRepo) (*chi.Mux, *auth.TokenIssuer) {
	t.Helper()
	logger := slog.Default()
	svc := NewService(repo, nil, nil, logger)
	handler := NewHandler(logger, svc, nil)
	tokens := auth.NewTokenIssuer("test-secret", time.Hour)
	guard := auth.Middleware{Tokens: tokens, Logger: logger}

	r := chi.NewRouter()
	r.Group(func(g chi.Router) {
		g.Use(guard.RequireAuth)
		g.Route("/orders", handler.MountRoutes)
	})
	r.Route("/admin/orders", func(ar chi.Router) {
		ar.Use(guard.RequireRole(shared.RoleAdmin))
		handler.MountAdminRoutes(ar)
	})
	return r, tokens
}

func bearer(t *testing.T, tokens *auth.TokenIssuer, id int64, role string) string {
	t.Helper()
	token, err := tokens.Issue(&auth.User{ID: id, Phone: "017", Role: role}, time.Now())
	require.NoError(t, err)
	return "Bearer " + token
}

func placeBody(t *testing.T, variantID uuid.UUID, qty int) *bytes.Buffer {
	t.Helper()
	body, err := json.Marshal(CreateOrderRequest{
		Items: []CartLine{{VariantID: variantID, Quantity: qty}},
		ShippingAddress: ShippingAddressForm{
			FullName:    "Anika Rahman",
			Phone:       "01700000000",
			Thana:       "Dhanmondi",
			District:    "Dhaka",
			FullAddress: "House 12, Road 5",
		},
		DeliveryCharge: 60,
	})
	require.NoError(t, err)
	return bytes.NewBuffer(body)
}

func TestPlaceOrderEndpoint(t *testing.T) {
	repo := newMemoryRepo()
	seedID := repo.addVariant("Seed packet", 500, 5)
	router, tokens := testRouter(t, repo)

	req := httptest.NewRequest(http.MethodPost, "/orders", placeBody(t, seedID, 2))
	req.Header.Set("Authorization", bearer(t, tokens, 7, shared.RoleCustomer))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	var order Order
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &order))
	require.Equal(t, "TG-0001", order.OrderID)
	require.Equal(t, int64(1060), order.TotalAmount)
	require.Equal(t, 3, repo.variants[seedID].Stock)
}

func TestPlaceOrderRequiresToken(t *testing.T) {
	repo := newMemoryRepo()
	seedID := repo.addVariant("Seed packet", 500, 5)
	router, _ := testRouter(t, repo)

	req := httptest.NewRequest(http.MethodPost, "/orders", placeBody(t, seedID, 1))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestInsufficientStockMapsToUnprocessable(t *testing.T) {
	repo := newMemoryRepo()
	seedID := repo.addVariant("Seed packet", 500, 1)
	router, tokens := testRouter(t, repo)

	req := httptest.NewRequest(http.MethodPost, "/orders", placeBody(t, seedID, 4))
	req.Header.Set("Authorization", bearer(t, tokens, 7, shared.RoleCustomer))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	require.Contains(t, rec.Body.String(), "Seed packet")
}

func TestAdminRoutesRejectCustomers(t *testing.T) {
	repo := newMemoryRepo()
	router, tokens := testRouter(t, repo)

	req := httptest.NewRequest(http.MethodGet, "/admin/orders", nil)
	req.Header.Set("Authorization", bearer(t, tokens, 7, shared.RoleCustomer))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusForbidden, rec.Code)
}

func TestAdminStatusUpdateEndpoint(t *testing.T) {
	repo := newMemoryRepo()
	seedID := repo.addVariant("Seed packet", 500, 5)
	router, tokens := testRouter(t, repo)

	req := httptest.NewRequest(http.MethodPost, "/orders", placeBody(t, seedID, 1))
	req.Header.Set("Authorization", bearer(t, tokens, 7, shared.RoleCustomer))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code)

	body, err := json.Marshal(UpdateStatusRequest{OrderID: "TG-0001", Status: OrderStatusShipped})
	require.NoError(t, err)
	req = httptest.NewRequest(http.MethodPut, "/admin/orders/status", bytes.NewBuffer(body))
	req.Header.Set("Authorization", bearer(t, tokens, 1, shared.RoleAdmin))
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var updated Order
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &updated))
	require.Equal(t, OrderStatusShipped, updated.Status)
}

func TestCustomerCannotFetchForeignOrder(t *testing.T) {
	repo := newMemoryRepo()
	seedID := repo.addVariant("Seed packet", 500, 5)
	router, tokens := testRouter(t, repo)

	req := httptest.NewRequest(http.MethodPost, "/orders", placeBody(t, seedID, 1))
	req.Header.Set("Authorization", bearer(t, tokens, 7, shared.RoleCustomer))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code)

	var placed Order
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &placed))

	req = httptest.NewRequest(http.MethodGet, fmt.Sprintf("/orders/%d", placed.ID), nil)
	req.Header.Set("Authorization", bearer(t, tokens, 8, shared.RoleCustomer))
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusNotFound, rec.Code)
}
