package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/trigardening/trigardening/internal/shared"
)

func TestTokenRoundTrip(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", time.Hour)
	user := User{ID: 42, Phone: "01700000000", Role: shared.RoleCustomer}

	token, err := issuer.Issue(&user, time.Now())
	require.NoError(t, err)
	require.NotEmpty(t, token)

	identity, err := issuer.Verify(token)
	require.NoError(t, err)
	require.Equal(t, int64(42), identity.UserID)
	require.Equal(t, "01700000000", identity.Phone)
	require.Equal(t, shared.RoleCustomer, identity.Role)
	require.False(t, identity.IsAdmin())
}

func TestTokenCarriesAdminRole(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", time.Hour)
	token, err := issuer.Issue(&User{ID: 1, Phone: "018", Role: shared.RoleAdmin}, time.Now())
	require.NoError(t, err)

	identity, err := issuer.Verify(token)
	require.NoError(t, err)
	require.True(t, identity.IsAdmin())
}

func TestTokenRejectsGarbage(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", time.Hour)
	_, err := issuer.Verify("not-a-token")
	require.Error(t, err)
}

func TestTokenRejectsWrongSecret(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", time.Hour)
	token, err := issuer.Issue(&User{ID: 1, Phone: "017", Role: shared.RoleCustomer}, time.Now())
	require.NoError(t, err)

	other := NewTokenIssuer("different-secret", time.Hour)
	_, err = other.Verify(token)
	require.Error(t, err)
}

func TestTokenRejectsExpired(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", time.Minute)
	token, err := issuer.Issue(&User{ID: 1, Phone: "017", Role: shared.RoleCustomer}, time.Now().Add(-2*time.Minute))
	require.NoError(t, err)

	_, err = issuer.Verify(token)
	require.Error(t, err)
}
