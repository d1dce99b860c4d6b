package shared

import "context"

// Role names carried in access tokens.
const (
	RoleCustomer = "customer"
	RoleAdmin    = "admin"
)

// Identity describes the authenticated caller of a request.
type Identity struct {
	UserID int64
	Phone  string
	Role   string
}

// IsAdmin reports whether the identity carries the admin role.
func (id Identity) IsAdmin() bool {
	return id.Role == RoleAdmin
}

type identityContextKey struct{}

// ContextWithIdentity stores the caller identity in context.
func ContextWithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityContextKey{}, id)
}

// IdentityFromContext extracts the caller identity from context.
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityContextKey{}).(Identity)
	return id, ok
}
