package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/trigardening/trigardening/internal/shared"
)

// ErrInvalidToken indicates a token that failed parsing or verification.
var ErrInvalidToken = errors.New("invalid token")

// Claims carried by TriGardening access tokens.
type Claims struct {
	UserID int64  `json:"id"`
	Phone  string `json:"phone"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// TokenIssuer signs and verifies access tokens.
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenIssuer constructs a TokenIssuer.
func NewTokenIssuer(secret string, ttl time.Duration) *TokenIssuer {
	return &TokenIssuer{secret: []byte(secret), ttl: ttl}
}

// Issue generates a signed token for the user.
func (t *TokenIssuer) Issue(user *User, now time.Time) (string, error) {
	claims := &Claims{
		UserID: user.ID,
		Phone:  user.Phone,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
			Issuer:    "trigardening",
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(t.secret)
}

// Verify parses a signed token and returns the caller identity.
func (t *TokenIssuer) Verify(tokenString string) (shared.Identity, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return t.secret, nil
	})
	if err != nil {
		return shared.Identity{}, ErrInvalidToken
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return shared.Identity{}, ErrInvalidToken
	}
	return shared.Identity{UserID: claims.UserID, Phone: claims.Phone, Role: claims.Role}, nil
}
