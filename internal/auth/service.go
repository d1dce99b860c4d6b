package auth

import (
	"context"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/trigardening/trigardening/internal/shared"
)

// Service wraps authentication business rules.
type Service struct {
	repo   Repository
	tokens *TokenIssuer
}

// NewService constructs a new Service.
func NewService(repo Repository, tokens *TokenIssuer) *Service {
	return &Service{repo: repo, tokens: tokens}
}

// Register creates a customer account and returns it with a signed token.
func (s *Service) Register(ctx context.Context, phone, name, password string) (*User, string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", err
	}
	id, err := s.repo.Create(ctx, User{
		Phone:        phone,
		Name:         name,
		PasswordHash: string(hash),
		Role:         shared.RoleCustomer,
	})
	if err != nil {
		return nil, "", err
	}
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, "", err
	}
	token, err := s.tokens.Issue(user, time.Now())
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// Authenticate validates phone/password credentials and issues a token.
func (s *Service) Authenticate(ctx context.Context, phone, password string) (*User, string, error) {
	user, err := s.repo.FindByPhone(ctx, phone)
	if err != nil {
		return nil, "", shared.ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, "", shared.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, "", shared.ErrInvalidCredentials
	}
	token, err := s.tokens.Issue(user, time.Now())
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// Me returns the account behind the given identity.
func (s *Service) Me(ctx context.Context, id shared.Identity) (*User, error) {
	return s.repo.FindByID(ctx, id.UserID)
}
