package service

import (
	"context"
	"errors"

	"golang.org/x/crypto/bcrypt"

	"github.com/salonbook/booking-api/internal/core/domain"
	"github.com/salonbook/booking-api/internal/core/ports"
)

// AuthService implements registration and login on top of the user store and
// the token service.
type AuthService struct {
	repo   ports.UserRepository
	tokens ports.TokenService
}

func NewAuthService(repo ports.UserRepository, tokens ports.TokenService) *AuthService {
	return &AuthService{repo: repo, tokens: tokens}
}

func (s *AuthService) Register(ctx context.Context, name, email, password string, role domain.Role) (*domain.User, error) {
	if name == "" || email == "" || password == "" {
		return nil, domain.NewValidationError("body", "name, email, password and role are required")
	}
	if !role.Valid() {
		return nil, domain.NewValidationError("role", "must be one of Admin, Staff, Customer")
	}

	if _, err := s.repo.FindByEmail(ctx, email); err == nil {
		return nil, domain.ErrEmailTaken
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
	}

	// the unique index on email is the authoritative guard against a
	// concurrent registration slipping past the lookup above
	return s.repo.Create(ctx, user)
}

// Login verifies the credentials and issues a signed identity token. An
// unknown email and a wrong password are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	if email == "" || password == "" {
		return "", nil, domain.ErrInvalidCredentials
	}

	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return "", nil, domain.ErrInvalidCredentials
		}
		return "", nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return "", nil, domain.ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user.ID, user.Role)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}
