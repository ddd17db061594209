package service

import (
	"context"
	"errors"

	"github.com/useraccounts/account-service/internal/core/domain"
	"github.com/useraccounts/account-service/internal/core/ports"
)

// AuthService implements the request-scoped authentication and
// authorization rules: login, token resolution, and permission predicates.
type AuthService struct {
	repo   ports.UserRepository
	tokens ports.TokenService
}

func NewAuthService(repo ports.UserRepository, tokens ports.TokenService) *AuthService {
	return &AuthService{repo: repo, tokens: tokens}
}

// AuthUser checks the given credentials against the store. Whether the user
// is missing or the password is wrong is deliberately not revealed: both
// cases surface the same ErrInvalidCredentials.
func (s *AuthService) AuthUser(ctx context.Context, email, password string) (*domain.User, error) {
	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}
	if !VerifyPassword(password, user.PasswordHash) {
		return nil, domain.ErrInvalidCredentials
	}
	return user, nil
}

// Login authenticates and mints a bearer token with the subject set to the
// user's email.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	user, err := s.AuthUser(ctx, email, password)
	if err != nil {
		return "", nil, err
	}

	token, err := s.tokens.Issue(user.Email, 0)
	if err != nil {
		return "", nil, err
	}

	return token, user, nil
}

// RequireUser resolves a bearer token to its owning user. A token whose
// subject has no matching account (deleted after issuance) fails exactly
// like a bad token, so callers cannot probe which case occurred.
func (s *AuthService) RequireUser(ctx context.Context, token string) (*domain.User, error) {
	subject, err := s.tokens.Validate(token)
	if err != nil {
		return nil, domain.ErrInvalidToken
	}

	user, err := s.repo.FindByEmail(ctx, subject)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidToken
		}
		return nil, err
	}

	return user, nil
}

// RequireAdmin returns the user unchanged when it holds the admin role.
func (s *AuthService) RequireAdmin(user *domain.User) (*domain.User, error) {
	if user == nil || !user.IsAdmin() {
		return nil, domain.ErrInsufficientPermissions
	}
	return user, nil
}

// RequireOwnerOrAdmin permits a mutation on target when the caller is an
// admin or owns the resource.
func (s *AuthService) RequireOwnerOrAdmin(caller, target *domain.User) error {
	if caller == nil || target == nil {
		return domain.ErrInsufficientPermissions
	}
	if caller.IsAdmin() || caller.ID == target.ID {
		return nil
	}
	return domain.ErrInsufficientPermissions
}
