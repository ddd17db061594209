package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/useraccounts/account-service/internal/core/domain"
	"github.com/useraccounts/account-service/internal/core/ports"
)

// UserService implements account lifecycle operations on top of the
// credential store, applying the owner-or-admin rules before any mutation.
type UserService struct {
	repo   ports.UserRepository
	auth   ports.AuthService
	logger zerolog.Logger
}

func NewUserService(repo ports.UserRepository, auth ports.AuthService, logger zerolog.Logger) *UserService {
	return &UserService{repo: repo, auth: auth, logger: logger}
}

// Register creates an account with the default role "user". A duplicate
// email fails with ErrUserExists.
func (s *UserService) Register(ctx context.Context, email, password string) (*domain.User, error) {
	if email == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	if _, err := s.repo.FindByEmail(ctx, email); err == nil {
		return nil, domain.ErrUserExists
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, err
	}

	hash, err := HashPassword(password)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	user := &domain.User{
		Email:        email,
		PasswordHash: hash,
		Role:         domain.RoleUser,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	created, err := s.repo.Create(ctx, user)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("email", created.Email).Msg("user registered")
	return created, nil
}

func (s *UserService) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return s.repo.FindByEmail(ctx, email)
}

func (s *UserService) List(ctx context.Context, filter ports.UserFilter) ([]*domain.User, error) {
	return s.repo.List(ctx, filter)
}

// Update mutates target's self-serve fields. Only the owner or an admin
// may call it.
func (s *UserService) Update(ctx context.Context, caller, target *domain.User, input ports.UpdateUserInput) (*domain.User, error) {
	if err := s.auth.RequireOwnerOrAdmin(caller, target); err != nil {
		return nil, err
	}
	return s.repo.UpdateFields(ctx, target, ports.UserUpdateFields{IsActive: input.IsActive})
}

// UpdateRole changes target's role. Admin-only regardless of ownership: a
// user can never change their own role.
func (s *UserService) UpdateRole(ctx context.Context, caller, target *domain.User, role domain.Role) (*domain.User, error) {
	if _, err := s.auth.RequireAdmin(caller); err != nil {
		return nil, err
	}
	if !role.Valid() {
		return nil, domain.ErrInvalidRole
	}

	updated, err := s.repo.UpdateFields(ctx, target, ports.UserUpdateFields{Role: &role})
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("email", target.Email).
		Str("role", string(role)).
		Str("changed_by", caller.Email).
		Msg("user role updated")
	return updated, nil
}

// Delete removes target. Only the owner or an admin may call it.
func (s *UserService) Delete(ctx context.Context, caller, target *domain.User) error {
	if err := s.auth.RequireOwnerOrAdmin(caller, target); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, target); err != nil {
		return err
	}

	s.logger.Info().Str("email", target.Email).Msg("user deleted")
	return nil
}

// EnsureAdmin seeds an active admin account when the store has none.
// Called once at startup so the admin-exists invariant holds from the
// first request on.
func (s *UserService) EnsureAdmin(ctx context.Context, email, password string) error {
	adminRole := domain.RoleAdmin
	admins, err := s.repo.List(ctx, ports.UserFilter{Role: &adminRole})
	if err != nil {
		return err
	}
	for _, a := range admins {
		if a.IsActive {
			return nil
		}
	}

	hash, err := HashPassword(password)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	_, err = s.repo.Create(ctx, &domain.User{
		Email:        email,
		PasswordHash: hash,
		Role:         domain.RoleAdmin,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil && !errors.Is(err, domain.ErrUserExists) {
		return err
	}

	s.logger.Info().Str("email", email).Msg("seeded initial admin user")
	return nil
}
