package ports

import (
	"context"

	"github.com/useraccounts/account-service/internal/core/domain"
)

// UpdateUserInput carries the self-serve mutable fields of a user.
type UpdateUserInput struct {
	IsActive *bool
}

type UserService interface {
	// Register creates an account with the default role "user".
	Register(ctx context.Context, email, password string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	List(ctx context.Context, filter UserFilter) ([]*domain.User, error)
	// Update mutates target's fields; permitted for the owner or an admin.
	Update(ctx context.Context, caller, target *domain.User, input UpdateUserInput) (*domain.User, error)
	// UpdateRole changes target's role; admin-only, never self-serve.
	UpdateRole(ctx context.Context, caller, target *domain.User, role domain.Role) (*domain.User, error)
	// Delete removes target; permitted for the owner or an admin.
	Delete(ctx context.Context, caller, target *domain.User) error
	// EnsureAdmin seeds an active admin account when none exists yet.
	EnsureAdmin(ctx context.Context, email, password string) error
}
