package ports

import (
	"context"

	"github.com/useraccounts/account-service/internal/core/domain"
)

// UserFilter narrows List results. Nil fields are ignored.
type UserFilter struct {
	Role   *domain.Role
	Offset *int64
	Limit  *int64
}

// UserUpdateFields carries the mutable columns of a user. Nil fields are
// left untouched.
type UserUpdateFields struct {
	Role     *domain.Role
	IsActive *bool
}

// UserRepository is the credential store. Each Create/UpdateFields/Delete
// commits durably before returning.
type UserRepository interface {
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	List(ctx context.Context, filter UserFilter) ([]*domain.User, error)
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	UpdateFields(ctx context.Context, user *domain.User, fields UserUpdateFields) (*domain.User, error)
	Delete(ctx context.Context, user *domain.User) error
}
