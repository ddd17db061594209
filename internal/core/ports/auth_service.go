package ports

import (
	"context"

	"github.com/useraccounts/account-service/internal/core/domain"
)

// AuthService is the policy engine: it answers who the caller is and
// whether the caller may act.
type AuthService interface {
	// AuthUser checks email+password against the credential store. A
	// missing user and a wrong password both fail with the same
	// domain.ErrInvalidCredentials.
	AuthUser(ctx context.Context, email, password string) (*domain.User, error)
	// Login authenticates and issues a bearer token for the user.
	Login(ctx context.Context, email, password string) (string, *domain.User, error)
	// RequireUser resolves a bearer token to its owning user. An invalid
	// token and a token whose subject no longer exists both fail with the
	// same domain.ErrInvalidToken.
	RequireUser(ctx context.Context, token string) (*domain.User, error)
	// RequireAdmin returns the user unchanged when it holds the admin
	// role, domain.ErrInsufficientPermissions otherwise.
	RequireAdmin(user *domain.User) (*domain.User, error)
	// RequireOwnerOrAdmin permits a mutation on target when the caller is
	// an admin or the target itself.
	RequireOwnerOrAdmin(caller, target *domain.User) error
}
