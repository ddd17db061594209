package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/useraccounts/account-service/internal/core/domain"
	"github.com/useraccounts/account-service/internal/core/ports"
)

func newTestUsers(t *testing.T) (*UserService, *memUserRepo) {
	t.Helper()
	repo := newMemUserRepo()
	auth := NewAuthService(repo, newTestTokens(t))
	return NewUserService(repo, auth, zerolog.Nop()), repo
}

func TestUserService_Register_DefaultsToUserRole(t *testing.T) {
	svc, _ := newTestUsers(t)

	user, err := svc.Register(context.Background(), "a@b.com", "pw1")
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if user.Role != domain.RoleUser {
		t.Fatalf("expected default role user, got %s", user.Role)
	}
	if !user.IsActive {
		t.Fatalf("expected new user to be active")
	}
	if user.PasswordHash == "pw1" || user.PasswordHash == "" {
		t.Fatalf("password must be stored hashed")
	}
	if !VerifyPassword("pw1", user.PasswordHash) {
		t.Fatalf("stored hash does not verify")
	}
}

func TestUserService_Register_DuplicateEmail(t *testing.T) {
	svc, _ := newTestUsers(t)

	if _, err := svc.Register(context.Background(), "a@b.com", "pw1"); err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if _, err := svc.Register(context.Background(), "a@b.com", "pw2"); !errors.Is(err, domain.ErrUserExists) {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
}

func TestUserService_Register_EmptyInput(t *testing.T) {
	svc, _ := newTestUsers(t)

	if _, err := svc.Register(context.Background(), "", "pw"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for empty email, got %v", err)
	}
	if _, err := svc.Register(context.Background(), "a@b.com", ""); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for empty password, got %v", err)
	}
}

func TestUserService_UpdateRole_AdminOnly(t *testing.T) {
	svc, repo := newTestUsers(t)
	admin := seedUser(t, repo, "root@example.com", "pw", domain.RoleAdmin)
	target := seedUser(t, repo, "a@b.com", "pw", domain.RoleUser)
	other := seedUser(t, repo, "other@example.com", "pw", domain.RoleUser)

	// Non-admin on someone else.
	if _, err := svc.UpdateRole(context.Background(), other, target, domain.RoleAdmin); !errors.Is(err, domain.ErrInsufficientPermissions) {
		t.Fatalf("expected ErrInsufficientPermissions, got %v", err)
	}
	// Non-admin on themselves: still forbidden.
	if _, err := svc.UpdateRole(context.Background(), target, target, domain.RoleAdmin); !errors.Is(err, domain.ErrInsufficientPermissions) {
		t.Fatalf("expected ErrInsufficientPermissions for self promotion, got %v", err)
	}

	updated, err := svc.UpdateRole(context.Background(), admin, target, domain.RoleAdmin)
	if err != nil {
		t.Fatalf("admin role update failed: %v", err)
	}
	if updated.Role != domain.RoleAdmin {
		t.Fatalf("role not updated: %s", updated.Role)
	}

	stored, err := repo.FindByEmail(context.Background(), "a@b.com")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if stored.Role != domain.RoleAdmin {
		t.Fatalf("role change not persisted: %s", stored.Role)
	}
}

func TestUserService_UpdateRole_RejectsUnknownRole(t *testing.T) {
	svc, repo := newTestUsers(t)
	admin := seedUser(t, repo, "root@example.com", "pw", domain.RoleAdmin)
	target := seedUser(t, repo, "a@b.com", "pw", domain.RoleUser)

	if _, err := svc.UpdateRole(context.Background(), admin, target, domain.Role("superuser")); !errors.Is(err, domain.ErrInvalidRole) {
		t.Fatalf("expected ErrInvalidRole, got %v", err)
	}
}

func TestUserService_Update_OwnerOrAdmin(t *testing.T) {
	svc, repo := newTestUsers(t)
	admin := seedUser(t, repo, "root@example.com", "pw", domain.RoleAdmin)
	owner := seedUser(t, repo, "a@b.com", "pw", domain.RoleUser)
	other := seedUser(t, repo, "other@example.com", "pw", domain.RoleUser)

	inactive := false
	active := true

	// Owner may update their own fields.
	updated, err := svc.Update(context.Background(), owner, owner, ports.UpdateUserInput{IsActive: &inactive})
	if err != nil {
		t.Fatalf("owner update failed: %v", err)
	}
	if updated.IsActive {
		t.Fatalf("is_active not updated")
	}

	// A different non-admin may not.
	if _, err := svc.Update(context.Background(), other, owner, ports.UpdateUserInput{IsActive: &active}); !errors.Is(err, domain.ErrInsufficientPermissions) {
		t.Fatalf("expected ErrInsufficientPermissions, got %v", err)
	}

	// An admin may update anyone.
	updated, err = svc.Update(context.Background(), admin, owner, ports.UpdateUserInput{IsActive: &active})
	if err != nil {
		t.Fatalf("admin update failed: %v", err)
	}
	if !updated.IsActive {
		t.Fatalf("is_active not restored")
	}
}

func TestUserService_Delete(t *testing.T) {
	svc, repo := newTestUsers(t)
	owner := seedUser(t, repo, "a@b.com", "pw", domain.RoleUser)
	other := seedUser(t, repo, "other@example.com", "pw", domain.RoleUser)

	if err := svc.Delete(context.Background(), other, owner); !errors.Is(err, domain.ErrInsufficientPermissions) {
		t.Fatalf("expected ErrInsufficientPermissions, got %v", err)
	}

	if err := svc.Delete(context.Background(), owner, owner); err != nil {
		t.Fatalf("self delete failed: %v", err)
	}
	if _, err := repo.FindByEmail(context.Background(), "a@b.com"); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound after delete, got %v", err)
	}

	// Second delete attempt hits a missing record.
	if err := svc.Delete(context.Background(), owner, owner); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound on second delete, got %v", err)
	}
}

func TestUserService_List_Filters(t *testing.T) {
	svc, repo := newTestUsers(t)
	seedUser(t, repo, "root@example.com", "pw", domain.RoleAdmin)
	seedUser(t, repo, "a@b.com", "pw", domain.RoleUser)
	seedUser(t, repo, "c@d.com", "pw", domain.RoleUser)

	all, err := svc.List(context.Background(), ports.UserFilter{})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 users, got %d", len(all))
	}

	adminRole := domain.RoleAdmin
	admins, err := svc.List(context.Background(), ports.UserFilter{Role: &adminRole})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(admins) != 1 || admins[0].Email != "root@example.com" {
		t.Fatalf("unexpected admin list: %+v", admins)
	}
}

func TestUserService_EnsureAdmin(t *testing.T) {
	svc, repo := newTestUsers(t)

	if err := svc.EnsureAdmin(context.Background(), "root@example.com", "pw"); err != nil {
		t.Fatalf("ensure admin failed: %v", err)
	}
	created, err := repo.FindByEmail(context.Background(), "root@example.com")
	if err != nil {
		t.Fatalf("seeded admin missing: %v", err)
	}
	if created.Role != domain.RoleAdmin || !created.IsActive {
		t.Fatalf("unexpected seeded admin: %+v", created)
	}

	// Idempotent: an active admin already exists, nothing new is created.
	if err := svc.EnsureAdmin(context.Background(), "second@example.com", "pw"); err != nil {
		t.Fatalf("ensure admin failed: %v", err)
	}
	if _, err := repo.FindByEmail(context.Background(), "second@example.com"); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("second admin should not be created: %v", err)
	}
}
