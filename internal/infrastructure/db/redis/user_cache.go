package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/useraccounts/account-service/internal/core/domain"
	"github.com/useraccounts/account-service/internal/core/ports"
)

const cacheTTL = 30 * time.Second

type cachedUser struct {
	ID           string `json:"id"`
	Email        string `json:"email"`
	PasswordHash string `json:"password_hash"`
	Role         string `json:"role"`
	IsActive     bool   `json:"is_active"`
	CreatedAt    int64  `json:"created_at"`
	UpdatedAt    int64  `json:"updated_at"`
}

// CachedUserRepository decorates a UserRepository with a short-lived Redis
// cache on email lookups. Email lookup happens on every authenticated
// request, so the cache shelters the store from the hot path. Mutations
// invalidate the cached entry before committing; a short TTL bounds
// staleness for writes that bypass this process.
type CachedUserRepository struct {
	inner  ports.UserRepository
	client *redis.Client
	log    zerolog.Logger
}

func NewCachedUserRepository(inner ports.UserRepository, client *redis.Client, log zerolog.Logger) *CachedUserRepository {
	return &CachedUserRepository{inner: inner, client: client, log: log}
}

func (r *CachedUserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	key := r.key(email)

	raw, err := r.client.Get(ctx, key).Bytes()
	if err == nil {
		var cu cachedUser
		if err := json.Unmarshal(raw, &cu); err == nil {
			return cu.toDomain(), nil
		}
		// corrupt entry: drop it and fall through to the store
		_ = r.client.Del(ctx, key).Err()
	} else if !errors.Is(err, redis.Nil) {
		r.log.Warn().Err(err).Msg("user cache read failed")
	}

	user, err := r.inner.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	if raw, err := json.Marshal(fromDomain(user)); err == nil {
		if err := r.client.Set(ctx, key, raw, cacheTTL).Err(); err != nil {
			r.log.Warn().Err(err).Msg("user cache write failed")
		}
	}
	return user, nil
}

func (r *CachedUserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	return r.inner.FindByID(ctx, id)
}

func (r *CachedUserRepository) List(ctx context.Context, filter ports.UserFilter) ([]*domain.User, error) {
	return r.inner.List(ctx, filter)
}

func (r *CachedUserRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	created, err := r.inner.Create(ctx, user)
	if err != nil {
		return nil, err
	}
	r.invalidate(ctx, created.Email)
	return created, nil
}

func (r *CachedUserRepository) UpdateFields(ctx context.Context, user *domain.User, fields ports.UserUpdateFields) (*domain.User, error) {
	updated, err := r.inner.UpdateFields(ctx, user, fields)
	if err != nil {
		return nil, err
	}
	r.invalidate(ctx, updated.Email)
	return updated, nil
}

func (r *CachedUserRepository) Delete(ctx context.Context, user *domain.User) error {
	if err := r.inner.Delete(ctx, user); err != nil {
		return err
	}
	r.invalidate(ctx, user.Email)
	return nil
}

func (r *CachedUserRepository) invalidate(ctx context.Context, email string) {
	if err := r.client.Del(ctx, r.key(email)).Err(); err != nil {
		r.log.Warn().Err(err).Str("email", email).Msg("user cache invalidation failed")
	}
}

func (r *CachedUserRepository) key(email string) string {
	return fmt.Sprintf("user:email:%s", email)
}

func fromDomain(u *domain.User) cachedUser {
	return cachedUser{
		ID:           u.ID,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		Role:         string(u.Role),
		IsActive:     u.IsActive,
		CreatedAt:    u.CreatedAt.Unix(),
		UpdatedAt:    u.UpdatedAt.Unix(),
	}
}

func (cu cachedUser) toDomain() *domain.User {
	return &domain.User{
		ID:           cu.ID,
		Email:        cu.Email,
		PasswordHash: cu.PasswordHash,
		Role:         domain.Role(cu.Role),
		IsActive:     cu.IsActive,
		CreatedAt:    time.Unix(cu.CreatedAt, 0).UTC(),
		UpdatedAt:    time.Unix(cu.UpdatedAt, 0).UTC(),
	}
}
