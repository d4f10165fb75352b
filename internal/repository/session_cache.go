package repository

import (
	"context"
	"encoding/json"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/Bidon15/piedpiper/internal/models"
)

// Cache is the subset of *database.Redis used for session lookups. A miss
// is any Get error.
type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

// cachedSessionRepo serves GetByToken from Redis and falls back to the
// wrapped repository. Every write evicts the token's entry. Cache failures
// degrade to the wrapped repository.
type cachedSessionRepo struct {
	inner SessionRepository
	cache Cache
	ttl   time.Duration
	// inTx disables cache reads and fills so uncommitted rows never reach
	// Redis.
	inTx bool
}

// NewCachedSessionRepository wraps inner with a read-through cache.
func NewCachedSessionRepository(inner SessionRepository, cache Cache, ttl time.Duration) SessionRepository {
	return &cachedSessionRepo{inner: inner, cache: cache, ttl: ttl}
}

func sessionCacheKey(token string) string {
	return "session:" + hashToken(token)
}

func (r *cachedSessionRepo) Create(ctx context.Context, session *models.Session) error {
	return r.inner.Create(ctx, session)
}

func (r *cachedSessionRepo) GetByToken(ctx context.Context, token string) (*models.Session, error) {
	if r.inTx {
		return r.inner.GetByToken(ctx, token)
	}

	key := sessionCacheKey(token)
	if raw, err := r.cache.Get(ctx, key); err == nil {
		var s models.Session
		if json.Unmarshal([]byte(raw), &s) == nil {
			s.Token = token
			return &s, nil
		}
	}

	s, err := r.inner.GetByToken(ctx, token)
	if err != nil || s == nil {
		return s, err
	}

	if raw, err := json.Marshal(s); err == nil {
		_ = r.cache.Set(ctx, key, raw, r.ttl)
	}
	return s, nil
}

func (r *cachedSessionRepo) UpdateProfile(ctx context.Context, token string, fields models.ProfileFields) (*models.Session, error) {
	s, err := r.inner.UpdateProfile(ctx, token, fields)
	r.evict(ctx, token)
	return s, err
}

func (r *cachedSessionRepo) Delete(ctx context.Context, token string) (int64, error) {
	n, err := r.inner.Delete(ctx, token)
	r.evict(ctx, token)
	return n, err
}

func (r *cachedSessionRepo) List(ctx context.Context) ([]*models.Session, error) {
	return r.inner.List(ctx)
}

func (r *cachedSessionRepo) WithTx(tx pgx.Tx) SessionRepository {
	return &cachedSessionRepo{inner: r.inner.WithTx(tx), cache: r.cache, ttl: r.ttl, inTx: true}
}

func (r *cachedSessionRepo) evict(ctx context.Context, token string) {
	_ = r.cache.Delete(ctx, sessionCacheKey(token))
}
