package backend

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// Revocations guarda, por usuário, o instante do último sign-out. Tokens
// emitidos até esse instante deixam de valer (sign-out global).
type Revocations interface {
	RevokeUser(ctx context.Context, userID uuid.UUID, at time.Time, ttl time.Duration) error
	RevokedAt(ctx context.Context, userID uuid.UUID) (time.Time, error)
}

type RedisRevocations struct {
	client *redis.Client
}

func NewRedisRevocations(client *redis.Client) *RedisRevocations {
	return &RedisRevocations{client: client}
}

func revocationKey(userID uuid.UUID) string {
	return fmt.Sprintf("studio:revoked:%s", userID)
}

func (r *RedisRevocations) RevokeUser(ctx context.Context, userID uuid.UUID, at time.Time, ttl time.Duration) error {
	err := r.client.Set(ctx, revocationKey(userID), at.UnixMilli(), ttl).Err()
	return errors.Wrap(err, "revoke user")
}

func (r *RedisRevocations) RevokedAt(ctx context.Context, userID uuid.UUID) (time.Time, error) {
	v, err := r.client.Get(ctx, revocationKey(userID)).Result()
	if err == redis.Nil {
		return time.Time{}, nil
	}
	if err != nil {
		return time.Time{}, errors.Wrap(err, "read revocation")
	}

	ms, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return time.Time{}, errors.Wrap(err, "parse revocation")
	}
	return time.UnixMilli(ms), nil
}

// MemoryRevocations é usado quando não há redis configurado.
type MemoryRevocations struct {
	mu      sync.Mutex
	revoked map[uuid.UUID]time.Time
}

func NewMemoryRevocations() *MemoryRevocations {
	return &MemoryRevocations{revoked: make(map[uuid.UUID]time.Time)}
}

func (m *MemoryRevocations) RevokeUser(_ context.Context, userID uuid.UUID, at time.Time, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.revoked[userID] = at
	return nil
}

func (m *MemoryRevocations) RevokedAt(_ context.Context, userID uuid.UUID) (time.Time, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.revoked[userID], nil
}
