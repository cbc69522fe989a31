package cache

import (
	"context"
	"fmt"
	"sync"
	"time"

	pkgJwt "doctor-appointment-api/pkg/jwt"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// TokenStore registers issued token IDs so they can be revoked on logout.
// A token whose ID is no longer present is treated as revoked.
type TokenStore interface {
	Save(ctx context.Context, userID uuid.UUID, tokenID string, tokenType pkgJwt.TokenType, ttl time.Duration) error
	Exists(ctx context.Context, userID uuid.UUID, tokenID string, tokenType pkgJwt.TokenType) (bool, error)
	Revoke(ctx context.Context, userID uuid.UUID, tokenID string, tokenType pkgJwt.TokenType) error
}

func tokenKey(userID uuid.UUID, tokenID string, tokenType pkgJwt.TokenType) string {
	return fmt.Sprintf("%s_token:%s:%s", tokenType, userID.String(), tokenID)
}

// redisTokenStore keeps token IDs in Redis with the token's TTL.
type redisTokenStore struct {
	client *redis.Client
}

func NewRedisTokenStore(client *redis.Client) TokenStore {
	return &redisTokenStore{client: client}
}

func (s *redisTokenStore) Save(ctx context.Context, userID uuid.UUID, tokenID string, tokenType pkgJwt.TokenType, ttl time.Duration) error {
	return s.client.Set(ctx, tokenKey(userID, tokenID, tokenType), "1", ttl).Err()
}

func (s *redisTokenStore) Exists(ctx context.Context, userID uuid.UUID, tokenID string, tokenType pkgJwt.TokenType) (bool, error) {
	n, err := s.client.Exists(ctx, tokenKey(userID, tokenID, tokenType)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (s *redisTokenStore) Revoke(ctx context.Context, userID uuid.UUID, tokenID string, tokenType pkgJwt.TokenType) error {
	return s.client.Del(ctx, tokenKey(userID, tokenID, tokenType)).Err()
}

// memoryTokenStore is the fallback when Redis is unreachable at startup.
// Expired entries are dropped lazily on lookup.
type memoryTokenStore struct {
	mu     sync.RWMutex
	tokens map[string]time.Time
}

func NewMemoryTokenStore() TokenStore {
	return &memoryTokenStore{tokens: make(map[string]time.Time)}
}

func (s *memoryTokenStore) Save(ctx context.Context, userID uuid.UUID, tokenID string, tokenType pkgJwt.TokenType, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens[tokenKey(userID, tokenID, tokenType)] = time.Now().Add(ttl)
	return nil
}

func (s *memoryTokenStore) Exists(ctx context.Context, userID uuid.UUID, tokenID string, tokenType pkgJwt.TokenType) (bool, error) {
	key := tokenKey(userID, tokenID, tokenType)

	s.mu.RLock()
	expiry, ok := s.tokens[key]
	s.mu.RUnlock()

	if !ok {
		return false, nil
	}
	if time.Now().After(expiry) {
		s.mu.Lock()
		delete(s.tokens, key)
		s.mu.Unlock()
		return false, nil
	}
	return true, nil
}

func (s *memoryTokenStore) Revoke(ctx context.Context, userID uuid.UUID, tokenID string, tokenType pkgJwt.TokenType) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.tokens, tokenKey(userID, tokenID, tokenType))
	return nil
}
