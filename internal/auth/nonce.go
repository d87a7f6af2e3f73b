package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const noncePrefix = "auth:nonce:"

// NonceStore issues single-use challenge nonces, kept in Redis with a TTL.
type NonceStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewNonceStore builds the store.
func NewNonceStore(client *redis.Client, ttl time.Duration) *NonceStore {
	return &NonceStore{client: client, ttl: ttl}
}

// Issue creates a fresh nonce for the address, replacing any previous one.
func (s *NonceStore) Issue(ctx context.Context, address string) (string, error) {
	nonce := uuid.NewString()
	key := noncePrefix + strings.ToLower(address)
	if err := s.client.Set(ctx, key, nonce, s.ttl).Err(); err != nil {
		return "", err
	}
	return nonce, nil
}

// Consume validates and deletes the nonce for the address. A nonce can be
// used for exactly one session request.
func (s *NonceStore) Consume(ctx context.Context, address, nonce string) error {
	key := noncePrefix + strings.ToLower(address)
	stored, err := s.client.GetDel(ctx, key).Result()
	if err == redis.Nil {
		return errors.New("no challenge issued for address")
	}
	if err != nil {
		return err
	}
	if stored != nonce {
		return errors.New("challenge nonce mismatch")
	}
	return nil
}
