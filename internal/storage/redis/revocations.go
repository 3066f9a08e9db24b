// Package redis keeps logged-out token ids in Redis so every server
// instance rejects them until they would have expired anyway.
package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jobmaroc/jobboard/internal/session"
)

var _ session.Revoker = (*RevocationStore)(nil)

// RevocationStore is a Redis-backed session.Revoker.
type RevocationStore struct {
	client redis.UniversalClient
	prefix string
	now    func() time.Time
}

// NewRevocationStore creates a store using the default key prefix.
func NewRevocationStore(client redis.UniversalClient) *RevocationStore {
	return NewRevocationStoreWithPrefix(client, "revoked:")
}

// NewRevocationStoreWithPrefix creates a store with a custom key prefix.
func NewRevocationStoreWithPrefix(client redis.UniversalClient, prefix string) *RevocationStore {
	return &RevocationStore{client: client, prefix: prefix, now: time.Now}
}

// Connect parses a redis:// URL and verifies the server answers.
func Connect(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}

// Revoke marks tokenID as logged out until the given time. Already expired
// tokens are ignored.
func (s *RevocationStore) Revoke(ctx context.Context, tokenID string, until time.Time) error {
	if tokenID == "" {
		return nil
	}
	ttl := until.Sub(s.now())
	if ttl <= 0 {
		return nil
	}
	return s.client.Set(ctx, s.prefix+tokenID, "1", ttl).Err()
}

func (s *RevocationStore) Revoked(ctx context.Context, tokenID string) (bool, error) {
	if tokenID == "" {
		return false, nil
	}
	err := s.client.Get(ctx, s.prefix+tokenID).Err()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("redis get: %w", err)
	}
	return true, nil
}
