package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

var ErrRefreshInvalid = errors.New("refresh token is invalid or expired")

// RefreshStore keeps opaque refresh tokens in Redis with a TTL matching the
// session lifetime. Tokens are single-use: Rotate consumes the old one.
type RefreshStore struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRefreshStore(rdb *redis.Client, ttl time.Duration) *RefreshStore {
	return &RefreshStore{rdb: rdb, ttl: ttl}
}

func refreshKey(token string) string {
	return "refresh:" + token
}

// Issue creates a refresh token bound to the account id.
func (s *RefreshStore) Issue(ctx context.Context, userID string) (string, error) {
	token := uuid.NewString()
	if err := s.rdb.Set(ctx, refreshKey(token), userID, s.ttl).Err(); err != nil {
		return "", fmt.Errorf("store refresh token: %w", err)
	}
	return token, nil
}

// Rotate consumes a refresh token and issues a replacement, returning the
// bound account id and the new token.
func (s *RefreshStore) Rotate(ctx context.Context, token string) (string, string, error) {
	userID, err := s.rdb.GetDel(ctx, refreshKey(token)).Result()
	if errors.Is(err, redis.Nil) {
		return "", "", ErrRefreshInvalid
	} else if err != nil {
		return "", "", fmt.Errorf("load refresh token: %w", err)
	}
	next, err := s.Issue(ctx, userID)
	if err != nil {
		return "", "", err
	}
	return userID, next, nil
}
