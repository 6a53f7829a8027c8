package auth

import (
	"context"
	"errors"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
)

// LoginChecker resolves session tokens issued by Service. Kept separate from
// Service so that HTTP middleware and handlers only depend on read access.
type LoginChecker struct {
	ttl         time.Duration
	redisClient *redis.Client
}

func NewLoginChecker(ttl time.Duration, redisClient *redis.Client) *LoginChecker {
	return &LoginChecker{
		ttl:         ttl,
		redisClient: redisClient,
	}
}

func (c *LoginChecker) IsLogged(ctx context.Context, token string) (bool, error) {
	_, err := c.SessionUserID(ctx, token)
	if err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// SessionUserID returns the user behind the given session token, or
// ErrSessionNotFound when the token is unknown or expired.
func (c *LoginChecker) SessionUserID(ctx context.Context, token string) (uuid.UUID, error) {
	sessionKey := sessionKeyPrefix + token
	cmd := c.redisClient.Get(ctx, sessionKey)
	if err := cmd.Err(); err != nil {
		if errors.Is(err, redis.Nil) {
			return uuid.Nil, ErrSessionNotFound
		}
		return uuid.Nil, err
	}

	userID, createdAt, err := parseSessionValue(cmd.Val())
	if err != nil {
		return uuid.Nil, err
	}

	if time.Since(createdAt) > c.ttl {
		return uuid.Nil, ErrSessionNotFound
	}

	return userID, nil
}
