package session

import (
	"context"
	"fmt"
	"time"

	"kloudcart/internal/config"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// CookieName is the session cookie set on login.
const CookieName = "kloudcart_session"

// Store maps opaque session tokens to the logged-in user's email.
type Store interface {
	// Create issues a new session token for the user.
	Create(ctx context.Context, userEmail string) (string, error)

	// Resolve returns the email behind a token, or "" when the token is
	// unknown or expired.
	Resolve(ctx context.Context, token string) (string, error)

	// Delete invalidates a token. Unknown tokens are a no-op.
	Delete(ctx context.Context, token string) error
}

// redisStore implements Store on Redis with a per-session TTL.
type redisStore struct {
	client *redis.Client
	ttl    time.Duration
	logger zerolog.Logger
}

// NewClient creates a Redis client and verifies connectivity.
func NewClient(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	return client, nil
}

// NewRedisStore creates a Redis-backed session store.
func NewRedisStore(client *redis.Client, ttl time.Duration, logger zerolog.Logger) Store {
	return &redisStore{
		client: client,
		ttl:    ttl,
		logger: logger.With().Str("component", "session-store").Logger(),
	}
}

func sessionKey(token string) string {
	return "session:" + token
}

// Create issues a new session token for the user.
func (s *redisStore) Create(ctx context.Context, userEmail string) (string, error) {
	token := uuid.NewString()

	if err := s.client.Set(ctx, sessionKey(token), userEmail, s.ttl).Err(); err != nil {
		s.logger.Error().Err(err).Str("user_email", userEmail).Msg("failed to create session")
		return "", fmt.Errorf("failed to create session: %w", err)
	}

	s.logger.Debug().Str("user_email", userEmail).Msg("session created")
	return token, nil
}

// Resolve returns the email behind a token, or "" when unknown.
func (s *redisStore) Resolve(ctx context.Context, token string) (string, error) {
	email, err := s.client.Get(ctx, sessionKey(token)).Result()
	if err == redis.Nil {
		return "", nil
	}
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to resolve session")
		return "", fmt.Errorf("failed to resolve session: %w", err)
	}

	return email, nil
}

// Delete invalidates a token.
func (s *redisStore) Delete(ctx context.Context, token string) error {
	if err := s.client.Del(ctx, sessionKey(token)).Err(); err != nil {
		s.logger.Error().Err(err).Msg("failed to delete session")
		return fmt.Errorf("failed to delete session: %w", err)
	}

	return nil
}
