// Package pause tracks conversations taken over by a human agent. While
// a conversation is paused the bot stays silent and lets the agent talk.
package pause

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"namfulgor_backend/platform/config"
	"namfulgor_backend/platform/logger"
)

const keyPrefix = "chat:paused:"

// Store marks conversations as paused with a TTL in redis. A Store built
// without a redis URL is a no-op: nothing is ever paused and the bot
// always replies.
type Store struct {
	client *redis.Client
	ttl    time.Duration
	log    *logger.Logger
}

// New builds a pause store from configuration. An empty REDIS_URL
// disables pausing rather than failing startup.
func New(cfg config.RedisConfig, log *logger.Logger) (*Store, error) {
	url := cfg.GetRedisURL()
	if url == "" {
		log.Info("redis not configured, conversation pausing disabled")
		return &Store{ttl: cfg.GetConversationPauseTTL(), log: log}, nil
	}

	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	return &Store{
		client: redis.NewClient(opts),
		ttl:    cfg.GetConversationPauseTTL(),
		log:    log,
	}, nil
}

// NewWithClient builds a store around an existing client. Used by tests.
func NewWithClient(client *redis.Client, ttl time.Duration, log *logger.Logger) *Store {
	return &Store{client: client, ttl: ttl, log: log}
}

// Pause silences the bot for one conversation until the TTL expires.
func (s *Store) Pause(ctx context.Context, conversationID string) error {
	if s.client == nil || conversationID == "" {
		return nil
	}
	if err := s.client.Set(ctx, keyPrefix+conversationID, "1", s.ttl).Err(); err != nil {
		return fmt.Errorf("pause conversation: %w", err)
	}
	return nil
}

// Resume lifts a pause early, before the TTL expires.
func (s *Store) Resume(ctx context.Context, conversationID string) error {
	if s.client == nil || conversationID == "" {
		return nil
	}
	if err := s.client.Del(ctx, keyPrefix+conversationID).Err(); err != nil {
		return fmt.Errorf("resume conversation: %w", err)
	}
	return nil
}

// IsPaused reports whether the bot should stay silent. Redis errors are
// logged and treated as not paused so a redis outage never mutes the bot.
func (s *Store) IsPaused(ctx context.Context, conversationID string) (bool, error) {
	if s.client == nil || conversationID == "" {
		return false, nil
	}

	n, err := s.client.Exists(ctx, keyPrefix+conversationID).Result()
	if err != nil {
		s.log.WithContext(ctx).Warn("pause check failed, assuming not paused", "error", err)
		return false, nil
	}
	return n > 0, nil
}

// Close releases the underlying redis connection.
func (s *Store) Close() error {
	if s.client == nil {
		return nil
	}
	return s.client.Close()
}
