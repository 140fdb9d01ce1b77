// Package redis keeps each user's chat history in a Redis list, one JSON
// document per element, appended with RPUSH.
package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/PabloGalante/innerguide/internal/domain"
	"github.com/PabloGalante/innerguide/internal/observability"
)

const keyPrefix = "chat_messages:"

// Store implements domain.MessageStore on a Redis list per user.
type Store struct {
	client *redis.Client
}

type messageDoc struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Content   string    `json:"content"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

// NewStore parses a redis:// URL, connects and pings the server.
func NewStore(ctx context.Context, redisURL string) (*Store, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	opts.PoolSize = 10
	opts.MinIdleConns = 2
	opts.MaxRetries = 3
	opts.DialTimeout = 5 * time.Second
	opts.ReadTimeout = 3 * time.Second
	opts.WriteTimeout = 3 * time.Second

	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return NewStoreFromClient(client), nil
}

// NewStoreFromClient wraps an existing client.
func NewStoreFromClient(client *redis.Client) *Store {
	return &Store{client: client}
}

func (s *Store) Close() error {
	return s.client.Close()
}

// Key returns the list key holding a user's history.
func Key(userID domain.UserID) string {
	return keyPrefix + string(userID)
}

func (s *Store) AppendMessage(ctx context.Context, msg *domain.Message) error {
	data, err := encode(msg)
	if err != nil {
		return err
	}
	if err := s.client.RPush(ctx, Key(msg.UserID), data).Err(); err != nil {
		return fmt.Errorf("redis AppendMessage: %w", err)
	}
	return nil
}

// ListMessages returns the last `limit` elements of the list, oldest first.
// Elements that fail to decode are skipped.
func (s *Store) ListMessages(ctx context.Context, userID domain.UserID, limit int) ([]*domain.Message, error) {
	start := int64(0)
	if limit > 0 {
		start = -int64(limit)
	}

	raw, err := s.client.LRange(ctx, Key(userID), start, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("redis ListMessages: %w", err)
	}

	out := make([]*domain.Message, 0, len(raw))
	for _, r := range raw {
		msg, err := decode(r)
		if err != nil {
			observability.WithFields("user_id", userID, "error", err).Warn("skipping malformed chat message")
			continue
		}
		out = append(out, msg)
	}
	return out, nil
}

func (s *Store) DeleteMessages(ctx context.Context, userID domain.UserID) error {
	if err := s.client.Del(ctx, Key(userID)).Err(); err != nil {
		return fmt.Errorf("redis DeleteMessages: %w", err)
	}
	return nil
}

func encode(msg *domain.Message) ([]byte, error) {
	data, err := json.Marshal(messageDoc{
		ID:        string(msg.ID),
		UserID:    string(msg.UserID),
		Content:   msg.Content,
		Role:      string(msg.Role),
		CreatedAt: msg.CreatedAt,
	})
	if err != nil {
		return nil, fmt.Errorf("encode message: %w", err)
	}
	return data, nil
}

func decode(raw string) (*domain.Message, error) {
	var doc messageDoc
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		return nil, fmt.Errorf("decode message: %w", err)
	}
	return &domain.Message{
		ID:        domain.MessageID(doc.ID),
		UserID:    domain.UserID(doc.UserID),
		Content:   doc.Content,
		Role:      domain.Role(doc.Role),
		CreatedAt: doc.CreatedAt,
	}, nil
}
