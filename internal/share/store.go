// Package share stores analysis results under short-lived share links.
package share

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jonesrussell/analyzer/internal/config"
)

// ErrNotFound is returned when a share link doesn't exist or has expired.
var ErrNotFound = errors.New("share link not found or expired")

// connectionTimeout is the timeout for verifying the Redis connection.
const connectionTimeout = 5 * time.Second

// shareIDBytes sizes the random share ID (hex-encoded, so twice this many
// characters on the wire).
const shareIDBytes = 6

const keyPrefix = "share:"

// NewRedisClient creates a Redis client and verifies connectivity before
// returning it.
func NewRedisClient(cfg *config.RedisConfig) (*redis.Client, error) {
	if cfg.URL == "" {
		return nil, errors.New("redis address is required")
	}

	client := redis.NewClient(&redis.Options{
		Addr:       cfg.URL,
		Password:   cfg.Password,
		DB:         cfg.Database,
		MaxRetries: cfg.MaxRetries,
	})

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), connectionTimeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return client, nil
}

// Store persists shared result payloads in Redis under random short IDs.
type Store struct {
	client *redis.Client
	ttl    time.Duration
}

// NewStore creates a share store. TTL bounds how long links stay live.
func NewStore(client *redis.Client, ttl time.Duration) *Store {
	return &Store{
		client: client,
		ttl:    ttl,
	}
}

// Create stores the payload and returns the generated share ID.
func (s *Store) Create(ctx context.Context, payload json.RawMessage) (string, error) {
	id, err := newShareID()
	if err != nil {
		return "", fmt.Errorf("generate share id: %w", err)
	}

	if err := s.client.Set(ctx, keyPrefix+id, []byte(payload), s.ttl).Err(); err != nil {
		return "", fmt.Errorf("store share payload: %w", err)
	}

	return id, nil
}

// Get returns the stored payload for the ID, or ErrNotFound once the link
// has expired or never existed.
func (s *Store) Get(ctx context.Context, id string) (json.RawMessage, error) {
	data, err := s.client.Get(ctx, keyPrefix+id).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("load share payload: %w", err)
	}
	return json.RawMessage(data), nil
}

// Ping verifies the underlying Redis connection.
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func newShareID() (string, error) {
	b := make([]byte, shareIDBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
