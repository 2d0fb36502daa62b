package cache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/coffeecommand/backend/internal/application/access"
	"github.com/coffeecommand/backend/internal/infrastructure/config"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const selectionKeyPrefix = "branch_selection:"

// RedisSelectionStore keeps each user's last selected branch in Redis so the
// choice survives restarts and is shared across instances.
type RedisSelectionStore struct {
	client    *redis.Client
	keyPrefix string
}

// NewRedisSelectionStore creates a Redis-backed selection store and verifies
// the connection
func NewRedisSelectionStore(cfg *config.RedisConfig) (*RedisSelectionStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisSelectionStore{
		client:    client,
		keyPrefix: selectionKeyPrefix,
	}, nil
}

// NewRedisSelectionStoreWithClient creates a store with an existing Redis client
func NewRedisSelectionStoreWithClient(client *redis.Client) *RedisSelectionStore {
	return &RedisSelectionStore{
		client:    client,
		keyPrefix: selectionKeyPrefix,
	}
}

// Get returns the stored branch ID for the user; found is false on a miss
func (s *RedisSelectionStore) Get(ctx context.Context, userID uuid.UUID) (int64, bool, error) {
	value, err := s.client.Get(ctx, s.keyPrefix+userID.String()).Result()
	if errors.Is(err, redis.Nil) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("failed to read branch selection: %w", err)
	}
	branchID, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		// A corrupt value is treated as a miss rather than an error
		return 0, false, nil
	}
	return branchID, true, nil
}

// Set stores the user's selected branch. Selections have no TTL; they stay
// until overwritten.
func (s *RedisSelectionStore) Set(ctx context.Context, userID uuid.UUID, branchID int64) error {
	if err := s.client.Set(ctx, s.keyPrefix+userID.String(), strconv.FormatInt(branchID, 10), 0).Err(); err != nil {
		return fmt.Errorf("failed to store branch selection: %w", err)
	}
	return nil
}

// Close closes the Redis client
func (s *RedisSelectionStore) Close() error {
	return s.client.Close()
}

// Ensure RedisSelectionStore implements SelectionStore
var _ access.SelectionStore = (*RedisSelectionStore)(nil)
