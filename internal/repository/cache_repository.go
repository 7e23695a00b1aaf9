package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	appErrors "github.com/noah-isme/modul-ajar-api/pkg/errors"
)

// RedisDraftRepository keeps draft snapshots as plain Redis strings.
type RedisDraftRepository struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisDraftRepository constructs the repository. A zero ttl keeps drafts until removed.
func NewRedisDraftRepository(client *redis.Client, ttl time.Duration) *RedisDraftRepository {
	return &RedisDraftRepository{client: client, ttl: ttl}
}

// Get returns the stored payload or ErrCacheMiss when the key is absent.
func (r *RedisDraftRepository) Get(ctx context.Context, key string) (string, error) {
	raw, err := r.client.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", appErrors.ErrCacheMiss
		}
		return "", fmt.Errorf("redis get %s: %w", key, err)
	}
	return raw, nil
}

// Set overwrites the payload stored under key.
func (r *RedisDraftRepository) Set(ctx context.Context, key, payload string) error {
	if err := r.client.Set(ctx, key, payload, r.ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

// Remove deletes key. Missing keys are not an error.
func (r *RedisDraftRepository) Remove(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("redis delete %s: %w", key, err)
	}
	return nil
}

// Close releases the underlying Redis connection.
func (r *RedisDraftRepository) Close() error {
	return r.client.Close()
}
