package booking

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"venuebook/models"

	"github.com/go-redis/redis/v8"
)

const draftKeyPrefix = "bookingdraft:"

// RedisDraftStore persists booking session snapshots in Redis with a TTL.
// It replaces the draft handoff customers previously carried between the
// booking and confirmation pages.
type RedisDraftStore struct {
	Client *redis.Client
	TTL    time.Duration
}

func (r *RedisDraftStore) Save(ctx context.Context, snap models.BookingSnapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("failed to marshal booking draft: %w", err)
	}
	if err := r.Client.Set(ctx, draftKeyPrefix+snap.SessionID, data, r.TTL).Err(); err != nil {
		return fmt.Errorf("failed to store booking draft: %w", err)
	}
	return nil
}

func (r *RedisDraftStore) Load(ctx context.Context, sessionID string) (models.BookingSnapshot, error) {
	data, err := r.Client.Get(ctx, draftKeyPrefix+sessionID).Result()
	if err == redis.Nil {
		return models.BookingSnapshot{}, ErrSessionNotFound
	}
	if err != nil {
		return models.BookingSnapshot{}, fmt.Errorf("failed to load booking draft: %w", err)
	}
	var snap models.BookingSnapshot
	if err := json.Unmarshal([]byte(data), &snap); err != nil {
		return models.BookingSnapshot{}, fmt.Errorf("failed to parse booking draft: %w", err)
	}
	return snap, nil
}

func (r *RedisDraftStore) Delete(ctx context.Context, sessionID string) error {
	if err := r.Client.Del(ctx, draftKeyPrefix+sessionID).Err(); err != nil {
		return fmt.Errorf("failed to delete booking draft: %w", err)
	}
	return nil
}
