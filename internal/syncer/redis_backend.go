package syncer

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/nlac-edu/gradetrack-api/internal/models"
)

const mirrorKeyPrefix = "mirror:"

// RedisBackend is the primary document-database mirror (tier A). Each
// collection lives under its own key as a JSON document.
type RedisBackend struct {
	client *redis.Client
}

// NewRedisBackend wraps a Redis client as a mirror tier.
func NewRedisBackend(client *redis.Client) *RedisBackend {
	return &RedisBackend{client: client}
}

// Name identifies the tier in logs and status reports.
func (b *RedisBackend) Name() string { return "redis" }

// UploadAll replaces every mirrored collection with the snapshot contents.
func (b *RedisBackend) UploadAll(ctx context.Context, snap *models.Snapshot) error {
	if b.client == nil {
		return fmt.Errorf("redis mirror: no client")
	}
	pipe := b.client.TxPipeline()
	for key, value := range collectionsOf(snap) {
		raw, err := json.Marshal(value)
		if err != nil {
			return fmt.Errorf("redis mirror: encode %s: %w", key, err)
		}
		pipe.Set(ctx, mirrorKeyPrefix+key, raw, 0)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis mirror: upload: %w", err)
	}
	return nil
}

// DownloadAll fetches every mirrored collection. Missing keys read as empty
// collections, so a never-written mirror downloads as an empty snapshot.
func (b *RedisBackend) DownloadAll(ctx context.Context) (*models.Snapshot, error) {
	if b.client == nil {
		return nil, fmt.Errorf("redis mirror: no client")
	}
	snap := &models.Snapshot{}
	for key, dest := range collectionsOf(snap) {
		raw, err := b.client.Get(ctx, mirrorKeyPrefix+key).Bytes()
		if err != nil {
			if err == redis.Nil {
				continue
			}
			return nil, fmt.Errorf("redis mirror: download %s: %w", key, err)
		}
		if err := json.Unmarshal(raw, dest); err != nil {
			return nil, fmt.Errorf("redis mirror: decode %s: %w", key, err)
		}
	}
	return snap, nil
}
