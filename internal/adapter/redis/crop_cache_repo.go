package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mahinrabby10101/farm-backend/internal/domain/entity"
	"github.com/mahinrabby10101/farm-backend/internal/repository"
)

const cropCacheKeyPrefix = "crop:"

type cropCacheRepository struct {
	client *redis.Client
}

func NewCropCacheRepository(client *redis.Client) repository.CropCache {
	return &cropCacheRepository{client: client}
}

func cropKey(cropID string) string {
	return cropCacheKeyPrefix + cropID
}

func (r *cropCacheRepository) Get(ctx context.Context, cropID string) (*entity.Crop, error) {
	val, err := r.client.Get(ctx, cropKey(cropID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get crop %s from redis: %w", cropID, err)
	}

	var crop entity.Crop
	if err := json.Unmarshal(val, &crop); err != nil {
		// A corrupt entry is dropped so the next read goes to the store.
		_ = r.Delete(ctx, cropID)
		return nil, fmt.Errorf("failed to unmarshal cached crop %s: %w", cropID, err)
	}
	return &crop, nil
}

func (r *cropCacheRepository) Set(ctx context.Context, crop *entity.Crop, ttl time.Duration) error {
	if crop == nil || crop.ID.IsZero() {
		return errors.New("cannot cache nil crop or crop without id")
	}

	data, err := json.Marshal(crop)
	if err != nil {
		return fmt.Errorf("failed to marshal crop %s for cache: %w", crop.ID.Hex(), err)
	}

	if err := r.client.Set(ctx, cropKey(crop.ID.Hex()), data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to set crop %s in redis: %w", crop.ID.Hex(), err)
	}
	return nil
}

func (r *cropCacheRepository) Delete(ctx context.Context, cropID string) error {
	if err := r.client.Del(ctx, cropKey(cropID)).Err(); err != nil {
		return fmt.Errorf("failed to delete crop %s from redis: %w", cropID, err)
	}
	return nil
}
