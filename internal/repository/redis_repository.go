package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/planhub-app/reminder-planner/internal/model"
	"github.com/planhub-app/reminder-planner/pkg/types"
	"github.com/wb-go/wbf/redis"
)

const reminderKeyPrefix = "reminder:"

type RedisRepository struct {
	redisClient *redis.Client
	expiration  time.Duration
}

func NewRedisRepository(redisClient *redis.Client, expiration time.Duration) *RedisRepository {
	return &RedisRepository{redisClient: redisClient, expiration: expiration}
}

func (r *RedisRepository) SaveReminder(ctx context.Context, reminder *model.Reminder) error {
	key := reminderKeyPrefix + reminder.ID.String()
	data, err := json.Marshal(reminder)
	if err != nil {
		return fmt.Errorf("redis: marshal reminder: %w", err)
	}
	if err := r.redisClient.SetWithExpiration(ctx, key, data, r.expiration); err != nil {
		return fmt.Errorf("redis: set key %s: %w", key, err)
	}
	return nil
}

func (r *RedisRepository) GetReminder(ctx context.Context, id types.UUID) (*model.Reminder, error) {
	key := reminderKeyPrefix + id.String()

	data, err := r.redisClient.Get(ctx, key)
	if err != nil {
		return nil, err
	}

	var reminder model.Reminder
	if err := json.Unmarshal([]byte(data), &reminder); err != nil {
		return nil, fmt.Errorf("redis: unmarshal reminder: %w", err)
	}
	return &reminder, nil
}

func (r *RedisRepository) DeleteReminder(ctx context.Context, id types.UUID) error {
	key := reminderKeyPrefix + id.String()
	if err := r.redisClient.Del(ctx, key); err != nil {
		return fmt.Errorf("error deleting reminder from redis (id '%s'): %w", id, err)
	}
	return nil
}
