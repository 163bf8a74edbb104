package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/planhub-app/reminder-planner/internal/agent"
	"github.com/planhub-app/reminder-planner/internal/model"
	"github.com/planhub-app/reminder-planner/pkg/types"
	goredis "github.com/redis/go-redis/v9"
	"github.com/wb-go/wbf/redis"
)

// redisCommands is the slice of the redis client the mirror needs.
type redisCommands interface {
	Get(ctx context.Context, key string) (string, error)
	SetWithExpiration(ctx context.Context, key string, value any, expiration time.Duration) error
}

// RedisMirrorStore keeps the whole mirror under one key as a map keyed by
// reminder id, the durable-storage analogue of the client's single local
// store document. Writes are read-modify-write under a mutex; overwriting
// by id is what makes re-scheduling idempotent.
type RedisMirrorStore struct {
	mu          sync.Mutex
	redisClient redisCommands
	key         string
}

func NewRedisMirrorStore(redisClient *redis.Client, userID string) *RedisMirrorStore {
	return &RedisMirrorStore{
		redisClient: redisClient,
		key:         "agent:reminders:" + userID,
	}
}

func (s *RedisMirrorStore) Save(ctx context.Context, entry *model.MirrorEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.load(ctx)
	if err != nil {
		return err
	}
	entries[entry.ReminderID.String()] = entry
	return s.flush(ctx, entries)
}

func (s *RedisMirrorStore) Get(ctx context.Context, reminderID types.UUID) (*model.MirrorEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	entry, ok := entries[reminderID.String()]
	if !ok {
		return nil, agent.ErrEntryNotFound
	}
	return entry, nil
}

func (s *RedisMirrorStore) Delete(ctx context.Context, reminderID types.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.load(ctx)
	if err != nil {
		return err
	}
	delete(entries, reminderID.String())
	return s.flush(ctx, entries)
}

func (s *RedisMirrorStore) List(ctx context.Context) ([]*model.MirrorEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	result := make([]*model.MirrorEntry, 0, len(entries))
	for _, entry := range entries {
		result = append(result, entry)
	}
	return result, nil
}

func (s *RedisMirrorStore) load(ctx context.Context) (map[string]*model.MirrorEntry, error) {
	data, err := s.redisClient.Get(ctx, s.key)
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			// a missing key is an empty mirror
			return map[string]*model.MirrorEntry{}, nil
		}
		// anything else must not be mistaken for an empty mirror: the
		// caller would flush it back and wipe every other entry
		return nil, fmt.Errorf("redis: get key %s: %w", s.key, err)
	}

	entries := map[string]*model.MirrorEntry{}
	if err := json.Unmarshal([]byte(data), &entries); err != nil {
		return nil, fmt.Errorf("redis: unmarshal mirror: %w", err)
	}
	return entries, nil
}

func (s *RedisMirrorStore) flush(ctx context.Context, entries map[string]*model.MirrorEntry) error {
	data, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("redis: marshal mirror: %w", err)
	}
	if err := s.redisClient.SetWithExpiration(ctx, s.key, data, 0); err != nil {
		return fmt.Errorf("redis: set key %s: %w", s.key, err)
	}
	return nil
}
