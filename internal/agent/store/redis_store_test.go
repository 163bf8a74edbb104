package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/planhub-app/reminder-planner/internal/agent"
	"github.com/planhub-app/reminder-planner/internal/model"
	"github.com/planhub-app/reminder-planner/pkg/types"
	goredis "github.com/redis/go-redis/v9"
)

type fakeRedis struct {
	data   map[string]string
	getErr error
	sets   int
}

func newFakeRedis() *fakeRedis {
	return &fakeRedis{data: map[string]string{}}
}

func (f *fakeRedis) Get(ctx context.Context, key string) (string, error) {
	if f.getErr != nil {
		return "", f.getErr
	}
	val, ok := f.data[key]
	if !ok {
		return "", goredis.Nil
	}
	return val, nil
}

func (f *fakeRedis) SetWithExpiration(ctx context.Context, key string, value any, expiration time.Duration) error {
	f.sets++
	f.data[key] = string(value.([]byte))
	return nil
}

func newTestStore() (*RedisMirrorStore, *fakeRedis) {
	client := newFakeRedis()
	return &RedisMirrorStore{redisClient: client, key: "agent:reminders:test"}, client
}

func mirrorEntry() *model.MirrorEntry {
	return &model.MirrorEntry{
		ReminderID:  types.GenerateUUID(),
		UserID:      types.GenerateUUID(),
		Title:       "Standup",
		ScheduledAt: time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC),
	}
}

func TestSaveStartsFromEmptyMirrorOnMissingKey(t *testing.T) {
	s, _ := newTestStore()
	ctx := context.Background()

	entry := mirrorEntry()
	if err := s.Save(ctx, entry); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	loaded, err := s.Get(ctx, entry.ReminderID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if loaded.Title != entry.Title {
		t.Errorf("Title = %q, want %q", loaded.Title, entry.Title)
	}
}

func TestSavePreservesOtherEntries(t *testing.T) {
	s, _ := newTestStore()
	ctx := context.Background()

	first := mirrorEntry()
	second := mirrorEntry()
	for _, entry := range []*model.MirrorEntry{first, second} {
		if err := s.Save(ctx, entry); err != nil {
			t.Fatalf("Save() error = %v", err)
		}
	}

	entries, err := s.List(ctx)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("List() returned %d entries, want 2", len(entries))
	}

	// overwriting by id must not append
	first.Title = "Standup (moved)"
	if err := s.Save(ctx, first); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	entries, _ = s.List(ctx)
	if len(entries) != 2 {
		t.Errorf("re-save appended, mirror holds %d entries", len(entries))
	}
}

func TestSaveDoesNotWipeMirrorOnRedisFailure(t *testing.T) {
	s, client := newTestStore()
	ctx := context.Background()

	first := mirrorEntry()
	second := mirrorEntry()
	for _, entry := range []*model.MirrorEntry{first, second} {
		if err := s.Save(ctx, entry); err != nil {
			t.Fatalf("Save() error = %v", err)
		}
	}
	setsBefore := client.sets

	client.getErr = errors.New("connection refused")
	if err := s.Save(ctx, mirrorEntry()); err == nil {
		t.Fatal("Save() must fail when the mirror cannot be read")
	}
	if client.sets != setsBefore {
		t.Fatal("a failed read must not flush anything back")
	}

	client.getErr = nil
	entries, err := s.List(ctx)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(entries) != 2 {
		t.Errorf("mirror holds %d entries after the failed save, want the original 2", len(entries))
	}
}

func TestDeleteFailsOnRedisFailure(t *testing.T) {
	s, client := newTestStore()
	ctx := context.Background()

	entry := mirrorEntry()
	if err := s.Save(ctx, entry); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	client.getErr = errors.New("connection refused")
	if err := s.Delete(ctx, entry.ReminderID); err == nil {
		t.Fatal("Delete() must fail when the mirror cannot be read")
	}

	client.getErr = nil
	if _, err := s.Get(ctx, entry.ReminderID); err != nil {
		t.Errorf("entry lost after failed delete: %v", err)
	}
}

func TestGetPropagatesRedisFailure(t *testing.T) {
	s, client := newTestStore()
	client.getErr = errors.New("connection refused")

	_, err := s.Get(context.Background(), types.GenerateUUID())
	if err == nil || errors.Is(err, agent.ErrEntryNotFound) {
		t.Fatalf("Get() error = %v, want a propagated redis error", err)
	}
}

func TestGetMissingEntry(t *testing.T) {
	s, _ := newTestStore()

	_, err := s.Get(context.Background(), types.GenerateUUID())
	if !errors.Is(err, agent.ErrEntryNotFound) {
		t.Fatalf("Get() error = %v, want ErrEntryNotFound", err)
	}
}
