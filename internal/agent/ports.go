package agent

import (
	"context"
	"errors"
	"time"

	"github.com/planhub-app/reminder-planner/internal/model"
	"github.com/planhub-app/reminder-planner/pkg/types"
)

// ErrEntryNotFound is returned when the mirror has no entry for the id.
var ErrEntryNotFound = errors.New("mirror entry not found")

// Content is what the user eventually sees.
type Content struct {
	Title string            `json:"title"`
	Body  string            `json:"body"`
	Data  map[string]string `json:"data,omitempty"`
}

// Trigger carries a one-shot instant, optionally with a repeat interval.
type Trigger struct {
	At          time.Time
	RepeatEvery time.Duration // zero means one-shot
}

// SinkInterface is the platform notification channel the agent drives.
type SinkInterface interface {
	Schedule(ctx context.Context, content Content, trigger Trigger) (string, error)
	Cancel(ctx context.Context, handle string) error
	PresentNow(ctx context.Context, content Content) error
}

// MirrorStoreInterface is the agent's durable local storage. Save
// overwrites by reminder id.
type MirrorStoreInterface interface {
	Save(ctx context.Context, entry *model.MirrorEntry) error
	Get(ctx context.Context, reminderID types.UUID) (*model.MirrorEntry, error)
	Delete(ctx context.Context, reminderID types.UUID) error
	List(ctx context.Context) ([]*model.MirrorEntry, error)
}
