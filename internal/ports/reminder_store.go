package ports

import (
	"context"
	"errors"
	"time"

	"github.com/planhub-app/reminder-planner/internal/model"
	"github.com/planhub-app/reminder-planner/pkg/types"
)

// ErrNotFound is returned when no reminder matches the id+userId pair.
var ErrNotFound = errors.New("reminder not found")

// ListFilter narrows and pages the reminder listing.
type ListFilter struct {
	Triggered *bool
	Type      string
	TaskID    *types.UUID
	Upcoming  bool // scheduled_at >= now and not triggered
	SortBy    string
	SortDesc  bool
	Limit     int
	Offset    int
}

type ReminderStoreInterface interface {
	Create(ctx context.Context, reminder *model.Reminder) error
	GetByID(ctx context.Context, id types.UUID, userID types.UUID) (*model.Reminder, error)
	List(ctx context.Context, userID types.UUID, filter ListFilter) ([]*model.Reminder, int, error)
	Update(ctx context.Context, reminder *model.Reminder) error
	Delete(ctx context.Context, id types.UUID, userID types.UUID) error
	// FetchPending returns every non-triggered reminder across users, used
	// to rebuild the job registry after a restart.
	FetchPending(ctx context.Context) ([]*model.Reminder, error)
}

type ReminderCacheInterface interface {
	SaveReminder(ctx context.Context, reminder *model.Reminder) error
	GetReminder(ctx context.Context, id types.UUID) (*model.Reminder, error)
	DeleteReminder(ctx context.Context, id types.UUID) error
}

type TaskStoreInterface interface {
	// TaskExists checks that the task belongs to the same user. Used only
	// to validate the task link at reminder creation.
	TaskExists(ctx context.Context, id types.UUID, userID types.UUID) (bool, error)
}

type JobRegistryInterface interface {
	Schedule(id types.UUID, triggerAt time.Time, fire func()) error
	Cancel(id types.UUID)
}
