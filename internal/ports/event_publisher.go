package ports

import (
	"context"

	"github.com/planhub-app/reminder-planner/internal/model"
	"github.com/planhub-app/reminder-planner/pkg/types"
)

const (
	EventReminderCreated   = "reminder_created"
	EventReminderUpdated   = "reminder_updated"
	EventReminderDeleted   = "reminder_deleted"
	EventReminderSnoozed   = "reminder_snoozed"
	EventReminderTriggered = "reminder_triggered"
)

// EventPublisherInterface delivers reminder lifecycle events to the owning
// user's real-time channel. Deletion carries only the id.
type EventPublisherInterface interface {
	PublishReminder(ctx context.Context, event string, reminder *model.Reminder) error
	PublishDeleted(ctx context.Context, userID types.UUID, id types.UUID) error
}

type DispatcherInterface interface {
	Create(ctx context.Context, reminder *model.Reminder) (*model.Reminder, error)
	Get(ctx context.Context, id types.UUID, userID types.UUID) (*model.Reminder, error)
	List(ctx context.Context, userID types.UUID, filter ListFilter) ([]*model.Reminder, int, error)
	Update(ctx context.Context, id types.UUID, userID types.UUID, patch model.ReminderPatch) (*model.Reminder, error)
	Delete(ctx context.Context, id types.UUID, userID types.UUID) error
	Snooze(ctx context.Context, id types.UUID, userID types.UUID, minutes int) (*model.Reminder, error)
	MarkTriggered(ctx context.Context, id types.UUID, userID types.UUID) (*model.Reminder, error)
}
