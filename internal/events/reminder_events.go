package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/planhub-app/reminder-planner/internal/model"
	"github.com/planhub-app/reminder-planner/internal/ports"
	"github.com/planhub-app/reminder-planner/pkg/types"
)

// UserRoutingKey is the routing key of a user's real-time channel, the
// analogue of a per-user socket room.
func UserRoutingKey(userID types.UUID) string {
	return "user." + userID.String()
}

// ReminderEvent is the wire shape of a lifecycle event. Deletion carries
// only the id.
type ReminderEvent struct {
	Event    string          `json:"event"`
	Reminder *model.Reminder `json:"reminder,omitempty"`
	ID       string          `json:"id,omitempty"`
}

// ReminderEvents adapts the raw publisher to the dispatcher's event port.
type ReminderEvents struct {
	publisher *Publisher
}

func NewReminderEvents(publisher *Publisher) *ReminderEvents {
	return &ReminderEvents{publisher: publisher}
}

func (e *ReminderEvents) PublishReminder(ctx context.Context, event string, reminder *model.Reminder) error {
	body, err := json.Marshal(ReminderEvent{
		Event:    event,
		Reminder: reminder,
	})
	if err != nil {
		return fmt.Errorf("could not marshal reminder event: %w", err)
	}
	return e.publisher.PublishWithRetry(ctx, body, UserRoutingKey(reminder.UserID))
}

func (e *ReminderEvents) PublishDeleted(ctx context.Context, userID types.UUID, id types.UUID) error {
	body, err := json.Marshal(ReminderEvent{
		Event: ports.EventReminderDeleted,
		ID:    id.String(),
	})
	if err != nil {
		return fmt.Errorf("could not marshal reminder event: %w", err)
	}
	return e.publisher.PublishWithRetry(ctx, body, UserRoutingKey(userID))
}
