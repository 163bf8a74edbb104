package agent

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/planhub-app/reminder-planner/internal/events"
	"github.com/planhub-app/reminder-planner/internal/model"
	"github.com/planhub-app/reminder-planner/internal/ports"
	"github.com/planhub-app/reminder-planner/pkg/types"
	"github.com/wb-go/wbf/zlog"
)

// Service pumps reminder events from the bus into the local scheduler.
// Handling errors are logged and the loop keeps going: a bad event must
// not take the mirror down.
type Service struct {
	consumer  *Consumer
	scheduler *LocalScheduler
}

func NewService(consumer *Consumer, scheduler *LocalScheduler) *Service {
	return &Service{
		consumer:  consumer,
		scheduler: scheduler,
	}
}

func (s *Service) Run(ctx context.Context) error {
	msgs, err := s.consumer.Consume(ctx)
	if err != nil {
		return fmt.Errorf("cannot start consumer: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return s.consumer.Close()
		case msg, ok := <-msgs:
			if !ok {
				return s.consumer.Close()
			}

			var event events.ReminderEvent
			if err := json.Unmarshal(msg.Body, &event); err != nil {
				zlog.Logger.Error().Err(err).Msg("failed to decode event")
				continue
			}
			if err := s.handleEvent(ctx, event); err != nil {
				zlog.Logger.Error().Err(err).Str("event", event.Event).Msg("failed to handle event")
			}
		}
	}
}

func (s *Service) handleEvent(ctx context.Context, event events.ReminderEvent) error {
	switch event.Event {
	case ports.EventReminderCreated, ports.EventReminderUpdated, ports.EventReminderSnoozed:
		if event.Reminder == nil || event.Reminder.ID == nil {
			return fmt.Errorf("event '%s' without reminder payload", event.Event)
		}
		_, err := s.scheduler.ScheduleLocal(ctx, model.MirrorFromReminder(event.Reminder))
		return err

	case ports.EventReminderTriggered:
		if event.Reminder == nil || event.Reminder.ID == nil {
			return fmt.Errorf("event '%s' without reminder payload", event.Event)
		}
		return s.scheduler.MarkTriggered(ctx, *event.Reminder.ID)

	case ports.EventReminderDeleted:
		id, err := types.NewUUID(event.ID)
		if err != nil {
			return fmt.Errorf("event '%s' with bad id: %w", event.Event, err)
		}
		return s.scheduler.CancelLocal(ctx, id)

	default:
		zlog.Logger.Warn().Str("event", event.Event).Msg("unknown event, skipping")
		return nil
	}
}
