package agent

import (
	"container/heap"
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/planhub-app/reminder-planner/internal/agent/reminderheap"
	"github.com/planhub-app/reminder-planner/internal/internaltypes"
	"github.com/planhub-app/reminder-planner/internal/model"
	"github.com/planhub-app/reminder-planner/internal/recurrence"
	"github.com/planhub-app/reminder-planner/pkg/types"
	"github.com/wb-go/wbf/zlog"
)

// UpcomingWindow is how far ahead the safety-net poll looks.
const UpcomingWindow = 5 * time.Minute

// LocalScheduler mirrors reminders on the client side, independent of the
// server's own timers: both the server job and the local notification are
// intentionally redundant delivery channels, and cancelling one never
// touches the other.
type LocalScheduler struct {
	sink  SinkInterface
	store MirrorStoreInterface

	heapMutex sync.Mutex
	upcoming  *reminderheap.MirrorHeap

	now func() time.Time
}

func NewLocalScheduler(sink SinkInterface, store MirrorStoreInterface) *LocalScheduler {
	upcoming := &reminderheap.MirrorHeap{}
	heap.Init(upcoming)
	return &LocalScheduler{
		sink:     sink,
		store:    store,
		upcoming: upcoming,
		now:      time.Now,
	}
}

// Reload rebuilds the in-memory upcoming queue from durable storage.
// Stored entries are keyed by reminder id, so a reload after a crash
// reconstructs the same mirror without duplicate notifications.
func (s *LocalScheduler) Reload(ctx context.Context) error {
	entries, err := s.store.List(ctx)
	if err != nil {
		return fmt.Errorf("loading mirror entries: %w", err)
	}

	s.heapMutex.Lock()
	for _, entry := range entries {
		if !entry.Triggered {
			heap.Push(s.upcoming, entry)
		}
	}
	s.heapMutex.Unlock()

	zlog.Logger.Info().Int("amount", len(entries)).Msg("mirror reloaded")
	return nil
}

// ScheduleLocal registers a local notification for the reminder and
// persists the mirror entry together with the sink's handle. Scheduling
// the same reminder again cancels the previous notification first.
func (s *LocalScheduler) ScheduleLocal(ctx context.Context, entry *model.MirrorEntry) (string, error) {
	if existing, err := s.store.Get(ctx, entry.ReminderID); err == nil && existing.Handle != "" {
		if err := s.sink.Cancel(ctx, existing.Handle); err != nil {
			zlog.Logger.Error().Err(err).Str("handle", existing.Handle).Msg("failed to cancel stale notification")
		}
	}

	handle, err := s.sink.Schedule(ctx, contentFor(entry), Trigger{
		At:          entry.ScheduledAt,
		RepeatEvery: repeatInterval(entry.Repeat),
	})
	if err != nil {
		return "", fmt.Errorf("sink rejected schedule: %w", err)
	}

	entry.Handle = handle
	entry.StoredAt = s.now()
	if err := s.store.Save(ctx, entry); err != nil {
		// keep sink and storage consistent
		if cancelErr := s.sink.Cancel(ctx, handle); cancelErr != nil {
			zlog.Logger.Error().Err(cancelErr).Str("handle", handle).Msg("failed to cancel orphaned notification")
		}
		return "", fmt.Errorf("persisting mirror entry: %w", err)
	}

	s.heapMutex.Lock()
	heap.Push(s.upcoming, entry)
	s.heapMutex.Unlock()

	zlog.Logger.Info().
		Stringer("reminder_id", entry.ReminderID).
		Str("handle", handle).
		Msg("local notification scheduled")
	return handle, nil
}

// CancelLocal drops the local notification and the mirror entry. Unknown
// ids are a no-op. The stale heap entry is skipped lazily on pop.
func (s *LocalScheduler) CancelLocal(ctx context.Context, reminderID types.UUID) error {
	entry, err := s.store.Get(ctx, reminderID)
	if err != nil {
		if errors.Is(err, ErrEntryNotFound) {
			return nil
		}
		return err
	}

	if entry.Handle != "" {
		if err := s.sink.Cancel(ctx, entry.Handle); err != nil {
			zlog.Logger.Error().Err(err).Str("handle", entry.Handle).Msg("failed to cancel notification")
		}
	}
	if err := s.store.Delete(ctx, reminderID); err != nil {
		return fmt.Errorf("deleting mirror entry: %w", err)
	}
	return nil
}

// MarkTriggered flags the mirror entry as delivered so the upcoming poll
// stops alerting for it.
func (s *LocalScheduler) MarkTriggered(ctx context.Context, reminderID types.UUID) error {
	entry, err := s.store.Get(ctx, reminderID)
	if err != nil {
		if errors.Is(err, ErrEntryNotFound) {
			return nil
		}
		return err
	}

	entry.Triggered = true
	return s.store.Save(ctx, entry)
}

// CheckUpcoming is the polling safety net: every entry that is enabled and
// due within the look-ahead window gets an immediate notification in case
// the scheduled one was missed. Recurring entries are pushed back at their
// next occurrence, one-shot ones are alerted at most once.
func (s *LocalScheduler) CheckUpcoming(ctx context.Context) {
	now := s.now()
	deadline := now.Add(UpcomingWindow)

	s.heapMutex.Lock()
	defer s.heapMutex.Unlock()

	for s.upcoming.Len() > 0 {
		next := s.upcoming.Peek()
		if next.ScheduledAt.After(deadline) {
			break
		}
		entry := heap.Pop(s.upcoming).(*model.MirrorEntry)

		stored, err := s.store.Get(ctx, entry.ReminderID)
		if err != nil || stored.Triggered || !stored.ScheduledAt.Equal(entry.ScheduledAt) {
			// cancelled, delivered or rescheduled since it was queued
			continue
		}

		if entry.ScheduledAt.Before(now) {
			continue
		}

		minutes := int(entry.ScheduledAt.Sub(now).Round(time.Minute) / time.Minute)
		if err := s.sink.PresentNow(ctx, Content{
			Title: "Reminder Coming Up",
			Body:  fmt.Sprintf("%q in %d minutes", entry.Title, minutes),
			Data:  map[string]string{"type": "reminder", "reminder_id": entry.ReminderID.String()},
		}); err != nil {
			zlog.Logger.Error().Err(err).Stringer("reminder_id", entry.ReminderID).Msg("failed to present upcoming alert")
		}

		if nextAt, ok := recurrence.Next(entry.ScheduledAt, entry.Repeat); ok {
			entry.ScheduledAt = nextAt
			if err := s.store.Save(ctx, entry); err != nil {
				zlog.Logger.Error().Err(err).Stringer("reminder_id", entry.ReminderID).Msg("failed to advance recurring mirror entry")
				continue
			}
			heap.Push(s.upcoming, entry)
		}
	}
}

// DailySummary presents one notification with the day's outstanding
// reminders.
func (s *LocalScheduler) DailySummary(ctx context.Context) {
	entries, err := s.store.List(ctx)
	if err != nil {
		zlog.Logger.Error().Err(err).Msg("failed to load mirror for daily summary")
		return
	}

	now := s.now()
	today := 0
	for _, entry := range entries {
		if entry.Triggered {
			continue
		}
		y1, m1, d1 := entry.ScheduledAt.Date()
		y2, m2, d2 := now.Date()
		if y1 == y2 && m1 == m2 && d1 == d2 {
			today++
		}
	}
	if today == 0 {
		return
	}

	if err := s.sink.PresentNow(ctx, Content{
		Title: "Today's Plan",
		Body:  fmt.Sprintf("You have %d reminders scheduled today", today),
		Data:  map[string]string{"type": "summary"},
	}); err != nil {
		zlog.Logger.Error().Err(err).Msg("failed to present daily summary")
	}
}

func contentFor(entry *model.MirrorEntry) Content {
	return Content{
		Title: entry.Title,
		Body:  entry.Message,
		Data:  map[string]string{"type": "reminder", "reminder_id": entry.ReminderID.String()},
	}
}

// repeatInterval maps a recurrence pattern to the sink's repeat seconds.
// Monthly is approximated as 30 days, which is what the interval-based
// trigger API can express.
func repeatInterval(pattern internaltypes.RecurrencePattern) time.Duration {
	switch pattern {
	case internaltypes.PatternDaily:
		return 24 * time.Hour
	case internaltypes.PatternWeekly:
		return 7 * 24 * time.Hour
	case internaltypes.PatternMonthly:
		return 30 * 24 * time.Hour
	default:
		return 0
	}
}
