package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/planhub-app/reminder-planner/internal/model"
	"github.com/planhub-app/reminder-planner/internal/ports"
	"github.com/planhub-app/reminder-planner/internal/recurrence"
	"github.com/planhub-app/reminder-planner/pkg/types"
	"github.com/wb-go/wbf/zlog"
	"golang.org/x/sync/errgroup"
)

// ErrTaskNotFound rejects a create whose task link does not resolve for
// the calling user.
var ErrTaskNotFound = errors.New("task not found")

const DefaultSnoozeMinutes = 15

// DispatcherService orchestrates the reminder lifecycle: it persists
// reminders, keeps the job registry in sync with them and emits lifecycle
// events to the owner's channel.
//
// User-initiated operations propagate errors to the caller. Anything that
// runs inside a timer callback (onFire, successor creation) only logs:
// there is no caller waiting and a failed trigger must not crash the
// process.
type DispatcherService struct {
	storageRepo ports.ReminderStoreInterface
	cacheRepo   ports.ReminderCacheInterface
	taskRepo    ports.TaskStoreInterface
	jobRegistry ports.JobRegistryInterface
	events      ports.EventPublisherInterface

	now func() time.Time
}

func NewDispatcherService(
	storageRepo ports.ReminderStoreInterface,
	cacheRepo ports.ReminderCacheInterface,
	taskRepo ports.TaskStoreInterface,
	jobRegistry ports.JobRegistryInterface,
	events ports.EventPublisherInterface,
) *DispatcherService {
	return &DispatcherService{
		storageRepo: storageRepo,
		cacheRepo:   cacheRepo,
		taskRepo:    taskRepo,
		jobRegistry: jobRegistry,
		events:      events,
		now:         time.Now,
	}
}

func (s *DispatcherService) Create(ctx context.Context, reminder *model.Reminder) (*model.Reminder, error) {
	if reminder.TaskID != nil {
		ok, err := s.taskRepo.TaskExists(ctx, *reminder.TaskID, reminder.UserID)
		if err != nil {
			return nil, fmt.Errorf("checking task link: %w", err)
		}
		if !ok {
			return nil, ErrTaskNotFound
		}
	}

	id := types.GenerateUUID()
	reminder.ID = &id
	reminder.Triggered = false
	reminder.Snoozed = false
	reminder.SnoozeCount = 0
	reminder.CreatedAt = s.now()
	reminder.UpdatedAt = reminder.CreatedAt

	if err := s.storageRepo.Create(ctx, reminder); err != nil {
		return nil, fmt.Errorf("reminder storage failed to create: %w", err)
	}

	s.trySaveInCache(ctx, reminder)
	s.scheduleJob(reminder)
	s.emit(ctx, ports.EventReminderCreated, reminder)

	zlog.Logger.Info().Stringer("id", id).Msg("reminder created")
	return reminder, nil
}

func (s *DispatcherService) Get(ctx context.Context, id types.UUID, userID types.UUID) (*model.Reminder, error) {
	cached, err := s.cacheRepo.GetReminder(ctx, id)
	if err == nil && cached.UserID == userID {
		return cached, nil
	}

	reminder, err := s.storageRepo.GetByID(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	s.trySaveInCache(ctx, reminder)
	return reminder, nil
}

func (s *DispatcherService) List(ctx context.Context, userID types.UUID, filter ports.ListFilter) ([]*model.Reminder, int, error) {
	return s.storageRepo.List(ctx, userID, filter)
}

func (s *DispatcherService) Update(ctx context.Context, id types.UUID, userID types.UUID, patch model.ReminderPatch) (*model.Reminder, error) {
	reminder, err := s.storageRepo.GetByID(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	rescheduled := patch.Apply(reminder)
	reminder.UpdatedAt = s.now()

	if err := s.storageRepo.Update(ctx, reminder); err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			// Deleted between the read above and this write; the interim
			// delete already cancelled the timer, so there is nothing left
			// to do here.
			zlog.Logger.Debug().Stringer("id", id).Msg("reminder vanished mid-update, skipping")
			return reminder, nil
		}
		return nil, fmt.Errorf("reminder storage failed to update: %w", err)
	}

	s.trySaveInCache(ctx, reminder)
	if rescheduled {
		s.scheduleJob(reminder)
	}
	s.emit(ctx, ports.EventReminderUpdated, reminder)

	return reminder, nil
}

func (s *DispatcherService) Delete(ctx context.Context, id types.UUID, userID types.UUID) error {
	if _, err := s.storageRepo.GetByID(ctx, id, userID); err != nil {
		return err
	}

	// cancel-before-delete: a dangling timer firing after the row is gone
	// is a defect
	s.jobRegistry.Cancel(id)

	var errGroup errgroup.Group
	errGroup.Go(func() error {
		return s.storageRepo.Delete(ctx, id, userID)
	})
	errGroup.Go(func() error {
		return s.cacheRepo.DeleteReminder(ctx, id)
	})
	if err := errGroup.Wait(); err != nil {
		return fmt.Errorf("reminder storage failed to delete: %w", err)
	}

	s.emitDeleted(ctx, userID, id)
	zlog.Logger.Info().Stringer("id", id).Msg("reminder deleted")
	return nil
}

func (s *DispatcherService) Snooze(ctx context.Context, id types.UUID, userID types.UUID, minutes int) (*model.Reminder, error) {
	if minutes <= 0 {
		minutes = DefaultSnoozeMinutes
	}

	reminder, err := s.storageRepo.GetByID(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	reminder.ScheduledAt = s.now().Add(time.Duration(minutes) * time.Minute)
	reminder.Triggered = false
	reminder.Snoozed = true
	reminder.SnoozeCount++
	reminder.UpdatedAt = s.now()

	if err := s.storageRepo.Update(ctx, reminder); err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			zlog.Logger.Debug().Stringer("id", id).Msg("reminder vanished mid-snooze, skipping")
			return reminder, nil
		}
		return nil, fmt.Errorf("reminder storage failed to snooze: %w", err)
	}

	s.trySaveInCache(ctx, reminder)
	s.scheduleJob(reminder)
	s.emit(ctx, ports.EventReminderSnoozed, reminder)

	zlog.Logger.Info().Stringer("id", id).Int("minutes", minutes).Msg("reminder snoozed")
	return reminder, nil
}

// MarkTriggered records an externally observed delivery, bypassing the
// timer path. The registry entry, if any, is left alone.
func (s *DispatcherService) MarkTriggered(ctx context.Context, id types.UUID, userID types.UUID) (*model.Reminder, error) {
	reminder, err := s.storageRepo.GetByID(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	reminder.Triggered = true
	reminder.UpdatedAt = s.now()

	if err := s.storageRepo.Update(ctx, reminder); err != nil {
		return nil, fmt.Errorf("reminder storage failed to mark triggered: %w", err)
	}

	s.trySaveInCache(ctx, reminder)
	s.emit(ctx, ports.EventReminderTriggered, reminder)
	return reminder, nil
}

// ResyncJobs rebuilds the in-memory registry from storage. The registry
// dies with the process, so every non-triggered reminder is re-scheduled
// at startup; past-due ones fire immediately via the registry contract.
func (s *DispatcherService) ResyncJobs(ctx context.Context) error {
	pending, err := s.storageRepo.FetchPending(ctx)
	if err != nil {
		return fmt.Errorf("fetching pending reminders: %w", err)
	}
	for _, reminder := range pending {
		s.scheduleJob(reminder)
	}
	zlog.Logger.Info().Int("amount", len(pending)).Msg("re-scheduled pending reminders")
	return nil
}

// scheduleJob registers (or replaces) the timer for a reminder. Failures
// are logged and counted, never propagated: the reminder stays persisted
// in its pre-trigger state.
func (s *DispatcherService) scheduleJob(reminder *model.Reminder) {
	id := *reminder.ID
	userID := reminder.UserID
	err := s.jobRegistry.Schedule(id, reminder.ScheduledAt, func() {
		s.onFire(id, userID)
	})
	if err != nil {
		schedulingFailuresTotal.Inc()
		zlog.Logger.Error().Err(err).Stringer("id", id).Msg("failed to schedule reminder")
	}
}

// onFire runs inside the timer callback. The reminder is re-read from
// storage so that edits made after the timer was armed are honored; a row
// that vanished or was already delivered is a no-op. Errors are terminal
// here: logged and swallowed so the timer subsystem never sees them.
func (s *DispatcherService) onFire(id types.UUID, userID types.UUID) {
	ctx := context.Background()

	reminder, err := s.storageRepo.GetByID(ctx, id, userID)
	if err != nil {
		if !errors.Is(err, ports.ErrNotFound) {
			zlog.Logger.Error().Err(err).Stringer("id", id).Msg("failed to load firing reminder")
		}
		return
	}
	if reminder.Triggered {
		return
	}

	remindersTriggeredTotal.Inc()
	zlog.Logger.Info().
		Stringer("id", *reminder.ID).
		Str("title", reminder.Title).
		Stringer("user_id", reminder.UserID).
		Msg("reminder triggered")

	reminder.Triggered = true
	reminder.UpdatedAt = s.now()
	if err := s.storageRepo.Update(ctx, reminder); err != nil {
		zlog.Logger.Error().Err(err).Stringer("id", *reminder.ID).Msg("failed to persist trigger")
		return
	}

	s.trySaveInCache(ctx, reminder)
	s.emit(ctx, ports.EventReminderTriggered, reminder)

	if reminder.Recurring {
		s.spawnSuccessor(ctx, reminder)
	}
}

// spawnSuccessor creates at most one follow-up reminder for a recurring
// one that just fired. The fired reminder keeps its pattern untouched.
func (s *DispatcherService) spawnSuccessor(ctx context.Context, reminder *model.Reminder) {
	nextAt, ok := recurrence.Next(reminder.ScheduledAt, reminder.RecurringPattern)
	if !ok {
		return
	}

	successor := reminder.Successor(types.GenerateUUID(), nextAt, s.now())
	if err := s.storageRepo.Create(ctx, successor); err != nil {
		zlog.Logger.Error().Err(err).Stringer("id", *reminder.ID).Msg("failed to create successor reminder")
		return
	}

	successorsCreatedTotal.Inc()
	s.trySaveInCache(ctx, successor)
	s.scheduleJob(successor)
	s.emit(ctx, ports.EventReminderCreated, successor)

	zlog.Logger.Info().
		Stringer("id", *successor.ID).
		Stringer("next_at", nextAt).
		Msg("recurring reminder rescheduled")
}

func (s *DispatcherService) trySaveInCache(ctx context.Context, reminder *model.Reminder) {
	go func() {
		if err := s.cacheRepo.SaveReminder(ctx, reminder); err != nil {
			zlog.Logger.Error().Err(fmt.Errorf("error saving in cache: %w", err)).Send()
		}
	}()
}

func (s *DispatcherService) emit(ctx context.Context, event string, reminder *model.Reminder) {
	snapshot := *reminder
	go func() {
		if err := s.events.PublishReminder(ctx, event, &snapshot); err != nil {
			zlog.Logger.Error().Err(err).Str("event", event).Msg("failed to publish event")
		}
	}()
}

func (s *DispatcherService) emitDeleted(ctx context.Context, userID types.UUID, id types.UUID) {
	go func() {
		if err := s.events.PublishDeleted(ctx, userID, id); err != nil {
			zlog.Logger.Error().Err(err).Str("event", ports.EventReminderDeleted).Msg("failed to publish event")
		}
	}()
}
