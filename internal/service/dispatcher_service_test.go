package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/planhub-app/reminder-planner/internal/internaltypes"
	"github.com/planhub-app/reminder-planner/internal/model"
	"github.com/planhub-app/reminder-planner/internal/ports"
	"github.com/planhub-app/reminder-planner/pkg/types"
)

// mockReminderStore implements ports.ReminderStoreInterface in memory.
type mockReminderStore struct {
	mu        sync.Mutex
	reminders map[string]*model.Reminder
	createErr error
	updateErr error
}

func newMockReminderStore() *mockReminderStore {
	return &mockReminderStore{reminders: make(map[string]*model.Reminder)}
}

func (m *mockReminderStore) Create(ctx context.Context, reminder *model.Reminder) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createErr != nil {
		return m.createErr
	}
	clone := *reminder
	m.reminders[reminder.ID.String()] = &clone
	return nil
}

func (m *mockReminderStore) GetByID(ctx context.Context, id types.UUID, userID types.UUID) (*model.Reminder, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	reminder, ok := m.reminders[id.String()]
	if !ok || reminder.UserID != userID {
		return nil, ports.ErrNotFound
	}
	clone := *reminder
	return &clone, nil
}

func (m *mockReminderStore) List(ctx context.Context, userID types.UUID, filter ports.ListFilter) ([]*model.Reminder, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	result := []*model.Reminder{}
	for _, reminder := range m.reminders {
		if reminder.UserID == userID {
			clone := *reminder
			result = append(result, &clone)
		}
	}
	return result, len(result), nil
}

func (m *mockReminderStore) Update(ctx context.Context, reminder *model.Reminder) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.updateErr != nil {
		return m.updateErr
	}
	if _, ok := m.reminders[reminder.ID.String()]; !ok {
		return ports.ErrNotFound
	}
	clone := *reminder
	m.reminders[reminder.ID.String()] = &clone
	return nil
}

func (m *mockReminderStore) Delete(ctx context.Context, id types.UUID, userID types.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	reminder, ok := m.reminders[id.String()]
	if !ok || reminder.UserID != userID {
		return ports.ErrNotFound
	}
	delete(m.reminders, id.String())
	return nil
}

func (m *mockReminderStore) FetchPending(ctx context.Context) ([]*model.Reminder, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	result := []*model.Reminder{}
	for _, reminder := range m.reminders {
		if !reminder.Triggered {
			clone := *reminder
			result = append(result, &clone)
		}
	}
	return result, nil
}

func (m *mockReminderStore) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.reminders)
}

func (m *mockReminderStore) byID(id types.UUID) *model.Reminder {
	m.mu.Lock()
	defer m.mu.Unlock()
	reminder, ok := m.reminders[id.String()]
	if !ok {
		return nil
	}
	clone := *reminder
	return &clone
}

// other returns some reminder that is not the given one; used to find a
// recurring successor.
func (m *mockReminderStore) other(id types.UUID) *model.Reminder {
	m.mu.Lock()
	defer m.mu.Unlock()
	for key, reminder := range m.reminders {
		if key != id.String() {
			clone := *reminder
			return &clone
		}
	}
	return nil
}

type mockReminderCache struct {
	mu      sync.Mutex
	entries map[string]*model.Reminder
}

func newMockReminderCache() *mockReminderCache {
	return &mockReminderCache{entries: make(map[string]*model.Reminder)}
}

func (m *mockReminderCache) SaveReminder(ctx context.Context, reminder *model.Reminder) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	clone := *reminder
	m.entries[reminder.ID.String()] = &clone
	return nil
}

func (m *mockReminderCache) GetReminder(ctx context.Context, id types.UUID) (*model.Reminder, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	reminder, ok := m.entries[id.String()]
	if !ok {
		return nil, errors.New("cache miss")
	}
	clone := *reminder
	return &clone, nil
}

func (m *mockReminderCache) DeleteReminder(ctx context.Context, id types.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, id.String())
	return nil
}

type mockTaskStore struct {
	existing map[string]bool
}

func (m *mockTaskStore) TaskExists(ctx context.Context, id types.UUID, userID types.UUID) (bool, error) {
	return m.existing[id.String()], nil
}

type fakeJob struct {
	at   time.Time
	fire func()
}

// fakeJobRegistry mimics the registry contract: one entry per id, firing
// removes the entry.
type fakeJobRegistry struct {
	mu            sync.Mutex
	jobs          map[string]fakeJob
	scheduleCalls int
}

func newFakeJobRegistry() *fakeJobRegistry {
	return &fakeJobRegistry{jobs: make(map[string]fakeJob)}
}

func (f *fakeJobRegistry) Schedule(id types.UUID, triggerAt time.Time, fire func()) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.scheduleCalls++
	f.jobs[id.String()] = fakeJob{at: triggerAt, fire: fire}
	return nil
}

func (f *fakeJobRegistry) Cancel(id types.UUID) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.jobs, id.String())
}

func (f *fakeJobRegistry) scheduled(id types.UUID) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.jobs[id.String()]
	return ok
}

func (f *fakeJobRegistry) len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.jobs)
}

// fire simulates the timer coming due.
func (f *fakeJobRegistry) fire(t *testing.T, id types.UUID) {
	t.Helper()
	f.mu.Lock()
	job, ok := f.jobs[id.String()]
	if ok {
		delete(f.jobs, id.String())
	}
	f.mu.Unlock()
	if !ok {
		t.Fatalf("no job scheduled for %s", id)
	}
	job.fire()
}

type mockEventPublisher struct {
	mu     sync.Mutex
	events []string
}

func (m *mockEventPublisher) PublishReminder(ctx context.Context, event string, reminder *model.Reminder) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, event)
	return nil
}

func (m *mockEventPublisher) PublishDeleted(ctx context.Context, userID types.UUID, id types.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, ports.EventReminderDeleted)
	return nil
}

// waitForEvent polls for an asynchronously published event.
func (m *mockEventPublisher) waitForEvent(t *testing.T, want string) {
	t.Helper()
	deadline := time.Now().Add(500 * time.Millisecond)
	for time.Now().Before(deadline) {
		m.mu.Lock()
		for _, event := range m.events {
			if event == want {
				m.mu.Unlock()
				return
			}
		}
		m.mu.Unlock()
		time.Sleep(5 * time.Millisecond)
	}
	t.Errorf("event %q was never published", want)
}

type fixture struct {
	store    *mockReminderStore
	cache    *mockReminderCache
	tasks    *mockTaskStore
	registry *fakeJobRegistry
	events   *mockEventPublisher
	service  *DispatcherService
	now      time.Time
	userID   types.UUID
}

func newFixture() *fixture {
	f := &fixture{
		store:    newMockReminderStore(),
		cache:    newMockReminderCache(),
		tasks:    &mockTaskStore{existing: map[string]bool{}},
		registry: newFakeJobRegistry(),
		events:   &mockEventPublisher{},
		now:      time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC),
		userID:   types.GenerateUUID(),
	}
	f.service = NewDispatcherService(f.store, f.cache, f.tasks, f.registry, f.events)
	f.service.now = func() time.Time { return f.now }
	return f
}

func (f *fixture) newReminder(scheduledAt time.Time) *model.Reminder {
	return &model.Reminder{
		UserID:      f.userID,
		Title:       "Standup",
		Message:     "daily standup",
		ScheduledAt: scheduledAt,
		Type:        internaltypes.TypePush,
	}
}

func (f *fixture) newRecurring(scheduledAt time.Time, pattern internaltypes.RecurrencePattern) *model.Reminder {
	reminder := f.newReminder(scheduledAt)
	reminder.Recurring = true
	reminder.RecurringPattern = pattern
	return reminder
}

func TestCreatePersistsAndSchedules(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	created, err := f.service.Create(ctx, f.newReminder(f.now.Add(time.Hour)))
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if created.ID == nil {
		t.Fatal("Create() must assign an id")
	}
	if created.Triggered {
		t.Error("new reminder must not be triggered")
	}

	stored := f.store.byID(*created.ID)
	if stored == nil {
		t.Fatal("reminder not persisted")
	}
	if !f.registry.scheduled(*created.ID) {
		t.Error("reminder not scheduled in the registry")
	}
	f.events.waitForEvent(t, ports.EventReminderCreated)
}

func TestCreateRejectsUnknownTaskLink(t *testing.T) {
	f := newFixture()
	taskID := types.GenerateUUID()

	reminder := f.newReminder(f.now.Add(time.Hour))
	reminder.TaskID = &taskID

	_, err := f.service.Create(context.Background(), reminder)
	if !errors.Is(err, ErrTaskNotFound) {
		t.Fatalf("Create() error = %v, want ErrTaskNotFound", err)
	}
	if f.store.count() != 0 {
		t.Error("rejected create must not persist anything")
	}
	if f.registry.len() != 0 {
		t.Error("rejected create must not schedule anything")
	}
}

func TestCreateAcceptsValidTaskLink(t *testing.T) {
	f := newFixture()
	taskID := types.GenerateUUID()
	f.tasks.existing[taskID.String()] = true

	reminder := f.newReminder(f.now.Add(time.Hour))
	reminder.TaskID = &taskID

	created, err := f.service.Create(context.Background(), reminder)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if created.TaskID == nil || *created.TaskID != taskID {
		t.Error("task link lost on create")
	}
}

func TestUpdateReschedulesOnlyWhenInstantChanges(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	created, err := f.service.Create(ctx, f.newReminder(f.now.Add(time.Hour)))
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	callsAfterCreate := f.registry.scheduleCalls

	newTitle := "Standup (moved)"
	if _, err := f.service.Update(ctx, *created.ID, f.userID, model.ReminderPatch{Title: &newTitle}); err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if f.registry.scheduleCalls != callsAfterCreate {
		t.Error("title-only update must not reschedule")
	}

	newAt := f.now.Add(2 * time.Hour)
	updated, err := f.service.Update(ctx, *created.ID, f.userID, model.ReminderPatch{ScheduledAt: &newAt})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if !updated.ScheduledAt.Equal(newAt) {
		t.Errorf("ScheduledAt = %v, want %v", updated.ScheduledAt, newAt)
	}
	if f.registry.scheduleCalls != callsAfterCreate+1 {
		t.Error("instant change must reschedule exactly once")
	}
	if got := f.registry.len(); got != 1 {
		t.Errorf("registry holds %d timers for one reminder, want 1", got)
	}
}

func TestUpdateOfDeletedReminderIsSilentNoOp(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	created, err := f.service.Create(ctx, f.newReminder(f.now.Add(time.Hour)))
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	// the row vanishes between the dispatcher's read and its write
	f.store.updateErr = ports.ErrNotFound
	callsBefore := f.registry.scheduleCalls

	newAt := f.now.Add(3 * time.Hour)
	if _, err := f.service.Update(ctx, *created.ID, f.userID, model.ReminderPatch{ScheduledAt: &newAt}); err != nil {
		t.Fatalf("Update() racing a delete must be a no-op, got error %v", err)
	}
	if f.registry.scheduleCalls != callsBefore {
		t.Error("no-op update must not reschedule")
	}
}

func TestUpdateUnknownReminderFails(t *testing.T) {
	f := newFixture()

	_, err := f.service.Update(context.Background(), types.GenerateUUID(), f.userID, model.ReminderPatch{})
	if !errors.Is(err, ports.ErrNotFound) {
		t.Fatalf("Update() error = %v, want ErrNotFound", err)
	}
}

func TestDeleteCancelsPendingFire(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	created, err := f.service.Create(ctx, f.newRecurring(f.now.Add(time.Hour), internaltypes.PatternDaily))
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if err := f.service.Delete(ctx, *created.ID, f.userID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	if f.registry.scheduled(*created.ID) {
		t.Error("delete must cancel the pending timer")
	}
	if f.store.count() != 0 {
		t.Error("delete must remove the persisted reminder")
	}
	// with the timer cancelled there is nothing left to fire, so no
	// successor can ever be created
	if f.registry.len() != 0 {
		t.Error("no timers may survive the delete")
	}
	f.events.waitForEvent(t, ports.EventReminderDeleted)
}

func TestDeleteScopedToOwner(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	created, err := f.service.Create(ctx, f.newReminder(f.now.Add(time.Hour)))
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	err = f.service.Delete(ctx, *created.ID, types.GenerateUUID())
	if !errors.Is(err, ports.ErrNotFound) {
		t.Fatalf("Delete() by another user = %v, want ErrNotFound", err)
	}
	if !f.registry.scheduled(*created.ID) {
		t.Error("foreign delete must not cancel the timer")
	}
}

func TestSnoozeResetsTriggered(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	created, err := f.service.Create(ctx, f.newReminder(f.now.Add(time.Hour)))
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if _, err := f.service.MarkTriggered(ctx, *created.ID, f.userID); err != nil {
		t.Fatalf("MarkTriggered() error = %v", err)
	}
	if !f.store.byID(*created.ID).Triggered {
		t.Fatal("MarkTriggered() did not persist the flag")
	}

	snoozed, err := f.service.Snooze(ctx, *created.ID, f.userID, 10)
	if err != nil {
		t.Fatalf("Snooze() error = %v", err)
	}

	if snoozed.Triggered {
		t.Error("snooze must reset triggered")
	}
	if !snoozed.Snoozed {
		t.Error("snooze must set snoozed")
	}
	if snoozed.SnoozeCount != 1 {
		t.Errorf("SnoozeCount = %d, want 1", snoozed.SnoozeCount)
	}
	want := f.now.Add(10 * time.Minute)
	if !snoozed.ScheduledAt.Equal(want) {
		t.Errorf("ScheduledAt = %v, want %v", snoozed.ScheduledAt, want)
	}
	if !f.registry.scheduled(*created.ID) {
		t.Error("snooze must reschedule the timer")
	}
	f.events.waitForEvent(t, ports.EventReminderSnoozed)
}

func TestSnoozeDefaultsToFifteenMinutes(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	created, err := f.service.Create(ctx, f.newReminder(f.now.Add(time.Hour)))
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	snoozed, err := f.service.Snooze(ctx, *created.ID, f.userID, 0)
	if err != nil {
		t.Fatalf("Snooze() error = %v", err)
	}
	want := f.now.Add(DefaultSnoozeMinutes * time.Minute)
	if !snoozed.ScheduledAt.Equal(want) {
		t.Errorf("ScheduledAt = %v, want %v", snoozed.ScheduledAt, want)
	}
}

func TestRecurringTriggerSpawnsExactlyOneSuccessor(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	scheduledAt := f.now.Add(time.Hour)
	created, err := f.service.Create(ctx, f.newRecurring(scheduledAt, internaltypes.PatternDaily))
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	f.registry.fire(t, *created.ID)

	original := f.store.byID(*created.ID)
	if !original.Triggered {
		t.Error("fired reminder must be triggered")
	}
	if original.RecurringPattern != internaltypes.PatternDaily {
		t.Error("firing must not change the pattern of the fired reminder")
	}

	if got := f.store.count(); got != 2 {
		t.Fatalf("store holds %d reminders after recurring fire, want 2", got)
	}
	successor := f.store.other(*created.ID)
	if successor == nil {
		t.Fatal("no successor created")
	}
	want := scheduledAt.AddDate(0, 0, 1)
	if !successor.ScheduledAt.Equal(want) {
		t.Errorf("successor ScheduledAt = %v, want %v", successor.ScheduledAt, want)
	}
	if successor.Triggered {
		t.Error("successor must start untriggered")
	}
	if successor.Title != created.Title || successor.UserID != created.UserID {
		t.Error("successor must inherit title and owner")
	}
	if !f.registry.scheduled(*successor.ID) {
		t.Error("successor must be scheduled under its own id")
	}
}

func TestNonRecurringTriggerLifecycle(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	created, err := f.service.Create(ctx, f.newReminder(f.now.Add(5*time.Minute)))
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	fetched, err := f.service.Get(ctx, *created.ID, f.userID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if fetched.Triggered {
		t.Fatal("reminder must not be triggered before its instant")
	}

	f.registry.fire(t, *created.ID)

	if !f.store.byID(*created.ID).Triggered {
		t.Error("reminder must be triggered after firing")
	}
	if f.registry.scheduled(*created.ID) {
		t.Error("no registry entry may remain after firing")
	}
	if got := f.store.count(); got != 1 {
		t.Errorf("non-recurring fire created %d extra reminders", got-1)
	}
}

func TestTriggerPersistenceFailureIsSwallowed(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	created, err := f.service.Create(ctx, f.newRecurring(f.now.Add(time.Hour), internaltypes.PatternDaily))
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	f.store.updateErr = errors.New("storage down")
	f.registry.fire(t, *created.ID) // must not panic

	if got := f.store.count(); got != 1 {
		t.Errorf("failed trigger must not create a successor, store holds %d", got)
	}
}

func TestFireHonorsInterveningUpdate(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	created, err := f.service.Create(ctx, f.newRecurring(f.now.Add(time.Hour), internaltypes.PatternDaily))
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	// edits that keep the instant do not reschedule, but the fire must
	// still see them
	notRecurring := false
	newTitle := "Standup (one last time)"
	if _, err := f.service.Update(ctx, *created.ID, f.userID, model.ReminderPatch{
		Recurring: &notRecurring,
		Title:     &newTitle,
	}); err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	f.registry.fire(t, *created.ID)

	if got := f.store.count(); got != 1 {
		t.Fatalf("fire after a non-recurring update created %d extra reminders", got-1)
	}
	final := f.store.byID(*created.ID)
	if !final.Triggered {
		t.Error("reminder must be triggered after firing")
	}
	if final.Recurring {
		t.Error("fire must not restore the stale recurrence flag")
	}
	if final.Title != newTitle {
		t.Errorf("fire reverted the title to %q, want %q", final.Title, newTitle)
	}
}

func TestFireAfterRowVanishedIsNoOp(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	created, err := f.service.Create(ctx, f.newRecurring(f.now.Add(time.Hour), internaltypes.PatternDaily))
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	// the row disappears without going through the dispatcher
	f.store.mu.Lock()
	delete(f.store.reminders, created.ID.String())
	f.store.mu.Unlock()

	f.registry.fire(t, *created.ID) // must not panic

	if got := f.store.count(); got != 0 {
		t.Errorf("fire on a vanished row wrote %d reminders, want 0", got)
	}
}

func TestFireSkipsAlreadyDelivered(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	created, err := f.service.Create(ctx, f.newRecurring(f.now.Add(time.Hour), internaltypes.PatternDaily))
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if _, err := f.service.MarkTriggered(ctx, *created.ID, f.userID); err != nil {
		t.Fatalf("MarkTriggered() error = %v", err)
	}

	f.registry.fire(t, *created.ID)

	if got := f.store.count(); got != 1 {
		t.Errorf("an already delivered reminder spawned %d successors", got-1)
	}
}

func TestResyncJobsReschedulesPending(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	pending, err := f.service.Create(ctx, f.newReminder(f.now.Add(time.Hour)))
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	done, err := f.service.Create(ctx, f.newReminder(f.now.Add(2*time.Hour)))
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if _, err := f.service.MarkTriggered(ctx, *done.ID, f.userID); err != nil {
		t.Fatalf("MarkTriggered() error = %v", err)
	}

	// a fresh registry after a restart
	f.registry = newFakeJobRegistry()
	f.service.jobRegistry = f.registry

	if err := f.service.ResyncJobs(ctx); err != nil {
		t.Fatalf("ResyncJobs() error = %v", err)
	}
	if !f.registry.scheduled(*pending.ID) {
		t.Error("pending reminder must be rescheduled at startup")
	}
	if f.registry.scheduled(*done.ID) {
		t.Error("triggered reminder must not be rescheduled")
	}
}
