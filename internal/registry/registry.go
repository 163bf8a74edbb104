package registry

import (
	"errors"
	"sync"
	"time"

	"github.com/planhub-app/reminder-planner/pkg/types"
	"github.com/wb-go/wbf/zlog"
)

var ErrInvalidTriggerInstant = errors.New("trigger instant is zero")

// TimerHandle is the subset of *time.Timer the registry needs, abstracted
// so tests can drive firing by hand.
type TimerHandle interface {
	Stop() bool
}

// StartTimer arms a one-shot timer that runs fn after d.
type StartTimer func(d time.Duration, fn func()) TimerHandle

// Registry owns the reminderId -> timer mapping for one server process.
// At most one live timer exists per id: scheduling over an existing entry
// cancels it first. The map is empty at startup and is not persisted; the
// dispatcher re-derives it from storage when the process boots.
type Registry struct {
	mu     sync.Mutex
	timers map[types.UUID]TimerHandle

	now   func() time.Time
	start StartTimer
}

func New() *Registry {
	return NewWithTimers(time.Now, func(d time.Duration, fn func()) TimerHandle {
		return time.AfterFunc(d, fn)
	})
}

func NewWithTimers(now func() time.Time, start StartTimer) *Registry {
	return &Registry{
		timers: make(map[types.UUID]TimerHandle),
		now:    now,
		start:  start,
	}
}

// Schedule arms a timer that runs fire at triggerAt. A trigger instant at
// or before now runs fire synchronously and stores nothing. On error no
// entry is stored either.
func (r *Registry) Schedule(id types.UUID, triggerAt time.Time, fire func()) error {
	if triggerAt.IsZero() {
		return ErrInvalidTriggerInstant
	}

	r.mu.Lock()
	if existing, ok := r.timers[id]; ok {
		existing.Stop()
		delete(r.timers, id)
	}

	delay := triggerAt.Sub(r.now())
	if delay <= 0 {
		r.mu.Unlock()
		zlog.Logger.Debug().Stringer("id", id).Msg("trigger instant already passed, firing now")
		fire()
		return nil
	}

	var handle TimerHandle
	handle = r.start(delay, func() {
		r.mu.Lock()
		current, ok := r.timers[id]
		if !ok || current != handle {
			// this callback was dequeued right before a Cancel or a
			// replacing Schedule took the lock; the entry is no longer ours
			r.mu.Unlock()
			return
		}
		delete(r.timers, id)
		r.mu.Unlock()
		fire()
	})
	r.timers[id] = handle
	r.mu.Unlock()
	return nil
}

// Cancel stops and forgets the timer for id. Cancelling an unknown id is a
// no-op. A callback already dequeued but not yet run finds its entry gone
// and backs off.
func (r *Registry) Cancel(id types.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if timer, ok := r.timers[id]; ok {
		timer.Stop()
		delete(r.timers, id)
	}
}

// Scheduled reports whether a live timer exists for id.
func (r *Registry) Scheduled(id types.UUID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, ok := r.timers[id]
	return ok
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.timers)
}
