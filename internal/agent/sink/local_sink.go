package sink

import (
	"context"
	"sync"
	"time"

	"github.com/planhub-app/reminder-planner/internal/agent"
	"github.com/planhub-app/reminder-planner/pkg/types"
	"github.com/wb-go/wbf/zlog"
)

// LocalSink surfaces alerts on the agent's own host: scheduled content is
// printed when its trigger instant arrives. It stands in for a platform
// notification channel while keeping real schedule/cancel semantics, so a
// handle returned here can be cancelled exactly like a push handle.
type LocalSink struct {
	mu     sync.Mutex
	timers map[string]*time.Timer
}

func NewLocalSink() *LocalSink {
	return &LocalSink{
		timers: make(map[string]*time.Timer),
	}
}

func (s *LocalSink) Schedule(ctx context.Context, content agent.Content, trigger agent.Trigger) (string, error) {
	handle := types.GenerateUUID().String()
	delay := time.Until(trigger.At)
	if delay < 0 {
		delay = 0
	}

	s.mu.Lock()
	s.timers[handle] = time.AfterFunc(delay, func() {
		s.fire(handle, content, trigger.RepeatEvery)
	})
	s.mu.Unlock()

	return handle, nil
}

func (s *LocalSink) Cancel(ctx context.Context, handle string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if timer, ok := s.timers[handle]; ok {
		timer.Stop()
		delete(s.timers, handle)
	}
	return nil
}

func (s *LocalSink) PresentNow(ctx context.Context, content agent.Content) error {
	s.present(content)
	return nil
}

func (s *LocalSink) fire(handle string, content agent.Content, repeatEvery time.Duration) {
	s.present(content)

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.timers[handle]; !ok {
		// cancelled while firing
		return
	}
	if repeatEvery <= 0 {
		delete(s.timers, handle)
		return
	}
	s.timers[handle] = time.AfterFunc(repeatEvery, func() {
		s.fire(handle, content, repeatEvery)
	})
}

func (s *LocalSink) present(content agent.Content) {
	zlog.Logger.Info().
		Str("title", content.Title).
		Str("body", content.Body).
		Any("data", content.Data).
		Msg("notification")
}
