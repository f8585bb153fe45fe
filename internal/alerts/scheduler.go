package alerts

import (
	"context"
	"sync"
	"time"
)

// scheduler is a registry of cancellable recurring tasks keyed by alert ID.
// Cancellation is a single lookup-and-cancel; a cancelled task never resumes.
type scheduler struct {
	mu      sync.Mutex
	cancels map[string]context.CancelFunc
}

func newScheduler() *scheduler {
	return &scheduler{cancels: make(map[string]context.CancelFunc)}
}

// start launches a recurring task for id, replacing any existing one.
func (s *scheduler) start(id string, interval time.Duration, tick func()) {
	ctx, cancel := context.WithCancel(context.Background())

	s.mu.Lock()
	if prev, ok := s.cancels[id]; ok {
		prev()
	}
	s.cancels[id] = cancel
	s.mu.Unlock()

	go func() {
		t := time.NewTicker(interval)
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-t.C:
				tick()
			}
		}
	}()
}

// stop cancels the task for id, if any.
func (s *scheduler) stop(id string) {
	s.mu.Lock()
	cancel, ok := s.cancels[id]
	if ok {
		delete(s.cancels, id)
	}
	s.mu.Unlock()
	if ok {
		cancel()
	}
}

// stopAll cancels every registered task.
func (s *scheduler) stopAll() {
	s.mu.Lock()
	cancels := s.cancels
	s.cancels = make(map[string]context.CancelFunc)
	s.mu.Unlock()
	for _, cancel := range cancels {
		cancel()
	}
}
