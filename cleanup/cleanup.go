// Package cleanup removes transient files and directories after a delay.
//
// Deletion is fire-and-forget and best-effort: a path that is already
// gone counts as success, scheduling never blocks the caller, and there
// is no cancellation — deleting twice is harmless.
package cleanup

import (
	"log/slog"
	"os"
	"sync"
	"time"
)

// Scheduler owns the pending deletion timers.
type Scheduler struct {
	logger *slog.Logger

	mu     sync.Mutex
	timers []*time.Timer
}

// NewScheduler creates a cleanup scheduler. A nil logger falls back to
// slog.Default().
func NewScheduler(logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Scheduler{logger: logger}
}

// File schedules path for removal after delay.
func (s *Scheduler) File(path string, delay time.Duration) {
	s.schedule(delay, func() {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			s.logger.Warn("cleanup failed", "path", path, "error", err)
			return
		}
		s.logger.Debug("removed transient file", "path", path)
	})
}

// Dir schedules the directory tree at path for removal after delay.
func (s *Scheduler) Dir(path string, delay time.Duration) {
	s.schedule(delay, func() {
		if err := os.RemoveAll(path); err != nil {
			s.logger.Warn("cleanup failed", "path", path, "error", err)
			return
		}
		s.logger.Debug("removed transient dir", "path", path)
	})
}

func (s *Scheduler) schedule(delay time.Duration, fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.timers = append(s.timers, time.AfterFunc(delay, fn))
}

// Stop cancels all pending deletions. Intended for tests and shutdown;
// deletions already in flight are not interrupted.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range s.timers {
		t.Stop()
	}
	s.timers = nil
}
