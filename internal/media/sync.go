package media

import (
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/five82/marquee/internal/logging"
)

// OffsetFunc returns the start offset of a slide, nil when the slide is not
// sought before playing.
type OffsetFunc func(index int) *time.Duration

// Synchronizer owns the slide index -> Handle registry and sequences playback
// for the entering slide of each transition.
type Synchronizer struct {
	handles  []Handle
	offsets  OffsetFunc
	logger   *slog.Logger
	watchers sync.WaitGroup
	failures atomic.Int64
}

// NewSynchronizer registers handles by slide index. Nil entries are skipped.
func NewSynchronizer(handles []Handle, offsets OffsetFunc, logger *slog.Logger) *Synchronizer {
	registry := make([]Handle, len(handles))
	copy(registry, handles)
	return &Synchronizer{
		handles: registry,
		offsets: offsets,
		logger:  logging.Component(logger, "media"),
	}
}

// Len returns the number of registered slots.
func (s *Synchronizer) Len() int {
	return len(s.handles)
}

// PauseAll pauses every registered handle. Failures are logged.
func (s *Synchronizer) PauseAll() {
	for i, h := range s.handles {
		if h == nil {
			continue
		}
		if err := h.Pause(); err != nil {
			s.logger.Warn("pause failed", "slide", i, "error", err)
		}
	}
}

// Sync pauses everything, seeks the entering slide to its start offset when
// one is configured, and requests playback. The playback outcome is observed
// on a detached goroutine; a rejection is logged and never retried.
func (s *Synchronizer) Sync(entering int) {
	s.PauseAll()

	if entering < 0 || entering >= len(s.handles) || s.handles[entering] == nil {
		s.logger.Debug("no media handle for slide", "slide", entering)
		return
	}
	h := s.handles[entering]

	if s.offsets != nil {
		if offset := s.offsets(entering); offset != nil {
			if err := h.SeekTo(*offset); err != nil {
				s.logger.Warn("seek failed", "slide", entering, "offset", *offset, "error", err)
			}
		}
	}

	result := h.Play()
	if result == nil {
		return
	}
	s.watchers.Add(1)
	go func() {
		defer s.watchers.Done()
		if err, ok := <-result; ok && err != nil {
			s.failures.Add(1)
			s.logger.Warn("playback failed", "slide", entering, "error", err)
		}
	}()
}

// Failures returns the number of rejected playback requests so far.
func (s *Synchronizer) Failures() int64 {
	return s.failures.Load()
}

// Wait blocks until every outstanding playback request has resolved.
func (s *Synchronizer) Wait() {
	s.watchers.Wait()
}
