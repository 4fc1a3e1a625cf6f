// Package autoplay advances the banner on a fixed cadence.
package autoplay

import (
	"log/slog"
	"sync"
	"time"

	"github.com/five82/marquee/internal/clock"
	"github.com/five82/marquee/internal/logging"
)

// DefaultInterval is the time a slide stays on screen before autoplay moves on.
const DefaultInterval = 8 * time.Second

// Advancer is the slice of the carousel the scheduler drives.
type Advancer interface {
	Advance(target int) error
	Position() (current, count int, ready bool)
}

// Scheduler fires Advance((current+1) % count) every interval. The target is
// computed at fire time from the latest position, never captured at arm time.
//
// The scheduler never holds its own lock while calling the Advancer, so the
// Advancer may call Rearm from inside Advance.
type Scheduler struct {
	mu sync.Mutex

	target   Advancer
	clock    clock.Clock
	interval time.Duration
	logger   *slog.Logger

	timer     clock.Timer
	deadline  time.Time
	gen       uint64
	started   bool
	paused    bool
	stopped   bool
	remaining time.Duration
	fired     int
}

// New returns an unstarted scheduler.
func New(target Advancer, clk clock.Clock, interval time.Duration, logger *slog.Logger) *Scheduler {
	if clk == nil {
		clk = clock.Real()
	}
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Scheduler{
		target:   target,
		clock:    clk,
		interval: interval,
		logger:   logging.Component(logger, "autoplay"),
	}
}

// Interval returns the configured cadence.
func (s *Scheduler) Interval() time.Duration { return s.interval }

// Start arms the first tick. A catalog with a single slide leaves the
// scheduler inert.
func (s *Scheduler) Start() {
	_, count, _ := s.target.Position()

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started || s.stopped {
		return
	}
	s.started = true
	if count <= 1 {
		s.logger.Debug("autoplay inert", "slides", count)
		return
	}
	s.armLocked(s.interval)
	s.logger.Debug("autoplay started", "interval", s.interval)
}

// Rearm restarts the countdown from a full interval. It is wired to the
// carousel's index change hook so a manual advance resets the cadence.
func (s *Scheduler) Rearm() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.started || s.stopped {
		return
	}
	if s.paused {
		s.remaining = s.interval
		return
	}
	if s.timer == nil && s.gen == 0 {
		// started inert on a single slide
		return
	}
	s.armLocked(s.interval)
}

// Pause holds autoplay, remembering how much of the interval was left.
func (s *Scheduler) Pause() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.started || s.stopped || s.paused {
		return
	}
	s.paused = true
	s.remaining = s.remainingLocked()
	s.cancelLocked()
}

// Resume re-arms autoplay with the time left when it was paused.
func (s *Scheduler) Resume() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.paused || s.stopped {
		return
	}
	s.paused = false
	if s.gen == 0 {
		return
	}
	d := s.remaining
	if d <= 0 {
		d = s.interval
	}
	s.armLocked(d)
}

// Toggle flips between paused and running and reports whether autoplay is now
// paused.
func (s *Scheduler) Toggle() bool {
	if s.Paused() {
		s.Resume()
	} else {
		s.Pause()
	}
	return s.Paused()
}

// Paused reports whether autoplay is held.
func (s *Scheduler) Paused() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.paused
}

// Remaining returns the time until the next tick, or zero when no tick is
// armed.
func (s *Scheduler) Remaining() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.paused {
		return s.remaining
	}
	return s.remainingLocked()
}

// Fired returns the number of ticks delivered so far.
func (s *Scheduler) Fired() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fired
}

// Stop cancels the pending tick. After Stop no tick fires. A tick already
// inside Advance when Stop runs completes; app teardown closes the carousel
// after Stop so that advance is cancelled too. Stop is idempotent.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return
	}
	s.stopped = true
	s.cancelLocked()
	s.logger.Debug("autoplay stopped", "ticks", s.fired)
}

func (s *Scheduler) armLocked(d time.Duration) {
	s.cancelLocked()
	s.gen++
	gen := s.gen
	s.deadline = s.clock.Now().Add(d)
	s.timer = s.clock.AfterFunc(d, func() { s.fire(gen) })
}

func (s *Scheduler) cancelLocked() {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.deadline = time.Time{}
}

func (s *Scheduler) remainingLocked() time.Duration {
	if s.timer == nil {
		return 0
	}
	left := s.deadline.Sub(s.clock.Now())
	if left < 0 {
		return 0
	}
	return left
}

func (s *Scheduler) fire(gen uint64) {
	s.mu.Lock()
	if gen != s.gen || s.stopped || s.paused {
		s.mu.Unlock()
		return
	}
	s.timer = nil
	s.deadline = time.Time{}
	s.fired++
	s.mu.Unlock()

	cur, count, ready := s.target.Position()
	if ready && count > 1 {
		// Stop may have run while the position was read.
		if !s.live(gen) {
			return
		}
		next := (cur + 1) % count
		if err := s.target.Advance(next); err != nil {
			s.logger.Debug("autoplay advance skipped", "target", next, "error", err)
		}
	}

	// Advance usually re-arms through the index change hook. Arm here when it
	// did not (not ready yet, or the advance was deferred).
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped || s.paused || s.gen != gen {
		return
	}
	s.armLocked(s.interval)
}

// live reports whether tick gen is still the armed tick of a running,
// unpaused scheduler.
func (s *Scheduler) live(gen uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return !s.stopped && !s.paused && s.gen == gen
}
