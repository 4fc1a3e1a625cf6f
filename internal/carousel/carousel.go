package carousel

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/five82/marquee/internal/catalog"
	"github.com/five82/marquee/internal/clock"
	"github.com/five82/marquee/internal/logging"
	"github.com/five82/marquee/internal/transition"
)

// DefaultSettleDelay separates the initial and final placement of a transition.
const DefaultSettleDelay = 50 * time.Millisecond

// Options configure a Carousel.
type Options struct {
	Catalog     *catalog.Catalog
	Media       Media
	Renderer    Renderer
	Clock       clock.Clock
	Logger      *slog.Logger
	SettleDelay time.Duration
	// OnIndexChange runs whenever a transition starts or a superseded
	// transition falls back to its starting slide. It is called with the
	// Carousel's lock held.
	OnIndexChange func(prev, cur int)
	// NewID generates transition ids for log correlation.
	NewID func() string
}

// Carousel owns the current/previous index, the per-slide placements, and the
// two-phase transition sequence. All methods are safe for concurrent use;
// every state change is serialized through one lock.
type Carousel struct {
	mu sync.Mutex

	catalog  *catalog.Catalog
	media    Media
	renderer Renderer
	clock    clock.Clock
	logger   *slog.Logger
	delay    time.Duration
	onIndex  func(prev, cur int)
	newID    func() string

	phase      Phase
	current    int
	previous   int
	settled    int
	pending    int
	hasPending bool
	placements []transition.Offset
	plan       transition.Plan
	id         string
	timer      clock.Timer
	gen        uint64
	seq        uint64
	stats      Stats
}

// New returns a Carousel in the loading phase showing slide 0.
func New(opts Options) (*Carousel, error) {
	if opts.Catalog == nil || opts.Catalog.Len() == 0 {
		return nil, fmt.Errorf("carousel requires a catalog with at least one slide")
	}
	c := &Carousel{
		catalog:    opts.Catalog,
		media:      opts.Media,
		renderer:   opts.Renderer,
		clock:      opts.Clock,
		logger:     logging.Component(opts.Logger, "carousel"),
		delay:      opts.SettleDelay,
		onIndex:    opts.OnIndexChange,
		newID:      opts.NewID,
		phase:      PhaseLoading,
		placements: neutralOffsets(opts.Catalog.Len()),
	}
	if c.media == nil {
		c.media = nopMedia{}
	}
	if c.renderer == nil {
		c.renderer = nopRenderer{}
	}
	if c.clock == nil {
		c.clock = clock.Real()
	}
	if c.delay <= 0 {
		c.delay = DefaultSettleDelay
	}
	if c.newID == nil {
		c.newID = uuid.NewString
	}
	return c, nil
}

// SetIndexChangeHook replaces the OnIndexChange callback.
func (c *Carousel) SetIndexChangeHook(fn func(prev, cur int)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onIndex = fn
}

// MarkReady moves the carousel from loading to idle, publishes the resting
// layout, and starts playback of the current slide. Only the first call has
// any effect.
func (c *Carousel) MarkReady() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.phase != PhaseLoading {
		return
	}
	c.phase = PhaseIdle
	c.placements = neutralOffsets(c.catalog.Len())
	c.publishLocked(StageSettled)
	c.media.Sync(c.current)
	c.logger.Info("carousel ready", "slides", c.catalog.Len(), "slide", c.current)
}

// Advance moves the banner to target. While a transition is in flight the
// target is held in a single pending slot (latest wins) and applied when the
// in-flight transition reaches its settle point.
func (c *Carousel) Advance(target int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if target < 0 || target >= c.catalog.Len() {
		return fmt.Errorf("advance to %d of %d slides: %w", target, c.catalog.Len(), ErrIndexOutOfRange)
	}

	switch c.phase {
	case PhaseClosed:
		return ErrClosed
	case PhaseLoading:
		return ErrNotReady
	case PhaseTransitioning:
		if c.hasPending && c.pending != target {
			c.logger.Debug("pending advance replaced", "transition_id", c.id, "from", c.pending, "to", target)
		}
		c.pending = target
		c.hasPending = true
		c.stats.Deferred++
		return nil
	}

	if target == c.current {
		c.stats.Noops++
		c.placements = neutralOffsets(c.catalog.Len())
		c.publishLocked(StageSettled)
		return nil
	}
	c.beginLocked(target)
	return nil
}

// Next advances to the following slide in ring order.
func (c *Carousel) Next() error {
	cur, count, _ := c.Position()
	return c.Advance((cur + 1) % count)
}

// Prev advances to the preceding slide in ring order.
func (c *Carousel) Prev() error {
	cur, count, _ := c.Position()
	return c.Advance((cur - 1 + count) % count)
}

// Position reports the current index, the slide count, and whether the
// carousel accepts advances.
func (c *Carousel) Position() (current, count int, ready bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current, c.catalog.Len(), c.phase == PhaseIdle || c.phase == PhaseTransitioning
}

// Snapshot returns a copy of the current state.
func (c *Carousel) Snapshot() State {
	c.mu.Lock()
	defer c.mu.Unlock()

	pending := -1
	if c.hasPending {
		pending = c.pending
	}
	return State{
		Phase:      c.phase,
		Ready:      c.phase == PhaseIdle || c.phase == PhaseTransitioning,
		Current:    c.current,
		Previous:   c.previous,
		Pending:    pending,
		Count:      c.catalog.Len(),
		Placements: c.placementsLocked(),
		Stats:      c.stats,
	}
}

// Close cancels any in-flight transition and pauses media. Timer callbacks
// that race with Close are ignored. Close is idempotent.
func (c *Carousel) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.phase == PhaseClosed {
		return
	}
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	c.gen++
	c.hasPending = false
	wasReady := c.phase != PhaseLoading
	c.phase = PhaseClosed
	if wasReady {
		c.media.PauseAll()
	}
	c.logger.Debug("carousel closed", "stats", fmt.Sprintf("%+v", c.stats))
}

// beginLocked starts a transition from the last settled slide to target.
func (c *Carousel) beginLocked(target int) {
	from := c.settled
	c.previous = from
	c.current = target
	c.phase = PhaseTransitioning
	c.id = c.newID()

	c.media.PauseAll()

	c.plan = transition.Compute(from, target, c.catalog.Len(), c.catalog.StyleOf)
	c.placements = append([]transition.Offset(nil), c.plan.Initial...)
	c.publishLocked(StageInitial)
	c.commitLocked(target)

	c.gen++
	gen := c.gen
	c.timer = c.clock.AfterFunc(c.delay, func() { c.settle(gen) })

	c.logger.Debug("transition started",
		"transition_id", c.id,
		"from", from,
		"to", target,
		"forward", c.plan.Forward,
		"incoming", c.plan.Initial[target].String(),
		"outgoing", c.plan.Final[from].String(),
	)
	if c.onIndex != nil {
		c.onIndex(from, target)
	}
}

// settle runs when the settle delay of transition gen elapses.
func (c *Carousel) settle(gen uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.phase != PhaseTransitioning || gen != c.gen {
		return
	}
	c.timer = nil

	if c.hasPending {
		target := c.pending
		c.hasPending = false
		if target != c.current {
			c.stats.Superseded++
			c.logger.Debug("transition superseded", "transition_id", c.id, "abandoned", c.current, "next", target)
			if target == c.settled {
				c.restoreLocked()
				return
			}
			c.beginLocked(target)
			return
		}
	}

	c.placements = append([]transition.Offset(nil), c.plan.Final...)
	c.phase = PhaseIdle
	c.settled = c.current
	c.publishLocked(StageFinal)
	c.media.Sync(c.current)
	c.stats.Completed++

	title := ""
	if s, ok := c.catalog.Slide(c.current); ok {
		title = s.Title
	}
	c.logger.Info("slide active", "transition_id", c.id, "slide", c.current, "title", title)
}

// restoreLocked abandons an in-flight transition whose pending target is the
// slide it started from.
func (c *Carousel) restoreLocked() {
	abandoned := c.current
	c.current = c.settled
	c.previous = c.settled
	c.phase = PhaseIdle
	c.placements = neutralOffsets(c.catalog.Len())
	c.publishLocked(StageSettled)
	c.media.Sync(c.current)
	if c.onIndex != nil {
		c.onIndex(abandoned, c.current)
	}
}

func (c *Carousel) commitLocked(index int) {
	committer, ok := c.renderer.(Committer)
	if !ok {
		return
	}
	if err := committer.Commit(index); err != nil {
		c.logger.Debug("layout commit skipped", "transition_id", c.id, "slide", index, "error", err)
	}
}

func (c *Carousel) publishLocked(stage Stage) {
	c.seq++
	c.renderer.Render(Frame{
		Seq:          c.seq,
		TransitionID: c.id,
		Stage:        stage,
		Phase:        c.phase,
		Previous:     c.previous,
		Current:      c.current,
		Forward:      c.plan.Forward && stage != StageSettled,
		Placements:   c.placementsLocked(),
	})
}

func (c *Carousel) placementsLocked() []Placement {
	out := make([]Placement, len(c.placements))
	for i, off := range c.placements {
		out[i] = Placement{Index: i, Offset: off, Active: i == c.current}
	}
	return out
}

func neutralOffsets(count int) []transition.Offset {
	out := make([]transition.Offset, count)
	for i := range out {
		out[i] = transition.Neutral
	}
	return out
}
