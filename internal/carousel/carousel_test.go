package carousel

import (
	"errors"
	"fmt"
	"reflect"
	"testing"
	"time"

	"github.com/five82/marquee/internal/catalog"
	"github.com/five82/marquee/internal/clock"
	"github.com/five82/marquee/internal/transition"
)

var (
	xPlus  = transition.Offset{Axis: transition.AxisX, Magnitude: 100}
	xMinus = transition.Offset{Axis: transition.AxisX, Magnitude: -100}
	yPlus  = transition.Offset{Axis: transition.AxisY, Magnitude: 100}
)

type journal struct {
	entries []string
	frames  []Frame
}

type fakeRenderer struct {
	j         *journal
	commitErr error
}

func (r *fakeRenderer) Render(f Frame) {
	r.j.frames = append(r.j.frames, f)
	r.j.entries = append(r.j.entries, "render "+f.Stage.String())
}

func (r *fakeRenderer) Commit(index int) error {
	r.j.entries = append(r.j.entries, fmt.Sprintf("commit %d", index))
	return r.commitErr
}

// plainRenderer has no Commit method.
type plainRenderer struct{ j *journal }

func (r plainRenderer) Render(f Frame) {
	r.j.frames = append(r.j.frames, f)
	r.j.entries = append(r.j.entries, "render "+f.Stage.String())
}

type fakeMedia struct{ j *journal }

func (m fakeMedia) PauseAll()  { m.j.entries = append(m.j.entries, "pause-all") }
func (m fakeMedia) Sync(i int) { m.j.entries = append(m.j.entries, fmt.Sprintf("sync %d", i)) }

func testCatalog(t *testing.T, styles ...catalog.Style) *catalog.Catalog {
	t.Helper()
	slides := make([]catalog.Slide, len(styles))
	for i, s := range styles {
		slides[i] = catalog.Slide{ID: fmt.Sprint(i), MediaSource: fmt.Sprintf("%02d.mp4", i+1), Title: fmt.Sprintf("Slide %d", i), Style: s}
	}
	c, err := catalog.New(slides)
	if err != nil {
		t.Fatalf("catalog.New: %v", err)
	}
	return c
}

type harness struct {
	c     *Carousel
	clk   *clock.Fake
	j     *journal
	index [][2]int
}

func newHarness(t *testing.T, renderer func(*journal) Renderer, styles ...catalog.Style) *harness {
	t.Helper()
	h := &harness{clk: clock.NewFake(time.Unix(0, 0)), j: &journal{}}
	r := Renderer(&fakeRenderer{j: h.j})
	if renderer != nil {
		r = renderer(h.j)
	}
	c, err := New(Options{
		Catalog:  testCatalog(t, styles...),
		Media:    fakeMedia{j: h.j},
		Renderer: r,
		Clock:    h.clk,
		OnIndexChange: func(prev, cur int) {
			h.index = append(h.index, [2]int{prev, cur})
		},
		NewID: func() string { return "tid" },
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	h.c = c
	return h
}

func (h *harness) reset() {
	h.j.entries = nil
	h.j.frames = nil
}

func offsets(f Frame) []transition.Offset {
	out := make([]transition.Offset, len(f.Placements))
	for i, p := range f.Placements {
		out[i] = p.Offset
	}
	return out
}

func activeCount(f Frame) int {
	n := 0
	for _, p := range f.Placements {
		if p.Active {
			n++
		}
	}
	return n
}

var heroStyles = []catalog.Style{catalog.StyleHorizontal, catalog.StyleVerticalWipe, catalog.StyleHorizontal}

func TestAdvance_BeforeReadyIsInert(t *testing.T) {
	h := newHarness(t, nil, heroStyles...)
	if err := h.c.Advance(1); !errors.Is(err, ErrNotReady) {
		t.Fatalf("Advance before ready = %v, want ErrNotReady", err)
	}
	if len(h.j.entries) != 0 {
		t.Fatalf("entries = %v, want none", h.j.entries)
	}
	if h.clk.Pending() != 0 {
		t.Fatalf("Pending() = %d, want 0", h.clk.Pending())
	}
}

func TestMarkReady_PlaysCurrentOnce(t *testing.T) {
	h := newHarness(t, nil, heroStyles...)
	h.c.MarkReady()
	h.c.MarkReady()

	want := []string{"render settled", "sync 0"}
	if !reflect.DeepEqual(h.j.entries, want) {
		t.Fatalf("entries = %v, want %v", h.j.entries, want)
	}
	snap := h.c.Snapshot()
	if !snap.Ready || snap.Phase != PhaseIdle || snap.Pending != -1 {
		t.Fatalf("snapshot = %+v, want ready idle", snap)
	}
}

func TestAdvance_TwoPhaseSequence(t *testing.T) {
	h := newHarness(t, nil, heroStyles...)
	h.c.MarkReady()
	h.reset()

	if err := h.c.Advance(1); err != nil {
		t.Fatalf("Advance: %v", err)
	}
	want := []string{"pause-all", "render initial", "commit 1"}
	if !reflect.DeepEqual(h.j.entries, want) {
		t.Fatalf("entries after advance = %v, want %v", h.j.entries, want)
	}
	if snap := h.c.Snapshot(); snap.Phase != PhaseTransitioning || snap.Current != 1 || snap.Previous != 0 {
		t.Fatalf("snapshot = %+v, want transitioning 0->1", snap)
	}

	h.clk.Advance(49 * time.Millisecond)
	if len(h.j.entries) != 3 {
		t.Fatalf("final published before settle delay: %v", h.j.entries)
	}

	h.clk.Advance(time.Millisecond)
	want = append(want, "render final", "sync 1")
	if !reflect.DeepEqual(h.j.entries, want) {
		t.Fatalf("entries = %v, want %v", h.j.entries, want)
	}

	initial, final := h.j.frames[0], h.j.frames[1]
	if got := offsets(initial); !reflect.DeepEqual(got, []transition.Offset{transition.Neutral, yPlus, transition.Neutral}) {
		t.Fatalf("initial offsets = %v", got)
	}
	if got := offsets(final); !reflect.DeepEqual(got, []transition.Offset{xMinus, transition.Neutral, transition.Neutral}) {
		t.Fatalf("final offsets = %v", got)
	}
	if final.Seq <= initial.Seq {
		t.Fatalf("frame seq not increasing: %d then %d", initial.Seq, final.Seq)
	}
	if activeCount(final) != 1 || !final.Placements[1].Active {
		t.Fatalf("final frame active placements = %+v, want only slide 1", final.Placements)
	}
	snap := h.c.Snapshot()
	if snap.Phase != PhaseIdle || snap.Stats.Completed != 1 {
		t.Fatalf("snapshot = %+v, want idle with one completed", snap)
	}
	if !reflect.DeepEqual(h.index, [][2]int{{0, 1}}) {
		t.Fatalf("index hook calls = %v, want [[0 1]]", h.index)
	}
}

func TestAdvance_OutOfRangeFailsFast(t *testing.T) {
	h := newHarness(t, nil, heroStyles...)
	h.c.MarkReady()
	for _, target := range []int{-1, 3, 42} {
		if err := h.c.Advance(target); !errors.Is(err, ErrIndexOutOfRange) {
			t.Fatalf("Advance(%d) = %v, want ErrIndexOutOfRange", target, err)
		}
	}
}

func TestAdvance_SameIndexIsNoop(t *testing.T) {
	h := newHarness(t, nil, heroStyles...)
	h.c.MarkReady()
	if err := h.c.Advance(1); err != nil {
		t.Fatalf("Advance: %v", err)
	}
	h.clk.Advance(50 * time.Millisecond)
	h.reset()

	if err := h.c.Advance(1); err != nil {
		t.Fatalf("Advance(current): %v", err)
	}
	h.clk.Advance(time.Second)

	if !reflect.DeepEqual(h.j.entries, []string{"render settled"}) {
		t.Fatalf("entries = %v, want a single settled render and no media calls", h.j.entries)
	}
	for _, off := range offsets(h.j.frames[0]) {
		if !off.IsNeutral() {
			t.Fatalf("no-op frame offsets = %v, want all neutral", offsets(h.j.frames[0]))
		}
	}
	if snap := h.c.Snapshot(); snap.Stats.Noops != 1 || snap.Current != 1 {
		t.Fatalf("snapshot = %+v", snap)
	}
}

func TestAdvance_ReentrantCallSupersedes(t *testing.T) {
	h := newHarness(t, nil, heroStyles...)
	h.c.MarkReady()
	h.reset()

	if err := h.c.Advance(1); err != nil {
		t.Fatalf("Advance(1): %v", err)
	}
	h.clk.Advance(20 * time.Millisecond)
	if err := h.c.Advance(2); err != nil {
		t.Fatalf("Advance(2): %v", err)
	}
	if snap := h.c.Snapshot(); snap.Pending != 2 || snap.Current != 1 {
		t.Fatalf("snapshot = %+v, want pending 2 while transitioning to 1", snap)
	}

	h.clk.Advance(30 * time.Millisecond)
	h.clk.Advance(50 * time.Millisecond)

	snap := h.c.Snapshot()
	if snap.Phase != PhaseIdle || snap.Current != 2 || snap.Previous != 0 {
		t.Fatalf("snapshot = %+v, want idle at 2 coming from 0", snap)
	}
	if snap.Stats.Completed != 1 || snap.Stats.Superseded != 1 {
		t.Fatalf("stats = %+v, want one completed and one superseded", snap.Stats)
	}

	var syncs []string
	for _, e := range h.j.entries {
		if len(e) > 4 && e[:4] == "sync" {
			syncs = append(syncs, e)
		}
	}
	if !reflect.DeepEqual(syncs, []string{"sync 2"}) {
		t.Fatalf("media syncs = %v, want [sync 2]", syncs)
	}
	for _, f := range h.j.frames {
		if f.Stage == StageFinal && f.Current == 1 {
			t.Fatalf("final frame published for abandoned target: %+v", f)
		}
	}
	last := h.j.frames[len(h.j.frames)-1]
	if last.Stage != StageFinal || last.Current != 2 {
		t.Fatalf("last frame = %+v, want final for slide 2", last)
	}
	if got := offsets(last); !reflect.DeepEqual(got, []transition.Offset{xMinus, transition.Neutral, transition.Neutral}) {
		t.Fatalf("final offsets = %v, want slide 0 leaving left", got)
	}
}

func TestAdvance_PendingLatestWins(t *testing.T) {
	h := newHarness(t, nil, catalog.StyleHorizontal, catalog.StyleHorizontal, catalog.StyleHorizontal, catalog.StyleHorizontal)
	h.c.MarkReady()

	_ = h.c.Advance(1)
	_ = h.c.Advance(2)
	_ = h.c.Advance(3)
	h.clk.Advance(200 * time.Millisecond)

	snap := h.c.Snapshot()
	if snap.Current != 3 || snap.Stats.Completed != 1 || snap.Stats.Deferred != 2 {
		t.Fatalf("snapshot = %+v, want one completed transition to 3", snap)
	}
}

func TestAdvance_PendingSameTargetCompletes(t *testing.T) {
	h := newHarness(t, nil, heroStyles...)
	h.c.MarkReady()

	_ = h.c.Advance(1)
	_ = h.c.Advance(1)
	h.clk.Advance(50 * time.Millisecond)

	snap := h.c.Snapshot()
	if snap.Phase != PhaseIdle || snap.Current != 1 || snap.Stats.Superseded != 0 || snap.Stats.Completed != 1 {
		t.Fatalf("snapshot = %+v, want duplicate trigger absorbed", snap)
	}
}

func TestAdvance_PendingBackToStartRestores(t *testing.T) {
	h := newHarness(t, nil, heroStyles...)
	h.c.MarkReady()
	h.reset()

	_ = h.c.Advance(1)
	_ = h.c.Advance(0)
	h.clk.Advance(50 * time.Millisecond)

	snap := h.c.Snapshot()
	if snap.Phase != PhaseIdle || snap.Current != 0 || snap.Stats.Completed != 0 {
		t.Fatalf("snapshot = %+v, want idle back at 0", snap)
	}
	last := h.j.entries[len(h.j.entries)-1]
	if last != "sync 0" {
		t.Fatalf("last entry = %q, want media resumed on slide 0", last)
	}
	if h.clk.Pending() != 0 {
		t.Fatalf("Pending() = %d, want no armed timers", h.clk.Pending())
	}
	if !reflect.DeepEqual(h.index, [][2]int{{0, 1}, {1, 0}}) {
		t.Fatalf("index hook calls = %v", h.index)
	}
}

func TestAdvance_WithoutCommitterStillSettles(t *testing.T) {
	h := newHarness(t, func(j *journal) Renderer { return plainRenderer{j: j} }, heroStyles...)
	h.c.MarkReady()
	h.reset()

	_ = h.c.Advance(2)
	h.clk.Advance(50 * time.Millisecond)

	want := []string{"pause-all", "render initial", "render final", "sync 2"}
	if !reflect.DeepEqual(h.j.entries, want) {
		t.Fatalf("entries = %v, want %v", h.j.entries, want)
	}
}

func TestAdvance_FailingCommitStillSettles(t *testing.T) {
	h := newHarness(t, func(j *journal) Renderer {
		return &fakeRenderer{j: j, commitErr: errors.New("no layout")}
	}, heroStyles...)
	h.c.MarkReady()

	_ = h.c.Advance(2)
	h.clk.Advance(50 * time.Millisecond)

	if snap := h.c.Snapshot(); snap.Phase != PhaseIdle || snap.Current != 2 || snap.Stats.Completed != 1 {
		t.Fatalf("snapshot = %+v, want settled on 2", snap)
	}
}

func TestClose_CancelsPendingTimer(t *testing.T) {
	h := newHarness(t, nil, heroStyles...)
	h.c.MarkReady()
	_ = h.c.Advance(1)
	h.c.Close()
	h.c.Close()
	h.reset()

	h.clk.Advance(50 * time.Millisecond)
	h.clk.Advance(8 * time.Second)

	if len(h.j.entries) != 0 {
		t.Fatalf("entries after close = %v, want none", h.j.entries)
	}
	if h.clk.Pending() != 0 {
		t.Fatalf("Pending() = %d, want 0", h.clk.Pending())
	}
	if err := h.c.Advance(2); !errors.Is(err, ErrClosed) {
		t.Fatalf("Advance after close = %v, want ErrClosed", err)
	}
	if snap := h.c.Snapshot(); snap.Phase != PhaseClosed || snap.Ready {
		t.Fatalf("snapshot = %+v, want closed", snap)
	}
}

func TestStaleSettleIgnored(t *testing.T) {
	h := newHarness(t, nil, heroStyles...)
	h.c.MarkReady()
	_ = h.c.Advance(1)
	staleGen := h.c.gen
	h.clk.Advance(50 * time.Millisecond)
	h.reset()

	h.c.settle(staleGen)
	if len(h.j.entries) != 0 {
		t.Fatalf("stale settle produced %v", h.j.entries)
	}
}

func TestNextPrevWrap(t *testing.T) {
	h := newHarness(t, nil, heroStyles...)
	h.c.MarkReady()

	if err := h.c.Prev(); err != nil {
		t.Fatalf("Prev: %v", err)
	}
	h.clk.Advance(50 * time.Millisecond)
	if cur := h.c.Snapshot().Current; cur != 2 {
		t.Fatalf("Current after Prev = %d, want 2", cur)
	}
	if err := h.c.Next(); err != nil {
		t.Fatalf("Next: %v", err)
	}
	h.clk.Advance(50 * time.Millisecond)
	snap := h.c.Snapshot()
	if snap.Current != 0 || snap.Previous != 2 {
		t.Fatalf("snapshot = %+v, want 2->0", snap)
	}
	last := h.j.frames[len(h.j.frames)-1]
	if !last.Forward {
		t.Fatalf("2->0 frame Forward = false, want wrap-around forward")
	}
}

func TestSingleSlideCatalog(t *testing.T) {
	h := newHarness(t, nil, catalog.StyleHorizontal)
	h.c.MarkReady()
	if err := h.c.Next(); err != nil {
		t.Fatalf("Next: %v", err)
	}
	if snap := h.c.Snapshot(); snap.Stats.Noops != 1 || snap.Phase != PhaseIdle {
		t.Fatalf("snapshot = %+v, want no-op on single slide", snap)
	}
}

func TestHorizontalInitialOffsets(t *testing.T) {
	h := newHarness(t, nil, catalog.StyleHorizontal, catalog.StyleHorizontal, catalog.StyleHorizontal)
	h.c.MarkReady()
	h.reset()

	_ = h.c.Advance(2)
	h.clk.Advance(50 * time.Millisecond)
	_ = h.c.Advance(1)

	fwd := h.j.frames[0]
	back := h.j.frames[2]
	if fwd.Placements[2].Offset != xPlus {
		t.Fatalf("0->2 incoming = %v, want %v", fwd.Placements[2].Offset, xPlus)
	}
	if back.Placements[1].Offset != xMinus {
		t.Fatalf("2->1 incoming = %v, want %v", back.Placements[1].Offset, xMinus)
	}
}
