package carousel

import (
	"errors"

	"github.com/five82/marquee/internal/transition"
)

// Phase is the lifecycle position of the state machine.
type Phase int

const (
	PhaseLoading Phase = iota
	PhaseIdle
	PhaseTransitioning
	PhaseClosed
)

func (p Phase) String() string {
	switch p {
	case PhaseLoading:
		return "loading"
	case PhaseIdle:
		return "idle"
	case PhaseTransitioning:
		return "transitioning"
	case PhaseClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// Stage tags which placement map a frame carries.
type Stage int

const (
	// StageSettled frames carry a resting layout (ready, no-op advances).
	StageSettled Stage = iota
	// StageInitial frames carry the pre-commit placement of a transition.
	StageInitial
	// StageFinal frames carry the placement the view animates toward.
	StageFinal
)

func (s Stage) String() string {
	switch s {
	case StageInitial:
		return "initial"
	case StageFinal:
		return "final"
	default:
		return "settled"
	}
}

// Placement is what the view layer needs for one slide.
type Placement struct {
	Index  int
	Offset transition.Offset
	// Active slides are drawn unfaded and accept input; others do not.
	Active bool
}

// Frame is one published layout.
type Frame struct {
	Seq          uint64
	TransitionID string
	Stage        Stage
	Phase        Phase
	Previous     int
	Current      int
	Forward      bool
	Placements   []Placement
}

// Renderer receives every published frame. Render is called with the state
// machine's lock held; implementations must not call back into the Carousel.
type Renderer interface {
	Render(Frame)
}

// Committer is an optional Renderer extension. Commit forces pending placement
// to take visual effect before the next frame is published. A failing or
// missing Commit never blocks a transition.
type Committer interface {
	Commit(index int) error
}

// Media is the playback collaborator. *media.Synchronizer implements it.
type Media interface {
	PauseAll()
	Sync(entering int)
}

// Stats counts transition outcomes.
type Stats struct {
	Completed  int
	Superseded int
	Deferred   int
	Noops      int
}

// State is a point-in-time copy of the state machine.
type State struct {
	Phase      Phase
	Ready      bool
	Current    int
	Previous   int
	Pending    int // -1 when no advance is pending
	Count      int
	Placements []Placement
	Stats      Stats
}

var (
	ErrIndexOutOfRange = errors.New("slide index out of range")
	ErrNotReady        = errors.New("carousel is not ready")
	ErrClosed          = errors.New("carousel is closed")
)

type nopRenderer struct{}

func (nopRenderer) Render(Frame) {}

type nopMedia struct{}

func (nopMedia) PauseAll() {}
func (nopMedia) Sync(int)  {}
