package ui

import (
	"math"
	"strings"
	"time"

	"github.com/charmbracelet/x/ansi"

	"github.com/five82/marquee/internal/transition"
)

// TransitionDuration is how long a slide takes to move from its initial to
// its final placement.
const TransitionDuration = 1500 * time.Millisecond

// animFrame is the redraw cadence while a transition is animating.
const animFrame = time.Second / 30

// motion is an interpolated placement: a position in percent of the viewport
// along one axis.
type motion struct {
	axis transition.Axis
	pos  float64
}

func (m motion) visible() bool {
	return math.Abs(m.pos) < 100
}

func rest(o transition.Offset) motion {
	return motion{axis: o.Axis, pos: float64(o.Magnitude)}
}

// interpolate returns the placement t of the way from a displayed position to
// a target offset. t is clamped to [0, 1] and eased.
func interpolate(from motion, to transition.Offset, t float64) motion {
	axis := to.Axis
	if to.IsNeutral() {
		axis = from.axis
	}
	if from.pos == 0 {
		axis = to.Axis
	}
	return motion{
		axis: axis,
		pos:  from.pos + (float64(to.Magnitude)-from.pos)*ease(t),
	}
}

// ease is a cubic ease-in-out curve.
func ease(t float64) float64 {
	switch {
	case t <= 0:
		return 0
	case t >= 1:
		return 1
	case t < 0.5:
		return 4 * t * t * t
	default:
		return 1 - math.Pow(-2*t+2, 3)/2
	}
}

// layer is one rendered slide card and where it currently sits.
type layer struct {
	lines []string
	at    motion
}

// compose draws layers onto a width x height canvas in order, later layers on
// top. Layers are clipped to the canvas.
func compose(width, height int, layers []layer) []string {
	canvas := make([]string, height)
	blank := strings.Repeat(" ", width)
	for i := range canvas {
		canvas[i] = blank
	}
	for _, l := range layers {
		dx, dy := 0, 0
		switch l.at.axis {
		case transition.AxisY:
			dy = int(math.Round(l.at.pos * float64(height) / 100))
		default:
			dx = int(math.Round(l.at.pos * float64(width) / 100))
		}
		for row := range canvas {
			src := row - dy
			if src < 0 || src >= len(l.lines) {
				continue
			}
			canvas[row] = overlay(canvas[row], l.lines[src], dx, width)
		}
	}
	return canvas
}

// overlay places top over base shifted dx columns, keeping the result width
// columns wide.
func overlay(base, top string, dx, width int) string {
	if dx >= width || dx <= -width {
		return base
	}
	if w := ansi.StringWidth(top); w < width {
		top += strings.Repeat(" ", width-w)
	}
	if dx >= 0 {
		return ansi.Cut(base, 0, dx) + ansi.Cut(top, 0, width-dx)
	}
	return ansi.Cut(top, -dx, width) + ansi.Cut(base, width+dx, width)
}
