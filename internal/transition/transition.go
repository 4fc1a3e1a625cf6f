// Package transition computes slide placements for a single index change.
//
// Compute is a pure function: it returns the placement of every slide before
// the layout commit (Initial) and after it (Final). Offsets are abstract
// placement deltas, not rendering instructions; the view layer decides how an
// offset of +100% on the X axis looks.
package transition

import (
	"fmt"

	"github.com/five82/marquee/internal/catalog"
)

// Axis is the direction an offset moves along.
type Axis int

const (
	AxisX Axis = iota
	AxisY
)

func (a Axis) String() string {
	if a == AxisY {
		return "Y"
	}
	return "X"
}

// Offset is a slide displacement in percent of the viewport along one axis.
// Magnitude is one of -100, 0 or +100.
type Offset struct {
	Axis      Axis
	Magnitude int
}

// Neutral is the resting placement.
var Neutral = Offset{Axis: AxisX}

// IsNeutral reports whether the offset leaves the slide in place.
func (o Offset) IsNeutral() bool {
	return o.Magnitude == 0
}

func (o Offset) String() string {
	if o.Magnitude == 0 {
		return fmt.Sprintf("(%s,0)", o.Axis)
	}
	return fmt.Sprintf("(%s,%+d%%)", o.Axis, o.Magnitude)
}

// Plan is the pair of placement maps for one transition.
type Plan struct {
	Previous int
	Current  int
	Forward  bool
	Initial  []Offset
	Final    []Offset
}

// IsNoop reports whether the plan moves nothing.
func (p Plan) IsNoop() bool {
	return p.Previous == p.Current
}

// StyleFunc returns the transition style of the slide at an index.
type StyleFunc func(index int) catalog.Style

// Forward reports whether moving from prev to cur walks the ring in catalog
// order, counting the wrap from the last slide back to the first.
func Forward(prev, cur, count int) bool {
	return cur > prev || (cur == 0 && prev == count-1)
}

// Compute returns the initial and final placements for a move from prev to
// cur in a catalog of count slides. Both indices must be in [0, count).
func Compute(prev, cur, count int, styleOf StyleFunc) Plan {
	plan := Plan{
		Previous: prev,
		Current:  cur,
		Initial:  neutral(count),
		Final:    neutral(count),
	}
	if prev == cur {
		return plan
	}

	plan.Forward = Forward(prev, cur, count)
	sign := 1
	if !plan.Forward {
		sign = -1
	}

	incomingWipe := styleOf != nil && styleOf(cur) == catalog.StyleVerticalWipe
	outgoingWipe := styleOf != nil && styleOf(prev) == catalog.StyleVerticalWipe

	// Incoming slide starts off screen on the leading side and settles at rest.
	if incomingWipe && !outgoingWipe {
		plan.Initial[cur] = Offset{Axis: AxisY, Magnitude: 100}
	} else {
		plan.Initial[cur] = Offset{Axis: AxisX, Magnitude: 100 * sign}
	}

	// Outgoing slide starts at rest and leaves toward the trailing side.
	if outgoingWipe && !incomingWipe {
		plan.Final[prev] = Offset{Axis: AxisY, Magnitude: -100}
	} else {
		plan.Final[prev] = Offset{Axis: AxisX, Magnitude: -100 * sign}
	}
	return plan
}

func neutral(count int) []Offset {
	if count < 0 {
		count = 0
	}
	out := make([]Offset, count)
	for i := range out {
		out[i] = Neutral
	}
	return out
}
