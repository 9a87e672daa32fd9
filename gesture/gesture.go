// Package gesture implements touch gesture recognizers: directional swipes and pull-to-refresh.
//
// Both recognizers follow a single pointer through its press, drag and release, which are Gio's counterparts of
// touchstart, touchmove and touchend. They can be driven by a Gio event queue via Update, or fed positions directly
// via Start, Move and End.
package gesture

import (
	"fmt"

	"gioui.org/f32"
	"gioui.org/io/pointer"
)

// TouchPoint is a single sampled pointer position.
type TouchPoint = f32.Point

// Direction is the classified direction of a swipe.
type Direction uint8

const (
	DirectionNone Direction = iota
	DirectionLeft
	DirectionRight
	DirectionUp
	DirectionDown
)

func (d Direction) String() string {
	switch d {
	case DirectionNone:
		return "none"
	case DirectionLeft:
		return "left"
	case DirectionRight:
		return "right"
	case DirectionUp:
		return "up"
	case DirectionDown:
		return "down"
	default:
		return fmt.Sprintf("Direction(%d)", d)
	}
}

// Horizontal reports whether d is left or right.
func (d Direction) Horizontal() bool {
	return d == DirectionLeft || d == DirectionRight
}

// classify returns the dominant axis direction of d and the absolute delta along that axis. Equal deltas resolve to
// the vertical axis.
func classify(d f32.Point) (Direction, float32) {
	ax, ay := abs(d.X), abs(d.Y)
	if ax > ay {
		if d.X > 0 {
			return DirectionRight, ax
		}
		return DirectionLeft, ax
	}
	if d.Y > 0 {
		return DirectionDown, ay
	}
	return DirectionUp, ay
}

func abs(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}

// phase is the step of the touch lifecycle that a pointer event maps to.
type phase uint8

const (
	phaseIgnore phase = iota
	phaseStart
	phaseMove
	phaseEnd
	phaseCancel
)

// tracker follows the first pointer pressed inside a recognizer's area and ignores all other pointers until that
// one is released or cancelled.
type tracker struct {
	// active tracks whether a pointer is currently being followed.
	active bool
	// pid is the pointer.ID of the followed pointer.
	pid pointer.ID
}

func (t *tracker) phase(e pointer.Event, mouse bool) phase {
	switch e.Type {
	case pointer.Press:
		if t.active {
			// A second finger doesn't start a second gesture.
			return phaseIgnore
		}
		switch e.Source {
		case pointer.Touch:
		case pointer.Mouse:
			if !mouse || e.Buttons&pointer.ButtonPrimary == 0 {
				return phaseIgnore
			}
		default:
			return phaseIgnore
		}
		t.active = true
		t.pid = e.PointerID
		return phaseStart

	case pointer.Drag:
		if !t.active || e.PointerID != t.pid {
			return phaseIgnore
		}
		return phaseMove

	case pointer.Release:
		if !t.active || e.PointerID != t.pid {
			return phaseIgnore
		}
		t.active = false
		return phaseEnd

	case pointer.Cancel:
		// Cancel affects all pointers
		if !t.active {
			return phaseIgnore
		}
		t.active = false
		return phaseCancel

	default:
		return phaseIgnore
	}
}

func (t *tracker) reset() {
	*t = tracker{}
}

// inputTypes are the pointer events both recognizers subscribe to.
const inputTypes = pointer.Press | pointer.Drag | pointer.Release | pointer.Cancel
