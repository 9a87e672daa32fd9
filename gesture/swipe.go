package gesture

import (
	"gioui.org/io/event"
	"gioui.org/io/pointer"
	"gioui.org/op"

	"honnef.co/go/swipedash/container"
)

// DefaultMinSwipeDistance is the distance in pixels a swipe has to exceed when SwipeConfig.MinSwipeDistance isn't set.
const DefaultMinSwipeDistance = 50

// preventScrollSlop is the horizontal distance in pixels after which a swipe with PreventScroll claims the pointer.
const preventScrollSlop = 10

// SwipeConfig configures a Swipe. All callbacks are optional.
type SwipeConfig struct {
	OnSwipeLeft  func()
	OnSwipeRight func()
	OnSwipeUp    func()
	OnSwipeDown  func()

	// MinSwipeDistance is the distance a release has to exceed along the dominant axis for a swipe to fire. Values
	// <= 0 select DefaultMinSwipeDistance.
	MinSwipeDistance float32
	// PreventScroll grabs the pointer once a gesture is clearly horizontal, stopping enclosing scrollables from
	// scrolling along with it.
	PreventScroll bool
	// Mouse makes the recognizer respond to the primary mouse button in addition to touch.
	Mouse bool
}

func (cfg SwipeConfig) minSwipeDistance() float32 {
	if cfg.MinSwipeDistance <= 0 {
		return DefaultMinSwipeDistance
	}
	return cfg.MinSwipeDistance
}

func (cfg SwipeConfig) callback(d Direction) func() {
	switch d {
	case DirectionLeft:
		return cfg.OnSwipeLeft
	case DirectionRight:
		return cfg.OnSwipeRight
	case DirectionUp:
		return cfg.OnSwipeUp
	case DirectionDown:
		return cfg.OnSwipeDown
	default:
		return nil
	}
}

// SwipeState is the live state of a swipe, meant for visual feedback such as moving a panel along with the finger.
type SwipeState struct {
	Swiping   bool
	Direction Direction
	// Distance is the absolute delta along the dominant axis.
	Distance float32
}

// SwipeEvent is reported once per completed swipe.
type SwipeEvent struct {
	Direction Direction
	Distance  float32
}

// Swipe classifies single pointer drags into left, right, up and down swipes.
//
// The zero value is ready to use with the default configuration.
type Swipe struct {
	config SwipeConfig
	// pending is a configuration that was set mid-gesture and takes effect once the gesture ends.
	pending container.Option[SwipeConfig]

	tracker tracker
	origin  container.Option[TouchPoint]
	state   SwipeState
	// grab tracks whether the current gesture asked for the pointer to be grabbed.
	grab bool
}

// Config returns the configuration in effect.
func (s *Swipe) Config() SwipeConfig {
	return s.config
}

// SetConfig replaces the configuration. If a gesture is in progress, the new configuration applies from the next
// gesture on.
func (s *Swipe) SetConfig(cfg SwipeConfig) {
	if s.origin.IsSome() {
		s.pending = container.Some(cfg)
		return
	}
	s.config = cfg
}

// State returns the current swipe state.
func (s *Swipe) State() SwipeState {
	return s.state
}

// Grabbing reports whether the gesture in progress has grabbed the pointer. Other handlers of the pointer get
// cancelled once the grab is added to the operation list.
func (s *Swipe) Grabbing() bool {
	return s.grab
}

// Add the handler to the operation list to receive pointer events.
func (s *Swipe) Add(ops *op.Ops) {
	pointer.InputOp{
		Tag:   s,
		Grab:  s.grab,
		Types: inputTypes,
	}.Add(ops)
}

// Update processes pending pointer events and returns the swipes that completed.
func (s *Swipe) Update(q event.Queue) []SwipeEvent {
	var events []SwipeEvent
	for _, evt := range q.Events(s) {
		e, ok := evt.(pointer.Event)
		if !ok {
			continue
		}

		switch s.tracker.phase(e, s.config.Mouse) {
		case phaseStart:
			s.Start(e.Position)
		case phaseMove:
			if s.Move(e.Position) {
				s.grab = true
			}
		case phaseEnd:
			if ev, ok := s.End(e.Position); ok {
				events = append(events, ev)
			}
		case phaseCancel:
			s.Cancel()
		}
	}
	return events
}

// Start begins a gesture at p.
func (s *Swipe) Start(p TouchPoint) {
	s.origin = container.Some(p)
	s.state = SwipeState{Swiping: true, Direction: DirectionNone}
	s.grab = false
}

// Move updates the gesture with the pointer at p. It reports whether the platform's default handling of the move,
// such as scrolling, should be suppressed.
func (s *Swipe) Move(p TouchPoint) bool {
	origin, ok := s.origin.Get()
	if !ok {
		return false
	}

	d := p.Sub(origin)
	dir, dist := classify(d)
	s.state.Direction = dir
	s.state.Distance = dist

	return s.config.PreventScroll && dir.Horizontal() && abs(d.X) > preventScrollSlop
}

// End finishes the gesture with the pointer released at p. If the release qualifies as a swipe, the matching
// callback fires and End returns the swipe. The state returns to idle either way.
func (s *Swipe) End(p TouchPoint) (SwipeEvent, bool) {
	origin, ok := s.origin.Get()
	if !ok {
		return SwipeEvent{}, false
	}
	defer s.reset()

	d := p.Sub(origin)
	ax, ay := abs(d.X), abs(d.Y)
	minDist := s.config.minSwipeDistance()

	var ev SwipeEvent
	switch {
	case ax > ay && ax > minDist:
		ev.Distance = ax
		if d.X > 0 {
			ev.Direction = DirectionRight
		} else {
			ev.Direction = DirectionLeft
		}
	case ay > ax && ay > minDist:
		ev.Distance = ay
		if d.Y > 0 {
			ev.Direction = DirectionDown
		} else {
			ev.Direction = DirectionUp
		}
	default:
		return SwipeEvent{}, false
	}

	if fn := s.config.callback(ev.Direction); fn != nil {
		fn()
	}
	return ev, true
}

// Cancel abandons the gesture in progress without reporting a swipe.
func (s *Swipe) Cancel() {
	s.tracker.reset()
	s.reset()
}

// Detach drops all gesture state. Callers detach a recognizer when they stop adding it to the operation list.
func (s *Swipe) Detach() {
	s.Cancel()
}

func (s *Swipe) reset() {
	s.origin = container.None[TouchPoint]()
	s.state = SwipeState{}
	s.grab = false
	if cfg, ok := s.pending.Take(); ok {
		s.config = cfg
	}
}
