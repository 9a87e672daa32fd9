package gesture

import (
	"testing"

	"gioui.org/f32"
	"gioui.org/io/event"
	"gioui.org/io/pointer"
)

type swipeCounts struct {
	left, right, up, down int
}

func (c *swipeCounts) config() SwipeConfig {
	return SwipeConfig{
		OnSwipeLeft:  func() { c.left++ },
		OnSwipeRight: func() { c.right++ },
		OnSwipeUp:    func() { c.up++ },
		OnSwipeDown:  func() { c.down++ },
	}
}

func (c swipeCounts) total() int { return c.left + c.right + c.up + c.down }

func TestSwipeRight(t *testing.T) {
	var counts swipeCounts
	var s Swipe
	s.SetConfig(counts.config())

	s.Start(f32.Pt(100, 100))
	s.Move(f32.Pt(180, 100))
	if got, want := s.State(), (SwipeState{Swiping: true, Direction: DirectionRight, Distance: 80}); got != want {
		t.Errorf("State()=%+v, want %+v", got, want)
	}

	ev, ok := s.End(f32.Pt(180, 100))
	if !ok || ev.Direction != DirectionRight || ev.Distance != 80 {
		t.Errorf("End()=(%+v, %t), want right swipe of 80", ev, ok)
	}
	if counts.right != 1 || counts.total() != 1 {
		t.Errorf("callbacks fired %+v, want exactly one right", counts)
	}
	if got := s.State(); got != (SwipeState{}) {
		t.Errorf("State() after release=%+v, want idle", got)
	}
}

func TestSwipeStartState(t *testing.T) {
	var s Swipe
	s.Start(f32.Pt(10, 10))
	if got, want := s.State(), (SwipeState{Swiping: true, Direction: DirectionNone}); got != want {
		t.Errorf("State() after Start=%+v, want %+v", got, want)
	}
}

func TestSwipeDirections(t *testing.T) {
	tests := []struct {
		name  string
		end   f32.Point
		check func(swipeCounts) bool
	}{
		{"left", f32.Pt(-60, 0), func(c swipeCounts) bool { return c.left == 1 }},
		{"right", f32.Pt(60, 10), func(c swipeCounts) bool { return c.right == 1 }},
		{"up", f32.Pt(5, -60), func(c swipeCounts) bool { return c.up == 1 }},
		{"down", f32.Pt(-5, 60), func(c swipeCounts) bool { return c.down == 1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var counts swipeCounts
			var s Swipe
			s.SetConfig(counts.config())
			s.Start(f32.Pt(0, 0))
			s.Move(tt.end)
			s.End(tt.end)
			if !tt.check(counts) || counts.total() != 1 {
				t.Errorf("callbacks fired %+v", counts)
			}
		})
	}
}

func TestSwipeMinDistanceBoundary(t *testing.T) {
	var counts swipeCounts
	var s Swipe
	s.SetConfig(counts.config())

	s.Start(f32.Pt(0, 0))
	if _, ok := s.End(f32.Pt(DefaultMinSwipeDistance, 0)); ok {
		t.Errorf("swipe of exactly the minimum distance fired")
	}
	if counts.total() != 0 {
		t.Errorf("callbacks fired %+v, want none", counts)
	}

	s.Start(f32.Pt(0, 0))
	if _, ok := s.End(f32.Pt(DefaultMinSwipeDistance+1, 0)); !ok {
		t.Errorf("swipe of minimum distance + 1 didn't fire")
	}
	if counts.right != 1 || counts.total() != 1 {
		t.Errorf("callbacks fired %+v, want exactly one right", counts)
	}
}

func TestSwipeCustomMinDistance(t *testing.T) {
	var counts swipeCounts
	var s Swipe
	cfg := counts.config()
	cfg.MinSwipeDistance = 20
	s.SetConfig(cfg)

	s.Start(f32.Pt(0, 0))
	s.End(f32.Pt(0, -21))
	if counts.up != 1 {
		t.Errorf("callbacks fired %+v, want one up", counts)
	}
}

func TestSwipeDiagonalReleaseDoesNotFire(t *testing.T) {
	var counts swipeCounts
	var s Swipe
	s.SetConfig(counts.config())

	s.Start(f32.Pt(0, 0))
	s.Move(f32.Pt(100, 100))
	if got := s.State().Direction; got != DirectionDown {
		t.Errorf("direction on tie=%s, want down", got)
	}
	if _, ok := s.End(f32.Pt(100, 100)); ok {
		t.Errorf("diagonal release fired a swipe")
	}
	if counts.total() != 0 {
		t.Errorf("callbacks fired %+v, want none", counts)
	}
}

func TestSwipeNoLeakBetweenGestures(t *testing.T) {
	var s Swipe
	s.Start(f32.Pt(0, 0))
	s.Move(f32.Pt(0, 120))
	s.End(f32.Pt(0, 120))

	s.Start(f32.Pt(50, 50))
	if got := s.State().Distance; got != 0 {
		t.Errorf("distance after new Start=%v, want 0", got)
	}
	s.Move(f32.Pt(55, 52))
	if got := s.State(); got.Distance != 5 || got.Direction != DirectionRight {
		t.Errorf("State()=%+v, want right with distance 5", got)
	}
}

func TestSwipeMoveWithoutStart(t *testing.T) {
	var s Swipe
	if s.Move(f32.Pt(100, 0)) {
		t.Errorf("Move without Start asked to prevent scrolling")
	}
	if _, ok := s.End(f32.Pt(100, 0)); ok {
		t.Errorf("End without Start fired a swipe")
	}
	if got := s.State(); got != (SwipeState{}) {
		t.Errorf("State()=%+v, want idle", got)
	}
}

func TestSwipePreventScroll(t *testing.T) {
	var s Swipe
	s.SetConfig(SwipeConfig{PreventScroll: true})

	s.Start(f32.Pt(0, 0))
	if s.Move(f32.Pt(10, 0)) {
		t.Errorf("Move of exactly the slop prevented scrolling")
	}
	if !s.Move(f32.Pt(11, 0)) {
		t.Errorf("horizontal Move past the slop didn't prevent scrolling")
	}
	if s.Move(f32.Pt(11, 40)) {
		t.Errorf("vertical Move prevented scrolling")
	}

	var plain Swipe
	plain.Start(f32.Pt(0, 0))
	if plain.Move(f32.Pt(100, 0)) {
		t.Errorf("Move prevented scrolling without PreventScroll")
	}
}

func TestSwipeUpdateGrabs(t *testing.T) {
	var s Swipe
	s.SetConfig(SwipeConfig{PreventScroll: true})

	s.Update(queue{press(1, 0, 0), drag(1, 30, 0)})
	if !s.Grabbing() {
		t.Errorf("recognizer didn't grab a horizontal drag")
	}
	evs := s.Update(queue{release(1, 90, 0)})
	if len(evs) != 1 || evs[0].Direction != DirectionRight {
		t.Errorf("Update()=%v, want one right swipe", evs)
	}
	if s.Grabbing() {
		t.Errorf("grab survived the end of the gesture")
	}
}

func TestSwipeUpdateIgnoresSecondPointer(t *testing.T) {
	var counts swipeCounts
	var s Swipe
	s.SetConfig(counts.config())

	evs := s.Update(queue{
		press(1, 0, 0),
		press(2, 500, 500),
		drag(2, 0, 500),
		drag(1, 0, 70),
		release(2, 0, 500),
	})
	if len(evs) != 0 {
		t.Errorf("second pointer produced swipes %v", evs)
	}
	if got, want := s.State(), (SwipeState{Swiping: true, Direction: DirectionDown, Distance: 70}); got != want {
		t.Errorf("State()=%+v, want %+v", got, want)
	}

	evs = s.Update(queue{release(1, 0, 70)})
	if len(evs) != 1 || evs[0].Direction != DirectionDown {
		t.Errorf("Update()=%v, want one down swipe", evs)
	}
	if counts.down != 1 || counts.total() != 1 {
		t.Errorf("callbacks fired %+v, want exactly one down", counts)
	}
}

func TestSwipeUpdateCancel(t *testing.T) {
	var counts swipeCounts
	var s Swipe
	s.SetConfig(counts.config())

	evs := s.Update(queue{
		press(1, 0, 0),
		drag(1, 200, 0),
		pointer.Event{Type: pointer.Cancel},
		release(1, 200, 0),
	})
	if len(evs) != 0 || counts.total() != 0 {
		t.Errorf("cancelled gesture fired %v, %+v", evs, counts)
	}
	if got := s.State(); got != (SwipeState{}) {
		t.Errorf("State() after cancel=%+v, want idle", got)
	}
}

func TestSwipeUpdateSkipsNonPointerEvents(t *testing.T) {
	type other struct{ event.Event }
	var s Swipe
	s.Update(queue{other{}})
	if got := s.State(); got != (SwipeState{}) {
		t.Errorf("State()=%+v, want idle", got)
	}
}

func TestSwipeConfigSwapMidGesture(t *testing.T) {
	var first, second swipeCounts
	var s Swipe
	s.SetConfig(first.config())

	s.Start(f32.Pt(0, 0))
	s.SetConfig(second.config())
	s.End(f32.Pt(-100, 0))
	if first.left != 1 || second.total() != 0 {
		t.Errorf("in-flight gesture used the new config: first=%+v second=%+v", first, second)
	}

	s.Start(f32.Pt(0, 0))
	s.End(f32.Pt(-100, 0))
	if second.left != 1 || first.left != 1 {
		t.Errorf("next gesture didn't use the new config: first=%+v second=%+v", first, second)
	}
}

func TestSwipeStateVisibleToCallback(t *testing.T) {
	var s Swipe
	var seen SwipeState
	s.SetConfig(SwipeConfig{OnSwipeUp: func() { seen = s.State() }})

	s.Start(f32.Pt(0, 100))
	s.Move(f32.Pt(0, 0))
	s.End(f32.Pt(0, 0))
	if !seen.Swiping || seen.Direction != DirectionUp {
		t.Errorf("callback saw %+v, want the tracking state", seen)
	}
	if got := s.State(); got != (SwipeState{}) {
		t.Errorf("State() after release=%+v, want idle", got)
	}
}

func TestSwipeDetach(t *testing.T) {
	var counts swipeCounts
	var s Swipe
	s.SetConfig(counts.config())

	s.Update(queue{press(1, 0, 0), drag(1, 100, 0)})
	s.Detach()
	evs := s.Update(queue{release(1, 100, 0)})
	if len(evs) != 0 || counts.total() != 0 {
		t.Errorf("detached recognizer fired %v, %+v", evs, counts)
	}
}
