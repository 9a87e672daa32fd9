package main

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"gioui.org/f32"
	"gioui.org/io/pointer"
	"github.com/rs/zerolog"

	"honnef.co/go/swipedash/gesture"
	"honnef.co/go/swipedash/touchlog"
)

type logBuilder struct {
	evs []pointer.Event
	t   time.Duration
}

func (lb *logBuilder) add(typ pointer.Type, x, y float32) {
	lb.t += 16 * time.Millisecond
	lb.evs = append(lb.evs, pointer.Event{
		Type:      typ,
		Source:    pointer.Touch,
		PointerID: 1,
		Time:      lb.t,
		Position:  f32.Pt(x, y),
	})
}

// drag adds a complete gesture from (x0, y0) to (x1, y1).
func (lb *logBuilder) drag(x0, y0, x1, y1 float32) {
	lb.add(pointer.Press, x0, y0)
	for i := 1; i <= 4; i++ {
		r := float32(i) / 4
		lb.add(pointer.Drag, x0+(x1-x0)*r, y0+(y1-y0)*r)
	}
	lb.add(pointer.Release, x1, y1)
}

func (lb *logBuilder) bytes(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	w, err := touchlog.NewWriter(&buf)
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range lb.evs {
		if err := w.Write(e); err != nil {
			t.Fatal(err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func replayConfig() Config {
	return Config{
		Gesture: GestureConfig{
			MinSwipeDistance: gesture.DefaultMinSwipeDistance,
			PullThreshold:    gesture.DefaultPullThreshold,
		},
	}
}

func TestReplay(t *testing.T) {
	var lb logBuilder
	lb.drag(300, 200, 100, 210) // left, to the notifications panel
	lb.drag(200, 100, 200, 300) // a pull past the threshold, which grabs the pointer from the swipe
	lb.drag(100, 200, 300, 190) // right, back to the overview
	lb.drag(200, 100, 200, 300) // down; there is nothing to pull on the overview
	lb.drag(200, 200, 230, 220) // too short for anything

	st, err := replay(bytes.NewReader(lb.bytes(t)), replayConfig(), zerolog.Nop())
	if err != nil {
		t.Fatal(err)
	}

	if st.Events != len(lb.evs) {
		t.Errorf("replayed %d events, want %d", st.Events, len(lb.evs))
	}
	checkSwipes(t, st, gesture.DirectionLeft, gesture.DirectionRight, gesture.DirectionDown)
	if st.Refreshes != 1 || st.Failures != 0 {
		t.Errorf("got %d refreshes and %d failures, want 1 and 0", st.Refreshes, st.Failures)
	}
}

func checkSwipes(t *testing.T, st replayStats, want ...gesture.Direction) {
	t.Helper()
	if len(st.Swipes) != len(want) {
		t.Fatalf("got swipes %v, want directions %v", st.Swipes, want)
	}
	for i, dir := range want {
		if st.Swipes[i].Direction != dir {
			t.Errorf("swipe %d went %s, want %s", i, st.Swipes[i].Direction, dir)
		}
	}
}

func TestReplaySwipeGrabCancelsPull(t *testing.T) {
	var lb logBuilder
	lb.drag(300, 200, 100, 210)
	// A diagonal drag that goes past the pull threshold, but is horizontal enough to be grabbed by the swipe first.
	lb.add(pointer.Press, 0, 0)
	lb.add(pointer.Drag, 50, 25)
	lb.add(pointer.Drag, 200, 100)
	lb.add(pointer.Release, 200, 100)

	cfg := replayConfig()
	cfg.Gesture.PreventScroll = true
	st, err := replay(bytes.NewReader(lb.bytes(t)), cfg, zerolog.Nop())
	if err != nil {
		t.Fatal(err)
	}
	checkSwipes(t, st, gesture.DirectionLeft, gesture.DirectionRight)
	if st.Refreshes != 0 || st.Failures != 0 {
		t.Errorf("got %d refreshes and %d failures, want none", st.Refreshes, st.Failures)
	}
}

func TestReplayPullOnlyOnNotifications(t *testing.T) {
	for _, panels := range []int{0, 2} {
		var lb logBuilder
		for i := 0; i < panels; i++ {
			lb.drag(300, 200, 100, 210)
		}
		lb.drag(200, 100, 200, 300)

		st, err := replay(bytes.NewReader(lb.bytes(t)), replayConfig(), zerolog.Nop())
		if err != nil {
			t.Fatal(err)
		}
		if st.Refreshes != 0 {
			t.Errorf("after %d left swipes: got %d refreshes, want 0", panels, st.Refreshes)
		}
		if n := len(st.Swipes); n != panels+1 || st.Swipes[n-1].Direction != gesture.DirectionDown {
			t.Errorf("after %d left swipes: got swipes %v, want a final down swipe", panels, st.Swipes)
		}
	}
}

func TestReplayFailingRefresh(t *testing.T) {
	var lb logBuilder
	lb.drag(300, 200, 100, 210)
	lb.drag(200, 100, 200, 300)

	cfg := replayConfig()
	cfg.Refresh.FailureRate = 1
	st, err := replay(bytes.NewReader(lb.bytes(t)), cfg, zerolog.Nop())
	if err != nil {
		t.Fatal(err)
	}
	if st.Refreshes != 0 || st.Failures != 1 {
		t.Errorf("got %d refreshes and %d failures, want 0 and 1", st.Refreshes, st.Failures)
	}
}

func TestReplayIgnoresMouseWhenDisabled(t *testing.T) {
	var lb logBuilder
	lb.drag(300, 200, 100, 200)
	for i := range lb.evs {
		lb.evs[i].Source = pointer.Mouse
		lb.evs[i].Buttons = pointer.ButtonPrimary
	}

	st, err := replay(bytes.NewReader(lb.bytes(t)), replayConfig(), zerolog.Nop())
	if err != nil {
		t.Fatal(err)
	}
	if len(st.Swipes) != 0 {
		t.Errorf("got swipes %v from mouse input, want none", st.Swipes)
	}

	cfg := replayConfig()
	cfg.Gesture.Mouse = true
	st, err = replay(bytes.NewReader(lb.bytes(t)), cfg, zerolog.Nop())
	if err != nil {
		t.Fatal(err)
	}
	if len(st.Swipes) != 1 || st.Swipes[0].Direction != gesture.DirectionLeft {
		t.Errorf("got swipes %v, want a single left swipe", st.Swipes)
	}
}

func TestReplayBadLog(t *testing.T) {
	_, err := replay(bytes.NewReader([]byte("not a touch log")), replayConfig(), zerolog.Nop())
	if !errors.Is(err, touchlog.ErrBadRecord) {
		t.Errorf("replay()=%v, want ErrBadRecord", err)
	}
}

func TestReplayStatsString(t *testing.T) {
	st := replayStats{
		Events:    14,
		Swipes:    []gesture.SwipeEvent{{Direction: gesture.DirectionLeft}, {Direction: gesture.DirectionDown}},
		Refreshes: 1,
	}
	want := "14 events, 2 swipes [left down], 1 refreshes, 0 failed refreshes"
	if got := st.String(); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}
