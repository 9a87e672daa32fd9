package gesture

import (
	"context"
	"fmt"
	"sync"

	"gioui.org/io/event"
	"gioui.org/io/pointer"
	"gioui.org/layout"
	"gioui.org/op"

	"honnef.co/go/swipedash/container"
	"honnef.co/go/swipedash/mysync"
)

// DefaultPullThreshold is the pull distance in pixels that has to be exceeded when PullConfig.Threshold isn't set.
const DefaultPullThreshold = 80

// PullConfig configures a PullToRefresh.
type PullConfig struct {
	// Threshold is the distance the pull has to exceed for a release to trigger a refresh. Values <= 0 select
	// DefaultPullThreshold.
	Threshold float32
	// Disabled turns the recognizer off. It is enabled by default.
	Disabled bool
	// Mouse makes the recognizer respond to the primary mouse button in addition to touch.
	Mouse bool
}

func (cfg PullConfig) threshold() float32 {
	if cfg.Threshold <= 0 {
		return DefaultPullThreshold
	}
	return cfg.Threshold
}

// Scroller reports the scroll offset of the container a PullToRefresh observes. An offset of zero means the
// container is scrolled to its very top.
type Scroller interface {
	ScrollOffset() int
}

// ScrollerFunc adapts a function as a Scroller.
type ScrollerFunc func() int

func (fn ScrollerFunc) ScrollOffset() int { return fn() }

// ListScroller adapts a layout.List as a Scroller. Its offset is the pixel offset into the first item while the
// first item is visible; past that it is merely positive, not a pixel distance.
type ListScroller struct {
	List *layout.List
}

func (ls ListScroller) ScrollOffset() int {
	pos := ls.List.Position
	off := max(pos.Offset, 0)
	if pos.First == 0 {
		return off
	}
	return pos.First + off
}

// PullState is a snapshot of a PullToRefresh.
type PullState struct {
	Pulling bool
	// PullDistance is the current downward distance from the gesture's start. It is not a running maximum.
	PullDistance float32
	Refreshing   bool
}

// PullEventKind identifies a step in a refresh's life.
type PullEventKind uint8

const (
	// PullRefreshStarted is reported when a release started a refresh.
	PullRefreshStarted PullEventKind = iota
	// PullRefreshed is reported when a refresh returned successfully.
	PullRefreshed
	// PullRefreshFailed is reported when a refresh returned an error or panicked.
	PullRefreshFailed
)

func (k PullEventKind) String() string {
	switch k {
	case PullRefreshStarted:
		return "started"
	case PullRefreshed:
		return "refreshed"
	case PullRefreshFailed:
		return "failed"
	default:
		return fmt.Sprintf("PullEventKind(%d)", k)
	}
}

// PullEvent is reported by Update when a refresh starts or finishes.
type PullEvent struct {
	Kind PullEventKind
	// Err is set for PullRefreshFailed.
	Err error
}

// PullToRefresh recognizes downward drags that start while the observed container is scrolled to its top, and runs
// OnRefresh when such a drag is released past the threshold.
//
// OnRefresh runs on its own goroutine. While it runs, State reports Refreshing and new presses are ignored, so
// refreshes never overlap. Its outcome is reported by the next call to Update.
//
// The zero value is ready to use; it treats a nil Scroller as always being at the top.
type PullToRefresh struct {
	// OnRefresh is the refresh action. The context is cancelled when the recognizer is detached.
	OnRefresh func(ctx context.Context) error
	Scroller  Scroller
	// Invalidate, if set, is called from the refresh goroutine after the refresh has finished, so that a new frame
	// gets drawn. Typically this is app.Window.Invalidate.
	Invalidate func()

	config  PullConfig
	pending container.Option[PullConfig]

	// Gesture state, owned by the goroutine delivering pointer events.
	tracker  tracker
	start    container.Option[TouchPoint]
	armed    bool
	pulling  bool
	distance float32
	grab     bool

	// State shared with the refresh goroutine.
	async mysync.Mutex[pullAsync]
	wg    sync.WaitGroup
}

type pullAsync struct {
	refreshing bool
	// gen identifies the current refresh. Completions of other generations have been detached from and are
	// discarded.
	gen    uint64
	cancel context.CancelFunc
	events []PullEvent
}

// Config returns the configuration in effect.
func (pr *PullToRefresh) Config() PullConfig {
	return pr.config
}

// SetConfig replaces the configuration. If a gesture is in progress, the new configuration applies from the next
// gesture on.
func (pr *PullToRefresh) SetConfig(cfg PullConfig) {
	if pr.start.IsSome() {
		pr.pending = container.Some(cfg)
		return
	}
	pr.config = cfg
}

// State returns the current pull state.
func (pr *PullToRefresh) State() PullState {
	return PullState{
		Pulling:      pr.pulling,
		PullDistance: pr.distance,
		Refreshing:   pr.Refreshing(),
	}
}

// Refreshing reports whether OnRefresh is currently running.
func (pr *PullToRefresh) Refreshing() bool {
	st, u := pr.async.RLock()
	defer u.RUnlock()
	return st.refreshing
}

// Progress returns the pull distance relative to the threshold, clamped to [0, 1].
func (pr *PullToRefresh) Progress() float32 {
	r := pr.distance / pr.config.threshold()
	if r > 1 {
		return 1
	}
	return r
}

// WouldRefresh reports whether releasing the pointer now would start a refresh.
func (pr *PullToRefresh) WouldRefresh() bool {
	return pr.pulling && pr.distance > pr.config.threshold()
}

// Grabbing reports whether the gesture in progress has grabbed the pointer, which happens once the pull exceeds the
// threshold.
func (pr *PullToRefresh) Grabbing() bool {
	return pr.grab
}

// Add the handler to the operation list to receive pointer events.
func (pr *PullToRefresh) Add(ops *op.Ops) {
	pointer.InputOp{
		Tag:   pr,
		Grab:  pr.grab,
		Types: inputTypes,
	}.Add(ops)
}

// Update processes pending pointer events and returns the refresh events that occurred since the last call.
func (pr *PullToRefresh) Update(q event.Queue) []PullEvent {
	for _, evt := range q.Events(pr) {
		e, ok := evt.(pointer.Event)
		if !ok {
			continue
		}

		switch pr.tracker.phase(e, pr.config.Mouse) {
		case phaseStart:
			pr.Start(e.Position)
		case phaseMove:
			if pr.Move(e.Position) {
				pr.grab = true
			}
		case phaseEnd:
			pr.End()
		case phaseCancel:
			pr.Cancel()
		}
	}

	st, u := pr.async.Lock()
	events := st.events
	st.events = nil
	u.Unlock()
	return events
}

// Start begins a gesture at p. The gesture is armed only if the container is scrolled to its top right now.
func (pr *PullToRefresh) Start(p TouchPoint) {
	pr.reset()
	if pr.config.Disabled || pr.Refreshing() {
		return
	}
	pr.start = container.Some(p)
	pr.armed = pr.scrollOffset() == 0
}

// Move updates the gesture with the pointer at p. It reports whether the platform's default handling of the move
// should be suppressed, which is the case once the pull exceeds the threshold.
func (pr *PullToRefresh) Move(p TouchPoint) bool {
	start, ok := pr.start.Get()
	if !ok || !pr.armed {
		return false
	}
	if pr.scrollOffset() != 0 {
		// The content is scrolling; a pull can't coexist with that.
		return false
	}

	delta := p.Y - start.Y
	if delta <= 0 {
		pr.pulling = false
		pr.distance = 0
		return false
	}
	pr.pulling = true
	pr.distance = delta
	return delta > pr.config.threshold()
}

// End finishes the gesture. If the pull exceeded the threshold, it starts a refresh and returns true. Pull state is
// reset either way.
func (pr *PullToRefresh) End() bool {
	if !pr.start.IsSome() {
		return false
	}
	trigger := pr.WouldRefresh()
	pr.reset()
	if trigger {
		pr.refresh()
	}
	return trigger
}

// Cancel abandons the gesture in progress without refreshing.
func (pr *PullToRefresh) Cancel() {
	pr.tracker.reset()
	pr.reset()
}

// Detach drops all gesture state and stops reacting to a refresh that is still running. The refresh's context is
// cancelled, and its eventual completion is discarded.
func (pr *PullToRefresh) Detach() {
	pr.Cancel()

	st, u := pr.async.Lock()
	if st.cancel != nil {
		st.cancel()
	}
	st.gen++
	st.refreshing = false
	st.cancel = nil
	st.events = nil
	u.Unlock()
}

// Wait blocks until the running refresh, if any, has returned.
func (pr *PullToRefresh) Wait() {
	pr.wg.Wait()
}

func (pr *PullToRefresh) scrollOffset() int {
	if pr.Scroller == nil {
		return 0
	}
	return pr.Scroller.ScrollOffset()
}

func (pr *PullToRefresh) reset() {
	pr.start = container.None[TouchPoint]()
	pr.armed = false
	pr.pulling = false
	pr.distance = 0
	pr.grab = false
	if cfg, ok := pr.pending.Take(); ok {
		pr.config = cfg
	}
}

func (pr *PullToRefresh) refresh() {
	ctx, cancel := context.WithCancel(context.Background())

	st, u := pr.async.Lock()
	st.gen++
	gen := st.gen
	st.refreshing = true
	st.cancel = cancel
	st.events = append(st.events, PullEvent{Kind: PullRefreshStarted})
	u.Unlock()

	pr.wg.Add(1)
	go func() {
		defer pr.wg.Done()
		defer cancel()

		var err error
		defer func() { pr.finish(gen, err) }()
		err = pr.run(ctx)
	}()
}

func (pr *PullToRefresh) run(ctx context.Context) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("refresh panicked: %v", r)
		}
	}()
	if pr.OnRefresh == nil {
		return nil
	}
	return pr.OnRefresh(ctx)
}

func (pr *PullToRefresh) finish(gen uint64, err error) {
	st, u := pr.async.Lock()
	if st.gen != gen {
		// Detached while the refresh was running.
		u.Unlock()
		return
	}
	st.refreshing = false
	st.cancel = nil
	if err != nil {
		st.events = append(st.events, PullEvent{Kind: PullRefreshFailed, Err: err})
	} else {
		st.events = append(st.events, PullEvent{Kind: PullRefreshed})
	}
	u.Unlock()

	if pr.Invalidate != nil {
		pr.Invalidate()
	}
}
