package touchlog

import (
	"time"

	"gioui.org/f32"
	"gioui.org/io/event"
	"gioui.org/io/pointer"
)

// Recorder merges the pointer events received by several input areas into a single log, in window coordinates.
//
// A pointer pressed inside nested areas is delivered to each of them; the recorder writes such duplicates once. When
// one of the areas grabs the pointer, the other areas receive a cancel. The recorder only writes a cancel once every
// area that saw the press has been cancelled, so the log keeps the grabbing area's view of the gesture.
type Recorder struct {
	w *Writer
	// owners counts the areas that are tracking each pointer.
	owners map[pointer.ID]int
	recent [8]eventKey
	next   int
	err    error
}

type eventKey struct {
	typ pointer.Type
	pid pointer.ID
	t   time.Duration
}

func NewRecorder(w *Writer) *Recorder {
	return &Recorder{
		w:      w,
		owners: map[pointer.ID]int{},
	}
}

// Queue wraps q so that pointer events received through it get recorded. off is the position of the input area's
// origin in window coordinates.
func (r *Recorder) Queue(q event.Queue, off f32.Point) event.Queue {
	return recordingQueue{q: q, r: r, off: off}
}

// Err returns the first error encountered while writing. The recorder stops writing after an error.
func (r *Recorder) Err() error {
	return r.err
}

func (r *Recorder) observe(e pointer.Event) {
	switch e.Type {
	case pointer.Press:
		r.owners[e.PointerID]++
	case pointer.Release:
		delete(r.owners, e.PointerID)
	case pointer.Cancel:
		// Cancels don't identify a pointer; they end every pointer the receiving area tracks.
		cancelled := false
		for pid, n := range r.owners {
			if n > 1 {
				r.owners[pid] = n - 1
				continue
			}
			delete(r.owners, pid)
			cancelled = true
		}
		if cancelled {
			r.write(e)
		}
		return
	}

	k := eventKey{typ: e.Type, pid: e.PointerID, t: e.Time}
	for _, seen := range r.recent {
		if seen == k {
			return
		}
	}
	r.recent[r.next] = k
	r.next = (r.next + 1) % len(r.recent)
	r.write(e)
}

func (r *Recorder) write(e pointer.Event) {
	if r.err != nil {
		return
	}
	r.err = r.w.Write(e)
}

type recordingQueue struct {
	q   event.Queue
	r   *Recorder
	off f32.Point
}

func (rq recordingQueue) Events(tag event.Tag) []event.Event {
	evs := rq.q.Events(tag)
	for _, ev := range evs {
		if e, ok := ev.(pointer.Event); ok {
			e.Position = e.Position.Add(rq.off)
			rq.r.observe(e)
		}
	}
	return evs
}
