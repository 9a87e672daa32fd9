// Package touchlog records streams of pointer events and plays them back.
//
// A log is a snappy framed stream. It starts with a fixed header, followed by one record per event:
//
//	type      uint8
//	source    uint8
//	buttons   uint8
//	pointer   uvarint
//	time      uvarint, nanoseconds since the start of the window
//	x, y      float32, little endian
package touchlog

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"time"

	"gioui.org/f32"
	"gioui.org/io/event"
	"gioui.org/io/pointer"
	"github.com/golang/snappy"
)

const header = "swipedash touchlog 1\n"

// ErrBadRecord is returned when a log is malformed.
var ErrBadRecord = errors.New("malformed touch log")

// Writer writes pointer events to a log.
type Writer struct {
	sw  *snappy.Writer
	buf []byte
}

// NewWriter writes the log header to w and returns a Writer for appending events. Callers must call Close to flush
// buffered data; Close doesn't close w.
func NewWriter(w io.Writer) (*Writer, error) {
	sw := snappy.NewBufferedWriter(w)
	if _, err := io.WriteString(sw, header); err != nil {
		return nil, fmt.Errorf("couldn't write touch log header: %w", err)
	}
	return &Writer{sw: sw}, nil
}

// Write appends e. Only the fields needed to replay gestures are recorded.
func (w *Writer) Write(e pointer.Event) error {
	b := w.buf[:0]
	b = append(b, byte(e.Type), byte(e.Source), byte(e.Buttons))
	b = binary.AppendUvarint(b, uint64(e.PointerID))
	b = binary.AppendUvarint(b, uint64(max(e.Time, 0)))
	b = binary.LittleEndian.AppendUint32(b, math.Float32bits(e.Position.X))
	b = binary.LittleEndian.AppendUint32(b, math.Float32bits(e.Position.Y))
	w.buf = b

	if _, err := w.sw.Write(b); err != nil {
		return fmt.Errorf("couldn't write touch event: %w", err)
	}
	return nil
}

func (w *Writer) Flush() error {
	return w.sw.Flush()
}

func (w *Writer) Close() error {
	return w.sw.Close()
}

// Reader reads pointer events from a log.
type Reader struct {
	r *bufio.Reader
}

// NewReader reads and checks the log header.
func NewReader(r io.Reader) (*Reader, error) {
	br := bufio.NewReader(snappy.NewReader(r))
	hdr := make([]byte, len(header))
	if _, err := io.ReadFull(br, hdr); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, fmt.Errorf("%w: truncated header", ErrBadRecord)
		}
		return nil, corrupt(err)
	}
	if string(hdr) != header {
		return nil, fmt.Errorf("%w: unknown header %q", ErrBadRecord, hdr)
	}
	return &Reader{r: br}, nil
}

// Next returns the next event. It returns io.EOF at the end of the log.
func (r *Reader) Next() (pointer.Event, error) {
	var fixed [3]byte
	if _, err := io.ReadFull(r.r, fixed[:]); err != nil {
		if errors.Is(err, io.ErrUnexpectedEOF) {
			return pointer.Event{}, fmt.Errorf("%w: truncated record", ErrBadRecord)
		}
		return pointer.Event{}, corrupt(err)
	}

	typ := pointer.Type(fixed[0])
	if !knownType(typ) {
		return pointer.Event{}, fmt.Errorf("%w: unknown event type %d", ErrBadRecord, fixed[0])
	}

	pid, err := binary.ReadUvarint(r.r)
	if err != nil {
		return pointer.Event{}, truncated(err)
	}
	ts, err := binary.ReadUvarint(r.r)
	if err != nil {
		return pointer.Event{}, truncated(err)
	}
	var pos [8]byte
	if _, err := io.ReadFull(r.r, pos[:]); err != nil {
		return pointer.Event{}, truncated(err)
	}

	return pointer.Event{
		Type:      typ,
		Source:    pointer.Source(fixed[1]),
		Buttons:   pointer.Buttons(fixed[2]),
		PointerID: pointer.ID(pid),
		Time:      time.Duration(ts),
		Position: f32.Pt(
			math.Float32frombits(binary.LittleEndian.Uint32(pos[0:4])),
			math.Float32frombits(binary.LittleEndian.Uint32(pos[4:8])),
		),
	}, nil
}

func truncated(err error) error {
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return fmt.Errorf("%w: truncated record", ErrBadRecord)
	}
	return corrupt(err)
}

// corrupt maps errors about the compressed framing to ErrBadRecord.
func corrupt(err error) error {
	if errors.Is(err, snappy.ErrCorrupt) || errors.Is(err, snappy.ErrUnsupported) {
		return fmt.Errorf("%w: %s", ErrBadRecord, err)
	}
	return err
}

func knownType(typ pointer.Type) bool {
	switch typ {
	case pointer.Cancel, pointer.Press, pointer.Release, pointer.Move, pointer.Drag, pointer.Enter, pointer.Leave,
		pointer.Scroll:
		return true
	default:
		return false
	}
}

// ReadAll reads all events of a log.
func ReadAll(r io.Reader) ([]pointer.Event, error) {
	lr, err := NewReader(r)
	if err != nil {
		return nil, err
	}
	var out []pointer.Event
	for {
		e, err := lr.Next()
		if err == io.EOF {
			return out, nil
		}
		if err != nil {
			return out, err
		}
		out = append(out, e)
	}
}

// Queue is an event.Queue that delivers the same events to every tag. It is used to play recorded events back into
// recognizers outside of a window.
type Queue []event.Event

func (q Queue) Events(event.Tag) []event.Event { return q }

// Events wraps pointer events in a Queue.
func Events(evs ...pointer.Event) Queue {
	q := make(Queue, len(evs))
	for i, e := range evs {
		q[i] = e
	}
	return q
}
