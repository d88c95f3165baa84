// Package recording reads and writes pose landmark streams as JSON lines so
// an assessment can be replayed without a camera.
package recording

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"time"

	"github.com/ayusman/fitassess/internal/pose"
)

// ErrBadFrame is returned for a line that does not describe a usable frame.
var ErrBadFrame = errors.New("bad frame")

// maxLine bounds a single JSON line.
const maxLine = 1 << 20

// Entry is one line of a recording. Empty Landmarks means nobody was in
// view. Next advances the assessment before the frame is applied.
type Entry struct {
	TMs       int64           `json:"t_ms"`
	Width     int             `json:"width"`
	Height    int             `json:"height"`
	Landmarks []pose.Landmark `json:"landmarks,omitempty"`
	Next      bool            `json:"next,omitempty"`
}

// Validate checks dimensions and landmark count.
func (e Entry) Validate() error {
	if e.Width <= 0 || e.Height <= 0 {
		return fmt.Errorf("%w: frame size %dx%d", ErrBadFrame, e.Width, e.Height)
	}
	if e.TMs < 0 {
		return fmt.Errorf("%w: negative t_ms %d", ErrBadFrame, e.TMs)
	}
	if n := len(e.Landmarks); n != 0 && n != pose.NumLandmarks {
		return fmt.Errorf("%w: %d landmarks, want %d", ErrBadFrame, n, pose.NumLandmarks)
	}
	for i, l := range e.Landmarks {
		if !finite(l.X) || !finite(l.Y) || !finite(l.Visibility) {
			return fmt.Errorf("%w: landmark %d is not finite", ErrBadFrame, i)
		}
	}
	return nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// Frame converts the entry to a pose frame stamped epoch + t_ms. It returns
// nil when the entry has no landmarks.
func (e Entry) Frame(epoch time.Time) *pose.Frame {
	if len(e.Landmarks) == 0 {
		return nil
	}
	f := &pose.Frame{
		Width:     e.Width,
		Height:    e.Height,
		Timestamp: epoch.Add(time.Duration(e.TMs) * time.Millisecond),
	}
	copy(f.Landmarks[:], e.Landmarks)
	return f
}

// Reader decodes entries line by line.
type Reader struct {
	sc   *bufio.Scanner
	line int
}

// NewReader returns a Reader over r.
func NewReader(r io.Reader) *Reader {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLine)
	return &Reader{sc: sc}
}

// Next returns the next entry, or io.EOF after the last one. Blank lines
// are skipped.
func (r *Reader) Next() (Entry, error) {
	for r.sc.Scan() {
		r.line++
		raw := r.sc.Bytes()
		if len(raw) == 0 {
			continue
		}

		var e Entry
		if err := json.Unmarshal(raw, &e); err != nil {
			return Entry{}, fmt.Errorf("line %d: %w: %v", r.line, ErrBadFrame, err)
		}
		if err := e.Validate(); err != nil {
			return Entry{}, fmt.Errorf("line %d: %w", r.line, err)
		}
		return e, nil
	}
	if err := r.sc.Err(); err != nil {
		return Entry{}, err
	}
	return Entry{}, io.EOF
}

// ReadAll decodes every remaining entry.
func (r *Reader) ReadAll() ([]Entry, error) {
	var out []Entry
	for {
		e, err := r.Next()
		if errors.Is(err, io.EOF) {
			return out, nil
		}
		if err != nil {
			return out, err
		}
		out = append(out, e)
	}
}

// ReadFile loads a whole recording.
func ReadFile(path string) ([]Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return NewReader(f).ReadAll()
}

// Writer encodes frames as entries. Times are relative to the first frame
// written.
type Writer struct {
	w       *bufio.Writer
	enc     *json.Encoder
	start   time.Time
	started bool
	next    bool
}

// NewWriter returns a Writer to w. Call Flush when done.
func NewWriter(w io.Writer) *Writer {
	bw := bufio.NewWriter(w)
	return &Writer{w: bw, enc: json.NewEncoder(bw)}
}

// MarkNext flags the next written entry as an exercise switch.
func (w *Writer) MarkNext() {
	w.next = true
}

// Write appends f, timed by its timestamp.
func (w *Writer) Write(f *pose.Frame) error {
	return w.encode(f.Timestamp, Entry{
		Width:     f.Width,
		Height:    f.Height,
		Landmarks: f.Landmarks[:],
	})
}

// WriteMissing records a frame at ts in which nobody was detected, so gaps
// survive a replay.
func (w *Writer) WriteMissing(width, height int, ts time.Time) error {
	return w.encode(ts, Entry{Width: width, Height: height})
}

func (w *Writer) encode(ts time.Time, e Entry) error {
	if !w.started {
		w.start = ts
		w.started = true
	}
	e.TMs = ts.Sub(w.start).Milliseconds()
	e.Next = w.next
	w.next = false

	return w.enc.Encode(e)
}

// Flush writes buffered entries to the underlying writer.
func (w *Writer) Flush() error {
	return w.w.Flush()
}
