package pose

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// Window is a fixed-capacity FIFO of samples. Pushing onto a full window
// evicts the oldest sample.
type Window struct {
	buf  []float64
	size int
}

// NewWindow creates a window holding at most size samples.
func NewWindow(size int) *Window {
	if size < 1 {
		size = 1
	}
	return &Window{buf: make([]float64, 0, size), size: size}
}

// Push appends v, evicting the oldest sample when full.
func (w *Window) Push(v float64) {
	if len(w.buf) == w.size {
		copy(w.buf, w.buf[1:])
		w.buf = w.buf[:w.size-1]
	}
	w.buf = append(w.buf, v)
}

// Mean returns the arithmetic mean of the samples, or 0 when empty.
func (w *Window) Mean() float64 {
	if len(w.buf) == 0 {
		return 0
	}
	return stat.Mean(w.buf, nil)
}

// StdDev returns the population standard deviation, or 0 with fewer than
// two samples.
func (w *Window) StdDev() float64 {
	if len(w.buf) < 2 {
		return 0
	}
	return math.Sqrt(stat.PopVariance(w.buf, nil))
}

// Len returns the number of samples held.
func (w *Window) Len() int { return len(w.buf) }

// Cap returns the window capacity.
func (w *Window) Cap() int { return w.size }

// Full reports whether the window holds Cap samples.
func (w *Window) Full() bool { return len(w.buf) == w.size }

// Values returns a copy of the samples, oldest first.
func (w *Window) Values() []float64 {
	out := make([]float64, len(w.buf))
	copy(out, w.buf)
	return out
}

// Clear removes all samples.
func (w *Window) Clear() { w.buf = w.buf[:0] }
