package pose

import (
	"math"
	"testing"
)

func TestWindow(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		w := NewWindow(3)
		if w.Mean() != 0 || w.StdDev() != 0 || w.Len() != 0 {
			t.Error("empty window should report zero values")
		}
	})

	t.Run("evicts oldest", func(t *testing.T) {
		w := NewWindow(3)
		for _, v := range []float64{1, 2, 3, 4} {
			w.Push(v)
		}
		if !w.Full() {
			t.Error("expected window to be full")
		}
		vals := w.Values()
		want := []float64{2, 3, 4}
		for i := range want {
			if vals[i] != want[i] {
				t.Fatalf("Values() = %v, want %v", vals, want)
			}
		}
		if math.Abs(w.Mean()-3) > epsilon {
			t.Errorf("Mean() = %f, want 3", w.Mean())
		}
	})

	t.Run("population stddev", func(t *testing.T) {
		w := NewWindow(4)
		for _, v := range []float64{2, 4, 4, 6} {
			w.Push(v)
		}
		if math.Abs(w.StdDev()-math.Sqrt(2)) > epsilon {
			t.Errorf("StdDev() = %f, want %f", w.StdDev(), math.Sqrt(2))
		}
	})

	t.Run("clear", func(t *testing.T) {
		w := NewWindow(2)
		w.Push(5)
		w.Clear()
		if w.Len() != 0 {
			t.Errorf("Len() after Clear = %d", w.Len())
		}
		if w.Cap() != 2 {
			t.Errorf("Cap() = %d, want 2", w.Cap())
		}
	})
}
