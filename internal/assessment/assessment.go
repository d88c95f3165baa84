// Package assessment sequences exercise trackers through a fitness test and
// aggregates their scores.
package assessment

import (
	"log/slog"
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/ayusman/fitassess/internal/exercise"
	"github.com/ayusman/fitassess/internal/pose"
	"github.com/ayusman/fitassess/internal/results"
)

// Assessment owns an ordered list of trackers and a cursor over them.
// Only the tracker under the cursor receives frames. It is not safe for
// concurrent use.
type Assessment struct {
	trackers []exercise.Tracker
	current  int
}

// New creates an assessment over trackers in execution order. The cursor
// starts before the first tracker.
func New(trackers ...exercise.Tracker) *Assessment {
	return &Assessment{trackers: trackers, current: -1}
}

// Advance moves to the next tracker and reports whether one exists. At the
// last tracker it returns false and the cursor stays put.
func (a *Assessment) Advance() bool {
	if a.current >= len(a.trackers)-1 {
		return false
	}
	a.current++
	slog.Info("exercise started",
		"index", a.current,
		"exercise", a.trackers[a.current].Name(),
		"component", a.trackers[a.current].Component().String(),
	)
	return true
}

// Current returns the active tracker, or nil before the first Advance.
func (a *Assessment) Current() exercise.Tracker {
	if a.current < 0 {
		return nil
	}
	return a.trackers[a.current]
}

// CurrentIndex returns the cursor position, -1 before start.
func (a *Assessment) CurrentIndex() int { return a.current }

// Len returns the number of trackers.
func (a *Assessment) Len() int { return len(a.trackers) }

// Trackers returns the trackers in execution order.
func (a *Assessment) Trackers() []exercise.Tracker {
	return append([]exercise.Tracker(nil), a.trackers...)
}

// Update forwards f to the active tracker. It does nothing before start.
func (a *Assessment) Update(f *pose.Frame) {
	if t := a.Current(); t != nil {
		t.Update(f)
	}
}

// AggregateScore finalizes every tracker and returns the mean score, or 0
// when there are no trackers.
func (a *Assessment) AggregateScore() float64 {
	if len(a.trackers) == 0 {
		return 0
	}
	scores := make([]float64, len(a.trackers))
	for i, t := range a.trackers {
		scores[i] = t.FinalizeScore()
	}
	return stat.Mean(scores, nil)
}

// Records finalizes every tracker and returns one results row each.
func (a *Assessment) Records(now time.Time) []results.Record {
	recs := make([]results.Record, len(a.trackers))
	for i, t := range a.trackers {
		t.FinalizeScore()
		recs[i] = results.NewRecord(t.Stats(), t.Feedback(), now)
	}
	return recs
}

// Status is a snapshot of the assessment for display.
type Status struct {
	Index     int              `json:"index"`
	Total     int              `json:"total"`
	Current   string           `json:"current,omitempty"`
	Last      bool             `json:"last"`
	Exercises []exercise.Stats `json:"exercises"`
	Overall   float64          `json:"overall_score"`
}

// Status returns a snapshot with live scores. It does not finalize.
func (a *Assessment) Status() Status {
	st := Status{
		Index:     a.current,
		Total:     len(a.trackers),
		Last:      len(a.trackers) > 0 && a.current == len(a.trackers)-1,
		Exercises: make([]exercise.Stats, len(a.trackers)),
	}
	if t := a.Current(); t != nil {
		st.Current = t.Name()
	}
	var sum float64
	for i, t := range a.trackers {
		t.CalculateScore()
		st.Exercises[i] = t.Stats()
		sum += st.Exercises[i].Score
	}
	if len(a.trackers) > 0 {
		st.Overall = sum / float64(len(a.trackers))
	}
	return st
}
