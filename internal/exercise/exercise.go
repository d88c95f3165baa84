// Package exercise implements the per-exercise rep and hold trackers and
// their scoring.
package exercise

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/stat"

	"github.com/ayusman/fitassess/internal/pose"
)

// Component classifies which fitness quality an exercise measures.
type Component int

const (
	Strength Component = iota + 1
	Endurance
	Power
	Balance
)

// String returns the upper-case component name.
func (c Component) String() string {
	switch c {
	case Strength:
		return "STRENGTH"
	case Endurance:
		return "ENDURANCE"
	case Power:
		return "POWER"
	case Balance:
		return "BALANCE"
	default:
		return "UNKNOWN"
	}
}

// Kind identifies one of the supported exercises.
type Kind string

const (
	KindSquats       Kind = "squats"
	KindPushups      Kind = "pushups"
	KindSitups       Kind = "situps"
	KindPlank        Kind = "plank"
	KindVerticalJump Kind = "vertical_jump"
	KindOneLegStand  Kind = "one_leg_stand"
)

// Kinds lists every exercise in menu order.
var Kinds = []Kind{KindSquats, KindPushups, KindSitups, KindPlank, KindVerticalJump, KindOneLegStand}

// ErrUnknownKind is returned when an exercise name or number is not recognized.
var ErrUnknownKind = errors.New("unknown exercise")

// ParseKind accepts either the exercise name ("squats", "vertical-jump") or
// its 1-based menu number.
func ParseKind(s string) (Kind, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if n, err := strconv.Atoi(s); err == nil {
		if n < 1 || n > len(Kinds) {
			return "", fmt.Errorf("%w: %d", ErrUnknownKind, n)
		}
		return Kinds[n-1], nil
	}
	s = strings.ReplaceAll(s, "-", "_")
	for _, k := range Kinds {
		if string(k) == s {
			return k, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownKind, s)
}

// Phase is the externally visible state of a tracker.
type Phase string

const (
	PhaseExtended    Phase = "extended"
	PhaseFlexed      Phase = "flexed"
	PhaseCalibrating Phase = "calibrating"
	PhaseReady       Phase = "ready"
	PhaseValid       Phase = "valid"
	PhaseCompleted   Phase = "completed"
	PhaseGrounded    Phase = "grounded"
	PhaseInAir       Phase = "in_air"
	PhaseBalanced    Phase = "balanced"
	PhaseBalanceLost Phase = "balance_lost"
)

// Tracker consumes landmark frames for one exercise and scores the result.
// Trackers are not safe for concurrent use.
type Tracker interface {
	Name() string
	Kind() Kind
	Component() Component

	// Update processes one frame. Frames with undefined geometry are ignored.
	Update(f *pose.Frame)

	// CalculateScore recomputes the 0-100 score from the current accumulators.
	CalculateScore() float64

	// FinalizeScore computes and stores the final score. Calling it again
	// without intervening updates returns the same value.
	FinalizeScore() float64

	// Feedback returns a multi-line summary of the performance.
	Feedback() string

	// Reset restores the tracker to its initial state.
	Reset()

	// Stats returns a snapshot of the tracker's accumulators.
	Stats() Stats
}

// Stats is a point-in-time view of a tracker.
type Stats struct {
	Name       string             `json:"name"`
	Kind       Kind               `json:"kind"`
	Component  string             `json:"component"`
	Phase      Phase              `json:"phase"`
	Reps       int                `json:"reps"`
	Duration   float64            `json:"duration"`
	FormErrors int                `json:"form_errors"`
	Score      float64            `json:"score"`
	IdealReps  int                `json:"ideal_reps,omitempty"`
	IdealTime  float64            `json:"ideal_time,omitempty"`
	Metrics    map[string]float64 `json:"metrics,omitempty"`
}

// Base holds the identity, targets and accumulators shared by all trackers.
type Base struct {
	name      string
	kind      Kind
	component Component
	idealReps int
	idealTime float64

	reps       int
	duration   float64
	formErrors int
	score      float64
}

func newBase(kind Kind, opts Options) Base {
	return Base{
		name:      opts.Name,
		kind:      kind,
		component: opts.Component,
		idealReps: opts.IdealReps,
		idealTime: opts.IdealTime,
	}
}

func (b *Base) Name() string { return b.name }
func (b *Base) Kind() Kind { return b.kind }
func (b *Base) Component() Component { return b.component }
func (b *Base) Reps() int { return b.reps }
func (b *Base) Duration() float64 { return b.duration }
func (b *Base) FormErrors() int { return b.formErrors }
func (b *Base) Score() float64 { return b.score }
func (b *Base) IdealReps() int { return b.idealReps }
func (b *Base) IdealTime() float64 { return b.idealTime }
func (b *Base) resetAccumulators() { b.reps, b.duration, b.formErrors, b.score = 0, 0, 0, 0 }

func (b *Base) setScore(s float64) float64 {
	b.score = s
	return s
}

func (b *Base) stats(phase Phase) Stats {
	return Stats{
		Name:       b.name,
		Kind:       b.kind,
		Component:  b.component.String(),
		Phase:      phase,
		Reps:       b.reps,
		Duration:   b.duration,
		FormErrors: b.formErrors,
		Score:      b.score,
		IdealReps:  b.idealReps,
		IdealTime:  b.idealTime,
	}
}

// completion returns achieved/ideal capped at 1, or 0 without a target.
func completion(achieved, ideal float64) float64 {
	if ideal <= 0 {
		return 0
	}
	return math.Min(1, achieved/ideal)
}

// repPenalty is the multiplier shared by rep exercises that tolerate
// half-credit for reps with form errors.
func repPenalty(reps, formErrors int) float64 {
	if reps == 0 {
		return 0
	}
	return math.Max(0.4, (float64(reps)-0.5*float64(formErrors))/float64(reps))
}

// toScore converts a 0-1 ratio to a 0-100 score rounded to one decimal.
func toScore(ratio float64) float64 {
	s := math.Round(ratio*1000) / 10
	return math.Max(0, math.Min(100, s))
}

func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	return stat.Mean(xs, nil)
}

func minMax(xs []float64) (lo, hi float64) {
	if len(xs) == 0 {
		return 0, 0
	}
	lo, hi = xs[0], xs[0]
	for _, x := range xs[1:] {
		lo = math.Min(lo, x)
		hi = math.Max(hi, x)
	}
	return lo, hi
}
