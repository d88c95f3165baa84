package exercise

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/ayusman/fitassess/internal/pose"
)

const (
	// Balance is lost once both ankles report a normalized y below groundedAnkleY.
	groundedAnkleY  = 0.8
	swayTolerance   = 0.1
	swaySustainedAt = 10
)

// OneLegStand times a single-leg balance hold. Once balance is lost the
// duration is frozen for good.
type OneLegStand struct {
	Base

	start       time.Time
	started     bool
	balanceLost bool
	swayFrames  int
	totalFrames int
}

// NewOneLegStand creates a one-leg stand tracker.
func NewOneLegStand(opts Options) *OneLegStand {
	return &OneLegStand{Base: newBase(KindOneLegStand, opts.withDefaults(KindOneLegStand))}
}

func (o *OneLegStand) Update(f *pose.Frame) {
	now := f.Timestamp
	if !o.started {
		o.start = now
		o.started = true
	}
	if !o.balanceLost {
		o.duration = now.Sub(o.start).Seconds()
	}
	o.totalFrames++

	lm := &f.Landmarks
	if lm[pose.LeftAnkle].Y < groundedAnkleY && lm[pose.RightAnkle].Y < groundedAnkleY {
		o.balanceLost = true
	}

	hipX := (lm[pose.LeftHip].X + lm[pose.RightHip].X) / 2
	if math.Abs(hipX-0.5) > swayTolerance {
		o.swayFrames++
		if o.swayFrames >= swaySustainedAt {
			o.formErrors++
			o.swayFrames = 0
		}
	} else {
		o.swayFrames = 0
	}
}

// BalanceLost reports whether the raised foot has come down.
func (o *OneLegStand) BalanceLost() bool { return o.balanceLost }

func (o *OneLegStand) CalculateScore() float64 {
	c := completion(o.duration, o.idealTime)
	penalty := math.Max(0.7, 1-float64(o.formErrors)/(o.duration+1)*0.1)
	return o.setScore(toScore(c * penalty))
}

func (o *OneLegStand) FinalizeScore() float64 { return o.CalculateScore() }

func (o *OneLegStand) Feedback() string {
	lines := []string{
		"One-Leg Stand Feedback:",
		fmt.Sprintf("- Total duration: %.1fs", o.duration),
		fmt.Sprintf("- Form errors: %d", o.formErrors),
		fmt.Sprintf("- Score: %.1f/100", o.score),
	}
	switch {
	case o.balanceLost:
		lines = append(lines, "Balance lost during the test.")
	case o.formErrors > 0:
		lines = append(lines, "Try to minimize hip sway for better stability.")
	default:
		lines = append(lines, "Excellent balance maintained!")
	}
	return strings.Join(lines, "\n")
}

func (o *OneLegStand) Reset() {
	o.resetAccumulators()
	o.start = time.Time{}
	o.started, o.balanceLost = false, false
	o.swayFrames, o.totalFrames = 0, 0
}

func (o *OneLegStand) Stats() Stats {
	phase := PhaseBalanced
	if o.balanceLost {
		phase = PhaseBalanceLost
	}
	st := o.stats(phase)
	st.Metrics = map[string]float64{"frames": float64(o.totalFrames)}
	return st
}
