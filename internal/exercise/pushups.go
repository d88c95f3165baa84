package exercise

import (
	"fmt"
	"log/slog"
	"math"
	"strings"

	"github.com/ayusman/fitassess/internal/pose"
)

const (
	pushupDownAngle = 90.0
	pushupUpAngle   = 160.0

	// hipLineTolerance is the allowed vertical gap, as a fraction of frame
	// height, between shoulder and hip or hip and ankle.
	hipLineTolerance = 0.12
	// sustainedErrorFrames consecutive misaligned frames make one sustained error.
	sustainedErrorFrames = 10
	hipErrorRatio        = 0.3
)

// Pushups counts push-up reps from the shoulder-elbow-wrist angle and
// watches for sagging or piking hips. The measured side is chosen again on
// every frame.
type Pushups struct {
	Base

	cycle  repCycle
	angles *pose.Window

	repFrames         int
	consecutiveErrors int
	hipErrors         int

	repMin     float64
	depths     []float64
	extensions []float64
}

// NewPushups creates a push-up tracker.
func NewPushups(opts Options) *Pushups {
	return &Pushups{
		Base:   newBase(KindPushups, opts.withDefaults(KindPushups)),
		cycle:  newRepCycle(pushupDownAngle, pushupUpAngle),
		angles: pose.NewWindow(smoothSamples),
	}
}

// hipMisaligned compares the averaged left/right shoulder, hip and ankle heights.
func hipMisaligned(lm *pose.Landmarks) bool {
	shoulderY := (lm[pose.LeftShoulder].Y + lm[pose.RightShoulder].Y) / 2
	hipY := (lm[pose.LeftHip].Y + lm[pose.RightHip].Y) / 2
	ankleY := (lm[pose.LeftAnkle].Y + lm[pose.RightAnkle].Y) / 2
	return math.Abs(shoulderY-hipY) > hipLineTolerance || math.Abs(hipY-ankleY) > hipLineTolerance
}

func (p *Pushups) Update(f *pose.Frame) {
	j := pose.PickSide(&f.Landmarks).Joints()
	angle := pose.AngleAt(f.Pixel(j.Shoulder), f.Pixel(j.Elbow), f.Pixel(j.Wrist))
	if pose.IsUndefined(angle) {
		return
	}
	p.angles.Push(angle)
	avg := p.angles.Mean()

	p.repFrames++
	if hipMisaligned(&f.Landmarks) {
		p.consecutiveErrors++
	} else {
		p.consecutiveErrors = 0
	}
	if p.consecutiveErrors >= sustainedErrorFrames {
		p.hipErrors++
		p.consecutiveErrors = 0
	}

	switch p.cycle.step(avg, f.Timestamp) {
	case repFlexed:
		p.repMin = avg
	case repCounted:
		p.reps++
		if float64(p.hipErrors) > hipErrorRatio*float64(p.repFrames) {
			p.formErrors++
		}
		p.depths = append(p.depths, p.repMin)
		p.extensions = append(p.extensions, avg)
		slog.Debug("rep counted", "exercise", p.name, "reps", p.reps, "depth", p.repMin)
		p.repFrames, p.hipErrors, p.consecutiveErrors = 0, 0, 0
	default:
		if p.cycle.phase == PhaseFlexed && avg < p.repMin {
			p.repMin = avg
		}
	}
}

func (p *Pushups) CalculateScore() float64 {
	c := completion(float64(p.reps), float64(p.idealReps))
	penalty := math.Max(0.7, 1-float64(p.formErrors)/float64(p.reps+1)*0.3)
	return p.setScore(toScore(c * penalty))
}

func (p *Pushups) FinalizeScore() float64 { return p.CalculateScore() }

func (p *Pushups) Feedback() string {
	lines := []string{
		fmt.Sprintf("Total Reps: %d", p.reps),
		fmt.Sprintf("Score: %.1f/100", p.score),
		fmt.Sprintf("Form Errors: %d", p.formErrors),
	}

	if len(p.depths) > 0 {
		switch d := mean(p.depths); {
		case d <= 95:
			lines = append(lines, "Depth: Excellent (chest low enough)")
		case d <= 110:
			lines = append(lines, "Depth: Acceptable, try to go lower")
		default:
			lines = append(lines, "Depth: Too shallow, bend elbows more")
		}
	}
	if len(p.extensions) > 0 {
		if mean(p.extensions) >= pushupUpAngle {
			lines = append(lines, "Lockout: Full extension at top")
		} else {
			lines = append(lines, "Lockout: Incomplete, extend arms fully")
		}
	}
	if p.formErrors == 0 {
		lines = append(lines, "Hip Alignment: Excellent, body stayed straight")
	} else {
		lines = append(lines, fmt.Sprintf("Hip Alignment: Broke form %d times", p.formErrors))
	}
	return strings.Join(lines, "\n")
}

func (p *Pushups) Reset() {
	p.resetAccumulators()
	p.cycle.reset()
	p.angles.Clear()
	p.repFrames, p.hipErrors, p.consecutiveErrors = 0, 0, 0
	p.repMin = 0
	p.depths, p.extensions = nil, nil
}

func (p *Pushups) Stats() Stats {
	st := p.stats(p.cycle.phase)
	if len(p.depths) > 0 {
		st.Metrics = map[string]float64{
			"avg_depth":     mean(p.depths),
			"avg_extension": mean(p.extensions),
		}
	}
	return st
}
