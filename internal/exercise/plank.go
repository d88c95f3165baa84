package exercise

import (
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/ayusman/fitassess/internal/pose"
)

const (
	plankIdealHipAngle   = 180.0
	plankHipTolerance    = 15.0
	plankTorsoLegMax     = 15.0
	plankHeadMax         = 20.0
	plankMinVisibility   = 0.5
	plankBreakTolerance  = 2 * time.Second
	plankCalibrationSize = 30
	plankDeviationSize   = 100
	plankStabilitySize   = 30
	plankMinFormQuality  = 0.7
)

// Plank times a plank hold.
//
//	state        condition                               next
//	CALIBRATING  30 hip-angle samples collected          READY
//	READY        valid posture                           VALID (timer starts)
//	VALID        valid posture                           VALID (duration updated)
//	VALID        invalid for more than 2s since valid    COMPLETED (duration frozen)
//
// The measured side is chosen on the first frame and kept until Reset.
type Plank struct {
	Base

	state      Phase
	side       pose.Side
	sidePicked bool

	calibration *pose.Window
	baseline    float64

	hipAngles  *pose.Window
	deviations *pose.Window
	hipY       *pose.Window
	asymmetry  *pose.Window

	start         time.Time
	lastValid     time.Time
	validDuration float64

	alignment   float64
	stability   float64
	symmetry    float64
	formQuality float64
}

// NewPlank creates a plank tracker.
func NewPlank(opts Options) *Plank {
	p := &Plank{
		Base:        newBase(KindPlank, opts.withDefaults(KindPlank)),
		calibration: pose.NewWindow(plankCalibrationSize),
		hipAngles:   pose.NewWindow(plankStabilitySize),
		deviations:  pose.NewWindow(plankDeviationSize),
		hipY:        pose.NewWindow(plankStabilitySize),
		asymmetry:   pose.NewWindow(plankStabilitySize),
	}
	p.Reset()
	return p
}

func (p *Plank) Update(f *pose.Frame) {
	if !p.sidePicked {
		p.side = pose.PickSide(&f.Landmarks)
		p.sidePicked = true
	}
	j := p.side.Joints()
	shoulder, hip, ankle, ear := f.Pixel(j.Shoulder), f.Pixel(j.Hip), f.Pixel(j.Ankle), f.Pixel(j.Ear)

	hipAngle := pose.AngleAt(shoulder, hip, ankle)
	torsoLeg := pose.VectorAngle(shoulder.Sub(hip), hip.Sub(ankle))
	head := pose.AngleAt(shoulder, hip, ear)
	if pose.IsUndefined(hipAngle) || pose.IsUndefined(head) {
		return
	}

	p.hipAngles.Push(hipAngle)
	p.deviations.Push(math.Abs(hipAngle - plankIdealHipAngle))
	p.hipY.Push(hip.Y)
	if d, ok := sideAsymmetry(f); ok {
		p.asymmetry.Push(d)
	}

	if p.state == PhaseCalibrating {
		p.calibration.Push(hipAngle)
		if p.calibration.Full() {
			p.baseline = p.calibration.Mean()
			p.state = PhaseReady
			slog.Debug("plank calibrated", "exercise", p.name, "baseline", p.baseline)
		}
		return
	}

	valid := f.AllVisible(plankMinVisibility, j.Shoulder, j.Hip, j.Ankle, j.Ear) &&
		math.Abs(hipAngle-p.baseline) <= plankHipTolerance &&
		torsoLeg <= plankTorsoLegMax &&
		head <= plankHeadMax

	now := f.Timestamp
	switch p.state {
	case PhaseReady:
		if valid {
			p.state = PhaseValid
			p.start, p.lastValid = now, now
			p.duration = 0
		}
	case PhaseValid:
		if valid {
			p.lastValid = now
			p.duration = now.Sub(p.start).Seconds()
		} else if now.Sub(p.lastValid) > plankBreakTolerance {
			p.state = PhaseCompleted
			p.validDuration = p.duration
			slog.Debug("plank completed", "exercise", p.name, "duration", p.duration)
		}
	}

	if p.state != PhaseCompleted {
		p.updateFormQuality()
	}
}

// sideAsymmetry returns the absolute difference between the left and right
// shoulder-hip-ankle angles.
func sideAsymmetry(f *pose.Frame) (float64, bool) {
	l, r := pose.Left.Joints(), pose.Right.Joints()
	left := pose.AngleAt(f.Pixel(l.Shoulder), f.Pixel(l.Hip), f.Pixel(l.Ankle))
	right := pose.AngleAt(f.Pixel(r.Shoulder), f.Pixel(r.Hip), f.Pixel(r.Ankle))
	if pose.IsUndefined(left) || pose.IsUndefined(right) {
		return 0, false
	}
	return math.Abs(left - right), true
}

func (p *Plank) updateFormQuality() {
	p.alignment = math.Max(0, 100-2*p.deviations.Mean())
	p.stability = math.Max(0, 100-5*p.hipY.StdDev())
	p.symmetry = math.Max(0, 100-p.asymmetry.Mean())
	q := (p.alignment + p.stability + p.symmetry) / 300
	p.formQuality = math.Max(plankMinFormQuality, math.Min(1, q))
}

// State returns the current hold state.
func (p *Plank) State() Phase { return p.state }

// BaselineHipAngle returns the calibrated hip angle, or 0 before calibration.
func (p *Plank) BaselineHipAngle() float64 { return p.baseline }

// ValidDuration returns the scored hold time: the live duration while the
// hold is in progress, the frozen duration once completed, 0 otherwise.
func (p *Plank) ValidDuration() float64 {
	switch p.state {
	case PhaseValid:
		return p.duration
	case PhaseCompleted:
		return p.validDuration
	}
	return 0
}

// FormQuality returns the form multiplier in [0.7, 1].
func (p *Plank) FormQuality() float64 { return p.formQuality }

func (p *Plank) CalculateScore() float64 {
	if p.state != PhaseValid && p.state != PhaseCompleted {
		return p.setScore(0)
	}
	c := completion(p.ValidDuration(), p.idealTime)
	return p.setScore(toScore(c * p.formQuality))
}

func (p *Plank) FinalizeScore() float64 { return p.CalculateScore() }

func (p *Plank) Feedback() string {
	avgDev := p.deviations.Mean()
	lines := []string{
		"Plank Assessment:",
		fmt.Sprintf("- Valid duration: %.1fs / %.0fs", p.ValidDuration(), p.idealTime),
		fmt.Sprintf("- Score: %.1f/100", p.score),
		fmt.Sprintf("- Average hip deviation: %.1f°", avgDev),
		fmt.Sprintf("- Symmetry: %.1f%%", p.symmetry),
		fmt.Sprintf("- Stability: %.1f%%", p.stability),
		fmt.Sprintf("- Form quality: %.2f", p.formQuality),
	}
	if p.state == PhaseCalibrating || p.state == PhaseReady {
		lines = append(lines, "Plank never started. Hold a straight line from shoulders to ankles.")
	}
	if avgDev > 10 {
		lines = append(lines, "Keep your hips in line with shoulders and ankles.")
	}
	if p.symmetry < 80 {
		lines = append(lines, "Distribute weight evenly on both sides.")
	}
	if p.stability < 80 {
		lines = append(lines, "Minimize hip movement for better stability.")
	}
	if p.formQuality <= plankMinFormQuality {
		lines = append(lines, "Focus on maintaining proper form throughout the hold.")
	} else if avgDev <= 10 {
		lines = append(lines, "Excellent plank alignment!")
	}
	return strings.Join(lines, "\n")
}

func (p *Plank) Reset() {
	p.resetAccumulators()
	p.state = PhaseCalibrating
	p.side, p.sidePicked = pose.Right, false
	p.calibration.Clear()
	p.hipAngles.Clear()
	p.deviations.Clear()
	p.hipY.Clear()
	p.asymmetry.Clear()
	p.baseline = 0
	p.start, p.lastValid = time.Time{}, time.Time{}
	p.validDuration = 0
	p.alignment, p.stability, p.symmetry = 100, 100, 100
	p.formQuality = 1
}

func (p *Plank) Stats() Stats {
	st := p.stats(p.state)
	st.Metrics = map[string]float64{
		"valid_duration": p.ValidDuration(),
		"form_quality":   p.formQuality,
		"baseline":       p.baseline,
		"avg_hip_angle":  p.hipAngles.Mean(),
	}
	return st
}
