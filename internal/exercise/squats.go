package exercise

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/ayusman/fitassess/internal/pose"
)

const (
	squatDownAngle = 100.0
	squatUpAngle   = 160.0

	// valgusOffsetPx is how far the knee may drift medially past the ankle.
	valgusOffsetPx = 25.0
	valgusRatio    = 0.7
)

// Squats counts squat reps from the hip-knee-ankle angle. The measured side
// is chosen again on every frame.
type Squats struct {
	Base

	cycle  repCycle
	angles *pose.Window

	repFrames    int
	valgusFrames int
	repMin       float64
	depths       []float64
}

// NewSquats creates a squat tracker.
func NewSquats(opts Options) *Squats {
	s := &Squats{
		Base:   newBase(KindSquats, opts.withDefaults(KindSquats)),
		cycle:  newRepCycle(squatDownAngle, squatUpAngle),
		angles: pose.NewWindow(smoothSamples),
	}
	return s
}

func (s *Squats) Update(f *pose.Frame) {
	side := pose.PickSide(&f.Landmarks)
	j := side.Joints()
	hip, knee, ankle := f.Pixel(j.Hip), f.Pixel(j.Knee), f.Pixel(j.Ankle)

	angle := pose.AngleAt(hip, knee, ankle)
	if pose.IsUndefined(angle) {
		return
	}
	s.angles.Push(angle)
	avg := s.angles.Mean()

	s.repFrames++
	if kneeValgus(side, knee, ankle) {
		s.valgusFrames++
	}

	switch s.cycle.step(avg, f.Timestamp) {
	case repFlexed:
		s.repMin = avg
	case repCounted:
		s.reps++
		s.depths = append(s.depths, s.repMin)
		if float64(s.valgusFrames)/float64(s.repFrames) > valgusRatio {
			s.formErrors++
		}
		slog.Debug("rep counted", "exercise", s.name, "reps", s.reps, "depth", s.repMin)
		s.repFrames, s.valgusFrames = 0, 0
	default:
		if s.cycle.phase == PhaseFlexed && avg < s.repMin {
			s.repMin = avg
		}
	}
}

// kneeValgus reports whether the knee has collapsed toward the midline.
// Pixel x grows to the right of the image and the subject faces the camera.
func kneeValgus(side pose.Side, knee, ankle pose.Point) bool {
	if side == pose.Left {
		return knee.X < ankle.X-valgusOffsetPx
	}
	return knee.X > ankle.X+valgusOffsetPx
}

func (s *Squats) CalculateScore() float64 {
	if s.reps == 0 {
		return s.setScore(0)
	}
	c := completion(float64(s.reps), float64(s.idealReps))
	return s.setScore(toScore(c * repPenalty(s.reps, s.formErrors)))
}

func (s *Squats) FinalizeScore() float64 { return s.CalculateScore() }

// Depths returns the deepest smoothed knee angle of each counted rep.
func (s *Squats) Depths() []float64 { return append([]float64(nil), s.depths...) }

func (s *Squats) Feedback() string {
	if s.reps == 0 {
		return "No squats recorded. Try again making sure you are fully visible."
	}
	avg := mean(s.depths)
	lo, hi := minMax(s.depths)

	lines := []string{
		"Squats Feedback:",
		fmt.Sprintf("- Total reps: %d", s.reps),
		fmt.Sprintf("- Score: %.1f/100", s.score),
		fmt.Sprintf("- Form notes: %d", s.formErrors),
		fmt.Sprintf("- Average squat depth (knee angle): %.1f°", avg),
		fmt.Sprintf("- Deepest squat: %.1f° (smaller is deeper)", lo),
		fmt.Sprintf("- Highest squat: %.1f°", hi),
	}
	if s.formErrors > 0 {
		lines = append(lines, "Minor knee alignment notes, keep practicing.")
	} else {
		lines = append(lines, "Excellent knee alignment!")
	}
	switch {
	case avg > 120:
		lines = append(lines, "Go a bit deeper for more effective squats (target <110°).")
	case avg > 100:
		lines = append(lines, "Good depth achieved!")
	default:
		lines = append(lines, "Excellent depth, great range of motion!")
	}
	return strings.Join(lines, "\n")
}

func (s *Squats) Reset() {
	s.resetAccumulators()
	s.cycle.reset()
	s.angles.Clear()
	s.repFrames, s.valgusFrames = 0, 0
	s.repMin = 0
	s.depths = nil
}

func (s *Squats) Stats() Stats {
	st := s.stats(s.cycle.phase)
	if len(s.depths) > 0 {
		st.Metrics = map[string]float64{"avg_depth": mean(s.depths)}
	}
	return st
}
