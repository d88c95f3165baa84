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
	// The sit-up position is the smaller torso angle.
	situpUpAngle   = 87.0
	situpDownAngle = 145.0

	incompleteMargin = 10.0
	incompleteRatio  = 0.7

	// romHistory is how many recent ranges of motion feed the consistency score.
	romHistory = 10
)

// Technique holds sit-up posture metrics refreshed every third rep.
type Technique struct {
	UpperBodyEngagement float64 `json:"upper_body_engagement"`
	CoreActivation      float64 `json:"core_activation"`
	HipFlexorDominance  float64 `json:"hip_flexor_dominance"`
}

// Situps counts sit-ups from the shoulder-hip-knee angle. The measured side
// is chosen on the first frame and kept until Reset.
type Situps struct {
	Base

	cycle  repCycle
	angles *pose.Window

	side       pose.Side
	sidePicked bool

	repFrames      int
	incompleteUp   int
	incompleteDown int
	repMin, repMax float64
	uprights       []float64
	returns        []float64

	repStart    time.Time
	repTimes    []float64
	roms        *pose.Window
	consistency float64
	fatigue     float64
	technique   Technique
}

// NewSitups creates a sit-up tracker.
func NewSitups(opts Options) *Situps {
	return &Situps{
		Base:   newBase(KindSitups, opts.withDefaults(KindSitups)),
		cycle:  newRepCycle(situpUpAngle, situpDownAngle),
		angles: pose.NewWindow(smoothSamples),
		roms:   pose.NewWindow(romHistory),
	}
}

func (s *Situps) Update(f *pose.Frame) {
	if !s.sidePicked {
		s.side = pose.PickSide(&f.Landmarks)
		s.sidePicked = true
	}
	j := s.side.Joints()
	angle := pose.AngleAt(f.Pixel(j.Shoulder), f.Pixel(j.Hip), f.Pixel(j.Knee))
	if pose.IsUndefined(angle) {
		return
	}
	s.angles.Push(angle)
	avg := s.angles.Mean()

	s.repFrames++
	if avg > situpUpAngle+incompleteMargin {
		s.incompleteUp++
	}
	if avg < situpDownAngle-incompleteMargin {
		s.incompleteDown++
	}

	now := f.Timestamp
	switch s.cycle.step(avg, now) {
	case repFlexed:
		s.repMin, s.repMax = avg, avg
		if s.repStart.IsZero() {
			s.repStart = now
		}
	case repCounted:
		s.repMax = math.Max(s.repMax, avg)
		s.countRep(now)
	default:
		if s.cycle.phase == PhaseFlexed {
			s.repMin = math.Min(s.repMin, avg)
			s.repMax = math.Max(s.repMax, avg)
		}
	}

	if s.reps > 0 && s.reps%3 == 0 {
		s.technique = s.measureTechnique(f)
	}
}

func (s *Situps) countRep(now time.Time) {
	s.reps++

	if !s.repStart.IsZero() {
		s.repTimes = append(s.repTimes, now.Sub(s.repStart).Seconds())
		s.repStart = time.Time{}
	}
	s.roms.Push(s.repMax - s.repMin)
	s.uprights = append(s.uprights, s.repMin)
	s.returns = append(s.returns, s.repMax)

	if float64(s.incompleteUp)/float64(s.repFrames) > incompleteRatio {
		s.formErrors++
	}
	if float64(s.incompleteDown)/float64(s.repFrames) > incompleteRatio {
		s.formErrors++
	}
	s.repFrames, s.incompleteUp, s.incompleteDown = 0, 0, 0

	if s.reps%5 == 0 {
		if m := s.roms.Mean(); m > 0 {
			s.consistency = math.Round((1-s.roms.StdDev()/m)*1000) / 10
		}
	}
	if s.reps >= 10 {
		half := s.reps / 2
		if len(s.repTimes) > half {
			first, second := mean(s.repTimes[:half]), mean(s.repTimes[half:])
			if first > 0 {
				s.fatigue = math.Round((second-first)/first*1000) / 10
			}
		}
	}
	slog.Debug("rep counted", "exercise", s.name, "reps", s.reps, "rom", s.repMax-s.repMin)
}

func (s *Situps) measureTechnique(f *pose.Frame) Technique {
	j := s.side.Joints()
	o := pose.Left.Joints()
	if s.side == pose.Left {
		o = pose.Right.Joints()
	}

	shoulder, oppShoulder := f.Pixel(j.Shoulder), f.Pixel(o.Shoulder)
	hip, oppHip := f.Pixel(j.Hip), f.Pixel(o.Hip)
	wrist := f.Pixel(j.Wrist)

	return Technique{
		UpperBodyEngagement: math.Max(0, 100-math.Abs(shoulder.Y-oppShoulder.Y)*5),
		CoreActivation:      math.Max(0, 100-math.Abs(hip.Y-oppHip.Y)*10),
		HipFlexorDominance:  math.Min(100, pose.Distance(wrist, oppShoulder)/2),
	}
}

func (s *Situps) CalculateScore() float64 {
	if s.reps == 0 {
		return s.setScore(0)
	}
	c := completion(float64(s.reps), float64(s.idealReps))
	return s.setScore(toScore(c * repPenalty(s.reps, s.formErrors)))
}

func (s *Situps) FinalizeScore() float64 { return s.CalculateScore() }

// Consistency returns the range-of-motion consistency percentage.
func (s *Situps) Consistency() float64 { return s.consistency }

// Fatigue returns the percentage change in rep time between the first and
// second half of the set.
func (s *Situps) Fatigue() float64 { return s.fatigue }

// Technique returns the latest technique metrics.
func (s *Situps) Technique() Technique { return s.technique }

func (s *Situps) Feedback() string {
	if s.reps == 0 {
		return "No sit-ups recorded. Make sure your side is visible to the camera."
	}
	upright := mean(s.uprights)
	ret := mean(s.returns)
	speed := mean(s.repTimes)

	side := "Right"
	if s.side == pose.Left {
		side = "Left"
	}
	lines := []string{
		fmt.Sprintf("Sit-ups Feedback (%s Side Detection):", side),
		fmt.Sprintf("- Total reps: %d", s.reps),
		fmt.Sprintf("- Score: %.1f/100", s.score),
		fmt.Sprintf("- Form errors: %d", s.formErrors),
		fmt.Sprintf("- Average sit-up angle: %.1f° (lower is better)", upright),
		fmt.Sprintf("- Average return angle: %.1f° (higher is better)", ret),
		fmt.Sprintf("- Consistency: %.1f%%", s.consistency),
		fmt.Sprintf("- Average speed: %.2fs per rep", speed),
	}
	if s.reps >= 10 {
		lines = append(lines, fmt.Sprintf("- Fatigue factor: %.1f%%", s.fatigue))
	}

	if s.formErrors > 0 {
		lines = append(lines, "Focus on full range of motion: sit all the way up and return all the way down.")
	} else {
		lines = append(lines, "Excellent form throughout!")
	}
	if upright > situpUpAngle+5 {
		lines = append(lines, "Try to sit up higher (aim for smaller angles).")
	} else {
		lines = append(lines, "Good sit-up height!")
	}
	if ret < situpDownAngle-5 {
		lines = append(lines, "Return more fully to the starting position (aim for larger angles).")
	} else {
		lines = append(lines, "Good return to starting position!")
	}

	if s.technique.UpperBodyEngagement < 80 {
		lines = append(lines, "Keep shoulders level during movement.")
	}
	if s.technique.CoreActivation < 80 {
		lines = append(lines, "Engage your core more throughout the movement.")
	}
	if s.technique.HipFlexorDominance > 70 {
		lines = append(lines, "Focus on using your abs rather than pulling with your arms.")
	}
	return strings.Join(lines, "\n")
}

func (s *Situps) Reset() {
	s.resetAccumulators()
	s.cycle.reset()
	s.angles.Clear()
	s.roms.Clear()
	s.sidePicked = false
	s.side = pose.Right
	s.repFrames, s.incompleteUp, s.incompleteDown = 0, 0, 0
	s.repMin, s.repMax = 0, 0
	s.uprights, s.returns, s.repTimes = nil, nil, nil
	s.repStart = time.Time{}
	s.consistency, s.fatigue = 0, 0
	s.technique = Technique{}
}

func (s *Situps) Stats() Stats {
	st := s.stats(s.cycle.phase)
	if s.reps > 0 {
		st.Metrics = map[string]float64{
			"consistency": s.consistency,
			"fatigue":     s.fatigue,
			"avg_rom":     s.roms.Mean(),
		}
	}
	return st
}
