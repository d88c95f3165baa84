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
	gravity = 9.81

	jumpCalibrationFrames = 30
	minCalibrationSpanPx  = 50.0
	heelMinVisibility     = 0.4
	takeoffVisibility     = 0.6
	landingVisibility     = 0.7
	takeoffRisePx         = 20.0
	landingTolerancePx    = 30.0
	// methodAgreementCm is the largest flight/CoM disagreement for which the
	// flight-time estimate is trusted.
	methodAgreementCm = 10.0
	minJumpCm         = 15.0
	minTakeoffKnee    = 160.0
)

// CalibrationStatus reports vertical jump calibration progress. A failed
// frame leaves the frame count unchanged.
type CalibrationStatus struct {
	OK      bool   `json:"ok"`
	Done    bool   `json:"done"`
	Frames  int    `json:"frames"`
	Message string `json:"message"`
}

// Jump is one recorded vertical jump.
type Jump struct {
	Height       float64 `json:"height_cm"`
	FlightHeight float64 `json:"flight_height_cm"`
	CoMHeight    float64 `json:"com_height_cm"`
	FlightTime   float64 `json:"flight_time"`
	Symmetry     float64 `json:"symmetry"`

	// symmetryKnown is false when no takeoff so far had both knee angles.
	symmetryKnown bool
}

// VerticalJump measures jump height by flight time, cross-checked against
// hip displacement.
//
//	state        condition                           next
//	CALIBRATING  30 frames with usable body span     GROUNDED
//	GROUNDED     ankles rise 20px above hip baseline IN_AIR
//	IN_AIR       ankles back within 30px of baseline GROUNDED (jump measured)
type VerticalJump struct {
	Base

	userHeightCm  float64
	idealHeightCm float64

	state        Phase
	calibFrames  int
	calibStatus  CalibrationStatus
	cmPerPx      float64
	baselineHipY float64

	takeoff     time.Time
	minHipY     float64
	takeoffKnee float64
	kneeKnown   bool
	symKnown    bool
	takeoffSym  float64
	lastFlight  float64
	jumps       []Jump
	best        float64
}

// NewVerticalJump creates a vertical jump tracker.
func NewVerticalJump(opts Options) *VerticalJump {
	opts = opts.withDefaults(KindVerticalJump)
	v := &VerticalJump{
		Base:          newBase(KindVerticalJump, opts),
		userHeightCm:  opts.UserHeightCm,
		idealHeightCm: opts.IdealHeightCm,
	}
	v.Reset()
	return v
}

func (v *VerticalJump) Update(f *pose.Frame) {
	if v.state == PhaseCalibrating {
		v.calibStatus = v.calibrate(f)
		return
	}

	hipY := hipCenterPixelY(f)
	left, right, kneesOK := kneeAngles(f)
	now := f.Timestamp

	switch v.state {
	case PhaseGrounded:
		if v.takingOff(f) {
			v.state = PhaseInAir
			v.takeoff = now
			v.minHipY = hipY
			v.kneeKnown = kneesOK
			// Without both knees the previous takeoff's symmetry carries over.
			if kneesOK {
				v.symKnown = true
				v.takeoffSym = 100 - math.Abs(left-right)
				v.takeoffKnee = (left + right) / 2
			}
		}
	case PhaseInAir:
		v.minHipY = math.Min(v.minHipY, hipY)
		if v.landing(f) {
			v.state = PhaseGrounded
			v.land(now)
		}
	}
}

func (v *VerticalJump) calibrate(f *pose.Frame) CalibrationStatus {
	lheel, rheel := pose.LeftHeel, pose.RightHeel
	if f.Visibility(lheel) < heelMinVisibility || f.Visibility(rheel) < heelMinVisibility {
		lheel, rheel = pose.LeftAnkle, pose.RightAnkle
	}
	nose := f.Pixel(pose.Nose)
	heelY := float64(int((f.Pixel(lheel).Y + f.Pixel(rheel).Y) / 2))

	span := math.Abs(heelY - nose.Y)
	if span < minCalibrationSpanPx {
		return CalibrationStatus{Frames: v.calibFrames, Message: "Calibration failed: ensure full body visible."}
	}
	v.cmPerPx = v.userHeightCm / span
	v.baselineHipY = hipCenterPixelY(f)

	v.calibFrames++
	if v.calibFrames >= jumpCalibrationFrames {
		v.state = PhaseGrounded
		slog.Debug("jump calibrated", "exercise", v.name, "cm_per_px", v.cmPerPx, "baseline_hip_y", v.baselineHipY)
		return CalibrationStatus{OK: true, Done: true, Frames: v.calibFrames, Message: "Calibration complete. Ready to jump!"}
	}
	return CalibrationStatus{
		OK:      true,
		Frames:  v.calibFrames,
		Message: fmt.Sprintf("Calibrating... %d/%d frames", v.calibFrames, jumpCalibrationFrames),
	}
}

// hipCenterPixelY de-normalizes the midpoint of both hips.
func hipCenterPixelY(f *pose.Frame) float64 {
	y := (f.Landmarks[pose.LeftHip].Y + f.Landmarks[pose.RightHip].Y) / 2
	return float64(int(y * float64(f.Height)))
}

func kneeAngles(f *pose.Frame) (left, right float64, ok bool) {
	l, r := pose.Left.Joints(), pose.Right.Joints()
	left = pose.AngleAt(f.Pixel(l.Hip), f.Pixel(l.Knee), f.Pixel(l.Ankle))
	right = pose.AngleAt(f.Pixel(r.Hip), f.Pixel(r.Knee), f.Pixel(r.Ankle))
	return left, right, !pose.IsUndefined(left) && !pose.IsUndefined(right)
}

func (v *VerticalJump) ankleY(f *pose.Frame, minVisibility float64) (float64, bool) {
	if f.Visibility(pose.LeftAnkle) <= minVisibility || f.Visibility(pose.RightAnkle) <= minVisibility {
		return 0, false
	}
	return (f.Pixel(pose.LeftAnkle).Y + f.Pixel(pose.RightAnkle).Y) / 2, true
}

func (v *VerticalJump) takingOff(f *pose.Frame) bool {
	y, ok := v.ankleY(f, takeoffVisibility)
	return ok && y < v.baselineHipY-takeoffRisePx
}

func (v *VerticalJump) landing(f *pose.Frame) bool {
	y, ok := v.ankleY(f, landingVisibility)
	return ok && math.Abs(y-v.baselineHipY) < landingTolerancePx
}

func (v *VerticalJump) land(now time.Time) {
	t := now.Sub(v.takeoff).Seconds()
	v.lastFlight = t
	flight := gravity * t * t / 8 * 100
	com := math.Max(0, (v.baselineHipY-v.minHipY)*v.cmPerPx)

	height := com
	if math.Abs(flight-com) < methodAgreementCm {
		height = flight
	}

	if height < minJumpCm {
		v.formErrors++
		slog.Debug("jump discarded", "exercise", v.name, "height_cm", height)
		return
	}

	v.jumps = append(v.jumps, Jump{
		Height:        height,
		FlightHeight:  flight,
		CoMHeight:     com,
		FlightTime:    t,
		Symmetry:      v.takeoffSym,
		symmetryKnown: v.symKnown,
	})
	v.reps = len(v.jumps)
	v.best = math.Max(v.best, height)
	if v.kneeKnown && v.takeoffKnee < minTakeoffKnee {
		v.formErrors++
	}
	slog.Debug("jump recorded", "exercise", v.name, "height_cm", height, "flight_s", t)
}

// Calibration returns the status of the most recent calibration frame.
func (v *VerticalJump) Calibration() CalibrationStatus { return v.calibStatus }

// State returns the current jump state.
func (v *VerticalJump) State() Phase { return v.state }

// Jumps returns the recorded jumps in order.
func (v *VerticalJump) Jumps() []Jump { return append([]Jump(nil), v.jumps...) }

// BestJump returns the highest recorded jump in centimeters.
func (v *VerticalJump) BestJump() float64 { return v.best }

func (v *VerticalJump) heights() []float64 {
	hs := make([]float64, len(v.jumps))
	for i, j := range v.jumps {
		hs[i] = j.Height
	}
	return hs
}

// meanSymmetry averages the jumps with a measured symmetry. ok is false
// when there are none.
func (v *VerticalJump) meanSymmetry() (sym float64, ok bool) {
	var syms []float64
	for _, j := range v.jumps {
		if j.symmetryKnown {
			syms = append(syms, j.Symmetry)
		}
	}
	if len(syms) == 0 {
		return 0, false
	}
	return mean(syms), true
}

func (v *VerticalJump) CalculateScore() float64 {
	n := len(v.jumps)
	if n == 0 {
		return v.setScore(0)
	}
	c := completion(mean(v.heights()), v.idealHeightCm)
	penalty := math.Max(0.7, 1-float64(v.formErrors)/float64(n)*0.3)
	symFactor := 1.0
	if sym, ok := v.meanSymmetry(); ok {
		symFactor = math.Min(1, math.Max(0.8, sym/100))
	}
	return v.setScore(toScore(c * penalty * symFactor))
}

func (v *VerticalJump) FinalizeScore() float64 { return v.CalculateScore() }

func (v *VerticalJump) Feedback() string {
	if len(v.jumps) == 0 {
		return "No valid jumps recorded. Try jumping higher with proper form."
	}
	sym, symOK := v.meanSymmetry()
	symLine := "- Takeoff symmetry: not measured"
	if symOK {
		symLine = fmt.Sprintf("- Takeoff symmetry: %.1f%%", sym)
	}
	lines := []string{
		"Vertical Jump Assessment:",
		fmt.Sprintf("- Total jumps: %d", len(v.jumps)),
		fmt.Sprintf("- Best jump: %.1fcm", v.best),
		fmt.Sprintf("- Average jump: %.1fcm", mean(v.heights())),
		fmt.Sprintf("- Flight time: %.2fs", v.lastFlight),
		symLine,
		fmt.Sprintf("- Score: %.1f/100", v.score),
		fmt.Sprintf("- Form errors: %d", v.formErrors),
	}
	switch {
	case !symOK:
	case sym < 85:
		lines = append(lines, "Work on symmetrical leg extension during takeoff.")
	default:
		lines = append(lines, "Excellent symmetry in jump execution!")
	}
	if v.formErrors > 0 {
		lines = append(lines, "Some jumps had incomplete leg extension or were too shallow.")
	} else {
		lines = append(lines, "Good jumping technique maintained!")
	}
	switch {
	case v.best > 60:
		lines = append(lines, "Elite jumping power!")
	case v.best > 45:
		lines = append(lines, "Excellent jumping ability!")
	case v.best > 35:
		lines = append(lines, "Good vertical jump performance!")
	default:
		lines = append(lines, "Keep practicing to improve your vertical!")
	}
	return strings.Join(lines, "\n")
}

func (v *VerticalJump) Reset() {
	v.resetAccumulators()
	v.state = PhaseCalibrating
	v.calibFrames = 0
	v.calibStatus = CalibrationStatus{Message: "Calibrating... 0/30 frames"}
	v.cmPerPx, v.baselineHipY = 0, 0
	v.takeoff = time.Time{}
	v.minHipY, v.takeoffKnee, v.takeoffSym, v.lastFlight = 0, 0, 0, 0
	v.kneeKnown, v.symKnown = false, false
	v.jumps = nil
	v.best = 0
}

func (v *VerticalJump) Stats() Stats {
	st := v.stats(v.state)
	st.Metrics = map[string]float64{
		"best_jump_cm":       v.best,
		"calibration_frames": float64(v.calibFrames),
	}
	if len(v.jumps) > 0 {
		st.Metrics["avg_jump_cm"] = mean(v.heights())
		if sym, ok := v.meanSymmetry(); ok {
			st.Metrics["symmetry"] = sym
		}
	}
	return st
}
