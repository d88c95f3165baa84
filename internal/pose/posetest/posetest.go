// Package posetest builds synthetic landmark frames for tests.
package posetest

import (
	"math"
	"time"

	"github.com/ayusman/fitassess/internal/pose"
)

// Frame dimensions used by every builder.
const (
	Width  = 640
	Height = 480
)

// Epoch is the timestamp of the first frame produced by a Clock.
var Epoch = time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)

// Clock hands out evenly spaced frame timestamps.
type Clock struct {
	now  time.Time
	step time.Duration
}

// NewClock returns a clock ticking at fps frames per second from Epoch.
func NewClock(fps int) *Clock {
	return &Clock{now: Epoch, step: time.Second / time.Duration(fps)}
}

// Now returns the timestamp of the next frame without advancing.
func (c *Clock) Now() time.Time { return c.now }

// Tick returns the next frame timestamp and advances the clock.
func (c *Clock) Tick() time.Time {
	t := c.now
	c.now = c.now.Add(c.step)
	return t
}

// Advance moves the clock forward by d.
func (c *Clock) Advance(d time.Duration) { c.now = c.now.Add(d) }

// Frame wraps landmarks in a frame of the standard size.
func Frame(lm pose.Landmarks, ts time.Time) *pose.Frame {
	return &pose.Frame{Landmarks: lm, Width: Width, Height: Height, Timestamp: ts}
}

// Base returns a body with every landmark at the image center, fully visible.
func Base() pose.Landmarks {
	var lm pose.Landmarks
	for i := range lm {
		lm[i] = pose.Landmark{X: 0.5, Y: 0.5, Visibility: 0.9}
	}
	return lm
}

// Set places landmark i at integer pixel (x, y). The normalized value sits
// in the middle of the pixel so de-normalization returns exactly (x, y).
func Set(lm *pose.Landmarks, i int, x, y float64) {
	lm[i].X = (math.Round(x) + 0.5) / Width
	lm[i].Y = (math.Round(y) + 0.5) / Height
}

// SetBoth places the left and right variants of a joint at the same pixel.
func SetBoth(lm *pose.Landmarks, left, right int, x, y float64) {
	Set(lm, left, x, y)
	Set(lm, right, x, y)
}

func rad(deg float64) float64 { return deg * math.Pi / 180 }

// Squat returns a side view with the given hip-knee-ankle angle, identical
// on both sides.
func Squat(kneeAngle float64) pose.Landmarks {
	return squat(kneeAngle, 0)
}

// SquatValgus is Squat with the shin tilted so the knee sits 31px to the
// right of the ankle.
func SquatValgus(kneeAngle float64) pose.Landmarks {
	return squat(kneeAngle, -15)
}

func squat(kneeAngle, shinTilt float64) pose.Landmarks {
	lm := Base()
	kx, ky := 320.0, 288.0
	shin := rad(shinTilt)
	thigh := shin + rad(kneeAngle)
	SetBoth(&lm, pose.LeftKnee, pose.RightKnee, kx, ky)
	SetBoth(&lm, pose.LeftAnkle, pose.RightAnkle, kx+120*math.Sin(shin), ky+120*math.Cos(shin))
	hx, hy := kx+120*math.Sin(thigh), ky+120*math.Cos(thigh)
	SetBoth(&lm, pose.LeftHip, pose.RightHip, hx, hy)
	SetBoth(&lm, pose.LeftShoulder, pose.RightShoulder, hx, hy-150)
	return lm
}

// Pushup returns a horizontal body with the given shoulder-elbow-wrist angle.
func Pushup(elbowAngle float64) pose.Landmarks {
	lm := Base()
	sx, sy := 400.0, 240.0
	SetBoth(&lm, pose.LeftShoulder, pose.RightShoulder, sx, sy)
	SetBoth(&lm, pose.LeftHip, pose.RightHip, 250, sy)
	SetBoth(&lm, pose.LeftAnkle, pose.RightAnkle, 100, sy)
	SetBoth(&lm, pose.LeftElbow, pose.RightElbow, sx, sy+80)
	wx := sx + 80*math.Sin(rad(elbowAngle))
	wy := sy + 80 - 80*math.Cos(rad(elbowAngle))
	SetBoth(&lm, pose.LeftWrist, pose.RightWrist, wx, wy)
	return lm
}

// PushupSagging is Pushup with the hips dropped by 20% of the frame height.
func PushupSagging(elbowAngle float64) pose.Landmarks {
	lm := Pushup(elbowAngle)
	SetBoth(&lm, pose.LeftHip, pose.RightHip, 250, 240+0.2*Height)
	return lm
}

// Situp returns a side view with the given shoulder-hip-knee angle.
func Situp(torsoAngle float64) pose.Landmarks {
	lm := Base()
	hx, hy := 300.0, 360.0
	SetBoth(&lm, pose.LeftHip, pose.RightHip, hx, hy)
	SetBoth(&lm, pose.LeftKnee, pose.RightKnee, hx+100, hy)
	sx := hx + 120*math.Cos(rad(torsoAngle))
	sy := hy - 120*math.Sin(rad(torsoAngle))
	SetBoth(&lm, pose.LeftShoulder, pose.RightShoulder, sx, sy)
	SetBoth(&lm, pose.LeftWrist, pose.RightWrist, sx, sy)
	return lm
}

// Plank returns a straight horizontal plank, ears in line with the body.
func Plank() pose.Landmarks {
	lm := Base()
	y := 288.0
	SetBoth(&lm, pose.LeftAnkle, pose.RightAnkle, 128, y)
	SetBoth(&lm, pose.LeftHip, pose.RightHip, 320, y)
	SetBoth(&lm, pose.LeftShoulder, pose.RightShoulder, 448, y)
	SetBoth(&lm, pose.LeftEar, pose.RightEar, 512, y)
	return lm
}

// PlankSagging returns a plank with the hips dropped well below the line.
func PlankSagging() pose.Landmarks {
	lm := Plank()
	SetBoth(&lm, pose.LeftHip, pose.RightHip, 320, 360)
	return lm
}

// Standing returns an upright front view: nose at 10% and heels at 90% of
// the frame height, hips at the vertical center.
func Standing() pose.Landmarks {
	lm := Base()
	Set(&lm, pose.Nose, 320, 48)
	Set(&lm, pose.LeftShoulder, 280, 120)
	Set(&lm, pose.RightShoulder, 360, 120)
	Set(&lm, pose.LeftHip, 300, 240)
	Set(&lm, pose.RightHip, 340, 240)
	Set(&lm, pose.LeftKnee, 300, 324)
	Set(&lm, pose.RightKnee, 340, 324)
	Set(&lm, pose.LeftAnkle, 300, 408)
	Set(&lm, pose.RightAnkle, 340, 408)
	Set(&lm, pose.LeftHeel, 300, 432)
	Set(&lm, pose.RightHeel, 340, 432)
	return lm
}

// Airborne returns a standing body with the hips at hipY and the ankles at
// ankleY, in pixels. Knees sit halfway so both legs stay straight.
func Airborne(hipY, ankleY float64) pose.Landmarks {
	lm := Standing()
	Set(&lm, pose.LeftHip, 300, hipY)
	Set(&lm, pose.RightHip, 340, hipY)
	Set(&lm, pose.LeftKnee, 300, (hipY+ankleY)/2)
	Set(&lm, pose.RightKnee, 340, (hipY+ankleY)/2)
	Set(&lm, pose.LeftAnkle, 300, ankleY)
	Set(&lm, pose.RightAnkle, 340, ankleY)
	return lm
}

// OneLeg returns a front view standing on the left leg with the right foot
// raised, hips centered at hipX (normalized).
func OneLeg(hipX float64) pose.Landmarks {
	lm := Standing()
	lm[pose.LeftHip].X = hipX - 0.03
	lm[pose.RightHip].X = hipX + 0.03
	lm[pose.LeftAnkle].Y = 0.85
	lm[pose.RightAnkle].Y = 0.7
	return lm
}

// LostBalance returns OneLeg with both ankles above the grounded line.
func LostBalance(hipX float64) pose.Landmarks {
	lm := OneLeg(hipX)
	lm[pose.LeftAnkle].Y = 0.75
	lm[pose.RightAnkle].Y = 0.75
	return lm
}
