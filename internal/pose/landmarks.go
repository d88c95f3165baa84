// Package pose provides body landmark types and the geometry used to score exercises.
package pose

import "time"

// Body landmark indices following the MediaPipe Pose convention.
// See: https://developers.google.com/mediapipe/solutions/vision/pose_landmarker
const (
	Nose           = 0
	LeftEyeInner   = 1
	LeftEye        = 2
	LeftEyeOuter   = 3
	RightEyeInner  = 4
	RightEye       = 5
	RightEyeOuter  = 6
	LeftEar        = 7
	RightEar       = 8
	MouthLeft      = 9
	MouthRight     = 10
	LeftShoulder   = 11
	RightShoulder  = 12
	LeftElbow      = 13
	RightElbow     = 14
	LeftWrist      = 15
	RightWrist     = 16
	LeftPinky      = 17
	RightPinky     = 18
	LeftIndex      = 19
	RightIndex     = 20
	LeftThumb      = 21
	RightThumb     = 22
	LeftHip        = 23
	RightHip       = 24
	LeftKnee       = 25
	RightKnee      = 26
	LeftAnkle      = 27
	RightAnkle     = 28
	LeftHeel       = 29
	RightHeel      = 30
	LeftFootIndex  = 31
	RightFootIndex = 32
	NumLandmarks   = 33
)

// Landmark is a single body point in normalized image coordinates.
// X and Y are in [0,1] with the origin at the top-left corner; Y grows downward.
type Landmark struct {
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	Visibility float64 `json:"visibility"`
}

// Pixel converts the landmark to pixel coordinates, truncating toward zero.
func (l Landmark) Pixel(width, height int) Point {
	return Point{
		X: float64(int(l.X * float64(width))),
		Y: float64(int(l.Y * float64(height))),
	}
}

// Point returns the normalized coordinates as a Point.
func (l Landmark) Point() Point {
	return Point{X: l.X, Y: l.Y}
}

// Landmarks holds the 33 landmarks of one detected body.
type Landmarks [NumLandmarks]Landmark

// Frame is one landmark snapshot together with the image size it was
// detected on and the time it was captured.
type Frame struct {
	Landmarks Landmarks
	Width     int
	Height    int
	Timestamp time.Time
}

// Pixel returns landmark i of the frame in pixel coordinates.
func (f *Frame) Pixel(i int) Point {
	return f.Landmarks[i].Pixel(f.Width, f.Height)
}

// Visibility returns the visibility score of landmark i.
func (f *Frame) Visibility(i int) float64 {
	return f.Landmarks[i].Visibility
}

// AllVisible reports whether every listed landmark is at least minVisibility.
func (f *Frame) AllVisible(minVisibility float64, indices ...int) bool {
	for _, i := range indices {
		if f.Landmarks[i].Visibility < minVisibility {
			return false
		}
	}
	return true
}
