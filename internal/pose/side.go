package pose

// Side identifies the body side a tracker measures.
type Side int

const (
	Right Side = iota
	Left
)

// String returns "left" or "right".
func (s Side) String() string {
	if s == Left {
		return "left"
	}
	return "right"
}

// Joints holds the landmark indices of one body side.
type Joints struct {
	Ear      int
	Shoulder int
	Elbow    int
	Wrist    int
	Hip      int
	Knee     int
	Ankle    int
	Heel     int
}

var (
	leftJoints = Joints{
		Ear: LeftEar, Shoulder: LeftShoulder, Elbow: LeftElbow, Wrist: LeftWrist,
		Hip: LeftHip, Knee: LeftKnee, Ankle: LeftAnkle, Heel: LeftHeel,
	}
	rightJoints = Joints{
		Ear: RightEar, Shoulder: RightShoulder, Elbow: RightElbow, Wrist: RightWrist,
		Hip: RightHip, Knee: RightKnee, Ankle: RightAnkle, Heel: RightHeel,
	}
)

// Joints returns the landmark indices for side s.
func (s Side) Joints() Joints {
	if s == Left {
		return leftJoints
	}
	return rightJoints
}

// PickSide returns the side whose shoulder, hip and knee are more visible.
// Ties go to the right side.
func PickSide(lm *Landmarks) Side {
	left := lm[LeftShoulder].Visibility + lm[LeftHip].Visibility + lm[LeftKnee].Visibility
	right := lm[RightShoulder].Visibility + lm[RightHip].Visibility + lm[RightKnee].Visibility
	if left > right {
		return Left
	}
	return Right
}
