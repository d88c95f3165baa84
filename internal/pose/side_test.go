package pose

import "testing"

func TestPickSide(t *testing.T) {
	tests := []struct {
		name        string
		left, right float64
		want        Side
	}{
		{"left more visible", 0.9, 0.2, Left},
		{"right more visible", 0.3, 0.8, Right},
		{"tie goes right", 0.5, 0.5, Right},
		{"all hidden", 0, 0, Right},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var lm Landmarks
			for _, i := range []int{LeftShoulder, LeftHip, LeftKnee} {
				lm[i].Visibility = tt.left
			}
			for _, i := range []int{RightShoulder, RightHip, RightKnee} {
				lm[i].Visibility = tt.right
			}
			if got := PickSide(&lm); got != tt.want {
				t.Errorf("PickSide() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSide_Joints(t *testing.T) {
	if j := Left.Joints(); j.Knee != LeftKnee || j.Ear != LeftEar {
		t.Errorf("Left.Joints() = %+v", j)
	}
	if j := Right.Joints(); j.Shoulder != RightShoulder || j.Heel != RightHeel {
		t.Errorf("Right.Joints() = %+v", j)
	}
}
