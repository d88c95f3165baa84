package exercise

import (
	"strings"
	"testing"

	"github.com/ayusman/fitassess/internal/pose/posetest"
)

func TestPushups_CleanReps(t *testing.T) {
	p := NewPushups(Options{})
	clock := posetest.NewClock(20)
	feedCycles(p, clock, 12, posetest.Pushup(80), posetest.Pushup(170), 10, 14)

	if p.Reps() != 12 {
		t.Errorf("Reps() = %d, want 12", p.Reps())
	}
	if got := p.FinalizeScore(); got != 100 {
		t.Errorf("FinalizeScore() = %f, want 100", got)
	}

	fb := p.Feedback()
	for _, want := range []string{"Depth: Excellent", "Lockout: Full extension", "Hip Alignment: Excellent"} {
		if !strings.Contains(fb, want) {
			t.Errorf("Feedback() missing %q:\n%s", want, fb)
		}
	}
}

func TestPushups_PartialSetScore(t *testing.T) {
	p := NewPushups(Options{})
	clock := posetest.NewClock(20)
	feedCycles(p, clock, 6, posetest.Pushup(80), posetest.Pushup(170), 10, 14)

	p.formErrors = 2
	// completion 0.5 times max(0.7, 1 - 2/7*0.3)
	if got := p.FinalizeScore(); got != 45.7 {
		t.Errorf("FinalizeScore() = %f, want 45.7", got)
	}
}

func TestPushups_SustainedHipErrors(t *testing.T) {
	p := NewPushups(Options{})
	clock := posetest.NewClock(20)
	sag := posetest.PushupSagging(170)
	for i := 0; i < 25; i++ {
		p.Update(posetest.Frame(sag, clock.Tick()))
	}
	if p.hipErrors != 2 {
		t.Errorf("hipErrors = %d, want 2", p.hipErrors)
	}
	if p.consecutiveErrors != 5 {
		t.Errorf("consecutiveErrors = %d, want 5", p.consecutiveErrors)
	}
}

func TestHipMisaligned(t *testing.T) {
	straight := posetest.Pushup(170)
	if hipMisaligned(&straight) {
		t.Error("straight body reported as misaligned")
	}
	sag := posetest.PushupSagging(170)
	if !hipMisaligned(&sag) {
		t.Error("sagging hips not detected")
	}
}
