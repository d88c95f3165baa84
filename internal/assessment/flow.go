package assessment

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ayusman/fitassess/internal/exercise"
)

// Step selects one exercise of a flow. Target overrides the default reps or
// seconds when positive.
type Step struct {
	Kind   exercise.Kind
	Target float64
}

// ParseSteps parses a comma-separated selection such as "1,3,plank:45".
// Each entry is an exercise number or name with an optional ":target".
func ParseSteps(s string) ([]Step, error) {
	var steps []Step
	for _, field := range strings.Split(s, ",") {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		name, target, hasTarget := strings.Cut(field, ":")
		kind, err := exercise.ParseKind(name)
		if err != nil {
			return nil, err
		}
		step := Step{Kind: kind}
		if hasTarget {
			v, err := strconv.ParseFloat(strings.TrimSpace(target), 64)
			if err != nil || v <= 0 {
				return nil, fmt.Errorf("invalid target %q for %s", target, kind)
			}
			step.Target = v
		}
		steps = append(steps, step)
	}
	if len(steps) == 0 {
		return nil, fmt.Errorf("no exercises selected")
	}
	return steps, nil
}

// DefaultSteps is the standard six-exercise test.
func DefaultSteps() []Step {
	steps := make([]Step, len(exercise.Kinds))
	for i, k := range exercise.Kinds {
		steps[i] = Step{Kind: k}
	}
	return steps
}

// DefaultFlow builds the standard test: squats, push-ups, sit-ups, plank,
// vertical jump and one-leg stand.
func DefaultFlow(userHeightCm float64) *Assessment {
	a, _ := CustomFlow(DefaultSteps(), userHeightCm)
	return a
}

// CustomFlow builds an assessment from the selected steps.
func CustomFlow(steps []Step, userHeightCm float64) (*Assessment, error) {
	trackers := make([]exercise.Tracker, 0, len(steps))
	for _, s := range steps {
		opts := exercise.Options{UserHeightCm: userHeightCm}
		d := exercise.DefaultOptions(s.Kind)
		if s.Target > 0 {
			switch {
			case d.IdealReps > 0:
				opts.IdealReps = int(s.Target)
			case d.IdealTime > 0:
				opts.IdealTime = s.Target
			case s.Kind == exercise.KindVerticalJump:
				opts.IdealHeightCm = s.Target
			}
		}
		t, err := exercise.New(s.Kind, opts)
		if err != nil {
			return nil, fmt.Errorf("build %s: %w", s.Kind, err)
		}
		trackers = append(trackers, t)
	}
	return New(trackers...), nil
}
