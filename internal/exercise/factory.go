package exercise

import "fmt"

// DefaultUserHeightCm is used by the vertical jump when no height is given.
const DefaultUserHeightCm = 170

// Options configures a tracker. Zero fields take the exercise defaults.
type Options struct {
	Name      string
	Component Component

	// Exactly one of IdealReps or IdealTime applies, depending on the exercise.
	IdealReps int
	IdealTime float64

	// UserHeightCm and IdealHeightCm only apply to the vertical jump.
	UserHeightCm  float64
	IdealHeightCm float64
}

// DefaultOptions returns the standard name, component and target for kind.
func DefaultOptions(kind Kind) Options {
	switch kind {
	case KindSquats:
		return Options{Name: "Squats", Component: Strength, IdealReps: 15}
	case KindPushups:
		return Options{Name: "Push-ups", Component: Strength, IdealReps: 12}
	case KindSitups:
		return Options{Name: "Sit-ups", Component: Endurance, IdealReps: 20}
	case KindPlank:
		return Options{Name: "Plank", Component: Endurance, IdealTime: 60}
	case KindVerticalJump:
		return Options{Name: "Vertical Jump", Component: Power, UserHeightCm: DefaultUserHeightCm, IdealHeightCm: 50}
	case KindOneLegStand:
		return Options{Name: "One-Leg Stand", Component: Balance, IdealTime: 30}
	}
	return Options{}
}

func (o Options) withDefaults(kind Kind) Options {
	d := DefaultOptions(kind)
	if o.Name == "" {
		o.Name = d.Name
	}
	if o.Component == 0 {
		o.Component = d.Component
	}
	if o.IdealReps == 0 {
		o.IdealReps = d.IdealReps
	}
	if o.IdealTime == 0 {
		o.IdealTime = d.IdealTime
	}
	if o.UserHeightCm == 0 {
		o.UserHeightCm = d.UserHeightCm
	}
	if o.IdealHeightCm == 0 {
		o.IdealHeightCm = d.IdealHeightCm
	}
	return o
}

var (
	_ Tracker = (*Squats)(nil)
	_ Tracker = (*Pushups)(nil)
	_ Tracker = (*Situps)(nil)
	_ Tracker = (*Plank)(nil)
	_ Tracker = (*VerticalJump)(nil)
	_ Tracker = (*OneLegStand)(nil)
)

// New creates a tracker for kind.
func New(kind Kind, opts Options) (Tracker, error) {
	switch kind {
	case KindSquats:
		return NewSquats(opts), nil
	case KindPushups:
		return NewPushups(opts), nil
	case KindSitups:
		return NewSitups(opts), nil
	case KindPlank:
		return NewPlank(opts), nil
	case KindVerticalJump:
		return NewVerticalJump(opts), nil
	case KindOneLegStand:
		return NewOneLegStand(opts), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
}
