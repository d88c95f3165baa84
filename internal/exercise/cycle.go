package exercise

import "time"

const (
	// minRepInterval is the debounce between two counted reps.
	minRepInterval = time.Second

	// smoothSamples is the moving-average length for rep exercises.
	smoothSamples = 5
)

type repEvent int

const (
	repNone repEvent = iota
	repFlexed
	repCounted
	repDebounced
)

// repCycle is the two-phase flex/extend machine shared by the rep exercises.
//
//	phase     smoothed angle              next      event
//	EXTENDED  <= flexAt                   FLEXED    repFlexed
//	FLEXED    >= extendAt, interval ok    EXTENDED  repCounted
//	FLEXED    >= extendAt, too soon       EXTENDED  repDebounced (not counted)
type repCycle struct {
	flexAt   float64
	extendAt float64

	phase   Phase
	lastRep time.Time
	counted bool
}

func newRepCycle(flexAt, extendAt float64) repCycle {
	return repCycle{flexAt: flexAt, extendAt: extendAt, phase: PhaseExtended}
}

func (c *repCycle) step(avg float64, now time.Time) repEvent {
	switch c.phase {
	case PhaseExtended:
		if avg <= c.flexAt {
			c.phase = PhaseFlexed
			return repFlexed
		}
	case PhaseFlexed:
		if avg >= c.extendAt {
			c.phase = PhaseExtended
			if c.counted && now.Sub(c.lastRep) < minRepInterval {
				return repDebounced
			}
			c.lastRep = now
			c.counted = true
			return repCounted
		}
	}
	return repNone
}

func (c *repCycle) reset() {
	c.phase = PhaseExtended
	c.lastRep = time.Time{}
	c.counted = false
}
