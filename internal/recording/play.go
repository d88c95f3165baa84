package recording

import (
	"context"
	"time"

	"github.com/ayusman/fitassess/internal/assessment"
)

// Play feeds entries into a, advancing once per Next marker. A marker
// always means a move away from a started exercise, so an assessment that
// has not started is first moved to its first exercise. step runs after
// each entry and may be nil. Play stops early when ctx is cancelled.
func Play(ctx context.Context, entries []Entry, a *assessment.Assessment, epoch time.Time, step func()) error {
	if a.CurrentIndex() < 0 {
		a.Advance()
	}

	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			return err
		}
		if e.Next {
			a.Advance()
		}
		if f := e.Frame(epoch); f != nil {
			a.Update(f)
		}
		if step != nil {
			step()
		}
	}
	return nil
}
