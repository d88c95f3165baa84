// Package tray provides a system tray menu for driving a fitness assessment.
package tray

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/getlantern/systray"

	"github.com/ayusman/fitassess/internal/app"
)

// Controller is what the tray menu drives.
type Controller interface {
	Status() app.Status
	Next() (bool, app.Status)
	Save(ctx context.Context) app.SaveResult
}

// Tray represents the system tray application.
type Tray struct {
	ctl     Controller
	onQuit  func()
	refresh time.Duration
	mu      sync.RWMutex

	// Menu items stored for later updates
	menuCurrent *systray.MenuItem
	menuScore   *systray.MenuItem
	menuNext    *systray.MenuItem
	menuSave    *systray.MenuItem
}

// New creates a Tray that controls ctl.
func New(ctl Controller) *Tray {
	return &Tray{ctl: ctl, refresh: time.Second}
}

// OnQuit sets the callback function to be called when the quit menu item is clicked.
func (t *Tray) OnQuit(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onQuit = fn
}

// Run starts the system tray application.
// This function blocks until systray.Quit() is called.
func (t *Tray) Run() {
	systray.Run(t.onReady, t.onExit)
}

// Quit closes the tray menu, making Run return.
func (t *Tray) Quit() {
	systray.Quit()
}

func (t *Tray) onReady() {
	systray.SetTitle("Fitness")
	systray.SetTooltip("Fitness assessment")

	t.mu.Lock()
	t.menuCurrent = systray.AddMenuItem(currentLabel(t.ctl.Status()), "Current exercise")
	t.menuCurrent.Disable()
	t.menuScore = systray.AddMenuItem(scoreLabel(t.ctl.Status()), "Overall score")
	t.menuScore.Disable()
	systray.AddSeparator()

	t.menuNext = systray.AddMenuItem("Next exercise", "Finish this exercise and start the next")
	t.menuSave = systray.AddMenuItem("Save results", "Write results to CSV, history and exporters")
	systray.AddSeparator()

	menuQuit := systray.AddMenuItem("Quit", "Quit the assessment")
	t.mu.Unlock()

	go func() {
		ticker := time.NewTicker(t.refresh)
		defer ticker.Stop()
		for {
			select {
			case <-t.menuNext.ClickedCh:
				t.handleNext()
			case <-t.menuSave.ClickedCh:
				t.handleSave()
			case <-ticker.C:
				t.update(t.ctl.Status())
			case <-menuQuit.ClickedCh:
				t.handleQuit()
				return
			}
		}
	}()
}

func (t *Tray) onExit() {}

func (t *Tray) handleNext() {
	ok, st := t.ctl.Next()
	t.update(st)
	if !ok {
		t.mu.RLock()
		t.menuNext.Disable()
		t.mu.RUnlock()
	}
}

func (t *Tray) handleSave() {
	res := t.ctl.Save(context.Background())

	t.mu.RLock()
	defer t.mu.RUnlock()
	t.menuSave.SetTitle(saveLabel(res))
}

// handleQuit handles the quit menu item click.
func (t *Tray) handleQuit() {
	t.mu.RLock()
	callback := t.onQuit
	t.mu.RUnlock()

	if callback != nil {
		callback()
	}

	systray.Quit()
}

func (t *Tray) update(st app.Status) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if t.menuCurrent != nil {
		t.menuCurrent.SetTitle(currentLabel(st))
	}
	if t.menuScore != nil {
		t.menuScore.SetTitle(scoreLabel(st))
	}
}

func currentLabel(st app.Status) string {
	if st.Current == "" {
		return "Not started"
	}
	reps := ""
	if st.Index >= 0 && st.Index < len(st.Exercises) {
		if ex := st.Exercises[st.Index]; ex.IdealTime > 0 {
			reps = fmt.Sprintf(" (%.0fs)", ex.Duration)
		} else {
			reps = fmt.Sprintf(" (%d)", ex.Reps)
		}
	}
	return fmt.Sprintf("%d/%d %s%s", st.Index+1, st.Total, st.Current, reps)
}

func scoreLabel(st app.Status) string {
	return fmt.Sprintf("Score: %.1f", st.Overall)
}

func saveLabel(res app.SaveResult) string {
	switch {
	case res.StoreErr != "" || (res.CSV.Message != "" && !res.CSV.OK):
		return "Save results (last save failed)"
	default:
		return fmt.Sprintf("Save results (saved %.1f)", res.Overall)
	}
}
