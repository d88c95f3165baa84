// Package app runs the live assessment: camera frames go through the pose
// detector into the exercise trackers, and results are saved on request.
package app

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/ayusman/fitassess/internal/assessment"
	"github.com/ayusman/fitassess/internal/capture"
	"github.com/ayusman/fitassess/internal/detector"
	"github.com/ayusman/fitassess/internal/plugin"
	"github.com/ayusman/fitassess/internal/recording"
	"github.com/ayusman/fitassess/internal/results"
	"github.com/ayusman/fitassess/internal/store"
)

// ErrRunning is returned by Replay while the live pipeline is active.
var ErrRunning = errors.New("pipeline is running")

// Config holds configuration options for the application.
type Config struct {
	Camera       capture.Options
	UserHeightCm float64
	// Steps selects the exercises; nil runs the default flow.
	Steps      []assessment.Step
	ResultsCSV string
	Store      *store.Store
	PluginDir  string
	// Record, when set, receives every processed frame as JSON lines.
	Record io.Writer
	// Clock stamps frames; nil means time.Now.
	Clock func() time.Time
}

// App owns the assessment. The pipeline goroutine is its only writer
// between Start and Stop; every other access goes through mu.
type App struct {
	config     Config
	camera     capture.Camera
	detector   detector.Detector
	assessment *assessment.Assessment
	pluginMgr  *plugin.Manager
	pluginExec *plugin.Executor
	recorder   *recording.Writer
	clock      func() time.Time

	mu     sync.Mutex
	stopCh chan struct{}
	done   chan struct{}
	frames int
	seen   int
}

// Status is an assessment snapshot plus pipeline counters.
type Status struct {
	assessment.Status
	Running bool `json:"running"`
	Frames  int  `json:"frames"`
	// Detected counts frames in which a person was found.
	Detected int `json:"detected"`
}

// SaveResult reports where a save went.
type SaveResult struct {
	CSV       results.Outcome       `json:"csv"`
	SessionID string                `json:"session_id,omitempty"`
	Overall   float64               `json:"overall_score"`
	Records   []results.Record      `json:"records"`
	Exports   []plugin.ExportResult `json:"exports,omitempty"`
	StoreErr  string                `json:"store_error,omitempty"`
}

// New creates an App. The detector is the MediaPipe service when available.
func New(config Config) (*App, error) {
	if config.UserHeightCm <= 0 {
		config.UserHeightCm = 170
	}
	steps := config.Steps
	if steps == nil {
		steps = assessment.DefaultSteps()
	}
	flow, err := assessment.CustomFlow(steps, config.UserHeightCm)
	if err != nil {
		return nil, err
	}

	a := &App{
		config:     config,
		camera:     capture.NewCamera(config.Camera),
		assessment: flow,
		pluginMgr:  plugin.NewManager(config.PluginDir),
		pluginExec: plugin.NewExecutor(plugin.DefaultTimeout),
		clock:      config.Clock,
	}
	if a.clock == nil {
		a.clock = time.Now
	}
	if config.Record != nil {
		a.recorder = recording.NewWriter(config.Record)
	}

	if mp, err := detector.NewMediaPipeDetector(detector.DefaultConfig()); err == nil {
		a.detector = mp
		slog.Info("using MediaPipe pose detection")
	} else {
		slog.Warn("MediaPipe not available, no poses will be detected", "error", err)
		a.detector = detector.NewMockDetector()
	}

	return a, nil
}

// SetCamera replaces the frame source. Call before Start.
func (a *App) SetCamera(c capture.Camera) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.camera = c
}

// SetDetector sets the pose detector implementation to use.
func (a *App) SetDetector(d detector.Detector) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.detector = d
}

// DiscoverPlugins scans the plugin directory for exporters.
func (a *App) DiscoverPlugins() error {
	return a.pluginMgr.Discover()
}

// PluginManager returns the plugin manager.
func (a *App) PluginManager() *plugin.Manager {
	return a.pluginMgr
}

// Start opens the camera, moves to the first exercise if none is active and
// starts the pipeline. Starting a running app does nothing.
func (a *App) Start() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.stopCh != nil {
		return nil
	}

	if err := a.camera.Open(); err != nil {
		return err
	}
	if a.config.Camera.FPS > 0 {
		a.camera.SetFPS(a.config.Camera.FPS)
	}

	if a.assessment.CurrentIndex() < 0 {
		a.assessment.Advance()
	}

	a.stopCh = make(chan struct{})
	a.done = make(chan struct{})
	go a.runPipeline(a.camera, a.detector, a.stopCh, a.done)

	slog.Info("assessment pipeline started", "exercises", a.assessment.Len())
	return nil
}

// Stop halts the pipeline and releases the camera and detector.
func (a *App) Stop() {
	a.mu.Lock()
	stopCh, done := a.stopCh, a.done
	a.stopCh, a.done = nil, nil
	a.mu.Unlock()

	if stopCh == nil {
		return
	}
	close(stopCh)
	<-done

	if err := a.camera.Close(); err != nil {
		slog.Error("closing camera", "error", err)
	}
	if err := a.detector.Close(); err != nil {
		slog.Error("closing detector", "error", err)
	}
	if a.recorder != nil {
		if err := a.recorder.Flush(); err != nil {
			slog.Error("flushing recording", "error", err)
		}
	}

	slog.Info("assessment pipeline stopped")
}

// Running reports whether the pipeline is active. It turns false once a
// finite frame source is exhausted, before Stop is called.
func (a *App) Running() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.runningLocked()
}

func (a *App) runningLocked() bool {
	if a.done == nil {
		return false
	}
	select {
	case <-a.done:
		return false
	default:
		return true
	}
}

// Next finishes the current exercise and moves to the following one. It
// returns false at the last exercise.
func (a *App) Next() (bool, Status) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if cur := a.assessment.Current(); cur != nil {
		cur.FinalizeScore()
	}
	prev := a.assessment.CurrentIndex()
	ok := a.assessment.Advance()
	// Replay starts every recording on the first exercise, so only moves
	// away from a started exercise are marked.
	if ok && prev >= 0 && a.recorder != nil {
		a.recorder.MarkNext()
	}
	return ok, a.statusLocked()
}

// Replay feeds a recording into the assessment instead of the camera.
// Frame times are offsets from epoch. step runs after each entry.
func (a *App) Replay(ctx context.Context, entries []recording.Entry, epoch time.Time, step func()) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.runningLocked() {
		return ErrRunning
	}
	if err := recording.Play(ctx, entries, a.assessment, epoch, step); err != nil {
		return err
	}
	a.frames += len(entries)
	for _, e := range entries {
		if len(e.Landmarks) > 0 {
			a.seen++
		}
	}
	return nil
}

// Status returns a snapshot with live scores.
func (a *App) Status() Status {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.statusLocked()
}

func (a *App) statusLocked() Status {
	return Status{
		Status:   a.assessment.Status(),
		Running:  a.runningLocked(),
		Frames:   a.frames,
		Detected: a.seen,
	}
}

// Save finalizes every exercise and writes the results to the CSV file, the
// session store and the export plugins. Each destination is independent;
// a failure in one is reported without stopping the others.
func (a *App) Save(ctx context.Context) SaveResult {
	a.mu.Lock()
	now := a.clock()
	recs := a.assessment.Records(now)
	overall := a.assessment.AggregateScore()
	a.mu.Unlock()

	res := SaveResult{Overall: overall, Records: recs}

	if a.config.ResultsCSV != "" {
		res.CSV = results.Save(a.config.ResultsCSV, recs)
		if res.CSV.OK {
			slog.Info(res.CSV.Message)
		} else {
			slog.Error(res.CSV.Message)
		}
	}

	sess := store.Session{UserHeightCm: a.config.UserHeightCm, OverallScore: overall, CreatedAt: now}
	if a.config.Store != nil {
		if err := a.persist(&sess, recs); err != nil {
			slog.Error("saving session", "error", err)
			res.StoreErr = err.Error()
		} else {
			res.SessionID = sess.ID
		}
	}

	res.Exports = plugin.Export(ctx, a.pluginMgr, a.pluginExec, plugin.Session{
		ID:           sess.ID,
		UserHeightCm: sess.UserHeightCm,
		OverallScore: overall,
		CreatedAt:    now,
	}, recs)

	return res
}

func (a *App) persist(sess *store.Session, recs []results.Record) error {
	if err := a.config.Store.Sessions().Create(sess); err != nil {
		return err
	}
	if err := a.config.Store.Results().AddAll(sess.ID, recs); err != nil {
		return errors.Join(err, a.config.Store.Sessions().Delete(sess.ID))
	}
	return nil
}
