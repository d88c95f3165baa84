package app

import (
	"errors"
	"log/slog"
	"time"

	"github.com/ayusman/fitassess/internal/capture"
	"github.com/ayusman/fitassess/internal/detector"
	"github.com/ayusman/fitassess/internal/pose"
)

// runPipeline reads frames at the camera rate until stopCh closes or the
// source runs dry:
//  1. read a frame
//  2. detect the pose outside the lock
//  3. stamp it and feed the current tracker under the lock
//  4. append it to the recording, if any
func (a *App) runPipeline(cam capture.Camera, det detector.Detector, stopCh <-chan struct{}, done chan<- struct{}) {
	defer close(done)

	fps := cam.FPS()
	if fps <= 0 {
		fps = capture.DefaultFPS
	}
	ticker := time.NewTicker(time.Second / time.Duration(fps))
	defer ticker.Stop()

	for {
		select {
		case <-stopCh:
			return
		case <-ticker.C:
			mat, err := cam.ReadFrame()
			if errors.Is(err, capture.ErrNoMoreFrames) {
				slog.Info("frame source finished")
				return
			}
			if err != nil {
				slog.Warn("reading frame", "error", err)
				continue
			}

			width, height := mat.Cols(), mat.Rows()
			lm, err := det.Detect(mat)
			mat.Close()
			if err != nil {
				slog.Warn("detecting pose", "error", err)
				continue
			}

			a.process(lm, width, height)
		}
	}
}

// process applies one detection result.
func (a *App) process(lm *pose.Landmarks, width, height int) {
	a.mu.Lock()
	defer a.mu.Unlock()

	ts := a.clock()
	a.frames++

	if lm == nil {
		if a.recorder != nil {
			a.record(a.recorder.WriteMissing(width, height, ts))
		}
		return
	}

	a.seen++
	f := &pose.Frame{Landmarks: *lm, Width: width, Height: height, Timestamp: ts}
	a.assessment.Update(f)
	if a.recorder != nil {
		a.record(a.recorder.Write(f))
	}
}

func (a *App) record(err error) {
	if err != nil {
		slog.Warn("recording frame", "error", err)
	}
}
