// Package detector turns camera frames into body pose landmarks.
package detector

import (
	"time"

	"gocv.io/x/gocv"

	"github.com/ayusman/fitassess/internal/pose"
)

// Detector defines the interface for pose estimation backends.
type Detector interface {
	// Detect analyzes a video frame and returns the 33 body landmarks.
	// Returns nil, nil when no person is in view.
	Detect(frame *gocv.Mat) (*pose.Landmarks, error)

	// Close releases any resources held by the detector.
	Close() error
}

// Config holds configuration options for pose detection.
type Config struct {
	// ModelComplexity selects the pose model (0, 1 or 2).
	ModelComplexity int

	// MinConfidence is the minimum detection confidence threshold (0.0-1.0).
	MinConfidence float64

	// MinTrackingConf is the minimum tracking confidence threshold (0.0-1.0).
	MinTrackingConf float64

	// ScriptPath overrides the pose service lookup.
	ScriptPath string

	// IdleTimeout stops the service after this long without frames.
	IdleTimeout time.Duration
}

// DefaultConfig returns a Config with sensible default values.
func DefaultConfig() Config {
	return Config{
		ModelComplexity: 1,
		MinConfidence:   0.5,
		MinTrackingConf: 0.5,
		IdleTimeout:     30 * time.Second,
	}
}
