package detector

import (
	"sync"

	"gocv.io/x/gocv"

	"github.com/ayusman/fitassess/internal/pose"
)

// MockDetector is a test implementation of the Detector interface.
// It replays a queue of poses and then repeats the last one.
type MockDetector struct {
	mu    sync.Mutex
	poses []*pose.Landmarks
	next  int
	calls int
	err   error
}

// NewMockDetector creates a new MockDetector instance.
func NewMockDetector(poses ...*pose.Landmarks) *MockDetector {
	return &MockDetector{poses: poses}
}

// SetPose makes every following Detect return lm.
func (m *MockDetector) SetPose(lm *pose.Landmarks) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.poses = []*pose.Landmarks{lm}
	m.next = 0
}

// SetError sets the error that will be returned by Detect.
func (m *MockDetector) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// Calls returns how many times Detect ran.
func (m *MockDetector) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// Detect returns the next queued pose or the configured error.
func (m *MockDetector) Detect(frame *gocv.Mat) (*pose.Landmarks, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	if len(m.poses) == 0 {
		return nil, nil
	}

	lm := m.poses[m.next]
	if m.next < len(m.poses)-1 {
		m.next++
	}
	return lm, nil
}

// Close is a no-op for the mock detector.
func (m *MockDetector) Close() error {
	return nil
}
