package landmark

import "github.com/vigilanceai/go-vigilance/pkg/facegeo"

// MockDetector is a scriptable detector for tests. Each call to Detect
// pops the next queued result; when the queue is exhausted it repeats the
// last entry.
type MockDetector struct {
	Results []MockResult
	Calls   int
}

// MockResult is one scripted Detect outcome.
type MockResult struct {
	Landmarks *facegeo.LandmarkSet
	Err       error
}

// Detect returns the next scripted result.
func (m *MockDetector) Detect(jpeg []byte) (*facegeo.LandmarkSet, error) {
	idx := m.Calls
	if idx >= len(m.Results) {
		idx = len(m.Results) - 1
	}
	m.Calls++
	if idx < 0 {
		return nil, nil
	}
	r := m.Results[idx]
	return r.Landmarks, r.Err
}

// Close implements Detector.
func (m *MockDetector) Close() error { return nil }

var _ Detector = (*MockDetector)(nil)
