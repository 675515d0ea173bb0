// Package behavior aggregates vehicle telemetry and driver vision state
// into periodic behavior snapshots: steering stability, speed
// consistency, lane keeping, stress and fatigue estimates.
package behavior

import "gonum.org/v1/gonum/stat"

// Window is a fixed-capacity FIFO of float samples. Pushing past the
// capacity evicts the oldest sample.
type Window struct {
	capacity int
	values   []float64
}

// NewWindow creates a window holding at most capacity samples.
func NewWindow(capacity int) *Window {
	return &Window{
		capacity: capacity,
		values:   make([]float64, 0, capacity),
	}
}

// Push appends a sample, evicting the oldest when full.
func (w *Window) Push(v float64) {
	if len(w.values) == w.capacity {
		copy(w.values, w.values[1:])
		w.values = w.values[:w.capacity-1]
	}
	w.values = append(w.values, v)
}

// Len returns the number of held samples.
func (w *Window) Len() int { return len(w.values) }

// Last returns the most recent n samples, oldest first. Fewer are
// returned when the window holds fewer.
func (w *Window) Last(n int) []float64 {
	if n > len(w.values) {
		n = len(w.values)
	}
	return w.values[len(w.values)-n:]
}

// MeanStdDev returns the mean and standard deviation of the most recent
// n samples.
func (w *Window) MeanStdDev(n int) (mean, stddev float64) {
	vals := w.Last(n)
	switch len(vals) {
	case 0:
		return 0, 0
	case 1:
		// StdDev needs two samples for the corrected variance.
		return vals[0], 0
	}
	return stat.Mean(vals, nil), stat.StdDev(vals, nil)
}
