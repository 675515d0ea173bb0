package driver

import (
	"time"

	"github.com/vigilanceai/go-vigilance/pkg/facegeo"
)

// Attention is the gaze attention state.
type Attention int

const (
	AttentionAttentive Attention = iota
	AttentionDistracted
	AttentionFaceNotDetected
)

func (a Attention) String() string {
	switch a {
	case AttentionDistracted:
		return "Distracted"
	case AttentionFaceNotDetected:
		return "FaceNotDetected"
	default:
		return "Attentive"
	}
}

// AttentionTracker smooths head pose and converts sustained off-axis gaze
// into a distraction state. The hysteresis counter rises on off-axis
// frames and falls on on-axis frames, floored at zero, so a brief glance
// aside does not flip the state.
type AttentionTracker struct {
	cfg      Config
	smoother *facegeo.PoseSmoother
	counter  int

	lastEventAt time.Time
	hasEvent    bool
}

// NewAttentionTracker creates a tracker with the configured smoothing and
// thresholds.
func NewAttentionTracker(cfg Config) *AttentionTracker {
	return &AttentionTracker{
		cfg:      cfg,
		smoother: facegeo.NewPoseSmoother(cfg.PoseSmoothingAlpha),
	}
}

// Observe feeds one frame's pose solve into the tracker. pose may be nil
// when the solver failed this frame; the previous smoothed pose is then
// reused. faceFound=false overrides the state to FaceNotDetected without
// touching the counter.
//
// The returned event flag fires at most once per cooldown window while
// the state is Distracted, for alerting without spam; the state itself
// remains continuous.
func (t *AttentionTracker) Observe(pose *facegeo.Pose, faceFound bool, now time.Time) (Attention, bool) {
	if !faceFound {
		return AttentionFaceNotDetected, false
	}

	if pose != nil {
		t.smoother.Update(*pose)
	}
	smoothed := t.smoother.Current()

	offAxis := abs(smoothed.YawDeg) > t.cfg.YawThresholdDeg ||
		abs(smoothed.PitchDeg) > t.cfg.PitchThresholdDeg
	if offAxis {
		t.counter++
	} else if t.counter > 0 {
		t.counter--
	}

	if t.counter < t.cfg.DistractionHits {
		return AttentionAttentive, false
	}

	event := false
	if !t.hasEvent || now.Sub(t.lastEventAt) > t.cfg.DistractionCooldown {
		event = true
		t.hasEvent = true
		t.lastEventAt = now
	}
	return AttentionDistracted, event
}

// Counter exposes the hysteresis counter for diagnostics.
func (t *AttentionTracker) Counter() int { return t.counter }

// Pose returns the current smoothed head pose.
func (t *AttentionTracker) Pose() facegeo.Pose { return t.smoother.Current() }

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
