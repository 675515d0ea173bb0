package driver

import (
	"time"

	"github.com/vigilanceai/go-vigilance/pkg/facegeo"
)

// State is an immutable snapshot of the driver's estimated state after
// one processed frame. External consumers (loggers, broadcasters, the
// voice assistant) receive copies of this value, never the monitor's live
// internals.
type State struct {
	FrameIndex   int       `json:"frame"`
	FaceDetected bool      `json:"face_detected"`
	Timestamp    time.Time `json:"timestamp"`

	EAR          float64 `json:"ear"`
	MAR          float64 `json:"mar"`
	BlinkCount   int     `json:"blink_count"`
	BlinkRate    float64 `json:"blink_rate"`
	YawnDetected bool    `json:"yawn_detected"`

	Drowsiness Drowsiness `json:"-"`
	Fatigue    Fatigue    `json:"-"`
	Attention  Attention  `json:"-"`

	// String forms for serialization.
	DrowsinessLabel string `json:"drowsiness"`
	FatigueLabel    string `json:"fatigue"`
	AttentionLabel  string `json:"attention"`

	Emotion  string `json:"emotion"`
	Stressed bool   `json:"stressed"`

	Pose             facegeo.Pose `json:"-"`
	PitchDeg         float64      `json:"pitch"`
	YawDeg           float64      `json:"yaw"`
	RollDeg          float64      `json:"roll"`
	DistractionEvent bool         `json:"distraction_event,omitempty"`
}

func (s *State) fillLabels() {
	s.DrowsinessLabel = s.Drowsiness.String()
	s.FatigueLabel = s.Fatigue.String()
	s.AttentionLabel = s.Attention.String()
	s.PitchDeg = s.Pose.PitchDeg
	s.YawDeg = s.Pose.YawDeg
	s.RollDeg = s.Pose.RollDeg
}
