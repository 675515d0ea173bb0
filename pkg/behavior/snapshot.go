package behavior

import "time"

// Snapshot sources.
const (
	SourceVision    = "vision"
	SourceSimulated = "simulated"
)

// Snapshot is one immutable behavior evaluation. Field names follow the
// dashboard's JSON contract.
type Snapshot struct {
	EyeClosure    float64 `json:"eyeClosure"`
	YawnDetected  bool    `json:"yawnDetected"`
	HeadPose      string  `json:"headPose"`
	GazeDirection string  `json:"gazeDirection"`
	BlinkRate     float64 `json:"blinkRate"`

	EmotionalState string  `json:"emotionalState"`
	StressLevel    float64 `json:"stressLevel"`
	FatigueLevel   float64 `json:"fatigueLevel"`
	HeartRate      float64 `json:"heartRate"`

	LaneDeviation     float64 `json:"laneDeviation"`
	SteeringStability float64 `json:"steeringStability"`
	SpeedConsistency  float64 `json:"speedConsistency"`

	// Source records whether the driver-facing fields came from the
	// vision pipeline or the simulated fallback.
	Source    string    `json:"source"`
	Timestamp time.Time `json:"timestamp"`
}

// openEyeEAR is the eye aspect ratio of fully open eyes; closure
// percentages are scaled against it.
const openEyeEAR = 0.30

// EyeClosureFromEAR converts a raw eye aspect ratio into the dashboard's
// 0-100 closure percentage. Lower EAR means more closed, so the
// percentage rises as the eyes close.
func EyeClosureFromEAR(ear float64) float64 {
	return clamp((1-ear/openEyeEAR)*100, 0, 100)
}

// VisionSignals carries driver-state readings from the vision pipeline
// into the aggregator. When present they take precedence over the
// simulated fallback.
type VisionSignals struct {
	EyeClosure    float64 // closure percentage, 0-100
	YawnDetected  bool
	HeadPose      string
	GazeDirection string
	BlinkRate     float64
	Emotion       string
	Stressed      bool
	Fatigued      bool
}
