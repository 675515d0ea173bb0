// Package driver turns per-frame face geometry into discrete driver
// behavioral states: blink and yawn events, drowsiness, fatigue,
// attention and stress.
package driver

import "time"

// Config holds all tunable parameters for driver-state estimation.
type Config struct {
	// Blink detection
	EARThreshold        float64 // Eye closes below this aspect ratio
	AlertEARThreshold   float64 // Eyes clearly open above this
	BlinkDebounceFrames int     // Closure must persist this many frames to count

	// Blink-rate classification
	LowBlinkCount  int // Below this, blinking is unremarkable
	HighBlinkCount int // Above this, blinking alone signals drowsiness

	// Yawn detection
	MARThreshold  float64 // Mouth open wider than this counts toward a yawn
	YawnRunFrames int     // Consecutive over-threshold frames for a yawn

	// Fatigue (long horizon)
	FatigueFrameLimit int  // Only consider fatigue after this many frames
	FatigueBlinkLimit int  // Accumulated blinks that signal fatigue
	FatigueReset      bool // Reset fatigue counters per session segment

	// Head pose / attention
	PoseSmoothingAlpha  float64       // EMA alpha (0-1, higher = more new data)
	YawThresholdDeg     float64       // Off-axis yaw beyond this is distracted
	PitchThresholdDeg   float64       // Off-axis pitch beyond this is distracted
	DistractionHits     int           // Hysteresis counter threshold
	DistractionCooldown time.Duration // Minimum gap between distraction events

	// Emotion sampling
	EmotionIntervalFrames int // Classify emotion every N frames
}

// DefaultConfig returns the recommended configuration. The EAR constants
// are tuned for the 6-point symmetric aspect-ratio formula.
func DefaultConfig() Config {
	return Config{
		EARThreshold:        0.22,
		AlertEARThreshold:   0.26,
		BlinkDebounceFrames: 3,

		LowBlinkCount:  10,
		HighBlinkCount: 20,

		MARThreshold:  0.65,
		YawnRunFrames: 12,

		FatigueFrameLimit: 600,
		FatigueBlinkLimit: 40,
		FatigueReset:      false,

		PoseSmoothingAlpha:  0.4,
		YawThresholdDeg:     20.0,
		PitchThresholdDeg:   18.0,
		DistractionHits:     8,
		DistractionCooldown: 3 * time.Second,

		EmotionIntervalFrames: 30,
	}
}
