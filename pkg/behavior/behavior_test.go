package behavior

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vigilanceai/go-vigilance/pkg/telemetry"
)

func newTestAnalyzer(cfg Config) *Analyzer {
	a := NewAnalyzer(cfg)
	a.rng = rand.New(rand.NewSource(1))
	return a
}

func TestWindow_EvictsOldest(t *testing.T) {
	w := NewWindow(3)
	for _, v := range []float64{1, 2, 3, 4, 5} {
		w.Push(v)
	}
	require.Equal(t, 3, w.Len())
	assert.Equal(t, []float64{3, 4, 5}, w.Last(3))
}

func TestWindow_LastClampsToLength(t *testing.T) {
	w := NewWindow(50)
	for i := 0; i < 25; i++ {
		w.Push(float64(i))
	}
	last := w.Last(20)
	require.Len(t, last, 20)
	assert.Equal(t, 5.0, last[0])
	assert.Equal(t, 24.0, last[19])

	assert.Len(t, w.Last(100), 25)
}

func TestWindow_MeanStdDev(t *testing.T) {
	w := NewWindow(10)
	for _, v := range []float64{2, 4, 4, 4, 5, 5, 7, 9} {
		w.Push(v)
	}
	mean, stddev := w.MeanStdDev(8)
	assert.InDelta(t, 5.0, mean, 1e-9)
	assert.InDelta(t, 2.138, stddev, 0.01)

	w2 := NewWindow(10)
	w2.Push(3)
	mean, stddev = w2.MeanStdDev(5)
	assert.Equal(t, 3.0, mean)
	assert.Equal(t, 0.0, stddev)
}

func TestEyeClosureFromEAR(t *testing.T) {
	closed := EyeClosureFromEAR(0.05)
	open := EyeClosureFromEAR(0.30)

	// Closure rises as the eyes close.
	assert.Greater(t, closed, open)
	assert.InDelta(t, 83.3, closed, 0.1)
	assert.Equal(t, 0.0, open)

	// Extreme ratios clamp to the percentage range.
	assert.Equal(t, 100.0, EyeClosureFromEAR(-0.1))
	assert.Equal(t, 0.0, EyeClosureFromEAR(0.9))
}

func TestAnalyzer_WarmupScoresStayPerfect(t *testing.T) {
	a := newTestAnalyzer(DefaultConfig())

	for i := 0; i < 5; i++ {
		snap := a.Update(telemetry.VehicleState{Steer: 0.9, SpeedKmh: 120}, nil)
		assert.Equal(t, 100.0, snap.SteeringStability)
		assert.Equal(t, 100.0, snap.SpeedConsistency)
	}
}

func TestAnalyzer_SteadySteeringScoresHigh(t *testing.T) {
	a := newTestAnalyzer(DefaultConfig())

	var snap Snapshot
	for i := 0; i < 30; i++ {
		snap = a.Update(telemetry.VehicleState{Steer: 0.1, SpeedKmh: 60}, nil)
	}
	assert.Equal(t, 100.0, snap.SteeringStability)
	assert.Equal(t, 100.0, snap.SpeedConsistency)
}

func TestAnalyzer_ErraticSteeringScoresLow(t *testing.T) {
	a := newTestAnalyzer(DefaultConfig())

	var snap Snapshot
	for i := 0; i < 30; i++ {
		steer := 0.8
		if i%2 == 0 {
			steer = -0.8
		}
		snap = a.Update(telemetry.VehicleState{Steer: steer, SpeedKmh: 60}, nil)
	}
	// Alternating full-lock steering has stddev ~0.8, far past the
	// 0.5 that zeroes the score.
	assert.Equal(t, 0.0, snap.SteeringStability)
}

func TestAnalyzer_StationaryVehicleIsConsistent(t *testing.T) {
	a := newTestAnalyzer(DefaultConfig())

	var snap Snapshot
	for i := 0; i < 30; i++ {
		speed := 0.0
		if i%2 == 0 {
			speed = 2.0 // creeping in a queue
		}
		snap = a.Update(telemetry.VehicleState{SpeedKmh: speed}, nil)
	}
	assert.Equal(t, 100.0, snap.SpeedConsistency)
}

func TestAnalyzer_VisionSignalsTakePrecedence(t *testing.T) {
	a := newTestAnalyzer(DefaultConfig())

	vision := &VisionSignals{
		EyeClosure:    62.5,
		YawnDetected:  true,
		HeadPose:      "tilted",
		GazeDirection: "left",
		BlinkRate:     22,
		Emotion:       "angry",
		Stressed:      true,
	}
	snap := a.Update(telemetry.VehicleState{SpeedKmh: 40}, vision)

	assert.Equal(t, SourceVision, snap.Source)
	assert.Equal(t, 62.5, snap.EyeClosure)
	assert.True(t, snap.YawnDetected)
	assert.Equal(t, "tilted", snap.HeadPose)
	assert.Equal(t, "angry", snap.EmotionalState)
	// Stressed vision raises the resting stress contribution.
	assert.GreaterOrEqual(t, snap.StressLevel, 50.0)
}

func TestAnalyzer_SimulatedFallback(t *testing.T) {
	a := newTestAnalyzer(DefaultConfig())

	snap := a.Update(telemetry.VehicleState{SpeedKmh: 40}, nil)

	assert.Equal(t, SourceSimulated, snap.Source)
	assert.GreaterOrEqual(t, snap.EyeClosure, 0.0)
	assert.LessOrEqual(t, snap.EyeClosure, 30.0)
	assert.Equal(t, "centered", snap.HeadPose)
	assert.Equal(t, "forward", snap.GazeDirection)
	assert.Equal(t, "neutral", snap.EmotionalState)
	assert.GreaterOrEqual(t, snap.BlinkRate, 12.0)
	assert.LessOrEqual(t, snap.BlinkRate, 20.0)
	assert.False(t, snap.YawnDetected)
}

func TestAnalyzer_StressRespondsToInputs(t *testing.T) {
	a := newTestAnalyzer(DefaultConfig())

	calm := a.Update(telemetry.VehicleState{}, nil)
	tense := a.Update(telemetry.VehicleState{Throttle: 1, Brake: 1, Steer: -1}, nil)

	assert.Greater(t, tense.StressLevel, calm.StressLevel)
	assert.LessOrEqual(t, tense.StressLevel, 100.0)
	assert.GreaterOrEqual(t, tense.HeartRate, 60.0)
	assert.LessOrEqual(t, tense.HeartRate, 110.0)
}

func TestAnalyzer_FatigueBaselineRampsAndCaps(t *testing.T) {
	cfg := DefaultConfig()
	cfg.FatigueStep = 10
	cfg.FatigueCap = 35
	a := newTestAnalyzer(cfg)

	var snap Snapshot
	for i := 0; i < 10; i++ {
		snap = a.Update(telemetry.VehicleState{}, nil)
	}
	// Baseline capped at 35; only lane-deviation noise and the bounded
	// noise term sit on top for a stationary, straight-wheel vehicle.
	assert.GreaterOrEqual(t, snap.FatigueLevel, 35.0)
	assert.Less(t, snap.FatigueLevel, 40.0)

	// A fatigued driver report floors the level at 80 regardless of
	// where the baseline sits.
	snap = a.Update(telemetry.VehicleState{}, &VisionSignals{Fatigued: true, Emotion: "neutral"})
	assert.GreaterOrEqual(t, snap.FatigueLevel, 80.0)
}
