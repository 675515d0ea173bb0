package behavior

import (
	"math"
	"math/rand"
	"time"

	"github.com/vigilanceai/go-vigilance/pkg/telemetry"
)

// Config holds the aggregation tunables.
type Config struct {
	WindowCap  int // Samples retained per signal
	EvalLen    int // Most recent samples evaluated per update
	MinSamples int // Below this the stability scores stay at 100

	StationaryKmh float64 // Mean speed below this reads as stationary

	FatigueStep float64 // Baseline fatigue drift per update
	FatigueCap  float64 // Baseline never exceeds this

	StressBase         float64 // Resting stress contribution
	StressBaseStressed float64 // Resting contribution when vision reports stress
}

// DefaultConfig returns the recommended aggregation parameters.
func DefaultConfig() Config {
	return Config{
		WindowCap:  50,
		EvalLen:    20,
		MinSamples: 10,

		StationaryKmh: 5,

		FatigueStep: 0.05,
		FatigueCap:  95,

		StressBase:         20,
		StressBaseStressed: 50,
	}
}

// Analyzer folds vehicle telemetry and optional vision signals into
// behavior snapshots. It is not safe for concurrent use; the telemetry
// loop is its single caller.
type Analyzer struct {
	cfg Config

	steer *Window
	speed *Window

	fatigueBase float64

	rng *rand.Rand
	now func() time.Time
}

// NewAnalyzer creates an analyzer with empty windows.
func NewAnalyzer(cfg Config) *Analyzer {
	return &Analyzer{
		cfg:   cfg,
		steer: NewWindow(cfg.WindowCap),
		speed: NewWindow(cfg.WindowCap),
		rng:   rand.New(rand.NewSource(time.Now().UnixNano())),
		now:   time.Now,
	}
}

// Update folds one vehicle reading into the windows and produces a
// snapshot. vision may be nil; the driver-facing fields then fall back
// to plausible simulated values so the dashboard contract stays intact
// without a camera.
func (a *Analyzer) Update(vs telemetry.VehicleState, vision *VisionSignals) Snapshot {
	a.steer.Push(vs.Steer)
	a.speed.Push(vs.SpeedKmh)

	snap := Snapshot{
		SteeringStability: a.steeringStability(),
		SpeedConsistency:  a.speedConsistency(),
		LaneDeviation:     clamp(math.Abs(vs.Steer)*50+a.rng.Float64()*5, 0, 100),
		Timestamp:         a.now(),
	}

	// Baseline fatigue drifts upward over the session regardless of
	// input source; poor driving scores and lane wander add on top, and
	// vision can only raise the result further.
	a.fatigueBase = math.Min(a.fatigueBase+a.cfg.FatigueStep, a.cfg.FatigueCap)
	fatigue := a.fatigueBase +
		(100-snap.SteeringStability)*0.2 +
		(100-snap.SpeedConsistency)*0.1 +
		snap.LaneDeviation*0.05 +
		a.rng.Float64()*2
	snap.FatigueLevel = clamp(fatigue, 0, 100)

	stressBase := a.cfg.StressBase
	if vision != nil {
		snap.Source = SourceVision
		snap.EyeClosure = vision.EyeClosure
		snap.YawnDetected = vision.YawnDetected
		snap.HeadPose = vision.HeadPose
		snap.GazeDirection = vision.GazeDirection
		snap.BlinkRate = vision.BlinkRate
		snap.EmotionalState = vision.Emotion
		if vision.Stressed {
			stressBase = a.cfg.StressBaseStressed
		}
		if vision.Fatigued {
			snap.FatigueLevel = math.Max(snap.FatigueLevel, 80)
		}
	} else {
		snap.Source = SourceSimulated
		snap.EyeClosure = a.rng.Float64() * 30
		snap.HeadPose = "centered"
		snap.GazeDirection = "forward"
		snap.BlinkRate = 12 + a.rng.Float64()*8
		snap.EmotionalState = "neutral"
	}

	snap.StressLevel = clamp(
		stressBase+vs.Throttle*20+vs.Brake*30+math.Abs(vs.Steer)*25+a.rng.Float64()*2,
		0, 100)
	snap.HeartRate = clamp(60+snap.StressLevel*0.5, 60, 110)

	return snap
}

// steeringStability scores recent steering smoothness. A perfectly
// steady wheel scores 100; each unit of standard deviation costs 200
// points.
func (a *Analyzer) steeringStability() float64 {
	if a.steer.Len() < a.cfg.MinSamples {
		return 100
	}
	_, stddev := a.steer.MeanStdDev(a.cfg.EvalLen)
	return clamp(100-200*stddev, 0, 100)
}

// speedConsistency scores recent speed steadiness by coefficient of
// variation. A stationary vehicle is trivially consistent.
func (a *Analyzer) speedConsistency() float64 {
	if a.speed.Len() < a.cfg.MinSamples {
		return 100
	}
	mean, stddev := a.speed.MeanStdDev(a.cfg.EvalLen)
	if mean < a.cfg.StationaryKmh {
		return 100
	}
	cv := stddev / mean
	return clamp(100-10*cv*100, 0, 100)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
