package telemetry

// Anomaly is a flagged driving pattern.
type Anomaly int

const (
	AnomalyNone Anomaly = iota
	AnomalyHardBrake
	AnomalyStuck
	AnomalySpeeding
)

func (a Anomaly) String() string {
	switch a {
	case AnomalyHardBrake:
		return "hard_brake"
	case AnomalyStuck:
		return "stuck"
	case AnomalySpeeding:
		return "speeding"
	default:
		return "none"
	}
}

// AnomalyConfig holds the detection thresholds.
type AnomalyConfig struct {
	HardBrakeSpeedKmh float64 // Full brake above this speed is a hard brake
	StuckThrottle     float64 // Throttle above this with no motion means stuck
	StuckSpeedKmh     float64
	SpeedingKmh       float64
}

// DefaultAnomalyConfig returns the recommended thresholds.
func DefaultAnomalyConfig() AnomalyConfig {
	return AnomalyConfig{
		HardBrakeSpeedKmh: 30,
		StuckThrottle:     0.5,
		StuckSpeedKmh:     1,
		SpeedingKmh:       80,
	}
}

// DetectAnomaly flags one driving anomaly for the current control and
// speed reading. Checks run in severity order; the first match wins.
func DetectAnomaly(control Control, speedKmh float64, cfg AnomalyConfig) Anomaly {
	switch {
	case control.Brake >= 1.0 && speedKmh > cfg.HardBrakeSpeedKmh:
		return AnomalyHardBrake
	case control.Throttle > cfg.StuckThrottle && speedKmh < cfg.StuckSpeedKmh:
		return AnomalyStuck
	case speedKmh > cfg.SpeedingKmh:
		return AnomalySpeeding
	default:
		return AnomalyNone
	}
}
