package driver

// Drowsiness is the per-frame drowsiness classification. It is derived
// fresh every frame from the current eye and mouth state; it carries no
// memory of its own.
type Drowsiness int

const (
	DrowsinessUncertain Drowsiness = iota
	DrowsinessAlert
	DrowsinessDrowsy
	DrowsinessNoFace
)

func (d Drowsiness) String() string {
	switch d {
	case DrowsinessAlert:
		return "Alert"
	case DrowsinessDrowsy:
		return "Drowsy"
	case DrowsinessNoFace:
		return "NoFace"
	default:
		return "Uncertain"
	}
}

// ClassifyDrowsiness derives the drowsiness state from the current eye
// and mouth observations. Closed eyes, an active yawn or a high session
// blink count all read as drowsy; clearly open eyes with few blinks read
// as alert; everything in between is uncertain.
func ClassifyDrowsiness(eye EyeState, mouth MouthState, cfg Config) Drowsiness {
	switch {
	case eye.EAR < cfg.EARThreshold || mouth.YawnDetected || eye.BlinkCount > cfg.HighBlinkCount:
		return DrowsinessDrowsy
	case eye.EAR > cfg.AlertEARThreshold && eye.BlinkCount < cfg.LowBlinkCount:
		return DrowsinessAlert
	default:
		return DrowsinessUncertain
	}
}

// Fatigue is the long-horizon fatigue state.
type Fatigue int

const (
	FatigueNormal Fatigue = iota
	FatigueFatigued
)

func (f Fatigue) String() string {
	if f == FatigueFatigued {
		return "Fatigued"
	}
	return "Normal"
}

// ClassifyFatigue derives the fatigue state from the frame index and the
// accumulated blink count. Because both counters are session-scoped and
// never decrease, fatigue is a one-way ratchet within a session unless
// Config.FatigueReset re-bases the counters.
func ClassifyFatigue(frameIndex, blinkCount int, cfg Config) Fatigue {
	if frameIndex > cfg.FatigueFrameLimit && blinkCount > cfg.FatigueBlinkLimit {
		return FatigueFatigued
	}
	return FatigueNormal
}
