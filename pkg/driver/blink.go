package driver

// EyeState tracks blink activity across a session. BlinkCount is
// monotonic; it resets only at process start.
type EyeState struct {
	EAR               float64
	BlinkCount        int
	ConsecutiveClosed int

	prevEAR float64
	primed  bool
}

// Observe feeds one frame's eye aspect ratio into the blink debouncer.
// A blink is counted only after the eye crosses the threshold from above
// and stays at or below it for BlinkDebounceFrames consecutive frames, so
// a single noise spike cannot register as a blink.
func (e *EyeState) Observe(ear float64, cfg Config) {
	if !e.primed {
		// Treat the eye as open before the first sample, so an initial
		// closed frame still registers as a crossing.
		e.prevEAR = 1.0
		e.primed = true
	}

	if e.prevEAR > cfg.EARThreshold && ear <= cfg.EARThreshold {
		e.ConsecutiveClosed++
	} else if ear > cfg.EARThreshold {
		e.ConsecutiveClosed = 0
	} else if e.ConsecutiveClosed > 0 {
		// Still below threshold within an ongoing run.
		e.ConsecutiveClosed++
	}

	if e.ConsecutiveClosed >= cfg.BlinkDebounceFrames {
		e.BlinkCount++
		e.ConsecutiveClosed = 0
	}

	e.prevEAR = ear
	e.EAR = ear
}

// MouthState tracks yawn activity. A yawn requires the mouth aspect ratio
// to stay over threshold for YawnRunFrames consecutive frames.
type MouthState struct {
	MAR          float64
	YawnRun      int
	YawnDetected bool
}

// Observe feeds one frame's mouth aspect ratio into the yawn debouncer.
func (m *MouthState) Observe(mar float64, cfg Config) {
	if mar > cfg.MARThreshold {
		m.YawnRun++
	} else {
		m.YawnRun = 0
	}
	m.YawnDetected = m.YawnRun > cfg.YawnRunFrames
	m.MAR = mar
}
