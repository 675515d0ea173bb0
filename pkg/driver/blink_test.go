package driver

import "testing"

func feedEAR(e *EyeState, cfg Config, samples []float64) {
	for _, ear := range samples {
		e.Observe(ear, cfg)
	}
}

func TestBlink_SustainedClosureCountsOnce(t *testing.T) {
	cfg := DefaultConfig()
	cfg.BlinkDebounceFrames = 3

	var eye EyeState
	// Open, then a qualifying run of 5 closed frames, then open again.
	feedEAR(&eye, cfg, []float64{0.30, 0.10, 0.10, 0.10, 0.10, 0.10, 0.30})

	if eye.BlinkCount != 1 {
		t.Errorf("expected exactly 1 blink for one sustained closure, got %d", eye.BlinkCount)
	}
}

func TestBlink_SingleFrameSpikeIgnored(t *testing.T) {
	cfg := DefaultConfig()
	cfg.BlinkDebounceFrames = 3

	var eye EyeState
	feedEAR(&eye, cfg, []float64{0.30, 0.10, 0.30, 0.10, 0.30, 0.10, 0.30})

	if eye.BlinkCount != 0 {
		t.Errorf("expected no blinks for isolated below-threshold spikes, got %d", eye.BlinkCount)
	}
}

func TestBlink_TwoSeparateRunsCountTwice(t *testing.T) {
	cfg := DefaultConfig()
	cfg.BlinkDebounceFrames = 2

	var eye EyeState
	feedEAR(&eye, cfg, []float64{
		0.30, 0.10, 0.10, // run 1
		0.30, 0.30,
		0.10, 0.10, // run 2
		0.30,
	})

	if eye.BlinkCount != 2 {
		t.Errorf("expected 2 blinks for two separate closures, got %d", eye.BlinkCount)
	}
}

func TestBlink_InitialClosedFrameStartsRun(t *testing.T) {
	cfg := DefaultConfig()
	cfg.BlinkDebounceFrames = 2

	var eye EyeState
	// First ever samples are already closed; the implicit open prior
	// makes this a valid crossing.
	feedEAR(&eye, cfg, []float64{0.10, 0.10})

	if eye.BlinkCount != 1 {
		t.Errorf("expected 1 blink when session starts mid-closure, got %d", eye.BlinkCount)
	}
}

func TestBlink_CountIsMonotonic(t *testing.T) {
	cfg := DefaultConfig()
	cfg.BlinkDebounceFrames = 2

	var eye EyeState
	prev := 0
	pattern := []float64{0.30, 0.10, 0.10, 0.30, 0.10, 0.10, 0.30, 0.10, 0.30}
	for _, ear := range pattern {
		eye.Observe(ear, cfg)
		if eye.BlinkCount < prev {
			t.Fatalf("blink count decreased from %d to %d", prev, eye.BlinkCount)
		}
		prev = eye.BlinkCount
	}
}

func TestYawn_RequiresSustainedRun(t *testing.T) {
	cfg := DefaultConfig()
	cfg.YawnRunFrames = 3

	var mouth MouthState
	for i := 0; i < 3; i++ {
		mouth.Observe(0.80, cfg)
	}
	if mouth.YawnDetected {
		t.Error("yawn fired before run threshold exceeded")
	}

	mouth.Observe(0.80, cfg)
	if !mouth.YawnDetected {
		t.Error("expected yawn after sustained over-threshold run")
	}

	mouth.Observe(0.10, cfg)
	if mouth.YawnDetected || mouth.YawnRun != 0 {
		t.Errorf("expected yawn run to reset on closed mouth, got run=%d detected=%v",
			mouth.YawnRun, mouth.YawnDetected)
	}
}
