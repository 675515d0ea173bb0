package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeVisionFile(t *testing.T, vf visionFile) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "driver_state.json")
	data, err := json.Marshal(vf)
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadVision_ClosureRisesAsEyesClose(t *testing.T) {
	drowsy := loadVision(writeVisionFile(t, visionFile{EAR: 0.05, Timestamp: time.Now()}))
	alert := loadVision(writeVisionFile(t, visionFile{EAR: 0.30, Timestamp: time.Now()}))
	if drowsy == nil || alert == nil {
		t.Fatal("fresh state files must produce vision signals")
	}

	// Nearly-closed eyes report more closure than open eyes.
	if drowsy.EyeClosure <= alert.EyeClosure {
		t.Errorf("closure at EAR 0.05 = %.1f, at EAR 0.30 = %.1f; drowsier driver must score higher",
			drowsy.EyeClosure, alert.EyeClosure)
	}
	for _, v := range []*float64{&drowsy.EyeClosure, &alert.EyeClosure} {
		if *v < 0 || *v > 100 {
			t.Errorf("closure %.1f outside the percentage range", *v)
		}
	}
}

func TestLoadVision_CarriesSignals(t *testing.T) {
	vision := loadVision(writeVisionFile(t, visionFile{
		Attention: "Distracted",
		Fatigue:   "Fatigued",
		Emotion:   "angry",
		Stressed:  true,
		MAR:       0.8,
		BlinkRate: 22,
		Timestamp: time.Now(),
	}))
	if vision == nil {
		t.Fatal("fresh state file must produce vision signals")
	}
	if vision.GazeDirection != "away" || vision.HeadPose != "off-axis" {
		t.Errorf("distracted mapping: gaze=%q pose=%q", vision.GazeDirection, vision.HeadPose)
	}
	if !vision.Fatigued || !vision.Stressed || !vision.YawnDetected {
		t.Errorf("flags not carried: %+v", vision)
	}
	if vision.BlinkRate != 22 {
		t.Errorf("blink rate = %v, want 22", vision.BlinkRate)
	}
}

func TestLoadVision_StaleFileIsIgnored(t *testing.T) {
	path := writeVisionFile(t, visionFile{
		EAR:       0.05,
		Timestamp: time.Now().Add(-10 * time.Second),
	})
	if vision := loadVision(path); vision != nil {
		t.Errorf("stale state file produced signals: %+v", vision)
	}
	if vision := loadVision(filepath.Join(t.TempDir(), "missing.json")); vision != nil {
		t.Error("missing state file produced signals")
	}
}
