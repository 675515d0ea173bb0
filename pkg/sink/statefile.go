// Package sink writes driver state to local files for external
// consumers: a JSON state file overwritten per cycle and an append-only
// CSV session log. Both are best-effort; a failed write never stops the
// frame loop.
package sink

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/vigilanceai/go-vigilance/pkg/driver"
)

// stateFileRecord is the on-disk contract consumed by the voice
// assistant.
type stateFileRecord struct {
	Drowsiness string    `json:"drowsiness"`
	Fatigue    string    `json:"fatigue"`
	Attention  string    `json:"attention"`
	Emotion    string    `json:"emotion"`
	Stressed   bool      `json:"stressed"`
	EAR        float64   `json:"ear"`
	MAR        float64   `json:"mar"`
	BlinkRate  float64   `json:"blink_rate"`
	Timestamp  time.Time `json:"timestamp"`
}

// StateFile overwrites a single JSON file with the latest driver state.
type StateFile struct {
	path string
}

// NewStateFile creates a state file sink at path.
func NewStateFile(path string) *StateFile {
	return &StateFile{path: path}
}

// Write replaces the file contents with the given state. The write goes
// through a temp file and rename so readers never see a torn file.
func (s *StateFile) Write(state driver.State) error {
	record := stateFileRecord{
		Drowsiness: state.DrowsinessLabel,
		Fatigue:    state.FatigueLabel,
		Attention:  state.AttentionLabel,
		Emotion:    state.Emotion,
		Stressed:   state.Stressed,
		EAR:        state.EAR,
		MAR:        state.MAR,
		BlinkRate:  state.BlinkRate,
		Timestamp:  state.Timestamp,
	}

	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("encode state file: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write state file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace state file: %w", err)
	}
	return nil
}
