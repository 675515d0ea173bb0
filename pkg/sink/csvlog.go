package sink

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/vigilanceai/go-vigilance/pkg/driver"
)

var csvHeader = []string{
	"timestamp", "frame", "ear", "mar", "blinks",
	"drowsiness", "fatigue", "emotion", "stressed",
	"pitch", "yaw", "roll", "attention",
}

// CSVLog appends one row per processed frame to a session log. The
// header is written once, when the file is created or empty.
type CSVLog struct {
	file   *os.File
	writer *csv.Writer
}

// NewCSVLog opens (or creates) the log at path in append mode.
func NewCSVLog(path string) (*CSVLog, error) {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open csv log: %w", err)
	}

	l := &CSVLog{
		file:   file,
		writer: csv.NewWriter(file),
	}

	info, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("stat csv log: %w", err)
	}
	if info.Size() == 0 {
		if err := l.writer.Write(csvHeader); err != nil {
			file.Close()
			return nil, fmt.Errorf("write csv header: %w", err)
		}
		l.writer.Flush()
	}
	return l, nil
}

// Append writes one state row and flushes it.
func (l *CSVLog) Append(state driver.State) error {
	row := []string{
		state.Timestamp.Format(time.RFC3339),
		strconv.Itoa(state.FrameIndex),
		formatFloat(state.EAR),
		formatFloat(state.MAR),
		strconv.Itoa(state.BlinkCount),
		state.DrowsinessLabel,
		state.FatigueLabel,
		state.Emotion,
		strconv.FormatBool(state.Stressed),
		formatFloat(state.PitchDeg),
		formatFloat(state.YawDeg),
		formatFloat(state.RollDeg),
		state.AttentionLabel,
	}
	if err := l.writer.Write(row); err != nil {
		return fmt.Errorf("append csv row: %w", err)
	}
	l.writer.Flush()
	return l.writer.Error()
}

// Close flushes and closes the log file.
func (l *CSVLog) Close() error {
	l.writer.Flush()
	return l.file.Close()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 4, 64)
}
