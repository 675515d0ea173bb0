// Package recorder persists driver snapshots and safety transitions to
// a local sqlite database for post-session analysis.
package recorder

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/vigilanceai/go-vigilance/pkg/behavior"
	"github.com/vigilanceai/go-vigilance/pkg/safety"
)

// DB wraps the session database.
type DB struct {
	*sql.DB
}

// NewDB opens (or creates) the database at path and ensures the schema.
// Use ":memory:" for an ephemeral store.
func NewDB(path string) (*DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open session db: %w", err)
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS snapshots (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			eye_closure DOUBLE,
			yawn_detected BOOLEAN,
			blink_rate DOUBLE,
			emotional_state TEXT,
			stress_level DOUBLE,
			fatigue_level DOUBLE,
			heart_rate DOUBLE,
			lane_deviation DOUBLE,
			steering_stability DOUBLE,
			speed_consistency DOUBLE,
			source TEXT,
			timestamp TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		);
		CREATE TABLE IF NOT EXISTS safety_events (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			episode_id TEXT,
			state TEXT,
			cause TEXT,
			ecall_sent BOOLEAN,
			doors_opened BOOLEAN,
			timestamp TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		);
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return &DB{db}, nil
}

// RecordSnapshot stores one behavior snapshot.
func (db *DB) RecordSnapshot(snap behavior.Snapshot) error {
	_, err := db.Exec(`
		INSERT INTO snapshots (
			eye_closure, yawn_detected, blink_rate, emotional_state,
			stress_level, fatigue_level, heart_rate,
			lane_deviation, steering_stability, speed_consistency,
			source, timestamp
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		snap.EyeClosure, snap.YawnDetected, snap.BlinkRate, snap.EmotionalState,
		snap.StressLevel, snap.FatigueLevel, snap.HeartRate,
		snap.LaneDeviation, snap.SteeringStability, snap.SpeedConsistency,
		snap.Source, snap.Timestamp)
	if err != nil {
		return fmt.Errorf("record snapshot: %w", err)
	}
	return nil
}

// RecordSafetyEvent stores one safety state transition.
func (db *DB) RecordSafetyEvent(snap safety.Snapshot) error {
	_, err := db.Exec(`
		INSERT INTO safety_events (
			episode_id, state, cause, ecall_sent, doors_opened, timestamp
		) VALUES (?, ?, ?, ?, ?, ?)`,
		snap.EpisodeID, snap.StateLabel, snap.Cause,
		snap.ECallSent, snap.DoorsOpened, snap.EnteredAt)
	if err != nil {
		return fmt.Errorf("record safety event: %w", err)
	}
	return nil
}

// SnapshotCount returns the number of stored snapshots.
func (db *DB) SnapshotCount() (int, error) {
	var n int
	err := db.QueryRow("SELECT COUNT(*) FROM snapshots").Scan(&n)
	return n, err
}

// EpisodeEvents returns the stored transitions for one emergency
// episode, oldest first.
func (db *DB) EpisodeEvents(episodeID string) ([]safety.Snapshot, error) {
	rows, err := db.Query(`
		SELECT episode_id, state, cause, ecall_sent, doors_opened, timestamp
		FROM safety_events WHERE episode_id = ? ORDER BY id`, episodeID)
	if err != nil {
		return nil, fmt.Errorf("query episode: %w", err)
	}
	defer rows.Close()

	var out []safety.Snapshot
	for rows.Next() {
		var s safety.Snapshot
		if err := rows.Scan(&s.EpisodeID, &s.StateLabel, &s.Cause,
			&s.ECallSent, &s.DoorsOpened, &s.EnteredAt); err != nil {
			return nil, fmt.Errorf("scan episode row: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
