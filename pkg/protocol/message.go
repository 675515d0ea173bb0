// Package protocol defines the WebSocket message types exchanged with
// dashboards and the fleet uplink.
package protocol

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/vigilanceai/go-vigilance/pkg/behavior"
	"github.com/vigilanceai/go-vigilance/pkg/safety"
)

// MessageType identifies the type of WebSocket message
type MessageType string

const (
	// Monitor → client messages
	TypeBehaviorUpdate MessageType = "behavior_update" // Periodic behavior snapshot
	TypeSafetyUpdate   MessageType = "safety_update"   // Safety state transition

	// Bidirectional
	TypePing MessageType = "ping" // Health check
	TypePong MessageType = "pong" // Health check response
)

// Message is the base wrapper for all WebSocket messages
type Message struct {
	Type      MessageType     `json:"type"`
	Timestamp int64           `json:"ts,omitempty"` // Unix milliseconds
	Data      json.RawMessage `json:"data,omitempty"`
}

// NewMessage creates a new message with the current timestamp
func NewMessage(msgType MessageType, data interface{}) (*Message, error) {
	var rawData json.RawMessage
	if data != nil {
		var err error
		rawData, err = json.Marshal(data)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal message data: %w", err)
		}
	}

	return &Message{
		Type:      msgType,
		Timestamp: time.Now().UnixMilli(),
		Data:      rawData,
	}, nil
}

// ParseData unmarshals the message data into the provided struct
func (m *Message) ParseData(v interface{}) error {
	if m.Data == nil {
		return nil
	}
	return json.Unmarshal(m.Data, v)
}

// Bytes returns the JSON-encoded message
func (m *Message) Bytes() ([]byte, error) {
	return json.Marshal(m)
}

// ParseMessage parses a JSON message from bytes
func ParseMessage(data []byte) (*Message, error) {
	var msg Message
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, fmt.Errorf("failed to parse message: %w", err)
	}
	return &msg, nil
}

// NewBehaviorUpdate wraps a behavior snapshot.
func NewBehaviorUpdate(snap behavior.Snapshot) (*Message, error) {
	return NewMessage(TypeBehaviorUpdate, snap)
}

// NewSafetyUpdate wraps a safety state snapshot.
func NewSafetyUpdate(snap safety.Snapshot) (*Message, error) {
	return NewMessage(TypeSafetyUpdate, snap)
}

// NewPong creates a pong response echoing the ping timestamp.
func NewPong(pingTS int64) (*Message, error) {
	return NewMessage(TypePong, PongData{PingTS: pingTS})
}

// PongData echoes a ping timestamp for round-trip measurement.
type PongData struct {
	PingTS int64 `json:"ping_ts"`
}

// GetBehaviorUpdate extracts a behavior snapshot from the message.
func (m *Message) GetBehaviorUpdate() (*behavior.Snapshot, error) {
	if m.Type != TypeBehaviorUpdate {
		return nil, fmt.Errorf("message type is %s, not %s", m.Type, TypeBehaviorUpdate)
	}
	var snap behavior.Snapshot
	if err := m.ParseData(&snap); err != nil {
		return nil, err
	}
	return &snap, nil
}

// GetSafetyUpdate extracts a safety snapshot from the message.
func (m *Message) GetSafetyUpdate() (*safety.Snapshot, error) {
	if m.Type != TypeSafetyUpdate {
		return nil, fmt.Errorf("message type is %s, not %s", m.Type, TypeSafetyUpdate)
	}
	var snap safety.Snapshot
	if err := m.ParseData(&snap); err != nil {
		return nil, err
	}
	return &snap, nil
}
