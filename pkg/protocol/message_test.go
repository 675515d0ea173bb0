package protocol

import (
	"testing"
	"time"

	"github.com/vigilanceai/go-vigilance/pkg/behavior"
	"github.com/vigilanceai/go-vigilance/pkg/safety"
)

func TestBehaviorUpdateRoundTrip(t *testing.T) {
	snap := behavior.Snapshot{
		EyeClosure:        0.21,
		SteeringStability: 88,
		EmotionalState:    "neutral",
		Source:            behavior.SourceVision,
		Timestamp:         time.Now().UTC(),
	}

	msg, err := NewBehaviorUpdate(snap)
	if err != nil {
		t.Fatalf("NewBehaviorUpdate: %v", err)
	}
	data, err := msg.Bytes()
	if err != nil {
		t.Fatalf("Bytes: %v", err)
	}

	parsed, err := ParseMessage(data)
	if err != nil {
		t.Fatalf("ParseMessage: %v", err)
	}
	if parsed.Type != TypeBehaviorUpdate {
		t.Fatalf("type = %s", parsed.Type)
	}
	got, err := parsed.GetBehaviorUpdate()
	if err != nil {
		t.Fatalf("GetBehaviorUpdate: %v", err)
	}
	if got.SteeringStability != 88 || got.Source != behavior.SourceVision {
		t.Errorf("payload lost fields: %+v", got)
	}
}

func TestGetBehaviorUpdateRejectsWrongType(t *testing.T) {
	msg, err := NewSafetyUpdate(safety.Snapshot{StateLabel: "Normal"})
	if err != nil {
		t.Fatalf("NewSafetyUpdate: %v", err)
	}
	if _, err := msg.GetBehaviorUpdate(); err == nil {
		t.Error("expected type mismatch error")
	}
}

func TestPongEchoesPingTimestamp(t *testing.T) {
	msg, err := NewPong(12345)
	if err != nil {
		t.Fatalf("NewPong: %v", err)
	}
	var pong PongData
	if err := msg.ParseData(&pong); err != nil {
		t.Fatalf("ParseData: %v", err)
	}
	if pong.PingTS != 12345 {
		t.Errorf("ping ts = %d", pong.PingTS)
	}
}

func TestParseMessageRejectsGarbage(t *testing.T) {
	if _, err := ParseMessage([]byte("{not json")); err == nil {
		t.Error("expected parse error")
	}
}
