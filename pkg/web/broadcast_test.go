package web

import (
	"testing"
	"time"

	"github.com/vigilanceai/go-vigilance/pkg/behavior"
	"github.com/vigilanceai/go-vigilance/pkg/protocol"
	"github.com/vigilanceai/go-vigilance/pkg/safety"
)

type captureSink struct {
	msgs []*protocol.Message
}

func (c *captureSink) Publish(msg *protocol.Message) {
	c.msgs = append(c.msgs, msg)
}

func (c *captureSink) types() []protocol.MessageType {
	out := make([]protocol.MessageType, len(c.msgs))
	for i, m := range c.msgs {
		out[i] = m.Type
	}
	return out
}

func TestBroadcaster_CeilingInterval(t *testing.T) {
	sink := &captureSink{}
	b := NewBroadcaster(5*time.Second, sink)
	clock := time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC)
	b.now = func() time.Time { return clock }

	normal := safety.Snapshot{StateLabel: "Normal"}

	// First offer carries a state "change" from the empty initial label.
	if !b.Offer(behavior.Snapshot{}, normal) {
		t.Fatal("first offer should send")
	}

	clock = clock.Add(time.Second)
	if b.Offer(behavior.Snapshot{}, normal) {
		t.Error("offer within ceiling with unchanged state should be suppressed")
	}

	clock = clock.Add(5 * time.Second)
	if !b.Offer(behavior.Snapshot{}, normal) {
		t.Error("offer past the ceiling should send")
	}
}

func TestBroadcaster_StateChangeBypassesThrottle(t *testing.T) {
	sink := &captureSink{}
	b := NewBroadcaster(5*time.Second, sink)
	clock := time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC)
	b.now = func() time.Time { return clock }

	b.Offer(behavior.Snapshot{}, safety.Snapshot{StateLabel: "Normal"})
	sink.msgs = nil

	clock = clock.Add(time.Second)
	if !b.Offer(behavior.Snapshot{}, safety.Snapshot{StateLabel: "EmergencyStop"}) {
		t.Fatal("state change must bypass the throttle")
	}

	types := sink.types()
	if len(types) != 2 ||
		types[0] != protocol.TypeSafetyUpdate ||
		types[1] != protocol.TypeBehaviorUpdate {
		t.Errorf("got message types %v, want safety then behavior", types)
	}
}

func TestBroadcaster_PublishSafetyFansOutToAllSinks(t *testing.T) {
	a, b2 := &captureSink{}, &captureSink{}
	b := NewBroadcaster(5*time.Second, a, b2)

	b.PublishSafety(safety.Snapshot{StateLabel: "Secured"})

	for i, sink := range []*captureSink{a, b2} {
		if len(sink.msgs) != 1 || sink.msgs[0].Type != protocol.TypeSafetyUpdate {
			t.Errorf("sink %d: %v", i, sink.types())
		}
	}
}
