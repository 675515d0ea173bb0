package web

import (
	"sync"
	"time"

	"github.com/vigilanceai/go-vigilance/internal/log"
	"github.com/vigilanceai/go-vigilance/pkg/behavior"
	"github.com/vigilanceai/go-vigilance/pkg/protocol"
	"github.com/vigilanceai/go-vigilance/pkg/safety"
)

// MessageSink receives encoded protocol messages. Implementations must
// not block; slow transports queue or drop internally.
type MessageSink interface {
	Publish(msg *protocol.Message)
}

// Broadcaster throttles outgoing telemetry. A behavior update goes out
// when the safety state changed since the last send, or when the ceiling
// interval has elapsed, whichever comes first. Safety transitions always
// go out immediately.
type Broadcaster struct {
	sinks    []MessageSink
	interval time.Duration

	mu        sync.Mutex
	lastState string
	lastSent  time.Time

	now func() time.Time
}

// NewBroadcaster creates a broadcaster fanning out to the given sinks.
func NewBroadcaster(interval time.Duration, sinks ...MessageSink) *Broadcaster {
	return &Broadcaster{
		sinks:    sinks,
		interval: interval,
		now:      time.Now,
	}
}

// Offer considers one behavior/safety reading for broadcast and reports
// whether it was sent.
func (b *Broadcaster) Offer(snap behavior.Snapshot, safetySnap safety.Snapshot) bool {
	b.mu.Lock()
	stateChanged := safetySnap.StateLabel != b.lastState
	due := b.now().Sub(b.lastSent) >= b.interval
	if !stateChanged && !due {
		b.mu.Unlock()
		return false
	}
	b.lastState = safetySnap.StateLabel
	b.lastSent = b.now()
	b.mu.Unlock()

	if stateChanged {
		b.PublishSafety(safetySnap)
	}
	msg, err := protocol.NewBehaviorUpdate(snap)
	if err != nil {
		log.Error("encode behavior update", "error", err)
		return false
	}
	b.publish(msg)
	return true
}

// PublishSafety pushes a safety snapshot to every sink immediately.
// Wire it to the safety machine's transition callback.
func (b *Broadcaster) PublishSafety(snap safety.Snapshot) {
	msg, err := protocol.NewSafetyUpdate(snap)
	if err != nil {
		log.Error("encode safety update", "error", err)
		return
	}
	b.publish(msg)
}

func (b *Broadcaster) publish(msg *protocol.Message) {
	for _, sink := range b.sinks {
		sink.Publish(msg)
	}
}
