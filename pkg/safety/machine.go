// Package safety implements the vehicle emergency state machine. A
// hazard (hard impact, rollover, unresponsive driver) moves the vehicle
// from Normal to EmergencyStop; once stopped it is Secured until a
// manual override returns it to Normal.
package safety

import (
	"math"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/vigilanceai/go-vigilance/internal/log"
	"github.com/vigilanceai/go-vigilance/pkg/telemetry"
)

// State is the machine's current phase.
type State int

const (
	StateNormal State = iota
	StateEmergencyStop
	StateSecured
)

func (s State) String() string {
	switch s {
	case StateEmergencyStop:
		return "EmergencyStop"
	case StateSecured:
		return "Secured"
	default:
		return "Normal"
	}
}

// Event is a condition the machine reacts to.
type Event int

const (
	EventHighGImpact Event = iota
	EventRollover
	EventMedicalEmergency
	EventManualOverride
)

func (e Event) String() string {
	switch e {
	case EventHighGImpact:
		return "high_g_impact"
	case EventRollover:
		return "rollover"
	case EventMedicalEmergency:
		return "medical_emergency"
	case EventManualOverride:
		return "manual_override"
	default:
		return "unknown"
	}
}

// Config holds the hazard thresholds and actuation levels.
type Config struct {
	ImpulseThreshold  float64       // Collision impulse that triggers a stop
	RolloverRollDeg   float64       // Absolute roll beyond this is a rollover
	InactivityTimeout time.Duration // No driver input for this long while moving
	MinMovingSpeedKmh float64       // Below this the vehicle counts as stopped

	StopBrake   float64 // Brake level while bringing the vehicle down
	SecureBrake float64 // Brake level once stopped
}

// DefaultConfig returns the recommended safety thresholds.
func DefaultConfig() Config {
	return Config{
		ImpulseThreshold:  6000,
		RolloverRollDeg:   90,
		InactivityTimeout: 7 * time.Second,
		MinMovingSpeedKmh: 1,

		StopBrake:   0.7,
		SecureBrake: 1.0,
	}
}

// Snapshot is an immutable view of the machine for readers.
type Snapshot struct {
	State       State     `json:"-"`
	StateLabel  string    `json:"state"`
	EpisodeID   string    `json:"episode_id,omitempty"`
	Cause       string    `json:"cause,omitempty"`
	ECallSent   bool      `json:"ecall_sent"`
	DoorsOpened bool      `json:"doors_opened"`
	LightsOn    bool      `json:"lights_on"`
	EnteredAt   time.Time `json:"entered_at"`
}

// Machine is the safety state machine. All mutation happens under its
// mutex; readers get value snapshots. OnTransition, when set, receives a
// snapshot after every state change. It runs outside the machine's lock,
// so callbacks may call back into the machine.
type Machine struct {
	cfg Config

	mu          sync.Mutex
	state       State
	episodeID   string
	cause       string
	eCallSent   bool
	doorsOpened bool
	lightsOn    bool
	enteredAt   time.Time
	lastInputAt time.Time

	OnTransition func(Snapshot)

	now func() time.Time
}

// NewMachine creates a machine in the Normal state.
func NewMachine(cfg Config) *Machine {
	now := time.Now()
	return &Machine{
		cfg:         cfg,
		enteredAt:   now,
		lastInputAt: now,
		now:         time.Now,
	}
}

// ReportCollision feeds a collision report into the machine. Impacts at
// or below the impulse threshold are logged as minor and cause no
// transition.
func (m *Machine) ReportCollision(c telemetry.Collision) {
	category := telemetry.CategorizeCollision(c.ActorTypeID)
	if c.Impulse <= m.cfg.ImpulseThreshold {
		log.Info("minor collision",
			"category", category,
			"actor", c.ActorTypeID,
			"impulse", c.Impulse)
		return
	}
	log.Warn("high-g collision",
		"category", category,
		"actor", c.ActorTypeID,
		"impulse", c.Impulse)
	m.Apply(EventHighGImpact)
}

// ReportRoll feeds the vehicle's current roll angle into the machine.
func (m *Machine) ReportRoll(rollDeg float64) {
	if math.Abs(rollDeg) > m.cfg.RolloverRollDeg {
		m.Apply(EventRollover)
	}
}

// NoteDriverInput records that the driver touched the controls, resetting
// the inactivity timer.
func (m *Machine) NoteDriverInput() {
	m.mu.Lock()
	m.lastInputAt = m.now()
	m.mu.Unlock()
}

// Apply feeds an event into the machine. Hazard events are ignored
// unless the machine is in Normal; a running emergency is never
// re-triggered. ManualOverride returns to Normal from any state and
// clears every latch.
func (m *Machine) Apply(ev Event) {
	m.mu.Lock()
	snap, changed := m.applyLocked(ev)
	m.mu.Unlock()
	if changed {
		m.notify(snap)
	}
}

// applyLocked performs the transition and reports whether one happened.
// The caller delivers the snapshot to OnTransition after unlocking.
func (m *Machine) applyLocked(ev Event) (Snapshot, bool) {
	if ev == EventManualOverride {
		return m.overrideLocked()
	}

	if m.state != StateNormal {
		log.Debug("hazard ignored during active emergency",
			"event", ev.String(), "state", m.state.String())
		return Snapshot{}, false
	}

	m.state = StateEmergencyStop
	m.episodeID = uuid.NewString()
	m.cause = ev.String()
	m.enteredAt = m.now()
	m.lightsOn = true

	if !m.eCallSent {
		m.eCallSent = true
		log.Warn("emergency call dispatched",
			"episode", m.episodeID, "cause", m.cause)
	}
	log.Warn("emergency stop engaged",
		"episode", m.episodeID, "cause", m.cause)

	return m.snapshotLocked(), true
}

// Tick advances the machine with the current vehicle speed and returns
// the control command the machine wants applied. commanded is false in
// Normal, where the driver keeps authority.
func (m *Machine) Tick(speedKmh float64) (control telemetry.Control, commanded bool) {
	var (
		snap    Snapshot
		changed bool
	)

	m.mu.Lock()
	switch m.state {
	case StateNormal:
		if speedKmh > m.cfg.MinMovingSpeedKmh &&
			m.now().Sub(m.lastInputAt) > m.cfg.InactivityTimeout {
			snap, changed = m.applyLocked(EventMedicalEmergency)
			control, commanded = telemetry.Control{Brake: m.cfg.StopBrake}, true
		}

	case StateEmergencyStop:
		if speedKmh < m.cfg.MinMovingSpeedKmh {
			m.state = StateSecured
			m.enteredAt = m.now()
			if !m.doorsOpened {
				m.doorsOpened = true
				log.Info("vehicle secured, doors released",
					"episode", m.episodeID)
			}
			snap, changed = m.snapshotLocked(), true
			control, commanded = telemetry.Control{Brake: m.cfg.SecureBrake}, true
		} else {
			control, commanded = telemetry.Control{Brake: m.cfg.StopBrake}, true
		}

	default: // StateSecured
		control, commanded = telemetry.Control{Brake: m.cfg.SecureBrake}, true
	}
	m.mu.Unlock()

	if changed {
		m.notify(snap)
	}
	return control, commanded
}

// Override returns the machine to Normal and clears all latches.
func (m *Machine) Override() {
	m.Apply(EventManualOverride)
}

func (m *Machine) overrideLocked() (Snapshot, bool) {
	if m.state == StateNormal && !m.lightsOn && !m.eCallSent && !m.doorsOpened {
		return Snapshot{}, false
	}
	log.Info("manual override, resuming normal operation",
		"episode", m.episodeID)
	m.state = StateNormal
	m.episodeID = ""
	m.cause = ""
	m.eCallSent = false
	m.doorsOpened = false
	m.lightsOn = false
	m.enteredAt = m.now()
	m.lastInputAt = m.now()
	return m.snapshotLocked(), true
}

// Snapshot returns the machine's current state. Safe from any goroutine.
func (m *Machine) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snapshotLocked()
}

func (m *Machine) snapshotLocked() Snapshot {
	return Snapshot{
		State:       m.state,
		StateLabel:  m.state.String(),
		EpisodeID:   m.episodeID,
		Cause:       m.cause,
		ECallSent:   m.eCallSent,
		DoorsOpened: m.doorsOpened,
		LightsOn:    m.lightsOn,
		EnteredAt:   m.enteredAt,
	}
}

func (m *Machine) notify(snap Snapshot) {
	if m.OnTransition != nil {
		m.OnTransition(snap)
	}
}
