package telemetry

import (
	"context"
	"math"
	"math/rand"
	"sync"
	"time"
)

// Sim is a self-contained vehicle simulation for running the telemetry
// server without a real vehicle. It implements Provider, Actuator and
// HazardSource.
type Sim struct {
	mu        sync.Mutex
	state     VehicleState
	control   Control
	lightsOn  bool
	doorsOpen bool
	start     time.Time

	collisions chan Collision
	rng        *rand.Rand
}

// NewSim creates a simulated vehicle at rest.
func NewSim() *Sim {
	return &Sim{
		start:      time.Now(),
		collisions: make(chan Collision, 8),
		rng:        rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// State advances the simulation and returns the current reading. Speed
// follows the applied throttle and brake with slow oscillation so the
// behavior scores have something to measure.
func (s *Sim) State(ctx context.Context) (VehicleState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	elapsed := time.Since(s.start).Seconds()

	target := 50 + 15*math.Sin(elapsed/20)
	if s.control.Brake > 0 {
		target = 0
	} else if s.control.Throttle > 0 {
		target *= s.control.Throttle
	}

	// Speed chases the target; braking bites harder than throttle.
	diff := target - s.state.SpeedKmh
	rate := 0.05
	if diff < 0 {
		rate = 0.15 + 0.5*s.control.Brake
	}
	s.state.SpeedKmh += diff * rate
	if s.state.SpeedKmh < 0 {
		s.state.SpeedKmh = 0
	}
	s.state.Acceleration = diff * rate

	s.state.Steer = 0.05*math.Sin(elapsed/3) + (s.rng.Float64()-0.5)*0.02
	s.state.Throttle = s.control.Throttle
	s.state.Brake = s.control.Brake

	s.state.Location.X += s.state.SpeedKmh / 3.6 * 0.1
	s.state.Rotation.YawDeg = s.state.Steer * 30

	return s.state, nil
}

// Apply stores the control command the next State call will honor.
func (s *Sim) Apply(ctx context.Context, control Control) error {
	s.mu.Lock()
	s.control = control
	s.mu.Unlock()
	return nil
}

// SetLights switches the simulated hazard lights.
func (s *Sim) SetLights(ctx context.Context, on bool) error {
	s.mu.Lock()
	s.lightsOn = on
	s.mu.Unlock()
	return nil
}

// OpenDoors releases the simulated door locks.
func (s *Sim) OpenDoors(ctx context.Context) error {
	s.mu.Lock()
	s.doorsOpen = true
	s.mu.Unlock()
	return nil
}

// Collisions returns the collision feed. Use InjectCollision to push
// test impacts through it.
func (s *Sim) Collisions() <-chan Collision {
	return s.collisions
}

// InjectCollision feeds a collision into the hazard stream.
func (s *Sim) InjectCollision(c Collision) {
	select {
	case s.collisions <- c:
	default:
	}
}

// Close shuts the hazard stream.
func (s *Sim) Close() error {
	close(s.collisions)
	return nil
}

var (
	_ Provider        = (*Sim)(nil)
	_ Actuator        = (*Sim)(nil)
	_ HazardSource    = (*Sim)(nil)
	_ LightController = (*Sim)(nil)
	_ DoorController  = (*Sim)(nil)
)
