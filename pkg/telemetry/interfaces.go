package telemetry

import "context"

// Provider supplies vehicle state readings. Implementations poll a real
// vehicle bus or a simulator bridge.
type Provider interface {
	// State returns the current vehicle reading.
	State(ctx context.Context) (VehicleState, error)
	Close() error
}

// Actuator applies control commands to the vehicle.
type Actuator interface {
	Apply(ctx context.Context, control Control) error
}

// LightController switches the hazard lights. Actuators that support
// lights implement it alongside Actuator.
type LightController interface {
	SetLights(ctx context.Context, on bool) error
}

// DoorController releases the door locks. One-way: vehicles offer no
// remote re-lock.
type DoorController interface {
	OpenDoors(ctx context.Context) error
}

// HazardSource delivers collision reports as they happen. The channel
// closes when the source shuts down.
type HazardSource interface {
	Collisions() <-chan Collision
}
