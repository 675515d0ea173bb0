// Package telemetry defines the vehicle-side data types and the small
// interfaces through which the monitor talks to a vehicle or simulator.
package telemetry

// Vec3 is a world-space position in meters.
type Vec3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Rotation is a vehicle orientation in degrees.
type Rotation struct {
	PitchDeg float64 `json:"pitch"`
	YawDeg   float64 `json:"yaw"`
	RollDeg  float64 `json:"roll"`
}

// VehicleState is one sampled reading of the vehicle.
type VehicleState struct {
	SpeedKmh     float64  `json:"speed_kmh"`
	Acceleration float64  `json:"acceleration"`
	Steer        float64  `json:"steer"`
	Throttle     float64  `json:"throttle"`
	Brake        float64  `json:"brake"`
	Location     Vec3     `json:"location"`
	Rotation     Rotation `json:"rotation"`
}

// Control is an actuation command. Throttle and Brake are 0..1, Steer
// is -1..1.
type Control struct {
	Throttle float64 `json:"throttle"`
	Brake    float64 `json:"brake"`
	Steer    float64 `json:"steer"`
	Reverse  bool    `json:"reverse"`
}

// Neutral returns a command that releases all inputs.
func Neutral() Control { return Control{} }

// Collision is a reported impact with another actor.
type Collision struct {
	ActorTypeID string  `json:"actor_type_id"`
	Impulse     float64 `json:"impulse"`
}
