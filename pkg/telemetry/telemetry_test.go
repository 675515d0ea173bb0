package telemetry

import (
	"context"
	"testing"
)

func TestCategorizeCollision(t *testing.T) {
	cases := map[string]string{
		"vehicle.tesla.model3":          CollisionCar,
		"walker.pedestrian.0001":        CollisionPedestrian,
		"static.prop.streetlight":       CollisionPole,
		"static.prop.wall":              CollisionBuildingWall,
		"traffic.traffic_light":         CollisionTrafficLight,
		"static.vegetation.tree":        CollisionVegetation,
		"static.prop.trampoline":        CollisionOther,
		"VEHICLE.AUDI.TT":               CollisionCar,
		"walker.pedestrian.vehicle_fan": CollisionPedestrian,
	}
	for id, want := range cases {
		if got := CategorizeCollision(id); got != want {
			t.Errorf("CategorizeCollision(%q) = %q, want %q", id, got, want)
		}
	}
}

func TestDetectAnomaly(t *testing.T) {
	cfg := DefaultAnomalyConfig()

	cases := []struct {
		name    string
		control Control
		speed   float64
		want    Anomaly
	}{
		{"full brake at speed", Control{Brake: 1.0}, 50, AnomalyHardBrake},
		{"full brake while slow", Control{Brake: 1.0}, 10, AnomalyNone},
		{"partial brake at speed", Control{Brake: 0.8}, 50, AnomalyNone},
		{"throttle with no motion", Control{Throttle: 0.9}, 0.5, AnomalyStuck},
		{"throttle while moving", Control{Throttle: 0.9}, 40, AnomalyNone},
		{"over the limit", Control{Throttle: 0.7}, 95, AnomalySpeeding},
		{"cruising", Control{Throttle: 0.4}, 60, AnomalyNone},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := DetectAnomaly(tc.control, tc.speed, cfg); got != tc.want {
				t.Errorf("got %v, want %v", got, tc.want)
			}
		})
	}
}

func TestNeutralControl(t *testing.T) {
	n := Neutral()
	if n.Throttle != 0 || n.Brake != 0 || n.Steer != 0 || n.Reverse {
		t.Errorf("neutral control is not neutral: %+v", n)
	}
}

func TestSim_BrakeBringsSpeedDown(t *testing.T) {
	sim := NewSim()
	ctx := context.Background()

	var cruise VehicleState
	for i := 0; i < 200; i++ {
		cruise, _ = sim.State(ctx)
	}
	if cruise.SpeedKmh < 10 {
		t.Fatalf("cruise speed %.1f km/h, expected vehicle to get moving", cruise.SpeedKmh)
	}

	if err := sim.Apply(ctx, Control{Brake: 1}); err != nil {
		t.Fatal(err)
	}
	var braked VehicleState
	for i := 0; i < 200; i++ {
		braked, _ = sim.State(ctx)
	}
	if braked.SpeedKmh > 1 {
		t.Errorf("speed %.2f km/h after sustained full brake", braked.SpeedKmh)
	}
}

func TestSim_CollisionInjection(t *testing.T) {
	sim := NewSim()
	sim.InjectCollision(Collision{ActorTypeID: "vehicle.audi.tt", Impulse: 7000})

	select {
	case c := <-sim.Collisions():
		if c.Impulse != 7000 {
			t.Errorf("impulse = %v", c.Impulse)
		}
	default:
		t.Fatal("injected collision not delivered")
	}

	if err := sim.SetLights(context.Background(), true); err != nil {
		t.Fatal(err)
	}
	if err := sim.OpenDoors(context.Background()); err != nil {
		t.Fatal(err)
	}
}
