package telemetry

import "strings"

// Collision categories used for incident logging and severity decisions.
const (
	CollisionCar          = "car"
	CollisionPedestrian   = "pedestrian"
	CollisionPole         = "pole"
	CollisionBuildingWall = "building_wall"
	CollisionTrafficLight = "traffic_light"
	CollisionVegetation   = "vegetation"
	CollisionOther        = "other"
)

// CategorizeCollision maps an actor type ID (e.g. "vehicle.tesla.model3",
// "walker.pedestrian.0001", "static.prop.streetlight") to a collision
// category. Pedestrians are matched before vehicles so "walker" never
// falls through to a coarser bucket.
func CategorizeCollision(actorTypeID string) string {
	id := strings.ToLower(actorTypeID)
	switch {
	case strings.Contains(id, "pedestrian") || strings.Contains(id, "walker"):
		return CollisionPedestrian
	case strings.Contains(id, "vehicle") || strings.Contains(id, "car"):
		return CollisionCar
	case strings.Contains(id, "traffic_light") || strings.Contains(id, "trafficlight"):
		return CollisionTrafficLight
	case strings.Contains(id, "pole") || strings.Contains(id, "streetlight"):
		return CollisionPole
	case strings.Contains(id, "wall") || strings.Contains(id, "building") || strings.Contains(id, "fence"):
		return CollisionBuildingWall
	case strings.Contains(id, "vegetation") || strings.Contains(id, "tree") || strings.Contains(id, "foliage"):
		return CollisionVegetation
	default:
		return CollisionOther
	}
}
