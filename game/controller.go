package game

import (
	"github.com/lixenwraith/astro-blast/engine"
)

// Controller is the local player's handle on the simulation: it owns a
// camera entity and translates input edges into component state on the
// player's current spacecraft.
//
// Craft ids are copied out of the registry before touching the store,
// so the registry lock is never held across a store call.
type Controller struct {
	ecs     *engine.ECS
	players *Players
	name    string
	camera  engine.EntityID
}

// NewController registers the player and creates their camera
func NewController(ecs *engine.ECS, players *Players, name string) *Controller {
	players.Add(name)
	return &Controller{
		ecs:     ecs,
		players: players,
		name:    name,
		camera:  ecs.Create(NewCamera()),
	}
}

// Camera returns the controller's camera entity id
func (c *Controller) Camera() engine.EntityID {
	return c.camera
}

// Name returns the player name this controller drives
func (c *Controller) Name() string {
	return c.name
}

// Score returns the player's current score
func (c *Controller) Score() int {
	return c.players.Score(c.name)
}

// Track points the camera at an entity
func (c *Controller) Track(target engine.EntityID) {
	c.ecs.Modify(c.camera, func(e *engine.Entity) {
		e.Camera.HasTarget = true
		e.Camera.Target = target
	})
}

// Thrust engages or releases forward acceleration
func (c *Controller) Thrust(on bool) {
	c.withCraft(func(e *engine.Entity) {
		e.Spacecraft.Thrust = on
	})
}

// Incline sets the turn direction: negative for clockwise, positive for
// counterclockwise, zero to stop turning
func (c *Controller) Incline(direction float32) {
	c.withCraft(func(e *engine.Entity) {
		e.Spacecraft.RotationVelocity = direction * SpacecraftTurnRate
	})
}

// Fire requests a shot; the weapon logic spawns the bullet once the
// cooldown allows
func (c *Controller) Fire() {
	c.withCraft(func(e *engine.Entity) {
		e.Spacecraft.WeaponFire = true
	})
}

// ZoomIn halves the camera distance, down to the minimum
func (c *Controller) ZoomIn() {
	c.zoom(1.0 / cameraZoomStep)
}

// ZoomOut doubles the camera distance, up to the maximum
func (c *Controller) ZoomOut() {
	c.zoom(cameraZoomStep)
}

func (c *Controller) zoom(factor float32) {
	c.ecs.Modify(c.camera, func(e *engine.Entity) {
		distance := e.Camera.Distance * factor
		if distance < CameraMinDistance {
			distance = CameraMinDistance
		}
		if distance > CameraMaxDistance {
			distance = CameraMaxDistance
		}
		e.Camera.Distance = distance
	})
}

func (c *Controller) withCraft(fn func(*engine.Entity)) {
	craft, ok := c.players.Craft(c.name)
	if !ok {
		return
	}
	c.ecs.Modify(craft, fn)
}
