package game

import (
	"github.com/lixenwraith/astro-blast/engine"
	"github.com/lixenwraith/astro-blast/vmath"
)

// brakeEpsilon is the acceleration magnitude below which a craft is
// considered coasting and braking applies
const brakeEpsilon = 0.01

// brakeRate is the fraction of velocity shed per second while coasting
const brakeRate = 0.5

// RegisterSystems installs the per-entity gameplay systems. The store
// runs them in name order; all of them mutate through deferred actions,
// so within a tick every system observes the same pre-tick state and
// ordering between them does not matter.
func RegisterSystems(ecs *engine.ECS, players *Players) {
	ecs.AddSystem("camera", engine.SystemFunc(cameraSystem))
	ecs.AddSystem("cooldown", engine.SystemFunc(cooldownSystem))
	ecs.AddSystem("damage", &damageSystem{players: players})
	ecs.AddSystem("despawn", &despawnSystem{players: players})
	ecs.AddSystem("lifetime", engine.SystemFunc(lifetimeSystem))
	ecs.AddSystem("movement", engine.SystemFunc(movementSystem))
	ecs.AddSystem("spin", engine.SystemFunc(spinSystem))
	ecs.AddSystem("steer", engine.SystemFunc(steerSystem))
}

// cameraSystem keeps a following camera glued to its target's position
func cameraSystem(args *engine.SystemArgs) {
	camera := args.Entity.Camera
	if camera == nil || !camera.Follow || !camera.HasTarget {
		return
	}

	target, ok := args.Get(camera.Target)
	if !ok {
		// Target destroyed; hold the last position until retargeted
		return
	}

	position := target.Transform.Position
	args.Modify(func(e *engine.Entity) {
		e.Transform.Position = position
	})
}

// cooldownSystem counts a craft's weapon cooldown down to exactly zero
func cooldownSystem(args *engine.SystemArgs) {
	craft := args.Entity.Spacecraft
	if craft == nil || craft.Cooldown <= 0 {
		return
	}

	elapsed := args.Elapsed
	args.Modify(func(e *engine.Entity) {
		e.Spacecraft.Cooldown -= elapsed
		if e.Spacecraft.Cooldown < 0 {
			e.Spacecraft.Cooldown = 0
		}
	})
}

// movementSystem integrates velocity into position. Const-velocity
// bodies drift unchanged; accelerated bodies integrate acceleration and
// shed speed while coasting.
func movementSystem(args *engine.SystemArgs) {
	movement := args.Entity.Movement
	if movement == nil {
		return
	}

	elapsed := args.Elapsed
	args.Modify(func(e *engine.Entity) {
		m := e.Movement
		if !m.ConstVelocity {
			m.Velocity = m.Velocity.Add(m.Acceleration.Scale(elapsed))
			if m.Acceleration.Length() <= brakeEpsilon {
				m.Velocity = m.Velocity.Scale(1 - brakeRate*elapsed)
			}
		}
		e.Transform.Position = e.Transform.Position.Add(m.Velocity.Scale(elapsed))
	})
}

// spinSystem applies an asteroid's constant rotation
func spinSystem(args *engine.SystemArgs) {
	asteroid := args.Entity.Asteroid
	if asteroid == nil || asteroid.RotationVelocity == 0 {
		return
	}

	delta := asteroid.RotationVelocity * args.Elapsed
	args.Modify(func(e *engine.Entity) {
		e.Transform.Rotation += delta
	})
}

// steerSystem turns a spacecraft at its commanded rate and points its
// thrust along the current facing
func steerSystem(args *engine.SystemArgs) {
	craft := args.Entity.Spacecraft
	if craft == nil {
		return
	}

	elapsed := args.Elapsed
	args.Modify(func(e *engine.Entity) {
		e.Transform.Rotation += e.Spacecraft.RotationVelocity * elapsed
		if e.Spacecraft.Thrust {
			e.Movement.Acceleration = facing(e.Transform.Rotation).Scale(SpacecraftAcceleration)
		} else {
			e.Movement.Acceleration = vmath.Vec2{}
		}
	})
}

// lifetimeSystem expires bullets whose time has run out
func lifetimeSystem(args *engine.SystemArgs) {
	bullet := args.Entity.Bullet
	if bullet == nil {
		return
	}

	if bullet.TTL <= args.Elapsed {
		args.Destroy()
		return
	}

	elapsed := args.Elapsed
	args.Modify(func(e *engine.Entity) {
		e.Bullet.TTL -= elapsed
	})
}

// despawnSystem destroys asteroids that have drifted out of range of
// every player's spacecraft
type despawnSystem struct {
	players *Players
}

func (s *despawnSystem) Invoke(args *engine.SystemArgs) {
	if args.Entity.Asteroid == nil {
		return
	}

	position := args.Entity.Transform.Position

	anchored := false
	for _, craft := range s.players.Crafts() {
		other, ok := args.Get(craft)
		if !ok {
			continue
		}
		anchored = true
		if position.Distance(other.Transform.Position) <= AsteroidDespawnRange {
			return
		}
	}

	// With no living players, measure from the origin
	if !anchored && position.Length() <= AsteroidDespawnRange {
		return
	}

	args.Destroy()
}

// damageSystem consumes accumulated collision records and resolves
// their gameplay outcome. Each entity decides its own fate from its own
// records; symmetry of the records makes the outcomes consistent
// without cross-entity destruction.
type damageSystem struct {
	players *Players
}

func (s *damageSystem) Invoke(args *engine.SystemArgs) {
	set := args.Entity.Collider
	if set == nil || len(set.Collisions) == 0 {
		return
	}

	switch args.Entity.Kind() {
	case engine.KindBullet:
		if s.hitKind(args, engine.KindAsteroid) {
			s.players.ScoreFor(args.Entity.Bullet.FiredBy, 1)
			args.Destroy()
			return
		}
	case engine.KindAsteroid:
		if s.hitKind(args, engine.KindBullet) {
			args.Destroy()
			return
		}
	case engine.KindSpacecraft:
		if s.hitKind(args, engine.KindAsteroid) {
			args.Destroy()
			return
		}
	}

	// Nothing actionable; drop the records so they do not pile up
	args.Modify(func(e *engine.Entity) {
		if e.Collider != nil {
			e.Collider.Collisions = nil
		}
	})
}

func (s *damageSystem) hitKind(args *engine.SystemArgs, kind engine.Kind) bool {
	for peer := range args.Entity.Collider.Collisions {
		if other, ok := args.Get(peer); ok && other.Kind() == kind {
			return true
		}
	}
	return false
}
