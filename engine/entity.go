package engine

import (
	"github.com/lixenwraith/astro-blast/collider"
	"github.com/lixenwraith/astro-blast/vmath"
)

// Kind identifies the variant of an entity. A variant is fixed at
// creation; only component fields mutate afterwards.
type Kind uint8

const (
	KindCamera Kind = iota
	KindSpacecraft
	KindAsteroid
	KindBullet
)

// String returns the variant name for logs and diagnostics
func (k Kind) String() string {
	switch k {
	case KindCamera:
		return "camera"
	case KindSpacecraft:
		return "spacecraft"
	case KindAsteroid:
		return "asteroid"
	case KindBullet:
		return "bullet"
	}
	return "unknown"
}

// Transform holds an entity's position and rotation in world space
type Transform struct {
	Position vmath.Vec2
	Rotation float32
}

// Movement holds velocity and acceleration. ConstVelocity entities move
// at fixed speed and ignore acceleration and braking.
type Movement struct {
	Velocity      vmath.Vec2
	Acceleration  vmath.Vec2
	ConstVelocity bool
}

// ColliderSet declares an entity's collision shapes and accumulates the
// peers it currently overlaps. Radius is the entity-level bounding radius
// used by the broad phase. Collisions are written by the physics engine
// and cleared by whichever system consumes them.
type ColliderSet struct {
	Shapes     []collider.Collider
	Radius     float32
	Collisions map[EntityID]struct{}
}

// NewColliderSet builds a collider component from shapes and a bounding radius
func NewColliderSet(radius float32, shapes ...collider.Collider) *ColliderSet {
	return &ColliderSet{
		Shapes:     shapes,
		Radius:     radius,
		Collisions: make(map[EntityID]struct{}),
	}
}

// Camera component: optional follow target and zoom distance
type Camera struct {
	Follow    bool
	HasTarget bool
	Target    EntityID
	Distance  float32
}

// Spacecraft component: weapon and steering state. Thrust and
// RotationVelocity are held by the controller; the steering system
// derives the acceleration vector from them each tick so thrust keeps
// tracking the facing while the craft turns.
type Spacecraft struct {
	Cooldown         float32
	WeaponFire       bool
	Thrust           bool
	RotationVelocity float32
}

// AsteroidSegments is the number of vertices in an asteroid's body polygon
const AsteroidSegments = 8

// Asteroid component: size class and body polygon
type Asteroid struct {
	Size             float32
	Body             [AsteroidSegments]vmath.Vec2
	RotationVelocity float32
}

// Bullet component: the spacecraft that fired it and remaining lifetime
type Bullet struct {
	FiredBy EntityID
	TTL     float32
}

// Entity is a tagged union of simulation object variants. Exactly one of
// the variant components matches the kind; Transform is always present,
// Movement and Collider are optional per variant.
type Entity struct {
	kind Kind

	Transform Transform
	Movement  *Movement
	Collider  *ColliderSet

	Camera     *Camera
	Spacecraft *Spacecraft
	Asteroid   *Asteroid
	Bullet     *Bullet
}

// Kind returns the entity's fixed variant
func (e *Entity) Kind() Kind {
	return e.kind
}

// NewCameraEntity creates a camera entity
func NewCameraEntity(transform Transform, camera Camera) *Entity {
	return &Entity{
		kind:      KindCamera,
		Transform: transform,
		Camera:    &camera,
	}
}

// NewSpacecraftEntity creates a spacecraft entity
func NewSpacecraftEntity(transform Transform, movement Movement, colliders *ColliderSet, spacecraft Spacecraft) *Entity {
	return &Entity{
		kind:       KindSpacecraft,
		Transform:  transform,
		Movement:   &movement,
		Collider:   colliders,
		Spacecraft: &spacecraft,
	}
}

// NewAsteroidEntity creates an asteroid entity
func NewAsteroidEntity(transform Transform, movement Movement, colliders *ColliderSet, asteroid Asteroid) *Entity {
	return &Entity{
		kind:      KindAsteroid,
		Transform: transform,
		Movement:  &movement,
		Collider:  colliders,
		Asteroid:  &asteroid,
	}
}

// NewBulletEntity creates a bullet entity
func NewBulletEntity(transform Transform, movement Movement, colliders *ColliderSet, bullet Bullet) *Entity {
	return &Entity{
		kind:      KindBullet,
		Transform: transform,
		Movement:  &movement,
		Collider:  colliders,
		Bullet:    &bullet,
	}
}
