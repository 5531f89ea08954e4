package game

import (
	"math"
	"math/rand"

	"github.com/lixenwraith/astro-blast/collider"
	"github.com/lixenwraith/astro-blast/engine"
	"github.com/lixenwraith/astro-blast/vmath"
)

// Gameplay tuning constants
const (
	SpacecraftRadius       = 1.0
	SpacecraftCooldown     = 0.25
	SpacecraftAcceleration = 5.0
	SpacecraftTurnRate     = 3.0

	BulletSpeed      = 20.0
	BulletLifetime   = 5.0
	BulletRadius     = 1.0
	bulletPointSize  = 0.001

	AsteroidMinSize     = 1.0
	AsteroidMaxSize     = 4.0
	AsteroidMinSpin     = 0.25
	AsteroidMaxSpin     = 2.0
	AsteroidMinSpeed    = 0.25
	AsteroidMaxSpeed    = 3.0
	AsteroidRadiusPad   = 2.0
	asteroidMinSegment  = 0.75
	asteroidMaxSegment  = 1.0

	AsteroidCap           = 64
	AsteroidSpawnInterval = 1.0
	AsteroidSpawnMinRange = 15.0
	AsteroidSpawnMaxRange = 100.0
	AsteroidDespawnRange  = 150.0

	CameraMinDistance     = 1.0
	CameraMaxDistance     = 32.0
	CameraInitialDistance = 4.0
	cameraZoomStep        = 2.0

	RespawnDelay = 3.0
)

// spacecraftVertices is the craft's body triangle in local space, apex
// forward. The base corners sit on the unit circle at 45 degrees.
var spacecraftVertices = [3]vmath.Vec2{
	vmath.V(0, 0.5),
	vmath.V(0.35355339, -0.35355339),
	vmath.V(-0.35355339, -0.35355339),
}

// facing converts a rotation into the craft's forward unit vector.
// Rotation zero points along +Y.
func facing(rotation float32) vmath.Vec2 {
	return vmath.V(0, 1).RotateBy(rotation)
}

// NewCamera creates a detached camera at the origin
func NewCamera() *engine.Entity {
	return engine.NewCameraEntity(
		engine.Transform{},
		engine.Camera{Follow: true, Distance: CameraInitialDistance},
	)
}

// NewSpacecraft creates a player craft at rest
func NewSpacecraft(position vmath.Vec2) *engine.Entity {
	return engine.NewSpacecraftEntity(
		engine.Transform{Position: position},
		engine.Movement{},
		engine.NewColliderSet(SpacecraftRadius, collider.Triangle{
			Vertices: spacecraftVertices,
			Radius:   SpacecraftRadius,
		}),
		engine.Spacecraft{Cooldown: SpacecraftCooldown},
	)
}

// NewBullet creates a projectile leaving the given muzzle transform at
// fixed speed along its facing
func NewBullet(firedBy engine.EntityID, muzzle engine.Transform) *engine.Entity {
	return engine.NewBulletEntity(
		muzzle,
		engine.Movement{
			Velocity:      facing(muzzle.Rotation).Scale(BulletSpeed),
			ConstVelocity: true,
		},
		engine.NewColliderSet(BulletRadius, collider.Point{Radius: bulletPointSize}),
		engine.Bullet{FiredBy: firedBy, TTL: BulletLifetime},
	)
}

// NewAsteroid creates a randomized asteroid at the given position: an
// octagon body with per-vertex jitter, a triangle-fan collider, constant
// drift in a random direction and a random spin.
func NewAsteroid(rng *rand.Rand, position vmath.Vec2) *engine.Entity {
	size := randRange(rng, AsteroidMinSize, AsteroidMaxSize)

	var body [engine.AsteroidSegments]vmath.Vec2
	for i := range body {
		angle := float32(i) * 2 * math.Pi / engine.AsteroidSegments
		radius := size * randRange(rng, asteroidMinSegment, asteroidMaxSegment)
		body[i] = vmath.V(radius, 0).RotateBy(angle)
	}

	// Fan of triangles around the local origin, one per body edge
	shapes := make([]collider.Collider, 0, engine.AsteroidSegments)
	for i := range body {
		next := body[(i+1)%engine.AsteroidSegments]
		shapes = append(shapes, collider.Triangle{
			Vertices: [3]vmath.Vec2{{}, body[i], next},
			Radius:   size,
		})
	}

	heading := randRange(rng, 0, 2*math.Pi)
	speed := randRange(rng, AsteroidMinSpeed, AsteroidMaxSpeed)

	spin := randRange(rng, AsteroidMinSpin, AsteroidMaxSpin)
	if rng.Intn(2) == 0 {
		spin = -spin
	}

	return engine.NewAsteroidEntity(
		engine.Transform{Position: position},
		engine.Movement{
			Velocity:      vmath.V(0, 1).RotateBy(heading).Scale(speed),
			ConstVelocity: true,
		},
		engine.NewColliderSet(size+AsteroidRadiusPad, shapes...),
		engine.Asteroid{
			Size:             size,
			Body:             body,
			RotationVelocity: spin,
		},
	)
}

func randRange(rng *rand.Rand, min, max float32) float32 {
	return min + rng.Float32()*(max-min)
}
