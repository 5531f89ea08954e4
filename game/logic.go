package game

import (
	"math"
	"math/rand"
	"sort"
	"sync"

	"github.com/lixenwraith/astro-blast/engine"
	"github.com/lixenwraith/astro-blast/vmath"
)

// Logic is a world-level rule run once per logic tick. Unlike per-entity
// systems, logics use the store's public API directly and may create
// entities between simulation ticks.
type Logic interface {
	Name() string
	Tick(elapsed float32)
}

// Loop runs registered logics in name order each tick
type Loop struct {
	mu     sync.Mutex
	logics map[string]Logic
	names  []string
}

// NewLoop creates an empty logic loop
func NewLoop() *Loop {
	return &Loop{logics: make(map[string]Logic)}
}

// Add registers a logic; a duplicate name replaces the previous one
func (l *Loop) Add(logic Logic) {
	l.mu.Lock()
	defer l.mu.Unlock()

	name := logic.Name()
	if _, ok := l.logics[name]; !ok {
		l.names = append(l.names, name)
		sort.Strings(l.names)
	}
	l.logics[name] = logic
}

// Remove unregisters a logic by name; unknown names are a no-op
func (l *Loop) Remove(name string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, ok := l.logics[name]; !ok {
		return
	}
	delete(l.logics, name)
	for i, other := range l.names {
		if other == name {
			l.names = append(l.names[:i], l.names[i+1:]...)
			break
		}
	}
}

// Tick runs every logic once, in name order
func (l *Loop) Tick(elapsed float32) {
	l.mu.Lock()
	logics := make([]Logic, 0, len(l.names))
	for _, name := range l.names {
		logics = append(logics, l.logics[name])
	}
	l.mu.Unlock()

	for _, logic := range logics {
		logic.Tick(elapsed)
	}
}

// AsteroidSpawner tops the field up with one asteroid per interval, up
// to the population cap, spawning at a random bearing and distance from
// a random living player's craft.
type AsteroidSpawner struct {
	ecs     *engine.ECS
	players *Players
	rng     *rand.Rand
	timer   float32
}

// NewAsteroidSpawner creates the spawner logic
func NewAsteroidSpawner(ecs *engine.ECS, players *Players, rng *rand.Rand) *AsteroidSpawner {
	return &AsteroidSpawner{ecs: ecs, players: players, rng: rng}
}

func (s *AsteroidSpawner) Name() string { return "asteroid-spawn" }

func (s *AsteroidSpawner) Tick(elapsed float32) {
	s.timer += elapsed
	for s.timer >= AsteroidSpawnInterval {
		s.timer -= AsteroidSpawnInterval
		s.spawnOne()
	}
}

func (s *AsteroidSpawner) spawnOne() {
	count := 0
	s.ecs.Each(func(_ engine.EntityID, e *engine.Entity) bool {
		if e.Kind() == engine.KindAsteroid {
			count++
		}
		return true
	})
	if count >= AsteroidCap {
		return
	}

	anchor := s.anchor()
	bearing := randRange(s.rng, 0, 2*math.Pi)
	distance := randRange(s.rng, AsteroidSpawnMinRange, AsteroidSpawnMaxRange)
	position := anchor.Add(vmath.V(0, 1).RotateBy(bearing).Scale(distance))

	s.ecs.Create(NewAsteroid(s.rng, position))
}

// anchor picks a random living player's craft position, or the origin
// when nobody is alive
func (s *AsteroidSpawner) anchor() vmath.Vec2 {
	crafts := s.players.Crafts()
	if len(crafts) == 0 {
		return vmath.Vec2{}
	}

	craft := crafts[s.rng.Intn(len(crafts))]
	var position vmath.Vec2
	s.ecs.Visit(craft, func(e *engine.Entity) {
		position = e.Transform.Position
	})
	return position
}

// PlayerRespawner issues a fresh spacecraft to each player whose
// respawn countdown has run out. Bound, when set, is called after each
// new craft is bound; the composition root uses it to retarget the
// local player's camera.
type PlayerRespawner struct {
	ecs     *engine.ECS
	players *Players
	Bound   func(name string, craft engine.EntityID)
}

// NewPlayerRespawner creates the respawn logic
func NewPlayerRespawner(ecs *engine.ECS, players *Players) *PlayerRespawner {
	return &PlayerRespawner{ecs: ecs, players: players}
}

func (r *PlayerRespawner) Name() string { return "player-respawn" }

func (r *PlayerRespawner) Tick(elapsed float32) {
	for _, name := range r.players.DueForRespawn(elapsed) {
		craft := r.ecs.Create(NewSpacecraft(vmath.Vec2{}))
		r.players.Bind(name, craft)
		if r.Bound != nil {
			r.Bound(name, craft)
		}
	}
}

// muzzleOffset places new bullets just past the craft's nose so the
// narrow phase never sees them inside their own shooter
const muzzleOffset = 0.6

// WeaponFirer spawns a bullet for every craft holding a fire request
// with its cooldown expired. Systems cannot create entities, so bullet
// spawning lives here at the logic layer.
type WeaponFirer struct {
	ecs *engine.ECS
}

// NewWeaponFirer creates the weapon logic
func NewWeaponFirer(ecs *engine.ECS) *WeaponFirer {
	return &WeaponFirer{ecs: ecs}
}

func (w *WeaponFirer) Name() string { return "weapon-fire" }

func (w *WeaponFirer) Tick(float32) {
	type shot struct {
		shooter engine.EntityID
		muzzle  engine.Transform
	}

	var shots []shot
	w.ecs.Each(func(id engine.EntityID, e *engine.Entity) bool {
		craft := e.Spacecraft
		if craft == nil || !craft.WeaponFire || craft.Cooldown > 0 {
			return true
		}
		muzzle := e.Transform
		muzzle.Position = muzzle.Position.Add(facing(muzzle.Rotation).Scale(muzzleOffset))
		shots = append(shots, shot{shooter: id, muzzle: muzzle})
		return true
	})

	for _, s := range shots {
		w.ecs.Create(NewBullet(s.shooter, s.muzzle))
		w.ecs.Modify(s.shooter, func(e *engine.Entity) {
			e.Spacecraft.Cooldown = SpacecraftCooldown
			e.Spacecraft.WeaponFire = false
		})
	}
}
