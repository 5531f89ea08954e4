package physics

import (
	"sync"

	"github.com/lixenwraith/astro-blast/collider"
	"github.com/lixenwraith/astro-blast/engine"
	"github.com/lixenwraith/astro-blast/event"
	"github.com/lixenwraith/astro-blast/vmath"
)

// pairKey is an unordered entity pair normalized to (low, high)
type pairKey struct {
	low, high engine.EntityID
}

func makePair(a, b engine.EntityID) pairKey {
	if b < a {
		a, b = b, a
	}
	return pairKey{low: a, high: b}
}

// item is one entity's collision data for the current tick: its id, the
// entity-level broad-phase origin and radius, and its world-space shapes
type item struct {
	id     engine.EntityID
	origin vmath.Vec2
	radius float32
	shapes []collider.Collider
}

// Engine detects overlaps between collider-carrying entities once per
// tick. Each tick it collects world-space shapes under a read lock,
// rejects distant pairs by bounding radius, runs exact shape tests on
// the survivors, then publishes results two ways: the full peer set is
// accumulated onto each entity's collider component, and the symmetric
// difference against the previous tick's pair set is emitted as
// collision start/finish notifications.
//
// Both phases are O(n²) in collider-carrying entities, which holds up
// because the simulated population stays in the tens.
type Engine struct {
	ecs    *engine.ECS
	events event.Sender[engine.Event]

	mu       sync.Mutex
	previous map[pairKey]struct{}
}

// New creates a collision engine over the given entity store
func New(ecs *engine.ECS, events event.Sender[engine.Event]) *Engine {
	return &Engine{
		ecs:      ecs,
		events:   events,
		previous: make(map[pairKey]struct{}),
	}
}

// Tick runs one full collect/broad/narrow/publish cycle
func (p *Engine) Tick() {
	items := p.collect()
	current := resolve(items)
	p.publish(current)
}

// collect gathers transformed colliders for every entity that declares
// them, under a single read lock
func (p *Engine) collect() []item {
	var items []item

	p.ecs.Each(func(id engine.EntityID, e *engine.Entity) bool {
		set := e.Collider
		if set == nil || len(set.Shapes) == 0 {
			return true
		}

		shapes := make([]collider.Collider, len(set.Shapes))
		for i, shape := range set.Shapes {
			shapes[i] = shape.Transform(e.Transform.Position, e.Transform.Rotation)
		}

		items = append(items, item{
			id:     id,
			origin: e.Transform.Position,
			radius: set.Radius,
			shapes: shapes,
		})
		return true
	})

	return items
}

// resolve runs broad and narrow phases over every unordered pair
func resolve(items []item) map[pairKey]struct{} {
	current := make(map[pairKey]struct{})

	for i := 0; i < len(items); i++ {
		for j := i + 1; j < len(items); j++ {
			left, right := items[i], items[j]

			// Broad phase: entity-level radius rejection
			if left.origin.Distance(right.origin) > left.radius+right.radius {
				continue
			}

			// Narrow phase: any overlapping shape pair marks the
			// entity pair as colliding
			if anyShapeOverlap(left.shapes, right.shapes) {
				current[makePair(left.id, right.id)] = struct{}{}
			}
		}
	}

	return current
}

func anyShapeOverlap(left, right []collider.Collider) bool {
	for _, l := range left {
		for _, r := range right {
			if collider.Test(l, r) {
				return true
			}
		}
	}
	return false
}

// publish writes peer sets back onto entities and emits transition
// notifications for pairs that appeared or disappeared since last tick.
// An entity destroyed since collect simply drops out: Modify on a stale
// id is a no-op.
func (p *Engine) publish(current map[pairKey]struct{}) {
	for pair := range current {
		a, b := pair.low, pair.high
		p.ecs.Modify(a, func(e *engine.Entity) { recordCollision(e, b) })
		p.ecs.Modify(b, func(e *engine.Entity) { recordCollision(e, a) })
	}

	p.mu.Lock()
	previous := p.previous
	p.previous = current
	p.mu.Unlock()

	for pair := range current {
		if _, existed := previous[pair]; !existed {
			p.events.Send(engine.CollisionStartedEvent(pair.low, pair.high))
		}
	}
	for pair := range previous {
		if _, still := current[pair]; !still {
			p.events.Send(engine.CollisionFinishedEvent(pair.low, pair.high))
		}
	}
}

func recordCollision(e *engine.Entity, peer engine.EntityID) {
	if e.Collider == nil {
		return
	}
	if e.Collider.Collisions == nil {
		e.Collider.Collisions = make(map[engine.EntityID]struct{})
	}
	e.Collider.Collisions[peer] = struct{}{}
}

// Forget prunes the destroyed entity's pairs from the transition
// baseline so no finish notification is emitted with a stale id.
// Wire it to the destroy notification channel.
func (p *Engine) Forget(id engine.EntityID) {
	p.mu.Lock()
	defer p.mu.Unlock()

	for pair := range p.previous {
		if pair.low == id || pair.high == id {
			delete(p.previous, pair)
		}
	}
}

// HandleEvent adapts Forget to the dispatcher handler signature
func (p *Engine) HandleEvent(ev engine.Event) {
	if ev.Type == engine.EventEntityDestroyed {
		p.Forget(ev.Entity)
	}
}
