package physics

import (
	"testing"

	"github.com/lixenwraith/astro-blast/collider"
	"github.com/lixenwraith/astro-blast/engine"
	"github.com/lixenwraith/astro-blast/event"
	"github.com/lixenwraith/astro-blast/vmath"
)

func pointEntity(position vmath.Vec2, radius float32) *engine.Entity {
	return engine.NewBulletEntity(
		engine.Transform{Position: position},
		engine.Movement{},
		engine.NewColliderSet(radius, collider.Point{Radius: radius}),
		engine.Bullet{TTL: 10},
	)
}

func peers(t *testing.T, ecs *engine.ECS, id engine.EntityID) map[engine.EntityID]struct{} {
	t.Helper()
	var out map[engine.EntityID]struct{}
	if !ecs.Visit(id, func(e *engine.Entity) {
		out = make(map[engine.EntityID]struct{}, len(e.Collider.Collisions))
		for peer := range e.Collider.Collisions {
			out[peer] = struct{}{}
		}
	}) {
		t.Fatalf("Entity %d not found", id)
	}
	return out
}

func clearCollisions(ecs *engine.ECS, ids ...engine.EntityID) {
	for _, id := range ids {
		ecs.Modify(id, func(e *engine.Entity) {
			e.Collider.Collisions = nil
		})
	}
}

func TestOverlapRecordedOnBothEntities(t *testing.T) {
	dispatcher := event.NewDispatcher[engine.Event]()
	ecs := engine.NewECS(dispatcher.Sender())
	eng := New(ecs, dispatcher.Sender())

	a := ecs.Create(pointEntity(vmath.V(0, 0), 1))
	b := ecs.Create(pointEntity(vmath.V(1.5, 0), 1))
	far := ecs.Create(pointEntity(vmath.V(50, 50), 1))

	var started, finished [][2]engine.EntityID
	dispatcher.AddHandler(func(ev engine.Event) {
		switch ev.Type {
		case engine.EventCollisionStarted:
			started = append(started, ev.Pair)
		case engine.EventCollisionFinished:
			finished = append(finished, ev.Pair)
		}
	})

	eng.Tick()
	dispatcher.Dispatch()

	if _, ok := peers(t, ecs, a)[b]; !ok {
		t.Error("Expected b recorded on a")
	}
	if _, ok := peers(t, ecs, b)[a]; !ok {
		t.Error("Expected a recorded on b")
	}
	if len(peers(t, ecs, far)) != 0 {
		t.Error("Distant entity must not collide")
	}

	if len(started) != 1 || len(finished) != 0 {
		t.Fatalf("Expected one start and no finish, got %d/%d", len(started), len(finished))
	}
	pair := started[0]
	if pair[0] != a || pair[1] != b {
		t.Errorf("Expected ordered pair (%d,%d), got (%d,%d)", a, b, pair[0], pair[1])
	}

	// Steady overlap: no repeated start notification
	clearCollisions(ecs, a, b)
	eng.Tick()
	dispatcher.Dispatch()
	if len(started) != 1 {
		t.Errorf("Expected no repeated start while overlap persists, got %d", len(started))
	}

	// Separate the pair; overlap ends exactly once
	ecs.Modify(b, func(e *engine.Entity) {
		e.Transform.Position = vmath.V(3, 0)
	})
	clearCollisions(ecs, a, b)
	eng.Tick()
	dispatcher.Dispatch()

	if len(peers(t, ecs, a)) != 0 || len(peers(t, ecs, b)) != 0 {
		t.Error("Expected no collisions recorded after separation")
	}
	if len(finished) != 1 {
		t.Fatalf("Expected one finish notification, got %d", len(finished))
	}
	if finished[0][0] != a || finished[0][1] != b {
		t.Errorf("Expected finish pair (%d,%d), got (%d,%d)", a, b, finished[0][0], finished[0][1])
	}
}

func TestBroadPhaseRejectsByEntityRadius(t *testing.T) {
	ecs := engine.NewECS(event.Sender[engine.Event]{})
	eng := New(ecs, event.Sender[engine.Event]{})

	// Shape radii would overlap at this distance, but the entity-level
	// radii declare the bodies smaller, so the pair is culled early
	a := ecs.Create(engine.NewBulletEntity(
		engine.Transform{Position: vmath.V(0, 0)},
		engine.Movement{},
		engine.NewColliderSet(0.4, collider.Point{Radius: 5}),
		engine.Bullet{},
	))
	b := ecs.Create(engine.NewBulletEntity(
		engine.Transform{Position: vmath.V(1, 0)},
		engine.Movement{},
		engine.NewColliderSet(0.4, collider.Point{Radius: 5}),
		engine.Bullet{},
	))

	eng.Tick()

	if len(peers(t, ecs, a)) != 0 || len(peers(t, ecs, b)) != 0 {
		t.Error("Expected broad phase to cull the pair")
	}
}

func TestTriangleAgainstPoint(t *testing.T) {
	ecs := engine.NewECS(event.Sender[engine.Event]{})
	eng := New(ecs, event.Sender[engine.Event]{})

	craft := ecs.Create(engine.NewSpacecraftEntity(
		engine.Transform{Position: vmath.V(0, 0)},
		engine.Movement{},
		engine.NewColliderSet(2, collider.Triangle{
			Vertices: [3]vmath.Vec2{vmath.V(0, 1), vmath.V(1, -1), vmath.V(-1, -1)},
			Radius:   2,
		}),
		engine.Spacecraft{},
	))
	inside := ecs.Create(pointEntity(vmath.V(0, 0), 0.001))
	outside := ecs.Create(pointEntity(vmath.V(0, -5), 0.001))

	eng.Tick()

	if _, ok := peers(t, ecs, craft)[inside]; !ok {
		t.Error("Expected contained point to collide with the triangle")
	}
	if _, ok := peers(t, ecs, craft)[outside]; ok {
		t.Error("Point outside the triangle must not collide")
	}
	if _, ok := peers(t, ecs, inside)[craft]; !ok {
		t.Error("Collision records must be symmetric")
	}
}

func TestRotatedTriangleCollision(t *testing.T) {
	ecs := engine.NewECS(event.Sender[engine.Event]{})
	eng := New(ecs, event.Sender[engine.Event]{})

	// Apex points up at rotation 0; a half turn swings it down over
	// the probe point below the body
	craft := ecs.Create(engine.NewSpacecraftEntity(
		engine.Transform{Position: vmath.V(0, 0), Rotation: 3.14159265},
		engine.Movement{},
		engine.NewColliderSet(2, collider.Triangle{
			Vertices: [3]vmath.Vec2{vmath.V(0, 1), vmath.V(0.2, 0), vmath.V(-0.2, 0)},
			Radius:   2,
		}),
		engine.Spacecraft{},
	))
	below := ecs.Create(pointEntity(vmath.V(0, -0.5), 0.001))

	eng.Tick()

	if _, ok := peers(t, ecs, craft)[below]; !ok {
		t.Error("Expected rotated triangle to cover the point below the origin")
	}
}

func TestForgetSuppressesFinishForDestroyedEntity(t *testing.T) {
	dispatcher := event.NewDispatcher[engine.Event]()
	ecs := engine.NewECS(dispatcher.Sender())
	eng := New(ecs, dispatcher.Sender())
	dispatcher.AddHandler(eng.HandleEvent)

	a := ecs.Create(pointEntity(vmath.V(0, 0), 1))
	b := ecs.Create(pointEntity(vmath.V(1, 0), 1))

	eng.Tick()
	dispatcher.Dispatch()

	finished := 0
	dispatcher.AddHandler(func(ev engine.Event) {
		if ev.Type == engine.EventCollisionFinished {
			finished++
		}
	})

	// Destroying a collider must not surface as a finished overlap
	ecs.Destroy(b)
	dispatcher.Dispatch()
	eng.Tick()
	dispatcher.Dispatch()

	if finished != 0 {
		t.Errorf("Expected no finish notification for destroyed entity, got %d", finished)
	}
	if len(peers(t, ecs, a)) == 0 {
		// Records from the first tick persist until a consumer clears them
		t.Error("Expected earlier collision record to persist on the survivor")
	}
}
