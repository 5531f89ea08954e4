package engine

import (
	"bytes"
	"testing"

	"github.com/lixenwraith/astro-blast/collider"
	"github.com/lixenwraith/astro-blast/event"
	"github.com/lixenwraith/astro-blast/vmath"
)

func TestSnapshotRoundTripPreservesIDs(t *testing.T) {
	ecs := NewECS(event.Sender[Event]{})

	camera := ecs.Create(NewCameraEntity(Transform{}, Camera{Follow: true, Distance: 4}))
	craft := ecs.Create(NewSpacecraftEntity(
		Transform{Position: vmath.V(1, 2), Rotation: 0.5},
		Movement{},
		NewColliderSet(1, collider.Triangle{
			Vertices: [3]vmath.Vec2{vmath.V(0, 0.5), vmath.V(0.35, -0.35), vmath.V(-0.35, -0.35)},
			Radius:   1,
		}),
		Spacecraft{Cooldown: 0.25},
	))
	doomed := ecs.Create(NewBulletEntity(
		Transform{Position: vmath.V(9, 9)},
		Movement{ConstVelocity: true},
		NewColliderSet(1, collider.Point{Radius: 0.001}),
		Bullet{FiredBy: craft, TTL: 2},
	))

	// Leave a hole with a bumped generation in the middle of the layout
	ecs.Destroy(doomed)

	var buf bytes.Buffer
	if err := ecs.Save(&buf); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	restored := NewECS(event.Sender[Event]{})
	if err := restored.Restore(&buf); err != nil {
		t.Fatalf("Restore failed: %v", err)
	}

	if !restored.Visit(camera, func(e *Entity) {
		if e.Kind() != KindCamera || !e.Camera.Follow || e.Camera.Distance != 4 {
			t.Error("Camera entity not restored faithfully")
		}
	}) {
		t.Fatal("Camera id did not survive the round trip")
	}

	if !restored.Visit(craft, func(e *Entity) {
		if e.Kind() != KindSpacecraft {
			t.Error("Spacecraft kind lost")
		}
		if e.Transform.Position != vmath.V(1, 2) || e.Spacecraft.Cooldown != 0.25 {
			t.Error("Spacecraft components not restored faithfully")
		}
		if e.Collider == nil || len(e.Collider.Shapes) != 1 {
			t.Fatal("Collider shapes not restored")
		}
		if _, ok := e.Collider.Shapes[0].(collider.Triangle); !ok {
			t.Error("Expected triangle shape after restore")
		}
	}) {
		t.Fatal("Spacecraft id did not survive the round trip")
	}

	// The destroyed slot stays empty with its generation intact, so the
	// next create reuses it at a non-colliding id
	if restored.Visit(doomed, func(*Entity) {}) {
		t.Error("Destroyed id resolved after restore")
	}

	next := restored.Create(testEntity())
	if next.Index() != doomed.Index() {
		t.Errorf("Expected hole at slot %d reused, got %d", doomed.Index(), next.Index())
	}
	if next == doomed {
		t.Error("Restored store handed out a stale id")
	}
}

func TestRestoreRejectsUnknownShape(t *testing.T) {
	ecs := NewECS(event.Sender[Event]{})

	data := []byte(`{"slots":[{"generation":0,"entity":{"kind":1,"transform":{"Position":{"X":0,"Y":0},"Rotation":0},"collider":{"radius":1,"shapes":[{"type":"hexagon","center":{"X":0,"Y":0},"radius":1}]}}}]}`)

	if err := ecs.Restore(bytes.NewReader(data)); err == nil {
		t.Error("Expected error for unknown shape type")
	}
}
