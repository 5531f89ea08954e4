package game

import (
	"testing"

	"github.com/lixenwraith/astro-blast/engine"
	"github.com/lixenwraith/astro-blast/event"
	"github.com/lixenwraith/astro-blast/vmath"
)

func newController(t *testing.T) (*engine.ECS, *Players, *Controller, engine.EntityID) {
	t.Helper()
	ecs := engine.NewECS(event.Sender[engine.Event]{})
	players := NewPlayers()
	controller := NewController(ecs, players, "vex")

	craft := ecs.Create(NewSpacecraft(vmath.Vec2{}))
	players.Bind("vex", craft)
	controller.Track(craft)

	return ecs, players, controller, craft
}

func TestControllerDrivesCraftState(t *testing.T) {
	ecs, _, controller, craft := newController(t)

	controller.Thrust(true)
	controller.Incline(1)
	controller.Fire()

	ecs.Visit(craft, func(e *engine.Entity) {
		if !e.Spacecraft.Thrust {
			t.Error("Expected thrust engaged")
		}
		if e.Spacecraft.RotationVelocity != SpacecraftTurnRate {
			t.Errorf("Expected turn rate %f, got %f", float32(SpacecraftTurnRate), e.Spacecraft.RotationVelocity)
		}
		if !e.Spacecraft.WeaponFire {
			t.Error("Expected fire request set")
		}
	})

	controller.Thrust(false)
	controller.Incline(0)

	ecs.Visit(craft, func(e *engine.Entity) {
		if e.Spacecraft.Thrust || e.Spacecraft.RotationVelocity != 0 {
			t.Error("Expected controls released")
		}
	})
}

func TestControllerIgnoresInputWithoutCraft(t *testing.T) {
	ecs := engine.NewECS(event.Sender[engine.Event]{})
	players := NewPlayers()
	controller := NewController(ecs, players, "vex")

	// No craft bound; input edges must be silently dropped
	controller.Thrust(true)
	controller.Fire()
	controller.Incline(-1)

	if !ecs.Visit(controller.Camera(), func(*engine.Entity) {}) {
		t.Error("Expected camera entity created with the controller")
	}
}

func TestZoomClampsToRange(t *testing.T) {
	ecs, _, controller, _ := newController(t)

	distance := func() float32 {
		var d float32
		ecs.Visit(controller.Camera(), func(e *engine.Entity) { d = e.Camera.Distance })
		return d
	}

	if distance() != CameraInitialDistance {
		t.Fatalf("Expected initial distance %f, got %f", float32(CameraInitialDistance), distance())
	}

	for i := 0; i < 10; i++ {
		controller.ZoomOut()
	}
	if distance() != CameraMaxDistance {
		t.Errorf("Expected distance clamped to %f, got %f", float32(CameraMaxDistance), distance())
	}

	for i := 0; i < 10; i++ {
		controller.ZoomIn()
	}
	if distance() != CameraMinDistance {
		t.Errorf("Expected distance clamped to %f, got %f", float32(CameraMinDistance), distance())
	}
}

func TestCameraTracksRespawnedCraft(t *testing.T) {
	ecs, players, controller, craft := newController(t)

	ecs.Destroy(craft)
	players.HandleEvent(engine.EntityDestroyedEvent(craft))

	respawner := NewPlayerRespawner(ecs, players)
	respawner.Bound = func(_ string, fresh engine.EntityID) {
		controller.Track(fresh)
	}
	respawner.Tick(RespawnDelay + 0.01)

	fresh, ok := players.Craft("vex")
	if !ok {
		t.Fatal("Expected respawned craft bound")
	}

	var target engine.EntityID
	ecs.Visit(controller.Camera(), func(e *engine.Entity) { target = e.Camera.Target })
	if target != fresh {
		t.Errorf("Expected camera retargeted to %d, got %d", fresh, target)
	}
}
