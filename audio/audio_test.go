package audio

import (
	"testing"

	"github.com/lixenwraith/astro-blast/engine"
)

func TestDisabledPlayerIsSilentNoOp(t *testing.T) {
	p, err := New(false)
	if err != nil {
		t.Fatalf("Disabled player must not error: %v", err)
	}

	// Must not panic or touch the speaker
	p.HandleEvent(engine.CollisionStartedEvent(1, 2))
	p.HandleEvent(engine.EntityDestroyedEvent(1))
	p.HandleEvent(engine.EntityCreatedEvent(3))
}
