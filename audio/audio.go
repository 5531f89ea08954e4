package audio

import (
	"fmt"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/speaker"

	"github.com/lixenwraith/astro-blast/engine"
)

const sampleRate = beep.SampleRate(44100)

// Player turns engine notifications into short tones. A Player that
// failed to initialize, or was disabled, swallows everything silently;
// the game runs fine without sound.
type Player struct {
	ready bool
}

// New initializes the speaker. The returned error is informational;
// the Player is usable either way.
func New(enabled bool) (*Player, error) {
	p := &Player{}
	if !enabled {
		return p, nil
	}

	if err := speaker.Init(sampleRate, sampleRate.N(time.Second/10)); err != nil {
		return p, fmt.Errorf("init speaker: %w", err)
	}
	p.ready = true
	return p, nil
}

// HandleEvent plays a tone for impact and destruction notifications.
// Wire it to the notification channel.
func (p *Player) HandleEvent(ev engine.Event) {
	switch ev.Type {
	case engine.EventCollisionStarted:
		p.tone(880, 50*time.Millisecond)
	case engine.EventEntityDestroyed:
		p.tone(220, 120*time.Millisecond)
	}
}

func (p *Player) tone(freq float64, duration time.Duration) {
	if !p.ready {
		return
	}

	sine, err := generators.SineTone(sampleRate, freq)
	if err != nil {
		return
	}
	speaker.Play(beep.Take(sampleRate.N(duration), sine))
}
