package game

import (
	"sync"

	"github.com/lixenwraith/astro-blast/engine"
)

// Player tracks one participant: score, the bound spacecraft if alive,
// and the countdown until the next craft is issued.
type Player struct {
	Name         string
	Score        int
	Craft        engine.EntityID
	Alive        bool
	RespawnTimer float32
}

// Players is the participant registry. It binds player names to
// spacecraft entities and owns score and respawn bookkeeping.
//
// Lock discipline: registry methods never call into the entity store,
// so they are safe to invoke from systems running under the store lock.
type Players struct {
	mu      sync.Mutex
	players map[string]*Player
}

// NewPlayers creates an empty registry
func NewPlayers() *Players {
	return &Players{players: make(map[string]*Player)}
}

// Add registers a participant with no craft; the respawn logic issues
// the first spacecraft on its next tick. Adding an existing name is a
// no-op.
func (p *Players) Add(name string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if _, ok := p.players[name]; ok {
		return
	}
	p.players[name] = &Player{Name: name}
}

// Bind attaches a spacecraft to a player
func (p *Players) Bind(name string, craft engine.EntityID) {
	p.mu.Lock()
	defer p.mu.Unlock()

	player, ok := p.players[name]
	if !ok {
		return
	}
	player.Craft = craft
	player.Alive = true
}

// Craft returns the player's live spacecraft id
func (p *Players) Craft(name string) (engine.EntityID, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	player, ok := p.players[name]
	if !ok || !player.Alive {
		return 0, false
	}
	return player.Craft, true
}

// Crafts returns the spacecraft ids of every living player
func (p *Players) Crafts() []engine.EntityID {
	p.mu.Lock()
	defer p.mu.Unlock()

	ids := make([]engine.EntityID, 0, len(p.players))
	for _, player := range p.players {
		if player.Alive {
			ids = append(ids, player.Craft)
		}
	}
	return ids
}

// ScoreFor credits points to whichever player owns the given craft.
// Destroyed owners still score: a bullet in flight outlives its shooter.
func (p *Players) ScoreFor(craft engine.EntityID, points int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	for _, player := range p.players {
		if player.Craft == craft {
			player.Score += points
			return
		}
	}
}

// Score returns the player's current score
func (p *Players) Score(name string) int {
	p.mu.Lock()
	defer p.mu.Unlock()

	if player, ok := p.players[name]; ok {
		return player.Score
	}
	return 0
}

// DueForRespawn advances every dead player's countdown and returns the
// names whose timer has run out. Returned players stay dead until Bind;
// their timer is re-armed so a failed spawn retries later.
func (p *Players) DueForRespawn(elapsed float32) []string {
	p.mu.Lock()
	defer p.mu.Unlock()

	var due []string
	for _, player := range p.players {
		if player.Alive {
			continue
		}
		player.RespawnTimer -= elapsed
		if player.RespawnTimer <= 0 {
			player.RespawnTimer = RespawnDelay
			due = append(due, player.Name)
		}
	}
	return due
}

// HandleEvent unbinds a player whose spacecraft was destroyed and arms
// the respawn countdown. Wire it to the notification channel.
func (p *Players) HandleEvent(ev engine.Event) {
	if ev.Type != engine.EventEntityDestroyed {
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	for _, player := range p.players {
		if player.Alive && player.Craft == ev.Entity {
			player.Alive = false
			player.RespawnTimer = RespawnDelay
			return
		}
	}
}
