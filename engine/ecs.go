package engine

import (
	"sort"
	"sync"

	"github.com/lixenwraith/astro-blast/event"
)

// EntityID is a stable handle to an entity slot. The low 32 bits hold the
// slot index, the high 32 bits a per-slot generation counter. Destroying
// an entity bumps the slot's generation, so a handle held across
// destruction goes stale and is rejected by every lookup instead of
// silently aliasing whatever entity reuses the slot.
type EntityID uint64

func makeID(index int, generation uint32) EntityID {
	return EntityID(uint64(generation)<<32 | uint64(uint32(index)))
}

// Index returns the slot index component of the id
func (id EntityID) Index() int {
	return int(uint32(id))
}

// Generation returns the generation component of the id
func (id EntityID) Generation() uint32 {
	return uint32(id >> 32)
}

// action is a deferred mutation enqueued by a system during a tick
type action struct {
	id      EntityID
	modify  func(*Entity)
	destroy bool
}

// ECS owns the entity slot store and the system registry.
//
// The slot store only grows: destroyed slots are cleared and reused by
// the lowest-index-first creation rule. A single reader/writer lock
// guards the slots; readers (Visit, Each, the physics collect phase) run
// concurrently, writers (Create, Destroy, Modify, Tick) exclude everyone.
// Neither the lock nor entity pointers ever escape a call boundary.
type ECS struct {
	events event.Sender[Event]

	mu          sync.RWMutex
	slots       []*Entity
	generations []uint32

	sysMu   sync.Mutex
	systems map[string]System
	names   []string
}

// NewECS creates an empty entity store publishing lifecycle events
// through the given sender
func NewECS(events event.Sender[Event]) *ECS {
	return &ECS{
		events:  events,
		systems: make(map[string]System),
	}
}

// AddSystem registers a named system. A duplicate name overwrites the
// previous registration. Systems run in name order every tick.
func (e *ECS) AddSystem(name string, system System) {
	e.sysMu.Lock()
	defer e.sysMu.Unlock()

	if _, exists := e.systems[name]; !exists {
		e.names = append(e.names, name)
		sort.Strings(e.names)
	}
	e.systems[name] = system
}

// RemoveSystem unregisters a system; unknown names are a no-op
func (e *ECS) RemoveSystem(name string) {
	e.sysMu.Lock()
	defer e.sysMu.Unlock()

	if _, exists := e.systems[name]; !exists {
		return
	}
	delete(e.systems, name)
	for i, n := range e.names {
		if n == name {
			e.names = append(e.names[:i], e.names[i+1:]...)
			break
		}
	}
}

// Create inserts an entity into the lowest empty slot, appending a new
// slot only when none is free, and returns its id
func (e *ECS) Create(entity *Entity) EntityID {
	e.mu.Lock()

	index := -1
	for i, slot := range e.slots {
		if slot == nil {
			index = i
			break
		}
	}
	if index < 0 {
		index = len(e.slots)
		e.slots = append(e.slots, nil)
		e.generations = append(e.generations, 0)
	}

	e.slots[index] = entity
	id := makeID(index, e.generations[index])

	e.mu.Unlock()

	e.events.Send(EntityCreatedEvent(id))

	return id
}

// Destroy clears the entity's slot and bumps its generation. Destroying
// an unknown, stale, or already-empty id is a silent no-op.
func (e *ECS) Destroy(id EntityID) {
	e.mu.Lock()
	destroyed := e.destroyLocked(id)
	e.mu.Unlock()

	if destroyed {
		e.events.Send(EntityDestroyedEvent(id))
	}
}

// destroyLocked clears the slot if id is live; caller holds the write lock
func (e *ECS) destroyLocked(id EntityID) bool {
	entity := e.lookupLocked(id)
	if entity == nil {
		return false
	}

	index := id.Index()
	e.slots[index] = nil
	e.generations[index]++
	return true
}

// lookupLocked resolves a live entity or nil; caller holds either lock
func (e *ECS) lookupLocked(id EntityID) *Entity {
	index := id.Index()
	if index >= len(e.slots) {
		return nil
	}
	if e.generations[index] != id.Generation() {
		return nil
	}
	return e.slots[index]
}

// Visit calls fn with the entity under the read lock. The entity must be
// treated as read-only; use Modify for mutation. Returns false when the
// id is stale or empty.
func (e *ECS) Visit(id EntityID, fn func(*Entity)) bool {
	e.mu.RLock()
	defer e.mu.RUnlock()

	entity := e.lookupLocked(id)
	if entity == nil {
		return false
	}
	fn(entity)
	return true
}

// Modify calls fn with the entity under the write lock.
// Returns false when the id is stale or empty.
func (e *ECS) Modify(id EntityID, fn func(*Entity)) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	entity := e.lookupLocked(id)
	if entity == nil {
		return false
	}
	fn(entity)
	return true
}

// Each iterates all occupied slots in index order under the read lock,
// stopping early when fn returns false. Entities are read-only during
// iteration.
func (e *ECS) Each(fn func(EntityID, *Entity) bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	for index, entity := range e.slots {
		if entity == nil {
			continue
		}
		if !fn(makeID(index, e.generations[index]), entity) {
			return
		}
	}
}

// Count returns the number of live entities
func (e *ECS) Count() int {
	e.mu.RLock()
	defer e.mu.RUnlock()

	count := 0
	for _, entity := range e.slots {
		if entity != nil {
			count++
		}
	}
	return count
}

// Tick runs every registered system against every live entity, then
// applies the deferred actions the systems enqueued.
//
// The write lock is held for the whole tick: all systems observe the
// same pre-tick world, and no structural mutation can happen while the
// scan is in progress. Mutations requested during the scan become
// visible at the start of the next tick.
func (e *ECS) Tick(elapsed float32) {
	e.sysMu.Lock()
	names := make([]string, len(e.names))
	copy(names, e.names)
	systems := make([]System, len(names))
	for i, name := range names {
		systems[i] = e.systems[name]
	}
	e.sysMu.Unlock()

	e.mu.Lock()
	defer e.mu.Unlock()

	var actions []action

	for index, entity := range e.slots {
		if entity == nil {
			continue
		}
		id := makeID(index, e.generations[index])

		for _, system := range systems {
			args := SystemArgs{
				Elapsed: elapsed,
				ID:      id,
				Entity:  entity,
				ecs:     e,
				actions: &actions,
			}
			system.Invoke(&args)
		}
	}

	// Apply in FIFO enqueue order; actions targeting entities destroyed
	// earlier in the same batch resolve to no-ops via the generation check
	for _, act := range actions {
		if act.destroy {
			if e.destroyLocked(act.id) {
				e.events.Send(EntityDestroyedEvent(act.id))
			}
			continue
		}
		if entity := e.lookupLocked(act.id); entity != nil {
			act.modify(entity)
		}
	}
}
