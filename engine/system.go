package engine

// SystemArgs is the per-entity invocation context handed to a system
// during a tick. The current entity and all cross-entity reads are valid
// only for the duration of the call; systems must not retain them.
//
// Systems never mutate the store directly. They read other entities
// through Get and enqueue mutations against their own current entity
// through Modify and Destroy; the store applies the queue after the full
// scan completes.
type SystemArgs struct {
	// Elapsed is the tick delta time in seconds
	Elapsed float32

	// ID is the current entity's id
	ID EntityID

	// Entity is the current entity, read-only
	Entity *Entity

	ecs     *ECS
	actions *[]action
}

// Get reads another entity by id. The returned entity is read-only and
// reflects pre-tick state. Stale and empty ids return false.
func (a *SystemArgs) Get(id EntityID) (*Entity, bool) {
	entity := a.ecs.lookupLocked(id)
	if entity == nil {
		return nil, false
	}
	return entity, true
}

// Modify enqueues a mutation of the current entity, applied after the
// scan. The closure runs only if the entity is still live at apply time.
func (a *SystemArgs) Modify(fn func(*Entity)) {
	*a.actions = append(*a.actions, action{id: a.ID, modify: fn})
}

// Destroy enqueues destruction of the current entity, applied after the scan
func (a *SystemArgs) Destroy() {
	*a.actions = append(*a.actions, action{id: a.ID, destroy: true})
}

// System is a named unit of per-entity tick logic. Implementations that
// need private state carry it as struct fields; stateless logic can use
// SystemFunc directly.
type System interface {
	Invoke(args *SystemArgs)
}

// SystemFunc adapts a plain function to the System interface
type SystemFunc func(args *SystemArgs)

// Invoke calls the function
func (f SystemFunc) Invoke(args *SystemArgs) {
	f(args)
}
