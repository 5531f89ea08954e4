package engine

// EventType discriminates engine notifications
type EventType uint8

const (
	// EventEntityCreated fires after a slot is populated
	EventEntityCreated EventType = iota

	// EventEntityDestroyed fires after a slot is cleared
	EventEntityDestroyed

	// EventCollisionStarted fires when a pair begins overlapping
	EventCollisionStarted

	// EventCollisionFinished fires when a pair stops overlapping
	EventCollisionFinished
)

// Event is a fire-and-forget notification emitted by the entity store
// and the physics engine. Entity is set for lifecycle events; Pair is
// set for collision transitions and is ordered (lower id first).
type Event struct {
	Type   EventType
	Entity EntityID
	Pair   [2]EntityID
}

// EntityCreatedEvent builds a creation notification
func EntityCreatedEvent(id EntityID) Event {
	return Event{Type: EventEntityCreated, Entity: id}
}

// EntityDestroyedEvent builds a destruction notification
func EntityDestroyedEvent(id EntityID) Event {
	return Event{Type: EventEntityDestroyed, Entity: id}
}

// CollisionStartedEvent builds a collision-start notification
func CollisionStartedEvent(a, b EntityID) Event {
	if b < a {
		a, b = b, a
	}
	return Event{Type: EventCollisionStarted, Pair: [2]EntityID{a, b}}
}

// CollisionFinishedEvent builds a collision-end notification
func CollisionFinishedEvent(a, b EntityID) Event {
	if b < a {
		a, b = b, a
	}
	return Event{Type: EventCollisionFinished, Pair: [2]EntityID{a, b}}
}
