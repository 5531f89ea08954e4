package engine

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/lixenwraith/astro-blast/collider"
	"github.com/lixenwraith/astro-blast/vmath"
)

// Snapshot support: the store's occupied/empty slot layout, generations
// included, serializes to JSON and restores to an identical layout, so
// every live entity keeps its id across a save/load cycle. Accumulated
// collision records are transient and are not persisted.

const (
	shapePoint    = "point"
	shapeTriangle = "triangle"
)

type shapeRecord struct {
	Type     string          `json:"type"`
	Center   vmath.Vec2      `json:"center"`
	Radius   float32         `json:"radius"`
	Vertices *[3]vmath.Vec2  `json:"vertices,omitempty"`
}

type colliderRecord struct {
	Radius float32       `json:"radius"`
	Shapes []shapeRecord `json:"shapes"`
}

type entityRecord struct {
	Kind      Kind            `json:"kind"`
	Transform Transform       `json:"transform"`
	Movement  *Movement       `json:"movement,omitempty"`
	Collider  *colliderRecord `json:"collider,omitempty"`

	Camera     *Camera     `json:"camera,omitempty"`
	Spacecraft *Spacecraft `json:"spacecraft,omitempty"`
	Asteroid   *Asteroid   `json:"asteroid,omitempty"`
	Bullet     *Bullet     `json:"bullet,omitempty"`
}

type slotRecord struct {
	Generation uint32        `json:"generation"`
	Entity     *entityRecord `json:"entity,omitempty"`
}

type snapshot struct {
	Slots []slotRecord `json:"slots"`
}

// Save writes the store's slot layout as JSON
func (e *ECS) Save(w io.Writer) error {
	e.mu.RLock()

	snap := snapshot{Slots: make([]slotRecord, len(e.slots))}
	for i, entity := range e.slots {
		snap.Slots[i].Generation = e.generations[i]
		if entity != nil {
			snap.Slots[i].Entity = encodeEntity(entity)
		}
	}

	e.mu.RUnlock()

	enc := json.NewEncoder(w)
	if err := enc.Encode(&snap); err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	return nil
}

// Restore replaces the store contents with a previously saved layout.
// No creation or destruction notifications are emitted; restored state
// is treated as if it had always been there.
func (e *ECS) Restore(r io.Reader) error {
	var snap snapshot
	dec := json.NewDecoder(r)
	if err := dec.Decode(&snap); err != nil {
		return fmt.Errorf("decode snapshot: %w", err)
	}

	slots := make([]*Entity, len(snap.Slots))
	generations := make([]uint32, len(snap.Slots))
	for i, record := range snap.Slots {
		generations[i] = record.Generation
		if record.Entity == nil {
			continue
		}
		entity, err := decodeEntity(record.Entity)
		if err != nil {
			return fmt.Errorf("slot %d: %w", i, err)
		}
		slots[i] = entity
	}

	e.mu.Lock()
	e.slots = slots
	e.generations = generations
	e.mu.Unlock()

	return nil
}

// encodeEntity copies the entity into a record. Components are copied
// by value: the caller releases the store lock before serializing, so
// records must not alias live entity state.
func encodeEntity(entity *Entity) *entityRecord {
	record := &entityRecord{
		Kind:      entity.kind,
		Transform: entity.Transform,
	}

	if entity.Movement != nil {
		movement := *entity.Movement
		record.Movement = &movement
	}
	if entity.Camera != nil {
		camera := *entity.Camera
		record.Camera = &camera
	}
	if entity.Spacecraft != nil {
		spacecraft := *entity.Spacecraft
		record.Spacecraft = &spacecraft
	}
	if entity.Asteroid != nil {
		asteroid := *entity.Asteroid
		record.Asteroid = &asteroid
	}
	if entity.Bullet != nil {
		bullet := *entity.Bullet
		record.Bullet = &bullet
	}

	if entity.Collider != nil {
		record.Collider = &colliderRecord{
			Radius: entity.Collider.Radius,
			Shapes: make([]shapeRecord, 0, len(entity.Collider.Shapes)),
		}
		for _, shape := range entity.Collider.Shapes {
			record.Collider.Shapes = append(record.Collider.Shapes, encodeShape(shape))
		}
	}

	return record
}

func encodeShape(shape collider.Collider) shapeRecord {
	switch s := shape.(type) {
	case collider.Point:
		return shapeRecord{
			Type:   shapePoint,
			Center: s.Center,
			Radius: s.Radius,
		}
	case collider.Triangle:
		vertices := s.Vertices
		return shapeRecord{
			Type:     shapeTriangle,
			Center:   s.Center,
			Radius:   s.Radius,
			Vertices: &vertices,
		}
	}
	return shapeRecord{}
}

func decodeEntity(record *entityRecord) (*Entity, error) {
	entity := &Entity{
		kind:       record.Kind,
		Transform:  record.Transform,
		Movement:   record.Movement,
		Camera:     record.Camera,
		Spacecraft: record.Spacecraft,
		Asteroid:   record.Asteroid,
		Bullet:     record.Bullet,
	}

	if record.Collider != nil {
		set := NewColliderSet(record.Collider.Radius)
		for _, shape := range record.Collider.Shapes {
			decoded, err := decodeShape(shape)
			if err != nil {
				return nil, err
			}
			set.Shapes = append(set.Shapes, decoded)
		}
		entity.Collider = set
	}

	return entity, nil
}

func decodeShape(record shapeRecord) (collider.Collider, error) {
	switch record.Type {
	case shapePoint:
		return collider.Point{
			Center: record.Center,
			Radius: record.Radius,
		}, nil
	case shapeTriangle:
		if record.Vertices == nil {
			return nil, fmt.Errorf("triangle shape without vertices")
		}
		return collider.Triangle{
			Center:   record.Center,
			Vertices: *record.Vertices,
			Radius:   record.Radius,
		}, nil
	}
	return nil, fmt.Errorf("unknown shape type %q", record.Type)
}
