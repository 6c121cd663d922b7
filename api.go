package depot

import (
	"github.com/TheBitDrifter/mask"
	"github.com/TheBitDrifter/table"
)

// EntityID identifies a slot in a manager's entity table. IDs are not reused
// while the slot is live; a recycled slot keeps its ID and increments its
// generation.
type EntityID uint32

// Kind identifies one schema kind: a component type or a tag.
type Kind interface {
	table.ElementType
	Name() string
	isTag() bool
	newStore() store
}

// Status describes the validity of an entity handle.
type Status int

const (
	// StatusUninitialized marks a handle that was never produced by a manager.
	StatusUninitialized Status = iota
	// StatusOK marks a live handle whose cached state is current.
	StatusOK
	// StatusStale marks a live handle captured before a structural change.
	// Recover by reassigning from a freshly obtained handle.
	StatusStale
	// StatusDeleted marks a handle whose identity is dead or recycled.
	StatusDeleted
)

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusStale:
		return "stale"
	case StatusDeleted:
		return "deleted"
	}
	return "uninitialized"
}

// Control is handed to every iteration callback. Setting Breakout terminates
// the iteration after the current call returns.
type Control struct {
	Breakout bool
}

// ErrorPolicy decides how a manager reports contract violations.
type ErrorPolicy interface {
	Report(err error) error
}

// QueryNode is one node of a composable entity filter evaluated against an
// entity's presence mask.
type QueryNode interface {
	Matches(s Schema, m mask.Mask) bool
	validate(s Schema) error
}

// store holds per-entity data for a single schema kind.
type store interface {
	// remove detaches the entity's payload, reporting whether anything was
	// removed. It never relocates other entities' payloads.
	remove(ent uint32) bool
}
