/*
Package depot provides an in-process entity-component runtime for games and simulations.

Depot associates opaque entity identities with typed component data and boolean
tags, and iterates efficiently over the subset of entities holding a given
combination of kinds. Component payloads live in per-kind columns; each entity
carries a presence bitmask describing which kinds it currently holds.

Core Concepts:

  - Entity: a handle to one identity, carrying cached validity information.
  - Component: a typed payload attachable to an entity, one value per kind.
  - Tag: a boolean flag kind with no payload.
  - Schema: the fixed set of component and tag kinds a manager recognizes.
  - Structural version: a counter that invalidates cached references after
    storage-relocating operations.

Basic Usage:

	// Define kinds
	position := depot.FactoryNewComponent[Position]()
	velocity := depot.FactoryNewComponent[Velocity]()
	frozen := depot.FactoryNewTag[Frozen]()

	// Create a manager from a fixed schema
	schema, _ := depot.Factory.NewSchema(position, velocity, frozen)
	mgr := depot.Factory.NewManager(schema)

	// Create entities and attach data
	ent, _ := mgr.CreateEntity()
	depot.AddComponent(&ent, position, Position{X: 10, Y: 20})
	depot.AddComponent(&ent, velocity, Velocity{X: 1, Y: 2})

	// Iterate entities holding both kinds
	depot.ForEach2(mgr, position, velocity,
		func(e depot.Entity, pos *Position, vel *Velocity, ctl *depot.Control) {
			pos.X += vel.X
			pos.Y += vel.Y
		})

Handles detect their own staleness: any operation that may relocate stored
payloads bumps the manager's structural version, and handles captured before
the bump report StatusStale until reassigned from a fresh handle. Deleted
identities are recycled with an incremented generation, so handles to the old
occupant report StatusDeleted rather than aliasing the new one.

The manager is single-threaded by design. Entity creation and deletion are
rejected while an iteration is in flight; use the Enqueue variants to defer
such work until the iteration completes.
*/
package depot
