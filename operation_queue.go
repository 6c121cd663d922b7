package depot

import (
	"github.com/rotisserie/eris"
)

// Deferred work recorded while an iteration holds the manager lock. Flushed
// in order: creates, component ops, destroys.

type componentOp struct {
	id    EntityID
	gen   uint32
	apply func(*Manager) error
	dead  bool
}

type destroyOp struct {
	id  EntityID
	gen uint32
}

type pendKey struct {
	id   EntityID
	kind uint32
}

type opQueue struct {
	createCount    int
	componentOps   []componentOp
	destroyOps     []destroyOp
	pendingDestroy map[EntityID]struct{}
	pendingMods    map[pendKey]int
}

func newOpQueue() opQueue {
	return opQueue{
		pendingDestroy: make(map[EntityID]struct{}),
		pendingMods:    make(map[pendKey]int),
	}
}

func (q *opQueue) enqueueCreate(n int) {
	q.createCount += n
}

func (q *opQueue) enqueueDestroy(id EntityID, gen uint32) {
	if _, exists := q.pendingDestroy[id]; exists {
		return
	}
	q.pendingDestroy[id] = struct{}{}
	q.destroyOps = append(q.destroyOps, destroyOp{id: id, gen: gen})

	// Component ops on an entity queued for destruction are dropped.
	for key, idx := range q.pendingMods {
		if key.id == id {
			q.componentOps[idx].dead = true
			delete(q.pendingMods, key)
		}
	}
}

func (q *opQueue) enqueueComponentOp(id EntityID, gen uint32, kind uint32, apply func(*Manager) error) {
	if _, destroyed := q.pendingDestroy[id]; destroyed {
		return
	}
	key := pendKey{id: id, kind: kind}
	if idx, exists := q.pendingMods[key]; exists {
		// Last op for the same entity and kind wins.
		q.componentOps[idx].apply = apply
		return
	}
	q.pendingMods[key] = len(q.componentOps)
	q.componentOps = append(q.componentOps, componentOp{id: id, gen: gen, apply: apply})
}

func (q *opQueue) flush(m *Manager) error {
	if q.createCount == 0 && len(q.componentOps) == 0 && len(q.destroyOps) == 0 {
		return nil
	}

	for i := 0; i < q.createCount; i++ {
		if _, err := m.CreateEntity(); err != nil {
			return eris.Wrap(err, "queued entity creation")
		}
	}

	for _, op := range q.componentOps {
		if op.dead {
			continue
		}
		// Skip entities recycled since the op was queued.
		rec := m.record(op.id)
		if rec == nil || !rec.alive || rec.gen != op.gen {
			continue
		}
		if err := op.apply(m); err != nil {
			return eris.Wrap(err, "queued component op")
		}
	}

	for _, op := range q.destroyOps {
		rec := m.record(op.id)
		if rec == nil || !rec.alive || rec.gen != op.gen {
			continue
		}
		if err := m.DeleteEntity(m.handle(op.id)); err != nil {
			return eris.Wrap(err, "queued entity destruction")
		}
	}

	q.createCount = 0
	q.componentOps = q.componentOps[:0]
	q.destroyOps = q.destroyOps[:0]
	clear(q.pendingDestroy)
	clear(q.pendingMods)
	return nil
}

// EnqueueCreateEntities creates n entities immediately when the manager is
// unlocked, or defers the creation until the in-flight iteration completes.
func (m *Manager) EnqueueCreateEntities(n int) error {
	if !m.Locked() {
		_, err := m.CreateEntities(n)
		return err
	}
	m.opQueue.enqueueCreate(n)
	return nil
}

// EnqueueDeleteEntity deletes immediately when unlocked, or defers the
// deletion. Duplicate enqueues for the same identity collapse; entities
// recycled before the flush are skipped.
func (m *Manager) EnqueueDeleteEntity(e Entity) error {
	if e.mgr == nil {
		return m.fail(eris.Wrap(ErrInvalidEntity, "enqueue delete: uninitialized handle"))
	}
	if e.mgr != m {
		return m.fail(eris.Wrapf(ErrForeignEntity, "enqueue delete entity %d", e.id))
	}
	if !m.Locked() {
		return m.DeleteEntity(e)
	}
	m.opQueue.enqueueDestroy(e.id, e.gen)
	return nil
}

// EnqueueAddComponent attaches immediately when the manager is unlocked, or
// defers the attach. For each entity and kind the last queued op wins.
func EnqueueAddComponent[T any](e *Entity, c Component[T], value T) error {
	if e.mgr == nil {
		return eris.Wrap(ErrUninitializedEntity, "enqueue add component")
	}
	m := e.mgr
	if !m.Locked() {
		_, _, err := AddComponent(e, c, value)
		return err
	}
	idx, err := m.schema.indexOf(c)
	if err != nil {
		return m.fail(err)
	}
	id, gen := e.id, e.gen
	m.opQueue.enqueueComponentOp(id, gen, idx, func(m *Manager) error {
		eh := m.handle(id)
		_, _, err := AddComponent(&eh, c, value)
		return err
	})
	return nil
}

// EnqueueRemoveComponent detaches immediately when the manager is unlocked,
// or defers the detach.
func EnqueueRemoveComponent(e *Entity, k Kind) error {
	if e.mgr == nil {
		return eris.Wrap(ErrUninitializedEntity, "enqueue remove component")
	}
	m := e.mgr
	if !m.Locked() {
		_, err := e.RemoveComponent(k)
		return err
	}
	idx, err := m.schema.indexOf(k)
	if err != nil {
		return m.fail(err)
	}
	id, gen := e.id, e.gen
	m.opQueue.enqueueComponentOp(id, gen, idx, func(m *Manager) error {
		eh := m.handle(id)
		_, err := eh.RemoveComponent(k)
		return err
	})
	return nil
}
