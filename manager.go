package depot

import (
	"github.com/TheBitDrifter/mask"
	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"
)

type entityRecord struct {
	gen   uint32
	alive bool
	mask  mask.Mask
}

// Manager owns the entity table, the per-kind stores, and the structural
// version counter. It is single-threaded; see the package documentation.
type Manager struct {
	schema    Schema
	records   []entityRecord
	free      []EntityID
	version   uint64
	stores    []store
	lockDepth int
	opQueue   opQueue
	policy    ErrorPolicy
	log       zerolog.Logger
}

func newManager(schema Schema, opts ...Option) *Manager {
	m := &Manager{
		schema:  schema,
		opQueue: newOpQueue(),
		policy:  PanicPolicy{},
		log:     zerolog.Nop(),
	}
	m.stores = make([]store, len(schema.kinds))
	for i, k := range schema.kinds {
		if k != nil {
			m.stores[i] = k.newStore()
		}
	}
	for _, opt := range opts {
		opt(m)
	}
	m.log.Debug().Int("kinds", schema.Size()).Msg("manager constructed")
	return m
}

// CreateEntity allocates a live entity, recycling a dead slot when one is
// available. Recycling increments the slot's generation; appending a slot
// that reallocates the record table bumps the structural version.
func (m *Manager) CreateEntity() (Entity, error) {
	if m.Locked() {
		return Entity{}, m.fail(eris.Wrap(ErrLockedManager, "create entity"))
	}
	var id EntityID
	if n := len(m.free); n > 0 {
		id = m.free[n-1]
		m.free = m.free[:n-1]
		rec := &m.records[id]
		rec.gen++
		rec.alive = true
		rec.mask = mask.Mask{}
	} else {
		id = EntityID(len(m.records))
		prevCap := cap(m.records)
		m.records = append(m.records, entityRecord{alive: true})
		if cap(m.records) != prevCap {
			m.bumpVersion("record table grew")
		}
	}
	m.log.Debug().Uint32("entity", uint32(id)).Msg("entity created")
	return m.handle(id), nil
}

// CreateEntities allocates n live entities.
func (m *Manager) CreateEntities(n int) ([]Entity, error) {
	out := make([]Entity, 0, n)
	for i := 0; i < n; i++ {
		e, err := m.CreateEntity()
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}

// DeleteEntity marks the entity's slot dead and releases its column slots.
// The generation is incremented when the slot is next recycled, not here.
// A failed delete leaves the manager untouched.
func (m *Manager) DeleteEntity(e Entity) error {
	if m.Locked() {
		return m.fail(eris.Wrap(ErrLockedManager, "delete entity"))
	}
	if e.mgr == nil {
		return m.fail(eris.Wrap(ErrInvalidEntity, "delete entity: uninitialized handle"))
	}
	if e.mgr != m {
		return m.fail(eris.Wrapf(ErrForeignEntity, "delete entity %d", e.id))
	}
	rec := m.record(e.id)
	if rec == nil || !rec.alive || rec.gen != e.gen {
		return m.fail(eris.Wrapf(ErrInvalidEntity, "delete entity %d: already dead or recycled", e.id))
	}
	for idx, st := range m.stores {
		if st == nil {
			continue
		}
		if rec.mask.ContainsAll(m.schema.bits[idx]) {
			st.remove(uint32(e.id))
		}
	}
	rec.alive = false
	rec.mask = mask.Mask{}
	m.free = append(m.free, e.id)
	m.log.Debug().Uint32("entity", uint32(e.id)).Msg("entity deleted")
	return nil
}

// Schema returns the manager's schema.
func (m *Manager) Schema() Schema { return m.schema }

// Locked reports whether an iteration is in flight.
func (m *Manager) Locked() bool { return m.lockDepth > 0 }

func (m *Manager) handle(id EntityID) Entity {
	return Entity{mgr: m, id: id, gen: m.records[id].gen, version: m.version}
}

func (m *Manager) record(id EntityID) *entityRecord {
	if int(id) >= len(m.records) {
		return nil
	}
	return &m.records[id]
}

func (m *Manager) bumpVersion(reason string) {
	m.version++
	m.log.Debug().Uint64("version", m.version).Str("reason", reason).Msg("structural version bumped")
}

func (m *Manager) fail(err error) error {
	return m.policy.Report(err)
}

func (m *Manager) lock() {
	m.lockDepth++
}

func (m *Manager) unlock() error {
	m.lockDepth--
	if m.lockDepth > 0 {
		return nil
	}
	// Deferred ops report through the policy themselves; wrap without
	// reporting twice.
	if err := m.opQueue.flush(m); err != nil {
		return eris.Wrap(err, "flushing deferred operations")
	}
	return nil
}
