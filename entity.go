package depot

import (
	"github.com/rotisserie/eris"
)

// Entity is a caller-held handle to one identity. It owns nothing: the
// manager keeps all storage, and the handle carries just enough captured
// state (generation, structural version) to detect that its view has gone
// stale. Handles are refreshed by reassignment from a freshly obtained one;
// they never refresh silently.
type Entity struct {
	mgr     *Manager
	id      EntityID
	gen     uint32
	version uint64
}

// ID returns the entity's identity. Meaningful only for handles produced by
// a manager.
func (e Entity) ID() EntityID { return e.id }

// Status re-derives the handle's validity against the manager's current
// state.
func (e Entity) Status() Status {
	if e.mgr == nil {
		return StatusUninitialized
	}
	rec := e.mgr.record(e.id)
	if rec == nil || !rec.alive || rec.gen != e.gen {
		return StatusDeleted
	}
	if e.version != e.mgr.version {
		return StatusStale
	}
	return StatusOK
}

// Equal reports whether both handles refer to the same identity in the same
// manager, ignoring captured generation and version snapshots.
func (e Entity) Equal(other Entity) bool {
	return e.mgr != nil && e.mgr == other.mgr && e.id == other.id
}

// guard validates the handle before an accessor runs. Deleted and stale
// handles fail here rather than silently refreshing, so dangling-reference
// bugs surface at the call site.
func (e Entity) guard(op string) (*entityRecord, error) {
	if e.mgr == nil {
		return nil, eris.Wrap(ErrUninitializedEntity, op)
	}
	rec := e.mgr.record(e.id)
	if rec == nil || !rec.alive || rec.gen != e.gen {
		return nil, e.mgr.fail(eris.Wrapf(ErrInvalidEntity, "%s: entity %d", op, e.id))
	}
	if e.version != e.mgr.version {
		return nil, e.mgr.fail(eris.Wrapf(ErrStaleReference, "%s: entity %d", op, e.id))
	}
	return rec, nil
}

// HasComponent reports whether the entity currently holds the component
// kind. Pure presence-bit read; valid on any OK handle.
func (e Entity) HasComponent(k Kind) (bool, error) {
	rec, err := e.guard("has component " + k.Name())
	if err != nil {
		return false, err
	}
	idx, err := e.mgr.schema.indexOf(k)
	if err != nil {
		return false, e.mgr.fail(err)
	}
	if k.isTag() {
		return false, e.mgr.fail(eris.Wrapf(ErrSchemaViolation, "has component %s: kind is a tag", k.Name()))
	}
	return rec.mask.ContainsAll(e.mgr.schema.bits[idx]), nil
}

// RemoveComponent detaches the component kind, reporting whether anything
// was removed. Detaching never bumps the structural version.
func (e *Entity) RemoveComponent(k Kind) (bool, error) {
	rec, err := e.guard("remove component " + k.Name())
	if err != nil {
		return false, err
	}
	idx, err := e.mgr.schema.indexOf(k)
	if err != nil {
		return false, e.mgr.fail(err)
	}
	if k.isTag() {
		return false, e.mgr.fail(eris.Wrapf(ErrSchemaViolation, "remove component %s: kind is a tag", k.Name()))
	}
	if !rec.mask.ContainsAll(e.mgr.schema.bits[idx]) {
		return false, nil
	}
	e.mgr.stores[idx].remove(uint32(e.id))
	rec.mask.Unmark(idx)
	return true, nil
}

// HasTag reports whether the tag bit is set. Pure presence-bit read.
func (e Entity) HasTag(t Tag) (bool, error) {
	rec, err := e.guard("has tag " + t.name)
	if err != nil {
		return false, err
	}
	idx, err := e.mgr.schema.indexOf(t)
	if err != nil {
		return false, e.mgr.fail(err)
	}
	return rec.mask.ContainsAll(e.mgr.schema.bits[idx]), nil
}

// SetTag writes the tag bit and returns its previous value. Newly growing
// the tag's bit store bumps the structural version; the acting handle is
// refreshed so only other captured handles turn stale.
func (e *Entity) SetTag(t Tag, v bool) (bool, error) {
	rec, err := e.guard("set tag " + t.name)
	if err != nil {
		return false, err
	}
	idx, err := e.mgr.schema.indexOf(t)
	if err != nil {
		return false, e.mgr.fail(err)
	}
	ts := e.mgr.stores[idx].(*tagStore)
	prev, grew := ts.set(uint32(e.id), v)
	if v {
		rec.mask.Mark(idx)
	} else {
		rec.mask.Unmark(idx)
	}
	if grew {
		e.mgr.bumpVersion("tag store " + t.name + " grew")
		e.version = e.mgr.version
	}
	return prev, nil
}

// GetTag mirrors the column get protocol for tags: it fails with
// ErrTagNotFound when the bit is unset. Use HasTag when absence is an
// expected answer.
func (e Entity) GetTag(t Tag) error {
	set, err := e.HasTag(t)
	if err != nil {
		return err
	}
	if !set {
		return e.mgr.fail(eris.Wrapf(ErrTagNotFound, "get tag %s: entity %d", t.name, e.id))
	}
	return nil
}

// AddComponent attaches a value for kind c. If the entity already holds the
// kind, the existing value is returned unchanged and inserted is false.
// A newly inserting attach that grows the column's payload array bumps the
// structural version; the acting handle is refreshed.
func AddComponent[T any](e *Entity, c Component[T], value T) (ptr *T, inserted bool, err error) {
	rec, err := e.guard("add component " + c.name)
	if err != nil {
		return nil, false, err
	}
	idx, err := e.mgr.schema.indexOf(c)
	if err != nil {
		return nil, false, e.mgr.fail(err)
	}
	col := e.mgr.stores[idx].(*column[T])
	ptr, inserted, grew := col.attach(uint32(e.id), value)
	if inserted {
		rec.mask.Mark(idx)
		if grew {
			e.mgr.bumpVersion("column " + c.name + " grew")
			e.version = e.mgr.version
		}
	}
	return ptr, inserted, nil
}

// GetComponent returns a live reference to the entity's value for kind c,
// valid until the manager's next structural-version bump.
func GetComponent[T any](e Entity, c Component[T]) (*T, error) {
	rec, err := e.guard("get component " + c.name)
	if err != nil {
		return nil, err
	}
	idx, err := e.mgr.schema.indexOf(c)
	if err != nil {
		return nil, e.mgr.fail(err)
	}
	if !rec.mask.ContainsAll(e.mgr.schema.bits[idx]) {
		return nil, e.mgr.fail(eris.Wrapf(ErrComponentNotFound, "get component %s: entity %d", c.name, e.id))
	}
	return e.mgr.stores[idx].(*column[T]).get(uint32(e.id)), nil
}
