package depot

import (
	"iter"

	"github.com/TheBitDrifter/mask"
	iter_util "github.com/TheBitDrifter/util/iter"
	"github.com/rotisserie/eris"
)

// scan walks live records in ascending identity order, visiting every entity
// whose presence mask satisfies match. The manager is locked for the
// duration; deferred operations flush when the outermost scan unlocks.
func (m *Manager) scan(match func(mask.Mask) bool, visit func(Entity, *Control)) (err error) {
	m.lock()
	defer func() {
		ferr := m.unlock()
		if err == nil {
			err = ferr
		}
	}()
	var ctl Control
	for i := range m.records {
		rec := &m.records[i]
		if !rec.alive || !match(rec.mask) {
			continue
		}
		visit(m.handle(EntityID(i)), &ctl)
		if ctl.Breakout {
			break
		}
	}
	return nil
}

func (m *Manager) scanRequest(req mask.Mask, visit func(Entity, *Control)) error {
	return m.scan(func(mk mask.Mask) bool { return mk.ContainsAll(req) }, visit)
}

// ForEach invokes fn once per live entity holding every requested kind, in
// ascending identity order. An empty request visits every live entity.
// Setting Control.Breakout stops the iteration after the current call.
func (m *Manager) ForEach(fn func(Entity, *Control), kinds ...Kind) error {
	req, err := m.schema.requestMask(kinds...)
	if err != nil {
		return m.fail(err)
	}
	return m.scanRequest(req, fn)
}

// GetEntities returns a snapshot of handles to every live entity holding all
// requested kinds. Later structural changes may turn entries stale but do
// not change the returned slice.
func (m *Manager) GetEntities(kinds ...Kind) ([]Entity, error) {
	req, err := m.schema.requestMask(kinds...)
	if err != nil {
		return nil, m.fail(err)
	}
	out := []Entity{}
	err = m.scanRequest(req, func(e Entity, _ *Control) {
		out = append(out, e)
	})
	return out, err
}

// Entities returns a range-able sequence over the matching entities.
// Undeclared kinds are reported through the error policy and yield nothing.
func (m *Manager) Entities(kinds ...Kind) iter.Seq[Entity] {
	return func(yield func(Entity) bool) {
		req, err := m.schema.requestMask(kinds...)
		if err != nil {
			m.fail(err)
			return
		}
		m.scanRequest(req, func(e Entity, ctl *Control) {
			if !yield(e) {
				ctl.Breakout = true
			}
		})
	}
}

// Count returns the number of live entities holding all requested kinds.
func (m *Manager) Count(kinds ...Kind) (int, error) {
	req, err := m.schema.requestMask(kinds...)
	if err != nil {
		return 0, m.fail(err)
	}
	n := 0
	err = m.scanRequest(req, func(Entity, *Control) { n++ })
	return n, err
}

// First returns the lowest-identity entity holding all requested kinds, or
// ErrEntityNotFound. The miss is an expected answer and bypasses the error
// policy.
func (m *Manager) First(kinds ...Kind) (Entity, error) {
	req, err := m.schema.requestMask(kinds...)
	if err != nil {
		return Entity{}, m.fail(err)
	}
	var found Entity
	var ok bool
	err = m.scanRequest(req, func(e Entity, ctl *Control) {
		found, ok = e, true
		ctl.Breakout = true
	})
	if err != nil {
		return Entity{}, err
	}
	if !ok {
		return Entity{}, eris.Wrap(ErrEntityNotFound, "first")
	}
	return found, nil
}

// ForEachMatching runs fn over entities matched by a composed query node.
func (m *Manager) ForEachMatching(node QueryNode, fn func(Entity, *Control)) error {
	if err := node.validate(m.schema); err != nil {
		return m.fail(err)
	}
	return m.scan(func(mk mask.Mask) bool { return node.Matches(m.schema, mk) }, fn)
}

// EntitiesMatching is the sequence form of ForEachMatching.
func (m *Manager) EntitiesMatching(node QueryNode) iter.Seq[Entity] {
	return func(yield func(Entity) bool) {
		if err := node.validate(m.schema); err != nil {
			m.fail(err)
			return
		}
		m.scan(func(mk mask.Mask) bool { return node.Matches(m.schema, mk) }, func(e Entity, ctl *Control) {
			if !yield(e) {
				ctl.Breakout = true
			}
		})
	}
}

// GetEntitiesMatching materializes EntitiesMatching into a snapshot.
func (m *Manager) GetEntitiesMatching(node QueryNode) ([]Entity, error) {
	if err := node.validate(m.schema); err != nil {
		return nil, m.fail(err)
	}
	return iter_util.Collect(m.EntitiesMatching(node)), nil
}

// ForEach1 visits entities holding component A plus any extra kinds, passing
// a live reference to the A payload. Extra kinds filter only.
func ForEach1[A any](m *Manager, ca Component[A], fn func(Entity, *A, *Control), extra ...Kind) error {
	req, colA, err := arityRequest(m, ca, extra)
	if err != nil {
		return err
	}
	return m.scanRequest(req, func(e Entity, ctl *Control) {
		fn(e, colA.get(uint32(e.id)), ctl)
	})
}

// ForEach2 is ForEach1 for two component kinds.
func ForEach2[A, B any](m *Manager, ca Component[A], cb Component[B], fn func(Entity, *A, *B, *Control), extra ...Kind) error {
	req, colA, err := arityRequest(m, ca, extra)
	if err != nil {
		return err
	}
	colB, err := arityColumn(m, cb, &req)
	if err != nil {
		return err
	}
	return m.scanRequest(req, func(e Entity, ctl *Control) {
		fn(e, colA.get(uint32(e.id)), colB.get(uint32(e.id)), ctl)
	})
}

// ForEach3 is ForEach1 for three component kinds.
func ForEach3[A, B, C any](m *Manager, ca Component[A], cb Component[B], cc Component[C], fn func(Entity, *A, *B, *C, *Control), extra ...Kind) error {
	req, colA, err := arityRequest(m, ca, extra)
	if err != nil {
		return err
	}
	colB, err := arityColumn(m, cb, &req)
	if err != nil {
		return err
	}
	colC, err := arityColumn(m, cc, &req)
	if err != nil {
		return err
	}
	return m.scanRequest(req, func(e Entity, ctl *Control) {
		fn(e, colA.get(uint32(e.id)), colB.get(uint32(e.id)), colC.get(uint32(e.id)), ctl)
	})
}

// ForEach4 is ForEach1 for four component kinds.
func ForEach4[A, B, C, D any](m *Manager, ca Component[A], cb Component[B], cc Component[C], cd Component[D], fn func(Entity, *A, *B, *C, *D, *Control), extra ...Kind) error {
	req, colA, err := arityRequest(m, ca, extra)
	if err != nil {
		return err
	}
	colB, err := arityColumn(m, cb, &req)
	if err != nil {
		return err
	}
	colC, err := arityColumn(m, cc, &req)
	if err != nil {
		return err
	}
	colD, err := arityColumn(m, cd, &req)
	if err != nil {
		return err
	}
	return m.scanRequest(req, func(e Entity, ctl *Control) {
		fn(e, colA.get(uint32(e.id)), colB.get(uint32(e.id)), colC.get(uint32(e.id)), colD.get(uint32(e.id)), ctl)
	})
}

func arityRequest[A any](m *Manager, ca Component[A], extra []Kind) (mask.Mask, *column[A], error) {
	req, err := m.schema.requestMask(extra...)
	if err != nil {
		return mask.Mask{}, nil, m.fail(err)
	}
	col, err := arityColumn(m, ca, &req)
	if err != nil {
		return mask.Mask{}, nil, err
	}
	return req, col, nil
}

func arityColumn[T any](m *Manager, c Component[T], req *mask.Mask) (*column[T], error) {
	idx, err := m.schema.indexOf(c)
	if err != nil {
		return nil, m.fail(err)
	}
	req.Mark(idx)
	return m.stores[idx].(*column[T]), nil
}
