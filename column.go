package depot

const noSlot = int32(-1)

// column stores payloads for one component kind: a sparse entity-index table
// pointing into a dense payload array. Detached slots go on a hole free-list
// and are reused before the payload array grows, so detaching one entity
// never relocates another entity's payload.
type column[T any] struct {
	sparse  []int32
	payload []T
	free    []int32
}

// attach inserts v for ent if absent. It returns a pointer to the stored
// value, whether it was newly inserted, and whether the payload array was
// reallocated by the insert.
func (c *column[T]) attach(ent uint32, v T) (ptr *T, inserted, grew bool) {
	c.ensure(ent)
	if slot := c.sparse[ent]; slot != noSlot {
		return &c.payload[slot], false, false
	}
	if n := len(c.free); n > 0 {
		slot := c.free[n-1]
		c.free = c.free[:n-1]
		c.payload[slot] = v
		c.sparse[ent] = slot
		return &c.payload[slot], true, false
	}
	prevCap := cap(c.payload)
	c.payload = append(c.payload, v)
	slot := int32(len(c.payload) - 1)
	c.sparse[ent] = slot
	return &c.payload[slot], true, cap(c.payload) != prevCap
}

func (c *column[T]) get(ent uint32) *T {
	if int(ent) >= len(c.sparse) {
		return nil
	}
	slot := c.sparse[ent]
	if slot == noSlot {
		return nil
	}
	return &c.payload[slot]
}

func (c *column[T]) remove(ent uint32) bool {
	if int(ent) >= len(c.sparse) {
		return false
	}
	slot := c.sparse[ent]
	if slot == noSlot {
		return false
	}
	var zero T
	c.payload[slot] = zero
	c.sparse[ent] = noSlot
	c.free = append(c.free, slot)
	return true
}

func (c *column[T]) ensure(ent uint32) {
	for len(c.sparse) <= int(ent) {
		c.sparse = append(c.sparse, noSlot)
	}
}

// tagStore is the column protocol specialized to a one-bit payload.
type tagStore struct {
	bits []uint64
}

// set writes the bit for ent, returning the previous value and whether the
// bit array was reallocated.
func (t *tagStore) set(ent uint32, v bool) (prev, grew bool) {
	word, bit := ent/64, ent%64
	if int(word) >= len(t.bits) {
		if !v {
			return false, false
		}
		prevCap := cap(t.bits)
		for len(t.bits) <= int(word) {
			t.bits = append(t.bits, 0)
		}
		grew = cap(t.bits) != prevCap
	}
	prev = t.bits[word]&(1<<bit) != 0
	if v {
		t.bits[word] |= 1 << bit
	} else {
		t.bits[word] &^= 1 << bit
	}
	return prev, grew
}

func (t *tagStore) remove(ent uint32) bool {
	prev, _ := t.set(ent, false)
	return prev
}
