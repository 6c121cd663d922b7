package depot

import "github.com/rotisserie/eris"

// kindCache maps display names to kind tokens for logging and error
// messages. Capacity is fixed at schema size.
type kindCache struct {
	kinds       []Kind
	indices     map[string]int
	maxCapacity int
}

func newKindCache(cap int) *kindCache {
	return &kindCache{
		indices:     make(map[string]int, cap),
		maxCapacity: cap,
	}
}

func (c *kindCache) register(name string, k Kind) (int, error) {
	if len(c.indices) >= c.maxCapacity {
		return -1, eris.Wrapf(ErrSchemaViolation, "kind cache at maximum capacity (%d)", c.maxCapacity)
	}
	idx := len(c.kinds)
	c.indices[name] = idx
	c.kinds = append(c.kinds, k)
	return idx, nil
}

func (c *kindCache) lookup(name string) (Kind, bool) {
	idx, ok := c.indices[name]
	if !ok {
		return nil, false
	}
	return c.kinds[idx], true
}
