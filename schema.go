package depot

import (
	"github.com/TheBitDrifter/mask"
	"github.com/TheBitDrifter/table"
	"github.com/rotisserie/eris"
)

// Schema is the fixed, ordered set of component and tag kinds a manager
// recognizes. Bit indices are assigned once at construction; components and
// tags share a single index space so filters can mix them freely.
type Schema struct {
	inner   table.Schema
	kinds   []Kind
	indices map[Kind]uint32
	bits    []mask.Mask
	names   *kindCache
}

func newSchema(kinds ...Kind) (Schema, error) {
	s := Schema{
		inner:   table.Factory.NewSchema(),
		indices: make(map[Kind]uint32, len(kinds)),
		names:   newKindCache(len(kinds)),
	}
	for _, k := range kinds {
		if _, dup := s.indices[k]; dup {
			return Schema{}, eris.Wrapf(ErrSchemaViolation, "kind %s declared twice", k.Name())
		}
		s.inner.Register(k)
		idx := s.inner.RowIndexFor(k)
		s.indices[k] = idx
		for len(s.kinds) <= int(idx) {
			s.kinds = append(s.kinds, nil)
			s.bits = append(s.bits, mask.Mask{})
		}
		s.kinds[idx] = k
		var bit mask.Mask
		bit.Mark(idx)
		s.bits[idx] = bit
		if _, err := s.names.register(k.Name(), k); err != nil {
			return Schema{}, err
		}
	}
	return s, nil
}

// Size returns the number of declared kinds.
func (s Schema) Size() int { return len(s.indices) }

// KindNamed looks a declared kind up by its display name.
func (s Schema) KindNamed(name string) (Kind, bool) {
	return s.names.lookup(name)
}

func (s Schema) indexOf(k Kind) (uint32, error) {
	idx, ok := s.indices[k]
	if !ok {
		return 0, eris.Wrapf(ErrSchemaViolation, "kind %s is not part of the schema", k.Name())
	}
	return idx, nil
}

// requestMask folds the given kinds into a single presence mask.
func (s Schema) requestMask(kinds ...Kind) (mask.Mask, error) {
	var req mask.Mask
	for _, k := range kinds {
		idx, err := s.indexOf(k)
		if err != nil {
			return mask.Mask{}, err
		}
		req.Mark(idx)
	}
	return req, nil
}
