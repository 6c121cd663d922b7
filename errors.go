package depot

import (
	"github.com/rotisserie/eris"
)

var (
	ErrForeignEntity       = eris.New("entity belongs to a different manager")
	ErrInvalidEntity       = eris.New("entity is dead, unallocated, or recycled")
	ErrStaleReference      = eris.New("entity reference is stale")
	ErrComponentNotFound   = eris.New("component not on entity")
	ErrTagNotFound         = eris.New("tag not on entity")
	ErrSchemaViolation     = eris.New("kind not declared in the manager's schema")
	ErrLockedManager       = eris.New("manager is locked by an in-flight iteration")
	ErrUninitializedEntity = eris.New("entity handle has no manager")
	ErrEntityNotFound      = eris.New("no entity matches the request")
)

// PanicPolicy aborts the caller on any contract violation by panicking with
// the wrapped error.
type PanicPolicy struct{}

func (PanicPolicy) Report(err error) error {
	panic(err)
}

// CallbackPolicy forwards violations to Handler and surfaces the same error
// as a return value, so callers branch on results instead of recovering.
type CallbackPolicy struct {
	Handler func(err error)
}

func (p CallbackPolicy) Report(err error) error {
	if p.Handler != nil {
		p.Handler(err)
	}
	return err
}
