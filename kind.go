package depot

import (
	"github.com/TheBitDrifter/table"
)

// Component is the kind token for payload type T. Tokens are identities:
// create one per kind, typically as a package-level variable, and pass the
// same token to the schema and to every accessor.
type Component[T any] struct {
	table.ElementType
	name string
}

// Name returns the display name of the payload type.
func (c Component[T]) Name() string { return c.name }

func (Component[T]) isTag() bool { return false }

func (Component[T]) newStore() store { return &column[T]{} }

// Tag is the kind token for a boolean flag with no payload.
type Tag struct {
	table.ElementType
	name string
}

// Name returns the display name of the tag's marker type.
func (t Tag) Name() string { return t.name }

func (Tag) isTag() bool { return true }

func (Tag) newStore() store { return &tagStore{} }
