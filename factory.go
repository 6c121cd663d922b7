package depot

import (
	"reflect"

	"github.com/TheBitDrifter/table"
)

type factory struct{}

var Factory factory

func (f factory) NewSchema(kinds ...Kind) (Schema, error) {
	return newSchema(kinds...)
}

func (f factory) NewManager(schema Schema, opts ...Option) *Manager {
	return newManager(schema, opts...)
}

func (f factory) NewQuery() *Query {
	return newQuery()
}

func FactoryNewComponent[T any]() Component[T] {
	return Component[T]{
		ElementType: table.FactoryNewElementType[T](),
		name:        reflect.TypeFor[T]().Name(),
	}
}

func FactoryNewTag[T any]() Tag {
	return Tag{
		ElementType: table.FactoryNewElementType[T](),
		name:        reflect.TypeFor[T]().Name(),
	}
}
