package depot

import (
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/require"
)

func TestSchemaConstruction(t *testing.T) {
	schema, err := Factory.NewSchema(posComp, velComp, frozenTag)
	require.NoError(t, err)
	require.Equal(t, 3, schema.Size())
}

func TestSchemaDuplicateKind(t *testing.T) {
	_, err := Factory.NewSchema(posComp, posComp)
	require.True(t, eris.Is(err, ErrSchemaViolation))
}

func TestKindNamed(t *testing.T) {
	schema, err := Factory.NewSchema(posComp, velComp, frozenTag)
	require.NoError(t, err)

	k, ok := schema.KindNamed("Position")
	require.True(t, ok)
	require.Equal(t, "Position", k.Name())
	require.False(t, k.isTag())

	k, ok = schema.KindNamed("Frozen")
	require.True(t, ok)
	require.True(t, k.isTag())

	_, ok = schema.KindNamed("Nope")
	require.False(t, ok)
}

func TestKindCacheCapacity(t *testing.T) {
	c := newKindCache(1)
	_, err := c.register("Position", posComp)
	require.NoError(t, err)
	_, err = c.register("Velocity", velComp)
	require.True(t, eris.Is(err, ErrSchemaViolation))
}
