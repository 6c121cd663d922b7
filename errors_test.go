package depot

import (
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/require"
)

func TestPanicPolicy(t *testing.T) {
	schema, err := Factory.NewSchema(posComp, healthComp)
	require.NoError(t, err)
	em := Factory.NewManager(schema)

	ent, err := em.CreateEntity()
	require.NoError(t, err)

	require.Panics(t, func() {
		_, _ = GetComponent(ent, healthComp)
	})
	require.Panics(t, func() {
		_ = em.DeleteEntity(Entity{mgr: em, id: 99})
	})
}

func TestCallbackPolicy(t *testing.T) {
	var reported []error
	em := newTestManager(t, WithErrorPolicy(CallbackPolicy{Handler: func(err error) {
		reported = append(reported, err)
	}}))

	ent, err := em.CreateEntity()
	require.NoError(t, err)

	_, err = GetComponent(ent, healthComp)
	require.Error(t, err)
	require.Len(t, reported, 1)
	require.Same(t, reported[0], err)
	require.True(t, eris.Is(err, ErrComponentNotFound))

	// Uninitialized handles fail before any manager is known, so nothing
	// reaches the policy.
	var zero Entity
	_, err = GetComponent(zero, healthComp)
	require.True(t, eris.Is(err, ErrUninitializedEntity))
	require.Len(t, reported, 1)
}

func TestUndeclaredKind(t *testing.T) {
	schema, err := Factory.NewSchema(posComp)
	require.NoError(t, err)
	em := Factory.NewManager(schema, WithErrorPolicy(CallbackPolicy{}))

	ent, err := em.CreateEntity()
	require.NoError(t, err)

	_, err = ent.HasComponent(velComp)
	require.True(t, eris.Is(err, ErrSchemaViolation))
	_, _, err = AddComponent(&ent, velComp, Velocity{})
	require.True(t, eris.Is(err, ErrSchemaViolation))
	_, err = ent.SetTag(frozenTag, true)
	require.True(t, eris.Is(err, ErrSchemaViolation))

	_, err = em.GetEntities(velComp)
	require.True(t, eris.Is(err, ErrSchemaViolation))
	_, err = em.Count(frozenTag)
	require.True(t, eris.Is(err, ErrSchemaViolation))
}

func TestDistinctTokensOfSameType(t *testing.T) {
	// Declaration is by token identity, not by Go type.
	otherPos := FactoryNewComponent[Position]()
	schema, err := Factory.NewSchema(posComp)
	require.NoError(t, err)
	em := Factory.NewManager(schema, WithErrorPolicy(CallbackPolicy{}))

	ent, err := em.CreateEntity()
	require.NoError(t, err)
	_, _, err = AddComponent(&ent, otherPos, Position{})
	require.True(t, eris.Is(err, ErrSchemaViolation))
}

func TestComponentAndTagMisuse(t *testing.T) {
	em := newTestManager(t)
	ent, err := em.CreateEntity()
	require.NoError(t, err)

	// Tag kinds have no payload and are rejected by component accessors.
	_, err = ent.HasComponent(frozenTag)
	require.True(t, eris.Is(err, ErrSchemaViolation))
	_, err = ent.RemoveComponent(frozenTag)
	require.True(t, eris.Is(err, ErrSchemaViolation))
}
