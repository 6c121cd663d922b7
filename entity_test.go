package depot

import (
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test component types
type Position struct {
	X, Y float64
}

type Velocity struct {
	X, Y float64
}

type Health struct {
	Current, Max int
}

type Name struct {
	Value string
}

// Test tag marker types
type Frozen struct{}

type Burning struct{}

type Marked struct{}

var (
	posComp    = FactoryNewComponent[Position]()
	velComp    = FactoryNewComponent[Velocity]()
	healthComp = FactoryNewComponent[Health]()
	nameComp   = FactoryNewComponent[Name]()
	frozenTag  = FactoryNewTag[Frozen]()
	burningTag = FactoryNewTag[Burning]()
	markedTag  = FactoryNewTag[Marked]()
)

func newTestManager(t *testing.T, opts ...Option) *Manager {
	t.Helper()
	schema, err := Factory.NewSchema(posComp, velComp, healthComp, nameComp, frozenTag, burningTag, markedTag)
	require.NoError(t, err)
	opts = append([]Option{WithErrorPolicy(CallbackPolicy{})}, opts...)
	return Factory.NewManager(schema, opts...)
}

func TestUninitializedHandle(t *testing.T) {
	var ent Entity
	require.Equal(t, StatusUninitialized, ent.Status())

	_, err := GetComponent(ent, posComp)
	require.True(t, eris.Is(err, ErrUninitializedEntity))

	_, _, err = AddComponent(&ent, posComp, Position{})
	require.True(t, eris.Is(err, ErrUninitializedEntity))

	_, err = ent.RemoveComponent(posComp)
	require.True(t, eris.Is(err, ErrUninitializedEntity))

	_, err = ent.HasComponent(posComp)
	require.True(t, eris.Is(err, ErrUninitializedEntity))

	_, err = ent.HasTag(frozenTag)
	require.True(t, eris.Is(err, ErrUninitializedEntity))

	_, err = ent.SetTag(frozenTag, true)
	require.True(t, eris.Is(err, ErrUninitializedEntity))
}

func TestComponentLifecycle(t *testing.T) {
	em := newTestManager(t)
	ent, err := em.CreateEntity()
	require.NoError(t, err)
	require.Equal(t, StatusOK, ent.Status())

	for _, k := range []Kind{posComp, velComp, healthComp} {
		has, err := ent.HasComponent(k)
		require.NoError(t, err)
		assert.False(t, has)
	}
	_, err = GetComponent(ent, healthComp)
	require.True(t, eris.Is(err, ErrComponentNotFound))

	ptr, inserted, err := AddComponent(&ent, healthComp, Health{Current: 3, Max: 10})
	require.NoError(t, err)
	require.True(t, inserted)
	require.Equal(t, 3, ptr.Current)

	// Attach is idempotent: the second add returns the original value.
	ptr2, inserted2, err := AddComponent(&ent, healthComp, Health{Current: 5, Max: 99})
	require.NoError(t, err)
	require.False(t, inserted2)
	require.Equal(t, 3, ptr2.Current)
	require.Same(t, ptr, ptr2)

	has, err := ent.HasComponent(healthComp)
	require.NoError(t, err)
	require.True(t, has)

	_, _, err = AddComponent(&ent, nameComp, Name{Value: "test"})
	require.NoError(t, err)
	got, err := GetComponent(ent, nameComp)
	require.NoError(t, err)
	require.Equal(t, "test", got.Value)

	// Live references write through.
	hp, err := GetComponent(ent, healthComp)
	require.NoError(t, err)
	hp.Current = 5
	hp2, err := GetComponent(ent, healthComp)
	require.NoError(t, err)
	require.Equal(t, 5, hp2.Current)

	removed, err := ent.RemoveComponent(healthComp)
	require.NoError(t, err)
	require.True(t, removed)
	has, err = ent.HasComponent(healthComp)
	require.NoError(t, err)
	require.False(t, has)
	_, err = GetComponent(ent, healthComp)
	require.True(t, eris.Is(err, ErrComponentNotFound))

	removed, err = ent.RemoveComponent(healthComp)
	require.NoError(t, err)
	require.False(t, removed)

	has, err = ent.HasComponent(nameComp)
	require.NoError(t, err)
	require.True(t, has)
}

func TestTags(t *testing.T) {
	em := newTestManager(t)
	ent, err := em.CreateEntity()
	require.NoError(t, err)

	for _, tag := range []Tag{frozenTag, burningTag, markedTag} {
		has, err := ent.HasTag(tag)
		require.NoError(t, err)
		assert.False(t, has)
	}

	prev, err := ent.SetTag(frozenTag, true)
	require.NoError(t, err)
	require.False(t, prev)
	prev, err = ent.SetTag(frozenTag, true)
	require.NoError(t, err)
	require.True(t, prev)

	has, err := ent.HasTag(frozenTag)
	require.NoError(t, err)
	require.True(t, has)
	has, err = ent.HasTag(burningTag)
	require.NoError(t, err)
	require.False(t, has)

	// A copy taken now sees the same bits.
	entCopy := ent
	has, err = entCopy.HasTag(frozenTag)
	require.NoError(t, err)
	require.True(t, has)
	has, err = entCopy.HasTag(burningTag)
	require.NoError(t, err)
	require.False(t, has)

	prev, err = ent.SetTag(frozenTag, false)
	require.NoError(t, err)
	require.True(t, prev)
	has, err = ent.HasTag(frozenTag)
	require.NoError(t, err)
	require.False(t, has)

	err = ent.GetTag(frozenTag)
	require.True(t, eris.Is(err, ErrTagNotFound))
}

func TestGetTag(t *testing.T) {
	em := newTestManager(t)
	ent, err := em.CreateEntity()
	require.NoError(t, err)

	err = ent.GetTag(markedTag)
	require.True(t, eris.Is(err, ErrTagNotFound))

	_, err = ent.SetTag(markedTag, true)
	require.NoError(t, err)
	require.NoError(t, ent.GetTag(markedTag))
}

func TestStaleHandle(t *testing.T) {
	em := newTestManager(t)
	ent, err := em.CreateEntity()
	require.NoError(t, err)
	require.Equal(t, StatusOK, ent.Status())

	entCopy := ent
	_, _, err = AddComponent(&ent, healthComp, Health{Current: 3})
	require.NoError(t, err)

	// The first attach grew the health column, so the copy captured before
	// it is stale while the acting handle stays fresh.
	require.Equal(t, StatusOK, ent.Status())
	require.Equal(t, StatusStale, entCopy.Status())

	_, err = GetComponent(entCopy, healthComp)
	require.True(t, eris.Is(err, ErrStaleReference))
	_, err = entCopy.SetTag(frozenTag, true)
	require.True(t, eris.Is(err, ErrStaleReference))

	// Reassignment from a fresh handle recovers.
	entCopy = ent
	require.Equal(t, StatusOK, entCopy.Status())

	_, err = ent.SetTag(frozenTag, true)
	require.NoError(t, err)
	require.Equal(t, StatusStale, entCopy.Status())
	_, err = entCopy.SetTag(frozenTag, true)
	require.True(t, eris.Is(err, ErrStaleReference))

	// Recovery through a fresh query result restores data visibility.
	handles, err := em.GetEntities()
	require.NoError(t, err)
	require.Len(t, handles, 1)
	entCopy = handles[0]
	require.Equal(t, StatusOK, entCopy.Status())
	has, err := entCopy.HasComponent(healthComp)
	require.NoError(t, err)
	require.True(t, has)
}

func TestDeletedHandle(t *testing.T) {
	em := newTestManager(t)
	ent, err := em.CreateEntity()
	require.NoError(t, err)

	require.NoError(t, em.DeleteEntity(ent))
	require.Equal(t, StatusDeleted, ent.Status())

	_, err = GetComponent(ent, posComp)
	require.True(t, eris.Is(err, ErrInvalidEntity))
	_, err = ent.HasComponent(posComp)
	require.True(t, eris.Is(err, ErrInvalidEntity))

	handles, err := em.GetEntities()
	require.NoError(t, err)
	require.Empty(t, handles)

	// Recycling the slot leaves the old handle permanently deleted.
	fresh, err := em.CreateEntity()
	require.NoError(t, err)
	require.Equal(t, ent.ID(), fresh.ID())
	require.Equal(t, StatusDeleted, ent.Status())
	require.Equal(t, StatusOK, fresh.Status())
}

func TestHandleEquality(t *testing.T) {
	em := newTestManager(t, WithInitialCapacity(4))
	em2 := newTestManager(t)

	e1, err := em.CreateEntity()
	require.NoError(t, err)
	e2, err := em.CreateEntity()
	require.NoError(t, err)

	// Snapshots with different captured versions still compare equal.
	e1Copy := e1
	_, _, err = AddComponent(&e1, posComp, Position{})
	require.NoError(t, err)
	require.Equal(t, StatusStale, e1Copy.Status())
	require.True(t, e1.Equal(e1Copy))

	require.False(t, e1.Equal(e2))

	// Numerically coincident identities in another manager are not equal.
	f1, err := em2.CreateEntity()
	require.NoError(t, err)
	require.Equal(t, e1.ID(), f1.ID())
	require.False(t, e1.Equal(f1))

	var zero Entity
	require.False(t, zero.Equal(zero))
	require.False(t, e1.Equal(zero))
}
