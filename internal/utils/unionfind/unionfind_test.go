package unionfind

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewCreatesSingletons(t *testing.T) {
	d := New[int](5)
	require.Equal(t, 5, d.Len())

	for i := 0; i < 5; i++ {
		require.Equal(t, i, d.Find(i))
		for j := i + 1; j < 5; j++ {
			require.False(t, d.Unioned(i, j))
		}
	}
}

func TestUnionMergesSets(t *testing.T) {
	d := New[int](4)

	require.True(t, d.Union(0, 1))
	require.True(t, d.Unioned(0, 1))
	require.False(t, d.Unioned(0, 2))

	// Merging already-merged keys is a no-op.
	require.False(t, d.Union(1, 0))
	require.True(t, d.Unioned(0, 1))
}

func TestUnionIsTransitive(t *testing.T) {
	d := New[int](6)
	d.Union(1, 2)
	d.Union(2, 3)

	require.True(t, d.Unioned(1, 3))
	require.False(t, d.Unioned(1, 4))

	d.Union(4, 5)
	d.Union(3, 4)
	require.True(t, d.Unioned(1, 5))
}

func TestUnionIsOrderIndependent(t *testing.T) {
	a := New[int](5)
	a.Union(0, 1)
	a.Union(2, 3)
	a.Union(1, 3)

	b := New[int](5)
	b.Union(1, 3)
	b.Union(3, 2)
	b.Union(1, 0)

	for i := 0; i < 5; i++ {
		for j := 0; j < 5; j++ {
			require.Equal(t, a.Unioned(i, j), b.Unioned(i, j), "keys %d and %d", i, j)
		}
	}
}

func TestFindCompressesPaths(t *testing.T) {
	d := New[int](8)
	for i := 0; i < 7; i++ {
		d.Union(i, i+1)
	}

	root := d.Find(7)
	for i := 0; i < 8; i++ {
		require.Equal(t, root, d.Find(i))
	}
}

func TestCustomIndexTypes(t *testing.T) {
	type local uint32

	d := New[local](3)
	d.Union(local(0), local(2))
	require.True(t, d.Unioned(local(2), local(0)))
	require.False(t, d.Unioned(local(1), local(2)))
}

func TestOutOfRangeKeyPanics(t *testing.T) {
	d := New[int](2)

	require.Panics(t, func() { d.Union(0, 2) })
	require.Panics(t, func() { d.Find(-1) })
}

func TestEmptyDomain(t *testing.T) {
	d := New[int](0)
	require.Equal(t, 0, d.Len())
}
