// Package unionfind provides an array-backed disjoint-set over a dense
// index domain. The key space is fixed at construction; merges are
// monotonic and there is no split operation.
package unionfind

import "fmt"

// Key is any integer-like index type usable as a disjoint-set key.
type Key interface {
	~int | ~int32 | ~int64 | ~uint32 | ~uint64
}

// DisjointSet partitions the keys 0..n-1 into mergeable sets. It carries
// no per-set payload; only set identity matters. A DisjointSet is owned
// by a single writer and must not be shared across goroutines.
type DisjointSet[K Key] struct {
	parent []int32
	rank   []int8
}

// New creates n singleton sets indexed 0..n-1.
func New[K Key](n int) *DisjointSet[K] {
	parent := make([]int32, n)
	for i := range parent {
		parent[i] = int32(i)
	}
	return &DisjointSet[K]{
		parent: parent,
		rank:   make([]int8, n),
	}
}

// Len returns the size of the key space.
func (d *DisjointSet[K]) Len() int {
	return len(d.parent)
}

// Find returns the representative of x's set, compressing the path on
// the way. Amortized near-constant.
func (d *DisjointSet[K]) Find(x K) K {
	root := d.findRoot(d.index(x))
	return K(root)
}

// Union merges the sets containing a and b. It is idempotent and
// order-independent; the return value reports whether a merge happened.
func (d *DisjointSet[K]) Union(a, b K) bool {
	ra := d.findRoot(d.index(a))
	rb := d.findRoot(d.index(b))
	if ra == rb {
		return false
	}

	// Union by rank keeps the forest shallow.
	switch {
	case d.rank[ra] < d.rank[rb]:
		d.parent[ra] = rb
	case d.rank[ra] > d.rank[rb]:
		d.parent[rb] = ra
	default:
		d.parent[rb] = ra
		d.rank[ra]++
	}
	return true
}

// Unioned reports whether a and b are currently in the same set.
func (d *DisjointSet[K]) Unioned(a, b K) bool {
	return d.findRoot(d.index(a)) == d.findRoot(d.index(b))
}

func (d *DisjointSet[K]) findRoot(x int32) int32 {
	// Path halving: point every other node at its grandparent.
	for d.parent[x] != x {
		d.parent[x] = d.parent[d.parent[x]]
		x = d.parent[x]
	}
	return x
}

func (d *DisjointSet[K]) index(x K) int32 {
	i := int64(x)
	if i < 0 || i >= int64(len(d.parent)) {
		panic(fmt.Sprintf("unionfind: key %d out of range [0, %d)", i, len(d.parent)))
	}
	return int32(i)
}
