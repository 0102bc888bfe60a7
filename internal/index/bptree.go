// Package index provides the equality index used for point lookups on a
// single dataset column.
package index

import (
	"github.com/tabula/tabula/pkg/types"
)

// order is the node fan-out. A node that reaches this many keys splits.
const order = 4

// node is a B+ tree node. Internal nodes carry len(keys)+1 child links;
// leaf nodes carry one row-position list per key plus a forward link to the
// next leaf for ordered scans.
type node struct {
	leaf     bool
	keys     []any
	children []*node
	postings [][]int
	next     *node
}

// BPlusTree maps the distinct values of one column to the row positions
// holding them at build time. It supports inserts and exact-match search
// only; an invalidated tree is discarded wholesale, never repaired.
type BPlusTree struct {
	typ  types.ScalarType
	root *node
}

// New creates an empty tree keyed by the given scalar type's ordering.
func New(typ types.ScalarType) *BPlusTree {
	return &BPlusTree{
		typ:  typ,
		root: &node{leaf: true},
	}
}

// pathEntry records one step of the descent so splits can propagate upward.
type pathEntry struct {
	n   *node
	idx int
}

// Insert adds a (key, row position) pair. Positions inserted in row order
// for an equal key accumulate on the same posting list in that order.
func (t *BPlusTree) Insert(key any, pos int) {
	n := t.root
	var path []pathEntry
	for !n.leaf {
		idx := t.findChild(n.keys, key)
		path = append(path, pathEntry{n, idx})
		n = n.children[idx]
	}

	idx := t.findIndex(n.keys, key)
	if idx < len(n.keys) && t.typ.Equal(n.keys[idx], key) {
		n.postings[idx] = append(n.postings[idx], pos)
		return
	}

	n.keys = insertAny(n.keys, idx, key)
	n.postings = insertPosting(n.postings, idx, []int{pos})
	t.splitLeaf(n, path)
}

// Search returns the row positions recorded for an exact key match, in
// insertion order, or an empty slice when the key is absent.
func (t *BPlusTree) Search(key any) []int {
	n := t.root
	for !n.leaf {
		idx := t.findChild(n.keys, key)
		n = n.children[idx]
	}
	idx := t.findIndex(n.keys, key)
	if idx < len(n.keys) && t.typ.Equal(n.keys[idx], key) {
		out := make([]int, len(n.postings[idx]))
		copy(out, n.postings[idx])
		return out
	}
	return []int{}
}

// findChild returns the child slot to descend into: keys equal to a
// separator live in the right subtree.
func (t *BPlusTree) findChild(keys []any, key any) int {
	lo, hi := 0, len(keys)
	for lo < hi {
		mid := (lo + hi) / 2
		if t.typ.Less(key, keys[mid]) {
			hi = mid
		} else {
			lo = mid + 1
		}
	}
	return lo
}

// findIndex returns the position of the first key not less than key.
func (t *BPlusTree) findIndex(keys []any, key any) int {
	lo, hi := 0, len(keys)
	for lo < hi {
		mid := (lo + hi) / 2
		if t.typ.Less(keys[mid], key) {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	return lo
}

// splitLeaf splits a full leaf: the upper half of keys and posting lists
// moves into a new leaf linked after the original, and the new leaf's first
// key is promoted to the parent.
func (t *BPlusTree) splitLeaf(n *node, path []pathEntry) {
	if len(n.keys) < order {
		return
	}
	mid := len(n.keys) / 2

	right := &node{leaf: true}
	right.keys = append(right.keys, n.keys[mid:]...)
	right.postings = append(right.postings, n.postings[mid:]...)
	n.keys = n.keys[:mid]
	n.postings = n.postings[:mid]
	right.next = n.next
	n.next = right

	t.promote(right.keys[0], n, right, path)
}

// splitInternal splits a full internal node around its median key, which is
// promoted to the parent; the split propagates upward and creates a new
// root when it reaches the top.
func (t *BPlusTree) splitInternal(n *node, path []pathEntry) {
	if len(n.keys) < order {
		return
	}
	mid := len(n.keys) / 2
	promoted := n.keys[mid]

	right := &node{}
	right.keys = append(right.keys, n.keys[mid+1:]...)
	right.children = append(right.children, n.children[mid+1:]...)
	n.keys = n.keys[:mid]
	n.children = n.children[:mid+1]

	t.promote(promoted, n, right, path)
}

// promote inserts a promoted key and its new right sibling into the parent,
// or grows a new root when the split happened at the top.
func (t *BPlusTree) promote(key any, left, right *node, path []pathEntry) {
	if len(path) == 0 {
		t.root = &node{
			keys:     []any{key},
			children: []*node{left, right},
		}
		return
	}
	parent := path[len(path)-1]
	parent.n.keys = insertAny(parent.n.keys, parent.idx, key)
	parent.n.children = insertNode(parent.n.children, parent.idx+1, right)
	t.splitInternal(parent.n, path[:len(path)-1])
}

func insertAny(s []any, idx int, v any) []any {
	s = append(s, nil)
	copy(s[idx+1:], s[idx:])
	s[idx] = v
	return s
}

func insertPosting(s [][]int, idx int, v []int) [][]int {
	s = append(s, nil)
	copy(s[idx+1:], s[idx:])
	s[idx] = v
	return s
}

func insertNode(s []*node, idx int, v *node) []*node {
	s = append(s, nil)
	copy(s[idx+1:], s[idx:])
	s[idx] = v
	return s
}
