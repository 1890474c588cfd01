// Package tree builds parent/child adjacency over a recorded trace table.
package tree

import "calltree/internal/trace"

// Index is the adjacency view of one trace table: a parent -> children
// mapping plus the set of roots. It is a pure function of the table and
// holds no state of its own.
type Index struct {
	children map[int][]int
	roots    []int
}

// Build indexes the table in a single linear pass. Child lists keep table
// insertion order. A node whose declared parent is absent from the table
// (malformed input) is treated as an additional root rather than an error.
func Build(t *trace.Table) Index {
	ix := Index{children: make(map[int][]int)}
	for _, n := range t.Snapshot() {
		if n.Root() || !t.Has(n.Parent) {
			ix.roots = append(ix.roots, n.ID)
			continue
		}
		ix.children[n.Parent] = append(ix.children[n.Parent], n.ID)
	}
	return ix
}

// Children returns the child ids of the given node in insertion order.
func (ix Index) Children(id int) []int {
	return ix.children[id]
}

// Roots returns the ids of all root nodes in insertion order.
func (ix Index) Roots() []int {
	return ix.roots
}

// Walk visits every node reachable from the roots in pre-order, calling
// visit with the node id and its depth. Traversal uses an explicit
// work-list so arbitrarily deep traces cannot grow the goroutine stack.
func (ix Index) Walk(visit func(id, depth int)) {
	type item struct {
		id    int
		depth int
	}
	var stack []item
	for i := len(ix.roots) - 1; i >= 0; i-- {
		stack = append(stack, item{id: ix.roots[i]})
	}
	for len(stack) > 0 {
		it := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		visit(it.id, it.depth)
		kids := ix.children[it.id]
		for i := len(kids) - 1; i >= 0; i-- {
			stack = append(stack, item{id: kids[i], depth: it.depth + 1})
		}
	}
}
