package layout

import (
	"sort"

	"calltree/internal/trace"
	"calltree/internal/tree"
)

// Compute lays out every node of the table. Same input yields bit-identical
// output: there is no randomness and all tie-breaks are by ascending id.
//
// Depth is distance from the node's root. Nodes unreachable from any
// declared root (cyclic parent links in malformed input) get depth 0 on a
// second pass and are walked as their own roots, so every node is placed.
func (e *Engine) Compute(t *trace.Table) Result {
	ix := tree.Build(t)
	nodes := t.Snapshot()

	depth := make(map[int]int, len(nodes))
	ix.Walk(func(id, d int) {
		depth[id] = d
	})

	// Second pass for nodes the root walk never reached.
	for _, n := range nodes {
		if _, ok := depth[n.ID]; ok {
			continue
		}
		e.walkOrphan(ix, n.ID, depth)
	}

	// Group ids by depth, sorted ascending within each level.
	levels := make(map[int][]int)
	maxDepth := 0
	for _, n := range nodes {
		d := depth[n.ID]
		levels[d] = append(levels[d], n.ID)
		if d > maxDepth {
			maxDepth = d
		}
	}

	res := Result{}
	for d := 0; d <= maxDepth; d++ {
		ids := levels[d]
		sort.Ints(ids)
		n := len(ids)
		for i, id := range ids {
			node, _ := t.Get(id)
			res.Nodes = append(res.Nodes, Placement{
				Node:  node,
				Depth: d,
				Pos:   e.place(i, n, d),
			})
		}
	}

	// One edge per child whose parent is actually laid out; dangling
	// parents are silently dropped.
	for _, n := range nodes {
		if n.Root() || !t.Has(n.Parent) {
			continue
		}
		res.Edges = append(res.Edges, Edge{Parent: n.Parent, Child: n.ID})
	}

	return res
}

// place positions the i-th of n nodes within one level. Each level is
// centered on the origin along X and Z; the Z skew only separates crossing
// edges visually and carries no meaning.
func (e *Engine) place(i, n, depth int) Point {
	center := float64(n-1) / 2
	return Point{
		X: (float64(i) - center) * e.spacing.H,
		Y: -float64(depth) * e.spacing.V,
		Z: (float64(i)-center)*e.spacing.Z + float64(depth)*e.spacing.Skew,
	}
}

// walkOrphan assigns depths below a node that no declared root reaches,
// treating it as a root of its own. Children already claimed by the root
// walk keep their original depth.
func (e *Engine) walkOrphan(ix tree.Index, start int, depth map[int]int) {
	type item struct {
		id int
		d  int
	}
	stack := []item{{id: start}}
	for len(stack) > 0 {
		it := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if _, ok := depth[it.id]; ok {
			continue
		}
		depth[it.id] = it.d
		kids := ix.Children(it.id)
		for i := len(kids) - 1; i >= 0; i-- {
			stack = append(stack, item{id: kids[i], d: it.d + 1})
		}
	}
}
