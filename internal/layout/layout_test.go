package layout_test

import (
	"math"
	"reflect"
	"testing"

	"calltree/internal/layout"
	"calltree/internal/trace"
)

func fibTable() *trace.Table {
	t := trace.NewTable()
	t.Append(trace.Node{ID: 2, Parent: 1, Func: "fib", Args: []string{"1"}, Result: "1"})
	t.Append(trace.Node{ID: 3, Parent: 1, Func: "fib", Args: []string{"0"}, Result: "0"})
	t.Append(trace.Node{ID: 1, Parent: 0, Func: "fib", Args: []string{"2"}, Result: "1"})
	t.Append(trace.Node{ID: 4, Parent: 0, Func: "fib", Args: []string{"1"}, Result: "1"})
	t.Append(trace.Node{ID: 0, Parent: trace.NoParent, Func: "fib", Args: []string{"3"}, Result: "2"})
	return t
}

func placementByID(res layout.Result, id int) (layout.Placement, bool) {
	for _, p := range res.Nodes {
		if p.Node.ID == id {
			return p, true
		}
	}
	return layout.Placement{}, false
}

func TestCompute_FibDepthsAndCoordinates(t *testing.T) {
	eng := layout.New(layout.Spacing{}) // defaults: H=2, V=1.5, Z=1, Skew=0.25
	res := eng.Compute(fibTable())

	if len(res.Nodes) != 5 {
		t.Fatalf("placed %d nodes, want 5", len(res.Nodes))
	}

	wantDepth := map[int]int{0: 0, 1: 1, 4: 1, 2: 2, 3: 2}
	for id, d := range wantDepth {
		p, ok := placementByID(res, id)
		if !ok {
			t.Fatalf("node %d not placed", id)
		}
		if p.Depth != d {
			t.Errorf("node %d depth = %d, want %d", id, p.Depth, d)
		}
		if want := -float64(d) * 1.5; p.Pos.Y != want {
			t.Errorf("node %d y = %v, want %v", id, p.Pos.Y, want)
		}
	}

	// The root level has one node, centered at the origin.
	root, _ := placementByID(res, 0)
	if root.Pos.X != 0 || root.Pos.Z != 0 {
		t.Errorf("root at (%v, %v), want origin", root.Pos.X, root.Pos.Z)
	}

	// Level 1 holds ids 1 and 4, fanned around the origin with H=2.
	n1, _ := placementByID(res, 1)
	n4, _ := placementByID(res, 4)
	if n1.Pos.X != -1 || n4.Pos.X != 1 {
		t.Errorf("level 1 x = %v, %v; want -1, 1", n1.Pos.X, n4.Pos.X)
	}
}

func TestCompute_Deterministic(t *testing.T) {
	eng := layout.New(layout.Spacing{})
	a := eng.Compute(fibTable())
	b := eng.Compute(fibTable())
	if !reflect.DeepEqual(a, b) {
		t.Fatal("layout is not deterministic for identical input")
	}
}

func TestCompute_EdgesMatchParents(t *testing.T) {
	res := layout.New(layout.Spacing{}).Compute(fibTable())

	want := map[layout.Edge]bool{
		{Parent: 1, Child: 2}: true,
		{Parent: 1, Child: 3}: true,
		{Parent: 0, Child: 1}: true,
		{Parent: 0, Child: 4}: true,
	}
	if len(res.Edges) != len(want) {
		t.Fatalf("edges = %v, want 4", res.Edges)
	}
	for _, e := range res.Edges {
		if !want[e] {
			t.Errorf("unexpected edge %+v", e)
		}
	}
}

func TestCompute_TwoRootsNoCollision(t *testing.T) {
	tbl := trace.NewTable()
	tbl.Append(trace.Node{ID: 0, Parent: trace.NoParent, Func: "f"})
	tbl.Append(trace.Node{ID: 1, Parent: trace.NoParent, Func: "g"})

	res := layout.New(layout.Spacing{}).Compute(tbl)
	f, _ := placementByID(res, 0)
	g, _ := placementByID(res, 1)
	if f.Depth != 0 || g.Depth != 0 {
		t.Fatalf("depths = %d, %d; want both 0", f.Depth, g.Depth)
	}
	if f.Pos == g.Pos {
		t.Fatalf("both roots placed at %+v", f.Pos)
	}
	if f.Pos.Y != g.Pos.Y {
		t.Errorf("same-level roots at different y: %v vs %v", f.Pos.Y, g.Pos.Y)
	}
}

func TestCompute_DanglingParentTreatedAsRoot(t *testing.T) {
	tbl := trace.NewTable()
	tbl.Append(trace.Node{ID: 0, Parent: trace.NoParent, Func: "f"})
	tbl.Append(trace.Node{ID: 7, Parent: 42, Func: "orphan"})

	res := layout.New(layout.Spacing{}).Compute(tbl)
	if len(res.Nodes) != 2 {
		t.Fatalf("placed %d nodes, want 2", len(res.Nodes))
	}
	orphan, ok := placementByID(res, 7)
	if !ok {
		t.Fatal("orphan not placed")
	}
	if orphan.Depth != 0 {
		t.Errorf("orphan depth = %d, want 0", orphan.Depth)
	}
	// The dangling parent must not produce an edge.
	if len(res.Edges) != 0 {
		t.Errorf("edges = %v, want none", res.Edges)
	}
}

func TestCompute_CyclicParentsStillPlaced(t *testing.T) {
	// Malformed input: two nodes claiming each other as parent. No root
	// walk reaches them; the defensive second pass must still place both.
	tbl := trace.NewTable()
	tbl.Append(trace.Node{ID: 0, Parent: 1, Func: "a"})
	tbl.Append(trace.Node{ID: 1, Parent: 0, Func: "b"})

	res := layout.New(layout.Spacing{}).Compute(tbl)
	if len(res.Nodes) != 2 {
		t.Fatalf("placed %d nodes, want 2", len(res.Nodes))
	}
	a, _ := placementByID(res, 0)
	b, _ := placementByID(res, 1)
	if a.Depth != 0 {
		t.Errorf("first cycle node depth = %d, want 0", a.Depth)
	}
	if b.Depth != 1 {
		t.Errorf("second cycle node depth = %d, want 1", b.Depth)
	}
}

func TestCompute_SkewSeparatesDepths(t *testing.T) {
	sp := layout.Spacing{H: 2, V: 1, Z: 1, Skew: 0.5}
	res := layout.New(sp).Compute(fibTable())

	root, _ := placementByID(res, 0)
	n1, _ := placementByID(res, 1)
	if math.Abs(n1.Pos.Z-root.Pos.Z) < 1e-9 && n1.Pos.X == root.Pos.X {
		t.Error("skew did not separate parent and child positions")
	}
}

func TestNew_ZeroSpacingFallsBackToDefaults(t *testing.T) {
	eng := layout.New(layout.Spacing{})
	if eng.Spacing() != layout.DefaultSpacing {
		t.Fatalf("spacing = %+v, want defaults %+v", eng.Spacing(), layout.DefaultSpacing)
	}
}
