package trace_test

import (
	"errors"
	"fmt"
	"testing"

	"calltree/internal/trace"
)

func plainFormat(v any) string {
	return fmt.Sprintf("%v", v)
}

// wrapFib builds a traced fib over plain Go ints.
func wrapFib(rec *trace.Recorder) trace.Func {
	var fib trace.Func
	fib = rec.Wrap("fib", func(args []trace.Arg) (any, error) {
		n := args[0].Value.(int)
		if n < 2 {
			return n, nil
		}
		a, err := fib([]trace.Arg{{Value: n - 1}})
		if err != nil {
			return nil, err
		}
		b, err := fib([]trace.Arg{{Value: n - 2}})
		if err != nil {
			return nil, err
		}
		return a.(int) + b.(int), nil
	})
	return fib
}

func TestRecorder_Fib3CallTree(t *testing.T) {
	table := trace.NewTable()
	rec := trace.NewRecorder(table, plainFormat)
	fib := wrapFib(rec)

	result, err := fib([]trace.Arg{{Value: 3}})
	if err != nil {
		t.Fatalf("fib(3) failed: %v", err)
	}
	if result.(int) != 2 {
		t.Fatalf("fib(3) = %v, want 2", result)
	}
	if table.Len() != 5 {
		t.Fatalf("table has %d nodes, want 5", table.Len())
	}

	// Ids are assigned in call order; parents reflect dynamic nesting.
	wantParents := map[int]int{
		0: trace.NoParent, // fib(3)
		1: 0,              // fib(2)
		2: 1,              // fib(1)
		3: 1,              // fib(0)
		4: 0,              // fib(1)
	}
	wantArgs := map[int]string{0: "3", 1: "2", 2: "1", 3: "0", 4: "1"}
	for id, parent := range wantParents {
		n, ok := table.Get(id)
		if !ok {
			t.Fatalf("node %d missing", id)
		}
		if n.Parent != parent {
			t.Errorf("node %d parent = %d, want %d", id, n.Parent, parent)
		}
		if len(n.Args) != 1 || n.Args[0] != wantArgs[id] {
			t.Errorf("node %d args = %v, want [%s]", id, n.Args, wantArgs[id])
		}
	}

	// Recording happens on return, so a parent lands after its children.
	order := make([]int, 0, 5)
	for _, n := range table.Snapshot() {
		order = append(order, n.ID)
	}
	want := []int{2, 3, 1, 4, 0}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("insertion order = %v, want %v", order, want)
		}
	}
}

func TestRecorder_SharedCounterAcrossFunctions(t *testing.T) {
	table := trace.NewTable()
	rec := trace.NewRecorder(table, plainFormat)

	var g trace.Func
	g = rec.Wrap("g", func(args []trace.Arg) (any, error) {
		return "g", nil
	})
	f := rec.Wrap("f", func(args []trace.Arg) (any, error) {
		return g(nil)
	})

	if _, err := f(nil); err != nil {
		t.Fatalf("f() failed: %v", err)
	}

	// f got id 0, g got id 1: one counter for the whole session.
	fn, _ := table.Get(0)
	gn, _ := table.Get(1)
	if fn.Func != "f" || gn.Func != "g" {
		t.Fatalf("ids not assigned in call order: got %q, %q", fn.Func, gn.Func)
	}
	if gn.Parent != 0 {
		t.Errorf("g parent = %d, want 0", gn.Parent)
	}
}

func TestRecorder_ErrorKeepsStackDiscipline(t *testing.T) {
	table := trace.NewTable()
	rec := trace.NewRecorder(table, plainFormat)

	boom := errors.New("boom")
	var deep trace.Func
	deep = rec.Wrap("deep", func(args []trace.Arg) (any, error) {
		n := args[0].Value.(int)
		if n == 0 {
			return nil, boom
		}
		return deep([]trace.Arg{{Value: n - 1}})
	})

	if _, err := deep([]trace.Arg{{Value: 4}}); !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	if rec.Depth() != 0 {
		t.Fatalf("stack depth after failure = %d, want 0", rec.Depth())
	}
	// Nothing was recorded for the failed chain.
	if table.Len() != 0 {
		t.Fatalf("table has %d nodes after failure, want 0", table.Len())
	}

	// A later, unrelated call sees no stale parent.
	ok := rec.Wrap("ok", func(args []trace.Arg) (any, error) {
		return 1, nil
	})
	if _, err := ok(nil); err != nil {
		t.Fatalf("ok() failed: %v", err)
	}
	n, _ := table.Get(5) // ids 0..4 were consumed by the failed chain
	if n.Parent != trace.NoParent {
		t.Errorf("parent after failed chain = %d, want root", n.Parent)
	}
}

func TestRecorder_KwargsPreserveOrder(t *testing.T) {
	table := trace.NewTable()
	rec := trace.NewRecorder(table, plainFormat)

	fn := rec.Wrap("cfg", func(args []trace.Arg) (any, error) {
		return true, nil
	})
	_, err := fn([]trace.Arg{
		{Value: 1},
		{Name: "mode", Value: "fast"},
		{Name: "attempts", Value: 3},
	})
	if err != nil {
		t.Fatalf("cfg() failed: %v", err)
	}

	n, _ := table.Get(0)
	if len(n.Args) != 1 || n.Args[0] != "1" {
		t.Errorf("args = %v, want [1]", n.Args)
	}
	if len(n.Kwargs) != 2 {
		t.Fatalf("kwargs = %v, want 2 fields", n.Kwargs)
	}
	if n.Kwargs[0].Key != "mode" || n.Kwargs[1].Key != "attempts" {
		t.Errorf("kwargs order = %v, want mode then attempts", n.Kwargs)
	}
}

func TestRecorder_ZeroArguments(t *testing.T) {
	table := trace.NewTable()
	rec := trace.NewRecorder(table, plainFormat)

	fn := rec.Wrap("nothing", func(args []trace.Arg) (any, error) {
		return nil, nil
	})
	if _, err := fn(nil); err != nil {
		t.Fatalf("nothing() failed: %v", err)
	}
	n, _ := table.Get(0)
	if len(n.Args) != 0 || len(n.Kwargs) != 0 {
		t.Errorf("expected empty args/kwargs, got %v / %v", n.Args, n.Kwargs)
	}
}

func TestRecorder_FormatterPanicRecovered(t *testing.T) {
	table := trace.NewTable()
	rec := trace.NewRecorder(table, func(v any) string {
		panic("broken formatter")
	})

	fn := rec.Wrap("f", func(args []trace.Arg) (any, error) {
		return 42, nil
	})
	if _, err := fn([]trace.Arg{{Value: 1}}); err != nil {
		t.Fatalf("f() failed: %v", err)
	}
	n, _ := table.Get(0)
	if n.Args[0] != trace.Unprintable {
		t.Errorf("arg = %q, want %q", n.Args[0], trace.Unprintable)
	}
	if n.Result != trace.Unprintable {
		t.Errorf("result = %q, want %q", n.Result, trace.Unprintable)
	}
}

func TestRecorder_Reset(t *testing.T) {
	table := trace.NewTable()
	rec := trace.NewRecorder(table, plainFormat)

	fn := rec.Wrap("f", func(args []trace.Arg) (any, error) { return 1, nil })
	if _, err := fn(nil); err != nil {
		t.Fatalf("f() failed: %v", err)
	}
	rec.Reset()

	if table.Len() != 0 {
		t.Fatalf("table not cleared by reset")
	}
	if _, err := fn(nil); err != nil {
		t.Fatalf("f() failed after reset: %v", err)
	}
	n, ok := table.Get(0)
	if !ok || n.Parent != trace.NoParent {
		t.Errorf("id counter not reset: got %+v", n)
	}
}
