package script

import "testing"

func TestParseProgram_TracedFn(t *testing.T) {
	src := `
@trace
fn fib(n) {
	if n < 2 { return n }
	return fib(n - 1) + fib(n - 2)
}
`
	stmts, err := ParseProgram(src)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if len(stmts) != 1 {
		t.Fatalf("got %d statements, want 1", len(stmts))
	}
	fn, ok := stmts[0].(*FnDecl)
	if !ok {
		t.Fatalf("statement is %T, want *FnDecl", stmts[0])
	}
	if !fn.Traced {
		t.Error("@trace attribute not applied")
	}
	if fn.Name != "fib" || len(fn.Params) != 1 || fn.Params[0] != "n" {
		t.Errorf("decl = %s(%v)", fn.Name, fn.Params)
	}
}

func TestParseProgram_UntracedFn(t *testing.T) {
	stmts, err := ParseProgram("fn f() { return 1 }")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if stmts[0].(*FnDecl).Traced {
		t.Error("function without @trace marked as traced")
	}
}

func TestParseExpression_CallWithKwargs(t *testing.T) {
	e, err := ParseExpression(`pow(2, exp: 3)`)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	call, ok := e.(*CallExpr)
	if !ok {
		t.Fatalf("expression is %T, want *CallExpr", e)
	}
	if call.Callee != "pow" || len(call.Args) != 2 {
		t.Fatalf("call = %s with %d args", call.Callee, len(call.Args))
	}
	if call.Args[0].Name != "" {
		t.Errorf("first arg should be positional, got %q", call.Args[0].Name)
	}
	if call.Args[1].Name != "exp" {
		t.Errorf("second arg name = %q, want exp", call.Args[1].Name)
	}
}

func TestParseExpression_IdentArgIsNotKwarg(t *testing.T) {
	e, err := ParseExpression("f(x, y + 1)")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	call := e.(*CallExpr)
	if len(call.Args) != 2 {
		t.Fatalf("got %d args, want 2", len(call.Args))
	}
	if call.Args[0].Name != "" || call.Args[1].Name != "" {
		t.Error("positional idents misparsed as keyword arguments")
	}
	if _, ok := call.Args[1].Value.(*BinaryExpr); !ok {
		t.Errorf("second arg is %T, want *BinaryExpr", call.Args[1].Value)
	}
}

func TestParseExpression_NestedCallArg(t *testing.T) {
	e, err := ParseExpression("f(g(1) + 2)")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	call := e.(*CallExpr)
	bin, ok := call.Args[0].Value.(*BinaryExpr)
	if !ok {
		t.Fatalf("arg is %T, want *BinaryExpr", call.Args[0].Value)
	}
	if _, ok := bin.Left.(*CallExpr); !ok {
		t.Errorf("left operand is %T, want nested *CallExpr", bin.Left)
	}
}

func TestParseExpression_Precedence(t *testing.T) {
	e, err := ParseExpression("1 + 2 * 3")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	bin := e.(*BinaryExpr)
	if bin.Op != TokPlus {
		t.Fatalf("top operator = %v, want +", bin.Op)
	}
	right, ok := bin.Right.(*BinaryExpr)
	if !ok || right.Op != TokStar {
		t.Fatalf("right side = %T, want * expression", bin.Right)
	}
}

func TestParse_Errors(t *testing.T) {
	cases := []struct {
		name string
		src  string
	}{
		{"positional after keyword", "f(a: 1, 2)"},
		{"duplicate keyword", "f(a: 1, a: 2)"},
		{"unknown attribute", "@memo\nfn f() {}"},
		{"attribute without fn", "@trace\nlet x = 1"},
		{"duplicate parameter", "fn f(a, a) {}"},
		{"unterminated block", "fn f() { return 1"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := ParseProgram(tc.src); err == nil {
				t.Errorf("expected parse error for %q", tc.src)
			}
		})
	}
}

func TestParseExpression_RejectsTrailingInput(t *testing.T) {
	if _, err := ParseExpression("fib(3) fib(4)"); err == nil {
		t.Fatal("expected error for trailing input")
	}
}
