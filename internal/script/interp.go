package script

import (
	"errors"
	"fmt"
	"io"

	"calltree/internal/trace"
)

// Interp is a tree-walking evaluator over one global environment.
type Interp struct {
	rec     *trace.Recorder
	globals *Env
	out     io.Writer
	natives map[string]*NativeFunc
}

func newInterp(rec *trace.Recorder, out io.Writer) *Interp {
	in := &Interp{
		rec:     rec,
		globals: NewEnv(nil),
		out:     out,
		natives: make(map[string]*NativeFunc),
	}
	registerBuiltins(in)
	return in
}

// RegisterNative installs a host builtin into the global environment.
func (in *Interp) RegisterNative(n *NativeFunc) {
	in.natives[n.Name] = n
	in.globals.Define(n.Name, Value{Tag: TagNative, Data: n})
}

// returnSignal unwinds the evaluator back to the function call frame.
// It is an error only mechanically; callFunction absorbs it.
type returnSignal struct {
	value Value
}

func (*returnSignal) Error() string { return "return outside function" }

// Exec runs a sequence of statements in the global environment.
func (in *Interp) Exec(stmts []Stmt) error {
	for _, st := range stmts {
		if err := in.execStmt(in.globals, st); err != nil {
			var r *returnSignal
			if errors.As(err, &r) {
				return errorf(st.stmtPos(), "return outside function")
			}
			return err
		}
	}
	return nil
}

// Eval evaluates a single expression in the global environment.
func (in *Interp) Eval(e Expr) (Value, error) {
	return in.evalExpr(in.globals, e)
}

func (in *Interp) execStmt(env *Env, st Stmt) error {
	switch st := st.(type) {
	case *FnDecl:
		fn := &Function{
			Name:   st.Name,
			Params: st.Params,
			Body:   st.Body,
			Env:    env,
			Traced: st.Traced,
		}
		fn.entry = in.makeEntry(fn)
		env.Define(st.Name, Value{Tag: TagFun, Data: fn})
		return nil

	case *LetStmt:
		v, err := in.evalExpr(env, st.Value)
		if err != nil {
			return err
		}
		env.Define(st.Name, v)
		return nil

	case *AssignStmt:
		v, err := in.evalExpr(env, st.Value)
		if err != nil {
			return err
		}
		if !env.Assign(st.Name, v) {
			return errorf(st.Pos, "assignment to undefined variable %q", st.Name)
		}
		return nil

	case *ReturnStmt:
		value := Null()
		if st.Value != nil {
			v, err := in.evalExpr(env, st.Value)
			if err != nil {
				return err
			}
			value = v
		}
		return &returnSignal{value: value}

	case *IfStmt:
		cond, err := in.evalExpr(env, st.Cond)
		if err != nil {
			return err
		}
		if cond.Truthy() {
			return in.execBlock(env, st.Then)
		}
		return in.execBlock(env, st.Else)

	case *WhileStmt:
		for {
			cond, err := in.evalExpr(env, st.Cond)
			if err != nil {
				return err
			}
			if !cond.Truthy() {
				return nil
			}
			if err := in.execBlock(env, st.Body); err != nil {
				return err
			}
		}

	case *ExprStmt:
		_, err := in.evalExpr(env, st.X)
		return err

	default:
		return errorf(st.stmtPos(), "unsupported statement %T", st)
	}
}

// execBlock runs statements in a fresh lexical frame.
func (in *Interp) execBlock(env *Env, stmts []Stmt) error {
	block := NewEnv(env)
	for _, st := range stmts {
		if err := in.execStmt(block, st); err != nil {
			return err
		}
	}
	return nil
}

// makeEntry builds the call path for a user function. Traced functions go
// through the recorder wrapper, so every call through the name is captured,
// including direct and mutual recursion.
func (in *Interp) makeEntry(fn *Function) trace.Func {
	raw := func(args []trace.Arg) (any, error) {
		frame := NewEnv(fn.Env)
		if err := bindParams(fn, frame, args); err != nil {
			return nil, err
		}
		for _, st := range fn.Body {
			if err := in.execStmt(frame, st); err != nil {
				var r *returnSignal
				if errors.As(err, &r) {
					return r.value, nil
				}
				return nil, err
			}
		}
		return Null(), nil
	}
	if fn.Traced {
		return in.rec.Wrap(fn.Name, raw)
	}
	return raw
}

// bindParams matches call arguments to parameters: positionals in order,
// then keywords by name.
func bindParams(fn *Function, frame *Env, args []trace.Arg) error {
	bound := make(map[string]bool, len(fn.Params))
	nextPos := 0
	for _, a := range args {
		v, ok := a.Value.(Value)
		if !ok {
			v = Null()
		}
		if a.Name == "" {
			if nextPos >= len(fn.Params) {
				return errorf(Pos{}, "%s() takes %d arguments, got more", fn.Name, len(fn.Params))
			}
			param := fn.Params[nextPos]
			nextPos++
			bound[param] = true
			frame.Define(param, v)
			continue
		}
		found := false
		for _, param := range fn.Params {
			if param == a.Name {
				found = true
				break
			}
		}
		if !found {
			return errorf(Pos{}, "%s() has no parameter %q", fn.Name, a.Name)
		}
		if bound[a.Name] {
			return errorf(Pos{}, "%s() got multiple values for %q", fn.Name, a.Name)
		}
		bound[a.Name] = true
		frame.Define(a.Name, v)
	}
	for _, param := range fn.Params {
		if !bound[param] {
			return errorf(Pos{}, "%s() missing argument %q", fn.Name, param)
		}
	}
	return nil
}

func (in *Interp) evalExpr(env *Env, e Expr) (Value, error) {
	switch e := e.(type) {
	case *IntLit:
		return Int(e.Value), nil
	case *StrLit:
		return Str(e.Value), nil
	case *BoolLit:
		return Bool(e.Value), nil
	case *NullLit:
		return Null(), nil

	case *Ident:
		v, ok := env.Lookup(e.Name)
		if !ok {
			return Value{}, errorf(e.Pos, "undefined variable %q", e.Name)
		}
		return v, nil

	case *ArrLit:
		elems := make([]Value, 0, len(e.Elems))
		for _, el := range e.Elems {
			v, err := in.evalExpr(env, el)
			if err != nil {
				return Value{}, err
			}
			elems = append(elems, v)
		}
		return Arr(elems), nil

	case *IndexExpr:
		return in.evalIndex(env, e)

	case *UnaryExpr:
		return in.evalUnary(env, e)

	case *BinaryExpr:
		return in.evalBinary(env, e)

	case *CallExpr:
		return in.evalCall(env, e)

	default:
		return Value{}, errorf(e.exprPos(), "unsupported expression %T", e)
	}
}

func (in *Interp) evalIndex(env *Env, e *IndexExpr) (Value, error) {
	target, err := in.evalExpr(env, e.Target)
	if err != nil {
		return Value{}, err
	}
	index, err := in.evalExpr(env, e.Index)
	if err != nil {
		return Value{}, err
	}
	if index.Tag != TagInt {
		return Value{}, errorf(e.Pos, "index must be an int, got %s", index.typeName())
	}
	i := index.Data.(int64)
	switch target.Tag {
	case TagArr:
		elems := target.Data.([]Value)
		if i < 0 || i >= int64(len(elems)) {
			return Value{}, errorf(e.Pos, "index %d out of range for array of length %d", i, len(elems))
		}
		return elems[i], nil
	case TagStr:
		s := target.Data.(string)
		if i < 0 || i >= int64(len(s)) {
			return Value{}, errorf(e.Pos, "index %d out of range for string of length %d", i, len(s))
		}
		return Str(string(s[i])), nil
	default:
		return Value{}, errorf(e.Pos, "cannot index %s", target.typeName())
	}
}

func (in *Interp) evalUnary(env *Env, e *UnaryExpr) (Value, error) {
	operand, err := in.evalExpr(env, e.Operand)
	if err != nil {
		return Value{}, err
	}
	switch e.Op {
	case TokMinus:
		if operand.Tag != TagInt {
			return Value{}, errorf(e.Pos, "cannot negate %s", operand.typeName())
		}
		return Int(-operand.Data.(int64)), nil
	case TokBang:
		return Bool(!operand.Truthy()), nil
	default:
		return Value{}, errorf(e.Pos, "unsupported unary operator")
	}
}

func (in *Interp) evalBinary(env *Env, e *BinaryExpr) (Value, error) {
	// Logical operators short-circuit.
	if e.Op == TokAndAnd || e.Op == TokOrOr {
		left, err := in.evalExpr(env, e.Left)
		if err != nil {
			return Value{}, err
		}
		if e.Op == TokAndAnd && !left.Truthy() {
			return Bool(false), nil
		}
		if e.Op == TokOrOr && left.Truthy() {
			return Bool(true), nil
		}
		right, err := in.evalExpr(env, e.Right)
		if err != nil {
			return Value{}, err
		}
		return Bool(right.Truthy()), nil
	}

	left, err := in.evalExpr(env, e.Left)
	if err != nil {
		return Value{}, err
	}
	right, err := in.evalExpr(env, e.Right)
	if err != nil {
		return Value{}, err
	}

	switch e.Op {
	case TokEq:
		return Bool(left.Equal(right)), nil
	case TokNe:
		return Bool(!left.Equal(right)), nil
	}

	if left.Tag == TagInt && right.Tag == TagInt {
		a, b := left.Data.(int64), right.Data.(int64)
		switch e.Op {
		case TokPlus:
			return Int(a + b), nil
		case TokMinus:
			return Int(a - b), nil
		case TokStar:
			return Int(a * b), nil
		case TokSlash:
			if b == 0 {
				return Value{}, errorf(e.Pos, "division by zero")
			}
			return Int(a / b), nil
		case TokPercent:
			if b == 0 {
				return Value{}, errorf(e.Pos, "division by zero")
			}
			return Int(a % b), nil
		case TokLt:
			return Bool(a < b), nil
		case TokLe:
			return Bool(a <= b), nil
		case TokGt:
			return Bool(a > b), nil
		case TokGe:
			return Bool(a >= b), nil
		}
	}

	if left.Tag == TagStr && right.Tag == TagStr {
		a, b := left.Data.(string), right.Data.(string)
		switch e.Op {
		case TokPlus:
			return Str(a + b), nil
		case TokLt:
			return Bool(a < b), nil
		case TokLe:
			return Bool(a <= b), nil
		case TokGt:
			return Bool(a > b), nil
		case TokGe:
			return Bool(a >= b), nil
		}
	}

	if left.Tag == TagArr && right.Tag == TagArr && e.Op == TokPlus {
		a, b := left.Data.([]Value), right.Data.([]Value)
		merged := make([]Value, 0, len(a)+len(b))
		merged = append(merged, a...)
		merged = append(merged, b...)
		return Arr(merged), nil
	}

	return Value{}, errorf(e.Pos, "unsupported operands %s and %s", left.typeName(), right.typeName())
}

func (in *Interp) evalCall(env *Env, e *CallExpr) (Value, error) {
	callee, ok := env.Lookup(e.Callee)
	if !ok {
		return Value{}, errorf(e.Pos, "undefined function %q", e.Callee)
	}

	args := make([]trace.Arg, 0, len(e.Args))
	for _, a := range e.Args {
		v, err := in.evalExpr(env, a.Value)
		if err != nil {
			return Value{}, err
		}
		args = append(args, trace.Arg{Name: a.Name, Value: v})
	}

	switch callee.Tag {
	case TagFun:
		fn := callee.Data.(*Function)
		result, err := fn.entry(args)
		if err != nil {
			return Value{}, err
		}
		v, ok := result.(Value)
		if !ok {
			return Value{}, fmt.Errorf("internal: %s returned %T", fn.Name, result)
		}
		return v, nil

	case TagNative:
		native := callee.Data.(*NativeFunc)
		plain := make([]Value, 0, len(args))
		for _, a := range args {
			if a.Name != "" {
				return Value{}, errorf(e.Pos, "%s() does not accept keyword arguments", native.Name)
			}
			plain = append(plain, a.Value.(Value))
		}
		return native.Fn(in, e.Pos, plain)

	default:
		return Value{}, errorf(e.Pos, "%q is not callable (%s)", e.Callee, callee.typeName())
	}
}
