package script

import (
	"strconv"
	"strings"

	"calltree/internal/trace"
)

// Tag discriminates runtime value kinds.
type Tag uint8

const (
	TagNull Tag = iota
	TagBool
	TagInt
	TagStr
	TagArr
	TagFun
	TagNative
)

// Value is one runtime value: a tag plus its Go payload.
type Value struct {
	Tag  Tag
	Data any
}

// Null returns the null value.
func Null() Value { return Value{Tag: TagNull} }

// Bool wraps a boolean.
func Bool(b bool) Value { return Value{Tag: TagBool, Data: b} }

// Int wraps an integer.
func Int(i int64) Value { return Value{Tag: TagInt, Data: i} }

// Str wraps a string.
func Str(s string) Value { return Value{Tag: TagStr, Data: s} }

// Arr wraps an array.
func Arr(elems []Value) Value { return Value{Tag: TagArr, Data: elems} }

// Function is a user-defined function. entry is the call path; for traced
// functions it is the recorder-wrapped form, so recursive calls that
// resolve the function by name are captured too.
type Function struct {
	Name   string
	Params []string
	Body   []Stmt
	Env    *Env
	Traced bool

	entry trace.Func
}

// NativeFunc is a host-provided builtin.
type NativeFunc struct {
	Name string
	Fn   func(in *Interp, pos Pos, args []Value) (Value, error)
}

// Format renders the canonical display representation used for trace
// capture: strings are quoted, arrays render their elements recursively.
func (v Value) Format() string {
	switch v.Tag {
	case TagNull:
		return "null"
	case TagBool:
		if v.Data.(bool) {
			return "true"
		}
		return "false"
	case TagInt:
		return strconv.FormatInt(v.Data.(int64), 10)
	case TagStr:
		return strconv.Quote(v.Data.(string))
	case TagArr:
		elems := v.Data.([]Value)
		var b strings.Builder
		b.WriteString("[")
		for i, e := range elems {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(e.Format())
		}
		b.WriteString("]")
		return b.String()
	case TagFun:
		return "<fn " + v.Data.(*Function).Name + ">"
	case TagNative:
		return "<builtin " + v.Data.(*NativeFunc).Name + ">"
	default:
		return "<unknown>"
	}
}

// Display is the print form: like Format but strings are unquoted.
func (v Value) Display() string {
	if v.Tag == TagStr {
		return v.Data.(string)
	}
	return v.Format()
}

// Truthy reports the boolean interpretation of the value.
func (v Value) Truthy() bool {
	switch v.Tag {
	case TagNull:
		return false
	case TagBool:
		return v.Data.(bool)
	case TagInt:
		return v.Data.(int64) != 0
	case TagStr:
		return v.Data.(string) != ""
	case TagArr:
		return len(v.Data.([]Value)) > 0
	default:
		return true
	}
}

// Equal compares two values structurally. Values of different tags are
// never equal; functions compare by identity.
func (v Value) Equal(other Value) bool {
	if v.Tag != other.Tag {
		return false
	}
	switch v.Tag {
	case TagNull:
		return true
	case TagBool:
		return v.Data.(bool) == other.Data.(bool)
	case TagInt:
		return v.Data.(int64) == other.Data.(int64)
	case TagStr:
		return v.Data.(string) == other.Data.(string)
	case TagArr:
		a, b := v.Data.([]Value), other.Data.([]Value)
		if len(a) != len(b) {
			return false
		}
		for i := range a {
			if !a[i].Equal(b[i]) {
				return false
			}
		}
		return true
	default:
		return v.Data == other.Data
	}
}

// typeName is used in error messages.
func (v Value) typeName() string {
	switch v.Tag {
	case TagNull:
		return "null"
	case TagBool:
		return "bool"
	case TagInt:
		return "int"
	case TagStr:
		return "string"
	case TagArr:
		return "array"
	case TagFun:
		return "function"
	case TagNative:
		return "builtin"
	default:
		return "unknown"
	}
}

// Env is one lexical frame.
type Env struct {
	parent *Env
	table  map[string]Value
}

// NewEnv creates a frame with the given parent, which may be nil.
func NewEnv(parent *Env) *Env {
	return &Env{parent: parent, table: make(map[string]Value)}
}

// Define binds name in this frame, shadowing any outer binding.
func (e *Env) Define(name string, v Value) {
	e.table[name] = v
}

// Lookup resolves name through the frame chain.
func (e *Env) Lookup(name string) (Value, bool) {
	for env := e; env != nil; env = env.parent {
		if v, ok := env.table[name]; ok {
			return v, true
		}
	}
	return Value{}, false
}

// Assign rebinds an existing name in the nearest frame that defines it.
func (e *Env) Assign(name string, v Value) bool {
	for env := e; env != nil; env = env.parent {
		if _, ok := env.table[name]; ok {
			env.table[name] = v
			return true
		}
	}
	return false
}
