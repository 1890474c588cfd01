package script

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// registerBuiltins installs the host builtins every session gets.
func registerBuiltins(in *Interp) {
	in.RegisterNative(&NativeFunc{Name: "print", Fn: builtinPrint})
	in.RegisterNative(&NativeFunc{Name: "len", Fn: builtinLen})
	in.RegisterNative(&NativeFunc{Name: "upper", Fn: builtinUpper})
	in.RegisterNative(&NativeFunc{Name: "lower", Fn: builtinLower})
}

// builtinPrint writes its arguments to the session's captured output,
// separated by spaces and terminated by a newline.
func builtinPrint(in *Interp, _ Pos, args []Value) (Value, error) {
	parts := make([]string, 0, len(args))
	for _, a := range args {
		parts = append(parts, a.Display())
	}
	fmt.Fprintln(in.out, strings.Join(parts, " "))
	return Null(), nil
}

func builtinLen(_ *Interp, pos Pos, args []Value) (Value, error) {
	if len(args) != 1 {
		return Value{}, errorf(pos, "len() takes exactly 1 argument, got %d", len(args))
	}
	switch args[0].Tag {
	case TagStr:
		return Int(int64(len(args[0].Data.(string)))), nil
	case TagArr:
		return Int(int64(len(args[0].Data.([]Value)))), nil
	default:
		return Value{}, errorf(pos, "len() expects a string or array, got %s", args[0].typeName())
	}
}

func builtinUpper(_ *Interp, pos Pos, args []Value) (Value, error) {
	s, err := oneString("upper", pos, args)
	if err != nil {
		return Value{}, err
	}
	return Str(cases.Upper(language.Und).String(s)), nil
}

func builtinLower(_ *Interp, pos Pos, args []Value) (Value, error) {
	s, err := oneString("lower", pos, args)
	if err != nil {
		return Value{}, err
	}
	return Str(cases.Lower(language.Und).String(s)), nil
}

func oneString(name string, pos Pos, args []Value) (string, error) {
	if len(args) != 1 {
		return "", errorf(pos, "%s() takes exactly 1 argument, got %d", name, len(args))
	}
	if args[0].Tag != TagStr {
		return "", errorf(pos, "%s() expects a string, got %s", name, args[0].typeName())
	}
	return args[0].Data.(string), nil
}
