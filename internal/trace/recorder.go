package trace

import "fmt"

// Unprintable is substituted when a value cannot be formatted. A broken
// formatter must never abort the trace.
const Unprintable = "<unprintable>"

// Arg is one call argument before formatting. Name is empty for positional
// arguments and set for keyword arguments.
type Arg struct {
	Name  string
	Value any
}

// Func is the calling convention for traceable functions.
type Func func(args []Arg) (any, error)

// FormatFunc converts a runtime value to its display representation.
// The recorder never inspects values itself; the host supplies this.
type FormatFunc func(v any) string

// Recorder owns the shared id counter, the explicit call stack and the node
// table for one trace session. It is an explicit object rather than process
// state so independent sessions never collide.
type Recorder struct {
	table  *Table
	format FormatFunc
	nextID int
	stack  []int // ids of the active call chain, innermost last
}

// NewRecorder creates a recorder writing into table. If format is nil a
// plain fmt-style fallback is used.
func NewRecorder(table *Table, format FormatFunc) *Recorder {
	if table == nil {
		table = NewTable()
	}
	return &Recorder{table: table, format: format}
}

// Table returns the node table this recorder writes into.
func (r *Recorder) Table() *Table {
	return r.table
}

// Depth returns the number of active traced calls.
func (r *Recorder) Depth() int {
	return len(r.stack)
}

// Reset clears the id counter, the call stack and the table for the next
// session. Resetting while a traced call is in flight is not supported.
func (r *Recorder) Reset() {
	r.nextID = 0
	r.stack = r.stack[:0]
	r.table.Reset()
}

// Wrap instruments fn so every call through the returned function is
// captured. The id counter is shared across all functions wrapped by this
// recorder, so ids reflect global call order within the session.
//
// On success the node is recorded and the original result returned
// unchanged. On failure nothing is recorded for this call, but the stack
// entry is still popped before the error propagates, so siblings and
// ancestors keep correct parents.
func (r *Recorder) Wrap(name string, fn Func) Func {
	return func(args []Arg) (any, error) {
		id := r.nextID
		r.nextID++

		parent := NoParent
		if n := len(r.stack); n > 0 {
			parent = r.stack[n-1]
		}

		r.stack = append(r.stack, id)
		// The pop must be unconditional: error and panic paths included.
		defer func() {
			r.stack = r.stack[:len(r.stack)-1]
		}()

		result, err := fn(args)
		if err != nil {
			return nil, err
		}

		node := Node{
			ID:     id,
			Parent: parent,
			Func:   name,
			Result: r.formatValue(result),
		}
		for _, a := range args {
			if a.Name == "" {
				node.Args = append(node.Args, r.formatValue(a.Value))
			} else {
				node.Kwargs = append(node.Kwargs, Field{Key: a.Name, Value: r.formatValue(a.Value)})
			}
		}
		r.table.Append(node)

		return result, nil
	}
}

// formatValue applies the host formatter. A missing formatter falls back to
// plain fmt formatting; a panicking one yields Unprintable.
func (r *Recorder) formatValue(v any) (out string) {
	defer func() {
		if recover() != nil {
			out = Unprintable
		}
	}()
	if r.format == nil {
		return fmt.Sprintf("%v", v)
	}
	return r.format(v)
}
