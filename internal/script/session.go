package script

import (
	"bytes"
	"fmt"

	"calltree/internal/trace"
)

// FormatValue is the Displayable capability handed to the recorder: it
// converts any runtime value to its canonical text form.
func FormatValue(v any) string {
	if val, ok := v.(Value); ok {
		return val.Format()
	}
	return fmt.Sprintf("%v", v)
}

// Session is one guest execution environment: an isolated global namespace,
// a captured stdout stream, and the trace state for exactly one evaluated
// call expression. Sessions are independent; concurrent sessions never
// share state.
type Session struct {
	table *trace.Table
	rec   *trace.Recorder
	in    *Interp
	out   bytes.Buffer
}

// NewSession creates a fresh session with its own recorder and globals.
func NewSession() *Session {
	s := &Session{table: trace.NewTable()}
	s.rec = trace.NewRecorder(s.table, FormatValue)
	s.in = newInterp(s.rec, &s.out)
	return s
}

// Reset clears the trace state, the captured output and the global
// namespace, ready for the next run. Definitions do not survive a reset.
func (s *Session) Reset() {
	s.rec.Reset()
	s.out.Reset()
	s.in = newInterp(s.rec, &s.out)
}

// Run executes user code: function declarations and top-level statements.
func (s *Session) Run(src string) error {
	stmts, err := ParseProgram(src)
	if err != nil {
		return err
	}
	return s.in.Exec(stmts)
}

// EvalCall evaluates a call expression against the definitions loaded by
// Run. Output written before a failure remains retrievable via Output.
func (s *Session) EvalCall(expr string) (Value, error) {
	e, err := ParseExpression(expr)
	if err != nil {
		return Value{}, err
	}
	return s.in.Eval(e)
}

// EvalLine evaluates one REPL line: an expression when it parses as one,
// otherwise a program fragment. produced reports whether a value came back.
func (s *Session) EvalLine(src string) (v Value, produced bool, err error) {
	if e, exprErr := ParseExpression(src); exprErr == nil {
		v, err = s.in.Eval(e)
		return v, err == nil, err
	}
	return Value{}, false, s.Run(src)
}

// Table exposes the node table. Callers must read it only after the traced
// call expression has fully returned or failed.
func (s *Session) Table() *trace.Table {
	return s.table
}

// Recorder exposes the session's recorder, mainly for stack-depth checks.
func (s *Session) Recorder() *trace.Recorder {
	return s.rec
}

// Output returns everything the guest printed so far this session.
func (s *Session) Output() string {
	return s.out.String()
}
