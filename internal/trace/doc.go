// Package trace captures call trees from instrumented functions.
//
// The package reconstructs the dynamic call tree of a traced function from
// nothing but a runtime call stack: every invocation is assigned a unique id,
// linked to the invocation that was active when it began, and recorded into a
// flat node table together with its formatted arguments and result.
//
// # Architecture
//
//   - Node: one recorded invocation (id, parent, formatted args/kwargs, result)
//   - Table: the append-only, insertion-ordered node table for one session
//   - Recorder: owns the id counter and the explicit call stack, and wraps
//     target functions so calls are captured transparently
//
// # Recording order
//
// A node is recorded when its call returns, not when it begins. Since a call
// is still active while its children run, a parent's node always lands in the
// table after all of its children. Consumers must not assume insertion order
// is parent-before-child; they get call order back by following parent links.
//
// # Concurrency
//
// One Recorder assumes single-threaded, strictly nested execution of traced
// calls. It is correct for arbitrary recursion depth and mutual recursion but
// not for concurrent invocation from multiple goroutines: the call stack and
// id counter are shared mutable state with no synchronization. Give each
// independent logical thread of control its own Recorder. The Table may be
// read freely once the traced call expression has fully returned or failed.
package trace
