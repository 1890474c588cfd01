// Package layout assigns deterministic 3-D coordinates to a call tree.
package layout

import (
	"calltree/internal/trace"
)

// Spacing holds the fixed distances between laid-out nodes.
type Spacing struct {
	H    float64 // horizontal distance between level neighbours
	V    float64 // vertical distance between depths
	Z    float64 // depth-axis fan distance between level neighbours
	Skew float64 // per-depth depth-axis offset, readability only
}

// DefaultSpacing is used wherever a zero Spacing is supplied.
var DefaultSpacing = Spacing{H: 2.0, V: 1.5, Z: 1.0, Skew: 0.25}

// Point is a position in layout space. Y grows upward, so deeper levels
// get more negative Y.
type Point struct {
	X float64
	Y float64
	Z float64
}

// Placement is one node with its computed depth and position.
type Placement struct {
	Node  trace.Node
	Depth int
	Pos   Point
}

// Edge connects a laid-out parent to a laid-out child.
type Edge struct {
	Parent int
	Child  int
}

// Result is the full layout of one trace table. Nodes are ordered by depth,
// then ascending id.
type Result struct {
	Nodes []Placement
	Edges []Edge
}

// Engine computes spatial layout for trace tables. It is stateless apart
// from its spacing constants; Compute is a pure function.
type Engine struct {
	spacing Spacing
}

// New creates an Engine. Zero spacing fields fall back to DefaultSpacing.
func New(sp Spacing) *Engine {
	if sp.H == 0 {
		sp.H = DefaultSpacing.H
	}
	if sp.V == 0 {
		sp.V = DefaultSpacing.V
	}
	if sp.Z == 0 {
		sp.Z = DefaultSpacing.Z
	}
	if sp.Skew == 0 {
		sp.Skew = DefaultSpacing.Skew
	}
	return &Engine{spacing: sp}
}

// Spacing returns the engine's effective spacing constants.
func (e *Engine) Spacing() Spacing {
	return e.spacing
}
