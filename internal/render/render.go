// Package render produces textual renderings of a recorded call tree.
package render

import (
	"fmt"
	"strings"

	"calltree/internal/trace"
	"calltree/internal/tree"
)

// NoTracedCalls is the defined output for an empty trace table. An empty
// trace is not an error; renderers never produce a blank panel.
const NoTracedCalls = "(no traced calls)"

// Style selects the rendering style.
type Style uint8

const (
	// StyleConnector draws box-drawing connectors between nodes.
	StyleConnector Style = iota
	// StyleIndent indents each line by two spaces per depth, no connectors.
	StyleIndent
)

// String returns the string representation of Style.
func (s Style) String() string {
	switch s {
	case StyleConnector:
		return "connector"
	case StyleIndent:
		return "indent"
	default:
		return "unknown"
	}
}

// ParseStyle converts a string to a Style.
func ParseStyle(s string) (Style, error) {
	switch strings.ToLower(s) {
	case "connector", "tree":
		return StyleConnector, nil
	case "indent", "plain":
		return StyleIndent, nil
	default:
		return StyleConnector, fmt.Errorf("invalid render style: %q (expected: connector|indent)", s)
	}
}

// LabelFunc produces the display line for one node. Overriding the label
// never changes traversal order.
type LabelFunc func(n trace.Node) string

// DefaultLabel renders "#<id>(<args>[, **<kwargs>]) -> <result>". The
// kwargs section is omitted entirely when there are none.
func DefaultLabel(n trace.Node) string {
	var b strings.Builder
	fmt.Fprintf(&b, "#%d(", n.ID)
	b.WriteString(strings.Join(n.Args, ", "))
	if len(n.Kwargs) > 0 {
		if len(n.Args) > 0 {
			b.WriteString(", ")
		}
		b.WriteString("**{")
		for i, f := range n.Kwargs {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(f.Key)
			b.WriteString(": ")
			b.WriteString(f.Value)
		}
		b.WriteString("}")
	}
	b.WriteString(") -> ")
	b.WriteString(n.Result)
	return b.String()
}

// Render produces a deterministic multi-line rendering of the table. A nil
// label falls back to DefaultLabel. Children render in call order (the
// order the indexer recorded them), which is not necessarily id order on
// malformed input. The output always ends in a single newline.
func Render(t *trace.Table, style Style, label LabelFunc) string {
	if label == nil {
		label = DefaultLabel
	}
	if t.Len() == 0 {
		return NoTracedCalls + "\n"
	}
	ix := tree.Build(t)
	switch style {
	case StyleIndent:
		return renderIndent(t, ix, label)
	default:
		return renderConnector(t, ix, label)
	}
}

// frame is one pending line of connector-style output.
type frame struct {
	id          int
	prefix      string // accumulated ancestor segments
	connector   string // "├── ", "└── ", or "" for roots
	childPrefix string
}

// renderConnector walks each root subtree with an explicit work-list,
// carrying the running prefix instead of recursing. Root subtrees of a
// forest are separated by one blank line, with none after the last.
func renderConnector(t *trace.Table, ix tree.Index, label LabelFunc) string {
	var b strings.Builder
	for ri, root := range ix.Roots() {
		if ri > 0 {
			b.WriteString("\n")
		}
		stack := []frame{{id: root}}
		for len(stack) > 0 {
			f := stack[len(stack)-1]
			stack = stack[:len(stack)-1]

			n, ok := t.Get(f.id)
			if !ok {
				continue
			}
			b.WriteString(f.prefix)
			b.WriteString(f.connector)
			b.WriteString(label(n))
			b.WriteString("\n")

			kids := ix.Children(f.id)
			for i := len(kids) - 1; i >= 0; i-- {
				cf := frame{id: kids[i], prefix: f.childPrefix}
				if i == len(kids)-1 {
					cf.connector = "└── "
					cf.childPrefix = f.childPrefix + "    "
				} else {
					cf.connector = "├── "
					cf.childPrefix = f.childPrefix + "│   "
				}
				stack = append(stack, cf)
			}
		}
	}
	return b.String()
}

// renderIndent writes one line per node, indented two spaces per depth.
func renderIndent(t *trace.Table, ix tree.Index, label LabelFunc) string {
	var b strings.Builder
	ix.Walk(func(id, depth int) {
		n, ok := t.Get(id)
		if !ok {
			return
		}
		b.WriteString(strings.Repeat("  ", depth))
		b.WriteString(label(n))
		b.WriteString("\n")
	})
	return b.String()
}
