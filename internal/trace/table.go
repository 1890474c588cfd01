package trace

// Table is the flat node table for one trace session. It is append-only
// during execution and preserves insertion order, which for sequential
// execution is completion order: children land before their parents.
type Table struct {
	nodes []Node
	byID  map[int]int // id -> index into nodes
}

// NewTable creates an empty table.
func NewTable() *Table {
	return &Table{byID: make(map[int]int)}
}

// Append adds a node to the table. A node with a duplicate id is ignored;
// ids are never reused within one session.
func (t *Table) Append(n Node) {
	if _, ok := t.byID[n.ID]; ok {
		return
	}
	t.byID[n.ID] = len(t.nodes)
	t.nodes = append(t.nodes, n)
}

// Get returns the node with the given id.
func (t *Table) Get(id int) (Node, bool) {
	if t == nil {
		return Node{}, false
	}
	idx, ok := t.byID[id]
	if !ok {
		return Node{}, false
	}
	return t.nodes[idx], true
}

// Has reports whether a node with the given id exists.
func (t *Table) Has(id int) bool {
	if t == nil {
		return false
	}
	_, ok := t.byID[id]
	return ok
}

// Len returns the number of recorded nodes.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.nodes)
}

// Snapshot returns a copy of all nodes in insertion order.
func (t *Table) Snapshot() []Node {
	if t == nil {
		return nil
	}
	out := make([]Node, len(t.nodes))
	copy(out, t.nodes)
	return out
}

// Reset discards all recorded nodes.
func (t *Table) Reset() {
	t.nodes = t.nodes[:0]
	t.byID = make(map[int]int)
}
