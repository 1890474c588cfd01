package trace

// NoParent marks a node whose call had no enclosing traced call.
const NoParent = -1

// Field is one keyword argument in its display form.
// Order of fields is the order the arguments were passed in.
type Field struct {
	Key   string
	Value string
}

// Node represents a single recorded invocation.
type Node struct {
	ID     int     // unique, monotonically assigned in call order from 0
	Parent int     // id of the enclosing active call, NoParent for roots
	Func   string  // name of the traced function that produced this node
	Args   []string // positional arguments, pre-formatted at capture time
	Kwargs []Field  // keyword arguments, pre-formatted, insertion order
	Result string   // display form of the return value
}

// Root reports whether the node had no enclosing traced call.
func (n Node) Root() bool {
	return n.Parent == NoParent
}
