package errtree

// Node is one element of a rule-evaluation result. The set of node kinds is
// closed: EachNode, SetNode, ElementNode, CheckNode and PredicateNode.
type Node interface {
	node()
}

// EachNode holds the failures of a rule applied to every element.
type EachNode struct {
	Nodes []Node
}

// SetNode holds independent failures for the same scope.
type SetNode struct {
	Nodes []Node
}

// ElementNode scopes Node to the element at Index of the current input.
type ElementNode struct {
	Index int
	Node  Node
}

// CheckNode wraps the result of a cross-field check identified by ID.
type CheckNode struct {
	ID   string
	Node Node
}

// PredicateNode is a failed predicate. By convention the final argument is
// the evaluated input; it feeds the tokens but is left out of Message.Predicate.
type PredicateNode struct {
	Name string
	Args []Arg
}

func (EachNode) node()      {}
func (SetNode) node()       {}
func (ElementNode) node()   {}
func (CheckNode) node()     {}
func (PredicateNode) node() {}
