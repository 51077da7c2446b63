package errtree

import (
	"fmt"
	"hash/fnv"
	"reflect"
)

// Predicate identifies a failed predicate and the argument values it was called with.
type Predicate struct {
	Name string
	Args []any
}

// Message is one rendered validation failure.
type Message struct {
	Rule      Segment   // Rule the failure belongs to (zero for root failures)
	Predicate Predicate // Failed predicate, input argument excluded
	Path      Path      // Root-first placement in the error tree
	Text      string    // Rendered text

	hint    bool
	grouped bool
}

// WithHint returns a copy of m marked as a hint. grouped records that the
// hint was produced while compiling a repeated element.
func (m Message) WithHint(grouped bool) Message {
	m.hint = true
	m.grouped = grouped
	return m
}

// Hint reports whether m is a supplementary note rather than a failure.
func (m Message) Hint() bool { return m.hint }

// Grouped reports whether m is a hint produced under an each node.
func (m Message) Grouped() bool { return m.grouped }

// Root reports whether m has no path.
func (m Message) Root() bool { return len(m.Path) == 0 }

// IsEmpty always reports false. A Message always carries a failure; an
// absent result is a nil *Tree.
func (m Message) IsEmpty() bool { return false }

// DisplayText returns the rendered text. Use it instead of comparing a
// Message against a string.
func (m Message) DisplayText() string { return m.Text }

func (m Message) String() string { return m.Text }

// Signature hashes the rule and predicate. Two messages with the same rule
// and predicate share a signature whatever their text or path.
func (m Message) Signature() uint64 {
	h := fnv.New64a()
	fmt.Fprintf(h, "%t:%s\x00%s\x00%#v", m.Rule.IsIndex(), m.Rule.String(), m.Predicate.Name, m.Predicate.Args)
	return h.Sum64()
}

// Equal reports structural equality on every field, flags included.
func (m Message) Equal(o Message) bool {
	if m.Rule != o.Rule || m.Text != o.Text || m.hint != o.hint || m.grouped != o.grouped {
		return false
	}
	if m.Predicate.Name != o.Predicate.Name || len(m.Predicate.Args) != len(o.Predicate.Args) {
		return false
	}
	if len(m.Predicate.Args) > 0 && !reflect.DeepEqual(m.Predicate.Args, o.Predicate.Args) {
		return false
	}
	if len(m.Path) != len(o.Path) {
		return false
	}
	for i := range m.Path {
		if m.Path[i] != o.Path[i] {
			return false
		}
	}
	return true
}
