package errtree

import "fmt"

// Tree is a nested error structure keyed by path segment. A node is either
// a leaf holding messages or a branch holding children, never both.
type Tree struct {
	messages []Message
	children map[Segment]*Tree
}

// Build places m under path (root first). An empty path yields the leaf [m].
func Build(m Message, path Path) *Tree {
	acc := &Tree{messages: []Message{m}}
	for i := len(path) - 1; i >= 0; i-- {
		acc = &Tree{children: map[Segment]*Tree{path[i]: acc}}
	}
	return acc
}

// Merge deep-unions trees from left to right. Messages sharing a leaf are
// concatenated in argument order and never deduplicated. nil trees are
// skipped; Merge of nothing is nil. Arguments are not modified.
func Merge(trees ...*Tree) (*Tree, error) {
	var out *Tree
	for _, t := range trees {
		if t == nil {
			continue
		}
		merged, err := mergeAt(out, t, nil)
		if err != nil {
			return nil, err
		}
		out = merged
	}
	return out, nil
}

func mergeAt(a, b *Tree, at Path) (*Tree, error) {
	if a == nil {
		return b.clone(), nil
	}
	if b == nil {
		return a.clone(), nil
	}
	if a.IsLeaf() != b.IsLeaf() {
		return nil, fmt.Errorf("%w at %q", ErrShapeConflict, at.String())
	}
	if a.IsLeaf() {
		msgs := make([]Message, 0, len(a.messages)+len(b.messages))
		msgs = append(msgs, a.messages...)
		msgs = append(msgs, b.messages...)
		return &Tree{messages: msgs}, nil
	}

	out := &Tree{children: make(map[Segment]*Tree, len(a.children)+len(b.children))}
	for seg, child := range a.children {
		out.children[seg] = child
	}
	for seg, child := range b.children {
		merged, err := mergeAt(out.children[seg], child, at.Append(seg))
		if err != nil {
			return nil, err
		}
		out.children[seg] = merged
	}
	for seg, child := range out.children {
		if _, inB := b.children[seg]; !inB {
			out.children[seg] = child.clone()
		}
	}
	return out, nil
}

func (t *Tree) clone() *Tree {
	if t == nil {
		return nil
	}
	if t.IsLeaf() {
		return &Tree{messages: append([]Message(nil), t.messages...)}
	}
	out := &Tree{children: make(map[Segment]*Tree, len(t.children))}
	for seg, child := range t.children {
		out.children[seg] = child.clone()
	}
	return out
}

// IsLeaf reports whether t holds messages rather than children.
func (t *Tree) IsLeaf() bool { return t.children == nil }

// Messages returns the messages of a leaf, nil for a branch.
func (t *Tree) Messages() []Message {
	if !t.IsLeaf() {
		return nil
	}
	return append([]Message(nil), t.messages...)
}

// Child returns the subtree under seg.
func (t *Tree) Child(seg Segment) (*Tree, bool) {
	child, ok := t.children[seg]
	return child, ok
}

// At walks segs from t and returns the subtree found there.
func (t *Tree) At(segs ...Segment) (*Tree, bool) {
	cur := t
	for _, seg := range segs {
		next, ok := cur.Child(seg)
		if !ok {
			return nil, false
		}
		cur = next
	}
	return cur, true
}

// Keys returns the child segments of a branch: indices ascending, then keys
// in lexical order.
func (t *Tree) Keys() []Segment {
	keys := make([]Segment, 0, len(t.children))
	for seg := range t.children {
		keys = append(keys, seg)
	}
	sortSegments(keys)
	return keys
}

// Walk calls fn for every leaf in key order with the leaf's root-first path.
func (t *Tree) Walk(fn func(path Path, msgs []Message)) {
	t.walk(nil, fn)
}

func (t *Tree) walk(at Path, fn func(Path, []Message)) {
	if t.IsLeaf() {
		fn(at, t.Messages())
		return
	}
	for _, seg := range t.Keys() {
		t.children[seg].walk(at.Append(seg), fn)
	}
}

// All flattens the tree into its messages in Walk order.
func (t *Tree) All() []Message {
	var out []Message
	t.Walk(func(_ Path, msgs []Message) {
		out = append(out, msgs...)
	})
	return out
}

// ToMap returns the structural form: []Message for a leaf, otherwise a
// map[Segment]any of the same shape.
func (t *Tree) ToMap() any {
	if t.IsLeaf() {
		return t.Messages()
	}
	out := make(map[Segment]any, len(t.children))
	for seg, child := range t.children {
		out[seg] = child.ToMap()
	}
	return out
}

// Equal reports whether t and o have the same shape and equal messages.
func (t *Tree) Equal(o *Tree) bool {
	if t == nil || o == nil {
		return t == o
	}
	if t.IsLeaf() != o.IsLeaf() {
		return false
	}
	if t.IsLeaf() {
		if len(t.messages) != len(o.messages) {
			return false
		}
		for i := range t.messages {
			if !t.messages[i].Equal(o.messages[i]) {
				return false
			}
		}
		return true
	}
	if len(t.children) != len(o.children) {
		return false
	}
	for seg, child := range t.children {
		other, ok := o.children[seg]
		if !ok || !child.Equal(other) {
			return false
		}
	}
	return true
}

// Dedupe returns a copy of t keeping the first message of each signature
// within every leaf.
func Dedupe(t *Tree) *Tree {
	if t == nil {
		return nil
	}
	if t.IsLeaf() {
		seen := make(map[uint64]bool, len(t.messages))
		out := &Tree{messages: make([]Message, 0, len(t.messages))}
		for _, m := range t.messages {
			sig := m.Signature()
			if seen[sig] {
				continue
			}
			seen[sig] = true
			out.messages = append(out.messages, m)
		}
		return out
	}
	out := &Tree{children: make(map[Segment]*Tree, len(t.children))}
	for seg, child := range t.children {
		out.children[seg] = Dedupe(child)
	}
	return out
}
