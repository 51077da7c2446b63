package errtree

import (
	"sort"
	"strconv"
	"strings"
)

// Segment is one element of a Path: a field key or an element index.
// The zero Segment is the empty key and stands for "no segment".
type Segment struct {
	key     string
	index   int
	isIndex bool
}

// Key returns a field-name segment.
func Key(name string) Segment {
	return Segment{key: name}
}

// Index returns an element-index segment.
func Index(i int) Segment {
	return Segment{index: i, isIndex: true}
}

// IsIndex reports whether s addresses a collection element.
func (s Segment) IsIndex() bool { return s.isIndex }

// IsZero reports whether s is the absent segment.
func (s Segment) IsZero() bool { return !s.isIndex && s.key == "" }

// Name returns the field key. Empty for index segments.
func (s Segment) Name() string { return s.key }

// Position returns the element index. Zero for key segments.
func (s Segment) Position() int { return s.index }

// String returns the key, or the decimal index.
func (s Segment) String() string {
	if s.isIndex {
		return strconv.Itoa(s.index)
	}
	return s.key
}

// less orders indices ascending before keys in lexical order.
func (s Segment) less(o Segment) bool {
	if s.isIndex != o.isIndex {
		return s.isIndex
	}
	if s.isIndex {
		return s.index < o.index
	}
	return s.key < o.key
}

// segmentOf converts a token value into a Segment.
// Strings become keys and ints become indices; anything else is rejected.
func segmentOf(v any) (Segment, bool) {
	switch s := v.(type) {
	case Segment:
		return s, !s.IsZero()
	case string:
		return Key(s), s != ""
	case int:
		return Index(s), true
	default:
		return Segment{}, false
	}
}

// Path is an ordered chain of segments, root first.
type Path []Segment

// ParsePath builds a Path from dot notation. Purely numeric parts become
// indices: "items.2.name" → [items 2 name].
func ParsePath(s string) Path {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ".")
	p := make(Path, 0, len(parts))
	for _, part := range parts {
		if i, err := strconv.Atoi(part); err == nil && i >= 0 {
			p = append(p, Index(i))
			continue
		}
		p = append(p, Key(part))
	}
	return p
}

// Last returns the innermost segment, or the zero Segment for an empty path.
func (p Path) Last() Segment {
	if len(p) == 0 {
		return Segment{}
	}
	return p[len(p)-1]
}

// Contains reports whether seg occurs anywhere in p.
func (p Path) Contains(seg Segment) bool {
	for _, s := range p {
		if s == seg {
			return true
		}
	}
	return false
}

// Append returns a new path with segs added after p. p is never modified.
func (p Path) Append(segs ...Segment) Path {
	out := make(Path, 0, len(p)+len(segs))
	out = append(out, p...)
	return append(out, segs...)
}

// Reverse returns p innermost first.
func (p Path) Reverse() Path {
	out := make(Path, len(p))
	for i, s := range p {
		out[len(p)-1-i] = s
	}
	return out
}

// String renders p in dot notation.
func (p Path) String() string {
	parts := make([]string, len(p))
	for i, s := range p {
		parts[i] = s.String()
	}
	return strings.Join(parts, ".")
}

func sortSegments(segs []Segment) {
	sort.Slice(segs, func(i, j int) bool { return segs[i].less(segs[j]) })
}
