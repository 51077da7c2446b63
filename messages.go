package errtree

import (
	"context"
	_ "embed"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/Azhovan/errtree/internal/flatten"
	"github.com/Azhovan/errtree/internal/normalize"
)

// Value and argument type names used in catalog keys.
const (
	TypeString  = "string"
	TypeInteger = "integer"
	TypeFloat   = "float"
	TypeBool    = "bool"
	TypeArray   = "array"
	TypeHash    = "hash"
	TypeNil     = "nil"
	TypeDefault = "default"
	TypeRange   = "range"
)

const rulesKey = "rules"

// Messages is a Catalog backed by a flat table of templates keyed by
// normalized dot paths. It is immutable and safe for concurrent use.
//
// Lookup tries, in order:
//
//	rules.<rule>.<predicate>.arg.<argtype>
//	rules.<rule>.<predicate>
//	<predicate>.value.<rule>
//	<predicate>.value.<valtype>.arg.<argtype>
//	<predicate>.value.<valtype>
//	<predicate>.arg.<argtype>
//	<predicate>
type Messages struct {
	templates  map[string]string
	provenance map[string]EntryProvenance
}

// NewMessages builds a catalog from dot-path keys. Keys are normalized:
// lowercased, with trailing question marks dropped ("size?.arg.range").
func NewMessages(entries map[string]string) *Messages {
	m := &Messages{
		templates:  make(map[string]string, len(entries)),
		provenance: make(map[string]EntryProvenance),
	}
	for k, v := range entries {
		m.templates[normalize.CatalogKey(k)] = v
	}
	return m
}

//go:embed defaults/errors.yaml
var defaultCatalog []byte

// DefaultMessages returns the built-in English catalog.
func DefaultMessages() *Messages {
	var raw map[string]any
	if err := yaml.Unmarshal(defaultCatalog, &raw); err != nil {
		panic(fmt.Sprintf("errtree: embedded catalog: %v", err))
	}
	flat := make(map[string]any)
	flatten.Map("", raw, flat, nil)

	entries := make(map[string]string, len(flat))
	for k, v := range flat {
		if s, ok := v.(string); ok {
			entries[k] = s
		}
	}
	return NewMessages(entries)
}

// DefaultSource returns a Source serving the built-in catalog. Use it as the
// first Loader layer so files and environment variables override it.
func DefaultSource() Source { return defaultSource{} }

type defaultSource struct{}

func (defaultSource) Load(context.Context) (map[string]any, error) {
	m := DefaultMessages()
	out := make(map[string]any, len(m.templates))
	for k, v := range m.templates {
		out[k] = v
	}
	return out, nil
}

func (defaultSource) Watch(context.Context) (<-chan ChangeEvent, error) {
	return nil, ErrWatchNotSupported
}

func (defaultSource) Name() string { return "defaults" }

// Lookup returns the most specific template for predicate.
func (m *Messages) Lookup(predicate string, lc LookupContext) (string, bool) {
	for _, key := range lookupKeys(predicate, lc) {
		if tmpl, ok := m.templates[key]; ok {
			return tmpl, true
		}
	}
	return "", false
}

// RuleName returns rules.<rule>.name or rules.<rule>.
func (m *Messages) RuleName(rule string, _ LookupContext) (string, bool) {
	r := normalize.PredicateKey(rule)
	if name, ok := m.templates[normalize.Join(rulesKey, r, "name")]; ok {
		return name, true
	}
	name, ok := m.templates[normalize.Join(rulesKey, r)]
	return name, ok
}

// Template returns the entry stored under a normalized key.
func (m *Messages) Template(key string) (string, bool) {
	tmpl, ok := m.templates[normalize.CatalogKey(key)]
	return tmpl, ok
}

// Keys returns every key in lexical order.
func (m *Messages) Keys() []string {
	keys := make([]string, 0, len(m.templates))
	for k := range m.templates {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Len returns the number of entries.
func (m *Messages) Len() int { return len(m.templates) }

// HasPredicate reports whether any entry exists for predicate.
func (m *Messages) HasPredicate(predicate string) bool {
	p := normalize.PredicateKey(predicate)
	for k := range m.templates {
		if k == p || strings.HasPrefix(k, p+".") {
			return true
		}
	}
	return false
}

// lookupKeys lists candidate keys from most to least specific.
func lookupKeys(predicate string, lc LookupContext) []string {
	p := normalize.PredicateKey(predicate)
	val := ValueTypeName(lc.ValType)
	arg := ArgTypeName(lc.ArgType)

	keys := make([]string, 0, 7)
	if !lc.Rule.IsZero() && !lc.Rule.IsIndex() {
		r := normalize.PredicateKey(lc.Rule.Name())
		keys = append(keys,
			normalize.Join(rulesKey, r, p, "arg", arg),
			normalize.Join(rulesKey, r, p),
			normalize.Join(p, "value", r),
		)
	}
	return append(keys,
		normalize.Join(p, "value", val, "arg", arg),
		normalize.Join(p, "value", val),
		normalize.Join(p, "arg", arg),
		p,
	)
}

var rangeType = reflect.TypeOf(Range{})

// ValueTypeName classifies the input type for catalog keys.
func ValueTypeName(t reflect.Type) string {
	if t == nil {
		return TypeNil
	}
	switch t.Kind() {
	case reflect.String:
		return TypeString
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return TypeInteger
	case reflect.Float32, reflect.Float64:
		return TypeFloat
	case reflect.Bool:
		return TypeBool
	case reflect.Slice, reflect.Array:
		return TypeArray
	case reflect.Map, reflect.Struct:
		return TypeHash
	default:
		return TypeDefault
	}
}

// ArgTypeName classifies the first predicate argument for catalog keys.
func ArgTypeName(t reflect.Type) string {
	if t == rangeType {
		return TypeRange
	}
	return TypeDefault
}

// validKey reports whether key fits the catalog key grammar.
func validKey(key string) bool {
	parts := strings.Split(key, ".")
	for _, p := range parts {
		if p == "" {
			return false
		}
	}
	if parts[0] == rulesKey {
		switch len(parts) {
		case 2:
			return true
		case 3:
			return true // rules.<rule>.name or rules.<rule>.<predicate>
		case 5:
			return parts[3] == "arg" && validArgType(parts[4])
		default:
			return false
		}
	}
	switch len(parts) {
	case 1:
		return true
	case 3:
		return (parts[1] == "arg" && validArgType(parts[2])) || parts[1] == "value"
	case 5:
		return parts[1] == "value" && parts[3] == "arg" && validArgType(parts[4])
	default:
		return false
	}
}

func validArgType(s string) bool {
	return s == TypeRange || s == TypeDefault
}
