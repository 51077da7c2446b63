package errtree

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMessages_LookupOrder(t *testing.T) {
	full := map[string]string{
		"size?":                        "base",
		"size?.arg.range":              "base range",
		"size?.value.string":           "string",
		"size?.value.string.arg.range": "string range",
		"size?.value.tags":             "per rule value",
		"rules.tags.size?":             "per rule",
		"rules.tags.size?.arg.range":   "per rule range",
	}

	rng := reflect.TypeOf(Range{})
	str := reflect.TypeOf("")

	// Each step removes the entry matched by the step before.
	steps := []struct {
		remove string
		want   string
	}{
		{"", "per rule range"},
		{"rules.tags.size?.arg.range", "per rule"},
		{"rules.tags.size?", "per rule value"},
		{"size?.value.tags", "string range"},
		{"size?.value.string.arg.range", "string"},
		{"size?.value.string", "base range"},
		{"size?.arg.range", "base"},
	}

	entries := make(map[string]string, len(full))
	for k, v := range full {
		entries[k] = v
	}
	lc := LookupContext{Rule: Key("tags"), Path: Path{Key("tags")}, ValType: str, ArgType: rng}

	for _, step := range steps {
		if step.remove != "" {
			delete(entries, step.remove)
		}
		got, ok := NewMessages(entries).Lookup("size?", lc)
		if !ok {
			t.Fatalf("after removing %q: no template", step.remove)
		}
		if got != step.want {
			t.Errorf("after removing %q: got %q, want %q", step.remove, got, step.want)
		}
	}

	delete(entries, "size?")
	_, ok := NewMessages(entries).Lookup("size?", LookupContext{ValType: str})
	assert.False(t, ok)
}

func TestMessages_LookupIndexRuleSkipsRuleEntries(t *testing.T) {
	m := NewMessages(map[string]string{
		"filled":         "must be filled",
		"rules.0.filled": "never used",
		"filled.value.0": "never used",
	})

	got, ok := m.Lookup("filled?", LookupContext{Rule: Index(0)})
	require.True(t, ok)
	assert.Equal(t, "must be filled", got)
}

func TestMessages_KeyNormalization(t *testing.T) {
	m := NewMessages(map[string]string{
		"Filled?":           "must be filled",
		"SIZE?.Arg.Range":   "range",
		"rules.Email?.name": "E-mail",
	})

	assert.Equal(t, []string{"filled", "rules.email.name", "size.arg.range"}, m.Keys())
	assert.Equal(t, 3, m.Len())

	tmpl, ok := m.Template("filled?")
	assert.True(t, ok)
	assert.Equal(t, "must be filled", tmpl)
}

func TestMessages_RuleName(t *testing.T) {
	m := NewMessages(map[string]string{
		"rules.email":     "E-mail",
		"rules.nick":      "ignored",
		"rules.nick.name": "Nickname",
	})

	tests := []struct {
		rule string
		want string
		ok   bool
	}{
		{"email", "E-mail", true},
		{"nick", "Nickname", true},
		{"age", "", false},
	}

	for _, tt := range tests {
		got, ok := m.RuleName(tt.rule, LookupContext{})
		if ok != tt.ok || got != tt.want {
			t.Errorf("RuleName(%q) = %q, %v; want %q, %v", tt.rule, got, ok, tt.want, tt.ok)
		}
	}
}

func TestMessages_HasPredicate(t *testing.T) {
	m := NewMessages(map[string]string{
		"size.arg.range": "x",
		"filled":         "y",
	})

	assert.True(t, m.HasPredicate("size?"))
	assert.True(t, m.HasPredicate("filled?"))
	assert.False(t, m.HasPredicate("size_of?"))
	assert.False(t, m.HasPredicate("key?"))
}

func TestDefaultMessages(t *testing.T) {
	m := DefaultMessages()

	for _, p := range []string{"filled?", "key?", "size?", "included_in?", "excluded_from?", "inclusion?", "exclusion?", "gt?"} {
		assert.True(t, m.HasPredicate(p), "default catalog lacks %s", p)
	}
	require.NoError(t, ValidateMessages(m))

	for _, key := range m.Keys() {
		assert.True(t, validKey(key), "default catalog key %q is outside the key grammar", key)
	}

	got, ok := m.Lookup("size?", LookupContext{ValType: reflect.TypeOf(""), ArgType: reflect.TypeOf(3)})
	require.True(t, ok)
	assert.Equal(t, "length must be %{size}", got)

	_, hasProv := GetProvenance(m)
	assert.False(t, hasProv)
}

func TestValueTypeName(t *testing.T) {
	type named string

	tests := []struct {
		v    any
		want string
	}{
		{nil, TypeNil},
		{"s", TypeString},
		{named("s"), TypeString},
		{3, TypeInteger},
		{uint8(3), TypeInteger},
		{1.5, TypeFloat},
		{true, TypeBool},
		{[]int{}, TypeArray},
		{[1]string{}, TypeArray},
		{map[string]any{}, TypeHash},
		{struct{}{}, TypeHash},
		{make(chan int), TypeDefault},
	}

	for _, tt := range tests {
		if got := ValueTypeName(reflect.TypeOf(tt.v)); got != tt.want {
			t.Errorf("ValueTypeName(%T) = %q, want %q", tt.v, got, tt.want)
		}
	}
}

func TestArgTypeName(t *testing.T) {
	assert.Equal(t, TypeRange, ArgTypeName(reflect.TypeOf(Range{})))
	assert.Equal(t, TypeDefault, ArgTypeName(reflect.TypeOf(3)))
	assert.Equal(t, TypeDefault, ArgTypeName(nil))
}

func TestValidKey(t *testing.T) {
	tests := []struct {
		key  string
		want bool
	}{
		{"filled", true},
		{"size.arg.range", true},
		{"size.arg.default", true},
		{"size.arg.other", false},
		{"size.value.string", true},
		{"size.value.string.arg.range", true},
		{"size.value.string.arg.bogus", false},
		{"size.value.string.other.range", false},
		{"size.other.x", false},
		{"size.arg", false},
		{"rules.age", true},
		{"rules.age.name", true},
		{"rules.age.filled", true},
		{"rules.age.filled.arg.range", true},
		{"rules.age.filled.value.string", false},
		{"rules", false},
		{"a..b", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := validKey(tt.key); got != tt.want {
			t.Errorf("validKey(%q) = %v, want %v", tt.key, got, tt.want)
		}
	}
}
