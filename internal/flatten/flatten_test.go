package flatten

import (
	"reflect"
	"testing"
)

func TestMap(t *testing.T) {
	tests := []struct {
		name     string
		prefix   string
		input    any
		expected map[string]any
	}{
		{
			name:  "flat document",
			input: map[string]any{"filled?": "must be filled", "gt?": "must be greater than %{num}"},
			expected: map[string]any{
				"filled?": "must be filled",
				"gt?":     "must be greater than %{num}",
			},
		},
		{
			name: "nested string keys",
			input: map[string]any{
				"size?": map[string]any{
					"arg":   map[string]any{"range": "between"},
					"value": map[string]any{"string": map[string]any{"arg": map[string]any{"default": "length"}}},
				},
			},
			expected: map[string]any{
				"size?.arg.range":                "between",
				"size?.value.string.arg.default": "length",
			},
		},
		{
			name: "yaml style interface keys",
			input: map[any]any{
				"rules": map[any]any{"age": "Age", 1: "first"},
			},
			expected: map[string]any{
				"rules.age": "Age",
				"rules.1":   "first",
			},
		},
		{
			name:     "prefix applied",
			prefix:   "rules",
			input:    map[string]any{"email": "E-mail"},
			expected: map[string]any{"rules.email": "E-mail"},
		},
		{
			name:     "scalar with prefix",
			prefix:   "key?",
			input:    "is missing",
			expected: map[string]any{"key?": "is missing"},
		},
		{
			name:     "scalar without prefix ignored",
			input:    "orphan",
			expected: map[string]any{},
		},
		{
			name:     "non string leaves kept",
			input:    map[string]any{"gt?": 3, "lt?": nil},
			expected: map[string]any{"gt?": 3, "lt?": nil},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := make(map[string]any)
			Map(tt.prefix, tt.input, result, nil)
			if !reflect.DeepEqual(result, tt.expected) {
				t.Errorf("Map() = %v, expected %v", result, tt.expected)
			}
		})
	}
}

func TestMap_OriginalKeys(t *testing.T) {
	result := make(map[string]any)
	originalKeys := make(map[string]string)

	Map("", map[string]any{
		"rules": map[string]any{"age": "Age"},
		"key?":  "is missing",
	}, result, originalKeys)

	expected := map[string]string{
		"rules.age": "rules.age",
		"key?":      "key?",
	}
	if !reflect.DeepEqual(originalKeys, expected) {
		t.Errorf("originalKeys = %v, expected %v", originalKeys, expected)
	}
}
