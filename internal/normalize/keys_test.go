package normalize

import (
	"testing"
)

func TestToLowerDotPath(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "double underscore to dot",
			input:    "SIZE__ARG",
			expected: "size.arg",
		},
		{
			name:     "single underscore preserved",
			input:    "EXCLUDED_FROM",
			expected: "excluded_from",
		},
		{
			name:     "mixed double and single underscores",
			input:    "RULES__ZIP_CODE",
			expected: "rules.zip_code",
		},
		{
			name:     "multiple levels",
			input:    "SIZE__VALUE__STRING__ARG__RANGE",
			expected: "size.value.string.arg.range",
		},
		{
			name:     "already lowercase",
			input:    "filled",
			expected: "filled",
		},
		{
			name:     "empty string",
			input:    "",
			expected: "",
		},
		{
			name:     "only underscores",
			input:    "____",
			expected: "..",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ToLowerDotPath(tt.input)
			if result != tt.expected {
				t.Errorf("ToLowerDotPath(%q) = %q, want %q", tt.input, result, tt.expected)
			}
		})
	}
}

func TestPredicateKey(t *testing.T) {
	tests := []struct {
		name      string
		predicate string
		expected  string
	}{
		{"question mark dropped", "filled?", "filled"},
		{"no question mark", "size", "size"},
		{"underscored name", "included_in?", "included_in"},
		{"mixed case", "Filled?", "filled"},
		{"only the trailing mark", "a?b?", "a?b"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := PredicateKey(tt.predicate)
			if result != tt.expected {
				t.Errorf("PredicateKey(%q) = %q, want %q", tt.predicate, result, tt.expected)
			}
		})
	}
}

func TestCatalogKey(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"size?.arg.range", "size.arg.range"},
		{"Rules.Age.Filled?", "rules.age.filled"},
		{"filled", "filled"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := CatalogKey(tt.input); got != tt.expected {
				t.Errorf("CatalogKey(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestApplyPrefix(t *testing.T) {
	tests := []struct {
		name     string
		prefix   string
		key      string
		expected string
	}{
		{
			name:     "with prefix",
			prefix:   "size",
			key:      "arg",
			expected: "size.arg",
		},
		{
			name:     "empty prefix",
			prefix:   "",
			key:      "filled",
			expected: "filled",
		},
		{
			name:     "empty key",
			prefix:   "rules",
			key:      "",
			expected: "rules",
		},
		{
			name:     "both empty",
			prefix:   "",
			key:      "",
			expected: "",
		},
		{
			name:     "nested prefix",
			prefix:   "size.value",
			key:      "string",
			expected: "size.value.string",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ApplyPrefix(tt.prefix, tt.key)
			if result != tt.expected {
				t.Errorf("ApplyPrefix(%q, %q) = %q, want %q", tt.prefix, tt.key, result, tt.expected)
			}
		})
	}
}

func TestJoin(t *testing.T) {
	if got := Join("size", "", "arg", "range"); got != "size.arg.range" {
		t.Errorf("Join() = %q, want %q", got, "size.arg.range")
	}
	if got := Join(); got != "" {
		t.Errorf("Join() with no parts = %q, want empty", got)
	}
}
