// Package flatten turns nested decoded documents into dot-separated keys.
package flatten

import "fmt"

// Map recursively flattens nested maps to dot-separated keys. When
// originalKeys is non-nil it records each flattened key against itself,
// since file keys are already in dot form.
func Map(prefix string, value any, result map[string]any, originalKeys map[string]string) {
	switch v := value.(type) {
	case map[string]any:
		for key, val := range v {
			Map(join(prefix, key), val, result, originalKeys)
		}
	case map[any]any:
		for key, val := range v {
			Map(join(prefix, fmt.Sprint(key)), val, result, originalKeys)
		}
	default:
		if prefix != "" {
			result[prefix] = value
			if originalKeys != nil {
				originalKeys[prefix] = prefix
			}
		}
	}
}

func join(prefix, key string) string {
	if prefix == "" {
		return key
	}
	return prefix + "." + key
}
