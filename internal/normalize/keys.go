package normalize

import (
	"strings"
)

// ToLowerDotPath normalizes a catalog key to a lowercase dot-separated path.
// Double underscores (__) are treated as level separators and converted to dots.
// Single underscores within a level are preserved.
// Examples:
//   - "SIZE__ARG__RANGE" → "size.arg.range"
//   - "INCLUDED_IN" → "included_in"
//   - "RULES__AGE" → "rules.age"
func ToLowerDotPath(key string) string {
	normalized := strings.ReplaceAll(key, "__", ".")
	return strings.ToLower(normalized)
}

// PredicateKey returns the catalog key for a predicate name.
// The trailing question mark is dropped and the name lowercased.
// Examples:
//   - "filled?" → "filled"
//   - "included_in?" → "included_in"
//   - "size" → "size"
func PredicateKey(name string) string {
	return strings.ToLower(strings.TrimSuffix(name, "?"))
}

// CatalogKey normalizes every level of a dotted key with PredicateKey, so
// "Size?.arg.range" and "size.arg.range" address the same entry.
func CatalogKey(key string) string {
	parts := strings.Split(key, ".")
	for i, p := range parts {
		parts[i] = PredicateKey(p)
	}
	return strings.Join(parts, ".")
}

// ApplyPrefix combines a prefix with a key to create a nested catalog path.
// If prefix is empty, returns the key unchanged.
// Otherwise, returns "prefix.key".
// Examples:
//   - ApplyPrefix("size", "arg") → "size.arg"
//   - ApplyPrefix("", "filled") → "filled"
//   - ApplyPrefix("rules", "age") → "rules.age"
func ApplyPrefix(prefix, key string) string {
	if prefix == "" {
		return key
	}
	if key == "" {
		return prefix
	}
	return prefix + "." + key
}

// Join builds a catalog path from its parts with ApplyPrefix.
func Join(parts ...string) string {
	var out string
	for _, p := range parts {
		out = ApplyPrefix(out, p)
	}
	return out
}
