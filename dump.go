package errtree

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// DumpOption configures dump behavior using the functional options pattern.
type DumpOption func(*dumpConfig)

// dumpConfig holds options for DumpMessages.
type dumpConfig struct {
	withSources bool   // Include source attribution for each entry
	asJSON      bool   // Output as JSON instead of text format
	indent      string // Indentation for JSON output (default: "  ")
}

// WithSources includes source attribution for each entry in the output.
func WithSources() DumpOption {
	return func(cfg *dumpConfig) {
		cfg.withSources = true
	}
}

// AsJSON outputs the catalog as nested JSON instead of text format.
func AsJSON() DumpOption {
	return func(cfg *dumpConfig) {
		cfg.asJSON = true
	}
}

// WithIndent sets the indentation for JSON output.
// Default is two spaces ("  ").
func WithIndent(indent string) DumpOption {
	return func(cfg *dumpConfig) {
		cfg.indent = indent
	}
}

// DumpMessages writes the effective catalog, one entry per line in key order.
// Returns an error if writing to the writer fails.
func DumpMessages(w io.Writer, m *Messages, opts ...DumpOption) error {
	if m == nil {
		return fmt.Errorf("catalog is nil")
	}

	config := dumpConfig{
		indent: "  ",
	}
	for _, opt := range opts {
		opt(&config)
	}

	if config.asJSON {
		return dumpAsJSON(w, m, config)
	}
	return dumpAsText(w, m, config)
}

// dumpAsText outputs entries as `key: "template"`.
func dumpAsText(w io.Writer, m *Messages, config dumpConfig) error {
	for _, key := range m.Keys() {
		line := fmt.Sprintf("%s: %q", key, m.templates[key])
		if config.withSources {
			if prov, ok := m.SourceOf(key); ok {
				line += fmt.Sprintf(" (source: %s)", prov.SourceKey)
			}
		}
		line += "\n"

		if _, err := io.WriteString(w, line); err != nil {
			return fmt.Errorf("write error: %w", err)
		}
	}
	return nil
}

// dumpAsJSON outputs entries nested by key segment. With sources, every
// leaf becomes {"template": ..., "source": ...}.
func dumpAsJSON(w io.Writer, m *Messages, config dumpConfig) error {
	result := buildJSONStructure(m, config.withSources)

	var data []byte
	var err error
	if config.indent != "" {
		data, err = json.MarshalIndent(result, "", config.indent)
	} else {
		data, err = json.Marshal(result)
	}
	if err != nil {
		return fmt.Errorf("json marshal error: %w", err)
	}

	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("write error: %w", err)
	}
	if _, err := w.Write([]byte("\n")); err != nil {
		return fmt.Errorf("write error: %w", err)
	}
	return nil
}

// sourcedEntry is a JSON leaf carrying its source attribution.
type sourcedEntry struct {
	Template string `json:"template"`
	Source   string `json:"source,omitempty"`
}

// buildJSONStructure expands dot keys into nested maps. A key that is both a
// template and a prefix of other keys keeps its template under "_".
func buildJSONStructure(m *Messages, withSources bool) map[string]any {
	result := make(map[string]any)

	// Keys are sorted, so a prefix is always placed before its children.
	for _, key := range m.Keys() {
		var leaf any = m.templates[key]
		if withSources {
			entry := sourcedEntry{Template: m.templates[key]}
			if prov, ok := m.SourceOf(key); ok {
				entry.Source = prov.SourceKey
			}
			leaf = entry
		}

		parts := strings.Split(key, ".")
		node := result
		for _, part := range parts[:len(parts)-1] {
			next, ok := node[part].(map[string]any)
			if !ok {
				next = make(map[string]any)
				if existing, has := node[part]; has {
					next["_"] = existing
				}
				node[part] = next
			}
			node = next
		}
		node[parts[len(parts)-1]] = leaf
	}

	return result
}
