package catalogenv

import (
	"context"
	"os"
	"strings"

	"github.com/Azhovan/errtree"
	"github.com/Azhovan/errtree/internal/normalize"
)

// DefaultPrefix is used when Options.Prefix is empty.
const DefaultPrefix = "ERRTREE_MSG_"

// Options configures environment variable source behavior.
type Options struct {
	// Prefix selects vars starting with prefix (stripped before normalization).
	// Empty = DefaultPrefix; the whole environment is never loaded.
	// Prefix matching behavior is controlled by CaseSensitive.
	Prefix string

	// CaseSensitive controls prefix matching (default: false).
	// When false, prefix matching is case-insensitive (MSG_ matches msg_, Msg_, etc.).
	// When true, prefix must match exactly.
	// Keys are always normalized to lowercase after prefix stripping.
	CaseSensitive bool
}

type envSource struct {
	opts Options
}

// New creates an environment variable source.
func New(opts Options) errtree.Source {
	if opts.Prefix == "" {
		opts.Prefix = DefaultPrefix
	}
	return &envSource{opts: opts}
}

// Load scans environment variables, filters by prefix, and normalizes keys.
func (e *envSource) Load(ctx context.Context) (map[string]any, error) {
	result, _, err := e.LoadWithKeys(ctx)
	return result, err
}

// LoadWithKeys is Load plus the variable name each key came from.
func (e *envSource) LoadWithKeys(ctx context.Context) (map[string]any, map[string]string, error) {
	result := make(map[string]any)
	originalKeys := make(map[string]string)

	for _, env := range os.Environ() {
		name, value, ok := strings.Cut(env, "=")
		if !ok {
			continue
		}

		var hasPrefix bool
		if e.opts.CaseSensitive {
			hasPrefix = strings.HasPrefix(name, e.opts.Prefix)
		} else {
			hasPrefix = strings.HasPrefix(strings.ToUpper(name), strings.ToUpper(e.opts.Prefix))
		}
		if !hasPrefix {
			continue
		}

		key := name[len(e.opts.Prefix):]
		if key == "" {
			continue
		}

		// SIZE__ARG__RANGE → size.arg.range
		normalizedKey := normalize.ToLowerDotPath(key)
		result[normalizedKey] = value
		originalKeys[normalizedKey] = name
	}

	return result, originalKeys, nil
}

// Watch returns ErrWatchNotSupported (env vars don't change at runtime).
func (e *envSource) Watch(ctx context.Context) (<-chan errtree.ChangeEvent, error) {
	return nil, errtree.ErrWatchNotSupported
}

// Name returns "env:" followed by the prefix.
func (e *envSource) Name() string {
	return "env:" + e.opts.Prefix
}
