package errtree

import (
	"context"
	"errors"
	"time"
)

// Source provides catalog entries from backends (files, env vars, remote stores).
// Keys must be dot-separated paths (e.g., "size.arg.range"); the Loader normalizes case
// and predicate question marks.
type Source interface {
	// Load returns entries as a flat map. Missing optional sources should return empty map.
	Load(ctx context.Context) (map[string]any, error)

	// Watch emits ChangeEvent when entries change. Returns ErrWatchNotSupported if not supported.
	Watch(ctx context.Context) (<-chan ChangeEvent, error)

	// Name identifies the source in provenance (e.g., "file:errors.yaml").
	Name() string
}

// SourceWithKeys is implemented by sources that can report the original key
// each normalized key came from (e.g., the environment variable name).
type SourceWithKeys interface {
	Source
	LoadWithKeys(ctx context.Context) (map[string]any, map[string]string, error)
}

// ChangeEvent notifies of catalog changes.
type ChangeEvent struct {
	At    time.Time
	Cause string // Description (e.g., "file-changed")
}

// ErrWatchNotSupported is returned when watching is not supported.
var ErrWatchNotSupported = errors.New("errtree: watch not supported by this source")

// Validator performs custom checks on a loaded catalog.
type Validator interface {
	// Validate checks the catalog. Return *ValidationError for key-level errors.
	Validate(ctx context.Context, m *Messages) error
}

// ValidatorFunc is a function adapter for Validator interface.
type ValidatorFunc func(ctx context.Context, m *Messages) error

func (f ValidatorFunc) Validate(ctx context.Context, m *Messages) error {
	return f(ctx, m)
}

// Snapshot is a catalog version emitted by Watch().
type Snapshot struct {
	Messages *Messages
	Version  int64 // Increments on reload (starts at 1)
	LoadedAt time.Time
	Source   string // What triggered the load
}
