package errtree

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/Azhovan/errtree/internal/normalize"
)

// debounceDelay coalesces bursts of source change events into one reload.
const debounceDelay = 100 * time.Millisecond

// Loader builds a Messages catalog from layered sources.
// Sources are processed in order (later override earlier).
// Thread-safe for reads, not for concurrent configuration changes.
type Loader struct {
	sources    []Source
	validators []Validator
	required   []string
	strict     bool // Fail on keys outside the catalog grammar (default: true)
	logger     *slog.Logger
}

// NewLoader creates a Loader with no sources/validators and strict mode enabled.
func NewLoader() *Loader {
	return &Loader{
		sources:    make([]Source, 0),
		validators: make([]Validator, 0),
		strict:     true,
		logger:     slog.Default(),
	}
}

// WithSource adds a source. Sources are processed in order (later override earlier).
func (l *Loader) WithSource(src Source) *Loader {
	l.sources = append(l.sources, src)
	return l
}

// WithValidator adds a custom validator (executed after built-in validation).
func (l *Loader) WithValidator(v Validator) *Loader {
	l.validators = append(l.validators, v)
	return l
}

// WithRequired lists predicates the catalog must provide a template for.
func (l *Loader) WithRequired(predicates ...string) *Loader {
	l.required = append(l.required, predicates...)
	return l
}

// WithLogger sets the logger used while watching. Default: slog.Default().
func (l *Loader) WithLogger(logger *slog.Logger) *Loader {
	if logger != nil {
		l.logger = logger
	}
	return l
}

// Strict controls whether keys outside the catalog grammar cause errors. Default: true.
func (l *Loader) Strict(strict bool) *Loader {
	l.strict = strict
	return l
}

type mergedEntry struct {
	value      any
	sourceName string
	sourceKey  string
}

// Load reads, merges and validates entries from all sources.
// Returns the catalog or a *ValidationError with every key-level failure.
func (l *Loader) Load(ctx context.Context) (*Messages, error) {
	merged := make(map[string]mergedEntry)

	for _, source := range l.sources {
		var data map[string]any
		var originalKeys map[string]string
		var err error

		if withKeys, ok := source.(SourceWithKeys); ok {
			data, originalKeys, err = withKeys.LoadWithKeys(ctx)
		} else {
			data, err = source.Load(ctx)
		}
		if err != nil {
			return nil, fmt.Errorf("load source %s: %w", source.Name(), err)
		}

		for key, value := range data {
			normalizedKey := normalize.CatalogKey(key)

			sourceKey := source.Name()
			if orig, ok := originalKeys[key]; ok && strings.HasPrefix(source.Name(), "env") {
				sourceKey = "env:" + orig
			}

			merged[normalizedKey] = mergedEntry{
				value:      value,
				sourceName: source.Name(),
				sourceKey:  sourceKey,
			}
		}
	}

	var fieldErrors []FieldError
	m := &Messages{
		templates:  make(map[string]string, len(merged)),
		provenance: make(map[string]EntryProvenance, len(merged)),
	}

	for _, key := range sortedKeys(merged) {
		entry := merged[key]

		if l.strict && !validKey(key) {
			fieldErrors = append(fieldErrors, FieldError{
				Key:     key,
				Code:    ErrCodeUnknownKey,
				Message: "unknown catalog key (strict mode)",
			})
			continue
		}

		tmpl, ok := entry.value.(string)
		if !ok {
			fieldErrors = append(fieldErrors, FieldError{
				Key:     key,
				Code:    ErrCodeInvalidType,
				Message: fmt.Sprintf("expected string template, got %T from %s", entry.value, entry.sourceName),
			})
			continue
		}

		m.templates[key] = tmpl
		m.provenance[key] = EntryProvenance{
			Key:        key,
			SourceKey:  entry.sourceKey,
			SourceName: entry.sourceName,
		}
	}

	fieldErrors = append(fieldErrors, validateMessages(m, l.required)...)

	for i, validator := range l.validators {
		err := validator.Validate(ctx, m)
		if err == nil {
			continue
		}
		var valErr *ValidationError
		if !errors.As(err, &valErr) {
			return nil, fmt.Errorf("validator %d failed: %w", i, err)
		}
		fieldErrors = append(fieldErrors, valErr.FieldErrors...)
	}

	if len(fieldErrors) > 0 {
		return nil, &ValidationError{FieldErrors: fieldErrors}
	}
	return m, nil
}

// Watch monitors sources for changes and reloads the catalog.
// Returns: snapshots channel, errors channel, initial load error.
// Changes are debounced (100ms). A failed reload keeps the previous catalog
// and is reported on the errors channel.
func (l *Loader) Watch(ctx context.Context) (<-chan Snapshot, <-chan error, error) {
	initial, err := l.Load(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("initial load failed: %w", err)
	}

	snapshotCh := make(chan Snapshot)
	errorCh := make(chan error)

	go l.watchLoop(ctx, initial, snapshotCh, errorCh)

	return snapshotCh, errorCh, nil
}

func (l *Loader) watchLoop(ctx context.Context, initial *Messages, snapshotCh chan<- Snapshot, errorCh chan<- error) {
	defer close(snapshotCh)
	defer close(errorCh)

	version := int64(1)
	if !sendOrDone(ctx, snapshotCh, Snapshot{Messages: initial, Version: version, LoadedAt: time.Now(), Source: "initial"}) {
		return
	}

	watchCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	changes := make(chan ChangeEvent)
	var wg sync.WaitGroup
	for _, source := range l.sources {
		ch, err := source.Watch(watchCtx)
		if err != nil {
			if errors.Is(err, ErrWatchNotSupported) {
				continue
			}
			if !sendOrDone(ctx, errorCh, fmt.Errorf("watch source %s: %w", source.Name(), err)) {
				return
			}
			continue
		}

		wg.Add(1)
		go func(ch <-chan ChangeEvent) {
			defer wg.Done()
			for ev := range ch {
				select {
				case changes <- ev:
				case <-watchCtx.Done():
					return
				}
			}
		}(ch)
	}

	allClosed := make(chan struct{})
	go func() {
		wg.Wait()
		close(allClosed)
	}()

	// Timers are drained by Stop and Reset (Go 1.23 semantics).
	timer := time.NewTimer(debounceDelay)
	timer.Stop()
	pending := false
	cause := ""

	for {
		select {
		case <-ctx.Done():
			return

		case <-allClosed:
			if !pending {
				return
			}
			allClosed = nil

		case ev := <-changes:
			cause = ev.Cause
			timer.Reset(debounceDelay)
			pending = true

		case <-timer.C:
			pending = false
			m, err := l.Load(ctx)
			if err != nil {
				l.logger.Error("catalog reload failed", "cause", cause, "error", err)
				if !sendOrDone(ctx, errorCh, fmt.Errorf("reload failed: %w", err)) {
					return
				}
			} else {
				version++
				l.logger.Info("catalog reloaded", "cause", cause, "version", version, "entries", m.Len())
				if !sendOrDone(ctx, snapshotCh, Snapshot{Messages: m, Version: version, LoadedAt: time.Now(), Source: cause}) {
					return
				}
			}
			if allClosed == nil {
				return
			}
		}
	}
}

func sendOrDone[T any](ctx context.Context, ch chan<- T, v T) bool {
	select {
	case ch <- v:
		return true
	case <-ctx.Done():
		return false
	}
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
