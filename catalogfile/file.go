package catalogfile

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/Azhovan/errtree"
	"github.com/Azhovan/errtree/internal/flatten"
)

// Options configures file source behavior.
type Options struct {
	// Format: "yaml", "json", or "toml". Auto-detected from extension if empty.
	Format string

	// Required: if true, missing files cause an error. Default: false (returns empty map).
	Required bool

	// Watch enables change notifications through fsnotify. Default: false
	// (Watch returns ErrWatchNotSupported).
	Watch bool

	// Logger receives watcher errors. Default: slog.Default().
	Logger *slog.Logger
}

type fileSource struct {
	path string
	opts Options
}

// New creates a file-based catalog source.
func New(path string, opts Options) errtree.Source {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &fileSource{
		path: path,
		opts: opts,
	}
}

// Load reads and parses the file, returning flattened entries.
func (f *fileSource) Load(ctx context.Context) (map[string]any, error) {
	result, _, err := f.LoadWithKeys(ctx)
	return result, err
}

// LoadWithKeys reads and parses the file, returning flattened entries with original keys.
func (f *fileSource) LoadWithKeys(ctx context.Context) (map[string]any, map[string]string, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			if f.opts.Required {
				return nil, nil, fmt.Errorf("required catalog file not found: %s: %w", f.path, err)
			}
			return make(map[string]any), make(map[string]string), nil
		}
		return nil, nil, fmt.Errorf("read catalog file %s: %w", f.path, err)
	}

	format := f.opts.Format
	if format == "" {
		format = inferFormat(f.path)
	}

	var raw map[string]any
	switch format {
	case "yaml", "yml":
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, nil, fmt.Errorf("parse YAML file %s: %w", f.path, err)
		}
	case "json":
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, nil, fmt.Errorf("parse JSON file %s: %w", f.path, err)
		}
	case "toml":
		if err := toml.Unmarshal(data, &raw); err != nil {
			return nil, nil, fmt.Errorf("parse TOML file %s: %w", f.path, err)
		}
	default:
		return nil, nil, fmt.Errorf("unsupported file format: %s (supported: yaml, json, toml)", format)
	}

	flattened := make(map[string]any)
	originalKeys := make(map[string]string)
	flatten.Map("", raw, flattened, originalKeys)

	return flattened, originalKeys, nil
}

// Watch emits a ChangeEvent whenever the file is written, created, renamed
// or removed. The parent directory is watched so editors that replace the
// file atomically are still seen. The channel closes when ctx is done.
func (f *fileSource) Watch(ctx context.Context) (<-chan errtree.ChangeEvent, error) {
	if !f.opts.Watch {
		return nil, errtree.ErrWatchNotSupported
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}

	target := filepath.Clean(f.path)
	if err := watcher.Add(filepath.Dir(target)); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("watch %s: %w", filepath.Dir(target), err)
	}

	out := make(chan errtree.ChangeEvent)
	go func() {
		defer close(out)
		defer watcher.Close()

		for {
			select {
			case <-ctx.Done():
				return

			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != target {
					continue
				}
				if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
					!event.Has(fsnotify.Rename) && !event.Has(fsnotify.Remove) {
					continue
				}

				f.opts.Logger.Debug("catalog file event", "path", event.Name, "op", event.Op.String())

				select {
				case out <- errtree.ChangeEvent{At: time.Now(), Cause: "file-changed"}:
				case <-ctx.Done():
					return
				}

			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				f.opts.Logger.Error("catalog file watcher error", "path", f.path, "error", err)
			}
		}
	}()

	return out, nil
}

// Name returns a human-readable identifier for this source.
func (f *fileSource) Name() string {
	return "file:" + filepath.Base(f.path)
}

func inferFormat(path string) string {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".yaml", ".yml":
		return "yaml"
	case ".json":
		return "json"
	case ".toml":
		return "toml"
	default:
		return ""
	}
}
