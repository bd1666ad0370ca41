package file

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/aretw0/fsm/internal/logging"
	"github.com/aretw0/fsm/pkg/domain"
	"github.com/aretw0/fsm/pkg/schema"
	"github.com/fsnotify/fsnotify"
)

// Extensions lists the definition file extensions, in lookup order.
var Extensions = []string{".yaml", ".yml", ".json"}

// Loader implements ports.DefinitionLoader and ports.Watchable over a directory
// of definition files. The definition name is the file name without extension.
type Loader struct {
	dir      string
	validate bool
	debounce time.Duration
	logger   *slog.Logger
}

// LoaderOption configures the Loader.
type LoaderOption func(*Loader)

// WithValidation runs Config.Validate on every loaded definition.
func WithValidation() LoaderOption {
	return func(l *Loader) {
		l.validate = true
	}
}

// WithDebounce sets how long Watch waits for a burst of file events to settle.
func WithDebounce(d time.Duration) LoaderOption {
	return func(l *Loader) {
		l.debounce = d
	}
}

// WithLogger configures a logger for watch errors.
func WithLogger(logger *slog.Logger) LoaderOption {
	return func(l *Loader) {
		l.logger = logger
	}
}

// NewLoader creates a Loader reading definitions from dir.
func NewLoader(dir string, opts ...LoaderOption) *Loader {
	l := &Loader{
		dir:      dir,
		debounce: 200 * time.Millisecond,
		logger:   logging.NewNop(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Dir returns the directory the loader reads from.
func (l *Loader) Dir() string {
	return l.dir
}

// Load reads and parses the named definition.
func (l *Loader) Load(name string) (*domain.Config, error) {
	if name == "" || strings.ContainsAny(name, `/\`) {
		return nil, fmt.Errorf("%w: invalid name %q", domain.ErrDefinitionNotFound, name)
	}

	for _, ext := range Extensions {
		path := filepath.Join(l.dir, name+ext)
		cfg, err := l.loadFile(path)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		return cfg, err
	}
	return nil, fmt.Errorf("%w: %s", domain.ErrDefinitionNotFound, name)
}

// List returns the names of all definition files in the directory.
func (l *Loader) List() ([]string, error) {
	entries, err := os.ReadDir(l.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list definitions: %w", err)
	}

	seen := make(map[string]bool)
	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name, ok := definitionName(entry.Name())
		if ok && !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names, nil
}

func (l *Loader) loadFile(path string) (*domain.Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg, err := schema.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if l.validate {
		if err := cfg.Validate(); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
	}
	return cfg, nil
}

// LoadFile reads a single definition file, whatever its location.
func LoadFile(path string, opts ...LoaderOption) (*domain.Config, error) {
	l := NewLoader(filepath.Dir(path), opts...)
	cfg, err := l.loadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", domain.ErrDefinitionNotFound, path)
	}
	return cfg, err
}

// Watch signals the name of each definition whose file was written, created or removed.
// Bursts of events for the same definition are coalesced.
func (l *Loader) Watch(ctx context.Context) (<-chan string, error) {
	return l.watch(ctx, definitionName)
}

// WatchFile signals path whenever that one file is written, created or removed.
// Its directory must be the loader's directory; the extension is not restricted.
func (l *Loader) WatchFile(ctx context.Context, path string) (<-chan string, error) {
	if filepath.Clean(filepath.Dir(path)) != filepath.Clean(l.dir) {
		return nil, fmt.Errorf("%s is outside the watched directory %s", path, l.dir)
	}
	base := filepath.Base(path)
	return l.watch(ctx, func(fileName string) (string, bool) {
		return path, fileName == base
	})
}

// watch reports the keys match derives from changed file names in the directory.
func (l *Loader) watch(ctx context.Context, match func(fileName string) (string, bool)) (<-chan string, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := watcher.Add(l.dir); err != nil {
		_ = watcher.Close()
		return nil, fmt.Errorf("watch definitions directory: %w", err)
	}

	out := make(chan string)
	go func() {
		defer close(out)
		defer watcher.Close()

		pending := make(map[string]bool)
		timer := time.NewTimer(l.debounce)
		timer.Stop()

		for {
			select {
			case <-ctx.Done():
				return

			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
					!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
					continue
				}
				name, ok := match(filepath.Base(event.Name))
				if !ok {
					continue
				}
				pending[name] = true
				timer.Reset(l.debounce)

			case <-timer.C:
				names := make([]string, 0, len(pending))
				for name := range pending {
					names = append(names, name)
				}
				sort.Strings(names)
				clear(pending)
				for _, name := range names {
					select {
					case out <- name:
					case <-ctx.Done():
						return
					}
				}

			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				l.logger.Warn("definition watcher error", "dir", l.dir, "err", err)
			}
		}
	}()
	return out, nil
}

func definitionName(fileName string) (string, bool) {
	ext := filepath.Ext(fileName)
	for _, known := range Extensions {
		if ext == known {
			return strings.TrimSuffix(fileName, ext), true
		}
	}
	return "", false
}
