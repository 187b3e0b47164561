package devserver

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.trai.ch/baler/internal/core/ports"
	"go.trai.ch/zerr"
)

// defaultDebounceWindow is the quiet period before a rebuild triggers.
const defaultDebounceWindow = 250 * time.Millisecond

// Watcher watches a source tree recursively and reports changed paths in
// debounced batches.
type Watcher struct {
	fsWatcher *fsnotify.Watcher
	debouncer *Debouncer
	logger    ports.Logger
}

// NewWatcher creates a watcher calling onChange with each coalesced batch
// of changed paths.
func NewWatcher(onChange func(paths []string), logger ports.Logger) (*Watcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, zerr.Wrap(err, "failed to create file watcher")
	}
	return &Watcher{
		fsWatcher: fsWatcher,
		debouncer: NewDebouncer(defaultDebounceWindow, onChange),
		logger:    logger,
	}, nil
}

// Start begins watching root recursively and processes events until ctx
// is canceled or Stop is called.
func (w *Watcher) Start(ctx context.Context, root string) error {
	for dir := range w.directories(root) {
		if err := w.fsWatcher.Add(dir); err != nil {
			return zerr.With(zerr.Wrap(err, "failed to watch directory"), "path", dir)
		}
	}

	go w.processEvents(ctx)
	return nil
}

// Stop closes the watcher and releases its resources.
func (w *Watcher) Stop() error {
	return w.fsWatcher.Close()
}

// directories walks the tree and yields every watchable directory.
// Dot-directories are skipped so editor and VCS churn never triggers a
// rebuild.
func (w *Watcher) directories(root string) func(yield func(string) bool) {
	return func(yield func(string) bool) {
		_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return nil //nolint:nilerr // skip unreadable directories, keep walking
			}
			if !d.IsDir() {
				return nil
			}
			if path != root && strings.HasPrefix(d.Name(), ".") {
				return fs.SkipDir
			}
			if !yield(path) {
				return filepath.SkipAll
			}
			return nil
		})
	}
}

func (w *Watcher) processEvents(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			if !relevant(event) {
				continue
			}

			w.debouncer.Add(event.Name)

			// New directories must be picked up so files created inside
			// them are seen too.
			if event.Op.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() && !strings.HasPrefix(info.Name(), ".") {
					for dir := range w.directories(event.Name) {
						_ = w.fsWatcher.Add(dir)
					}
				}
			}
		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("file watcher error: " + err.Error())
		}
	}
}

func relevant(event fsnotify.Event) bool {
	return event.Op.Has(fsnotify.Write) ||
		event.Op.Has(fsnotify.Create) ||
		event.Op.Has(fsnotify.Remove) ||
		event.Op.Has(fsnotify.Rename)
}
