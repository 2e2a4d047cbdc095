package contract

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"
)

// WatcherConfig configures the contract file watcher
type WatcherConfig struct {
	// Patterns are the glob patterns selecting contract files
	Patterns []string

	// DebounceDelay is how long to wait for more changes before processing
	DebounceDelay time.Duration

	// Logger for logging events
	Logger *slog.Logger
}

// WatchOperation indicates the type of file operation
type WatchOperation string

const (
	OpCreate WatchOperation = "create"
	OpModify WatchOperation = "modify"
	OpDelete WatchOperation = "delete"
)

// WatchEvent represents a contract file change
type WatchEvent struct {
	Path      string
	Operation WatchOperation

	// Contract is the reloaded document (nil for delete operations)
	Contract *Contract

	// Error if the file could not be loaded
	Error error
}

// Watcher watches contract files and emits reloaded contracts.
type Watcher struct {
	config  WatcherConfig
	watcher *fsnotify.Watcher
	logger  *slog.Logger

	pendingMu sync.Mutex
	pending   map[string]fsnotify.Op

	hashMu sync.RWMutex
	hashes map[string]string

	events chan WatchEvent
}

// NewWatcher creates a new contract watcher
func NewWatcher(config WatcherConfig) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}

	if config.DebounceDelay == 0 {
		config.DebounceDelay = 200 * time.Millisecond
	}

	return &Watcher{
		config:  config,
		watcher: fsw,
		logger:  logger,
		pending: make(map[string]fsnotify.Op),
		hashes:  make(map[string]string),
		events:  make(chan WatchEvent, 100),
	}, nil
}

// Events returns the channel of watch events
func (w *Watcher) Events() <-chan WatchEvent {
	return w.events
}

// Start resolves the patterns, watches the directories holding the matched
// files and begins processing events. The initial file set is emitted as
// create events.
func (w *Watcher) Start(ctx context.Context) error {
	files, err := Discover(w.config.Patterns)
	if err != nil {
		return err
	}

	dirs := make(map[string]bool)
	for _, f := range files {
		dirs[filepath.Dir(f)] = true
		w.pending[f] = fsnotify.Create
	}
	for dir := range dirs {
		if err := w.watcher.Add(dir); err != nil {
			w.logger.Warn("Failed to watch directory", "path", dir, "error", err)
			continue
		}
		w.logger.Debug("Watching directory", "path", dir)
	}

	go w.processEvents(ctx)

	w.logger.Info("Contract watcher started",
		"files", len(files),
		"debounce", w.config.DebounceDelay)

	return nil
}

// Stop stops the watcher
func (w *Watcher) Stop() error {
	return w.watcher.Close()
}

func (w *Watcher) processEvents(ctx context.Context) {
	defer close(w.events)

	ticker := time.NewTicker(w.config.DebounceDelay)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleFSEvent(event)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Error("Watcher error", "error", err)

		case <-ticker.C:
			w.flushPending(ctx)
		}
	}
}

func (w *Watcher) handleFSEvent(event fsnotify.Event) {
	if !w.matches(event.Name) {
		return
	}

	w.pendingMu.Lock()
	w.pending[event.Name] = event.Op
	w.pendingMu.Unlock()

	w.logger.Debug("Contract change detected",
		"path", event.Name,
		"op", event.Op.String())
}

// matches reports whether path is selected by one of the patterns.
func (w *Watcher) matches(path string) bool {
	for _, pattern := range w.config.Patterns {
		if !containsGlob(pattern) {
			if filepath.Clean(pattern) == filepath.Clean(path) {
				return true
			}
			continue
		}
		if ok, err := doublestar.PathMatch(pattern, path); err == nil && ok {
			return true
		}
	}
	return false
}

func (w *Watcher) flushPending(ctx context.Context) {
	w.pendingMu.Lock()
	if len(w.pending) == 0 {
		w.pendingMu.Unlock()
		return
	}
	toProcess := w.pending
	w.pending = make(map[string]fsnotify.Op)
	w.pendingMu.Unlock()

	for path, op := range toProcess {
		select {
		case <-ctx.Done():
			return
		default:
		}

		event := WatchEvent{Path: path}

		data, err := os.ReadFile(path)
		if op.Has(fsnotify.Remove) || op.Has(fsnotify.Rename) || os.IsNotExist(err) {
			w.hashMu.Lock()
			delete(w.hashes, path)
			w.hashMu.Unlock()

			event.Operation = OpDelete
			w.sendEvent(event)
			continue
		}
		if err != nil {
			event.Error = err
			w.sendEvent(event)
			continue
		}

		sum := sha256.Sum256(data)
		hash := hex.EncodeToString(sum[:])

		w.hashMu.Lock()
		oldHash, hadHash := w.hashes[path]
		w.hashes[path] = hash
		w.hashMu.Unlock()

		if hadHash && oldHash == hash {
			continue
		}

		if !hadHash {
			event.Operation = OpCreate
		} else {
			event.Operation = OpModify
		}

		event.Contract, event.Error = Parse(path, data, FormatForPath(path))
		w.sendEvent(event)
	}
}

func (w *Watcher) sendEvent(event WatchEvent) {
	select {
	case w.events <- event:
		w.logger.Debug("Sent watch event",
			"path", event.Path,
			"op", event.Operation)
	default:
		w.logger.Warn("Event channel full, dropping event",
			"path", event.Path)
	}
}
