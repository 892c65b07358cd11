// Package directory provides a loader that turns files matching a glob
// pattern into documents, with optional change watching.
package directory

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/google/uuid"

	"github.com/custodia-labs/chunka-cli/internal/core/domain"
	"github.com/custodia-labs/chunka-cli/internal/core/ports/driven"
	"github.com/custodia-labs/chunka-cli/internal/logger"
)

// DefaultGlob matches every regular file.
const DefaultGlob = "*"

// Ensure Loader implements the interfaces.
var (
	_ driven.Loader         = (*Loader)(nil)
	_ driven.WatchingLoader = (*Loader)(nil)
)

// Loader walks a directory tree and produces one document per file
// whose base name matches the configured glob pattern. Traversal order
// is the filesystem's lexical walk order: reproducible within a run,
// but not guaranteed stable across filesystem implementations.
type Loader struct {
	sourceID string
	rootPath string
	glob     string
}

// Option configures the directory loader.
type Option func(*Loader)

// WithGlob sets the glob pattern matched against file base names.
// Defaults to "*".
func WithGlob(pattern string) Option {
	return func(l *Loader) {
		if pattern != "" {
			l.glob = pattern
		}
	}
}

// New creates a directory loader for the given source ID and root path.
func New(sourceID, rootPath string, opts ...Option) *Loader {
	l := &Loader{
		sourceID: sourceID,
		rootPath: rootPath,
		glob:     DefaultGlob,
	}

	for _, opt := range opts {
		opt(l)
	}

	return l
}

// Type returns the loader type identifier.
func (l *Loader) Type() string {
	return "directory"
}

// SourceID returns the configured source ID.
func (l *Loader) SourceID() string {
	return l.sourceID
}

// Validate checks the root path exists, is a directory, and the glob
// pattern is well formed.
func (l *Loader) Validate(_ context.Context) error {
	if _, err := filepath.Match(l.glob, "probe"); err != nil {
		return fmt.Errorf("%w: bad glob pattern %q: %v", domain.ErrConfiguration, l.glob, err)
	}

	info, err := os.Stat(l.rootPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: %s", domain.ErrNotFound, l.rootPath)
		}
		return fmt.Errorf("stat %s: %w", l.rootPath, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: %s is not a directory", domain.ErrSourceParse, l.rootPath)
	}
	return nil
}

// Load walks the tree and returns one document per matched file.
// A directory with no matches yields an empty slice.
func (l *Loader) Load(ctx context.Context) ([]domain.Document, error) {
	if _, err := os.Stat(l.rootPath); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", domain.ErrNotFound, l.rootPath)
		}
		return nil, fmt.Errorf("stat %s: %w", l.rootPath, err)
	}

	docs := []domain.Document{}
	err := filepath.WalkDir(l.rootPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if cerr := ctx.Err(); cerr != nil {
			return cerr
		}
		if d.IsDir() {
			return nil
		}

		matched, merr := filepath.Match(l.glob, d.Name())
		if merr != nil {
			return fmt.Errorf("%w: bad glob pattern %q: %v", domain.ErrConfiguration, l.glob, merr)
		}
		if !matched {
			return nil
		}

		doc, derr := l.loadFile(path)
		if derr != nil {
			return derr
		}
		docs = append(docs, *doc)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return docs, nil
}

// Watch listens for changes under the root and emits one event per
// affected matching file until ctx is cancelled.
func (l *Loader) Watch(ctx context.Context) (<-chan domain.DocumentChange, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}

	// Watch the root and all existing subdirectories.
	err = filepath.WalkDir(l.rootPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return watcher.Add(path)
		}
		return nil
	})
	if err != nil {
		watcher.Close()
		return nil, fmt.Errorf("watch %s: %w", l.rootPath, err)
	}

	changes := make(chan domain.DocumentChange)

	go func() {
		defer close(changes)
		defer watcher.Close()

		for {
			select {
			case <-ctx.Done():
				return

			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				l.handleEvent(ctx, watcher, event, changes)

			case werr, ok := <-watcher.Errors:
				if !ok {
					return
				}
				logger.Warn("watcher error on %s: %v", l.rootPath, werr)
			}
		}
	}()

	return changes, nil
}

// Close releases resources. Watchers are tied to their Watch context.
func (l *Loader) Close() error {
	return nil
}

// handleEvent converts one fsnotify event into a document change.
func (l *Loader) handleEvent(ctx context.Context, watcher *fsnotify.Watcher, event fsnotify.Event, changes chan<- domain.DocumentChange) {
	// New subdirectories must be added to the watch set.
	if event.Op.Has(fsnotify.Create) {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if err := watcher.Add(event.Name); err != nil {
				logger.Warn("failed to watch new directory %s: %v", event.Name, err)
			}
			return
		}
	}

	matched, err := filepath.Match(l.glob, filepath.Base(event.Name))
	if err != nil || !matched {
		return
	}

	var change domain.DocumentChange
	switch {
	case event.Op.Has(fsnotify.Remove) || event.Op.Has(fsnotify.Rename):
		change = domain.DocumentChange{
			Type:     domain.ChangeDeleted,
			Document: domain.Document{SourceID: l.sourceID, URI: event.Name},
		}

	case event.Op.Has(fsnotify.Create) || event.Op.Has(fsnotify.Write):
		doc, derr := l.loadFile(event.Name)
		if derr != nil {
			logger.Warn("failed to load changed file %s: %v", event.Name, derr)
			return
		}
		changeType := domain.ChangeUpdated
		if event.Op.Has(fsnotify.Create) {
			changeType = domain.ChangeCreated
		}
		change = domain.DocumentChange{Type: changeType, Document: *doc}

	default:
		return
	}

	select {
	case changes <- change:
	case <-ctx.Done():
	}
}

// loadFile reads one file into a document.
func (l *Loader) loadFile(path string) (*domain.Document, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s: %v", domain.ErrSourceParse, path, err)
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}

	now := time.Now()
	return &domain.Document{
		ID:       uuid.New().String(),
		SourceID: l.sourceID,
		URI:      path,
		Title:    filepath.Base(path),
		Content:  string(content),
		Metadata: map[string]any{
			"source":    path,
			"file_name": filepath.Base(path),
			"extension": filepath.Ext(path),
			"size":      info.Size(),
			"modified":  info.ModTime().UTC().Format(time.RFC3339),
		},
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}
