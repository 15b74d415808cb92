package policy

import (
	"context"
	"log/slog"
	"sync"

	"github.com/fsnotify/fsnotify"

	"jobtrust/internal/bootstrap/logging"
	"jobtrust/internal/errs"
)

// Store serves a policy snapshot to the fraud detector and can reload it
// when the backing file changes. Reads never block on a reload in progress.
type Store struct {
	mu      sync.RWMutex
	current Policy
	path    string
}

// NewStore loads the policy file when path is non-empty, otherwise starts
// from the built-in defaults.
func NewStore(path string) (*Store, error) {
	s := &Store{current: Default(), path: path}
	if path != "" {
		loaded, err := LoadFile(path)
		if err != nil {
			return nil, err
		}
		s.current = loaded
	}
	return s, nil
}

// Snapshot returns the current policy by value.
func (s *Store) Snapshot() Policy {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Watch reloads the policy on file writes until ctx is done. A reload
// failure keeps the previous snapshot; the watcher stays alive.
func (s *Store) Watch(ctx context.Context) error {
	if s.path == "" {
		return nil
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return errs.Wrap(err, "create policy watcher")
	}

	if err := watcher.Add(s.path); err != nil {
		_ = watcher.Close()
		return errs.Wrapf(err, "watch policy file %q", s.path)
	}

	go func() {
		defer func() { _ = watcher.Close() }()
		logCtx := logging.WithAttrs(ctx, slog.String("component", "policy.store"))

		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
					continue
				}
				loaded, err := LoadFile(s.path)
				if err != nil {
					logging.Warn(logCtx, "policy reload failed, keeping previous snapshot", slog.Any("err", errs.Loggable(err)))
					continue
				}
				s.mu.Lock()
				s.current = loaded
				s.mu.Unlock()
				logging.Info(logCtx, "policy reloaded", slog.String("file", s.path))
			case watchErr, ok := <-watcher.Errors:
				if !ok {
					return
				}
				logging.Warn(logCtx, "policy watcher error", slog.Any("err", errs.Loggable(watchErr)))
			}
		}
	}()

	return nil
}
