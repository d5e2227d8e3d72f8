package prefs

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/five82/diptych/internal/logging"
)

// Watcher reports edits of the preferences file made outside diptych.
type Watcher struct {
	watcher *fsnotify.Watcher
	path    string
	changes chan Prefs
	done    chan struct{}
}

// Watch starts watching path. The parent directory is watched so editors that
// replace the file are noticed. The watcher stops when ctx is done.
func Watch(ctx context.Context, path string) (*Watcher, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return nil, fmt.Errorf("resolve path: %w", err)
	}
	dir := filepath.Dir(resolved)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create prefs dir: %w", err)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := fsw.Add(dir); err != nil {
		_ = fsw.Close()
		return nil, fmt.Errorf("watch %s: %w", dir, err)
	}

	w := &Watcher{
		watcher: fsw,
		path:    resolved,
		changes: make(chan Prefs, 1),
		done:    make(chan struct{}),
	}
	go w.run(ctx)
	return w, nil
}

// Changes delivers freshly loaded preferences after each edit. Only the
// newest pending value is kept.
func (w *Watcher) Changes() <-chan Prefs {
	return w.changes
}

// Done is closed when the watcher has stopped.
func (w *Watcher) Done() <-chan struct{} {
	return w.done
}

// Close stops the watcher.
func (w *Watcher) Close() error {
	return w.watcher.Close()
}

func (w *Watcher) run(ctx context.Context) {
	log := logging.Component("prefs")
	defer close(w.done)
	defer func() { _ = w.watcher.Close() }()

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			p, _ := Load(w.path)
			w.publish(p)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			log.Warn().Err(err).Msg("prefs watcher error")
		}
	}
}

func (w *Watcher) publish(p Prefs) {
	select {
	case w.changes <- p:
		return
	default:
	}
	// drop the stale value and retry once
	select {
	case <-w.changes:
	default:
	}
	select {
	case w.changes <- p:
	default:
	}
}
