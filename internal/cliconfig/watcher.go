package cliconfig

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"

	"github.com/bft-labs/mqship/internal/domain"
)

// UpdateFunc receives the endpoint groups parsed from a changed config file.
type UpdateFunc func(groups []domain.EndpointGroup) error

// Watcher monitors the config file via fsnotify and pushes changed endpoint
// groups to the producer, so broker failover lists can be rotated without a
// restart.
type Watcher struct {
	path   string
	update UpdateFunc
	log    zerolog.Logger

	mu       sync.Mutex
	debounce *time.Timer
}

// NewWatcher creates a watcher for the config file at path.
func NewWatcher(path string, update UpdateFunc, log zerolog.Logger) *Watcher {
	return &Watcher{path: path, update: update, log: log}
}

// Run watches the config file's directory until ctx is cancelled. Editors
// replace files rather than rewrite them, so the directory is watched and
// events are filtered by filename.
func (w *Watcher) Run(ctx context.Context) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		w.log.Error().Err(err).Msg("config watcher: create failed")
		return
	}
	defer watcher.Close()

	dir := filepath.Dir(w.path)
	if err := watcher.Add(dir); err != nil {
		w.log.Error().Err(err).Str("dir", dir).Msg("config watcher: watch failed")
		return
	}

	name := filepath.Base(w.path)
	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != name {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			w.debounceReload(100 * time.Millisecond)

		case werr, ok := <-watcher.Errors:
			if !ok {
				return
			}
			w.log.Warn().Err(werr).Msg("config watcher: error")
		}
	}
}

func (w *Watcher) debounceReload(delay time.Duration) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.debounce != nil {
		w.debounce.Stop()
	}
	w.debounce = time.AfterFunc(delay, w.reload)
}

func (w *Watcher) reload() {
	fc, err := LoadFileConfig(w.path)
	if err != nil {
		w.log.Warn().Err(err).Str("path", w.path).Msg("config watcher: reload failed")
		return
	}

	cfg := Config{}
	if err := ApplyFileConfig(&cfg, fc, nil); err != nil {
		w.log.Warn().Err(err).Msg("config watcher: apply failed")
		return
	}
	if len(cfg.Groups) == 0 {
		return
	}
	groups, err := cfg.EndpointGroups()
	if err != nil {
		w.log.Warn().Err(err).Msg("config watcher: invalid endpoint groups")
		return
	}
	if err := w.update(groups); err != nil {
		w.log.Warn().Err(err).Msg("config watcher: update rejected")
		return
	}
	w.log.Info().Int("groups", len(groups)).Msg("endpoint groups reloaded")
}
