package config

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// ReloadFunc receives a freshly loaded configuration.
type ReloadFunc func(ctx context.Context, cfg *Config)

// Watcher monitors the configuration file and reloads it after changes settle.
type Watcher struct {
	configPath   string
	onReload     ReloadFunc
	watcher      *fsnotify.Watcher
	mu           sync.Mutex
	stopOnce     sync.Once
	stopChan     chan struct{}
	reloadChan   chan struct{}
	debounceTime time.Duration
	lastSnapshot string
}

// WatcherOption customizes a Watcher.
type WatcherOption func(*Watcher)

// WithDebounce overrides the default two second debounce.
func WithDebounce(d time.Duration) WatcherOption {
	return func(w *Watcher) { w.debounceTime = d }
}

// NewWatcher creates a watcher for configPath. current is the configuration
// already in effect; reloads producing the same snapshot are not reported.
func NewWatcher(configPath string, current *Config, onReload ReloadFunc, opts ...WatcherOption) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}

	absPath, err := filepath.Abs(configPath)
	if err != nil {
		_ = fw.Close()
		return nil, fmt.Errorf("failed to resolve config path: %w", err)
	}

	w := &Watcher{
		configPath:   absPath,
		onReload:     onReload,
		watcher:      fw,
		stopChan:     make(chan struct{}),
		reloadChan:   make(chan struct{}, 1),
		debounceTime: 2 * time.Second,
		lastSnapshot: current.Snapshot(),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Start begins monitoring. The directory is watched rather than the file so
// editors that replace the file on save are still seen.
func (w *Watcher) Start(ctx context.Context) error {
	configDir := filepath.Dir(w.configPath)
	if err := w.watcher.Add(configDir); err != nil {
		return fmt.Errorf("failed to watch config directory %s: %w", configDir, err)
	}

	slog.Debug("Starting configuration watcher", "config_path", w.configPath)

	go w.watchLoop(ctx)
	go w.reloadLoop(ctx)
	return nil
}

// Stop ends monitoring. It is safe to call more than once.
func (w *Watcher) Stop() error {
	var err error
	w.stopOnce.Do(func() {
		close(w.stopChan)
		err = w.watcher.Close()
	})
	return err
}

func (w *Watcher) watchLoop(ctx context.Context) {
	configFile := filepath.Base(w.configPath)

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopChan:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != configFile {
				continue
			}

			switch {
			case event.Has(fsnotify.Write), event.Has(fsnotify.Create), event.Has(fsnotify.Rename):
				slog.Debug("Config file change detected", "file", event.Name, "op", event.Op.String())
				w.triggerReload()
			case event.Has(fsnotify.Remove):
				slog.Warn("Config file removed", "file", event.Name)
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			slog.Error("Config watcher error", "error", err)
		}
	}
}

func (w *Watcher) reloadLoop(ctx context.Context) {
	var reloadTimer *time.Timer
	stop := func() {
		if reloadTimer != nil {
			reloadTimer.Stop()
		}
	}

	for {
		select {
		case <-ctx.Done():
			stop()
			return
		case <-w.stopChan:
			stop()
			return
		case <-w.reloadChan:
			stop()
			reloadTimer = time.AfterFunc(w.debounceTime, func() {
				if err := w.performReload(ctx); err != nil {
					slog.Error("Failed to reload configuration", "error", err)
				}
			})
		}
	}
}

func (w *Watcher) triggerReload() {
	select {
	case w.reloadChan <- struct{}{}:
	default:
	}
}

func (w *Watcher) performReload(ctx context.Context) error {
	cfg, err := Load(w.configPath)
	if err != nil {
		return fmt.Errorf("failed to load new configuration: %w", err)
	}

	w.mu.Lock()
	snap := cfg.Snapshot()
	unchanged := snap == w.lastSnapshot
	w.lastSnapshot = snap
	w.mu.Unlock()

	if unchanged {
		slog.Debug("Configuration unchanged", "config_path", w.configPath)
		return nil
	}

	slog.Info("Configuration reloaded", "config_path", w.configPath)
	if w.onReload != nil {
		w.onReload(ctx, cfg)
	}
	return nil
}
