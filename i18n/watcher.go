package i18n

import (
	"context"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher reloads a language when one of its JSON files changes on disk.
// Rapid saves are batched so each language reloads once per burst.
type Watcher struct {
	mu          sync.Mutex
	watcher     *fsnotify.Watcher
	loader      *Loader
	dir         string
	languages   []string
	logger      *slog.Logger
	pending     map[string]time.Time
	debounceDur time.Duration
	stopCh      chan struct{}
	doneCh      chan struct{}
	running     bool
}

func NewWatcher(dir string, languages []string, loader *Loader, logger *slog.Logger) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Watcher{
		watcher:     fw,
		loader:      loader,
		dir:         dir,
		languages:   languages,
		logger:      logger,
		pending:     make(map[string]time.Time),
		debounceDur: 300 * time.Millisecond,
		stopCh:      make(chan struct{}),
		doneCh:      make(chan struct{}),
	}, nil
}

// Start watches every language directory. It returns immediately.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = true
	w.mu.Unlock()

	for _, lang := range w.languages {
		langDir := filepath.Join(w.dir, lang)
		if err := w.watcher.Add(langDir); err != nil {
			w.logger.Warn("Translation watch failed", "dir", langDir, "error", err)
			continue
		}
		w.logger.Debug("Watching translations", "dir", langDir)
	}

	go w.run(ctx)
	return nil
}

// Stop ends the event loop and closes the underlying watcher.
func (w *Watcher) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	w.running = false
	w.mu.Unlock()

	close(w.stopCh)
	<-w.doneCh

	if err := w.watcher.Close(); err != nil {
		w.logger.Error("Error closing translation watcher", "error", err)
	}
}

func (w *Watcher) run(ctx context.Context) {
	defer close(w.doneCh)

	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopCh:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Error("Translation watcher error", "error", err)
		case <-ticker.C:
			w.flush(ctx)
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	if !strings.HasSuffix(event.Name, ".json") {
		return
	}
	if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
		return
	}

	lang := w.languageOf(event.Name)
	if lang == "" {
		return
	}

	w.mu.Lock()
	w.pending[lang] = time.Now()
	w.mu.Unlock()
}

func (w *Watcher) languageOf(name string) string {
	lang := filepath.Base(filepath.Dir(name))
	for _, l := range w.languages {
		if l == lang {
			return l
		}
	}
	return ""
}

func (w *Watcher) flush(ctx context.Context) {
	now := time.Now()
	var ready []string

	w.mu.Lock()
	for lang, last := range w.pending {
		if now.Sub(last) >= w.debounceDur {
			ready = append(ready, lang)
			delete(w.pending, lang)
		}
	}
	w.mu.Unlock()

	for _, lang := range ready {
		if err := w.loader.Reload(ctx, lang); err != nil {
			w.logger.Error("Failed to reload translations", "language", lang, "error", err)
		}
	}
}
