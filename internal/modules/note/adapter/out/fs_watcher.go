package out

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	noteout "notegraph/internal/modules/note/port/out"
)

const DefaultDebounce = 150 * time.Millisecond

// FSWatcher reports markdown files written in the notes directory. Editors
// often emit several events per save, so each path is debounced.
type FSWatcher struct {
	notesDir string
	debounce time.Duration
	logger   *zap.Logger
}

func NewFSWatcher(notesDir string, debounce time.Duration, logger *zap.Logger) noteout.ChangeWatcher {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FSWatcher{notesDir: notesDir, debounce: debounce, logger: logger}
}

func (w *FSWatcher) Watch(ctx context.Context, onChange func(path string)) error {
	if err := os.MkdirAll(w.notesDir, 0o755); err != nil {
		return fmt.Errorf("create notes directory: %w", err)
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create file watcher: %w", err)
	}
	defer watcher.Close()
	if err := watcher.Add(w.notesDir); err != nil {
		return fmt.Errorf("watch %s: %w", w.notesDir, err)
	}
	w.logger.Info("watching notes", zap.String("dir", w.notesDir))

	var mu sync.Mutex
	timers := map[string]*time.Timer{}
	defer func() {
		mu.Lock()
		for _, t := range timers {
			t.Stop()
		}
		mu.Unlock()
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Ext(event.Name) != ".md" || event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			path := event.Name
			mu.Lock()
			if t, ok := timers[path]; ok {
				t.Stop()
			}
			timers[path] = time.AfterFunc(w.debounce, func() {
				mu.Lock()
				delete(timers, path)
				mu.Unlock()
				if ctx.Err() == nil {
					onChange(path)
				}
			})
			mu.Unlock()
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Error("file watcher error", zap.Error(err))
		}
	}
}
