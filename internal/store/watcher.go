package store

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"chatbrain/internal/lang"
	"chatbrain/internal/logging"
)

const (
	reloadTaskCategory = "Store"
	reloadTaskName     = "SeedReload"
)

// SeedWatcher watches the seed-word file and re-imports it on change.
// Reloads are debounced through the scheduler's named-task replacement:
// rapid saves collapse into one pending reload.
type SeedWatcher struct {
	mu        sync.Mutex
	watcher   *fsnotify.Watcher
	dict      *lang.Dictionary
	scheduler lang.Scheduler
	path      string
	debounce  time.Duration
	stopCh    chan struct{}
	doneCh    chan struct{}
	running   bool
}

// NewSeedWatcher creates a stopped watcher over the seed-word file.
func NewSeedWatcher(dict *lang.Dictionary, scheduler lang.Scheduler, path string) (*SeedWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &SeedWatcher{
		watcher:   w,
		dict:      dict,
		scheduler: scheduler,
		path:      path,
		debounce:  500 * time.Millisecond,
		stopCh:    make(chan struct{}),
		doneCh:    make(chan struct{}),
	}, nil
}

// Start begins watching. Non-blocking; events are handled in a goroutine.
// The containing directory is watched rather than the file itself so
// editors that replace the file atomically are still seen.
func (sw *SeedWatcher) Start() error {
	sw.mu.Lock()
	if sw.running {
		sw.mu.Unlock()
		return nil
	}
	sw.running = true
	sw.mu.Unlock()

	dir := filepath.Dir(sw.path)
	if err := sw.watcher.Add(dir); err != nil {
		logging.Get(logging.CategoryStore).Warn("seed watch failed for %s: %v", dir, err)
	} else {
		logging.Store("watching seed words at %s", sw.path)
	}

	go sw.run()
	return nil
}

// Stop stops the watcher and waits for the event loop to exit.
func (sw *SeedWatcher) Stop() {
	sw.mu.Lock()
	if !sw.running {
		sw.mu.Unlock()
		return
	}
	sw.running = false
	sw.mu.Unlock()

	close(sw.stopCh)
	sw.watcher.Close()
	<-sw.doneCh
}

func (sw *SeedWatcher) run() {
	defer close(sw.doneCh)

	target := filepath.Clean(sw.path)
	for {
		select {
		case <-sw.stopCh:
			return
		case ev, ok := <-sw.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != target {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
				continue
			}
			sw.scheduleReload()
		case err, ok := <-sw.watcher.Errors:
			if !ok {
				return
			}
			logging.Get(logging.CategoryStore).Warn("seed watcher error: %v", err)
		}
	}
}

func (sw *SeedWatcher) scheduleReload() {
	err := sw.scheduler.StartNamed(reloadTaskCategory, reloadTaskName, sw.debounce, func(ctx context.Context) {
		if ctx.Err() != nil {
			return
		}
		n, err := LoadDefaultWords(sw.dict, sw.path)
		if err != nil {
			logging.Get(logging.CategoryStore).Error("seed reload failed: %v", err)
			return
		}
		logging.Store("seed reload imported %d words", n)
	})
	if err != nil {
		logging.Get(logging.CategoryStore).Error("failed to schedule seed reload: %v", err)
	}
}
