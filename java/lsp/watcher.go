package lsp

import (
	"io/fs"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// Watcher polls a source tree and reports .java files that were added,
// modified or deleted since the previous poll.
type Watcher struct {
	root     string
	interval time.Duration
	onChange func(path string)
	onRemove func(path string)

	stopCh   chan struct{}
	stopOnce sync.Once
	modTimes map[string]time.Time
}

func NewWatcher(root string, interval time.Duration, onChange, onRemove func(path string)) *Watcher {
	return &Watcher{
		root:     root,
		interval: interval,
		onChange: onChange,
		onRemove: onRemove,
		stopCh:   make(chan struct{}),
		modTimes: make(map[string]time.Time),
	}
}

// Start records the current state of the tree and polls it in the
// background. Files present at start are not reported.
func (w *Watcher) Start() {
	w.Poll(false)
	go w.run()
}

func (w *Watcher) Stop() {
	w.stopOnce.Do(func() { close(w.stopCh) })
}

func (w *Watcher) run() {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-w.stopCh:
			return
		case <-ticker.C:
			w.Poll(true)
		}
	}
}

// Poll walks the tree once. With notify false it only records
// modification times.
func (w *Watcher) Poll(notify bool) {
	current := make(map[string]bool)

	filepath.WalkDir(w.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if path != w.root && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if filepath.Ext(path) != ".java" {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return nil
		}

		current[path] = true
		lastMod, known := w.modTimes[path]
		if !known || info.ModTime().After(lastMod) {
			w.modTimes[path] = info.ModTime()
			if notify && w.onChange != nil {
				w.onChange(path)
			}
		}
		return nil
	})

	for path := range w.modTimes {
		if !current[path] {
			delete(w.modTimes, path)
			if notify && w.onRemove != nil {
				w.onRemove(path)
			}
		}
	}
}
