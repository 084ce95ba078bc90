package codebase

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// FileWatcher polls the codebase root and rescans .java files whose
// modification time changed. Every rescan moves the codebase to a new
// generation, which makes snapshots taken before it stale.
type FileWatcher struct {
	codebase     *Codebase
	stopCh       chan struct{}
	stopOnce     sync.Once
	pollInterval time.Duration
	modTimes     map[string]time.Time
}

func NewFileWatcher(c *Codebase, interval time.Duration) *FileWatcher {
	if interval <= 0 {
		interval = time.Second
	}
	return &FileWatcher{
		codebase:     c,
		stopCh:       make(chan struct{}),
		pollInterval: interval,
		modTimes:     make(map[string]time.Time),
	}
}

func (w *FileWatcher) Start() {
	go w.run()
}

func (w *FileWatcher) Stop() {
	w.stopOnce.Do(func() { close(w.stopCh) })
}

func (w *FileWatcher) run() {
	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	w.prime()

	for {
		select {
		case <-w.stopCh:
			return
		case <-ticker.C:
			w.scan()
		}
	}
}

// prime records the current modification times without rescanning, for a
// codebase that has just been scanned in full.
func (w *FileWatcher) prime() {
	w.walk(func(path string, info os.FileInfo) {
		w.modTimes[path] = info.ModTime()
	})
}

func (w *FileWatcher) scan() {
	currentFiles := make(map[string]bool)

	w.walk(func(path string, info os.FileInfo) {
		currentFiles[path] = true

		lastMod, known := w.modTimes[path]
		if !known || info.ModTime().After(lastMod) {
			w.modTimes[path] = info.ModTime()
			if err := w.codebase.ScanFile(path); err != nil {
				log.Warningf("rescan %s: %s", path, err)
				return
			}
			log.Debugf("rescanned %s", path)
		}
	})

	for path := range w.modTimes {
		if !currentFiles[path] {
			delete(w.modTimes, path)
			w.codebase.RemoveFile(path)
			log.Debugf("removed %s", path)
		}
	}
}

func (w *FileWatcher) walk(visit func(path string, info os.FileInfo)) {
	root := w.codebase.RootDir()
	filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}
		if info.IsDir() {
			if path != root && strings.HasPrefix(info.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if filepath.Ext(path) == ".java" {
			visit(path, info)
		}
		return nil
	})
}
