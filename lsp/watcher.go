package lsp

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// FileWatcher polls the source directories of a workspace and feeds
// files changed outside the editor back into it.
type FileWatcher struct {
	workspace    *Workspace
	stopCh       chan struct{}
	pollInterval time.Duration
	modTimes     map[string]time.Time
	onChange     func()
}

// NewFileWatcher returns a watcher calling onChange after every poll
// that found a change.
func NewFileWatcher(w *Workspace, onChange func()) *FileWatcher {
	return &FileWatcher{
		workspace:    w,
		stopCh:       make(chan struct{}),
		pollInterval: 2 * time.Second,
		modTimes:     make(map[string]time.Time),
		onChange:     onChange,
	}
}

func (fw *FileWatcher) Start() {
	fw.prime()
	go fw.run()
}

func (fw *FileWatcher) Stop() {
	close(fw.stopCh)
}

func (fw *FileWatcher) run() {
	ticker := time.NewTicker(fw.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-fw.stopCh:
			return
		case <-ticker.C:
			if fw.scan(context.Background()) && fw.onChange != nil {
				fw.onChange()
			}
		}
	}
}

// prime records the current modification times without reloading what
// the workspace has already scanned.
func (fw *FileWatcher) prime() {
	fw.walk(func(path string, info fs.FileInfo) {
		fw.modTimes[path] = info.ModTime()
	})
}

// scan reloads new and modified files and drops deleted ones. It
// reports whether anything changed.
func (fw *FileWatcher) scan(ctx context.Context) bool {
	current := make(map[string]bool)
	changed := false

	fw.walk(func(path string, info fs.FileInfo) {
		current[path] = true
		lastMod, known := fw.modTimes[path]
		if known && !info.ModTime().After(lastMod) {
			return
		}
		fw.modTimes[path] = info.ModTime()
		data, err := os.ReadFile(path)
		if err != nil {
			log.Debugf("watcher: %s", err)
			return
		}
		if err := fw.workspace.UpdateFile(ctx, path, data); err != nil {
			log.Errorf("watcher: update %s: %s", path, err)
		}
		changed = true
	})

	for path := range fw.modTimes {
		if !current[path] {
			delete(fw.modTimes, path)
			if err := fw.workspace.RemoveFile(ctx, path); err != nil {
				log.Errorf("watcher: remove %s: %s", path, err)
			}
			changed = true
		}
	}
	return changed
}

func (fw *FileWatcher) walk(fn func(path string, info fs.FileInfo)) {
	for _, dir := range fw.workspace.SourceDirs() {
		filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
			if err != nil {
				return nil
			}
			if info.IsDir() {
				if path != dir && strings.HasPrefix(info.Name(), ".") {
					return filepath.SkipDir
				}
				return nil
			}
			if filepath.Ext(path) == ".java" {
				fn(path, info)
			}
			return nil
		})
	}
}
