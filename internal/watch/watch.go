// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package watch reruns a callback whenever a source file changes.
package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// DefaultDebounce collapses bursts of events from one save.
const DefaultDebounce = 100 * time.Millisecond

// FileWatcher reports writes to a single file. The file's directory is
// watched as well so editors that replace the file on save are seen.
type FileWatcher struct {
	watcher  *fsnotify.Watcher
	filePath string
	debounce time.Duration
	log      *zap.Logger
}

// NewFileWatcher starts watching filePath. A nil logger disables logging.
func NewFileWatcher(filePath string, log *zap.Logger) (*FileWatcher, error) {
	if log == nil {
		log = zap.NewNop()
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating watcher: %w", err)
	}

	if err := watcher.Add(filePath); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("watching %s: %w", filePath, err)
	}

	dir := filepath.Dir(filePath)
	if err := watcher.Add(dir); err != nil {
		log.Warn("cannot watch directory", zap.String("dir", dir), zap.Error(err))
	}

	return &FileWatcher{
		watcher:  watcher,
		filePath: filepath.Clean(filePath),
		debounce: DefaultDebounce,
		log:      log,
	}, nil
}

// SetDebounce changes the quiet period before onChange runs.
func (fw *FileWatcher) SetDebounce(d time.Duration) {
	fw.debounce = d
}

// Run blocks until ctx is done or the watcher is closed, calling onChange
// once after each burst of writes. onChange runs on the caller's
// goroutine, so calls never overlap.
func (fw *FileWatcher) Run(ctx context.Context, onChange func(context.Context)) {
	var timer *time.Timer
	var fire <-chan time.Time
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-fw.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != fw.filePath {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			fw.log.Debug("source changed", zap.String("file", event.Name), zap.String("op", event.Op.String()))
			if event.Op&fsnotify.Rename != 0 {
				// The old inode is gone; pick up the replacement.
				_ = fw.watcher.Add(fw.filePath)
			}
			if timer == nil {
				timer = time.NewTimer(fw.debounce)
			} else {
				timer.Reset(fw.debounce)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			onChange(ctx)

		case err, ok := <-fw.watcher.Errors:
			if !ok {
				return
			}
			fw.log.Warn("watcher error", zap.Error(err))
		}
	}
}

// Close stops watching.
func (fw *FileWatcher) Close() error {
	return fw.watcher.Close()
}
