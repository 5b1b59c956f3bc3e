// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package cache

import (
	"context"
	"fmt"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/afero"
)

// Op is the kind of change reported by Watch.
type Op int

const (
	// OpSet means an entry file was created or rewritten.
	OpSet Op = iota + 1
	// OpDelete means an entry file was removed or renamed away.
	OpDelete
)

func (o Op) String() string {
	switch o {
	case OpSet:
		return "set"
	case OpDelete:
		return "delete"
	default:
		return "unknown"
	}
}

// Event is a change to an entry file observed by Watch.
type Event struct {
	Key string
	Op  Op
}

// Watch calls fn for every change to an entry file in the base directory,
// made by this or any other process, until ctx is done. A single write may be
// reported more than once. Watch does not touch the in-memory entries.
//
// Watch returns ErrWatchUnsupported unless the cache uses the OS filesystem.
func (c *Cache) Watch(ctx context.Context, fn func(Event)) error {
	if _, ok := c.fs.(*afero.OsFs); !ok {
		return ErrWatchUnsupported
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer func() {
		if err := w.Close(); err != nil {
			c.log.WithError(err).Warn("failed to close watcher")
		}
	}()

	if err := w.Add(c.basePath); err != nil {
		return fmt.Errorf("failed to watch %s: %w", c.basePath, err)
	}
	c.log.Debugf("watching %s", c.basePath)

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if e, ok := toEvent(ev); ok {
				fn(e)
			}
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			c.log.WithError(err).Warn("watch error")
		}
	}
}

func toEvent(ev fsnotify.Event) (Event, bool) {
	key, ok := keyFromFile(ev.Name)
	if !ok {
		return Event{}, false
	}
	switch {
	case ev.Has(fsnotify.Remove), ev.Has(fsnotify.Rename):
		return Event{Key: key, Op: OpDelete}, true
	case ev.Has(fsnotify.Create), ev.Has(fsnotify.Write):
		return Event{Key: key, Op: OpSet}, true
	}
	return Event{}, false
}
