// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package cache

import "errors"

// Errors returned by Cache operations. They are wrapped together with the
// underlying filesystem error, so errors.Is matches both, e.g.
// errors.Is(err, ErrRemove) and errors.Is(err, fs.ErrNotExist).
var (
	// ErrInitialize is returned by New when the base directory cannot be
	// created.
	ErrInitialize = errors.New("failed to create cache directory")

	// ErrPersist is returned by Set when the entry file cannot be written.
	// The in-memory entry has already been updated when this happens.
	ErrPersist = errors.New("failed to write cache entry")

	// ErrRemove is returned by Delete and Clear when an entry file cannot be
	// removed, including when it does not exist.
	ErrRemove = errors.New("failed to remove cache entry")

	ErrInvalidKey = errors.New("invalid cache key")

	// ErrWatchUnsupported is returned by Watch when the cache is not backed by
	// the OS filesystem.
	ErrWatchUnsupported = errors.New("watch requires the OS filesystem")
)
