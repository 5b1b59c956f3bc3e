// Copyright © 2025 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: MIT

// Package cache implements a small in-process key-value cache with optional
// per-entry expiration. Every entry is written through to its own file,
// <basePath>/<key>.json, so values survive process restarts: a Get that misses
// in memory falls back to reading that file.
//
// Expiration is lazy. An expired entry is removed when it is next read, or
// when Purge is called explicitly. There is no background sweeper and no size
// bound.
//
// A Cache serialises its own operations behind a single mutex. Processes that
// share a base directory are not coordinated; the last writer wins.
package cache
