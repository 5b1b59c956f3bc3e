// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package cache

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/apex/log"
	"github.com/benbjohnson/clock"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/afero"
	"github.com/tidwall/gjson"
)

// Cache is a key-value cache whose entries are held in memory and written
// through to one file per key beneath a base directory.
type Cache struct {
	mu      sync.Mutex
	entries map[string]entry

	basePath string

	fs      afero.Fs
	clock   clock.Clock
	log     log.Interface
	reg     prometheus.Registerer
	metrics *metrics
}

// New returns a Cache persisting to basePath, which is created along with any
// missing parents. An empty basePath means DefaultBasePath(). A trailing
// separator is ignored.
//
// New fails, with an error wrapping ErrInitialize, if the directory cannot be
// created.
func New(basePath string, opts ...Option) (*Cache, error) {
	c := &Cache{
		entries:  make(map[string]entry),
		basePath: normalizeBasePath(basePath),
		fs:       afero.NewOsFs(),
		clock:    clock.New(),
		log:      log.Log,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.metrics = newMetrics(c.reg)

	if err := c.fs.MkdirAll(c.basePath, 0o755); err != nil { //nolint:mnd
		return nil, fmt.Errorf("%w %s: %w", ErrInitialize, c.basePath, err)
	}
	c.log.Debugf("cache directory %s ready", c.basePath)

	return c, nil
}

// BasePath returns the normalized directory entries are persisted to.
func (c *Cache) BasePath() string {
	return c.basePath
}

// Path returns the file an entry for key is persisted to.
func (c *Cache) Path(key string) string {
	return filepath.Join(c.basePath, key+fileExt)
}

// Set stores value under key, replacing any previous value, and writes it to
// the key's file. A non-zero expiresInSeconds makes the entry expire that many
// seconds from now; a negative value yields an entry that is already expired.
// Zero means the entry never expires.
//
// If the file cannot be written the returned error wraps ErrPersist. The
// in-memory entry is updated regardless.
func (c *Cache) Set(key string, value any, expiresInSeconds int64) error {
	if err := validateKey(key); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	var expiresAt int64
	if expiresInSeconds != 0 {
		expiresAt = c.clock.Now().UnixMilli() + expiresInSeconds*1000 //nolint:mnd
	}

	e := entry{value: value, expiresAt: expiresAt}
	c.entries[key] = e

	if err := c.writeFile(key, e); err != nil {
		c.metrics.errors.WithLabelValues("set").Inc()
		return err
	}
	c.metrics.writes.Inc()
	c.log.WithField("key", key).Debugf("set, expiresAt=%d", expiresAt)

	return nil
}

// Get returns the value stored under key as T. The in-memory entry is used if
// there is one, otherwise the key's file is read; a file that is missing or
// cannot be decoded is a miss. An expired entry is deleted and reported as a
// miss.
//
// Requesting a T that does not match what was stored is a caller error. It
// reads as a miss unless the stored value converts to T through JSON.
func Get[T any](c *Cache, key string) (T, bool) {
	var zero T

	c.mu.Lock()
	defer c.mu.Unlock()

	v, ok := c.lookupLocked(key, func(data []byte) (any, int64, error) {
		rec, err := decodeRecord[T](data)
		return rec.Value, rec.ExpiresAt, err
	})
	if !ok {
		return zero, false
	}

	t, ok := convert[T](v)
	if !ok {
		c.log.WithField("key", key).Debugf("stored value %T does not convert to %T", v, zero)
		return zero, false
	}
	return t, true
}

// Get returns the value stored under key without asserting a type. Values read
// from disk are decoded as generic JSON (numbers become float64).
func (c *Cache) Get(key string) (any, bool) {
	return Get[any](c, key)
}

// lookupLocked finds key in memory or, failing that, on disk, and applies the
// expiry check. decode turns file contents into a value and its expiresAt.
func (c *Cache) lookupLocked(key string, decode func([]byte) (any, int64, error)) (any, bool) {
	if validateKey(key) != nil {
		c.metrics.misses.Inc()
		return nil, false
	}

	logger := c.log.WithField("key", key)

	source := "memory"
	e, ok := c.entries[key]
	if !ok {
		source = "disk"
		e, ok = c.readFile(key, decode)
	}
	if !ok {
		c.metrics.misses.Inc()
		logger.Debug("miss")
		return nil, false
	}

	if c.expired(e.expiresAt) {
		c.metrics.misses.Inc()
		c.metrics.expired.Inc()
		logger.Debugf("expired at %d", e.expiresAt)
		if err := c.deleteLocked(key); err != nil {
			logger.WithError(err).Warn("failed to remove expired entry")
		}
		return nil, false
	}

	c.metrics.hits.WithLabelValues(source).Inc()
	logger.Debugf("hit (%s)", source)
	return e.value, true
}

// Delete removes key from memory and removes its file. Failing to remove the
// file, including because it does not exist, returns an error wrapping
// ErrRemove.
func (c *Cache) Delete(key string) error {
	if err := validateKey(key); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	return c.deleteLocked(key)
}

// Clear deletes every key currently held in memory. Files for keys this Cache
// has not stored (for example ones written by another process and only ever
// read from disk) are left in place. Every key is attempted; failures are
// joined into the returned error.
func (c *Cache) Clear() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var errs []error
	for _, key := range c.keysLocked() {
		if err := c.deleteLocked(key); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Keys returns the keys held in memory, sorted.
func (c *Cache) Keys() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.keysLocked()
}

// Len returns the number of entries held in memory, expired ones included.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *Cache) keysLocked() []string {
	keys := make([]string, 0, len(c.entries))
	for k := range c.entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (c *Cache) deleteLocked(key string) error {
	delete(c.entries, key)

	p := c.Path(key)
	if err := c.fs.Remove(p); err != nil {
		c.metrics.errors.WithLabelValues("delete").Inc()
		return fmt.Errorf("%w %s: %w", ErrRemove, p, err)
	}
	c.metrics.deletes.Inc()
	c.log.WithField("key", key).Debugf("removed %s", p)
	return nil
}

// expired reports whether expiresAt, in Unix milliseconds, is in the past.
// Zero never expires.
func (c *Cache) expired(expiresAt int64) bool {
	return expiresAt != 0 && expiresAt < c.clock.Now().UnixMilli()
}

func (c *Cache) writeFile(key string, e entry) error {
	p := c.Path(key)
	data, err := encodeEntry(e)
	if err != nil {
		return fmt.Errorf("%w %s: %w", ErrPersist, p, err)
	}
	if err := afero.WriteFile(c.fs, p, data, os.FileMode(0o600)); err != nil { //nolint:mnd
		return fmt.Errorf("%w %s: %w", ErrPersist, p, err)
	}
	return nil
}

// readFile loads the entry persisted for key. Read and decode failures are
// reported as a miss.
func (c *Cache) readFile(key string, decode func([]byte) (any, int64, error)) (entry, bool) {
	data, err := afero.ReadFile(c.fs, c.Path(key))
	if err != nil {
		return entry{}, false
	}
	if !gjson.GetBytes(data, "value").Exists() {
		c.log.WithField("key", key).Debug("cache file has no value")
		return entry{}, false
	}
	v, expiresAt, err := decode(data)
	if err != nil {
		c.log.WithField("key", key).WithError(err).Debug("unreadable cache file")
		return entry{}, false
	}
	return entry{value: v, expiresAt: expiresAt}, true
}
