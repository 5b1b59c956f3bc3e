// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package cache

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/spf13/afero"
	"github.com/tidwall/gjson"
)

// Info describes an entry file found in the base directory.
type Info struct {
	Key     string    `json:"key"`
	Path    string    `json:"path"`
	Size    int64     `json:"size"`
	ModTime time.Time `json:"modTime"`
	// ExpiresAt is Unix milliseconds, 0 when the entry never expires.
	ExpiresAt int64 `json:"expiresAt"`
	Expired   bool  `json:"expired"`
}

// Expiry returns ExpiresAt as a time, or the zero time for entries that never
// expire.
func (i Info) Expiry() time.Time {
	if i.ExpiresAt == 0 {
		return time.Time{}
	}
	return time.UnixMilli(i.ExpiresAt)
}

// List returns every entry file in the base directory, sorted by key,
// whether or not it is held in memory. Only the expiry is read from each file;
// files that are not valid entries are skipped.
func (c *Cache) List() ([]Info, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.listLocked()
}

func (c *Cache) listLocked() ([]Info, error) {
	fis, err := afero.ReadDir(c.fs, c.basePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read cache directory: %w", err)
	}

	infos := make([]Info, 0, len(fis))
	for _, fi := range fis {
		if fi.IsDir() {
			continue
		}
		key, ok := keyFromFile(fi.Name())
		if !ok {
			continue
		}

		p := filepath.Join(c.basePath, fi.Name())
		data, err := afero.ReadFile(c.fs, p)
		if err != nil {
			c.log.WithError(err).Warnf("failed to read cache file %s", p)
			continue
		}
		if !gjson.ValidBytes(data) {
			c.log.Warnf("skipping malformed cache file %s", p)
			continue
		}
		exp := gjson.GetBytes(data, "expiresAt")
		if !exp.Exists() || !gjson.GetBytes(data, "value").Exists() {
			c.log.Warnf("skipping malformed cache file %s", p)
			continue
		}

		infos = append(infos, Info{
			Key:       key,
			Path:      p,
			Size:      fi.Size(),
			ModTime:   fi.ModTime(),
			ExpiresAt: exp.Int(),
			Expired:   c.expired(exp.Int()),
		})
	}

	sort.Slice(infos, func(i, j int) bool {
		return infos[i].Key < infos[j].Key
	})

	return infos, nil
}

// Purge removes every expired entry, both entry files in the base directory
// and entries held only in memory. It returns the number of keys removed.
func (c *Cache) Purge() (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	infos, err := c.listLocked()
	if err != nil {
		return 0, err
	}

	removed := 0
	for _, info := range infos {
		if !info.Expired {
			continue
		}
		if err := c.deleteLocked(info.Key); err != nil {
			c.log.WithError(err).Warnf("failed to remove cache file %s", info.Path)
			continue
		}
		c.metrics.expired.Inc()
		removed++
	}

	for key, e := range c.entries {
		if c.expired(e.expiresAt) {
			delete(c.entries, key)
			c.metrics.expired.Inc()
			removed++
		}
	}

	c.log.Debugf("purged %d expired entries", removed)
	return removed, nil
}

// PurgeOlderThan removes entry files last written more than age ago,
// regardless of their expiry. If age <= 0 it is a no-op.
func (c *Cache) PurgeOlderThan(age time.Duration) (int, error) {
	if age <= 0 {
		c.log.Debug("cache cleaning disabled")
		return 0, nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	removed := 0
	err := afero.Walk(c.fs, c.basePath, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			if path != c.basePath {
				return filepath.SkipDir
			}
			return nil
		}
		key, ok := keyFromFile(path)
		if !ok || c.clock.Since(info.ModTime()) <= age {
			return nil
		}
		if err := c.deleteLocked(key); err != nil {
			c.log.WithError(err).Warnf("failed to remove cache file %s", path)
			return nil
		}
		removed++
		return nil
	})
	if err != nil {
		return removed, fmt.Errorf("failed to purge cache: %w", err)
	}

	return removed, nil
}
