// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package cacheutil

import (
	"fmt"
	"os"
	"time"

	"github.com/apex/log"

	"github.com/staranto/kvcache/internal/cache"
	"github.com/staranto/kvcache/internal/config"
)

// Dir resolves the base cache directory.
// Precedence:
//  1. KVCACHE_DIR, if set and non-empty
//  2. "dir" from the config file
//  3. cache.DefaultBasePath()
func Dir() string {
	if c, ok := os.LookupEnv("KVCACHE_DIR"); ok && c != "" {
		return c
	}
	if dir, err := config.GetString("dir"); err == nil && dir != "" {
		return dir
	}
	return cache.DefaultBasePath()
}

// Open returns a cache rooted at dir, or at Dir() when dir is empty, logging
// through the package apex logger.
func Open(dir string, opts ...cache.Option) (*cache.Cache, error) {
	if dir == "" {
		dir = Dir()
	}
	opts = append([]cache.Option{cache.WithLogger(log.Log)}, opts...)
	c, err := cache.New(dir, opts...)
	if err != nil {
		return nil, err
	}
	log.Debugf("using cache directory %s", c.BasePath())
	return c, nil
}

// Purge removes entry files older than the provided number of hours.
// If hours <= 0 it is a no-op.
func Purge(c *cache.Cache, hours int) error {
	if hours <= 0 {
		log.Debug("cache cleaning disabled")
		return nil
	}
	n, err := c.PurgeOlderThan(time.Duration(hours) * time.Hour)
	if err != nil {
		return fmt.Errorf("failed to purge cache: %w", err)
	}
	if n > 0 {
		log.Debugf("removed %d cache files older than %dh", n, hours)
	}
	return nil
}
