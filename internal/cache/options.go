// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package cache

import (
	"github.com/apex/log"
	"github.com/benbjohnson/clock"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/afero"
)

// Option configures a Cache at construction time.
type Option func(*Cache)

// WithFs sets the filesystem entries are persisted to. The default is the OS
// filesystem.
func WithFs(fs afero.Fs) Option {
	return func(c *Cache) {
		if fs != nil {
			c.fs = fs
		}
	}
}

// WithClock sets the time source used for expiry.
func WithClock(clk clock.Clock) Option {
	return func(c *Cache) {
		if clk != nil {
			c.clock = clk
		}
	}
}

// WithLogger sets the logger. The default is the apex/log package logger.
func WithLogger(l log.Interface) Option {
	return func(c *Cache) {
		if l != nil {
			c.log = l
		}
	}
}

// WithRegisterer registers the cache counters with reg. Caches sharing a
// registry share counters.
func WithRegisterer(reg prometheus.Registerer) Option {
	return func(c *Cache) {
		c.reg = reg
	}
}
