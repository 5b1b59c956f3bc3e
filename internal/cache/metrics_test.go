// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package cache

import (
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	mfs := afero.NewMemMapFs()
	clk := clock.NewMock()
	clk.Set(epoch)

	c, err := New("/tmp/cache", WithFs(mfs), WithClock(clk), WithLogger(quietLogger()), WithRegisterer(reg))
	require.NoError(t, err)

	require.NoError(t, c.Set("a", 1, 0))
	require.NoError(t, c.Set("b", 2, 1))
	_, _ = c.Get("a")
	_, _ = c.Get("missing")
	assert.Error(t, c.Delete("missing"))

	fresh, err := New("/tmp/cache", WithFs(mfs), WithClock(clk), WithLogger(quietLogger()), WithRegisterer(reg))
	require.NoError(t, err)
	_, _ = fresh.Get("a")

	clk.Add(2 * time.Second)
	_, _ = c.Get("b")

	assert.InDelta(t, 1, testutil.ToFloat64(c.metrics.hits.WithLabelValues("memory")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(c.metrics.hits.WithLabelValues("disk")), 0)
	assert.InDelta(t, 2, testutil.ToFloat64(c.metrics.misses), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(c.metrics.expired), 0)
	assert.InDelta(t, 2, testutil.ToFloat64(c.metrics.writes), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(c.metrics.deletes), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(c.metrics.errors.WithLabelValues("delete")), 0)

	n, err := testutil.GatherAndCount(reg)
	require.NoError(t, err)
	assert.Positive(t, n)
}

func TestMetrics_Unregistered(t *testing.T) {
	c, _, _ := newTestCache(t, "/tmp/cache")
	require.NoError(t, c.Set("a", 1, 0))
	assert.InDelta(t, 1, testutil.ToFloat64(c.metrics.writes), 0)
}
