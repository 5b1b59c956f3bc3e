// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package cache

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
)

const metricsNamespace = "kvcache"

type metrics struct {
	hits    *prometheus.CounterVec
	misses  prometheus.Counter
	expired prometheus.Counter
	writes  prometheus.Counter
	deletes prometheus.Counter
	errors  *prometheus.CounterVec
}

func newMetrics(reg prometheus.Registerer) *metrics {
	m := &metrics{
		hits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "hits_total",
			Help:      "Cache lookups that returned a value, by source (memory or disk).",
		}, []string{"source"}),
		misses: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "misses_total",
			Help:      "Cache lookups that found nothing or an expired entry.",
		}),
		expired: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "expired_total",
			Help:      "Entries removed because they had expired.",
		}),
		writes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "writes_total",
			Help:      "Entry files written.",
		}),
		deletes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "deletes_total",
			Help:      "Entry files removed.",
		}),
		errors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "errors_total",
			Help:      "Filesystem errors returned to callers, by operation.",
		}, []string{"op"}),
	}

	if reg == nil {
		return m
	}

	m.hits = register(reg, m.hits)
	m.misses = register(reg, m.misses)
	m.expired = register(reg, m.expired)
	m.writes = register(reg, m.writes)
	m.deletes = register(reg, m.deletes)
	m.errors = register(reg, m.errors)
	return m
}

// register adds c to reg, returning the already registered collector when an
// identical one exists.
func register[C prometheus.Collector](reg prometheus.Registerer, c C) C {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing
			}
		}
	}
	return c
}
