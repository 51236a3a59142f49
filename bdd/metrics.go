// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package bdd

import (
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/multierr"
)

// metrics exports the statistics of an engine as Prometheus collectors. The
// engine is single-threaded, so we never let the registry read its fields:
// values are pushed after each public operation and each collection.
type metrics struct {
	reg       prometheus.Registerer
	gc        prometheus.Counter
	produced  prometheus.Counter
	free      prometheus.Gauge
	extrefs   prometheus.Gauge
	hits      *prometheus.CounterVec
	misses    *prometheus.CounterVec
	collected []prometheus.Collector
	last      snapshot
}

// snapshot holds the value of the counters when they were last pushed.
type snapshot struct {
	gc, produced                      int
	opHit, opMiss, statHit, statMiss int
}

func newMetrics(id string, reg prometheus.Registerer) (*metrics, error) {
	labels := prometheus.Labels{"engine": id}
	m := &metrics{
		reg: reg,
		gc: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   "crocopat",
			Subsystem:   "bdd",
			Name:        "gc_total",
			Help:        "Number of garbage collections of the node table.",
			ConstLabels: labels,
		}),
		produced: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   "crocopat",
			Subsystem:   "bdd",
			Name:        "nodes_produced_total",
			Help:        "Number of nodes created since the engine started.",
			ConstLabels: labels,
		}),
		free: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   "crocopat",
			Subsystem:   "bdd",
			Name:        "free_nodes",
			Help:        "Number of free slots in the node table.",
			ConstLabels: labels,
		}),
		extrefs: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   "crocopat",
			Subsystem:   "bdd",
			Name:        "external_refs",
			Help:        "Number of external references to nodes.",
			ConstLabels: labels,
		}),
		hits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   "crocopat",
			Subsystem:   "bdd",
			Name:        "cache_hits_total",
			Help:        "Number of cache lookups that found a result.",
			ConstLabels: labels,
		}, []string{"cache"}),
		misses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   "crocopat",
			Subsystem:   "bdd",
			Name:        "cache_misses_total",
			Help:        "Number of cache lookups that did not find a result.",
			ConstLabels: labels,
		}, []string{"cache"}),
	}
	var err error
	for _, c := range []prometheus.Collector{m.gc, m.produced, m.free, m.extrefs, m.hits, m.misses} {
		if rerr := reg.Register(c); rerr != nil {
			err = multierr.Append(err, rerr)
			continue
		}
		m.collected = append(m.collected, c)
	}
	if err != nil {
		m.unregister()
		return nil, err
	}
	return m, nil
}

func (m *metrics) unregister() error {
	var err error
	for _, c := range m.collected {
		if !m.reg.Unregister(c) {
			err = multierr.Append(err, errNotRegistered)
		}
	}
	m.collected = nil
	return err
}

// observe pushes the difference between the current statistics of e and the
// last values pushed. It does nothing on an engine without metrics.
func (m *metrics) observe(e *Engine) {
	if m == nil {
		return
	}
	cur := snapshot{
		gc:       len(e.history),
		produced: e.produced,
		opHit:    e.opHit,
		opMiss:   e.opMiss,
		statHit:  e.statHit,
		statMiss: e.statMiss,
	}
	m.gc.Add(float64(cur.gc - m.last.gc))
	m.produced.Add(float64(cur.produced - m.last.produced))
	m.hits.WithLabelValues("op").Add(float64(cur.opHit - m.last.opHit))
	m.misses.WithLabelValues("op").Add(float64(cur.opMiss - m.last.opMiss))
	m.hits.WithLabelValues("count").Add(float64(cur.statHit - m.last.statHit))
	m.misses.WithLabelValues("count").Add(float64(cur.statMiss - m.last.statMiss))
	m.free.Set(float64(e.freenum))
	m.extrefs.Set(float64(e.extrefs))
	m.last = cur
}
