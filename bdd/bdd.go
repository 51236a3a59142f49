// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package bdd

import (
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// Engine is a shared BDD engine. All the diagrams built by an engine share
// their nodes, so that two nodes with the same index always denote the same
// Boolean function. An Engine is not safe for concurrent use.
type Engine struct {
	id         string
	nodes      []bddNode   // node table; 0 and 1 are the terminals
	unique     []int       // heads of the unique table buckets
	uniquemask uint64      // len(unique) - 1
	freepos    int         // first free slot, 0 if none
	freenum    int         // number of free slots
	refs       map[int]int // external references, as a multiset of indices
	extrefs    int         // total number of external references
	pending    pendingRefs // references dropped by finalizers
	renameids  map[renameKey]int
	bincache   cache
	statcache  statcache
	log        *zap.Logger
	fatal      func(error)
	metrics    *metrics
	closed     bool
	bddStats
	gcstat
	cacheStat
}

// bddStats stores status information about the engine.
type bddStats struct {
	produced     int // Total number of new nodes ever produced
	uniqueAccess int // Number of calls to makenode
	uniqueChain  int // Number of nodes visited in bucket chains
	uniqueHit    int // Number of calls that found an existing node
	uniqueMiss   int // Number of calls that had to create a node
}

// New returns an engine with a fixed node capacity. The capacity and the size
// of the hash tables can be changed with options such as Nodesize and
// Cachebits. It returns an error only when the Prometheus collectors cannot be
// registered.
func New(opts ...Option) (*Engine, error) {
	c := makeconfigs(opts)
	e := &Engine{
		id:        uuid.New().String(),
		refs:      make(map[int]int),
		renameids: make(map[renameKey]int),
		log:       c.logger,
		fatal:     c.fatal,
	}
	if e.fatal == nil {
		e.fatal = defaultFatal(e.log)
	}
	e.log = e.log.With(zap.String("engine", e.id))
	e.nodes = make([]bddNode, c.nodesize+2)
	e.nodes[0] = bddNode{level: _TERMLEVEL, low: 0, high: 0}
	e.nodes[1] = bddNode{level: _TERMLEVEL, low: 1, high: 1}
	for k := 2; k < len(e.nodes); k++ {
		e.nodes[k] = bddNode{low: -1, next: k + 1}
	}
	e.nodes[len(e.nodes)-1].next = 0
	e.freepos = 2
	e.freenum = c.nodesize
	e.unique = make([]int, 1<<c.uniquebits)
	e.uniquemask = uint64(len(e.unique) - 1)
	e.bincache.init(c.cachebits)
	e.statcache.init(c.statbits)
	if c.registerer != nil {
		m, err := newMetrics(e.id, c.registerer)
		if err != nil {
			return nil, err
		}
		e.metrics = m
	}
	e.log.Debug("engine created",
		zap.Int("nodes", c.nodesize),
		zap.Int("unique_bits", c.uniquebits),
		zap.Int("cache_bits", c.cachebits),
		zap.Int("stat_bits", c.statbits))
	return e, nil
}

// ID returns the identifier of the engine, also used as the value of the
// engine label in metrics.
func (e *Engine) ID() string {
	return e.id
}

// Logger returns the logger of the engine.
func (e *Engine) Logger() *zap.Logger {
	return e.log
}

// Close releases the resources held by the engine. It returns an error if
// some nodes are still referenced, but the engine cannot be used afterwards
// in any case. Releasing a node after Close does nothing, and so does a
// second call to Close.
func (e *Engine) Close() error {
	if e.closed {
		return nil
	}
	e.closed = true
	var err error
	e.drainpending()
	if e.extrefs > 0 {
		err = multierr.Append(err, fmt.Errorf("bdd: %d external references still alive", e.extrefs))
	}
	if e.metrics != nil {
		err = multierr.Append(err, e.metrics.unregister())
	}
	e.nodes = nil
	e.unique = nil
	e.refs = nil
	e.bincache.table = nil
	e.statcache.table = nil
	return err
}
