// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package bdd

import (
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"
)

// gcstat stores status information about garbage collections. We use a stack
// (slice) of objects to record the sequence of GC during a computation.
type gcstat struct {
	setfinalizers    int       // Number of handles created on inner nodes
	calledfinalizers int       // Number of handles reclaimed by the Go runtime
	history          []gcpoint // Snaphot of GC stats at each occurrence
}

type gcpoint struct {
	nodes     int // Total number of slots in the node table
	freenodes int // Number of free slots after the collection
	extrefs   int // Number of external references at the time of the collection
}

// pendingRefs collects the indices of handles reclaimed by the Go runtime.
// Finalizers run on their own goroutine, hence the mutex; the engine itself
// only reads the list at the start of a collection.
type pendingRefs struct {
	sync.Mutex
	ids []int
}

func (p *pendingRefs) push(n int) {
	p.Lock()
	p.ids = append(p.ids, n)
	p.Unlock()
}

func (p *pendingRefs) take() []int {
	p.Lock()
	defer p.Unlock()
	res := p.ids
	p.ids = nil
	return res
}

// *************************************************************************

// addref records an external reference to node n. Terminals are never
// collected and therefore never counted.
func (e *Engine) addref(n int) {
	if n < 2 {
		return
	}
	e.refs[n]++
	e.extrefs++
	e.setfinalizers++
}

// delref removes one external reference to node n. Removing a reference that
// was never added is a precondition violation.
func (e *Engine) delref(n int) {
	if n < 2 {
		return
	}
	c, ok := e.refs[n]
	if !ok {
		e.fatalf("release of unreferenced node %d", n)
	}
	if c == 1 {
		delete(e.refs, n)
	} else {
		e.refs[n] = c - 1
	}
	e.extrefs--
}

func (e *Engine) drainpending() {
	ids := e.pending.take()
	for _, n := range ids {
		e.delref(n)
	}
	e.calledfinalizers += len(ids)
}

// *************************************************************************

// Collect reclaims all the nodes that cannot be reached from an external
// reference. The engine calls it on its own when it runs out of nodes, but it
// can also be called explicitly. Nodes that survive keep their index.
func (e *Engine) Collect() {
	e.collect()
	e.metrics.observe(e)
}

// collect is the garbage collector. It marks the nodes reachable from the
// external references and then does a single pass, from the last slot down to
// 2, to rebuild the unique table and the free list. After the pass, freepos is
// the lowest free index, or 0 if we found none.
func (e *Engine) collect() {
	e.drainpending()
	e.log.Debug("starting GC",
		zap.Int("free", e.freenum),
		zap.Int("extrefs", e.extrefs))
	if _DEBUG {
		e.logTable()
	}
	e.history = append(e.history, gcpoint{
		nodes:     len(e.nodes) - 2,
		freenodes: e.freenum,
		extrefs:   e.extrefs,
	})
	for n := range e.refs {
		e.markrec(n)
	}
	for k := range e.unique {
		e.unique[k] = 0
	}
	e.freepos = 0
	e.freenum = 0
	for n := len(e.nodes) - 1; n > 1; n-- {
		if e.nodes[n].mark && !e.isfree(n) {
			e.nodes[n].mark = false
			hash := e.ptrhash(n)
			e.nodes[n].next = e.unique[hash]
			e.unique[hash] = n
		} else {
			e.nodes[n].low = -1
			e.nodes[n].mark = false
			e.nodes[n].next = e.freepos
			e.freepos = n
			e.freenum++
		}
	}
	e.cachereset()
	e.log.Debug("end GC", zap.Int("free", e.freenum))
	if _DEBUG {
		e.logTable()
	}
}

// *************************************************************************
// RECURSIVE MARK / UNMARK

func (e *Engine) markrec(n int) {
	if n < 2 || e.nodes[n].mark || e.isfree(n) {
		return
	}
	e.nodes[n].mark = true
	e.markrec(e.nodes[n].low)
	e.markrec(e.nodes[n].high)
}

// markcount returns the number of inner nodes reachable from n that were not
// already marked, and marks them.
func (e *Engine) markcount(n int) int {
	if n < 2 || e.nodes[n].mark || e.isfree(n) {
		return 0
	}
	e.nodes[n].mark = true
	return 1 + e.markcount(e.nodes[n].low) + e.markcount(e.nodes[n].high)
}

func (e *Engine) unmarkrec(n int) {
	if n < 2 || !e.nodes[n].mark || e.isfree(n) {
		return
	}
	e.nodes[n].mark = false
	e.unmarkrec(e.nodes[n].low)
	e.unmarkrec(e.nodes[n].high)
}

// *************************************************************************

// run executes the body of a public operation. If the node table is full, we
// collect garbage and try a second time, from scratch. The operands of f must
// be protected by external references, which is the case for every handle
// passed to a public operation. Any other error is fatal.
func (e *Engine) run(op operator, f func() (int, error)) *Node {
	res, err := f()
	if errors.Is(err, ErrOutOfNodes) {
		e.log.Info("node table full, collecting garbage", zap.Stringer("op", op))
		e.collect()
		res, err = f()
	}
	if err != nil {
		e.Fatal(fmt.Errorf("%s: %w", op, err))
	}
	e.metrics.observe(e)
	return e.retnode(res)
}
