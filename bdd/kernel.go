// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package bdd

import (
	"math"
	"runtime"
)

// MaxVar is the largest variable identifier accepted by the engine.
const MaxVar = 0x3FFFFFFF

// _TERMLEVEL is the level of the two terminal nodes. It is greater than every
// variable so that terminals always come last in the order.
const _TERMLEVEL int32 = math.MaxInt32

// bddNode is a slot in the node table. Free slots have low set to -1 and use
// next to link the free list. Allocated slots use next to chain nodes that
// share the same bucket in the unique table; 0 ends a chain since the
// terminal 0 is never stored in a bucket.
type bddNode struct {
	level int32 // variable tested by the node
	mark  bool  // used by traversals and by the garbage collector
	low   int   // successor when the variable is false, or -1 if free
	high  int   // successor when the variable is true
	next  int   // next node in the bucket, or next free slot
}

func (e *Engine) isfree(n int) bool {
	return e.nodes[n].low == -1
}

// makenode is the only place where nodes are created. It enforces the two
// rules of reduced BDDs: no node with identical successors and no two nodes
// with the same (level, low, high) triple. It returns ErrOutOfNodes when the
// free list is empty; the caller must propagate the error to the public
// operation that will collect garbage and try again.
func (e *Engine) makenode(level int32, low, high int) (int, error) {
	e.uniqueAccess++
	if low == high {
		return low, nil
	}
	hash := e.nodehash(level, low, high)
	for res := e.unique[hash]; res != 0; res = e.nodes[res].next {
		e.uniqueChain++
		if n := &e.nodes[res]; n.level == level && n.low == low && n.high == high {
			e.uniqueHit++
			return res, nil
		}
	}
	e.uniqueMiss++
	if e.freepos == 0 {
		return -1, ErrOutOfNodes
	}
	res := e.freepos
	e.freepos = e.nodes[res].next
	e.freenum--
	e.produced++
	e.nodes[res] = bddNode{
		level: level,
		low:   low,
		high:  high,
		next:  e.unique[hash],
	}
	e.unique[hash] = res
	return res, nil
}

// retnode wraps node n into a handle. Every handle on an inner node counts as
// an external reference until it is released. We also attach a finalizer so
// that handles lost by the caller are eventually given back to the engine.
func (e *Engine) retnode(n int) *Node {
	x := &Node{engine: e, id: n}
	if n > 1 {
		e.addref(n)
		runtime.SetFinalizer(x, (*Node).finalize)
	}
	return x
}

// checkptr returns the index of a handle after checking that it belongs to
// the engine and has not been released.
func (e *Engine) checkptr(n *Node, op string) int {
	switch {
	case n == nil:
		e.fatalf("nil node in call to %s", op)
	case n.engine != e:
		e.fatalf("node from another engine in call to %s", op)
	case n.released:
		e.fatalf("released node %d in call to %s", n.id, op)
	}
	return n.id
}

func checkvar(v int) bool {
	return v >= 0 && v <= MaxVar
}
