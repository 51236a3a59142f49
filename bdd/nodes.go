// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package bdd

import "runtime"

// Node is a handle on a node of an engine. A handle on an inner node holds an
// external reference that protects the node, and everything reachable from
// it, from garbage collection. The reference is given back when the handle is
// released, or when the Go runtime reclaims a handle that was not released.
//
// Two handles denote the same Boolean function if and only if Equal returns
// true, which is a constant time test.
type Node struct {
	engine   *Engine
	id       int
	released bool
}

// Index returns the position of the node in the node table. The terminals
// false and true have index 0 and 1.
func (n *Node) Index() int {
	return n.id
}

// Engine returns the engine that owns the node.
func (n *Node) Engine() *Engine {
	return n.engine
}

// IsFalse reports whether n is the terminal 0, that is the empty set.
func (n *Node) IsFalse() bool {
	return n.id == 0
}

// IsTrue reports whether n is the terminal 1.
func (n *Node) IsTrue() bool {
	return n.id == 1
}

// Equal tests equivalence between nodes.
func (n *Node) Equal(m *Node) bool {
	if n == m {
		return true
	}
	if n == nil || m == nil {
		return false
	}
	return n.engine == m.engine && n.id == m.id
}

// Clone returns a new handle on the same node, with its own external
// reference.
func (n *Node) Clone() *Node {
	return n.engine.retnode(n.engine.checkptr(n, "Clone"))
}

// Release gives back the external reference held by n. The handle cannot be
// used afterwards, but it can be released again without effect. Releasing a
// node of a closed engine does nothing.
func (n *Node) Release() {
	if n == nil || n.released {
		return
	}
	e := n.engine
	n.released = true
	if n.id > 1 {
		runtime.SetFinalizer(n, nil)
		if e.closed {
			return
		}
		e.delref(n.id)
	}
}

func (n *Node) finalize() {
	n.engine.pending.push(n.id)
}
