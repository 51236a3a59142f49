// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package crocopat

import (
	"fmt"

	"github.com/dalzilio/crocopat/bdd"
	"go.uber.org/zap"
)

// Relation is a set of tuples, represented by a BDD over the variables of the
// attributes of its environment. A Relation owns an external reference on its
// root: use Clone to share it and Release when done.
//
// Bit patterns that do not encode a value of the universe are folded into
// the last value. This keeps Equal, Contains and IsEmpty correct; counting
// tuples restricts the relation to valid patterns first.
//
// Operations on a relation modify it in place and return it, so that calls
// can be chained.
type Relation struct {
	env   *Env
	root  *bdd.Node
	arity int
}

// Node returns the root of the relation. The node belongs to the relation.
func (r *Relation) Node() *bdd.Node {
	return r.root
}

// Arity returns the advisory number of attributes of the relation, or -1 if
// unknown. It is only used for warnings: operations never change it, and
// relations built from attributes start with an unknown arity.
func (r *Relation) Arity() int {
	return r.arity
}

// SetArity sets the advisory arity of r.
func (r *Relation) SetArity(n int) *Relation {
	r.arity = n
	return r
}

// ExpectArity reports whether the arity of r is n or unknown, and emits a
// warning otherwise.
func (r *Relation) ExpectArity(n int) bool {
	if r.arity < 0 || r.arity == n {
		return true
	}
	r.env.warn("arity mismatch", zap.Int("expected", n), zap.Int("actual", r.arity))
	return false
}

// Clone returns a copy of r with its own reference.
func (r *Relation) Clone() *Relation {
	return r.env.wrap(r.root.Clone(), r.arity)
}

// Release gives back the reference held by r.
func (r *Relation) Release() {
	r.root.Release()
}

func (r *Relation) set(n *bdd.Node) *Relation {
	r.root.Release()
	r.root = n
	return r
}

// Complement replaces r with the set of tuples not in r.
func (r *Relation) Complement() *Relation {
	return r.set(r.env.engine.Complement(r.root))
}

// Unite adds the tuples of o to r.
func (r *Relation) Unite(o *Relation) *Relation {
	return r.set(r.env.engine.Union(r.root, o.root))
}

// Intersect keeps the tuples of r that are also in o.
func (r *Relation) Intersect(o *Relation) *Relation {
	return r.set(r.env.engine.Intersect(r.root, o.root))
}

// Minus removes the tuples of o from r.
func (r *Relation) Minus(o *Relation) *Relation {
	e := r.env.engine
	c := e.Complement(o.root)
	defer c.Release()
	return r.set(e.Intersect(r.root, c))
}

// Exists quantifies away the given attributes.
func (r *Relation) Exists(attrs ...string) *Relation {
	bitnr := r.env.sym.BitNr()
	for _, a := range attrs {
		p := r.env.pos(a)
		for i := bitnr - 1; i >= 0; i-- {
			r.set(r.env.engine.Exists(r.root, p+i))
		}
	}
	return r
}

// Equal reports whether r and o hold the same tuples. It is a constant time
// test.
func (r *Relation) Equal(o *Relation) bool {
	return r.root.Equal(o.root)
}

// Contains reports whether every tuple of o is in r.
func (r *Relation) Contains(o *Relation) bool {
	return r.env.engine.Contains(r.root, o.root)
}

// IsEmpty reports whether r holds no tuple.
func (r *Relation) IsEmpty() bool {
	return r.root.IsFalse()
}

// TestVars reports whether r depends on one of the attributes with a
// position between first and last, both included.
func (r *Relation) TestVars(first, last string) bool {
	p1, p2 := r.env.pos(first), r.env.pos(last)
	if p1 > p2 {
		r.env.fatal(fmt.Errorf("attribute %q comes after %q", first, last))
	}
	return r.env.engine.TestVars(r.root, p1, p2+r.env.sym.BitNr()-1)
}
