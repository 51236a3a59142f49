// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package crocopat

import (
	"go.uber.org/zap"
)

// Rename moves the values of attribute old to attribute new. When no node of
// r tests a variable between the two blocks, or in the block of new, we shift
// the variables directly. Otherwise we go bit by bit: we constrain each bit
// of new to be equal to the same bit of old, and then quantify the bit of
// old away.
func (r *Relation) Rename(old, new string) *Relation {
	env := r.env
	po, pn := env.pos(old), env.pos(new)
	if po == pn {
		return r
	}
	bitnr := env.sym.BitNr()
	if env.engine.TestVars(r.root, pn, pn+bitnr-1) {
		env.warn("rename onto a constrained attribute",
			zap.String("from", old),
			zap.String("to", new))
	}
	// variables that must not appear for the shift to keep the order
	first, last := po+bitnr, pn+bitnr-1
	if po > pn {
		first, last = pn, po-1
	}
	if env.engine.TestVars(r.root, first, last) {
		return r.renameSafe(po, pn, bitnr)
	}
	return r.set(env.engine.RenameVars(r.root, po, po+bitnr-1, pn-po))
}

func (r *Relation) renameSafe(po, pn, bitnr int) *Relation {
	step := func(i int) {
		e := r.env.engine
		eq := e.Equiv(po+i, pn+i)
		r.set(e.Intersect(r.root, eq))
		eq.Release()
		r.set(e.Exists(r.root, po+i))
	}
	if po > pn {
		for i := 0; i < bitnr; i++ {
			step(i)
		}
		return r
	}
	for i := bitnr - 1; i >= 0; i-- {
		step(i)
	}
	return r
}
