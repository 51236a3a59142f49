// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package crocopat

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/dalzilio/crocopat/bdd"
)

// TupleCount returns the number of tuples of r over the attributes in free.
// The relation must not depend on other attributes placed before the first
// attribute of free. Attributes between the ones of free are fixed to their
// first value, so they do not count.
func (r *Relation) TupleCount(free []string) float64 {
	env := r.env
	if len(free) == 0 {
		if r.IsEmpty() {
			return 0
		}
		return 1
	}
	order, err := env.sym.VariableOrder(free)
	if err != nil {
		env.fatal(err)
	}
	bitnr := env.sym.BitNr()
	first := env.pos(order[0])
	last := env.pos(order[len(order)-1])
	isfree := make(map[int]bool, len(order))
	for _, a := range order {
		isfree[env.pos(a)] = true
	}
	e := env.engine
	tmp := r.root.Clone()
	for p := first; p <= last; p += bitnr {
		var restrict *bdd.Node
		if isfree[p] {
			restrict = env.mkRange(p)
		} else {
			restrict = e.Value(p, bitnr, 0)
		}
		next := e.Intersect(tmp, restrict)
		restrict.Release()
		tmp.Release()
		tmp = next
	}
	defer tmp.Release()
	if first > 0 && e.TestVars(tmp, 0, first-1) {
		env.fatal(fmt.Errorf("relation depends on attributes before %q", order[0]))
	}
	return e.TupleCount(tmp, first, last+bitnr-1)
}

// Element returns a value of attr in one of the tuples of r. The relation must
// not be empty.
func (r *Relation) Element(attr string) string {
	if r.IsEmpty() {
		r.env.fatal(fmt.Errorf("element: %w", errEmpty))
	}
	return r.env.value(r.element(r.env.pos(attr)))
}

func (r *Relation) element(p int) uint64 {
	n := r.env.engine.Tuple(r.root, p, p+r.env.sym.BitNr()-1)
	// patterns beyond the universe stand for the last value
	if max := uint64(r.env.sym.UniverseSize() - 1); n > max {
		n = max
	}
	return n
}

func (env *Env) value(n uint64) string {
	v, err := env.sym.Value(int(n))
	if err != nil {
		env.fatal(err)
	}
	return v
}

// TupleOf returns a relation holding a single tuple of r over attrs, that is
// r restricted to one value for each attribute in attrs. The relation must
// not be empty.
func (r *Relation) TupleOf(attrs []string) *Relation {
	env := r.env
	if r.IsEmpty() {
		env.fatal(fmt.Errorf("tuple: %w", errEmpty))
	}
	order, err := env.sym.VariableOrder(attrs)
	if err != nil {
		env.fatal(err)
	}
	res := r.Clone()
	for _, a := range order {
		p := env.pos(a)
		eq := env.mkEqual(p, res.element(p))
		res.set(env.engine.Intersect(res.root, eq))
		eq.Release()
	}
	return res
}

// EachTuple calls f on every tuple of r over attrs, with values given in the
// order of attrs. Enumeration stops at the first error returned by f. The
// slice passed to f is reused between calls.
func (r *Relation) EachTuple(attrs []string, f func([]string) error) error {
	for _, a := range attrs {
		r.env.pos(a)
	}
	tuple := make([]string, len(attrs))
	return r.eachTuple(attrs, tuple, 0, f)
}

func (r *Relation) eachTuple(attrs []string, tuple []string, k int, f func([]string) error) error {
	if r.IsEmpty() {
		return nil
	}
	if k == len(attrs) {
		return f(tuple)
	}
	env := r.env
	e := env.engine
	p := env.pos(attrs[k])
	rest := r.Clone()
	defer rest.Release()
	for !rest.IsEmpty() {
		n := rest.element(p)
		eq := env.mkEqual(p, n)
		cof := env.wrap(e.Intersect(rest.root, eq), rest.arity)
		eq.Release()
		tuple[k] = env.value(n)
		err := cof.eachTuple(attrs, tuple, k+1, f)
		// remove the tuples we just visited
		rest.Minus(cof)
		cof.Release()
		if err != nil {
			return err
		}
	}
	return nil
}

// Tuples returns all the tuples of r over attrs.
func (r *Relation) Tuples(attrs []string) [][]string {
	var res [][]string
	r.EachTuple(attrs, func(t []string) error {
		res = append(res, append([]string(nil), t...))
		return nil
	})
	return res
}

// WriteTuples writes the tuples of r over attrs, one per line, with values
// separated by tabs. Values that were quoted in the input are quoted again.
func (r *Relation) WriteTuples(w io.Writer, attrs []string) error {
	bw := bufio.NewWriter(w)
	var sb strings.Builder
	err := r.EachTuple(attrs, func(t []string) error {
		sb.Reset()
		for _, v := range t {
			if r.env.sym.IsQuoted(v) {
				sb.WriteByte('"')
				sb.WriteString(v)
				sb.WriteByte('"')
			} else {
				sb.WriteString(v)
			}
			sb.WriteByte('\t')
		}
		sb.WriteByte('\n')
		_, err := bw.WriteString(sb.String())
		return err
	})
	if err != nil {
		return err
	}
	return bw.Flush()
}
