// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package bdd

import (
	"math"
)

// TupleCount returns the number of assignments of the variables in
// [first, last] that satisfy n. Variables in the range that do not appear on
// a path count twice. The diagram must not test variables smaller than first;
// variables greater than last are not allowed either, unless they only appear
// below paths that already decide the count.
func (e *Engine) TupleCount(n *Node, first, last int) float64 {
	a := e.checkptr(n, "TupleCount")
	if !checkvar(first) || !checkvar(last) || first > last+1 {
		e.fatalf("bad range [%d, %d] in call to TupleCount", first, last)
	}
	res, err := e.satcount(a, int32(first), int32(last))
	if err != nil {
		e.Fatal(err)
	}
	e.metrics.observe(e)
	return res
}

func (e *Engine) satcount(n int, v, maxv int32) (float64, error) {
	if v > maxv {
		if n == 0 {
			return 0, nil
		}
		return 1, nil
	}
	level := e.nodes[n].level
	if v < level {
		// we jump over the variables that are not tested
		next := maxv + 1
		if level < next {
			next = level
		}
		res, err := e.satcount(n, next, maxv)
		return math.Ldexp(res, int(next-v)), err
	}
	if v > level {
		return 0, preconditionf("node %d tests variable %d before %d in tuple count", n, level, v)
	}
	if res, ok := e.matchstat(n, maxv); ok {
		return res, nil
	}
	low, err := e.satcount(e.nodes[n].low, v+1, maxv)
	if err != nil {
		return 0, err
	}
	high, err := e.satcount(e.nodes[n].high, v+1, maxv)
	if err != nil {
		return 0, err
	}
	return e.setstat(n, maxv, low+high), nil
}

// Tuple returns the number encoded on the variables in [first, last] by one
// of the assignments of n, with first as the most significant bit. We always
// prefer the low branch, so the witness is deterministic. The node must not
// be the empty set and the range is limited to 64 variables.
func (e *Engine) Tuple(n *Node, first, last int) uint64 {
	a := e.checkptr(n, "Tuple")
	switch {
	case a == 0:
		e.fatalf("witness of the empty set in call to Tuple")
	case !checkvar(first) || !checkvar(last) || first > last:
		e.fatalf("bad range [%d, %d] in call to Tuple", first, last)
	case last-first >= 64:
		e.fatalf("range [%d, %d] too large in call to Tuple", first, last)
	}
	var res uint64
	v, maxv := int32(first), int32(last)
	for v <= maxv {
		level := e.nodes[a].level
		switch {
		case v < level:
			// free variable, we choose 0
			v++
		case v > level:
			// node in front of the range
			if e.nodes[a].low != 0 {
				a = e.nodes[a].low
			} else {
				a = e.nodes[a].high
			}
		default:
			if e.nodes[a].low != 0 {
				a = e.nodes[a].low
			} else {
				a = e.nodes[a].high
				res += 1 << uint(maxv-v)
			}
			v++
		}
	}
	return res
}

// TestVars reports whether a node reachable from n tests a variable in
// [first, last].
func (e *Engine) TestVars(n *Node, first, last int) bool {
	a := e.checkptr(n, "TestVars")
	if first > last {
		return false
	}
	res := e.testvars(a, int32(first), int32(last))
	e.unmarkrec(a)
	return res
}

func (e *Engine) testvars(n int, first, last int32) bool {
	if n < 2 || e.nodes[n].mark {
		return false
	}
	e.nodes[n].mark = true
	level := e.nodes[n].level
	if level > last {
		return false
	}
	if level >= first {
		return true
	}
	return e.testvars(e.nodes[n].low, first, last) || e.testvars(e.nodes[n].high, first, last)
}
