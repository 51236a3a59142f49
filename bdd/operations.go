// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package bdd

// The recursive operations below never collect garbage. When makenode runs
// out of slots, the error goes back to the public operation, which collects
// and starts again. Intermediate results therefore need no protection.

// Complement returns the negation of n, that is the complement of the set of
// assignments it represents.
func (e *Engine) Complement(n *Node) *Node {
	a := e.checkptr(n, "Complement")
	return e.run(opnot, func() (int, error) {
		return e.not(a)
	})
}

func (e *Engine) not(n int) (int, error) {
	if n < 2 {
		return 1 - n, nil
	}
	if res, ok := e.matchop(opnot, n, n); ok {
		return res, nil
	}
	low, err := e.not(e.nodes[n].low)
	if err != nil {
		return -1, err
	}
	high, err := e.not(e.nodes[n].high)
	if err != nil {
		return -1, err
	}
	res, err := e.makenode(e.nodes[n].level, low, high)
	if err != nil {
		return -1, err
	}
	return e.setop(opnot, n, n, res), nil
}

// Union returns the disjunction of two nodes.
func (e *Engine) Union(left, right *Node) *Node {
	a, b := e.checkptr(left, "Union"), e.checkptr(right, "Union")
	return e.run(opunion, func() (int, error) {
		return e.apply(opunion, a, b)
	})
}

// Intersect returns the conjunction of two nodes.
func (e *Engine) Intersect(left, right *Node) *Node {
	a, b := e.checkptr(left, "Intersect"), e.checkptr(right, "Intersect")
	return e.run(opintersect, func() (int, error) {
		return e.apply(opintersect, a, b)
	})
}

// Or returns the union of a sequence of nodes. It returns the constant false
// for an empty sequence.
func (e *Engine) Or(n ...*Node) *Node {
	res := e.False()
	for _, x := range n {
		tmp := e.Union(res, x)
		res.Release()
		res = tmp
	}
	return res
}

// And returns the intersection of a sequence of nodes. It returns the
// constant true for an empty sequence.
func (e *Engine) And(n ...*Node) *Node {
	res := e.True()
	for _, x := range n {
		tmp := e.Intersect(res, x)
		res.Release()
		res = tmp
	}
	return res
}

// apply computes the union or intersection of two nodes. Both operations are
// commutative, so the operands are ordered before looking into the cache.
func (e *Engine) apply(op operator, left, right int) (int, error) {
	if left == right {
		return left, nil
	}
	switch op {
	case opunion:
		if left == 1 || right == 1 {
			return 1, nil
		}
		if left == 0 {
			return right, nil
		}
		if right == 0 {
			return left, nil
		}
	case opintersect:
		if left == 0 || right == 0 {
			return 0, nil
		}
		if left == 1 {
			return right, nil
		}
		if right == 1 {
			return left, nil
		}
	}
	if left > right {
		left, right = right, left
	}
	if res, ok := e.matchop(op, left, right); ok {
		return res, nil
	}
	ll, rl := e.nodes[left].level, e.nodes[right].level
	var level int32
	var low, high int
	var err error
	switch {
	case ll == rl:
		level = ll
		if low, err = e.apply(op, e.nodes[left].low, e.nodes[right].low); err != nil {
			return -1, err
		}
		if high, err = e.apply(op, e.nodes[left].high, e.nodes[right].high); err != nil {
			return -1, err
		}
	case ll < rl:
		level = ll
		if low, err = e.apply(op, e.nodes[left].low, right); err != nil {
			return -1, err
		}
		if high, err = e.apply(op, e.nodes[left].high, right); err != nil {
			return -1, err
		}
	default:
		level = rl
		if low, err = e.apply(op, left, e.nodes[right].low); err != nil {
			return -1, err
		}
		if high, err = e.apply(op, left, e.nodes[right].high); err != nil {
			return -1, err
		}
	}
	res, err := e.makenode(level, low, high)
	if err != nil {
		return -1, err
	}
	return e.setop(op, left, right, res), nil
}

// Exists returns the existential quantification of variable v in n, that is
// the union of the two cofactors of n with respect to v.
func (e *Engine) Exists(n *Node, v int) *Node {
	a := e.checkptr(n, "Exists")
	if !checkvar(v) {
		e.fatalf("variable %d out of range in call to Exists", v)
	}
	return e.run(opexists, func() (int, error) {
		return e.exists(a, int32(v))
	})
}

func (e *Engine) exists(n int, v int32) (int, error) {
	level := e.nodes[n].level
	if level > v {
		return n, nil
	}
	if level == v {
		return e.apply(opunion, e.nodes[n].low, e.nodes[n].high)
	}
	if res, ok := e.matchop(opexists, n, int(v)); ok {
		return res, nil
	}
	low, err := e.exists(e.nodes[n].low, v)
	if err != nil {
		return -1, err
	}
	high, err := e.exists(e.nodes[n].high, v)
	if err != nil {
		return -1, err
	}
	res, err := e.makenode(level, low, high)
	if err != nil {
		return -1, err
	}
	return e.setop(opexists, n, int(v), res), nil
}

// Contains reports whether every assignment of right is also an assignment of
// left. It never creates nodes.
func (e *Engine) Contains(left, right *Node) bool {
	a, b := e.checkptr(left, "Contains"), e.checkptr(right, "Contains")
	res := e.contains(a, b)
	e.metrics.observe(e)
	return res
}

func (e *Engine) contains(left, right int) bool {
	if left == right || left == 1 || right == 0 {
		return true
	}
	if left == 0 || right == 1 {
		return false
	}
	if res, ok := e.matchop(opcontains, left, right); ok {
		return res == 1
	}
	ll, rl := e.nodes[left].level, e.nodes[right].level
	var res bool
	switch {
	case ll == rl:
		res = e.contains(e.nodes[left].low, e.nodes[right].low) &&
			e.contains(e.nodes[left].high, e.nodes[right].high)
	case ll < rl:
		res = e.contains(e.nodes[left].low, right) &&
			e.contains(e.nodes[left].high, right)
	default:
		res = e.contains(left, e.nodes[right].low) &&
			e.contains(left, e.nodes[right].high)
	}
	if res {
		e.setop(opcontains, left, right, 1)
	} else {
		e.setop(opcontains, left, right, 0)
	}
	return res
}

// ************************************************************

// True returns the constant true BDD
func (e *Engine) True() *Node {
	return e.retnode(1)
}

// False returns the constant false BDD
func (e *Engine) False() *Node {
	return e.retnode(0)
}

// From returns a (constant) Node from a boolean value.
func (e *Engine) From(v bool) *Node {
	if v {
		return e.True()
	}
	return e.False()
}
