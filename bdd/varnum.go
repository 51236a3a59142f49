// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package bdd

// Constructors for the diagrams encoding values on a block of consecutive
// variables. A block of bitnr variables starting at v encodes a number with
// its most significant bit on v and its least significant bit on v+bitnr-1.

// Var returns the diagram of the single variable v, that is (v ? 1 : 0). There
// is no constant for variables: the node is created on demand and shares the
// fate of every other node.
func (e *Engine) Var(v int) *Node {
	if !checkvar(v) {
		e.fatalf("variable %d out of range in call to Var", v)
	}
	return e.run(opvar, func() (int, error) {
		return e.makenode(int32(v), 0, 1)
	})
}

// NVar returns the negation of variable v, that is (v ? 0 : 1).
func (e *Engine) NVar(v int) *Node {
	if !checkvar(v) {
		e.fatalf("variable %d out of range in call to NVar", v)
	}
	return e.run(opvar, func() (int, error) {
		return e.makenode(int32(v), 1, 0)
	})
}

func (e *Engine) checkblock(v, bitnr int, value uint64, op string) {
	switch {
	case bitnr < 1 || bitnr > 64:
		e.fatalf("bad number of bits %d in call to %s", bitnr, op)
	case !checkvar(v) || !checkvar(v+bitnr-1):
		e.fatalf("block [%d, %d] out of range in call to %s", v, v+bitnr-1, op)
	case bitnr < 64 && value >= 1<<uint(bitnr):
		e.fatalf("value %d does not fit on %d bits in call to %s", value, bitnr, op)
	}
}

// Value returns the diagram that holds exactly when the block of bitnr
// variables starting at v encodes value.
func (e *Engine) Value(v, bitnr int, value uint64) *Node {
	e.checkblock(v, bitnr, value, "Value")
	return e.run(opvalue, func() (int, error) {
		res := 1
		var err error
		for k := 0; k < bitnr; k++ {
			pos := int32(v + bitnr - k - 1)
			if value&(1<<uint(k)) != 0 {
				res, err = e.makenode(pos, 0, res)
			} else {
				res, err = e.makenode(pos, res, 0)
			}
			if err != nil {
				return -1, err
			}
		}
		return res, nil
	})
}

// LessEqual returns the diagram that holds when the block of bitnr variables
// starting at v encodes a number less than or equal to value.
func (e *Engine) LessEqual(v, bitnr int, value uint64) *Node {
	e.checkblock(v, bitnr, value, "LessEqual")
	return e.run(oplesseq, func() (int, error) {
		res := 1
		var err error
		for k := 0; k < bitnr; k++ {
			pos := int32(v + bitnr - k - 1)
			if value&(1<<uint(k)) != 0 {
				res, err = e.makenode(pos, 1, res)
			} else {
				res, err = e.makenode(pos, res, 0)
			}
			if err != nil {
				return -1, err
			}
		}
		return res, nil
	})
}

// Equiv returns the diagram that holds when variables v1 and v2 have the same
// value.
func (e *Engine) Equiv(v1, v2 int) *Node {
	if !checkvar(v1) || !checkvar(v2) || v1 == v2 {
		e.fatalf("bad variables (%d, %d) in call to Equiv", v1, v2)
	}
	top, bot := int32(v1), int32(v2)
	if top > bot {
		top, bot = bot, top
	}
	return e.run(opequiv, func() (int, error) {
		hi, err := e.makenode(bot, 0, 1)
		if err != nil {
			return -1, err
		}
		lo, err := e.makenode(bot, 1, 0)
		if err != nil {
			return -1, err
		}
		return e.makenode(top, lo, hi)
	})
}
