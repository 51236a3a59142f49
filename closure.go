// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package crocopat

import (
	"fmt"

	"go.uber.org/zap"
)

// ClosureStrategy selects the algorithm used for transitive closures.
type ClosureStrategy int

const (
	// Fixpoint composes the relation with itself until nothing changes. It
	// is usually the fastest strategy.
	Fixpoint ClosureStrategy = iota
	// Warshall iterates over the values of the universe, adding for each
	// value v the pairs (a, b) with (a, v) and (v, b) in the relation. It
	// needs fewer nodes at any given time.
	Warshall
)

func (s ClosureStrategy) String() string {
	switch s {
	case Fixpoint:
		return "fixpoint"
	case Warshall:
		return "warshall"
	}
	return fmt.Sprintf("ClosureStrategy(%d)", int(s))
}

// ParseClosureStrategy returns the strategy with the given name. The empty
// string stands for Fixpoint.
func ParseClosureStrategy(name string) (ClosureStrategy, error) {
	switch name {
	case "", "fixpoint":
		return Fixpoint, nil
	case "warshall":
		return Warshall, nil
	}
	return Fixpoint, fmt.Errorf("crocopat: unknown closure strategy %q", name)
}

// tmpAttr is the attribute used to hold intermediate values during a
// closure. The leading dot keeps it out of the way of user attributes.
const tmpAttr = ".INTERNAL_TMPATTR."

// Closure returns the transitive closure of the binary relation r over the
// two attributes in attrs, using the strategy of the environment
// configuration. The relation r is not modified.
func (env *Env) Closure(r *Relation, attrs []string) *Relation {
	return env.ClosureWith(r, attrs, env.closure)
}

// ClosureWith is like Closure but with an explicit strategy.
func (env *Env) ClosureWith(r *Relation, attrs []string, strategy ClosureStrategy) *Relation {
	order, err := env.sym.VariableOrder(attrs)
	if err != nil {
		env.fatal(err)
	}
	if len(order) != 2 {
		env.fatal(fmt.Errorf("transitive closure requires two attributes, got %d", len(order)))
	}
	r.ExpectArity(2)
	x, y := order[0], order[1]
	if !env.sym.HasAttribute(tmpAttr) {
		env.sym.AddAttribute(tmpAttr)
		defer env.sym.RemoveAttribute(tmpAttr)
	}
	env.log.Debug("transitive closure",
		zap.Stringer("strategy", strategy),
		zap.String("x", x),
		zap.String("y", y))
	res := r.Clone().SetArity(2)
	switch strategy {
	case Warshall:
		env.warshall(res, x, y)
	default:
		env.fixpoint(res, x, y)
	}
	return res
}

// fixpoint computes the closure by synchronous iteration: at each step we
// add to R the composition of R with itself, until R does not change. The
// test is a comparison of roots.
func (env *Env) fixpoint(res *Relation, x, y string) {
	prev := env.False()
	defer func() { prev.Release() }()
	for !prev.Equal(res) {
		prev.Release()
		prev = res.Clone()
		// R(Y, TMP)
		step := res.Clone().Rename(y, tmpAttr).Rename(x, y)
		// R(X, Y) & R(Y, TMP), then R(X, TMP) and back to R(X, Y)
		res.Intersect(step).Exists(y).Rename(tmpAttr, y)
		res.Unite(prev)
		step.Release()
	}
}

// warshall computes the closure by iterating over the values v that appear
// on both sides of the relation. We keep the inverse relation up to date so
// that the predecessors of v are as cheap to compute as its successors.
func (env *Env) warshall(res *Relation, x, y string) {
	// R(Y, X), the inverse of R
	inv := res.Clone().Rename(y, tmpAttr).Rename(x, y).Rename(tmpAttr, x)
	defer inv.Release()

	pivots := res.Clone().Exists(y)
	right := res.Clone().Exists(x).Rename(y, x)
	pivots.Intersect(right)
	right.Release()
	defer pivots.Release()

	px := env.pos(x)
	for !pivots.IsEmpty() {
		v := env.mkEqual(px, pivots.element(px))
		current := env.wrap(v, -1)

		// predecessors of v, in Y and in X
		startY := inv.Clone().Intersect(current).Exists(x)
		startX := startY.Clone().Rename(y, x)
		// successors of v, in Y and in X
		endY := res.Clone().Intersect(current).Exists(x)
		endX := endY.Clone().Rename(y, x)

		res.Unite(startX.Intersect(endY))
		inv.Unite(endX.Intersect(startY))

		for _, rel := range []*Relation{startY, startX, endY, endX} {
			rel.Release()
		}
		pivots.Minus(current)
		current.Release()
	}
}
