// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package crocopat

import (
	"fmt"

	"github.com/dalzilio/crocopat/bdd"
	"go.uber.org/zap"
)

// Env binds a BDD engine to a symbol table. All the relations of an
// environment share the same engine and the same attributes. An Env is not
// safe for concurrent use.
type Env struct {
	engine   *bdd.Engine
	sym      *SymTab
	log      *zap.Logger
	warnings bool
	closure  ClosureStrategy
}

// NewEnv returns an environment configured with cfg. Extra engine options
// are applied after the ones derived from cfg, so they take precedence.
func NewEnv(cfg Config, opts ...bdd.Option) (*Env, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	log, err := cfg.Logger()
	if err != nil {
		return nil, err
	}
	all := append([]bdd.Option{bdd.Logger(log)}, cfg.Options()...)
	engine, err := bdd.New(append(all, opts...)...)
	if err != nil {
		return nil, err
	}
	closure, _ := ParseClosureStrategy(cfg.Closure)
	return &Env{
		engine:   engine,
		sym:      NewSymTab(),
		log:      engine.Logger(),
		warnings: cfg.Warnings,
		closure:  closure,
	}, nil
}

// Engine returns the BDD engine of the environment.
func (env *Env) Engine() *bdd.Engine {
	return env.engine
}

// SymTab returns the symbol table of the environment.
func (env *Env) SymTab() *SymTab {
	return env.sym
}

// Close releases the engine. It returns an error when some relations are
// still alive; releasing them after Close does nothing.
func (env *Env) Close() error {
	return env.engine.Close()
}

func (env *Env) warn(msg string, fields ...zap.Field) {
	if env.warnings {
		env.log.Warn(msg, fields...)
	}
}

// fatal reports a misuse of the relation layer through the engine, which
// never returns.
func (env *Env) fatal(err error) {
	env.engine.Fatal(fmt.Errorf("%w: %w", bdd.ErrPrecondition, err))
}

// pos returns the position of attr, and aborts if it is not an attribute.
func (env *Env) pos(attr string) int {
	p, err := env.sym.AttributePos(attr)
	if err != nil {
		env.fatal(err)
	}
	return p
}

// num checks that n is the number of a value of the universe.
func (env *Env) num(n int) uint64 {
	if n < 0 || n >= env.sym.UniverseSize() {
		env.fatal(fmt.Errorf("%w: no value with number %d", ErrUnknownValue, n))
	}
	return uint64(n)
}

func (env *Env) wrap(n *bdd.Node, arity int) *Relation {
	return &Relation{env: env, root: n, arity: arity}
}

// ************************************************************

// True returns the relation holding every tuple.
func (env *Env) True() *Relation {
	return env.wrap(env.engine.True(), 0)
}

// False returns the empty relation.
func (env *Env) False() *Relation {
	return env.wrap(env.engine.False(), 0)
}

// Bool returns True or False.
func (env *Env) Bool(b bool) *Relation {
	return env.wrap(env.engine.From(b), 0)
}

// MkEncoding returns the tuples where attr is encoded exactly by n, without
// folding the patterns greater than the last value. It is mostly useful to
// build restrictions for counting.
func (env *Env) MkEncoding(attr string, n int) *Relation {
	p := env.pos(attr)
	if n < 0 || n >= 1<<uint(env.sym.BitNr()) {
		env.fatal(fmt.Errorf("%d does not fit on %d bits", n, env.sym.BitNr()))
	}
	return env.wrap(env.engine.Value(p, env.sym.BitNr(), uint64(n)), -1)
}

// MkRange returns the tuples where attr holds a valid value, that is a bit
// pattern smaller than the size of the universe.
func (env *Env) MkRange(attr string) *Relation {
	return env.wrap(env.mkRange(env.pos(attr)), -1)
}

func (env *Env) mkRange(p int) *bdd.Node {
	if env.sym.UniverseSize() == 0 {
		return env.engine.False()
	}
	return env.engine.LessEqual(p, env.sym.BitNr(), uint64(env.sym.UniverseSize()-1))
}

// MkEqualNum returns the tuples where attr holds the value with number n. The
// last value of the universe also stands for all the bit patterns greater
// than itself, which keeps comparisons between relations correct.
func (env *Env) MkEqualNum(attr string, n int) *Relation {
	return env.wrap(env.mkEqual(env.pos(attr), env.num(n)), -1)
}

func (env *Env) mkEqual(p int, n uint64) *bdd.Node {
	res := env.engine.Value(p, env.sym.BitNr(), n)
	if n+1 == uint64(env.sym.UniverseSize()) {
		valid := env.mkRange(p)
		out := env.engine.Complement(valid)
		tmp := env.engine.Union(res, out)
		valid.Release()
		out.Release()
		res.Release()
		res = tmp
	}
	return res
}

// MkAttributeValue returns the tuples where attr holds value. A value that is
// not in the universe gives the empty relation, with a warning.
func (env *Env) MkAttributeValue(attr, value string) *Relation {
	p := env.pos(attr)
	n, err := env.sym.ValueNum(value)
	if err != nil {
		env.warn("value not in universe, using the empty relation",
			zap.String("attribute", attr),
			zap.String("value", value))
		return env.wrap(env.engine.False(), -1)
	}
	return env.wrap(env.mkEqual(p, uint64(n)), -1)
}

// MkLessEqualNum returns the tuples where attr holds a value with number at
// most n.
func (env *Env) MkLessEqualNum(attr string, n int) *Relation {
	p := env.pos(attr)
	if uint64(n)+1 == uint64(env.sym.UniverseSize()) {
		// every pattern folds into a value smaller or equal to the last one
		return env.wrap(env.engine.True(), -1)
	}
	return env.wrap(env.engine.LessEqual(p, env.sym.BitNr(), env.num(n)), -1)
}

// MkEqual returns the tuples where attributes a1 and a2 hold the same value.
// We compare the encodings bit by bit and add the pairs of patterns that
// both fold into the last value.
func (env *Env) MkEqual(a1, a2 string) *Relation {
	p1, p2 := env.pos(a1), env.pos(a2)
	if p1 == p2 {
		return env.wrap(env.engine.True(), -1)
	}
	e := env.engine
	res := e.True()
	for i := env.sym.BitNr() - 1; i >= 0; i-- {
		eq := e.Equiv(p1+i, p2+i)
		tmp := e.Intersect(res, eq)
		eq.Release()
		res.Release()
		res = tmp
	}
	if size := env.sym.UniverseSize(); size > 0 {
		last := uint64(size - 1)
		m1, m2 := env.mkEqual(p1, last), env.mkEqual(p2, last)
		both := e.Intersect(m1, m2)
		tmp := e.Union(res, both)
		for _, n := range []*bdd.Node{m1, m2, both, res} {
			n.Release()
		}
		res = tmp
	}
	return env.wrap(res, -1)
}

// MkLess returns the tuples where the value of a1 is smaller than the value
// of a2, in the order of the universe. We enumerate the values, from the
// last down to the second.
func (env *Env) MkLess(a1, a2 string) *Relation {
	p1, p2 := env.pos(a1), env.pos(a2)
	e := env.engine
	res := e.False()
	greater := e.False()
	for v := env.sym.UniverseSize() - 1; v > 0; v-- {
		eq2 := env.mkEqual(p2, uint64(v))
		tmp := e.Union(greater, eq2)
		greater.Release()
		eq2.Release()
		greater = tmp

		eq1 := env.mkEqual(p1, uint64(v-1))
		step := e.Intersect(greater, eq1)
		tmp = e.Union(res, step)
		for _, n := range []*bdd.Node{eq1, step, res} {
			n.Release()
		}
		res = tmp
	}
	greater.Release()
	return env.wrap(res, -1)
}
