// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package crocopat

import (
	"bytes"
	"math"
	"math/rand"
	"testing"

	"github.com/dalzilio/crocopat/bdd"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

// newTestEnv returns an environment over the given universe and attributes,
// where misuses panic instead of exiting.
func newTestEnv(t *testing.T, cfg Config, values []string, attrs ...string) *Env {
	t.Helper()
	env, err := NewEnv(cfg, bdd.FatalHandler(func(error) {}))
	require.NoError(t, err)
	require.NoError(t, env.SymTab().InitValueUniverse(values))
	for _, a := range attrs {
		require.NoError(t, env.SymTab().AddAttribute(a))
	}
	return env
}

func smallConfig() Config {
	cfg := DefaultConfig()
	cfg.Nodes = 10000
	return cfg
}

// pairs returns the relation holding the given (x, y) tuples.
func pairs(env *Env, x, y string, tuples ...[2]string) *Relation {
	res := env.False().SetArity(2)
	for _, tu := range tuples {
		vy := env.MkAttributeValue(y, tu[1])
		xy := env.MkAttributeValue(x, tu[0]).Intersect(vy)
		res.Unite(xy)
		xy.Release()
		vy.Release()
	}
	return res
}

//********************************************************************************************

func TestFolding(t *testing.T) {
	env := newTestEnv(t, smallConfig(), []string{"a", "b", "c"}, "X", "Y")
	a, b, c := env.MkEqualNum("X", 0), env.MkEqualNum("X", 1), env.MkEqualNum("X", 2)
	notab := a.Clone().Unite(b).Complement()
	assert.True(t, notab.Equal(c))
	all := a.Clone().Unite(b).Unite(c)
	assert.True(t, all.Equal(env.True()))

	// the unused pattern 3 belongs to the last value only
	three := env.MkEncoding("X", 3)
	assert.True(t, c.Contains(three))
	assert.False(t, b.Contains(three))
	assert.Equal(t, 0.0, three.TupleCount([]string{"X"}))
	assert.Equal(t, 1.0, c.TupleCount([]string{"X"}))

	assert.True(t, env.MkAttributeValue("X", "c").Equal(c))
	assert.True(t, env.MkLessEqualNum("X", 1).Equal(a.Clone().Unite(b)))
	assert.True(t, env.MkLessEqualNum("X", 2).Equal(env.True()))
	assert.True(t, env.MkRange("X").Contains(c))
	assert.False(t, env.MkRange("X").Contains(three))
}

func TestTupleCount(t *testing.T) {
	for size := 1; size <= 9; size++ {
		values := make([]string, size)
		for k := range values {
			values[k] = string(rune('a' + k))
		}
		env := newTestEnv(t, smallConfig(), values, "X", "Y", "Z")
		bitnr := env.SymTab().BitNr()
		all := env.True()
		for n, free := range [][]string{{"X"}, {"X", "Y"}, {"X", "Y", "Z"}} {
			assert.Equal(t, math.Pow(float64(size), float64(n+1)), all.TupleCount(free), "size %d", size)
		}
		// without the range restriction, every bit pattern counts
		assert.Equal(t, math.Pow(2, float64(2*bitnr)), env.Engine().TupleCount(all.Node(), 0, 2*bitnr-1))
		assert.Equal(t, 1.0, env.True().TupleCount(nil))
		assert.Equal(t, 0.0, env.False().TupleCount(nil))
		assert.Equal(t, 0.0, env.False().TupleCount([]string{"X", "Z"}))
	}
}

func TestTupleCountFixesMiddleAttributes(t *testing.T) {
	env := newTestEnv(t, smallConfig(), []string{"a", "b", "c"}, "X", "Y", "Z")
	r := pairs(env, "X", "Z", [2]string{"a", "b"}, [2]string{"b", "c"}, [2]string{"c", "c"})
	assert.Equal(t, 3.0, r.TupleCount([]string{"X", "Z"}))
	assert.Equal(t, 3.0, r.TupleCount([]string{"Z", "X"}))
	assert.Equal(t, 9.0, r.TupleCount([]string{"X", "Y", "Z"}))
	// r depends on X, which comes before Z
	assert.Panics(t, func() { r.TupleCount([]string{"Z"}) })
}

func TestMkEqualAndLess(t *testing.T) {
	env := newTestEnv(t, smallConfig(), []string{"a", "b", "c"}, "X", "Y")
	free := []string{"X", "Y"}
	eq := env.MkEqual("X", "Y")
	assert.Equal(t, 3.0, eq.TupleCount(free))
	byvalue := pairs(env, "X", "Y", [2]string{"a", "a"}, [2]string{"b", "b"}, [2]string{"c", "c"})
	assert.True(t, eq.Equal(byvalue))
	assert.True(t, env.MkEqual("X", "X").Equal(env.True()))

	lt := env.MkLess("X", "Y")
	assert.Equal(t, 3.0, lt.TupleCount(free))
	assert.True(t, lt.Equal(pairs(env, "X", "Y", [2]string{"a", "b"}, [2]string{"a", "c"}, [2]string{"b", "c"})))
	gt := env.MkLess("Y", "X")
	assert.True(t, lt.Clone().Intersect(gt).IsEmpty())
	assert.True(t, lt.Clone().Unite(gt).Unite(eq).Equal(env.True()))
}

func TestAlgebra(t *testing.T) {
	env := newTestEnv(t, smallConfig(), []string{"a", "b", "c"}, "X", "Y")
	r := pairs(env, "X", "Y", [2]string{"a", "b"}, [2]string{"b", "c"})
	s := pairs(env, "X", "Y", [2]string{"b", "c"}, [2]string{"c", "a"})
	free := []string{"X", "Y"}

	assert.Equal(t, 3.0, r.Clone().Unite(s).TupleCount(free))
	assert.Equal(t, 1.0, r.Clone().Intersect(s).TupleCount(free))
	assert.Equal(t, 1.0, r.Clone().Minus(s).TupleCount(free))
	assert.Equal(t, 7.0, r.Clone().Complement().TupleCount(free))
	assert.True(t, r.Clone().Complement().Complement().Equal(r))
	assert.True(t, r.Clone().Unite(s).Contains(r))
	assert.False(t, r.Contains(s))
	assert.True(t, r.Clone().Minus(r).IsEmpty())

	dom := r.Clone().Exists("Y")
	assert.True(t, dom.Equal(env.MkAttributeValue("X", "a").Unite(env.MkAttributeValue("X", "b"))))
	assert.True(t, r.Clone().Exists("X", "Y").Equal(env.True()))
	for _, v := range []string{"a", "b", "c"} {
		assert.True(t, env.MkAttributeValue("X", v).Exists("X").Equal(env.True()), v)
	}
	assert.True(t, dom.Clone().Exists("Y").Equal(dom))
	assert.True(t, r.TestVars("X", "Y"))
	assert.False(t, dom.TestVars("Y", "Y"))
	assert.Panics(t, func() { r.TestVars("Y", "X") })
}

func TestRename(t *testing.T) {
	env := newTestEnv(t, smallConfig(), []string{"a", "b", "c"}, "X", "Y", "Z")
	tests := []struct {
		name string
		r    func() *Relation
		want func() *Relation
	}{
		{
			"direct",
			func() *Relation { return env.MkAttributeValue("X", "c") },
			func() *Relation { return env.MkAttributeValue("Z", "c") },
		},
		{
			"safe",
			func() *Relation { return pairs(env, "X", "Y", [2]string{"a", "b"}, [2]string{"c", "a"}) },
			func() *Relation { return pairs(env, "Z", "Y", [2]string{"a", "b"}, [2]string{"c", "a"}) },
		},
	}
	for _, tt := range tests {
		r := tt.r()
		want := tt.want()
		moved := r.Clone().Rename("X", "Z")
		assert.True(t, moved.Equal(want), tt.name)
		assert.True(t, moved.Rename("Z", "X").Equal(r), tt.name)
		assert.True(t, r.Clone().Rename("X", "X").Equal(r), tt.name)
	}
	// swapping the two attributes of a relation
	r := pairs(env, "X", "Y", [2]string{"a", "b"}, [2]string{"b", "c"})
	inv := r.Clone().Rename("Y", "Z").Rename("X", "Y").Rename("Z", "X")
	assert.True(t, inv.Equal(pairs(env, "X", "Y", [2]string{"b", "a"}, [2]string{"c", "b"})))
}

func TestTuples(t *testing.T) {
	env := newTestEnv(t, smallConfig(), []string{"a", "b", "c"}, "X", "Y")
	r := pairs(env, "X", "Y", [2]string{"b", "c"}, [2]string{"a", "b"}, [2]string{"a", "c"})
	assert.Equal(t, [][]string{{"a", "b"}, {"a", "c"}, {"b", "c"}}, r.Tuples([]string{"X", "Y"}))
	assert.Equal(t, [][]string{{"b", "a"}, {"c", "a"}, {"c", "b"}}, r.Tuples([]string{"Y", "X"}))
	assert.Equal(t, [][]string{{"a"}, {"b"}}, r.Tuples([]string{"X"}))
	assert.Empty(t, env.False().Tuples([]string{"X"}))
	assert.Equal(t, "a", r.Element("X"))

	one := r.TupleOf([]string{"X", "Y"})
	assert.Equal(t, 1.0, one.TupleCount([]string{"X", "Y"}))
	assert.True(t, r.Contains(one))
	assert.True(t, one.Equal(pairs(env, "X", "Y", [2]string{"a", "b"})))
	assert.Panics(t, func() { env.False().Element("X") })
	assert.Panics(t, func() { env.False().TupleOf([]string{"X"}) })

	// the enumeration stops at the first error
	calls := 0
	err := r.EachTuple([]string{"X", "Y"}, func([]string) error {
		calls++
		return assert.AnError
	})
	assert.ErrorIs(t, err, assert.AnError)
	assert.Equal(t, 1, calls)
	assert.Panics(t, func() { r.Tuples([]string{"W"}) })
}

func TestWarnings(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	cfg := smallConfig()
	env, err := NewEnv(cfg, bdd.Logger(zap.New(core)), bdd.FatalHandler(func(error) {}))
	require.NoError(t, err)
	require.NoError(t, env.SymTab().InitValueUniverse([]string{"a", "b"}))
	for _, a := range []string{"X", "Y", "Z"} {
		require.NoError(t, env.SymTab().AddAttribute(a))
	}

	assert.True(t, env.MkAttributeValue("X", "zzz").IsEmpty())
	assert.Equal(t, 1, logs.FilterMessage("value not in universe, using the empty relation").Len())

	r := pairs(env, "X", "Z", [2]string{"a", "b"})
	r.Rename("X", "Z")
	assert.Equal(t, 1, logs.FilterMessage("rename onto a constrained attribute").Len())

	env.Closure(pairs(env, "X", "Y", [2]string{"a", "b"}), []string{"X", "Y"})
	assert.Zero(t, logs.FilterMessage("arity mismatch").Len())
	r.SetArity(3)
	env.Closure(r, []string{"X", "Y"})
	assert.Equal(t, 1, logs.FilterMessage("arity mismatch").Len())

	cfg.Warnings = false
	quiet, err := NewEnv(cfg, bdd.Logger(zap.New(core)))
	require.NoError(t, err)
	require.NoError(t, quiet.SymTab().InitValueUniverse([]string{"a"}))
	require.NoError(t, quiet.SymTab().AddAttribute("X"))
	quiet.MkAttributeValue("X", "zzz")
	assert.Equal(t, 1, logs.FilterMessage("value not in universe, using the empty relation").Len())
}

func TestMisuses(t *testing.T) {
	env := newTestEnv(t, smallConfig(), []string{"a", "b", "c"}, "X", "Y", "Z")
	r := env.MkAttributeValue("X", "a")
	tests := map[string]func(){
		"unknown attribute":   func() { env.MkAttributeValue("W", "a") },
		"value number":        func() { env.MkEqualNum("X", 3) },
		"negative number":     func() { env.MkEqualNum("X", -1) },
		"encoding too large":  func() { env.MkEncoding("X", 4) },
		"closure arity":       func() { env.Closure(r, []string{"X", "Y", "Z"}) },
		"rename unknown":      func() { r.Clone().Rename("X", "W") },
		"exists unknown":      func() { r.Clone().Exists("W") },
		"closure unknown":     func() { env.Closure(r, []string{"X", "W"}) },
		"count unknown":       func() { r.TupleCount([]string{"W"}) },
		"element unknown":     func() { r.Element("W") },
		"less equal negative": func() { env.MkLessEqualNum("X", -1) },
	}
	for name, f := range tests {
		assert.Panics(t, f, name)
	}
}

func TestAlgebraLawsOnRandomRelations(t *testing.T) {
	rnd := rand.New(rand.NewSource(7))
	values := []string{"a", "b", "c", "d", "e"}
	env := newTestEnv(t, smallConfig(), values, "X", "Y")
	free := []string{"X", "Y"}
	random := func() *Relation {
		var edges [][2]string
		for k := rnd.Intn(8); k > 0; k-- {
			edges = append(edges, [2]string{values[rnd.Intn(len(values))], values[rnd.Intn(len(values))]})
		}
		return pairs(env, "X", "Y", edges...)
	}
	for run := 0; run < 50; run++ {
		var live []*Relation
		keep := func(r *Relation) *Relation {
			live = append(live, r)
			return r
		}
		a, b, c := keep(random()), keep(random()), keep(random())
		not := func(r *Relation) *Relation { return keep(r.Clone().Complement()) }
		or := func(l, r *Relation) *Relation { return keep(l.Clone().Unite(r)) }
		and := func(l, r *Relation) *Relation { return keep(l.Clone().Intersect(r)) }

		assert.True(t, or(a, not(a)).Equal(env.True()), "run %d", run)
		assert.True(t, and(a, not(a)).IsEmpty(), "run %d", run)
		assert.True(t, not(not(a)).Equal(a), "run %d", run)
		assert.True(t, not(or(a, b)).Equal(and(not(a), not(b))), "run %d", run)
		assert.True(t, not(and(a, b)).Equal(or(not(a), not(b))), "run %d", run)
		assert.True(t, and(a, or(b, c)).Equal(or(and(a, b), and(a, c))), "run %d", run)
		assert.True(t, or(a, and(b, c)).Equal(and(or(a, b), or(a, c))), "run %d", run)
		assert.True(t, or(a, b).Equal(or(b, a)), "run %d", run)
		assert.True(t, and(a, and(b, c)).Equal(and(and(a, b), c)), "run %d", run)
		assert.True(t, or(a, and(a, b)).Equal(a), "run %d", run)
		assert.True(t, or(a, b).Contains(a), "run %d", run)
		assert.Equal(t, a.TupleCount(free)+b.TupleCount(free),
			or(a, b).TupleCount(free)+and(a, b).TupleCount(free), "run %d", run)
		assert.Equal(t, 25.0, a.TupleCount(free)+not(a).TupleCount(free), "run %d", run)
		for _, r := range live {
			r.Release()
		}
	}
	assert.Equal(t, 0, env.Engine().ExtRefCount())
}

func TestCollectPreservesRelations(t *testing.T) {
	env := newTestEnv(t, smallConfig(), []string{"a", "b", "c", "d"}, "X", "Y")
	free := []string{"X", "Y"}
	r := pairs(env, "X", "Y", [2]string{"a", "b"}, [2]string{"b", "c"}, [2]string{"c", "d"})
	s := env.Closure(r, free)
	count := s.TupleCount(free)
	other := s.Clone()
	for k := 0; k < 4; k++ {
		g := env.MkEqualNum("X", k).Complement().Intersect(env.MkLess("X", "Y"))
		g.Release()
	}
	env.Engine().Collect()
	assert.Equal(t, 3.0, r.TupleCount(free))
	assert.Equal(t, count, s.TupleCount(free))
	assert.Equal(t, 6.0, count)
	assert.True(t, s.Equal(other))
	again := env.Closure(r, free)
	assert.True(t, again.Equal(s))
	for _, rel := range []*Relation{r, s, other, again} {
		rel.Release()
	}
}

// With a node table this small, building relations needs several garbage
// collections, but never fails as long as the live nodes fit.
func TestRetryAtRelationLevel(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	values := make([]string, 16)
	for k := range values {
		values[k] = string(rune('a' + k))
	}
	cfg := DefaultConfig()
	cfg.Nodes = 64
	env, err := NewEnv(cfg, bdd.Logger(zap.New(core)), bdd.FatalHandler(func(error) {}))
	require.NoError(t, err)
	require.NoError(t, env.SymTab().InitValueUniverse(values))
	require.NoError(t, env.SymTab().AddAttribute("X"))
	require.NoError(t, env.SymTab().AddAttribute("Y"))
	for k := 0; k < 16; k++ {
		y := env.MkEqualNum("Y", 15-k)
		r := env.MkEqualNum("X", k).Intersect(y)
		assert.Equal(t, 1.0, r.TupleCount([]string{"X", "Y"}))
		assert.Equal(t, values[k], r.Element("X"))
		y.Release()
		r.Release()
	}
	assert.NotZero(t, logs.FilterMessage("node table full, collecting garbage").Len())
	assert.Equal(t, 0, env.Engine().ExtRefCount())
	assert.NoError(t, env.Close())
}

func TestOutOfNodesIsFatal(t *testing.T) {
	values := make([]string, 16)
	for k := range values {
		values[k] = string(rune('a' + k))
	}
	cfg := DefaultConfig()
	cfg.Nodes = 6
	env := newTestEnv(t, cfg, values, "X", "Y")
	assert.Panics(t, func() { env.MkEqual("X", "Y") })
}

func TestWriteTuples(t *testing.T) {
	env := newTestEnv(t, smallConfig(), []string{"a", "b c", "d"}, "X", "Y")
	env.SymTab().SetQuoted("b c")
	r := pairs(env, "X", "Y", [2]string{"a", "b c"}, [2]string{"d", "a"})

	var buf bytes.Buffer
	require.NoError(t, r.WriteTuples(&buf, []string{"X", "Y"}))
	assert.Equal(t, "a\t\"b c\"\t\nd\ta\t\n", buf.String())
	buf.Reset()
	require.NoError(t, r.WriteTuples(&buf, []string{"Y"}))
	// values come in the order of the first tuples of the diagram
	assert.Equal(t, "\"b c\"\t\na\t\n", buf.String())
	buf.Reset()
	require.NoError(t, env.False().WriteTuples(&buf, []string{"X"}))
	assert.Empty(t, buf.String())
}
