// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

/*
Package crocopat implements n-ary relations over a finite universe of string
values, represented by shared Binary Decision Diagrams.

An environment (Env) binds a BDD engine, from package bdd, to a symbol table
(SymTab). The symbol table gives each attribute a block of BitNr consecutive
BDD variables, where BitNr is the number of bits needed to encode the numbers
of all the values of the universe. A relation is then a Boolean function over
these variables, true for the encodings of its tuples.

Since the size of the universe is rarely a power of two, some bit patterns do
not encode any value. We fold these patterns into the last value of the
universe, so that two relations with the same tuples always have the same
root and equality is a constant time test.

	env, _ := crocopat.NewEnv(crocopat.DefaultConfig())
	env.SymTab().InitValueUniverse([]string{"a", "b", "c"})
	env.SymTab().AddAttribute("x")
	env.SymTab().AddAttribute("y")
	r := env.MkAttributeValue("x", "a").Intersect(env.MkAttributeValue("y", "b"))
	c := env.Closure(r, []string{"x", "y"})

Relations own a reference on their root node. Operations update relations in
place; use Clone to keep a copy and Release when a relation is no longer
needed, so that its nodes can be reclaimed by the next garbage collection.

Misuses, like an unknown attribute or the element of an empty relation, are
fatal: they are reported through the fatal handler of the engine, which never
returns.
*/
package crocopat
