// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

/*
Package bdd defines a shared engine for reduced ordered Binary Decision
Diagrams (BDD), a data structure used to efficiently represent Boolean
functions or, equivalently, sets of Boolean vectors.

Basics

Variables are identified by non-negative integers and the order of variables
is the order of their identifiers. There is no need to declare variables in
advance: a node for variable v is created the first time it is needed.

All the diagrams built by an Engine share their nodes. Nodes are hash-consed,
so two handles denote the same function exactly when they point to the same
node, which makes equality a constant time test. The indices 0 and 1 are
reserved for the constant functions false and true.

Memory

The node table has a fixed capacity, set with the Nodesize option. When it is
full, the engine reclaims the nodes that cannot be reached from an external
reference and restarts the current operation. If the table is still full, the
engine reports an unrecoverable error through its fatal handler.

Every handle (of type *Node) on an inner node is an external reference. Code
using the engine should Release the handles it no longer needs; handles that
are simply dropped are eventually given back by the Go runtime, through a
finalizer, at the next garbage collection of the engine.

Use of build tags

To unlock logging of the whole node table at each garbage collection, you can
compile your executable with the build tag `debug`.
*/
package bdd
