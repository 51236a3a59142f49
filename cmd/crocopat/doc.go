// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

// Command crocopat computes the transitive closure of a binary relation read
// as a list of pairs, using a BDD representation of relations.
//
// Usage:
//
//	crocopat [-config engine.yaml] [-closure fixpoint|warshall] [-dot | -count] [-stats] [file ...]
package main
