// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package main

var usage = `%s computes the transitive closure of a binary relation.

It reads pairs of values, one pair per line, from the files given as
arguments or from the standard input. Values are separated by white space
and may be enclosed in double quotes; quoted values are quoted again on
output. Lines that are empty or start with '#' are ignored.

By default it prints the tuples of the closure, one per line. The engine
can be tuned with a YAML configuration file, for instance:

	nodes: 1000000
	closure: warshall
	log_level: info

%s takes the following flags.

`
