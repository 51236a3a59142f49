// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package bdd

import (
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

const (
	// DefaultNodesize is the capacity of the node table when no Nodesize
	// option is given. It corresponds to about 50 MB of memory with 30 000
	// nodes per megabyte.
	DefaultNodesize = 50 * NodesPerMB

	// NodesPerMB is the number of nodes we allocate for each megabyte of
	// memory requested by the user.
	NodesPerMB = 30000

	_MAXBITS = 30
	_MINBITS = 1
)

// configs is used to store the values of different parameters of the engine
type configs struct {
	nodesize   int // capacity of the node table, excluding the two terminals
	uniquebits int // log2 of the number of buckets in the unique table
	cachebits  int // log2 of the number of entries in the binary operation cache
	statbits   int // log2 of the number of entries in the tuple count cache
	logger     *zap.Logger
	registerer prometheus.Registerer
	fatal      func(error)
}

// Option is the type of configuration options accepted by New.
type Option func(*configs)

func makeconfigs(opts []Option) *configs {
	c := &configs{nodesize: DefaultNodesize}
	for _, f := range opts {
		f(c)
	}
	bits := log2(c.nodesize)
	if c.uniquebits == 0 {
		c.uniquebits = bits
	}
	if c.cachebits == 0 {
		c.cachebits = bits
	}
	if c.statbits == 0 {
		c.statbits = bits - 4
	}
	c.uniquebits = clampbits(c.uniquebits)
	c.cachebits = clampbits(c.cachebits)
	c.statbits = clampbits(c.statbits)
	if c.logger == nil {
		c.logger = zap.NewNop()
	}
	return c
}

// log2 returns the position of the highest bit set in n, or 0 when n < 2.
func log2(n int) int {
	res := 0
	for n > 1 {
		n >>= 1
		res++
	}
	return res
}

func clampbits(b int) int {
	if b < _MINBITS {
		return _MINBITS
	}
	if b > _MAXBITS {
		return _MAXBITS
	}
	return b
}

// Nodesize is a configuration option (function). Used as a parameter in New it
// sets the capacity of the node table. The table never grows: when all the
// slots are used, the engine collects unreachable nodes and retries the
// operation once. Values smaller than 1 are ignored.
func Nodesize(size int) Option {
	return func(c *configs) {
		if size > 0 {
			c.nodesize = size
		}
	}
}

// Uniquebits is a configuration option (function). Used as a parameter in New
// it sets the number of bits used for indexing the unique table, that is the
// table has 2^bits buckets. The default is the base-2 logarithm of the node
// capacity. Values are capped at 30.
func Uniquebits(bits int) Option {
	return func(c *configs) {
		c.uniquebits = bits
	}
}

// Cachebits is a configuration option (function). It sets the base-2
// logarithm of the number of entries in the cache used by binary operations,
// negation and renaming.
func Cachebits(bits int) Option {
	return func(c *configs) {
		c.cachebits = bits
	}
}

// Statbits is a configuration option (function). It sets the base-2 logarithm
// of the number of entries in the cache used when counting tuples. By default
// this cache is 16 times smaller than the operation cache.
func Statbits(bits int) Option {
	return func(c *configs) {
		c.statbits = bits
	}
}

// Logger is a configuration option (function). It sets the logger used to
// report garbage collections, retries and fatal errors. By default the engine
// does not log anything.
func Logger(log *zap.Logger) Option {
	return func(c *configs) {
		c.logger = log
	}
}

// Registerer is a configuration option (function). When set, the engine
// registers its Prometheus collectors with reg. Each engine adds a constant
// label with a fresh identifier so that several engines can share the same
// registry.
func Registerer(reg prometheus.Registerer) Option {
	return func(c *configs) {
		c.registerer = reg
	}
}

// FatalHandler is a configuration option (function). It sets the function
// called when the engine meets an unrecoverable error, such as running out of
// nodes twice in a row or a precondition violation. The default handler logs
// the error and exits the process. If the handler returns, the engine panics
// with the same error.
func FatalHandler(f func(error)) Option {
	return func(c *configs) {
		c.fatal = f
	}
}
