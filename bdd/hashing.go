// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package bdd

import (
	"encoding/binary"

	"github.com/cespare/xxhash/v2"
)

// Hash functions

// The hash function for nodes is #(level, low, high). Node indices always fit
// in 32 bits since the table has a fixed capacity.

func (e *Engine) nodehash(level int32, low, high int) int {
	var key [12]byte
	binary.LittleEndian.PutUint32(key[0:], uint32(level))
	binary.LittleEndian.PutUint32(key[4:], uint32(low))
	binary.LittleEndian.PutUint32(key[8:], uint32(high))
	return int(xxhash.Sum64(key[:]) & e.uniquemask)
}

func (e *Engine) ptrhash(n int) int {
	return e.nodehash(e.nodes[n].level, e.nodes[n].low, e.nodes[n].high)
}

// _TRIPLE mixes three integers into an index of a table with 2^bits entries.
// It is cheaper than the node hash and good enough for the caches, where a
// collision only costs a recomputation.
func _TRIPLE(a, b, c int, bits uint) int {
	i, j, k := uint32(a), uint32(b), uint32(c)
	h := i + (j^0x55555555)<<(bits>>1) + (j >> (bits >> 1)) + k<<(bits>>2) + k>>(bits>>2)
	return int(h & (1<<bits - 1))
}

// _PAIR is used for the tuple count cache.
func _PAIR(a, b int, bits uint) int {
	return _TRIPLE(a, b, 0, bits)
}
