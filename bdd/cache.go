// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package bdd

import (
	"fmt"
)

// ************************************************************

// cache is used for caching the results of complement, union, intersection,
// quantification, inclusion and renaming. Entries are tagged with the
// operator so that a single table can be shared by all operations.
type cache struct {
	bits  uint
	table []cacheData
}

// cacheStat stores status information about cache usage
type cacheStat struct {
	opHit    int // entries found in the operation cache
	opMiss   int // entries not found in the operation cache
	statHit  int // entries found in the tuple count cache
	statMiss int // entries not found in the tuple count cache
}

// cacheData is a unit of information stored in the operation cache. An entry
// with a set to -1 is empty.
type cacheData struct {
	res int
	a   int
	b   int
	c   operator
}

func (bc *cache) init(bits int) {
	bc.bits = uint(bits)
	bc.table = make([]cacheData, 1<<bits)
	bc.reset()
}

func (bc *cache) reset() {
	for k := range bc.table {
		bc.table[k].a = -1
	}
}

// ************************************************************

// statcache stores the number of satisfying assignments of a node for a given
// last variable. Using the last variable as part of the key avoids returning
// a count computed for another range.
type statcache struct {
	bits  uint
	table []statData
}

type statData struct {
	root   int
	maxvar int32
	res    float64
}

func (sc *statcache) init(bits int) {
	sc.bits = uint(bits)
	sc.table = make([]statData, 1<<bits)
	sc.reset()
}

func (sc *statcache) reset() {
	for k := range sc.table {
		sc.table[k].root = -1
	}
}

// ************************************************************

// The hash function for the operation cache is #(a, b, op).

func (e *Engine) matchop(op operator, a, b int) (int, bool) {
	entry := e.bincache.table[_TRIPLE(a, b, int(op), e.bincache.bits)]
	if entry.a == a && entry.b == b && entry.c == op {
		e.opHit++
		return entry.res, true
	}
	e.opMiss++
	return -1, false
}

func (e *Engine) setop(op operator, a, b, res int) int {
	e.bincache.table[_TRIPLE(a, b, int(op), e.bincache.bits)] = cacheData{
		a:   a,
		b:   b,
		c:   op,
		res: res,
	}
	return res
}

// The hash function for tuple counts is #(root, maxvar).

func (e *Engine) matchstat(n int, maxvar int32) (float64, bool) {
	entry := e.statcache.table[_PAIR(n, int(maxvar), e.statcache.bits)]
	if entry.root == n && entry.maxvar == maxvar {
		e.statHit++
		return entry.res, true
	}
	e.statMiss++
	return 0, false
}

func (e *Engine) setstat(n int, maxvar int32, res float64) float64 {
	e.statcache.table[_PAIR(n, int(maxvar), e.statcache.bits)] = statData{
		root:   n,
		maxvar: maxvar,
		res:    res,
	}
	return res
}

// cachereset empties all the caches. It must be called after each garbage
// collection since the indices stored in the caches may have been reused.
func (e *Engine) cachereset() {
	e.bincache.reset()
	e.statcache.reset()
	e.renameids = make(map[renameKey]int)
}

// ************************************************************

// Prints information about the cache performance. The information contains the
// number of accesses to the unique node table, the number of times a node was
// (not) found there and how many times a hash chain had to traversed. Hit and
// miss count is also given for the operation caches.

func (e *Engine) cacheString() string {
	res := fmt.Sprintf("Unique Access:  %d\n", e.uniqueAccess)
	res += fmt.Sprintf("Unique Chain:   %d\n", e.uniqueChain)
	res += fmt.Sprintf("Unique Hit:     %d\n", e.uniqueHit)
	res += fmt.Sprintf("Unique Miss:    %d\n", e.uniqueMiss)
	res += fmt.Sprintf("Operator Hits:  %d\n", e.opHit)
	res += fmt.Sprintf("Operator Miss:  %d\n", e.opMiss)
	res += fmt.Sprintf("Count Hits:     %d\n", e.statHit)
	res += fmt.Sprintf("Count Miss:     %d", e.statMiss)
	return res
}
