// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package bdd

import "go.uber.org/zap"

// renameKey identifies a renaming. Results of renameVars are cached under a
// small integer associated with the full (first, last, offset) triple, so
// that two calls with the same arguments share their cache entries. The
// association is dropped at each garbage collection, together with the
// cache.
type renameKey struct {
	first, last, offset int32
}

// _MAXRENAMEIDS bounds the number of renamings remembered between two
// collections.
const _MAXRENAMEIDS = 1 << 20

func (e *Engine) renameid(k renameKey) int {
	if id, ok := e.renameids[k]; ok {
		return id
	}
	if len(e.renameids) >= _MAXRENAMEIDS {
		e.log.Debug("too many renamings, resetting the cache")
		e.cachereset()
	}
	id := len(e.renameids) + 1
	e.renameids[k] = id
	return id
}

// RenameVars returns the node obtained from n by moving every variable v in
// [first, last] to v + offset. The caller must make sure that the result is
// still ordered, that is that the variables in the shifted range do not jump
// over a variable tested below them; the engine only enforces reduction.
func (e *Engine) RenameVars(n *Node, first, last, offset int) *Node {
	a := e.checkptr(n, "RenameVars")
	if !checkvar(first) || !checkvar(last) || first > last {
		e.fatalf("bad range [%d, %d] in call to RenameVars", first, last)
	}
	if !checkvar(first+offset) || !checkvar(last+offset) {
		e.fatalf("offset %d moves [%d, %d] out of range in call to RenameVars", offset, first, last)
	}
	if offset == 0 {
		return n.Clone()
	}
	k := renameKey{first: int32(first), last: int32(last), offset: int32(offset)}
	if _DEBUG {
		e.log.Debug("rename", zap.Int("first", first), zap.Int("last", last), zap.Int("offset", offset))
	}
	return e.run(oprename, func() (int, error) {
		// the id is computed inside the closure since a collection between
		// two attempts drops all the ids
		return e.rename(a, k, e.renameid(k))
	})
}

func (e *Engine) rename(n int, k renameKey, id int) (int, error) {
	level := e.nodes[n].level
	if n < 2 || level > k.last {
		return n, nil
	}
	if res, ok := e.matchop(oprename, n, id); ok {
		return res, nil
	}
	low, err := e.rename(e.nodes[n].low, k, id)
	if err != nil {
		return -1, err
	}
	high, err := e.rename(e.nodes[n].high, k, id)
	if err != nil {
		return -1, err
	}
	if level >= k.first {
		level += k.offset
	}
	res, err := e.makenode(level, low, high)
	if err != nil {
		return -1, err
	}
	return e.setop(oprename, n, id, res), nil
}
