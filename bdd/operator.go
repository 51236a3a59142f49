// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package bdd

// operator identifies the operations whose results are stored in the
// operation cache. The value is also used as a label in logs.
type operator int

const (
	opnot operator = iota + 1
	opunion
	opintersect
	opexists
	opcontains
	oprename
	opvalue
	opequiv
	oplesseq
	opvar
)

var opnames = [...]string{
	opnot:       "complement",
	opunion:     "union",
	opintersect: "intersect",
	opexists:    "exists",
	opcontains:  "contains",
	oprename:    "rename",
	opvalue:     "value",
	opequiv:     "equiv",
	oplesseq:    "lessequal",
	opvar:       "var",
}

func (op operator) String() string {
	if op <= 0 || int(op) >= len(opnames) {
		return "unknown"
	}
	return opnames[op]
}
