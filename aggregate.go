// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package crocopat

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// AggregateOp is an aggregate function over the values of an attribute.
type AggregateOp int

const (
	// Card is the number of values.
	Card AggregateOp = iota
	// Min is the smallest numeric value.
	Min
	// Max is the largest numeric value.
	Max
	// Sum is the sum of the numeric values. It is 0 for the empty set.
	Sum
	// Avg is the mean of the numeric values.
	Avg
)

var aggregateNames = [...]string{"CARD", "MIN", "MAX", "SUM", "AVG"}

func (op AggregateOp) String() string {
	if op < 0 || int(op) >= len(aggregateNames) {
		return fmt.Sprintf("AggregateOp(%d)", int(op))
	}
	return aggregateNames[op]
}

// Aggregate computes op over the values of attr in r, seen as a set. Except
// for Card, the values must be numbers and, except for Sum, the set must not
// be empty. The relation r is not modified.
func (r *Relation) Aggregate(op AggregateOp, attr string) decimal.Decimal {
	env := r.env
	if op < Card || op > Avg {
		env.fatal(fmt.Errorf("unknown aggregate %s", op))
	}
	p := env.pos(attr)
	if r.IsEmpty() {
		if op == Card || op == Sum {
			return decimal.Zero
		}
		env.fatal(fmt.Errorf("%s applied to an empty set", op))
	}
	var sum, min, max decimal.Decimal
	card := 0
	rest := r.Clone()
	defer rest.Release()
	for !rest.IsEmpty() {
		n := rest.element(p)
		if op != Card {
			s := env.value(n)
			d, err := decimal.NewFromString(s)
			if err != nil {
				env.fatal(fmt.Errorf("%s of a non-numeric value %q", op, s))
			}
			if card == 0 || d.LessThan(min) {
				min = d
			}
			if card == 0 || d.GreaterThan(max) {
				max = d
			}
			sum = sum.Add(d)
		}
		card++
		eq := env.wrap(env.mkEqual(p, n), -1)
		rest.Minus(eq)
		eq.Release()
	}
	switch op {
	case Card:
		return decimal.NewFromInt(int64(card))
	case Min:
		return min
	case Max:
		return max
	case Sum:
		return sum
	}
	return sum.Div(decimal.NewFromInt(int64(card)))
}
