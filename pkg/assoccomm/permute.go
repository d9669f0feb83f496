package assoccomm

import (
	mk "github.com/gitrdm/gokanterm/pkg/minikanren"
)

// EqFunc builds the goal used to compare two sub-terms. Matching goals
// thread it through their recursion so that, for example, commutative
// matching can compare arguments modulo associativity.
type EqFunc func(u, v mk.Term) mk.Expr

// Eq is the plain structural EqFunc.
func Eq(u, v mk.Term) mk.Expr {
	return mk.Eq(u, v)
}

// Permuteq relates two sequences that are permutations of each other, with
// elements compared by eq (Eq when nil).
//
// When both sequences are tuples it first compares them as multisets; if
// that does not settle the question it drops the elements common to both
// and tries each distinct way of pairing the rest with CondeSeq. When one
// side is an unbound variable it is bound to the other side as is rather
// than to every permutation. When both are unbound the goal defers.
func Permuteq(a, b any, eq EqFunc) *mk.CallExpr {
	if eq == nil {
		eq = Eq
	}
	return mk.Call("permuteq", func(args []mk.Term) mk.Expansion {
		a, b := args[0], args[1]
		at, aok := a.(mk.Tuple)
		bt, bok := b.(mk.Tuple)
		switch {
		case aok && bok:
			return mk.Ready(permuteTuples(at, bt, eq))
		case a.IsVar() && b.IsVar():
			return mk.Defer()
		case a.IsVar() && bok, b.IsVar() && aok:
			return mk.Ready(mk.Eq(a, b))
		default:
			return mk.Ready(mk.Fail)
		}
	}, a, b)
}

func permuteTuples(a, b mk.Tuple, eq EqFunc) mk.Expr {
	if len(a) != len(b) {
		return mk.Fail
	}
	c, d := dropCommon(a, b)
	switch len(c) {
	case 0:
		return mk.Succeed
	case 1:
		return eq(c[0], d[0])
	}
	return mk.CondeSeq(func() mk.ClauseCursor {
		i := 0
		seen := make(map[string]bool)
		return func() ([]mk.Expr, bool) {
			for i < len(c) {
				x := c[i]
				rest := make(mk.Tuple, 0, len(c)-1)
				rest = append(rest, c[:i]...)
				rest = append(rest, c[i+1:]...)
				i++
				k := mk.Key(x)
				if seen[k] {
					continue
				}
				seen[k] = true
				return []mk.Expr{eq(x, d[0]), Permuteq(rest, d[1:], eq)}, true
			}
			return nil, false
		}
	})
}

// dropCommon removes the elements a and b share as a multiset, comparing
// structurally. It returns the leftovers of each side in original order.
func dropCommon(a, b mk.Tuple) (mk.Tuple, mk.Tuple) {
	counts := make(map[string]int, len(b))
	for _, t := range b {
		counts[mk.Key(t)]++
	}
	var c mk.Tuple
	matched := make(map[string]int)
	for _, t := range a {
		k := mk.Key(t)
		if counts[k] > 0 {
			counts[k]--
			matched[k]++
			continue
		}
		c = append(c, t)
	}
	var d mk.Tuple
	for _, t := range b {
		k := mk.Key(t)
		if matched[k] > 0 {
			matched[k]--
			continue
		}
		d = append(d, t)
	}
	return c, d
}

// Buildo relates an operator, its arguments and the compound term built
// from them. Given the term it decomposes it; given the operator and an
// argument tuple it builds the term. It defers while both the arguments and
// the term are unbound.
func Buildo(op, args, term any) *mk.CallExpr {
	return mk.Call("buildo", func(xs []mk.Term) mk.Expansion {
		op, args, term := xs[0], xs[1], xs[2]
		if !term.IsVar() {
			c, ok := mk.AsCompound(term)
			if !ok {
				return mk.Ready(mk.Fail)
			}
			return mk.Ready(mk.Lall(
				mk.Eq(op, c.Operator()),
				mk.Eq(args, mk.Tuple(c.Arguments())),
			))
		}
		argt, ok := args.(mk.Tuple)
		if !ok {
			if args.IsVar() {
				return mk.Defer()
			}
			return mk.Ready(mk.Fail)
		}
		return mk.Ready(mk.Eq(term, mk.Build(op, argt)))
	}, op, args, term)
}
