package assoccomm

import (
	mk "github.com/gitrdm/gokanterm/pkg/minikanren"
)

// Matcher builds matching goals that consult one Registry. A Matcher is
// immutable and safe for concurrent use.
type Matcher struct {
	reg *Registry
}

// NewMatcher creates a matcher over reg. A nil registry declares nothing.
func NewMatcher(reg *Registry) *Matcher {
	if reg == nil {
		reg = NewRegistry()
	}
	return &Matcher{reg: reg}
}

// Registry returns the operator registry the matcher consults.
func (m *Matcher) Registry() *Registry {
	return m.reg
}

// opArgs decomposes t, reporting false for variables and atomic terms.
func opArgs(t mk.Term) (mk.Term, []mk.Term, bool) {
	if t.IsVar() {
		return nil, nil, false
	}
	c, ok := mk.AsCompound(t)
	if !ok {
		return nil, nil, false
	}
	return c.Operator(), c.Arguments(), true
}

// mustCompound returns t as a Compound; callers check opArgs first.
func mustCompound(t mk.Term) mk.Compound {
	c, _ := mk.AsCompound(t)
	return c
}

// EqComm relates u and v when they are equal up to reordering the arguments
// of commutative operators, at every nesting level: arguments are themselves
// compared with EqComm. EqAssocComm also regroups nested associative
// operators.
//
//	m.EqComm(NewTuple("add", 1, 2), NewTuple("add", 2, 1))  // succeeds when add is commutative
func (m *Matcher) EqComm(u, v any) *mk.CallExpr {
	return m.eqComm(u, v, m.eqCommFn)
}

func (m *Matcher) eqCommFn(u, v mk.Term) mk.Expr {
	return m.EqComm(u, v)
}

func (m *Matcher) eqComm(u, v any, eq EqFunc) *mk.CallExpr {
	return mk.Call("eq_comm", func(args []mk.Term) mk.Expansion {
		u, v := args[0], args[1]
		uop, uargs, uok := opArgs(u)
		_, _, vok := opArgs(v)
		if !uok || !vok {
			// A variable or atom on either side admits only the other term
			// as it stands.
			return mk.Ready(mk.Eq(u, v))
		}
		vtail := mk.Fresh("tail")
		return mk.Ready(mk.Conde(
			[]mk.Expr{mk.Eq(u, v)},
			[]mk.Expr{
				m.reg.Commutative(uop),
				Buildo(uop, vtail, v),
				Permuteq(mk.Tuple(uargs), vtail, eq),
			},
		))
	}, u, v)
}

// EqAssoc relates u and v when they are equal up to regrouping the
// arguments of associative operators:
//
//	(add 1 2 3) ~ (add 1 (add 2 3)) ~ (add (add 1 2) 3)
//
// When both sides are compound the longer argument list is regrouped to the
// length of the shorter one. When only one side is compound, n fixes the
// number of arguments of the regrouped term; n <= 0 tries every count from
// 2 up to the compound side's argument count.
func (m *Matcher) EqAssoc(u, v any, n int) *mk.CallExpr {
	return m.eqAssoc(u, v, Eq, n)
}

func (m *Matcher) eqAssoc(u, v any, eq EqFunc, n int) *mk.CallExpr {
	return mk.Call("eq_assoc", func(args []mk.Term) mk.Expansion {
		u, v := args[0], args[1]
		uop, _, uok := opArgs(u)
		vop, _, vok := opArgs(v)
		switch {
		case uok && vok:
			return mk.Ready(mk.Conde(
				[]mk.Expr{mk.Eq(u, v)},
				[]mk.Expr{mk.Eq(uop, vop), m.reg.Associative(uop), m.assocUnify(u, v, eq, n)},
			))
		case uok || vok:
			if vok {
				u, v, uop = v, u, vop
			}
			return mk.Ready(mk.Conde(
				[]mk.Expr{mk.Eq(u, v)},
				[]mk.Expr{m.reg.Associative(uop), m.assocUnify(u, v, eq, n)},
			))
		default:
			return mk.Ready(mk.Eq(u, v))
		}
	}, u, v)
}

// assocUnify regroups compound arguments under their shared associative
// operator and matches the groupings pairwise with eq.
func (m *Matcher) assocUnify(u, v any, eq EqFunc, n int) *mk.CallExpr {
	return mk.Call("assoc_unify", func(args []mk.Term) mk.Expansion {
		u, v := args[0], args[1]
		uop, uargs, uok := opArgs(u)
		vop, vargs, vok := opArgs(v)

		if uok && vok {
			sm, lg, build := uargs, vargs, builderLike(mustCompound(v))
			if len(uargs) > len(vargs) {
				sm, lg, build = vargs, uargs, builderLike(mustCompound(u))
			}
			return mk.Ready(mk.Lall(mk.Eq(uop, vop), mk.CondeSeq(func() mk.ClauseCursor {
				next := assocSized(build, lg, len(sm))
				return func() ([]mk.Expr, bool) {
					grouped, ok := next()
					if !ok {
						return nil, false
					}
					clause := make([]mk.Expr, len(sm))
					for i := range sm {
						clause[i] = eq(sm[i], grouped[i])
					}
					return clause, true
				}
			})))
		}

		var (
			c    mk.Compound
			tail []mk.Term
			b    mk.Term
		)
		switch {
		case uok:
			c, tail, b = mustCompound(u), uargs, v
		case vok:
			c, tail, b = mustCompound(v), vargs, u
		default:
			return mk.Ready(mk.Eq(u, v))
		}
		return mk.Ready(mk.CondeSeq(regroupings(builderLike(c), tail, b, n)))
	}, u, v)
}

// regroupings yields clauses equating b with each regrouping of op(tail...)
// into n arguments, or into every count from 2 to len(tail) when n <= 0.
func regroupings(build builder, tail []mk.Term, b mk.Term, n int) mk.ClauseSeq {
	lo, hi := 2, len(tail)
	if n > 0 {
		lo, hi = n, n
	}
	return func() mk.ClauseCursor {
		size := lo
		var next func() ([]mk.Term, bool)
		return func() ([]mk.Expr, bool) {
			for size <= hi {
				if next == nil {
					next = assocSized(build, tail, size)
				}
				if g, ok := next(); ok {
					return []mk.Expr{mk.Eq(b, build(g))}, true
				}
				next = nil
				size++
			}
			return nil, false
		}
	}
}

// EqAssocComm relates u and v when they are equal up to both regrouping and
// reordering the arguments of operators declared associative and
// commutative, recursing into sub-terms:
//
//	(add 1 (add 2 3)) ~ (add 3 2 1)
//
// Operators that are not declared associative are compared by plain
// unification.
func (m *Matcher) EqAssocComm(u, v any) *mk.CallExpr {
	return mk.Call("eq_assoccomm", func(args []mk.Term) mk.Expansion {
		u, v := args[0], args[1]
		uop, uargs, uok := opArgs(u)
		vop, vargs, vok := opArgs(v)

		switch {
		case !uok && !vok:
			return mk.Ready(mk.Eq(u, v))
		case uok && !vok && !v.IsVar(), vok && !uok && !u.IsVar():
			return mk.Ready(mk.Fail)
		case uok && vok && !uop.IsVar() && !vop.IsVar() && !uop.Equal(vop):
			return mk.Ready(mk.Fail)
		case uok && !m.reg.IsAssociative(uop), vok && !m.reg.IsAssociative(vop):
			return mk.Ready(mk.Eq(u, v))
		}

		n := 0
		if uok && vok {
			if len(uargs) < len(vargs) {
				u, v = v, u
			}
			n = min(len(uargs), len(vargs))
		} else if vok {
			u, v = v, u
		}
		w := mk.Fresh("w")
		return mk.Ready(mk.Lall(
			m.eqAssoc(u, w, m.eqAssocCommFn, n),
			m.eqComm(v, w, m.eqAssocCommFn),
		))
	}, u, v)
}

func (m *Matcher) eqAssocCommFn(u, v mk.Term) mk.Expr {
	return m.EqAssocComm(u, v)
}
