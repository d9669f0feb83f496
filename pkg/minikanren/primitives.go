package minikanren

import (
	"context"
)

// Succeed is a goal that always succeeds once with the given substitution.
var Succeed Goal = func(ctx context.Context, s *Substitution) *Stream {
	return Unit(s)
}

// Fail is a goal that always fails (returns no substitutions).
var Fail Goal = func(ctx context.Context, s *Substitution) *Stream {
	return Empty()
}

// Eq creates a unification goal that constrains two terms to be equal.
// This is the fundamental operation in miniKanren - it attempts to make
// two terms identical by binding variables as needed. Plain Go values are
// converted with TermOf.
//
// Example:
//
//	x := Fresh("x")
//	goal := Eq(x, "hello")  // Binds x to hello
func Eq(u, v any) Goal {
	tu, tv := TermOf(u), TermOf(v)
	return func(ctx context.Context, s *Substitution) *Stream {
		if ctx.Err() != nil {
			return Failed(ctx.Err())
		}
		if next, ok := Unify(tu, tv, s); ok {
			return Unit(next)
		}
		return Empty()
	}
}

// MemberOf relates x to each element of coll, in order. While coll is an
// unbound variable the goal defers construction, so a conjunction can first
// run the goals that bind it.
//
// Example:
//
//	results, _ := Run(0, x, MemberOf(x, NewTuple(1, 2, 3)))
//	// Returns: [1 2 3]
func MemberOf(x, coll any) *CallExpr {
	return Call("member_of", func(args []Term) Expansion {
		switch c := args[1].(type) {
		case *Var:
			return Defer()
		case Tuple:
			goals := make([]Expr, len(c))
			for i, item := range c {
				goals[i] = Eq(args[0], item)
			}
			return Ready(Lany(goals...))
		default:
			return Ready(Fail)
		}
	}, x, coll)
}

// Ground creates a goal that succeeds only if the given term is fully ground
// (contains no unbound variables) under the current substitution.
func Ground(term any) Goal {
	t := TermOf(term)
	return func(ctx context.Context, s *Substitution) *Stream {
		if isGround(s.DeepWalk(t)) {
			return Unit(s)
		}
		return Empty()
	}
}

// isGround returns true if the term contains no variables.
func isGround(t Term) bool {
	switch x := t.(type) {
	case *Var:
		return false
	case Tuple:
		for _, e := range x {
			if !isGround(e) {
				return false
			}
		}
		return true
	case Map:
		for _, e := range x {
			if !isGround(e) {
				return false
			}
		}
		return true
	case *Atom:
		return true
	}
	if c, ok := AsCompound(t); ok {
		if !isGround(c.Operator()) {
			return false
		}
		for _, a := range c.Arguments() {
			if !isGround(a) {
				return false
			}
		}
	}
	return true
}
