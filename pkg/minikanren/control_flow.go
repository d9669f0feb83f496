package minikanren

import (
	"context"
)

// Ifa is if-then-else that backtracks through every solution of the
// condition: Ifa(C, T, E) behaves as Lall(C, T) when C has at least one
// solution and as E otherwise.
//
// Example:
//
//	Ifa(
//	    Lany(Eq(x, 1), Eq(x, 2)),  // x = 1 or x = 2
//	    Eq(q, x),                  // then: q = x, once per solution
//	    Eq(q, "none"),             // else: not reached
//	)
//	// Results: q = 1, q = 2
func Ifa(condition, thenGoal, elseGoal Expr) Goal {
	return func(ctx context.Context, s *Substitution) *Stream {
		cond := Solve(ctx, condition, s)
		first, ok := cond.Next()
		if !ok {
			if err := cond.Err(); err != nil {
				return Failed(err)
			}
			return Solve(ctx, elseGoal, s)
		}

		// Replay the first solution in front of the rest of the condition.
		replayed := false
		solutions := NewStream(func() (*Substitution, error) {
			if !replayed {
				replayed = true
				return first, nil
			}
			next, ok := cond.Next()
			if !ok {
				return nil, cond.Err()
			}
			return next, nil
		})
		return bind(ctx, solutions, func(next *Substitution) *Stream {
			return Solve(ctx, thenGoal, next)
		})
	}
}

// Ifte is if-then-else that commits to the first solution of the condition,
// like Prolog's (C -> T ; E). The remaining solutions of the condition are
// never computed.
//
// Example:
//
//	Ifte(
//	    Lany(Eq(x, 1), Eq(x, 2)),
//	    Eq(q, x),
//	    Eq(q, "none"),
//	)
//	// Results: q = 1
func Ifte(condition, thenGoal, elseGoal Expr) Goal {
	return func(ctx context.Context, s *Substitution) *Stream {
		cond := Solve(ctx, condition, s)
		first, ok := cond.Next()
		if !ok {
			if err := cond.Err(); err != nil {
				return Failed(err)
			}
			return Solve(ctx, elseGoal, s)
		}
		return Solve(ctx, thenGoal, first)
	}
}

// Onceo succeeds at most once, with the first solution of goal.
func Onceo(goal Expr) Goal {
	return Ifte(goal, Succeed, Fail)
}
