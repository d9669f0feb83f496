package minikanren

import (
	"context"
)

// Lall creates a conjunction that requires all goals to succeed.
// Each goal is expanded against the substitutions produced by the goals
// before it and solutions are explored depth first, left to right. A goal
// whose construction is deferred is skipped in favour of the next goal that
// can be built, and retried once that goal has run; if every remaining goal
// defers, the stream ends with an UnresolvableGoalOrderError.
//
// The conjunction itself defers when none of its goals can be built yet, so
// an enclosing conjunction can run it later. Duplicate substitutions are
// dropped. With no goals Lall succeeds once; with a single goal it behaves
// as that goal.
//
// Example:
//
//	x := Fresh("x")
//	y := Fresh("y")
//	goal := Lall(Eq(x, 1), Eq(y, 2))
func Lall(goals ...Expr) *CallExpr {
	goals = append([]Expr(nil), goals...)
	return callWithin("lall", func(s *Substitution) (Expansion, error) {
		switch len(goals) {
		case 0:
			return Ready(Succeed), nil
		case 1:
			return Expand(goals[0], s)
		}
		i, g, err := firstReady(goals, s)
		if err != nil {
			return Expansion{}, err
		}
		if g == nil {
			return Defer(), nil
		}
		return Ready(Goal(func(ctx context.Context, s *Substitution) *Stream {
			return Unique(conjAt(ctx, goals, i, g, s))
		})), nil
	})
}

// firstReady returns the index and goal of the first expression that can be
// built against s, or a nil goal when all of them defer.
func firstReady(goals []Expr, s *Substitution) (int, Goal, error) {
	for i, e := range goals {
		g, state, err := Eval(e, s)
		if err != nil {
			return 0, nil, err
		}
		if state == StateReady {
			return i, g, nil
		}
	}
	return 0, nil, nil
}

// conjFirst runs the first goal that can be built against s, then the rest
// of the conjunction against each of its answers.
func conjFirst(ctx context.Context, goals []Expr, s *Substitution) *Stream {
	if len(goals) == 0 {
		return Unit(s)
	}
	i, g, err := firstReady(goals, s)
	if err != nil {
		return Failed(err)
	}
	if g == nil {
		return Failed(&UnresolvableGoalOrderError{Goals: len(goals)})
	}
	return conjAt(ctx, goals, i, g, s)
}

// conjAt runs g, the built form of goals[i], then the other goals.
func conjAt(ctx context.Context, goals []Expr, i int, g Goal, s *Substitution) *Stream {
	rest := make([]Expr, 0, len(goals)-1)
	rest = append(rest, goals[:i]...)
	rest = append(rest, goals[i+1:]...)
	return bind(ctx, g(ctx, s), func(next *Substitution) *Stream {
		return conjFirst(ctx, rest, next)
	})
}

// bind applies f to every substitution of outer and concatenates the
// resulting streams depth first.
func bind(ctx context.Context, outer *Stream, f func(*Substitution) *Stream) *Stream {
	var cur *Stream
	return NewStream(func() (*Substitution, error) {
		for {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			if cur != nil {
				if s, ok := cur.Next(); ok {
					return s, nil
				}
				if err := cur.Err(); err != nil {
					return nil, err
				}
				cur = nil
			}
			s, ok := outer.Next()
			if !ok {
				return nil, outer.Err()
			}
			cur = f(s)
		}
	})
}

// Lany creates a disjunction that succeeds if any of the goals succeed.
// Every goal is evaluated against the same input substitution and the
// streams are concatenated in goal order: all of the first goal's solutions,
// then the second's, and so on, with repeated substitutions dropped. Use
// LanySeq when any alternative may have infinitely many solutions.
//
// The disjunction defers while any of its goals defers, so that inside a
// conjunction it runs after the goals that bind the missing inputs instead
// of losing that alternative.
//
// Example:
//
//	x := Fresh("x")
//	goal := Lany(Eq(x, 1), Eq(x, 2))  // x can be 1 or 2
func Lany(goals ...Expr) *CallExpr {
	goals = append([]Expr(nil), goals...)
	return callWithin("lany", func(s *Substitution) (Expansion, error) {
		built := make([]Goal, 0, len(goals))
		for _, e := range goals {
			g, state, err := Eval(e, s)
			if err != nil {
				return Expansion{}, err
			}
			if state == StateDeferred {
				return Defer(), nil
			}
			built = append(built, g)
		}
		switch len(built) {
		case 0:
			return Ready(Fail), nil
		case 1:
			return Ready(built[0]), nil
		}
		return Ready(disj(built)), nil
	})
}

// disj concatenates the streams of goals in order, dropping duplicates.
func disj(goals []Goal) Goal {
	return func(ctx context.Context, s *Substitution) *Stream {
		i := 0
		var cur *Stream
		return Unique(NewStream(func() (*Substitution, error) {
			for {
				if err := ctx.Err(); err != nil {
					return nil, err
				}
				if cur != nil {
					if next, ok := cur.Next(); ok {
						return next, nil
					}
					if err := cur.Err(); err != nil {
						return nil, err
					}
					cur = nil
				}
				if i >= len(goals) {
					return nil, nil
				}
				cur = goals[i](ctx, s)
				i++
			}
		}))
	}
}

// Conde is the classic cond form: each clause is a conjunction and the
// clauses are alternatives. Conde(c1, c2) is Lany(Lall(c1...), Lall(c2...)).
//
// Example:
//
//	Conde(
//	    []Expr{Eq(x, 1)},
//	    []Expr{Eq(x, 2), Eq(y, 3)},
//	)
func Conde(clauses ...[]Expr) *CallExpr {
	alts := make([]Expr, len(clauses))
	for i, c := range clauses {
		alts[i] = Lall(c...)
	}
	return Lany(alts...)
}

// GoalCursor yields successive goal expressions; it returns false when the
// sequence is exhausted.
type GoalCursor func() (Expr, bool)

// GoalSeq produces a fresh cursor over a possibly unbounded sequence of
// goals. It is called once per evaluation of the goal built from it.
type GoalSeq func() GoalCursor

// GoalsOf returns a GoalSeq over a fixed list of goals.
func GoalsOf(goals ...Expr) GoalSeq {
	goals = append([]Expr(nil), goals...)
	return func() GoalCursor {
		i := 0
		return func() (Expr, bool) {
			if i >= len(goals) {
				return nil, false
			}
			i++
			return goals[i-1], true
		}
	}
}

// ClauseCursor yields successive conde clauses.
type ClauseCursor func() ([]Expr, bool)

// ClauseSeq produces a fresh cursor over a possibly unbounded sequence of
// clauses.
type ClauseSeq func() ClauseCursor

// ClausesOf returns a ClauseSeq over a fixed list of clauses.
func ClausesOf(clauses ...[]Expr) ClauseSeq {
	clauses = append([][]Expr(nil), clauses...)
	return func() ClauseCursor {
		i := 0
		return func() ([]Expr, bool) {
			if i >= len(clauses) {
				return nil, false
			}
			i++
			return clauses[i-1], true
		}
	}
}

// LanySeq is a disjunction over a possibly infinite sequence of goals. The
// branches are merged with Interleave, so a solution at finite depth in any
// branch is eventually produced even when other branches never end. A
// branch whose construction is deferred against the input substitution
// contributes nothing for that substitution; it is built again the next
// time the goal is evaluated. Duplicate substitutions are dropped.
func LanySeq(seq GoalSeq) Goal {
	return func(ctx context.Context, s *Substitution) *Stream {
		cursor := seq()
		return Unique(Interleave(ctx, func() (*Stream, bool, error) {
			for {
				if err := ctx.Err(); err != nil {
					return nil, false, err
				}
				e, ok := cursor()
				if !ok {
					return nil, false, nil
				}
				g, state, err := Eval(e, s)
				if err != nil {
					return nil, false, err
				}
				if state == StateDeferred {
					continue
				}
				return g(ctx, s), true, nil
			}
		}))
	}
}

// CondeSeq is Conde over a possibly infinite sequence of clauses, with the
// fairness of LanySeq.
func CondeSeq(seq ClauseSeq) Goal {
	return LanySeq(func() GoalCursor {
		cursor := seq()
		return func() (Expr, bool) {
			clause, ok := cursor()
			if !ok {
				return nil, false
			}
			return Lall(clause...), true
		}
	})
}

// EarlyOrder expands each goal against s. Goals that can be built are kept
// in their original relative order; goals that defer are moved, as one
// group wrapped in a nested LallEarly, behind them. It returns an
// UnresolvableGoalOrderError when no goal can be built at all.
func EarlyOrder(s *Substitution, goals ...Expr) ([]Expr, error) {
	if len(goals) == 0 {
		return nil, nil
	}
	var ready, deferred []Expr
	for _, e := range goals {
		g, state, err := Eval(e, s)
		if err != nil {
			return nil, err
		}
		if state == StateDeferred {
			deferred = append(deferred, e)
			continue
		}
		ready = append(ready, g)
	}
	if len(ready) == 0 {
		return nil, &UnresolvableGoalOrderError{Goals: len(deferred)}
	}
	if len(deferred) > 0 {
		ready = append(ready, LallEarly(deferred...))
	}
	return ready, nil
}

// LallEarly is a conjunction that orders its goals with EarlyOrder before
// running them, so goals waiting on bindings run after the goals that
// produce those bindings.
func LallEarly(goals ...Expr) Goal {
	if len(goals) == 0 {
		return Succeed
	}
	goals = append([]Expr(nil), goals...)
	return func(ctx context.Context, s *Substitution) *Stream {
		ordered, err := EarlyOrder(s, goals...)
		if err != nil {
			return Failed(err)
		}
		return Solve(ctx, Lall(ordered...), s)
	}
}
