package minikanren

import (
	"context"
	"errors"
	"fmt"
)

// Goal is an evaluable relation. Applied to a substitution it returns a lazy
// stream holding one substitution per way of satisfying the goal.
type Goal func(ctx context.Context, s *Substitution) *Stream

// Expr is anything a combinator can expand into a Goal: either a Goal
// itself, or a deferred descriptor built with Call.
type Expr interface {
	isExpr()
}

func (Goal) isExpr() {}

// ExpandState tags the outcome of expanding a goal descriptor.
type ExpandState int

const (
	// StateReady means the descriptor produced an evaluable goal.
	StateReady ExpandState = iota

	// StateDeferred means the descriptor cannot be constructed yet because
	// an input it needs is still an unbound variable. Conjunctions retry a
	// deferred goal after other goals have bound more variables.
	StateDeferred
)

// String returns a human-readable representation of the state.
func (st ExpandState) String() string {
	switch st {
	case StateReady:
		return "ready"
	case StateDeferred:
		return "deferred"
	default:
		return "unknown"
	}
}

// Expansion is the result of running a GoalBuilder.
type Expansion struct {
	Expr  Expr
	State ExpandState
}

// Ready wraps an expression produced by a GoalBuilder.
func Ready(e Expr) Expansion {
	return Expansion{Expr: e, State: StateReady}
}

// Defer reports that a GoalBuilder cannot build its goal yet.
func Defer() Expansion {
	return Expansion{State: StateDeferred}
}

// GoalBuilder constructs a goal expression from its arguments, which have
// already been reified against the substitution in force. It returns Defer()
// when an argument it must inspect is still unbound.
type GoalBuilder func(args []Term) Expansion

// CallExpr is a deferred goal descriptor: a builder plus its arguments.
type CallExpr struct {
	name    string
	builder GoalBuilder
	args    []Term

	// within, when set, replaces builder and sees the whole substitution.
	within func(s *Substitution) (Expansion, error)
}

func (*CallExpr) isExpr() {}

// String returns the descriptor in prefix form.
func (c *CallExpr) String() string {
	if c.within != nil {
		return fmt.Sprintf("(%s ...)", c.name)
	}
	return fmt.Sprintf("(%s %v)", c.name, Tuple(c.args))
}

// callWithin builds a descriptor whose expansion depends on the
// substitution as a whole, such as a combinator that defers while any of
// its members does.
func callWithin(name string, within func(s *Substitution) (Expansion, error)) *CallExpr {
	return &CallExpr{name: name, within: within}
}

// Call builds a deferred goal descriptor. The builder runs only when a
// combinator expands the descriptor, with args reified against the current
// substitution. Arguments are converted with TermOf.
//
// Example:
//
//	// x is a member of coll, where coll may be bound later in the conjunction
//	Call("member", func(args []Term) Expansion {
//	    if args[1].IsVar() {
//	        return Defer()
//	    }
//	    ...
//	}, x, coll)
func Call(name string, builder GoalBuilder, args ...any) *CallExpr {
	terms := make([]Term, len(args))
	for i, a := range args {
		terms[i] = TermOf(a)
	}
	return &CallExpr{name: name, builder: builder, args: terms}
}

// ErrNotAGoal is returned when a goal expression expands to nothing
// evaluable, such as a nil Goal or a builder returning no expression.
var ErrNotAGoal = errors.New("expression does not expand to a goal")

// Expand repeatedly runs descriptor builders until the result is no longer
// a descriptor, or until a builder defers.
func Expand(e Expr, s *Substitution) (Expansion, error) {
	for {
		c, ok := e.(*CallExpr)
		if !ok {
			return Ready(e), nil
		}
		var exp Expansion
		switch {
		case c.within != nil:
			var err error
			if exp, err = c.within(s); err != nil {
				return Expansion{}, err
			}
		case c.builder == nil:
			return Expansion{}, fmt.Errorf("%s: nil builder: %w", c.name, ErrNotAGoal)
		default:
			args := make([]Term, len(c.args))
			for i, a := range c.args {
				args[i] = s.DeepWalk(a)
			}
			exp = c.builder(args)
		}
		if exp.State == StateDeferred {
			return exp, nil
		}
		if exp.Expr == nil {
			return Expansion{}, fmt.Errorf("%s: builder returned no goal: %w", c.name, ErrNotAGoal)
		}
		e = exp.Expr
	}
}

// Eval expands e against s and returns the evaluable goal. When expansion is
// deferred the returned goal is nil and the state is StateDeferred.
func Eval(e Expr, s *Substitution) (Goal, ExpandState, error) {
	exp, err := Expand(e, s)
	if err != nil {
		return nil, StateReady, err
	}
	if exp.State == StateDeferred {
		return nil, StateDeferred, nil
	}
	g, ok := exp.Expr.(Goal)
	if !ok || g == nil {
		return nil, StateReady, fmt.Errorf("%T: %w", exp.Expr, ErrNotAGoal)
	}
	return g, StateReady, nil
}

// Solve evaluates e against s. A deferred expression ends the stream with
// an UnresolvableGoalOrderError, since nothing is left to bind its inputs.
func Solve(ctx context.Context, e Expr, s *Substitution) *Stream {
	g, state, err := Eval(e, s)
	if err != nil {
		return Failed(err)
	}
	if state == StateDeferred {
		return Failed(&UnresolvableGoalOrderError{Goals: 1})
	}
	return g(ctx, s)
}
