package minikanren

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"time"
)

// Solver drives goal evaluation and extracts reified answers. A Solver holds
// no per-query state; one value may serve any number of concurrent Run calls.
type Solver struct {
	logger  *slog.Logger
	metrics *Metrics
}

// Option configures a Solver.
type Option func(*Solver)

// WithLogger sets a custom structured logger for the solver.
func WithLogger(logger *slog.Logger) Option {
	return func(sv *Solver) {
		sv.logger = logger
	}
}

// WithMetrics records query outcomes, answer counts and durations.
func WithMetrics(m *Metrics) Option {
	return func(sv *Solver) {
		sv.metrics = m
	}
}

// NewSolver creates a solver. Without WithLogger it logs nowhere.
func NewSolver(opts ...Option) *Solver {
	sv := &Solver{}
	for _, opt := range opts {
		opt(sv)
	}
	if sv.logger == nil {
		sv.logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	return sv
}

// Run evaluates the conjunction of goals from an empty substitution, reifies
// query against every resulting substitution and returns up to n distinct
// answers in discovery order. n <= 0 returns all answers, which only
// terminates when the search space is finite.
//
// Fewer than n answers (possibly none) means the search was exhausted. An
// error is returned when the goals cannot be ordered so that each can be
// built (ErrUnresolvableGoalOrder), when a goal is misconfigured, or when
// ctx ends; answers found before the error are returned with it.
func (sv *Solver) Run(ctx context.Context, n int, query any, goals ...Expr) ([]Term, error) {
	start := time.Now()
	q := TermOf(query)
	sv.logger.DebugContext(ctx, "query started", "query", q.String(), "goals", len(goals), "limit", n)

	stream := LallEarly(goals...)(ctx, NewSubstitution())

	results := []Term{}
	seen := make(map[string]struct{})
	var err error
	for n <= 0 || len(results) < n {
		if err = ctx.Err(); err != nil {
			break
		}
		s, ok := stream.Next()
		if !ok {
			err = stream.Err()
			break
		}
		answer := Reify(q, s)
		k := Key(answer)
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		results = append(results, answer)
	}

	elapsed := time.Since(start)
	outcome := outcomeAnswers
	switch {
	case errors.Is(err, ErrUnresolvableGoalOrder):
		outcome = outcomeUnresolved
		sv.logger.WarnContext(ctx, "goal order unresolvable", "query", q.String(), "error", err)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		outcome = outcomeCancelled
	case err != nil:
		outcome = outcomeError
		sv.logger.ErrorContext(ctx, "query failed", "query", q.String(), "error", err)
	case len(results) == 0:
		outcome = outcomeNoAnswers
	}
	sv.metrics.observe(outcome, len(results), elapsed)
	sv.logger.DebugContext(ctx, "query finished", "query", q.String(), "answers", len(results), "outcome", outcome, "elapsed", elapsed)

	return results, err
}

// Query is one independent problem for RunBatch.
type Query struct {
	Name  string
	Limit int
	Term  any
	Goals []Expr
}

// Result holds the answers, or the error, of one batch query.
type Result struct {
	Name    string
	Answers []Term
	Err     error
}

var defaultSolver = NewSolver()

// Run executes goals and returns up to n reified values of query
// (n <= 0 means all). This is the main entry point for executing
// miniKanren programs.
//
// Example:
//
//	q := Fresh("q")
//	solutions, err := Run(5, q, Eq(q, "hello"))
//	// Returns: [hello]
func Run(n int, query any, goals ...Expr) ([]Term, error) {
	return defaultSolver.Run(context.Background(), n, query, goals...)
}

// RunWithContext is Run with a context for cancellation and timeouts.
// This allows for better control over long-running or infinite searches.
//
// Example:
//
//	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
//	defer cancel()
//	solutions, err := RunWithContext(ctx, 100, q, someLongRunningGoal(q))
func RunWithContext(ctx context.Context, n int, query any, goals ...Expr) ([]Term, error) {
	return defaultSolver.Run(ctx, n, query, goals...)
}

// RunStar returns all answers.
// WARNING: This runs forever if the goals have infinitely many answers.
// Use RunWithContext with a timeout for safer execution.
func RunStar(query any, goals ...Expr) ([]Term, error) {
	return defaultSolver.Run(context.Background(), 0, query, goals...)
}
