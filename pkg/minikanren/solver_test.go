package minikanren

import (
	"bytes"
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun(t *testing.T) {
	x, y := Fresh("x"), Fresh("y")

	t.Run("limit", func(t *testing.T) {
		answers, err := Run(2, x, MemberOf(x, NewTuple(1, 2, 3)))
		require.NoError(t, err)
		assert.Equal(t, []string{"1", "2"}, strs(answers))
	})

	t.Run("no duplicate answers", func(t *testing.T) {
		// y varies but the query only sees x.
		answers, err := Run(0, x, Eq(x, 1), MemberOf(y, NewTuple("a", "b", "c")))
		require.NoError(t, err)
		assert.Equal(t, []string{"1"}, strs(answers))
	})

	t.Run("unbound query reifies to itself", func(t *testing.T) {
		answers, err := Run(1, NewTuple(x, y), Eq(x, 1))
		require.NoError(t, err)
		require.Len(t, answers, 1)
		assert.Equal(t, "(1 "+y.String()+")", answers[0].String())
	})

	t.Run("limit stops an infinite search", func(t *testing.T) {
		answers, err := Run(3, x, counting(x))
		require.NoError(t, err)
		assert.Equal(t, []string{"0", "1", "2"}, strs(answers))
	})

	t.Run("RunStar", func(t *testing.T) {
		answers, err := RunStar(x, MemberOf(x, NewTuple("a", "b")))
		require.NoError(t, err)
		assert.Equal(t, []string{"a", "b"}, strs(answers))
	})

	t.Run("cancelled context", func(t *testing.T) {
		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
		defer cancel()
		answers, err := RunWithContext(ctx, 0, x, counting(x))
		assert.ErrorIs(t, err, context.DeadlineExceeded)
		assert.NotEmpty(t, answers)
	})
}

func TestSolver_Observability(t *testing.T) {
	x := Fresh("x")
	reg := prometheus.NewRegistry()
	var logs bytes.Buffer
	sv := NewSolver(
		WithLogger(slog.New(slog.NewJSONHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))),
		WithMetrics(NewMetrics(reg)),
	)
	ctx := context.Background()

	_, err := sv.Run(ctx, 0, x, MemberOf(x, NewTuple(1, 2)))
	require.NoError(t, err)
	_, err = sv.Run(ctx, 0, x, Fail)
	require.NoError(t, err)
	_, err = sv.Run(ctx, 0, x, MemberOf(x, Fresh("coll")))
	require.ErrorIs(t, err, ErrUnresolvableGoalOrder)

	counts := map[string]float64{}
	var answers float64
	families, err := reg.Gather()
	require.NoError(t, err)
	for _, mf := range families {
		switch mf.GetName() {
		case "gokanterm_queries_total":
			for _, m := range mf.GetMetric() {
				counts[m.GetLabel()[0].GetValue()] = m.GetCounter().GetValue()
			}
		case "gokanterm_answers_total":
			answers = mf.GetMetric()[0].GetCounter().GetValue()
		}
	}
	assert.Equal(t, map[string]float64{"answers": 1, "no_answers": 1, "unresolvable": 1}, counts)
	assert.Equal(t, 2.0, answers)

	out := logs.String()
	assert.Contains(t, out, `"msg":"query finished"`)
	assert.Contains(t, out, `"msg":"goal order unresolvable"`)
}

func TestSolver_RunBatch(t *testing.T) {
	queries := make([]Query, 5)
	for i := range queries {
		q := Fresh("q")
		queries[i] = Query{
			Name:  string(rune('a' + i)),
			Term:  q,
			Goals: []Expr{MemberOf(q, NewTuple(i, i+10))},
		}
	}
	x := Fresh("x")
	queries = append(queries, Query{Name: "stuck", Term: x, Goals: []Expr{MemberOf(x, Fresh("c"))}})

	results := NewSolver().RunBatch(context.Background(), 3, queries...)
	require.Len(t, results, len(queries))
	for i, r := range results[:5] {
		assert.Equal(t, queries[i].Name, r.Name)
		require.NoError(t, r.Err)
		assert.Equal(t, []string{NewAtom(i).String(), NewAtom(i + 10).String()}, strs(r.Answers))
	}
	assert.ErrorIs(t, results[5].Err, ErrUnresolvableGoalOrder)

	t.Run("limit per query", func(t *testing.T) {
		q := Fresh("q")
		results := NewSolver().RunBatch(context.Background(), 0, Query{Term: q, Limit: 1, Goals: []Expr{counting(q)}})
		require.NoError(t, results[0].Err)
		assert.Equal(t, []string{"0"}, strs(results[0].Answers))
	})

	t.Run("cancelled before start", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		results := NewSolver().RunBatch(ctx, 1, queries...)
		for _, r := range results {
			assert.ErrorIs(t, r.Err, context.Canceled)
		}
	})
}
