package minikanren

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIfa(t *testing.T) {
	x, q := Fresh("x"), Fresh("q")

	tests := []struct {
		name string
		goal Goal
		want []string
	}{
		{
			name: "then runs for every condition solution",
			goal: Ifa(Lany(Eq(x, 1), Eq(x, 2)), Eq(q, x), Eq(q, "none")),
			want: []string{"1", "2"},
		},
		{
			name: "condition fails",
			goal: Ifa(Eq(1, 2), Eq(q, "success"), Eq(q, "failure")),
			want: []string{"failure"},
		},
		{
			name: "then fails for one solution",
			goal: Ifa(MemberOf(x, NewTuple(1, 2, 3)), Lall(Eq(x, 2), Eq(q, x)), Eq(q, "none")),
			want: []string{"2"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			answers, err := Run(0, q, tt.goal)
			require.NoError(t, err)
			assert.Equal(t, tt.want, strs(answers))
		})
	}
}

func TestIfte(t *testing.T) {
	x, y, q := Fresh("x"), Fresh("y"), Fresh("q")

	tests := []struct {
		name string
		goal Goal
		want []string
	}{
		{
			name: "commits to the first condition solution",
			goal: Ifte(Lany(Eq(x, 1), Eq(x, 2)), Eq(q, x), Eq(q, "none")),
			want: []string{"1"},
		},
		{
			name: "then branch backtracks",
			goal: Ifte(Eq(x, 1), Lall(MemberOf(y, NewTuple("a", "b")), Eq(q, NewTuple(x, y))), Eq(q, "none")),
			want: []string{"(1 a)", "(1 b)"},
		},
		{
			name: "condition fails",
			goal: Ifte(Fail, Eq(q, "success"), Eq(q, "failure")),
			want: []string{"failure"},
		},
		{
			name: "Onceo",
			goal: Onceo(MemberOf(q, NewTuple(1, 2, 3))),
			want: []string{"1"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			answers, err := Run(0, q, tt.goal)
			require.NoError(t, err)
			assert.Equal(t, tt.want, strs(answers))
		})
	}

	t.Run("condition errors propagate", func(t *testing.T) {
		_, err := Run(0, q, Ifte(MemberOf(q, Fresh("c")), Succeed, Succeed))
		assert.ErrorIs(t, err, ErrUnresolvableGoalOrder)
	})
}
