package assoccomm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	mk "github.com/gitrdm/gokanterm/pkg/minikanren"
)

func newTestRegistry(t *testing.T) *Registry {
	t.Helper()
	reg, err := NewRegistry().DeclareAssociative("add", "mul", "cat")
	require.NoError(t, err)
	reg, err = reg.DeclareCommutative("add", "mul")
	require.NoError(t, err)
	return reg
}

func TestRegistry(t *testing.T) {
	reg := newTestRegistry(t)

	tests := []struct {
		op          any
		assoc, comm bool
	}{
		{"add", true, true},
		{"mul", true, true},
		{"cat", true, false},
		{"sub", false, false},
		{mk.NewAtom("add"), true, true},
	}
	for _, tt := range tests {
		t.Run(mk.TermOf(tt.op).String(), func(t *testing.T) {
			assert.Equal(t, tt.assoc, reg.IsAssociative(tt.op))
			assert.Equal(t, tt.comm, reg.IsCommutative(tt.op))
		})
	}

	t.Run("declaring returns a new registry", func(t *testing.T) {
		base := NewRegistry()
		next, err := base.DeclareCommutative("or")
		require.NoError(t, err)
		assert.False(t, base.IsCommutative("or"))
		assert.True(t, next.IsCommutative("or"))
	})

	t.Run("operators must be ground", func(t *testing.T) {
		_, err := NewRegistry().DeclareAssociative(mk.Fresh("op"))
		assert.Error(t, err)
	})

	t.Run("declaration order", func(t *testing.T) {
		assert.Equal(t, "(add mul cat)", mk.Tuple(reg.Associatives()).String())
		assert.Equal(t, "(add mul)", mk.Tuple(reg.Commutatives()).String())
	})

	t.Run("relation goals enumerate operators", func(t *testing.T) {
		op := mk.Fresh("op")
		answers, err := mk.Run(0, op, reg.Commutative(op))
		require.NoError(t, err)
		assert.Equal(t, []string{"add", "mul"}, strs(answers))

		answers, err = mk.Run(0, op, reg.Associative(op), reg.Commutative(op), mk.Eq(op, "cat"))
		require.NoError(t, err)
		assert.Empty(t, answers)
	})
}

func strs(terms []mk.Term) []string {
	out := make([]string, len(terms))
	for i, t := range terms {
		out[i] = t.String()
	}
	return out
}
