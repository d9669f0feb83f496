package minikanren

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// opSym is an operator that builds node terms, standing in for a
// user-defined expression type.
type opSym string

func (o opSym) String() string { return string(o) }
func (o opSym) Equal(t Term) bool {
	p, ok := t.(opSym)
	return ok && p == o
}
func (o opSym) IsVar() bool                { return false }
func (o opSym) Construct(args []Term) Term { return &node{op: o, args: args} }

type node struct {
	op   Term
	args []Term
}

func (n *node) String() string    { return "node" + append(Tuple{n.op}, n.args...).String() }
func (n *node) Equal(t Term) bool { return Key(n) == Key(t) }
func (n *node) IsVar() bool       { return false }
func (n *node) Operator() Term    { return n.op }
func (n *node) Arguments() []Term { return n.args }

func (n *node) Rebuild(op Term, args []Term) Term {
	return &node{op: op, args: args}
}

func newNode(op string, args ...any) *node {
	return opSym(op).Construct(NewTuple(args...)).(*node)
}

func TestVar(t *testing.T) {
	t.Run("Fresh creates unique variables", func(t *testing.T) {
		v1 := Fresh("x")
		v2 := Fresh("x")
		assert.False(t, v1.Equal(v2))
		assert.NotEqual(t, v1.ID(), v2.ID())
		assert.True(t, v1.Equal(v1))
	})

	t.Run("string representation", func(t *testing.T) {
		v := Fresh("test")
		assert.Contains(t, v.String(), "test")
		assert.Equal(t, "test", v.Name())
		assert.NotEqual(t, Fresh("").String(), Fresh("").String())
	})

	t.Run("IsVar", func(t *testing.T) {
		assert.True(t, Fresh("x").IsVar())
		assert.False(t, NewAtom(1).IsVar())
		assert.False(t, NewTuple(1).IsVar())
		assert.False(t, Map{}.IsVar())
	})

	t.Run("FreshN", func(t *testing.T) {
		vars := FreshN(3)
		require.Len(t, vars, 3)
		assert.False(t, vars[0].Equal(vars[1]))
	})
}

func TestAtom(t *testing.T) {
	tests := []struct {
		name  string
		a, b  any
		equal bool
	}{
		{"same string", "hello", "hello", true},
		{"different string", "hello", "world", false},
		{"same int", 42, 42, true},
		{"int and string differ", 1, "1", false},
		{"int and int64 differ", 1, int64(1), false},
		{"incomparable slices", []int{1, 2}, []int{1, 2}, true},
		{"nil payloads", nil, nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.equal, NewAtom(tt.a).Equal(NewAtom(tt.b)))
			assert.Equal(t, tt.equal, Key(NewAtom(tt.a)) == Key(NewAtom(tt.b)))
		})
	}

	assert.Equal(t, "42", NewAtom(42).String())
	assert.Equal(t, "add", NewAtom("add").String())
	assert.Equal(t, 42, NewAtom(42).Value())
}

func TestTermOf(t *testing.T) {
	x := Fresh("x")

	t.Run("terms pass through", func(t *testing.T) {
		assert.Same(t, x, TermOf(x))
	})

	t.Run("slices become tuples", func(t *testing.T) {
		got := TermOf([]any{"add", 1, x})
		require.IsType(t, Tuple{}, got)
		assert.Equal(t, "(add 1 "+x.String()+")", got.String())
		assert.IsType(t, Tuple{}, TermOf([]Term{NewAtom(1)}))
	})

	t.Run("maps become maps", func(t *testing.T) {
		got := TermOf(map[string]any{"b": 2, "a": 1})
		require.IsType(t, Map{}, got)
		assert.Equal(t, "{a: 1, b: 2}", got.String())
	})

	t.Run("everything else becomes an atom", func(t *testing.T) {
		assert.IsType(t, &Atom{}, TermOf(3.5))
	})
}

func TestCompound(t *testing.T) {
	t.Run("tuples decompose", func(t *testing.T) {
		tup := NewTuple("add", 1, 2)
		op, err := OperatorOf(tup)
		require.NoError(t, err)
		assert.True(t, op.Equal(NewAtom("add")))

		args, err := ArgumentsOf(tup)
		require.NoError(t, err)
		assert.Equal(t, "(1 2)", Tuple(args).String())
	})

	t.Run("non-compound terms report ErrNotCompound", func(t *testing.T) {
		for _, term := range []Term{NewAtom(1), Fresh("x"), Tuple{}, Map{}} {
			_, err := OperatorOf(term)
			assert.ErrorIs(t, err, ErrNotCompound)
			_, err = ArgumentsOf(term)
			assert.ErrorIs(t, err, ErrNotCompound)
		}
	})

	t.Run("Build uses the operator's constructor", func(t *testing.T) {
		built := Build(opSym("add"), NewTuple(1, 2))
		require.IsType(t, &node{}, built)
		assert.Equal(t, "node(add 1 2)", built.String())

		assert.IsType(t, Tuple{}, Build(NewAtom("add"), NewTuple(1, 2)))
	})

	t.Run("nodes keep their type when reified", func(t *testing.T) {
		// The operator is a plain atom with no constructor.
		x := Fresh("x")
		n := &node{op: NewAtom("f"), args: []Term{x}}

		answers, err := Run(0, n, Eq(x, 1))
		require.NoError(t, err)
		require.Len(t, answers, 1)
		require.IsType(t, &node{}, answers[0])
		assert.Equal(t, "node(f 1)", answers[0].String())

		_, ok := Unify(answers[0], &node{op: NewAtom("f"), args: []Term{NewAtom(1)}}, NewSubstitution())
		assert.True(t, ok)

		c := Fresh("c")
		answers, err = Run(0, c, CopyTerm(n, c))
		require.NoError(t, err)
		require.Len(t, answers, 1)
		assert.IsType(t, &node{}, answers[0])
	})

	t.Run("call arguments keep their type", func(t *testing.T) {
		x := Fresh("x")
		seen := Fresh("seen")
		n := &node{op: NewAtom("f"), args: []Term{x}}
		inspect := Call("inspect", func(args []Term) Expansion {
			_, ok := args[0].(*node)
			return Ready(Eq(seen, ok))
		}, n)

		answers, err := Run(0, seen, Eq(x, 2), inspect)
		require.NoError(t, err)
		assert.Equal(t, []string{"true"}, strs(answers))
	})
}

func TestKey(t *testing.T) {
	x := Fresh("x")
	tests := []struct {
		name  string
		a, b  Term
		equal bool
	}{
		{"equal tuples", NewTuple("add", 1, 2), NewTuple("add", 1, 2), true},
		{"argument order matters", NewTuple("add", 1, 2), NewTuple("add", 2, 1), false},
		{"nesting matters", NewTuple(1, NewTuple(2, 3)), NewTuple(NewTuple(1, 2), 3), false},
		{"same variable", x, x, true},
		{"different variables", x, Fresh("x"), false},
		{"maps ignore insertion order", TermOf(map[string]any{"a": 1, "b": 2}), TermOf(map[string]any{"b": 2, "a": 1}), true},
		{"node vs tuple", newNode("add", 1, 2), NewTuple(opSym("add"), 1, 2), false},
		{"equal nodes", newNode("add", 1, 2), newNode("add", 1, 2), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.equal, Key(tt.a) == Key(tt.b))
		})
	}
}

func TestScope(t *testing.T) {
	sc := NewScope()
	x := sc.Var("x")
	assert.Same(t, x, sc.Var("x"))
	assert.False(t, x.Equal(sc.Var("y")))
	assert.Equal(t, 2, sc.Len())
	assert.False(t, x.Equal(NewScope().Var("x")))
}
