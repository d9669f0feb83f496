package program

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	mk "github.com/gitrdm/gokanterm/pkg/minikanren"
)

const algebra = `
associative: [add, mul]
commutative: [add, mul]
relations:
  parent: {arity: 2, index: [0]}
facts:
  parent: [[alice, bob], [bob, carol]]
queries:
  - name: comm
    query: "?x"
    goals:
      - eq_comm: [[add, 1, "?x"], [add, 2, 1]]
  - name: grandchild
    query: "?z"
    goals:
      - fact: [parent, alice, "?y"]
      - fact: [parent, "?y", "?z"]
  - name: choice
    query: "?x"
    limit: 1
    goals:
      - conde:
          - [{eq: ["?x", 1]}]
          - [{eq: ["?x", 2]}]
`

func TestParse(t *testing.T) {
	prog, err := Parse([]byte(algebra))
	require.NoError(t, err)

	assert.True(t, prog.Registry.IsAssociative("add"))
	assert.True(t, prog.Registry.IsCommutative("mul"))
	assert.False(t, prog.Registry.IsCommutative("sub"))
	require.Contains(t, prog.Relations, "parent")
	assert.Equal(t, 2, prog.Database.FactCount(prog.Relations["parent"]))

	require.Len(t, prog.Queries, 3)
	assert.Equal(t, "comm", prog.Queries[0].Name)
	assert.Equal(t, 1, prog.Queries[2].Limit)
}

func TestParse_Solve(t *testing.T) {
	prog, err := Parse([]byte(algebra))
	require.NoError(t, err)

	results := mk.NewSolver().RunBatch(context.Background(), 2, prog.Queries...)
	require.Len(t, results, 3)

	tests := []struct {
		name string
		want []string
	}{
		{"comm", []string{"2"}},
		{"grandchild", []string{"carol"}},
		{"choice", []string{"1"}},
	}
	for i, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := results[i]
			require.NoError(t, r.Err)
			assert.Equal(t, tt.name, r.Name)
			got := make([]string, len(r.Answers))
			for j, a := range r.Answers {
				got[j] = a.String()
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParse_Variables(t *testing.T) {
	src := `
queries:
  - query: ["?x", "?y"]
    goals:
      - eq: ["?x", "?y"]
      - member_of: ["?y", [a, b]]
`
	prog, err := Parse([]byte(src))
	require.NoError(t, err)
	require.Len(t, prog.Queries, 1)

	q := prog.Queries[0]
	assert.Equal(t, "query1", q.Name)
	answers, err := mk.Run(0, q.Term, q.Goals...)
	require.NoError(t, err)
	require.Len(t, answers, 2)
	assert.Equal(t, "(a a)", answers[0].String())
	assert.Equal(t, "(b b)", answers[1].String())
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"malformed yaml", "queries: [unterminated"},
		{"facts for undeclared relation", "facts:\n  edge: [[a, b]]\n"},
		{"bad arity", "relations:\n  edge: {arity: 0}\n"},
		{"non-ground fact", "relations:\n  edge: {arity: 1}\nfacts:\n  edge: [[\"?x\"]]\n"},
		{"missing query term", "queries:\n  - goals: []\n"},
		{"unknown goal kind", "queries:\n  - query: \"?x\"\n    goals:\n      - nope: [1, 2]\n"},
		{"goal with two keys", "queries:\n  - query: \"?x\"\n    goals:\n      - {eq: [1, 1], any: []}\n"},
		{"eq arity", "queries:\n  - query: \"?x\"\n    goals:\n      - eq: [1]\n"},
		{"unknown relation", "queries:\n  - query: \"?x\"\n    goals:\n      - fact: [edge, \"?x\"]\n"},
		{"eq_assoc size", "queries:\n  - query: \"?x\"\n    goals:\n      - eq_assoc: [\"?x\", [add, 1, 2], two]\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.src))
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidProgram)
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "algebra.yaml")
	require.NoError(t, os.WriteFile(path, []byte(algebra), 0o644))

	prog, err := Load(path)
	require.NoError(t, err)
	assert.Len(t, prog.Queries, 3)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
