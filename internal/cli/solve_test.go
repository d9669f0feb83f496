package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	mk "github.com/gitrdm/gokanterm/pkg/minikanren"
)

const testProgram = `
associative: [add]
commutative: [add]
queries:
  - name: assoccomm
    query: "?x"
    goals:
      - eq_assoccomm: [[add, 1, "?x"], [add, 2, 1]]
  - name: members
    query: "?x"
    goals:
      - member_of: ["?x", [a, b, c]]
`

func writeProgram(t *testing.T, src string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "program.yaml")
	require.NoError(t, os.WriteFile(path, []byte(src), 0o644))
	return path
}

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	root := NewRootCommand()
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), errOut.String(), err
}

func TestSolve_JSON(t *testing.T) {
	path := writeProgram(t, testProgram)

	tests := []struct {
		name string
		args []string
		want []jsonResult
	}{
		{
			name: "all queries",
			args: []string{"solve", path, "-o", "json"},
			want: []jsonResult{
				{Name: "assoccomm", Answers: []string{"2"}},
				{Name: "members", Answers: []string{"a", "b", "c"}},
			},
		},
		{
			name: "limit overrides program",
			args: []string{"solve", path, "-o", "json", "-n", "2", "-q", "members"},
			want: []jsonResult{
				{Name: "members", Answers: []string{"a", "b"}},
			},
		},
		{
			name: "sequential workers",
			args: []string{"solve", path, "-o", "json", "-w", "1", "-q", "members,assoccomm"},
			want: []jsonResult{
				{Name: "members", Answers: []string{"a", "b", "c"}},
				{Name: "assoccomm", Answers: []string{"2"}},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, _, err := execute(t, tt.args...)
			require.NoError(t, err)

			var got []jsonResult
			require.NoError(t, json.Unmarshal([]byte(out), &got))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSolve_Text(t *testing.T) {
	path := writeProgram(t, testProgram)

	out, _, err := execute(t, "solve", path, "--no-color", "--metrics")
	require.NoError(t, err)
	assert.Contains(t, out, "assoccomm\n  2\n")
	assert.Contains(t, out, "members\n  a\n  b\n  c\n")
	assert.Contains(t, out, `gokanterm_queries_total{outcome="answers"} 2`)
	assert.Contains(t, out, "gokanterm_answers_total 4")
}

func TestSolve_NoColorLeavesGlobalState(t *testing.T) {
	path := writeProgram(t, testProgram)
	before := color.NoColor

	_, _, err := execute(t, "solve", path, "--no-color")
	require.NoError(t, err)
	assert.Equal(t, before, color.NoColor)
}

type failingWriter struct{ after int }

func (w *failingWriter) Write(p []byte) (int, error) {
	if w.after <= 0 {
		return 0, errors.New("disk full")
	}
	w.after--
	return len(p), nil
}

func TestWriteText(t *testing.T) {
	before := color.NoColor
	color.NoColor = false
	t.Cleanup(func() { color.NoColor = before })

	results := []mk.Result{
		{Name: "found", Answers: []mk.Term{mk.NewAtom(1), mk.NewAtom(2)}},
		{Name: "empty"},
		{Name: "broken", Err: mk.ErrUnresolvableGoalOrder},
	}

	t.Run("plain", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, writeText(&buf, results, true))
		assert.Equal(t, "found\n  1\n  2\nempty\n  no answers\nbroken\n  error: unresolvable goal order\n", buf.String())
	})

	t.Run("colored", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, writeText(&buf, results, false))
		assert.Contains(t, buf.String(), "\x1b[")
	})

	t.Run("write errors are returned", func(t *testing.T) {
		for after := range 6 {
			err := writeText(&failingWriter{after: after}, results, true)
			assert.Error(t, err, "failing after %d writes", after)
		}
	})
}

func TestSolve_QueryError(t *testing.T) {
	path := writeProgram(t, `
queries:
  - name: stuck
    query: "?x"
    goals:
      - member_of: ["?x", "?coll"]
`)

	out, _, err := execute(t, "solve", path, "--no-color")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 of 1 queries failed")
	assert.Contains(t, out, "unresolvable goal order")
}

func TestSolve_BadInput(t *testing.T) {
	path := writeProgram(t, testProgram)

	tests := []struct {
		name string
		args []string
	}{
		{"missing argument", []string{"solve"}},
		{"missing file", []string{"solve", filepath.Join(t.TempDir(), "nope.yaml")}},
		{"unknown format", []string{"solve", path, "-o", "xml"}},
		{"unknown query", []string{"solve", path, "-q", "nope"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := execute(t, tt.args...)
			assert.Error(t, err)
		})
	}
}

func TestVersion(t *testing.T) {
	out, _, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "gokanterm version "+Version)
}
