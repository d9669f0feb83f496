// Package minikanren provides a relational (logic programming) engine in Go,
// tuned for pattern matching over symbolic expression trees.
//
// miniKanren is a domain-specific language for logic programming. Programs
// are built from a small set of operators:
//   - Unification (Eq): constrains two terms to be equal
//   - Fresh variables: introduce new logic variables
//   - Disjunction (Lany, Conde): represents choice points
//   - Conjunction (Lall): combines goals that must all succeed
//   - Run: executes goals and returns reified answers
//
// Evaluation is single-threaded and pull based: a goal applied to a
// substitution returns a lazy *Stream that computes one answer per pull.
// Independent calls to Run are re-entrant and may proceed concurrently.
//
// Goals are data before they are functions. A goal may be an evaluable Goal
// or a deferred descriptor built with Call; descriptors are only expanded
// against the substitution in force when a combinator reaches them, which lets
// conjunctions reorder goals that cannot be constructed yet.
package minikanren

import (
	"fmt"
	"reflect"
	"strings"
)

// Term represents any value in the miniKanren universe.
// Terms are atoms, variables, tuples, maps, or user-defined compound values.
// Terms are immutable once constructed.
type Term interface {
	// String returns a human-readable representation of the term.
	String() string

	// Equal checks if this term is structurally equal to another term.
	// This is different from unification - it's a strict equality check.
	Equal(other Term) bool

	// IsVar returns true if this term is a logic variable.
	IsVar() bool
}

// Var represents a logic variable.
// Two variables are the same variable iff their ids are equal.
type Var struct {
	id   int64  // Unique identifier
	name string // Optional name for debugging
}

// String returns a string representation of the variable.
func (v *Var) String() string {
	if v.name != "" {
		return fmt.Sprintf("~%s_%d", v.name, v.id)
	}
	return fmt.Sprintf("~_%d", v.id)
}

// Equal checks if two variables are the same variable.
func (v *Var) Equal(other Term) bool {
	if otherVar, ok := other.(*Var); ok {
		return v.id == otherVar.id
	}
	return false
}

// IsVar always returns true for variables.
func (v *Var) IsVar() bool {
	return true
}

// ID returns the variable's unique identifier.
func (v *Var) ID() int64 {
	return v.id
}

// Name returns the debugging name given at creation.
func (v *Var) Name() string {
	return v.name
}

// Atom represents an atomic value (symbol, number, string, etc.).
// Atoms have no operator/argument decomposition and represent themselves.
type Atom struct {
	value any // The underlying Go value
}

// NewAtom creates a new atom from any Go value.
func NewAtom(value any) *Atom {
	return &Atom{value: value}
}

// String returns a string representation of the atom.
func (a *Atom) String() string {
	if s, ok := a.value.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", a.value)
}

// Equal checks if two atoms hold equal values.
func (a *Atom) Equal(other Term) bool {
	if otherAtom, ok := other.(*Atom); ok {
		return valuesEqual(a.value, otherAtom.value)
	}
	return false
}

// IsVar always returns false for atoms.
func (a *Atom) IsVar() bool {
	return false
}

// Value returns the underlying Go value.
func (a *Atom) Value() any {
	return a.value
}

// valuesEqual compares atom payloads without panicking on incomparable values.
func valuesEqual(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	ta, tb := reflect.TypeOf(a), reflect.TypeOf(b)
	if ta != tb {
		return false
	}
	if ta.Comparable() {
		return a == b
	}
	return reflect.DeepEqual(a, b)
}

// Tuple is an ordered sequence of terms. Tuples unify elementwise and, when
// non-empty, decompose as an operator (the first element) applied to the
// remaining elements:
//
//	NewTuple("add", 1, 2)  // operator add, arguments (1 2)
type Tuple []Term

// NewTuple builds a tuple, converting plain Go values with TermOf.
func NewTuple(items ...any) Tuple {
	t := make(Tuple, len(items))
	for i, item := range items {
		t[i] = TermOf(item)
	}
	return t
}

// String renders the tuple in prefix form, e.g. (add 1 2).
func (t Tuple) String() string {
	parts := make([]string, len(t))
	for i, e := range t {
		parts[i] = e.String()
	}
	return "(" + strings.Join(parts, " ") + ")"
}

// Equal checks elementwise structural equality.
func (t Tuple) Equal(other Term) bool {
	o, ok := other.(Tuple)
	if !ok || len(o) != len(t) {
		return false
	}
	for i := range t {
		if !t[i].Equal(o[i]) {
			return false
		}
	}
	return true
}

// IsVar always returns false for tuples.
func (t Tuple) IsVar() bool {
	return false
}

// Map is a key/value mapping term. Keys are comparable Go values; two maps
// unify when they have identical key sets and their values unify.
type Map map[any]Term

// String renders the map with keys in canonical order.
func (m Map) String() string {
	keys := sortedKeys(m)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%v: %s", k, m[k].String())
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

// Equal checks that both maps have the same keys bound to equal terms.
func (m Map) Equal(other Term) bool {
	o, ok := other.(Map)
	if !ok || len(o) != len(m) {
		return false
	}
	for k, v := range m {
		ov, exists := o[k]
		if !exists || !v.Equal(ov) {
			return false
		}
	}
	return true
}

// IsVar always returns false for maps.
func (m Map) IsVar() bool {
	return false
}

// sameKeys reports whether two maps have identical key sets.
func sameKeys(a, b Map) bool {
	if len(a) != len(b) {
		return false
	}
	for k := range a {
		if _, ok := b[k]; !ok {
			return false
		}
	}
	return true
}

// TermOf converts a Go value into a Term:
//   - Term values are returned unchanged
//   - []any and []Term become Tuples
//   - map[string]any, map[any]any and map[string]Term become Maps
//   - anything else becomes an Atom
func TermOf(v any) Term {
	switch x := v.(type) {
	case Term:
		return x
	case []Term:
		return Tuple(x)
	case []any:
		return NewTuple(x...)
	case map[string]Term:
		m := make(Map, len(x))
		for k, e := range x {
			m[k] = e
		}
		return m
	case map[string]any:
		m := make(Map, len(x))
		for k, e := range x {
			m[k] = TermOf(e)
		}
		return m
	case map[any]any:
		m := make(Map, len(x))
		for k, e := range x {
			m[k] = TermOf(e)
		}
		return m
	default:
		return NewAtom(v)
	}
}
