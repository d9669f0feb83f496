package minikanren

import (
	"slices"
	"strconv"
	"strings"
)

// Substitution represents an immutable mapping from variables to terms.
// Extending a substitution returns a new one; the receiver is never
// modified, so branches of a search share substitutions freely.
//
// A substitution never maps a variable to itself, directly or transitively,
// so Walk always terminates.
type Substitution struct {
	bindings map[int64]Term // Maps variable IDs to terms
}

// NewSubstitution creates an empty substitution.
func NewSubstitution() *Substitution {
	return &Substitution{bindings: map[int64]Term{}}
}

// Lookup returns the term bound to a variable, or nil if unbound.
func (s *Substitution) Lookup(v *Var) Term {
	return s.bindings[v.id]
}

// Extend returns a new substitution with v bound to term.
// Binding v to itself returns s unchanged. Rebinding an already bound
// variable to a different term fails rather than overwriting.
func (s *Substitution) Extend(v *Var, term Term) (*Substitution, bool) {
	if w, ok := term.(*Var); ok && w.id == v.id {
		return s, true
	}
	if old, bound := s.bindings[v.id]; bound {
		return s, old.Equal(term)
	}

	bindings := make(map[int64]Term, len(s.bindings)+1)
	for k, t := range s.bindings {
		bindings[k] = t
	}
	bindings[v.id] = term
	return &Substitution{bindings: bindings}, true
}

// Walk traverses a term following variable bindings in the substitution
// until it reaches an unbound variable or a non-variable term.
func (s *Substitution) Walk(term Term) Term {
	for {
		v, ok := term.(*Var)
		if !ok {
			return term
		}
		bound, exists := s.bindings[v.id]
		if !exists {
			return term
		}
		term = bound
	}
}

// DeepWalk resolves every bound variable reachable from term, including
// inside tuples, maps and compound terms.
func (s *Substitution) DeepWalk(term Term) Term {
	term = s.Walk(term)
	switch t := term.(type) {
	case *Var, *Atom:
		return t
	case Tuple:
		out := make(Tuple, len(t))
		for i, e := range t {
			out[i] = s.DeepWalk(e)
		}
		return out
	case Map:
		out := make(Map, len(t))
		for k, e := range t {
			out[k] = s.DeepWalk(e)
		}
		return out
	case Compound:
		args := t.Arguments()
		walked := make([]Term, len(args))
		for i, a := range args {
			walked[i] = s.DeepWalk(a)
		}
		return t.Rebuild(s.DeepWalk(t.Operator()), walked)
	default:
		return t
	}
}

// Size returns the number of bindings in the substitution.
func (s *Substitution) Size() int {
	return len(s.bindings)
}

// ids returns bound variable ids in ascending order.
func (s *Substitution) ids() []int64 {
	ids := make([]int64, 0, len(s.bindings))
	for id := range s.bindings {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// Key returns a canonical representation of the bindings, used to drop
// duplicate substitutions from a stream.
func (s *Substitution) Key() string {
	var b strings.Builder
	for _, id := range s.ids() {
		b.WriteString(strconv.FormatInt(id, 10))
		b.WriteByte('=')
		writeKey(&b, s.bindings[id])
		b.WriteByte(';')
	}
	return b.String()
}

// String returns a string representation of the substitution.
func (s *Substitution) String() string {
	if len(s.bindings) == 0 {
		return "{}"
	}

	parts := make([]string, 0, len(s.bindings))
	for _, id := range s.ids() {
		parts = append(parts, "~_"+strconv.FormatInt(id, 10)+"="+s.bindings[id].String())
	}
	return "{" + strings.Join(parts, ", ") + "}"
}
