package minikanren

import (
	"context"
)

// CopyTerm creates a goal that unifies copy with a structurally identical
// version of original in which every unbound variable is replaced by a
// fresh one. Sharing is preserved: a variable that occurs twice in original
// is replaced by the same fresh variable both times.
//
// Example:
//
//	x := Fresh("x")
//	original := NewTuple(x, "hello", x)
//	// copy becomes (~_1 hello ~_1) for a fresh ~_1
func CopyTerm(original, copy any) Goal {
	o, c := TermOf(original), TermOf(copy)
	return func(ctx context.Context, s *Substitution) *Stream {
		varMap := make(map[int64]*Var)
		copied := copyTermRecursive(s.DeepWalk(o), varMap)
		return Eq(c, copied)(ctx, s)
	}
}

// copyTermRecursive performs the actual copying with variable tracking.
func copyTermRecursive(term Term, varMap map[int64]*Var) Term {
	switch t := term.(type) {
	case *Var:
		if fresh, exists := varMap[t.id]; exists {
			return fresh
		}
		fresh := Fresh(t.name)
		varMap[t.id] = fresh
		return fresh

	case *Atom:
		return t

	case Tuple:
		out := make(Tuple, len(t))
		for i, e := range t {
			out[i] = copyTermRecursive(e, varMap)
		}
		return out

	case Map:
		out := make(Map, len(t))
		for k, e := range t {
			out[k] = copyTermRecursive(e, varMap)
		}
		return out

	case Compound:
		args := t.Arguments()
		copied := make([]Term, len(args))
		for i, a := range args {
			copied[i] = copyTermRecursive(a, varMap)
		}
		return t.Rebuild(copyTermRecursive(t.Operator(), varMap), copied)

	default:
		return term
	}
}

// Vars returns the distinct unbound variables reachable from term under s,
// in first-occurrence order.
func Vars(term Term, s *Substitution) []*Var {
	var out []*Var
	seen := make(map[int64]bool)
	var walk func(Term)
	walk = func(t Term) {
		t = s.Walk(t)
		switch x := t.(type) {
		case *Var:
			if !seen[x.id] {
				seen[x.id] = true
				out = append(out, x)
			}
		case Tuple:
			for _, e := range x {
				walk(e)
			}
		case Map:
			for _, k := range sortedKeys(x) {
				walk(x[k])
			}
		case *Atom:
		default:
			if c, ok := AsCompound(t); ok {
				walk(c.Operator())
				for _, a := range c.Arguments() {
					walk(a)
				}
			}
		}
	}
	walk(term)
	return out
}
