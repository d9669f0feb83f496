package minikanren

import "reflect"

// Unify computes the most general extension of s that makes u and v equal.
// It returns (nil, false) when no such extension exists. Failure is ordinary
// control flow and is never reported as an error.
//
// Unification Rules:
//   - Terms that walk to equal values: succeeds with s unchanged
//   - Var == Term: binds the variable to the term
//   - Tuple == Tuple of the same length: unifies elementwise, left to right
//   - Map == Map with identical key sets: unifies values in key order
//   - Compound == Compound of the same Go type: unifies operator, then arguments
//   - Otherwise: fails
//
// There is no occurs check.
func Unify(u, v Term, s *Substitution) (*Substitution, bool) {
	// Walk both terms to their final values
	u = s.Walk(u)
	v = s.Walk(v)

	if u.Equal(v) {
		return s, true
	}

	if uv, ok := u.(*Var); ok {
		return s.Extend(uv, v)
	}
	if vv, ok := v.(*Var); ok {
		return s.Extend(vv, u)
	}

	switch ut := u.(type) {
	case Tuple:
		vt, ok := v.(Tuple)
		if !ok || len(ut) != len(vt) {
			return nil, false
		}
		return unifySeq(ut, vt, s)

	case Map:
		vt, ok := v.(Map)
		if !ok || !sameKeys(ut, vt) {
			return nil, false
		}
		for _, k := range sortedKeys(ut) {
			var ok bool
			if s, ok = Unify(ut[k], vt[k], s); !ok {
				return nil, false
			}
		}
		return s, true

	case *Atom:
		return nil, false
	}

	uc, uok := AsCompound(u)
	vc, vok := AsCompound(v)
	if !uok || !vok || reflect.TypeOf(u) != reflect.TypeOf(v) {
		return nil, false
	}
	ua, va := uc.Arguments(), vc.Arguments()
	if len(ua) != len(va) {
		return nil, false
	}
	s, ok := Unify(uc.Operator(), vc.Operator(), s)
	if !ok {
		return nil, false
	}
	return unifySeq(ua, va, s)
}

// unifySeq unifies equal-length sequences pairwise, threading the
// substitution and failing on the first mismatch.
func unifySeq(us, vs []Term, s *Substitution) (*Substitution, bool) {
	for i := range us {
		var ok bool
		if s, ok = Unify(us[i], vs[i], s); !ok {
			return nil, false
		}
	}
	return s, true
}

// Reify returns term with every variable bound in s replaced by its value.
// Reify is idempotent: Reify(Reify(t, s), s) equals Reify(t, s).
func Reify(term Term, s *Substitution) Term {
	return s.DeepWalk(term)
}
