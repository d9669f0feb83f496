package minikanren

import (
	"errors"
	"fmt"
)

// ErrNotCompound is returned when an operator/argument decomposition is
// requested for a term that has none. It signals a registration or
// programming error, not a failed match.
var ErrNotCompound = errors.New("term has no operator/argument decomposition")

// Compound is implemented by terms that decompose into an operator applied
// to an ordered sequence of arguments. Unification and the AC extension only
// ever look at compound terms through this interface.
//
// User-defined expression nodes participate by implementing Compound.
// Rebuild returns a node of the receiver's own representation, so walking
// or copying a node never changes its Go type. Operator values may also
// implement Constructor so that Build can create nodes from the operator
// alone.
type Compound interface {
	Term
	Operator() Term
	Arguments() []Term
	Rebuild(op Term, args []Term) Term
}

// Constructor is implemented by operator values that build their own
// compound representation.
type Constructor interface {
	Term
	Construct(args []Term) Term
}

// Operator returns the tuple's first element. It panics on an empty tuple;
// use OperatorOf for a checked decomposition.
func (t Tuple) Operator() Term {
	return t[0]
}

// Arguments returns the elements after the operator.
func (t Tuple) Arguments() []Term {
	if len(t) == 0 {
		return nil
	}
	return t[1:]
}

// Rebuild returns the tuple (op args...).
func (t Tuple) Rebuild(op Term, args []Term) Term {
	out := make(Tuple, 0, len(args)+1)
	out = append(out, op)
	return append(out, args...)
}

// AsCompound reports whether t decomposes into operator and arguments.
// Variables, atoms, maps and empty tuples do not.
func AsCompound(t Term) (Compound, bool) {
	switch x := t.(type) {
	case *Var, *Atom, Map, nil:
		return nil, false
	case Tuple:
		if len(x) == 0 {
			return nil, false
		}
		return x, true
	case Compound:
		return x, true
	default:
		return nil, false
	}
}

// OperatorOf returns the operator of a compound term.
func OperatorOf(t Term) (Term, error) {
	c, ok := AsCompound(t)
	if !ok {
		return nil, fmt.Errorf("operator of %v: %w", t, ErrNotCompound)
	}
	return c.Operator(), nil
}

// ArgumentsOf returns the arguments of a compound term.
func ArgumentsOf(t Term) ([]Term, error) {
	c, ok := AsCompound(t)
	if !ok {
		return nil, fmt.Errorf("arguments of %v: %w", t, ErrNotCompound)
	}
	return c.Arguments(), nil
}

// Build constructs the compound term op(args...). Operators implementing
// Constructor build their own representation; any other operator yields a
// Tuple with op in head position. Use Compound.Rebuild to keep the
// representation of an existing node.
func Build(op Term, args []Term) Term {
	if c, ok := op.(Constructor); ok {
		return c.Construct(args)
	}
	return Tuple(nil).Rebuild(op, args)
}
