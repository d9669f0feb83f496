// Package assoccomm extends the minikanren engine with matching modulo
// associativity and commutativity of declared operators.
//
// Operator properties live in an immutable Registry built once at setup:
//
//	reg, _ := assoccomm.NewRegistry().DeclareAssociative("add", "mul")
//	reg, _ = reg.DeclareCommutative("add", "mul")
//	m := assoccomm.NewMatcher(reg)
//
//	x := minikanren.Fresh("x")
//	answers, _ := minikanren.Run(0, x,
//	    m.EqAssocComm(minikanren.NewTuple("add", 1, x), minikanren.NewTuple("add", 2, 1)))
//	// Returns: [2]
//
// The matching goals only look at terms through minikanren.Compound, so
// user-defined expression types participate as long as they implement it.
package assoccomm

import (
	"fmt"

	mk "github.com/gitrdm/gokanterm/pkg/minikanren"
)

var (
	associativeRel = mustRel("associative")
	commutativeRel = mustRel("commutative")
)

func mustRel(name string) *mk.Relation {
	rel, err := mk.DbRel(name, 1, 0)
	if err != nil {
		panic(err)
	}
	return rel
}

// Registry records which operators are associative and which are
// commutative. Declaring returns a new Registry; existing values never
// change, so a Registry can be shared by concurrent searches.
type Registry struct {
	db *mk.Database
}

// NewRegistry creates a registry with no declared operators.
func NewRegistry() *Registry {
	return &Registry{db: mk.NewDatabase()}
}

// DeclareAssociative returns a registry in which ops are associative.
// Operators must be ground terms.
func (r *Registry) DeclareAssociative(ops ...any) (*Registry, error) {
	return r.declare(associativeRel, ops)
}

// DeclareCommutative returns a registry in which ops are commutative.
// Operators must be ground terms.
func (r *Registry) DeclareCommutative(ops ...any) (*Registry, error) {
	return r.declare(commutativeRel, ops)
}

func (r *Registry) declare(rel *mk.Relation, ops []any) (*Registry, error) {
	db := r.db
	for _, op := range ops {
		var err error
		if db, err = db.AddFact(rel, op); err != nil {
			return nil, fmt.Errorf("declare %s operator %v: %w", rel.Name(), op, err)
		}
	}
	return &Registry{db: db}, nil
}

// IsAssociative reports whether op has been declared associative.
func (r *Registry) IsAssociative(op any) bool {
	return r.db.Contains(associativeRel, op)
}

// IsCommutative reports whether op has been declared commutative.
func (r *Registry) IsCommutative(op any) bool {
	return r.db.Contains(commutativeRel, op)
}

// Associative is the relation "op is associative". When op is unbound it
// enumerates every declared associative operator.
func (r *Registry) Associative(op any) mk.Goal {
	return r.db.Query(associativeRel, op)
}

// Commutative is the relation "op is commutative". When op is unbound it
// enumerates every declared commutative operator.
func (r *Registry) Commutative(op any) mk.Goal {
	return r.db.Query(commutativeRel, op)
}

// Associatives returns the declared associative operators in declaration order.
func (r *Registry) Associatives() []mk.Term {
	return column(r.db.AllFacts(associativeRel))
}

// Commutatives returns the declared commutative operators in declaration order.
func (r *Registry) Commutatives() []mk.Term {
	return column(r.db.AllFacts(commutativeRel))
}

func column(facts [][]mk.Term) []mk.Term {
	out := make([]mk.Term, len(facts))
	for i, f := range facts {
		out[i] = f[0]
	}
	return out
}
