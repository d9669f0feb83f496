// Package program loads logic programs written in YAML: operator
// declarations, fact relations and named queries whose goals are built from
// the minikanren and assoccomm packages.
//
// A program looks like:
//
//	associative: [add, mul]
//	commutative: [add, mul]
//	relations:
//	  parent: {arity: 2, index: [0]}
//	facts:
//	  parent: [[alice, bob], [bob, carol]]
//	queries:
//	  - name: comm
//	    query: "?x"
//	    goals:
//	      - eq_comm: [[add, 1, "?x"], [add, 2, 1]]
//
// Strings starting with "?" are logic variables, scoped to one query.
// Lists are tuples whose first element is the operator.
package program

import (
	"errors"
	"fmt"
	"os"
	"slices"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"

	"github.com/gitrdm/gokanterm/pkg/assoccomm"
	mk "github.com/gitrdm/gokanterm/pkg/minikanren"
)

// ErrInvalidProgram wraps every structural problem found while loading.
var ErrInvalidProgram = errors.New("invalid program")

// Program is a loaded program, ready to solve.
type Program struct {
	Registry  *assoccomm.Registry
	Matcher   *assoccomm.Matcher
	Database  *mk.Database
	Relations map[string]*mk.Relation
	Queries   []mk.Query
}

// RelationSpec declares a fact relation.
type RelationSpec struct {
	Arity int   `mapstructure:"arity"`
	Index []int `mapstructure:"index"`
}

// QuerySpec is one entry of the queries list before its goals are built.
type QuerySpec struct {
	Name  string `mapstructure:"name"`
	Query any    `mapstructure:"query"`
	Limit int    `mapstructure:"limit"`
	Goals []any  `mapstructure:"goals"`
}

type document struct {
	Associative []any            `yaml:"associative"`
	Commutative []any            `yaml:"commutative"`
	Relations   map[string]any   `yaml:"relations"`
	Facts       map[string][]any `yaml:"facts"`
	Queries     []any            `yaml:"queries"`
}

// Load reads and parses the program at path.
func Load(path string) (*Program, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read program: %w", err)
	}
	prog, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return prog, nil
}

// Parse builds a program from its YAML source.
func Parse(data []byte) (*Program, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidProgram, err)
	}

	reg, err := declare(doc)
	if err != nil {
		return nil, err
	}
	prog := &Program{
		Registry:  reg,
		Matcher:   assoccomm.NewMatcher(reg),
		Database:  mk.NewDatabase(),
		Relations: make(map[string]*mk.Relation, len(doc.Relations)),
	}
	if err := prog.loadRelations(doc.Relations); err != nil {
		return nil, err
	}
	if err := prog.loadFacts(doc.Facts); err != nil {
		return nil, err
	}
	for i, raw := range doc.Queries {
		q, err := prog.loadQuery(i, raw)
		if err != nil {
			return nil, err
		}
		prog.Queries = append(prog.Queries, q)
	}
	return prog, nil
}

func declare(doc document) (*assoccomm.Registry, error) {
	sc := mk.NewScope()
	ops := func(raw []any) ([]any, error) {
		out := make([]any, len(raw))
		for i, r := range raw {
			t, err := termOf(r, sc)
			if err != nil {
				return nil, err
			}
			out[i] = t
		}
		return out, nil
	}

	assoc, err := ops(doc.Associative)
	if err != nil {
		return nil, fmt.Errorf("associative: %w", err)
	}
	comm, err := ops(doc.Commutative)
	if err != nil {
		return nil, fmt.Errorf("commutative: %w", err)
	}
	reg, err := assoccomm.NewRegistry().DeclareAssociative(assoc...)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidProgram, err)
	}
	if reg, err = reg.DeclareCommutative(comm...); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidProgram, err)
	}
	return reg, nil
}

func (p *Program) loadRelations(raw map[string]any) error {
	for _, name := range sortedNames(raw) {
		var spec RelationSpec
		if err := mapstructure.Decode(raw[name], &spec); err != nil {
			return fmt.Errorf("%w: relation %s: %v", ErrInvalidProgram, name, err)
		}
		rel, err := mk.DbRel(name, spec.Arity, spec.Index...)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidProgram, err)
		}
		p.Relations[name] = rel
	}
	return nil
}

func (p *Program) loadFacts(raw map[string][]any) error {
	sc := mk.NewScope()
	for _, name := range sortedNames(raw) {
		rel, ok := p.Relations[name]
		if !ok {
			return fmt.Errorf("%w: facts for undeclared relation %s", ErrInvalidProgram, name)
		}
		for i, row := range raw[name] {
			cols, ok := row.([]any)
			if !ok {
				return fmt.Errorf("%w: fact %s[%d] is not a list", ErrInvalidProgram, name, i)
			}
			terms := make([]any, len(cols))
			for j, c := range cols {
				t, err := termOf(c, sc)
				if err != nil {
					return fmt.Errorf("fact %s[%d]: %w", name, i, err)
				}
				terms[j] = t
			}
			db, err := p.Database.AddFact(rel, terms...)
			if err != nil {
				return fmt.Errorf("%w: %v", ErrInvalidProgram, err)
			}
			p.Database = db
		}
	}
	return nil
}

func (p *Program) loadQuery(i int, raw any) (mk.Query, error) {
	var spec QuerySpec
	if err := mapstructure.Decode(raw, &spec); err != nil {
		return mk.Query{}, fmt.Errorf("%w: query %d: %v", ErrInvalidProgram, i, err)
	}
	if spec.Name == "" {
		spec.Name = fmt.Sprintf("query%d", i+1)
	}
	if spec.Query == nil {
		return mk.Query{}, fmt.Errorf("%w: query %s: missing query term", ErrInvalidProgram, spec.Name)
	}

	sc := mk.NewScope()
	term, err := termOf(spec.Query, sc)
	if err != nil {
		return mk.Query{}, fmt.Errorf("query %s: %w", spec.Name, err)
	}
	b := &builder{prog: p, scope: sc}
	goals, err := b.goals(spec.Goals)
	if err != nil {
		return mk.Query{}, fmt.Errorf("query %s: %w", spec.Name, err)
	}
	return mk.Query{Name: spec.Name, Limit: spec.Limit, Term: term, Goals: goals}, nil
}

// termOf converts decoded YAML into a term. "?name" strings become the
// scope's variable for name.
func termOf(v any, sc *mk.Scope) (mk.Term, error) {
	switch x := v.(type) {
	case string:
		if len(x) > 1 && x[0] == '?' {
			return sc.Var(x[1:]), nil
		}
		return mk.NewAtom(x), nil
	case []any:
		t := make(mk.Tuple, len(x))
		for i, e := range x {
			var err error
			if t[i], err = termOf(e, sc); err != nil {
				return nil, err
			}
		}
		return t, nil
	case map[string]any:
		m := make(mk.Map, len(x))
		for k, e := range x {
			var err error
			if m[k], err = termOf(e, sc); err != nil {
				return nil, err
			}
		}
		return m, nil
	case nil:
		return nil, fmt.Errorf("%w: null term", ErrInvalidProgram)
	default:
		return mk.NewAtom(x), nil
	}
}

func sortedNames[V any](m map[string]V) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
