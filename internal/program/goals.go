package program

import (
	"fmt"

	mk "github.com/gitrdm/gokanterm/pkg/minikanren"
)

// builder turns decoded goal entries into goal expressions. All entries of
// one query share its variable scope.
type builder struct {
	prog  *Program
	scope *mk.Scope
}

func (b *builder) goals(raw []any) ([]mk.Expr, error) {
	out := make([]mk.Expr, len(raw))
	for i, r := range raw {
		g, err := b.goal(r)
		if err != nil {
			return nil, fmt.Errorf("goal %d: %w", i+1, err)
		}
		out[i] = g
	}
	return out, nil
}

// goal decodes a single-key mapping {kind: args}.
func (b *builder) goal(raw any) (mk.Expr, error) {
	entry, ok := raw.(map[string]any)
	if !ok || len(entry) != 1 {
		return nil, fmt.Errorf("%w: goal must be a mapping with one key, got %v", ErrInvalidProgram, raw)
	}
	for kind, arg := range entry {
		return b.build(kind, arg)
	}
	panic("unreachable")
}

func (b *builder) build(kind string, arg any) (mk.Expr, error) {
	args, ok := arg.([]any)
	if !ok {
		return nil, fmt.Errorf("%w: %s expects a list, got %v", ErrInvalidProgram, kind, arg)
	}

	switch kind {
	case "all", "any":
		goals, err := b.goals(args)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", kind, err)
		}
		if kind == "all" {
			return mk.LallEarly(goals...), nil
		}
		return mk.Lany(goals...), nil

	case "conde":
		clauses := make([][]mk.Expr, len(args))
		for i, c := range args {
			list, ok := c.([]any)
			if !ok {
				return nil, fmt.Errorf("%w: conde clause %d is not a list", ErrInvalidProgram, i+1)
			}
			goals, err := b.goals(list)
			if err != nil {
				return nil, fmt.Errorf("conde clause %d: %w", i+1, err)
			}
			clauses[i] = goals
		}
		return mk.Conde(clauses...), nil

	case "fact":
		if len(args) == 0 {
			return nil, fmt.Errorf("%w: fact needs a relation name", ErrInvalidProgram)
		}
		name, _ := args[0].(string)
		rel, ok := b.prog.Relations[name]
		if !ok {
			return nil, fmt.Errorf("%w: unknown relation %v", ErrInvalidProgram, args[0])
		}
		terms, err := b.terms(args[1:])
		if err != nil {
			return nil, err
		}
		if len(terms) != rel.Arity() {
			return nil, fmt.Errorf("%w: relation %s expects %d terms, got %d", ErrInvalidProgram, name, rel.Arity(), len(terms))
		}
		return b.prog.Database.Query(rel, terms...), nil
	}

	m := b.prog.Matcher
	switch kind {
	case "eq", "member_of", "eq_comm", "eq_assoccomm":
		t, err := b.pair(kind, args)
		if err != nil {
			return nil, err
		}
		switch kind {
		case "eq":
			return mk.Eq(t[0], t[1]), nil
		case "member_of":
			return mk.MemberOf(t[0], t[1]), nil
		case "eq_comm":
			return m.EqComm(t[0], t[1]), nil
		default:
			return m.EqAssocComm(t[0], t[1]), nil
		}

	case "eq_assoc":
		n := 0
		if len(args) == 3 {
			var ok bool
			if n, ok = args[2].(int); !ok {
				return nil, fmt.Errorf("%w: eq_assoc size must be an integer, got %v", ErrInvalidProgram, args[2])
			}
			args = args[:2]
		}
		t, err := b.pair(kind, args)
		if err != nil {
			return nil, err
		}
		return m.EqAssoc(t[0], t[1], n), nil
	}
	return nil, fmt.Errorf("%w: unknown goal kind %q", ErrInvalidProgram, kind)
}

func (b *builder) pair(kind string, args []any) ([]any, error) {
	if len(args) != 2 {
		return nil, fmt.Errorf("%w: %s expects 2 terms, got %d", ErrInvalidProgram, kind, len(args))
	}
	return b.terms(args)
}

func (b *builder) terms(raw []any) ([]any, error) {
	out := make([]any, len(raw))
	for i, r := range raw {
		t, err := termOf(r, b.scope)
		if err != nil {
			return nil, err
		}
		out[i] = t
	}
	return out, nil
}
