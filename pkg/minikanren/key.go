package minikanren

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// Key returns a canonical structural key for a term. Two terms have the same
// key iff they are structurally equal, so keys can index deduplication sets.
// Atom payloads are tagged with their Go type, so 1 and "1" differ.
func Key(t Term) string {
	var b strings.Builder
	writeKey(&b, t)
	return b.String()
}

func writeKey(b *strings.Builder, t Term) {
	switch x := t.(type) {
	case nil:
		b.WriteString("<nil>")
	case *Var:
		b.WriteByte('~')
		b.WriteString(strconv.FormatInt(x.id, 10))
	case *Atom:
		fmt.Fprintf(b, "%T:%#v", x.value, x.value)
	case Tuple:
		b.WriteByte('(')
		for i, e := range x {
			if i > 0 {
				b.WriteByte(' ')
			}
			writeKey(b, e)
		}
		b.WriteByte(')')
	case Map:
		b.WriteByte('{')
		for i, k := range sortedKeys(x) {
			if i > 0 {
				b.WriteByte(' ')
			}
			b.WriteString(atomKey(k))
			b.WriteByte('=')
			writeKey(b, x[k])
		}
		b.WriteByte('}')
	case Compound:
		fmt.Fprintf(b, "%T[", x)
		writeKey(b, x.Operator())
		for _, a := range x.Arguments() {
			b.WriteByte(' ')
			writeKey(b, a)
		}
		b.WriteByte(']')
	default:
		fmt.Fprintf(b, "%T:%s", x, x.String())
	}
}

func atomKey(v any) string {
	return fmt.Sprintf("%T:%#v", v, v)
}

// sortedKeys returns map keys in a deterministic order.
func sortedKeys(m Map) []any {
	keys := make([]any, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, func(a, b any) int {
		return strings.Compare(atomKey(a), atomKey(b))
	})
	return keys
}
