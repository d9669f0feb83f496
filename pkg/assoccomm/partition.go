package assoccomm

import (
	mk "github.com/gitrdm/gokanterm/pkg/minikanren"
)

// GroupSizes returns every ordered composition of total into parts
// positive integers, in lexicographic order.
//
//	GroupSizes(4, 2)  // [[1 3] [2 2] [3 1]]
//	GroupSizes(4, 1)  // [[4]]
func GroupSizes(total, parts int) [][]int {
	var out [][]int
	next := groupSizes(total, parts)
	for {
		sizes, ok := next()
		if !ok {
			return out
		}
		out = append(out, sizes)
	}
}

// groupSizes returns a cursor over the compositions of total into parts.
// Each call returns a fresh slice.
func groupSizes(total, parts int) func() ([]int, bool) {
	if parts <= 0 || total < parts {
		return func() ([]int, bool) { return nil, false }
	}
	var cur []int
	return func() ([]int, bool) {
		if cur == nil {
			cur = make([]int, parts)
			for i := range cur {
				cur[i] = 1
			}
			cur[parts-1] = total - parts + 1
			return append([]int(nil), cur...), true
		}
		// Increment the rightmost position whose suffix can give up one unit,
		// then reset everything after it to the smallest composition.
		suffix := cur[parts-1]
		for i := parts - 2; i >= 0; i-- {
			if suffix > parts-1-i {
				cur[i]++
				rest := suffix - 1
				for j := i + 1; j < parts-1; j++ {
					cur[j] = 1
					rest--
				}
				cur[parts-1] = rest
				return append([]int(nil), cur...), true
			}
			suffix += cur[i]
		}
		return nil, false
	}
}

// Partition slices seq into consecutive chunks of the given sizes. The sizes
// must sum to len(seq).
//
//	Partition((a b c d), [1 3])  // [(a) (b c d)]
func Partition(seq []mk.Term, sizes []int) [][]mk.Term {
	out := make([][]mk.Term, len(sizes))
	idx := 0
	for i, n := range sizes {
		out[i] = seq[idx : idx+n : idx+n]
		idx += n
	}
	return out
}

// MakeOps rebuilds each group as an argument of op: a group of one element
// stays the bare element, larger groups become op(group...).
func MakeOps(op mk.Term, groups [][]mk.Term) []mk.Term {
	return makeOps(builderOf(op), groups)
}

// builder creates op(args...) for a fixed operator and representation.
type builder func(args []mk.Term) mk.Term

func builderOf(op mk.Term) builder {
	return func(args []mk.Term) mk.Term { return mk.Build(op, args) }
}

// builderLike rebuilds in the representation of c with c's operator.
func builderLike(c mk.Compound) builder {
	op := c.Operator()
	return func(args []mk.Term) mk.Term { return c.Rebuild(op, args) }
}

func makeOps(build builder, groups [][]mk.Term) []mk.Term {
	out := make([]mk.Term, len(groups))
	for i, g := range groups {
		if len(g) == 1 {
			out[i] = g[0]
		} else {
			out[i] = build(g)
		}
	}
	return out
}

// AssocSized returns every way of regrouping args under the associative
// operator op into exactly n arguments, in GroupSizes order.
//
//	AssocSized(add, (1 2 3), 2)  // [(1 (add 2 3)) ((add 1 2) 3)]
func AssocSized(op mk.Term, args []mk.Term, n int) [][]mk.Term {
	var out [][]mk.Term
	next := assocSized(builderOf(op), args, n)
	for {
		g, ok := next()
		if !ok {
			return out
		}
		out = append(out, g)
	}
}

func assocSized(build builder, args []mk.Term, n int) func() ([]mk.Term, bool) {
	sizes := groupSizes(len(args), n)
	return func() ([]mk.Term, bool) {
		gs, ok := sizes()
		if !ok {
			return nil, false
		}
		return makeOps(build, Partition(args, gs)), true
	}
}
