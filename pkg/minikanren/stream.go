package minikanren

import "context"

// Stream represents a lazy, possibly infinite sequence of substitutions.
// Streams are pull based: nothing is computed until Next is called, and
// each call computes at most one further answer. A partially consumed
// stream can be dropped at any time; it holds no goroutines or external
// resources.
//
// A stream that ends because of an error (for example an unresolvable goal
// order or a cancelled context) reports it through Err, in the manner of
// bufio.Scanner.
type Stream struct {
	pull func() (*Substitution, error) // nil, nil signals exhaustion
	err  error
}

// NewStream creates a stream backed by pull. pull returns (nil, nil) once
// the stream is exhausted and is never called again after that or after
// returning an error.
func NewStream(pull func() (*Substitution, error)) *Stream {
	return &Stream{pull: pull}
}

// Next returns the next substitution, or false when the stream is done.
func (st *Stream) Next() (*Substitution, bool) {
	if st.pull == nil {
		return nil, false
	}
	s, err := st.pull()
	if err != nil {
		st.err = err
		st.pull = nil
		return nil, false
	}
	if s == nil {
		st.pull = nil
		return nil, false
	}
	return s, true
}

// Err returns the error that ended the stream, if any.
func (st *Stream) Err() error {
	return st.err
}

// Take retrieves up to n substitutions from the stream; n <= 0 drains it.
// The boolean reports whether more substitutions might be available.
func (st *Stream) Take(n int) ([]*Substitution, bool) {
	var results []*Substitution
	for n <= 0 || len(results) < n {
		s, ok := st.Next()
		if !ok {
			return results, false
		}
		results = append(results, s)
	}
	return results, st.pull != nil
}

// Empty returns an exhausted stream.
func Empty() *Stream {
	return &Stream{}
}

// Unit returns a stream holding exactly s.
func Unit(s *Substitution) *Stream {
	return FromSlice(s)
}

// FromSlice returns a stream over the given substitutions in order.
func FromSlice(subs ...*Substitution) *Stream {
	i := 0
	return NewStream(func() (*Substitution, error) {
		if i >= len(subs) {
			return nil, nil
		}
		i++
		return subs[i-1], nil
	})
}

// Failed returns a stream that ends immediately with err.
func Failed(err error) *Stream {
	return &Stream{err: err}
}

// Unique drops substitutions whose bindings duplicate an earlier one.
func Unique(st *Stream) *Stream {
	seen := make(map[string]struct{})
	return NewStream(func() (*Substitution, error) {
		for {
			s, ok := st.Next()
			if !ok {
				return nil, st.Err()
			}
			k := s.Key()
			if _, dup := seen[k]; dup {
				continue
			}
			seen[k] = struct{}{}
			return s, nil
		}
	})
}

// Interleave fairly merges the streams produced by next. Every round admits
// at most one new stream from next and then advances each live stream by
// one step, so no stream is advanced twice before all others have been
// advanced once and an answer at finite depth in any stream is eventually
// produced, even when next never runs out.
//
// next returns false once it has no more streams.
func Interleave(ctx context.Context, next func() (*Stream, bool, error)) *Stream {
	var (
		live    []*Stream
		pos     int
		srcDone bool
	)
	return NewStream(func() (*Substitution, error) {
		for {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			if pos >= len(live) {
				if !srcDone {
					st, ok, err := next()
					if err != nil {
						return nil, err
					}
					if ok {
						live = append(live, st)
					} else {
						srcDone = true
					}
				}
				if srcDone && len(live) == 0 {
					return nil, nil
				}
				pos = 0
				continue
			}

			st := live[pos]
			s, ok := st.Next()
			if !ok {
				if err := st.Err(); err != nil {
					return nil, err
				}
				live = append(live[:pos], live[pos+1:]...)
				continue
			}
			pos++
			return s, nil
		}
	})
}
