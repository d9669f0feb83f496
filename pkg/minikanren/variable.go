package minikanren

import (
	"fmt"
	"sync"
	"sync/atomic"
)

// Variable counter for generating unique variable IDs
var varCounter int64

// Fresh creates a new logic variable with an optional name for debugging.
// Each call to Fresh generates a variable with a globally unique ID,
// ensuring no variable conflicts even in concurrent environments.
//
// Example:
//
//	x := Fresh("x")  // Creates a variable named x
//	y := Fresh("")   // Creates an anonymous variable
func Fresh(name string) *Var {
	id := atomic.AddInt64(&varCounter, 1)
	return &Var{id: id, name: name}
}

// FreshN creates n anonymous variables.
func FreshN(n int) []*Var {
	vars := make([]*Var, n)
	for i := range vars {
		vars[i] = Fresh("")
	}
	return vars
}

// Scope derives variables deterministically from caller-supplied keys:
// within one scope, the same key always yields the same variable.
// A Scope is safe for concurrent use.
type Scope struct {
	mu   sync.Mutex
	vars map[any]*Var
}

// NewScope creates an empty variable scope.
func NewScope() *Scope {
	return &Scope{vars: make(map[any]*Var)}
}

// Var returns the variable for key, creating it on first use.
// The key must be comparable.
func (sc *Scope) Var(key any) *Var {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	if v, ok := sc.vars[key]; ok {
		return v
	}
	v := Fresh(fmt.Sprint(key))
	sc.vars[key] = v
	return v
}

// Len returns the number of variables derived so far.
func (sc *Scope) Len() int {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	return len(sc.vars)
}
