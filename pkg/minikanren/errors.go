package minikanren

import (
	"errors"
	"fmt"
)

// ErrUnresolvableGoalOrder is reported when every remaining goal of a
// conjunction defers construction, so reordering cannot make progress.
var ErrUnresolvableGoalOrder = errors.New("unresolvable goal order")

// UnresolvableGoalOrderError carries the number of goals that were stuck.
// It matches ErrUnresolvableGoalOrder with errors.Is.
type UnresolvableGoalOrderError struct {
	Goals int
}

func (e *UnresolvableGoalOrderError) Error() string {
	return fmt.Sprintf("%s: all %d remaining goals deferred", ErrUnresolvableGoalOrder, e.Goals)
}

// Is reports whether target is ErrUnresolvableGoalOrder.
func (e *UnresolvableGoalOrderError) Is(target error) bool {
	return target == ErrUnresolvableGoalOrder
}
