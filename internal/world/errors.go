package world

import "fmt"

// UnregisteredElementTypeError reports a placement whose element type has no
// entry in the tile registry. The stage never handles it internally: a
// multi-element spawn stops at the first offender and leaves prior
// placements standing. Malformed level data is a content bug, not a runtime
// condition to recover from.
type UnregisteredElementTypeError struct {
	Type ElementType
}

func (e *UnregisteredElementTypeError) Error() string {
	return fmt.Sprintf("unregistered element type %q", string(e.Type))
}
