package types

import (
	"fmt"
)

// ValidationError is returned when caller input cannot be coerced into a
// load list. It is a client error and is never recovered internally.
type ValidationError struct {
	// Index is the position of the offending load entry, or -1 for
	// request-level fields.
	Index  int    `json:"index"`
	Field  string `json:"field"`
	Value  string `json:"value,omitempty"`
	Reason string `json:"reason"`
}

func (e *ValidationError) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
	}
	return fmt.Sprintf("invalid equipments[%d].%s: %s", e.Index, e.Field, e.Reason)
}
