package domain

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrStateNotFound is returned by stores when no usable state exists
// under the requested key (absent, or present but undecodable).
var ErrStateNotFound = errors.New("saved state not found")

// StepRangeError reports a step index outside [0, Total).
type StepRangeError struct {
	Index int
	Total int
}

func (e *StepRangeError) Error() string {
	return fmt.Sprintf("step index %d out of range [0,%d)", e.Index, e.Total)
}

// UnknownFieldError reports keys that do not map to any patchable field.
type UnknownFieldError struct {
	Keys []string
}

func (e *UnknownFieldError) Error() string {
	keys := make([]string, len(e.Keys))
	copy(keys, e.Keys)
	sort.Strings(keys)
	return fmt.Sprintf("unknown fields: %s", strings.Join(keys, ", "))
}
