package engine

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ExhaustedError reports that generation targets are unsatisfiable given the
// current state and budget: there is nothing meaningful left to generate, or
// the operation budget ran out before every node target was met.
//
// The error always signals caller misconfiguration (budget too small,
// targets for a schema with nothing to update), never a transient condition;
// the engine performs no retries. The run's partial log and snapshot remain
// attached to the returned Result for inspection.
type ExhaustedError struct {
	// Reason is a human-readable description of why generation stopped.
	Reason string

	// Emitted is the number of operations produced before exhaustion.
	Emitted int

	// Missing maps node type -> remaining deficit at the point of failure.
	// Empty when exhaustion was not target-related.
	Missing map[string]int
}

// Error implements the error interface.
func (e *ExhaustedError) Error() string {
	if len(e.Missing) == 0 {
		return fmt.Sprintf("generation exhausted after %d operations: %s", e.Emitted, e.Reason)
	}
	types := make([]string, 0, len(e.Missing))
	for name := range e.Missing {
		types = append(types, name)
	}
	sort.Strings(types)
	parts := make([]string, 0, len(types))
	for _, name := range types {
		parts = append(parts, fmt.Sprintf("%s=%d", name, e.Missing[name]))
	}
	return fmt.Sprintf("generation exhausted after %d operations: %s (missing: %s)",
		e.Emitted, e.Reason, strings.Join(parts, ", "))
}

// IsExhausted reports whether err is (or wraps) an ExhaustedError.
func IsExhausted(err error) bool {
	var ee *ExhaustedError
	return errors.As(err, &ee)
}
