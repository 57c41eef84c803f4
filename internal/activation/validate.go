package activation

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

// ValidationError describes a single violation found in an activation vector.
type ValidationError struct {
	Node   string  // offending node name
	Value  float64 // offending value, if applicable
	Reason string  // human-readable violation
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Node, e.Reason)
}

// InvalidVectorError is returned when a vector fails validation. It carries
// every violation found; the vector is never partially applied.
type InvalidVectorError struct {
	Violations []ValidationError
}

func (e *InvalidVectorError) Error() string {
	msgs := make([]string, len(e.Violations))
	for i, v := range e.Violations {
		msgs[i] = v.Error()
	}
	return fmt.Sprintf("invalid activation vector: %s", strings.Join(msgs, "; "))
}

// Validate checks a vector against the node registry. It reports one entry
// per violation: unknown node names, non-finite values, values outside
// [0,1], and registered nodes missing from the vector. It never mutates
// the input and never aborts early; callers decide whether to proceed.
func Validate(v Vector) []ValidationError {
	var errs []ValidationError

	names := make([]string, 0, len(v))
	for name := range v {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		value := v[name]
		if !IsNode(name) {
			errs = append(errs, ValidationError{Node: name, Value: value, Reason: "unknown node name"})
			continue
		}
		if math.IsNaN(value) || math.IsInf(value, 0) {
			errs = append(errs, ValidationError{Node: name, Value: value, Reason: "value is not finite"})
			continue
		}
		if value < 0 || value > 1 {
			errs = append(errs, ValidationError{
				Node:   name,
				Value:  value,
				Reason: fmt.Sprintf("value %g out of range [0,1]", value),
			})
		}
	}

	for _, name := range Nodes {
		if _, ok := v[name]; !ok {
			errs = append(errs, ValidationError{Node: name, Reason: "missing from vector"})
		}
	}

	return errs
}
