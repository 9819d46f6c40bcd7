package normalize

import (
	"fmt"
	"strings"
)

// Policy decides what happens to a record with an invalid or missing
// required field: Strict drops it, Lenient keeps it with the field defaulted.
type Policy int

const (
	Strict Policy = iota
	Lenient
)

func (p Policy) String() string {
	if p == Lenient {
		return "lenient"
	}
	return "strict"
}

func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "strict":
		return Strict, nil
	case "lenient":
		return Lenient, nil
	}
	return Strict, fmt.Errorf("unknown normalization policy %q", s)
}

// Result is the output of one normalizer run. Diagnostics describe dropped
// records, defaulted fields and unrecognized payloads; they are never errors.
type Result[T any] struct {
	Records     []T
	Diagnostics []string
}

func newResult[T any]() *Result[T] {
	return &Result[T]{Records: []T{}, Diagnostics: []string{}}
}

func (r *Result[T]) notef(format string, args ...interface{}) {
	r.Diagnostics = append(r.Diagnostics, fmt.Sprintf(format, args...))
}

// rejected records a problem with one field and reports whether the record
// must be dropped under p.
func (r *Result[T]) rejected(p Policy, where, problem string) bool {
	if p == Strict {
		r.notef("%s: %s, dropped", where, problem)
		return true
	}
	r.notef("%s: %s, defaulted", where, problem)
	return false
}
