package predicates

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/google/go-cmp/cmp"
)

// Error is a failed comparison.
type Error struct {
	Message  string
	Expected any
	Actual   any
}

func (e *Error) Error() string {
	if !composite(e.Expected) && !composite(e.Actual) {
		return e.Message
	}
	diff := e.Diff()
	if diff == "" {
		return e.Message
	}
	return fmt.Sprintf("%s\n(-expected +actual):\n%s", e.Message, strings.TrimRight(diff, "\n"))
}

// Diff renders the difference between expected and actual.
func (e *Error) Diff() string {
	return cmp.Diff(e.Expected, e.Actual)
}

func mismatch(expected, actual any, format string, args ...any) *Error {
	return &Error{
		Message:  fmt.Sprintf(format, args...),
		Expected: expected,
		Actual:   actual,
	}
}

func composite(v any) bool {
	if v == nil {
		return false
	}
	switch reflect.ValueOf(v).Kind() {
	case reflect.Map, reflect.Slice, reflect.Array, reflect.Struct:
		return true
	}
	return false
}
