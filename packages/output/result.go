package output

import (
	"io"
	"strings"
	"time"
)

// Result is the outcome of loading one fixture file.
type Result struct {
	File   string
	Name   string
	Type   string
	Output any
	Err    error
}

func (r Result) Passed() bool {
	return r.Err == nil
}

// Formatter renders fixture results.
type Formatter interface {
	FormatResults(results []Result, duration time.Duration)
	FormatList(results []Result)
	FormatError(err error)
}

// New returns the formatter for name ("console" or "json").
func New(name string, w io.Writer, verbose, noColor bool) Formatter {
	if strings.EqualFold(name, "json") {
		return NewJSONFormatter(WithJSONWriter(w))
	}
	return NewConsoleFormatter(
		WithWriter(w),
		WithVerbose(verbose),
		WithNoColor(noColor),
	)
}

func count(results []Result) (passed, failed int) {
	for _, r := range results {
		if r.Passed() {
			passed++
		} else {
			failed++
		}
	}
	return passed, failed
}
