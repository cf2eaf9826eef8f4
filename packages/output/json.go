package output

import (
	"encoding/json"
	"io"
	"os"
	"time"
)

// JSONOutput represents the complete JSON output structure
type JSONOutput struct {
	Summary  JSONSummary   `json:"summary"`
	Fixtures []JSONFixture `json:"fixtures"`
	Duration float64       `json:"duration,omitempty"`
	Time     string        `json:"time"`
}

type JSONSummary struct {
	Total   int `json:"total"`
	Valid   int `json:"valid"`
	Invalid int `json:"invalid"`
}

// JSONFixture represents a single fixture result
type JSONFixture struct {
	Name  string `json:"name"`
	File  string `json:"file"`
	Type  string `json:"type,omitempty"`
	Valid bool   `json:"valid"`
	Error string `json:"error,omitempty"`
}

// JSONFormatter formats fixture results as JSON
type JSONFormatter struct {
	writer io.Writer
}

type JSONOption func(*JSONFormatter)

func NewJSONFormatter(opts ...JSONOption) *JSONFormatter {
	f := &JSONFormatter{
		writer: os.Stdout,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func WithJSONWriter(w io.Writer) JSONOption {
	return func(f *JSONFormatter) {
		f.writer = w
	}
}

func (f *JSONFormatter) FormatResults(results []Result, duration time.Duration) {
	out := f.build(results)
	out.Duration = float64(duration.Milliseconds())
	f.write(out)
}

func (f *JSONFormatter) FormatList(results []Result) {
	f.write(f.build(results))
}

func (f *JSONFormatter) FormatError(err error) {
	f.write(map[string]string{"error": err.Error()})
}

func (f *JSONFormatter) build(results []Result) JSONOutput {
	passed, failed := count(results)
	out := JSONOutput{
		Summary: JSONSummary{
			Total:   len(results),
			Valid:   passed,
			Invalid: failed,
		},
		Fixtures: make([]JSONFixture, 0, len(results)),
		Time:     time.Now().Format(time.RFC3339),
	}
	for _, r := range results {
		jf := JSONFixture{
			Name:  r.Name,
			File:  r.File,
			Type:  r.Type,
			Valid: r.Passed(),
		}
		if r.Err != nil {
			jf.Error = r.Err.Error()
		}
		out.Fixtures = append(out.Fixtures, jf)
	}
	return out
}

func (f *JSONFormatter) write(v any) {
	enc := json.NewEncoder(f.writer)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}
