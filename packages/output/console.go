package output

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/fatih/color"
)

// formatValue formats a value for display, truncating or summarizing large values
func formatValue(v any, maxLen int) string {
	switch val := v.(type) {
	case []any:
		return fmt.Sprintf("[array with %d items]", len(val))
	case map[string]any:
		return fmt.Sprintf("{object with %d keys}", len(val))
	}
	str := fmt.Sprintf("%v", v)
	if len(str) > maxLen {
		return str[:maxLen] + "..."
	}
	return str
}

type ConsoleFormatter struct {
	writer  io.Writer
	verbose bool
	noColor bool
}

type ConsoleOption func(*ConsoleFormatter)

func NewConsoleFormatter(opts ...ConsoleOption) *ConsoleFormatter {
	f := &ConsoleFormatter{
		writer: os.Stdout,
	}
	for _, opt := range opts {
		opt(f)
	}
	if f.noColor {
		color.NoColor = true
	}
	return f
}

func WithWriter(w io.Writer) ConsoleOption {
	return func(f *ConsoleFormatter) {
		f.writer = w
	}
}

func WithVerbose(v bool) ConsoleOption {
	return func(f *ConsoleFormatter) {
		f.verbose = v
	}
}

func WithNoColor(nc bool) ConsoleOption {
	return func(f *ConsoleFormatter) {
		f.noColor = nc
	}
}

func (f *ConsoleFormatter) FormatResults(results []Result, duration time.Duration) {
	green := color.New(color.FgGreen).SprintFunc()
	red := color.New(color.FgRed).SprintFunc()
	cyan := color.New(color.FgCyan).SprintFunc()

	fmt.Fprintf(f.writer, "\n")
	for _, r := range results {
		if !r.Passed() {
			fmt.Fprintf(f.writer, "  %s %s\n", red("✗"), r.File)
			fmt.Fprintf(f.writer, "    %s %v\n", red("→"), r.Err)
			continue
		}

		fmt.Fprintf(f.writer, "  %s %s %s\n", green("✓"), r.File, cyan("("+r.Type+")"))
		if f.verbose {
			fmt.Fprintf(f.writer, "    Output: %s\n", formatValue(r.Output, 100))
		}
	}

	passed, failed := count(results)
	fmt.Fprintf(f.writer, "\n")
	fmt.Fprintf(f.writer, "Fixtures: ")
	if passed > 0 {
		fmt.Fprintf(f.writer, "%s, ", green(fmt.Sprintf("%d valid", passed)))
	}
	if failed > 0 {
		fmt.Fprintf(f.writer, "%s, ", red(fmt.Sprintf("%d invalid", failed)))
	}
	fmt.Fprintf(f.writer, "%d total\n", len(results))
	fmt.Fprintf(f.writer, "Time:     %dms\n", duration.Milliseconds())
	fmt.Fprintf(f.writer, "\n")
}

func (f *ConsoleFormatter) FormatList(results []Result) {
	bold := color.New(color.Bold).SprintFunc()
	red := color.New(color.FgRed).SprintFunc()

	for _, r := range results {
		if !r.Passed() {
			fmt.Fprintf(f.writer, "  %s %s %s\n", red("x"), r.File, red(fmt.Sprintf("(%v)", r.Err)))
			continue
		}
		fmt.Fprintf(f.writer, "  - %-10s %s\n", bold(r.Type), r.Name)
	}
}

func (f *ConsoleFormatter) FormatError(err error) {
	red := color.New(color.FgRed).SprintFunc()
	fmt.Fprintf(f.writer, "%s %v\n", red("Error:"), err)
}

func (f *ConsoleFormatter) FormatHeader(version string) {
	bold := color.New(color.Bold).SprintFunc()
	fmt.Fprintf(f.writer, "%s %s\n", bold("inttest"), version)
}
