// Package output provides formatters for fixture validation results.
//
// Supported output formats:
//   - Console: Human-readable colored terminal output
//   - JSON: Machine-readable JSON output
//
// Both implement Formatter. JSON accumulates nothing: each call writes one
// complete document.
package output
