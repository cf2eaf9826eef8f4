// Package predicates provides the value comparisons used by inttest assertions.
//
// Every predicate returns nil when the comparison holds and an error describing
// both sides otherwise:
//   - Equal: deep equality after normalizing both sides through JSON
//   - Match: regular expression match against text
//   - Text and Status: exact comparisons
//   - Headers: subset match with case-insensitive header names
//   - Query and QueryString: subset match against a URL query string
//
// Mismatches are returned as *Error, which keeps the expected and actual values
// so callers can render a structured diff.
package predicates
