// Package cmd implements the inttest CLI commands using Cobra.
//
// Available commands:
//   - validate: Check fixture files against the fixture schema
//   - list: Display the fixtures found under directories
//   - watch: Re-validate fixtures whenever they change
//   - version: Show inttest version information
//   - completion: Generate shell completion scripts
//
// Settings come from .inttest.config.json (or .inttest.yaml) and can be
// overridden with flags.
package cmd
