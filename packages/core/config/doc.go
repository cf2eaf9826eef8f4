// Package config handles configuration loading for the inttest CLI.
//
// It provides functionality for:
//   - Loading configuration from .inttest.config.json or .inttest.yaml files
//   - Default configuration values
//   - Merging flag overrides over file values
package config
