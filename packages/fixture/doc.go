// Package fixture loads declarative input/output pairs used to check an
// integration's mapping functions.
//
// A fixture file holds:
//   - input: the raw analytics message, with a "type" field
//   - output: the payload the mapping function is expected to produce
//   - settings: optional integration settings for this case
//
// Files are JSON (name.json) or YAML (name.yaml, name.yml). Every file is
// validated against a JSON Schema before use.
package fixture
