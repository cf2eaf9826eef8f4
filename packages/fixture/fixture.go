package fixture

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/abdul-hamid-achik/inttest/packages/facade"
	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"
)

// Extensions lists the fixture file extensions in lookup order.
var Extensions = []string{".json", ".yaml", ".yml"}

// ErrNotFound is returned by Load when no file exists for the fixture name.
var ErrNotFound = errors.New("fixture not found")

type Fixture struct {
	Name     string         `json:"-"`
	Path     string         `json:"-"`
	Input    map[string]any `json:"input"`
	Output   any            `json:"output"`
	Settings map[string]any `json:"settings,omitempty"`
}

// Type returns input.type.
func (f *Fixture) Type() string {
	typ, _ := f.Input["type"].(string)
	return typ
}

const schema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["input", "output"],
  "properties": {
    "input": {
      "type": "object",
      "required": ["type"],
      "properties": {
        "type": {"enum": %s}
      }
    },
    "output": {},
    "settings": {"type": "object"}
  }
}`

var schemaLoader = gojsonschema.NewStringLoader(fmt.Sprintf(schema, mustJSON(facade.Types)))

func mustJSON(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return string(data)
}

// Load finds name in dir, trying each of Extensions in turn.
func Load(dir, name string) (*Fixture, error) {
	for _, ext := range Extensions {
		path := filepath.Join(dir, name+ext)
		if _, err := os.Stat(path); err == nil {
			return LoadFile(path)
		}
	}
	return nil, fmt.Errorf("%w: %s in %s", ErrNotFound, name, dir)
}

// LoadFile reads, decodes and validates a single fixture file.
func LoadFile(path string) (*Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	doc, err := decode(path, data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse fixture %s: %w", path, err)
	}

	if err := validate(doc); err != nil {
		return nil, fmt.Errorf("invalid fixture %s: %w", path, err)
	}

	normalized, err := json.Marshal(doc)
	if err != nil {
		return nil, err
	}
	f := &Fixture{}
	if err := json.Unmarshal(normalized, f); err != nil {
		return nil, err
	}
	f.Path = path
	f.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return f, nil
}

// LoadDir loads every fixture file in dir, sorted by name. Loading stops at the
// first invalid file.
func LoadDir(dir string) ([]*Fixture, error) {
	paths, err := Files(dir)
	if err != nil {
		return nil, err
	}
	fixtures := make([]*Fixture, 0, len(paths))
	for _, p := range paths {
		f, err := LoadFile(p)
		if err != nil {
			return nil, err
		}
		fixtures = append(fixtures, f)
	}
	return fixtures, nil
}

// Files lists fixture files directly inside dir.
func Files(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var paths []string
	for _, e := range entries {
		if e.IsDir() || !IsFixtureFile(e.Name()) {
			continue
		}
		paths = append(paths, filepath.Join(dir, e.Name()))
	}
	sort.Strings(paths)
	return paths, nil
}

func IsFixtureFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range Extensions {
		if ext == e {
			return true
		}
	}
	return false
}

func decode(path string, data []byte) (any, error) {
	var doc any
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, err
		}
	default:
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, err
		}
	}
	return doc, nil
}

func validate(doc any) error {
	result, err := gojsonschema.Validate(schemaLoader, gojsonschema.NewGoLoader(doc))
	if err != nil {
		return fmt.Errorf("schema validation error: %v", err)
	}
	if result.Valid() {
		return nil
	}
	var errs []string
	for _, desc := range result.Errors() {
		errs = append(errs, desc.String())
	}
	return fmt.Errorf("schema validation failed: %s", strings.Join(errs, "; "))
}
