package tester

import (
	"fmt"
	"path/filepath"

	"github.com/abdul-hamid-achik/inttest/packages/fixture"
	"github.com/abdul-hamid-achik/inttest/packages/integration"
	"github.com/abdul-hamid-achik/inttest/packages/predicates"
)

// Fixture loads <dir>/fixtures/<name>.json (or .yaml/.yml), builds the
// input.type variant from its input, maps it with that type's mapper and
// compares the JSON form of the result with the fixture's output. An "action"
// field in the input does not change the variant. Fixture settings, then
// settings, are merged into the active settings first.
func (t *Tester) Fixture(name string, settings ...integration.Settings) *Tester {
	t.t.Helper()
	if t.dir == "" {
		return t.fail(ErrNoDir)
	}

	f, err := fixture.Load(filepath.Join(t.dir, "fixtures"), name)
	if err != nil {
		return t.fail(err)
	}

	t.SetAll(f.Settings)
	for _, s := range settings {
		t.SetAll(s)
	}

	typ := f.Type()
	mapper, ok := t.integration.Mapper(typ)
	if !ok {
		return t.fail(fmt.Errorf("fixture %s: %w %q", name, ErrNoMapper, typ))
	}

	msg, err := toMessageAs(typ, f.Input)
	if err != nil {
		return t.fail(fmt.Errorf("fixture %s: %w", name, err))
	}

	actual, err := mapper(msg, t.settings)
	if err != nil {
		return t.fail(fmt.Errorf("fixture %s: %w", name, err))
	}
	if actual == nil {
		return t.fail(fmt.Errorf("fixture %s: mapper for %q returned no result", name, typ))
	}

	if err := predicates.Equal(f.Output, actual); err != nil {
		return t.fail(fmt.Errorf("fixture %s: %w", name, err))
	}
	return t
}
