package tester

import (
	"fmt"

	"github.com/abdul-hamid-achik/inttest/packages/facade"
)

// toMessage returns msg unchanged when it is already a facade.Message. A plain
// map is wrapped, not copied, in the variant named by its "action" or "type"
// field, defaulting to track.
func toMessage(v any) (facade.Message, error) {
	switch m := v.(type) {
	case facade.Message:
		return m, nil
	case map[string]any:
		typ := facade.TypeTrack
		if action, ok := m["action"].(string); ok && action != "" {
			typ = action
		} else if t, ok := m["type"].(string); ok && t != "" {
			typ = t
		}
		return facade.New(facade.VariantName(typ), m)
	default:
		return nil, fmt.Errorf("cannot convert %T to a message", v)
	}
}

// toMessageAs is toMessage with the variant fixed by the caller.
func toMessageAs(typ string, v any) (facade.Message, error) {
	switch m := v.(type) {
	case facade.Message:
		return m, nil
	case map[string]any:
		return facade.New(facade.VariantName(typ), m)
	default:
		return nil, fmt.Errorf("cannot convert %T to a %s message", v, typ)
	}
}
