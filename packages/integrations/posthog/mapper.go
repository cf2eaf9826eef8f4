package posthog

import (
	"errors"
	"fmt"
	"time"

	"github.com/abdul-hamid-achik/inttest/packages/facade"
	"github.com/abdul-hamid-achik/inttest/packages/integration"
)

// ErrMessageType is returned by a mapper given a message of another variant.
var ErrMessageType = errors.New("unexpected message variant")

func mapIdentify(msg facade.Message, s integration.Settings) (any, error) {
	m, ok := msg.(*facade.Identify)
	if !ok {
		return nil, unexpected(facade.TypeIdentify, msg)
	}
	props := map[string]any{"$set": m.Traits()}
	if anon := m.AnonymousID(); anon != "" && m.UserID() != "" {
		props["$anon_distinct_id"] = anon
	}
	return event(m, s, "$identify", props), nil
}

func mapTrack(msg facade.Message, s integration.Settings) (any, error) {
	m, ok := msg.(*facade.Track)
	if !ok {
		return nil, unexpected(facade.TypeTrack, msg)
	}
	return event(m, s, m.Event(), copyProps(m.Properties())), nil
}

func mapPage(msg facade.Message, s integration.Settings) (any, error) {
	m, ok := msg.(*facade.Page)
	if !ok {
		return nil, unexpected(facade.TypePage, msg)
	}
	props := copyProps(m.Properties())
	if u := m.URL(); u != "" {
		props["$current_url"] = u
	}
	if name := m.Name(); name != "" {
		props["name"] = name
	}
	return event(m, s, "$pageview", props), nil
}

func mapScreen(msg facade.Message, s integration.Settings) (any, error) {
	m, ok := msg.(*facade.Screen)
	if !ok {
		return nil, unexpected(facade.TypeScreen, msg)
	}
	props := copyProps(m.Properties())
	props["$screen_name"] = m.Name()
	return event(m, s, "$screen", props), nil
}

func mapGroup(msg facade.Message, s integration.Settings) (any, error) {
	m, ok := msg.(*facade.Group)
	if !ok {
		return nil, unexpected(facade.TypeGroup, msg)
	}
	groupType, _ := s["groupType"].(string)
	if groupType == "" {
		groupType = defaultGroupType
	}
	return event(m, s, "$groupidentify", map[string]any{
		"$group_type": groupType,
		"$group_key":  m.GroupID(),
		"$group_set":  m.Traits(),
	}), nil
}

func mapAlias(msg facade.Message, s integration.Settings) (any, error) {
	m, ok := msg.(*facade.Alias)
	if !ok {
		return nil, unexpected(facade.TypeAlias, msg)
	}
	return event(m, s, "$create_alias", map[string]any{
		"alias": m.PreviousID(),
	}), nil
}

// event builds a capture payload. distinct_id is the userId, or the
// anonymousId for anonymous messages.
func event(msg facade.Message, s integration.Settings, name string, props map[string]any) map[string]any {
	apiKey, _ := s["apiKey"].(string)
	distinctID := msg.UserID()
	if distinctID == "" {
		distinctID = msg.AnonymousID()
	}

	out := map[string]any{
		"api_key":     apiKey,
		"event":       name,
		"distinct_id": distinctID,
		"properties":  props,
	}
	if ts := msg.Timestamp(); !ts.IsZero() {
		out["timestamp"] = ts.UTC().Format(time.RFC3339)
	}
	if id := msg.MessageID(); id != "" {
		out["uuid"] = id
	}
	return out
}

func unexpected(typ string, msg facade.Message) error {
	return fmt.Errorf("%s mapper: %w: got %T", typ, ErrMessageType, msg)
}

func copyProps(in map[string]any) map[string]any {
	out := make(map[string]any, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
