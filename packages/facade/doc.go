// Package facade provides the canonical message types exchanged with integrations.
//
// A message wraps the raw analytics payload (a map decoded from JSON) and exposes
// typed accessors for the common fields:
//   - identify: userId, traits
//   - track: event, properties, revenue
//   - page and screen: name, properties
//   - group: groupId, traits
//   - alias: previousId
//
// The raw map is never copied; accessors read through to it and callers that
// mutate Obj() see their changes reflected in every accessor.
package facade
