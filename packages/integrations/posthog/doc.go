// Package posthog is an integration that forwards analytics messages to the
// PostHog capture API.
//
// Every message type becomes one POST to /capture/:
//
//   - identify  -> "$identify" with traits under "$set"
//   - track     -> the event name with its properties
//   - page      -> "$pageview" with "$current_url"
//   - screen    -> "$screen" with "$screen_name"
//   - group     -> "$groupidentify" keyed by the group type setting
//   - alias     -> "$create_alias"
//
// The package doubles as the reference for writing tests with the tester
// package: see posthog_test.go and fixtures/.
package posthog
