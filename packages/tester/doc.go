// Package tester provides a fluent assertion builder for testing integrations.
//
// A Tester wraps one integration for the duration of a test. Calls on it either
// check something right away (Valid, Enabled, Option, Timeout, ...) or queue an
// assertion that runs once the integration has sent a message (Sends, Expects,
// Pathname, Query, Requests). End sends the active message and evaluates the
// queued assertions in order, stopping at the first failure:
//
//	tester.New(t, integ).
//		Set("apiKey", "k").
//		Track(map[string]any{"event": "Signed Up", "userId": "u1"}).
//		Pathname("/capture/").
//		Sends(map[string]any{"api_key": "k", "event": "Signed Up", "distinct_id": "u1"}).
//		Expects(200).
//		End(nil)
//
// Every request the integration builds through its request factory is
// captured; request shape assertions look at the last one.
package tester
