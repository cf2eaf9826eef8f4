// Package integration provides the framework analytics integrations are built on.
//
// An Integration forwards canonical messages (see package facade) to a
// third-party API. It declares:
//   - static metadata: name, endpoint, timeout, retry budget, enabled channels
//   - configuration options and field requirements checked by Validate
//   - a mapping function per message type that builds the outbound payload
//   - a handler per message type that performs the HTTP call
//
// Requests are built through a replaceable RequestFactory so that test
// tooling can observe every request an integration issues.
package integration
