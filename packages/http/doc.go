// Package http provides the request and response primitives integrations use
// to talk to third-party APIs.
//
// It wraps the standard library's http package with additional features:
//   - Fluent request building (headers, query params, JSON and form payloads)
//   - Access to the data a request sent, before encoding
//   - Configurable timeouts and client-side rate limiting
//   - Response handling and body reading
package http
