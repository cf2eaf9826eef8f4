// Package stub provides a recording upstream server for integration tests.
//
// A Server stands in for the third-party API an integration talks to:
//
//   - routes are registered with Route and matched by chi, so patterns such as
//     "/v1/users/{id}" work and "{{id}}" in a reply body is replaced by the
//     captured parameter
//   - every request is recorded with a generated ID, also returned in the
//     X-Request-Id response header
//   - unmatched requests get a 404 and are recorded too
//
// Example:
//
//	srv := stub.NewServer()
//	srv.Route("POST", "/capture/", stub.Reply{StatusCode: 200, Body: `{"status":1}`})
//	url := srv.Start()
//	defer srv.Close()
package stub
