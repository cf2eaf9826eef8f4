package integration

import (
	"fmt"

	"github.com/abdul-hamid-achik/inttest/packages/http"
)

// HTTPError is a non-2xx response from the third-party API.
type HTTPError struct {
	StatusCode int
	Body       string
}

func (e *HTTPError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("unexpected status %d", e.StatusCode)
	}
	return fmt.Sprintf("unexpected status %d: %s", e.StatusCode, e.Body)
}

// Temporary reports whether the request is worth retrying.
func (e *HTTPError) Temporary() bool {
	return e.StatusCode == 429 || e.StatusCode >= 500
}

// CheckResponse turns non-2xx responses into an *HTTPError. The response is
// returned unchanged so callers can still inspect it.
func CheckResponse(resp *http.Response, err error) (*http.Response, error) {
	if err != nil {
		return resp, err
	}
	if !resp.IsSuccess() {
		return resp, &HTTPError{StatusCode: resp.StatusCode, Body: resp.BodyString()}
	}
	return resp, nil
}
