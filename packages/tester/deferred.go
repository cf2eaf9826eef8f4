package tester

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/abdul-hamid-achik/inttest/packages/http"
	"github.com/abdul-hamid-achik/inttest/packages/predicates"
)

var (
	errNoRequest  = errors.New("expected a request, but the integration did not build one")
	errNoResponse = errors.New("expected a response, got none")
)

// shapeKind is the form of a Sends or Expects assertion, fixed at registration.
type shapeKind int

const (
	shapeHeader shapeKind = iota
	shapeJSON
	shapePattern
	shapeQuery
	shapeText
	shapeStatus
)

type shape struct {
	kind    shapeKind
	headers map[string]string
	json    map[string]any
	pattern *regexp.Regexp
	text    string
	status  int
}

// parseShape picks the assertion form from the argument types:
//
//	(name, value string) header
//	map[string]any       JSON body
//	*regexp.Regexp       body pattern
//	"?a=b"               query string
//	string               exact body
//	int                  status (responses only)
func parseShape(op string, args []any, allowStatus bool) (shape, error) {
	switch len(args) {
	case 1:
		switch v := args[0].(type) {
		case map[string]any:
			return shape{kind: shapeJSON, json: v}, nil
		case *regexp.Regexp:
			return shape{kind: shapePattern, pattern: v}, nil
		case string:
			if strings.HasPrefix(v, "?") {
				return shape{kind: shapeQuery, text: v}, nil
			}
			return shape{kind: shapeText, text: v}, nil
		case int:
			if allowStatus {
				return shape{kind: shapeStatus, status: v}, nil
			}
		}
	case 2:
		name, ok1 := args[0].(string)
		value, ok2 := args[1].(string)
		if ok1 && ok2 {
			return shape{kind: shapeHeader, headers: map[string]string{name: value}}, nil
		}
	}
	return shape{}, unknownAssertion(op, args)
}

func unknownAssertion(op string, args []any) error {
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = fmt.Sprintf("%#v", a)
	}
	return fmt.Errorf("unknown assertion: %s(%s)", op, strings.Join(parts, ", "))
}

func (t *Tester) add(a assertion) *Tester {
	t.assertions = append(t.assertions, a)
	return t
}

// Pathname asserts the path of the last request, query string excluded.
func (t *Tester) Pathname(expected string) *Tester {
	return t.add(func(req *http.Request, _ *http.Response) error {
		if req == nil {
			return errNoRequest
		}
		if err := predicates.Text(expected, req.Pathname()); err != nil {
			return fmt.Errorf("pathname: %w", err)
		}
		return nil
	})
}

// Query asserts that the last request's query string contains every key of
// partial. Repeated calls add keys to the same assertion.
func (t *Tester) Query(partial map[string]any) *Tester {
	first := t.query == nil
	if first {
		t.query = make(map[string]string, len(partial))
	}
	for k, v := range partial {
		t.query[k] = fmt.Sprintf("%v", v)
	}
	if !first {
		return t
	}
	return t.add(func(req *http.Request, _ *http.Response) error {
		if req == nil {
			return errNoRequest
		}
		return predicates.Query(t.query, req.RawQuery())
	})
}

// Requests asserts how many requests the integration built.
func (t *Tester) Requests(n int) *Tester {
	return t.add(func(_ *http.Request, _ *http.Response) error {
		if got := t.recorder.count(); got != n {
			return fmt.Errorf("expected %d requests, got %d", n, got)
		}
		return nil
	})
}

// Sends asserts the shape of the last request. See parseShape for the forms.
func (t *Tester) Sends(args ...any) *Tester {
	t.t.Helper()
	s, err := parseShape("Sends", args, false)
	if err != nil {
		return t.fail(err)
	}
	return t.add(func(req *http.Request, _ *http.Response) error {
		if req == nil {
			return errNoRequest
		}
		switch s.kind {
		case shapeHeader:
			return predicates.Headers(s.headers, req.Headers)
		case shapeJSON:
			return predicates.Equal(s.json, req.Data())
		case shapePattern:
			return predicates.Match(s.pattern, req.BodyString())
		case shapeQuery:
			return predicates.QueryString(s.text, req.RawQuery())
		default:
			return predicates.Text(s.text, req.BodyString())
		}
	})
}

// Expects asserts the response: a status code, a header, a JSON body, a body
// pattern or an exact body. A trailing EndFunc schedules End to run on the
// next Flush, which also happens when the test finishes.
func (t *Tester) Expects(args ...any) *Tester {
	t.t.Helper()
	var done EndFunc
	if n := len(args); n > 0 {
		if fn, ok := asEndFunc(args[n-1]); ok {
			done = fn
			args = args[:n-1]
		}
	}

	s, err := parseShape("Expects", args, true)
	if err != nil {
		return t.fail(err)
	}
	if done != nil {
		t.schedule(func() {
			if !t.ended {
				t.End(done)
			}
		})
	}
	return t.add(func(req *http.Request, resp *http.Response) error {
		if s.kind == shapeQuery {
			if req == nil {
				return errNoRequest
			}
			return predicates.QueryString(s.text, req.RawQuery())
		}
		if resp == nil {
			return errNoResponse
		}
		switch s.kind {
		case shapeStatus:
			return predicates.Status(s.status, resp.StatusCode)
		case shapeHeader:
			return predicates.Headers(s.headers, resp.Headers)
		case shapeJSON:
			body, err := resp.BodyJSON()
			if err != nil {
				return fmt.Errorf("expected a JSON response body: %w", err)
			}
			return predicates.Equal(s.json, body)
		case shapePattern:
			return predicates.Match(s.pattern, resp.Text())
		default:
			return predicates.Text(s.text, resp.Text())
		}
	})
}

func asEndFunc(v any) (EndFunc, bool) {
	switch fn := v.(type) {
	case EndFunc:
		return fn, fn != nil
	case func(error, *http.Response):
		return fn, fn != nil
	}
	return nil, false
}
