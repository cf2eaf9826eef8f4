package http

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/url"
	"sort"
	"strings"
	"time"
)

const (
	ContentTypeJSON = "application/json"
	ContentTypeForm = "application/x-www-form-urlencoded"
)

// RequestFactory builds a request for a method and a path relative to an
// integration's endpoint.
type RequestFactory func(method, path string) *Request

type Request struct {
	Method      string
	URL         string
	Headers     map[string]string
	QueryParams map[string]string
	Body        string
	Timeout     time.Duration

	data   any
	client *Client
}

func NewRequest(method, requestURL string) *Request {
	return &Request{
		Method:      strings.ToUpper(method),
		URL:         requestURL,
		Headers:     make(map[string]string),
		QueryParams: make(map[string]string),
	}
}

// WithClient sets the client used by Do.
func (r *Request) WithClient(c *Client) *Request {
	r.client = c
	return r
}

func (r *Request) SetHeader(key, value string) *Request {
	r.Headers[key] = value
	return r
}

func (r *Request) SetBody(body string) *Request {
	r.Body = body
	r.data = body
	return r
}

func (r *Request) SetTimeout(d time.Duration) *Request {
	r.Timeout = d
	return r
}

func (r *Request) SetQueryParam(key, value string) *Request {
	r.QueryParams[key] = value
	return r
}

func (r *Request) SetBasicAuth(user, pass string) *Request {
	creds := user + ":" + pass
	r.Headers["Authorization"] = "Basic " + base64.StdEncoding.EncodeToString([]byte(creds))
	return r
}

func (r *Request) SetBearer(token string) *Request {
	r.Headers["Authorization"] = "Bearer " + token
	return r
}

// Type sets the Content-Type. The shorthands "json" and "form" are expanded.
func (r *Request) Type(contentType string) *Request {
	switch contentType {
	case "json":
		contentType = ContentTypeJSON
	case "form":
		contentType = ContentTypeForm
	}
	return r.SetHeader("Content-Type", contentType)
}

// Send sets the request payload. Maps are merged into previously sent maps and
// encoded as JSON unless the content type is form encoded; strings are sent
// verbatim. Any other value is JSON encoded as is.
func (r *Request) Send(data any) *Request {
	switch v := data.(type) {
	case string:
		return r.SetBody(v)
	case map[string]any:
		merged, ok := r.data.(map[string]any)
		if !ok {
			merged = make(map[string]any, len(v))
		}
		for k, val := range v {
			merged[k] = val
		}
		r.data = merged
	default:
		r.data = v
	}

	if r.Headers["Content-Type"] == "" {
		r.Type("json")
	}
	if strings.HasPrefix(r.Headers["Content-Type"], ContentTypeForm) {
		if m, ok := r.data.(map[string]any); ok {
			r.Body = encodeForm(m)
			return r
		}
	}
	encoded, err := json.Marshal(r.data)
	if err != nil {
		r.Body = fmt.Sprintf("%v", r.data)
		return r
	}
	r.Body = string(encoded)
	return r
}

// Data returns the payload passed to Send before encoding.
func (r *Request) Data() any {
	return r.data
}

func (r *Request) BodyString() string {
	return r.Body
}

func (r *Request) BuildURL() string {
	if len(r.QueryParams) == 0 {
		return r.URL
	}

	u, err := url.Parse(r.URL)
	if err != nil {
		return r.URL
	}

	q := u.Query()
	for k, v := range r.QueryParams {
		q.Set(k, v)
	}
	u.RawQuery = q.Encode()
	return u.String()
}

// Path returns the request path including its query string, e.g. "/v1/track?key=abc".
func (r *Request) Path() string {
	u, err := url.Parse(r.BuildURL())
	if err != nil {
		return r.URL
	}
	return u.RequestURI()
}

// Pathname returns the request path without its query string.
func (r *Request) Pathname() string {
	path, _, _ := strings.Cut(r.Path(), "?")
	return path
}

// RawQuery returns the encoded query string without the leading '?'.
func (r *Request) RawQuery() string {
	_, query, _ := strings.Cut(r.Path(), "?")
	return query
}

// Do sends the request through its client, or a default client when none was set.
func (r *Request) Do(ctx context.Context) (*Response, error) {
	c := r.client
	if c == nil {
		c = NewClient()
	}
	return c.Do(ctx, r)
}

func encodeForm(data map[string]any) string {
	keys := make([]string, 0, len(data))
	for k := range data {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	values := url.Values{}
	for _, k := range keys {
		values.Set(k, fmt.Sprintf("%v", data[k]))
	}
	return values.Encode()
}

func ParseFormBody(body string) map[string]string {
	result := make(map[string]string)
	pairs := strings.Split(body, "&")
	for _, pair := range pairs {
		kv := strings.SplitN(pair, "=", 2)
		if len(kv) == 2 {
			key, _ := url.QueryUnescape(kv[0])
			value, _ := url.QueryUnescape(kv[1])
			result[key] = value
		}
	}
	return result
}
