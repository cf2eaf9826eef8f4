package stub

import (
	"strings"
)

// Route is a registered stub route.
type Route struct {
	Method  string
	Pattern string
	Reply   Reply
}

// Reply is the canned response a route serves.
type Reply struct {
	StatusCode  int
	ContentType string
	Headers     map[string]string
	Body        string
}

func (r Reply) withDefaults() Reply {
	if r.StatusCode == 0 {
		r.StatusCode = 200
	}
	if r.ContentType == "" {
		r.ContentType = "application/json"
	}
	return r
}

// resolveParams replaces {{name}} placeholders in body with route parameters.
func resolveParams(body string, params map[string]string) string {
	for key, value := range params {
		body = strings.ReplaceAll(body, "{{"+key+"}}", value)
	}
	return body
}

// normalizePattern ensures the pattern starts with a slash.
func normalizePattern(pattern string) string {
	if !strings.HasPrefix(pattern, "/") {
		pattern = "/" + pattern
	}
	return pattern
}
