package predicates

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"reflect"
	"regexp"
	"sort"
	"strings"
)

// ErrNoQuery is returned by Query when the request carried no query string at all.
var ErrNoQuery = errors.New("expected a query string, got none")

// Equal compares expected and actual after a JSON round trip of both, so that
// numbers, times and typed maps compare by their JSON form.
func Equal(expected, actual any) error {
	e, err := Normalize(expected)
	if err != nil {
		return fmt.Errorf("normalize expected: %w", err)
	}
	a, err := Normalize(actual)
	if err != nil {
		return fmt.Errorf("normalize actual: %w", err)
	}
	if reflect.DeepEqual(e, a) {
		return nil
	}
	if composite(e) || composite(a) {
		return mismatch(e, a, "expected values to be deep equal")
	}
	return mismatch(e, a, "expected %v, got %v", e, a)
}

// Normalize converts v into its plain JSON representation
// (map[string]any, []any, float64, string, bool or nil).
func Normalize(v any) (any, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var out any
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func Match(re *regexp.Regexp, actual string) error {
	if re.MatchString(actual) {
		return nil
	}
	return mismatch(re.String(), actual, "expected '%v' to match /%v/", actual, re.String())
}

func Text(expected, actual string) error {
	if expected == actual {
		return nil
	}
	return mismatch(expected, actual, "expected %q, got %q", expected, actual)
}

func Status(expected, actual int) error {
	if expected == actual {
		return nil
	}
	return mismatch(expected, actual, "expected status %d, got %d", expected, actual)
}

// Headers checks that every expected header is present in actual with the same
// value. Header names compare case-insensitively.
func Headers(expected, actual map[string]string) error {
	for _, name := range sortedKeys(expected) {
		want := expected[name]
		got, ok := lookupFold(actual, name)
		if !ok {
			return mismatch(expected, actual, "expected header %q to be %q, but it was not set", name, want)
		}
		if got != want {
			return mismatch(want, got, "expected header %q to be %q, got %q", name, want, got)
		}
	}
	return nil
}

// Query checks that every expected key is present in rawQuery with the given
// value. Extra keys in rawQuery are ignored.
func Query(expected map[string]string, rawQuery string) error {
	rawQuery = strings.TrimPrefix(rawQuery, "?")
	if rawQuery == "" {
		return ErrNoQuery
	}
	values, err := url.ParseQuery(rawQuery)
	if err != nil {
		return fmt.Errorf("invalid query string %q: %w", rawQuery, err)
	}
	for _, key := range sortedKeys(expected) {
		want := expected[key]
		if !values.Has(key) {
			return mismatch(expected, rawQuery, "expected query %q to be %q, but it was not set in %q", key, want, rawQuery)
		}
		if got := values.Get(key); got != want {
			return mismatch(want, got, "expected query %q to be %q, got %q", key, want, got)
		}
	}
	return nil
}

// QueryString parses fragment ("?a=1&b=2") and checks it as a subset of rawQuery.
func QueryString(fragment, rawQuery string) error {
	values, err := url.ParseQuery(strings.TrimPrefix(fragment, "?"))
	if err != nil {
		return fmt.Errorf("invalid query fragment %q: %w", fragment, err)
	}
	expected := make(map[string]string, len(values))
	for k := range values {
		expected[k] = values.Get(k)
	}
	return Query(expected, rawQuery)
}

func lookupFold(m map[string]string, key string) (string, bool) {
	if v, ok := m[key]; ok {
		return v, true
	}
	for k, v := range m {
		if strings.EqualFold(k, key) {
			return v, true
		}
	}
	return "", false
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
