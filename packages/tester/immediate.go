package tester

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/abdul-hamid-achik/inttest/packages/facade"
	"github.com/abdul-hamid-achik/inttest/packages/integration"
	"github.com/abdul-hamid-achik/inttest/packages/predicates"
)

func (t *Tester) check(subject string, err error) *Tester {
	t.t.Helper()
	if err != nil {
		return t.fail(fmt.Errorf("%s: %w", subject, err))
	}
	return t
}

// Requires asserts that the integration declares a requirement on path for
// method. An empty method matches requirements that apply to every type.
func (t *Tester) Requires(method, path string) *Tester {
	t.t.Helper()
	for _, r := range t.integration.Requirements() {
		if r.Method == method && r.Path == path {
			return t
		}
	}
	want := integration.Requirement{Method: method, Path: path}
	return t.fail(fmt.Errorf("expected integration %s to require %q", t.integration.Name(), want.String()))
}

// Option asserts the metadata of a declared option. Validators are ignored.
func (t *Tester) Option(name string, meta integration.Option) *Tester {
	t.t.Helper()
	declared, ok := t.integration.Options()[name]
	if !ok {
		return t.fail(fmt.Errorf("expected integration %s to declare option %q", t.integration.Name(), name))
	}
	declared.Validate = nil
	meta.Validate = nil
	return t.check("option "+name, predicates.Equal(meta, declared))
}

func (t *Tester) Channels(expected ...string) *Tester {
	t.t.Helper()
	actual := append([]string{}, t.integration.Channels()...)
	return t.check("channels", predicates.Equal(append([]string{}, expected...), actual))
}

func (t *Tester) Retries(n int) *Tester {
	t.t.Helper()
	return t.check("retries", predicates.Equal(n, t.integration.Retries()))
}

func (t *Tester) Name(name string) *Tester {
	t.t.Helper()
	return t.check("name", predicates.Equal(name, t.integration.Name()))
}

func (t *Tester) Endpoint(url string) *Tester {
	t.t.Helper()
	return t.check("endpoint", predicates.Equal(url, t.integration.Endpoint()))
}

// Timeout asserts the integration's timeout. v is milliseconds (int, int64,
// float64), a time.Duration, or a string such as "5s", "1.5m" or "2 minutes".
func (t *Tester) Timeout(v any) *Tester {
	t.t.Helper()
	ms, err := toMillis(v)
	if err != nil {
		return t.fail(fmt.Errorf("timeout: %w", err))
	}
	return t.check("timeout", predicates.Equal(ms, t.integration.Timeout().Milliseconds()))
}

func (t *Tester) Valid(msg any, settings ...integration.Settings) *Tester {
	t.t.Helper()
	m, err := toMessage(msg)
	if err != nil {
		return t.fail(err)
	}
	if err := t.integration.Validate(m, t.settingsOr(settings)); err != nil {
		return t.fail(fmt.Errorf("expected message to be valid: %w", err))
	}
	return t
}

func (t *Tester) Invalid(msg any, settings ...integration.Settings) *Tester {
	t.t.Helper()
	m, err := toMessage(msg)
	if err != nil {
		return t.fail(err)
	}
	if err := t.integration.Validate(m, t.settingsOr(settings)); err == nil {
		return t.fail(errors.New("expected message to be invalid"))
	}
	return t
}

func (t *Tester) Enabled(msg any, settings ...integration.Settings) *Tester {
	t.t.Helper()
	return t.enabled(true, msg, settings)
}

func (t *Tester) Disabled(msg any, settings ...integration.Settings) *Tester {
	t.t.Helper()
	return t.enabled(false, msg, settings)
}

func (t *Tester) enabled(want bool, v any, settings []integration.Settings) *Tester {
	t.t.Helper()
	msg, err := toMessage(v)
	if err != nil {
		return t.fail(err)
	}
	s := t.settingsOr(settings)
	if t.integration.Enabled(msg, s) == want {
		return t
	}
	state := "enabled"
	if !want {
		state = "disabled"
	}
	return t.fail(fmt.Errorf("expected integration %s to be %s for message %s with settings %s",
		t.integration.Name(), state, msg.JSON(), encode(s)))
}

// All asserts the integration is enabled for msg on every channel. The
// message's channel field is overwritten in place.
func (t *Tester) All(msg any, settings ...integration.Settings) *Tester {
	t.t.Helper()
	m, err := toMessage(msg)
	if err != nil {
		return t.fail(err)
	}
	s := t.settingsOr(settings)
	var disabled []string
	for _, ch := range facade.Channels {
		m.Obj()["channel"] = ch
		if !t.integration.Enabled(m, s) {
			disabled = append(disabled, ch)
		}
	}
	if len(disabled) > 0 {
		return t.fail(fmt.Errorf("expected integration %s to be enabled on all channels, but it is disabled on: %s",
			t.integration.Name(), strings.Join(disabled, ", ")))
	}
	return t
}

func encode(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(data)
}

var durationPattern = regexp.MustCompile(`(?i)^(-?\d*\.?\d+)\s*(ms|msecs?|milliseconds?|s|secs?|seconds?|m|mins?|minutes?|h|hrs?|hours?|d|days?|w|weeks?)?$`)

// toMillis converts a timeout expression to milliseconds.
func toMillis(v any) (int64, error) {
	switch d := v.(type) {
	case time.Duration:
		return d.Milliseconds(), nil
	case int:
		return int64(d), nil
	case int64:
		return d, nil
	case float64:
		return int64(d), nil
	case string:
		return parseMillis(d)
	default:
		return 0, fmt.Errorf("cannot convert %T to milliseconds", v)
	}
}

func parseMillis(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if d, err := time.ParseDuration(s); err == nil {
		return d.Milliseconds(), nil
	}
	m := durationPattern.FindStringSubmatch(s)
	if m == nil {
		return 0, fmt.Errorf("invalid duration %q", s)
	}
	n, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, fmt.Errorf("invalid duration %q: %w", s, err)
	}
	unit := time.Millisecond
	switch strings.ToLower(m[2]) {
	case "s", "sec", "secs", "second", "seconds":
		unit = time.Second
	case "m", "min", "mins", "minute", "minutes":
		unit = time.Minute
	case "h", "hr", "hrs", "hour", "hours":
		unit = time.Hour
	case "d", "day", "days":
		unit = 24 * time.Hour
	case "w", "week", "weeks":
		unit = 7 * 24 * time.Hour
	}
	return int64(n * float64(unit/time.Millisecond)), nil
}
