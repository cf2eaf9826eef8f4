package tester

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"time"

	"github.com/abdul-hamid-achik/inttest/packages/facade"
	"github.com/abdul-hamid-achik/inttest/packages/http"
	"github.com/abdul-hamid-achik/inttest/packages/integration"
)

var (
	// ErrNoMessage is reported by End when no message type was set.
	ErrNoMessage = errors.New("no message set: call Identify, Track, Page, Screen, Group or Alias first")
	// ErrNoDir is reported by Fixture when the tester has no fixture directory.
	ErrNoDir = errors.New("no fixture directory: create the tester with WithDir")
	// ErrNoMapper is reported by Fixture when the integration cannot map the fixture's type.
	ErrNoMapper = errors.New("integration has no mapper for type")
	// ErrExpectedError is reported by Error when evaluation succeeded.
	ErrExpectedError = errors.New("expected an error")
)

// TestingT is the subset of testing.TB the tester reports through.
type TestingT interface {
	Helper()
	Errorf(format string, args ...any)
	FailNow()
	Cleanup(func())
}

// Integration is what the tester needs from the integration under test.
type Integration interface {
	Name() string
	Endpoint() string
	Timeout() time.Duration
	Retries() int
	Channels() []string
	Options() map[string]integration.Option
	Requirements() []integration.Requirement
	Mapper(typ string) (integration.MapFunc, bool)
	Validate(msg facade.Message, settings integration.Settings) error
	Enabled(msg facade.Message, settings integration.Settings) bool
	Send(ctx context.Context, msg facade.Message, settings integration.Settings, cb integration.Callback)
	RequestFunc() http.RequestFactory
	SetRequestFunc(f http.RequestFactory)
}

// EndFunc receives the outcome of an evaluation.
type EndFunc func(err error, resp *http.Response)

// assertion is a queued check against the last captured request and the response.
type assertion func(req *http.Request, resp *http.Response) error

// Tester drives one integration through a single test: it sets the active
// message and settings, queues assertions and checks them on End.
type Tester struct {
	t           TestingT
	integration Integration
	dir         string
	ctx         context.Context
	logger      *slog.Logger

	msg      facade.Message
	settings integration.Settings

	assertions []assertion
	query      map[string]string
	recorder   *recorder

	queue []func()
	ended bool
	err   error
}

// ConfigOption configures a Tester in New.
type ConfigOption func(*Tester)

// WithDir sets the directory fixtures are loaded from (<dir>/fixtures).
func WithDir(dir string) ConfigOption {
	return func(t *Tester) {
		t.dir = dir
	}
}

// WithContext sets the context passed to the integration's Send.
func WithContext(ctx context.Context) ConfigOption {
	return func(t *Tester) {
		t.ctx = ctx
	}
}

// WithLogger sets the logger used for captured requests and assertion results.
func WithLogger(l *slog.Logger) ConfigOption {
	return func(t *Tester) {
		t.logger = l
	}
}

// WithSettings sets the initial integration settings.
func WithSettings(s integration.Settings) ConfigOption {
	return func(t *Tester) {
		t.settings = s
	}
}

// New wraps integ for a single test. The integration's request factory is
// replaced by one that records every request it builds.
func New(t TestingT, integ Integration, opts ...ConfigOption) *Tester {
	tt := &Tester{
		t:           t,
		integration: integ,
		ctx:         context.Background(),
		settings:    integration.Settings{},
	}
	for _, opt := range opts {
		opt(tt)
	}
	if tt.logger == nil {
		tt.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if tt.settings == nil {
		tt.settings = integration.Settings{}
	}
	tt.recorder = intercept(integ, tt.logger)
	t.Cleanup(tt.Flush)
	return tt
}

// Set sets one integration setting.
func (t *Tester) Set(key string, value any) *Tester {
	t.settings[key] = value
	return t
}

// SetAll merges settings into the active settings.
func (t *Tester) SetAll(settings integration.Settings) *Tester {
	for k, v := range settings {
		t.settings[k] = v
	}
	return t
}

// Settings returns the active settings.
func (t *Tester) Settings() integration.Settings {
	return t.settings
}

// Message returns the active message, or nil.
func (t *Tester) Message() facade.Message {
	return t.msg
}

// Captured returns every request built so far, in order.
func (t *Tester) Captured() []*http.Request {
	return t.recorder.all()
}

// Err returns the first immediate failure, if any.
func (t *Tester) Err() error {
	return t.err
}

// Identify makes msg the active message as an identify call. A non-nil
// settings argument replaces the active settings.
func (t *Tester) Identify(msg any, settings ...integration.Settings) *Tester {
	t.t.Helper()
	return t.setMessage(facade.TypeIdentify, msg, settings)
}

// Track makes msg the active track message.
func (t *Tester) Track(msg any, settings ...integration.Settings) *Tester {
	t.t.Helper()
	return t.setMessage(facade.TypeTrack, msg, settings)
}

// Page is Identify for page calls.
func (t *Tester) Page(msg any, settings ...integration.Settings) *Tester {
	t.t.Helper()
	return t.setMessage(facade.TypePage, msg, settings)
}

// Screen is Identify for screen calls.
func (t *Tester) Screen(msg any, settings ...integration.Settings) *Tester {
	t.t.Helper()
	return t.setMessage(facade.TypeScreen, msg, settings)
}

// Group is Identify for group calls.
func (t *Tester) Group(msg any, settings ...integration.Settings) *Tester {
	t.t.Helper()
	return t.setMessage(facade.TypeGroup, msg, settings)
}

// Alias is Identify for alias calls.
func (t *Tester) Alias(msg any, settings ...integration.Settings) *Tester {
	t.t.Helper()
	return t.setMessage(facade.TypeAlias, msg, settings)
}

func (t *Tester) setMessage(typ string, v any, settings []integration.Settings) *Tester {
	t.t.Helper()
	msg, err := toMessageAs(typ, v)
	if err != nil {
		return t.fail(err)
	}
	if len(settings) > 0 && settings[0] != nil {
		t.settings = settings[0]
	}
	t.msg = msg
	return t
}

// Server, Client and Mobile force the message's channel and assert that the
// integration is enabled for it.
func (t *Tester) Server(msg any, settings ...integration.Settings) *Tester {
	t.t.Helper()
	return t.onChannel(facade.ChannelServer, msg, settings)
}

func (t *Tester) Client(msg any, settings ...integration.Settings) *Tester {
	t.t.Helper()
	return t.onChannel(facade.ChannelClient, msg, settings)
}

func (t *Tester) Mobile(msg any, settings ...integration.Settings) *Tester {
	t.t.Helper()
	return t.onChannel(facade.ChannelMobile, msg, settings)
}

func (t *Tester) onChannel(channel string, v any, settings []integration.Settings) *Tester {
	t.t.Helper()
	msg, err := toMessage(v)
	if err != nil {
		return t.fail(err)
	}
	msg.Obj()["channel"] = channel
	return t.Enabled(msg, settings...)
}

func (t *Tester) settingsOr(settings []integration.Settings) integration.Settings {
	if len(settings) > 0 && settings[0] != nil {
		return settings[0]
	}
	return t.settings
}

// fail reports err through TestingT and keeps the first one for Err.
func (t *Tester) fail(err error) *Tester {
	t.t.Helper()
	if t.err == nil {
		t.err = err
	}
	t.t.Errorf("%v", err)
	t.t.FailNow()
	return t
}
