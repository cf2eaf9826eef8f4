package integration

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"strings"
	"time"

	"github.com/abdul-hamid-achik/inttest/packages/facade"
	"github.com/abdul-hamid-achik/inttest/packages/http"
)

// ErrUnsupportedType is passed to the Send callback when no handler exists for
// the message type.
var ErrUnsupportedType = errors.New("unsupported message type")

// Settings is the per-workspace configuration of an integration (API keys, flags).
type Settings map[string]any

// MapFunc builds the outbound payload for a message.
type MapFunc func(msg facade.Message, settings Settings) (any, error)

// Handler sends a message to the third-party API.
type Handler func(ctx context.Context, msg facade.Message, settings Settings) (*http.Response, error)

// Callback receives the outcome of Send. It is called exactly once.
type Callback func(err error, resp *http.Response)

// DefaultRetryDelay is the wait between attempts when Config.RetryDelay is zero.
const DefaultRetryDelay = time.Second

// Config holds the static description of an integration.
type Config struct {
	Name         string
	Endpoint     string
	Timeout      time.Duration
	Retries      int
	RetryDelay   time.Duration
	Channels     []string
	Options      map[string]Option
	Requirements []Requirement
}

type Integration struct {
	cfg      Config
	mappers  map[string]MapFunc
	handlers map[string]Handler
	client   *http.Client
	logger   *slog.Logger
	request  http.RequestFactory
}

type IntegrationOption func(*Integration)

// WithClient sets the HTTP client requests are sent through.
func WithClient(c *http.Client) IntegrationOption {
	return func(i *Integration) {
		i.client = c
	}
}

// WithRetryDelay overrides Config.RetryDelay.
func WithRetryDelay(d time.Duration) IntegrationOption {
	return func(i *Integration) {
		i.cfg.RetryDelay = d
	}
}

func WithLogger(l *slog.Logger) IntegrationOption {
	return func(i *Integration) {
		i.logger = l
	}
}

func New(cfg Config, opts ...IntegrationOption) *Integration {
	if cfg.Options == nil {
		cfg.Options = make(map[string]Option)
	}
	if cfg.RetryDelay <= 0 {
		cfg.RetryDelay = DefaultRetryDelay
	}
	i := &Integration{
		cfg:      cfg,
		mappers:  make(map[string]MapFunc),
		handlers: make(map[string]Handler),
	}
	for _, opt := range opts {
		opt(i)
	}
	if i.client == nil {
		i.client = http.NewClient()
	}
	if i.logger == nil {
		i.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	i.request = i.defaultRequest
	return i
}

func (i *Integration) Name() string {
	return i.cfg.Name
}

func (i *Integration) Endpoint() string {
	return i.cfg.Endpoint
}

func (i *Integration) Timeout() time.Duration {
	return i.cfg.Timeout
}

func (i *Integration) Retries() int {
	return i.cfg.Retries
}

func (i *Integration) RetryDelay() time.Duration {
	return i.cfg.RetryDelay
}

func (i *Integration) Channels() []string {
	return i.cfg.Channels
}

func (i *Integration) Options() map[string]Option {
	return i.cfg.Options
}

func (i *Integration) Requirements() []Requirement {
	return i.cfg.Requirements
}

func (i *Integration) RequestFunc() http.RequestFactory {
	return i.request
}

// SetRequestFunc replaces the request factory used by Request.
func (i *Integration) SetRequestFunc(f http.RequestFactory) {
	i.request = f
}

// Map registers the mapping function for a message type.
func (i *Integration) Map(typ string, fn MapFunc) *Integration {
	i.mappers[typ] = fn
	return i
}

// Handle registers the handler for a message type.
func (i *Integration) Handle(typ string, fn Handler) *Integration {
	i.handlers[typ] = fn
	return i
}

func (i *Integration) Mapper(typ string) (MapFunc, bool) {
	fn, ok := i.mappers[typ]
	return fn, ok
}

// Request builds a request for path relative to the endpoint through the
// current request factory.
func (i *Integration) Request(method, path string) *http.Request {
	return i.request(method, path)
}

func (i *Integration) defaultRequest(method, path string) *http.Request {
	u := strings.TrimRight(i.cfg.Endpoint, "/")
	if path != "" && !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return http.NewRequest(method, u+path).WithClient(i.client)
}

// Enabled reports whether the integration accepts msg: its channel must be
// declared, the message must not opt out, and a handler must exist for its type.
func (i *Integration) Enabled(msg facade.Message, settings Settings) bool {
	if _, ok := i.handlers[msg.Type()]; !ok {
		return false
	}
	if !msg.Enabled(i.cfg.Name) {
		return false
	}
	for _, ch := range i.cfg.Channels {
		if ch == msg.Channel() {
			return true
		}
	}
	return false
}

// Send runs the handler for msg on its own goroutine and reports the outcome
// through cb. Transport errors, temporary HTTP errors and 429/5xx responses are
// retried up to the configured retry budget, RetryDelay apart. Each attempt is
// bounded by the configured timeout.
func (i *Integration) Send(ctx context.Context, msg facade.Message, settings Settings, cb Callback) {
	handler, ok := i.handlers[msg.Type()]
	if !ok {
		go cb(fmt.Errorf("%s: %w: %s", i.cfg.Name, ErrUnsupportedType, msg.Type()), nil)
		return
	}

	go func() {
		var (
			resp *http.Response
			err  error
		)
		for attempt := 0; attempt <= i.cfg.Retries; attempt++ {
			resp, err = i.attempt(ctx, handler, msg, settings)
			if !retryable(resp, err) || attempt == i.cfg.Retries {
				break
			}
			i.logger.Warn("retrying request",
				"integration", i.cfg.Name,
				"type", msg.Type(),
				"attempt", attempt+1,
				"delay", i.cfg.RetryDelay,
				"error", err)
			if !wait(ctx, i.cfg.RetryDelay) {
				break
			}
		}
		cb(err, resp)
	}()
}

// wait sleeps for d and reports false if ctx ends first.
func wait(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}

func (i *Integration) attempt(ctx context.Context, h Handler, msg facade.Message, settings Settings) (*http.Response, error) {
	if i.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, i.cfg.Timeout)
		defer cancel()
	}
	return h(ctx, msg, settings)
}

// retryable reports whether another attempt may succeed. Handler errors that
// are neither HTTP nor network errors are final.
func retryable(resp *http.Response, err error) bool {
	if err != nil {
		var herr *HTTPError
		if errors.As(err, &herr) {
			return herr.Temporary()
		}
		var nerr net.Error
		return errors.As(err, &nerr)
	}
	return resp != nil && (resp.StatusCode == 429 || resp.IsServerError())
}
