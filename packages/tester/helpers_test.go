package tester

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/abdul-hamid-achik/inttest/packages/facade"
	"github.com/abdul-hamid-achik/inttest/packages/http"
	"github.com/abdul-hamid-achik/inttest/packages/integration"
)

// recordingT collects failures instead of stopping the test.
type recordingT struct {
	errors   []string
	failed   bool
	cleanups []func()
}

func (r *recordingT) Helper() {}

func (r *recordingT) Errorf(format string, args ...any) {
	r.errors = append(r.errors, fmt.Sprintf(format, args...))
}

func (r *recordingT) FailNow() {
	r.failed = true
}

func (r *recordingT) Cleanup(fn func()) {
	r.cleanups = append(r.cleanups, fn)
}

func (r *recordingT) runCleanups() {
	for i := len(r.cleanups) - 1; i >= 0; i-- {
		r.cleanups[i]()
	}
	r.cleanups = nil
}

var errUpstream = errors.New("upstream unavailable")

func jsonResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Headers:    map[string]string{"Content-Type": "application/json", "X-Request-Id": "req-1"},
		Body:       []byte(body),
	}
}

// newExample builds an in-memory integration:
//   - track sends one JSON request to /v1/track?key=<apiKey>
//   - identify sends a form request to /v1/users and then one to /v1/users/<id>
//   - page fails without building a request
//   - group and alias have no handler
func newExample() *integration.Integration {
	i := integration.New(integration.Config{
		Name:     "Example",
		Endpoint: "https://api.example.com",
		Timeout:  5 * time.Second,
		Retries:  2,
		Channels: []string{facade.ChannelServer, facade.ChannelClient},
		Options: map[string]integration.Option{
			"apiKey": {
				Type:        "string",
				Required:    true,
				Description: "Your API key",
				Validate: func(v any, _ integration.Settings) error {
					if s, _ := v.(string); len(s) < 3 {
						return errors.New("too short")
					}
					return nil
				},
			},
		},
		Requirements: []integration.Requirement{
			{Path: "settings.apiKey"},
			{Method: facade.TypeTrack, Path: "message.event"},
		},
	})

	i.Map(facade.TypeTrack, func(msg facade.Message, s integration.Settings) (any, error) {
		track, ok := msg.(*facade.Track)
		if !ok {
			return nil, fmt.Errorf("track mapper got %T", msg)
		}
		return map[string]any{
			"event":     track.Event(),
			"user":      track.UserID(),
			"timestamp": track.Timestamp(),
			"props":     track.Properties(),
		}, nil
	})
	i.Map(facade.TypePage, func(facade.Message, integration.Settings) (any, error) {
		return nil, nil
	})

	i.Handle(facade.TypeTrack, func(ctx context.Context, msg facade.Message, s integration.Settings) (*http.Response, error) {
		key, _ := s["apiKey"].(string)
		i.Request("POST", "/v1/track").
			SetQueryParam("key", key).
			SetHeader("X-Api-Version", "2").
			Send(map[string]any{"event": msg.(*facade.Track).Event(), "userId": msg.UserID()})
		return jsonResponse(200, `{"ok":true}`), nil
	})
	i.Handle(facade.TypeIdentify, func(ctx context.Context, msg facade.Message, s integration.Settings) (*http.Response, error) {
		i.Request("POST", "/v1/users").Type("form").Send(map[string]any{"id": msg.UserID()})
		i.Request("PUT", "/v1/users/"+url.PathEscape(msg.UserID())).Send(map[string]any{"traits": msg.(*facade.Identify).Traits()})
		return jsonResponse(201, `{"created":true}`), nil
	})
	i.Handle(facade.TypePage, func(ctx context.Context, msg facade.Message, s integration.Settings) (*http.Response, error) {
		return nil, errUpstream
	})
	return i
}

func track() map[string]any {
	return map[string]any{"type": "track", "event": "Signed Up", "userId": "u1", "channel": "server"}
}
