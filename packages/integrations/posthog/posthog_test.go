package posthog

import (
	"os"
	"path/filepath"
	"regexp"
	"testing"
	"time"

	"github.com/abdul-hamid-achik/inttest/packages/facade"
	"github.com/abdul-hamid-achik/inttest/packages/http"
	"github.com/abdul-hamid-achik/inttest/packages/integration"
	"github.com/abdul-hamid-achik/inttest/packages/stub"
	"github.com/abdul-hamid-achik/inttest/packages/tester"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const apiKey = "phc_test_key"

func settings() integration.Settings {
	return integration.Settings{"apiKey": apiKey}
}

func newStub(t *testing.T, reply stub.Reply) (*stub.Server, string) {
	t.Helper()
	srv := stub.NewServer()
	srv.Route("POST", CapturePath, reply)
	url := srv.Start()
	t.Cleanup(srv.Close)
	return srv, url
}

func TestMetadata(t *testing.T) {
	tester.New(t, New(DefaultEndpoint)).
		Name("PostHog").
		Endpoint("https://us.i.posthog.com").
		Timeout("10s").
		Retries(3).
		Channels("server", "client").
		Option("apiKey", integration.Option{
			Type:        "string",
			Required:    true,
			Description: "Your PostHog project API key",
		}).
		Option("groupType", integration.Option{
			Type:        "string",
			Default:     "company",
			Description: "Group type used for group calls",
		}).
		Requires("", "settings.apiKey").
		Requires("track", "message.event").
		Requires("group", "message.groupId").
		Requires("alias", "message.previousId")
}

func TestFixtures(t *testing.T) {
	for _, name := range []string{"identify", "track", "page", "screen", "group", "alias"} {
		t.Run(name, func(t *testing.T) {
			tester.New(t, New(DefaultEndpoint), tester.WithDir(".")).Fixture(name)
		})
	}
}

func TestMappersRejectOtherVariants(t *testing.T) {
	identify := facade.NewIdentify(map[string]any{"userId": "u1"})
	for _, fn := range []integration.MapFunc{mapTrack, mapPage, mapScreen, mapGroup, mapAlias} {
		_, err := fn(identify, settings())
		assert.ErrorIs(t, err, ErrMessageType)
	}
	_, err := mapIdentify(facade.NewTrack(map[string]any{}), settings())
	assert.ErrorIs(t, err, ErrMessageType)
}

func TestFixture_ActionDoesNotChangeVariant(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "fixtures"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "fixtures", "clash.json"), []byte(`{
		"input": {"type": "track", "action": "identify", "event": "Signed Up", "userId": "u1"},
		"output": {"api_key": "phc_test_key", "event": "Signed Up", "distinct_id": "u1", "properties": {}},
		"settings": {"apiKey": "phc_test_key"}
	}`), 0644))

	tester.New(t, New(DefaultEndpoint), tester.WithDir(dir)).Fixture("clash")
}

func TestValidation(t *testing.T) {
	tester.New(t, New(DefaultEndpoint)).
		Valid(map[string]any{"type": "track", "event": "Signed Up", "userId": "u1"}, settings()).
		Invalid(map[string]any{"type": "track", "userId": "u1"}, settings()).
		Invalid(map[string]any{"type": "track", "event": "Signed Up"}, integration.Settings{}).
		Invalid(map[string]any{"type": "track", "event": "Signed Up"}, integration.Settings{"apiKey": "short"}).
		Invalid(map[string]any{"type": "group", "userId": "u1"}, settings()).
		Valid(map[string]any{"type": "group", "groupId": "acme"}, settings()).
		Invalid(map[string]any{"type": "alias", "userId": "u1"}, settings()).
		Invalid(map[string]any{"type": "identify"}, integration.Settings{"apiKey": apiKey, "host": "not a url"}).
		Valid(map[string]any{"type": "identify"}, integration.Settings{"apiKey": apiKey, "host": "https://ph.example.com"})
}

func TestChannels(t *testing.T) {
	msg := map[string]any{"type": "track", "event": "Signed Up"}

	tester.New(t, New(DefaultEndpoint)).
		Server(msg).
		Client(msg).
		Disabled(map[string]any{"type": "track", "channel": "mobile"}).
		Disabled(map[string]any{
			"type":         "track",
			"channel":      "server",
			"integrations": map[string]any{"All": false},
		})
}

func TestTrack(t *testing.T) {
	srv, url := newStub(t, stub.Reply{Body: `{"status":1}`})

	tester.New(t, New(url)).
		Track(map[string]any{
			"event":      "Signed Up",
			"userId":     "u1",
			"properties": map[string]any{"plan": "pro"},
		}, settings()).
		Requests(1).
		Pathname("/capture/").
		Sends("Content-Type", "application/json").
		Sends(map[string]any{
			"api_key":     apiKey,
			"event":       "Signed Up",
			"distinct_id": "u1",
			"properties":  map[string]any{"plan": "pro"},
		}).
		Sends(regexp.MustCompile(`"event":"Signed Up"`)).
		Expects(200).
		Expects(map[string]any{"status": 1}).
		Expects(regexp.MustCompile(`status`)).
		End(func(err error, resp *http.Response) {
			require.NoError(t, err)
			assert.True(t, resp.IsJSON())
		})

	last, ok := srv.Last()
	require.True(t, ok)
	assert.Equal(t, "/capture/", last.Path)
	assert.Contains(t, last.BodyString(), `"distinct_id":"u1"`)
}

func TestIdentify_AutoEnd(t *testing.T) {
	_, url := newStub(t, stub.Reply{Body: `{"status":1}`})

	tester.New(t, New(url)).
		Identify(map[string]any{"userId": "u1", "traits": map[string]any{"email": "a@b.co"}}, settings()).
		Sends(regexp.MustCompile(`"\$identify"`)).
		Expects(200, func(err error, _ *http.Response) {
			assert.NoError(t, err)
		})
}

func TestHostOverride(t *testing.T) {
	srv, url := newStub(t, stub.Reply{Body: `{"status":1}`})

	tester.New(t, New(DefaultEndpoint)).
		Page(map[string]any{"anonymousId": "a1", "name": "Home"},
			integration.Settings{"apiKey": apiKey, "host": url + "/"}).
		Expects(200).
		End(func(err error, _ *http.Response) {
			require.NoError(t, err)
		})

	assert.Len(t, srv.Requests(), 1)
}

func TestClientError(t *testing.T) {
	srv, url := newStub(t, stub.Reply{StatusCode: 400, Body: `{"status":0,"error":"event field is required"}`})

	tester.New(t, New(url)).
		Track(map[string]any{"userId": "u1"}, settings()).
		Error(func(err error, _ *http.Response) {
			assert.NoError(t, err)
		})

	assert.Len(t, srv.Requests(), 1)
}

func TestServerErrorIsRetried(t *testing.T) {
	srv, url := newStub(t, stub.Reply{StatusCode: 503, Body: `{"status":0}`})

	const delay = 25 * time.Millisecond
	tester.New(t, New(url, integration.WithRetryDelay(delay))).
		Alias(map[string]any{"userId": "u1", "previousId": "a1"}, settings()).
		End(func(err error, resp *http.Response) {
			var herr *integration.HTTPError
			require.ErrorAs(t, err, &herr)
			assert.Equal(t, 503, herr.StatusCode)
			require.NotNil(t, resp)
			assert.True(t, resp.IsServerError())
		})

	requests := srv.Requests()
	require.Len(t, requests, 4)
	for n := 1; n < len(requests); n++ {
		assert.GreaterOrEqual(t, requests[n].Received.Sub(requests[n-1].Received), delay)
	}
}
