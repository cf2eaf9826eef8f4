package stub

import (
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServer_RoutesAndRecords(t *testing.T) {
	srv := NewServer()
	srv.Route("post", "/capture/", Reply{Body: `{"status":1}`, Headers: map[string]string{"X-Stub": "yes"}})
	url := srv.Start()
	defer srv.Close()

	resp, err := http.Post(url+"/capture/?v=3", "application/json", strings.NewReader(`{"event":"x"}`))
	require.NoError(t, err)
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)

	assert.Equal(t, 200, resp.StatusCode)
	assert.Equal(t, `{"status":1}`, string(body))
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))
	assert.Equal(t, "yes", resp.Header.Get("X-Stub"))

	last, ok := srv.Last()
	require.True(t, ok)
	assert.True(t, last.Matched)
	assert.Equal(t, "POST", last.Method)
	assert.Equal(t, "/capture/", last.Path)
	assert.Equal(t, "v=3", last.RawQuery)
	assert.Equal(t, `{"event":"x"}`, last.BodyString())
	assert.Equal(t, "application/json", last.Headers["Content-Type"])

	assert.False(t, last.Received.IsZero())

	_, err = uuid.Parse(last.ID)
	assert.NoError(t, err)
	assert.Equal(t, last.ID, resp.Header.Get("X-Request-Id"))
}

func TestServer_PathParams(t *testing.T) {
	srv := NewServer()
	srv.Route("PUT", "/v1/users/{id}", Reply{StatusCode: 201, Body: `{"id":"{{id}}"}`})
	url := srv.Start()
	defer srv.Close()

	req, err := http.NewRequest("PUT", url+"/v1/users/u42", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)

	assert.Equal(t, 201, resp.StatusCode)
	assert.Equal(t, `{"id":"u42"}`, string(body))
}

func TestServer_Unmatched(t *testing.T) {
	srv := NewServer()
	srv.Route("GET", "/ok", Reply{})
	url := srv.Start()
	defer srv.Close()

	resp, err := http.Get(url + "/missing")
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, 404, resp.StatusCode)
	requests := srv.Requests()
	require.Len(t, requests, 1)
	assert.False(t, requests[0].Matched)

	srv.Reset()
	assert.Empty(t, srv.Requests())
	assert.Len(t, srv.Routes(), 1)
}

func TestServer_Delay(t *testing.T) {
	srv := NewServer(WithDelay(30 * time.Millisecond))
	srv.Route("GET", "/slow", Reply{StatusCode: 204})
	url := srv.Start()
	defer srv.Close()

	start := time.Now()
	resp, err := http.Get(url + "/slow")
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, 204, resp.StatusCode)
	assert.GreaterOrEqual(t, time.Since(start), 30*time.Millisecond)
}

func TestServer_URLBeforeStart(t *testing.T) {
	srv := NewServer()
	assert.Empty(t, srv.URL())
	srv.Close()
}
