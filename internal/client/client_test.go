package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/argosnews/argosctl/internal/argostest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, srv *argostest.Server, token string) *Client {
	t.Helper()
	c, err := New(Config{
		BaseURL:       srv.URL,
		SessionCookie: srv.SessionCookie,
		SessionToken:  token,
		RatePerSecond: 1000,
		Burst:         100,
		UserAgent:     "argosctl-test",
	}, nil)
	require.NoError(t, err)
	return c
}

func TestNewRejectsInvalidBaseURL(t *testing.T) {
	for _, raw := range []string{"", "localhost:5000", "ftp://example.com", "http://"} {
		_, err := New(Config{BaseURL: raw}, nil)
		assert.ErrorIs(t, err, ErrInvalidBaseURL, raw)
	}
}

func TestResolve(t *testing.T) {
	c, err := New(Config{BaseURL: "https://argos.example.com/"}, nil)
	require.NoError(t, err)

	tests := []struct {
		ref  string
		want string
	}{
		{"/bookmark?event_id=1", "https://argos.example.com/bookmark?event_id=1"},
		{"watch?story_id=2", "https://argos.example.com/watch?story_id=2"},
		{"https://other.example.com/x", "https://other.example.com/x"},
		{"", "https://argos.example.com/"},
	}
	for _, tt := range tests {
		got, err := c.Resolve(tt.ref)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, tt.ref)
	}
}

func TestDoSendsAjaxHeadersAndCookie(t *testing.T) {
	srv := argostest.New(t)
	srv.Token = "s3cret"
	c := newTestClient(t, srv, "s3cret")

	resp, err := c.Do(context.Background(), http.MethodPost, "/bookmark?event_id=1")
	require.NoError(t, err)
	assert.True(t, resp.OK())
	assert.Equal(t, srv.URL+"/bookmark?event_id=1", resp.URL)
	assert.True(t, srv.Bookmarked(1))

	reqs := srv.Requests()
	require.Len(t, reqs, 1)
	assert.Equal(t, "XMLHttpRequest", reqs[0].RequestedWith)
	assert.Equal(t, "s3cret", reqs[0].Cookie)
	assert.Equal(t, "argosctl-test", reqs[0].UserAgent)
	assert.Equal(t, "event_id=1", reqs[0].Query)
}

func TestDoKeepsSessionCookieOnServerOrigin(t *testing.T) {
	srv := argostest.New(t)
	srv.Token = "s3cret"
	c := newTestClient(t, srv, "s3cret")

	cookies := make(chan string, 1)
	other := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookies <- r.Header.Get("Cookie")
		w.WriteHeader(http.StatusOK)
	}))
	defer other.Close()

	resp, err := c.Do(context.Background(), http.MethodGet, other.URL+"/items?page=2")
	require.NoError(t, err)
	assert.True(t, resp.OK())
	assert.Empty(t, <-cookies)

	_, err = c.Do(context.Background(), http.MethodPost, srv.URL+"/bookmark?event_id=1")
	require.NoError(t, err)
	reqs := srv.Requests()
	require.Len(t, reqs, 1)
	assert.Equal(t, "s3cret", reqs[0].Cookie)
}

func TestDoReturnsErrorBodiesWithoutError(t *testing.T) {
	srv := argostest.New(t)
	srv.FailNext("/watch", http.StatusTooManyRequests, "Rate limited")
	c := newTestClient(t, srv, "")

	resp, err := c.Do(context.Background(), http.MethodPost, "/watch?story_id=10")
	require.NoError(t, err)
	assert.False(t, resp.OK())
	assert.Equal(t, http.StatusTooManyRequests, resp.Status)
	assert.Equal(t, "Rate limited", resp.Body)
	assert.False(t, srv.Watching(10))
}

func TestDoWithoutSessionIsUnauthorized(t *testing.T) {
	srv := argostest.New(t)
	srv.Token = "s3cret"
	c := newTestClient(t, srv, "")

	resp, err := c.Do(context.Background(), http.MethodPost, "/bookmark?event_id=1")
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.Status)
	assert.Empty(t, srv.Requests()[0].Cookie)
}

func TestDoTransportError(t *testing.T) {
	srv := argostest.New(t)
	c := newTestClient(t, srv, "")
	srv.Close()

	_, err := c.Get(context.Background(), "/")
	assert.Error(t, err)
}

func TestDoHonoursCancelledContext(t *testing.T) {
	srv := argostest.New(t)
	c, err := New(Config{BaseURL: srv.URL, RatePerSecond: 0.001, Burst: 1}, nil)
	require.NoError(t, err)

	_, err = c.Get(context.Background(), "/")
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err = c.Get(ctx, "/")
	require.Error(t, err)
	assert.Len(t, srv.Requests(), 1)
}

func TestUploadSendsMultipartFile(t *testing.T) {
	srv := argostest.New(t)
	c := newTestClient(t, srv, "")

	resp, err := c.Upload(context.Background(), "/admin/sources/7/icon", "file", "logo.png", []byte("\x89PNG"), "image/png")
	require.NoError(t, err)
	require.True(t, resp.OK(), resp.Body)
	assert.Equal(t, "/static/icons/7/logo.png", resp.Body)

	data, ok := srv.Uploaded(7)
	require.True(t, ok)
	assert.Equal(t, []byte("\x89PNG"), data)
}

func TestUploadUnknownSource(t *testing.T) {
	srv := argostest.New(t)
	c := newTestClient(t, srv, "")

	resp, err := c.Upload(context.Background(), "/admin/sources/99/icon", "file", "logo.png", []byte("x"), "")
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.Status)
}
