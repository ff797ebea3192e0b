package twitter

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/blacktop/xpublish/internal/xpublish"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var creds = xpublish.MapCredentials{
	envAPIKey:       "ck",
	envAPISecret:    "cs",
	envAccessToken:  "at",
	envAccessSecret: "as",
}

// redirect sends every request to the test server, keeping path and query.
type redirect struct {
	target *url.URL
}

func (r redirect) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	req.URL.Scheme = r.target.Scheme
	req.URL.Host = r.target.Host
	req.Host = r.target.Host
	return http.DefaultTransport.RoundTrip(req)
}

func clientFor(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	target, err := url.Parse(srv.URL)
	require.NoError(t, err)
	return New(creds, Config{HTTPClient: &http.Client{Transport: redirect{target: target}}})
}

func TestPublish(t *testing.T) {
	c := clientFor(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/2/tweets", r.URL.Path)
		assert.True(t, strings.HasPrefix(r.Header.Get("Authorization"), "OAuth "))

		var in map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		assert.Equal(t, "Hello X\n\n#go", in["text"])

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"data":{"id":"1445880548472328192","text":"Hello X\n\n#go"}}`))
	})

	out := c.Publish(context.Background(), xpublish.TweetPayload{Text: "Hello X\n\n#go"})
	assert.Equal(t, xpublish.StatusSuccess, out.Status, out.Message)
	assert.Equal(t, "Posted to X: https://x.com/i/web/status/1445880548472328192", out.Message)
}

func TestPublishForbidden(t *testing.T) {
	c := clientFor(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"title":"Forbidden","detail":"You are not allowed to create a Tweet with duplicate content.","type":"about:blank","status":403}`))
	})

	out := c.Publish(context.Background(), xpublish.TweetPayload{Text: "dup"})
	assert.Equal(t, xpublish.StatusFailed, out.Status)
	assert.True(t, strings.HasPrefix(out.Message, "post tweet: "), out.Message)
}

func TestMissing(t *testing.T) {
	c := New(xpublish.MapCredentials{envAPIKey: "ck", envAccessToken: "at"}, Config{})
	assert.Equal(t, []string{envAPISecret, envAccessSecret}, c.Missing())
}

func TestPublishWrongPayload(t *testing.T) {
	out := New(creds, Config{}).Publish(context.Background(), xpublish.MastodonPayload{Status: "x"})
	assert.Equal(t, xpublish.StatusFailed, out.Status)
	assert.Equal(t, "unexpected payload xpublish.MastodonPayload", out.Message)
}

func TestSummarizeGotwiErrorNil(t *testing.T) {
	assert.Equal(t, "unknown X API error", summarizeGotwiError(nil))
}
