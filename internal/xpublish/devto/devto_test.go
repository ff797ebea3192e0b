package devto

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/blacktop/xpublish/internal/xpublish"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var payload = xpublish.DevtoPayload{
	Title:        "Async Patterns for Reliable Systems",
	BodyMarkdown: "# Hello\n\nbody",
	Description:  "A deep dive into resilient async orchestration.",
	Tags:         []string{"go", "async"},
	CanonicalURL: "https://example.com/async",
}

func TestPublish(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/articles", r.URL.Path)
		assert.Equal(t, "k3y", r.Header.Get("api-key"))

		var in articleInput
		require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		assert.Equal(t, payload.Title, in.Article.Title)
		assert.Equal(t, payload.BodyMarkdown, in.Article.BodyMarkdown)
		assert.Equal(t, payload.Tags, in.Article.Tags)
		assert.Equal(t, payload.CanonicalURL, in.Article.CanonicalURL)
		assert.True(t, in.Article.Published)

		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id":7,"url":"https://dev.to/me/async-patterns-1a2b"}`))
	}))
	defer srv.Close()

	c := New(xpublish.MapCredentials{envAPIKey: "k3y"}, Config{BaseURL: srv.URL})
	require.Empty(t, c.Missing())

	out := c.Publish(context.Background(), payload)
	assert.Equal(t, xpublish.StatusSuccess, out.Status)
	assert.Equal(t, xpublish.Devto, out.Platform)
	assert.Equal(t, "Published to DEV.to: https://dev.to/me/async-patterns-1a2b", out.Message)
}

func TestPublishRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"error":"Canonical url has already been taken","status":422}`))
	}))
	defer srv.Close()

	c := New(xpublish.MapCredentials{envAPIKey: "k3y"}, Config{BaseURL: srv.URL})
	out := c.Publish(context.Background(), payload)
	assert.Equal(t, xpublish.StatusFailed, out.Status)
	assert.Equal(t, "create article: HTTP 422: Canonical url has already been taken", out.Message)
}

func TestPublishWrongPayload(t *testing.T) {
	c := New(xpublish.MapCredentials{envAPIKey: "k3y"}, Config{BaseURL: "http://127.0.0.1:1"})
	out := c.Publish(context.Background(), xpublish.TweetPayload{Text: "hi"})
	assert.Equal(t, xpublish.StatusFailed, out.Status)
	assert.Contains(t, out.Message, "unexpected payload")
}

func TestMissing(t *testing.T) {
	c := New(xpublish.MapCredentials{}, Config{})
	assert.Equal(t, []string{envAPIKey}, c.Missing())
}
