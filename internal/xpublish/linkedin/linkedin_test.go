package linkedin

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

var creds = xpublish.MapCredentials{
	envAccessToken: "tok",
	envAuthorURN:   "urn:li:person:abc",
}

func TestPublishArticleShare(t *testing.T) {
	payload := xpublish.LinkedInPayload{
		Commentary:  "Title\n\nSummary\n\n#go",
		Title:       "Title",
		Description: "Summary",
		Link:        "https://example.com/post",
		ImageURL:    "https://cdn.example.com/cover.png",
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v2/ugcPosts", r.URL.Path)
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		assert.Equal(t, "2.0.0", r.Header.Get("X-Restli-Protocol-Version"))

		var in ugcPost
		require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		assert.Equal(t, "urn:li:person:abc", in.Author)
		assert.Equal(t, "PUBLIC", in.Visibility[visibilityKey])

		share := in.SpecificContent[shareContentKey]
		assert.Equal(t, payload.Commentary, share.ShareCommentary.Text)
		assert.Equal(t, "ARTICLE", share.ShareMediaCategory)
		require.Len(t, share.Media, 1)
		assert.Equal(t, payload.Link, share.Media[0].OriginalURL)
		require.Len(t, share.Media[0].Thumbnails, 1)
		assert.Equal(t, payload.ImageURL, share.Media[0].Thumbnails[0].URL)

		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id":"urn:li:share:6844785523593134080"}`))
	}))
	defer srv.Close()

	out := New(creds, Config{BaseURL: srv.URL}).Publish(context.Background(), payload)
	assert.Equal(t, xpublish.StatusSuccess, out.Status)
	assert.Equal(t, "Shared on LinkedIn: urn:li:share:6844785523593134080", out.Message)
}

func TestBuildPostWithoutLink(t *testing.T) {
	post := buildPost("urn:li:person:abc", xpublish.LinkedInPayload{Commentary: "just text"})
	share := post.SpecificContent[shareContentKey]
	assert.Equal(t, "NONE", share.ShareMediaCategory)
	assert.Empty(t, share.Media)
}

func TestPublishServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"message":"Not enough permissions to access: ugcPosts.CREATE","status":403}`))
	}))
	defer srv.Close()

	out := New(creds, Config{BaseURL: srv.URL}).Publish(context.Background(), xpublish.LinkedInPayload{Commentary: "x"})
	assert.Equal(t, xpublish.StatusFailed, out.Status)
	assert.Contains(t, out.Message, "HTTP 403: Not enough permissions")
}

func TestMissing(t *testing.T) {
	assert.Equal(t, []string{envAccessToken, envAuthorURN}, New(xpublish.MapCredentials{}, Config{}).Missing())
}
