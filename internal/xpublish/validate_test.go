package xpublish

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateNormalizes(t *testing.T) {
	c := validContent()
	c.Title = "  " + c.Title + "  "
	c.CanonicalURL = " https://example.com/post "
	c.Tags = []string{" go ", "", "   ", "async"}

	req, err := Validate(Request{Content: c, Platforms: []Key{" Medium", "twitter", "medium"}})
	require.NoError(t, err)

	assert.Equal(t, "Async Patterns for Reliable Systems", req.Content.Title)
	assert.Equal(t, "https://example.com/post", req.Content.CanonicalURL)
	assert.Equal(t, []string{"go", "async"}, req.Content.Tags)
	assert.Equal(t, []Key{Medium, Twitter}, req.Platforms)
}

func TestValidateMessages(t *testing.T) {
	_, err := Validate(Request{Content: Content{
		Title:        "Hi",
		Summary:      "short",
		Content:      "tiny",
		CanonicalURL: "example.com/post",
	}})

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, []Issue{
		{Field: "title", Message: "Title must be at least 5 characters."},
		{Field: "summary", Message: "Summary must be at least 24 characters."},
		{Field: "content", Message: "Content must be at least 100 characters."},
		{Field: "canonicalUrl", Message: "Canonical URL must be a valid absolute URL."},
		{Field: "platforms", Message: "Select at least one platform."},
	}, verr.Issues)
}

func TestValidateBoundaries(t *testing.T) {
	c := validContent()
	c.Title = "Åsync"
	c.Summary = "exactly twenty-four char"
	c.Content = stringOfLen(100)
	c.Tags = []string{"1", "2", "3", "4", "5", "6", "7", "8"}
	c.ImageURL = "https://cdn.example.com/cover.png"

	_, err := Validate(Request{Content: c, Platforms: []Key{Devto}})
	assert.NoError(t, err)

	c.Content = stringOfLen(99)
	_, err = Validate(Request{Content: c, Platforms: []Key{Devto}})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	require.Len(t, verr.Issues, 1)
	assert.Equal(t, "content", verr.Issues[0].Field)
}

func TestValidateWhitespaceTitle(t *testing.T) {
	c := validContent()
	c.Title = "   ab   "

	_, err := Validate(Request{Content: c, Platforms: []Key{Twitter}})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	_, ok := verr.Field("title")
	assert.True(t, ok)
}

func TestValidateUnknownPlatforms(t *testing.T) {
	_, err := Validate(Request{Content: validContent(), Platforms: []Key{"twitter", "myspace", "friendster"}})

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	require.Len(t, verr.Issues, 2)
	assert.Equal(t, "platforms", verr.Issues[0].Field)
	assert.Equal(t, `Unknown platform "myspace".`, verr.Issues[0].Message)
	assert.Equal(t, `Unknown platform "friendster".`, verr.Issues[1].Message)
}

func stringOfLen(n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = 'x'
	}
	return string(b)
}

func TestValidateTagLimit(t *testing.T) {
	c := validContent()
	c.Tags = []string{"a", "b", "c", "d", "e", "f", "g", "h", "i"}

	_, err := Validate(Request{Content: c, Platforms: []Key{Medium}})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	issue, ok := verr.Field("tags")
	require.True(t, ok)
	assert.Equal(t, "At most 8 tags are allowed.", issue.Message)

	c.Tags = []string{"a", "b", "c", "d", "e", "f", "g", "h", " ", ""}
	_, err = Validate(Request{Content: c, Platforms: []Key{Medium}})
	assert.NoError(t, err, "blank tags are dropped before counting")
}
