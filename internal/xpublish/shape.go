package xpublish

import (
	"bytes"
	"fmt"
	"html"
	"strings"
	"unicode"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	gmhtml "github.com/yuin/goldmark/renderer/html"
)

const (
	tweetLimit    = 280
	tcoLinkLength = 23
	tootLimit     = 500
	skeetLimit    = 300
	linkedInLimit = 3000

	mediumMaxTags   = 5
	mediumMaxTagLen = 25
	devtoMaxTags    = 4
	devtoMaxTagLen  = 30
)

// Raw HTML in the body is passed through; Medium sanitizes stories on import.
var markdown = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
	goldmark.WithRendererOptions(gmhtml.WithUnsafe()),
)

// TweetPayload is a single post on X.
type TweetPayload struct {
	Text string
}

func (TweetPayload) Destination() Key { return Twitter }

// LinkedInPayload is a LinkedIn share that links the canonical article.
type LinkedInPayload struct {
	Commentary  string
	Title       string
	Description string
	Link        string
	ImageURL    string
}

func (LinkedInPayload) Destination() Key { return LinkedIn }

// FacebookPayload is a page feed post.
type FacebookPayload struct {
	Message string
	Link    string
}

func (FacebookPayload) Destination() Key { return Facebook }

// MediumPayload is a full Medium story in HTML.
type MediumPayload struct {
	Title        string
	HTML         string
	Tags         []string
	CanonicalURL string
}

func (MediumPayload) Destination() Key { return Medium }

// DevtoPayload is a full DEV.to article in markdown.
type DevtoPayload struct {
	Title        string
	BodyMarkdown string
	Description  string
	Tags         []string
	CanonicalURL string
	MainImage    string
}

func (DevtoPayload) Destination() Key { return Devto }

// MastodonPayload is a single status.
type MastodonPayload struct {
	Status string
}

func (MastodonPayload) Destination() Key { return Mastodon }

// BlueskyPayload is a post with an optional external link card.
type BlueskyPayload struct {
	Text        string
	Link        string
	Title       string
	Description string
	// Tags are the hashtags (with "#") that appear in Text.
	Tags []string
}

func (BlueskyPayload) Destination() Key { return Bluesky }

// Shape converts content into the payload the destination's adapter needs.
// It is pure: the same input always yields the same payload.
func Shape(c Content, key Key) (Payload, error) {
	title := strings.TrimSpace(c.Title)
	summary := strings.TrimSpace(c.Summary)
	link := strings.TrimSpace(c.CanonicalURL)
	image := strings.TrimSpace(c.ImageURL)
	hashtags := Hashtags(c.Tags)

	switch key {
	case Twitter:
		f := textFitter{limit: tweetLimit, linkWeight: tcoLinkLength}
		return TweetPayload{Text: f.fit(title, link, hashtags)}, nil
	case LinkedIn:
		f := textFitter{limit: linkedInLimit}
		return LinkedInPayload{
			Commentary:  f.fit(paragraphs(title, summary), "", hashtags),
			Title:       title,
			Description: summary,
			Link:        link,
			ImageURL:    image,
		}, nil
	case Facebook:
		return FacebookPayload{
			Message: compose(paragraphs(title, summary), "", hashtags),
			Link:    link,
		}, nil
	case Medium:
		body, err := renderHTML(title, image, c.Content)
		if err != nil {
			return nil, fmt.Errorf("render %s body: %w", key, err)
		}
		return MediumPayload{
			Title:        title,
			HTML:         body,
			Tags:         limitedTags(c.Tags, mediumMaxTags, mediumTag),
			CanonicalURL: link,
		}, nil
	case Devto:
		return DevtoPayload{
			Title:        title,
			BodyMarkdown: c.Content,
			Description:  summary,
			Tags:         limitedTags(c.Tags, devtoMaxTags, devtoTag),
			CanonicalURL: link,
			MainImage:    image,
		}, nil
	case Mastodon:
		f := textFitter{limit: tootLimit, linkWeight: tcoLinkLength}
		return MastodonPayload{Status: f.fit(paragraphs(title, summary), link, hashtags)}, nil
	case Bluesky:
		f := textFitter{limit: skeetLimit}
		text := f.fit(paragraphs(title, summary), link, hashtags)
		return BlueskyPayload{
			Text:        text,
			Link:        link,
			Title:       title,
			Description: summary,
			Tags:        presentTags(text, hashtags),
		}, nil
	}
	return nil, &UnknownDestinationError{Key: string(key)}
}

func renderHTML(title, image, body string) (string, error) {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "<h1>%s</h1>\n", html.EscapeString(title))
	if image != "" {
		fmt.Fprintf(&buf, "<img src=\"%s\" alt=\"%s\">\n", html.EscapeString(image), html.EscapeString(title))
	}
	if err := markdown.Convert([]byte(body), &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func mediumTag(tag string) string {
	runes := []rune(strings.Join(strings.Fields(tag), " "))
	if len(runes) > mediumMaxTagLen {
		runes = runes[:mediumMaxTagLen]
	}
	return strings.TrimSpace(string(runes))
}

func devtoTag(tag string) string {
	t := strings.ToLower(compactTag(tag, func(r rune) bool {
		return r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r))
	}))
	if len(t) > devtoMaxTagLen {
		t = t[:devtoMaxTagLen]
	}
	return t
}

// presentTags keeps the hashtags that survived fitting into text.
func presentTags(text string, hashtags []string) []string {
	var out []string
	for _, tag := range hashtags {
		if containsToken(text, tag) {
			out = append(out, tag)
		}
	}
	return out
}

func containsToken(text, token string) bool {
	for _, field := range strings.Fields(text) {
		if field == token {
			return true
		}
	}
	return false
}
