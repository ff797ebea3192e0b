package linkedin

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/blacktop/xpublish/internal/restapi"
	"github.com/blacktop/xpublish/internal/xpublish"
)

const (
	envAccessToken = "XPUBLISH_LINKEDIN_ACCESS_TOKEN"
	envAuthorURN   = "XPUBLISH_LINKEDIN_AUTHOR_URN"

	providerName   = xpublish.LinkedIn
	defaultBaseURL = "https://api.linkedin.com"
	requestTimeout = 30 * time.Second

	shareContentKey = "com.linkedin.ugc.ShareContent"
	visibilityKey   = "com.linkedin.ugc.MemberNetworkVisibility"
)

// Config overrides the API endpoint and transport.
type Config struct {
	BaseURL    string
	HTTPClient *http.Client
}

// Client shares posts through the LinkedIn UGC API.
type Client struct {
	author  string
	missing []string
	api     *restapi.Client
}

// New constructs a LinkedIn adapter.
func New(creds xpublish.Credentials, cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = restapi.NewHTTPClient(requestTimeout)
	}
	token := creds.Lookup(envAccessToken)
	return &Client{
		author:  creds.Lookup(envAuthorURN),
		missing: xpublish.MissingCredentials(creds, providerName),
		api: &restapi.Client{
			HTTP:    cfg.HTTPClient,
			BaseURL: cfg.BaseURL,
			Header: http.Header{
				"Authorization":             []string{"Bearer " + token},
				"X-Restli-Protocol-Version": []string{"2.0.0"},
			},
		},
	}
}

// Key returns the destination identifier.
func (c *Client) Key() xpublish.Key { return providerName }

// Missing lists absent credential variables.
func (c *Client) Missing() []string { return c.missing }

type text struct {
	Text string `json:"text"`
}

type thumbnail struct {
	URL string `json:"url"`
}

type media struct {
	Status      string      `json:"status"`
	OriginalURL string      `json:"originalUrl"`
	Title       *text       `json:"title,omitempty"`
	Description *text       `json:"description,omitempty"`
	Thumbnails  []thumbnail `json:"thumbnails,omitempty"`
}

type shareContent struct {
	ShareCommentary    text    `json:"shareCommentary"`
	ShareMediaCategory string  `json:"shareMediaCategory"`
	Media              []media `json:"media,omitempty"`
}

type ugcPost struct {
	Author          string                  `json:"author"`
	LifecycleState  string                  `json:"lifecycleState"`
	SpecificContent map[string]shareContent `json:"specificContent"`
	Visibility      map[string]string       `json:"visibility"`
}

type ugcPostOutput struct {
	ID string `json:"id"`
}

func buildPost(author string, p xpublish.LinkedInPayload) ugcPost {
	share := shareContent{
		ShareCommentary:    text{Text: p.Commentary},
		ShareMediaCategory: "NONE",
	}
	if p.Link != "" {
		m := media{
			Status:      "READY",
			OriginalURL: p.Link,
			Title:       &text{Text: p.Title},
			Description: &text{Text: p.Description},
		}
		if p.ImageURL != "" {
			m.Thumbnails = []thumbnail{{URL: p.ImageURL}}
		}
		share.ShareMediaCategory = "ARTICLE"
		share.Media = []media{m}
	}
	return ugcPost{
		Author:          author,
		LifecycleState:  "PUBLISHED",
		SpecificContent: map[string]shareContent{shareContentKey: share},
		Visibility:      map[string]string{visibilityKey: "PUBLIC"},
	}
}

// Publish shares the commentary (and the canonical article, when present).
func (c *Client) Publish(ctx context.Context, p xpublish.Payload) xpublish.Outcome {
	payload, ok := p.(xpublish.LinkedInPayload)
	if !ok {
		return xpublish.Failed(providerName, fmt.Errorf("unexpected payload %T", p))
	}

	var out ugcPostOutput
	if err := c.api.PostJSON(ctx, "/v2/ugcPosts", buildPost(c.author, payload), &out); err != nil {
		return xpublish.Failed(providerName, fmt.Errorf("create share: %w", err))
	}

	if out.ID == "" {
		return xpublish.Succeeded(providerName, "Shared on LinkedIn")
	}
	return xpublish.Succeeded(providerName, "Shared on LinkedIn: %s", out.ID)
}
