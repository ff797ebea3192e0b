package medium

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/blacktop/xpublish/internal/restapi"
	"github.com/blacktop/xpublish/internal/xpublish"
)

const (
	envToken    = "XPUBLISH_MEDIUM_INTEGRATION_TOKEN"
	envAuthorID = "XPUBLISH_MEDIUM_AUTHOR_ID"

	providerName   = xpublish.Medium
	defaultBaseURL = "https://api.medium.com"
	requestTimeout = 30 * time.Second
)

// Config overrides the API endpoint and transport.
type Config struct {
	BaseURL    string
	HTTPClient *http.Client
}

// Client publishes stories with a Medium integration token.
type Client struct {
	authorID string
	missing  []string
	api      *restapi.Client
}

// New constructs a Medium adapter.
func New(creds xpublish.Credentials, cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = restapi.NewHTTPClient(requestTimeout)
	}
	token := creds.Lookup(envToken)
	return &Client{
		authorID: creds.Lookup(envAuthorID),
		missing:  xpublish.MissingCredentials(creds, providerName),
		api: &restapi.Client{
			HTTP:    cfg.HTTPClient,
			BaseURL: cfg.BaseURL,
			Header:  http.Header{"Authorization": []string{"Bearer " + token}},
		},
	}
}

// Key returns the destination identifier.
func (c *Client) Key() xpublish.Key { return providerName }

// Missing lists absent credential variables.
func (c *Client) Missing() []string { return c.missing }

type postInput struct {
	Title         string   `json:"title"`
	ContentFormat string   `json:"contentFormat"`
	Content       string   `json:"content"`
	Tags          []string `json:"tags,omitempty"`
	CanonicalURL  string   `json:"canonicalUrl,omitempty"`
	PublishStatus string   `json:"publishStatus"`
}

type postOutput struct {
	Data struct {
		ID  string `json:"id"`
		URL string `json:"url"`
	} `json:"data"`
}

// Publish creates a public story under the configured author.
func (c *Client) Publish(ctx context.Context, p xpublish.Payload) xpublish.Outcome {
	payload, ok := p.(xpublish.MediumPayload)
	if !ok {
		return xpublish.Failed(providerName, fmt.Errorf("unexpected payload %T", p))
	}

	var out postOutput
	path := "/v1/users/" + url.PathEscape(c.authorID) + "/posts"
	err := c.api.PostJSON(ctx, path, postInput{
		Title:         payload.Title,
		ContentFormat: "html",
		Content:       payload.HTML,
		Tags:          payload.Tags,
		CanonicalURL:  payload.CanonicalURL,
		PublishStatus: "public",
	}, &out)
	if err != nil {
		return xpublish.Failed(providerName, fmt.Errorf("create post: %w", err))
	}

	if out.Data.URL == "" {
		return xpublish.Succeeded(providerName, "Published to Medium (id %s)", out.Data.ID)
	}
	return xpublish.Succeeded(providerName, "Published to Medium: %s", out.Data.URL)
}
