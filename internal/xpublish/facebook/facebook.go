package facebook

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
	envPageID    = "XPUBLISH_FACEBOOK_PAGE_ID"
	envPageToken = "XPUBLISH_FACEBOOK_PAGE_ACCESS_TOKEN"

	providerName   = xpublish.Facebook
	defaultBaseURL = "https://graph.facebook.com/v19.0"
	requestTimeout = 30 * time.Second
)

// Config overrides the Graph API endpoint and transport.
type Config struct {
	BaseURL    string
	HTTPClient *http.Client
}

// Client posts to a Facebook page feed.
type Client struct {
	pageID  string
	token   string
	missing []string
	api     *restapi.Client
}

// New constructs a Facebook page adapter.
func New(creds xpublish.Credentials, cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = restapi.NewHTTPClient(requestTimeout)
	}
	return &Client{
		pageID:  creds.Lookup(envPageID),
		token:   creds.Lookup(envPageToken),
		missing: xpublish.MissingCredentials(creds, providerName),
		api: &restapi.Client{
			HTTP:    cfg.HTTPClient,
			BaseURL: cfg.BaseURL,
		},
	}
}

// Key returns the destination identifier.
func (c *Client) Key() xpublish.Key { return providerName }

// Missing lists absent credential variables.
func (c *Client) Missing() []string { return c.missing }

type feedInput struct {
	Message     string `json:"message"`
	Link        string `json:"link,omitempty"`
	AccessToken string `json:"access_token"`
}

type feedOutput struct {
	ID string `json:"id"`
}

// Publish creates a page feed post.
func (c *Client) Publish(ctx context.Context, p xpublish.Payload) xpublish.Outcome {
	payload, ok := p.(xpublish.FacebookPayload)
	if !ok {
		return xpublish.Failed(providerName, fmt.Errorf("unexpected payload %T", p))
	}

	var out feedOutput
	err := c.api.PostJSON(ctx, "/"+url.PathEscape(c.pageID)+"/feed", feedInput{
		Message:     payload.Message,
		Link:        payload.Link,
		AccessToken: c.token,
	}, &out)
	if err != nil {
		return xpublish.Failed(providerName, fmt.Errorf("create page post: %w", err))
	}

	if out.ID == "" {
		return xpublish.Succeeded(providerName, "Posted to Facebook page")
	}
	return xpublish.Succeeded(providerName, "Posted to Facebook page: %s", out.ID)
}
