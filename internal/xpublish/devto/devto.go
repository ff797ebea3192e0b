package devto

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/blacktop/xpublish/internal/restapi"
	"github.com/blacktop/xpublish/internal/xpublish"
)

const (
	envAPIKey = "XPUBLISH_DEVTO_API_KEY"

	providerName   = xpublish.Devto
	defaultBaseURL = "https://dev.to"
	requestTimeout = 30 * time.Second
)

// Config overrides the API endpoint and transport.
type Config struct {
	BaseURL    string
	HTTPClient *http.Client
}

// Client publishes articles through the Forem (DEV.to) API.
type Client struct {
	missing []string
	api     *restapi.Client
}

// New constructs a DEV.to adapter. Missing credentials are reported by Missing.
func New(creds xpublish.Credentials, cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = restapi.NewHTTPClient(requestTimeout)
	}
	apiKey := creds.Lookup(envAPIKey)
	return &Client{
		missing: xpublish.MissingCredentials(creds, providerName),
		api: &restapi.Client{
			HTTP:    cfg.HTTPClient,
			BaseURL: cfg.BaseURL,
			Header:  http.Header{"Api-Key": []string{apiKey}},
		},
	}
}

// Key returns the destination identifier.
func (c *Client) Key() xpublish.Key { return providerName }

// Missing lists absent credential variables.
func (c *Client) Missing() []string { return c.missing }

type articleInput struct {
	Article article `json:"article"`
}

type article struct {
	Title        string   `json:"title"`
	BodyMarkdown string   `json:"body_markdown"`
	Published    bool     `json:"published"`
	Description  string   `json:"description,omitempty"`
	Tags         []string `json:"tags,omitempty"`
	CanonicalURL string   `json:"canonical_url,omitempty"`
	MainImage    string   `json:"main_image,omitempty"`
}

type articleOutput struct {
	ID  int64  `json:"id"`
	URL string `json:"url"`
}

// Publish creates a published article.
func (c *Client) Publish(ctx context.Context, p xpublish.Payload) xpublish.Outcome {
	payload, ok := p.(xpublish.DevtoPayload)
	if !ok {
		return xpublish.Failed(providerName, fmt.Errorf("unexpected payload %T", p))
	}

	var out articleOutput
	err := c.api.PostJSON(ctx, "/api/articles", articleInput{Article: article{
		Title:        payload.Title,
		BodyMarkdown: payload.BodyMarkdown,
		Published:    true,
		Description:  payload.Description,
		Tags:         payload.Tags,
		CanonicalURL: payload.CanonicalURL,
		MainImage:    payload.MainImage,
	}}, &out)
	if err != nil {
		return xpublish.Failed(providerName, fmt.Errorf("create article: %w", err))
	}

	if out.URL == "" {
		return xpublish.Succeeded(providerName, "Published to DEV.to (id %d)", out.ID)
	}
	return xpublish.Succeeded(providerName, "Published to DEV.to: %s", out.URL)
}
