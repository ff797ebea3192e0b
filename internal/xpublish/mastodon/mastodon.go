package mastodon

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/blacktop/xpublish/internal/xpublish"
	mastodonapi "github.com/mattn/go-mastodon"
)

const (
	envServer       = "XPUBLISH_MASTODON_SERVER"
	envAccessToken  = "XPUBLISH_MASTODON_ACCESS_TOKEN"
	envClientID     = "XPUBLISH_MASTODON_CLIENT_ID"
	envClientSecret = "XPUBLISH_MASTODON_CLIENT_SECRET"

	providerName   = xpublish.Mastodon
	requestTimeout = 30 * time.Second
)

// Config contains the settings needed to reach a Mastodon server.
type Config struct {
	Server       string
	AccessToken  string
	ClientID     string
	ClientSecret string
}

// Client wraps the Mastodon API client with xpublish semantics.
type Client struct {
	cfg     Config
	missing []string
	client  *mastodonapi.Client
}

// New constructs a Mastodon adapter from the credential source.
func New(creds xpublish.Credentials) *Client {
	cfg := Config{
		Server:       strings.TrimRight(creds.Lookup(envServer), "/"),
		AccessToken:  creds.Lookup(envAccessToken),
		ClientID:     creds.Lookup(envClientID),
		ClientSecret: creds.Lookup(envClientSecret),
	}

	mastodonClient := mastodonapi.NewClient(&mastodonapi.Config{
		Server:       cfg.Server,
		AccessToken:  cfg.AccessToken,
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
	})
	mastodonClient.Timeout = requestTimeout

	return &Client{
		cfg:     cfg,
		missing: xpublish.MissingCredentials(creds, providerName),
		client:  mastodonClient,
	}
}

// Key identifies the provider.
func (c *Client) Key() xpublish.Key { return providerName }

// Missing lists absent credential variables.
func (c *Client) Missing() []string { return c.missing }

// Publish posts a new public status to the configured instance.
func (c *Client) Publish(ctx context.Context, p xpublish.Payload) xpublish.Outcome {
	payload, ok := p.(xpublish.MastodonPayload)
	if !ok {
		return xpublish.Failed(providerName, fmt.Errorf("unexpected payload %T", p))
	}

	status, err := c.client.PostStatus(ctx, &mastodonapi.Toot{
		Status:     payload.Status,
		Visibility: "public",
	})
	if err != nil {
		return xpublish.Failed(providerName, fmt.Errorf("post status: %w", err))
	}

	if status.URL == "" {
		return xpublish.Succeeded(providerName, "Posted to Mastodon (id %s)", status.ID)
	}
	return xpublish.Succeeded(providerName, "Posted to Mastodon: %s", status.URL)
}
