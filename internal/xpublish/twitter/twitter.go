package twitter

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/blacktop/xpublish/internal/logutil"
	"github.com/blacktop/xpublish/internal/xpublish"
	"github.com/michimani/gotwi"
	"github.com/michimani/gotwi/tweet/managetweet"
	managetweettypes "github.com/michimani/gotwi/tweet/managetweet/types"
)

const (
	envAPIKey       = "XPUBLISH_TWITTER_CONSUMER_KEY"
	envAPISecret    = "XPUBLISH_TWITTER_CONSUMER_SECRET"
	envAccessToken  = "XPUBLISH_TWITTER_ACCESS_TOKEN"
	envAccessSecret = "XPUBLISH_TWITTER_ACCESS_TOKEN_SECRET"
	envDebug        = "XPUBLISH_TWITTER_DEBUG"

	providerName = xpublish.Twitter
)

var httpTimeout = 30 * time.Second

// Config captures the credentials required for OAuth 1.0a user-context requests.
type Config struct {
	APIKey       string
	APISecret    string
	AccessToken  string
	AccessSecret string
	Debug        bool

	// HTTPClient overrides the transport used by gotwi.
	HTTPClient *http.Client
}

// Client implements xpublish.Adapter for X (Twitter).
type Client struct {
	cfg     Config
	missing []string
}

// New constructs a Twitter adapter from the credential source.
func New(creds xpublish.Credentials, base Config) *Client {
	cfg := base
	cfg.APIKey = creds.Lookup(envAPIKey)
	cfg.APISecret = creds.Lookup(envAPISecret)
	cfg.AccessToken = creds.Lookup(envAccessToken)
	cfg.AccessSecret = creds.Lookup(envAccessSecret)
	cfg.Debug = cfg.Debug || creds.Lookup(envDebug) == "1"
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{Timeout: httpTimeout}
	}
	return &Client{cfg: cfg, missing: xpublish.MissingCredentials(creds, providerName)}
}

// Key returns the provider identifier.
func (c *Client) Key() xpublish.Key { return providerName }

// Missing lists absent credential variables.
func (c *Client) Missing() []string { return c.missing }

// Publish posts the tweet text to X.
func (c *Client) Publish(ctx context.Context, p xpublish.Payload) xpublish.Outcome {
	payload, ok := p.(xpublish.TweetPayload)
	if !ok {
		return xpublish.Failed(providerName, fmt.Errorf("unexpected payload %T", p))
	}

	api, err := gotwi.NewClient(&gotwi.NewClientInput{
		HTTPClient:           c.cfg.HTTPClient,
		AuthenticationMethod: gotwi.AuthenMethodOAuth1UserContext,
		OAuthToken:           c.cfg.AccessToken,
		OAuthTokenSecret:     c.cfg.AccessSecret,
		APIKey:               c.cfg.APIKey,
		APIKeySecret:         c.cfg.APISecret,
		Debug:                c.cfg.Debug || logutil.Verbose(),
	})
	if err != nil {
		return xpublish.Failed(providerName, fmt.Errorf("create X client: %w", err))
	}
	if !api.IsReady() {
		return xpublish.Failed(providerName, errors.New("twitter client not ready"))
	}

	logutil.Debugf("posting tweet: chars=%d", len([]rune(payload.Text)))
	res, err := managetweet.Create(ctx, api, &managetweettypes.CreateInput{
		Text: gotwi.String(payload.Text),
	})
	if err != nil {
		return xpublish.Failed(providerName, fmt.Errorf("post tweet: %w", unwrapGotwiError(err)))
	}

	id := gotwi.StringValue(res.Data.ID)
	logutil.Debugf("tweet posted: id=%s", id)
	if id == "" {
		return xpublish.Succeeded(providerName, "Posted to X")
	}
	return xpublish.Succeeded(providerName, "Posted to X: https://x.com/i/web/status/%s", id)
}

func unwrapGotwiError(err error) error {
	var gwErr *gotwi.GotwiError
	if errors.As(err, &gwErr) && gwErr != nil {
		return errors.New(summarizeGotwiError(gwErr))
	}
	return err
}

func summarizeGotwiError(err *gotwi.GotwiError) string {
	if err == nil {
		return "unknown X API error"
	}

	parts := make([]string, 0, 4)
	if err.Title != "" {
		parts = append(parts, err.Title)
	}
	if err.Detail != "" {
		parts = append(parts, err.Detail)
	}
	for _, apiErr := range err.APIErrors {
		if apiErr.Message != "" {
			parts = append(parts, apiErr.Message)
		}
	}
	if len(parts) == 0 {
		if msg := err.Error(); msg != "" {
			parts = append(parts, msg)
		}
	}
	if len(parts) == 0 {
		parts = append(parts, "X API request failed")
	}

	return strings.Join(parts, "; ")
}
