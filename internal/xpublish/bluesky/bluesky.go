package bluesky

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/blacktop/xpublish/internal/xpublish"
	"github.com/bluesky-social/indigo/api/atproto"
	"github.com/bluesky-social/indigo/api/bsky"
	"github.com/bluesky-social/indigo/lex/util"
	"github.com/bluesky-social/indigo/xrpc"
)

const (
	envHandle      = "XPUBLISH_BLUESKY_HANDLE"
	envAppPassword = "XPUBLISH_BLUESKY_APP_PASSWORD"
	envPDSURL      = "XPUBLISH_BLUESKY_PDS_URL"

	providerName   = xpublish.Bluesky
	requestTimeout = 30 * time.Second

	// DefaultPDSURL is used when no PDS is configured.
	DefaultPDSURL = "https://bsky.social"

	postCollection = "app.bsky.feed.post"
	facetLinkType  = "app.bsky.richtext.facet#link"
	facetTagType   = "app.bsky.richtext.facet#tag"
)

// Config allows the caller to supply defaults prior to reading credentials.
type Config struct {
	PDSURL     string
	HTTPClient *http.Client
}

// ProviderConfig merges defaults with credential-source values.
type ProviderConfig struct {
	Handle      string
	AppPassword string
	PDSURL      string
}

// Client implements xpublish.Adapter for Bluesky.
type Client struct {
	cfg        ProviderConfig
	missing    []string
	httpClient *http.Client
}

// New constructs a Bluesky adapter. The session is created on Publish.
func New(creds xpublish.Credentials, base Config) *Client {
	cfg := ProviderConfig{
		Handle:      creds.Lookup(envHandle),
		AppPassword: creds.Lookup(envAppPassword),
		PDSURL:      creds.Lookup(envPDSURL),
	}
	if cfg.PDSURL == "" {
		cfg.PDSURL = strings.TrimSpace(base.PDSURL)
	}
	if cfg.PDSURL == "" {
		cfg.PDSURL = DefaultPDSURL
	}

	httpClient := base.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: requestTimeout}
	}
	return &Client{
		cfg:        cfg,
		missing:    xpublish.MissingCredentials(creds, providerName),
		httpClient: httpClient,
	}
}

// Key identifies the provider.
func (c *Client) Key() xpublish.Key { return providerName }

// Missing lists absent credential variables.
func (c *Client) Missing() []string { return c.missing }

// Publish logs in and creates a post with tag facets and an optional link card.
func (c *Client) Publish(ctx context.Context, p xpublish.Payload) xpublish.Outcome {
	payload, ok := p.(xpublish.BlueskyPayload)
	if !ok {
		return xpublish.Failed(providerName, fmt.Errorf("unexpected payload %T", p))
	}

	client, err := c.login(ctx)
	if err != nil {
		return xpublish.Failed(providerName, err)
	}

	out, err := atproto.RepoCreateRecord(ctx, client, &atproto.RepoCreateRecord_Input{
		Collection: postCollection,
		Repo:       client.Auth.Did,
		Record: &util.LexiconTypeDecoder{
			Val: buildPost(payload, time.Now()),
		},
	})
	if err != nil {
		return xpublish.Failed(providerName, fmt.Errorf("create record: %w", err))
	}

	return xpublish.Succeeded(providerName, "Posted to Bluesky: %s", postURL(client.Auth.Handle, out.Uri))
}

func (c *Client) login(ctx context.Context) (*xrpc.Client, error) {
	userAgent := "xpublish/1"
	client := &xrpc.Client{
		Client:    c.httpClient,
		Host:      c.cfg.PDSURL,
		UserAgent: &userAgent,
	}

	session, err := atproto.ServerCreateSession(ctx, client, &atproto.ServerCreateSession_Input{
		Identifier: c.cfg.Handle,
		Password:   c.cfg.AppPassword,
	})
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}

	client.Auth = &xrpc.AuthInfo{
		AccessJwt:  session.AccessJwt,
		RefreshJwt: session.RefreshJwt,
		Handle:     session.Handle,
		Did:        session.Did,
	}
	return client, nil
}

func buildPost(p xpublish.BlueskyPayload, now time.Time) *bsky.FeedPost {
	post := &bsky.FeedPost{
		CreatedAt: now.UTC().Format(time.RFC3339),
		Text:      p.Text,
		Facets:    facets(p.Text, p.Link, p.Tags),
	}
	if p.Link != "" {
		post.Embed = &bsky.FeedPost_Embed{
			EmbedExternal: &bsky.EmbedExternal{
				External: &bsky.EmbedExternal_External{
					Uri:         p.Link,
					Title:       p.Title,
					Description: p.Description,
				},
			},
		}
	}
	return post
}

// facets marks the link and hashtags in text. Offsets are UTF-8 byte positions.
func facets(text, link string, tags []string) []*bsky.RichtextFacet {
	var out []*bsky.RichtextFacet
	if link != "" {
		if start := strings.Index(text, link); start >= 0 {
			out = append(out, &bsky.RichtextFacet{
				Index: &bsky.RichtextFacet_ByteSlice{ByteStart: int64(start), ByteEnd: int64(start + len(link))},
				Features: []*bsky.RichtextFacet_Features_Elem{{
					RichtextFacet_Link: &bsky.RichtextFacet_Link{LexiconTypeID: facetLinkType, Uri: link},
				}},
			})
		}
	}
	// Tags sit in the trailing line in order, so scan forward from its start.
	cursor := strings.LastIndex(text, "\n\n")
	if cursor < 0 {
		cursor = 0
	}
	for _, tag := range tags {
		start := indexToken(text, tag, cursor)
		if start < 0 {
			continue
		}
		cursor = start + len(tag)
		out = append(out, &bsky.RichtextFacet{
			Index: &bsky.RichtextFacet_ByteSlice{ByteStart: int64(start), ByteEnd: int64(start + len(tag))},
			Features: []*bsky.RichtextFacet_Features_Elem{{
				RichtextFacet_Tag: &bsky.RichtextFacet_Tag{LexiconTypeID: facetTagType, Tag: strings.TrimPrefix(tag, "#")},
			}},
		})
	}
	return out
}

// indexToken finds token in text at or after from, delimited by whitespace or
// the ends of text, so "#go" never matches inside "#golang".
func indexToken(text, token string, from int) int {
	for from < len(text) {
		rel := strings.Index(text[from:], token)
		if rel < 0 {
			return -1
		}
		start := from + rel
		end := start + len(token)
		if (start == 0 || isSpace(text[start-1])) && (end == len(text) || isSpace(text[end])) {
			return start
		}
		from = start + 1
	}
	return -1
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\n' || b == '\t' || b == '\r'
}

// postURL turns an at:// record URI into a bsky.app link.
func postURL(handle, uri string) string {
	rkey := uri[strings.LastIndex(uri, "/")+1:]
	if handle == "" || rkey == "" {
		return uri
	}
	return fmt.Sprintf("https://bsky.app/profile/%s/post/%s", handle, rkey)
}
