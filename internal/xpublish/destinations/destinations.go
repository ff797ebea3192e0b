// Package destinations wires one adapter per registered destination.
package destinations

import (
	"github.com/blacktop/xpublish/internal/xpublish"
	"github.com/blacktop/xpublish/internal/xpublish/bluesky"
	"github.com/blacktop/xpublish/internal/xpublish/devto"
	"github.com/blacktop/xpublish/internal/xpublish/facebook"
	"github.com/blacktop/xpublish/internal/xpublish/linkedin"
	"github.com/blacktop/xpublish/internal/xpublish/mastodon"
	"github.com/blacktop/xpublish/internal/xpublish/medium"
	"github.com/blacktop/xpublish/internal/xpublish/twitter"
)

var constructors = map[xpublish.Key]func(xpublish.Credentials) xpublish.Adapter{
	xpublish.Twitter: func(c xpublish.Credentials) xpublish.Adapter {
		return twitter.New(c, twitter.Config{})
	},
	xpublish.LinkedIn: func(c xpublish.Credentials) xpublish.Adapter {
		return linkedin.New(c, linkedin.Config{})
	},
	xpublish.Facebook: func(c xpublish.Credentials) xpublish.Adapter {
		return facebook.New(c, facebook.Config{})
	},
	xpublish.Medium: func(c xpublish.Credentials) xpublish.Adapter {
		return medium.New(c, medium.Config{})
	},
	xpublish.Devto: func(c xpublish.Credentials) xpublish.Adapter {
		return devto.New(c, devto.Config{})
	},
	xpublish.Mastodon: func(c xpublish.Credentials) xpublish.Adapter {
		return mastodon.New(c)
	},
	xpublish.Bluesky: func(c xpublish.Credentials) xpublish.Adapter {
		return bluesky.New(c, bluesky.Config{PDSURL: bluesky.DefaultPDSURL})
	},
}

// New returns an adapter for every registered destination, in registry order.
func New(creds xpublish.Credentials) []xpublish.Adapter {
	keys := xpublish.Keys()
	adapters := make([]xpublish.Adapter, 0, len(keys))
	for _, key := range keys {
		if build, ok := constructors[key]; ok {
			adapters = append(adapters, build(creds))
		}
	}
	return adapters
}
