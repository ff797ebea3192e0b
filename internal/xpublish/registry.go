package xpublish

import "strings"

// Descriptor is the static description of a supported destination.
type Descriptor struct {
	Key             Key      `json:"key"`
	Label           string   `json:"label"`
	BrandColor      string   `json:"brandColor"`
	Description     string   `json:"description"`
	EnvVars         []string `json:"envVars"`
	OptionalEnvVars []string `json:"optionalEnvVars,omitempty"`
}

var registry = []Descriptor{
	{
		Key:         Twitter,
		Label:       "X (Twitter)",
		BrandColor:  "#1d9bf0",
		Description: "Short teaser with canonical link and hashtags.",
		EnvVars: []string{
			"XPUBLISH_TWITTER_CONSUMER_KEY",
			"XPUBLISH_TWITTER_CONSUMER_SECRET",
			"XPUBLISH_TWITTER_ACCESS_TOKEN",
			"XPUBLISH_TWITTER_ACCESS_TOKEN_SECRET",
		},
	},
	{
		Key:         LinkedIn,
		Label:       "LinkedIn",
		BrandColor:  "#0a66c2",
		Description: "Summary post sharing the canonical article.",
		EnvVars: []string{
			"XPUBLISH_LINKEDIN_ACCESS_TOKEN",
			"XPUBLISH_LINKEDIN_AUTHOR_URN",
		},
	},
	{
		Key:         Facebook,
		Label:       "Facebook",
		BrandColor:  "#1877f2",
		Description: "Page post with summary and canonical link.",
		EnvVars: []string{
			"XPUBLISH_FACEBOOK_PAGE_ID",
			"XPUBLISH_FACEBOOK_PAGE_ACCESS_TOKEN",
		},
	},
	{
		Key:         Medium,
		Label:       "Medium",
		BrandColor:  "#00ab6c",
		Description: "Full article rendered to HTML with canonical reference.",
		EnvVars: []string{
			"XPUBLISH_MEDIUM_INTEGRATION_TOKEN",
			"XPUBLISH_MEDIUM_AUTHOR_ID",
		},
	},
	{
		Key:         Devto,
		Label:       "DEV.to",
		BrandColor:  "#0a0a0a",
		Description: "Full markdown article with canonical reference.",
		EnvVars: []string{
			"XPUBLISH_DEVTO_API_KEY",
		},
	},
	{
		Key:         Mastodon,
		Label:       "Mastodon",
		BrandColor:  "#6364ff",
		Description: "Toot with summary, link and hashtags.",
		EnvVars: []string{
			"XPUBLISH_MASTODON_SERVER",
			"XPUBLISH_MASTODON_ACCESS_TOKEN",
		},
	},
	{
		Key:         Bluesky,
		Label:       "Bluesky",
		BrandColor:  "#0085ff",
		Description: "Post with link card and tag facets.",
		EnvVars: []string{
			"XPUBLISH_BLUESKY_HANDLE",
			"XPUBLISH_BLUESKY_APP_PASSWORD",
		},
		OptionalEnvVars: []string{
			"XPUBLISH_BLUESKY_PDS_URL",
		},
	},
}

var byKey = func() map[Key]int {
	m := make(map[Key]int, len(registry))
	for i, d := range registry {
		m[d.Key] = i
	}
	return m
}()

// Keys returns every registered destination in registry order.
func Keys() []Key {
	keys := make([]Key, len(registry))
	for i, d := range registry {
		keys[i] = d.Key
	}
	return keys
}

// Describe returns the descriptor registered for key.
func Describe(key Key) (Descriptor, error) {
	i, ok := byKey[key]
	if !ok {
		return Descriptor{}, &UnknownDestinationError{Key: string(key)}
	}
	d := registry[i]
	d.EnvVars = append([]string(nil), d.EnvVars...)
	d.OptionalEnvVars = append([]string(nil), d.OptionalEnvVars...)
	return d, nil
}

// ParseKey normalizes raw (case and surrounding space) and checks it against the registry.
func ParseKey(raw string) (Key, error) {
	key := Key(strings.ToLower(strings.TrimSpace(raw)))
	if _, ok := byKey[key]; !ok {
		return "", &UnknownDestinationError{Key: raw}
	}
	return key, nil
}

// MissingCredentials returns the required variables of key's descriptor that
// creds has no value for, in registry order.
func MissingCredentials(creds Credentials, key Key) []string {
	i, ok := byKey[key]
	if !ok {
		return nil
	}
	return MissingVars(creds, registry[i].EnvVars)
}

// MissingVars returns the names in vars that creds has no value for.
func MissingVars(creds Credentials, vars []string) []string {
	var missing []string
	for _, name := range vars {
		if strings.TrimSpace(creds.Lookup(name)) == "" {
			missing = append(missing, name)
		}
	}
	return missing
}
