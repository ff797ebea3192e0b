package xpublish

import (
	"fmt"
	"os"
	"strings"

	"go.yaml.in/yaml/v3"
)

// Credentials resolves credential variables by name. An empty string means unset.
type Credentials interface {
	Lookup(name string) string
}

// EnvCredentials reads credentials from the process environment.
type EnvCredentials struct{}

func (EnvCredentials) Lookup(name string) string {
	return strings.TrimSpace(os.Getenv(name))
}

// MapCredentials is a fixed name to value mapping.
type MapCredentials map[string]string

func (m MapCredentials) Lookup(name string) string {
	return strings.TrimSpace(m[name])
}

// ChainCredentials returns the first non-empty value found in its sources.
type ChainCredentials []Credentials

func (c ChainCredentials) Lookup(name string) string {
	for _, src := range c {
		if src == nil {
			continue
		}
		if v := src.Lookup(name); v != "" {
			return v
		}
	}
	return ""
}

// LoadCredentialsFile reads a flat YAML mapping of variable names to values.
func LoadCredentialsFile(path string) (MapCredentials, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read credentials: %w", err)
	}
	return ParseCredentials(data)
}

// ParseCredentials decodes a flat YAML mapping of variable names to values.
func ParseCredentials(data []byte) (MapCredentials, error) {
	raw := map[string]string{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse credentials: %w", err)
	}
	creds := make(MapCredentials, len(raw))
	for k, v := range raw {
		creds[strings.TrimSpace(k)] = v
	}
	return creds, nil
}
