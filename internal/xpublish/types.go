package xpublish

import (
	"context"
	"errors"
	"fmt"
)

// Key identifies a publishing destination.
type Key string

const (
	Twitter  Key = "twitter"
	LinkedIn Key = "linkedin"
	Facebook Key = "facebook"
	Medium   Key = "medium"
	Devto    Key = "devto"
	Mastodon Key = "mastodon"
	Bluesky  Key = "bluesky"
)

func (k Key) String() string { return string(k) }

// Content is the canonical article shared across all destinations.
type Content struct {
	Title        string   `json:"title" validate:"min=5"`
	Summary      string   `json:"summary" validate:"min=24"`
	Content      string   `json:"content" validate:"min=100"`
	CanonicalURL string   `json:"canonicalUrl,omitempty" validate:"omitempty,absurl"`
	ImageURL     string   `json:"imageUrl,omitempty" validate:"omitempty,absurl"`
	Tags         []string `json:"tags" validate:"max=8"`
}

// Request pairs the content with the destinations it should go to.
type Request struct {
	Content   Content
	Platforms []Key
}

// Status is the result class of a single publish attempt.
type Status string

const (
	StatusSuccess Status = "success"
	StatusSkipped Status = "skipped"
	StatusFailed  Status = "failed"
)

// Outcome reports what happened for one requested destination.
type Outcome struct {
	Platform Key    `json:"platform"`
	Status   Status `json:"status"`
	Message  string `json:"message"`
}

// Succeeded builds a success outcome.
func Succeeded(key Key, format string, args ...any) Outcome {
	return Outcome{Platform: key, Status: StatusSuccess, Message: fmt.Sprintf(format, args...)}
}

// Skipped builds a skipped outcome.
func Skipped(key Key, reason string) Outcome {
	return Outcome{Platform: key, Status: StatusSkipped, Message: reason}
}

// Failed converts an adapter error into a failed outcome.
func Failed(key Key, err error) Outcome {
	msg := "unknown error"
	switch {
	case err == nil:
	case errors.Is(err, context.DeadlineExceeded):
		msg = "request timed out"
	case errors.Is(err, context.Canceled):
		msg = "request canceled"
	default:
		msg = err.Error()
	}
	return Outcome{Platform: key, Status: StatusFailed, Message: msg}
}

// Payload is a destination-specific rendition of Content, produced by Shape.
type Payload interface {
	Destination() Key
}

// Adapter publishes shaped payloads to one destination.
type Adapter interface {
	Key() Key
	// Missing lists required credential variables that are absent or empty.
	Missing() []string
	// Publish performs the destination call. Failures are reported as a
	// StatusFailed outcome, never as a panic or error.
	Publish(ctx context.Context, p Payload) Outcome
}

// HasCredentials reports whether every credential the adapter needs is present.
func HasCredentials(a Adapter) bool {
	return len(a.Missing()) == 0
}
