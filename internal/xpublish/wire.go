package xpublish

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Tags accepts either a JSON list of strings or a comma separated string.
type Tags []string

func (t *Tags) UnmarshalJSON(data []byte) error {
	var list []string
	if err := json.Unmarshal(data, &list); err == nil {
		*t = list
		return nil
	}
	var joined string
	if err := json.Unmarshal(data, &joined); err == nil {
		*t = SplitTags(joined)
		return nil
	}
	return errors.New("tags must be a string or a list of strings")
}

// SplitTags splits a comma separated tag list, dropping blanks.
func SplitTags(s string) []string {
	var tags []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			tags = append(tags, part)
		}
	}
	return tags
}

// WireRequest is the JSON shape of an inbound publish request.
type WireRequest struct {
	Title        string   `json:"title"`
	Summary      string   `json:"summary"`
	Content      string   `json:"content"`
	CanonicalURL string   `json:"canonicalUrl,omitempty"`
	ImageURL     string   `json:"imageUrl,omitempty"`
	Tags         Tags     `json:"tags"`
	Platforms    []string `json:"platforms"`
}

// Request converts the wire form into a Request. Platform names are not
// checked here; Validate reports unknown ones.
func (w WireRequest) Request() Request {
	platforms := make([]Key, 0, len(w.Platforms))
	for _, p := range w.Platforms {
		platforms = append(platforms, Key(p))
	}
	return Request{
		Content: Content{
			Title:        w.Title,
			Summary:      w.Summary,
			Content:      w.Content,
			CanonicalURL: w.CanonicalURL,
			ImageURL:     w.ImageURL,
			Tags:         []string(w.Tags),
		},
		Platforms: platforms,
	}
}

// DecodeRequest reads a JSON publish request. Malformed bodies are reported
// as a *ValidationError on the "body" field.
func DecodeRequest(r io.Reader) (Request, error) {
	var w WireRequest
	if err := json.NewDecoder(r).Decode(&w); err != nil {
		return Request{}, &ValidationError{
			Issues: []Issue{{Field: "body", Message: fmt.Sprintf("Request body must be a JSON object: %v", err)}},
			causes: []error{err},
		}
	}
	return w.Request(), nil
}

// ResponseKind classifies a Response.
type ResponseKind int

const (
	ResponseOK ResponseKind = iota
	ResponseInvalid
	ResponseFault
)

// Response is the JSON shape returned to callers.
type Response struct {
	OK      bool      `json:"ok"`
	Results []Outcome `json:"results,omitempty"`
	Message string    `json:"message,omitempty"`
	Issues  []Issue   `json:"issues,omitempty"`
	Detail  string    `json:"detail,omitempty"`
}

// NewResponse maps the result of Publisher.Publish onto the wire contract.
func NewResponse(results []Outcome, err error) Response {
	if err == nil {
		return Response{OK: true, Results: results}
	}
	var verr *ValidationError
	if errors.As(err, &verr) {
		return Response{OK: false, Message: "Validation failed", Issues: verr.Issues}
	}
	return Response{OK: false, Message: "Failed to publish content.", Detail: err.Error()}
}

// Kind reports which of the three response forms r is.
func (r Response) Kind() ResponseKind {
	switch {
	case r.OK:
		return ResponseOK
	case len(r.Issues) > 0:
		return ResponseInvalid
	default:
		return ResponseFault
	}
}
