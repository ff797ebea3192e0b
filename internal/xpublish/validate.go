package xpublish

import (
	"errors"
	"fmt"
	"net/url"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

const maxTags = 8

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	if err := v.RegisterValidation("absurl", isAbsoluteURL); err != nil {
		panic(err)
	}
	return v
}

func isAbsoluteURL(fl validator.FieldLevel) bool {
	u, err := url.Parse(fl.Field().String())
	return err == nil && u.Scheme != "" && u.Host != ""
}

// Validate checks req and returns it normalized: trimmed text fields, cleaned
// tags and de-duplicated platforms in first-seen order. Every violation is
// reported in a single *ValidationError.
func Validate(req Request) (Request, error) {
	content := normalizeContent(req.Content)

	var issues []Issue
	var causes []error
	if err := validate.Struct(content); err != nil {
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			return Request{}, fmt.Errorf("validate content: %w", err)
		}
		for _, fe := range fieldErrs {
			issues = append(issues, issueFor(fe))
		}
	}

	keys, keyIssues, keyCauses := resolveKeys(req.Platforms)
	issues = append(issues, keyIssues...)
	causes = append(causes, keyCauses...)

	if len(issues) > 0 {
		return Request{}, &ValidationError{Issues: issues, causes: causes}
	}
	return Request{Content: content, Platforms: keys}, nil
}

func normalizeContent(c Content) Content {
	out := Content{
		Title:        strings.TrimSpace(c.Title),
		Summary:      strings.TrimSpace(c.Summary),
		Content:      c.Content,
		CanonicalURL: strings.TrimSpace(c.CanonicalURL),
		ImageURL:     strings.TrimSpace(c.ImageURL),
	}
	out.Tags = make([]string, 0, len(c.Tags))
	for _, tag := range c.Tags {
		if tag = strings.TrimSpace(tag); tag != "" {
			out.Tags = append(out.Tags, tag)
		}
	}
	return out
}

func resolveKeys(platforms []Key) ([]Key, []Issue, []error) {
	if len(platforms) == 0 {
		return nil, []Issue{{Field: "platforms", Message: "Select at least one platform."}}, nil
	}

	var (
		keys   = make([]Key, 0, len(platforms))
		seen   = map[Key]struct{}{}
		issues []Issue
		causes []error
	)
	for _, raw := range platforms {
		key, err := ParseKey(string(raw))
		if err != nil {
			issues = append(issues, Issue{Field: "platforms", Message: fmt.Sprintf("Unknown platform %q.", string(raw))})
			causes = append(causes, err)
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		keys = append(keys, key)
	}
	return keys, issues, causes
}

func issueFor(fe validator.FieldError) Issue {
	field := fe.Field()
	label := fieldLabel(field)
	var msg string
	switch fe.Tag() {
	case "min":
		msg = fmt.Sprintf("%s must be at least %s characters.", label, fe.Param())
	case "max":
		msg = fmt.Sprintf("At most %d tags are allowed.", maxTags)
	case "absurl":
		msg = fmt.Sprintf("%s must be a valid absolute URL.", label)
	default:
		msg = fmt.Sprintf("%s is invalid (%s).", label, fe.Tag())
	}
	return Issue{Field: field, Message: msg}
}

func fieldLabel(field string) string {
	switch {
	case strings.HasPrefix(field, "canonicalUrl"):
		return "Canonical URL"
	case strings.HasPrefix(field, "imageUrl"):
		return "Image URL"
	case field == "":
		return "Field"
	}
	return strings.ToUpper(field[:1]) + field[1:]
}
