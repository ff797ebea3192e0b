package xpublish

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

const ellipsis = "…"

// Hashtags turns free-form tags into "#tag" tokens, dropping punctuation,
// whitespace and case-insensitive duplicates.
func Hashtags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := map[string]struct{}{}
	for _, tag := range tags {
		word := compactTag(tag, func(r rune) bool {
			return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_'
		})
		if word == "" {
			continue
		}
		fold := strings.ToLower(word)
		if _, ok := seen[fold]; ok {
			continue
		}
		seen[fold] = struct{}{}
		out = append(out, "#"+word)
	}
	return out
}

func compactTag(tag string, keep func(rune) bool) string {
	var b strings.Builder
	for _, r := range strings.TrimSpace(tag) {
		if keep(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// limitedTags normalizes tags with norm, drops empties and duplicates, and keeps at most n.
func limitedTags(tags []string, n int, norm func(string) string) []string {
	out := make([]string, 0, n)
	seen := map[string]struct{}{}
	for _, tag := range tags {
		if len(out) == n {
			break
		}
		t := norm(tag)
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}

// textFitter composes "head\n\nlink\n\n#a #b" within a character limit.
type textFitter struct {
	limit int
	// linkWeight is how many characters a link counts as; zero means its real length.
	linkWeight int
}

func (f textFitter) fit(head, link string, tags []string) string {
	for {
		for len(tags) > 0 && f.length(head, link, tags) > f.limit {
			tags = tags[:len(tags)-1]
		}
		over := f.length(head, link, tags) - f.limit
		if over <= 0 {
			return compose(head, link, tags)
		}
		avail := utf8.RuneCountInString(head) - over
		if avail < 1 && link != "" {
			link = ""
			continue
		}
		return compose(truncate(head, avail), link, tags)
	}
}

func (f textFitter) length(head, link string, tags []string) int {
	n := utf8.RuneCountInString(head)
	if link != "" {
		n += 2
		if f.linkWeight > 0 {
			n += f.linkWeight
		} else {
			n += utf8.RuneCountInString(link)
		}
	}
	if len(tags) > 0 {
		n += 2 + utf8.RuneCountInString(strings.Join(tags, " "))
	}
	return n
}

func compose(head, link string, tags []string) string {
	parts := make([]string, 0, 3)
	if head != "" {
		parts = append(parts, head)
	}
	if link != "" {
		parts = append(parts, link)
	}
	if len(tags) > 0 {
		parts = append(parts, strings.Join(tags, " "))
	}
	return strings.Join(parts, "\n\n")
}

// truncate shortens s to at most n runes, ending with an ellipsis when cut.
func truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	if n == 1 {
		return ellipsis
	}
	return strings.TrimRightFunc(string(runes[:n-1]), unicode.IsSpace) + ellipsis
}

func paragraphs(parts ...string) string {
	kept := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, "\n\n")
}
