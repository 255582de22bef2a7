package feed

import (
	"net/url"
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

// UnknownSource is returned by HumanSource when no host can be derived.
const UnknownSource = "source"

var trackingParams = map[string]bool{
	"gclid":  true,
	"fbclid": true,
}

func isTrackingParam(key string) bool {
	key = strings.ToLower(key)
	return strings.HasPrefix(key, "utm_") || trackingParams[key]
}

// NormalizeURL removes tracking query parameters and the fragment. The rest of
// the link is kept as written, including non-ASCII path text. Unparseable
// input is returned as is.
func NormalizeURL(raw string) string {
	if _, err := url.Parse(raw); err != nil {
		return raw
	}

	withoutFragment, _, _ := strings.Cut(raw, "#")
	base, query, _ := strings.Cut(withoutFragment, "?")

	var kept []string
	for _, pair := range strings.Split(query, "&") {
		if pair == "" {
			continue
		}
		key, _, _ := strings.Cut(pair, "=")
		if unescaped, err := url.QueryUnescape(key); err == nil {
			key = unescaped
		}
		if isTrackingParam(key) {
			continue
		}
		kept = append(kept, pair)
	}

	if len(kept) == 0 {
		return base
	}
	return base + "?" + strings.Join(kept, "&")
}

// IsWebURL reports whether raw is an absolute http or https link.
func IsWebURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return false
	}
	scheme := strings.ToLower(u.Scheme)
	return scheme == "http" || scheme == "https"
}

// HumanSource returns the link's host without a leading "www.".
func HumanSource(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return UnknownSource
	}
	return strings.TrimPrefix(strings.ToLower(u.Host), "www.")
}

// Hostname returns the host of raw, or "" when it has none.
func Hostname(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	return u.Host
}

// ParseUTC parses a free-form date. Values without a zone are taken as UTC.
func ParseUTC(raw string) *time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}

	t, err := dateparse.ParseIn(raw, time.UTC)
	if err != nil {
		return nil
	}

	return ToUTC(&t)
}

func ToUTC(t *time.Time) *time.Time {
	if t == nil || t.IsZero() {
		return nil
	}
	utc := t.UTC()
	return &utc
}

// PublishedAt returns the first of published, updated and created that
// resolves to a timestamp.
func (e Entry) PublishedAt() *time.Time {
	candidates := []struct {
		parsed *time.Time
		raw    string
	}{
		{e.PublishedParsed, e.Published},
		{e.UpdatedParsed, e.Updated},
		{nil, e.Created},
	}

	for _, c := range candidates {
		if t := ToUTC(c.parsed); t != nil {
			return t
		}
		if t := ParseUTC(c.raw); t != nil {
			return t
		}
	}

	return nil
}
