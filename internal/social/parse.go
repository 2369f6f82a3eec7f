// Package social normalizes pasted social-media URLs into platform/handle pairs.
package social

import (
	"net/url"
	"regexp"
	"strings"
)

// Handle is a parsed social-media link: a lower-cased platform key and the
// protocol-free URL to store under it.
type Handle struct {
	Platform string
	URL      string
}

// platformDomains maps known social domains to canonical platform keys.
// Matching walks the table in order, so a hostname containing more than one
// known domain always resolves to the same platform.
var platformDomains = []struct {
	domain   string
	platform string
}{
	{"instagram.com", "instagram"},
	{"linkedin.com", "linkedin"},
	{"twitter.com", "twitter"},
	{"x.com", "twitter"},
	{"github.com", "github"},
	{"facebook.com", "facebook"},
	{"youtube.com", "youtube"},
	{"tiktok.com", "tiktok"},
	{"pinterest.com", "pinterest"},
	{"snapchat.com", "snapchat"},
	{"reddit.com", "reddit"},
	{"medium.com", "medium"},
	{"behance.net", "behance"},
	{"dribbble.com", "dribbble"},
	{"portfolio", "portfolio"},
}

var schemeRe = regexp.MustCompile(`(?i)^https?://`)

// Parse extracts the platform and a protocol-free URL from a pasted link.
// A scheme is added when missing, the www. prefix is ignored, and unknown
// domains fall back to the second-level domain label. Input that cannot be
// parsed as a URL at all is filed under the "custom" platform. Empty input
// returns ok=false.
func Parse(raw string) (Handle, bool) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return Handle{}, false
	}

	normalized := trimmed
	if !schemeRe.MatchString(normalized) {
		normalized = "https://" + normalized
	}
	stored := schemeRe.ReplaceAllString(normalized, "")

	u, err := url.Parse(normalized)
	if err != nil || u.Hostname() == "" {
		return Handle{Platform: "custom", URL: stored}, true
	}

	host := strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
	for _, entry := range platformDomains {
		if strings.Contains(host, entry.domain) {
			return Handle{Platform: entry.platform, URL: stored}, true
		}
	}

	// Unrecognized host: use the second-level label as the platform name.
	parts := strings.Split(host, ".")
	platform := host
	if len(parts) > 1 {
		platform = parts[len(parts)-2]
	}
	return Handle{Platform: platform, URL: stored}, true
}

// Add parses raw and inserts the result into handles, overwriting any previous
// entry for the same platform. The returned map is the same map (allocated if
// nil); key order is irrelevant.
func Add(handles map[string]string, raw string) (map[string]string, bool) {
	h, ok := Parse(raw)
	if !ok {
		return handles, false
	}
	if handles == nil {
		handles = make(map[string]string)
	}
	handles[h.Platform] = h.URL
	return handles, true
}
