package crawler

import (
	"net/url"
	"strings"
)

// Deduplicator tracks resolved URLs accepted during one parse pass
type Deduplicator struct {
	seen map[string]struct{}
}

// NewDeduplicator creates an empty deduplicator
func NewDeduplicator() *Deduplicator {
	return &Deduplicator{seen: make(map[string]struct{})}
}

// Accept records link and reports whether it had not been accepted before
func (d *Deduplicator) Accept(link string) bool {
	key := canonicalURL(link)
	if _, ok := d.seen[key]; ok {
		return false
	}
	d.seen[key] = struct{}{}
	return true
}

// canonicalURL drops the fragment and lowercases scheme and host
func canonicalURL(link string) string {
	u, err := url.Parse(link)
	if err != nil {
		return link
	}
	u.Fragment = ""
	u.RawFragment = ""
	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = strings.ToLower(u.Host)
	return u.String()
}

// resolveLink resolves href against the listing URL. Empty or unparsable
// hrefs resolve to the listing URL itself.
func resolveLink(listingURL, href string, ok bool) string {
	href = strings.TrimSpace(href)
	if !ok || href == "" || strings.HasPrefix(strings.ToLower(href), "javascript:") {
		return listingURL
	}

	base, err := url.Parse(listingURL)
	if err != nil {
		return listingURL
	}
	ref, err := url.Parse(href)
	if err != nil {
		return listingURL
	}

	return base.ResolveReference(ref).String()
}
