package classify

import (
	"net/url"
	"strings"
)

// Domain extracts the normalized domain from a feed URL: the hostname,
// lowercased, with a leading "www." removed. Returns "" when the URL has
// no parseable host.
func Domain(rawURL string) string {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil || u.Host == "" {
		return ""
	}
	return NormalizeDomain(u.Hostname())
}

// NormalizeDomain lowercases a bare domain and strips a leading "www.".
func NormalizeDomain(domain string) string {
	d := strings.ToLower(strings.TrimSpace(domain))
	return strings.TrimPrefix(d, "www.")
}

// parentDomains lists the domain followed by each parent obtained by
// stripping the leftmost label, stopping at the registrable pair, e.g.
// a.b.example.com, b.example.com, example.com.
func parentDomains(domain string) []string {
	parts := strings.Split(domain, ".")
	if len(parts) < 2 {
		return []string{domain}
	}
	out := make([]string, 0, len(parts)-1)
	for len(parts) >= 2 {
		out = append(out, strings.Join(parts, "."))
		parts = parts[1:]
	}
	return out
}
