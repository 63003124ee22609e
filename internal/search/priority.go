package search

import (
	"net/url"
	"strings"
)

// PrioritizedURL is a result URL annotated with its allowlist match.
type PrioritizedURL struct {
	URL      string
	Priority bool
}

// Prioritize partitions urls into allowlist matches and the rest, keeping
// the original relative order within each partition, and caps the combined
// list at max. Priority links always come first; generic links only pad the
// tail when fewer than max priority links exist.
func Prioritize(urls []string, allowlist []string, max int) []PrioritizedURL {
	if max <= 0 {
		max = 10
	}

	var priority, generic []string
	for _, u := range urls {
		if matchesAllowlist(u, allowlist) {
			priority = append(priority, u)
		} else {
			generic = append(generic, u)
		}
	}

	out := make([]PrioritizedURL, 0, max)
	for _, u := range priority {
		if len(out) >= max {
			return out
		}
		out = append(out, PrioritizedURL{URL: u, Priority: true})
	}
	for _, u := range generic {
		if len(out) >= max {
			return out
		}
		out = append(out, PrioritizedURL{URL: u})
	}
	return out
}

// matchesAllowlist checks u against the allowlist fragments. A TLD-style
// fragment (".io") must be a suffix of the hostname, so ".co" cannot claim
// every .com link; a path fragment ("linkedin.com/company") must anchor the
// start of host+path, with or without a www prefix.
func matchesAllowlist(u string, allowlist []string) bool {
	parsed, err := url.Parse(u)
	if err != nil || parsed.Hostname() == "" {
		return false
	}
	host := strings.ToLower(parsed.Hostname())
	hostPath := host + parsed.EscapedPath()
	bare := strings.TrimPrefix(hostPath, "www.")

	for _, fragment := range allowlist {
		if fragment == "" {
			continue
		}
		if strings.HasPrefix(fragment, ".") && !strings.Contains(fragment, "/") {
			if strings.HasSuffix(host, fragment) {
				return true
			}
			continue
		}
		if strings.HasPrefix(hostPath, fragment) || strings.HasPrefix(bare, fragment) {
			return true
		}
	}
	return false
}
