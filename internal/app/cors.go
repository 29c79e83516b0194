package app

import (
	"net/url"
	"strings"
)

// extractOriginHost reduces an Origin header value to its host[:port] part
// for pattern matching. Values that do not parse are matched as-is.
func extractOriginHost(origin string) string {
	u, err := url.Parse(origin)
	if err != nil || u.Host == "" {
		return origin
	}
	return u.Host
}

// matchOriginPattern matches a configured allowed_origins entry against a
// request host. Three forms are understood: an exact host, "*.example.com"
// for any subdomain, and "localhost:*" for any port.
func matchOriginPattern(pattern, host string) bool {
	switch {
	case pattern == host:
		return true
	case strings.HasPrefix(pattern, "*."):
		return strings.HasSuffix(host, pattern[1:])
	case strings.HasSuffix(pattern, ":*"):
		return strings.HasPrefix(host, pattern[:len(pattern)-1])
	default:
		return false
	}
}
