package docsum

import (
	"net/url"
	"regexp"
	"strings"
)

// versionSegment matches a path segment naming a historical docs version (v1, v23).
var versionSegment = regexp.MustCompile(`^v[0-9]+$`)

// Scope restricts crawling to one documentation subtree on one origin.
type Scope struct {
	// Scheme is the scheme every URL must share. Empty allows http and https.
	Scheme string

	// Host is the host (with port) every URL must share.
	Host string

	// PathPrefix is the subtree root, always ending in "/".
	PathPrefix string
}

// NewScope derives a scope from the start URL: its scheme and host, and
// its path as the subtree root.
func NewScope(startURL string) (*Scope, error) {
	u, err := url.Parse(startURL)
	if err != nil {
		return nil, Errorf(EINVALID, "invalid start URL: %v", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, Errorf(EINVALID, "start URL must be http or https: %q", startURL)
	}
	if u.Host == "" {
		return nil, Errorf(EINVALID, "start URL has no host: %q", startURL)
	}

	prefix := u.Path
	if !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}
	return &Scope{Scheme: u.Scheme, Host: u.Host, PathPrefix: prefix}, nil
}

// Contains reports whether rawURL is a crawl candidate: an absolute
// http(s) URL on the scope's scheme and host, under the path prefix, and
// outside any versioned subtree. Two URLs differing only in scheme map to
// the same relative URL, so only one of them can be in scope.
func (s *Scope) Contains(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return false
	}
	if s.Scheme != "" && u.Scheme != s.Scheme {
		return false
	}
	if u.Host != s.Host {
		return false
	}
	if !s.containsPath(u.Path) {
		return false
	}
	return !IsVersionedPath(u.Path)
}

// containsPath matches on path boundaries: /docs/ contains /docs and
// /docs/intro but not /documentation.
func (s *Scope) containsPath(path string) bool {
	if path == strings.TrimSuffix(s.PathPrefix, "/") {
		return true
	}
	return strings.HasPrefix(path, s.PathPrefix)
}

// IsVersionedPath reports whether any segment of path is "v" followed
// only by digits.
func IsVersionedPath(path string) bool {
	for _, seg := range strings.Split(path, "/") {
		if versionSegment.MatchString(seg) {
			return true
		}
	}
	return false
}

// NormalizeURL strips the fragment so that URLs differing only by
// anchor share one frontier key.
func NormalizeURL(rawURL string) string {
	if idx := strings.Index(rawURL, "#"); idx != -1 {
		return rawURL[:idx]
	}
	return rawURL
}
