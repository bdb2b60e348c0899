// ABOUTME: Resource classifier deciding which URLs require authentication
// ABOUTME: Matches bare paths and absolute same-origin URLs against protected prefixes

package authgw

import (
	"fmt"
	"net/url"
	"strings"
)

// Classifier decides whether a request URL falls under the protected
// prefix set and therefore requires the gateway's involvement. It holds
// no mutable state and performs no I/O.
type Classifier struct {
	originKey string
	prefixes  []string
}

// OriginKey canonicalizes a URL into its origin key: scheme://host[:port]
// with any trailing slash stripped. Embedded userinfo is dropped.
func OriginKey(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("parsing origin URL: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("origin URL %q has no scheme or host", rawURL)
	}
	return strings.ToLower(u.Scheme) + "://" + strings.ToLower(u.Host), nil
}

// NewClassifier creates a classifier for the given origin and protected
// prefix list. The prefix list has no default; an empty list means
// nothing is intercepted, which must be an explicit operator choice.
func NewClassifier(origin string, prefixes []string) (*Classifier, error) {
	key, err := OriginKey(origin)
	if err != nil {
		return nil, err
	}
	return &Classifier{
		originKey: key,
		prefixes:  append([]string(nil), prefixes...),
	}, nil
}

// Origin returns the canonical origin key this classifier was built for.
func (c *Classifier) Origin() string {
	return c.originKey
}

// RequiresAuth reports whether the URL targets a protected resource.
// The URL may be origin-relative ("/api/v1/admin/x") or absolute
// ("https://admin.example/api/v1/admin/x"); absolute URLs match only
// when they share the classifier's origin.
func (c *Classifier) RequiresAuth(rawURL string) bool {
	if rawURL == "" {
		return false
	}
	for _, p := range c.prefixes {
		if strings.HasPrefix(rawURL, p) || strings.HasPrefix(rawURL, c.originKey+p) {
			return true
		}
	}
	return false
}
