package wpcom

import (
	"fmt"
	"net/url"
	"strings"
)

// APIVersion selects the REST namespace a path lives under.
type APIVersion string

const (
	VersionV1  APIVersion = "v1"
	VersionV11 APIVersion = "v1.1"
)

const defaultAPIBase = "https://public-api.wordpress.com"

// Endpoints builds absolute URLs for the WordPress.com REST API.
type Endpoints struct {
	base *url.URL
}

// NewEndpoints parses apiBase (scheme optional, empty means the public
// WordPress.com API) and returns an Endpoints rooted at it.
func NewEndpoints(apiBase string) (Endpoints, error) {
	base, err := parseBaseURL(apiBase)
	if err != nil {
		return Endpoints{}, err
	}
	return Endpoints{base: base}, nil
}

// URL returns {base}/rest/{version}/{segments...}/. The trailing slash
// matches what the API expects.
func (e Endpoints) URL(version APIVersion, segments ...string) string {
	var b strings.Builder
	b.WriteString("/rest/")
	b.WriteString(string(version))
	b.WriteString("/")
	for _, seg := range segments {
		trimmed := strings.Trim(seg, "/")
		if trimmed == "" {
			continue
		}
		b.WriteString(trimmed)
		b.WriteString("/")
	}
	return e.resolve(b.String())
}

// OAuthToken returns the password-grant token endpoint.
func (e Endpoints) OAuthToken() string {
	return e.resolve("/oauth2/token")
}

// Base returns the normalized API base.
func (e Endpoints) Base() string {
	if e.base == nil {
		return defaultAPIBase
	}
	return e.base.String()
}

func (e Endpoints) resolve(path string) string {
	base := e.base
	if base == nil {
		base, _ = url.Parse(defaultAPIBase)
	}
	u := *base
	u.Path = strings.TrimSuffix(base.Path, "/") + path
	return u.String()
}

func parseBaseURL(apiBase string) (*url.URL, error) {
	trimmed := strings.TrimSpace(apiBase)
	if trimmed == "" {
		trimmed = defaultAPIBase
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "https://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse api_base %q: %w", apiBase, err)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("parse api_base %q: missing host", apiBase)
	}
	u.Path = strings.TrimSuffix(u.Path, "/")
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}
