// Package api includes constants, types and interfaces used by both end-users and internal implementations.
package api

import (
	"fmt"
	"strings"
)

// UriScheme is the scheme prefixing every canonical wrap URI.
const UriScheme = "wrap"

// Uri identifies a loadable wrap module or package, e.g. "wrap://ens/uniswap.wrap.eth".
//
// A Uri is an immutable value type: it is comparable with ==, usable as a map key, and two URIs are
// equal exactly when their authority and path are equal. The zero value is invalid; construct one
// with ParseUri or MustParseUri.
type Uri struct {
	authority string
	path      string
}

// NewUri returns a Uri from an already-split authority and path. Both must be non-empty.
func NewUri(authority, path string) (Uri, error) {
	if authority == "" || path == "" {
		return Uri{}, fmt.Errorf("invalid wrap URI: empty authority or path in %q", authority+"/"+path)
	}
	return Uri{authority: authority, path: path}, nil
}

// ParseUri parses s into a Uri.
//
// Accepted forms:
//   - "wrap://authority/path"
//   - "w3://authority/path" (legacy scheme)
//   - "authority/path" (scheme implied)
//
// The path may itself contain '/' separators. Any other shape is an error.
func ParseUri(s string) (Uri, error) {
	raw := s
	for _, scheme := range []string{UriScheme + "://", "w3://"} {
		if strings.HasPrefix(raw, scheme) {
			raw = raw[len(scheme):]
			break
		}
	}
	if strings.Contains(raw, "://") {
		return Uri{}, fmt.Errorf("invalid wrap URI scheme in %q, expected %q", s, UriScheme)
	}
	authority, path, found := strings.Cut(raw, "/")
	if !found || authority == "" || path == "" {
		return Uri{}, fmt.Errorf("invalid wrap URI %q, expected wrap://authority/path", s)
	}
	return Uri{authority: authority, path: path}, nil
}

// MustParseUri is like ParseUri, but panics on malformed input. Intended for
// constants and tests.
func MustParseUri(s string) Uri {
	uri, err := ParseUri(s)
	if err != nil {
		panic(err)
	}
	return uri
}

// Authority is the resolver namespace of this URI, e.g. "ens" in "wrap://ens/uniswap.wrap.eth".
func (u Uri) Authority() string { return u.authority }

// Path locates the module within its authority, e.g. "uniswap.wrap.eth".
func (u Uri) Path() string { return u.path }

// String returns the canonical "wrap://authority/path" form.
func (u Uri) String() string {
	return UriScheme + "://" + u.authority + "/" + u.path
}

// IsZero is true for the invalid zero value.
func (u Uri) IsZero() bool { return u.authority == "" && u.path == "" }
