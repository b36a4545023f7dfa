package polywrap

import (
	"fmt"
	"strings"

	"github.com/polywrap/client-go/api"
)

// InfiniteLoopError is returned when a redirect targets a URI that is already on the active
// resolution path. It is fatal to the resolution attempt and never retried by the engine.
type InfiniteLoopError struct {
	uri  api.Uri
	path []api.Uri
}

// NewInfiniteLoopError returns an InfiniteLoopError for uri, re-encountered after visiting path.
func NewInfiniteLoopError(uri api.Uri, path []api.Uri) *InfiniteLoopError {
	return &InfiniteLoopError{uri: uri, path: path}
}

// Uri is the URI that closed the cycle.
func (e *InfiniteLoopError) Uri() api.Uri { return e.uri }

// Path is the resolution path visited before the cycle closed, in visitation order. Appending
// Uri to it yields the full cycle.
func (e *InfiniteLoopError) Path() []api.Uri { return e.path }

func (e *InfiniteLoopError) Error() string {
	return fmt.Sprintf("infinite loop while resolving %q, path: [%s]", e.uri.String(), joinUris(append(append([]api.Uri{}, e.path...), e.uri)))
}

// ResolutionDepthError is returned when a redirect chain exceeds the driver's depth bound without
// cycling, e.g. a resolver generating fresh URIs forever.
type ResolutionDepthError struct {
	uri      api.Uri
	maxDepth int
	path     []api.Uri
}

// NewResolutionDepthError returns a ResolutionDepthError for uri, reached after following
// maxDepth redirects along path.
func NewResolutionDepthError(uri api.Uri, maxDepth int, path []api.Uri) *ResolutionDepthError {
	return &ResolutionDepthError{uri: uri, maxDepth: maxDepth, path: path}
}

// Uri is the URI whose attempt exceeded the bound.
func (e *ResolutionDepthError) Uri() api.Uri { return e.uri }

// MaxDepth is the configured redirect bound.
func (e *ResolutionDepthError) MaxDepth() int { return e.maxDepth }

// Path is the resolution path followed before the bound was hit.
func (e *ResolutionDepthError) Path() []api.Uri { return e.path }

func (e *ResolutionDepthError) Error() string {
	return fmt.Sprintf("resolution of %q exceeded max depth %d, path: [%s]", e.uri.String(), e.maxDepth, joinUris(e.path))
}

func joinUris(uris []api.Uri) string {
	parts := make([]string, len(uris))
	for i, u := range uris {
		parts[i] = u.String()
	}
	return strings.Join(parts, " -> ")
}
