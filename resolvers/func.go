package resolvers

import (
	"context"

	"github.com/polywrap/client-go/api"
)

// ResolverFunc adapts an ordinary function to api.UriResolver, the way http.HandlerFunc adapts
// handlers. Handy for tests and one-off resolvers.
type ResolverFunc func(ctx context.Context, uri api.Uri, client api.CoreClient, resolutionContext api.UriResolutionContext) (api.UriPackageOrWrapper, error)

var _ api.UriResolver = (ResolverFunc)(nil)

// TryResolveUri implements api.UriResolver by calling f.
func (f ResolverFunc) TryResolveUri(ctx context.Context, uri api.Uri, client api.CoreClient, resolutionContext api.UriResolutionContext) (api.UriPackageOrWrapper, error) {
	return f(ctx, uri, client, resolutionContext)
}
