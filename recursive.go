// Package polywrap implements the wrap URI resolution engine: a recursive driver that chases an
// underlying resolver's redirects to a fixed point, a per-resolution context with cycle guard and
// step history, and a formatter projecting that history for diagnostics.
package polywrap

import (
	"context"

	"github.com/polywrap/client-go/api"
)

// DefaultMaxResolutionDepth is the redirect bound applied by NewRecursiveResolver. Redirect
// chains longer than this fail with ResolutionDepthError even when every URI is distinct.
const DefaultMaxResolutionDepth = 128

// RecursiveResolver drives a single underlying resolver to a fixed point: every KindUri outcome
// naming a new URI is re-submitted until the underlying resolver produces a package, a wrapper, a
// self-redirect, or an error. Re-encountering a URI already on the active path fails with
// InfiniteLoopError rather than looping.
//
// RecursiveResolver is immutable: WithMaxDepth returns a copy. It is safe for concurrent use as
// long as each concurrent resolution owns its own api.UriResolutionContext.
type RecursiveResolver struct {
	resolver api.UriResolver
	maxDepth int
}

var _ api.UriResolver = (*RecursiveResolver)(nil)

// NewRecursiveResolver returns a driver over resolver with DefaultMaxResolutionDepth.
func NewRecursiveResolver(resolver api.UriResolver) *RecursiveResolver {
	return &RecursiveResolver{resolver: resolver, maxDepth: DefaultMaxResolutionDepth}
}

// WithMaxDepth returns a copy of r that fails with ResolutionDepthError after following maxDepth
// redirects. Values below one disable the bound; the cycle guard still terminates any repeating
// chain.
func (r *RecursiveResolver) WithMaxDepth(maxDepth int) *RecursiveResolver {
	ret := *r
	ret.maxDepth = maxDepth
	return &ret
}

// StepDescription implements api.StepDescriber.
func (r *RecursiveResolver) StepDescription() string { return "RecursiveResolver" }

// TryResolveUri implements api.UriResolver.
//
// The shared resolutionContext is mutated as resolution proceeds: uri joins the cycle guard and
// path before the underlying resolver runs, every attempt appends one history step, and the guard
// entry is removed on every exit path once the attempt (including any redirects chased beneath
// it) completes. After a top-level call returns, the guard is empty and path plus history remain
// for inspection, even when the result is an error.
func (r *RecursiveResolver) TryResolveUri(ctx context.Context, uri api.Uri, client api.CoreClient, resolutionContext api.UriResolutionContext) (api.UriPackageOrWrapper, error) {
	return r.tryResolveUri(ctx, uri, client, resolutionContext, 0)
}

func (r *RecursiveResolver) tryResolveUri(ctx context.Context, uri api.Uri, client api.CoreClient, resolutionContext api.UriResolutionContext, depth int) (api.UriPackageOrWrapper, error) {
	if err := ctx.Err(); err != nil {
		return api.UriPackageOrWrapper{}, err
	}
	if resolutionContext.IsResolving(uri) {
		return api.UriPackageOrWrapper{}, NewInfiniteLoopError(uri, resolutionContext.GetResolutionPath())
	}
	if r.maxDepth > 0 && depth > r.maxDepth {
		return api.UriPackageOrWrapper{}, NewResolutionDepthError(uri, r.maxDepth, resolutionContext.GetResolutionPath())
	}

	resolutionContext.StartResolving(uri)
	// The guard entry must outlive any recursion below so a redirect chain looping back to uri is
	// caught, and must be released on every exit path.
	defer resolutionContext.StopResolving(uri)

	result, err := api.TryResolveUriWithStep(ctx, r.resolver, uri, client, resolutionContext)
	if err != nil {
		return api.UriPackageOrWrapper{}, err
	}
	if result.Kind() == api.KindUri {
		next := result.Uri()
		if next == uri {
			// Self-redirect: no progress was made. Terminal, the caller decides whether an
			// unresolved redirect is acceptable.
			return result, nil
		}
		return r.tryResolveUri(ctx, next, client, resolutionContext, depth+1)
	}
	return result, nil
}
