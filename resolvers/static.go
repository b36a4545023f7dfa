// Package resolvers provides single-attempt resolver implementations and combinators: an
// in-memory static resolver, an ordered aggregator, a retry wrapper, a slog tracing wrapper, and
// a func adapter. All of them satisfy api.UriResolver and compose under the recursive driver.
package resolvers

import (
	"context"

	"github.com/polywrap/client-go/api"
)

// StaticResolver resolves from a fixed in-memory map of URI to redirect, package or wrapper. A
// miss returns the queried URI unchanged, which the recursive driver treats as terminal.
//
// The map is not copied; callers must not mutate it after construction.
type StaticResolver struct {
	entries map[api.Uri]api.UriPackageOrWrapper
}

var _ api.UriResolver = (*StaticResolver)(nil)

// NewStaticResolver returns a resolver over entries.
func NewStaticResolver(entries map[api.Uri]api.UriPackageOrWrapper) *StaticResolver {
	return &StaticResolver{entries: entries}
}

// StepDescription implements api.StepDescriber.
func (r *StaticResolver) StepDescription() string { return "StaticResolver" }

// TryResolveUri implements api.UriResolver.
func (r *StaticResolver) TryResolveUri(_ context.Context, uri api.Uri, _ api.CoreClient, _ api.UriResolutionContext) (api.UriPackageOrWrapper, error) {
	if entry, ok := r.entries[uri]; ok {
		return entry, nil
	}
	return api.UriValue(uri), nil
}
