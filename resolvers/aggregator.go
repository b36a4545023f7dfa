package resolvers

import (
	"context"

	"github.com/polywrap/client-go/api"
)

// UriResolverAggregator tries an ordered list of resolvers against one URI and returns the first
// outcome that makes progress. Per-resolver attempts are traced into a sub-history context, and
// the aggregate records a single step carrying that trace as its SubHistory.
//
// An aggregator attempt ends when a sub-resolver returns a package, a wrapper, a redirect to a
// different URI, or an error; sub-resolvers answering with the queried URI itself are skipped as
// non-progress. If every resolver is exhausted the aggregator returns the queried URI unchanged.
type UriResolverAggregator struct {
	name      string
	resolvers []api.UriResolver
}

var _ api.UriResolver = (*UriResolverAggregator)(nil)

// NewUriResolverAggregator returns an aggregator trying resolvers in the given order.
func NewUriResolverAggregator(resolvers ...api.UriResolver) *UriResolverAggregator {
	return &UriResolverAggregator{resolvers: resolvers}
}

// WithName returns a copy of a whose history steps are labeled name.
func (a *UriResolverAggregator) WithName(name string) *UriResolverAggregator {
	ret := *a
	ret.name = name
	return &ret
}

// StepDescription implements api.StepDescriber.
func (a *UriResolverAggregator) StepDescription() string {
	if a.name != "" {
		return a.name
	}
	return "UriResolverAggregator"
}

// TryResolveUri implements api.UriResolver.
func (a *UriResolverAggregator) TryResolveUri(ctx context.Context, uri api.Uri, client api.CoreClient, resolutionContext api.UriResolutionContext) (api.UriPackageOrWrapper, error) {
	subContext := resolutionContext.CreateSubHistoryContext()
	result := api.UriValue(uri)
	var err error
	for _, resolver := range a.resolvers {
		result, err = api.TryResolveUriWithStep(ctx, resolver, uri, client, subContext)
		if err != nil {
			break
		}
		if result.Kind() != api.KindUri || result.Uri() != uri {
			break
		}
	}
	resolutionContext.TrackStep(api.UriResolutionStep{
		SourceUri:   uri,
		Description: a.StepDescription(),
		Result:      result,
		Err:         err,
		SubHistory:  subContext.GetHistory(),
	})
	return result, err
}
