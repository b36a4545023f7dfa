package resolvers

import (
	"context"
	"time"

	"github.com/polywrap/client-go/api"
)

// RetryResolver wraps a single-attempt resolver and re-runs it on failure, up to a fixed number
// of retries with a fixed interval between attempts. The recursive driver itself never retries;
// retry policy composes around a resolver through this wrapper.
//
// Every try is traced into a sub-history context and the wrapper records one aggregate step, so
// history shows each failed try alongside the final outcome. Waiting between tries honors ctx
// cancellation.
type RetryResolver struct {
	resolver api.UriResolver
	retries  int
	interval time.Duration
}

var _ api.UriResolver = (*RetryResolver)(nil)

// NewRetryResolver wraps resolver with up to retries additional attempts, waiting interval
// between them.
func NewRetryResolver(resolver api.UriResolver, retries int, interval time.Duration) *RetryResolver {
	return &RetryResolver{resolver: resolver, retries: retries, interval: interval}
}

// StepDescription implements api.StepDescriber.
func (r *RetryResolver) StepDescription() string { return "RetryResolver" }

// TryResolveUri implements api.UriResolver.
func (r *RetryResolver) TryResolveUri(ctx context.Context, uri api.Uri, client api.CoreClient, resolutionContext api.UriResolutionContext) (api.UriPackageOrWrapper, error) {
	subContext := resolutionContext.CreateSubHistoryContext()
	var result api.UriPackageOrWrapper
	var err error
	for try := 0; try <= r.retries; try++ {
		if try > 0 {
			if waitErr := wait(ctx, r.interval); waitErr != nil {
				err = waitErr
				break
			}
		}
		result, err = api.TryResolveUriWithStep(ctx, r.resolver, uri, client, subContext)
		if err == nil {
			break
		}
	}
	resolutionContext.TrackStep(api.UriResolutionStep{
		SourceUri:   uri,
		Description: r.StepDescription(),
		Result:      result,
		Err:         err,
		SubHistory:  subContext.GetHistory(),
	})
	return result, err
}

func wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
