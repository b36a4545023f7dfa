package resolvers

import (
	"context"
	"log/slog"
	"time"

	"github.com/polywrap/client-go/api"
)

// TracingResolver wraps a resolver and logs every attempt and its outcome through slog. It is
// transparent to history: it records no steps of its own and reports the wrapped resolver's step
// description.
type TracingResolver struct {
	resolver api.UriResolver
	logger   *slog.Logger
}

var _ api.UriResolver = (*TracingResolver)(nil)

// NewTracingResolver wraps resolver so each attempt is logged to logger. A nil logger means
// slog.Default.
func NewTracingResolver(resolver api.UriResolver, logger *slog.Logger) *TracingResolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &TracingResolver{resolver: resolver, logger: logger}
}

// StepDescription implements api.StepDescriber, forwarding the wrapped resolver's description.
func (t *TracingResolver) StepDescription() string { return api.DescribeResolver(t.resolver) }

// TryResolveUri implements api.UriResolver.
func (t *TracingResolver) TryResolveUri(ctx context.Context, uri api.Uri, client api.CoreClient, resolutionContext api.UriResolutionContext) (api.UriPackageOrWrapper, error) {
	t.logger.DebugContext(ctx, "resolving uri",
		slog.String("uri", uri.String()),
		slog.String("resolver", t.StepDescription()))

	start := time.Now()
	result, err := t.resolver.TryResolveUri(ctx, uri, client, resolutionContext)
	elapsed := time.Since(start)

	if err != nil {
		t.logger.WarnContext(ctx, "resolution attempt failed",
			slog.String("uri", uri.String()),
			slog.String("resolver", t.StepDescription()),
			slog.Duration("elapsed", elapsed),
			slog.Any("error", err))
		return result, err
	}
	t.logger.DebugContext(ctx, "resolution attempt done",
		slog.String("uri", uri.String()),
		slog.String("resolver", t.StepDescription()),
		slog.Duration("elapsed", elapsed),
		slog.String("kind", result.Kind().String()),
		slog.String("result", result.Uri().String()))
	return result, err
}
