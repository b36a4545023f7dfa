package polywrap

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/polywrap/client-go/api"
	"github.com/polywrap/client-go/manifest"
	"github.com/polywrap/client-go/resolvers"
)

type testPackage struct{ name string }

func (p *testPackage) Manifest(context.Context) (*manifest.WrapManifest, error) {
	return &manifest.WrapManifest{Name: p.name}, nil
}

func (p *testPackage) CreateWrapper(context.Context) (api.Wrapper, error) {
	return nil, errors.New("not instantiable")
}

// tableResolver redirects or terminates according to a fixed table, counting attempts. A URI
// without an entry resolves to itself.
func tableResolver(table map[api.Uri]api.UriPackageOrWrapper, calls *int) resolvers.ResolverFunc {
	return func(_ context.Context, uri api.Uri, _ api.CoreClient, _ api.UriResolutionContext) (api.UriPackageOrWrapper, error) {
		*calls++
		if entry, ok := table[uri]; ok {
			return entry, nil
		}
		return api.UriValue(uri), nil
	}
}

func TestRecursiveResolverChain(t *testing.T) {
	pkg := &testPackage{name: "terminal"}
	calls := 0
	resolver := NewRecursiveResolver(tableResolver(map[api.Uri]api.UriPackageOrWrapper{
		uriA: api.UriValue(uriB),
		uriB: api.PackageValue(uriB, pkg),
	}, &calls))

	resolutionContext := NewUriResolutionContext()
	result, err := resolver.TryResolveUri(context.Background(), uriA, nil, resolutionContext)
	require.NoError(t, err)

	assert.Equal(t, api.KindPackage, result.Kind())
	assert.Equal(t, uriB, result.Uri())
	assert.Same(t, pkg, result.Package())
	assert.Equal(t, []api.Uri{uriA, uriB}, resolutionContext.GetResolutionPath())

	// One history entry per attempt.
	history := resolutionContext.GetHistory()
	require.Len(t, history, 2)
	assert.Equal(t, calls, len(history))
	assert.Equal(t, uriA, history[0].SourceUri)
	assert.Equal(t, uriB, history[1].SourceUri)

	// The guard drains once resolution completes.
	assert.False(t, resolutionContext.IsResolving(uriA))
	assert.False(t, resolutionContext.IsResolving(uriB))
}

func TestRecursiveResolverCycle(t *testing.T) {
	calls := 0
	resolver := NewRecursiveResolver(tableResolver(map[api.Uri]api.UriPackageOrWrapper{
		uriA: api.UriValue(uriB),
		uriB: api.UriValue(uriA),
	}, &calls))

	resolutionContext := NewUriResolutionContext()
	_, err := resolver.TryResolveUri(context.Background(), uriA, nil, resolutionContext)

	var loopErr *InfiniteLoopError
	require.ErrorAs(t, err, &loopErr)
	assert.Equal(t, uriA, loopErr.Uri())
	assert.Equal(t, []api.Uri{uriA, uriB}, loopErr.Path())
	assert.Contains(t, loopErr.Error(), "wrap://ens/a.eth -> wrap://ens/b.eth -> wrap://ens/a.eth")

	// Both attempts were made and recorded before the loop closed.
	assert.Equal(t, 2, calls)
	assert.Len(t, resolutionContext.GetHistory(), 2)
	assert.False(t, resolutionContext.IsResolving(uriA))
	assert.False(t, resolutionContext.IsResolving(uriB))
}

func TestRecursiveResolverSelfRedirect(t *testing.T) {
	calls := 0
	resolver := NewRecursiveResolver(tableResolver(map[api.Uri]api.UriPackageOrWrapper{
		uriA: api.UriValue(uriA),
	}, &calls))

	resolutionContext := NewUriResolutionContext()
	result, err := resolver.TryResolveUri(context.Background(), uriA, nil, resolutionContext)

	// No progress is terminal, not a cycle and not a loop.
	require.NoError(t, err)
	assert.Equal(t, api.KindUri, result.Kind())
	assert.Equal(t, uriA, result.Uri())
	assert.Equal(t, 1, calls)
	assert.Len(t, resolutionContext.GetHistory(), 1)
	assert.False(t, resolutionContext.IsResolving(uriA))
}

func TestRecursiveResolverFailure(t *testing.T) {
	errBoom := errors.New("backend unavailable")
	resolver := NewRecursiveResolver(resolvers.ResolverFunc(
		func(context.Context, api.Uri, api.CoreClient, api.UriResolutionContext) (api.UriPackageOrWrapper, error) {
			return api.UriPackageOrWrapper{}, errBoom
		}))

	resolutionContext := NewUriResolutionContext()
	_, err := resolver.TryResolveUri(context.Background(), uriA, nil, resolutionContext)

	// Resolver failures propagate unchanged, with the failing attempt on record.
	require.ErrorIs(t, err, errBoom)
	history := resolutionContext.GetHistory()
	require.Len(t, history, 1)
	assert.Equal(t, uriA, history[0].SourceUri)
	assert.ErrorIs(t, history[0].Err, errBoom)
	assert.False(t, resolutionContext.IsResolving(uriA))
}

func TestRecursiveResolverMaxDepth(t *testing.T) {
	next := 0
	endless := resolvers.ResolverFunc(
		func(_ context.Context, _ api.Uri, _ api.CoreClient, _ api.UriResolutionContext) (api.UriPackageOrWrapper, error) {
			next++
			return api.UriValue(api.MustParseUri(fmt.Sprintf("wrap://gen/%d", next))), nil
		})
	resolver := NewRecursiveResolver(endless).WithMaxDepth(5)

	resolutionContext := NewUriResolutionContext()
	_, err := resolver.TryResolveUri(context.Background(), api.MustParseUri("wrap://gen/0"), nil, resolutionContext)

	var depthErr *ResolutionDepthError
	require.ErrorAs(t, err, &depthErr)
	assert.Equal(t, 5, depthErr.MaxDepth())
	// Every URI entered before the bound was hit is off the guard again.
	for _, uri := range resolutionContext.GetResolutionPath() {
		assert.False(t, resolutionContext.IsResolving(uri))
	}
}

func TestRecursiveResolverCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	resolver := NewRecursiveResolver(resolvers.ResolverFunc(
		func(context.Context, api.Uri, api.CoreClient, api.UriResolutionContext) (api.UriPackageOrWrapper, error) {
			t.Fatal("resolver must not run after cancellation")
			return api.UriPackageOrWrapper{}, nil
		}))

	_, err := resolver.TryResolveUri(ctx, uriA, nil, NewUriResolutionContext())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRecursiveResolverStepOwnership(t *testing.T) {
	// A resolver that records its own step keeps sole ownership of the attempt's history entry.
	selfTracking := resolvers.ResolverFunc(
		func(_ context.Context, uri api.Uri, _ api.CoreClient, resolutionContext api.UriResolutionContext) (api.UriPackageOrWrapper, error) {
			result := api.UriValue(uri)
			resolutionContext.TrackStep(api.UriResolutionStep{SourceUri: uri, Description: "SelfTracking", Result: result})
			return result, nil
		})

	resolutionContext := NewUriResolutionContext()
	_, err := NewRecursiveResolver(selfTracking).TryResolveUri(context.Background(), uriA, nil, resolutionContext)
	require.NoError(t, err)

	history := resolutionContext.GetHistory()
	require.Len(t, history, 1)
	assert.Equal(t, "SelfTracking", history[0].Description)
}
