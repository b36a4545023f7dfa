package resolvers

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/polywrap/client-go/api"
)

func TestRetryResolverEventualSuccess(t *testing.T) {
	errFlaky := errors.New("flaky backend")
	attempts := 0
	flaky := ResolverFunc(
		func(_ context.Context, uri api.Uri, _ api.CoreClient, _ api.UriResolutionContext) (api.UriPackageOrWrapper, error) {
			attempts++
			if attempts < 3 {
				return api.UriPackageOrWrapper{}, errFlaky
			}
			return api.UriValue(uriB), nil
		})

	resolver := NewRetryResolver(flaky, 2, 0)
	resolutionContext := newTestContext()
	result, err := resolver.TryResolveUri(context.Background(), uriA, nil, resolutionContext)
	require.NoError(t, err)
	assert.Equal(t, uriB, result.Uri())
	assert.Equal(t, 3, attempts)

	// One aggregate step with every try recorded beneath it.
	history := resolutionContext.GetHistory()
	require.Len(t, history, 1)
	assert.Equal(t, "RetryResolver", history[0].Description)
	require.Len(t, history[0].SubHistory, 3)
	assert.ErrorIs(t, history[0].SubHistory[0].Err, errFlaky)
	assert.NoError(t, history[0].SubHistory[2].Err)
}

func TestRetryResolverExhausted(t *testing.T) {
	errDown := errors.New("down")
	attempts := 0
	failing := ResolverFunc(
		func(context.Context, api.Uri, api.CoreClient, api.UriResolutionContext) (api.UriPackageOrWrapper, error) {
			attempts++
			return api.UriPackageOrWrapper{}, errDown
		})

	resolver := NewRetryResolver(failing, 2, 0)
	_, err := resolver.TryResolveUri(context.Background(), uriA, nil, newTestContext())
	require.ErrorIs(t, err, errDown)
	assert.Equal(t, 3, attempts)
}

func TestRetryResolverCanceledWhileWaiting(t *testing.T) {
	errDown := errors.New("down")
	failing := ResolverFunc(
		func(context.Context, api.Uri, api.CoreClient, api.UriResolutionContext) (api.UriPackageOrWrapper, error) {
			return api.UriPackageOrWrapper{}, errDown
		})

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	resolver := NewRetryResolver(failing, 5, time.Minute)
	_, err := resolver.TryResolveUri(ctx, uriA, nil, newTestContext())
	assert.ErrorIs(t, err, context.Canceled)
}
