package polywrap

import (
	"fmt"
	"maps"
	"slices"

	"github.com/polywrap/client-go/api"
)

// UriResolutionContext is the default api.UriResolutionContext implementation. One is created per
// top-level resolution (NewUriResolutionContext) and discarded when that resolution returns.
//
// A context is owned by exactly one active resolution path and must not be mutated concurrently;
// speculative branches clone their own copy with CreateSubContext.
type UriResolutionContext struct {
	// resolvingUriSet holds the URIs on the active resolution stack. A URI enters on
	// StartResolving and leaves exactly once on StopResolving; fully resolved URIs are never
	// members.
	resolvingUriSet map[api.Uri]struct{}
	// resolutionPath is the historical trace of accepted URIs; it only grows.
	resolutionPath []api.Uri
	// history is append-only, in depth-first attempt order.
	history []api.UriResolutionStep
}

var _ api.UriResolutionContext = (*UriResolutionContext)(nil)

// NewUriResolutionContext returns an empty context for one top-level resolution.
func NewUriResolutionContext() *UriResolutionContext {
	return &UriResolutionContext{resolvingUriSet: map[api.Uri]struct{}{}}
}

// IsResolving implements api.UriResolutionContext.
func (c *UriResolutionContext) IsResolving(uri api.Uri) bool {
	_, ok := c.resolvingUriSet[uri]
	return ok
}

// StartResolving implements api.UriResolutionContext. It panics if uri is already being resolved;
// callers check IsResolving first.
func (c *UriResolutionContext) StartResolving(uri api.Uri) {
	if _, ok := c.resolvingUriSet[uri]; ok {
		panic(fmt.Sprintf("StartResolving(%q): already resolving", uri.String()))
	}
	c.resolvingUriSet[uri] = struct{}{}
	c.resolutionPath = append(c.resolutionPath, uri)
}

// StopResolving implements api.UriResolutionContext. It panics if uri is not being resolved.
func (c *UriResolutionContext) StopResolving(uri api.Uri) {
	if _, ok := c.resolvingUriSet[uri]; !ok {
		panic(fmt.Sprintf("StopResolving(%q): not resolving", uri.String()))
	}
	delete(c.resolvingUriSet, uri)
}

// TrackStep implements api.UriResolutionContext.
func (c *UriResolutionContext) TrackStep(step api.UriResolutionStep) {
	c.history = append(c.history, step)
}

// GetHistory implements api.UriResolutionContext.
func (c *UriResolutionContext) GetHistory() []api.UriResolutionStep {
	return slices.Clone(c.history)
}

// GetResolutionPath implements api.UriResolutionContext.
func (c *UriResolutionContext) GetResolutionPath() []api.Uri {
	return slices.Clone(c.resolutionPath)
}

// CreateSubHistoryContext implements api.UriResolutionContext. The returned context shares this
// context's live cycle guard, so nested attempts stay protected against redirect loops already in
// flight, while path and history start empty to form a distinct sub-tree.
func (c *UriResolutionContext) CreateSubHistoryContext() api.UriResolutionContext {
	return &UriResolutionContext{resolvingUriSet: c.resolvingUriSet}
}

// CreateSubContext implements api.UriResolutionContext. The returned context starts as a
// structural copy of this one's guard and path with an empty history; later mutations of either
// context never affect the other.
func (c *UriResolutionContext) CreateSubContext() api.UriResolutionContext {
	return &UriResolutionContext{
		resolvingUriSet: maps.Clone(c.resolvingUriSet),
		resolutionPath:  slices.Clone(c.resolutionPath),
	}
}
