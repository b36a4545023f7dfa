package api

import (
	"context"
	"fmt"
)

// UriPackageOrWrapperKind tags the variant held by a UriPackageOrWrapper.
type UriPackageOrWrapperKind byte

const (
	// KindUri means resolution is incomplete: the held URI must be re-submitted for further
	// resolution, or accepted as a terminal redirect if it equals the queried URI.
	KindUri UriPackageOrWrapperKind = iota
	// KindPackage means resolution terminated at a fetchable, not yet instantiated unit.
	KindPackage
	// KindWrapper means resolution terminated at an already-instantiated executable unit.
	KindWrapper
)

// String returns the lowercase name used in history rendering.
func (k UriPackageOrWrapperKind) String() string {
	switch k {
	case KindUri:
		return "uri"
	case KindPackage:
		return "package"
	case KindWrapper:
		return "wrapper"
	}
	return fmt.Sprintf("unknown(%#x)", byte(k))
}

// UriPackageOrWrapper is the outcome of one successful resolution attempt: a redirect URI, a
// WrapPackage, or a Wrapper. Construct values with UriValue, PackageValue or WrapperValue and
// branch on Kind. The zero value is a KindUri holding the zero Uri.
//
// Note: Package and Wrapper variants still carry the URI they were resolved at, so history and
// caches can key them without re-deriving it.
type UriPackageOrWrapper struct {
	kind    UriPackageOrWrapperKind
	uri     Uri
	pkg     WrapPackage
	wrapper Wrapper
}

// UriValue returns a KindUri variant holding uri.
func UriValue(uri Uri) UriPackageOrWrapper {
	return UriPackageOrWrapper{kind: KindUri, uri: uri}
}

// PackageValue returns a KindPackage variant: pkg was resolved at uri.
func PackageValue(uri Uri, pkg WrapPackage) UriPackageOrWrapper {
	return UriPackageOrWrapper{kind: KindPackage, uri: uri, pkg: pkg}
}

// WrapperValue returns a KindWrapper variant: wrapper was resolved at uri.
func WrapperValue(uri Uri, wrapper Wrapper) UriPackageOrWrapper {
	return UriPackageOrWrapper{kind: KindWrapper, uri: uri, wrapper: wrapper}
}

// Kind returns the variant tag.
func (u UriPackageOrWrapper) Kind() UriPackageOrWrapperKind { return u.kind }

// Uri returns the held URI. For KindUri this is the redirect target; for the other kinds it is the
// URI the unit was resolved at.
func (u UriPackageOrWrapper) Uri() Uri { return u.uri }

// Package returns the held package, or nil unless Kind is KindPackage.
func (u UriPackageOrWrapper) Package() WrapPackage { return u.pkg }

// Wrapper returns the held wrapper, or nil unless Kind is KindWrapper.
func (u UriPackageOrWrapper) Wrapper() Wrapper { return u.wrapper }

// String renders the variant for history lines, e.g. `uri ("wrap://ens/b.eth")`.
func (u UriPackageOrWrapper) String() string {
	return fmt.Sprintf("%s (%q)", u.kind, u.uri.String())
}

// UriResolutionStep records one resolver invocation: the queried URI, the resolver's identity, the
// outcome (Result or Err, never both meaningful), and the trace of any nested sub-resolution the
// attempt performed. Steps are immutable once tracked.
type UriResolutionStep struct {
	// SourceUri is the URI the resolver was asked to resolve.
	SourceUri Uri
	// Description identifies the resolver that made the attempt.
	Description string
	// Result is the attempt's outcome when Err is nil.
	Result UriPackageOrWrapper
	// Err is the attempt's failure, if it failed.
	Err error
	// SubHistory is the nested trace of a sub-resolution performed by this attempt, in attempt
	// order. Empty for plain resolvers.
	SubHistory []UriResolutionStep
}

// UriResolutionContext threads the state of one top-level resolution: the cycle-guard set of URIs
// on the active resolution stack, the ordered path of URIs visited, and the append-only step
// history. A context is owned by exactly one active resolution path and is not safe for concurrent
// mutation; branches must clone it with CreateSubContext first.
type UriResolutionContext interface {
	// IsResolving is true while uri is on the active resolution stack. The recursive driver
	// consults this before every attempt to detect redirect cycles.
	IsResolving(uri Uri) bool

	// StartResolving adds uri to the cycle guard and appends it to the resolution path. Calling
	// this for a URI already being resolved is a contract violation and panics; callers check
	// IsResolving first.
	StartResolving(uri Uri)

	// StopResolving removes uri from the cycle guard. The resolution path keeps the entry: the
	// path is a historical trace, the guard is live state. Calling this for a URI not being
	// resolved is a contract violation and panics.
	StopResolving(uri Uri)

	// TrackStep appends step to the history. Prior entries are never mutated or removed.
	TrackStep(step UriResolutionStep)

	// GetHistory returns a snapshot of tracked steps in insertion order.
	GetHistory() []UriResolutionStep

	// GetResolutionPath returns a snapshot of visited URIs in visitation order.
	GetResolutionPath() []Uri

	// CreateSubHistoryContext returns a context for a nested resolution whose trace should form a
	// distinct sub-tree: it shares this context's live cycle guard, but starts with an empty path
	// and history. The caller attaches the sub-context's history to its own step as SubHistory.
	CreateSubHistoryContext() UriResolutionContext

	// CreateSubContext returns an independent context seeded with a copy of the current cycle
	// guard and resolution path, and an empty history. Mutations of either context never affect
	// the other; use this for speculative or parallel resolution branches.
	CreateSubContext() UriResolutionContext
}

// UriResolver is the single-attempt resolution contract consumed by the engine. An attempt ends in
// exactly one of three ways:
//   - a nil error and a KindPackage or KindWrapper result: resolution is complete;
//   - a nil error and a KindUri result: a redirect the caller may chase further;
//   - a non-nil error: the attempt failed and the engine propagates it unchanged.
//
// Implementations performing I/O must honor ctx cancellation. client is an opaque handle forwarded
// from the top-level caller; the engine never inspects it and it may be nil.
type UriResolver interface {
	TryResolveUri(ctx context.Context, uri Uri, client CoreClient, resolutionContext UriResolutionContext) (UriPackageOrWrapper, error)
}

// StepDescriber optionally names a UriResolver in recorded history. Resolvers that do not
// implement it are identified by their Go type.
type StepDescriber interface {
	StepDescription() string
}

// DescribeResolver returns r's step description, falling back to its Go type.
func DescribeResolver(r UriResolver) string {
	if d, ok := r.(StepDescriber); ok {
		return d.StepDescription()
	}
	return fmt.Sprintf("%T", r)
}

// TryResolveUriWithStep invokes r and guarantees the attempt appears in resolutionContext's
// history exactly once: a resolver that tracks its own step (to attach a SubHistory tree) owns
// the attempt's entry, otherwise a plain step is tracked here on its behalf.
func TryResolveUriWithStep(ctx context.Context, r UriResolver, uri Uri, client CoreClient, resolutionContext UriResolutionContext) (UriPackageOrWrapper, error) {
	tracked := len(resolutionContext.GetHistory())
	result, err := r.TryResolveUri(ctx, uri, client, resolutionContext)
	if len(resolutionContext.GetHistory()) == tracked {
		resolutionContext.TrackStep(UriResolutionStep{
			SourceUri:   uri,
			Description: DescribeResolver(r),
			Result:      result,
			Err:         err,
		})
	}
	return result, err
}
