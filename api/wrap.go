package api

import (
	"context"

	"github.com/polywrap/client-go/manifest"
)

// WrapPackage is a fetched-but-not-yet-instantiated unit: it can describe itself via its manifest
// and produce Wrapper instances. Reading and parsing the underlying bytes belongs to package
// implementations, never to the resolution engine.
type WrapPackage interface {
	// Manifest returns the package's wrap manifest.
	Manifest(ctx context.Context) (*manifest.WrapManifest, error)
	// CreateWrapper instantiates the package into an invocable Wrapper.
	CreateWrapper(ctx context.Context) (Wrapper, error)
}

// Wrapper is an instantiated, invocable module. Arguments and results are msgpack-encoded; env is
// the msgpack-encoded environment configured for the wrapper's URI, or nil.
type Wrapper interface {
	Invoke(ctx context.Context, method string, args []byte, env []byte, invoker Invoker) ([]byte, error)
}

// Invoker can invoke a method on a wrap module addressed by URI. Wrappers receive one so they can
// call into other modules during their own invocation.
type Invoker interface {
	InvokeRaw(ctx context.Context, uri Uri, method string, args []byte, env []byte) ([]byte, error)
}

// CoreClient is the runtime-client handle forwarded to every resolution attempt. The engine treats
// it as opaque; individual resolvers may use it to invoke other modules or read per-URI
// configuration during an attempt.
type CoreClient interface {
	Invoker

	// GetEnvByUri returns the msgpack-encoded env configured for uri, or nil if none is set.
	GetEnvByUri(uri Uri) []byte

	// GetImplementations returns the implementation URIs registered for an interface URI.
	GetImplementations(uri Uri) []Uri
}
