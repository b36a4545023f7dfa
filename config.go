package polywrap

import (
	"maps"
	"slices"

	"github.com/polywrap/client-go/api"
	"github.com/polywrap/client-go/resolvers"
)

// ClientConfig configures a wrap client's resolution sources: per-URI envs, interface
// implementations, static redirects, embedded packages and wrappers, and additional resolvers.
// The default implementation is NewClientConfig; every WithX method returns a copy, so configs
// can be shared and extended safely.
type ClientConfig struct {
	envs       map[api.Uri][]byte
	interfaces map[api.Uri][]api.Uri
	redirects  map[api.Uri]api.Uri
	packages   map[api.Uri]api.WrapPackage
	wrappers   map[api.Uri]api.Wrapper
	resolvers  []api.UriResolver
	maxDepth   int
}

// NewClientConfig returns an empty config with DefaultMaxResolutionDepth.
func NewClientConfig() *ClientConfig {
	return &ClientConfig{
		envs:       map[api.Uri][]byte{},
		interfaces: map[api.Uri][]api.Uri{},
		redirects:  map[api.Uri]api.Uri{},
		packages:   map[api.Uri]api.WrapPackage{},
		wrappers:   map[api.Uri]api.Wrapper{},
		maxDepth:   DefaultMaxResolutionDepth,
	}
}

// clone ensures all fields are copied even when empty.
func (c *ClientConfig) clone() *ClientConfig {
	return &ClientConfig{
		envs:       maps.Clone(c.envs),
		interfaces: maps.Clone(c.interfaces),
		redirects:  maps.Clone(c.redirects),
		packages:   maps.Clone(c.packages),
		wrappers:   maps.Clone(c.wrappers),
		resolvers:  slices.Clone(c.resolvers),
		maxDepth:   c.maxDepth,
	}
}

// WithEnv sets the msgpack-encoded env for uri, replacing any previous value.
func (c *ClientConfig) WithEnv(uri api.Uri, env []byte) *ClientConfig {
	ret := c.clone()
	ret.envs[uri] = env
	return ret
}

// WithInterfaceImplementations registers implementations for an interface URI, appending to any
// already registered.
func (c *ClientConfig) WithInterfaceImplementations(interfaceUri api.Uri, implementations ...api.Uri) *ClientConfig {
	ret := c.clone()
	ret.interfaces[interfaceUri] = append(slices.Clone(ret.interfaces[interfaceUri]), implementations...)
	return ret
}

// WithRedirect makes from resolve to to, replacing any previous redirect for from.
func (c *ClientConfig) WithRedirect(from, to api.Uri) *ClientConfig {
	ret := c.clone()
	ret.redirects[from] = to
	return ret
}

// WithPackage embeds pkg at uri, replacing any previous package for uri.
func (c *ClientConfig) WithPackage(uri api.Uri, pkg api.WrapPackage) *ClientConfig {
	ret := c.clone()
	ret.packages[uri] = pkg
	return ret
}

// WithWrapper embeds wrapper at uri, replacing any previous wrapper for uri.
func (c *ClientConfig) WithWrapper(uri api.Uri, wrapper api.Wrapper) *ClientConfig {
	ret := c.clone()
	ret.wrappers[uri] = wrapper
	return ret
}

// WithResolver appends rs to the config's resolver chain. Chain resolvers run after the static
// entries (redirects, packages, wrappers) in registration order.
func (c *ClientConfig) WithResolver(rs ...api.UriResolver) *ClientConfig {
	ret := c.clone()
	ret.resolvers = append(ret.resolvers, rs...)
	return ret
}

// WithMaxResolutionDepth bounds redirect chains in the built resolver. See
// RecursiveResolver.WithMaxDepth.
func (c *ClientConfig) WithMaxResolutionDepth(maxDepth int) *ClientConfig {
	ret := c.clone()
	ret.maxDepth = maxDepth
	return ret
}

// GetEnvByUri returns the env configured for uri, or nil.
func (c *ClientConfig) GetEnvByUri(uri api.Uri) []byte {
	return c.envs[uri]
}

// GetImplementations returns the implementations registered for an interface URI.
func (c *ClientConfig) GetImplementations(uri api.Uri) []api.Uri {
	return slices.Clone(c.interfaces[uri])
}

// BuildResolver composes the config into a ready-to-use resolver: a static resolver over the
// config's redirects, packages and wrappers, then the chain resolvers, all under an aggregator
// driven to a fixed point by a RecursiveResolver.
func (c *ClientConfig) BuildResolver() api.UriResolver {
	entries := make(map[api.Uri]api.UriPackageOrWrapper, len(c.redirects)+len(c.packages)+len(c.wrappers))
	for from, to := range c.redirects {
		entries[from] = api.UriValue(to)
	}
	for uri, pkg := range c.packages {
		entries[uri] = api.PackageValue(uri, pkg)
	}
	for uri, wrapper := range c.wrappers {
		entries[uri] = api.WrapperValue(uri, wrapper)
	}

	chain := make([]api.UriResolver, 0, 1+len(c.resolvers))
	chain = append(chain, resolvers.NewStaticResolver(entries))
	chain = append(chain, c.resolvers...)
	aggregator := resolvers.NewUriResolverAggregator(chain...).WithName("ClientConfigResolver")
	return NewRecursiveResolver(aggregator).WithMaxDepth(c.maxDepth)
}
