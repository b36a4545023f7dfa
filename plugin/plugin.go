// Package plugin implements wrap packages backed by in-process Go code. A plugin module exposes
// named methods that receive msgpack-decoded arguments and an invoker for calling back into other
// wrap modules; wrapping it in a PluginPackage makes it resolvable and invocable like any other
// wrap unit.
package plugin

import (
	"context"
	"fmt"

	"github.com/polywrap/client-go/api"
	"github.com/polywrap/client-go/manifest"
	"github.com/polywrap/client-go/msgpack"
)

// Method is one plugin entry point. args are the invocation's msgpack-decoded arguments (nil when
// none were passed), env is the caller-provided msgpack-encoded environment or nil, and invoker
// can call other wrap modules. The returned value is msgpack-encoded for the caller.
type Method func(ctx context.Context, args map[string]interface{}, env []byte, invoker api.Invoker) (interface{}, error)

// Module is a registry of plugin methods. The zero value is not usable; construct with NewModule
// and chain Register calls.
type Module struct {
	methods map[string]Method
}

// NewModule returns an empty module.
func NewModule() *Module {
	return &Module{methods: map[string]Method{}}
}

// Register adds a method under name, replacing any previous registration, and returns m for
// chaining.
func (m *Module) Register(name string, method Method) *Module {
	m.methods[name] = method
	return m
}

// WrapInvoke decodes args, runs the named method and encodes its result. An unregistered method
// name fails with MethodNotFoundError.
func (m *Module) WrapInvoke(ctx context.Context, method string, args []byte, env []byte, invoker api.Invoker) ([]byte, error) {
	fn, ok := m.methods[method]
	if !ok {
		return nil, &MethodNotFoundError{Method: method}
	}

	var decoded map[string]interface{}
	if len(args) > 0 {
		if err := msgpack.Unmarshal(args, &decoded); err != nil {
			return nil, fmt.Errorf("malformed args for plugin method %q: %w", method, err)
		}
	}
	out, err := fn(ctx, decoded, env, invoker)
	if err != nil {
		return nil, err
	}
	return msgpack.Marshal(out)
}

// MethodNotFoundError is returned when a plugin is invoked with a method it does not define.
type MethodNotFoundError struct {
	Method string
}

func (e *MethodNotFoundError) Error() string {
	return fmt.Sprintf("method %q is not defined in plugin", e.Method)
}

// Package adapts a Module and its manifest to api.WrapPackage.
type Package struct {
	manifest *manifest.WrapManifest
	module   *Module
}

var _ api.WrapPackage = (*Package)(nil)

// NewPackage returns a plugin-backed wrap package.
func NewPackage(m *manifest.WrapManifest, module *Module) *Package {
	return &Package{manifest: m, module: module}
}

// Manifest implements api.WrapPackage.
func (p *Package) Manifest(context.Context) (*manifest.WrapManifest, error) {
	return p.manifest, nil
}

// CreateWrapper implements api.WrapPackage. Plugin wrappers are stateless views over the module,
// so instantiation never fails.
func (p *Package) CreateWrapper(context.Context) (api.Wrapper, error) {
	return &Wrapper{module: p.module}, nil
}

// Wrapper adapts a Module to api.Wrapper.
type Wrapper struct {
	module *Module
}

var _ api.Wrapper = (*Wrapper)(nil)

// Invoke implements api.Wrapper.
func (w *Wrapper) Invoke(ctx context.Context, method string, args []byte, env []byte, invoker api.Invoker) ([]byte, error) {
	return w.module.WrapInvoke(ctx, method, args, env, invoker)
}
