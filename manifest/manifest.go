// Package manifest implements (de)serialization and validation of the wrap manifest, the
// msgpack-encoded descriptor embedded in every wrap package.
package manifest

import (
	"fmt"
	"regexp"

	"github.com/vmihailenco/msgpack/v5"
)

// Wrap manifest versions understood by this package. "0.1.0" is accepted as an alias of "0.1".
const (
	WrapManifestVersion010 = "0.1.0"
	WrapManifestVersion01  = "0.1"

	// LatestWrapManifestVersion is the version written by Serialize.
	LatestWrapManifestVersion = WrapManifestVersion01
)

// ModuleType classifies what a wrap package contains.
type ModuleType string

const (
	ModuleTypeWasm      ModuleType = "wasm"
	ModuleTypeInterface ModuleType = "interface"
	ModuleTypePlugin    ModuleType = "plugin"
)

// namePattern constrains manifest names to link-safe identifiers.
var namePattern = regexp.MustCompile(`^[a-zA-Z0-9\-_]+$`)

// WrapManifest describes a wrap package: schema version, module type, display name and ABI. The
// ABI is carried opaquely; interpreting it belongs to invocation layers, not resolution.
type WrapManifest struct {
	Version string                 `msgpack:"version"`
	Type    ModuleType             `msgpack:"type"`
	Name    string                 `msgpack:"name"`
	Abi     map[string]interface{} `msgpack:"abi"`
}

// Options control validation during Serialize and Deserialize.
type Options struct {
	// NoValidate skips manifest validation. Intended for tooling that needs to inspect manifests
	// it already knows to be malformed.
	NoValidate bool
}

// Validate checks the manifest's version, type, name and ABI presence.
func (m *WrapManifest) Validate() error {
	switch m.Version {
	case WrapManifestVersion01, WrapManifestVersion010:
	default:
		return &UnsupportedVersionError{Version: m.Version}
	}
	switch m.Type {
	case ModuleTypeWasm, ModuleTypeInterface, ModuleTypePlugin:
	default:
		return fmt.Errorf("invalid wrap manifest: unknown module type %q", m.Type)
	}
	if !namePattern.MatchString(m.Name) {
		return fmt.Errorf("invalid wrap manifest: name %q must match %s", m.Name, namePattern)
	}
	if len(m.Abi) == 0 {
		return fmt.Errorf("invalid wrap manifest: missing abi")
	}
	return nil
}

// Serialize encodes m as msgpack, validating it first unless opts disables that. A nil opts means
// default options.
func Serialize(m *WrapManifest, opts *Options) ([]byte, error) {
	if opts == nil {
		opts = &Options{}
	}
	if !opts.NoValidate {
		if err := m.Validate(); err != nil {
			return nil, err
		}
	}
	return msgpack.Marshal(m)
}

// Deserialize decodes a msgpack-encoded manifest, validating the result unless opts disables
// that. A nil opts means default options.
func Deserialize(data []byte, opts *Options) (*WrapManifest, error) {
	if opts == nil {
		opts = &Options{}
	}
	var m WrapManifest
	if err := msgpack.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("malformed wrap manifest: %w", err)
	}
	if !opts.NoValidate {
		if err := m.Validate(); err != nil {
			return nil, err
		}
	}
	return &m, nil
}

// UnsupportedVersionError is returned for manifests written by a schema version this package does
// not understand.
type UnsupportedVersionError struct {
	Version string
}

func (e *UnsupportedVersionError) Error() string {
	return fmt.Sprintf("unsupported wrap manifest version %q, expected %q", e.Version, LatestWrapManifestVersion)
}
