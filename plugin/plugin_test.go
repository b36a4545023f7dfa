package plugin

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/polywrap/client-go/api"
	"github.com/polywrap/client-go/manifest"
	"github.com/polywrap/client-go/msgpack"
)

// asInt64 normalizes the integer widths msgpack decoding may produce.
func asInt64(v interface{}) int64 {
	switch n := v.(type) {
	case int8:
		return int64(n)
	case int16:
		return int64(n)
	case int32:
		return int64(n)
	case int64:
		return n
	case uint8:
		return int64(n)
	case uint16:
		return int64(n)
	case uint32:
		return int64(n)
	case uint64:
		return int64(n)
	}
	return 0
}

func testModule() *Module {
	return NewModule().
		Register("add", func(_ context.Context, args map[string]interface{}, _ []byte, _ api.Invoker) (interface{}, error) {
			return asInt64(args["a"]) + asInt64(args["b"]), nil
		}).
		Register("fail", func(context.Context, map[string]interface{}, []byte, api.Invoker) (interface{}, error) {
			return nil, errors.New("intentional")
		})
}

func TestModuleWrapInvoke(t *testing.T) {
	args, err := msgpack.Marshal(map[string]interface{}{"a": int8(2), "b": int8(3)})
	require.NoError(t, err)

	out, err := testModule().WrapInvoke(context.Background(), "add", args, nil, nil)
	require.NoError(t, err)

	var sum int64
	require.NoError(t, msgpack.Unmarshal(out, &sum))
	assert.Equal(t, int64(5), sum)
}

func TestModuleWrapInvokeNoArgs(t *testing.T) {
	m := NewModule().Register("ping", func(_ context.Context, args map[string]interface{}, _ []byte, _ api.Invoker) (interface{}, error) {
		assert.Nil(t, args)
		return "pong", nil
	})

	out, err := m.WrapInvoke(context.Background(), "ping", nil, nil, nil)
	require.NoError(t, err)

	var reply string
	require.NoError(t, msgpack.Unmarshal(out, &reply))
	assert.Equal(t, "pong", reply)
}

func TestModuleMethodNotFound(t *testing.T) {
	_, err := testModule().WrapInvoke(context.Background(), "missing", nil, nil, nil)

	var notFound *MethodNotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "missing", notFound.Method)
	assert.Contains(t, err.Error(), `"missing" is not defined in plugin`)
}

func TestModuleMethodError(t *testing.T) {
	_, err := testModule().WrapInvoke(context.Background(), "fail", nil, nil, nil)
	require.ErrorContains(t, err, "intentional")
}

func TestModuleMalformedArgs(t *testing.T) {
	_, err := testModule().WrapInvoke(context.Background(), "add", []byte{0xc1}, nil, nil)
	require.ErrorContains(t, err, "malformed args")
}

func TestPluginPackage(t *testing.T) {
	m := &manifest.WrapManifest{
		Version: manifest.LatestWrapManifestVersion,
		Type:    manifest.ModuleTypePlugin,
		Name:    "calc",
		Abi:     map[string]interface{}{"version": "0.1"},
	}
	pkg := NewPackage(m, testModule())

	gotManifest, err := pkg.Manifest(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "calc", gotManifest.Name)

	wrapper, err := pkg.CreateWrapper(context.Background())
	require.NoError(t, err)

	args, err := msgpack.Marshal(map[string]interface{}{"a": int8(1), "b": int8(1)})
	require.NoError(t, err)
	out, err := wrapper.Invoke(context.Background(), "add", args, nil, nil)
	require.NoError(t, err)

	var sum int64
	require.NoError(t, msgpack.Unmarshal(out, &sum))
	assert.Equal(t, int64(2), sum)
}
