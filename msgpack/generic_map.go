package msgpack

import (
	"bytes"
	"fmt"
	"io"

	"github.com/vmihailenco/msgpack/v5"
)

// ExtTypeGenericMap is the msgpack extension type tag of a generic map: the extension payload is
// itself a msgpack-encoded map.
const ExtTypeGenericMap int8 = 1

// GenericMap is an insertion-ordered map encoded as the generic map extension type. Unlike a plain
// Go map it round-trips through msgpack with stable entry order and supports any comparable key
// type on the wire.
//
// The zero value is not usable; construct with NewGenericMap.
type GenericMap[K comparable, V any] struct {
	entries map[K]V
	keys    []K
}

// NewGenericMap returns an empty GenericMap.
func NewGenericMap[K comparable, V any]() *GenericMap[K, V] {
	return &GenericMap[K, V]{entries: map[K]V{}}
}

// Has is true if key is present.
func (m *GenericMap[K, V]) Has(key K) bool {
	_, ok := m.entries[key]
	return ok
}

// Get returns the value for key, and whether it was present.
func (m *GenericMap[K, V]) Get(key K) (V, bool) {
	v, ok := m.entries[key]
	return v, ok
}

// Set stores value under key, keeping the key's original insertion position if it already exists.
func (m *GenericMap[K, V]) Set(key K, value V) {
	if _, ok := m.entries[key]; !ok {
		m.keys = append(m.keys, key)
	}
	m.entries[key] = value
}

// Delete removes key if present.
func (m *GenericMap[K, V]) Delete(key K) {
	if _, ok := m.entries[key]; !ok {
		return
	}
	delete(m.entries, key)
	for i, k := range m.keys {
		if k == key {
			m.keys = append(m.keys[:i], m.keys[i+1:]...)
			break
		}
	}
}

// Len returns the number of entries.
func (m *GenericMap[K, V]) Len() int { return len(m.entries) }

// Keys returns the keys in insertion order.
func (m *GenericMap[K, V]) Keys() []K {
	keys := make([]K, len(m.keys))
	copy(keys, m.keys)
	return keys
}

func (m *GenericMap[K, V]) String() string {
	return fmt.Sprintf("GenericMap%v", m.entries)
}

// MarshalMsgpack encodes the map as ExtTypeGenericMap wrapping an inner msgpack map in insertion
// order.
func (m *GenericMap[K, V]) MarshalMsgpack() ([]byte, error) {
	var inner bytes.Buffer
	enc := msgpack.NewEncoder(&inner)
	if err := enc.EncodeMapLen(len(m.keys)); err != nil {
		return nil, err
	}
	for _, k := range m.keys {
		if err := enc.Encode(k); err != nil {
			return nil, err
		}
		if err := enc.Encode(m.entries[k]); err != nil {
			return nil, err
		}
	}

	var buf bytes.Buffer
	head := msgpack.NewEncoder(&buf)
	if err := head.EncodeExtHeader(ExtTypeGenericMap, inner.Len()); err != nil {
		return nil, err
	}
	if _, err := inner.WriteTo(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// UnmarshalMsgpack decodes an ExtTypeGenericMap value, replacing the map's contents.
func (m *GenericMap[K, V]) UnmarshalMsgpack(data []byte) error {
	dec := msgpack.NewDecoder(bytes.NewReader(data))
	extID, extLen, err := dec.DecodeExtHeader()
	if err != nil {
		return fmt.Errorf("malformed generic map: %w", err)
	}
	if extID != ExtTypeGenericMap {
		return fmt.Errorf("malformed generic map: extension type %d, expected %d", extID, ExtTypeGenericMap)
	}
	payload := make([]byte, extLen)
	if _, err := io.ReadFull(dec.Buffered(), payload); err != nil {
		return fmt.Errorf("malformed generic map: %w", err)
	}

	inner := msgpack.NewDecoder(bytes.NewReader(payload))
	n, err := inner.DecodeMapLen()
	if err != nil {
		return fmt.Errorf("malformed generic map: %w", err)
	}
	m.entries = make(map[K]V, n)
	m.keys = m.keys[:0]
	for i := 0; i < n; i++ {
		var k K
		if err := inner.Decode(&k); err != nil {
			return fmt.Errorf("malformed generic map key: %w", err)
		}
		var v V
		if err := inner.Decode(&v); err != nil {
			return fmt.Errorf("malformed generic map value: %w", err)
		}
		m.Set(k, v)
	}
	return nil
}

var (
	_ msgpack.Marshaler   = (*GenericMap[string, int])(nil)
	_ msgpack.Unmarshaler = (*GenericMap[string, int])(nil)
)
