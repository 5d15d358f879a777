// SPDX-License-Identifier: MPL-2.0
// Copyright (c) 2025 Daniel Schmidt

package bigdb

import (
	"bytes"
	"encoding/json"
	"fmt"
	"reflect"
	"strings"

	"github.com/tidwall/gjson"
)

// NormalizeKey converts a key or path segment to its wire spelling by
// replacing underscores with dashes.
//
// Example:
//
//	bigdb.NormalizeKey("fabric_role") // "fabric-role"
func NormalizeKey(key string) string {
	return strings.ReplaceAll(key, "_", "-")
}

// AttrMap is a JSON object whose keys are addressable under either dash or
// underscore spelling.
//
// Keys are normalized with NormalizeKey on every read and write, so
// "fabric_role" and "fabric-role" always refer to the same slot. Keys keep
// the order in which they were decoded or first set.
//
// Every JSON object decoded by this package becomes an *AttrMap; arrays
// become []any and numbers json.Number.
//
// AttrMap is not safe for concurrent mutation.
type AttrMap struct {
	keys   []string
	values map[string]any
}

// NewAttrMap creates an empty AttrMap
func NewAttrMap() *AttrMap {
	return &AttrMap{values: make(map[string]any)}
}

// Get returns the value stored under key
//
// Returns a *KeyNotFoundError if the key is absent.
func (m *AttrMap) Get(key string) (any, error) {
	k := NormalizeKey(key)
	if m != nil && m.values != nil {
		if v, ok := m.values[k]; ok {
			return v, nil
		}
	}
	return nil, &KeyNotFoundError{Key: k}
}

// Set stores value under key and returns the map for chaining
//
// Setting an existing key (under either spelling) replaces the value in
// place and keeps the key's original position.
func (m *AttrMap) Set(key string, value any) *AttrMap {
	if m.values == nil {
		m.values = make(map[string]any)
	}
	k := NormalizeKey(key)
	if _, exists := m.values[k]; !exists {
		m.keys = append(m.keys, k)
	}
	m.values[k] = value
	return m
}

// Delete removes key if present
func (m *AttrMap) Delete(key string) {
	if m == nil || m.values == nil {
		return
	}
	k := NormalizeKey(key)
	if _, exists := m.values[k]; !exists {
		return
	}
	delete(m.values, k)
	for i, existing := range m.keys {
		if existing == k {
			m.keys = append(m.keys[:i], m.keys[i+1:]...)
			break
		}
	}
}

// Has reports whether key is present
func (m *AttrMap) Has(key string) bool {
	if m == nil || m.values == nil {
		return false
	}
	_, ok := m.values[NormalizeKey(key)]
	return ok
}

// Keys returns the normalized keys in decode/insertion order
//
// The returned slice is a copy.
func (m *AttrMap) Keys() []string {
	if m == nil {
		return nil
	}
	result := make([]string, len(m.keys))
	copy(result, m.keys)
	return result
}

// Len returns the number of keys
func (m *AttrMap) Len() int {
	if m == nil {
		return 0
	}
	return len(m.keys)
}

// Range calls fn for each key/value pair in order until fn returns false
func (m *AttrMap) Range(fn func(key string, value any) bool) {
	if m == nil {
		return
	}
	for _, k := range m.keys {
		if !fn(k, m.values[k]) {
			return
		}
	}
}

// String returns the value under key as a string
//
// Returns "" if the key is absent. Non-string values are formatted with
// fmt.Sprint.
func (m *AttrMap) String(key string) string {
	v, err := m.Get(key)
	if err != nil || v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

// Map returns the nested AttrMap under key, or nil
func (m *AttrMap) Map(key string) *AttrMap {
	v, err := m.Get(key)
	if err != nil {
		return nil
	}
	nested, _ := v.(*AttrMap)
	return nested
}

// List returns the array under key, or nil
func (m *AttrMap) List(key string) []any {
	v, err := m.Get(key)
	if err != nil {
		return nil
	}
	list, _ := v.([]any)
	return list
}

// Equal reports whether both maps hold the same normalized keys with equal
// values. Key order is ignored.
func (m *AttrMap) Equal(other *AttrMap) bool {
	if m.Len() != other.Len() {
		return false
	}
	for _, k := range m.Keys() {
		ov, err := other.Get(k)
		if err != nil {
			return false
		}
		if !valuesEqual(m.values[k], ov) {
			return false
		}
	}
	return true
}

func valuesEqual(a, b any) bool {
	switch av := a.(type) {
	case *AttrMap:
		bv, ok := b.(*AttrMap)
		return ok && av.Equal(bv)
	case []any:
		bv, ok := b.([]any)
		if !ok || len(av) != len(bv) {
			return false
		}
		for i := range av {
			if !valuesEqual(av[i], bv[i]) {
				return false
			}
		}
		return true
	default:
		return reflect.DeepEqual(a, b)
	}
}

// MarshalJSON encodes the map with normalized keys in order
func (m *AttrMap) MarshalJSON() ([]byte, error) {
	if m == nil {
		return []byte("null"), nil
	}
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range m.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		value, err := json.Marshal(m.values[k])
		if err != nil {
			return nil, fmt.Errorf("encode %q: %w", k, err)
		}
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes a JSON object into the map, replacing its contents
func (m *AttrMap) UnmarshalJSON(data []byte) error {
	if !gjson.ValidBytes(data) {
		return fmt.Errorf("invalid JSON document")
	}
	result := gjson.ParseBytes(data)
	if !result.IsObject() {
		return fmt.Errorf("cannot decode JSON %s into AttrMap", result.Type)
	}
	*m = *decodeObject(result)
	return nil
}

// GoString formats the map as compact JSON for %#v
func (m *AttrMap) GoString() string {
	data, err := m.MarshalJSON()
	if err != nil {
		return fmt.Sprintf("AttrMap(%v)", m.keys)
	}
	return string(data)
}
