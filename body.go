// SPDX-License-Identifier: MPL-2.0
// Copyright (c) 2025 Daniel Schmidt

package bigdb

import (
	"fmt"

	"github.com/tidwall/sjson"
)

// Body provides a fluent interface for building request bodies using sjson
// paths.
//
// Paths use dot notation for nested fields and are normalized to dash
// spelling, so Set("switch_config.fabric_role", ...) writes
// {"switch-config":{"fabric-role":...}}.
//
// The builder records the first error and turns later calls into no-ops, so
// calls can be chained and checked once via Err, String or Bytes.
//
// Example:
//
//	body := bigdb.Body{}.
//	    Set("name", "leaf1").
//	    Set("mac_address", "00:00:00:00:00:01").
//	    Set("fabric_role", "leaf")
//
//	_, err := client.Root().Attr("core").Attr("switch_config").Put(ctx, body)
type Body struct {
	str string
	err error
}

// Set sets a value at the specified path and returns a new Body
func (b Body) Set(path string, value any) Body {
	if b.err != nil {
		return b
	}

	result, err := sjson.Set(b.str, NormalizeKey(path), value)
	if err != nil {
		return Body{str: b.str, err: fmt.Errorf("Set(%q): %w", path, err)}
	}
	return Body{str: result}
}

// SetRaw sets a raw JSON fragment at the specified path and returns a new Body
func (b Body) SetRaw(path, raw string) Body {
	if b.err != nil {
		return b
	}

	result, err := sjson.SetRaw(b.str, NormalizeKey(path), raw)
	if err != nil {
		return Body{str: b.str, err: fmt.Errorf("SetRaw(%q): %w", path, err)}
	}
	return Body{str: result}
}

// Delete removes the value at the specified path and returns a new Body
func (b Body) Delete(path string) Body {
	if b.err != nil {
		return b
	}

	result, err := sjson.Delete(b.str, NormalizeKey(path))
	if err != nil {
		return Body{str: b.str, err: fmt.Errorf("Delete(%q): %w", path, err)}
	}
	return Body{str: result}
}

// String returns the JSON string and any error encountered while building
//
// An empty builder yields "{}".
func (b Body) String() (string, error) {
	if b.err != nil {
		return "", b.err
	}
	if b.str == "" {
		return "{}", nil
	}
	return b.str, nil
}

// Err returns the first error encountered while building
func (b Body) Err() error {
	return b.err
}

// Bytes returns the JSON bytes and any error encountered while building
func (b Body) Bytes() ([]byte, error) {
	s, err := b.String()
	if err != nil {
		return nil, err
	}
	return []byte(s), nil
}

// Map decodes the body into an AttrMap
func (b Body) Map() (*AttrMap, error) {
	data, err := b.Bytes()
	if err != nil {
		return nil, err
	}
	m := NewAttrMap()
	if err := m.UnmarshalJSON(data); err != nil {
		return nil, err
	}
	return m, nil
}
