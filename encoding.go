// SPDX-License-Identifier: MPL-2.0
// Copyright (c) 2025 Daniel Schmidt

package bigdb

import (
	"encoding/json"
	"fmt"

	"github.com/tidwall/gjson"
)

// Content types used on the wire
const (
	// ContentTypeJSON is sent with every request body and expected in responses
	ContentTypeJSON = "application/json"
)

// FromJSON decodes a JSON document
//
// Objects become *AttrMap (recursively), arrays []any, numbers json.Number,
// strings string, booleans bool and null nil. Object keys keep document
// order.
//
// Example:
//
//	v, err := bigdb.FromJSON([]byte(`{"fabric_role":"leaf"}`))
//	sw := v.(*bigdb.AttrMap)
//	sw.String("fabric-role") // "leaf"
func FromJSON(data []byte) (any, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("invalid JSON document (%d bytes)", len(data))
	}
	return decodeValue(gjson.ParseBytes(data)), nil
}

// ToJSON encodes data as compact JSON
//
// AttrMap values are emitted with normalized keys in order. A Body is
// returned verbatim (after its build error, if any). Raw JSON supplied as
// json.RawMessage is passed through.
func ToJSON(data any) ([]byte, error) {
	switch v := data.(type) {
	case Body:
		return v.Bytes()
	case *Body:
		return v.Bytes()
	case json.RawMessage:
		if !gjson.ValidBytes(v) {
			return nil, fmt.Errorf("invalid raw JSON (%d bytes)", len(v))
		}
		return v, nil
	}
	out, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("encode request body: %w", err)
	}
	return out, nil
}

// decodeValue converts a parsed gjson value to its Go representation
func decodeValue(r gjson.Result) any {
	switch r.Type {
	case gjson.Null:
		return nil
	case gjson.False:
		return false
	case gjson.True:
		return true
	case gjson.Number:
		return json.Number(r.Raw)
	case gjson.String:
		return r.String()
	}
	if r.IsArray() {
		elems := r.Array()
		list := make([]any, 0, len(elems))
		for _, elem := range elems {
			list = append(list, decodeValue(elem))
		}
		return list
	}
	return decodeObject(r)
}

// decodeObject converts a parsed JSON object, preserving key order
func decodeObject(r gjson.Result) *AttrMap {
	m := NewAttrMap()
	r.ForEach(func(key, value gjson.Result) bool {
		m.Set(key.String(), decodeValue(value))
		return true
	})
	return m
}
