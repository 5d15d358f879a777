// SPDX-License-Identifier: MPL-2.0
// Copyright (c) 2025 Daniel Schmidt

package bigdb

import (
	"net/http"

	"github.com/tidwall/gjson"
)

// Res represents a controller response
type Res struct {
	// StatusCode is the HTTP status code
	StatusCode int

	// Header contains the response headers
	Header http.Header

	// Raw is the undecoded response body
	Raw string

	// Value is the decoded body: *AttrMap, []any, a scalar, or nil for an
	// empty body
	Value any
}

// OK reports whether the response has a 2xx status
func (r Res) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// GetValue retrieves a value from the body using a gjson path
//
// Example paths:
//   - "0.name" - name of the first list element
//   - "#.dpid" - dpid of every list element
//   - "#(name==leaf1).fabric-role" - role of the element named leaf1
//
// Returns an empty gjson.Result if the body is empty.
//
// Example:
//
//	res, err := switches.Get(ctx)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, name := range res.GetValue("#.name").Array() {
//	    fmt.Println(name.String())
//	}
func (r Res) GetValue(path string) gjson.Result {
	if r.Raw == "" {
		return gjson.Result{}
	}
	return gjson.Get(r.Raw, path)
}

// Map returns the decoded body as an *AttrMap
func (r Res) Map() (*AttrMap, bool) {
	m, ok := r.Value.(*AttrMap)
	return m, ok
}

// List returns the decoded body as a list
//
// List responses (e.g. all switches) decode to []any whose elements are
// usually *AttrMap.
func (r Res) List() ([]any, bool) {
	l, ok := r.Value.([]any)
	return l, ok
}

// Maps returns the *AttrMap elements of a list response, skipping others
func (r Res) Maps() []*AttrMap {
	list, _ := r.List()
	result := make([]*AttrMap, 0, len(list))
	for _, elem := range list {
		if m, ok := elem.(*AttrMap); ok {
			result = append(result, m)
		}
	}
	return result
}
