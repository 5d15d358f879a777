// SPDX-License-Identifier: MPL-2.0
// Copyright (c) 2025 Daniel Schmidt

package bigdb

import (
	"net/url"
	"time"
)

// Req represents a request modifier target
//
// This struct is used to apply request-specific options via functional
// modifiers. The path and body are passed directly to the verb methods.
//
// Example:
//
//	res, err := node.Get(ctx,
//	    bigdb.Query("select", "name"),
//	    bigdb.Timeout(30*time.Second))
type Req struct {
	// Params are appended to the request URL as a query string
	Params url.Values

	// Timeout is the request-specific timeout
	// Overrides the client's OperationTimeout if set
	Timeout time.Duration
}

// newReq applies mods to an empty Req
func newReq(mods []func(*Req)) *Req {
	req := &Req{Params: url.Values{}}
	for _, mod := range mods {
		mod(req)
	}
	return req
}

// HTTP methods used by the data API
const (
	MethodGet    = "GET"
	MethodPost   = "POST"
	MethodPut    = "PUT"
	MethodPatch  = "PATCH"
	MethodDelete = "DELETE"
)

// API path prefixes
const (
	// DataPrefix addresses the controller's data tree
	DataPrefix = "/api/v1/data/"

	// SchemaPrefix addresses the schema describing the data tree
	SchemaPrefix = "/api/v1/schema/"
)
