// SPDX-License-Identifier: MPL-2.0
// Copyright (c) 2025 Daniel Schmidt

package bigdb

import "context"

// Executor performs requests on behalf of a Node
//
// Paths are relative to the data (or schema) API prefix, e.g.
// "controller/core/switch". Implementations return *APIError for non-2xx
// responses and *TransportError when the controller cannot be reached.
//
// *Client is the production implementation; tests may substitute their own.
type Executor interface {
	Get(ctx context.Context, path string, mods ...func(*Req)) (Res, error)
	Post(ctx context.Context, path string, data any, mods ...func(*Req)) (Res, error)
	Put(ctx context.Context, path string, data any, mods ...func(*Req)) (Res, error)
	Patch(ctx context.Context, path string, data any, mods ...func(*Req)) (Res, error)
	Delete(ctx context.Context, path string, mods ...func(*Req)) (Res, error)
	Schema(ctx context.Context, path string, mods ...func(*Req)) (*AttrMap, error)
}
