// SPDX-License-Identifier: MPL-2.0
// Copyright (c) 2025 Daniel Schmidt

package bigdb

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/tidwall/gjson"
)

// Input validation constants
const (
	// MaxPathLength is the maximum length for a resource path
	MaxPathLength = 4096

	// MaxResponseSize is the maximum accepted response body (64MB)
	MaxResponseSize = 64 * 1024 * 1024
)

// compile-time check
var _ Executor = (*Client)(nil)

// validatePath checks a resource path before any request is made
//
// Checks:
//   - Path length does not exceed MaxPathLength
//   - Path has no leading slash (paths are relative to the API prefix)
//   - Path contains no null bytes or "/../" traversal segments
func validatePath(path string) error {
	if len(path) > MaxPathLength {
		return fmt.Errorf("path exceeds maximum length of %d characters: %s", MaxPathLength, truncatePath(path))
	}
	if strings.HasPrefix(path, "/") {
		return fmt.Errorf("path must be relative to the API prefix: %s", truncatePath(path))
	}
	if i := strings.IndexByte(path, 0); i >= 0 {
		return fmt.Errorf("path contains null byte at position %d", i)
	}
	if i := strings.Index("/"+path+"/", "/../"); i >= 0 {
		return fmt.Errorf("path contains traversal segment '..' : %s", truncatePath(path))
	}
	return nil
}

// truncatePath truncates a path for error messages
func truncatePath(path string) string {
	if len(path) <= 100 {
		return path
	}
	return path[:100] + "..."
}

// Get retrieves the data at path
//
// The body is decoded with FromJSON; Res.Value holds an *AttrMap, a []any
// or a scalar.
//
// Example:
//
//	res, err := client.Get(ctx, "controller/core/switch")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, sw := range res.Maps() {
//	    fmt.Println(sw.String("name"))
//	}
func (c *Client) Get(ctx context.Context, path string, mods ...func(*Req)) (Res, error) {
	res, err := c.do(ctx, MethodGet, DataPrefix, path, nil, mods)
	if err != nil {
		return res, err
	}
	if res.Value == nil && strings.TrimSpace(res.Raw) != "" {
		if _, err := FromJSON([]byte(res.Raw)); err != nil {
			return res, fmt.Errorf("bigdb: GET %s: response is not valid JSON: %w", path, err)
		}
	}
	return res, nil
}

// Post sends data to path with POST
//
// data is encoded with ToJSON.
func (c *Client) Post(ctx context.Context, path string, data any, mods ...func(*Req)) (Res, error) {
	return c.write(ctx, MethodPost, path, data, mods)
}

// Put sends data to path with PUT
func (c *Client) Put(ctx context.Context, path string, data any, mods ...func(*Req)) (Res, error) {
	return c.write(ctx, MethodPut, path, data, mods)
}

// Patch sends data to path with PATCH
func (c *Client) Patch(ctx context.Context, path string, data any, mods ...func(*Req)) (Res, error) {
	return c.write(ctx, MethodPatch, path, data, mods)
}

// Delete removes the data at path
func (c *Client) Delete(ctx context.Context, path string, mods ...func(*Req)) (Res, error) {
	return c.do(ctx, MethodDelete, DataPrefix, path, nil, mods)
}

// Schema retrieves the schema tree describing path
//
// Example:
//
//	schema, err := client.Schema(ctx, "controller/core/switch")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(schema.String("nodeType")) // "LIST"
func (c *Client) Schema(ctx context.Context, path string, mods ...func(*Req)) (*AttrMap, error) {
	res, err := c.do(ctx, MethodGet, SchemaPrefix, path, nil, mods)
	if err != nil {
		return nil, err
	}
	schema, ok := res.Map()
	if !ok {
		return nil, fmt.Errorf("bigdb: schema %s: expected a JSON object", path)
	}
	return schema, nil
}

// write encodes data and performs a body-carrying request
func (c *Client) write(ctx context.Context, method, path string, data any, mods []func(*Req)) (Res, error) {
	body, err := ToJSON(data)
	if err != nil {
		return Res{}, fmt.Errorf("bigdb: %s %s: %w", method, path, err)
	}
	return c.do(ctx, method, DataPrefix, path, body, mods)
}

// do performs a single request against prefix+path
//
// Flow: validate path, ensure a session exists (lazy login), build the URL,
// apply the timeout, send, read and classify the response.
func (c *Client) do(ctx context.Context, method, prefix, path string, body []byte, mods []func(*Req)) (Res, error) {
	if err := validatePath(path); err != nil {
		return Res{}, fmt.Errorf("bigdb: %s: %w", strings.ToLower(method), err)
	}

	req := newReq(mods)

	if err := checkContextCancellation(ctx); err != nil {
		return Res{}, err
	}

	if err := c.ensureSession(ctx); err != nil {
		return Res{}, err
	}

	httpClient, u := c.session()
	u.Path = strings.TrimRight(u.Path, "/") + prefix + path
	u.RawQuery = req.Params.Encode()
	target := u.String()

	ctx, cancel := c.requestContext(ctx, req)
	defer cancel()

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	httpReq, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return Res{}, fmt.Errorf("bigdb: build %s request: %w", method, err)
	}
	httpReq.Header.Set("Accept", ContentTypeJSON)
	if body != nil {
		httpReq.Header.Set("Content-Type", ContentTypeJSON)
	}

	if body != nil {
		c.logger.Debug(ctx, "BigDB request",
			"method", method,
			"path", path,
			"body", c.prepareJSONForLogging(string(body)))
	} else {
		c.logger.Debug(ctx, "BigDB request",
			"method", method,
			"path", path)
	}

	resp, err := httpClient.Do(httpReq)
	if err != nil {
		c.logger.Error(ctx, "BigDB request failed",
			"method", method,
			"path", path,
			"error", err.Error())
		return Res{}, &TransportError{Op: method, URL: target, Err: err}
	}
	defer resp.Body.Close()

	raw, err := readBody(resp)
	if err != nil {
		return Res{}, &TransportError{Op: method, URL: target, Err: err}
	}

	res := Res{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Raw:        string(raw),
	}

	if !res.OK() {
		apiErr := &APIError{
			Method:      method,
			Path:        path,
			StatusCode:  resp.StatusCode,
			Status:      resp.Status,
			Description: errorDescription(raw),
		}
		c.logger.Error(ctx, "BigDB request returned error status",
			"method", method,
			"path", path,
			"status", resp.StatusCode,
			"description", apiErr.Description)
		return res, apiErr
	}

	if len(bytes.TrimSpace(raw)) > 0 {
		if value, err := FromJSON(raw); err == nil {
			res.Value = value
		}
	}

	c.logger.Debug(ctx, "BigDB response",
		"method", method,
		"path", path,
		"status", resp.StatusCode,
		"bytes", len(raw))

	return res, nil
}

// readBody reads at most MaxResponseSize bytes of the response body
func readBody(resp *http.Response) ([]byte, error) {
	raw, err := io.ReadAll(io.LimitReader(resp.Body, MaxResponseSize+1))
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}
	if len(raw) > MaxResponseSize {
		return nil, fmt.Errorf("response body exceeds %d bytes", MaxResponseSize)
	}
	return raw, nil
}

// errorDescription extracts the "description" field from an error body
func errorDescription(raw []byte) string {
	if !gjson.ValidBytes(raw) {
		return ""
	}
	return gjson.GetBytes(raw, "description").String()
}

// checkContextCancellation returns the context error if ctx is already done
func checkContextCancellation(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
		return nil
	}
}

// requestContext derives the context for one request
//
// Timeout priority model:
//  1. Request-specific timeout (req.Timeout > 0) - highest priority
//  2. Existing context deadline (ctx.Deadline() set) - medium priority
//  3. Client default timeout (c.OperationTimeout) - fallback
//
// Caller MUST call the returned cancel function.
func (c *Client) requestContext(ctx context.Context, req *Req) (context.Context, context.CancelFunc) {
	if req.Timeout > 0 {
		return context.WithTimeout(ctx, req.Timeout)
	}
	if _, ok := ctx.Deadline(); ok {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, c.OperationTimeout)
}
