// SPDX-License-Identifier: MPL-2.0
// Copyright (c) 2025 Daniel Schmidt

package bigdb

import (
	"net/http"
	"net/url"
	"time"
)

// Client configuration options using the functional options pattern

// Username sets the username for controller login
func Username(username string) func(*Client) {
	return func(c *Client) {
		c.username = username
	}
}

// Password sets the password for controller login
func Password(password string) func(*Client) {
	return func(c *Client) {
		c.password = password
	}
}

// VerifyCertificate enables or disables TLS certificate verification (default: true)
//
// WARNING: Disabling certificate verification makes the connection vulnerable
// to Man-in-the-Middle attacks. Controllers commonly ship with self-signed
// certificates; prefer installing a trusted certificate over disabling
// verification.
//
// Has no effect when WithHTTPClient supplies the transport.
func VerifyCertificate(verify bool) func(*Client) {
	return func(c *Client) {
		c.VerifyCertificate = verify
	}
}

// ConnectTimeout sets the TCP/TLS connection timeout (default: 30s)
//
// Has no effect when WithHTTPClient supplies the transport.
func ConnectTimeout(duration time.Duration) func(*Client) {
	return func(c *Client) {
		c.ConnectTimeout = duration
	}
}

// OperationTimeout sets the per-request timeout (default: 60s)
func OperationTimeout(duration time.Duration) func(*Client) {
	return func(c *Client) {
		c.OperationTimeout = duration
	}
}

// LoginEndpoints replaces the list of login URLs probed during login
//
// Endpoints are tried in order; the first one answering 200 becomes the
// client's base URL.
//
// Example:
//
//	client, _ := bigdb.NewClient("192.168.1.1",
//	    bigdb.LoginEndpoints(bigdb.Endpoint{Scheme: "https", Port: 8443, Path: "/api/v1/auth/login"}))
func LoginEndpoints(endpoints ...Endpoint) func(*Client) {
	return func(c *Client) {
		c.loginEndpoints = append([]Endpoint(nil), endpoints...)
	}
}

// BaseURL sets the controller base URL and skips login
//
// Use this with an already authenticated session supplied through
// WithHTTPClient, or with controllers that do not require login.
//
// Example:
//
//	client, _ := bigdb.NewClient("192.168.1.1",
//	    bigdb.BaseURL("https://192.168.1.1:8443"),
//	    bigdb.WithHTTPClient(sessionClient))
func BaseURL(rawURL string) func(*Client) {
	return func(c *Client) {
		c.rawBaseURL = rawURL
	}
}

// WithHTTPClient sets the HTTP client used for all requests
//
// The client is copied; if it has no cookie jar, the copy is given one so
// the login session can be kept.
func WithHTTPClient(httpClient *http.Client) func(*Client) {
	return func(c *Client) {
		if httpClient != nil {
			c.customHTTPClient = httpClient
		}
	}
}

// WithLogger configures a custom logger for the client
//
// By default, the client uses NoOpLogger which discards all log messages.
//
// Request bodies logged at Debug level are redacted to remove sensitive
// values (passwords, secrets, tokens, session cookies).
//
// Example:
//
//	logger := bigdb.NewDefaultLogger(bigdb.LogLevelInfo)
//	client, _ := bigdb.NewClient("192.168.1.1",
//	    bigdb.Username("admin"),
//	    bigdb.Password("secret"),
//	    bigdb.WithLogger(logger))
func WithLogger(logger Logger) func(*Client) {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithPrettyPrintLogs enables/disables JSON pretty printing in Debug logs (default: true)
func WithPrettyPrintLogs(enabled bool) func(*Client) {
	return func(c *Client) {
		c.prettyPrintLogs = enabled
	}
}

// Request modifiers for individual operations

// Timeout returns a request modifier that sets a custom timeout for the operation.
//
// The timeout priority model is:
//  1. Request-specific timeout (this modifier) - highest priority
//  2. Context deadline (if already set) - medium priority
//  3. Client.OperationTimeout - fallback default
//
// Example:
//
//	res, err := node.Get(ctx, bigdb.Timeout(2*time.Minute))
func Timeout(duration time.Duration) func(*Req) {
	return func(req *Req) {
		req.Timeout = duration
	}
}

// Query returns a request modifier that adds a query parameter
//
// Repeated calls with the same key add multiple values.
//
// Example:
//
//	res, err := node.Get(ctx, bigdb.Query("config", "true"))
func Query(key, value string) func(*Req) {
	return func(req *Req) {
		if req.Params == nil {
			req.Params = url.Values{}
		}
		req.Params.Add(key, value)
	}
}
