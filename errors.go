// SPDX-License-Identifier: MPL-2.0
// Copyright (c) 2025 Daniel Schmidt

package bigdb

import (
	"errors"
	"fmt"
)

// ErrKeyNotFound is matched by every *KeyNotFoundError via errors.Is
var ErrKeyNotFound = errors.New("key not found")

// KeyNotFoundError is returned when an AttrMap lookup misses
type KeyNotFoundError struct {
	// Key is the normalized key that was looked up
	Key string
}

// Error implements the error interface
func (e *KeyNotFoundError) Error() string {
	return fmt.Sprintf("bigdb: key not found: %q", e.Key)
}

// Is reports whether target is ErrKeyNotFound
func (e *KeyNotFoundError) Is(target error) bool {
	return target == ErrKeyNotFound
}

// APIError represents a non-2xx response from the controller
type APIError struct {
	// Method is the HTTP method of the failed request
	Method string

	// Path is the resource path relative to the API prefix
	Path string

	// StatusCode is the HTTP status code
	StatusCode int

	// Status is the HTTP status line text (e.g. "404 Not Found")
	Status string

	// Description is the server-supplied description, if the body carried one
	Description string
}

// Error implements the error interface
func (e *APIError) Error() string {
	status := e.Status
	if status == "" {
		status = fmt.Sprintf("%d", e.StatusCode)
	}
	if e.Description != "" {
		return fmt.Sprintf("bigdb: %s %s failed: %s: %s", e.Method, e.Path, status, e.Description)
	}
	return fmt.Sprintf("bigdb: %s %s failed: %s", e.Method, e.Path, status)
}

// TransportError represents a failure to reach the controller
//
// The underlying network or TLS error is available through errors.Unwrap.
type TransportError struct {
	// Op is the HTTP method or "login"
	Op string

	// URL is the request URL
	URL string

	// Err is the underlying error
	Err error
}

// Error implements the error interface
func (e *TransportError) Error() string {
	return fmt.Sprintf("bigdb: %s %s: %v", e.Op, e.URL, e.Err)
}

// Unwrap returns the underlying error
func (e *TransportError) Unwrap() error {
	return e.Err
}

// AuthenticationError is returned when login fails
//
// StatusCode is 401 when the controller rejected the credentials and 0 when
// every login endpoint was tried without success.
type AuthenticationError struct {
	// Host is the controller host
	Host string

	// StatusCode is the HTTP status of the decisive response, if any
	StatusCode int

	// Message describes the failure
	Message string

	// Err is the last transport error seen while probing, if any
	Err error
}

// Error implements the error interface
func (e *AuthenticationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("bigdb: login to %s failed: %s: %v", e.Host, e.Message, e.Err)
	}
	return fmt.Sprintf("bigdb: login to %s failed: %s", e.Host, e.Message)
}

// Unwrap returns the last transport error, if any
func (e *AuthenticationError) Unwrap() error {
	return e.Err
}

// TemplateError is returned when a filter cannot be built
type TemplateError struct {
	// Template is the predicate template
	Template string

	// Name is the missing substitution name, if that was the cause
	Name string

	// Reason describes the failure
	Reason string
}

// Error implements the error interface
func (e *TemplateError) Error() string {
	if e.Name != "" {
		return fmt.Sprintf("bigdb: filter %q: %s: %q", e.Template, e.Reason, e.Name)
	}
	return fmt.Sprintf("bigdb: filter %q: %s", e.Template, e.Reason)
}

// SchemaVocabularyError is returned when the renderer meets a nodeType
// outside CONTAINER, LIST, LIST_ELEMENT, LEAF and LEAF_LIST.
//
// This indicates a controller speaking a schema dialect this package does
// not understand; callers should treat it as fatal.
type SchemaVocabularyError struct {
	// NodeType is the unrecognized value
	NodeType string

	// Name is the schema node being rendered
	Name string
}

// Error implements the error interface
func (e *SchemaVocabularyError) Error() string {
	return fmt.Sprintf("bigdb: unknown schema node type %q at %q", e.NodeType, e.Name)
}
