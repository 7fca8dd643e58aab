// SPDX-License-Identifier: MPL-2.0
// Copyright (c) 2025 Daniel Schmidt

package netbox

import (
	"fmt"
	"net/http"
	"strings"
)

// InvalidObjectTypeError is returned when a caller supplies an object-type
// name that is not present in the catalog. It is raised before any network
// call is issued.
//
// The error message enumerates every valid name in lexicographic order so
// that automation clients can self-correct without a round trip to the docs.
type InvalidObjectTypeError struct {
	// ObjectType is the unrecognized name supplied by the caller
	ObjectType string

	// ValidTypes lists all catalog names, sorted lexicographically
	ValidTypes []string
}

// Error implements the error interface
func (e *InvalidObjectTypeError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "invalid object_type %q, must be one of:", e.ObjectType)
	for _, t := range e.ValidTypes {
		b.WriteString("\n- ")
		b.WriteString(t)
	}
	return b.String()
}

// UnsupportedOperationError is returned when the connected NetBox instance
// lacks a capability required for the requested write. It is never retried
// automatically; the condition is permanent for the lifetime of the
// connected deployment.
type UnsupportedOperationError struct {
	// Operation is the name of the operation that cannot proceed
	Operation string

	// Reason explains which capability is missing
	Reason string
}

// Error implements the error interface
func (e *UnsupportedOperationError) Error() string {
	return fmt.Sprintf("netbox: %s not supported: %s", e.Operation, e.Reason)
}

// APIError represents a non-2xx response from the NetBox API.
//
// Transport failures (connection refused, timeout, TLS) are NOT APIErrors;
// those are returned as wrapped errors from the underlying HTTP client.
// Neither kind is retried by the library (the automation client owns retry
// policy), so an APIError always reflects a single upstream response.
type APIError struct {
	// Method is the HTTP method of the failed request
	Method string

	// Path is the API-relative request path
	Path string

	// StatusCode is the HTTP status code of the response
	StatusCode int

	// Body is an excerpt of the response body (truncated for logging safety)
	Body string
}

// Error implements the error interface
func (e *APIError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("netbox: %s %s failed: HTTP %d", e.Method, e.Path, e.StatusCode)
	}
	return fmt.Sprintf("netbox: %s %s failed: HTTP %d: %s", e.Method, e.Path, e.StatusCode, e.Body)
}

// IsNotFound reports whether the error represents an HTTP 404 response
//
// Example:
//
//	res, err := adapter.GetObject(ctx, "devices", 42)
//	if apiErr, ok := err.(*netbox.APIError); ok && apiErr.IsNotFound() {
//	    // device 42 does not exist
//	}
func (e *APIError) IsNotFound() bool {
	return e.StatusCode == http.StatusNotFound
}
