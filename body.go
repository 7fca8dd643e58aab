// SPDX-License-Identifier: MPL-2.0
// Copyright (c) 2025 Daniel Schmidt

package netbox

import (
	"fmt"

	"github.com/tidwall/sjson"
)

// Body provides a fluent interface for building JSON payloads using sjson
// for path-based manipulation.
//
// The Body builder tracks errors internally to enable method chaining while
// providing error checking through String() or Err() methods. The payload
// shape is never validated locally; the upstream API schema is authoritative.
//
// Example:
//
//	body := netbox.Body{}.
//	    Set("name", "dc-west").
//	    Set("slug", "dc-west").
//	    Set("status", "active")
//
//	value, err := body.String()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	res, err := adapter.CreateObject(ctx, "sites", value)
type Body struct {
	// str contains the JSON string being built
	str string
	// err tracks the first error encountered during building
	err error
}

// Set sets a value at the specified JSON path and returns a new Body
//
// The path uses dot notation for nested fields (e.g. "custom_fields.rack_id").
// The value can be any type that sjson supports (string, number, bool, etc.).
//
// If an error occurs, the error is stored and returned by String() or Err().
// Once an error occurs, all subsequent operations are no-ops that preserve
// the error.
//
// Returns the Body for method chaining.
func (b Body) Set(path string, value any) Body {
	// Short-circuit if already in error state
	if b.err != nil {
		return b
	}

	result, err := sjson.Set(b.str, path, value)
	if err != nil {
		return Body{str: b.str, err: fmt.Errorf("Set(%q): %w", path, err)}
	}
	return Body{str: result, err: nil}
}

// SetRaw sets a raw JSON fragment at the specified path and returns a new Body
//
// Unlike Set, the value is inserted verbatim as JSON. This is used where the
// API expects a nested structure, e.g. assigning a MAC address object by
// reference:
//
//	body := netbox.Body{}.SetRaw("primary_mac_address", `{"id":17}`)
//
// Returns the Body for method chaining.
func (b Body) SetRaw(path string, rawJSON string) Body {
	if b.err != nil {
		return b
	}

	result, err := sjson.SetRaw(b.str, path, rawJSON)
	if err != nil {
		return Body{str: b.str, err: fmt.Errorf("SetRaw(%q): %w", path, err)}
	}
	return Body{str: result, err: nil}
}

// Delete removes a value at the specified JSON path and returns a new Body
//
// Example:
//
//	body := netbox.Body{}.
//	    Set("name", "edge-1").
//	    Set("comments", "temp").
//	    Delete("comments")  // Remove comments field
//
// Returns the Body for method chaining.
func (b Body) Delete(path string) Body {
	if b.err != nil {
		return b
	}

	result, err := sjson.Delete(b.str, path)
	if err != nil {
		return Body{str: b.str, err: fmt.Errorf("Delete(%q): %w", path, err)}
	}
	return Body{str: result, err: nil}
}

// String returns the JSON string representation and any error encountered
// during building
//
// Example:
//
//	body := netbox.Body{}.Set("name", "edge-1")
//	value, err := body.String()
//	if err != nil {
//	    log.Fatal(err)
//	}
func (b Body) String() (string, error) {
	return b.str, b.err
}

// Err returns any error that occurred during the building process
//
// This method allows checking for errors without retrieving the string value.
func (b Body) Err() error {
	return b.err
}

// Bytes returns the JSON byte slice representation and any error encountered
// during building
func (b Body) Bytes() ([]byte, error) {
	if b.err != nil {
		return nil, b.err
	}
	return []byte(b.str), nil
}
