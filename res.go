// SPDX-License-Identifier: MPL-2.0
// Copyright (c) 2025 Daniel Schmidt

package netbox

import (
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// Res represents a NetBox API response
//
// The response body is kept as a raw JSON string and queried lazily with
// gjson; the library never unmarshals payloads into typed structs because
// the upstream schema is authoritative and evolves independently.
type Res struct {
	// StatusCode is the HTTP status code of the response
	StatusCode int

	// body is the raw response body
	body string
}

// GetValue retrieves a value from the response body using a gjson path.
//
// Example paths for a list response:
//   - "count" - Total number of matching objects
//   - "results.0.id" - ID of the first result
//   - "results.#.name" - Names of all results
//
// Returns gjson.Result which can be converted to specific types:
//   - result.String() for string values
//   - result.Int() for integer values
//   - result.Bool() for boolean values
//   - result.Array() for array values
//
// Example:
//
//	res, err := adapter.ListObjects(ctx, "devices", map[string]string{"site": "fra1"})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	count := res.GetValue("count").Int()
//	first := res.GetValue("results.0.name").String()
func (r Res) GetValue(path string) gjson.Result {
	if r.body == "" {
		return gjson.Result{}
	}
	return gjson.Get(r.body, path)
}

// Raw returns the raw response body as a JSON string.
// This is useful for debugging, logging, or custom parsing.
func (r Res) Raw() string {
	return r.body
}

// IsArray reports whether the response body is a bare JSON array.
//
// NetBox list endpoints normally return a paginated envelope, but bulk
// operations return bare arrays; see wrapListBody.
func (r Res) IsArray() bool {
	return gjson.Parse(r.body).IsArray()
}

// wrapListBody wraps a bare JSON array into a {"count": N, "results": [...]}
// envelope. Non-array bodies pass through unchanged.
//
// Some MCP clients fail when a tool returns a bare list (e.g. [] or many
// objects), so list-shaped results are always presented as a JSON object
// when wrapping is enabled.
func wrapListBody(body string) string {
	parsed := gjson.Parse(body)
	if !parsed.IsArray() {
		return body
	}

	count := len(parsed.Array())
	out, err := sjson.Set(`{}`, "count", count)
	if err != nil {
		return body
	}
	out, err = sjson.SetRaw(out, "results", body)
	if err != nil {
		return body
	}
	return out
}
