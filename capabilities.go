// SPDX-License-Identifier: MPL-2.0
// Copyright (c) 2025 Daniel Schmidt

package netbox

import (
	"context"
	"io"
	"net/http"
	"strconv"

	"github.com/tidwall/gjson"
)

// Introspection endpoints probed during capability detection
const (
	macAddressesEndpoint = "dcim/mac-addresses/"
	interfacesEndpoint   = "dcim/interfaces/"
)

// statusPath is the public status endpoint used for version detection.
// It is served unauthenticated by NetBox.
const statusPath = "status/"

// CapabilitySet holds the write capabilities detected on the connected
// NetBox instance.
//
// Capabilities are facts about what the connected API version supports,
// determined by runtime introspection rather than static version
// comparison. The set is created once at startup and never mutated; it is
// read by the MAC assignment workflow only.
type CapabilitySet struct {
	// HasMACEndpoint is true when the dcim/mac-addresses endpoint exists
	// (NetBox 4.2+)
	HasMACEndpoint bool

	// LegacyMACWritable is true when the interface mac_address field accepts
	// writes (NetBox 3.x and early 4.x)
	LegacyMACWritable bool

	// PrimaryMACWritable is true when the interface primary_mac_address
	// field accepts writes (NetBox 4.2+)
	PrimaryMACWritable bool
}

// ProbeSchema issues a schema introspection request against an endpoint
//
// Returns ok=false (not an error) on HTTP 404 or any transport failure:
// absence of capability information must never crash startup. Failures are
// logged at Warn so that a transient failure masked as a missing capability
// is at least visible.
func (c *Client) ProbeSchema(ctx context.Context, endpoint string) (Res, bool) {
	res, err := c.Introspect(ctx, endpoint)
	if err != nil {
		c.logger.Warn(ctx, "schema probe unavailable",
			"endpoint", endpoint,
			"error", err.Error())
		return Res{}, false
	}
	if !gjson.Valid(res.Raw()) {
		c.logger.Warn(ctx, "schema probe returned non-JSON response",
			"endpoint", endpoint)
		return Res{}, false
	}
	return res, true
}

// DetectCapabilities probes the NetBox schema introspection endpoints and
// derives the capability set
//
// The interface field capabilities come from the OPTIONS schema of the
// dcim/interfaces endpoint: the PATCH action schema is preferred, falling
// back to POST. A field counts as writable only when its metadata carries
// read_only == false; any missing field, missing schema, or probe failure
// leaves the corresponding capability false. Never assume write capability
// is present.
//
// Example:
//
//	caps := client.DetectCapabilities(ctx)
//	if caps.HasMACEndpoint {
//	    // NetBox 4.2+ MAC address objects available
//	}
func (c *Client) DetectCapabilities(ctx context.Context) CapabilitySet {
	var caps CapabilitySet

	_, caps.HasMACEndpoint = c.ProbeSchema(ctx, macAddressesEndpoint)

	ifaceRes, ok := c.ProbeSchema(ctx, interfacesEndpoint)
	if ok {
		schema := writeSchema(ifaceRes)
		caps.LegacyMACWritable = fieldWritable(schema, "mac_address")
		caps.PrimaryMACWritable = fieldWritable(schema, "primary_mac_address")
	}

	c.logger.Info(ctx, "NetBox capabilities detected",
		"mac_endpoint", caps.HasMACEndpoint,
		"legacy_mac_writable", caps.LegacyMACWritable,
		"primary_mac_writable", caps.PrimaryMACWritable)

	return caps
}

// writeSchema extracts the write-action field schema from an OPTIONS
// introspection response, preferring PATCH over POST
func writeSchema(res Res) gjson.Result {
	if patch := res.GetValue("actions.PATCH"); patch.Exists() {
		return patch
	}
	return res.GetValue("actions.POST")
}

// fieldWritable reports whether a field in an action schema is writable
//
// Writability is derived solely from read_only == false; a missing field or
// missing flag counts as not writable (conservative default).
func fieldWritable(schema gjson.Result, field string) bool {
	if !schema.Exists() {
		return false
	}
	readOnly := schema.Get(field + ".read_only")
	if !readOnly.Exists() {
		return false
	}
	return !readOnly.Bool()
}

// DetectMajorVersion fetches the public status endpoint and extracts the
// NetBox major version
//
// The request is unauthenticated and uses the short StatusTimeout so an
// unreachable status endpoint cannot block startup. Both the hyphenated
// ("netbox-version") and underscored ("netbox_version") key spellings are
// accepted. Returns ok=false on any transport failure, non-JSON response,
// or version string without a leading digit; errors never propagate past
// this boundary.
//
// Example:
//
//	major, ok := client.DetectMajorVersion(ctx)
//	enableV4 := netbox.ShouldEnableV4("auto", major, ok)
func (c *Client) DetectMajorVersion(ctx context.Context) (int, bool) {
	ctx, cancel := context.WithTimeout(ctx, c.StatusTimeout)
	defer cancel()

	// Deliberately bypasses do(): the status endpoint is public and the
	// Authorization header must not be sent.
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.apiURL+statusPath, nil)
	if err != nil {
		return 0, false
	}
	req.Header.Set("Accept", "application/json")

	res, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn(ctx, "version detection failed",
			"error", err.Error())
		return 0, false
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		c.logger.Warn(ctx, "version detection failed",
			"status", res.StatusCode)
		return 0, false
	}

	data, err := io.ReadAll(io.LimitReader(res.Body, c.MaxResponseSize))
	if err != nil {
		return 0, false
	}

	body := string(data)
	if !gjson.Valid(body) {
		c.logger.Warn(ctx, "version detection returned non-JSON response")
		return 0, false
	}

	version := gjson.Get(body, "netbox-version").String()
	if version == "" {
		version = gjson.Get(body, "netbox_version").String()
	}

	major, ok := leadingInt(version)
	if !ok {
		c.logger.Warn(ctx, "version string has no leading digits",
			"version", version)
		return 0, false
	}

	c.logger.Info(ctx, "NetBox version detected",
		"version", version,
		"major", major)

	return major, true
}

// leadingInt extracts the leading run of decimal digits from a string
func leadingInt(s string) (int, bool) {
	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == 0 {
		return 0, false
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0, false
	}
	return n, true
}
