// SPDX-License-Identifier: MPL-2.0
// Copyright (c) 2025 Daniel Schmidt

package netbox

import "time"

// Client configuration options using the functional options pattern

// Insecure disables TLS certificate verification (default: verification on)
//
// WARNING: Disabling certificate verification makes the connection
// vulnerable to Man-in-the-Middle attacks. Only use this in testing
// environments where security is not a concern.
//
// Example:
//
//	client, _ := netbox.NewClient("https://netbox.example.com", token,
//	    netbox.Insecure(true))  // Insecure, use only for testing
func Insecure(insecure bool) func(*Client) {
	return func(c *Client) {
		c.Insecure = insecure
	}
}

// RequestTimeout sets the default timeout for API requests (default: 30s)
func RequestTimeout(duration time.Duration) func(*Client) {
	return func(c *Client) {
		c.RequestTimeout = duration
	}
}

// StatusTimeout sets the timeout for the public status endpoint used by
// version detection (default: 5s)
//
// The status call happens during startup; a short fixed timeout keeps an
// unreachable or firewalled status endpoint from blocking startup
// indefinitely.
func StatusTimeout(duration time.Duration) func(*Client) {
	return func(c *Client) {
		c.StatusTimeout = duration
	}
}

// MaxResponseSize sets the maximum accepted response body size in bytes
// (default: 10MB)
func MaxResponseSize(size int64) func(*Client) {
	return func(c *Client) {
		c.MaxResponseSize = size
	}
}

// WithLogger configures a custom logger for the client
//
// By default, the client uses NoOpLogger which discards all log messages.
// Use this option to enable logging with DefaultLogger or a custom logger.
//
// All JSON content logged at Debug level is automatically redacted to remove
// sensitive data (tokens, passwords, secrets, keys).
//
// Example:
//
//	logger := netbox.NewDefaultLogger(netbox.LogLevelInfo)
//	client, _ := netbox.NewClient("https://netbox.example.com", token,
//	    netbox.WithLogger(logger))
func WithLogger(logger Logger) func(*Client) {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithPrettyPrintLogs enables/disables JSON pretty printing in logs
//
// When enabled, JSON content in debug logs is formatted for better
// readability. When disabled (default), raw JSON is logged without
// formatting. This only affects Debug-level log output.
func WithPrettyPrintLogs(enabled bool) func(*Client) {
	return func(c *Client) {
		c.prettyPrintLogs = enabled
	}
}

// Request modifiers for individual operations

// Query returns a request modifier that adds a URL query parameter.
//
// NetBox uses query parameters for all list filtering; the valid keys per
// object type are defined by the upstream API, and the library passes them
// through unvalidated.
//
// Example:
//
//	res, err := client.Get(ctx, "ipam/ip-addresses/",
//	    netbox.Query("vrf", "customer-a"),
//	    netbox.Query("status", "active"))
func Query(key, value string) func(*Req) {
	return func(req *Req) {
		req.Query.Add(key, value)
	}
}

// Timeout returns a request modifier that sets a custom timeout for the
// operation.
//
// The timeout priority model is:
//  1. Request-specific timeout (this modifier) - highest priority
//  2. Context deadline (if already set) - medium priority
//  3. Client.RequestTimeout - fallback default
//
// Example:
//
//	// Bulk create with a 2 minute timeout
//	res, err := client.Post(ctx, "dcim/devices/", payload,
//	    netbox.Timeout(2*time.Minute))
func Timeout(duration time.Duration) func(*Req) {
	return func(req *Req) {
		req.Timeout = duration
	}
}
