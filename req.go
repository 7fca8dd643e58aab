// SPDX-License-Identifier: MPL-2.0
// Copyright (c) 2025 Daniel Schmidt

package netbox

import (
	"net/url"
	"time"
)

// Req represents a request modifier
//
// This struct is used to apply request-specific options via functional
// modifiers. Operation parameters (paths, payloads) are passed directly to
// methods.
//
// Example:
//
//	// List devices at a site with a custom timeout
//	res, err := client.Get(ctx, "dcim/devices/",
//	    netbox.Query("site", "fra1"),
//	    netbox.Timeout(30*time.Second))
type Req struct {
	// Query holds URL query parameters (NetBox API filters)
	Query url.Values

	// Timeout is the request-specific timeout
	// Overrides the client default timeout if set
	Timeout time.Duration
}
