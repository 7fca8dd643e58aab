// SPDX-License-Identifier: MPL-2.0
// Copyright (c) 2025 Daniel Schmidt

// Package netbox provides a simple, fluent client for the NetBox REST API,
// plus the building blocks for exposing NetBox as a set of callable tools:
// an object-type catalog, runtime capability detection, and a MAC address
// assignment workflow that adapts to the connected NetBox version.
//
// # Quick Start
//
// Create a client and perform basic operations:
//
//	client, err := netbox.NewClient(
//	    "https://netbox.example.com",
//	    "0123456789abcdef0123456789abcdef01234567",
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	ctx := context.Background()
//	res, err := client.Get(ctx, "dcim/devices/", netbox.Query("site", "fra1"))
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// Parse the response using gjson paths
//	name := res.GetValue("results.0.name").String()
//	fmt.Println("Device:", name)
//
// # Object-Type Catalog
//
// The Adapter validates short object-type names ("devices", "ip-addresses",
// ...) against a catalog and forwards to the matching resource path. The
// version-4-only entries are merged at startup depending on the detected
// NetBox major version:
//
//	major, ok := client.DetectMajorVersion(ctx)
//	catalog := netbox.NewCatalog(netbox.ShouldEnableV4("auto", major, ok))
//	caps := client.DetectCapabilities(ctx)
//	adapter := netbox.NewAdapter(client, catalog, caps)
//
//	res, err = adapter.ListObjects(ctx, "devices", map[string]string{"site": "fra1"})
//
// # JSON Manipulation
//
// Use the Body builder for constructing JSON payloads:
//
//	body := netbox.Body{}.
//	    Set("name", "edge-router-1").
//	    Set("device_type", 12).
//	    Set("site", 3).
//	    Set("status", "active")
//
//	value, err := body.String()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	res, err = adapter.CreateObject(ctx, "devices", value)
//
// # Error Handling
//
// Validation errors (unknown object types) are raised before any network
// call. Upstream HTTP failures are returned as *APIError and are never
// retried by the library; the caller owns retry policy. Capability and
// version detection degrade to conservative defaults instead of failing.
//
// # Thread Safety
//
// The Client and Adapter hold no mutable state after construction. All
// operations may be invoked concurrently without additional coordination.
//
// # References
//
//   - NetBox REST API: https://netboxlabs.com/docs/netbox/integrations/rest-api/
//   - gjson: https://github.com/tidwall/gjson
//   - sjson: https://github.com/tidwall/sjson
package netbox
