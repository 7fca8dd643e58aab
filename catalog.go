// SPDX-License-Identifier: MPL-2.0
// Copyright (c) 2025 Daniel Schmidt

package netbox

import (
	"sort"
	"strings"
)

// baseObjectTypes maps short object-type names to REST resource paths that
// are valid on every supported NetBox major version.
var baseObjectTypes = map[string]string{
	// DCIM (Device and Infrastructure)
	"cables":               "dcim/cables",
	"console-ports":        "dcim/console-ports",
	"console-server-ports": "dcim/console-server-ports",
	"devices":              "dcim/devices",
	"device-bays":          "dcim/device-bays",
	"device-roles":         "dcim/device-roles",
	"device-types":         "dcim/device-types",
	"front-ports":          "dcim/front-ports",
	"interfaces":           "dcim/interfaces",
	"inventory-items":      "dcim/inventory-items",
	"locations":            "dcim/locations",
	"manufacturers":        "dcim/manufacturers",
	"modules":              "dcim/modules",
	"module-bays":          "dcim/module-bays",
	"module-types":         "dcim/module-types",
	"platforms":            "dcim/platforms",
	"power-feeds":          "dcim/power-feeds",
	"power-outlets":        "dcim/power-outlets",
	"power-panels":         "dcim/power-panels",
	"power-ports":          "dcim/power-ports",
	"racks":                "dcim/racks",
	"rack-reservations":    "dcim/rack-reservations",
	"rack-roles":           "dcim/rack-roles",
	"rack-types":           "dcim/rack-types",
	"regions":              "dcim/regions",
	"sites":                "dcim/sites",
	"site-groups":          "dcim/site-groups",
	"virtual-chassis":      "dcim/virtual-chassis",

	// IPAM (IP Address Management)
	"asns":          "ipam/asns",
	"asn-ranges":    "ipam/asn-ranges",
	"aggregates":    "ipam/aggregates",
	"fhrp-groups":   "ipam/fhrp-groups",
	"ip-addresses":  "ipam/ip-addresses",
	"ip-ranges":     "ipam/ip-ranges",
	"prefixes":      "ipam/prefixes",
	"rirs":          "ipam/rirs",
	"roles":         "ipam/roles",
	"route-targets": "ipam/route-targets",
	"services":      "ipam/services",
	"vlans":         "ipam/vlans",
	"vlan-groups":   "ipam/vlan-groups",
	"vrfs":          "ipam/vrfs",

	// Circuits
	"circuits":             "circuits/circuits",
	"circuit-types":        "circuits/circuit-types",
	"circuit-terminations": "circuits/circuit-terminations",
	"providers":            "circuits/providers",
	"provider-networks":    "circuits/provider-networks",

	// Virtualization
	"clusters":         "virtualization/clusters",
	"cluster-groups":   "virtualization/cluster-groups",
	"cluster-types":    "virtualization/cluster-types",
	"virtual-machines": "virtualization/virtual-machines",
	"vm-interfaces":    "virtualization/interfaces",

	// Tenancy
	"tenants":        "tenancy/tenants",
	"tenant-groups":  "tenancy/tenant-groups",
	"contacts":       "tenancy/contacts",
	"contact-groups": "tenancy/contact-groups",
	"contact-roles":  "tenancy/contact-roles",

	// VPN
	"ike-policies":    "vpn/ike-policies",
	"ike-proposals":   "vpn/ike-proposals",
	"ipsec-policies":  "vpn/ipsec-policies",
	"ipsec-profiles":  "vpn/ipsec-profiles",
	"ipsec-proposals": "vpn/ipsec-proposals",
	"l2vpns":          "vpn/l2vpns",
	"tunnels":         "vpn/tunnels",
	"tunnel-groups":   "vpn/tunnel-groups",

	// Wireless
	"wireless-lans":       "wireless/wireless-lans",
	"wireless-lan-groups": "wireless/wireless-lan-groups",
	"wireless-links":      "wireless/wireless-links",

	// Extras
	"config-contexts":   "extras/config-contexts",
	"custom-fields":     "extras/custom-fields",
	"export-templates":  "extras/export-templates",
	"image-attachments": "extras/image-attachments",
	"jobs":              "extras/jobs",
	"saved-filters":     "extras/saved-filters",
	"scripts":           "extras/scripts",
	"tags":              "extras/tags",
	"webhooks":          "extras/webhooks",
}

// v4ObjectTypes maps object-type names that only exist on NetBox 4.x.
// NetBox 4.x stores MACs as separate objects; interfaces reference them.
var v4ObjectTypes = map[string]string{
	"mac-addresses": "dcim/mac-addresses",
}

// ChangelogPath is the resource path for object change records. Changelogs
// are not part of the catalog; they are queried through a dedicated
// operation with a fixed path.
const ChangelogPath = "core/object-changes"

// Catalog maps short object-type names to REST resource paths.
//
// A Catalog is constructed once at startup and never mutated afterward, so
// it is safe for concurrent use by any number of tool invocations.
type Catalog struct {
	paths map[string]string
	names []string // sorted lexicographically
}

// NewCatalog constructs a catalog from the base object-type set, merging the
// version-4-only entries when enableV4 is true
//
// Advertising v4-only resource types against an older deployment would
// produce confusing 404s, so the merge is gated on ShouldEnableV4.
func NewCatalog(enableV4 bool) *Catalog {
	paths := make(map[string]string, len(baseObjectTypes)+len(v4ObjectTypes))
	for name, path := range baseObjectTypes {
		paths[name] = path
	}
	if enableV4 {
		for name, path := range v4ObjectTypes {
			paths[name] = path
		}
	}
	return newCatalog(paths)
}

func newCatalog(paths map[string]string) *Catalog {
	names := make([]string, 0, len(paths))
	for name := range paths {
		names = append(names, name)
	}
	sort.Strings(names)
	return &Catalog{paths: paths, names: names}
}

// Resolve returns the resource path for an object-type name
//
// Unknown names fail with *InvalidObjectTypeError whose message enumerates
// every valid name; no network call is involved.
//
// Example:
//
//	path, err := catalog.Resolve("devices")
//	// path == "dcim/devices"
func (c *Catalog) Resolve(name string) (string, error) {
	path, ok := c.paths[name]
	if !ok {
		return "", &InvalidObjectTypeError{ObjectType: name, ValidTypes: c.Names()}
	}
	return path, nil
}

// Has reports whether the catalog contains an object-type name
func (c *Catalog) Has(name string) bool {
	_, ok := c.paths[name]
	return ok
}

// Names returns all object-type names sorted lexicographically
//
// Returns a copy to prevent external modification.
func (c *Catalog) Names() []string {
	names := make([]string, len(c.names))
	copy(names, c.names)
	return names
}

// Len returns the number of object types in the catalog
func (c *Catalog) Len() int {
	return len(c.paths)
}

// Without returns a new catalog with the given object-type names removed
//
// Used at startup to drop the "mac-addresses" entry when the capability
// probe finds the endpoint absent despite the version gate enabling it.
func (c *Catalog) Without(names ...string) *Catalog {
	paths := make(map[string]string, len(c.paths))
	for name, path := range c.paths {
		paths[name] = path
	}
	for _, name := range names {
		delete(paths, name)
	}
	return newCatalog(paths)
}

// ShouldEnableV4 decides whether the version-4-only catalog entries are
// merged into the live catalog
//
// mode is the operator override:
//   - "true", "1", "yes", "on" force the merge, bypassing detection (e.g.
//     when the public status endpoint is blocked)
//   - "auto" enables the merge when detection succeeded (ok) and the
//     detected major version is at least 4
//   - anything else disables the merge
//
// Evaluated once at startup.
func ShouldEnableV4(mode string, detected int, ok bool) bool {
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case "true", "1", "yes", "on":
		return true
	case "auto":
		return ok && detected >= 4
	default:
		return false
	}
}
