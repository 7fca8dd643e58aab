// SPDX-License-Identifier: MPL-2.0
// Copyright (c) 2025 Daniel Schmidt

package netbox

import (
	"sort"
	"strings"
	"sync"
	"testing"
)

// TestCatalogResolve tests resolution of known object-type names
func TestCatalogResolve(t *testing.T) {
	catalog := NewCatalog(false)

	tests := []struct {
		name     string
		wantPath string
	}{
		{"devices", "dcim/devices"},
		{"interfaces", "dcim/interfaces"},
		{"vm-interfaces", "virtualization/interfaces"},
		{"ip-addresses", "ipam/ip-addresses"},
		{"circuits", "circuits/circuits"},
		{"tenants", "tenancy/tenants"},
		{"tunnels", "vpn/tunnels"},
		{"wireless-lans", "wireless/wireless-lans"},
		{"tags", "extras/tags"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path, err := catalog.Resolve(tt.name)
			if err != nil {
				t.Fatalf("Resolve(%q) failed: %v", tt.name, err)
			}
			if path != tt.wantPath {
				t.Errorf("Resolve(%q) = %q, want %q", tt.name, path, tt.wantPath)
			}
		})
	}
}

// TestCatalogAllPathsValid verifies every catalog entry maps to a sane
// resource path
func TestCatalogAllPathsValid(t *testing.T) {
	catalog := NewCatalog(true)

	for _, name := range catalog.Names() {
		path, err := catalog.Resolve(name)
		if err != nil {
			t.Fatalf("Resolve(%q) failed: %v", name, err)
		}
		if path == "" {
			t.Errorf("object type %q has empty path", name)
		}
		if strings.HasPrefix(path, "/") || strings.HasSuffix(path, "/") {
			t.Errorf("object type %q path %q must not carry leading or trailing slashes", name, path)
		}
		if !strings.Contains(path, "/") {
			t.Errorf("object type %q path %q is missing its app prefix", name, path)
		}
	}
}

// TestCatalogResolveUnknown tests the error for unrecognized names
func TestCatalogResolveUnknown(t *testing.T) {
	catalog := NewCatalog(false)

	_, err := catalog.Resolve("not-a-thing")
	if err == nil {
		t.Fatal("Resolve of unknown name should fail")
	}

	var typeErr *InvalidObjectTypeError
	ok := false
	if e, isType := err.(*InvalidObjectTypeError); isType {
		typeErr = e
		ok = true
	}
	if !ok {
		t.Fatalf("expected *InvalidObjectTypeError, got %T", err)
	}
	if typeErr.ObjectType != "not-a-thing" {
		t.Errorf("ObjectType = %q, want %q", typeErr.ObjectType, "not-a-thing")
	}
	if len(typeErr.ValidTypes) != catalog.Len() {
		t.Errorf("ValidTypes has %d entries, want %d", len(typeErr.ValidTypes), catalog.Len())
	}
	if !sort.StringsAreSorted(typeErr.ValidTypes) {
		t.Error("ValidTypes should be sorted lexicographically")
	}

	msg := err.Error()
	if !strings.Contains(msg, `invalid object_type "not-a-thing"`) {
		t.Errorf("error message missing offending name: %s", msg)
	}
	if !strings.Contains(msg, "\n- devices") {
		t.Errorf("error message should enumerate valid names, got: %s", msg)
	}
}

// TestCatalogV4Gate tests merging of version-4-only entries
func TestCatalogV4Gate(t *testing.T) {
	base := NewCatalog(false)
	v4 := NewCatalog(true)

	if base.Has("mac-addresses") {
		t.Error("base catalog should not contain mac-addresses")
	}
	if !v4.Has("mac-addresses") {
		t.Error("v4 catalog should contain mac-addresses")
	}
	if got := v4.Len() - base.Len(); got != 1 {
		t.Errorf("v4 catalog should add exactly 1 entry, added %d", got)
	}

	path, err := v4.Resolve("mac-addresses")
	if err != nil {
		t.Fatalf("Resolve(mac-addresses) failed: %v", err)
	}
	if path != "dcim/mac-addresses" {
		t.Errorf("Resolve(mac-addresses) = %q, want dcim/mac-addresses", path)
	}
}

// TestCatalogWithout tests removal of entries
func TestCatalogWithout(t *testing.T) {
	catalog := NewCatalog(true)
	trimmed := catalog.Without("mac-addresses")

	if trimmed.Has("mac-addresses") {
		t.Error("Without should remove mac-addresses")
	}
	if !catalog.Has("mac-addresses") {
		t.Error("Without must not mutate the original catalog")
	}
	if trimmed.Len() != catalog.Len()-1 {
		t.Errorf("trimmed catalog has %d entries, want %d", trimmed.Len(), catalog.Len()-1)
	}
	if !trimmed.Has("devices") {
		t.Error("Without should keep unrelated entries")
	}
}

// TestCatalogNamesIsCopy verifies Names returns an independent slice
func TestCatalogNamesIsCopy(t *testing.T) {
	catalog := NewCatalog(false)

	names := catalog.Names()
	if len(names) == 0 {
		t.Fatal("catalog should not be empty")
	}
	names[0] = "mutated"

	if catalog.Names()[0] == "mutated" {
		t.Error("Names should return a copy, not the internal slice")
	}
}

// TestShouldEnableV4 tests the version gate decision table
func TestShouldEnableV4(t *testing.T) {
	tests := []struct {
		name     string
		mode     string
		detected int
		ok       bool
		want     bool
	}{
		{"explicit true", "true", 0, false, true},
		{"explicit 1", "1", 0, false, true},
		{"explicit yes", "yes", 0, false, true},
		{"explicit on", "on", 0, false, true},
		{"mixed case", "TRUE", 0, false, true},
		{"surrounding whitespace", "  true  ", 0, false, true},
		{"auto with v4", "auto", 4, true, true},
		{"auto with v5", "auto", 5, true, true},
		{"auto with v3", "auto", 3, true, false},
		{"auto detection failed", "auto", 4, false, false},
		{"explicit false", "false", 4, true, false},
		{"explicit off", "off", 4, true, false},
		{"empty mode", "", 4, true, false},
		{"garbage mode", "maybe", 4, true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ShouldEnableV4(tt.mode, tt.detected, tt.ok); got != tt.want {
				t.Errorf("ShouldEnableV4(%q, %d, %v) = %v, want %v",
					tt.mode, tt.detected, tt.ok, got, tt.want)
			}
		})
	}
}

// TestCatalogConcurrentResolve verifies the catalog is safe for concurrent
// readers
func TestCatalogConcurrentResolve(t *testing.T) {
	catalog := NewCatalog(true)
	names := catalog.Names()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(offset int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				name := names[(offset+j)%len(names)]
				if _, err := catalog.Resolve(name); err != nil {
					t.Errorf("concurrent Resolve(%q) failed: %v", name, err)
					return
				}
				_ = catalog.Names()
				_ = catalog.Has(name)
			}
		}(i)
	}
	wg.Wait()
}
