// SPDX-License-Identifier: MPL-2.0
// Copyright (c) 2025 Daniel Schmidt

package netbox

import (
	"strings"
	"testing"
)

// TestBodySet tests building JSON payloads with Set
func TestBodySet(t *testing.T) {
	tests := []struct {
		name  string
		build func() Body
		want  string
	}{
		{
			name: "single string field",
			build: func() Body {
				return Body{}.Set("name", "edge-1")
			},
			want: `{"name":"edge-1"}`,
		},
		{
			name: "chained fields",
			build: func() Body {
				return Body{}.
					Set("name", "dc-west").
					Set("slug", "dc-west").
					Set("status", "active")
			},
			want: `{"name":"dc-west","slug":"dc-west","status":"active"}`,
		},
		{
			name: "numeric and boolean values",
			build: func() Body {
				return Body{}.
					Set("vid", 100).
					Set("enabled", true)
			},
			want: `{"vid":100,"enabled":true}`,
		},
		{
			name: "nested path",
			build: func() Body {
				return Body{}.Set("custom_fields.rack_id", 12)
			},
			want: `{"custom_fields":{"rack_id":12}}`,
		},
		{
			name: "array index path",
			build: func() Body {
				return Body{}.
					Set("0.id", 3).
					Set("1.id", 5)
			},
			want: `[{"id":3},{"id":5}]`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.build().String()
			if err != nil {
				t.Fatalf("String() failed: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %s, want %s", got, tt.want)
			}
		})
	}
}

// TestBodySetRaw tests inserting raw JSON fragments
func TestBodySetRaw(t *testing.T) {
	got, err := Body{}.SetRaw("primary_mac_address", `{"id":17}`).String()
	if err != nil {
		t.Fatalf("String() failed: %v", err)
	}
	if got != `{"primary_mac_address":{"id":17}}` {
		t.Errorf("got %s", got)
	}
}

// TestBodyDelete tests removing fields
func TestBodyDelete(t *testing.T) {
	got, err := Body{}.
		Set("name", "edge-1").
		Set("comments", "temp").
		Delete("comments").
		String()
	if err != nil {
		t.Fatalf("String() failed: %v", err)
	}
	if got != `{"name":"edge-1"}` {
		t.Errorf("got %s, want {\"name\":\"edge-1\"}", got)
	}
}

// TestBodyErrorPropagation verifies an error short-circuits later operations
func TestBodyErrorPropagation(t *testing.T) {
	// An empty path is invalid for sjson and puts the builder into its
	// error state
	body := Body{}.Set("", "value")
	if body.Err() == nil {
		t.Fatal("Set with empty path should fail")
	}

	// Later operations preserve the original error
	body = body.Set("name", "edge-1").Delete("name")
	if body.Err() == nil {
		t.Fatal("error should survive subsequent operations")
	}
	if !strings.Contains(body.Err().Error(), `Set("")`) {
		t.Errorf("error = %q, should identify the failing operation", body.Err().Error())
	}

	if _, err := body.String(); err == nil {
		t.Error("String should return the stored error")
	}
	if _, err := body.Bytes(); err == nil {
		t.Error("Bytes should return the stored error")
	}
}

// TestBodyBytes verifies the byte-slice accessor
func TestBodyBytes(t *testing.T) {
	data, err := Body{}.Set("name", "edge-1").Bytes()
	if err != nil {
		t.Fatalf("Bytes() failed: %v", err)
	}
	if string(data) != `{"name":"edge-1"}` {
		t.Errorf("got %s", data)
	}
}

// TestBodyValueSemantics verifies builders do not share state
func TestBodyValueSemantics(t *testing.T) {
	base := Body{}.Set("name", "edge-1")
	a := base.Set("status", "active")
	b := base.Set("status", "planned")

	gotA, _ := a.String()
	gotB, _ := b.String()
	if gotA == gotB {
		t.Error("derived bodies should diverge independently")
	}

	gotBase, _ := base.String()
	if gotBase != `{"name":"edge-1"}` {
		t.Errorf("base mutated to %s", gotBase)
	}
}
