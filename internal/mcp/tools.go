// SPDX-License-Identifier: MPL-2.0
// Copyright (c) 2025 Daniel Schmidt

package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/tidwall/gjson"

	netbox "github.com/netascode/go-netbox"
)

// ToolSpec declares a tool's name, documentation and input schema.
//
// The behavior hints mirror the MCP tool annotations and describe the tool's
// side effects to the client; they carry no enforcement weight.
type ToolSpec struct {
	Name        string
	Description string
	InputSchema json.RawMessage
	ReadOnly    bool
	Destructive bool
	Idempotent  bool
}

// Handler executes a tool call. The returned string is the text content of
// the result; a non-nil error is reported to the client as a tool execution
// failure, not a protocol error.
type Handler func(ctx context.Context, args gjson.Result) (string, error)

// Tool couples a spec with its handler
type Tool struct {
	Spec    ToolSpec
	Handler Handler
}

const objectTypeProperty = `{
  "type": "string",
  "description": "Short object type name, e.g. devices, ip-addresses, vlans"
}`

const filtersProperty = `{
  "type": "object",
  "description": "Query filters passed through to the API, e.g. {\"site\": \"fra1\", \"status\": \"active\"}",
  "additionalProperties": {"type": "string"}
}`

// Tools builds the tool registry over an adapter.
//
// Every tool resolves the object type against the adapter's catalog before
// any network traffic, so an unknown type fails fast with the full list of
// valid names.
func Tools(adapter *netbox.Adapter) []Tool {
	return []Tool{
		{
			Spec: ToolSpec{
				Name:        "netbox_get_objects",
				Description: "Retrieve NetBox objects of a given type, optionally filtered. Returns a {count, results} envelope.",
				InputSchema: schema(`{
  "type": "object",
  "properties": {
    "object_type": ` + objectTypeProperty + `,
    "filters": ` + filtersProperty + `
  },
  "required": ["object_type"]
}`),
				ReadOnly:   true,
				Idempotent: true,
			},
			Handler: func(ctx context.Context, args gjson.Result) (string, error) {
				res, err := adapter.ListObjects(ctx, args.Get("object_type").String(), stringMap(args.Get("filters")))
				if err != nil {
					return "", err
				}
				return res.Raw(), nil
			},
		},
		{
			Spec: ToolSpec{
				Name:        "netbox_get_object_by_id",
				Description: "Retrieve a single NetBox object by its numeric ID.",
				InputSchema: schema(`{
  "type": "object",
  "properties": {
    "object_type": ` + objectTypeProperty + `,
    "object_id": {"type": "integer", "description": "Numeric object ID"}
  },
  "required": ["object_type", "object_id"]
}`),
				ReadOnly:   true,
				Idempotent: true,
			},
			Handler: func(ctx context.Context, args gjson.Result) (string, error) {
				res, err := adapter.GetObject(ctx, args.Get("object_type").String(), int(args.Get("object_id").Int()))
				if err != nil {
					return "", err
				}
				return res.Raw(), nil
			},
		},
		{
			Spec: ToolSpec{
				Name:        "netbox_get_changelogs",
				Description: "Retrieve NetBox object change records (changelogs), optionally filtered by user, action, changed_object_id, time_before or time_after.",
				InputSchema: schema(`{
  "type": "object",
  "properties": {
    "filters": ` + filtersProperty + `
  }
}`),
				ReadOnly:   true,
				Idempotent: true,
			},
			Handler: func(ctx context.Context, args gjson.Result) (string, error) {
				res, err := adapter.ListChangelogs(ctx, stringMap(args.Get("filters")))
				if err != nil {
					return "", err
				}
				return res.Raw(), nil
			},
		},
		{
			Spec: ToolSpec{
				Name:        "netbox_create_object",
				Description: "Create a new NetBox object. The data payload follows the API schema of the object type.",
				InputSchema: schema(`{
  "type": "object",
  "properties": {
    "object_type": ` + objectTypeProperty + `,
    "data": {"type": "object", "description": "Object payload"}
  },
  "required": ["object_type", "data"]
}`),
			},
			Handler: func(ctx context.Context, args gjson.Result) (string, error) {
				data, err := objectArg(args, "data")
				if err != nil {
					return "", err
				}
				res, err := adapter.CreateObject(ctx, args.Get("object_type").String(), data)
				if err != nil {
					return "", err
				}
				return res.Raw(), nil
			},
		},
		{
			Spec: ToolSpec{
				Name:        "netbox_update_object",
				Description: "Apply a partial update to an existing NetBox object. Only changed fields need to be present.",
				InputSchema: schema(`{
  "type": "object",
  "properties": {
    "object_type": ` + objectTypeProperty + `,
    "object_id": {"type": "integer", "description": "Numeric object ID"},
    "data": {"type": "object", "description": "Partial payload of changed fields"}
  },
  "required": ["object_type", "object_id", "data"]
}`),
				Idempotent: true,
			},
			Handler: func(ctx context.Context, args gjson.Result) (string, error) {
				data, err := objectArg(args, "data")
				if err != nil {
					return "", err
				}
				res, err := adapter.UpdateObject(ctx, args.Get("object_type").String(), int(args.Get("object_id").Int()), data)
				if err != nil {
					return "", err
				}
				return res.Raw(), nil
			},
		},
		{
			Spec: ToolSpec{
				Name:        "netbox_delete_object",
				Description: "Permanently delete a NetBox object by its numeric ID.",
				InputSchema: schema(`{
  "type": "object",
  "properties": {
    "object_type": ` + objectTypeProperty + `,
    "object_id": {"type": "integer", "description": "Numeric object ID"}
  },
  "required": ["object_type", "object_id"]
}`),
				Destructive: true,
				Idempotent:  true,
			},
			Handler: func(ctx context.Context, args gjson.Result) (string, error) {
				result, err := adapter.DeleteObject(ctx, args.Get("object_type").String(), int(args.Get("object_id").Int()))
				if err != nil {
					return "", err
				}
				return marshalResult(result)
			},
		},
		{
			Spec: ToolSpec{
				Name:        "netbox_bulk_create_objects",
				Description: "Create multiple NetBox objects of one type in a single request.",
				InputSchema: schema(`{
  "type": "object",
  "properties": {
    "object_type": ` + objectTypeProperty + `,
    "data": {"type": "array", "items": {"type": "object"}, "description": "Array of object payloads"}
  },
  "required": ["object_type", "data"]
}`),
			},
			Handler: func(ctx context.Context, args gjson.Result) (string, error) {
				data, err := arrayArg(args, "data")
				if err != nil {
					return "", err
				}
				res, err := adapter.BulkCreateObjects(ctx, args.Get("object_type").String(), data)
				if err != nil {
					return "", err
				}
				return res.Raw(), nil
			},
		},
		{
			Spec: ToolSpec{
				Name:        "netbox_bulk_update_objects",
				Description: "Update multiple NetBox objects of one type in a single request. Each payload must carry an id field.",
				InputSchema: schema(`{
  "type": "object",
  "properties": {
    "object_type": ` + objectTypeProperty + `,
    "data": {"type": "array", "items": {"type": "object"}, "description": "Array of partial payloads, each with an id field"}
  },
  "required": ["object_type", "data"]
}`),
				Idempotent: true,
			},
			Handler: func(ctx context.Context, args gjson.Result) (string, error) {
				data, err := arrayArg(args, "data")
				if err != nil {
					return "", err
				}
				res, err := adapter.BulkUpdateObjects(ctx, args.Get("object_type").String(), data)
				if err != nil {
					return "", err
				}
				return res.Raw(), nil
			},
		},
		{
			Spec: ToolSpec{
				Name:        "netbox_bulk_delete_objects",
				Description: "Permanently delete multiple NetBox objects of one type in a single request.",
				InputSchema: schema(`{
  "type": "object",
  "properties": {
    "object_type": ` + objectTypeProperty + `,
    "object_ids": {"type": "array", "items": {"type": "integer"}, "description": "Numeric object IDs to delete"}
  },
  "required": ["object_type", "object_ids"]
}`),
				Destructive: true,
				Idempotent:  true,
			},
			Handler: func(ctx context.Context, args gjson.Result) (string, error) {
				result, err := adapter.BulkDeleteObjects(ctx, args.Get("object_type").String(), intSlice(args.Get("object_ids")))
				if err != nil {
					return "", err
				}
				return marshalResult(result)
			},
		},
		{
			Spec: ToolSpec{
				Name:        "netbox_set_interface_mac_address",
				Description: "Set the MAC address of a device or VM interface, using whichever mechanism the connected NetBox version supports (legacy mac_address field or MAC address objects).",
				InputSchema: schema(`{
  "type": "object",
  "properties": {
    "interface_id": {"type": "integer", "description": "Numeric interface ID"},
    "mac_address": {"type": "string", "description": "MAC address, e.g. 00:1b:44:11:3a:b7"},
    "assigned_object_type": {
      "type": "string",
      "enum": ["dcim.interface", "virtualization.vminterface"],
      "description": "Interface content type (default dcim.interface)"
    }
  },
  "required": ["interface_id", "mac_address"]
}`),
				Idempotent: true,
			},
			Handler: func(ctx context.Context, args gjson.Result) (string, error) {
				var mods []func(*netbox.MACReq)
				if t := args.Get("assigned_object_type").String(); t != "" {
					mods = append(mods, netbox.MACObjectType(t))
				}
				result, err := adapter.AssignMAC(ctx, int(args.Get("interface_id").Int()), args.Get("mac_address").String(), mods...)
				if err != nil {
					return "", err
				}
				return marshalResult(result)
			},
		},
	}
}

func schema(s string) json.RawMessage {
	return json.RawMessage(s)
}

// stringMap flattens a JSON object argument into string filters
func stringMap(args gjson.Result) map[string]string {
	if !args.IsObject() {
		return nil
	}
	m := make(map[string]string)
	args.ForEach(func(key, value gjson.Result) bool {
		m[key.String()] = value.String()
		return true
	})
	return m
}

// intSlice flattens a JSON array argument into integers
func intSlice(args gjson.Result) []int {
	if !args.IsArray() {
		return nil
	}
	var ids []int
	args.ForEach(func(_, value gjson.Result) bool {
		ids = append(ids, int(value.Int()))
		return true
	})
	return ids
}

// objectArg extracts a required JSON object argument as raw JSON
func objectArg(args gjson.Result, key string) (string, error) {
	v := args.Get(key)
	if !v.IsObject() {
		return "", fmt.Errorf("argument %q must be a JSON object", key)
	}
	return v.Raw, nil
}

// arrayArg extracts a required JSON array argument as raw JSON
func arrayArg(args gjson.Result, key string) (string, error) {
	v := args.Get(key)
	if !v.IsArray() {
		return "", fmt.Errorf("argument %q must be a JSON array", key)
	}
	return v.Raw, nil
}

func marshalResult(v any) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
