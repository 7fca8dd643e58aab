// SPDX-License-Identifier: MPL-2.0
// Copyright (c) 2025 Daniel Schmidt

package netbox

import (
	"context"
	"fmt"
	"sort"
)

// Adapter bundles a Client with the immutable startup configuration every
// operation needs: the live catalog, the detected capability set, and the
// list-wrapping toggle.
//
// The Adapter replaces process-wide mutable state with an explicitly
// constructed object passed to every handler: all fields are set during
// construction and read-only afterward, so any number of tool invocations
// may run concurrently without coordination.
type Adapter struct {
	client    *Client
	catalog   *Catalog
	caps      CapabilitySet
	wrapLists bool
}

// NewAdapter creates an Adapter from a client, a catalog, and a detected
// capability set
//
// List wrapping is enabled by default; use WrapLists(false) to pass raw
// sequences through unchanged.
func NewAdapter(client *Client, catalog *Catalog, caps CapabilitySet, mods ...func(*Adapter)) *Adapter {
	a := &Adapter{
		client:    client,
		catalog:   catalog,
		caps:      caps,
		wrapLists: true,
	}
	for _, mod := range mods {
		mod(a)
	}
	return a
}

// WrapLists enables or disables wrapping of list-shaped results into a
// {"count": N, "results": [...]} envelope (default: enabled)
func WrapLists(enabled bool) func(*Adapter) {
	return func(a *Adapter) {
		a.wrapLists = enabled
	}
}

// Bootstrap performs the one-time startup sequence and returns a ready
// Adapter: detect the major version, evaluate the v4 gate, build the
// catalog, detect capabilities, and drop the mac-addresses entry if its
// endpoint turned out to be absent.
//
// Detection failures never abort startup; they degrade to "capability
// absent" and "version unknown".
//
// Example:
//
//	adapter := netbox.Bootstrap(ctx, client, "auto", true)
func Bootstrap(ctx context.Context, client *Client, v4Mode string, wrapLists bool) *Adapter {
	major, ok := client.DetectMajorVersion(ctx)
	catalog := NewCatalog(ShouldEnableV4(v4Mode, major, ok))

	caps := client.DetectCapabilities(ctx)
	if !caps.HasMACEndpoint && catalog.Has("mac-addresses") {
		client.logger.Info(ctx, "mac-addresses endpoint absent, removing from catalog")
		catalog = catalog.Without("mac-addresses")
	}

	return NewAdapter(client, catalog, caps, WrapLists(wrapLists))
}

// Catalog returns the adapter's live catalog
func (a *Adapter) Catalog() *Catalog {
	return a.catalog
}

// Capabilities returns the adapter's detected capability set
func (a *Adapter) Capabilities() CapabilitySet {
	return a.caps
}

// DeleteResult is the structured outcome of a delete operation.
//
// Delete operations return this indicator rather than propagating a raw
// boolean, so tool clients get a uniform success/message shape.
type DeleteResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// ListObjects retrieves objects of the given type, filtered by the supplied
// query parameters
//
// The filter keys follow the NetBox API filtering options for the object
// type and are passed through unvalidated. List-shaped results are wrapped
// into a {"count": N, "results": [...]} envelope unless wrapping is
// disabled.
//
// Example:
//
//	res, err := adapter.ListObjects(ctx, "devices", map[string]string{
//	    "site":   "fra1",
//	    "status": "active",
//	})
func (a *Adapter) ListObjects(ctx context.Context, objectType string, filters map[string]string) (Res, error) {
	path, err := a.catalog.Resolve(objectType)
	if err != nil {
		return Res{}, err
	}

	res, err := a.client.Get(ctx, path+"/", filterMods(filters)...)
	if err != nil {
		return res, err
	}
	return a.wrapList(res), nil
}

// GetObject retrieves a single object by its numeric ID
func (a *Adapter) GetObject(ctx context.Context, objectType string, id int) (Res, error) {
	path, err := a.catalog.Resolve(objectType)
	if err != nil {
		return Res{}, err
	}
	return a.client.Get(ctx, fmt.Sprintf("%s/%d/", path, id))
}

// CreateObject creates a new object of the given type
//
// data is the JSON object payload, typically built with Body. The payload
// shape is not validated locally; the upstream API is the source of truth
// for valid fields.
func (a *Adapter) CreateObject(ctx context.Context, objectType string, data string) (Res, error) {
	path, err := a.catalog.Resolve(objectType)
	if err != nil {
		return Res{}, err
	}
	return a.client.Post(ctx, path+"/", data)
}

// UpdateObject applies a partial update to an existing object
//
// Only changed fields need to be present in data.
func (a *Adapter) UpdateObject(ctx context.Context, objectType string, id int, data string) (Res, error) {
	path, err := a.catalog.Resolve(objectType)
	if err != nil {
		return Res{}, err
	}
	return a.client.Patch(ctx, fmt.Sprintf("%s/%d/", path, id), data)
}

// DeleteObject deletes an object by its numeric ID
//
// The deletion is permanent. Returns a structured success/failure result;
// on failure the error is returned alongside the result.
func (a *Adapter) DeleteObject(ctx context.Context, objectType string, id int) (DeleteResult, error) {
	path, err := a.catalog.Resolve(objectType)
	if err != nil {
		return DeleteResult{Success: false, Message: err.Error()}, err
	}

	_, err = a.client.Delete(ctx, fmt.Sprintf("%s/%d/", path, id), "")
	if err != nil {
		return DeleteResult{
			Success: false,
			Message: fmt.Sprintf("Failed to delete %s with ID %d: %v", objectType, id, err),
		}, err
	}

	return DeleteResult{
		Success: true,
		Message: fmt.Sprintf("Successfully deleted %s with ID %d", objectType, id),
	}, nil
}

// BulkCreateObjects creates multiple objects of the given type in a single
// request
//
// data is a JSON array of object payloads.
func (a *Adapter) BulkCreateObjects(ctx context.Context, objectType string, data string) (Res, error) {
	path, err := a.catalog.Resolve(objectType)
	if err != nil {
		return Res{}, err
	}

	res, err := a.client.Post(ctx, path+"/", data)
	if err != nil {
		return res, err
	}
	return a.wrapList(res), nil
}

// BulkUpdateObjects updates multiple objects of the given type in a single
// request
//
// data is a JSON array of partial payloads, each carrying an "id" field.
func (a *Adapter) BulkUpdateObjects(ctx context.Context, objectType string, data string) (Res, error) {
	path, err := a.catalog.Resolve(objectType)
	if err != nil {
		return Res{}, err
	}

	res, err := a.client.Patch(ctx, path+"/", data)
	if err != nil {
		return res, err
	}
	return a.wrapList(res), nil
}

// BulkDeleteObjects deletes multiple objects of the given type in a single
// request
//
// NetBox models bulk deletion as DELETE on the list endpoint with a
// sequence of {"id": n} items. The deletion is permanent.
func (a *Adapter) BulkDeleteObjects(ctx context.Context, objectType string, ids []int) (DeleteResult, error) {
	path, err := a.catalog.Resolve(objectType)
	if err != nil {
		return DeleteResult{Success: false, Message: err.Error()}, err
	}

	body := Body{}
	for i, id := range ids {
		body = body.Set(fmt.Sprintf("%d.id", i), id)
	}
	payload, err := body.String()
	if err != nil {
		return DeleteResult{Success: false, Message: err.Error()}, err
	}

	_, err = a.client.Delete(ctx, path+"/", payload)
	if err != nil {
		return DeleteResult{
			Success: false,
			Message: fmt.Sprintf("Failed to delete %s objects: %v", objectType, err),
		}, err
	}

	return DeleteResult{
		Success: true,
		Message: fmt.Sprintf("Successfully deleted %d %s objects", len(ids), objectType),
	}, nil
}

// ListChangelogs retrieves object change records (changelogs) filtered by
// the supplied query parameters
//
// Changelogs are audit records of create/update/delete actions performed on
// other records. They live at a fixed endpoint and need no object-type
// validation. Useful filters include user, action, changed_object_id,
// time_before and time_after.
func (a *Adapter) ListChangelogs(ctx context.Context, filters map[string]string) (Res, error) {
	res, err := a.client.Get(ctx, ChangelogPath+"/", filterMods(filters)...)
	if err != nil {
		return res, err
	}
	return a.wrapList(res), nil
}

// wrapList applies the list envelope to a response when wrapping is enabled
func (a *Adapter) wrapList(res Res) Res {
	if !a.wrapLists {
		return res
	}
	return Res{StatusCode: res.StatusCode, body: wrapListBody(res.body)}
}

// filterMods converts a filter map into query request modifiers, in sorted
// key order for deterministic URLs
func filterMods(filters map[string]string) []func(*Req) {
	keys := make([]string, 0, len(filters))
	for k := range filters {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	mods := make([]func(*Req), 0, len(keys))
	for _, k := range keys {
		mods = append(mods, Query(k, filters[k]))
	}
	return mods
}
