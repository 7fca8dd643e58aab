// SPDX-License-Identifier: MPL-2.0
// Copyright (c) 2025 Daniel Schmidt

package netbox

import (
	"context"
	"fmt"
)

// Assigned object content types understood by the MAC workflow
const (
	// ObjectTypeInterface targets physical device interfaces
	ObjectTypeInterface = "dcim.interface"

	// ObjectTypeVMInterface targets virtual machine interfaces
	ObjectTypeVMInterface = "virtualization.vminterface"
)

// MAC assignment strategies reported in MACAssignment.Strategy
const (
	// StrategyLegacyField writes the interface mac_address field directly
	// (NetBox 3.x)
	StrategyLegacyField = "legacy-field"

	// StrategyMACObject creates or reassigns a MAC address object and sets
	// it as the interface's primary MAC (NetBox 4.2+)
	StrategyMACObject = "mac-object"
)

// MACReq holds per-call options for the MAC assignment workflow
type MACReq struct {
	// AssignedObjectType is the content type the MAC object is assigned to
	// (default: dcim.interface)
	AssignedObjectType string
}

// MACObjectType returns a workflow modifier that targets a different
// assigned object content type
//
// Example:
//
//	// Assign a MAC to a virtual machine interface
//	result, err := adapter.AssignMAC(ctx, 42, "00:1b:44:11:3a:b7",
//	    netbox.MACObjectType(netbox.ObjectTypeVMInterface))
func MACObjectType(objectType string) func(*MACReq) {
	return func(req *MACReq) {
		req.AssignedObjectType = objectType
	}
}

// MACAssignment describes the outcome of a MAC assignment
type MACAssignment struct {
	// InterfaceID is the target interface
	InterfaceID int `json:"interface_id"`

	// MACObjectID is the MAC address object used (0 for the legacy strategy)
	MACObjectID int `json:"mac_object_id,omitempty"`

	// Created is true when a new MAC address object was created
	Created bool `json:"created"`

	// Reassigned is true when an existing MAC address object was moved to
	// the target interface
	Reassigned bool `json:"reassigned"`

	// Strategy names the path taken (legacy-field or mac-object)
	Strategy string `json:"strategy"`
}

// AssignMAC sets the hardware address of an interface, picking the strategy
// supported by the connected NetBox instance.
//
// Decision procedure over the detected capability set:
//
//  1. Legacy mac_address field writable: a single interface update sets the
//     field directly.
//  2. No mac-addresses endpoint: fails with *UnsupportedOperationError, no
//     mutation issued.
//  3. primary_mac_address not writable: fails likewise, no mutation issued.
//  4. Otherwise look up MAC address objects matching the literal address.
//     Reuse the first match (reassigning it to the target interface if
//     needed) or create a new object pre-assigned to the interface, then
//     update the interface's primary_mac_address reference. If that final
//     update rejects the bare identifier, it is retried once with the
//     nested {"id": n} form to accommodate API variants.
//
// The workflow is NOT transactional: if the MAC object is created or
// reassigned but the final interface update fails even after the fallback,
// the object is left orphaned and the returned error says so. Callers must
// treat this as an error requiring manual cleanup, not an atomic unit.
func (a *Adapter) AssignMAC(ctx context.Context, interfaceID int, mac string, mods ...func(*MACReq)) (MACAssignment, error) {
	req := &MACReq{AssignedObjectType: ObjectTypeInterface}
	for _, mod := range mods {
		mod(req)
	}

	ifacePath, err := interfacePathFor(req.AssignedObjectType)
	if err != nil {
		return MACAssignment{}, err
	}

	result := MACAssignment{InterfaceID: interfaceID}

	// Strategy 1: legacy direct field write
	if a.caps.LegacyMACWritable {
		body, err := Body{}.Set("mac_address", mac).String()
		if err != nil {
			return result, err
		}
		if _, err := a.client.Patch(ctx, fmt.Sprintf("%s/%d/", ifacePath, interfaceID), body); err != nil {
			return result, err
		}
		result.Strategy = StrategyLegacyField
		a.client.logger.Info(ctx, "MAC assigned via legacy field",
			"interface_id", interfaceID)
		return result, nil
	}

	if !a.caps.HasMACEndpoint {
		return result, &UnsupportedOperationError{
			Operation: "assign-mac",
			Reason:    "connected NetBox has no writable mac_address field and no mac-addresses endpoint, cannot set MAC safely",
		}
	}
	if !a.caps.PrimaryMACWritable {
		return result, &UnsupportedOperationError{
			Operation: "assign-mac",
			Reason:    "primary_mac_address field is read-only on interfaces, cannot set MAC safely",
		}
	}

	// Strategy 2: MAC address object plus primary reference
	result.Strategy = StrategyMACObject

	macID, created, reassigned, err := a.ensureMACObject(ctx, interfaceID, mac, req.AssignedObjectType)
	if err != nil {
		return result, err
	}
	result.MACObjectID = macID
	result.Created = created
	result.Reassigned = reassigned

	if err := a.setPrimaryMAC(ctx, ifacePath, interfaceID, macID); err != nil {
		// The MAC object exists but nothing references it
		return result, fmt.Errorf("MAC object %d is assigned but not referenced (manual cleanup may be required): %w", macID, err)
	}

	a.client.logger.Info(ctx, "MAC assigned via MAC object",
		"interface_id", interfaceID,
		"mac_object_id", macID,
		"created", created,
		"reassigned", reassigned)

	return result, nil
}

// ensureMACObject finds or creates a MAC address object assigned to the
// target interface, returning its ID
func (a *Adapter) ensureMACObject(ctx context.Context, interfaceID int, mac string, objectType string) (id int, created, reassigned bool, err error) {
	res, err := a.client.Get(ctx, macAddressesEndpoint, Query("mac_address", mac))
	if err != nil {
		return 0, false, false, err
	}

	existing := res.GetValue("results.0")
	if existing.Exists() {
		id := int(existing.Get("id").Int())

		// Reassign only when the association does not already point at the
		// target interface
		if int(existing.Get("assigned_object_id").Int()) == interfaceID &&
			existing.Get("assigned_object_type").String() == objectType {
			return id, false, false, nil
		}

		body, err := Body{}.
			Set("assigned_object_type", objectType).
			Set("assigned_object_id", interfaceID).
			String()
		if err != nil {
			return 0, false, false, err
		}
		if _, err := a.client.Patch(ctx, fmt.Sprintf("%s%d/", macAddressesEndpoint, id), body); err != nil {
			return 0, false, false, err
		}
		return id, false, true, nil
	}

	// No existing object: create one pre-assigned to the interface
	body, err := Body{}.
		Set("mac_address", mac).
		Set("assigned_object_type", objectType).
		Set("assigned_object_id", interfaceID).
		String()
	if err != nil {
		return 0, false, false, err
	}

	createRes, err := a.client.Post(ctx, macAddressesEndpoint, body)
	if err != nil {
		return 0, false, false, err
	}

	return int(createRes.GetValue("id").Int()), true, false, nil
}

// setPrimaryMAC updates the interface's primary_mac_address reference
//
// The bare identifier form is tried first; on failure the update is retried
// once with the MAC object as a nested structure, accommodating API
// variants that expect either form.
func (a *Adapter) setPrimaryMAC(ctx context.Context, ifacePath string, interfaceID, macID int) error {
	path := fmt.Sprintf("%s/%d/", ifacePath, interfaceID)

	body, err := Body{}.Set("primary_mac_address", macID).String()
	if err != nil {
		return err
	}
	_, firstErr := a.client.Patch(ctx, path, body)
	if firstErr == nil {
		return nil
	}

	a.client.logger.Warn(ctx, "primary MAC update rejected bare ID, retrying with nested form",
		"interface_id", interfaceID,
		"mac_object_id", macID,
		"error", firstErr.Error())

	nested, err := Body{}.SetRaw("primary_mac_address", fmt.Sprintf(`{"id":%d}`, macID)).String()
	if err != nil {
		return err
	}
	if _, err := a.client.Patch(ctx, path, nested); err != nil {
		return err
	}
	return nil
}

// interfacePathFor maps an assigned object content type to its interface
// resource path
func interfacePathFor(objectType string) (string, error) {
	switch objectType {
	case ObjectTypeInterface:
		return "dcim/interfaces", nil
	case ObjectTypeVMInterface:
		return "virtualization/interfaces", nil
	default:
		return "", fmt.Errorf("unsupported assigned object type: %q (must be %s or %s)",
			objectType, ObjectTypeInterface, ObjectTypeVMInterface)
	}
}
