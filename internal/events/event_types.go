package events

import (
	"time"

	"github.com/spec-kit/land-registry/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventIdentityRegistered EventType = "identity_registered"
	EventRoleAssigned       EventType = "role_assigned"
	EventLandRegistered     EventType = "land_registered"
	EventPropertyVerified   EventType = "property_verified"
	EventPropertyListed     EventType = "property_listed"
	EventTransferRequested  EventType = "transfer_requested"
	EventTransferApproved   EventType = "transfer_approved"
	EventTransferRejected   EventType = "transfer_rejected"
)

// AllTypes lists every event the registry emits, in no particular order.
// Consumers that mirror the full ledger subscribe to each of these.
var AllTypes = []EventType{
	EventIdentityRegistered,
	EventRoleAssigned,
	EventLandRegistered,
	EventPropertyVerified,
	EventPropertyListed,
	EventTransferRequested,
	EventTransferApproved,
	EventTransferRejected,
}

// Event represents one committed registry operation. PropertyID is zero for
// identity-scoped events; Identity is empty for property-scoped ones.
// Delivery to external consumers is at-least-once and ordered per entity.
type Event struct {
	ID         string      `json:"id"`
	Type       EventType   `json:"type"`
	PropertyID uint64      `json:"property_id,omitempty"`
	Identity   string      `json:"identity,omitempty"`
	Actor      string      `json:"actor"`
	Timestamp  time.Time   `json:"timestamp"`
	Payload    interface{} `json:"payload"`
}

// IdentityRegisteredPayload payload.
type IdentityRegisteredPayload struct {
	Role domain.Role `json:"role"`
}

// RoleAssignedPayload payload.
type RoleAssignedPayload struct {
	OldRole domain.Role `json:"old_role"`
	NewRole domain.Role `json:"new_role"`
}

// LandRegisteredPayload payload.
type LandRegisteredPayload struct {
	SurveyID     string               `json:"survey_id"`
	DocumentHash string               `json:"document_hash"`
	Location     string               `json:"location"`
	Area         string               `json:"area"`
	Price        uint64               `json:"price"`
	Owner        string               `json:"owner"`
	State        domain.PropertyState `json:"state"`
}

// PropertyVerifiedPayload payload.
type PropertyVerifiedPayload struct {
	State domain.PropertyState `json:"state"`
}

// PropertyListedPayload payload.
type PropertyListedPayload struct {
	State domain.PropertyState `json:"state"`
	Price uint64               `json:"price"`
}

// TransferRequestedPayload payload.
type TransferRequestedPayload struct {
	Requester string `json:"requester"`
}

// TransferApprovedPayload payload.
type TransferApprovedPayload struct {
	OldOwner string               `json:"old_owner"`
	NewOwner string               `json:"new_owner"`
	State    domain.PropertyState `json:"state"`
}

// TransferRejectedPayload payload.
type TransferRejectedPayload struct {
	Requester string               `json:"requester"`
	State     domain.PropertyState `json:"state"`
}
