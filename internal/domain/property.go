package domain

import "time"

// PropertyState enumerates lifecycle states for registered parcels. States
// only ever advance along Pending → Verified → ForSale → Sold; Sold is
// terminal.
type PropertyState string

const (
	PropertyStatePending  PropertyState = "PENDING"
	PropertyStateVerified PropertyState = "VERIFIED"
	PropertyStateForSale  PropertyState = "FOR_SALE"
	PropertyStateSold     PropertyState = "SOLD"
)

// ValidPropertyState reports whether the value is a known lifecycle state.
func ValidPropertyState(s PropertyState) bool {
	switch s {
	case PropertyStatePending, PropertyStateVerified, PropertyStateForSale, PropertyStateSold:
		return true
	}
	return false
}

// TransferRequest is an in-flight ownership change awaiting resolution by
// the owner or an admin. At most one exists per property at any time, and
// only while the property is for sale.
type TransferRequest struct {
	Requester   string
	RequestedAt time.Time
}

// Property is the aggregate for one surveyed land parcel. Location, area and
// the deed document reference are immutable after registration. The owner may
// set a new price when listing, and ownership changes only through an
// approved transfer.
type Property struct {
	ID              uint64
	SurveyID        string
	DocumentHash    string
	Location        string
	Area            string
	Price           uint64
	Owner           string
	State           PropertyState
	PendingTransfer *TransferRequest
	RegisteredAt    time.Time
	UpdatedAt       time.Time
}

// ForSale reports whether the parcel is currently listed.
func (p *Property) ForSale() bool {
	return p.State == PropertyStateForSale
}
