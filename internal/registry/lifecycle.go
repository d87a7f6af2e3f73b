package registry

import (
	"context"
	"strings"
	"time"

	"github.com/spec-kit/land-registry/internal/domain"
	"github.com/spec-kit/land-registry/internal/events"
	util "github.com/spec-kit/land-registry/pkg/util"
)

// LandRegistration describes the attributes recorded when a parcel enters
// the ledger. Location, area, survey id and document hash are immutable
// afterwards.
type LandRegistration struct {
	SurveyID     string
	DocumentHash string
	Location     string
	Area         string
	Price        uint64
}

// verifierRoles may move a parcel from Pending to Verified. Membership is
// explicit; Admin does not imply Inspector anywhere else.
var verifierRoles = map[domain.Role]struct{}{
	domain.RoleInspector: {},
	domain.RoleAdmin:     {},
}

// RegisterLand records a new parcel owned by the caller in the Pending
// state and returns its id. Any registered identity may register land it
// claims to own; trust is conferred later by inspection.
func (l *Ledger) RegisterLand(ctx context.Context, caller string, input LandRegistration) (uint64, error) {
	if strings.TrimSpace(input.DocumentHash) == "" {
		return 0, util.NewValidationError("document hash required", nil)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.registered(caller) {
		return 0, errNotRegistered(caller)
	}

	now := time.Now()
	property := &domain.Property{
		ID:           uint64(len(l.properties)) + 1,
		SurveyID:     strings.TrimSpace(input.SurveyID),
		DocumentHash: input.DocumentHash,
		Location:     strings.TrimSpace(input.Location),
		Area:         strings.TrimSpace(input.Area),
		Price:        input.Price,
		Owner:        caller,
		State:        domain.PropertyStatePending,
		RegisteredAt: now,
		UpdatedAt:    now,
	}
	l.properties = append(l.properties, property)

	l.emit(ctx, events.Event{
		Type:       events.EventLandRegistered,
		PropertyID: property.ID,
		Actor:      caller,
		Payload: events.LandRegisteredPayload{
			SurveyID:     property.SurveyID,
			DocumentHash: property.DocumentHash,
			Location:     property.Location,
			Area:         property.Area,
			Price:        property.Price,
			Owner:        property.Owner,
			State:        property.State,
		},
	})
	return property.ID, nil
}

// ApproveProperty moves a Pending parcel to Verified. This is the sole
// trust-elevation step, restricted to Inspector and Admin.
func (l *Ledger) ApproveProperty(ctx context.Context, caller string, propertyID uint64) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	identity, ok := l.identities[caller]
	if !ok || !identity.Registered {
		return errNotRegistered(caller)
	}
	if _, allowed := verifierRoles[identity.Role]; !allowed {
		return errUnauthorized("property verification requires the Inspector or Admin role")
	}

	property := l.propertyByID(propertyID)
	if property == nil {
		return errPropertyNotFound(propertyID)
	}
	if property.State != domain.PropertyStatePending {
		return errInvalidState("only pending properties can be verified")
	}

	property.State = domain.PropertyStateVerified
	property.UpdatedAt = time.Now()

	l.emit(ctx, events.Event{
		Type:       events.EventPropertyVerified,
		PropertyID: property.ID,
		Actor:      caller,
		Payload:    events.PropertyVerifiedPayload{State: property.State},
	})
	return nil
}

// MarkForSale lists a Verified parcel. Only the current owner may list, and
// a nil price keeps the price recorded at registration. Restricting the
// source state to Verified keeps unverified claims off the marketplace.
func (l *Ledger) MarkForSale(ctx context.Context, caller string, propertyID uint64, price *uint64) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.registered(caller) {
		return errNotRegistered(caller)
	}

	property := l.propertyByID(propertyID)
	if property == nil {
		return errPropertyNotFound(propertyID)
	}
	if property.Owner != caller {
		return errUnauthorized("only the owner can list a property for sale")
	}
	if property.State != domain.PropertyStateVerified {
		return errInvalidState("only verified properties can be listed for sale")
	}

	if price != nil {
		property.Price = *price
	}
	property.State = domain.PropertyStateForSale
	property.UpdatedAt = time.Now()

	l.emit(ctx, events.Event{
		Type:       events.EventPropertyListed,
		PropertyID: property.ID,
		Actor:      caller,
		Payload:    events.PropertyListedPayload{State: property.State, Price: property.Price},
	})
	return nil
}

// RequestTransfer attaches a transfer request from the caller to a listed
// parcel. At most one request may be in flight; the state is unchanged until
// the owner or an admin resolves it.
func (l *Ledger) RequestTransfer(ctx context.Context, caller string, propertyID uint64) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.registered(caller) {
		return errNotRegistered(caller)
	}

	property := l.propertyByID(propertyID)
	if property == nil {
		return errPropertyNotFound(propertyID)
	}
	if property.State != domain.PropertyStateForSale {
		return errInvalidState("property is not for sale")
	}
	if property.Owner == caller {
		return errUnauthorized("owner cannot request transfer of own property")
	}
	if property.PendingTransfer != nil {
		return errTransferInProgress(propertyID)
	}

	property.PendingTransfer = &domain.TransferRequest{
		Requester:   caller,
		RequestedAt: time.Now(),
	}
	property.UpdatedAt = property.PendingTransfer.RequestedAt

	l.emit(ctx, events.Event{
		Type:       events.EventTransferRequested,
		PropertyID: property.ID,
		Actor:      caller,
		Payload:    events.TransferRequestedPayload{Requester: caller},
	})
	return nil
}

// ApproveTransfer completes the pending transfer: ownership moves to the
// requester and the parcel becomes Sold, which is terminal.
func (l *Ledger) ApproveTransfer(ctx context.Context, caller string, propertyID uint64) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	property, err := l.resolvableTransfer(caller, propertyID)
	if err != nil {
		return err
	}

	oldOwner := property.Owner
	property.Owner = property.PendingTransfer.Requester
	property.State = domain.PropertyStateSold
	property.PendingTransfer = nil
	property.UpdatedAt = time.Now()

	l.emit(ctx, events.Event{
		Type:       events.EventTransferApproved,
		PropertyID: property.ID,
		Actor:      caller,
		Payload: events.TransferApprovedPayload{
			OldOwner: oldOwner,
			NewOwner: property.Owner,
			State:    property.State,
		},
	})
	return nil
}

// RejectTransfer clears the pending request and leaves the parcel ForSale,
// so the owner may accept a different request later.
func (l *Ledger) RejectTransfer(ctx context.Context, caller string, propertyID uint64) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	property, err := l.resolvableTransfer(caller, propertyID)
	if err != nil {
		return err
	}

	requester := property.PendingTransfer.Requester
	property.PendingTransfer = nil
	property.UpdatedAt = time.Now()

	l.emit(ctx, events.Event{
		Type:       events.EventTransferRejected,
		PropertyID: property.ID,
		Actor:      caller,
		Payload:    events.TransferRejectedPayload{Requester: requester, State: property.State},
	})
	return nil
}

// resolvableTransfer validates the shared preconditions of approve/reject
// with the lock held: the request must exist before authorization is judged.
func (l *Ledger) resolvableTransfer(caller string, propertyID uint64) (*domain.Property, error) {
	identity, ok := l.identities[caller]
	if !ok || !identity.Registered {
		return nil, errNotRegistered(caller)
	}

	property := l.propertyByID(propertyID)
	if property == nil {
		return nil, errPropertyNotFound(propertyID)
	}
	if property.PendingTransfer == nil {
		return nil, errNoPendingTransfer(propertyID)
	}
	if property.Owner != caller && identity.Role != domain.RoleAdmin {
		return nil, errUnauthorized("only the owner or an admin can resolve a transfer")
	}
	return property, nil
}

func (l *Ledger) registered(address string) bool {
	identity, ok := l.identities[address]
	return ok && identity.Registered
}
