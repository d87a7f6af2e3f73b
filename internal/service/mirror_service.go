package service

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/spec-kit/land-registry/internal/domain"
	"github.com/spec-kit/land-registry/internal/events"
	"github.com/spec-kit/land-registry/internal/repository"
)

// MirrorService projects ledger events into the off-chain database. It is a
// one-way consumer: projection failures are logged and never reach the
// ledger, and every write is idempotent so redelivered events are harmless.
type MirrorService struct {
	properties repository.PropertyMirrorRepository
	identities repository.IdentityMirrorRepository
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// NewMirrorService creates the service.
func NewMirrorService(properties repository.PropertyMirrorRepository, identities repository.IdentityMirrorRepository, dispatcher events.Dispatcher, logger *zap.Logger) *MirrorService {
	return &MirrorService{
		properties: properties,
		identities: identities,
		dispatcher: dispatcher,
		logger:     logger,
	}
}

// RegisterHandlers subscribes the projection to every ledger event.
func (m *MirrorService) RegisterHandlers() {
	if m.dispatcher == nil {
		return
	}
	events.SubscribeAll(m.dispatcher, m.handle)
}

func (m *MirrorService) handle(ctx context.Context, event events.Event) error {
	if err := m.project(ctx, event); err != nil {
		m.logger.Warn("mirror projection failed",
			zap.String("event_type", string(event.Type)),
			zap.Uint64("property_id", event.PropertyID),
			zap.String("identity", event.Identity),
			zap.Error(err))
	}
	return nil
}

func (m *MirrorService) project(ctx context.Context, event events.Event) error {
	switch event.Type {
	case events.EventIdentityRegistered:
		payload, ok := event.Payload.(events.IdentityRegisteredPayload)
		if !ok {
			return errUnexpectedPayload(event)
		}
		return m.identities.Upsert(ctx, event.Identity, payload.Role, event.Timestamp)

	case events.EventRoleAssigned:
		payload, ok := event.Payload.(events.RoleAssignedPayload)
		if !ok {
			return errUnexpectedPayload(event)
		}
		return m.identities.UpdateRole(ctx, event.Identity, payload.NewRole)

	case events.EventLandRegistered:
		payload, ok := event.Payload.(events.LandRegisteredPayload)
		if !ok {
			return errUnexpectedPayload(event)
		}
		return m.properties.Upsert(ctx, propertyFromRegistration(event, payload))

	case events.EventPropertyVerified:
		payload, ok := event.Payload.(events.PropertyVerifiedPayload)
		if !ok {
			return errUnexpectedPayload(event)
		}
		return m.properties.UpdateState(ctx, event.PropertyID, payload.State)

	case events.EventPropertyListed:
		payload, ok := event.Payload.(events.PropertyListedPayload)
		if !ok {
			return errUnexpectedPayload(event)
		}
		return m.properties.UpdateListing(ctx, event.PropertyID, payload.State, payload.Price)

	case events.EventTransferRequested:
		payload, ok := event.Payload.(events.TransferRequestedPayload)
		if !ok {
			return errUnexpectedPayload(event)
		}
		requester := payload.Requester
		return m.properties.UpdatePendingRequester(ctx, event.PropertyID, &requester)

	case events.EventTransferApproved:
		payload, ok := event.Payload.(events.TransferApprovedPayload)
		if !ok {
			return errUnexpectedPayload(event)
		}
		return m.properties.UpdateOwner(ctx, event.PropertyID, payload.NewOwner, payload.State)

	case events.EventTransferRejected:
		return m.properties.UpdatePendingRequester(ctx, event.PropertyID, nil)
	}
	return nil
}

func propertyFromRegistration(event events.Event, payload events.LandRegisteredPayload) *domain.Property {
	return &domain.Property{
		ID:           event.PropertyID,
		SurveyID:     payload.SurveyID,
		DocumentHash: payload.DocumentHash,
		Location:     payload.Location,
		Area:         payload.Area,
		Price:        payload.Price,
		Owner:        payload.Owner,
		State:        payload.State,
		RegisteredAt: event.Timestamp,
		UpdatedAt:    event.Timestamp,
	}
}

func errUnexpectedPayload(event events.Event) error {
	return errors.New("unexpected payload type for event " + string(event.Type))
}
