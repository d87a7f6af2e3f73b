package registry

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/land-registry/internal/domain"
	"github.com/spec-kit/land-registry/internal/events"
	util "github.com/spec-kit/land-registry/pkg/util"
)

// RegisterUser registers the caller with the default User role. Not
// idempotent: a second call for the same address fails with
// ALREADY_REGISTERED and leaves the original role untouched.
func (l *Ledger) RegisterUser(ctx context.Context, caller string) (*domain.Identity, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if existing, ok := l.identities[caller]; ok && existing.Registered {
		return nil, errAlreadyRegistered(caller)
	}

	now := time.Now()
	identity := &domain.Identity{
		Address:      caller,
		Registered:   true,
		Role:         domain.RoleUser,
		RegisteredAt: now,
		UpdatedAt:    now,
	}
	l.identities[caller] = identity

	l.emit(ctx, events.Event{
		Type:     events.EventIdentityRegistered,
		Identity: caller,
		Actor:    caller,
		Payload:  events.IdentityRegisteredPayload{Role: domain.RoleUser},
	})
	l.emit(ctx, events.Event{
		Type:     events.EventRoleAssigned,
		Identity: caller,
		Actor:    caller,
		Payload:  events.RoleAssignedPayload{NewRole: domain.RoleUser},
	})
	return snapshotIdentity(identity), nil
}

// AssignRole sets the target's role. Only a registered Admin may assign, and
// the target must already be registered. There is deliberately no guard
// against demoting the last Admin; the operation logs when an admin demotes
// itself so operators can spot a lockout.
func (l *Ledger) AssignRole(ctx context.Context, caller, target string, role domain.Role) error {
	if !domain.ValidRole(role) {
		return util.NewValidationError("unknown role", map[string]any{"role": role})
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	actor, ok := l.identities[caller]
	if !ok || !actor.Registered {
		return errNotRegistered(caller)
	}
	if actor.Role != domain.RoleAdmin {
		return errUnauthorized("role assignment requires the Admin role")
	}

	subject, ok := l.identities[target]
	if !ok || !subject.Registered {
		return errNotRegistered(target)
	}

	if caller == target && role != domain.RoleAdmin {
		l.logger.Warn("admin demoting itself", zap.String("address", caller), zap.String("new_role", string(role)))
	}

	oldRole := subject.Role
	subject.Role = role
	subject.UpdatedAt = time.Now()

	l.emit(ctx, events.Event{
		Type:     events.EventRoleAssigned,
		Identity: target,
		Actor:    caller,
		Payload:  events.RoleAssignedPayload{OldRole: oldRole, NewRole: role},
	})
	return nil
}

// HasRole reports exact role membership for a registered identity. Pure read.
func (l *Ledger) HasRole(address string, role domain.Role) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	identity, ok := l.identities[address]
	return ok && identity.Registered && identity.Role == role
}

// GetRole returns the identity's role plus whether it was ever registered.
// A never-registered address reports the zero role (User) with registered
// false; callers that must distinguish the two check the second value.
func (l *Ledger) GetRole(address string) (domain.Role, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	identity, ok := l.identities[address]
	if !ok || !identity.Registered {
		return domain.RoleUser, false
	}
	return identity.Role, true
}

// IsRegistered reports whether the address has ever registered.
func (l *Ledger) IsRegistered(address string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	identity, ok := l.identities[address]
	return ok && identity.Registered
}

// Identity returns a snapshot of the identity record, or NOT_FOUND.
func (l *Ledger) Identity(address string) (*domain.Identity, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	identity, ok := l.identities[address]
	if !ok {
		return nil, util.NewNotFound("identity", map[string]any{"address": address})
	}
	return snapshotIdentity(identity), nil
}
