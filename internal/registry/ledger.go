package registry

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/land-registry/internal/domain"
	"github.com/spec-kit/land-registry/internal/events"
)

// Ledger is the authoritative record of identities, properties, and their
// lifecycle. All mutating operations serialize on one mutex: each commits
// atomically, re-validating its preconditions against live state before
// applying effects. External stores only mirror what the ledger emits.
type Ledger struct {
	mu         sync.Mutex
	identities map[string]*domain.Identity
	properties []*domain.Property
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// NewLedger bootstraps the ledger and auto-registers adminAddress with the
// Admin role. This is the only implicit registration; it establishes the
// root of trust for role assignment.
func NewLedger(adminAddress string, dispatcher events.Dispatcher, logger *zap.Logger) *Ledger {
	l := &Ledger{
		identities: make(map[string]*domain.Identity),
		dispatcher: dispatcher,
		logger:     logger,
	}

	now := time.Now()
	l.identities[adminAddress] = &domain.Identity{
		Address:      adminAddress,
		Registered:   true,
		Role:         domain.RoleAdmin,
		RegisteredAt: now,
		UpdatedAt:    now,
	}
	logger.Info("ledger bootstrapped", zap.String("admin", adminAddress))
	return l
}

// propertyByID resolves a property while the lock is held. IDs are assigned
// sequentially from 1, so the slice index is id-1.
func (l *Ledger) propertyByID(id uint64) *domain.Property {
	if id == 0 || id > uint64(len(l.properties)) {
		return nil
	}
	return l.properties[id-1]
}

// emit publishes one event for a committed operation. Called with the lock
// held so per-entity event order matches commit order.
func (l *Ledger) emit(ctx context.Context, event events.Event) {
	if l.dispatcher == nil {
		return
	}
	event.ID = uuid.NewString()
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	if err := l.dispatcher.Publish(ctx, event); err != nil {
		l.logger.Warn("event publish failed", zap.String("event_type", string(event.Type)), zap.Error(err))
	}
}

func snapshotProperty(p *domain.Property) *domain.Property {
	cp := *p
	if p.PendingTransfer != nil {
		pt := *p.PendingTransfer
		cp.PendingTransfer = &pt
	}
	return &cp
}

func snapshotIdentity(i *domain.Identity) *domain.Identity {
	cp := *i
	return &cp
}
