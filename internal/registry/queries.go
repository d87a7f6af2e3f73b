package registry

import (
	util "github.com/spec-kit/land-registry/pkg/util"

	"github.com/spec-kit/land-registry/internal/domain"
)

// Property returns a snapshot of the parcel record.
func (l *Ledger) Property(id uint64) (*domain.Property, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	property := l.propertyByID(id)
	if property == nil {
		return nil, errPropertyNotFound(id)
	}
	return snapshotProperty(property), nil
}

// PropertyStatus returns the parcel's lifecycle state.
func (l *Ledger) PropertyStatus(id uint64) (domain.PropertyState, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	property := l.propertyByID(id)
	if property == nil {
		return "", errPropertyNotFound(id)
	}
	return property.State, nil
}

// IsPropertyForSale reports whether the parcel is currently listed.
func (l *Ledger) IsPropertyForSale(id uint64) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	property := l.propertyByID(id)
	if property == nil {
		return false, errPropertyNotFound(id)
	}
	return property.ForSale(), nil
}

// PropertyPrice returns the recorded price. Readable in every state,
// including Sold.
func (l *Ledger) PropertyPrice(id uint64) (uint64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	property := l.propertyByID(id)
	if property == nil {
		return 0, errPropertyNotFound(id)
	}
	return property.Price, nil
}

// OwnerOf returns the current owner address.
func (l *Ledger) OwnerOf(id uint64) (string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	property := l.propertyByID(id)
	if property == nil {
		return "", errPropertyNotFound(id)
	}
	return property.Owner, nil
}

// PropertiesByStatus returns ids of parcels in the given state, in
// registration order.
func (l *Ledger) PropertiesByStatus(state domain.PropertyState) ([]uint64, error) {
	if !domain.ValidPropertyState(state) {
		return nil, util.NewValidationError("unknown property state", map[string]any{"state": state})
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	ids := make([]uint64, 0)
	for _, property := range l.properties {
		if property.State == state {
			ids = append(ids, property.ID)
		}
	}
	return ids, nil
}

// PropertyCount reports how many parcels the ledger holds.
func (l *Ledger) PropertyCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.properties)
}
