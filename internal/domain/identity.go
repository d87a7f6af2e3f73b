package domain

import "time"

// Role enumerates privilege tiers for registered identities. Checks are by
// explicit role-set membership, never by comparing positions in this list.
type Role string

const (
	RoleUser      Role = "USER"
	RoleInspector Role = "INSPECTOR"
	RoleAdmin     Role = "ADMIN"
)

// ValidRole reports whether the value is one of the known tiers.
func ValidRole(r Role) bool {
	switch r {
	case RoleUser, RoleInspector, RoleAdmin:
		return true
	}
	return false
}

// Identity is a principal recognized by the registry, keyed by an opaque
// address token. Identities are created on registration and never deleted;
// roles may be reassigned but never revoked back to unregistered.
type Identity struct {
	Address      string
	Registered   bool
	Role         Role
	RegisteredAt time.Time
	UpdatedAt    time.Time
}
