package dto

import (
	"time"

	"github.com/spec-kit/land-registry/internal/domain"
)

// AssignRoleRequest payload for admin role assignment.
type AssignRoleRequest struct {
	Role domain.Role `json:"role"`
}

// IdentityResponse describes a registered identity.
type IdentityResponse struct {
	Address      string      `json:"address"`
	Registered   bool        `json:"registered"`
	Role         domain.Role `json:"role"`
	RegisteredAt *time.Time  `json:"registered_at,omitempty"`
}

// FromIdentity maps the domain model.
func FromIdentity(identity *domain.Identity) IdentityResponse {
	resp := IdentityResponse{
		Address:    identity.Address,
		Registered: identity.Registered,
		Role:       identity.Role,
	}
	if identity.Registered {
		registeredAt := identity.RegisteredAt
		resp.RegisteredAt = &registeredAt
	}
	return resp
}
