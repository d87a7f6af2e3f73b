package handlers

import (
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/land-registry/internal/api/dto"
	"github.com/spec-kit/land-registry/internal/auth"
	"github.com/spec-kit/land-registry/internal/registry"
)

// IdentitiesHandler exposes registration and role endpoints.
type IdentitiesHandler struct {
	ledger *registry.Ledger
}

// NewIdentitiesHandler constructs handler.
func NewIdentitiesHandler(ledger *registry.Ledger) *IdentitiesHandler {
	return &IdentitiesHandler{ledger: ledger}
}

// Register handles POST /v1/identities/register. The caller registers
// itself; the address comes from the session principal.
func (h *IdentitiesHandler) Register(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return fiber.NewError(http.StatusUnauthorized, http.StatusText(http.StatusUnauthorized))
	}

	identity, err := h.ledger.RegisterUser(c.UserContext(), principal.Address)
	if err != nil {
		return err
	}

	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"data": dto.FromIdentity(identity),
	})
}

// AssignRole handles POST /v1/identities/:address/role.
func (h *IdentitiesHandler) AssignRole(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return fiber.NewError(http.StatusUnauthorized, http.StatusText(http.StatusUnauthorized))
	}

	target := strings.ToLower(c.Params("address"))
	if !auth.ValidAddress(target) {
		return fiber.NewError(http.StatusBadRequest, "invalid address")
	}

	var req dto.AssignRoleRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}

	if err := h.ledger.AssignRole(c.UserContext(), principal.Address, target, req.Role); err != nil {
		return err
	}

	identity, err := h.ledger.Identity(target)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"data": dto.FromIdentity(identity),
	})
}

// Get handles GET /v1/identities/:address. Unauthenticated pure read; a
// never-registered address reports registered=false with the zero role.
func (h *IdentitiesHandler) Get(c *fiber.Ctx) error {
	address := strings.ToLower(c.Params("address"))
	if !auth.ValidAddress(address) {
		return fiber.NewError(http.StatusBadRequest, "invalid address")
	}

	role, registered := h.ledger.GetRole(address)
	resp := dto.IdentityResponse{
		Address:    address,
		Registered: registered,
		Role:       role,
	}
	if registered {
		if identity, err := h.ledger.Identity(address); err == nil {
			resp = dto.FromIdentity(identity)
		}
	}
	return c.JSON(fiber.Map{"data": resp})
}
