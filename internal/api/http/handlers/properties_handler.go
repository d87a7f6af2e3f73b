package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/land-registry/internal/api/dto"
	"github.com/spec-kit/land-registry/internal/auth"
	"github.com/spec-kit/land-registry/internal/domain"
	"github.com/spec-kit/land-registry/internal/registry"
)

// PropertiesHandler exposes the lifecycle write operations and the
// authoritative read queries, all served directly from the ledger.
type PropertiesHandler struct {
	ledger *registry.Ledger
}

// NewPropertiesHandler constructs handler.
func NewPropertiesHandler(ledger *registry.Ledger) *PropertiesHandler {
	return &PropertiesHandler{ledger: ledger}
}

// RegisterLand handles POST /v1/properties.
func (h *PropertiesHandler) RegisterLand(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return fiber.NewError(http.StatusUnauthorized, http.StatusText(http.StatusUnauthorized))
	}

	var req dto.RegisterLandRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if req.DocumentHash == "" {
		return fiber.NewError(http.StatusBadRequest, "document_hash required")
	}

	id, err := h.ledger.RegisterLand(c.UserContext(), principal.Address, registry.LandRegistration{
		SurveyID:     req.SurveyID,
		DocumentHash: req.DocumentHash,
		Location:     req.Location,
		Area:         req.Area,
		Price:        req.Price,
	})
	if err != nil {
		return err
	}

	property, err := h.ledger.Property(id)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"data": dto.FromProperty(property),
	})
}

// Approve handles POST /v1/properties/:id/approve.
func (h *PropertiesHandler) Approve(c *fiber.Ctx) error {
	return h.mutate(c, h.ledger.ApproveProperty)
}

// ListForSale handles POST /v1/properties/:id/list.
func (h *PropertiesHandler) ListForSale(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return fiber.NewError(http.StatusUnauthorized, http.StatusText(http.StatusUnauthorized))
	}
	id, err := parsePropertyID(c)
	if err != nil {
		return err
	}

	var req dto.ListForSaleRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(http.StatusBadRequest, "invalid payload")
		}
	}

	if err := h.ledger.MarkForSale(c.UserContext(), principal.Address, id, req.Price); err != nil {
		return err
	}
	return h.respondWithProperty(c, id)
}

// RequestTransfer handles POST /v1/properties/:id/transfer.
func (h *PropertiesHandler) RequestTransfer(c *fiber.Ctx) error {
	return h.mutate(c, h.ledger.RequestTransfer)
}

// ApproveTransfer handles POST /v1/properties/:id/transfer/approve.
func (h *PropertiesHandler) ApproveTransfer(c *fiber.Ctx) error {
	return h.mutate(c, h.ledger.ApproveTransfer)
}

// RejectTransfer handles POST /v1/properties/:id/transfer/reject.
func (h *PropertiesHandler) RejectTransfer(c *fiber.Ctx) error {
	return h.mutate(c, h.ledger.RejectTransfer)
}

// Get handles GET /v1/properties/:id. Unauthenticated pure read.
func (h *PropertiesHandler) Get(c *fiber.Ctx) error {
	id, err := parsePropertyID(c)
	if err != nil {
		return err
	}
	return h.respondWithProperty(c, id)
}

// GetOwner handles GET /v1/properties/:id/owner.
func (h *PropertiesHandler) GetOwner(c *fiber.Ctx) error {
	id, err := parsePropertyID(c)
	if err != nil {
		return err
	}
	owner, err := h.ledger.OwnerOf(id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"property_id": id, "owner": owner}})
}

// GetPrice handles GET /v1/properties/:id/price.
func (h *PropertiesHandler) GetPrice(c *fiber.Ctx) error {
	id, err := parsePropertyID(c)
	if err != nil {
		return err
	}
	price, err := h.ledger.PropertyPrice(id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"property_id": id, "price": price}})
}

// ListByStatus handles GET /v1/properties?status=FOR_SALE. Returns ids in
// registration order.
func (h *PropertiesHandler) ListByStatus(c *fiber.Ctx) error {
	state := domain.PropertyState(c.Query("status"))
	if state == "" {
		return fiber.NewError(http.StatusBadRequest, "status query parameter required")
	}

	ids, err := h.ledger.PropertiesByStatus(state)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"status": state, "property_ids": ids}})
}

// mutate runs a caller+id lifecycle operation and responds with the updated
// parcel. Approve, transfer request and transfer resolution all share this
// shape.
func (h *PropertiesHandler) mutate(c *fiber.Ctx, op func(ctx context.Context, caller string, propertyID uint64) error) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return fiber.NewError(http.StatusUnauthorized, http.StatusText(http.StatusUnauthorized))
	}
	id, err := parsePropertyID(c)
	if err != nil {
		return err
	}
	if err := op(c.UserContext(), principal.Address, id); err != nil {
		return err
	}
	return h.respondWithProperty(c, id)
}

func (h *PropertiesHandler) respondWithProperty(c *fiber.Ctx, id uint64) error {
	property, err := h.ledger.Property(id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.FromProperty(property)})
}

func parsePropertyID(c *fiber.Ctx) (uint64, error) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, fiber.NewError(http.StatusBadRequest, "invalid property id")
	}
	return id, nil
}
