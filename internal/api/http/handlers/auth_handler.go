package handlers

import (
	"encoding/hex"
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/land-registry/internal/api/dto"
	"github.com/spec-kit/land-registry/internal/auth"
)

// AuthHandler exposes the challenge/session endpoints that identify callers
// by wallet signature. Possession of a session token confers identity only;
// all authorization happens in the ledger.
type AuthHandler struct {
	nonces *auth.NonceStore
	tokens *auth.TokenManager
}

// NewAuthHandler constructs handler.
func NewAuthHandler(nonces *auth.NonceStore, tokens *auth.TokenManager) *AuthHandler {
	return &AuthHandler{nonces: nonces, tokens: tokens}
}

// Challenge handles POST /v1/auth/challenge.
func (h *AuthHandler) Challenge(c *fiber.Ctx) error {
	var req dto.ChallengeRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if !auth.ValidAddress(req.Address) {
		return fiber.NewError(http.StatusBadRequest, "invalid address")
	}

	address := strings.ToLower(req.Address)
	nonce, err := h.nonces.Issue(c.UserContext(), address)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"data": dto.ChallengeResponse{Address: address, Nonce: nonce},
	})
}

// Session handles POST /v1/auth/session.
func (h *AuthHandler) Session(c *fiber.Ctx) error {
	var req dto.SessionRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if !auth.ValidAddress(req.Address) {
		return fiber.NewError(http.StatusBadRequest, "invalid address")
	}

	publicKey, err := hex.DecodeString(strings.TrimPrefix(req.PublicKey, "0x"))
	if err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid public key encoding")
	}
	signature, err := hex.DecodeString(strings.TrimPrefix(req.Signature, "0x"))
	if err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid signature encoding")
	}

	address := strings.ToLower(req.Address)
	if err := h.nonces.Consume(c.UserContext(), address, req.Nonce); err != nil {
		return fiber.NewError(http.StatusUnauthorized, err.Error())
	}
	if err := auth.VerifyChallenge(address, publicKey, req.Nonce, signature); err != nil {
		return fiber.NewError(http.StatusUnauthorized, err.Error())
	}

	token, exp, err := h.tokens.GenerateToken(address)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"data": dto.AuthResponse{Token: token, ExpiresAt: exp},
	})
}
