package auth

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/land-registry/internal/domain"
	apperrors "github.com/spec-kit/land-registry/pkg/util"
)

// RoleChecker answers role-membership queries; the ledger implements it.
type RoleChecker interface {
	HasRole(address string, role domain.Role) bool
	IsRegistered(address string) bool
}

// RequireAuthenticated ensures a principal was loaded by the middleware.
func RequireAuthenticated() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, ok := PrincipalFromContext(c); !ok {
			return fiber.NewError(http.StatusUnauthorized, http.StatusText(http.StatusUnauthorized))
		}
		return c.Next()
	}
}

// RequireRole rejects callers outside the allowed role set. This is a route
// convenience only; the ledger repeats the check inside its transaction
// boundary, so a route misconfiguration cannot widen authority.
func RequireRole(checker RoleChecker, allowed ...domain.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok {
			return fiber.NewError(http.StatusUnauthorized, http.StatusText(http.StatusUnauthorized))
		}
		if !checker.IsRegistered(principal.Address) {
			return apperrors.NewForbidden("NOT_REGISTERED", "registration required")
		}
		for _, role := range allowed {
			if checker.HasRole(principal.Address, role) {
				return c.Next()
			}
		}
		return apperrors.NewForbidden("UNAUTHORIZED", "insufficient role")
	}
}
