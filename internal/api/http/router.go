package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/land-registry/internal/api/http/handlers"
	"github.com/spec-kit/land-registry/internal/auth"
	"github.com/spec-kit/land-registry/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Identities     *handlers.IdentitiesHandler
	Properties     *handlers.PropertiesHandler
	Search         *handlers.SearchHandler
	Roles          auth.RoleChecker
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes. Reads are open; writes require a session
// principal, and the ledger re-checks role and registration on each one.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	v1 := app.Group("/v1")

	authGroup := v1.Group("/auth")
	authGroup.Post("/challenge", cfg.Auth.Challenge)
	authGroup.Post("/session", cfg.Auth.Session)

	identities := v1.Group("/identities")
	identities.Get("/:address", cfg.Identities.Get)
	identities.Post("/register", cfg.AuthMiddleware.Handle, auth.RequireAuthenticated(), cfg.Identities.Register)
	identities.Post("/:address/role", cfg.AuthMiddleware.Handle, auth.RequireAuthenticated(),
		auth.RequireRole(cfg.Roles, domain.RoleAdmin), cfg.Identities.AssignRole)

	properties := v1.Group("/properties")
	properties.Get("/", cfg.Properties.ListByStatus)
	properties.Get("/:id", cfg.Properties.Get)
	properties.Get("/:id/owner", cfg.Properties.GetOwner)
	properties.Get("/:id/price", cfg.Properties.GetPrice)

	protected := properties.Group("", cfg.AuthMiddleware.Handle, auth.RequireAuthenticated())
	protected.Post("/", cfg.Properties.RegisterLand)
	protected.Post("/:id/approve", auth.RequireRole(cfg.Roles, domain.RoleInspector, domain.RoleAdmin), cfg.Properties.Approve)
	protected.Post("/:id/list", cfg.Properties.ListForSale)
	protected.Post("/:id/transfer", cfg.Properties.RequestTransfer)
	protected.Post("/:id/transfer/approve", cfg.Properties.ApproveTransfer)
	protected.Post("/:id/transfer/reject", cfg.Properties.RejectTransfer)

	v1.Get("/search/properties", cfg.Search.SearchProperties)
}
