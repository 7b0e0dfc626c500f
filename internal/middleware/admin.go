package middleware

import (
	"crypto/subtle"

	"github.com/gofiber/fiber/v2"

	"github.com/meeyqueue/case-backend/internal/config"
	"github.com/meeyqueue/case-backend/internal/services"
)

const localAdminToken = "admin_token"

// AdminToken admits operator scripts that send the configured X-Admin-Token
// header. It marks the request so JWTProtected and RequireRole let it through;
// requests without the header continue to the JWT checks unchanged.
func AdminToken(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if cfg.AdminToken != "" {
			header := c.Get("X-Admin-Token")
			if header != "" && subtle.ConstantTimeCompare([]byte(header), []byte(cfg.AdminToken)) == 1 {
				c.Locals(localAdminToken, true)
				c.SetUserContext(services.ContextWithActor(c.UserContext(), "admin-token"))
			}
		}
		return c.Next()
	}
}

// AdminRequired chains the checks for admin-only routes.
func AdminRequired(cfg *config.Config) []fiber.Handler {
	return []fiber.Handler{AdminToken(cfg), JWTProtected(cfg), RequireRole(RoleAdmin)}
}

func adminTokenAccepted(c *fiber.Ctx) bool {
	ok, _ := c.Locals(localAdminToken).(bool)
	return ok
}
