package middleware

import (
	"classquiz/backend/config"
	"classquiz/backend/utils"

	"github.com/gofiber/fiber/v2"
)

// AuthMiddleware rejects requests without a valid token and stores the
// caller's user id and role on the request.
func AuthMiddleware(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, err := utils.ExtractClaimsFromToken(c, cfg)
		if err != nil {
			return utils.Unauthorized(c, err.Error())
		}
		utils.StoreClaims(c, claims)
		return c.Next()
	}
}

// RequireRole must run after AuthMiddleware.
func RequireRole(role string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, ok := utils.CurrentUser(c)
		if !ok {
			return utils.Unauthorized(c, "Unauthorized")
		}
		if claims.Role != role {
			return utils.Forbidden(c, "Forbidden - "+role+" access required")
		}
		return c.Next()
	}
}
