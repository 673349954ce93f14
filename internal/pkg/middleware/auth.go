package middleware

import (
	"github.com/gofiber/fiber/v2"

	"github.com/rewardcircle/rewardcircle/internal/pkg/usercontext"
)

// RequireStaff gates endpoints on a staff or owner session. Returns JSON
// 401/403; it never reveals whether a referenced resource exists.
func RequireStaff(c *fiber.Ctx) error {
	actor := usercontext.GetActorContext(c)
	if !actor.IsLoggedIn {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error":   "unauthorized",
			"message": "login required",
		})
	}
	if !actor.IsStaff() {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error":   "forbidden",
			"message": "staff role required",
		})
	}
	return c.Next()
}

// RequireOwner gates endpoints on an owner session.
func RequireOwner(c *fiber.Ctx) error {
	actor := usercontext.GetActorContext(c)
	if !actor.IsLoggedIn {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error":   "unauthorized",
			"message": "login required",
		})
	}
	if !actor.IsOwner() {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error":   "forbidden",
			"message": "owner role required",
		})
	}
	return c.Next()
}
