package usercontext

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/rewardcircle/rewardcircle/app/models"
)

// ActorContext is the externally-resolved actor identity for a request:
// who is calling and which role they hold. The ledger engine consumes it
// only as an opaque actor id plus a role gate.
type ActorContext struct {
	UserID     uint   `json:"user_id"`
	Name       string `json:"name"`
	Role       string `json:"role"`
	IsLoggedIn bool   `json:"is_logged_in"`
}

// ActorID returns the opaque id recorded on ledger transactions.
func (a ActorContext) ActorID() string {
	if !a.IsLoggedIn {
		return ""
	}
	return strconv.FormatUint(uint64(a.UserID), 10)
}

// IsOwner reports whether the actor holds the owner role.
func (a ActorContext) IsOwner() bool {
	return a.IsLoggedIn && a.Role == models.ROLE_OWNER
}

// IsStaff reports whether the actor may record purchases and redemptions
// (owners can do everything staff can).
func (a ActorContext) IsStaff() bool {
	return a.IsLoggedIn && (a.Role == models.ROLE_STAFF || a.Role == models.ROLE_OWNER)
}

// GetActorContext retrieves the actor context from fiber context.
// Returns an anonymous context if none is set.
func GetActorContext(c *fiber.Ctx) ActorContext {
	if ctx := c.Locals(KeyActorContext); ctx != nil {
		return ctx.(ActorContext)
	}
	return ActorContext{IsLoggedIn: false}
}

// IsLoggedIn checks if the current request carries an authenticated actor
func IsLoggedIn(c *fiber.Ctx) bool {
	return GetActorContext(c).IsLoggedIn
}
