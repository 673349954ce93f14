package controllers

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/rewardcircle/rewardcircle/app/repository"
	"github.com/rewardcircle/rewardcircle/internal/pkg/rolecache"
	"github.com/rewardcircle/rewardcircle/internal/pkg/session"
	"github.com/rewardcircle/rewardcircle/internal/pkg/usercontext"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// HandleLogin authenticates a staff/owner account and opens a session.
// Invalid email and invalid password produce the same response.
func HandleLogin(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   "invalid_input",
			"message": "malformed request body",
		})
	}

	repo := repository.GetGlobalFactory().GetUserRepository()
	user, err := repo.GetByEmail(req.Email)
	if err != nil || !user.IsActive() || !user.CheckPassword(req.Password) {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error":   "unauthorized",
			"message": "invalid credentials",
		})
	}

	sess, err := session.GetSessionStore().Get(c)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   "internal_server_error",
			"message": "session unavailable",
		})
	}
	sess.Set(usercontext.KeyUserID, strconv.FormatUint(uint64(user.ID), 10))
	sess.Set(usercontext.KeyUserName, user.Name)
	if err := sess.Save(); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   "internal_server_error",
			"message": "failed to persist session",
		})
	}

	now := time.Now()
	user.LastLoginAt = &now
	if err := repo.Update(user); err == nil {
		rolecache.Put(user.ID, user.Role)
	}

	return c.JSON(fiber.Map{
		"id":    user.ID,
		"name":  user.Name,
		"email": user.Email,
		"role":  user.Role,
	})
}

// HandleLogout destroys the current session.
func HandleLogout(c *fiber.Ctx) error {
	actor := usercontext.GetActorContext(c)
	if actor.IsLoggedIn {
		rolecache.Invalidate(actor.UserID)
	}

	sess, err := session.GetSessionStore().Get(c)
	if err == nil {
		_ = sess.Destroy()
	}

	return c.JSON(fiber.Map{"ok": true})
}
