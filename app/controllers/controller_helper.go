package controllers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/rewardcircle/rewardcircle/app/repository"
	"github.com/rewardcircle/rewardcircle/internal/pkg/database"
	"github.com/rewardcircle/rewardcircle/internal/pkg/loyalty"
)

// getEngine builds a ledger engine over the global database handle and
// repositories.
func getEngine() *loyalty.Engine {
	return loyalty.NewEngine(database.GetDB(), repository.GetGlobalRepositories())
}

// statusForError maps the ledger engine's failure taxonomy onto HTTP
// status plus a stable machine-readable code.
func statusForError(err error) (int, string) {
	switch {
	case errors.Is(err, loyalty.ErrInvalidInput):
		return fiber.StatusBadRequest, "invalid_input"
	case errors.Is(err, loyalty.ErrInvalidReward):
		return fiber.StatusBadRequest, "invalid_reward"
	case errors.Is(err, loyalty.ErrInsufficientBalance):
		return fiber.StatusBadRequest, "insufficient_balance"
	case errors.Is(err, loyalty.ErrCustomerNotFound), errors.Is(err, loyalty.ErrRewardNotFound):
		return fiber.StatusNotFound, "not_found"
	case errors.Is(err, loyalty.ErrPersistence):
		return fiber.StatusInternalServerError, "persistence_failure"
	case errors.Is(err, gorm.ErrRecordNotFound):
		return fiber.StatusNotFound, "not_found"
	default:
		return fiber.StatusInternalServerError, "internal_server_error"
	}
}

// jsonError renders an engine failure as the standard error body.
func jsonError(c *fiber.Ctx, err error) error {
	status, code := statusForError(err)
	return c.Status(status).JSON(fiber.Map{
		"error":   code,
		"message": err.Error(),
	})
}
